package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"blueprints/internal/logging"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultMaxBytes  = 50 << 20
	defaultUserAgent = "blueprints/dev"
	errorBodyLimit   = 4096
)

// Error describes a failed download.
type Error struct {
	URL    string
	Status string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Status != "" && e.Err != nil:
		return fmt.Sprintf("download %s (%s): %v", e.URL, e.Status, e.Err)
	case e.Status != "":
		return fmt.Sprintf("download %s: %s", e.URL, e.Status)
	default:
		return fmt.Sprintf("download %s: %v", e.URL, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorKind classifies the error for exit reporting.
func (e *Error) ErrorKind() string { return "download" }

// ErrTooLarge is wrapped when a body exceeds the size ceiling.
var ErrTooLarge = errors.New("exceeds size limit")

// Config describes the client configuration.
type Config struct {
	Timeout    time.Duration
	MaxBytes   int64
	UserAgent  string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client performs bounded HTTP downloads.
type Client struct {
	http      *http.Client
	maxBytes  int64
	userAgent string
	logger    *slog.Logger
}

// New creates a Client from cfg, filling unset fields with defaults.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		http:      client,
		maxBytes:  maxBytes,
		userAgent: userAgent,
		logger:    logging.NewComponentLogger(cfg.Logger, "fetch"),
	}
}

// Get downloads url into memory.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		var detail error
		if text := strings.TrimSpace(string(body)); text != "" {
			detail = errors.New(text)
		}
		return nil, &Error{URL: url, Status: resp.Status, Err: detail}
	}
	if resp.ContentLength > c.maxBytes {
		return nil, &Error{URL: url, Err: fmt.Errorf("%s body %w of %s", humanize.IBytes(uint64(resp.ContentLength)), ErrTooLarge, humanize.IBytes(uint64(c.maxBytes)))}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, &Error{URL: url, Err: err}
	}
	if int64(len(data)) > c.maxBytes {
		return nil, &Error{URL: url, Err: fmt.Errorf("body %w of %s", ErrTooLarge, humanize.IBytes(uint64(c.maxBytes)))}
	}
	c.logger.Info("downloaded",
		logging.String("url", url),
		logging.String("size", humanize.IBytes(uint64(len(data)))),
	)
	return data, nil
}

// DownloadImage downloads url and writes it to dest. The body must be an
// image.
func (c *Client) DownloadImage(ctx context.Context, url, dest string) error {
	data, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	kind := mimetype.Detect(data)
	if !strings.HasPrefix(kind.String(), "image/") {
		return &Error{URL: url, Err: fmt.Errorf("expected an image, got %s", kind.String())}
	}
	return writeFile(dest, data)
}

// DownloadArchive downloads a zip archive from url and extracts its
// top-level files into dir. The extracted names are returned.
func (c *Client) DownloadArchive(ctx context.Context, url, dir string) ([]string, error) {
	data, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	names, skipped, err := ExtractZip(data, dir, c.maxBytes)
	if err != nil {
		return nil, &Error{URL: url, Err: err}
	}
	for _, entry := range skipped {
		if entry.Reason == "nested" || entry.Reason == "hidden" {
			c.logger.Debug("skipping archive entry", logging.String("entry", entry.Name), logging.String("reason", entry.Reason))
			continue
		}
		c.logger.Warn("skipping archive entry that clashes with a blueprint file",
			logging.String("entry", entry.Name),
			logging.String("reason", entry.Reason),
		)
	}
	return names, nil
}

func writeFile(dest string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("ensure download directory: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return nil
}
