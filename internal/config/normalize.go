package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSubmission()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("BLUEPRINTS_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.BlueprintDir = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("BLUEPRINTS_DATABASE"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DatabasePath = strings.TrimSpace(value)
	}

	var err error
	if strings.TrimSpace(c.Paths.BlueprintDir) == "" {
		c.Paths.BlueprintDir = defaultBlueprintDir
	}
	if c.Paths.BlueprintDir, err = expandPath(c.Paths.BlueprintDir); err != nil {
		return fmt.Errorf("paths.blueprint_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DatabasePath) == "" {
		c.Paths.DatabasePath = defaultDatabasePath
	}
	if c.Paths.DatabasePath, err = expandPath(c.Paths.DatabasePath); err != nil {
		return fmt.Errorf("paths.database_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
			return fmt.Errorf("paths.log_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeSubmission() {
	c.Submission.DefaultCreator = strings.TrimSpace(c.Submission.DefaultCreator)
	if c.Submission.DefaultCreator == "" {
		c.Submission.DefaultCreator = defaultCreator
	}
	if c.Submission.MaxDownloadMiB <= 0 {
		c.Submission.MaxDownloadMiB = defaultMaxDownloadMiB
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
