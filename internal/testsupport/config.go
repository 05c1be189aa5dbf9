package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"blueprints/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.BlueprintDir = filepath.Join(base, "blueprints")
	cfgVal.Paths.DatabasePath = filepath.Join(base, "db", "blueprints.db")
	cfgVal.Paths.LogDir = ""
	cfgVal.Submission.DownloadTimeout = 5

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	if err := os.MkdirAll(builder.cfg.Paths.BlueprintDir, 0o755); err != nil {
		t.Fatalf("create blueprint dir: %v", err)
	}
	return builder.cfg
}

// WithDefaultCreator overrides the creator used for anonymous submissions.
func WithDefaultCreator(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Submission.DefaultCreator = name
	}
}
