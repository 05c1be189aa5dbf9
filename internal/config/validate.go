package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSubmission(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.BlueprintDir == "" {
		return errors.New("paths.blueprint_dir must be set")
	}
	if c.Paths.DatabasePath == "" {
		return errors.New("paths.database_path must be set")
	}
	return nil
}

func (c *Config) validateSubmission() error {
	if c.Submission.DownloadTimeout <= 0 {
		return errors.New("submission.download_timeout must be positive")
	}
	if len(c.Submission.DefaultCreator) > 40 {
		return errors.New("submission.default_creator must be at most 40 characters")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (expected console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
