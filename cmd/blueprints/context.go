package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"blueprints/internal/config"
	"blueprints/internal/logging"
	"blueprints/internal/runlock"
	"blueprints/internal/store"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	runID      string
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
			if err := cfg.Validate(); err != nil {
				c.configErr = err
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// log returns the invocation logger, tagged with a fresh run id.
func (c *commandContext) log() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.config)
		if err != nil {
			logger, _ = logging.New(logging.Options{Level: "info", Format: "console"})
			logger.Warn("falling back to default logger", logging.Error(err))
		}
		c.logger, c.runID = logging.WithRunID(logger)
	})
	return c.logger
}

// withStore opens the configured store for the duration of fn. With
// exclusive set, the run lock is held as well so mutating commands never
// overlap.
func (c *commandContext) withStore(exclusive bool, fn func(*config.Config, *store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if exclusive {
		lock, err := runlock.Acquire(cfg.LockPath())
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				c.log().Warn("failed to release run lock", logging.Error(err))
			}
		}()
	}
	st, err := store.Open(cfg.Paths.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(cfg, st)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
