package main

import (
	"log/slog"
	"strings"
	"sync"

	"subrec/internal/config"
	"subrec/internal/logging"
	"subrec/internal/scraper"
	"subrec/internal/scraper/appletv"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	registryOnce sync.Once
	registry     *scraper.Registry
	registryErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
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
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// ensureRegistry builds the static provider table once at startup. New
// providers are added here, explicitly.
func (c *commandContext) ensureRegistry() (*scraper.Registry, error) {
	c.registryOnce.Do(func() {
		c.registry, c.registryErr = scraper.NewRegistry(
			appletv.Registration(),
		)
	})
	return c.registry, c.registryErr
}
