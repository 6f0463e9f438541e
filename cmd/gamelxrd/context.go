package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"gamelxrd/internal/catalog"
	"gamelxrd/internal/catalogcache"
	"gamelxrd/internal/classify"
	"gamelxrd/internal/config"
	"gamelxrd/internal/keywords"
	"gamelxrd/internal/logging"
	"gamelxrd/internal/metrics"
	"gamelxrd/internal/pricing"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	tablesOnce sync.Once
	tables     *keywords.Table
	tablesErr  error
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

// cliLogger logs to stderr only. The serve command builds its own logger that
// also writes the log file.
func (c *commandContext) cliLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) keywordTables() (*keywords.Table, error) {
	c.tablesOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.tablesErr = err
			return
		}
		c.tables, c.tablesErr = keywords.Load(cfg.Pricing.KeywordsPath)
		if c.tablesErr != nil {
			c.tablesErr = fmt.Errorf("load keyword tables: %w", c.tablesErr)
		}
	})
	return c.tables, c.tablesErr
}

func (c *commandContext) classifier() (*classify.Classifier, error) {
	tables, err := c.keywordTables()
	if err != nil {
		return nil, err
	}
	return classify.New(tables), nil
}

func (c *commandContext) engine() (*pricing.Engine, error) {
	classifier, err := c.classifier()
	if err != nil {
		return nil, err
	}
	return pricing.New(classifier), nil
}

// openCache opens the descriptor cache, or returns nil when it is disabled.
func (c *commandContext) openCache(logger *slog.Logger, reg *metrics.Registry) (*catalogcache.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
	store, err := catalogcache.Open(cfg.Cache.Path, ttl, catalogcache.WithLogger(logger), catalogcache.WithMetrics(reg))
	if err != nil {
		return nil, fmt.Errorf("open descriptor cache: %w", err)
	}
	return store, nil
}

// catalogService wires the online catalog. The returned cleanup closes the
// cache and must always be called.
func (c *commandContext) catalogService(logger *slog.Logger, reg *metrics.Registry) (*catalog.Service, *catalogcache.Store, func(), error) {
	noop := func() {}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, noop, err
	}
	if err := cfg.RequireCatalog(); err != nil {
		return nil, nil, noop, err
	}
	tables, err := c.keywordTables()
	if err != nil {
		return nil, nil, noop, err
	}
	store, err := c.openCache(logger, reg)
	if err != nil {
		return nil, nil, noop, err
	}
	cleanup := noop
	var cache catalog.Cache
	if store != nil {
		cache = store
		cleanup = func() { _ = store.Close() }
	}
	svc, err := catalog.NewFromConfig(cfg, logger, reg, cache, tables)
	if err != nil {
		cleanup()
		return nil, nil, noop, err
	}
	return svc, store, cleanup, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
