package config

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable. Credentials are not required
// here; commands that reach external catalogs call RequireCatalog.
func (c *Config) Validate() error {
	if err := c.validateEndpoints(); err != nil {
		return err
	}
	if err := c.validateTimeouts(); err != nil {
		return err
	}
	if err := c.validateExchange(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// RequireCatalog reports whether the credentials needed for online catalog
// lookups are present.
func (c *Config) RequireCatalog() error {
	var missing []string
	if c.TMDB.APIKey == "" {
		missing = append(missing, "tmdb.api_key (TMDB_API_KEY)")
	}
	if c.RAWG.APIKey == "" {
		missing = append(missing, "rawg.api_key (RAWG_API_KEY)")
	}
	if len(missing) == 0 {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = defaultConfigPath
	}
	return fmt.Errorf("%s required. Set the env vars or edit %s (create with 'gamelxrd config init')", strings.Join(missing, ", "), defaultPath)
}

func (c *Config) validateEndpoints() error {
	for key, value := range map[string]string{
		"tmdb.base_url":       c.TMDB.BaseURL,
		"tmdb.image_base_url": c.TMDB.ImageBaseURL,
		"omdb.base_url":       c.OMDb.BaseURL,
		"tvmaze.base_url":     c.TVMaze.BaseURL,
		"rawg.base_url":       c.RAWG.BaseURL,
		"steam.base_url":      c.Steam.BaseURL,
		"exchange.base_url":   c.Exchange.BaseURL,
		"llm.base_url":        c.LLM.BaseURL,
		"twitch.token_url":    c.Twitch.TokenURL,
		"twitch.base_url":     c.Twitch.BaseURL,
	} {
		if err := validateURL(key, value); err != nil {
			return err
		}
	}
	if c.Pricing.CheckoutURL != "" {
		if err := validateURL("pricing.checkout_url", c.Pricing.CheckoutURL); err != nil {
			return err
		}
	}
	if strings.ContainsAny(c.Twitch.Channel, " /?&#") {
		return fmt.Errorf("twitch.channel must be a bare login name, got %q", c.Twitch.Channel)
	}
	if len(c.Steam.Country) != 2 {
		return fmt.Errorf("steam.country must be a two-letter country code, got %q", c.Steam.Country)
	}
	return nil
}

func (c *Config) validateTimeouts() error {
	return ensurePositiveMap(map[string]int{
		"llm.timeout_seconds":             c.LLM.TimeoutSeconds,
		"catalog.request_timeout_seconds": c.Catalog.RequestTimeoutSeconds,
		"catalog.aux_timeout_seconds":     c.Catalog.AuxTimeoutSeconds,
		"catalog.search_limit":            c.Catalog.SearchLimit,
	})
}

func (c *Config) validateExchange() error {
	rate := c.Exchange.FallbackRate
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return errors.New("exchange.fallback_rate must be a positive number")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.TTLHours < 0 {
		return errors.New("cache.ttl_hours must be zero or positive")
	}
	if c.Cache.Enabled && c.Cache.Path == "" {
		return errors.New("cache.path must be set when cache.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

func validateURL(key, value string) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", key, value)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", key, value)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
