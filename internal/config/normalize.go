package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCatalogSources()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	if err := c.normalizePricing(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir()
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeCatalogSources() {
	c.TMDB.APIKey = keyOrEnv(c.TMDB.APIKey, "TMDB_API_KEY")
	c.TMDB.BaseURL = orDefault(c.TMDB.BaseURL, defaultTMDBBaseURL)
	c.TMDB.Language = orDefault(c.TMDB.Language, defaultTMDBLanguage)
	c.TMDB.ImageBaseURL = orDefault(c.TMDB.ImageBaseURL, defaultTMDBImageBaseURL)

	c.OMDb.APIKey = keyOrEnv(c.OMDb.APIKey, "OMDB_API_KEY")
	c.OMDb.BaseURL = orDefault(c.OMDb.BaseURL, defaultOMDbBaseURL)

	c.TVMaze.BaseURL = orDefault(c.TVMaze.BaseURL, defaultTVMazeBaseURL)

	c.RAWG.APIKey = keyOrEnv(c.RAWG.APIKey, "RAWG_API_KEY")
	c.RAWG.BaseURL = orDefault(c.RAWG.BaseURL, defaultRAWGBaseURL)

	c.Steam.BaseURL = orDefault(c.Steam.BaseURL, defaultSteamBaseURL)
	c.Steam.Country = strings.ToLower(orDefault(c.Steam.Country, defaultSteamCountry))
	c.Steam.Language = orDefault(c.Steam.Language, defaultSteamLanguage)

	c.Exchange.APIKey = keyOrEnv(c.Exchange.APIKey, "EXCHANGERATE_API_KEY")
	c.Exchange.BaseURL = orDefault(c.Exchange.BaseURL, defaultExchangeBaseURL)
	if c.Exchange.FallbackRate == 0 {
		c.Exchange.FallbackRate = defaultExchangeFallbackRate
	}

	c.LLM.APIKey = keyOrEnv(c.LLM.APIKey, "GROQ_API_KEY")
	c.LLM.BaseURL = orDefault(c.LLM.BaseURL, defaultLLMBaseURL)
	c.LLM.Model = orDefault(c.LLM.Model, defaultLLMModel)
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}

	c.Twitch.ClientID = keyOrEnv(c.Twitch.ClientID, "TWITCH_CLIENT_ID")
	c.Twitch.ClientSecret = keyOrEnv(c.Twitch.ClientSecret, "TWITCH_CLIENT_SECRET")
	c.Twitch.Channel = strings.ToLower(orDefault(c.Twitch.Channel, defaultTwitchChannel))
	c.Twitch.TokenURL = orDefault(c.Twitch.TokenURL, defaultTwitchTokenURL)
	c.Twitch.BaseURL = orDefault(c.Twitch.BaseURL, defaultTwitchBaseURL)

	if c.Catalog.RequestTimeoutSeconds == 0 {
		c.Catalog.RequestTimeoutSeconds = defaultCatalogRequestTimeout
	}
	if c.Catalog.AuxTimeoutSeconds == 0 {
		c.Catalog.AuxTimeoutSeconds = defaultCatalogAuxTimeout
	}
	if c.Catalog.SearchLimit == 0 {
		c.Catalog.SearchLimit = defaultCatalogSearchLimit
	}
}

func (c *Config) normalizeCache() error {
	c.Cache.Path = strings.TrimSpace(c.Cache.Path)
	if c.Cache.Path == "" {
		c.Cache.Path = filepath.Join(c.Paths.CacheDir, defaultCacheFile)
	}
	var err error
	if c.Cache.Path, err = expandPath(c.Cache.Path); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	if c.Cache.TTLHours == 0 {
		c.Cache.TTLHours = defaultCacheTTLHours
	}
	return nil
}

func (c *Config) normalizePricing() error {
	c.Pricing.KeywordsPath = strings.TrimSpace(c.Pricing.KeywordsPath)
	if c.Pricing.KeywordsPath != "" {
		var err error
		if c.Pricing.KeywordsPath, err = expandPath(c.Pricing.KeywordsPath); err != nil {
			return fmt.Errorf("pricing.keywords_path: %w", err)
		}
	}
	c.Pricing.CheckoutURL = strings.TrimSpace(c.Pricing.CheckoutURL)
	return nil
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format == "" {
		format = defaultLogFormat
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}

func keyOrEnv(value, env string) string {
	value = strings.TrimSpace(value)
	if value != "" {
		return value
	}
	return strings.TrimSpace(os.Getenv(env))
}

func orDefault(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}
