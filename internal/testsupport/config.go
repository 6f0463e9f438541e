package testsupport

import (
	"path/filepath"
	"testing"

	"gamelxrd/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Catalog keys are set to dummy values and optional sources are disabled so
// tests never reach the real upstreams.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.TMDB.APIKey = "test"
	cfgVal.RAWG.APIKey = "test"
	cfgVal.OMDb.APIKey = ""
	cfgVal.Exchange.APIKey = ""
	cfgVal.LLM.APIKey = ""
	cfgVal.Twitch.ClientID = ""
	cfgVal.Twitch.ClientSecret = ""
	cfgVal.TVMaze.Enabled = false
	cfgVal.Cache.Path = filepath.Join(base, "cache", "catalog.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithTMDBKey sets the TMDB API key on the test config.
func WithTMDBKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TMDB.APIKey = key
	}
}

// WithRAWGKey sets the RAWG API key on the test config.
func WithRAWGKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.RAWG.APIKey = key
	}
}

// WithCacheDisabled turns off the descriptor cache.
func WithCacheDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.Enabled = false
	}
}

// WithUpstream points every catalog endpoint at one test server. Each source
// lives under its own path prefix: /tmdb, /omdb, /tvmaze, /rawg, /steam,
// /fx, /llm and /twitch.
func WithUpstream(serverURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TMDB.BaseURL = serverURL + "/tmdb"
		b.cfg.TMDB.ImageBaseURL = serverURL + "/img/w500"
		b.cfg.OMDb.BaseURL = serverURL + "/omdb/"
		b.cfg.TVMaze.BaseURL = serverURL + "/tvmaze"
		b.cfg.RAWG.BaseURL = serverURL + "/rawg"
		b.cfg.Steam.BaseURL = serverURL + "/steam"
		b.cfg.Exchange.BaseURL = serverURL + "/fx"
		b.cfg.LLM.BaseURL = serverURL + "/llm/chat/completions"
		b.cfg.Twitch.TokenURL = serverURL + "/twitch/oauth2/token"
		b.cfg.Twitch.BaseURL = serverURL + "/twitch/helix"
	}
}

// WithKeywordsFile points pricing at a keyword table override.
func WithKeywordsFile(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Pricing.KeywordsPath = path
	}
}

// WithTwitchCredentials enables the stream status check.
func WithTwitchCredentials(clientID, clientSecret string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Twitch.ClientID = clientID
		b.cfg.Twitch.ClientSecret = clientSecret
	}
}

// WithLLMKey enables the playtime estimator with key.
func WithLLMKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.APIKey = key
	}
}
