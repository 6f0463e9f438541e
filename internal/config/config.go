package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	CacheDir string `toml:"cache_dir"`
	LogDir   string `toml:"log_dir"`
	APIBind  string `toml:"api_bind"`
}

// TMDB contains configuration for The Movie Database API.
type TMDB struct {
	APIKey       string `toml:"api_key"`
	BaseURL      string `toml:"base_url"`
	Language     string `toml:"language"`
	ImageBaseURL string `toml:"image_base_url"`
}

// OMDb contains configuration for IMDb rating lookups.
type OMDb struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// TVMaze contains configuration for episode runtime lookups.
type TVMaze struct {
	Enabled bool   `toml:"enabled"`
	BaseURL string `toml:"base_url"`
}

// RAWG contains configuration for the RAWG game catalog.
type RAWG struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// Steam contains storefront settings used for game price lookups.
type Steam struct {
	BaseURL  string `toml:"base_url"`
	Country  string `toml:"country"`
	Language string `toml:"language"`
}

// Exchange contains currency conversion settings. FallbackRate converts one
// unit of the Steam store currency into roubles when the API is unavailable.
type Exchange struct {
	APIKey       string  `toml:"api_key"`
	BaseURL      string  `toml:"base_url"`
	FallbackRate float64 `toml:"fallback_rate"`
}

// LLM contains settings for playtime estimation.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Twitch contains the stream status check. Without both credentials the
// channel is always reported offline.
type Twitch struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	Channel      string `toml:"channel"`
	TokenURL     string `toml:"token_url"`
	BaseURL      string `toml:"base_url"`
}

// Configured reports whether both client credentials are present.
func (t Twitch) Configured() bool {
	return t.ClientID != "" && t.ClientSecret != ""
}

// Catalog contains lookup timeouts and result limits.
type Catalog struct {
	RequestTimeoutSeconds int `toml:"request_timeout_seconds"`
	AuxTimeoutSeconds     int `toml:"aux_timeout_seconds"`
	SearchLimit           int `toml:"search_limit"`
}

// Cache contains descriptor cache settings.
type Cache struct {
	Enabled  bool   `toml:"enabled"`
	Path     string `toml:"path"`
	TTLHours int    `toml:"ttl_hours"`
}

// Pricing contains quote settings.
type Pricing struct {
	KeywordsPath string `toml:"keywords_path"`
	CheckoutURL  string `toml:"checkout_url"`
}

// Logging contains log output settings.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for gamelxrd.
//
// Configuration sections by subsystem:
//   - Paths: cache/log directories and API bind address
//   - TMDB, OMDb, TVMaze: movie and series metadata
//   - RAWG, Steam, Exchange, LLM: game metadata, store price and playtime
//   - Twitch: live stream status
//   - Catalog: lookup timeouts and search limits
//   - Cache: sqlite descriptor cache
//   - Pricing: keyword table override and checkout link
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	TMDB     TMDB     `toml:"tmdb"`
	OMDb     OMDb     `toml:"omdb"`
	TVMaze   TVMaze   `toml:"tvmaze"`
	RAWG     RAWG     `toml:"rawg"`
	Steam    Steam    `toml:"steam"`
	Exchange Exchange `toml:"exchange"`
	LLM      LLM      `toml:"llm"`
	Twitch   Twitch   `toml:"twitch"`
	Catalog  Catalog  `toml:"catalog"`
	Cache    Cache    `toml:"cache"`
	Pricing  Pricing  `toml:"pricing"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("gamelxrd.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log directory and, when caching is enabled,
// the directory holding the cache database.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir}
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Path) != "" {
		dirs = append(dirs, filepath.Dir(c.Cache.Path))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LockPath returns the lock file guarding a single running API server.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.CacheDir, "gamelxrd.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "gamelxrd")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/gamelxrd"
	}
	return filepath.Join(home, ".cache", "gamelxrd")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}
