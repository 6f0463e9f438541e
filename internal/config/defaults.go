package config

const (
	defaultConfigPath            = "~/.config/gamelxrd/config.toml"
	defaultLogDir                = "~/.local/share/gamelxrd/logs"
	defaultAPIBind               = "127.0.0.1:8787"
	defaultTMDBBaseURL           = "https://api.themoviedb.org/3"
	defaultTMDBLanguage          = "ru-RU"
	defaultTMDBImageBaseURL      = "https://image.tmdb.org/t/p/w500"
	defaultOMDbBaseURL           = "https://www.omdbapi.com/"
	defaultTVMazeBaseURL         = "https://api.tvmaze.com"
	defaultRAWGBaseURL           = "https://api.rawg.io/api"
	defaultSteamBaseURL          = "https://store.steampowered.com/api"
	defaultSteamCountry          = "kz"
	defaultSteamLanguage         = "russian"
	defaultExchangeBaseURL       = "https://v6.exchangerate-api.com/v6"
	defaultExchangeFallbackRate  = 0.2
	defaultLLMBaseURL            = "https://api.groq.com/openai/v1/chat/completions"
	defaultLLMModel              = "llama-3.3-70b-versatile"
	defaultLLMTimeoutSeconds     = 30
	defaultTwitchChannel         = "gamelxrd"
	defaultTwitchTokenURL        = "https://id.twitch.tv/oauth2/token"
	defaultTwitchBaseURL         = "https://api.twitch.tv/helix"
	defaultCatalogRequestTimeout = 5
	defaultCatalogAuxTimeout     = 6
	defaultCatalogSearchLimit    = 5
	defaultCacheFile             = "catalog.db"
	defaultCacheTTLHours         = 24
	defaultCheckoutURL           = "https://donatty.com/gamelxrd"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir: defaultCacheDir(),
			LogDir:   defaultLogDir,
			APIBind:  defaultAPIBind,
		},
		TMDB: TMDB{
			BaseURL:      defaultTMDBBaseURL,
			Language:     defaultTMDBLanguage,
			ImageBaseURL: defaultTMDBImageBaseURL,
		},
		OMDb: OMDb{
			BaseURL: defaultOMDbBaseURL,
		},
		TVMaze: TVMaze{
			Enabled: true,
			BaseURL: defaultTVMazeBaseURL,
		},
		RAWG: RAWG{
			BaseURL: defaultRAWGBaseURL,
		},
		Steam: Steam{
			BaseURL:  defaultSteamBaseURL,
			Country:  defaultSteamCountry,
			Language: defaultSteamLanguage,
		},
		Exchange: Exchange{
			BaseURL:      defaultExchangeBaseURL,
			FallbackRate: defaultExchangeFallbackRate,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Twitch: Twitch{
			Channel:  defaultTwitchChannel,
			TokenURL: defaultTwitchTokenURL,
			BaseURL:  defaultTwitchBaseURL,
		},
		Catalog: Catalog{
			RequestTimeoutSeconds: defaultCatalogRequestTimeout,
			AuxTimeoutSeconds:     defaultCatalogAuxTimeout,
			SearchLimit:           defaultCatalogSearchLimit,
		},
		Cache: Cache{
			Enabled:  true,
			TTLHours: defaultCacheTTLHours,
		},
		Pricing: Pricing{
			CheckoutURL: defaultCheckoutURL,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
