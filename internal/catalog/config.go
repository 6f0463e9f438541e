package catalog

import (
	"fmt"
	"log/slog"
	"time"

	"gamelxrd/internal/config"
	"gamelxrd/internal/keywords"
	"gamelxrd/internal/metrics"
	"gamelxrd/internal/services/apiclient"
	"gamelxrd/internal/services/fxrate"
	"gamelxrd/internal/services/llm"
	"gamelxrd/internal/services/omdb"
	"gamelxrd/internal/services/rawg"
	"gamelxrd/internal/services/steam"
	"gamelxrd/internal/services/tmdb"
	"gamelxrd/internal/services/tvmaze"
)

// NewFromConfig builds the catalog clients described by cfg. Sources whose
// credentials are missing are left disabled; callers that need them should
// check cfg.RequireCatalog first.
func NewFromConfig(cfg *config.Config, logger *slog.Logger, reg *metrics.Registry, cache Cache, tables *keywords.Table) (*Service, error) {
	requestTimeout := time.Duration(cfg.Catalog.RequestTimeoutSeconds) * time.Second
	httpClient := apiclient.NewHTTPClient(requestTimeout)

	var sources Sources
	if cfg.TMDB.APIKey != "" {
		client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language, tmdb.WithHTTPClient(httpClient))
		if err != nil {
			return nil, fmt.Errorf("tmdb client: %w", err)
		}
		sources.TMDB = client
	}
	if cfg.OMDb.APIKey != "" {
		client, err := omdb.New(cfg.OMDb.APIKey, cfg.OMDb.BaseURL, omdb.WithHTTPClient(httpClient))
		if err != nil {
			return nil, fmt.Errorf("omdb client: %w", err)
		}
		sources.OMDb = client
	}
	if cfg.TVMaze.Enabled {
		client, err := tvmaze.New(cfg.TVMaze.BaseURL, tvmaze.WithHTTPClient(httpClient))
		if err != nil {
			return nil, fmt.Errorf("tvmaze client: %w", err)
		}
		sources.TVMaze = client
	}
	if cfg.RAWG.APIKey != "" {
		client, err := rawg.New(cfg.RAWG.APIKey, cfg.RAWG.BaseURL, rawg.WithHTTPClient(httpClient))
		if err != nil {
			return nil, fmt.Errorf("rawg client: %w", err)
		}
		sources.RAWG = client
	}
	steamClient, err := steam.New(cfg.Steam.BaseURL, cfg.Steam.Country, cfg.Steam.Language, steam.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("steam client: %w", err)
	}
	sources.Steam = steamClient
	if cfg.Exchange.APIKey != "" {
		client, err := fxrate.New(cfg.Exchange.APIKey, cfg.Exchange.BaseURL, fxrate.WithHTTPClient(httpClient))
		if err != nil {
			return nil, fmt.Errorf("exchange client: %w", err)
		}
		sources.Exchange = client
	}
	llmClient := llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	})
	if llmClient.Configured() {
		sources.Playtime = llmClient
	}

	opts := Options{
		ImageBaseURL:   cfg.TMDB.ImageBaseURL,
		RequestTimeout: requestTimeout,
		AuxTimeout:     time.Duration(cfg.Catalog.AuxTimeoutSeconds) * time.Second,
		SearchLimit:    cfg.Catalog.SearchLimit,
		FallbackRate:   cfg.Exchange.FallbackRate,
	}
	extra := []Option{WithLogger(logger), WithMetrics(reg), WithTables(tables)}
	if cache != nil {
		extra = append(extra, WithCache(cache))
	}
	return New(sources, opts, extra...), nil
}
