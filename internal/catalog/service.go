package catalog

import (
	"context"
	"log/slog"
	"time"

	"gamelxrd/internal/keywords"
	"gamelxrd/internal/logging"
	"gamelxrd/internal/media"
	"gamelxrd/internal/metrics"
	"gamelxrd/internal/services"
	"gamelxrd/internal/services/rawg"
	"gamelxrd/internal/services/steam"
	"gamelxrd/internal/services/tmdb"
	"gamelxrd/internal/services/tvmaze"
)

const (
	sourceTMDB     = "tmdb"
	sourceOMDb     = "omdb"
	sourceTVMaze   = "tvmaze"
	sourceRAWG     = "rawg"
	sourceSteam    = "steam"
	sourceExchange = "exchange"
	sourceLLM      = "llm"
)

// RatingSource returns the IMDb rating for an IMDb id.
type RatingSource interface {
	Rating(ctx context.Context, imdbID string) (float64, error)
}

// RuntimeSource resolves series runtimes by IMDb id.
type RuntimeSource interface {
	LookupByIMDb(ctx context.Context, imdbID string) (*tvmaze.Show, error)
}

// GameSource is the game catalog.
type GameSource interface {
	Search(ctx context.Context, query string, pageSize int) (*rawg.SearchResponse, error)
	Game(ctx context.Context, slug string) (*rawg.GameDetails, error)
	Stores(ctx context.Context, gameID int64) ([]rawg.Store, error)
}

// StoreSource is the storefront used for game prices.
type StoreSource interface {
	SearchApp(ctx context.Context, term string) (*steam.SearchResponse, error)
	Price(ctx context.Context, appID int64) (*steam.Price, error)
}

// RateSource converts between currencies.
type RateSource interface {
	Rate(ctx context.Context, from, to string) (float64, error)
}

// PlaytimeSource estimates main-story hours for a game.
type PlaytimeSource interface {
	EstimatePlaytime(ctx context.Context, title string, year int) (float64, error)
}

// Cache stores resolved descriptors.
type Cache interface {
	Get(ctx context.Context, kind media.Kind, key string) (media.Descriptor, bool, error)
	Put(ctx context.Context, key string, d media.Descriptor) error
}

// Sources bundles the upstream clients. Nil fields disable the lookup they
// serve; TMDB and RAWG are required for movies/series and games respectively.
type Sources struct {
	TMDB     tmdb.Searcher
	OMDb     RatingSource
	TVMaze   RuntimeSource
	RAWG     GameSource
	Steam    StoreSource
	Exchange RateSource
	Playtime PlaytimeSource
}

// Options tunes lookups.
type Options struct {
	ImageBaseURL   string
	RequestTimeout time.Duration
	AuxTimeout     time.Duration
	SearchLimit    int
	// FallbackRate converts the store currency to roubles when the exchange
	// lookup fails.
	FallbackRate float64
}

func (o Options) withDefaults() Options {
	if o.ImageBaseURL == "" {
		o.ImageBaseURL = "https://image.tmdb.org/t/p/w500"
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 5 * time.Second
	}
	if o.AuxTimeout <= 0 {
		o.AuxTimeout = 6 * time.Second
	}
	if o.SearchLimit <= 0 {
		o.SearchLimit = 5
	}
	if o.FallbackRate <= 0 {
		o.FallbackRate = 0.2
	}
	return o
}

// Service turns catalog responses into validated media descriptors.
type Service struct {
	sources Sources
	opts    Options
	tables  *keywords.Table
	cache   Cache
	metrics *metrics.Registry
	logger  *slog.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithCache enables descriptor caching.
func WithCache(cache Cache) Option {
	return func(s *Service) { s.cache = cache }
}

// WithMetrics records upstream request counters.
func WithMetrics(reg *metrics.Registry) Option {
	return func(s *Service) { s.metrics = reg }
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logging.NewComponentLogger(logger, "catalog")
		}
	}
}

// WithTables overrides the keyword tables used to promote game tags and
// look up watched movies.
func WithTables(tables *keywords.Table) Option {
	return func(s *Service) {
		if tables != nil {
			s.tables = tables
		}
	}
}

// New builds a Service over the given sources.
func New(sources Sources, opts Options, extra ...Option) *Service {
	s := &Service{
		sources: sources,
		opts:    opts.withDefaults(),
		tables:  keywords.Default(),
		logger:  logging.NewComponentLogger(nil, "catalog"),
	}
	for _, opt := range extra {
		opt(s)
	}
	return s
}

// call runs one upstream request under the request timeout and records it.
func (s *Service) call(ctx context.Context, source string, timeout time.Duration, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(services.WithSource(ctx, source), timeout)
	defer cancel()
	start := time.Now()
	err := fn(ctx)
	s.metrics.ObserveCatalog(source, services.Outcome(err), time.Since(start))
	return err
}

func (s *Service) cached(ctx context.Context, kind media.Kind, key string) (media.Descriptor, bool) {
	if s.cache == nil {
		return nil, false
	}
	d, ok, err := s.cache.Get(ctx, kind, key)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "cache read failed", "catalog_cache_read_failed",
			logging.String("kind", string(kind)),
			logging.String("key", key),
			logging.Error(err),
			logging.Impact("descriptor fetched from upstream"))
		return nil, false
	}
	return d, ok
}

func (s *Service) store(ctx context.Context, key string, d media.Descriptor) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(ctx, key, d); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "cache write failed", "catalog_cache_write_failed",
			logging.String("kind", string(d.Kind())),
			logging.String("key", key),
			logging.Error(err),
			logging.Impact("next lookup will hit the upstream again"))
	}
}

// degraded logs a failed auxiliary lookup. The caller continues with an unknown value.
func (s *Service) degraded(ctx context.Context, source, msg string, err error, impact string) {
	logging.WarnWithContext(logging.WithContext(services.WithSource(ctx, source), s.logger), msg, source+"_lookup_failed",
		logging.Error(err),
		logging.Hint("check "+source+" credentials and connectivity"),
		logging.Impact(impact))
}
