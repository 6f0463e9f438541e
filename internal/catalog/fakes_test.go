package catalog_test

import (
	"context"
	"sync"

	"gamelxrd/internal/media"
	"gamelxrd/internal/services"
	"gamelxrd/internal/services/rawg"
	"gamelxrd/internal/services/steam"
	"gamelxrd/internal/services/tmdb"
	"gamelxrd/internal/services/tvmaze"
)

type fakeTMDB struct {
	mu          sync.Mutex
	movies      map[int64]*tmdb.MovieDetails
	shows       map[int64]*tmdb.TVDetails
	search      *tmdb.Response
	detailCalls int
	searchCalls int
}

func (f *fakeTMDB) SearchMovie(context.Context, string) (*tmdb.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	return f.search, nil
}

func (f *fakeTMDB) SearchTV(ctx context.Context, query string) (*tmdb.Response, error) {
	return f.SearchMovie(ctx, query)
}

func (f *fakeTMDB) GetMovieDetails(_ context.Context, id int64) (*tmdb.MovieDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls++
	if movie, ok := f.movies[id]; ok {
		return movie, nil
	}
	return nil, services.Wrap(services.ErrNotFound, "tmdb", "movie details", "not found", nil)
}

func (f *fakeTMDB) GetTVDetails(_ context.Context, id int64) (*tmdb.TVDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls++
	if show, ok := f.shows[id]; ok {
		return show, nil
	}
	return nil, services.Wrap(services.ErrNotFound, "tmdb", "tv details", "not found", nil)
}

type fakeRatings struct {
	rating float64
	err    error
}

func (f fakeRatings) Rating(context.Context, string) (float64, error) { return f.rating, f.err }

type fakeTVMaze struct {
	show *tvmaze.Show
	err  error
}

func (f fakeTVMaze) LookupByIMDb(context.Context, string) (*tvmaze.Show, error) { return f.show, f.err }

type fakeRAWG struct {
	games       map[string]*rawg.GameDetails
	search      *rawg.SearchResponse
	stores      []rawg.Store
	storesErr   error
	searchCalls int
}

func (f *fakeRAWG) Search(context.Context, string, int) (*rawg.SearchResponse, error) {
	f.searchCalls++
	if f.search == nil {
		return &rawg.SearchResponse{}, nil
	}
	return f.search, nil
}

func (f *fakeRAWG) Game(_ context.Context, slug string) (*rawg.GameDetails, error) {
	if game, ok := f.games[slug]; ok {
		return game, nil
	}
	return nil, services.Wrap(services.ErrNotFound, "rawg", "game", "not found", nil)
}

func (f *fakeRAWG) Stores(context.Context, int64) ([]rawg.Store, error) {
	return f.stores, f.storesErr
}

type fakeSteam struct {
	items       []steam.SearchItem
	price       *steam.Price
	priceErr    error
	searchCalls int
}

func (f *fakeSteam) SearchApp(context.Context, string) (*steam.SearchResponse, error) {
	f.searchCalls++
	return &steam.SearchResponse{Total: len(f.items), Items: f.items}, nil
}

func (f *fakeSteam) Price(_ context.Context, appID int64) (*steam.Price, error) {
	if f.priceErr != nil {
		return nil, f.priceErr
	}
	price := *f.price
	price.AppID = appID
	return &price, nil
}

type fakeRate struct {
	rate float64
	err  error
}

func (f fakeRate) Rate(context.Context, string, string) (float64, error) { return f.rate, f.err }

type fakePlaytime struct {
	hours float64
	err   error
}

func (f fakePlaytime) EstimatePlaytime(context.Context, string, int) (float64, error) {
	return f.hours, f.err
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]media.Descriptor
	puts    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]media.Descriptor{}}
}

func (c *memoryCache) Get(_ context.Context, kind media.Kind, key string) (media.Descriptor, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.entries[string(kind)+"/"+key]
	return d, ok, nil
}

func (c *memoryCache) Put(_ context.Context, key string, d media.Descriptor) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	c.entries[string(d.Kind())+"/"+key] = d
	return nil
}
