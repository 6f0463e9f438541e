package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"gamelxrd/internal/services"
	"gamelxrd/internal/services/apiclient"
)

const source = "tmdb"

// Result represents a single TMDB search match.
type Result struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	PosterPath   string  `json:"poster_path"`
	Popularity   float64 `json:"popularity"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int64   `json:"vote_count"`
}

// DisplayTitle returns the movie title or the series name.
func (r Result) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

// Date returns the release or first air date.
func (r Result) Date() string {
	if r.ReleaseDate != "" {
		return r.ReleaseDate
	}
	return r.FirstAirDate
}

// Response models the TMDB paginated search response.
type Response struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// Named is a TMDB company or country entry.
type Named struct {
	ID        int64  `json:"id,omitempty"`
	ISO3166_1 string `json:"iso_3166_1,omitempty"`
	Name      string `json:"name"`
}

// MovieDetails is the /movie/{id} payload.
type MovieDetails struct {
	ID                  int64   `json:"id"`
	IMDbID              string  `json:"imdb_id"`
	Title               string  `json:"title"`
	OriginalTitle       string  `json:"original_title"`
	Overview            string  `json:"overview"`
	ReleaseDate         string  `json:"release_date"`
	Runtime             int     `json:"runtime"`
	VoteAverage         float64 `json:"vote_average"`
	PosterPath          string  `json:"poster_path"`
	ProductionCompanies []Named `json:"production_companies"`
	ProductionCountries []Named `json:"production_countries"`
}

// Season is one entry of a series' season list.
type Season struct {
	SeasonNumber int    `json:"season_number"`
	EpisodeCount int    `json:"episode_count"`
	Name         string `json:"name"`
}

// Episode is the subset of episode data the catalog reads.
type Episode struct {
	SeasonNumber  int `json:"season_number"`
	EpisodeNumber int `json:"episode_number"`
	Runtime       int `json:"runtime"`
}

// ExternalIDs holds cross-references appended to TV details.
type ExternalIDs struct {
	IMDbID string `json:"imdb_id"`
}

// TVDetails is the /tv/{id} payload with external_ids appended.
type TVDetails struct {
	ID                  int64        `json:"id"`
	Name                string       `json:"name"`
	OriginalName        string       `json:"original_name"`
	Overview            string       `json:"overview"`
	FirstAirDate        string       `json:"first_air_date"`
	EpisodeRunTime      []int        `json:"episode_run_time"`
	NumberOfEpisodes    int          `json:"number_of_episodes"`
	NumberOfSeasons     int          `json:"number_of_seasons"`
	VoteAverage         float64      `json:"vote_average"`
	PosterPath          string       `json:"poster_path"`
	OriginCountry       []string     `json:"origin_country"`
	ProductionCompanies []Named      `json:"production_companies"`
	ProductionCountries []Named      `json:"production_countries"`
	Seasons             []Season     `json:"seasons"`
	LastEpisodeToAir    *Episode     `json:"last_episode_to_air"`
	ExternalIDs         *ExternalIDs `json:"external_ids"`
}

// Searcher defines the TMDB operations used by the catalog.
type Searcher interface {
	SearchMovie(ctx context.Context, query string) (*Response, error)
	SearchTV(ctx context.Context, query string) (*Response, error)
	GetMovieDetails(ctx context.Context, movieID int64) (*MovieDetails, error)
	GetTVDetails(ctx context.Context, showID int64) (*TVDetails, error)
}

// Client provides access to the TMDB API.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, source, "new", "tmdb api key required", nil)
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, source, "new", "tmdb base url required", nil)
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(language),
		httpClient: apiclient.NewHTTPClient(0),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchMovie searches TMDB movies, excluding adult titles.
func (c *Client) SearchMovie(ctx context.Context, query string) (*Response, error) {
	return c.search(ctx, "search movie", "/search/movie", query)
}

// SearchTV searches TMDB series.
func (c *Client) SearchTV(ctx context.Context, query string) (*Response, error) {
	return c.search(ctx, "search tv", "/search/tv", query)
}

func (c *Client) search(ctx context.Context, operation, path, query string) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, services.Wrap(services.ErrValidation, source, operation, "query must not be empty", nil)
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")

	var payload Response
	if err := c.get(ctx, operation, path, params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GetMovieDetails fetches movie details by TMDB ID.
func (c *Client) GetMovieDetails(ctx context.Context, movieID int64) (*MovieDetails, error) {
	if movieID <= 0 {
		return nil, services.Wrap(services.ErrValidation, source, "movie details", "movie id must be positive", nil)
	}
	var payload MovieDetails
	if err := c.get(ctx, "movie details", fmt.Sprintf("/movie/%d", movieID), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GetTVDetails fetches series details by TMDB ID, with external IDs appended.
func (c *Client) GetTVDetails(ctx context.Context, showID int64) (*TVDetails, error) {
	if showID <= 0 {
		return nil, services.Wrap(services.ErrValidation, source, "tv details", "show id must be positive", nil)
	}
	params := url.Values{}
	params.Set("append_to_response", "external_ids")
	var payload TVDetails
	if err := c.get(ctx, "tv details", fmt.Sprintf("/tv/%d", showID), params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, operation, path string, params url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, source, operation, "parse tmdb url", err)
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()
	return apiclient.GetJSON(ctx, c.httpClient, source, operation, endpoint.String(), nil, out)
}
