package tvmaze

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"gamelxrd/internal/services"
	"gamelxrd/internal/services/apiclient"
)

const source = "tvmaze"

// Show is the subset of the TVMaze show payload the catalog reads.
type Show struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Runtime        int    `json:"runtime"`
	AverageRuntime int    `json:"averageRuntime"`
	Premiered      string `json:"premiered"`
}

// EpisodeRuntime prefers the scheduled runtime over the measured average.
func (s Show) EpisodeRuntime() int {
	if s.Runtime > 0 {
		return s.Runtime
	}
	if s.AverageRuntime > 0 {
		return s.AverageRuntime
	}
	return 0
}

// Client talks to the public TVMaze API. No key is required.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

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

// New creates a TVMaze client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, source, "new", "tvmaze base url required", nil)
	}
	client := &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: apiclient.NewHTTPClient(0)}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// LookupByIMDb resolves a show by IMDb identifier. TVMaze answers with a
// redirect to the show resource, which the HTTP client follows.
func (c *Client) LookupByIMDb(ctx context.Context, imdbID string) (*Show, error) {
	imdbID = strings.TrimSpace(imdbID)
	if imdbID == "" {
		return nil, services.Wrap(services.ErrValidation, source, "lookup", "imdb id required", nil)
	}
	endpoint, err := url.Parse(c.baseURL + "/lookup/shows")
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, source, "lookup", "parse tvmaze url", err)
	}
	endpoint.RawQuery = url.Values{"imdb": []string{imdbID}}.Encode()

	var show Show
	if err := apiclient.GetJSON(ctx, c.httpClient, source, "lookup", endpoint.String(), nil, &show); err != nil {
		return nil, err
	}
	return &show, nil
}
