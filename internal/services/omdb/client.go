package omdb

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"gamelxrd/internal/services"
	"gamelxrd/internal/services/apiclient"
)

const source = "omdb"

type titleResponse struct {
	Response   string `json:"Response"`
	Error      string `json:"Error"`
	Title      string `json:"Title"`
	IMDbRating string `json:"imdbRating"`
	IMDbVotes  string `json:"imdbVotes"`
}

// Client queries OMDb by IMDb identifier.
type Client struct {
	apiKey     string
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

// New creates an OMDb client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, source, "new", "omdb api key required", nil)
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, source, "new", "omdb base url required", nil)
	}
	client := &Client{apiKey: apiKey, baseURL: baseURL, httpClient: apiclient.NewHTTPClient(0)}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Rating returns the IMDb rating for imdbID. Titles without a rating report
// services.ErrNotFound.
func (c *Client) Rating(ctx context.Context, imdbID string) (float64, error) {
	imdbID = strings.TrimSpace(imdbID)
	if imdbID == "" {
		return 0, services.Wrap(services.ErrValidation, source, "rating", "imdb id required", nil)
	}
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return 0, services.Wrap(services.ErrConfiguration, source, "rating", "parse omdb url", err)
	}
	params := url.Values{}
	params.Set("i", imdbID)
	params.Set("apikey", c.apiKey)
	endpoint.RawQuery = params.Encode()

	var payload titleResponse
	if err := apiclient.GetJSON(ctx, c.httpClient, source, "rating", endpoint.String(), nil, &payload); err != nil {
		return 0, err
	}
	if !strings.EqualFold(payload.Response, "true") {
		return 0, services.Wrap(services.ErrNotFound, source, "rating", payload.Error, nil)
	}
	raw := strings.TrimSpace(payload.IMDbRating)
	if raw == "" || strings.EqualFold(raw, "N/A") {
		return 0, services.Wrap(services.ErrNotFound, source, "rating", "no imdb rating for "+imdbID, nil)
	}
	rating, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, services.Wrap(services.ErrExternal, source, "rating", "parse imdb rating", err)
	}
	return rating, nil
}
