package rawg

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"gamelxrd/internal/services"
	"gamelxrd/internal/services/apiclient"
)

const (
	source       = "rawg"
	steamStoreID = 1
)

var steamAppPattern = regexp.MustCompile(`/app/(\d+)`)

// Named is a RAWG genre, tag, developer or publisher entry.
type Named struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Names flattens entries to their display names.
func Names(entries []Named) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if name := strings.TrimSpace(entry.Name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// GameSummary is one search hit.
type GameSummary struct {
	ID              int64   `json:"id"`
	Slug            string  `json:"slug"`
	Name            string  `json:"name"`
	Released        string  `json:"released"`
	BackgroundImage string  `json:"background_image"`
	Rating          float64 `json:"rating"`
	Metacritic      int     `json:"metacritic"`
}

// SearchResponse models the paginated /games listing.
type SearchResponse struct {
	Count   int           `json:"count"`
	Results []GameSummary `json:"results"`
}

// GameDetails is the /games/{slug} payload.
type GameDetails struct {
	ID              int64   `json:"id"`
	Slug            string  `json:"slug"`
	Name            string  `json:"name"`
	Released        string  `json:"released"`
	BackgroundImage string  `json:"background_image"`
	Description     string  `json:"description"`
	DescriptionRaw  string  `json:"description_raw"`
	Metacritic      int     `json:"metacritic"`
	Rating          float64 `json:"rating"`
	RatingsCount    int     `json:"ratings_count"`
	Playtime        int     `json:"playtime"`
	Website         string  `json:"website"`
	Genres          []Named `json:"genres"`
	Tags            []Named `json:"tags"`
	Developers      []Named `json:"developers"`
	Publishers      []Named `json:"publishers"`
}

// Store links a game to one storefront.
type Store struct {
	ID      int64  `json:"id"`
	GameID  int64  `json:"game_id"`
	StoreID int64  `json:"store_id"`
	URL     string `json:"url"`
}

type storesResponse struct {
	Results []Store `json:"results"`
}

// SteamAppID finds the Steam app ID among store links.
func SteamAppID(stores []Store) (int64, string, bool) {
	for _, store := range stores {
		if store.StoreID != steamStoreID && !strings.Contains(store.URL, "steampowered.com") {
			continue
		}
		match := steamAppPattern.FindStringSubmatch(store.URL)
		if match == nil {
			continue
		}
		id, err := strconv.ParseInt(match[1], 10, 64)
		if err == nil && id > 0 {
			return id, store.URL, true
		}
	}
	return 0, "", false
}

// Client provides access to the RAWG API.
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

// New creates a RAWG client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, source, "new", "rawg api key required", nil)
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, source, "new", "rawg base url required", nil)
	}
	client := &Client{apiKey: apiKey, baseURL: strings.TrimRight(baseURL, "/"), httpClient: apiclient.NewHTTPClient(0)}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Search lists games matching query.
func (c *Client) Search(ctx context.Context, query string, pageSize int) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, services.Wrap(services.ErrValidation, source, "search", "query must not be empty", nil)
	}
	if pageSize <= 0 {
		pageSize = 5
	}
	params := url.Values{}
	params.Set("search", query)
	params.Set("page_size", strconv.Itoa(pageSize))
	var payload SearchResponse
	if err := c.get(ctx, "search", "/games", params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Game fetches full details by slug or numeric ID.
func (c *Client) Game(ctx context.Context, slug string) (*GameDetails, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" || strings.ContainsAny(slug, "/?#") {
		return nil, services.Wrap(services.ErrValidation, source, "game", fmt.Sprintf("invalid slug %q", slug), nil)
	}
	var payload GameDetails
	if err := c.get(ctx, "game", "/games/"+url.PathEscape(slug), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Stores lists store links for a game.
func (c *Client) Stores(ctx context.Context, gameID int64) ([]Store, error) {
	if gameID <= 0 {
		return nil, services.Wrap(services.ErrValidation, source, "stores", "game id must be positive", nil)
	}
	var payload storesResponse
	if err := c.get(ctx, "stores", fmt.Sprintf("/games/%d/stores", gameID), nil, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

func (c *Client) get(ctx context.Context, operation, path string, params url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, source, operation, "parse rawg url", err)
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("key", c.apiKey)
	endpoint.RawQuery = params.Encode()
	return apiclient.GetJSON(ctx, c.httpClient, source, operation, endpoint.String(), nil, out)
}
