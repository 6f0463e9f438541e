package steam

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"gamelxrd/internal/services"
	"gamelxrd/internal/services/apiclient"
)

const (
	source       = "steam"
	gameCategory = "998"
)

// SearchItem is one storesearch hit.
type SearchItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// SearchResponse models /storesearch.
type SearchResponse struct {
	Total int          `json:"total"`
	Items []SearchItem `json:"items"`
}

// Price is an app's regional price. Amounts are in minor units.
type Price struct {
	AppID    int64
	Currency string
	Initial  int
	Final    int
	IsFree   bool
}

// Major returns the final price in major currency units.
func (p Price) Major() float64 {
	return float64(p.Final) / 100
}

type appDetailsEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type appDetailsData struct {
	IsFree        bool `json:"is_free"`
	PriceOverview *struct {
		Currency string `json:"currency"`
		Initial  int    `json:"initial"`
		Final    int    `json:"final"`
	} `json:"price_overview"`
}

// StoreURL is the public store page for appID.
func StoreURL(appID int64) string {
	return fmt.Sprintf("https://store.steampowered.com/app/%d/", appID)
}

// Client provides access to the Steam storefront API.
type Client struct {
	baseURL    string
	country    string
	language   string
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

// New creates a Steam storefront client for one regional store.
func New(baseURL, country, language string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, source, "new", "steam base url required", nil)
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		country:    strings.ToLower(strings.TrimSpace(country)),
		language:   strings.TrimSpace(language),
		httpClient: apiclient.NewHTTPClient(0),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchApp searches games by name in the regional store.
func (c *Client) SearchApp(ctx context.Context, term string) (*SearchResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, services.Wrap(services.ErrValidation, source, "search", "term must not be empty", nil)
	}
	params := url.Values{}
	params.Set("term", term)
	params.Set("category1", gameCategory)
	c.regional(params)
	if c.language != "" {
		params.Set("l", c.language)
	}
	var payload SearchResponse
	if err := c.get(ctx, "search", "/storesearch/", params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Price fetches the regional price of appID. Apps Steam does not sell in
// the region report services.ErrNotFound.
func (c *Client) Price(ctx context.Context, appID int64) (*Price, error) {
	if appID <= 0 {
		return nil, services.Wrap(services.ErrValidation, source, "price", "app id must be positive", nil)
	}
	id := strconv.FormatInt(appID, 10)
	params := url.Values{}
	params.Set("appids", id)
	params.Set("filters", "price_overview")
	c.regional(params)

	var payload map[string]appDetailsEnvelope
	if err := c.get(ctx, "price", "/appdetails", params, &payload); err != nil {
		return nil, err
	}
	envelope, ok := payload[id]
	if !ok || !envelope.Success {
		return nil, services.Wrap(services.ErrNotFound, source, "price", "app "+id+" unavailable", nil)
	}
	// Steam sends an empty array instead of an object when filters match nothing.
	var data appDetailsData
	if trimmed := bytes.TrimSpace(envelope.Data); len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &data); err != nil {
			return nil, services.Wrap(services.ErrExternal, source, "price", "decode app details", err)
		}
	}
	price := &Price{AppID: appID, IsFree: data.IsFree}
	if data.PriceOverview != nil {
		price.Currency = data.PriceOverview.Currency
		price.Initial = data.PriceOverview.Initial
		price.Final = data.PriceOverview.Final
		return price, nil
	}
	if data.IsFree {
		return price, nil
	}
	return nil, services.Wrap(services.ErrNotFound, source, "price", "app "+id+" has no price", nil)
}

func (c *Client) regional(params url.Values) {
	if c.country != "" {
		params.Set("cc", c.country)
	}
}

func (c *Client) get(ctx context.Context, operation, path string, params url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, source, operation, "parse steam url", err)
	}
	endpoint.RawQuery = params.Encode()
	return apiclient.GetJSON(ctx, c.httpClient, source, operation, endpoint.String(), nil, out)
}
