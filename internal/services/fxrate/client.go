package fxrate

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"gamelxrd/internal/services"
	"gamelxrd/internal/services/apiclient"
)

const source = "fxrate"

type pairResponse struct {
	Result         string  `json:"result"`
	ErrorType      string  `json:"error-type"`
	BaseCode       string  `json:"base_code"`
	TargetCode     string  `json:"target_code"`
	ConversionRate float64 `json:"conversion_rate"`
}

// Client queries the exchangerate-api v6 pair endpoint.
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

// New creates an exchange rate client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, source, "new", "exchange rate api key required", nil)
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, source, "new", "exchange rate base url required", nil)
	}
	client := &Client{apiKey: apiKey, baseURL: strings.TrimRight(baseURL, "/"), httpClient: apiclient.NewHTTPClient(0)}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Rate returns how many units of to one unit of from buys.
func (c *Client) Rate(ctx context.Context, from, to string) (float64, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if len(from) != 3 || len(to) != 3 {
		return 0, services.Wrap(services.ErrValidation, source, "rate", "currency codes must have three letters", nil)
	}
	endpoint := c.baseURL + "/" + url.PathEscape(c.apiKey) + "/pair/" + from + "/" + to

	var payload pairResponse
	if err := apiclient.GetJSON(ctx, c.httpClient, source, "rate", endpoint, nil, &payload); err != nil {
		return 0, err
	}
	if payload.Result != "success" {
		return 0, services.Wrap(services.ErrExternal, source, "rate", "exchange rate api: "+payload.ErrorType, nil)
	}
	if payload.ConversionRate <= 0 {
		return 0, services.Wrap(services.ErrExternal, source, "rate", "non-positive conversion rate", nil)
	}
	return payload.ConversionRate, nil
}
