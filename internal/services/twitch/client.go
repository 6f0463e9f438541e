package twitch

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"gamelxrd/internal/services"
	"gamelxrd/internal/services/apiclient"
)

const (
	source = "twitch"
	// tokenSlack renews the app token this long before Twitch expires it.
	tokenSlack = time.Minute
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type streamsResponse struct {
	Data []struct {
		UserLogin string `json:"user_login"`
		Type      string `json:"type"`
	} `json:"data"`
}

// Client queries Helix for stream status. The app token is shared across
// calls until it nears expiry.
type Client struct {
	clientID     string
	clientSecret string
	tokenURL     string
	baseURL      string
	httpClient   *http.Client
	now          func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
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

// WithClock overrides the clock used for token expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a Twitch client. Both credentials are required.
func New(clientID, clientSecret, tokenURL, baseURL string, opts ...Option) (*Client, error) {
	clientID = strings.TrimSpace(clientID)
	clientSecret = strings.TrimSpace(clientSecret)
	if clientID == "" || clientSecret == "" {
		return nil, services.Wrap(services.ErrConfiguration, source, "new", "twitch client id and secret required", nil)
	}
	tokenURL = strings.TrimSpace(tokenURL)
	baseURL = strings.TrimSpace(baseURL)
	if tokenURL == "" || baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, source, "new", "twitch token and api urls required", nil)
	}
	client := &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     tokenURL,
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   apiclient.NewHTTPClient(0),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Live reports whether login is broadcasting right now. A failed lookup
// drops the cached token so the next call authenticates again.
func (c *Client) Live(ctx context.Context, login string) (bool, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	if login == "" {
		return false, services.Wrap(services.ErrValidation, source, "live", "channel login required", nil)
	}
	token, err := c.appToken(ctx)
	if err != nil {
		return false, err
	}

	params := url.Values{}
	params.Set("user_login", login)
	header := http.Header{}
	header.Set("Client-Id", c.clientID)
	header.Set("Authorization", "Bearer "+token)

	var payload streamsResponse
	if err := apiclient.GetJSON(ctx, c.httpClient, source, "live", c.baseURL+"/streams?"+params.Encode(), header, &payload); err != nil {
		c.dropToken()
		return false, err
	}
	for _, stream := range payload.Data {
		if stream.Type == "" || stream.Type == "live" {
			return true, nil
		}
	}
	return false, nil
}

func (c *Client) appToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && c.now().Before(c.expires) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("grant_type", "client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", services.Wrap(services.ErrValidation, source, "token", "build request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	var payload tokenResponse
	if err := apiclient.Do(c.httpClient, req, source, "token", &payload); err != nil {
		return "", err
	}
	if strings.TrimSpace(payload.AccessToken) == "" {
		return "", services.Wrap(services.ErrExternal, source, "token", "empty access token", nil)
	}
	c.token = payload.AccessToken
	c.expires = c.now().Add(time.Duration(payload.ExpiresIn)*time.Second - tokenSlack)
	return c.token, nil
}

func (c *Client) dropToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}
