package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gamelxrd/internal/services"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultRetryMax = 2
	userAgent       = "gamelxrd/1.0 (+https://donatty.com/gamelxrd)"
	maxErrorBody    = 512
)

// Transport retries idempotent requests that failed before a response
// arrived. Responses with error statuses are returned as-is.
type Transport struct {
	Base http.RoundTripper
	// RetryMax is the number of retries after the first attempt.
	RetryMax int
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	canRetry := (req.Method == http.MethodGet || req.Method == http.MethodHead) && req.Body == nil
	max := t.RetryMax
	if max < 0 || !canRetry {
		max = 0
	}

	var lastErr error
	for attempt := 0; attempt <= max; attempt++ {
		r := req.Clone(req.Context())
		if r.Header.Get("User-Agent") == "" {
			r.Header.Set("User-Agent", userAgent)
		}
		resp, err := base.RoundTrip(r)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if req.Context().Err() != nil {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

// NewHTTPClient builds a client with the retrying transport. A non-positive
// timeout selects the default.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{
		Transport: &Transport{Base: http.DefaultTransport, RetryMax: defaultRetryMax},
		Timeout:   timeout,
	}
}

// GetJSON issues a GET and decodes a JSON body into out. A 404 is reported
// as services.ErrNotFound, deadline failures as services.ErrTimeout and
// everything else as services.ErrExternal.
func GetJSON(ctx context.Context, client *http.Client, source, operation, endpoint string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return services.Wrap(services.ErrValidation, source, operation, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	return Do(client, req, source, operation, out)
}

// Do executes req and decodes a JSON response into out.
func Do(client *http.Client, req *http.Request, source, operation string, out any) error {
	if client == nil {
		client = http.DefaultClient
	}
	requestStart := time.Now()
	resp, err := client.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		marker := services.ErrExternal
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			marker = services.ErrTimeout
		}
		return services.Wrap(marker, source, operation, fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return services.Wrap(services.ErrNotFound, source, operation, fmt.Sprintf("returned 404 (latency=%v)", latency), nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		message := fmt.Sprintf("returned %d (latency=%v)", resp.StatusCode, latency)
		if text := strings.TrimSpace(string(snippet)); text != "" {
			message += ": " + text
		}
		marker := services.ErrExternal
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			marker = services.ErrTransient
		}
		return services.Wrap(marker, source, operation, message, nil)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrExternal, source, operation, "decode response", err)
	}
	return nil
}

func isTimeout(err error) bool {
	var timeout interface{ Timeout() bool }
	return errors.As(err, &timeout) && timeout.Timeout()
}
