package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"gamelxrd/internal/services"
)

func TestGetJSONDecodesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Errorf("expected user agent to be set")
		}
		if r.Header.Get("X-Test") != "yes" {
			t.Errorf("expected custom header")
		}
		_, _ = w.Write([]byte(`{"name":"ok"}`))
	}))
	defer server.Close()

	var payload struct {
		Name string `json:"name"`
	}
	header := http.Header{"X-Test": []string{"yes"}}
	if err := GetJSON(context.Background(), NewHTTPClient(0), "test", "get", server.URL, header, &payload); err != nil {
		t.Fatalf("GetJSON returned error: %v", err)
	}
	if payload.Name != "ok" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestGetJSONClassifiesStatuses(t *testing.T) {
	tests := []struct {
		status int
		marker error
	}{
		{http.StatusNotFound, services.ErrNotFound},
		{http.StatusUnauthorized, services.ErrExternal},
		{http.StatusTooManyRequests, services.ErrTransient},
		{http.StatusBadGateway, services.ErrTransient},
	}
	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", tt.status)
		}))
		err := GetJSON(context.Background(), server.Client(), "test", "get", server.URL, nil, nil)
		server.Close()
		if !errors.Is(err, tt.marker) {
			t.Errorf("status %d: expected %v, got %v", tt.status, tt.marker, err)
		}
	}
}

func TestGetJSONTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := GetJSON(ctx, server.Client(), "test", "slow", server.URL, nil, nil)
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout marker, got %v", err)
	}
}

type flakyTransport struct {
	calls atomic.Int32
	fails int32
}

func (f *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if f.calls.Add(1) <= f.fails {
		return nil, errors.New("connection reset")
	}
	return http.DefaultTransport.RoundTrip(req)
}

func TestTransportRetriesGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	flaky := &flakyTransport{fails: 2}
	client := &http.Client{Transport: &Transport{Base: flaky, RetryMax: 2}}
	if err := GetJSON(context.Background(), client, "test", "get", server.URL, nil, &struct{}{}); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if got := flaky.calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}
