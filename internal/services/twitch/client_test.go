package twitch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gamelxrd/internal/services"
	"gamelxrd/internal/services/twitch"
)

type fakeHelix struct {
	tokenCalls  atomic.Int32
	streamCalls atomic.Int32

	mu         sync.Mutex
	streams    string
	streamCode int
}

func (f *fakeHelix) reply(code int, streams string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streamCode = code
	f.streams = streams
}

func (f *fakeHelix) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("client_id") != "id" || r.PostForm.Get("client_secret") != "secret" || r.PostForm.Get("grant_type") != "client_credentials" {
			t.Errorf("unexpected token form %v", r.PostForm)
		}
		_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":3600,"token_type":"bearer"}`))
	})
	mux.HandleFunc("GET /helix/streams", func(w http.ResponseWriter, r *http.Request) {
		f.streamCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer tok" || r.Header.Get("Client-Id") != "id" {
			t.Errorf("unexpected auth headers %v", r.Header)
		}
		if r.URL.Query().Get("user_login") != "gamelxrd" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		f.mu.Lock()
		code, streams := f.streamCode, f.streams
		f.mu.Unlock()
		if code != 0 {
			w.WriteHeader(code)
			return
		}
		_, _ = w.Write([]byte(streams))
	})
	return mux
}

func newClient(t *testing.T, f *fakeHelix, opts ...twitch.Option) *twitch.Client {
	t.Helper()
	server := httptest.NewServer(f.handler(t))
	t.Cleanup(server.Close)
	client, err := twitch.New("id", "secret", server.URL+"/oauth2/token", server.URL+"/helix/", opts...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestLive(t *testing.T) {
	tests := []struct {
		name    string
		streams string
		want    bool
	}{
		{"live", `{"data":[{"user_login":"gamelxrd","type":"live"}]}`, true},
		{"offline", `{"data":[]}`, false},
		{"missing data", `{}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, &fakeHelix{streams: tt.streams})
			got, err := client.Live(context.Background(), " GameLXRD ")
			if err != nil || got != tt.want {
				t.Fatalf("Live() = %v, %v; want %v", got, err, tt.want)
			}
		})
	}
}

func TestLiveReusesTokenUntilExpiry(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	fake := &fakeHelix{streams: `{"data":[]}`}
	client := newClient(t, fake, twitch.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	for range 3 {
		if _, err := client.Live(ctx, "gamelxrd"); err != nil {
			t.Fatalf("Live: %v", err)
		}
	}
	if got := fake.tokenCalls.Load(); got != 1 {
		t.Fatalf("expected one token request, got %d", got)
	}

	now = now.Add(59 * time.Minute)
	if _, err := client.Live(ctx, "gamelxrd"); err != nil {
		t.Fatalf("Live after expiry: %v", err)
	}
	if got := fake.tokenCalls.Load(); got != 2 {
		t.Fatalf("expected token refresh near expiry, got %d requests", got)
	}
	if got := fake.streamCalls.Load(); got != 4 {
		t.Fatalf("expected four stream lookups, got %d", got)
	}
}

func TestLiveErrorDropsToken(t *testing.T) {
	fake := &fakeHelix{streamCode: http.StatusUnauthorized}
	client := newClient(t, fake)
	ctx := context.Background()

	if _, err := client.Live(ctx, "gamelxrd"); !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected external error, got %v", err)
	}
	fake.reply(0, `{"data":[{"type":"live"}]}`)
	live, err := client.Live(ctx, "gamelxrd")
	if err != nil || !live {
		t.Fatalf("Live() = %v, %v; want true", live, err)
	}
	if got := fake.tokenCalls.Load(); got != 2 {
		t.Fatalf("expected a fresh token after the failure, got %d requests", got)
	}
}

func TestLiveRejectsEmptyLogin(t *testing.T) {
	client := newClient(t, &fakeHelix{})
	if _, err := client.Live(context.Background(), " "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := twitch.New("id", "", "https://id.twitch.tv/oauth2/token", "https://api.twitch.tv/helix"); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
