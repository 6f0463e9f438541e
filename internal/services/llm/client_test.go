package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"gamelxrd/internal/services"
)

func replyWith(t *testing.T, content string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"choices": []any{
				map[string]any{"message": map[string]any{"content": content}},
			},
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}
}

func TestClientHealthCheck(t *testing.T) {
	server := httptest.NewServer(replyWith(t, `{"ok":true}`))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
}

func TestClientHealthCheckFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL, Model: "demo"})
	if err := client.HealthCheck(context.Background()); !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected external error, got %v", err)
	}
}

func TestCompleteJSONRequiresKey(t *testing.T) {
	client := NewClient(Config{})
	if _, err := client.CompleteJSON(context.Background(), "sys", "user"); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestEstimatePlaytime(t *testing.T) {
	var request chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Errorf("unexpected authorization %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Errorf("decode request: %v", err)
		}
		replyWith(t, "```json\n{\"hours\": 22.5}\n```")(w, r)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "key", BaseURL: server.URL})
	hours, err := client.EstimatePlaytime(context.Background(), "Hades", 2020)
	if err != nil {
		t.Fatalf("EstimatePlaytime returned error: %v", err)
	}
	if hours != 22.5 {
		t.Fatalf("hours = %v, want 22.5", hours)
	}
	if request.Model != defaultModel || request.ResponseFormat["type"] != jsonResponseType {
		t.Fatalf("unexpected request %+v", request)
	}
	if !strings.Contains(request.Messages[1].Content, `"Hades" (2020)`) {
		t.Fatalf("user prompt missing title: %q", request.Messages[1].Content)
	}
}

func TestEstimatePlaytimeRejectsBadReplies(t *testing.T) {
	for _, content := range []string{`{"hours": -1}`, `{"minutes": 30}`, `not json`} {
		server := httptest.NewServer(replyWith(t, content))
		client := NewClient(Config{APIKey: "key", BaseURL: server.URL}, WithRetryMaxAttempts(1))
		_, err := client.EstimatePlaytime(context.Background(), "Game", 0)
		server.Close()
		if !errors.Is(err, services.ErrExternal) {
			t.Errorf("content %q: expected external error, got %v", content, err)
		}
	}
}

func TestClientRetriesOnHTTP429(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		replyWith(t, `{"hours": 10}`)(w, r)
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(Config{APIKey: "key", BaseURL: server.URL},
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }))
	hours, err := client.EstimatePlaytime(context.Background(), "Game", 0)
	if err != nil || hours != 10 {
		t.Fatalf("EstimatePlaytime() = %v, %v", hours, err)
	}
	if calls.Load() != 2 || len(slept) != 1 || slept[0] != 2*time.Second {
		t.Fatalf("calls=%d slept=%v", calls.Load(), slept)
	}
}

func TestClientRetriesOnEmptyContent(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			replyWith(t, "")(w, r)
			return
		}
		replyWith(t, `{"hours": 0}`)(w, r)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "key", BaseURL: server.URL}, WithSleeper(func(time.Duration) {}))
	hours, err := client.EstimatePlaytime(context.Background(), "Endless Online", 0)
	if err != nil || hours != 0 {
		t.Fatalf("EstimatePlaytime() = %v, %v", hours, err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestBackoffDoublesAndCaps(t *testing.T) {
	policy := retryPolicy{maxAttempts: 5, baseDelay: time.Second, maxDelay: 3 * time.Second}
	want := []time.Duration{time.Second, 2 * time.Second, 3 * time.Second, 3 * time.Second}
	for i, expected := range want {
		if got := policy.backoff(i + 1); got != expected {
			t.Errorf("backoff(%d) = %v, want %v", i+1, got, expected)
		}
	}
}

func TestDecodeLLMJSONExtractsObject(t *testing.T) {
	var parsed struct {
		Hours float64 `json:"hours"`
	}
	if err := DecodeLLMJSON(`Sure! {"hours": 12} hope that helps`, &parsed); err != nil || parsed.Hours != 12 {
		t.Fatalf("DecodeLLMJSON() = %+v, %v", parsed, err)
	}
	if err := DecodeLLMJSON("   ", &parsed); err == nil {
		t.Fatal("expected error for empty payload")
	}
}
