package tvmaze_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gamelxrd/internal/services"
	"gamelxrd/internal/services/tvmaze"
)

func TestLookupFollowsRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/lookup/shows", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("imdb") != "tt0330251" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/shows/99", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/shows/99", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":99,"name":"Brigada","runtime":null,"averageRuntime":51}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := tvmaze.New(server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	show, err := client.LookupByIMDb(context.Background(), "tt0330251")
	if err != nil {
		t.Fatalf("LookupByIMDb returned error: %v", err)
	}
	if show.EpisodeRuntime() != 51 {
		t.Fatalf("EpisodeRuntime() = %d, want 51", show.EpisodeRuntime())
	}

	if _, err := client.LookupByIMDb(context.Background(), "tt404"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEpisodeRuntimePrefersSchedule(t *testing.T) {
	show := tvmaze.Show{Runtime: 30, AverageRuntime: 28}
	if got := show.EpisodeRuntime(); got != 30 {
		t.Fatalf("EpisodeRuntime() = %d, want 30", got)
	}
	if got := (tvmaze.Show{}).EpisodeRuntime(); got != 0 {
		t.Fatalf("EpisodeRuntime() = %d, want 0", got)
	}
}
