package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gamelxrd/internal/catalog"
	"gamelxrd/internal/logging"
	"gamelxrd/internal/metrics"
	"gamelxrd/internal/testsupport"
)

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, payload any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}
	mux.HandleFunc("GET /tmdb/movie/603", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "test" {
			http.Error(w, "missing key", http.StatusUnauthorized)
			return
		}
		writeJSON(w, map[string]any{
			"id":                   603,
			"imdb_id":              "tt0133093",
			"title":                "Матрица",
			"release_date":         "1999-03-30",
			"runtime":              136,
			"vote_average":         8.2,
			"poster_path":          "/matrix.jpg",
			"production_countries": []map[string]string{{"iso_3166_1": "US", "name": "United States of America"}},
		})
	})
	mux.HandleFunc("GET /rawg/games/hades", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"id":              3328,
			"slug":            "hades",
			"name":            "Hades",
			"released":        "2020-09-17",
			"metacritic":      93,
			"description_raw": "Defy the god of the dead.",
			"genres":          []map[string]string{{"name": "Action"}},
		})
	})
	mux.HandleFunc("GET /rawg/games/3328/stores", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"results": []map[string]any{
			{"store_id": 1, "url": "https://store.steampowered.com/app/1145360/Hades/"},
		}})
	})
	mux.HandleFunc("GET /steam/appdetails", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			r.URL.Query().Get("appids"): map[string]any{
				"success": true,
				"data": map[string]any{
					"price_overview": map[string]any{"currency": "KZT", "initial": 500000, "final": 500000},
				},
			},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestNewFromConfigWiresClients(t *testing.T) {
	server := newUpstream(t)
	cfg := testsupport.NewConfig(t, testsupport.WithUpstream(server.URL))
	reg := metrics.NewRegistry()

	svc, err := catalog.NewFromConfig(cfg, logging.NewNop(), reg, nil, nil)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	ctx := context.Background()

	movie, err := svc.Movie(ctx, 603)
	if err != nil {
		t.Fatalf("Movie: %v", err)
	}
	if movie.Title != "Матрица" || movie.RuntimeMinutes != 136 || movie.IMDbRating != 8.2 {
		t.Fatalf("unexpected movie %+v", movie)
	}
	if movie.Extras.PosterURL != server.URL+"/img/w500/matrix.jpg" {
		t.Fatalf("unexpected poster url %q", movie.Extras.PosterURL)
	}

	game, err := svc.Game(ctx, "hades")
	if err != nil {
		t.Fatalf("Game: %v", err)
	}
	if game.SteamAppID != 1145360 {
		t.Fatalf("expected app id from rawg stores, got %d", game.SteamAppID)
	}
	// 5000 KZT at the configured fallback rate of 0.2.
	if game.SteamPriceRub != 1000 {
		t.Fatalf("expected converted price 1000, got %d", game.SteamPriceRub)
	}
	if game.Rating != 9.3 {
		t.Fatalf("expected metacritic rating, got %v", game.Rating)
	}
}

func TestNewFromConfigWithoutKeysReportsConfiguration(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithTMDBKey(""), testsupport.WithRAWGKey(""))
	svc, err := catalog.NewFromConfig(cfg, logging.NewNop(), nil, nil, nil)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	if _, err := svc.Movie(context.Background(), 603); err == nil {
		t.Fatal("expected configuration error without a tmdb key")
	}
	if _, err := svc.Game(context.Background(), "hades"); err == nil {
		t.Fatal("expected configuration error without a rawg key")
	}
}
