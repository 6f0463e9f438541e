package rawg_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gamelxrd/internal/services"
	"gamelxrd/internal/services/rawg"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /games", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "key" || r.URL.Query().Get("page_size") != "3" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"count":1,"results":[{"id":3498,"slug":"grand-theft-auto-v","name":"Grand Theft Auto V","released":"2013-09-17"}]}`))
	})
	mux.HandleFunc("GET /games/grand-theft-auto-v", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"id":3498,"slug":"grand-theft-auto-v","name":"Grand Theft Auto V","released":"2013-09-17",
			"metacritic":92,"rating":4.47,"ratings_count":6000,
			"genres":[{"id":4,"name":"Action"}],
			"tags":[{"id":1,"name":"Open World"}],
			"developers":[{"id":1,"name":"Rockstar North"}],
			"publishers":[{"id":2,"name":"Rockstar Games"}]
		}`))
	})
	mux.HandleFunc("GET /games/3498/stores", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[
			{"id":1,"game_id":3498,"store_id":3,"url":"https://store.playstation.com/x"},
			{"id":2,"game_id":3498,"store_id":1,"url":"https://store.steampowered.com/app/271590/"}
		]}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestSearchGameAndStores(t *testing.T) {
	server := newServer(t)
	client, err := rawg.New("key", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := context.Background()

	results, err := client.Search(ctx, "gta", 3)
	if err != nil || len(results.Results) != 1 {
		t.Fatalf("Search() = %#v, %v", results, err)
	}
	game, err := client.Game(ctx, results.Results[0].Slug)
	if err != nil {
		t.Fatalf("Game returned error: %v", err)
	}
	if game.Metacritic != 92 || rawg.Names(game.Developers)[0] != "Rockstar North" {
		t.Fatalf("unexpected game %#v", game)
	}
	stores, err := client.Stores(ctx, game.ID)
	if err != nil {
		t.Fatalf("Stores returned error: %v", err)
	}
	appID, storeURL, ok := rawg.SteamAppID(stores)
	if !ok || appID != 271590 || storeURL == "" {
		t.Fatalf("SteamAppID() = %d, %q, %v", appID, storeURL, ok)
	}
}

func TestGameMissing(t *testing.T) {
	server := newServer(t)
	client, _ := rawg.New("key", server.URL)
	if _, err := client.Game(context.Background(), "nope"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := client.Game(context.Background(), "../etc"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSteamAppIDWithoutSteamStore(t *testing.T) {
	stores := []rawg.Store{{StoreID: 3, URL: "https://store.playstation.com/app/5"}}
	if _, _, ok := rawg.SteamAppID(stores); ok {
		t.Fatal("expected no steam app id")
	}
}
