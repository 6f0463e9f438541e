package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"gamelxrd/internal/config"
	"gamelxrd/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	upstream   *httptest.Server

	mu   sync.Mutex
	hits map[string]int
}

// setupCLITestEnv writes a config pointing every catalog at a local fake
// upstream and isolates HOME so the user's real config is never read.
func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	for _, key := range []string{"TMDB_API_KEY", "OMDB_API_KEY", "RAWG_API_KEY", "EXCHANGERATE_API_KEY", "GROQ_API_KEY", "TWITCH_CLIENT_ID", "TWITCH_CLIENT_SECRET"} {
		t.Setenv(key, "")
	}

	env := &cliTestEnv{baseDir: base, hits: map[string]int{}}
	env.upstream = httptest.NewServer(env.upstreamHandler())
	t.Cleanup(env.upstream.Close)

	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithUpstream(env.upstream.URL)}, opts...)...)
	configPath := filepath.Join(homeDir, ".config", "gamelxrd", "config.toml")
	writeTestConfig(t, configPath, cfg)

	env.cfg = cfg
	env.configPath = configPath
	return env
}

func (e *cliTestEnv) upstreamHandler() http.Handler {
	mux := http.NewServeMux()
	reply := func(path string, payload any) {
		mux.HandleFunc("GET "+path, func(w http.ResponseWriter, r *http.Request) {
			e.mu.Lock()
			e.hits[path]++
			e.mu.Unlock()
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(payload)
		})
	}
	reply("/tmdb/movie/603", map[string]any{
		"id":                   603,
		"imdb_id":              "tt0133093",
		"title":                "The Matrix",
		"release_date":         "1999-03-30",
		"runtime":              136,
		"vote_average":         8.2,
		"production_countries": []map[string]string{{"iso_3166_1": "US", "name": "United States of America"}},
	})
	reply("/tmdb/movie/157336", map[string]any{
		"id":                   157336,
		"imdb_id":              "tt0816692",
		"title":                "Interstellar",
		"release_date":         "2014-11-05",
		"runtime":              169,
		"vote_average":         8.4,
		"production_countries": []map[string]string{{"iso_3166_1": "US", "name": "United States of America"}},
	})
	reply("/tmdb/tv/1396", map[string]any{
		"id":                 1396,
		"name":               "Breaking Bad",
		"first_air_date":     "2008-01-20",
		"episode_run_time":   []int{47},
		"number_of_episodes": 62,
		"number_of_seasons":  5,
		"origin_country":     []string{"US"},
		"seasons": []map[string]int{
			{"season_number": 0, "episode_count": 9},
			{"season_number": 1, "episode_count": 7},
		},
		"external_ids": map[string]string{"imdb_id": "tt0903747"},
	})
	reply("/tmdb/search/movie", map[string]any{
		"results": []map[string]any{
			{"id": 603, "title": "The Matrix", "release_date": "1999-03-30"},
			{"id": 604, "title": "The Matrix Reloaded", "release_date": "2003-05-15"},
		},
	})
	reply("/twitch/helix/streams", map[string]any{
		"data": []map[string]string{{"user_login": "gamelxrd", "type": "live"}},
	})
	mux.HandleFunc("POST /twitch/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		e.mu.Lock()
		e.hits["/twitch/oauth2/token"]++
		e.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":3600,"token_type":"bearer"}`))
	})
	mux.HandleFunc("POST /llm/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		e.mu.Lock()
		e.hits["/llm/chat/completions"]++
		e.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": `{"ok":true}`}}},
		})
	})
	return mux
}

func (e *cliTestEnv) hitCount(path string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hits[path]
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
