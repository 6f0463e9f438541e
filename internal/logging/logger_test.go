package logging_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gamelxrd/internal/config"
	"gamelxrd/internal/logging"
	"gamelxrd/internal/services"
)

func newFileLogger(t *testing.T, format, level string) (logPath string, read func() string, opts logging.Options) {
	t.Helper()
	logPath = filepath.Join(t.TempDir(), "test.log")
	noColor := false
	opts = logging.Options{Format: format, Level: level, OutputPaths: []string{logPath}, Color: &noColor}
	read = func() string {
		content, err := os.ReadFile(logPath)
		if err != nil {
			t.Fatalf("read log file: %v", err)
		}
		return string(content)
	}
	return logPath, read, opts
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Level = "debug"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Debug("debug message")

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, logging.LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "debug message") {
		t.Fatalf("expected debug message in log file, got %q", content)
	}
}

func TestConsoleLoggerOmitsSourceForInfo(t *testing.T) {
	_, read, opts := newFileLogger(t, "console", "info")
	logger, err := logging.New(opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")
	logger.Debug("hidden")

	content := read()
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
	if strings.Contains(content, "hidden") {
		t.Fatalf("expected debug line to be filtered, got %q", content)
	}
}

func TestConsoleLoggerIncludesSourceForDebug(t *testing.T) {
	_, read, opts := newFileLogger(t, "console", "debug")
	logger, err := logging.New(opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	if content := read(); !strings.Contains(content, "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerRendersComponentAndAttrs(t *testing.T) {
	_, read, opts := newFileLogger(t, "console", "info")
	logger, err := logging.New(opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	component := logging.NewComponentLogger(logger, "catalog")
	component.Info("game resolved", logging.String("slug", "hades"), logging.String("title", "Hades II"), logging.Int("hours", 22))

	content := read()
	for _, want := range []string{"INFO catalog: game resolved", "slug=hades", `title="Hades II"`, "hours=22"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in %q", want, content)
		}
	}
	if strings.Contains(content, "component=") {
		t.Fatalf("component should be rendered as prefix, got %q", content)
	}
	if strings.Contains(content, "\x1b[") {
		t.Fatalf("expected no ANSI codes when color disabled, got %q", content)
	}
}

func TestJSONLoggerUsesShortKeys(t *testing.T) {
	_, read, opts := newFileLogger(t, "json", "info")
	logger, err := logging.New(opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Warn("slow upstream", logging.String(logging.FieldSource, "rawg"))

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(read())), &entry); err != nil {
		t.Fatalf("decode json line: %v", err)
	}
	if entry["level"] != "warn" || entry["msg"] != "slow upstream" || entry["source"] != "rawg" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", entry)
	}
}

func TestJSONLoggerRedactsCredentials(t *testing.T) {
	_, read, opts := newFileLogger(t, "json", "info")
	logger, err := logging.New(opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	lookupErr := errors.New(`Get "https://www.omdbapi.com/?apikey=abc123&i=tt0133093": context deadline exceeded`)
	logger.Warn("rating lookup failed",
		logging.Error(lookupErr),
		logging.String("endpoint", "https://v6.exchangerate-api.com/v6/fxsecret/pair/KZT/RUB"),
		logging.String("auth", "Bearer tok-42"),
		logging.String("imdb_id", "tt0133093"),
	)

	line := strings.TrimSpace(read())
	for _, secret := range []string{"abc123", "fxsecret", "tok-42"} {
		if strings.Contains(line, secret) {
			t.Fatalf("secret %q leaked into %s", secret, line)
		}
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("decode json line: %v", err)
	}
	if got, _ := entry["error"].(string); !strings.Contains(got, "apikey=REDACTED&i=tt0133093") {
		t.Fatalf("unexpected error value %q", got)
	}
	if entry["imdb_id"] != "tt0133093" {
		t.Fatalf("unrelated attribute altered: %v", entry["imdb_id"])
	}
	ts, _ := entry["ts"].(string)
	if _, err := time.Parse("2006-01-02T15:04:05.000Z07:00", ts); err != nil {
		t.Fatalf("unexpected ts %q: %v", ts, err)
	}
}

func TestConsoleLoggerRedactsCredentials(t *testing.T) {
	_, read, opts := newFileLogger(t, "console", "info")
	logger, err := logging.New(opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("token fetched", logging.String("url", "https://id.twitch.tv/oauth2/token?client_id=id&client_secret=s3cret"))

	content := read()
	if strings.Contains(content, "s3cret") || !strings.Contains(content, "client_secret=REDACTED") {
		t.Fatalf("expected redacted secret, got %q", content)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml", OutputPaths: []string{filepath.Join(t.TempDir(), "x.log")}}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	_, read, opts := newFileLogger(t, "json", "info")
	logger, err := logging.New(opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.WarnWithContext(logger, "playtime unavailable", "playtime_lookup_failed",
		logging.Impact("game priced with default hours"))

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(read())), &entry); err != nil {
		t.Fatalf("decode json line: %v", err)
	}
	if entry[logging.FieldEventType] != "playtime_lookup_failed" {
		t.Fatalf("expected event type, got %v", entry)
	}
	if entry[logging.FieldErrorHint] == nil {
		t.Fatalf("expected default error hint, got %v", entry)
	}
	if entry[logging.FieldImpact] != "game priced with default hours" {
		t.Fatalf("expected caller impact to win, got %v", entry)
	}
}

func TestWithContextAddsCorrelationID(t *testing.T) {
	_, read, opts := newFileLogger(t, "console", "info")
	logger, err := logging.New(opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithRequestID(context.Background(), "req-123")
	ctx = services.WithSource(ctx, "tmdb")
	logging.WithContext(ctx, logger).Info("lookup")

	content := read()
	if !strings.Contains(content, "correlation_id=req-123") || !strings.Contains(content, "source=tmdb") {
		t.Fatalf("expected context fields, got %q", content)
	}
}

func TestNopLoggerIsSafe(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("ignored")
	logging.WarnWithContext(nil, "ignored", "none")
	logging.WithContext(context.Background(), nil).Info("ignored")
}
