package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"gamelxrd/internal/testsupport"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("TMDB", statusError, "Missing API key", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "TMDB:", "[ERROR] Missing API key")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("TMDB", statusOK, "Configured", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestRenderSectionHeaderCountsRunes(t *testing.T) {
	lines := renderSectionHeader("Брат", false)
	if len(lines) != 2 {
		t.Fatalf("expected header and rule, got %d lines", len(lines))
	}
	if got, want := len([]rune(lines[1])), len([]rune(lines[0])); got != want {
		t.Fatalf("rule width %d, header width %d", got, want)
	}
}

func TestSourceLines(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithRAWGKey(""), testsupport.WithCacheDisabled())
	lines := sourceLines(cfg, false)
	if len(lines) != 11 {
		t.Fatalf("expected 11 lines, got %d: %q", len(lines), lines)
	}
	if !strings.Contains(lines[2], "TMDB:") || !strings.Contains(lines[2], "[OK] Configured") {
		t.Fatalf("expected tmdb configured, got %q", lines[2])
	}
	if !strings.Contains(lines[3], "[WARN] No API key") {
		t.Fatalf("expected omdb warning, got %q", lines[3])
	}
	if !strings.Contains(lines[5], "RAWG:") || !strings.Contains(lines[5], "[ERROR] Missing API key") {
		t.Fatalf("expected rawg error, got %q", lines[5])
	}
	if !strings.Contains(lines[9], "Twitch:") || !strings.Contains(lines[9], "[WARN] No credentials") {
		t.Fatalf("expected twitch warning, got %q", lines[9])
	}
	if !strings.Contains(lines[10], "[INFO] Disabled") {
		t.Fatalf("expected disabled cache, got %q", lines[10])
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}
