package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"gamelxrd/internal/config"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len([]rune(line)))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

// sourceLines reports which catalog sources the configuration enables and
// what degrades without the optional ones.
func sourceLines(cfg *config.Config, colorize bool) []string {
	lines := renderSectionHeader("Catalog sources", colorize)
	required := func(label, key string) string {
		if strings.TrimSpace(key) == "" {
			return renderStatusLine(label, statusError, "Missing API key", colorize)
		}
		return renderStatusLine(label, statusOK, "Configured", colorize)
	}
	optional := func(label string, enabled bool, impact string) string {
		if !enabled {
			return renderStatusLine(label, statusWarn, impact, colorize)
		}
		return renderStatusLine(label, statusOK, "Configured", colorize)
	}

	lines = append(lines,
		required("TMDB", cfg.TMDB.APIKey),
		optional("OMDb", cfg.OMDb.APIKey != "", "No API key; TMDB vote average used as rating"),
		optional("TVMaze", cfg.TVMaze.Enabled, "Disabled; episode runtime from TMDB"),
		required("RAWG", cfg.RAWG.APIKey),
		renderStatusLine("Steam", statusOK, "Store region "+strings.ToUpper(cfg.Steam.Country), colorize),
		optional("Exchange", cfg.Exchange.APIKey != "", "No API key; fallback rate "+strconv.FormatFloat(cfg.Exchange.FallbackRate, 'f', -1, 64)),
		optional("Playtime", cfg.LLM.APIKey != "", "No LLM key; game hours default to 4"),
		optional("Twitch", cfg.Twitch.Configured(), "No credentials; stream always offline"),
	)
	if cfg.Cache.Enabled {
		lines = append(lines, renderStatusLine("Cache", statusOK, cfg.Cache.Path, colorize))
	} else {
		lines = append(lines, renderStatusLine("Cache", statusInfo, "Disabled", colorize))
	}
	return lines
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
