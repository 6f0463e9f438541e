package logging

import (
	"log/slog"
	"regexp"
)

const redacted = "REDACTED"

// Upstream credentials travel in query strings, URL paths and auth headers,
// and transport errors quote the full request URL.
var secretPatterns = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?i)\b(api_?key|client_secret|access_token|key)=[^&\s"']+`), "${1}=" + redacted},
	{regexp.MustCompile(`(exchangerate-api\.com/v6/)[^/\s"']+`), "${1}" + redacted},
	{regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9._~+/=-]+`), "${1}" + redacted},
}

// redact masks credentials embedded in s.
func redact(s string) string {
	for _, p := range secretPatterns {
		s = p.re.ReplaceAllString(s, p.repl)
	}
	return s
}

// redactAttr masks string and error values. Other kinds pass through.
func redactAttr(attr slog.Attr) slog.Attr {
	switch attr.Value.Kind() {
	case slog.KindString:
		attr.Value = slog.StringValue(redact(attr.Value.String()))
	case slog.KindAny:
		if err, ok := attr.Value.Any().(error); ok && err != nil {
			attr.Value = slog.StringValue(redact(err.Error()))
		}
	}
	return attr
}
