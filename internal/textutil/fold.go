package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fold returns the Unicode case-folded, whitespace-trimmed form of value.
// Casers are not safe for concurrent use, so one is built per call.
func Fold(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return cases.Fold().String(value)
}

// FoldAll folds every entry and drops the ones that end up empty.
func FoldAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if folded := Fold(value); folded != "" {
			out = append(out, folded)
		}
	}
	return out
}

// ContainsAny reports whether any folded value contains any keyword as a
// substring. Keywords are expected to be folded already.
func ContainsAny(values []string, keywords []string) bool {
	for _, value := range values {
		folded := Fold(value)
		if folded == "" {
			continue
		}
		for _, keyword := range keywords {
			if keyword != "" && strings.Contains(folded, keyword) {
				return true
			}
		}
	}
	return false
}

// EqualsAny reports whether any folded value equals one of the keywords.
func EqualsAny(values []string, keywords []string) bool {
	for _, value := range values {
		folded := Fold(value)
		if folded == "" {
			continue
		}
		for _, keyword := range keywords {
			if folded == keyword {
				return true
			}
		}
	}
	return false
}

// Title converts a lower-case label into title case for display.
func Title(value string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(value))
}
