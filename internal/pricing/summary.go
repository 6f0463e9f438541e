package pricing

import (
	"fmt"
	"strings"

	"gamelxrd/internal/media"
)

const priorityLabel = "Вне очереди"

// Summary renders the order line copied into checkout, for example
// "Hades | 22ч | Вне очереди" or "Brat | 5 сер.".
func Summary(d media.Descriptor, params Params) string {
	var parts []string
	switch v := d.(type) {
	case media.Game:
		parts = append(parts, strings.TrimSpace(v.Title), fmt.Sprintf("%dч", params.EffectiveHours()))
	case media.TV:
		parts = append(parts, strings.TrimSpace(v.Title), fmt.Sprintf("%d сер.", params.EffectiveEpisodes()))
	case media.Movie:
		parts = append(parts, strings.TrimSpace(v.Title))
	default:
		return ""
	}
	if params.Priority {
		parts = append(parts, priorityLabel)
	}
	return strings.Join(parts, " | ")
}
