package pricing

import (
	"math"

	"gamelxrd/internal/media"
)

const (
	minGameHours = 4
	maxGameHours = 1_000_000
	minEpisodes  = 1
	maxEpisodes  = 1_000_000
)

// Params are the order options the customer controls. Hours only applies
// to games, Episodes only to series. A nil Hours means the customer did not
// pick a duration.
type Params struct {
	Priority        bool     `json:"priority"`
	Hours           *float64 `json:"hours,omitempty"`
	IncludeGameCost bool     `json:"includeGameCost,omitempty"`
	Episodes        int      `json:"episodes,omitempty"`
}

// WithHours returns a copy of p with an explicit game duration.
func (p Params) WithHours(hours float64) Params {
	p.Hours = &hours
	return p
}

// EffectiveHours is the billed game duration: rounded half-up to whole
// hours and never below four. Missing, negative or invalid input means four.
func (p Params) EffectiveHours() int {
	if p.Hours == nil {
		return minGameHours
	}
	hours := *p.Hours
	if math.IsNaN(hours) || hours < minGameHours {
		return minGameHours
	}
	if hours > maxGameHours {
		return maxGameHours
	}
	if rounded := roundHalfUp(hours); rounded > minGameHours {
		return rounded
	}
	return minGameHours
}

// EffectiveEpisodes is the billed episode count, never below one.
func (p Params) EffectiveEpisodes() int {
	switch {
	case p.Episodes < minEpisodes:
		return minEpisodes
	case p.Episodes > maxEpisodes:
		return maxEpisodes
	default:
		return p.Episodes
	}
}

// WithDefaults fills a game duration the customer left unset with the
// estimated playtime, which is what the order form preselects. A supplied
// duration is kept even when it is out of range; EffectiveHours clamps it.
func WithDefaults(d media.Descriptor, p Params) Params {
	if game, ok := d.(media.Game); ok && p.Hours == nil {
		p = p.WithHours(float64(game.DefaultHours()))
	}
	return p
}
