package classify

import (
	"strings"

	"gamelxrd/internal/keywords"
	"gamelxrd/internal/media"
	"gamelxrd/internal/textutil"
)

// Category is the content tier of a game.
type Category string

const (
	Horror      Category = "horror"
	Competitive Category = "competitive"
	AAA         Category = "aaa"
	AA          Category = "aa"
	Indie       Category = "indie"
)

// Label is the display form: "AAA", "AA", "Indie".
func (c Category) Label() string {
	switch c {
	case AAA, AA:
		return strings.ToUpper(string(c))
	}
	return textutil.Title(string(c))
}

const (
	aaaRatingsCount = 5000
	aaRatingsCount  = 1000
	aaaMetacritic   = 85
	aaMetacritic    = 75
)

// Signals is the catalog data the classifier looks at. Metacritic 0 means
// unknown.
type Signals struct {
	Genres       []string
	Tags         []string
	Developers   []string
	Publishers   []string
	RatingsCount int
	Metacritic   int
}

// SignalsFromGame extracts classifier input from a game descriptor.
func SignalsFromGame(game media.Game) Signals {
	return Signals{
		Genres:       game.Genres,
		Tags:         game.Tags,
		Developers:   game.Developers,
		Publishers:   game.Publishers,
		RatingsCount: game.RatingsCount,
		Metacritic:   game.Metacritic,
	}
}

// Classifier applies one keyword table. It holds no mutable state.
type Classifier struct {
	tables *keywords.Table
}

// New builds a classifier over tables. Nil selects the embedded defaults.
func New(tables *keywords.Table) *Classifier {
	if tables == nil {
		tables = keywords.Default()
	}
	return &Classifier{tables: tables}
}

// Default returns a classifier over the embedded tables.
func Default() *Classifier {
	return New(nil)
}

// Tables exposes the keyword table in use.
func (c *Classifier) Tables() *keywords.Table {
	return c.tables
}

// Classify returns the first matching category.
func (c *Classifier) Classify(s Signals) Category {
	if len(s.Genres) == 0 && len(s.Tags) == 0 {
		return Indie
	}
	if c.IsHorror(s.Genres, s.Tags) {
		return Horror
	}
	if textutil.EqualsAny(s.Tags, c.tables.Competitive) {
		return Competitive
	}
	if tier, ok := c.PublisherTier(s.Developers, s.Publishers); ok {
		return tier
	}
	switch {
	case s.RatingsCount > aaaRatingsCount || s.Metacritic >= aaaMetacritic:
		return AAA
	case s.RatingsCount > aaRatingsCount || s.Metacritic >= aaMetacritic:
		return AA
	default:
		return Indie
	}
}

// IsHorror reports whether genres or tags carry a horror keyword without an
// interactive-fiction exemption.
func (c *Classifier) IsHorror(genres, tags []string) bool {
	labels := make([]string, 0, len(genres)+len(tags))
	labels = append(labels, genres...)
	labels = append(labels, tags...)
	if !textutil.ContainsAny(labels, c.tables.Horror) {
		return false
	}
	return !textutil.ContainsAny(labels, c.tables.Interactive)
}

// PublisherTier matches developers first and falls back to publishers only
// when no developer matched. A name on both lists resolves to AAA.
func (c *Classifier) PublisherTier(developers, publishers []string) (Category, bool) {
	for _, names := range [][]string{developers, publishers} {
		if textutil.ContainsAny(names, c.tables.Publishers.AAA) {
			return AAA, true
		}
		if textutil.ContainsAny(names, c.tables.Publishers.AA) {
			return AA, true
		}
	}
	return "", false
}
