package keywords

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"gamelxrd/internal/textutil"
)

//go:embed tables.yaml
var defaultTables []byte

// Publishers groups studio keywords by tier.
type Publishers struct {
	AAA []string `yaml:"aaa"`
	AA  []string `yaml:"aa"`
}

// Table is one complete, versioned set of keyword lists.
type Table struct {
	Version           string     `yaml:"version"`
	Horror            []string   `yaml:"horror"`
	Interactive       []string   `yaml:"interactive"`
	Competitive       []string   `yaml:"competitive"`
	Publishers        Publishers `yaml:"publishers"`
	RussianRegions    []string   `yaml:"russian_regions"`
	BoycottedStudios  []string   `yaml:"boycotted_studios"`
	BoycottAfterYear  int        `yaml:"boycott_after_year"`
	BoycottWarning    string     `yaml:"boycott_warning"`
	ImportantGameTags []string   `yaml:"important_game_tags"`

	// Watched maps IMDb ids to the score given after watching on stream.
	Watched map[string]int `yaml:"watched"`
}

var loadDefault = sync.OnceValues(func() (*Table, error) {
	return Parse(defaultTables)
})

// Default returns the embedded tables. The embedded data is covered by tests,
// so a parse failure here is a build defect.
func Default() *Table {
	table, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("keywords: embedded tables invalid: %v", err))
	}
	return table
}

// Load reads an override table from path. An empty path yields the defaults.
func Load(path string) (*Table, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keyword tables: %w", err)
	}
	table, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("keyword tables %s: %w", path, err)
	}
	return table, nil
}

// Parse decodes YAML tables, folds every list and validates the result.
func Parse(data []byte) (*Table, error) {
	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse keyword tables: %w", err)
	}
	table.normalize()
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &table, nil
}

func (t *Table) normalize() {
	t.Version = strings.TrimSpace(t.Version)
	t.Horror = textutil.FoldAll(t.Horror)
	t.Interactive = textutil.FoldAll(t.Interactive)
	t.Competitive = textutil.FoldAll(t.Competitive)
	t.Publishers.AAA = textutil.FoldAll(t.Publishers.AAA)
	t.Publishers.AA = textutil.FoldAll(t.Publishers.AA)
	t.RussianRegions = textutil.FoldAll(t.RussianRegions)
	t.BoycottedStudios = textutil.FoldAll(t.BoycottedStudios)
	t.ImportantGameTags = textutil.FoldAll(t.ImportantGameTags)
	t.BoycottWarning = strings.TrimSpace(t.BoycottWarning)
	if len(t.Watched) > 0 {
		watched := make(map[string]int, len(t.Watched))
		for id, score := range t.Watched {
			watched[normalizeIMDbID(id)] = score
		}
		t.Watched = watched
	}
}

// normalizeIMDbID lowercases an id and restores a missing "tt" prefix.
func normalizeIMDbID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" || strings.HasPrefix(id, "tt") {
		return id
	}
	return "tt" + id
}

// Validate ensures the lists the engine depends on are populated.
func (t *Table) Validate() error {
	if t.Version == "" {
		return errors.New("keyword tables: version is required")
	}
	required := []struct {
		name   string
		values []string
	}{
		{"horror", t.Horror},
		{"interactive", t.Interactive},
		{"competitive", t.Competitive},
		{"publishers.aaa", t.Publishers.AAA},
		{"publishers.aa", t.Publishers.AA},
		{"russian_regions", t.RussianRegions},
		{"boycotted_studios", t.BoycottedStudios},
	}
	for _, list := range required {
		if len(list.values) == 0 {
			return fmt.Errorf("keyword tables: %s must not be empty", list.name)
		}
	}
	if t.BoycottWarning == "" {
		return errors.New("keyword tables: boycott_warning is required")
	}
	if t.BoycottAfterYear < 0 {
		return errors.New("keyword tables: boycott_after_year must be >= 0")
	}
	for id, score := range t.Watched {
		if id == "" {
			return errors.New("keyword tables: watched entry with empty imdb id")
		}
		if score < 1 || score > 10 {
			return fmt.Errorf("keyword tables: watched %s score must be within 1-10, got %d", id, score)
		}
	}
	return nil
}

// IsRussianRegion reports whether any country names a Russian or Soviet origin.
func (t *Table) IsRussianRegion(countries []string) bool {
	return textutil.ContainsAny(countries, t.RussianRegions)
}

// HasBoycottedStudio reports whether any production company is on the boycott list.
func (t *Table) HasBoycottedStudio(companies []string) bool {
	return textutil.ContainsAny(companies, t.BoycottedStudios)
}

// IsImportantGameTag reports whether a catalog tag should be promoted next to genres.
func (t *Table) IsImportantGameTag(tag string) bool {
	return textutil.EqualsAny([]string{tag}, t.ImportantGameTags)
}

// UserRating returns the score given to an already watched movie. Ids
// without the "tt" prefix are accepted.
func (t *Table) UserRating(imdbID string) (int, bool) {
	id := normalizeIMDbID(imdbID)
	if id == "" {
		return 0, false
	}
	score, ok := t.Watched[id]
	return score, ok
}

// Lists returns every keyword list keyed by table name.
func (t *Table) Lists() map[string][]string {
	return map[string][]string{
		"horror":              t.Horror,
		"interactive":         t.Interactive,
		"competitive":         t.Competitive,
		"publishers.aaa":      t.Publishers.AAA,
		"publishers.aa":       t.Publishers.AA,
		"russian_regions":     t.RussianRegions,
		"boycotted_studios":   t.BoycottedStudios,
		"important_game_tags": t.ImportantGameTags,
	}
}

// Sizes reports list lengths keyed by table name, for diagnostics.
func (t *Table) Sizes() map[string]int {
	sizes := make(map[string]int)
	for name, values := range t.Lists() {
		sizes[name] = len(values)
	}
	sizes["watched"] = len(t.Watched)
	return sizes
}
