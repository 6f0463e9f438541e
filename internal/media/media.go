package media

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Kind enumerates the descriptor variants.
type Kind string

const (
	KindMovie Kind = "movie"
	KindTV    Kind = "tv"
	KindGame  Kind = "game"
)

// Kinds lists every variant in display order.
var Kinds = []Kind{KindMovie, KindTV, KindGame}

// ParseKind converts user input into a Kind.
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindMovie, "film":
		return KindMovie, nil
	case KindTV, "series", "show":
		return KindTV, nil
	case KindGame:
		return KindGame, nil
	default:
		return "", fmt.Errorf("%w: unknown media kind %q", ErrInvalid, value)
	}
}

// ErrInvalid marks descriptors rejected by validation.
var ErrInvalid = errors.New("invalid media descriptor")

// Descriptor is implemented only by Movie, TV and Game.
type Descriptor interface {
	Kind() Kind
	// Label is the human-readable title used in summaries and logs.
	Label() string
	Validate() error
	isDescriptor()
}

// Extras carries presentation-only data. Pricing never reads it.
type Extras struct {
	PosterURL    string `json:"posterUrl,omitempty"`
	Description  string `json:"description,omitempty"`
	IMDbURL      string `json:"imdbUrl,omitempty"`
	KinopoiskURL string `json:"kinopoiskUrl,omitempty"`
	WikipediaURL string `json:"wikipediaUrl,omitempty"`
	StoreURL     string `json:"storeUrl,omitempty"`
}

// Movie describes a feature film.
type Movie struct {
	TMDBID              int64    `json:"tmdbId,omitempty"`
	IMDbID              string   `json:"imdbId,omitempty"`
	Title               string   `json:"title"`
	OriginalTitle       string   `json:"originalTitle,omitempty"`
	Year                int      `json:"year,omitempty"`
	RuntimeMinutes      int      `json:"runtimeMinutes"`
	IMDbRating          Rating   `json:"imdbRating"`
	UserRating          Rating   `json:"userRating,omitempty"`
	Countries           []string `json:"countries,omitempty"`
	ProductionCompanies []string `json:"productionCompanies,omitempty"`
	Extras              Extras   `json:"extras"`
}

// Watched reports whether the movie carries a score from the watched list.
// Watched scores start at one, so a zero value means not watched.
func (m Movie) Watched() bool {
	return m.UserRating.Known() && m.UserRating > 0
}

// Season is the episode count of one numbered season. Season 0 holds specials.
type Season struct {
	Number       int `json:"number"`
	EpisodeCount int `json:"episodeCount"`
}

// TV describes a series.
type TV struct {
	TMDBID              int64    `json:"tmdbId,omitempty"`
	IMDbID              string   `json:"imdbId,omitempty"`
	Title               string   `json:"title"`
	OriginalTitle       string   `json:"originalTitle,omitempty"`
	Year                int      `json:"year,omitempty"`
	IMDbRating          Rating   `json:"imdbRating"`
	Countries           []string `json:"countries,omitempty"`
	ProductionCompanies []string `json:"productionCompanies,omitempty"`
	AverageRuntime      int      `json:"averageRuntime"`
	TotalEpisodes       int      `json:"totalEpisodes"`
	TotalSeasons        int      `json:"totalSeasons"`
	Seasons             []Season `json:"seasons,omitempty"`
	Extras              Extras   `json:"extras"`
}

// Game describes a video game. Developers, Publishers, RatingsCount and
// Metacritic feed the tier classifier; Metacritic 0 means unknown.
type Game struct {
	Slug          string   `json:"slug,omitempty"`
	Title         string   `json:"title"`
	ReleaseYear   int      `json:"releaseYear,omitempty"`
	Genres        []string `json:"genres,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Rating        Rating   `json:"rating"`
	SteamAppID    int64    `json:"steamAppId,omitempty"`
	SteamPriceRub int      `json:"steamPriceRub"`
	HLTBHours     float64  `json:"hltbHours"`
	Developers    []string `json:"developers,omitempty"`
	Publishers    []string `json:"publishers,omitempty"`
	RatingsCount  int      `json:"ratingsCount,omitempty"`
	Metacritic    int      `json:"metacritic,omitempty"`
	Extras        Extras   `json:"extras"`
}

func (Movie) isDescriptor() {}
func (TV) isDescriptor()    {}
func (Game) isDescriptor()  {}

func (Movie) Kind() Kind { return KindMovie }
func (TV) Kind() Kind    { return KindTV }
func (Game) Kind() Kind  { return KindGame }

func (m Movie) Label() string { return labelWithYear(m.Title, m.Year) }
func (t TV) Label() string    { return labelWithYear(t.Title, t.Year) }
func (g Game) Label() string  { return labelWithYear(g.Title, g.ReleaseYear) }

// Validate rejects movies the engine has no contract for.
func (m Movie) Validate() error {
	if err := validateTitle(m.Title); err != nil {
		return err
	}
	if m.RuntimeMinutes <= 0 {
		return invalidf("movie runtime must be positive, got %d", m.RuntimeMinutes)
	}
	if err := validateRating("user rating", m.UserRating); err != nil {
		return err
	}
	return validateRating("imdb rating", m.IMDbRating)
}

// Validate rejects series the engine has no contract for.
func (t TV) Validate() error {
	if err := validateTitle(t.Title); err != nil {
		return err
	}
	if t.AverageRuntime < 0 {
		return invalidf("episode runtime must not be negative, got %d", t.AverageRuntime)
	}
	if t.TotalEpisodes < 0 || t.TotalSeasons < 0 {
		return invalidf("episode and season totals must not be negative")
	}
	for _, season := range t.Seasons {
		if season.EpisodeCount < 0 {
			return invalidf("season %d has a negative episode count", season.Number)
		}
	}
	return validateRating("imdb rating", t.IMDbRating)
}

// Validate rejects games the engine has no contract for.
func (g Game) Validate() error {
	if err := validateTitle(g.Title); err != nil {
		return err
	}
	if g.SteamPriceRub < 0 {
		return invalidf("steam price must not be negative, got %d", g.SteamPriceRub)
	}
	if g.HLTBHours < 0 || math.IsNaN(g.HLTBHours) || math.IsInf(g.HLTBHours, 0) {
		return invalidf("playtime must be a non-negative number, got %v", g.HLTBHours)
	}
	if g.RatingsCount < 0 || g.Metacritic < 0 || g.Metacritic > 100 {
		return invalidf("ratings count or metacritic out of range")
	}
	return validateRating("rating", g.Rating)
}

// DefaultHours is the duration offered before the user adjusts it: the
// estimated playtime rounded to whole hours, never below four.
func (g Game) DefaultHours() int {
	hours := int(math.Floor(g.HLTBHours + 0.5))
	if hours < 4 {
		return 4
	}
	return hours
}

// FirstSeasonEpisodes returns the episode count of season one. Without a
// season one it falls back to the first regular season that has episodes,
// then to an even split of the episode total across seasons.
func (t TV) FirstSeasonEpisodes() int {
	for _, season := range t.Seasons {
		if season.Number == 1 && season.EpisodeCount > 0 {
			return season.EpisodeCount
		}
	}
	for _, season := range t.Seasons {
		if season.Number > 0 && season.EpisodeCount > 0 {
			return season.EpisodeCount
		}
	}
	if t.TotalSeasons > 0 && t.TotalEpisodes > 0 {
		return (t.TotalEpisodes + t.TotalSeasons - 1) / t.TotalSeasons
	}
	if t.TotalEpisodes > 0 {
		return t.TotalEpisodes
	}
	return 1
}

// AllEpisodes returns the episode total, never below one.
func (t TV) AllEpisodes() int {
	if t.TotalEpisodes < 1 {
		return 1
	}
	return t.TotalEpisodes
}

func labelWithYear(title string, year int) string {
	title = strings.TrimSpace(title)
	if year > 0 {
		return fmt.Sprintf("%s (%d)", title, year)
	}
	return title
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return invalidf("title is required")
	}
	return nil
}

func validateRating(name string, rating Rating) error {
	if !rating.Known() {
		return nil
	}
	value := float64(rating)
	if math.IsInf(value, 0) || value < 0 || value > 10 {
		return invalidf("%s must be within 0-10, got %v", name, value)
	}
	return nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
