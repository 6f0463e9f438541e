package catalog

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"gamelxrd/internal/media"
	"gamelxrd/internal/services"
	"gamelxrd/internal/services/rawg"
	"gamelxrd/internal/services/tmdb"
)

// MinQueryLength is the shortest query sent upstream.
const MinQueryLength = 2

// Suggestion is one search hit. ID is the TMDB id for movies and series and
// the RAWG slug for games.
type Suggestion struct {
	Kind      media.Kind `json:"kind"`
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Year      int        `json:"year,omitempty"`
	PosterURL string     `json:"posterUrl,omitempty"`
}

// Search returns up to the configured number of suggestions. Queries shorter
// than MinQueryLength runes return nothing without touching the upstream.
func (s *Service) Search(ctx context.Context, kind media.Kind, query string) ([]Suggestion, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return []Suggestion{}, nil
	}
	switch kind {
	case media.KindMovie, media.KindTV:
		return s.searchVideo(ctx, kind, query)
	case media.KindGame:
		return s.searchGames(ctx, query)
	default:
		return nil, services.Wrap(services.ErrValidation, "catalog", "search", "unknown media kind "+strconv.Quote(string(kind)), nil)
	}
}

func (s *Service) searchVideo(ctx context.Context, kind media.Kind, query string) ([]Suggestion, error) {
	if s.sources.TMDB == nil {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "search", "tmdb source not configured", nil)
	}
	var response *tmdb.Response
	err := s.call(ctx, sourceTMDB, s.opts.RequestTimeout, func(ctx context.Context) error {
		var err error
		if kind == media.KindTV {
			response, err = s.sources.TMDB.SearchTV(ctx, query)
		} else {
			response, err = s.sources.TMDB.SearchMovie(ctx, query)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]Suggestion, 0, min(len(response.Results), s.opts.SearchLimit))
	for _, result := range response.Results {
		if len(out) == s.opts.SearchLimit {
			break
		}
		title := strings.TrimSpace(result.DisplayTitle())
		if title == "" || result.ID <= 0 {
			continue
		}
		out = append(out, Suggestion{
			Kind:      kind,
			ID:        strconv.FormatInt(result.ID, 10),
			Title:     title,
			Year:      yearOf(result.Date()),
			PosterURL: s.thumbnailURL(result.PosterPath),
		})
	}
	return out, nil
}

func (s *Service) searchGames(ctx context.Context, query string) ([]Suggestion, error) {
	if s.sources.RAWG == nil {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "search", "rawg source not configured", nil)
	}
	var response *rawg.SearchResponse
	err := s.call(ctx, sourceRAWG, s.opts.RequestTimeout, func(ctx context.Context) error {
		var err error
		response, err = s.sources.RAWG.Search(ctx, query, s.opts.SearchLimit)
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]Suggestion, 0, min(len(response.Results), s.opts.SearchLimit))
	for _, result := range response.Results {
		if len(out) == s.opts.SearchLimit {
			break
		}
		if strings.TrimSpace(result.Slug) == "" {
			continue
		}
		out = append(out, Suggestion{
			Kind:      media.KindGame,
			ID:        result.Slug,
			Title:     strings.TrimSpace(result.Name),
			Year:      yearOf(result.Released),
			PosterURL: strings.TrimSpace(result.BackgroundImage),
		})
	}
	return out, nil
}

// Lookup fetches a descriptor by kind and catalog id (TMDB id or RAWG slug).
func (s *Service) Lookup(ctx context.Context, kind media.Kind, id string) (media.Descriptor, error) {
	id = strings.TrimSpace(id)
	switch kind {
	case media.KindMovie, media.KindTV:
		tmdbID, err := strconv.ParseInt(id, 10, 64)
		if err != nil || tmdbID <= 0 {
			return nil, services.Wrap(services.ErrValidation, "catalog", "lookup", "tmdb id must be a positive integer: "+strconv.Quote(id), nil)
		}
		if kind == media.KindTV {
			tv, err := s.TV(ctx, tmdbID)
			if err != nil {
				return nil, err
			}
			return tv, nil
		}
		movie, err := s.Movie(ctx, tmdbID)
		if err != nil {
			return nil, err
		}
		return movie, nil
	case media.KindGame:
		game, err := s.Game(ctx, id)
		if err != nil {
			return nil, err
		}
		return game, nil
	default:
		return nil, services.Wrap(services.ErrValidation, "catalog", "lookup", "unknown media kind "+strconv.Quote(string(kind)), nil)
	}
}
