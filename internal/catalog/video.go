package catalog

import (
	"context"
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"gamelxrd/internal/logging"
	"gamelxrd/internal/media"
	"gamelxrd/internal/services"
	"gamelxrd/internal/services/tmdb"
)

const (
	defaultMovieRuntime = 90
	defaultTVRuntime    = 45
	missingDescription  = "Описание отсутствует"
)

// Movie resolves a TMDB movie id into a descriptor.
func (s *Service) Movie(ctx context.Context, tmdbID int64) (media.Movie, error) {
	if tmdbID <= 0 {
		return media.Movie{}, services.Wrap(services.ErrValidation, "catalog", "movie", "tmdb id must be positive", nil)
	}
	key := strconv.FormatInt(tmdbID, 10)
	if d, ok := s.cached(ctx, media.KindMovie, key); ok {
		if movie, ok := d.(media.Movie); ok {
			return s.withUserRating(movie), nil
		}
	}
	if s.sources.TMDB == nil {
		return media.Movie{}, services.Wrap(services.ErrConfiguration, "catalog", "movie", "tmdb source not configured", nil)
	}

	var details *tmdb.MovieDetails
	err := s.call(ctx, sourceTMDB, s.opts.RequestTimeout, func(ctx context.Context) error {
		var err error
		details, err = s.sources.TMDB.GetMovieDetails(ctx, tmdbID)
		return err
	})
	if err != nil {
		return media.Movie{}, err
	}

	movie := media.Movie{
		TMDBID:              details.ID,
		IMDbID:              strings.TrimSpace(details.IMDbID),
		Title:               strings.TrimSpace(details.Title),
		OriginalTitle:       strings.TrimSpace(details.OriginalTitle),
		Year:                yearOf(details.ReleaseDate),
		RuntimeMinutes:      details.Runtime,
		IMDbRating:          s.imdbRating(ctx, details.IMDbID, details.VoteAverage),
		Countries:           countryNames(details.ProductionCountries, nil),
		ProductionCompanies: names(details.ProductionCompanies),
		Extras:              s.videoExtras(details.IMDbID, details.Title, details.PosterPath, details.Overview),
	}
	if movie.RuntimeMinutes <= 0 {
		movie.RuntimeMinutes = defaultMovieRuntime
	}
	if err := movie.Validate(); err != nil {
		return media.Movie{}, services.Wrap(services.ErrExternal, "catalog", "movie", "tmdb returned an unusable movie", err)
	}
	s.store(ctx, key, movie)
	return s.withUserRating(movie), nil
}

// withUserRating attaches the watched score on every lookup, so cached
// descriptors pick up edits to the watched table.
func (s *Service) withUserRating(movie media.Movie) media.Movie {
	movie.UserRating = media.NoRating()
	if score, ok := s.tables.UserRating(movie.IMDbID); ok {
		movie.UserRating = media.Rating(score)
	}
	return movie
}

// TV resolves a TMDB series id into a descriptor.
func (s *Service) TV(ctx context.Context, tmdbID int64) (media.TV, error) {
	if tmdbID <= 0 {
		return media.TV{}, services.Wrap(services.ErrValidation, "catalog", "tv", "tmdb id must be positive", nil)
	}
	key := strconv.FormatInt(tmdbID, 10)
	if d, ok := s.cached(ctx, media.KindTV, key); ok {
		if tv, ok := d.(media.TV); ok {
			return tv, nil
		}
	}
	if s.sources.TMDB == nil {
		return media.TV{}, services.Wrap(services.ErrConfiguration, "catalog", "tv", "tmdb source not configured", nil)
	}

	var details *tmdb.TVDetails
	err := s.call(ctx, sourceTMDB, s.opts.RequestTimeout, func(ctx context.Context) error {
		var err error
		details, err = s.sources.TMDB.GetTVDetails(ctx, tmdbID)
		return err
	})
	if err != nil {
		return media.TV{}, err
	}

	imdbID := ""
	if details.ExternalIDs != nil {
		imdbID = strings.TrimSpace(details.ExternalIDs.IMDbID)
	}

	tv := media.TV{
		TMDBID:              details.ID,
		IMDbID:              imdbID,
		Title:               strings.TrimSpace(details.Name),
		OriginalTitle:       strings.TrimSpace(details.OriginalName),
		Year:                yearOf(details.FirstAirDate),
		IMDbRating:          s.imdbRating(ctx, imdbID, details.VoteAverage),
		Countries:           countryNames(details.ProductionCountries, details.OriginCountry),
		ProductionCompanies: names(details.ProductionCompanies),
		AverageRuntime:      s.episodeRuntime(ctx, imdbID, details),
		TotalEpisodes:       details.NumberOfEpisodes,
		TotalSeasons:        details.NumberOfSeasons,
		Extras:              s.videoExtras(imdbID, details.Name, details.PosterPath, details.Overview),
	}
	if tv.TotalEpisodes <= 0 {
		tv.TotalEpisodes = 1
	}
	if tv.TotalSeasons < 0 {
		tv.TotalSeasons = 0
	}
	for _, season := range details.Seasons {
		if season.EpisodeCount < 0 {
			continue
		}
		tv.Seasons = append(tv.Seasons, media.Season{Number: season.SeasonNumber, EpisodeCount: season.EpisodeCount})
	}
	if err := tv.Validate(); err != nil {
		return media.TV{}, services.Wrap(services.ErrExternal, "catalog", "tv", "tmdb returned an unusable series", err)
	}
	s.store(ctx, key, tv)
	return tv, nil
}

// imdbRating prefers OMDb, then the TMDB vote average. Zero means no rating.
func (s *Service) imdbRating(ctx context.Context, imdbID string, voteAverage float64) media.Rating {
	imdbID = strings.TrimSpace(imdbID)
	if s.sources.OMDb != nil && imdbID != "" {
		var rating float64
		err := s.call(ctx, sourceOMDb, s.opts.AuxTimeout, func(ctx context.Context) error {
			var err error
			rating, err = s.sources.OMDb.Rating(ctx, imdbID)
			return err
		})
		switch {
		case err == nil && rating > 0 && rating <= 10:
			return media.Rating(rating)
		case err != nil && !errors.Is(err, services.ErrNotFound):
			s.degraded(ctx, sourceOMDb, "imdb rating unavailable", err, "tmdb vote average used as rating")
		}
	}
	if voteAverage > 0 && voteAverage <= 10 {
		return media.Rating(voteAverage)
	}
	return media.NoRating()
}

// episodeRuntime prefers TVMaze, then the TMDB mean runtime, then the last
// aired episode, then a 45 minute default.
func (s *Service) episodeRuntime(ctx context.Context, imdbID string, details *tmdb.TVDetails) int {
	if s.sources.TVMaze != nil && imdbID != "" {
		var runtime int
		err := s.call(ctx, sourceTVMaze, s.opts.AuxTimeout, func(ctx context.Context) error {
			show, err := s.sources.TVMaze.LookupByIMDb(ctx, imdbID)
			if err != nil {
				return err
			}
			runtime = show.EpisodeRuntime()
			return nil
		})
		if err != nil && !errors.Is(err, services.ErrNotFound) {
			s.degraded(ctx, sourceTVMaze, "tvmaze runtime unavailable", err, "tmdb runtime used")
		}
		if runtime > 0 {
			return runtime
		}
	}

	if len(details.EpisodeRunTime) > 0 {
		sum := 0
		for _, value := range details.EpisodeRunTime {
			sum += value
		}
		if mean := int(math.Floor(float64(sum)/float64(len(details.EpisodeRunTime)) + 0.5)); mean > 0 {
			return mean
		}
	}
	if details.LastEpisodeToAir != nil && details.LastEpisodeToAir.Runtime > 0 {
		return details.LastEpisodeToAir.Runtime
	}
	logging.WithContext(ctx, s.logger).Debug("no runtime data, using default",
		logging.Int64("tmdb_id", details.ID),
		logging.Int("runtime", defaultTVRuntime))
	return defaultTVRuntime
}

func (s *Service) videoExtras(imdbID, title, posterPath, overview string) media.Extras {
	imdbID = strings.TrimSpace(imdbID)
	title = strings.TrimSpace(title)
	extras := media.Extras{
		PosterURL:    s.imageURL(posterPath),
		Description:  strings.TrimSpace(overview),
		WikipediaURL: "https://ru.wikipedia.org/w/index.php?search=" + url.QueryEscape(title),
	}
	if extras.Description == "" {
		extras.Description = missingDescription
	}
	if imdbID != "" {
		extras.IMDbURL = "https://www.imdb.com/title/" + imdbID + "/"
		extras.KinopoiskURL = "https://www.kinopoisk.ru/index.php?kp_query=" + url.QueryEscape(imdbID)
	} else {
		extras.KinopoiskURL = "https://www.kinopoisk.ru/index.php?kp_query=" + url.QueryEscape(title)
	}
	return extras
}

func (s *Service) imageURL(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	return strings.TrimRight(s.opts.ImageBaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// thumbnailURL swaps the configured image size for the small search size.
func (s *Service) thumbnailURL(path string) string {
	full := s.imageURL(path)
	if full == "" {
		return ""
	}
	base := strings.TrimRight(s.opts.ImageBaseURL, "/")
	if idx := strings.LastIndex(base, "/"); idx > 0 && strings.HasPrefix(base[idx+1:], "w") {
		return base[:idx] + "/w92/" + strings.TrimLeft(strings.TrimSpace(path), "/")
	}
	return full
}

func yearOf(date string) int {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year < 0 {
		return 0
	}
	return year
}

func names(entries []tmdb.Named) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if name := strings.TrimSpace(entry.Name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// countryNames merges production countries with ISO origin codes rendered as
// English names, so region keywords match either source.
func countryNames(production []tmdb.Named, originCodes []string) []string {
	seen := map[string]struct{}{}
	var out []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	for _, entry := range production {
		add(entry.Name)
	}
	for _, code := range originCodes {
		add(regionName(code))
	}
	return out
}

func regionName(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	switch code {
	case "SU":
		return "Soviet Union"
	case "XC":
		return "Czechoslovakia"
	}
	region, err := language.ParseRegion(code)
	if err != nil {
		return code
	}
	if name := display.English.Regions().Name(region); name != "" {
		return name
	}
	return code
}
