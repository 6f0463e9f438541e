package pricing

import (
	"math"

	"gamelxrd/internal/classify"
	"gamelxrd/internal/keywords"
	"gamelxrd/internal/media"
)

// Price table in roubles.
const (
	gameRateShort  = 150 // per hour, exactly four hours
	gameRateLong   = 180 // per hour, above four hours
	gameRateHorror = 240 // per hour, any duration

	neutralRating       = 6.5
	gameRatingStepPrice = 20

	longGameHours      = 24
	superLongGameHours = 150
	superLongBlock     = 100
	longGameDiscount   = 0.10

	shortEpisodeMinutes   = 35
	defaultEpisodeMinutes = 45
	bulkEpisodes          = 20
	bulkDiscount          = 0.10

	movieBaseRussian = 2000
	movieBaseOther   = 500
	movieRatingShare = 0.20
	movieFreeMinutes = 100
	movieBlockMinute = 10
	movieBlockPrice  = 20
)

var episodePrices = map[bool]struct{ short, long int }{
	true:  {short: 1000, long: 1700},
	false: {short: 250, long: 400},
}

// Engine computes quotes against one keyword table. It is immutable and
// safe for concurrent use.
type Engine struct {
	classifier *classify.Classifier
	tables     *keywords.Table
}

// New builds an engine around classifier. Nil selects the embedded tables.
func New(classifier *classify.Classifier) *Engine {
	if classifier == nil {
		classifier = classify.Default()
	}
	return &Engine{classifier: classifier, tables: classifier.Tables()}
}

var defaultEngine = New(nil)

// Default returns the engine over the embedded keyword tables.
func Default() *Engine {
	return defaultEngine
}

// Quote prices d with the embedded keyword tables.
func Quote(d media.Descriptor, params Params) Result {
	return defaultEngine.Quote(d, params)
}

// KeywordsVersion reports the version of the tables the engine matches against.
func (e *Engine) KeywordsVersion() string {
	return e.tables.Version
}

// Quote prices one descriptor. It never fails; a nil descriptor yields an
// empty quote.
func (e *Engine) Quote(d media.Descriptor, params Params) Result {
	var result Result
	switch v := d.(type) {
	case media.Game:
		result = e.quoteGame(v, params)
	case media.TV:
		result = e.quoteTV(v, params)
	case media.Movie:
		result = e.quoteMovie(v, params)
	}
	if result.Warnings == nil {
		result.Warnings = []string{}
	}
	result.KeywordsVersion = e.tables.Version
	result.finalize()
	return result
}

func (e *Engine) quoteGame(game media.Game, params Params) Result {
	hours := params.EffectiveHours()
	result := Result{
		Kind:     media.KindGame,
		Hours:    hours,
		IsHorror: e.classifier.IsHorror(game.Genres, game.Tags),
		Category: e.classifier.Classify(classify.SignalsFromGame(game)),
	}

	rate := gameRateShort
	switch {
	case result.IsHorror:
		rate = gameRateHorror
	case hours > minGameHours:
		rate = gameRateLong
	}
	result.BasePrice = hours * rate

	rating := clampRating(game.Rating.Or(neutralRating))
	if rating < neutralRating {
		steps := roundHalfUp((neutralRating - rating) * 10)
		result.RatingSurcharge = steps * gameRatingStepPrice
	}

	serviceFee := result.BasePrice + result.RatingSurcharge
	switch {
	case hours > superLongGameHours:
		result.SuperLongSurcharge = serviceFee * (hours / superLongBlock)
	case hours > longGameHours:
		result.Discount = percentOf(serviceFee, longGameDiscount)
	}

	if params.IncludeGameCost && game.SteamPriceRub > 0 {
		result.GameCost = game.SteamPriceRub
	}
	if params.Priority {
		result.PrioritySurcharge = serviceFee
	}
	return result
}

func (e *Engine) quoteTV(tv media.TV, params Params) Result {
	runtime := tv.AverageRuntime
	if runtime <= 0 {
		runtime = defaultEpisodeMinutes
	}
	episodes := params.EffectiveEpisodes()
	russian := e.tables.IsRussianRegion(tv.Countries)
	short := runtime <= shortEpisodeMinutes

	prices := episodePrices[russian]
	perEpisode := prices.long
	if short {
		perEpisode = prices.short
	}

	result := Result{
		Kind:            media.KindTV,
		IsRussianRegion: russian,
		BasePrice:       perEpisode * episodes,
		TV: &TVDetails{
			PricePerEpisode: perEpisode,
			Episodes:        episodes,
			EpisodeRuntime:  runtime,
			ShortEpisodes:   short,
		},
	}
	if episodes > bulkEpisodes {
		result.Discount = percentOf(result.BasePrice, bulkDiscount)
	}
	if params.Priority {
		result.PrioritySurcharge = result.BasePrice
	}
	return result
}

func (e *Engine) quoteMovie(movie media.Movie, params Params) Result {
	russian := e.tables.IsRussianRegion(movie.Countries)
	result := Result{
		Kind:            media.KindMovie,
		IsRussianRegion: russian,
		BasePrice:       movieBaseOther,
	}
	if russian {
		result.BasePrice = movieBaseRussian
	}

	rating := clampRating(movie.IMDbRating.Or(neutralRating))
	if rating < neutralRating {
		diff := neutralRating - rating
		result.RatingSurcharge = roundHalfUp(float64(result.BasePrice) * (diff * movieRatingShare))
	}

	if extra := movie.RuntimeMinutes - movieFreeMinutes; extra > 0 {
		blocks := int(math.Ceil(float64(extra) / movieBlockMinute))
		result.DurationSurcharge = blocks * movieBlockPrice
	}

	if movie.Year > e.tables.BoycottAfterYear && e.tables.HasBoycottedStudio(movie.ProductionCompanies) {
		result.Warnings = append(result.Warnings, e.tables.BoycottWarning)
	}

	if params.Priority {
		result.PrioritySurcharge = result.BasePrice + result.RatingSurcharge + result.DurationSurcharge
	}
	return result
}
