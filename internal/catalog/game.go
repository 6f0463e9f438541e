package catalog

import (
	"context"
	"errors"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"gamelxrd/internal/logging"
	"gamelxrd/internal/media"
	"gamelxrd/internal/services"
	"gamelxrd/internal/services/rawg"
	"gamelxrd/internal/services/steam"
	"gamelxrd/internal/textutil"
)

const (
	descriptionLimit = 500
	rubCurrency      = "RUB"
)

// Game resolves a RAWG slug (or a free-form title) into a descriptor. When
// the slug is unknown the best RAWG search hit is used instead. Playtime and
// the Steam price are looked up in parallel; their failures leave the values
// at zero.
func (s *Service) Game(ctx context.Context, slug string) (media.Game, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return media.Game{}, services.Wrap(services.ErrValidation, "catalog", "game", "slug required", nil)
	}
	if d, ok := s.cached(ctx, media.KindGame, slug); ok {
		if game, ok := d.(media.Game); ok {
			return game, nil
		}
	}
	if s.sources.RAWG == nil {
		return media.Game{}, services.Wrap(services.ErrConfiguration, "catalog", "game", "rawg source not configured", nil)
	}

	details, err := s.gameDetails(ctx, slug)
	if err != nil {
		return media.Game{}, err
	}

	game := media.Game{
		Slug:         details.Slug,
		Title:        strings.TrimSpace(details.Name),
		ReleaseYear:  yearOf(details.Released),
		Genres:       s.genresWithImportantTags(details),
		Tags:         rawg.Names(details.Tags),
		Rating:       gameRating(details),
		Developers:   rawg.Names(details.Developers),
		Publishers:   rawg.Names(details.Publishers),
		RatingsCount: max(details.RatingsCount, 0),
		Extras: media.Extras{
			PosterURL:   strings.TrimSpace(details.BackgroundImage),
			Description: gameDescription(details),
		},
	}
	if details.Metacritic > 0 && details.Metacritic <= 100 {
		game.Metacritic = details.Metacritic
	}
	if game.Slug == "" {
		game.Slug = slug
	}

	auxCtx, cancel := context.WithTimeout(ctx, s.opts.AuxTimeout)
	defer cancel()
	g, gctx := errgroup.WithContext(auxCtx)
	g.Go(func() error {
		game.HLTBHours = s.playtime(gctx, game.Title, game.ReleaseYear)
		return nil
	})
	var offer storeOffer
	g.Go(func() error {
		offer = s.steamOffer(gctx, details.ID, game.Title)
		return nil
	})
	_ = g.Wait()

	game.SteamAppID = offer.appID
	game.SteamPriceRub = offer.priceRub
	game.Extras.StoreURL = offer.url

	if err := game.Validate(); err != nil {
		return media.Game{}, services.Wrap(services.ErrExternal, "catalog", "game", "rawg returned an unusable game", err)
	}
	logging.WithContext(ctx, s.logger).Info("game resolved",
		logging.String("slug", game.Slug),
		logging.String("title", game.Title),
		logging.Float64("hltb_hours", game.HLTBHours),
		logging.Int("steam_price_rub", game.SteamPriceRub))

	s.store(ctx, slug, game)
	if game.Slug != slug {
		s.store(ctx, game.Slug, game)
	}
	return game, nil
}

func (s *Service) gameDetails(ctx context.Context, slug string) (*rawg.GameDetails, error) {
	var details *rawg.GameDetails
	err := s.call(ctx, sourceRAWG, s.opts.RequestTimeout, func(ctx context.Context) error {
		var err error
		details, err = s.sources.RAWG.Game(ctx, slug)
		return err
	})
	if err == nil {
		return details, nil
	}
	if !errors.Is(err, services.ErrNotFound) && !errors.Is(err, services.ErrValidation) {
		return nil, err
	}

	query := strings.ReplaceAll(slug, "-", " ")
	var found *rawg.SearchResponse
	err = s.call(ctx, sourceRAWG, s.opts.RequestTimeout, func(ctx context.Context) error {
		var err error
		found, err = s.sources.RAWG.Search(ctx, query, s.opts.SearchLimit)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(found.Results) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "catalog", "game", "game not found in rawg: "+slug, nil)
	}

	candidates := make([]string, len(found.Results))
	for i, result := range found.Results {
		candidates[i] = result.Name
	}
	best, _ := textutil.BestMatch(query, candidates)
	if best < 0 {
		best = 0
	}
	match := found.Results[best]
	logging.WithContext(ctx, s.logger).Debug("rawg slug resolved via search",
		logging.String("requested", slug),
		logging.String("resolved", match.Slug))

	err = s.call(ctx, sourceRAWG, s.opts.RequestTimeout, func(ctx context.Context) error {
		var err error
		details, err = s.sources.RAWG.Game(ctx, match.Slug)
		return err
	})
	if err != nil {
		return nil, err
	}
	return details, nil
}

func (s *Service) genresWithImportantTags(details *rawg.GameDetails) []string {
	genres := rawg.Names(details.Genres)
	seen := make(map[string]struct{}, len(genres))
	for _, genre := range genres {
		seen[textutil.Fold(genre)] = struct{}{}
	}
	for _, tag := range details.Tags {
		name := strings.TrimSpace(tag.Name)
		if name == "" || !s.tables.IsImportantGameTag(name) {
			continue
		}
		if _, ok := seen[textutil.Fold(name)]; ok {
			continue
		}
		seen[textutil.Fold(name)] = struct{}{}
		genres = append(genres, name)
	}
	return genres
}

// gameRating maps Metacritic (0-100) or the RAWG user score (0-5) onto 0-10.
func gameRating(details *rawg.GameDetails) media.Rating {
	if details.Metacritic > 0 && details.Metacritic <= 100 {
		return media.Rating(float64(details.Metacritic) / 10)
	}
	if details.Rating > 0 && details.Rating <= 5 {
		return media.Rating(math.Round(details.Rating*2*100) / 100)
	}
	return media.NoRating()
}

func gameDescription(details *rawg.GameDetails) string {
	raw := details.DescriptionRaw
	if strings.TrimSpace(raw) == "" {
		raw = details.Description
	}
	return textutil.Truncate(textutil.StripHTML(raw), descriptionLimit, "...")
}

func (s *Service) playtime(ctx context.Context, title string, year int) float64 {
	if s.sources.Playtime == nil {
		return 0
	}
	var hours float64
	err := s.call(ctx, sourceLLM, s.opts.AuxTimeout, func(ctx context.Context) error {
		var err error
		hours, err = s.sources.Playtime.EstimatePlaytime(ctx, title, year)
		return err
	})
	if err != nil {
		s.degraded(ctx, sourceLLM, "playtime estimate unavailable", err, "default hours used for the quote")
		return 0
	}
	return hours
}

type storeOffer struct {
	appID    int64
	url      string
	priceRub int
}

// steamOffer finds the Steam app through RAWG stores or a store search and
// converts its regional price to roubles, rounded up.
func (s *Service) steamOffer(ctx context.Context, rawgID int64, title string) storeOffer {
	var offer storeOffer
	if rawgID > 0 {
		var stores []rawg.Store
		err := s.call(ctx, sourceRAWG, s.opts.AuxTimeout, func(ctx context.Context) error {
			var err error
			stores, err = s.sources.RAWG.Stores(ctx, rawgID)
			return err
		})
		if err != nil {
			s.degraded(ctx, sourceRAWG, "rawg stores unavailable", err, "steam app resolved by search")
		} else if appID, storeURL, ok := rawg.SteamAppID(stores); ok {
			offer.appID, offer.url = appID, storeURL
		}
	}
	if s.sources.Steam == nil {
		return offer
	}
	if offer.appID == 0 {
		var found *steam.SearchResponse
		err := s.call(ctx, sourceSteam, s.opts.AuxTimeout, func(ctx context.Context) error {
			var err error
			found, err = s.sources.Steam.SearchApp(ctx, title)
			return err
		})
		if err != nil {
			s.degraded(ctx, sourceSteam, "steam search failed", err, "game cost unknown")
			return offer
		}
		if len(found.Items) == 0 {
			return offer
		}
		offer.appID = found.Items[0].ID
		offer.url = steam.StoreURL(offer.appID)
	}
	if offer.url == "" {
		offer.url = steam.StoreURL(offer.appID)
	}

	var price *steam.Price
	err := s.call(ctx, sourceSteam, s.opts.AuxTimeout, func(ctx context.Context) error {
		var err error
		price, err = s.sources.Steam.Price(ctx, offer.appID)
		return err
	})
	if err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			s.degraded(ctx, sourceSteam, "steam price unavailable", err, "game cost unknown")
		}
		return offer
	}
	if price.IsFree || price.Final <= 0 {
		return offer
	}
	offer.priceRub = int(math.Ceil(price.Major() * s.rubRate(ctx, price.Currency)))
	return offer
}

func (s *Service) rubRate(ctx context.Context, currency string) float64 {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == rubCurrency {
		return 1
	}
	if currency == "" || s.sources.Exchange == nil {
		return s.opts.FallbackRate
	}
	var rate float64
	err := s.call(ctx, sourceExchange, s.opts.AuxTimeout, func(ctx context.Context) error {
		var err error
		rate, err = s.sources.Exchange.Rate(ctx, currency, rubCurrency)
		return err
	})
	if err != nil || rate <= 0 {
		if err != nil {
			s.degraded(ctx, sourceExchange, "exchange rate unavailable", err, "fallback rate used for game cost")
		}
		return s.opts.FallbackRate
	}
	return rate
}
