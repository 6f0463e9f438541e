package pricing

import (
	"gamelxrd/internal/classify"
	"gamelxrd/internal/media"
)

// Result is an itemized quote. All amounts are whole roubles and never
// negative.
//
//	TotalBeforePriority = BasePrice + RatingSurcharge + DurationSurcharge +
//	                      SuperLongSurcharge - Discount + GameCost
//	FinalPrice          = TotalBeforePriority + PrioritySurcharge
type Result struct {
	Kind                media.Kind `json:"kind"`
	BasePrice           int        `json:"basePrice"`
	RatingSurcharge     int        `json:"ratingSurcharge"`
	DurationSurcharge   int        `json:"durationSurcharge"`
	Discount            int        `json:"discount"`
	SuperLongSurcharge  int        `json:"superLongSurcharge"`
	GameCost            int        `json:"gameCost"`
	PrioritySurcharge   int        `json:"prioritySurcharge"`
	TotalBeforePriority int        `json:"totalBeforePriority"`
	FinalPrice          int        `json:"finalPrice"`
	IsRussianRegion     bool       `json:"isRussianRegion"`
	IsHorror            bool       `json:"isHorror"`
	Warnings            []string   `json:"warnings"`

	// Category is the game tier. It is informational and never changes the price.
	Category classify.Category `json:"category,omitempty"`
	// Hours is the billed game duration.
	Hours int `json:"hours,omitempty"`
	// TV describes how a series price was built.
	TV *TVDetails `json:"tv,omitempty"`
	// KeywordsVersion identifies the keyword tables used for matching.
	KeywordsVersion string `json:"keywordsVersion"`
}

// TVDetails explains the per-episode price of a series quote.
type TVDetails struct {
	PricePerEpisode int  `json:"pricePerEpisode"`
	Episodes        int  `json:"episodes"`
	EpisodeRuntime  int  `json:"episodeRuntime"`
	ShortEpisodes   bool `json:"shortEpisodes"`
}

func (r *Result) finalize() {
	r.TotalBeforePriority = r.BasePrice + r.RatingSurcharge + r.DurationSurcharge +
		r.SuperLongSurcharge - r.Discount + r.GameCost
	r.FinalPrice = r.TotalBeforePriority + r.PrioritySurcharge
}
