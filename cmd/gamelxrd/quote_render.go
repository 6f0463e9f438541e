package main

import (
	"fmt"
	"io"
	"strings"

	"gamelxrd/internal/media"
	"gamelxrd/internal/pricing"
)

func formatRub(amount int) string {
	return fmt.Sprintf("%d ₽", amount)
}

func renderQuote(out io.Writer, d media.Descriptor, result pricing.Result, summary, checkoutURL string, colorize bool) {
	for _, line := range renderSectionHeader(d.Label(), colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, renderTableSpec(quoteTable(result)))

	var notes []string
	switch result.Kind {
	case media.KindGame:
		notes = append(notes,
			renderStatusLine("Category", statusInfo, result.Category.Label(), colorize),
			renderStatusLine("Horror", statusInfo, yesNo(result.IsHorror), colorize),
		)
	case media.KindMovie, media.KindTV:
		notes = append(notes, renderStatusLine("Russian region", statusInfo, yesNo(result.IsRussianRegion), colorize))
	}
	if movie, ok := d.(media.Movie); ok && movie.Watched() {
		notes = append(notes, renderStatusLine("Watched", statusOK, watchedNote(movie.UserRating), colorize))
	}
	for _, warning := range result.Warnings {
		notes = append(notes, renderStatusLine("Warning", statusWarn, warning, colorize))
	}
	notes = append(notes, renderStatusLine("Order summary", statusOK, summary, colorize))
	if strings.TrimSpace(checkoutURL) != "" {
		notes = append(notes, renderStatusLine("Checkout", statusInfo, checkoutURL, colorize))
	}
	for _, line := range notes {
		fmt.Fprintln(out, line)
	}
}

func watchedNote(score media.Rating) string {
	return fmt.Sprintf("already watched on stream, scored %g/10", float64(score))
}

func quoteTable(result pricing.Result) tableSpec {
	rows := [][]string{{"Base price", baseDetail(result), formatRub(result.BasePrice)}}
	add := func(label, detail string, amount int) {
		if amount != 0 {
			rows = append(rows, []string{label, detail, formatRub(amount)})
		}
	}
	add("Rating surcharge", "rating below 6.5", result.RatingSurcharge)
	add("Duration surcharge", "runtime over 100 min", result.DurationSurcharge)
	add("Super-long surcharge", "over 150 h", result.SuperLongSurcharge)
	if result.Discount != 0 {
		detail := "over 24 h"
		if result.Kind == media.KindTV {
			detail = "over 20 episodes"
		}
		rows = append(rows, []string{"Discount", detail, "-" + formatRub(result.Discount)})
	}
	add("Game cost", "Steam price", result.GameCost)
	if result.PrioritySurcharge != 0 {
		rows = append(rows,
			[]string{"Subtotal", "", formatRub(result.TotalBeforePriority)},
			[]string{"Priority", "out of queue", formatRub(result.PrioritySurcharge)},
		)
	}
	return tableSpec{
		headers: []string{"Item", "Detail", "Amount"},
		rows:    rows,
		footer:  []string{"Total", "", formatRub(result.FinalPrice)},
		aligns:  []columnAlignment{alignLeft, alignLeft, alignRight},
	}
}

func baseDetail(result pricing.Result) string {
	switch result.Kind {
	case media.KindGame:
		if result.Hours > 0 {
			return fmt.Sprintf("%d h x %d ₽", result.Hours, result.BasePrice/result.Hours)
		}
	case media.KindTV:
		if result.TV != nil {
			length := "long"
			if result.TV.ShortEpisodes {
				length = "short"
			}
			return fmt.Sprintf("%d ep x %d ₽ (%s, %d min)", result.TV.Episodes, result.TV.PricePerEpisode, length, result.TV.EpisodeRuntime)
		}
	case media.KindMovie:
		if result.IsRussianRegion {
			return "Russian production"
		}
		return "foreign production"
	}
	return ""
}
