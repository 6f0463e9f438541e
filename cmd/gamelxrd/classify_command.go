package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gamelxrd/internal/classify"
)

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var signals classify.Signals
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a game tier from catalog signals (offline)",
		Example: `  gamelxrd classify --genre Action --tag "Battle Royale"
  gamelxrd classify --genre RPG --publisher "CD Projekt" --metacritic 93`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if signals.RatingsCount < 0 || signals.Metacritic < 0 || signals.Metacritic > 100 {
				return fmt.Errorf("--ratings-count must be >= 0 and --metacritic within 0-100")
			}
			classifier, err := ctx.classifier()
			if err != nil {
				return err
			}
			category := classifier.Classify(signals)
			horror := classifier.IsHorror(signals.Genres, signals.Tags)
			tier, publisherMatch := classifier.PublisherTier(signals.Developers, signals.Publishers)

			if jsonOut {
				return writeJSON(cmd, map[string]any{
					"category":        category,
					"horror":          horror,
					"publisherTier":   tier,
					"publisherMatch":  publisherMatch,
					"keywordsVersion": classifier.Tables().Version,
				})
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, renderStatusLine("Category", statusOK, category.Label(), colorize))
			fmt.Fprintln(out, renderStatusLine("Horror pricing", statusInfo, yesNo(horror), colorize))
			publisher := "no match"
			if publisherMatch {
				publisher = tier.Label()
			}
			fmt.Fprintln(out, renderStatusLine("Publisher tier", statusInfo, publisher, colorize))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&signals.Genres, "genre", nil, "Genre name (repeatable)")
	cmd.Flags().StringArrayVar(&signals.Tags, "tag", nil, "Tag name (repeatable)")
	cmd.Flags().StringArrayVar(&signals.Developers, "developer", nil, "Developer name (repeatable)")
	cmd.Flags().StringArrayVar(&signals.Publishers, "publisher", nil, "Publisher name (repeatable)")
	cmd.Flags().IntVar(&signals.RatingsCount, "ratings-count", 0, "Number of user ratings")
	cmd.Flags().IntVar(&signals.Metacritic, "metacritic", 0, "Metacritic score (0 = unknown)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the classification as JSON")
	return cmd
}
