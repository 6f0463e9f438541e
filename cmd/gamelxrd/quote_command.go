package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gamelxrd/internal/config"
	"gamelxrd/internal/media"
	"gamelxrd/internal/pricing"
)

type quoteOptions struct {
	priority bool
	jsonOut  bool
}

// quoteOutput is the --json form of a quote.
type quoteOutput struct {
	Media       json.RawMessage `json:"media"`
	Params      pricing.Params  `json:"params"`
	Result      pricing.Result  `json:"result"`
	Summary     string          `json:"summary"`
	CheckoutURL string          `json:"checkoutUrl"`
}

func newQuoteCommand(ctx *commandContext) *cobra.Command {
	opts := &quoteOptions{}
	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a movie, series or game order",
	}
	quoteCmd.PersistentFlags().BoolVar(&opts.priority, "priority", false, "Jump the queue (adds the priority surcharge)")
	quoteCmd.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "Print the quote as JSON")

	quoteCmd.AddCommand(newQuoteMovieCommand(ctx, opts))
	quoteCmd.AddCommand(newQuoteTVCommand(ctx, opts))
	quoteCmd.AddCommand(newQuoteGameCommand(ctx, opts))
	quoteCmd.AddCommand(newQuoteFileCommand(ctx, opts))
	return quoteCmd
}

func newQuoteMovieCommand(ctx *commandContext, opts *quoteOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "movie <tmdb-id>",
		Short: "Quote watching a movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTMDBID(args[0])
			if err != nil {
				return err
			}
			logger, err := ctx.cliLogger()
			if err != nil {
				return err
			}
			svc, _, cleanup, err := ctx.catalogService(logger, nil)
			defer cleanup()
			if err != nil {
				return err
			}
			movie, err := svc.Movie(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("fetch movie %d: %w", id, err)
			}
			return emitQuote(cmd, ctx, movie, pricing.Params{Priority: opts.priority}, opts)
		},
	}
}

func newQuoteTVCommand(ctx *commandContext, opts *quoteOptions) *cobra.Command {
	var episodes int
	var season, all bool

	cmd := &cobra.Command{
		Use:   "tv <tmdb-id>",
		Short: "Quote watching a series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTMDBID(args[0])
			if err != nil {
				return err
			}
			if episodes < 0 {
				return fmt.Errorf("--episodes must not be negative")
			}
			logger, err := ctx.cliLogger()
			if err != nil {
				return err
			}
			svc, _, cleanup, err := ctx.catalogService(logger, nil)
			defer cleanup()
			if err != nil {
				return err
			}
			tv, err := svc.TV(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("fetch series %d: %w", id, err)
			}
			params := pricing.Params{Priority: opts.priority, Episodes: episodes}
			switch {
			case season:
				params.Episodes = tv.FirstSeasonEpisodes()
			case all:
				params.Episodes = tv.AllEpisodes()
			}
			return emitQuote(cmd, ctx, tv, params, opts)
		},
	}
	cmd.Flags().IntVarP(&episodes, "episodes", "e", 1, "Number of episodes to watch")
	cmd.Flags().BoolVar(&season, "season", false, "Watch the first season")
	cmd.Flags().BoolVar(&all, "all", false, "Watch every episode")
	cmd.MarkFlagsMutuallyExclusive("episodes", "season", "all")
	return cmd
}

func newQuoteGameCommand(ctx *commandContext, opts *quoteOptions) *cobra.Command {
	var hours float64
	var includeCost bool

	cmd := &cobra.Command{
		Use:   "game <rawg-slug>",
		Short: "Quote playing a game",
		Long:  "Quote playing a game. Without --hours the estimated main-story playtime is used (never below 4 hours).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := strings.TrimSpace(args[0])
			if slug == "" {
				return fmt.Errorf("game slug is required")
			}
			if hours < 0 {
				return fmt.Errorf("--hours must not be negative")
			}
			logger, err := ctx.cliLogger()
			if err != nil {
				return err
			}
			svc, _, cleanup, err := ctx.catalogService(logger, nil)
			defer cleanup()
			if err != nil {
				return err
			}
			game, err := svc.Game(cmd.Context(), slug)
			if err != nil {
				return fmt.Errorf("fetch game %q: %w", slug, err)
			}
			params := pricing.Params{Priority: opts.priority, IncludeGameCost: includeCost}
			if cmd.Flags().Changed("hours") {
				params = params.WithHours(hours)
			}
			return emitQuote(cmd, ctx, game, params, opts)
		},
	}
	cmd.Flags().Float64Var(&hours, "hours", 0, "Hours to play (default: estimated playtime)")
	cmd.Flags().BoolVar(&includeCost, "include-cost", false, "Buy the game on Steam as part of the order")
	return cmd
}

func newQuoteFileCommand(ctx *commandContext, opts *quoteOptions) *cobra.Command {
	var hours float64
	var episodes int
	var includeCost bool

	cmd := &cobra.Command{
		Use:   "file <descriptor.json>",
		Short: "Quote a descriptor saved as JSON (offline)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if hours < 0 {
				return fmt.Errorf("--hours must not be negative")
			}
			if episodes < 0 {
				return fmt.Errorf("--episodes must not be negative")
			}
			path, err := config.ExpandPath(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("resolve descriptor path: %w", err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read descriptor: %w", err)
			}
			d, err := media.Decode(data)
			if err != nil {
				return fmt.Errorf("parse descriptor %s: %w", path, err)
			}
			params := pricing.Params{
				Priority:        opts.priority,
				Episodes:        episodes,
				IncludeGameCost: includeCost,
			}
			if cmd.Flags().Changed("hours") {
				params = params.WithHours(hours)
			}
			return emitQuote(cmd, ctx, d, params, opts)
		},
	}
	cmd.Flags().Float64Var(&hours, "hours", 0, "Hours to play (games)")
	cmd.Flags().IntVarP(&episodes, "episodes", "e", 1, "Number of episodes (series)")
	cmd.Flags().BoolVar(&includeCost, "include-cost", false, "Include the Steam price (games)")
	return cmd
}

func emitQuote(cmd *cobra.Command, ctx *commandContext, d media.Descriptor, params pricing.Params, opts *quoteOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	engine, err := ctx.engine()
	if err != nil {
		return err
	}
	params = pricing.WithDefaults(d, params)
	result := engine.Quote(d, params)
	summary := pricing.Summary(d, params)

	if opts.jsonOut {
		encoded, err := media.Encode(d)
		if err != nil {
			return err
		}
		return writeJSON(cmd, quoteOutput{
			Media:       encoded,
			Params:      params,
			Result:      result,
			Summary:     summary,
			CheckoutURL: cfg.Pricing.CheckoutURL,
		})
	}
	renderQuote(cmd.OutOrStdout(), d, result, summary, cfg.Pricing.CheckoutURL, shouldColorize(cmd.OutOrStdout()))
	return nil
}

func parseTMDBID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid TMDB id %q: must be a positive integer", value)
	}
	return id, nil
}
