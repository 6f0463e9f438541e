package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gamelxrd/internal/catalog"
	"gamelxrd/internal/media"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "search <movie|tv|game> <query>",
		Short: "Search the catalogs",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := media.ParseKind(args[0])
			if err != nil {
				return err
			}
			query := strings.Join(args[1:], " ")
			logger, err := ctx.cliLogger()
			if err != nil {
				return err
			}
			svc, _, cleanup, err := ctx.catalogService(logger, nil)
			defer cleanup()
			if err != nil {
				return err
			}
			suggestions, err := svc.Search(cmd.Context(), kind, query)
			if err != nil {
				return fmt.Errorf("search %s: %w", kind, err)
			}
			if jsonOut {
				return writeJSON(cmd, suggestions)
			}
			out := cmd.OutOrStdout()
			if len(suggestions) == 0 {
				fmt.Fprintln(out, "No matches")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Title", "Year"},
				suggestionRows(suggestions),
				[]columnAlignment{alignRight, alignLeft, alignRight},
			))
			fmt.Fprintf(out, "Quote with: gamelxrd quote %s <id>\n", kind)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print suggestions as JSON")
	return cmd
}

func suggestionRows(suggestions []catalog.Suggestion) [][]string {
	rows := make([][]string, 0, len(suggestions))
	for _, s := range suggestions {
		year := ""
		if s.Year > 0 {
			year = strconv.Itoa(s.Year)
		}
		rows = append(rows, []string{s.ID, s.Title, year})
	}
	return rows
}
