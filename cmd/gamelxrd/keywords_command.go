package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newKeywordsCommand(ctx *commandContext) *cobra.Command {
	var list string

	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Show the active keyword tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			tables, err := ctx.keywordTables()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			source := "embedded"
			if path := strings.TrimSpace(cfg.Pricing.KeywordsPath); path != "" {
				source = path
			}
			fmt.Fprintf(out, "Version: %s\n", tables.Version)
			fmt.Fprintf(out, "Source:  %s\n", source)

			sizes := tables.Sizes()
			if name := strings.TrimSpace(list); name != "" {
				values, ok := tables.Lists()[name]
				if !ok {
					return fmt.Errorf("unknown keyword list %q", name)
				}
				for _, value := range values {
					fmt.Fprintf(out, "  - %s\n", value)
				}
				return nil
			}

			names := make([]string, 0, len(sizes))
			for name := range sizes {
				names = append(names, name)
			}
			sort.Strings(names)
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				rows = append(rows, []string{name, strconv.Itoa(sizes[name])})
			}
			fmt.Fprintln(out, renderTable([]string{"List", "Entries"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
	cmd.Flags().StringVar(&list, "list", "", "Print the entries of one list (e.g. horror, publishers.aaa)")
	return cmd
}
