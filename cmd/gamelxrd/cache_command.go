package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"gamelxrd/internal/catalogcache"
	"gamelxrd/internal/logging"
	"gamelxrd/internal/media"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the descriptor cache",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheRemoveCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached descriptors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(ctx, cmd.OutOrStdout(), func(store *catalogcache.Store) error {
				entries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, entries)
				}
				printCacheEntries(cmd.OutOrStdout(), entries)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print entries as JSON")
	return cmd
}

func printCacheEntries(out io.Writer, entries []catalogcache.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "Cached descriptors: none")
		return
	}
	const stampLayout = "2006-01-02 15:04"
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		state := "fresh"
		if entry.Expired {
			state = "expired"
		}
		rows = append(rows, []string{
			string(entry.Kind),
			entry.Key,
			entry.Title,
			entry.FetchedAt.Local().Format(stampLayout),
			state,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Kind", "Key", "Title", "Fetched", "State"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	))
}

func newCacheRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <movie|tv|game> <key> | remove <entry-id>",
		Short: "Remove one cached descriptor",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(ctx, cmd.OutOrStdout(), func(store *catalogcache.Store) error {
				var (
					removed bool
					err     error
					label   string
				)
				if len(args) == 1 {
					label = strings.TrimSpace(args[0])
					removed, err = store.RemoveID(cmd.Context(), label)
				} else {
					kind, parseErr := media.ParseKind(args[0])
					if parseErr != nil {
						return parseErr
					}
					label = fmt.Sprintf("%s %s", kind, strings.TrimSpace(args[1]))
					removed, err = store.Remove(cmd.Context(), kind, args[1])
				}
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("cache entry %s not found", label)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", label)
				return nil
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached descriptor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(ctx, cmd.OutOrStdout(), func(store *catalogcache.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				if removed == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Cache already empty")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached descriptors\n", removed)
				return nil
			})
		},
	}
}

// withCache opens the configured cache for fn, or prints a notice when the
// cache is disabled.
func withCache(ctx *commandContext, out io.Writer, fn func(*catalogcache.Store) error) error {
	logger, err := ctx.cliLogger()
	if err != nil {
		return err
	}
	store, err := ctx.openCache(logging.NewComponentLogger(logger, "cli-cache"), nil)
	if err != nil {
		return err
	}
	if store == nil {
		fmt.Fprintln(out, "Descriptor cache is disabled (set [cache] enabled = true in config.toml)")
		return nil
	}
	defer store.Close()
	return fn(store)
}
