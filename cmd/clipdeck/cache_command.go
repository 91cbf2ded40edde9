package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the translation cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show translation cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			stats, err := db.CacheStats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Database: %s\n", db.Path())
			fmt.Fprintf(out, "Entries:  %d\n", stats.Entries)
			fmt.Fprintf(out, "Hits:     %d\n", stats.Hits)
			if len(stats.Engines) == 0 {
				return nil
			}
			engines := make([]string, 0, len(stats.Engines))
			for name := range stats.Engines {
				engines = append(engines, name)
			}
			sort.Strings(engines)
			rows := make([][]string, 0, len(engines))
			for _, name := range engines {
				rows = append(rows, []string{name, strconv.Itoa(stats.Engines[name])})
			}
			fmt.Fprintln(out, renderTable([]string{"Engine", "Entries"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var engine string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached translations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			engine = strings.TrimSpace(engine)
			removed, err := db.ClearCache(cmd.Context(), engine)
			if err != nil {
				return err
			}
			scope := "all engines"
			if engine != "" {
				scope = engine
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached translations (%s)\n", removed, scope)
			return nil
		},
	}

	cmd.Flags().StringVar(&engine, "engine", "", "Only clear entries from this engine (for example argos or openai:gpt-4o-mini)")
	return cmd
}
