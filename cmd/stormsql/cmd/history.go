package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/stormsql/foundation/core/error"
	"github.com/msto63/stormsql/internal/history"
	"github.com/msto63/stormsql/internal/history/store"
	"github.com/msto63/stormsql/internal/render"
)

var (
	historyFilter store.Filter
	historyStatus string
	historySince  time.Duration
	pruneOlder    time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the local analysis history",
	Long: `Lists, shows and maintains analyses recorded by check, repl, tui
and watch. The database location comes from the [history] section.`,
}

var historyListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recorded analyses, newest first",
	Args:    cobra.NoArgs,
	RunE:    runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one recorded analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show history statistics",
	Args:  cobra.NoArgs,
	RunE:  runHistoryStats,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old entries and compact the database",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyStatsCmd, historyPruneCmd)

	addHistoryFilterFlags(historyListCmd, &historyFilter.Origin, &historyFilter.Operation, &historyStatus, &historyFilter.Contains, &historyFilter.Limit)
	historyListCmd.Flags().DurationVar(&historySince, "since", 0, "only entries newer than this, e.g. 24h")
	historyPruneCmd.Flags().DurationVar(&pruneOlder, "older-than", 0, "age limit (default: history.retention)")
}

// addHistoryFilterFlags registers the filter flags shared by the local and
// remote history commands
func addHistoryFilterFlags(c *cobra.Command, origin, operation, status, contains *string, limit *int) {
	c.Flags().StringVar(origin, "origin", "", "filter by origin: cli, repl, grpc, watch, tui")
	c.Flags().StringVar(operation, "operation", "", "filter by operation")
	c.Flags().StringVar(status, "status", "", "filter by status: OK or ERROR")
	c.Flags().StringVar(contains, "contains", "", "filter by source text")
	c.Flags().IntVarP(limit, "limit", "n", 20, "maximum number of entries")
}

func openHistory(cmd *cobra.Command) (*history.Recorder, error) {
	recorder, err := history.Open(cmd.Context(), appConfig.History, logger)
	if err != nil {
		return nil, err
	}
	if recorder == nil {
		return nil, mdwerror.New("history is disabled in the configuration").
			WithCode(mdwerror.CodeServiceUnavailable)
	}
	return recorder, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	recorder, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer recorder.Close()

	filter := historyFilter
	filter.Status = store.Status(historyStatus)
	if historySince > 0 {
		filter.StartTime = time.Now().Add(-historySince)
	}

	entries, err := recorder.Store().Query(cmd.Context(), filter)
	if err != nil {
		return err
	}

	r, err := newRenderer(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if r.Format != render.FormatText {
		list := make([]interface{}, 0, len(entries))
		for _, e := range entries {
			list = append(list, render.EntryMap(e))
		}
		return r.Structured(map[string]interface{}{"entries": list})
	}

	for _, e := range entries {
		fmt.Fprintln(r.Out, e.String())
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	recorder, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer recorder.Close()

	entry, err := recorder.Store().Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	r, err := newRenderer(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return r.Structured(render.EntryMap(entry))
}

func runHistoryStats(cmd *cobra.Command, args []string) error {
	recorder, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer recorder.Close()

	stats, err := recorder.Store().Stats(cmd.Context())
	if err != nil {
		return err
	}

	r, err := newRenderer(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return r.Structured(stats)
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	recorder, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer recorder.Close()

	age := pruneOlder
	if age <= 0 {
		age = appConfig.History.Retention.Duration
	}

	ctx := cmd.Context()
	removed, err := recorder.Prune(ctx, age)
	if err != nil {
		return err
	}
	if err := recorder.Store().Vacuum(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries older than %s\n", removed, age)
	return nil
}
