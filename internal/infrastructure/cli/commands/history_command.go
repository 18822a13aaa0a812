package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/XCodeIsGoldX/ollamaland/internal/app"
	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
	"github.com/XCodeIsGoldX/ollamaland/internal/infrastructure/cli/helpers"
	"github.com/XCodeIsGoldX/ollamaland/internal/infrastructure/history"
	"github.com/XCodeIsGoldX/ollamaland/internal/ports"
)

// History listing limits
const (
	DefaultHistorySearchLimit = 50
	MaxHistoryAnalysisRecords = 1000
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the analyzer run history",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistorySearchCommand(container),
		newHistoryClearCommand(container),
		newHistoryExportCommand(container),
		newHistoryStatsCommand(container),
	)

	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd.OutOrStdout(), container.HistoryStore, limit, "")
		},
	}

	cmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryLimit, "Max entries to show")
	return cmd
}

// newHistorySearchCommand creates the 'history search' subcommand
func newHistorySearchCommand(container *app.Container) *cobra.Command {
	var searchLimit int

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search history by URL, operation or kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd.OutOrStdout(), container.HistoryStore, searchLimit, args[0])
		},
	}

	cmd.Flags().IntVar(&searchLimit, "limit", DefaultHistorySearchLimit, "Limit search results")
	return cmd
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return clearHistory(container.HistoryStore)
		},
	}
}

// newHistoryExportCommand creates the 'history export' subcommand
func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export history to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportHistory(cmd.OutOrStdout(), container.HistoryStore, args[0])
		},
	}
}

// newHistoryStatsCommand creates the 'history stats' subcommand
func newHistoryStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show success and cache hit rates per operation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistoryStats(cmd.OutOrStdout(), container.HistoryStore)
		},
	}
}

// listHistoryEntries lists recent entries, optionally filtered by keyword
func listHistoryEntries(out io.Writer, store ports.HistoryRepository, limit int, search string) error {
	if store == nil {
		return errors.New(ErrHistoryStoreUnavailable)
	}

	records, err := store.Records(limit, search)
	if err != nil {
		return fmt.Errorf("failed to retrieve history records: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(out, "%s | %s | %s | %s | %s\n",
			rec.Timestamp.Local().Format(TimestampFormat),
			operationLabel(rec),
			statusLabel(rec),
			(time.Duration(rec.DurationMS) * time.Millisecond).String(),
			rec.Target)
	}

	return nil
}

// clearHistory deletes every history entry
func clearHistory(store ports.HistoryRepository) error {
	if store == nil {
		return errors.New(ErrHistoryStoreUnavailable)
	}

	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	return nil
}

// exportHistory exports history to a JSONL file
func exportHistory(out io.Writer, store ports.HistoryRepository, path string) error {
	if store == nil {
		return errors.New(ErrHistoryStoreUnavailable)
	}

	if err := history.Export(store, path); err != nil {
		return fmt.Errorf("failed to export history to %s: %w", path, err)
	}

	fmt.Fprintf(out, "Exported history to %s\n", path)
	return nil
}

// showHistoryStats displays success and cache hit rates
func showHistoryStats(out io.Writer, store ports.HistoryRepository) error {
	if store == nil {
		return errors.New(ErrHistoryStoreUnavailable)
	}

	records, err := store.Records(MaxHistoryAnalysisRecords, "")
	if err != nil {
		return fmt.Errorf("failed to retrieve history for analysis: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	stats := analyzeHistoryRecords(records)
	displayHistoryStatistics(out, stats, len(records))

	return nil
}

// historyStatistics holds analyzed history statistics
type historyStatistics struct {
	successful   int
	cacheHits    int
	operations   map[string]int
	targets      map[string]int
	failedErrors map[string]int
}

// analyzeHistoryRecords analyzes history records and computes statistics
func analyzeHistoryRecords(records []domain.HistoryRecord) historyStatistics {
	stats := historyStatistics{
		operations:   make(map[string]int),
		targets:      make(map[string]int),
		failedErrors: make(map[string]int),
	}

	for _, rec := range records {
		if rec.Success {
			stats.successful++
		} else if rec.Error != "" {
			stats.failedErrors[rec.Error]++
		}
		if rec.FromCache {
			stats.cacheHits++
		}
		stats.operations[operationLabel(rec)]++
		if rec.Operation == domain.OpFetch {
			stats.targets[rec.Target]++
		}
	}

	return stats
}

// displayHistoryStatistics displays formatted history statistics
func displayHistoryStatistics(out io.Writer, stats historyStatistics, total int) {
	fmt.Fprintf(out, "Entries analyzed: %d\nSuccess rate: %.1f%%\nCache hit rate: %.1f%%\n",
		total,
		helpers.CalculateSuccessRate(stats.successful, total),
		helpers.CalculateSuccessRate(stats.cacheHits, total))

	fmt.Fprintln(out, "Operations:")
	for _, stat := range helpers.CalculateTopCounts(stats.operations, 0) {
		fmt.Fprintf(out, "  %s: %d\n", stat.Label, stat.Count)
	}

	if len(stats.targets) > 0 {
		fmt.Fprintln(out, "Most fetched URLs:")
		for _, stat := range helpers.CalculateTopCounts(stats.targets, 5) {
			fmt.Fprintf(out, "  %s (%d)\n", stat.Label, stat.Count)
		}
	}

	if len(stats.failedErrors) > 0 {
		fmt.Fprintln(out, "Most common errors:")
		for _, stat := range helpers.CalculateTopCounts(stats.failedErrors, 3) {
			fmt.Fprintf(out, "  %s (%d)\n", stat.Label, stat.Count)
		}
	}
}

func operationLabel(rec domain.HistoryRecord) string {
	if rec.Kind == "" {
		return rec.Operation
	}
	return rec.Operation + "/" + rec.Kind
}

func statusLabel(rec domain.HistoryRecord) string {
	switch {
	case !rec.Success:
		return "failed"
	case rec.FromCache:
		return "cached"
	default:
		return "ok"
	}
}
