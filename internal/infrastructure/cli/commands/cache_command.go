package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/XCodeIsGoldX/ollamaland/internal/app"
	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
	"github.com/XCodeIsGoldX/ollamaland/internal/infrastructure/cli/helpers"
)

// Cache namespaces accepted by --namespace.
const (
	namespaceAll     = "all"
	namespaceContent = "content"
	namespaceResults = "results"
)

// NewCacheCommand creates the cache command with all subcommands
func NewCacheCommand(container *app.Container) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the content and result caches",
	}

	cacheCmd.AddCommand(
		newCacheListCommand(container),
		newCacheClearCommand(container),
		newCacheSizeCommand(container),
		newCacheStatsCommand(container),
	)

	return cacheCmd
}

// newCacheListCommand creates the 'cache list' subcommand
func newCacheListCommand(container *app.Container) *cobra.Command {
	var namespace string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCacheEntries(cmd.Context(), cmd.OutOrStdout(), container, namespace)
		},
	}
	cmd.Flags().StringVarP(&namespace, "namespace", "n", namespaceAll, "content|results|all")
	return cmd
}

// newCacheClearCommand creates the 'cache clear' subcommand
func newCacheClearCommand(container *app.Container) *cobra.Command {
	var namespace string
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete cached pages and/or results",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				reader := bufio.NewReader(cmd.InOrStdin())
				question := fmt.Sprintf("Clear %s cache entries?", namespace)
				if !helpers.PromptForConfirmation(cmd.OutOrStdout(), reader, question) {
					fmt.Fprintln(cmd.OutOrStdout(), MsgCancelled)
					return nil
				}
			}
			return clearCache(cmd.Context(), cmd.OutOrStdout(), container, namespace)
		},
	}
	cmd.Flags().StringVarP(&namespace, "namespace", "n", namespaceAll, "content|results|all")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

// newCacheSizeCommand creates the 'cache size' subcommand
func newCacheSizeCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "size",
		Short: "Show on-disk cache size",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showCacheSize(cmd.OutOrStdout(), container)
		},
	}
}

// newCacheStatsCommand creates the 'cache stats' subcommand
func newCacheStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache settings and per-kind counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showCacheStats(cmd.Context(), cmd.OutOrStdout(), container)
		},
	}
}

func checkNamespace(namespace string) error {
	switch namespace {
	case namespaceAll, namespaceContent, namespaceResults:
		return nil
	default:
		return fmt.Errorf("unknown cache namespace %q (want content, results or all)", namespace)
	}
}

func requireCaches(container *app.Container) error {
	if container.ContentCache == nil || container.ResultCache == nil {
		return errors.New(ErrCacheStoreUnavailable)
	}
	return nil
}

// listCacheEntries lists cached pages and results
func listCacheEntries(ctx context.Context, out io.Writer, container *app.Container, namespace string) error {
	if err := checkNamespace(namespace); err != nil {
		return err
	}
	if err := requireCaches(container); err != nil {
		return err
	}

	if namespace != namespaceResults {
		docs, err := container.ContentCache.Entries(ctx)
		if err != nil {
			return fmt.Errorf("failed to retrieve cached pages: %w", err)
		}
		sort.Slice(docs, func(i, j int) bool { return docs[i].FetchedAt.After(docs[j].FetchedAt) })
		for _, doc := range docs {
			fmt.Fprintf(out, "content | %s | %d bytes%s | %s\n",
				doc.URL,
				len(doc.Content),
				truncatedSuffix(doc.Truncated),
				doc.FetchedAt.Local().Format(TimestampFormat))
		}
	}

	if namespace != namespaceContent {
		results, err := container.ResultCache.Entries(ctx)
		if err != nil {
			return fmt.Errorf("failed to retrieve cached results: %w", err)
		}
		sort.Slice(results, func(i, j int) bool { return results[i].CreatedAt.After(results[j].CreatedAt) })
		for _, res := range results {
			fmt.Fprintf(out, "results | %s | %s | %s | %s\n",
				res.Kind,
				shortFingerprint(res.Fingerprint),
				valueOrDash(res.Model),
				res.CreatedAt.Local().Format(TimestampFormat))
		}
	}

	return nil
}

// clearCache clears one or both namespaces
func clearCache(ctx context.Context, out io.Writer, container *app.Container, namespace string) error {
	if err := checkNamespace(namespace); err != nil {
		return err
	}
	if err := requireCaches(container); err != nil {
		return err
	}

	if namespace != namespaceResults {
		if err := container.ContentCache.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear content cache: %w", err)
		}
		fmt.Fprintf(out, "Cleared content cache (%s)\n", container.ContentCache.Location())
	}
	if namespace != namespaceContent {
		if err := container.ResultCache.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear result cache: %w", err)
		}
		fmt.Fprintf(out, "Cleared result cache (%s)\n", container.ResultCache.Location())
	}

	return nil
}

// showCacheSize displays the size of the cache backing files
func showCacheSize(out io.Writer, container *app.Container) error {
	if err := requireCaches(container); err != nil {
		return err
	}

	switch backend := container.Config.GetCacheBackend(); backend {
	case domain.CacheBackendMemory:
		fmt.Fprintln(out, "Cache backend: memory (nothing on disk)")
	case domain.CacheBackendBolt:
		path := container.Config.Cache.BoltPath
		info, err := os.Stat(path)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat cache database: %w", err)
		}
		var size int64
		if info != nil {
			size = info.Size()
		}
		fmt.Fprintf(out, "Cache database: %s\nSize: %d bytes\n", path, size)
	default:
		for _, dir := range []struct{ label, path string }{
			{"Content", container.Config.Cache.ContentDir},
			{"Results", container.Config.Cache.ResultDir},
		} {
			size, err := calculateDirectorySize(dir.path)
			if err != nil {
				return fmt.Errorf("failed to calculate cache size: %w", err)
			}
			fmt.Fprintf(out, "%s directory: %s\nSize: %d bytes\n", dir.label, dir.path, size)
		}
	}

	return nil
}

// showCacheStats displays cache settings and per-kind statistics
func showCacheStats(ctx context.Context, out io.Writer, container *app.Container) error {
	if err := requireCaches(container); err != nil {
		return err
	}

	docs, err := container.ContentCache.Entries(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve cached pages: %w", err)
	}
	results, err := container.ResultCache.Entries(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve cached results: %w", err)
	}

	truncated := 0
	for _, doc := range docs {
		if doc.Truncated {
			truncated++
		}
	}

	fmt.Fprintf(out, "Backend: %s\n", container.Config.GetCacheBackend())
	fmt.Fprintf(out, "Content: %s\n", container.ContentCache.Location())
	fmt.Fprintf(out, "Results: %s\n", container.ResultCache.Location())
	fmt.Fprintf(out, "Cached pages: %d (%d truncated)\nCached results: %d\n", len(docs), truncated, len(results))

	if len(results) == 0 {
		fmt.Fprintln(out, MsgNoCachedResults)
		return nil
	}

	fmt.Fprintln(out, "Results per kind:")
	for _, stat := range helpers.CalculateTopCounts(calculateKindCounts(results), 0) {
		fmt.Fprintf(out, "  %s: %d\n", stat.Label, stat.Count)
	}

	return nil
}

// calculateDirectorySize calculates the total size of a directory
func calculateDirectorySize(dirPath string) (int64, error) {
	var totalSize int64

	err := filepath.WalkDir(dirPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Skip files that can't be accessed
		}

		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		totalSize += info.Size()
		return nil
	})

	if err != nil {
		return 0, err
	}

	return totalSize, nil
}

// calculateKindCounts calculates the number of cached results per analysis kind
func calculateKindCounts(results []domain.AnalysisResult) map[string]int {
	counts := make(map[string]int)

	for _, res := range results {
		counts[string(res.Kind)]++
	}

	return counts
}

func truncatedSuffix(truncated bool) string {
	if truncated {
		return " (truncated)"
	}
	return ""
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
