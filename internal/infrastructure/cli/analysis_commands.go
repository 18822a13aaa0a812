package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/XCodeIsGoldX/ollamaland/internal/app"
	"github.com/XCodeIsGoldX/ollamaland/internal/application/analyzer"
	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
)

func newFetchCommand(container *app.Container) *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Fetch a page and show its extracted text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := container.RequireAnalyzer()
			if err != nil {
				return err
			}
			doc, err := svc.Fetch(cmd.Context(), args[0]).Unpack()
			if err != nil {
				return err
			}
			RenderDocument(cmd.OutOrStdout(), doc, full)
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "Print the whole content instead of a preview")
	return cmd
}

func newAnalyzeCommand(container *app.Container) *cobra.Command {
	var kindFlag string
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "analyze <url>",
		Short: "Summarize, extract keywords or classify sentiment of a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseAnalysisKind(kindFlag)
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd.Context(), timeout)
			defer cancel()
			return analyzeURL(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), container, args[0], kind)
		},
	}
	cmd.Flags().StringVarP(&kindFlag, "kind", "k", string(domain.KindSummarize), "summarize|keywords|sentiment")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Abort after this long (0 = no limit)")
	return cmd
}

func newAskCommand(container *app.Container) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "ask <url> <question...>",
		Short: "Ask a free-form question about a page (never cached)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd.Context(), timeout)
			defer cancel()
			return askURL(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), container, args[0], strings.Join(args[1:], " "))
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Abort after this long (0 = no limit)")
	return cmd
}

func newCompareCommand(container *app.Container) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "compare <url> <url> [url...]",
		Short: "Fetch pages concurrently and compare them",
		Args:  cobra.MinimumNArgs(domain.MinCompareURLs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := withTimeout(cmd.Context(), timeout)
			defer cancel()
			return compareURLs(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), container, args)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Abort after this long (0 = no limit)")
	return cmd
}

func newOrganizeCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "organize <dir>",
		Short: "Organize the .txt notes in a directory into " + domain.OrganizedNotesFile,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return organizeNotes(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), container, args[0])
		},
	}
}

func analyzeURL(ctx context.Context, out, progress io.Writer, container *app.Container, url string, kind domain.AnalysisKind) error {
	svc, err := container.RequireAnalyzer()
	if err != nil {
		return err
	}
	doc, err := svc.Fetch(ctx, url).Unpack()
	if err != nil {
		return err
	}
	var result string
	err = withSpinner(progress, func() error {
		result, err = svc.Analyze(ctx, doc.Content, kind)
		return err
	})
	if err != nil {
		return err
	}
	RenderResult(out, kindTitle(kind), result)
	return nil
}

func askURL(ctx context.Context, out, progress io.Writer, container *app.Container, url, question string) error {
	svc, err := container.RequireAnalyzer()
	if err != nil {
		return err
	}
	doc, err := svc.Fetch(ctx, url).Unpack()
	if err != nil {
		return err
	}
	var answer string
	err = withSpinner(progress, func() error {
		answer, err = svc.Ask(ctx, doc.Content, question)
		return err
	})
	if err != nil {
		return err
	}
	RenderResult(out, "Answer", answer)
	return nil
}

func compareURLs(ctx context.Context, out, progress io.Writer, container *app.Container, urls []string) error {
	svc, err := container.RequireAnalyzer()
	if err != nil {
		return err
	}
	var comparison analyzer.Comparison
	err = withSpinner(progress, func() error {
		comparison, err = svc.Compare(ctx, urls)
		return err
	})
	RenderFailures(out, comparison.Failures)
	if err != nil {
		return err
	}
	RenderResult(out, "Comparison", comparison.Result)
	return nil
}

func organizeNotes(ctx context.Context, out, progress io.Writer, container *app.Container, dir string) error {
	svc, err := container.RequireAnalyzer()
	if err != nil {
		return err
	}
	var result analyzer.OrganizeResult
	err = withSpinner(progress, func() error {
		result, err = svc.Organize(ctx, dir)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Organized %d note files into %s\n", len(result.Files), result.OutputPath)
	RenderResult(out, "Organized notes", result.Result)
	return nil
}

// withSpinner shows a spinner on terminals while fn runs.
func withSpinner(progress io.Writer, fn func() error) error {
	if !isTerminal(progress) {
		return fn()
	}
	spinner := NewSpinner(progress)
	spinner.Start()
	defer spinner.Stop()
	return fn()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func kindTitle(kind domain.AnalysisKind) string {
	switch kind {
	case domain.KindSummarize:
		return "Summary"
	case domain.KindKeywords:
		return "Keywords"
	case domain.KindSentiment:
		return "Sentiment"
	default:
		return string(kind)
	}
}
