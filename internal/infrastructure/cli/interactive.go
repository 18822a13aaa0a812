package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/XCodeIsGoldX/ollamaland/internal/app"
	"github.com/XCodeIsGoldX/ollamaland/internal/application/analyzer"
	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
	"github.com/XCodeIsGoldX/ollamaland/internal/infrastructure/cli/helpers"
)

// MenuChoice is one entry of the interactive menu.
type MenuChoice int

const (
	ChoiceInvalid MenuChoice = iota
	ChoiceFetch
	ChoiceSummarize
	ChoiceKeywords
	ChoiceSentiment
	ChoiceCompare
	ChoiceCustomQuery
	ChoiceQuit
)

var menuLabels = map[MenuChoice]string{
	ChoiceFetch:       "Fetch Content",
	ChoiceSummarize:   "Summarize",
	ChoiceKeywords:    "Extract Keywords",
	ChoiceSentiment:   "Analyze Sentiment",
	ChoiceCompare:     "Compare URLs",
	ChoiceCustomQuery: "Custom Query",
	ChoiceQuit:        "Quit",
}

// ParseMenuChoice maps the typed option number to a choice.
func ParseMenuChoice(raw string) MenuChoice {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < int(ChoiceFetch) || n > int(ChoiceQuit) {
		return ChoiceInvalid
	}
	return MenuChoice(n)
}

func (c MenuChoice) String() string {
	if label, ok := menuLabels[c]; ok {
		return label
	}
	return "Invalid"
}

// analysisKind returns the kind for the three cached analysis entries.
func (c MenuChoice) analysisKind() (domain.AnalysisKind, bool) {
	switch c {
	case ChoiceSummarize:
		return domain.KindSummarize, true
	case ChoiceKeywords:
		return domain.KindKeywords, true
	case ChoiceSentiment:
		return domain.KindSentiment, true
	default:
		return "", false
	}
}

func newInteractiveCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Run the numbered menu (default when no command is given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, container)
		},
	}
}

func runInteractive(cmd *cobra.Command, container *app.Container) error {
	svc, err := container.RequireAnalyzer()
	if err != nil {
		return err
	}
	model := ""
	if container.Generator != nil {
		model = container.Generator.ModelName()
	}
	session := newSession(cmd.OutOrStdout(), cmd.InOrStdin(), svc)
	session.welcome(model, container.Config.GetMaxContentSize())
	return session.Run(cmd.Context())
}

// session holds the interactive loop state: the last fetched content.
type session struct {
	out     io.Writer
	reader  *bufio.Reader
	svc     *analyzer.Service
	content string
}

func newSession(out io.Writer, in io.Reader, svc *analyzer.Service) *session {
	return &session{out: out, reader: bufio.NewReader(in), svc: svc}
}

func (s *session) welcome(model string, maxContentSize int) {
	fmt.Fprintln(s.out, "Welcome to ollamaland, the web content analysis tool.")
	fmt.Fprintln(s.out, "Fetch a page, then summarize it, extract keywords, gauge sentiment or ask about it.")
	fmt.Fprintf(s.out, "Current configuration: Model=%s, Max Content Size=%d bytes\n", model, maxContentSize)
}

// Run loops until Quit, end of input or context cancellation.
func (s *session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.printMenu()
		line, err := s.reader.ReadString('\n')
		if strings.TrimSpace(line) == "" && err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out)
				return nil
			}
			return err
		}
		if quit := s.dispatch(ctx, ParseMenuChoice(line)); quit {
			fmt.Fprintln(s.out, "Thank you for using ollamaland. Goodbye!")
			return nil
		}
	}
}

func (s *session) printMenu() {
	fmt.Fprintln(s.out, "\nChoose an option:")
	for choice := ChoiceFetch; choice <= ChoiceQuit; choice++ {
		fmt.Fprintf(s.out, "%d. %s\n", choice, choice)
	}
	fmt.Fprint(s.out, "\nYour choice: ")
}

// dispatch runs one menu choice and reports whether the loop should end.
func (s *session) dispatch(ctx context.Context, choice MenuChoice) bool {
	switch choice {
	case ChoiceQuit:
		return true
	case ChoiceFetch:
		s.fetch(ctx)
	case ChoiceSummarize, ChoiceKeywords, ChoiceSentiment:
		kind, _ := choice.analysisKind()
		s.analyze(ctx, kind)
	case ChoiceCompare:
		s.compare(ctx)
	case ChoiceCustomQuery:
		s.customQuery(ctx)
	default:
		fmt.Fprintln(s.out, "Invalid option. Please try again.")
	}
	return false
}

func (s *session) fetch(ctx context.Context) {
	url := helpers.PromptForString(s.out, s.reader, "Enter a URL to fetch content", "")
	if url == "" {
		fmt.Fprintln(s.out, "No URL entered.")
		return
	}
	fmt.Fprintln(s.out, "Fetching content...")
	doc, err := s.svc.Fetch(ctx, url).Unpack()
	if err != nil {
		fmt.Fprintf(s.out, "\nFailed to fetch content (%s). Please try again or enter a different URL.\n", describeError(err))
		return
	}
	s.content = doc.Content
	fmt.Fprintln(s.out, "\nContent fetched. You can now choose an analysis option.")
}

func (s *session) analyze(ctx context.Context, kind domain.AnalysisKind) {
	if !s.requireContent() {
		return
	}
	fmt.Fprintf(s.out, "\nPerforming %s analysis...\n", kind)
	result, err := s.svc.Analyze(ctx, s.content, kind)
	if err != nil {
		fmt.Fprintf(s.out, "\nAnalysis failed (%s). Please try again.\n", describeError(err))
		return
	}
	fmt.Fprintf(s.out, "\nAnalysis Result: %s\n", result)
}

func (s *session) compare(ctx context.Context) {
	var urls []string
	for {
		url := helpers.PromptForString(s.out, s.reader, "Enter a URL to compare (or press Enter to finish)", "")
		if url == "" {
			break
		}
		urls = append(urls, url)
	}
	if len(urls) < domain.MinCompareURLs {
		fmt.Fprintf(s.out, "Please enter at least %d URLs for comparison.\n", domain.MinCompareURLs)
		return
	}
	fmt.Fprintln(s.out, "\nComparing URLs...")
	comparison, err := s.svc.Compare(ctx, urls)
	RenderFailures(s.out, comparison.Failures)
	if err != nil {
		fmt.Fprintf(s.out, "\nComparison failed (%s). Please try again.\n", describeError(err))
		return
	}
	fmt.Fprintf(s.out, "\nComparison Result: %s\n", comparison.Result)
}

func (s *session) customQuery(ctx context.Context) {
	if !s.requireContent() {
		return
	}
	question := helpers.PromptForString(s.out, s.reader, "\nEnter your custom query about the content", "")
	if question == "" {
		fmt.Fprintln(s.out, "No query entered.")
		return
	}
	fmt.Fprintln(s.out, "Processing your query...")
	answer, err := s.svc.Ask(ctx, s.content, question)
	if err != nil {
		fmt.Fprintf(s.out, "\nQuery failed (%s). Please try again.\n", describeError(err))
		return
	}
	fmt.Fprintf(s.out, "\nOllama: %s\n", answer)
}

func (s *session) requireContent() bool {
	if s.content != "" {
		return true
	}
	fmt.Fprintln(s.out, "Please fetch content first by entering a URL.")
	return false
}
