// Package analyzer turns URLs into cached content and cached generation results.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/XCodeIsGoldX/ollamaland/internal/application/batch"
	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
	"github.com/XCodeIsGoldX/ollamaland/internal/pkg/fingerprint"
	"github.com/XCodeIsGoldX/ollamaland/internal/ports"
)

// ErrNoResult means the backend failed or returned nothing; the cause is logged by the client.
var ErrNoResult = errors.New("no result from generation backend")

// Generator produces text for a prompt, reporting absence instead of an error.
type Generator interface {
	Generate(ctx context.Context, messages []domain.Message) (string, bool)
	ModelName() string
}

// Settings are the limits the analyzer applies.
type Settings struct {
	MaxContentSize      int
	ExcerptChars        int
	CompareExcerptChars int
	Concurrency         int
}

// SettingsFromConfig reads the analyzer limits from the config with defaults applied.
func SettingsFromConfig(cfg domain.Config) Settings {
	return Settings{
		MaxContentSize:      cfg.GetMaxContentSize(),
		ExcerptChars:        cfg.GetExcerptChars(),
		CompareExcerptChars: cfg.GetCompareExcerptChars(),
		Concurrency:         cfg.GetConcurrency(),
	}
}

// Comparison is the result of Compare. Failures lists URLs left out of the prompt.
type Comparison struct {
	Result    string
	Documents map[string]domain.Document
	Failures  map[string]error
}

// OrganizeResult is the result of Organize.
type OrganizeResult struct {
	Result     string
	Files      []string
	OutputPath string
}

// Service orchestrates fetching, caching and generation.
type Service struct {
	Fetcher   ports.Fetcher
	Contents  ports.ContentCache
	Results   ports.ResultCache
	Generator Generator
	History   ports.HistoryRepository
	Prompts   *Prompts
	Logger    ports.Logger
	Settings  Settings
	Now       func() time.Time
}

func (s *Service) checkDeps() error {
	if s.Fetcher == nil || s.Contents == nil || s.Results == nil || s.Generator == nil || s.Logger == nil {
		return errors.New("analyzer.Service dependencies not satisfied")
	}
	return nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) prompts() *Prompts {
	if s.Prompts == nil {
		return DefaultPrompts()
	}
	return s.Prompts
}

// Fetch returns the cached document for url, fetching and storing it on a miss.
// Failures are never cached.
func (s *Service) Fetch(ctx context.Context, url string) domain.FetchOutcome {
	if err := s.checkDeps(); err != nil {
		return domain.Failure(err)
	}
	start := s.now()
	outcome, fromCache := s.fetch(ctx, url)
	s.record(domain.HistoryRecord{
		Operation: domain.OpFetch,
		Target:    url,
		FromCache: fromCache,
	}, start, outcome.Err)
	return outcome
}

func (s *Service) fetch(ctx context.Context, url string) (domain.FetchOutcome, bool) {
	doc, found, err := s.Contents.Lookup(ctx, url)
	switch {
	case err != nil:
		s.Logger.Warn("content cache read failed, fetching again", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
	case found:
		s.Logger.Debug("content cache hit", map[string]interface{}{"url": url})
		return domain.Success(doc), true
	}

	outcome := s.Fetcher.Fetch(ctx, url, s.Settings.MaxContentSize)
	if !outcome.OK() {
		s.Logger.Warn("fetch failed", map[string]interface{}{
			"url":   url,
			"error": errorText(outcome.Err),
		})
		return outcome, false
	}

	if err := s.Contents.Store(ctx, url, *outcome.Document); err != nil {
		s.Logger.Warn("content cache write failed", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
	}
	return outcome, false
}

// Analyze returns the cached result for (content, kind), generating and storing it on a miss.
// A failed generation stores nothing.
func (s *Service) Analyze(ctx context.Context, content string, kind domain.AnalysisKind) (string, error) {
	if err := s.checkDeps(); err != nil {
		return "", err
	}
	start := s.now()
	result, fromCache, err := s.analyze(ctx, content, kind)
	s.record(domain.HistoryRecord{
		Operation: domain.OpAnalyze,
		Target:    fingerprint.String(content),
		Kind:      string(kind),
		Model:     s.Generator.ModelName(),
		FromCache: fromCache,
	}, start, err)
	return result, err
}

func (s *Service) analyze(ctx context.Context, content string, kind domain.AnalysisKind) (string, bool, error) {
	if kind == domain.KindCustom {
		return "", false, &domain.InputError{Op: "analyze", Reason: "custom queries are not cached; use Ask"}
	}
	if !kind.Cacheable() {
		return "", false, &domain.InputError{Op: "analyze", Reason: fmt.Sprintf("unknown analysis kind %q", kind)}
	}
	if strings.TrimSpace(content) == "" {
		return "", false, &domain.InputError{Op: "analyze", Reason: "content is empty"}
	}

	cached, found, err := s.Results.Lookup(ctx, content, kind)
	switch {
	case err != nil:
		s.Logger.Warn("result cache read failed, generating again", map[string]interface{}{
			"kind":  string(kind),
			"error": err.Error(),
		})
	case found:
		s.Logger.Debug("result cache hit", map[string]interface{}{"kind": string(kind)})
		return cached.Result, true, nil
	}

	prompt, err := s.prompts().render(string(kind), promptData{
		Excerpt: excerpt(content, s.excerptChars()),
	})
	if err != nil {
		return "", false, err
	}

	reply, ok := s.Generator.Generate(ctx, []domain.Message{domain.UserMessage(prompt)})
	if !ok {
		return "", false, &domain.BackendError{Err: ErrNoResult}
	}

	record := domain.AnalysisResult{
		Kind:        kind,
		Fingerprint: fingerprint.String(content),
		Result:      reply,
		Model:       s.Generator.ModelName(),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.Results.Store(ctx, content, kind, record); err != nil {
		s.Logger.Warn("result cache write failed", map[string]interface{}{
			"kind":  string(kind),
			"error": err.Error(),
		})
	}
	return reply, false, nil
}

// Ask answers a free-form question about content. Answers are never cached.
func (s *Service) Ask(ctx context.Context, content, question string) (string, error) {
	if err := s.checkDeps(); err != nil {
		return "", err
	}
	start := s.now()
	reply, err := s.ask(ctx, content, question)
	s.record(domain.HistoryRecord{
		Operation: domain.OpAsk,
		Target:    question,
		Kind:      string(domain.KindCustom),
		Model:     s.Generator.ModelName(),
	}, start, err)
	return reply, err
}

func (s *Service) ask(ctx context.Context, content, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", &domain.InputError{Op: "ask", Reason: "question is empty"}
	}
	if strings.TrimSpace(content) == "" {
		return "", &domain.InputError{Op: "ask", Reason: "content is empty"}
	}
	prompt, err := s.prompts().render(string(domain.KindCustom), promptData{
		Question: question,
		Excerpt:  excerpt(content, s.excerptChars()),
	})
	if err != nil {
		return "", err
	}
	reply, ok := s.Generator.Generate(ctx, []domain.Message{domain.UserMessage(prompt)})
	if !ok {
		return "", &domain.BackendError{Err: ErrNoResult}
	}
	return reply, nil
}

// Compare fetches urls concurrently and asks the backend to compare the pages that
// could be fetched. It fails when fewer than two URLs are given or none could be fetched.
func (s *Service) Compare(ctx context.Context, urls []string) (Comparison, error) {
	if err := s.checkDeps(); err != nil {
		return Comparison{}, err
	}
	start := s.now()
	comparison, err := s.compare(ctx, urls)
	s.record(domain.HistoryRecord{
		Operation: domain.OpCompare,
		Target:    strings.Join(distinct(urls), " "),
		Model:     s.Generator.ModelName(),
	}, start, err)
	return comparison, err
}

func (s *Service) compare(ctx context.Context, urls []string) (Comparison, error) {
	unique := distinct(urls)
	if len(unique) < domain.MinCompareURLs {
		return Comparison{}, &domain.InputError{
			Op:     "compare",
			Reason: fmt.Sprintf("need at least %d distinct URLs, got %d", domain.MinCompareURLs, len(unique)),
		}
	}

	fetched, err := batch.New(batch.FetchFunc(s.fetchQuiet), s.Settings.Concurrency, s.Logger).FetchAll(ctx, unique)
	comparison := Comparison{Documents: fetched.Documents, Failures: fetched.Failures}
	if err != nil {
		return comparison, err
	}

	pageURLs := make([]string, 0, len(fetched.Documents))
	for url := range fetched.Documents {
		pageURLs = append(pageURLs, url)
	}
	sort.Strings(pageURLs)
	pages := make([]pageExcerpt, 0, len(pageURLs))
	for _, url := range pageURLs {
		pages = append(pages, pageExcerpt{
			URL:     url,
			Excerpt: excerpt(fetched.Documents[url].Content, s.compareExcerptChars()),
		})
	}

	prompt, err := s.prompts().render(promptCompare, promptData{Pages: pages})
	if err != nil {
		return comparison, err
	}
	reply, ok := s.Generator.Generate(ctx, []domain.Message{domain.UserMessage(prompt)})
	if !ok {
		return comparison, &domain.BackendError{Err: ErrNoResult}
	}
	comparison.Result = reply
	return comparison, nil
}

// fetchQuiet is the cache-aware fetch without a history record per URL.
func (s *Service) fetchQuiet(ctx context.Context, url string) domain.FetchOutcome {
	outcome, _ := s.fetch(ctx, url)
	return outcome
}

// Organize reads every .txt note in dir, asks the backend to structure them and
// writes the reply to organized_notes.txt in the same directory.
func (s *Service) Organize(ctx context.Context, dir string) (OrganizeResult, error) {
	if err := s.checkDeps(); err != nil {
		return OrganizeResult{}, err
	}
	start := s.now()
	result, err := s.organize(ctx, dir)
	s.record(domain.HistoryRecord{
		Operation: domain.OpOrganize,
		Target:    dir,
		Model:     s.Generator.ModelName(),
	}, start, err)
	return result, err
}

func (s *Service) organize(ctx context.Context, dir string) (OrganizeResult, error) {
	files, err := noteFiles(dir)
	if err != nil {
		return OrganizeResult{}, err
	}

	parts := make([]string, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return OrganizeResult{}, fmt.Errorf("read note %s: %w", path, err)
		}
		parts = append(parts, string(data))
	}

	prompt, err := s.prompts().render(promptOrganize, promptData{Content: strings.Join(parts, "\n\n")})
	if err != nil {
		return OrganizeResult{}, err
	}
	reply, ok := s.Generator.Generate(ctx, []domain.Message{domain.UserMessage(prompt)})
	if !ok {
		return OrganizeResult{Files: files}, &domain.BackendError{Err: ErrNoResult}
	}

	output := filepath.Join(dir, domain.OrganizedNotesFile)
	if err := os.WriteFile(output, []byte(reply), domain.FilePermissions); err != nil {
		return OrganizeResult{Result: reply, Files: files}, fmt.Errorf("write %s: %w", output, err)
	}
	return OrganizeResult{Result: reply, Files: files, OutputPath: output}, nil
}

// noteFiles lists dir's .txt files in name order, leaving out a previous output file.
func noteFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.InputError{Op: "organize", Reason: fmt.Sprintf("read directory %s: %v", dir, err)}
	}
	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), ".txt") || name == domain.OrganizedNotesFile {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	if len(files) == 0 {
		return nil, &domain.InputError{Op: "organize", Reason: fmt.Sprintf("no .txt notes found in %s", dir)}
	}
	sort.Strings(files)
	return files, nil
}

func (s *Service) record(rec domain.HistoryRecord, start time.Time, err error) {
	if s.History == nil {
		return
	}
	end := s.now()
	rec.Timestamp = end.UTC()
	rec.DurationMS = end.Sub(start).Milliseconds()
	rec.Success = err == nil
	rec.Error = errorText(err)
	if saveErr := s.History.Save(rec); saveErr != nil {
		s.Logger.Warn("history write failed", map[string]interface{}{
			"operation": rec.Operation,
			"error":     saveErr.Error(),
		})
	}
}

func (s *Service) excerptChars() int {
	if s.Settings.ExcerptChars <= 0 {
		return domain.DefaultExcerptChars
	}
	return s.Settings.ExcerptChars
}

func (s *Service) compareExcerptChars() int {
	if s.Settings.CompareExcerptChars <= 0 {
		return domain.DefaultCompareExcerptChars
	}
	return s.Settings.CompareExcerptChars
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func distinct(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, url := range urls {
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		out = append(out, url)
	}
	return out
}
