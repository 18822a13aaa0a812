package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/XCodeIsGoldX/ollamaland/internal/application/analyzer"
	"github.com/XCodeIsGoldX/ollamaland/internal/application/doctor"
	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
	"github.com/XCodeIsGoldX/ollamaland/internal/infrastructure/ai"
	"github.com/XCodeIsGoldX/ollamaland/internal/infrastructure/cache"
	"github.com/XCodeIsGoldX/ollamaland/internal/infrastructure/config"
	"github.com/XCodeIsGoldX/ollamaland/internal/infrastructure/fetcher"
	"github.com/XCodeIsGoldX/ollamaland/internal/infrastructure/history"
	"github.com/XCodeIsGoldX/ollamaland/internal/infrastructure/kvstore"
	"github.com/XCodeIsGoldX/ollamaland/internal/pkg/logger"
	"github.com/XCodeIsGoldX/ollamaland/internal/ports"
)

// Options are the process-level inputs that shape the graph.
type Options struct {
	Verbose    bool
	ConfigPath string
	// Model overrides preferences.default_model for this run.
	Model string
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config         domain.Config
	ConfigProvider ports.ConfigProvider
	ConfigLoader   *config.FileLoader
	Logger         *logger.ZapLogger
	Stores         *kvstore.Stores
	ContentCache   *cache.ContentCache
	ResultCache    *cache.ResultCache
	HistoryStore   ports.HistoryRepository
	Generator      *ai.Client
	Analyzer       *analyzer.Service
	DoctorService  *doctor.Service

	// analyzerErr explains why Analyzer is nil (bad model or prompt config).
	analyzerErr error
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}

	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Options{
		Verbose: opts.Verbose,
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
	})

	stores, err := kvstore.Open(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	contents := cache.NewContentCache(stores.Content)
	results := cache.NewResultCache(stores.Results)

	historyStore := newHistoryStore(cfg.History)

	c := &Container{
		Config:         cfg,
		ConfigProvider: cfgLoader,
		ConfigLoader:   cfgLoader,
		Logger:         log,
		Stores:         stores,
		ContentCache:   contents,
		ResultCache:    results,
		HistoryStore:   historyStore,
		DoctorService: &doctor.Service{
			ConfigProvider: cfgLoader,
			Stores: map[string]ports.KVStore{
				kvstore.NamespaceContent: stores.Content,
				kvstore.NamespaceResults: stores.Results,
			},
			History: historyStore,
		},
	}

	c.Generator, c.Analyzer, c.analyzerErr = buildAnalyzer(cfg, opts.Model, contents, results, historyStore, log)
	if c.analyzerErr != nil {
		log.Debug("analyzer unavailable", map[string]interface{}{"error": c.analyzerErr.Error()})
	}
	return c, nil
}

func buildAnalyzer(
	cfg domain.Config,
	modelOverride string,
	contents ports.ContentCache,
	results ports.ResultCache,
	historyStore ports.HistoryRepository,
	log ports.Logger,
) (*ai.Client, *analyzer.Service, error) {
	extractor, err := fetcher.NewExtractor(cfg.Fetch.Extractor)
	if err != nil {
		return nil, nil, err
	}
	httpFetcher := fetcher.New(
		fetcher.WithTimeout(cfg.GetFetchTimeout()),
		fetcher.WithExtractor(extractor),
		fetcher.WithUserAgent(cfg.Fetch.UserAgent),
		fetcher.WithMaxBodyBytes(cfg.GetMaxBodyBytes()),
	)

	model, err := cfg.PickModel(modelOverride)
	if err != nil {
		return nil, nil, err
	}
	provider, err := ai.NewFactory(cfg.GetTimeout()).ForModel(model)
	if err != nil {
		return nil, nil, fmt.Errorf("provider init: %w", err)
	}
	client := ai.NewClient(provider, log)

	prompts, err := analyzer.NewPrompts(cfg.Analysis.Prompts)
	if err != nil {
		return nil, nil, err
	}

	service := &analyzer.Service{
		Fetcher:   httpFetcher,
		Contents:  contents,
		Results:   results,
		Generator: client,
		History:   historyStore,
		Prompts:   prompts,
		Logger:    log,
		Settings:  analyzer.SettingsFromConfig(cfg),
	}
	return client, service, nil
}

// newHistoryStore picks the jsonl store for .jsonl paths and SQLite otherwise.
func newHistoryStore(settings domain.HistorySettings) ports.HistoryRepository {
	if !settings.Enabled || settings.Path == "" {
		return nil
	}
	if filepath.Ext(settings.Path) == ".jsonl" {
		return history.NewFileStore(settings.Path)
	}
	return history.NewSQLiteStore(settings.Path)
}

// RequireAnalyzer returns the analyzer or the reason it could not be built.
func (c *Container) RequireAnalyzer() (*analyzer.Service, error) {
	if c.Analyzer != nil {
		return c.Analyzer, nil
	}
	if c.analyzerErr != nil {
		return nil, c.analyzerErr
	}
	return nil, errors.New("analyzer unavailable")
}

// Close releases the cache backend, the history database and flushes logs.
func (c *Container) Close() error {
	var errs []error
	if err := c.Stores.Close(); err != nil {
		errs = append(errs, err)
	}
	if closer, ok := c.HistoryStore.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
	return errors.Join(errs...)
}
