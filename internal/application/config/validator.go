// Package config validates a loaded configuration before it is used.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if len(cfg.Models) == 0 {
		return errors.New("at least one model must be configured")
	}
	for _, model := range cfg.Models {
		if err := validateModel(model); err != nil {
			return err
		}
	}
	if cfg.Preferences.DefaultModel != "" {
		if _, ok := cfg.FindModelByName(cfg.Preferences.DefaultModel); !ok {
			return fmt.Errorf("default model %s not found in models list", cfg.Preferences.DefaultModel)
		}
	}
	if cfg.Preferences.TimeoutSeconds < 0 {
		return fmt.Errorf("preferences.timeout must be >= 0")
	}
	if err := validateCache(cfg.Cache); err != nil {
		return err
	}
	if err := validateFetch(cfg.Fetch); err != nil {
		return err
	}
	if err := validateAnalysis(cfg.Analysis); err != nil {
		return err
	}
	if err := validateLogging(cfg.Logging); err != nil {
		return err
	}
	return cfg.ValidateConsistency()
}

func validateModel(model domain.ModelDefinition) error {
	if strings.TrimSpace(model.Name) == "" {
		return errors.New("models[].name must be set")
	}
	switch model.Provider {
	case domain.ProviderKindUnknown, domain.ProviderKindOllama, domain.ProviderKindOpenAI, domain.ProviderKindAnthropic:
	default:
		return fmt.Errorf("model %s: provider must be ollama|openai|anthropic, got %s", model.Name, model.Provider)
	}
	if model.ResolveProvider() == domain.ProviderKindUnknown {
		return fmt.Errorf("model %s: cannot infer provider from endpoint %q; set provider", model.Name, model.Endpoint)
	}
	if model.MaxTokens < 0 {
		return fmt.Errorf("model %s: max_tokens must be >= 0", model.Name)
	}
	return nil
}

func validateCache(cache domain.CacheSettings) error {
	switch strings.ToLower(cache.Backend) {
	case "", domain.CacheBackendFile:
		if cache.ContentDir == "" || cache.ResultDir == "" {
			return fmt.Errorf("cache.content_dir and cache.result_dir must be set for the file backend")
		}
	case domain.CacheBackendBolt:
		if cache.BoltPath == "" {
			return fmt.Errorf("cache.bolt_path must be set for the bolt backend")
		}
	case domain.CacheBackendMemory:
	default:
		return fmt.Errorf("cache.backend must be file|bolt|memory, got %s", cache.Backend)
	}
	return nil
}

func validateFetch(fetch domain.FetchSettings) error {
	if fetch.MaxContentSize < 0 {
		return fmt.Errorf("fetch.max_content_size must not be negative")
	}
	if fetch.MaxBodyBytes < 0 {
		return fmt.Errorf("fetch.max_body_bytes must not be negative")
	}
	if fetch.Concurrency < 0 {
		return fmt.Errorf("fetch.concurrency must not be negative")
	}
	if fetch.Timeout != "" {
		d, err := time.ParseDuration(fetch.Timeout)
		if err != nil {
			return fmt.Errorf("fetch.timeout invalid: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("fetch.timeout must be positive")
		}
	}
	switch fetch.Extractor {
	case "", domain.ExtractorSelectors, domain.ExtractorReadability:
	default:
		return fmt.Errorf("fetch.extractor must be selectors|readability, got %s", fetch.Extractor)
	}
	return nil
}

func validateAnalysis(analysis domain.AnalysisSettings) error {
	if analysis.ExcerptChars < 0 || analysis.CompareExcerptChars < 0 {
		return fmt.Errorf("analysis excerpt sizes must not be negative")
	}
	for name := range analysis.Prompts {
		if _, err := domain.ParseAnalysisKind(name); err != nil {
			return fmt.Errorf("analysis.prompts: %w", err)
		}
	}
	return nil
}

func validateLogging(logging domain.LoggingSettings) error {
	switch strings.ToLower(logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug|info|warn|error, got %s", logging.Level)
	}
	switch strings.ToLower(logging.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console|json, got %s", logging.Format)
	}
	return nil
}
