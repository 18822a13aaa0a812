// Package doctor runs environment diagnostics for the doctor command.
package doctor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	appconfig "github.com/XCodeIsGoldX/ollamaland/internal/application/config"
	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
	"github.com/XCodeIsGoldX/ollamaland/internal/ports"
)

// probeKey is written and removed in each cache store to prove it is writable.
const probeKey = "doctor-probe"

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Stores         map[string]ports.KVStore
	History        ports.HistoryRepository
	HTTPClient     *http.Client
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("loaded format %s", cfg.ConfigFormatVersion)))

	if err := appconfig.Validate(cfg); err != nil {
		checks = append(checks, fail("Config validation", err.Error()))
	} else {
		checks = append(checks, ok("Config validation", "passed"))
	}

	for _, name := range []string{"content", "results"} {
		if store, found := s.Stores[name]; found {
			checks = append(checks, storeCheck(ctx, name, store))
		}
	}

	model, err := cfg.PickModel("")
	if err != nil {
		checks = append(checks, fail("Generation backend", err.Error()))
	} else {
		checks = append(checks, s.backendCheck(ctx, model))
	}

	checks = append(checks, apiCheck(cfg.Models))

	switch {
	case !cfg.History.Enabled || s.History == nil:
		checks = append(checks, warn("History", "disabled"))
	default:
		if _, err := s.History.Records(1, ""); err != nil {
			checks = append(checks, warn("History", err.Error()))
		} else {
			checks = append(checks, ok("History", s.History.Path()))
		}
	}

	return domain.HealthReport{Checks: checks}, nil
}

func storeCheck(ctx context.Context, name string, store ports.KVStore) domain.HealthCheck {
	title := fmt.Sprintf("Cache (%s)", name)
	if err := store.Put(ctx, probeKey, []byte("{}")); err != nil {
		return fail(title, fmt.Sprintf("%s not writable: %v", store.Location(), err))
	}
	if _, found, err := store.Get(ctx, probeKey); err != nil || !found {
		return fail(title, fmt.Sprintf("%s not readable: %v", store.Location(), err))
	}
	if err := store.Delete(ctx, probeKey); err != nil {
		return warn(title, fmt.Sprintf("probe left behind: %v", err))
	}
	return ok(title, store.Location())
}

// backendCheck confirms the endpoint answers HTTP. For Ollama it also checks the model is pulled.
func (s *Service) backendCheck(ctx context.Context, model domain.ModelDefinition) domain.HealthCheck {
	const title = "Generation backend"
	endpoint := model.Endpoint
	if endpoint == "" && model.ResolveProvider() == domain.ProviderKindOllama {
		endpoint = domain.DefaultOllamaEndpoint
	}
	base, err := url.Parse(endpoint)
	if err != nil || base.Host == "" {
		return warn(title, fmt.Sprintf("model %s has no usable endpoint", model.Name))
	}
	client := s.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	if model.ResolveProvider() != domain.ProviderKindOllama {
		probe := &url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/"}
		resp, err := get(ctx, client, probe.String())
		if err != nil {
			return fail(title, fmt.Sprintf("%s unreachable: %v", base.Host, err))
		}
		resp.Body.Close()
		return ok(title, fmt.Sprintf("%s reachable (%s)", base.Host, model.ResolveProvider()))
	}

	tags := &url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/api/tags"}
	resp, err := get(ctx, client, tags.String())
	if err != nil {
		return fail(title, fmt.Sprintf("ollama unreachable at %s: %v", base.Host, err))
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return warn(title, fmt.Sprintf("ollama answered %s", resp.Status))
	}
	var listing struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return warn(title, fmt.Sprintf("unexpected /api/tags response: %v", err))
	}
	want := model.ModelID
	if want == "" {
		want = model.Name
	}
	for _, m := range listing.Models {
		if m.Name == want || strings.HasPrefix(m.Name, want+":") {
			return ok(title, fmt.Sprintf("ollama at %s serves %s", base.Host, m.Name))
		}
	}
	return warn(title, fmt.Sprintf("model %s not pulled; run: ollama pull %s", want, want))
}

func get(ctx context.Context, client *http.Client, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	return client.Do(req)
}

func apiCheck(models []domain.ModelDefinition) domain.HealthCheck {
	for _, model := range models {
		switch model.ResolveProvider() {
		case domain.ProviderKindAnthropic:
			if envMissing(model.AuthEnvVar, "ANTHROPIC_API_KEY") {
				return warn("API keys", fmt.Sprintf("model %s: ANTHROPIC_API_KEY missing", model.Name))
			}
		case domain.ProviderKindOpenAI:
			if strings.Contains(model.Endpoint, "openai.com") && envMissing(model.AuthEnvVar, "OPENAI_API_KEY") {
				return warn("API keys", fmt.Sprintf("model %s: OPENAI_API_KEY missing", model.Name))
			}
		}
	}
	return ok("API keys", "detected for configured providers")
}

func envMissing(primary, fallback string) bool {
	if primary != "" && os.Getenv(primary) != "" {
		return false
	}
	if fallback != "" && os.Getenv(fallback) != "" {
		return false
	}
	return true
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
