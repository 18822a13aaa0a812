// Package ai talks to text-generation backends: Ollama, OpenAI-compatible servers and Anthropic.
package ai

import (
	"fmt"
	"net/http"
	"time"

	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
	"github.com/XCodeIsGoldX/ollamaland/internal/ports"
)

type Factory struct {
	httpClient *http.Client
}

// NewFactory builds providers sharing one HTTP client. A zero timeout uses the default.
func NewFactory(timeout time.Duration) *Factory {
	if timeout <= 0 {
		timeout = domain.DefaultHTTPClientTimeout
	}
	return &Factory{
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (f *Factory) ForModel(model domain.ModelDefinition) (ports.Provider, error) {
	switch kind := model.ResolveProvider(); kind {
	case domain.ProviderKindAnthropic:
		return newHTTPProvider("anthropic", model, f.httpClient, anthropicAdapter()), nil
	case domain.ProviderKindOpenAI:
		return newHTTPProvider("openai", model, f.httpClient, openaiAdapter()), nil
	case domain.ProviderKindOllama:
		return newHTTPProvider("ollama", model, f.httpClient, ollamaAdapter()), nil
	case domain.ProviderKindUnknown:
		return nil, &domain.InputError{Op: "select provider", Reason: fmt.Sprintf("cannot infer provider for model %q; set provider: ollama|openai|anthropic", model.Name)}
	default:
		return nil, &domain.InputError{Op: "select provider", Reason: fmt.Sprintf("unsupported provider kind %q", kind)}
	}
}

var _ ports.ProviderFactory = (*Factory)(nil)
