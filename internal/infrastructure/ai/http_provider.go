package ai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
	"github.com/XCodeIsGoldX/ollamaland/internal/ports"
)

// maxErrorBody bounds how much of a failed response is quoted in the error.
const maxErrorBody = 512

type httpProvider struct {
	name       string
	model      domain.ModelDefinition
	httpClient *http.Client
	adapter    providerAdapter
}

// providerAdapter holds the wire details that differ between backends.
type providerAdapter struct {
	defaultEndpoint string
	buildRequest    func(domain.ModelDefinition, []domain.Message) ([]byte, error)
	parseResponse   func([]byte) (string, error)
	setHeaders      func(*http.Request, domain.ModelDefinition) error
}

func newHTTPProvider(name string, model domain.ModelDefinition, client *http.Client, adapter providerAdapter) *httpProvider {
	return &httpProvider{
		name:       name,
		model:      model,
		httpClient: client,
		adapter:    adapter,
	}
}

func (p *httpProvider) Name() string {
	return p.name
}

func (p *httpProvider) Model() domain.ModelDefinition {
	return p.model
}

func (p *httpProvider) endpoint() string {
	return valueOrDefault(p.model.Endpoint, p.adapter.defaultEndpoint)
}

// Generate posts the messages and returns the reply text. Every failure is a *domain.BackendError.
func (p *httpProvider) Generate(ctx context.Context, messages []domain.Message) (string, error) {
	if len(messages) == 0 {
		return "", p.fail(0, fmt.Errorf("no messages to send"))
	}

	requestBody, err := p.adapter.buildRequest(p.model, messages)
	if err != nil {
		return "", p.fail(0, fmt.Errorf("encode request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint(), bytes.NewReader(requestBody))
	if err != nil {
		return "", p.fail(0, fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("content-type", "application/json")
	if err := p.adapter.setHeaders(httpReq, p.model); err != nil {
		return "", p.fail(0, err)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", p.fail(0, err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", p.fail(resp.StatusCode, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode >= 400 {
		return "", p.fail(resp.StatusCode, fmt.Errorf("%s", errorSnippet(responseBody, resp.Status)))
	}

	content, err := p.adapter.parseResponse(responseBody)
	if err != nil {
		return "", p.fail(resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return strings.TrimSpace(content), nil
}

func (p *httpProvider) fail(status int, err error) error {
	return &domain.BackendError{Provider: p.name, StatusCode: status, Err: err}
}

func errorSnippet(body []byte, status string) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return status
	}
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody] + "..."
	}
	return status + ": " + text
}

var _ ports.Provider = (*httpProvider)(nil)
