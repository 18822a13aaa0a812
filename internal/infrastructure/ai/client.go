package ai

import (
	"context"
	"errors"
	"time"

	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
	"github.com/XCodeIsGoldX/ollamaland/internal/ports"
)

// errEmptyReply marks a backend that answered 2xx with no text.
var errEmptyReply = errors.New("empty reply")

// Client is the generation entry point used by the analyzer. It never panics
// and never returns a raw transport error.
type Client struct {
	provider ports.Provider
	logger   ports.Logger
}

// NewClient wraps a provider.
func NewClient(provider ports.Provider, logger ports.Logger) *Client {
	return &Client{provider: provider, logger: logger}
}

// ModelName is the configured model entry name.
func (c *Client) ModelName() string {
	return c.provider.Model().Name
}

// ProviderName is the wire protocol in use.
func (c *Client) ProviderName() string {
	return c.provider.Name()
}

// Generate returns the reply, or ok=false when the backend failed or
// answered with nothing. The failure is logged.
func (c *Client) Generate(ctx context.Context, messages []domain.Message) (string, bool) {
	reply, err := c.GenerateErr(ctx, messages)
	if err != nil {
		c.logger.Warn("generation failed", map[string]interface{}{
			"provider": c.provider.Name(),
			"model":    c.ModelName(),
			"error":    err.Error(),
		})
		return "", false
	}
	return reply, true
}

// GenerateErr is Generate with the typed *domain.BackendError kept.
func (c *Client) GenerateErr(ctx context.Context, messages []domain.Message) (string, error) {
	start := time.Now()
	reply, err := c.provider.Generate(ctx, messages)
	if err != nil {
		var backendErr *domain.BackendError
		if !errors.As(err, &backendErr) {
			err = &domain.BackendError{Provider: c.provider.Name(), Err: err}
		}
		return "", err
	}
	if reply == "" {
		return "", &domain.BackendError{Provider: c.provider.Name(), Err: errEmptyReply}
	}
	c.logger.Debug("generation completed", map[string]interface{}{
		"provider":    c.provider.Name(),
		"model":       c.ModelName(),
		"duration_ms": time.Since(start).Milliseconds(),
		"reply_bytes": len(reply),
	})
	return reply, nil
}
