package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
)

const (
	defaultAnthropicEndpoint  = "https://api.anthropic.com/v1/messages"
	defaultAnthropicModel     = "claude-3-5-sonnet-20240620"
	defaultAnthropicMaxTokens = 1024
	anthropicVersion          = "2023-06-01"
)

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
	Error   *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func anthropicAdapter() providerAdapter {
	return providerAdapter{
		defaultEndpoint: defaultAnthropicEndpoint,
		buildRequest:    buildAnthropicRequest,
		parseResponse:   parseAnthropicResponse,
		setHeaders:      setAnthropicHeaders,
	}
}

func buildAnthropicRequest(model domain.ModelDefinition, messages []domain.Message) ([]byte, error) {
	system, chat := splitSystemMessages(messages)
	if len(chat) == 0 {
		return nil, errors.New("anthropic requires at least one non-system message")
	}
	return json.Marshal(anthropicRequest{
		Model:     valueOrDefault(model.ModelID, defaultAnthropicModel),
		MaxTokens: valueOrDefaultInt(model.MaxTokens, defaultAnthropicMaxTokens),
		System:    system,
		Messages:  chat,
	})
}

// splitSystemMessages lifts system turns into the top-level system field.
func splitSystemMessages(messages []domain.Message) (string, []anthropicMessage) {
	var systemLines []string
	var chat []anthropicMessage
	for _, msg := range messages {
		if strings.EqualFold(msg.Role, domain.RoleSystem) {
			systemLines = append(systemLines, msg.Content)
			continue
		}
		chat = append(chat, anthropicMessage{
			Role:    strings.ToLower(msg.Role),
			Content: []anthropicContent{{Type: "text", Text: msg.Content}},
		})
	}
	return strings.TrimSpace(strings.Join(systemLines, "\n")), chat
}

func parseAnthropicResponse(body []byte) (string, error) {
	var response anthropicResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}
	if response.Error != nil {
		return "", fmt.Errorf("%s: %s", response.Error.Type, response.Error.Message)
	}
	var parts []string
	for _, block := range response.Content {
		if block.Type == "" || block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, ""), nil
}

func setAnthropicHeaders(req *http.Request, model domain.ModelDefinition) error {
	apiKey := resolveAuth(model.AuthEnvVar, "ANTHROPIC_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("missing API key: set %s or ANTHROPIC_API_KEY", valueOrDefault(model.AuthEnvVar, "auth_env_var"))
	}
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	return nil
}
