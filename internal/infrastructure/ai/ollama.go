package ai

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
)

// ollamaChatRequest is the native /api/chat payload.
type ollamaChatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  *ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	NumPredict int `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Model   string      `json:"model"`
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
	Error   string      `json:"error,omitempty"`
}

func ollamaAdapter() providerAdapter {
	return providerAdapter{
		defaultEndpoint: domain.DefaultOllamaEndpoint,
		buildRequest:    buildOllamaRequest,
		parseResponse:   parseOllamaResponse,
		setHeaders:      setOllamaHeaders,
	}
}

func buildOllamaRequest(model domain.ModelDefinition, messages []domain.Message) ([]byte, error) {
	payload := ollamaChatRequest{
		Model:    valueOrDefault(model.ModelID, domain.DefaultModelName),
		Messages: toChatMessages(messages),
		Stream:   false,
	}
	if model.MaxTokens > 0 {
		payload.Options = &ollamaOptions{NumPredict: model.MaxTokens}
	}
	return json.Marshal(payload)
}

func parseOllamaResponse(body []byte) (string, error) {
	var response ollamaChatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}
	if response.Error != "" {
		return "", errors.New(response.Error)
	}
	return response.Message.Content, nil
}

// Ollama needs no auth; a key is only sent when the config names one (reverse proxies).
func setOllamaHeaders(req *http.Request, model domain.ModelDefinition) error {
	if key := resolveAuth(model.AuthEnvVar, ""); key != "" {
		req.Header.Set("authorization", "Bearer "+key)
	}
	return nil
}
