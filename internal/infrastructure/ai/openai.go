package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/XCodeIsGoldX/ollamaland/internal/domain"
)

const (
	defaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultOpenAIModel    = "gpt-4o-mini"
)

func openaiAdapter() providerAdapter {
	return providerAdapter{
		defaultEndpoint: defaultOpenAIEndpoint,
		buildRequest:    buildChatCompletionRequest,
		parseResponse:   parseChatCompletionResponse,
		setHeaders:      setOpenAIHeaders,
	}
}

func buildChatCompletionRequest(model domain.ModelDefinition, messages []domain.Message) ([]byte, error) {
	return json.Marshal(chatCompletionRequest{
		Model:     valueOrDefault(model.ModelID, defaultOpenAIModel),
		Messages:  toChatMessages(messages),
		MaxTokens: model.MaxTokens,
	})
}

func parseChatCompletionResponse(body []byte) (string, error) {
	var response chatCompletionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}
	if response.Error != nil && response.Error.Message != "" {
		return "", errors.New(response.Error.Message)
	}
	return response.FirstMessage(), nil
}

// OpenAI-compatible servers without auth (llama.cpp, vLLM) work when no key is configured
// and the endpoint is not api.openai.com.
func setOpenAIHeaders(req *http.Request, model domain.ModelDefinition) error {
	apiKey := resolveAuth(model.AuthEnvVar, "OPENAI_API_KEY")
	if apiKey == "" {
		if req.URL.Host == "api.openai.com" {
			return fmt.Errorf("missing API key: set %s or OPENAI_API_KEY", valueOrDefault(model.AuthEnvVar, "auth_env_var"))
		}
		return nil
	}
	req.Header.Set("authorization", "Bearer "+apiKey)
	return nil
}
