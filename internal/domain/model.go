// Package domain defines core entities and value objects for ollamaland.
//
// This file contains generation model and provider definitions used throughout the application.
// The domain layer is independent of infrastructure concerns.
package domain

import "strings"

// ModelDefinition describes a generation backend declared in the config file.
type ModelDefinition struct {
	Name       string       `yaml:"name"`
	Provider   ProviderKind `yaml:"provider,omitempty"`
	Endpoint   string       `yaml:"endpoint"`
	AuthEnvVar string       `yaml:"auth_env_var,omitempty"`
	ModelID    string       `yaml:"model_id"`
	MaxTokens  int          `yaml:"max_tokens,omitempty"`
}

// ProviderKind names the wire protocol spoken by a backend.
type ProviderKind string

const (
	ProviderKindOllama    ProviderKind = "ollama"
	ProviderKindOpenAI    ProviderKind = "openai"
	ProviderKindAnthropic ProviderKind = "anthropic"
	ProviderKindUnknown   ProviderKind = ""
)

// ResolveProvider returns the declared provider, inferring it from the endpoint
// and name when the config leaves it empty.
func (m ModelDefinition) ResolveProvider() ProviderKind {
	if m.Provider != ProviderKindUnknown {
		return m.Provider
	}
	nameLower := strings.ToLower(m.Name)
	switch {
	case strings.Contains(m.Endpoint, "anthropic.com"):
		return ProviderKindAnthropic
	case strings.Contains(m.Endpoint, "openai.com"), strings.Contains(m.Endpoint, "/v1/chat/completions"):
		return ProviderKindOpenAI
	case strings.Contains(nameLower, "ollama"), strings.Contains(m.Endpoint, "11434"), strings.Contains(m.Endpoint, "localhost"):
		return ProviderKindOllama
	default:
		return ProviderKindUnknown
	}
}

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry of a generation request.
type Message struct {
	Role    string `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// UserMessage is shorthand for a single user turn.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}
