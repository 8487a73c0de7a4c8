// Package ai sends chat prompts to the configured AI vendors and combines
// their answers.
//
// OpenAI, Grok (x.ai) and DeepSeek share the chat-completions wire format and
// are served by OpenAICompatible. Gemini goes through the genai SDK.
// Consensus fans a question out to every enabled provider and picks the
// answer that agrees most with the others.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/yachtexcel/yachtexcel/pkg/model"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	System   string
	Messages []Message
	// MaxTokens and Temperature override the model defaults when set.
	MaxTokens   int
	Temperature *float64
}

// Prompt builds a single-turn request.
func Prompt(system, user string) ChatRequest {
	return ChatRequest{System: system, Messages: []Message{{Role: "user", Content: user}}}
}

type ChatResponse struct {
	Provider    string        `json:"provider"`
	Model       string        `json:"model"`
	Content     string        `json:"content"`
	TotalTokens int           `json:"totalTokens,omitempty"`
	Latency     time.Duration `json:"-"`
}

// Provider is a chat endpoint of one vendor and model.
type Provider interface {
	Name() string
	Model() string
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

var (
	ErrNoAPIKey   = errors.New("ai: provider has no API key")
	ErrNoProvider = errors.New("ai: no enabled providers")
	ErrEmptyReply = errors.New("ai: provider returned no content")
)

// APIError is a non-2xx vendor response.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ai: %s returned %d: %s", e.Provider, e.StatusCode, e.Body)
}

var defaultBaseURLs = map[model.ProviderKind]string{
	model.ProviderOpenAI:   "https://api.openai.com/v1",
	model.ProviderGrok:     "https://api.x.ai/v1",
	model.ProviderDeepSeek: "https://api.deepseek.com/v1",
}

var defaultModels = map[model.ProviderKind]string{
	model.ProviderOpenAI:   "gpt-4o-mini",
	model.ProviderGrok:     "grok-2-latest",
	model.ProviderDeepSeek: "deepseek-chat",
	model.ProviderGemini:   "gemini-2.0-flash",
}

// DefaultModel is the model used when a provider has none configured.
func DefaultModel(kind model.ProviderKind) string {
	return defaultModels[kind]
}

// NewProvider builds the client for a configured provider. m may be the zero
// value, in which case the kind's default model is used.
func NewProvider(ctx context.Context, p model.AIProvider, m model.AIModel, httpClient *http.Client) (Provider, error) {
	if p.APIKey == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoAPIKey, p.Name)
	}
	if m.Name == "" {
		m.Name = DefaultModel(p.Kind)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 2 * time.Minute}
	}

	switch p.Kind {
	case model.ProviderOpenAI, model.ProviderGrok, model.ProviderDeepSeek:
		baseURL := p.BaseURL
		if baseURL == "" {
			baseURL = defaultBaseURLs[p.Kind]
		}
		return NewOpenAICompatible(OpenAIConfig{
			Name:        p.Name,
			BaseURL:     baseURL,
			APIKey:      p.APIKey,
			Model:       m.Name,
			MaxTokens:   m.MaxTokens,
			Temperature: m.Temperature,
			HTTPClient:  httpClient,
		}), nil
	case model.ProviderGemini:
		return NewGemini(ctx, GeminiConfig{
			Name:        p.Name,
			BaseURL:     p.BaseURL,
			APIKey:      p.APIKey,
			Model:       m.Name,
			MaxTokens:   m.MaxTokens,
			Temperature: m.Temperature,
			HTTPClient:  httpClient,
		})
	default:
		return nil, fmt.Errorf("ai: unsupported provider kind %q", p.Kind)
	}
}

// Build creates clients for the enabled providers accepted by include, in
// the given order. Providers that cannot be built are reported in errs and
// skipped.
func Build(ctx context.Context, providers []model.AIProvider, include func(name string) bool, httpClient *http.Client) (built []Provider, errs []error) {
	for _, p := range providers {
		if !p.Enabled || (include != nil && !include(p.Name)) {
			continue
		}
		m, _ := p.DefaultModel()
		client, err := NewProvider(ctx, p, m, httpClient)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		built = append(built, client)
	}
	return built, errs
}

const pingPrompt = "Reply with the single word: pong"

// TestConnection sends a short prompt to check credentials and reachability.
func TestConnection(ctx context.Context, p Provider) (*ChatResponse, error) {
	return p.Chat(ctx, ChatRequest{
		Messages:  []Message{{Role: "user", Content: pingPrompt}},
		MaxTokens: 16,
	})
}
