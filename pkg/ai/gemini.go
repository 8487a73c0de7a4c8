package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

type GeminiConfig struct {
	Name    string
	BaseURL string
	APIKey  string
	Model   string
	// MaxTokens and Temperature are model defaults; zero means unset.
	MaxTokens   int
	Temperature float64
	HTTPClient  *http.Client
}

// Gemini calls Google's Gemini API through the genai SDK.
type Gemini struct {
	client *genai.Client
	cfg    GeminiConfig
}

func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoAPIKey, cfg.Name)
	}
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Gemini{client: client, cfg: cfg}, nil
}

func (g *Gemini) Name() string  { return g.cfg.Name }
func (g *Gemini) Model() string { return g.cfg.Model }

func (g *Gemini) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	start := time.Now()

	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		var role genai.Role = genai.RoleUser
		if m.Role == "assistant" || m.Role == "model" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	config := &genai.GenerateContentConfig{}
	if strings.TrimSpace(req.System) != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	maxTokens := g.cfg.MaxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}
	if maxTokens > 0 {
		config.MaxOutputTokens = int32(maxTokens)
	}
	switch {
	case req.Temperature != nil:
		config.Temperature = genai.Ptr(float32(*req.Temperature))
	case g.cfg.Temperature > 0:
		config.Temperature = genai.Ptr(float32(g.cfg.Temperature))
	}

	result, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("ai: %s generate failed: %w", g.cfg.Name, err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyReply, g.cfg.Name)
	}

	resp := &ChatResponse{
		Provider: g.cfg.Name,
		Model:    g.cfg.Model,
		Content:  text,
		Latency:  time.Since(start),
	}
	if result.UsageMetadata != nil {
		resp.TotalTokens = int(result.UsageMetadata.TotalTokenCount)
	}
	return resp, nil
}
