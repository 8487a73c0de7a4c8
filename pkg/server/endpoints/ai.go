package endpoints

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/yachtexcel/yachtexcel/pkg/ai"
	"github.com/yachtexcel/yachtexcel/pkg/audit"
	"github.com/yachtexcel/yachtexcel/pkg/model"
	"github.com/yachtexcel/yachtexcel/pkg/role"
	"github.com/yachtexcel/yachtexcel/pkg/server"
)

const (
	defaultUsageDays = 30
	maxPromptBytes   = 64 << 10
)

// ProviderResponse is a provider as shown to clients: the API key is
// masked.
type ProviderResponse struct {
	model.AIProvider
	APIKey    string `json:"apiKey,omitempty"`
	HasAPIKey bool   `json:"hasApiKey"`
}

func providerResponse(p model.AIProvider) ProviderResponse {
	return ProviderResponse{
		AIProvider: p,
		APIKey:     p.MaskedAPIKey(),
		HasAPIKey:  p.APIKey != "" || len(p.EncryptedAPIKey) > 0,
	}
}

// ModelRequest is the body of POST /ai/providers/{id}/models.
type ModelRequest struct {
	Name        string  `json:"name"`
	Enabled     *bool   `json:"enabled"`
	IsDefault   bool    `json:"isDefault"`
	MaxTokens   int     `json:"maxTokens"`
	Temperature float64 `json:"temperature"`
}

func (m ModelRequest) toModel() (*model.AIModel, error) {
	name := strings.TrimSpace(m.Name)
	if name == "" {
		return nil, errors.New("model name is required")
	}
	if m.MaxTokens < 0 {
		return nil, errors.New("maxTokens must not be negative")
	}
	if m.Temperature < 0 || m.Temperature > 2 {
		return nil, errors.New("temperature must be between 0 and 2")
	}
	enabled := true
	if m.Enabled != nil {
		enabled = *m.Enabled
	}
	return &model.AIModel{
		Name:        name,
		Enabled:     enabled,
		IsDefault:   m.IsDefault,
		MaxTokens:   m.MaxTokens,
		Temperature: m.Temperature,
	}, nil
}

// ProviderRequest is the body of provider create and update requests.
// Absent fields are left unchanged on update; an absent or empty apiKey
// keeps the stored key.
type ProviderRequest struct {
	Name     *string        `json:"name"`
	Kind     *string        `json:"kind"`
	BaseURL  *string        `json:"baseUrl"`
	APIKey   string         `json:"apiKey"`
	Enabled  *bool          `json:"enabled"`
	Priority *int           `json:"priority"`
	Models   []ModelRequest `json:"models"`
}

func (req ProviderRequest) apply(p *model.AIProvider) error {
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Kind != nil {
		p.Kind = model.ProviderKind(strings.ToLower(strings.TrimSpace(*req.Kind)))
	}
	if req.BaseURL != nil {
		p.BaseURL = strings.TrimRight(strings.TrimSpace(*req.BaseURL), "/")
	}
	if req.APIKey != "" {
		p.APIKey = req.APIKey
	}
	if req.Enabled != nil {
		p.Enabled = *req.Enabled
	}
	if req.Priority != nil {
		p.Priority = *req.Priority
	}

	if p.Name == "" {
		return errors.New("name is required")
	}
	if !p.Kind.Valid() {
		return fmt.Errorf("invalid kind %q", p.Kind)
	}
	if p.BaseURL != "" && !strings.HasPrefix(p.BaseURL, "https://") && !strings.HasPrefix(p.BaseURL, "http://") {
		return fmt.Errorf("baseUrl must be an http(s) URL")
	}
	return nil
}

// ConsensusRequest is the body of POST /ai/consensus.
type ConsensusRequest struct {
	Prompt string `json:"prompt"`
	System string `json:"system"`
}

// ConsensusResponse is the consensus result with the providers that could
// not be called.
type ConsensusResponse struct {
	*ai.Result
	Skipped []string `json:"skipped,omitempty"`
}

// TestConnectionResponse is the outcome of a provider connectivity test.
type TestConnectionResponse struct {
	Success   bool   `json:"success"`
	Provider  string `json:"provider"`
	Model     string `json:"model,omitempty"`
	LatencyMS int64  `json:"latencyMs"`
	Reply     string `json:"reply,omitempty"`
	Error     string `json:"error,omitempty"`
}

// RegisterAIEndpoints registers provider configuration, consensus chat and
// usage analytics.
func RegisterAIEndpoints(s *server.Server) {
	r := protected(s, "/ai")

	r.HandleFunc("/providers", requirePermission(s, role.ResourceAIProviders, role.ActionRead, handleListProviders(s))).Methods("GET")
	r.HandleFunc("/providers", requirePermission(s, role.ResourceAIProviders, role.ActionManage, handleCreateProvider(s))).Methods("POST")
	r.HandleFunc("/providers/{id}", requirePermission(s, role.ResourceAIProviders, role.ActionRead, handleGetProvider(s))).Methods("GET")
	r.HandleFunc("/providers/{id}", requirePermission(s, role.ResourceAIProviders, role.ActionManage, handleUpdateProvider(s))).Methods("PUT")
	r.HandleFunc("/providers/{id}", requirePermission(s, role.ResourceAIProviders, role.ActionManage, handleDeleteProvider(s))).Methods("DELETE")
	r.HandleFunc("/providers/{id}/test", requirePermission(s, role.ResourceAIProviders, role.ActionManage, handleTestProvider(s))).Methods("POST")
	r.HandleFunc("/providers/{id}/models", requirePermission(s, role.ResourceAIProviders, role.ActionManage, handleAddModel(s))).Methods("POST")

	r.HandleFunc("/consensus", requirePermission(s, role.ResourceAIConsensus, role.ActionRead, handleConsensus(s))).Methods("POST")
	r.HandleFunc("/usage", requirePermission(s, role.ResourceAnalytics, role.ActionRead, handleUsage(s))).Methods("GET")
}

func logProviderChange(r *http.Request, p *model.AIProvider, op string, err error) {
	id := caller(r)
	event := audit.ProviderChangeEvent{
		UserID:       id.UserID,
		ClientIP:     id.ClientIP(),
		ProviderID:   p.ID,
		ProviderName: p.Name,
		Operation:    op,
		Success:      err == nil,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	audit.Log(r.Context(), event)
}

func handleListProviders(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		enabledOnly := r.URL.Query().Get("enabled") == "true"
		providers, err := s.AIProvidersStore.ListProviders(r.Context(), enabledOnly)
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "AI provider")
			return
		}

		out := make([]ProviderResponse, 0, len(providers))
		for _, p := range providers {
			out = append(out, providerResponse(p))
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"items": out, "total": len(out)})
	}
}

func handleGetProvider(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := s.AIProvidersStore.GetProvider(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "AI provider")
			return
		}
		respondWithJSON(w, http.StatusOK, providerResponse(*p))
	}
}

func handleCreateProvider(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProviderRequest
		if !decodeJSON(w, r, maxBodyBytes, &req) {
			return
		}

		p := model.AIProvider{Enabled: true}
		if err := req.apply(&p); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		models := make([]*model.AIModel, 0, len(req.Models))
		for _, mr := range req.Models {
			m, err := mr.toModel()
			if err != nil {
				respondWithError(w, http.StatusUnprocessableEntity, err.Error())
				return
			}
			models = append(models, m)
		}

		err := s.AIProvidersStore.CreateProvider(r.Context(), &p)
		logProviderChange(r, &p, "create", err)
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "AI provider")
			return
		}
		for _, m := range models {
			if err := s.AIProvidersStore.AddModel(r.Context(), p.ID, m); err != nil {
				respondWithStoreError(w, s.Logger, err, "AI model")
				return
			}
		}

		created, err := s.AIProvidersStore.GetProvider(r.Context(), p.ID)
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "AI provider")
			return
		}
		respondWithJSON(w, http.StatusCreated, providerResponse(*created))
	}
}

func handleUpdateProvider(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProviderRequest
		if !decodeJSON(w, r, maxBodyBytes, &req) {
			return
		}
		if len(req.Models) > 0 {
			respondWithError(w, http.StatusBadRequest, "models are added through /ai/providers/{id}/models")
			return
		}

		p, err := s.AIProvidersStore.GetProvider(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "AI provider")
			return
		}
		if err := req.apply(p); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		err = s.AIProvidersStore.UpdateProvider(r.Context(), p)
		logProviderChange(r, p, "update", err)
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "AI provider")
			return
		}
		respondWithJSON(w, http.StatusOK, providerResponse(*p))
	}
}

func handleDeleteProvider(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := s.AIProvidersStore.GetProvider(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "AI provider")
			return
		}

		err = s.AIProvidersStore.DeleteProvider(r.Context(), p.ID)
		logProviderChange(r, p, "delete", err)
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "AI provider")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleAddModel(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ModelRequest
		if !decodeJSON(w, r, maxBodyBytes, &req) {
			return
		}
		m, err := req.toModel()
		if err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		if err := s.AIProvidersStore.AddModel(r.Context(), mux.Vars(r)["id"], m); err != nil {
			respondWithStoreError(w, s.Logger, err, "AI provider")
			return
		}
		respondWithJSON(w, http.StatusCreated, m)
	}
}

// handleTestProvider sends a short prompt to the provider's default model.
// The outcome is reported in the body; vendor failures are not HTTP errors.
func handleTestProvider(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := s.AIProvidersStore.GetProvider(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "AI provider")
			return
		}

		m, _ := p.DefaultModel()
		client, err := ai.NewProvider(r.Context(), *p, m, s.AIHTTPClient)
		if err != nil {
			logProviderChange(r, p, "test", err)
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), s.Config().AIRequestTimeout())
		defer cancel()
		start := time.Now()
		resp, err := ai.TestConnection(ctx, client)
		elapsed := time.Since(start)
		s.Metrics.ObserveAICall(client.Name(), elapsed, err)
		logProviderChange(r, p, "test", err)

		out := TestConnectionResponse{
			Success:   err == nil,
			Provider:  client.Name(),
			Model:     client.Model(),
			LatencyMS: elapsed.Milliseconds(),
		}
		usage := &model.AIUsageLog{
			Provider:  client.Name(),
			Model:     client.Model(),
			Operation: "test",
			LatencyMS: out.LatencyMS,
			Success:   err == nil,
			CreatedBy: caller(r).UserID,
		}
		if err != nil {
			out.Error = err.Error()
			usage.Error = err.Error()
		} else {
			out.Reply = resp.Content
			usage.TotalTokens = resp.TotalTokens
		}
		if s.UsageStore != nil {
			if err := s.UsageStore.RecordUsage(r.Context(), usage); err != nil {
				s.Logger.Warn("failed to record AI usage", zap.String("provider", usage.Provider), zap.Error(err))
			}
		}
		respondWithJSON(w, http.StatusOK, out)
	}
}

func handleConsensus(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Consensus == nil {
			respondWithError(w, http.StatusNotImplemented, "AI consensus is not configured")
			return
		}
		var req ConsensusRequest
		if !decodeJSON(w, r, maxPromptBytes, &req) {
			return
		}
		if strings.TrimSpace(req.Prompt) == "" {
			respondWithError(w, http.StatusUnprocessableEntity, "prompt is required")
			return
		}

		providers, err := s.AIProvidersStore.ListProviders(r.Context(), true)
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "AI provider")
			return
		}
		cfg := s.Config()
		clients, buildErrs := ai.Build(r.Context(), providers, cfg.IsConsensusProvider, s.AIHTTPClient)
		var skipped []string
		for _, err := range buildErrs {
			s.Logger.Warn("skipping AI provider", zap.Error(err))
			skipped = append(skipped, err.Error())
		}
		if len(clients) == 0 {
			respondWithError(w, http.StatusServiceUnavailable, "no AI providers are available")
			return
		}

		res, err := s.Consensus.Ask(r.Context(), clients, ai.Question{
			Prompt: req.Prompt,
			System: req.System,
			UserID: caller(r).UserID,
		})
		var allFailed *ai.AllFailedError
		switch {
		case errors.As(err, &allFailed):
			respondWithJSON(w, http.StatusBadGateway, map[string]interface{}{
				"error": map[string]string{
					"code":    errorCode(http.StatusBadGateway),
					"message": "all AI providers failed",
				},
				"answers": allFailed.Answers,
			})
			return
		case err != nil:
			s.Logger.Error("consensus failed", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		respondWithJSON(w, http.StatusOK, ConsensusResponse{Result: res, Skipped: skipped})
	}
}

// handleUsage summarizes AI calls over the last ?days=N (default 30).
func handleUsage(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := defaultUsageDays
		if v := r.URL.Query().Get("days"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				respondWithError(w, http.StatusBadRequest, "days must be a positive integer")
				return
			}
			days = n
		}

		since := time.Now().UTC().AddDate(0, 0, -days)
		summary, err := s.UsageStore.SummarizeUsage(r.Context(), since)
		if err != nil {
			respondWithStoreError(w, s.Logger, err, "usage")
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"since":     since,
			"providers": summary,
		})
	}
}
