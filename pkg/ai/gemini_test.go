package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGemini_Chat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-2.0-flash:generateContent") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "Check the impeller."}]}}],
			"usageMetadata": {"totalTokenCount": 17}
		}`))
	}))
	defer srv.Close()

	g, err := NewGemini(context.Background(), GeminiConfig{
		Name: "gemini", BaseURL: srv.URL, APIKey: "k", Model: "gemini-2.0-flash", HTTPClient: srv.Client(),
	})
	require.NoError(t, err)

	resp, err := g.Chat(context.Background(), Prompt("be brief", "Engine overheating?"))
	require.NoError(t, err)
	assert.Equal(t, "Check the impeller.", resp.Content)
	assert.Equal(t, 17, resp.TotalTokens)
	assert.Equal(t, "gemini", resp.Provider)
}

func TestNewGemini_RequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), GeminiConfig{Name: "gemini"})
	assert.ErrorIs(t, err, ErrNoAPIKey)
}
