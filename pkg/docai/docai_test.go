package docai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yachtexcel/yachtexcel/pkg/fields"
)

const sampleResponse = `{
  "document": {
    "text": "CERTIFICATE OF REGISTRY ...",
    "entities": [
      {"type": "vessel_name", "mentionText": "Sea Breeze", "confidence": 0.97},
      {"type": "date_of_registry", "mentionText": "10 December 2020", "confidence": 0.9,
       "normalizedValue": {"text": "2020-12-10"}},
      {"type": "engine", "properties": [
        {"type": "combined_kw", "mentionText": "Combined KW 2864", "confidence": 0.8}
      ]}
    ]
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{
		Project:  "yacht-project",
		Location: "eu",
		Endpoint: srv.URL + "/v1",
		Tokens:   StaticTokenSource("test-token"),
	})
	require.NoError(t, err)
	return c
}

func TestProcess(t *testing.T) {
	content := base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 fake"))

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/projects/yacht-project/locations/eu/processors/abc123:process", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		var req processRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, content, req.RawDocument.Content)
		assert.Equal(t, "application/pdf", req.RawDocument.MimeType)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleResponse))
	})

	resp, err := c.Process(context.Background(), Request{ProcessorID: "abc123", Content: content})
	require.NoError(t, err)

	assert.JSONEq(t, sampleResponse, string(resp.Raw))
	assert.Equal(t, "CERTIFICATE OF REGISTRY ...", resp.Text)
	assert.Equal(t, []fields.Entity{
		{Type: "vessel_name", MentionText: "Sea Breeze", Confidence: 0.97},
		{Type: "date_of_registry", MentionText: "10 December 2020", NormalizedText: "2020-12-10", Confidence: 0.9},
		{Type: "combined_kw", MentionText: "Combined KW 2864", Confidence: 0.8},
	}, resp.Entities)
}

func TestProcessStripsDataURL(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("image bytes"))

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req processRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, payload, req.RawDocument.Content)
		assert.Equal(t, "image/png", req.RawDocument.MimeType)
		_, _ = w.Write([]byte(`{"document":{}}`))
	})

	_, err := c.Process(context.Background(), Request{
		ProcessorID: "abc123",
		Content:     "data:image/png;base64," + payload,
		MimeType:    "image/png",
	})
	require.NoError(t, err)
}

func TestProcessValidation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := c.Process(context.Background(), Request{ProcessorID: "../etc", Content: "aGk="})
	assert.ErrorIs(t, err, ErrInvalidProcessor)

	_, err = c.Process(context.Background(), Request{ProcessorID: "abc", Content: ""})
	assert.ErrorIs(t, err, ErrInvalidContent)

	_, err = c.Process(context.Background(), Request{ProcessorID: "abc", Content: "***not base64***"})
	assert.ErrorIs(t, err, ErrInvalidContent)
}

func TestProcessAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"message":"permission denied"}}`))
	})

	_, err := c.Process(context.Background(), Request{ProcessorID: "abc", Content: "aGk="})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "permission denied")
}

func TestProcessMissingToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	c.tokens = StaticTokenSource("")

	_, err := c.Process(context.Background(), Request{ProcessorID: "abc", Content: "aGk="})
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	_, err := New(Config{Location: "us", Tokens: StaticTokenSource("t")})
	assert.Error(t, err)

	_, err = New(Config{Project: "p", Location: "US West", Tokens: StaticTokenSource("t")})
	assert.Error(t, err)

	_, err = New(Config{Project: "p"})
	assert.Error(t, err)

	c, err := New(Config{Project: "p", Tokens: StaticTokenSource("t")})
	require.NoError(t, err)
	assert.Equal(t, "https://us-documentai.googleapis.com/v1/projects/p/locations/us/processors/x:process", c.ProcessURL("x"))
}

func TestParseResponse(t *testing.T) {
	resp, err := ParseResponse([]byte(sampleResponse))
	require.NoError(t, err)
	assert.Equal(t, "CERTIFICATE OF REGISTRY ...", resp.Text)
	require.Len(t, resp.Entities, 3)
	assert.Equal(t, "combined_kw", resp.Entities[2].Type)
	assert.JSONEq(t, sampleResponse, string(resp.Raw))

	_, err = ParseResponse([]byte("not json"))
	assert.Error(t, err)
}
