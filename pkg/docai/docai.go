// Package docai forwards documents to a Google Document AI processor.
//
// The client sends the base64 document content as a rawDocument and returns
// the vendor's response unmodified, along with the entities parsed out of it.
// There are no retries; a non-2xx answer is returned as an *APIError.
package docai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/yachtexcel/yachtexcel/pkg/fields"
)

const defaultEndpointFormat = "https://%s-documentai.googleapis.com/v1"

// maxResponseBytes bounds how much of a vendor response is read.
const maxResponseBytes = 32 << 20

var processorIDRgx = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
var locationRgx = regexp.MustCompile(`^[a-z0-9-]{1,32}$`)

var (
	ErrInvalidProcessor = errors.New("docai: invalid processor id")
	ErrInvalidContent   = errors.New("docai: document content must be non-empty base64")
)

// TokenSource supplies the OAuth bearer token for Document AI calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource always returns the same token.
type StaticTokenSource string

func (s StaticTokenSource) Token(context.Context) (string, error) {
	if s == "" {
		return "", errors.New("docai: no access token configured")
	}
	return string(s), nil
}

// APIError is a non-2xx response from Document AI.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("docai: processor returned %d: %s", e.StatusCode, e.Body)
}

// Config configures a Client.
type Config struct {
	Project  string
	Location string
	// Endpoint overrides the regional API base URL.
	Endpoint   string
	Tokens     TokenSource
	HTTPClient *http.Client
}

// Client calls the Document AI process endpoint.
type Client struct {
	project  string
	location string
	endpoint string
	tokens   TokenSource
	http     *http.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.Project == "" {
		return nil, errors.New("docai: project is required")
	}
	location := cfg.Location
	if location == "" {
		location = "us"
	}
	if !locationRgx.MatchString(location) {
		return nil, fmt.Errorf("docai: invalid location %q", location)
	}
	if cfg.Tokens == nil {
		return nil, errors.New("docai: token source is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf(defaultEndpointFormat, location)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}

	return &Client{
		project:  cfg.Project,
		location: location,
		endpoint: strings.TrimRight(endpoint, "/"),
		tokens:   cfg.Tokens,
		http:     httpClient,
	}, nil
}

// Request is a document to process.
type Request struct {
	ProcessorID string
	// Content is the base64 encoded document.
	Content  string
	MimeType string
}

// Response is the vendor response plus the entities found in it.
type Response struct {
	Raw      json.RawMessage
	Text     string
	Entities []fields.Entity
}

type rawDocument struct {
	Content  string `json:"content"`
	MimeType string `json:"mimeType"`
}

type processRequest struct {
	RawDocument rawDocument `json:"rawDocument"`
}

type processResponse struct {
	Document struct {
		Text     string   `json:"text"`
		Entities []entity `json:"entities"`
	} `json:"document"`
}

type entity struct {
	Type            string  `json:"type"`
	MentionText     string  `json:"mentionText"`
	Confidence      float64 `json:"confidence"`
	NormalizedValue *struct {
		Text string `json:"text"`
	} `json:"normalizedValue"`
	Properties []entity `json:"properties"`
}

// ProcessURL is the process endpoint for a processor.
func (c *Client) ProcessURL(processorID string) string {
	return fmt.Sprintf("%s/projects/%s/locations/%s/processors/%s:process",
		c.endpoint, c.project, c.location, processorID)
}

// Process sends the document to the processor.
func (c *Client) Process(ctx context.Context, req Request) (*Response, error) {
	if !processorIDRgx.MatchString(req.ProcessorID) {
		return nil, ErrInvalidProcessor
	}
	content := strings.TrimSpace(req.Content)
	if i := strings.Index(content, ";base64,"); strings.HasPrefix(content, "data:") && i >= 0 {
		content = content[i+len(";base64,"):]
	}
	if content == "" {
		return nil, ErrInvalidContent
	}
	if _, err := base64.StdEncoding.DecodeString(content); err != nil {
		return nil, ErrInvalidContent
	}
	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = "application/pdf"
	}

	body, err := json.Marshal(processRequest{RawDocument: rawDocument{Content: content, MimeType: mimeType}})
	if err != nil {
		return nil, err
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("docai: failed to obtain access token: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ProcessURL(req.ProcessorID), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("docai: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("docai: failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	return ParseResponse(raw)
}

// ParseResponse reads a process response as returned by Document AI, for
// example one saved to a file.
func ParseResponse(raw []byte) (*Response, error) {
	var parsed processResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("docai: malformed response: %w", err)
	}

	return &Response{
		Raw:      json.RawMessage(raw),
		Text:     parsed.Document.Text,
		Entities: flatten(parsed.Document.Entities),
	}, nil
}

// flatten lifts nested entity properties (e.g. a "vessel" parent with
// "vessel_name" children) to the top level.
func flatten(entities []entity) []fields.Entity {
	var out []fields.Entity
	for _, e := range entities {
		if e.MentionText != "" || e.NormalizedValue != nil {
			fe := fields.Entity{
				Type:        e.Type,
				MentionText: e.MentionText,
				Confidence:  e.Confidence,
			}
			if e.NormalizedValue != nil {
				fe.NormalizedText = e.NormalizedValue.Text
			}
			out = append(out, fe)
		}
		out = append(out, flatten(e.Properties)...)
	}
	return out
}
