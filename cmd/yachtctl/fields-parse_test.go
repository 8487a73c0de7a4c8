package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registryResponse = `{
  "document": {
    "text": "CERTIFICATE OF REGISTRY",
    "entities": [
      {"type": "vessel_name", "mentionText": "Sea Breeze", "confidence": 0.97},
      {"type": "date_of_registry", "mentionText": "10 December 2020", "confidence": 0.9},
      {"type": "engine", "properties": [
        {"type": "combined_kw", "mentionText": "Combined KW 2864", "confidence": 0.8}
      ]}
    ]
  }
}`

func writeResponse(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "response.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParseFieldsText(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, parseFields(writeResponse(t, registryResponse), "text", &out))

	text := out.String()
	assert.Contains(t, text, "FIELD")
	assert.Regexp(t, `name\s+Sea Breeze\s+vessel_name\s+0\.97`, text)
	assert.Regexp(t, `registrationDate\s+10-12-2020`, text)
	assert.Regexp(t, `enginePowerKw\s+2864\s+combined_kw`, text)
	assert.Contains(t, text, "status: completed")
	assert.NotContains(t, text, "unmapped")
}

func TestParseFieldsJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, parseFields(writeResponse(t, registryResponse), "json", &out))

	var body struct {
		Values map[string]any `json:"values"`
		Status string         `json:"status"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &body))
	assert.Equal(t, "completed", body.Status)
	assert.Equal(t, "Sea Breeze", body.Values["name"])
	assert.Equal(t, "10-12-2020", body.Values["registrationDate"])
	assert.EqualValues(t, 2864, body.Values["enginePowerKw"])
}

func TestParseFieldsErrors(t *testing.T) {
	var out bytes.Buffer

	err := parseFields(filepath.Join(t.TempDir(), "missing.json"), "text", &out)
	assert.Error(t, err)

	err = parseFields(writeResponse(t, "not json"), "text", &out)
	assert.Error(t, err)

	err = parseFields(writeResponse(t, registryResponse), "yaml", &out)
	assert.EqualError(t, err, `unknown output format "yaml"`)
}
