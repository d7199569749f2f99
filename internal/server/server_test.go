package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/assafc-claroty/hack-2025/internal/nlp/nlptest"
	"github.com/assafc-claroty/hack-2025/internal/schema"
	"github.com/assafc-claroty/hack-2025/internal/server"
	"github.com/assafc-claroty/hack-2025/internal/translator"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	tr := translator.New(nlptest.Engine(), schema.Default(), zap.NewNop())
	ts := httptest.NewServer(server.New(tr, server.NewMetrics(), zap.NewNop()))
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestTranslate(t *testing.T) {
	ts := newTestServer(t)

	resp, out := post(t, ts, "/v1/translate", `{"text":"Show me all assets in site 54"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "SELECT * FROM assets WHERE site = 54", out["sql"])
	assert.Contains(t, out, "query")
	assert.Equal(t, "select", out["intent"].(map[string]any)["type"])

	_, err := uuid.Parse(out["request_id"].(string))
	assert.NoError(t, err)
	assert.Equal(t, out["request_id"], resp.Header.Get(server.RequestIDHeader))
}

func TestTranslate_Formats(t *testing.T) {
	ts := newTestServer(t)

	_, out := post(t, ts, "/v1/translate", `{"text":"How many assets are there?","format":"sql"}`)
	assert.Equal(t, "SELECT COUNT(*) FROM assets", out["sql"])
	assert.NotContains(t, out, "query")
	assert.NotContains(t, out, "intent")

	_, out = post(t, ts, "/v1/translate", `{"text":"How many assets are there?","format":"json"}`)
	assert.NotContains(t, out, "sql")
	assert.Equal(t, "count", out["intent"].(map[string]any)["type"])
}

func TestTranslate_KeepsCallerRequestID(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/v1/translate", strings.NewReader(`{"text":"How many assets are there?"}`))
	require.NoError(t, err)
	req.Header.Set(server.RequestIDHeader, "req-42")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "req-42", resp.Header.Get(server.RequestIDHeader))
}

func TestTranslate_Errors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"Empty question", `{"text":"   "}`, http.StatusBadRequest},
		{"Malformed body", `{"text":`, http.StatusBadRequest},
		{"Unknown field", `{"question":"x"}`, http.StatusBadRequest},
		{"Unknown format", `{"text":"How many assets are there?","format":"xml"}`, http.StatusBadRequest},
		{"No parse", `{"text":"nobody parsed this"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, out := post(t, ts, "/v1/translate", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, out["error"])
			assert.NotEmpty(t, out["request_id"])
		})
	}
}

func TestExplain(t *testing.T) {
	ts := newTestServer(t)

	resp, out := post(t, ts, "/v1/explain", `{"text":"Show me all assets in site 54"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, out["text"], "SELECT * FROM assets WHERE site = 54")

	ex := out["explanation"].(map[string]any)
	assert.NotEmpty(t, ex["tree"].(map[string]any)["tokens"])
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetrics(t *testing.T) {
	ts := newTestServer(t)
	post(t, ts, "/v1/translate", `{"text":"How many assets are there?"}`)
	post(t, ts, "/v1/translate", `{"text":"nobody parsed this"}`)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `nl2sql_translations_total{intent="count"} 1`)
	assert.Contains(t, text, "nl2sql_translation_errors_total 1")
	assert.Contains(t, text, "nl2sql_translation_duration_seconds_count 2")
}
