package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/verdict/ai/provider"
	"github.com/teranos/verdict/config"
	"github.com/teranos/verdict/critic"
	"github.com/teranos/verdict/template"
)

// scriptedClient answers every chat with a fixed reply.
type scriptedClient struct {
	reply string
	err   error
}

func (c *scriptedClient) Chat(_ context.Context, _ provider.ChatRequest) (*provider.ChatResponse, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &provider.ChatResponse{Content: c.reply, Model: "scripted"}, nil
}

func (c *scriptedClient) Name() string { return "scripted" }

func newTestServer(t *testing.T, client provider.Client) *VerdictServer {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clarity.toml"), []byte(`
description = "Judges clarity"
weight = 1.0
template = "{{> rubric}}Rate: {{content}}"
`), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "_partials"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "_partials", "rubric.tmpl"),
		[]byte("Reply with SCORE: <n>. "), 0o644))

	engine, err := template.NewEngine(template.Config{})
	require.NoError(t, err)

	store, err := critic.NewStore(dir, engine, nil)
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	return NewVerdictServer(cfg, engine, store, client, nil)
}

func postJSON(t *testing.T, handler http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, &scriptedClient{reply: "SCORE: 7"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, float64(1), health["critics"])
	assert.Equal(t, "scripted", health["provider"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestHandleCritics(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/critics", nil)
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Critics []CriticInfo `json:"critics"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Critics, 1)
	assert.Equal(t, "clarity", resp.Critics[0].Name)
	assert.Equal(t, critic.DefaultScale, resp.Critics[0].Scale)
	// Template body is not exposed
	assert.NotContains(t, w.Body.String(), "{{content}}")
}

func TestHandleRender(t *testing.T) {
	srv := newTestServer(t, nil)

	w := postJSON(t, srv.Routes(), "/api/v1/render", RenderRequest{
		Template: "Hi {{name | \"there\"}}!",
		Context:  template.Context{"name": "Bob"},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp RenderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Hi Bob!", resp.Output)
}

func TestHandleRenderUsesSharedPartials(t *testing.T) {
	srv := newTestServer(t, nil)

	w := postJSON(t, srv.Routes(), "/api/v1/render", RenderRequest{
		Template: "{{> rubric}}done",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp RenderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Reply with SCORE: <n>. done", resp.Output)
}

func TestHandleRenderInlinePartialOverridesShared(t *testing.T) {
	srv := newTestServer(t, nil)

	w := postJSON(t, srv.Routes(), "/api/v1/render", RenderRequest{
		Template: "{{> rubric}}",
		Partials: map[string]string{"rubric": "overridden"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp RenderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "overridden", resp.Output)
}

func TestHandleRenderMissingPartial(t *testing.T) {
	srv := newTestServer(t, nil)

	w := postJSON(t, srv.Routes(), "/api/v1/render", RenderRequest{
		Template: "{{> nope}}",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "nope")
}

func TestHandleRenderRequiresTemplate(t *testing.T) {
	srv := newTestServer(t, nil)

	w := postJSON(t, srv.Routes(), "/api/v1/render", RenderRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleRenderRejectsOversizedBody(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.cfg.Server.MaxBodyBytes = 64

	w := postJSON(t, srv.Routes(), "/api/v1/render", RenderRequest{
		Template: strings.Repeat("x", 1024),
	})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestHandleValidate(t *testing.T) {
	srv := newTestServer(t, nil)

	w := postJSON(t, srv.Routes(), "/api/v1/validate", ValidateRequest{
		Template: "{{#if a}}x",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp template.ValidationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	assert.Equal(t, []string{"1 unclosed {{#if}} tag(s)"}, resp.Errors)
}

func TestHandleValidateOK(t *testing.T) {
	srv := newTestServer(t, nil)

	w := postJSON(t, srv.Routes(), "/api/v1/validate", ValidateRequest{
		Template: "{{#if a}}x{{/if}}",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp template.ValidationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
}

func TestHandleEvaluate(t *testing.T) {
	srv := newTestServer(t, &scriptedClient{reply: "Readable.\nSCORE: 8"})

	w := postJSON(t, srv.Routes(), "/api/v1/evaluate", EvaluateRequest{
		Context: template.Context{"content": "an essay"},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var report critic.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Len(t, report.Results, 1)
	assert.Equal(t, 8.0, report.Results[0].Score)
	assert.Equal(t, 1, report.Summary.Scored)
}

func TestHandleEvaluateUnknownCritic(t *testing.T) {
	srv := newTestServer(t, &scriptedClient{reply: "SCORE: 8"})

	w := postJSON(t, srv.Routes(), "/api/v1/evaluate", EvaluateRequest{
		Critics: []string{"nope"},
		Context: template.Context{"content": "x"},
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleEvaluateWithoutProvider(t *testing.T) {
	srv := newTestServer(t, nil)

	w := postJSON(t, srv.Routes(), "/api/v1/evaluate", EvaluateRequest{
		Context: template.Context{"content": "x"},
	})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandleEvaluateRequiresContext(t *testing.T) {
	srv := newTestServer(t, &scriptedClient{reply: "SCORE: 8"})

	w := postJSON(t, srv.Routes(), "/api/v1/evaluate", EvaluateRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/render", nil)
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestUnsupportedMediaType(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/render", strings.NewReader("template=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestRequestIDPassthrough(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "caller-supplied")
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, req)

	assert.Equal(t, "caller-supplied", w.Header().Get("X-Request-ID"))
}
