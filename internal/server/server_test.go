package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabrielNunesIT/curldocs/internal/adapters/storage"
	"github.com/GabrielNunesIT/curldocs/internal/config"
	"github.com/GabrielNunesIT/curldocs/internal/service"
)

const curls = "curl -X GET 'https://api.ex.com/items/42'\n\n" +
	`curl -X POST 'https://api.ex.com/items' -H 'Content-Type: application/json' -d '{"name":"n"}'`

func newTestServer(t *testing.T) (*Server, *service.Service) {
	t.Helper()

	log := logger.NewConsoleLogger(io.Discard)
	svc := service.New(log, storage.NewFileStore(t.TempDir()))

	return New(log, svc, config.Defaults()), svc
}

func do(t *testing.T, s *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(method, target, reader))

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"status": "ok"}, decodeBody(t, rec))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestProjectFlow(t *testing.T) {
	s, svc := newTestServer(t)
	require.NoError(t, svc.CreateProject("p1", "Shop"))

	rec := do(t, s, http.MethodPost, "/api/docs/ingest", map[string]any{"project_id": "p1", "curls_text": curls})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"ok": true, "endpoints": float64(2)}, decodeBody(t, rec))

	rec = do(t, s, http.MethodPost, "/api/docs/generate", map[string]any{"project_id": "p1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"ok": true, "paths": float64(2)}, decodeBody(t, rec))

	rec = do(t, s, http.MethodGet, "/api/docs/openapi.json?project_id=p1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), `{"openapi":"3.0.3","info":{"title":"Shop API"`))

	rec = do(t, s, http.MethodGet, "/api/docs/markdown?project_id=p1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "# Shop API"))
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

func TestErrorMapping(t *testing.T) {
	s, svc := newTestServer(t)
	require.NoError(t, svc.CreateProject("empty", ""))

	tests := []struct {
		name    string
		method  string
		target  string
		body    any
		status  int
		message string
	}{
		{"ingest unknown project", http.MethodPost, "/api/docs/ingest", map[string]any{"project_id": "nope", "curls_text": curls}, http.StatusNotFound, "Project not found"},
		{"ingest without commands", http.MethodPost, "/api/docs/ingest", map[string]any{"project_id": "empty", "curls_text": "hello"}, http.StatusBadRequest, "No cURL commands provided"},
		{"generate before ingest", http.MethodPost, "/api/docs/generate", map[string]any{"project_id": "empty"}, http.StatusBadRequest, "No ingested cURL inputs found. Call /ingest first."},
		{"openapi missing", http.MethodGet, "/api/docs/openapi.json?project_id=empty", nil, http.StatusNotFound, "No OpenAPI for project"},
		{"markdown missing", http.MethodGet, "/api/docs/markdown?project_id=empty", nil, http.StatusNotFound, "No Markdown for project"},
		{"inline without commands", http.MethodPost, "/api/docs/generate-inline", map[string]any{}, http.StatusBadRequest, "No cURL commands provided"},
		{"export unknown format", http.MethodPost, "/api/docs/export", map[string]any{"curls_text": curls, "output": "html"}, http.StatusBadRequest, "unsupported format: html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.target, tt.body)

			assert.Equal(t, tt.status, rec.Code)
			body := decodeBody(t, rec)
			assert.Contains(t, body["error"], tt.message)
			assert.NotEmpty(t, body["code"])
		})
	}
}

func TestMalformedBody(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/docs/ingest", strings.NewReader("{")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_input", decodeBody(t, rec)["code"])
}

func TestGenerateInline(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/docs/generate-inline", map[string]any{"curls": []string{"curl https://api.ex.com/items"}, "format": "default"})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.True(t, strings.HasPrefix(body["markdown"].(string), "# Ad-hoc API API"))

	doc := body["openapi"].(map[string]any)
	assert.Equal(t, "3.0.3", doc["openapi"])
}

func TestCurlsSkipsNonStrings(t *testing.T) {
	s, svc := newTestServer(t)
	require.NoError(t, svc.CreateProject("p1", ""))

	mixed := []any{"curl https://api.ex.com/a", 5, nil, "  ", map[string]any{"x": 1}}

	rec := do(t, s, http.MethodPost, "/api/docs/generate-inline", map[string]any{"curls": mixed, "format": "default"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["markdown"], "## /a")

	rec = do(t, s, http.MethodPost, "/api/docs/ingest", map[string]any{"project_id": "p1", "curls": mixed})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"ok": true, "endpoints": float64(1)}, decodeBody(t, rec))

	rec = do(t, s, http.MethodPost, "/api/docs/generate-inline", map[string]any{"curls": []any{1, nil}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/docs/generate-inline", map[string]any{"curls": "curl https://api.ex.com/a"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/docs/export", map[string]any{"curls_text": curls, "output": "MD"})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "text/markdown", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=generated-api-api.md`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "# API Documentation: Generated API\n"))

	rec = do(t, s, http.MethodPost, "/api/docs/export", map[string]any{"curls_text": curls})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestSettings(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, config.BackendNone, decodeBody(t, rec)["model_backend"])

	rec = do(t, s, http.MethodPut, "/api/settings", map[string]any{"model_backend": "HF", "hf_model_name": "t5-small"})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, config.BackendHF, body["model_backend"])
	assert.Equal(t, "t5-small", body["hf_model_name"])
	assert.Equal(t, config.BackendHF, s.Config().ModelBackend)

	rec = do(t, s, http.MethodPut, "/api/settings", map[string]any{"model_backend": "llama"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, config.BackendHF, s.Config().ModelBackend)
}
