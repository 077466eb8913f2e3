// Package server exposes the docs pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/GabrielNunesIT/go-libs/logger"
	rerrors "rivaas.dev/errors"

	"github.com/GabrielNunesIT/curldocs/internal/config"
	"github.com/GabrielNunesIT/curldocs/internal/domain"
	"github.com/GabrielNunesIT/curldocs/internal/service"
)

const (
	maxBodyBytes    = 10 << 20
	shutdownTimeout = 5 * time.Second
)

// Server routes HTTP requests to the pipeline service.
type Server struct {
	log       logger.ILogger
	svc       *service.Service
	formatter *rerrors.Simple
	mux       *http.ServeMux

	mu  sync.Mutex
	cfg config.Config
}

// New creates a new Server. cfg is the initial effective configuration; the settings
// endpoint replaces it with updated copies.
func New(log logger.ILogger, svc *service.Service, cfg config.Config) *Server {
	s := &Server{
		log:       log,
		svc:       svc,
		formatter: rerrors.NewSimple(),
		mux:       http.NewServeMux(),
		cfg:       cfg,
	}

	s.routes()

	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /api/docs/ingest", s.handleIngest)
	s.mux.HandleFunc("POST /api/docs/generate", s.handleGenerate)
	s.mux.HandleFunc("GET /api/docs/openapi.json", s.handleOpenAPI)
	s.mux.HandleFunc("GET /api/docs/markdown", s.handleMarkdown)
	s.mux.HandleFunc("POST /api/docs/generate-inline", s.handleGenerateInline)
	s.mux.HandleFunc("POST /api/docs/export", s.handleExport)

	s.mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	s.mux.HandleFunc("PUT /api/settings", s.handlePutSettings)
}

// Handler returns the root handler with CORS applied.
func (s *Server) Handler() http.Handler {
	return cors(s.mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}

		return nil
	}
}

// Config returns the current effective configuration.
func (s *Server) Config() config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cfg
}

// curlList decodes a JSON array of commands, keeping only non-blank strings.
// Numbers, nulls and other non-string items are skipped.
type curlList []string

func (l *curlList) UnmarshalJSON(data []byte) error {
	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}

	list := make(curlList, 0, len(items))
	for _, item := range items {
		if text, ok := item.(string); ok && strings.TrimSpace(text) != "" {
			list = append(list, text)
		}
	}

	*l = list

	return nil
}

type ingestRequest struct {
	ProjectID string   `json:"project_id"`
	CurlsText string   `json:"curls_text"`
	Curls     curlList `json:"curls"`
}

type generateRequest struct {
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
	BaseURL     string `json:"base_url"`
	AIEnabled   *bool  `json:"ai_enabled"`
}

type inlineRequest struct {
	CurlsText   string   `json:"curls_text"`
	Curls       curlList `json:"curls"`
	BaseURL     string   `json:"base_url"`
	ProjectName string   `json:"project_name"`
	Format      string   `json:"format"`
	Style       string   `json:"style"`
	Output      string   `json:"output"`
}

// toService picks the style from format first, then style.
func (r inlineRequest) toService() service.InlineRequest {
	style := r.Format
	if style == "" {
		style = r.Style
	}

	return service.InlineRequest{
		CurlsText:   r.CurlsText,
		Curls:       []string(r.Curls),
		BaseURL:     r.BaseURL,
		Style:       style,
		ProjectName: r.ProjectName,
	}
}

type settingsRequest struct {
	ModelBackend     string `json:"model_backend"`
	HFModelName      string `json:"hf_model_name"`
	GPT4AllModelPath string `json:"gpt4all_model_path"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	batch, err := s.svc.Ingest(req.ProjectID, req.CurlsText, []string(req.Curls))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"ok": true, "endpoints": batch.Len()})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	aiEnabled := req.AIEnabled
	if aiEnabled == nil {
		enabled := s.Config().AIEnabled
		aiEnabled = &enabled
	}

	doc, err := s.svc.Generate(r.Context(), req.ProjectID, service.GenerateOptions{
		ProjectName: req.ProjectName,
		BaseURL:     req.BaseURL,
		AIEnabled:   aiEnabled,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"ok": true, "paths": len(doc.Paths)})
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	doc, err := s.svc.OpenAPI(r.URL.Query().Get("project_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	md, err := s.svc.Markdown(r.URL.Query().Get("project_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, md)
}

func (s *Server) handleGenerateInline(w http.ResponseWriter, r *http.Request) {
	var req inlineRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.svc.Inline(r.Context(), req.toService())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"openapi":  result.Document,
		"markdown": result.Markdown,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req inlineRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.svc.ExportInline(r.Context(), req.toService(), strings.ToLower(req.Output))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer func() {
		if err := os.Remove(result.Path); err != nil {
			s.log.Errorf("Failed to remove export %s: %v", result.Path, err)
		}
	}()

	file, err := os.Open(result.Path)
	if err != nil {
		s.writeError(w, r, domain.Internal("failed to open export", err))
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.Filename}))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, file); err != nil {
		s.log.Errorf("Failed to send export %s: %v", result.Filename, err)
	}
}

func (s *Server) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Config())
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.mu.Lock()
	cfg, err := s.cfg.WithModelBackend(req.ModelBackend, req.HFModelName, req.GPT4AllModelPath)
	if err == nil {
		s.cfg = cfg
	}
	s.mu.Unlock()

	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.log.Infof("Model backend set to %s", cfg.ModelBackend)
	s.writeJSON(w, http.StatusOK, cfg)
}

// decode reads a JSON body into v. Malformed bodies are BadInput.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.BadInput("request body is empty")
		}

		return domain.BadInput("invalid request body: %v", err)
	}

	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(v); err != nil {
		s.log.Errorf("Failed to encode response: %v", err)
	}
}

// writeError formats err with the rivaas Simple formatter. Errors without an HTTP status
// become 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := s.formatter.Format(r, err)

	if resp.Status >= http.StatusInternalServerError {
		s.log.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
	}

	for key, values := range resp.Headers {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}

	w.Header().Set("Content-Type", resp.ContentType)
	w.WriteHeader(resp.Status)

	if err := json.NewEncoder(w).Encode(resp.Body); err != nil {
		s.log.Errorf("Failed to encode error response: %v", err)
	}
}

// cors sets permissive CORS headers and answers preflight requests.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		header.Set("Access-Control-Allow-Origin", "*")
		header.Set("Access-Control-Allow-Methods", "*")
		header.Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
