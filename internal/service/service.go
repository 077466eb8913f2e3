// Package service implements the documentation pipeline: ingest, generate, render and export.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/GabrielNunesIT/go-libs/logger"

	"github.com/GabrielNunesIT/curldocs/internal/adapters/converters"
	"github.com/GabrielNunesIT/curldocs/internal/adapters/renderers"
	"github.com/GabrielNunesIT/curldocs/internal/curl"
	"github.com/GabrielNunesIT/curldocs/internal/domain"
	"github.com/GabrielNunesIT/curldocs/internal/openapi"
)

const (
	inlineProjectName = "Ad-hoc API"
	exportProjectName = "Generated API"
	defaultFilename   = "api-docs"
	defaultExport     = "pdf"
)

// GenerateOptions are the optional inputs of Generate.
type GenerateOptions struct {
	ProjectName string
	BaseURL     string
	// AIEnabled toggles operation descriptions; nil means enabled.
	AIEnabled *bool
}

// InlineRequest describes a project-less generation.
type InlineRequest struct {
	CurlsText   string
	Curls       []string
	BaseURL     string
	Style       string
	ProjectName string
}

// InlineResult is the outcome of Inline.
type InlineResult struct {
	Document *domain.OpenAPIDocument
	Markdown string
}

// ExportResult points at an exported temp file. The caller removes Path.
type ExportResult struct {
	Path        string
	Filename    string
	ContentType string
}

// Service runs the pipeline against a project store.
type Service struct {
	log          logger.ILogger
	store        domain.ProjectStore
	validate     bool
	defaultStyle string
}

// Option configures a Service.
type Option func(*Service)

// WithValidation runs the kin-openapi check after every generation and logs its result.
func WithValidation(enabled bool) Option {
	return func(s *Service) {
		s.validate = enabled
	}
}

// WithDefaultStyle sets the style used by Inline and ExportInline when none is given.
func WithDefaultStyle(style string) Option {
	return func(s *Service) {
		if style != "" {
			s.defaultStyle = style
		}
	}
}

// New creates a new Service.
func New(log logger.ILogger, store domain.ProjectStore, opts ...Option) *Service {
	s := &Service{
		log:          log,
		store:        store,
		defaultStyle: renderers.StyleVendor,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreateProject registers a project. The display name defaults to the id.
func (s *Service) CreateProject(projectID, name string) error {
	if name == "" {
		name = projectID
	}

	if err := s.store.CreateProject(domain.Project{ID: projectID, ProjectName: name}); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	s.log.Infof("Created project %s", projectID)

	return nil
}

// Ingest parses cURL input and replaces the project's stored requests.
func (s *Service) Ingest(projectID, curlsText string, curls []string) (*domain.RequestBatch, error) {
	if !s.store.ProjectExists(projectID) {
		return nil, domain.NotFound("Project not found")
	}

	batch := curl.ParseInputs(curlsText, curls)
	if batch.Len() == 0 {
		return nil, domain.BadInput("No cURL commands provided")
	}

	if err := s.store.SaveInputs(projectID, &batch); err != nil {
		return nil, storeError("failed to save inputs", err)
	}

	s.log.Infof("Ingested %d request(s) into project %s", batch.Len(), projectID)

	return &batch, nil
}

// Generate builds the OpenAPI document from the ingested requests and stores it together
// with its default-style Markdown.
func (s *Service) Generate(ctx context.Context, projectID string, opts GenerateOptions) (*domain.OpenAPIDocument, error) {
	if !s.store.ProjectExists(projectID) {
		return nil, domain.NotFound("Project not found")
	}

	batch, err := s.store.LoadInputs(projectID)
	if err != nil {
		return nil, storeError("failed to load inputs", err)
	}

	if batch.Len() == 0 {
		return nil, domain.BadInput("No ingested cURL inputs found. Call /ingest first.")
	}

	name := opts.ProjectName
	if name == "" {
		project, err := s.store.LoadProject(projectID)
		if err != nil {
			return nil, err
		}
		name = project.ProjectName
	}
	if name == "" {
		name = projectID
	}

	doc := s.build(ctx, name, opts.BaseURL, opts.AIEnabled, batch.Requests)

	if err := s.store.SaveOpenAPI(projectID, doc); err != nil {
		return nil, domain.Internal("failed to save OpenAPI document", err)
	}

	if err := s.store.SaveMarkdown(projectID, renderers.Render(doc, renderers.StyleDefault)); err != nil {
		return nil, domain.Internal("failed to save markdown", err)
	}

	s.log.Infof("Generated %s with %d path(s)", doc.Info.Title, len(doc.Paths))

	return doc, nil
}

// OpenAPI returns the stored document of a project.
func (s *Service) OpenAPI(projectID string) (*domain.OpenAPIDocument, error) {
	doc, err := s.store.LoadOpenAPI(projectID)
	if err != nil {
		return nil, storeError("failed to load OpenAPI document", err)
	}

	if doc == nil {
		return nil, domain.NotFound("No OpenAPI for project")
	}

	return doc, nil
}

// Markdown returns the stored Markdown of a project.
func (s *Service) Markdown(projectID string) (string, error) {
	md, found, err := s.store.LoadMarkdown(projectID)
	if err != nil {
		return "", storeError("failed to load markdown", err)
	}

	if !found {
		return "", domain.NotFound("No Markdown for project")
	}

	return md, nil
}

// Render renders doc in style.
func (s *Service) Render(doc *domain.OpenAPIDocument, style string) string {
	return renderers.Render(doc, style)
}

// Export renders doc and converts it into a temp file of the given format.
func (s *Service) Export(doc *domain.OpenAPIDocument, style, format string) (*ExportResult, error) {
	if format == "" {
		format = defaultExport
	}

	conv, err := converters.New(format)
	if err != nil {
		return nil, err
	}

	path, err := converters.ExportToTempFile(conv, renderers.Render(doc, style))
	if err != nil {
		return nil, domain.Internal(strings.ToUpper(conv.Format())+" generation failed", err)
	}

	s.log.Infof("Exported %s as %s", doc.Info.Title, conv.Format())

	return &ExportResult{
		Path:        path,
		Filename:    exportFilename(doc.Info.Title, conv.Extension()),
		ContentType: conv.ContentType(),
	}, nil
}

// ExportTo renders doc and writes it to out in the given format.
func (s *Service) ExportTo(doc *domain.OpenAPIDocument, style, format string, out io.Writer) (domain.Converter, error) {
	if format == "" {
		format = defaultExport
	}

	conv, err := converters.New(format)
	if err != nil {
		return nil, err
	}

	if err := conv.Convert(renderers.Render(doc, style), out); err != nil {
		return nil, domain.Internal(strings.ToUpper(conv.Format())+" generation failed", err)
	}

	return conv, nil
}

// Inline generates and renders documentation without a project.
func (s *Service) Inline(ctx context.Context, req InlineRequest) (*InlineResult, error) {
	doc, err := s.inlineDocument(ctx, req, inlineProjectName)
	if err != nil {
		return nil, err
	}

	return &InlineResult{Document: doc, Markdown: renderers.Render(doc, s.style(req.Style))}, nil
}

// ExportInline generates documentation without a project and exports it.
func (s *Service) ExportInline(ctx context.Context, req InlineRequest, format string) (*ExportResult, error) {
	doc, err := s.inlineDocument(ctx, req, exportProjectName)
	if err != nil {
		return nil, err
	}

	return s.Export(doc, s.style(req.Style), format)
}

func (s *Service) inlineDocument(ctx context.Context, req InlineRequest, defaultName string) (*domain.OpenAPIDocument, error) {
	batch := curl.ParseInputs(req.CurlsText, req.Curls)
	if batch.Len() == 0 {
		return nil, domain.BadInput("No cURL commands provided")
	}

	name := req.ProjectName
	if name == "" {
		name = defaultName
	}

	return s.build(ctx, name, req.BaseURL, nil, batch.Requests), nil
}

func (s *Service) build(ctx context.Context, name, baseURL string, aiEnabled *bool, requests []domain.ParsedRequest) *domain.OpenAPIDocument {
	describe := aiEnabled == nil || *aiEnabled

	doc := openapi.NewBuilder(openapi.WithDescriptions(describe)).Build(name, baseURL, requests)

	if s.validate {
		if err := openapi.Check(ctx, doc); err != nil {
			s.log.Errorf("OpenAPI check failed for %s: %v", doc.Info.Title, err)
		}
	}

	return doc
}

func (s *Service) style(style string) string {
	if style == "" {
		return s.defaultStyle
	}

	return style
}

// exportFilename lower-cases title and replaces spaces with dashes.
func exportFilename(title, extension string) string {
	if title == "" {
		title = defaultFilename
	}

	return strings.ToLower(strings.ReplaceAll(title, " ", "-")) + extension
}

// storeError keeps pipeline errors raised by the store, such as an invalid project id,
// and wraps everything else as Internal.
func storeError(message string, err error) error {
	var derr *domain.Error
	if errors.As(err, &derr) {
		return err
	}

	return domain.Internal(message, err)
}
