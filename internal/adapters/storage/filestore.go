// Package storage provides the file-backed project store.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/GabrielNunesIT/curldocs/internal/domain"
	"github.com/GabrielNunesIT/curldocs/internal/jsonval"
)

const (
	projectsDir  = "projects"
	docsDir      = "docs"
	metadataFile = "metadata.json"
	inputsFile   = "inputs.json"
	openAPIFile  = "openapi.json"
	markdownFile = "docs.md"

	dirPerm  = 0o755
	filePerm = 0o644
)

// FileStore keeps every project under <root>/projects/<id>:
//
//	metadata.json
//	docs/inputs.json
//	docs/openapi.json
//	docs/docs.md
type FileStore struct {
	root string
}

var _ domain.ProjectStore = (*FileStore)(nil)

// NewFileStore creates a store rooted at dataDir.
func NewFileStore(dataDir string) *FileStore {
	return &FileStore{root: filepath.Join(dataDir, projectsDir)}
}

// ValidateProjectID rejects ids that would escape the projects directory.
func ValidateProjectID(projectID string) error {
	switch {
	case strings.TrimSpace(projectID) == "":
		return domain.BadInput("project id must not be empty")
	case projectID == "." || projectID == "..":
		return domain.BadInput("invalid project id %q", projectID)
	case strings.ContainsAny(projectID, `/\`) || strings.ContainsRune(projectID, os.PathSeparator):
		return domain.BadInput("invalid project id %q", projectID)
	}

	return nil
}

func (s *FileStore) projectDir(projectID string) string {
	return filepath.Join(s.root, projectID)
}

func (s *FileStore) docsPath(projectID, name string) string {
	return filepath.Join(s.root, projectID, docsDir, name)
}

// CreateProject creates the project directory and writes its metadata.
func (s *FileStore) CreateProject(project domain.Project) error {
	if err := ValidateProjectID(project.ID); err != nil {
		return err
	}

	return writeJSON(filepath.Join(s.projectDir(project.ID), metadataFile), project)
}

// ProjectExists reports whether the project directory exists.
func (s *FileStore) ProjectExists(projectID string) bool {
	if ValidateProjectID(projectID) != nil {
		return false
	}

	info, err := os.Stat(s.projectDir(projectID))

	return err == nil && info.IsDir()
}

// LoadProject returns the project metadata.
func (s *FileStore) LoadProject(projectID string) (domain.Project, error) {
	if !s.ProjectExists(projectID) {
		return domain.Project{}, domain.NotFound("Project not found")
	}

	var project domain.Project

	found, err := readJSON(filepath.Join(s.projectDir(projectID), metadataFile), &project)
	if err != nil {
		return domain.Project{}, err
	}

	if !found {
		return domain.Project{ID: projectID}, nil
	}

	return project, nil
}

// SaveInputs replaces the ingested requests.
func (s *FileStore) SaveInputs(projectID string, batch *domain.RequestBatch) error {
	if err := ValidateProjectID(projectID); err != nil {
		return err
	}

	return writeJSON(s.docsPath(projectID, inputsFile), batch)
}

// LoadInputs returns the ingested requests, or nil when nothing was ingested.
func (s *FileStore) LoadInputs(projectID string) (*domain.RequestBatch, error) {
	if err := ValidateProjectID(projectID); err != nil {
		return nil, err
	}

	var batch domain.RequestBatch

	found, err := readJSON(s.docsPath(projectID, inputsFile), &batch)
	if err != nil || !found {
		return nil, err
	}

	return &batch, nil
}

// SaveOpenAPI replaces the generated document.
func (s *FileStore) SaveOpenAPI(projectID string, doc *domain.OpenAPIDocument) error {
	if err := ValidateProjectID(projectID); err != nil {
		return err
	}

	return writeJSON(s.docsPath(projectID, openAPIFile), doc)
}

// LoadOpenAPI returns the generated document, or nil when none exists.
func (s *FileStore) LoadOpenAPI(projectID string) (*domain.OpenAPIDocument, error) {
	if err := ValidateProjectID(projectID); err != nil {
		return nil, err
	}

	var doc domain.OpenAPIDocument

	found, err := readJSON(s.docsPath(projectID, openAPIFile), &doc)
	if err != nil || !found {
		return nil, err
	}

	return &doc, nil
}

// SaveMarkdown replaces the stored Markdown.
func (s *FileStore) SaveMarkdown(projectID string, markdown string) error {
	if err := ValidateProjectID(projectID); err != nil {
		return err
	}

	return writeFile(s.docsPath(projectID, markdownFile), []byte(markdown))
}

// LoadMarkdown returns the stored Markdown and whether it exists.
func (s *FileStore) LoadMarkdown(projectID string) (string, bool, error) {
	if err := ValidateProjectID(projectID); err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(s.docsPath(projectID, markdownFile))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read markdown: %w", err)
	}

	return string(data), true, nil
}

// writeJSON stores v pretty-printed with two-space indentation, keeping the key order
// of ordered values.
func writeJSON(path string, v any) error {
	compact, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}

	tree, err := jsonval.Parse(string(compact))
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}

	return writeFile(path, []byte(jsonval.Indent(tree)))
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}

	return nil
}

// readJSON decodes path into v. It reports false when the file does not exist.
func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}

	return true, nil
}
