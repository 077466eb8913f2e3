package domain

// Project is the metadata kept for a project directory.
type Project struct {
	ID          string `json:"project_id"`
	ProjectName string `json:"project_name"`
}

// ProjectStore persists projects and their docs artifacts.
// Every Save fully replaces the previous artifact; there is no history.
type ProjectStore interface {
	// CreateProject creates the project directory and writes its metadata.
	CreateProject(project Project) error

	// ProjectExists reports whether the project directory exists.
	ProjectExists(projectID string) bool

	// LoadProject returns the project metadata. A project without metadata yields a zero Project.
	LoadProject(projectID string) (Project, error)

	SaveInputs(projectID string, batch *RequestBatch) error
	// LoadInputs returns nil without error when nothing was ingested yet.
	LoadInputs(projectID string) (*RequestBatch, error)

	SaveOpenAPI(projectID string, doc *OpenAPIDocument) error
	// LoadOpenAPI returns nil without error when no document was generated yet.
	LoadOpenAPI(projectID string) (*OpenAPIDocument, error)

	SaveMarkdown(projectID string, markdown string) error
	// LoadMarkdown reports false when no Markdown was stored yet.
	LoadMarkdown(projectID string) (string, bool, error)
}
