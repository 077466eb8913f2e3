package renderers

import (
	"strings"

	"github.com/GabrielNunesIT/curldocs/internal/domain"
)

// DefaultRenderer renders a plain path-by-path listing.
type DefaultRenderer struct{}

// NewDefaultRenderer creates a new DefaultRenderer.
func NewDefaultRenderer() *DefaultRenderer {
	return &DefaultRenderer{}
}

// Style returns the style name.
func (r *DefaultRenderer) Style() string {
	return StyleDefault
}

// Render renders doc.
func (r *DefaultRenderer) Render(doc *domain.OpenAPIDocument) string {
	var m markdown

	m.add("# "+titleOf(doc), "")

	if len(doc.Servers) > 0 {
		m.add("Servers:")
		for _, s := range doc.Servers {
			m.add("- " + s.URL)
		}
		m.add("")
	}

	for _, p := range doc.Paths {
		m.add("## " + p.Path)

		for _, op := range p.Operations {
			m.add("### " + strings.ToUpper(op.Method))
			if op.Summary != "" {
				m.add(op.Summary)
			}

			if len(op.Parameters) > 0 {
				m.add("", "Parameters:")
				for _, param := range op.Parameters {
					m.add("- " + param.In + " `" + param.Name + "`")
				}
			}

			if op.RequestBody != nil {
				m.add("", "Request Body:")
				if example := op.BodyExample(); example != nil {
					m.codeBlock("json", prettyExample(example))
				}
			}
		}

		m.add("")
	}

	return m.String()
}

func titleOf(doc *domain.OpenAPIDocument) string {
	if doc.Info.Title == "" {
		return "API"
	}

	return doc.Info.Title
}
