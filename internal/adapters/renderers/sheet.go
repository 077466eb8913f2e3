package renderers

import (
	"strings"

	"github.com/GabrielNunesIT/curldocs/internal/domain"
	"github.com/GabrielNunesIT/curldocs/internal/jsonval"
)

// SheetRenderer renders a per-operation reference sheet with field dictionaries
// and a reconstructed example cURL.
type SheetRenderer struct {
	vocab Vocabulary
}

// NewSheetRenderer creates a new SheetRenderer.
func NewSheetRenderer() *SheetRenderer {
	return &SheetRenderer{vocab: General}
}

// Style returns the style name.
func (r *SheetRenderer) Style() string {
	return StyleSheet
}

// Render renders doc.
func (r *SheetRenderer) Render(doc *domain.OpenAPIDocument) string {
	var m markdown

	base := doc.BaseURL()

	m.add("# "+titleOf(doc), "")
	if base != "" {
		m.add("**Base URL**: `" + base + "`")
	}

	if len(doc.Security) > 0 {
		m.add("", "**Authentication**:")
		m.add(authLines(doc,
			"- Bearer token (JWT) via `Authorization: Bearer <token>` header",
			"- API Key via `X-API-Key: <key>` header",
		)...)
	}

	m.add("", "> This document is generated automatically from provided cURL requests.", "")

	for _, p := range doc.Paths {
		for _, op := range p.Operations {
			r.operation(&m, base, p.Path, op)
		}
	}

	return m.String()
}

func (r *SheetRenderer) operation(m *markdown, base, path string, op domain.Operation) {
	method := strings.ToUpper(op.Method)

	m.add("## "+summaryOf(path, op), "")
	m.add("- Method: **"+method+"**", "- URL: `"+path+"`")
	if len(op.Tags) > 0 {
		m.add("- Tags: " + strings.Join(op.Tags, ", "))
	}

	if headers := op.ParametersIn("header"); len(headers) > 0 {
		m.add("\n### Headers", "| Name | Example |\n|---|---|")
		for _, h := range headers {
			m.add("| " + h.Name + " | " + exampleText(h.Example) + " |")
		}
	}

	if params := op.ParametersIn("path"); len(params) > 0 {
		m.add("\n### Path Params", "| Name | Required |\n|---|---|")
		for _, p := range params {
			required := "no"
			if p.Required {
				required = "yes"
			}
			m.add("| " + p.Name + " | " + required + " |")
		}
	}

	if params := op.ParametersIn("query"); len(params) > 0 {
		m.add("\n### Query Params", "| Name |\n|---|")
		for _, p := range params {
			m.add("| " + p.Name + " |")
		}
	}

	if op.RequestBody != nil {
		m.add("\n### Request Body")

		example := coercedExample(op)
		if example != nil {
			m.codeBlock("json", prettyExample(example))
		}

		if jsonval.IsContainer(example) {
			if fields := flattenFields(r.vocab, example); len(fields) > 0 {
				m.add("\n### Request Body Fields", "| Field | Type | Description |\n|---|---|---|")
				for _, f := range fields {
					m.add("| `" + f.Name + "` | " + f.Type + " | " + f.Description + " |")
				}
			}
		}
	}

	m.add("\n### Example cURL")
	m.codeBlock("bash", `curl -X `+method+` "`+base+path+`"`)

	responsesTable(m, op)

	m.add("")
}
