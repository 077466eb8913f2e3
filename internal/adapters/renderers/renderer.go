// Package renderers provides Markdown renderers for OpenAPI documents.
package renderers

import (
	"strings"

	"github.com/GabrielNunesIT/curldocs/internal/domain"
	"github.com/GabrielNunesIT/curldocs/internal/jsonval"
)

// Style names accepted by New.
const (
	StyleDefault = "default"
	StyleSheet   = "sheet"
	StyleVendor  = "vendor"
)

// Styles lists the supported style names.
func Styles() []string {
	return []string{StyleDefault, StyleSheet, StyleVendor}
}

// New returns the renderer for style. Unknown or empty styles get the default renderer.
func New(style string) domain.Renderer {
	switch style {
	case StyleSheet:
		return NewSheetRenderer()
	case StyleVendor:
		return NewVendorRenderer()
	default:
		return NewDefaultRenderer()
	}
}

// Render renders doc in the given style.
func Render(doc *domain.OpenAPIDocument, style string) string {
	return New(style).Render(doc)
}

// markdown collects output lines. Entries may hold embedded newlines.
type markdown struct {
	lines []string
}

func (m *markdown) add(lines ...string) {
	m.lines = append(m.lines, lines...)
}

func (m *markdown) codeBlock(lang, body string) {
	m.add("```" + lang + "\n" + body + "\n```")
}

func (m *markdown) String() string {
	return strings.TrimSpace(strings.Join(m.lines, "\n")) + "\n"
}

// summaryOf returns the operation summary or "METHOD path".
func summaryOf(path string, op domain.Operation) string {
	if op.Summary != "" {
		return op.Summary
	}

	return strings.ToUpper(op.Method) + " " + path
}

// prettyExample formats a body example: strings verbatim, everything else as indented JSON.
func prettyExample(example any) string {
	if s, ok := example.(string); ok {
		return s
	}

	return jsonval.Indent(example)
}

// coercedExample returns the body example, repairing string examples into JSON values.
func coercedExample(op domain.Operation) any {
	example := op.BodyExample()
	if s, ok := example.(string); ok {
		return jsonval.Coerce(s)
	}

	return example
}

// exampleText renders a parameter example for a table cell.
func exampleText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return jsonval.Compact(val)
	}
}

func authLines(doc *domain.OpenAPIDocument, bearer, apiKey string) []string {
	var lines []string
	if doc.RequiresScheme(domain.BearerAuth) {
		lines = append(lines, bearer)
	}
	if doc.RequiresScheme(domain.APIKeyAuth) {
		lines = append(lines, apiKey)
	}

	return lines
}

func responsesTable(m *markdown, op domain.Operation) {
	if len(op.Responses) == 0 {
		return
	}

	m.add("\n### Responses", "| Status | Description |\n|---|---|")
	for _, r := range op.Responses {
		m.add("| " + r.StatusCode + " | " + r.Description + " |")
	}
}
