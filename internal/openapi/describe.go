package openapi

import (
	"fmt"
	"strings"

	"github.com/GabrielNunesIT/curldocs/internal/domain"
	"github.com/GabrielNunesIT/curldocs/internal/jsonval"
)

const (
	maxBodyKeys       = 12
	maxDescriptionLen = 800
)

// Describe writes a one-sentence description on every operation of doc.
// The sentence is assembled from the method, path, query parameters and body keys only.
func Describe(doc *domain.OpenAPIDocument) {
	for i := range doc.Paths {
		p := &doc.Paths[i]
		for j := range p.Operations {
			op := &p.Operations[j]
			op.Description = describeOperation(p.Path, op)
		}
	}
}

func describeOperation(path string, op *domain.Operation) string {
	verb := "Processes"
	if strings.EqualFold(op.Method, "get") {
		verb = "Retrieves"
	}

	parts := []string{fmt.Sprintf("%s data for `%s`", verb, path)}

	var queryNames []string
	for _, p := range op.ParametersIn("query") {
		queryNames = append(queryNames, p.Name)
	}
	if len(queryNames) > 0 {
		parts = append(parts, "with query filters "+reprList(queryNames))
	}

	if obj, ok := op.BodyExample().(jsonval.Object); ok && len(obj) > 0 {
		keys := obj.Keys()
		if len(keys) > maxBodyKeys {
			keys = keys[:maxBodyKeys]
		}
		parts = append(parts, "using body fields "+reprList(keys))
	}

	sentence := []rune(strings.Join(parts, " ") + ".")
	if len(sentence) > maxDescriptionLen {
		sentence = sentence[:maxDescriptionLen]
	}

	return string(sentence)
}

// reprList formats names as a bracketed, quoted list such as ['page', 'q'].
func reprList(names []string) string {
	quoted := make([]string, 0, len(names))
	for _, n := range names {
		quoted = append(quoted, reprString(n))
	}

	return "[" + strings.Join(quoted, ", ") + "]"
}

func reprString(s string) string {
	quote := "'"
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		quote = `"`
	}

	var sb strings.Builder
	sb.WriteString(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			sb.WriteString(`\\`)
		case string(r) == quote:
			sb.WriteString(`\` + quote)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&sb, `\x%02x`, r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteString(quote)

	return sb.String()
}
