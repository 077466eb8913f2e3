package openapi

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/GabrielNunesIT/curldocs/internal/domain"
	"github.com/GabrielNunesIT/curldocs/internal/jsonval"
)

// Writer handles writing OpenAPI documents as JSON or YAML.
// Both encodings keep the document's key order.
type Writer struct{}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteJSON writes doc as JSON indented with two spaces.
func (w *Writer) WriteJSON(doc *domain.OpenAPIDocument, out io.Writer) error {
	if _, err := io.WriteString(out, jsonval.Indent(doc.Value())+"\n"); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}

	return nil
}

// WriteYAML writes doc as block style YAML.
func (w *Writer) WriteYAML(doc *domain.OpenAPIDocument, out io.Writer) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(toNode(doc.Value())); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

// Write writes doc in the given format ("json" or "yaml").
func (w *Writer) Write(doc *domain.OpenAPIDocument, format string, out io.Writer) error {
	switch strings.ToLower(format) {
	case "", "json":
		return w.WriteJSON(doc, out)
	case "yaml", "yml":
		return w.WriteYAML(doc, out)
	default:
		return fmt.Errorf("unsupported format: %s (supported: json, yaml)", format)
	}
}

// WriteFile writes doc to path. An empty format is inferred from the file extension.
func (w *Writer) WriteFile(doc *domain.OpenAPIDocument, path, format string) error {
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			format = "yaml"
		default:
			format = "json"
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return w.Write(doc, format, file)
}

func toNode(v any) *yaml.Node {
	switch val := v.(type) {
	case jsonval.Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, m := range val {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Key},
				toNode(m.Value),
			)
		}

		return n
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range val {
			n.Content = append(n.Content, toNode(item))
		}

		return n
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprint(val)}
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(val.String(), ".eE") {
			tag = "!!float"
		}

		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: val.String()}
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: val}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: jsonval.Compact(val)}
	}
}
