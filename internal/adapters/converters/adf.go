package converters

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	adfFormat      = "confluence"
	adfExtension   = ".json"
	adfContentType = "application/json"
)

// ADFConverter converts rendered Markdown to Atlassian Document Format (ADF) for Confluence.
type ADFConverter struct{}

// NewADFConverter creates a new ADF converter.
func NewADFConverter() *ADFConverter {
	return &ADFConverter{}
}

// Format returns the output format name.
func (c *ADFConverter) Format() string {
	return adfFormat
}

// Extension returns the file extension.
func (c *ADFConverter) Extension() string {
	return adfExtension
}

// ContentType returns the media type.
func (c *ADFConverter) ContentType() string {
	return adfContentType
}

// ADF node types.
type adfDocument struct {
	Version int       `json:"version"`
	Type    string    `json:"type"`
	Content []adfNode `json:"content"`
}

type adfNode struct {
	Type    string    `json:"type"`
	Attrs   *adfAttrs `json:"attrs,omitempty"`
	Content []adfNode `json:"content,omitempty"`
	Text    string    `json:"text,omitempty"`
	Marks   []adfMark `json:"marks,omitempty"`
}

type adfAttrs struct {
	Level    int    `json:"level,omitempty"`
	Language string `json:"language,omitempty"`
}

type adfMark struct {
	Type string `json:"type"`
}

// Convert transforms Markdown to ADF JSON format.
func (c *ADFConverter) Convert(markdown string, output io.Writer) error {
	adf := &adfDocument{
		Version: 1,
		Type:    "doc",
		Content: []adfNode{},
	}

	for _, block := range ParseMarkdown(markdown) {
		switch b := block.(type) {
		case HeadingBlock:
			adf.Content = append(adf.Content, c.heading(b.Text, b.Level))
		case CodeBlock:
			adf.Content = append(adf.Content, c.codeBlock(b))
		case TableBlock:
			adf.Content = append(adf.Content, c.table(b.Rows))
		case BulletBlock:
			adf.Content = append(adf.Content, c.bulletList(b.Items))
		case ParagraphBlock:
			adf.Content = append(adf.Content, c.paragraph(b.Text))
		}
	}

	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(adf); err != nil {
		return fmt.Errorf("failed to encode ADF: %w", err)
	}

	return nil
}

func (c *ADFConverter) heading(text string, level int) adfNode {
	return adfNode{
		Type:    "heading",
		Attrs:   &adfAttrs{Level: level},
		Content: c.inline(text),
	}
}

func (c *ADFConverter) paragraph(text string) adfNode {
	return adfNode{
		Type:    "paragraph",
		Content: c.inline(text),
	}
}

func (c *ADFConverter) codeBlock(code CodeBlock) adfNode {
	node := adfNode{Type: "codeBlock"}
	if code.Language != "" {
		node.Attrs = &adfAttrs{Language: code.Language}
	}

	if text := strings.Join(code.Lines, "\n"); text != "" {
		node.Content = []adfNode{{Type: "text", Text: text}}
	}

	return node
}

func (c *ADFConverter) bulletList(items []string) adfNode {
	nodes := make([]adfNode, 0, len(items))

	for _, item := range items {
		nodes = append(nodes, adfNode{
			Type:    "listItem",
			Content: []adfNode{c.paragraph(item)},
		})
	}

	return adfNode{
		Type:    "bulletList",
		Content: nodes,
	}
}

func (c *ADFConverter) table(rows [][]string) adfNode {
	columns := len(rows[0])
	nodes := make([]adfNode, 0, len(rows))

	for i, row := range rows {
		cellType := "tableCell"
		if i == 0 {
			cellType = "tableHeader"
		}

		cells := make([]adfNode, 0, columns)
		for j := 0; j < columns; j++ {
			text := ""
			if j < len(row) {
				text = row[j]
			}

			cells = append(cells, adfNode{
				Type:    cellType,
				Content: []adfNode{c.paragraph(text)},
			})
		}

		nodes = append(nodes, adfNode{Type: "tableRow", Content: cells})
	}

	return adfNode{
		Type:    "table",
		Content: nodes,
	}
}

// inline splits text on backticks into plain and code-marked text nodes.
// ADF rejects empty text nodes, so empty segments are skipped.
func (c *ADFConverter) inline(text string) []adfNode {
	var nodes []adfNode

	for i, segment := range strings.Split(text, "`") {
		if segment == "" {
			continue
		}

		node := adfNode{Type: "text", Text: segment}
		if i%2 == 1 {
			node.Marks = []adfMark{{Type: "code"}}
		}

		nodes = append(nodes, node)
	}

	return nodes
}
