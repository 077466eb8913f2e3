package converters

import (
	"fmt"
	"io"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/GabrielNunesIT/curldocs/internal/domain"
)

const (
	docxFormat      = "docx"
	docxExtension   = ".docx"
	docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	docxCodeStyle  = "MacroTextChar"
	docxTableStyle = "TableGrid"
)

// DocxConverter converts rendered Markdown to Word (DOCX) format.
type DocxConverter struct{}

// NewDocxConverter creates a new DOCX converter.
func NewDocxConverter() *DocxConverter {
	return &DocxConverter{}
}

// Format returns the output format name.
func (c *DocxConverter) Format() string {
	return docxFormat
}

// Extension returns the file extension.
func (c *DocxConverter) Extension() string {
	return docxExtension
}

// ContentType returns the media type.
func (c *DocxConverter) ContentType() string {
	return docxContentType
}

// Convert transforms Markdown to DOCX format.
func (c *DocxConverter) Convert(markdown string, output io.Writer) error {
	document, err := godocx.NewDocument()
	if err != nil {
		return domain.Internal("document generation unavailable", err)
	}

	for _, block := range ParseMarkdown(markdown) {
		switch b := block.(type) {
		case HeadingBlock:
			if err := c.addHeading(document, b); err != nil {
				return fmt.Errorf("failed to add heading: %w", err)
			}
		case CodeBlock:
			for _, line := range b.Lines {
				document.AddParagraph("").AddText(line).Style(docxCodeStyle)
			}
		case TableBlock:
			c.addTable(document, b.Rows)
		case BulletBlock:
			for _, item := range b.Items {
				document.AddParagraph("- " + item)
			}
		case ParagraphBlock:
			document.AddParagraph(b.Text)
		}
	}

	if err := document.Write(output); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	return nil
}

// addHeading maps levels deeper than 3 onto Heading3.
func (c *DocxConverter) addHeading(document *docx.RootDoc, heading HeadingBlock) error {
	level := heading.Level
	if level > 3 {
		level = 3
	}

	_, err := document.AddHeading(heading.Text, uint(level))

	return err
}

// addTable writes rows as a grid table with a bold header row.
// Rows are padded to the header's column count.
func (c *DocxConverter) addTable(document *docx.RootDoc, rows [][]string) {
	table := document.AddTable()
	table.Style(docxTableStyle)

	columns := len(rows[0])

	for i, row := range rows {
		tableRow := table.AddRow()

		for j := 0; j < columns; j++ {
			text := ""
			if j < len(row) {
				text = row[j]
			}

			cell := tableRow.AddCell()
			if i == 0 {
				cell.AddParagraph("").AddText(text).Bold(true)
			} else {
				cell.AddParagraph(text)
			}
		}
	}

	document.AddEmptyParagraph()
}
