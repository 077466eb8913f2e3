// Package converters provides exporters turning rendered Markdown into documents.
package converters

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/GabrielNunesIT/curldocs/internal/domain"
)

const (
	markdownFormat      = "md"
	markdownExtension   = ".md"
	markdownContentType = "text/markdown"
)

// Formats lists the accepted export format names.
func Formats() []string {
	return []string{markdownFormat, pdfFormat, docxFormat, adfFormat}
}

// New returns the converter for format. Aliases: "markdown", "word", "adf".
func New(format string) (domain.Converter, error) {
	switch strings.ToLower(format) {
	case "md", "markdown":
		return NewMarkdownConverter(), nil
	case "pdf":
		return NewPDFConverter(), nil
	case "docx", "word":
		return NewDocxConverter(), nil
	case "confluence", "adf":
		return NewADFConverter(), nil
	default:
		return nil, domain.BadInput("unsupported format: %s (supported: %s)", format, strings.Join(Formats(), ", "))
	}
}

// MarkdownConverter writes the Markdown verbatim.
type MarkdownConverter struct{}

// NewMarkdownConverter creates a new Markdown converter.
func NewMarkdownConverter() *MarkdownConverter {
	return &MarkdownConverter{}
}

// Format returns the output format name.
func (c *MarkdownConverter) Format() string {
	return markdownFormat
}

// Extension returns the file extension.
func (c *MarkdownConverter) Extension() string {
	return markdownExtension
}

// ContentType returns the media type.
func (c *MarkdownConverter) ContentType() string {
	return markdownContentType
}

// Convert copies markdown to output.
func (c *MarkdownConverter) Convert(markdown string, output io.Writer) error {
	if _, err := io.WriteString(output, markdown); err != nil {
		return fmt.Errorf("failed to write markdown: %w", err)
	}

	return nil
}

// ExportToTempFile converts markdown into a fresh temporary file and returns its path.
// The caller owns the file and must remove it.
func ExportToTempFile(conv domain.Converter, markdown string) (string, error) {
	file, err := os.CreateTemp("", "curldocs-*"+conv.Extension())
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	path := file.Name()

	if err := conv.Convert(markdown, file); err != nil {
		_ = file.Close()
		_ = os.Remove(path)

		return "", err
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(path)

		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	return path, nil
}
