package domain

import "io"

// Converter defines the interface for Markdown document exporters.
type Converter interface {
	// Convert transforms rendered Markdown to the target format.
	Convert(markdown string, output io.Writer) error

	// Format returns the output format name (e.g., "pdf", "docx").
	Format() string

	// Extension returns the file extension including the leading dot.
	Extension() string

	// ContentType returns the media type of the produced document.
	ContentType() string
}

// Renderer turns an OpenAPI document into Markdown.
type Renderer interface {
	// Render returns the Markdown for doc. It must be a pure function of doc.
	Render(doc *OpenAPIDocument) string

	// Style returns the style name (e.g., "vendor").
	Style() string
}
