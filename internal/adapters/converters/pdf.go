package converters

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding/charmap"
)

const (
	pdfFormat      = "pdf"
	pdfExtension   = ".pdf"
	pdfContentType = "application/pdf"

	pdfMarginLeft   = 36.0
	pdfMarginRight  = 36.0
	pdfMarginTop    = 40.0
	pdfMarginBottom = 40.0

	cellPaddingX = 8.0
	cellPaddingY = 6.0
	codePadding  = 8.0

	fallbackMargin   = 40.0
	fallbackFontSize = 10.0
	fallbackLeading  = 14.0
)

type rgb struct {
	r, g, b int
}

var (
	colorBlack      = rgb{0, 0, 0}
	colorWhite      = rgb{255, 255, 255}
	colorTitle      = rgb{0x0f, 0x17, 0x2a}
	colorHeading    = rgb{0x11, 0x18, 0x27}
	colorCodeFill   = rgb{0xf3, 0xf4, 0xf6}
	colorTableHead  = rgb{0x1f, 0x29, 0x37}
	colorTableGrid  = rgb{0x9c, 0xa3, 0xaf}
	colorStripedRow = rgb{0xf3, 0xf4, 0xf6}
)

type textStyle struct {
	family     string
	style      string
	size       float64
	leading    float64
	spaceAfter float64
	color      rgb
}

var (
	headingStyles = map[int]textStyle{
		1: {family: "Helvetica", style: "B", size: 24, leading: 28, spaceAfter: 14, color: colorTitle},
		2: {family: "Helvetica", style: "B", size: 18, leading: 22, spaceAfter: 12, color: colorHeading},
		3: {family: "Helvetica", style: "B", size: 14, leading: 20, spaceAfter: 10, color: colorHeading},
	}
	bodyStyle      = textStyle{family: "Helvetica", size: 12, leading: 18, spaceAfter: 8, color: colorBlack}
	codeStyle      = textStyle{family: "Courier", size: 11, leading: 16, spaceAfter: 10, color: colorBlack}
	tableHeadStyle = textStyle{family: "Helvetica", style: "B", size: 12, leading: 18, color: colorWhite}
	tableCellStyle = textStyle{family: "Helvetica", size: 11, leading: 14, color: colorBlack}
)

// PDFConverter converts rendered Markdown to PDF.
//
// Layout failures never reach the caller: the document is then rebuilt as plain
// monospace text so the export always yields a PDF.
type PDFConverter struct{}

// NewPDFConverter creates a new PDF converter.
func NewPDFConverter() *PDFConverter {
	return &PDFConverter{}
}

// Format returns the output format name.
func (c *PDFConverter) Format() string {
	return pdfFormat
}

// Extension returns the file extension.
func (c *PDFConverter) Extension() string {
	return pdfExtension
}

// ContentType returns the media type.
func (c *PDFConverter) ContentType() string {
	return pdfContentType
}

// Convert transforms Markdown to PDF format.
func (c *PDFConverter) Convert(markdown string, output io.Writer) error {
	var buf bytes.Buffer

	if err := c.render(markdown, &buf); err != nil {
		buf.Reset()

		if err := c.renderFallback(markdown, &buf); err != nil {
			return fmt.Errorf("failed to generate PDF: %w", err)
		}
	}

	if _, err := output.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	return nil
}

func (c *PDFConverter) render(markdown string, output io.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF layout failed: %v", r)
		}
	}()

	w := newPDFWriter()
	for _, block := range ParseMarkdown(markdown) {
		w.addBlock(block)
	}

	return w.pdf.Output(output)
}

// renderFallback writes every Markdown line as wrapped Courier text on Letter pages.
func (c *PDFConverter) renderFallback(markdown string, output io.Writer) error {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Courier", "", fallbackFontSize)

	width, height := pdf.GetPageSize()
	maxWidth := width - 2*fallbackMargin

	pdf.AddPage()
	y := fallbackMargin + fallbackLeading

	for _, line := range strings.Split(markdown, "\n") {
		for _, wrapped := range pdf.SplitLines([]byte(toWinAnsi(line)), maxWidth) {
			if y > height-fallbackMargin {
				pdf.AddPage()
				y = fallbackMargin + fallbackLeading
			}

			pdf.Text(fallbackMargin, y, string(wrapped))
			y += fallbackLeading
		}
	}

	return pdf.Output(output)
}

// pdfWriter holds the layout state of one PDF document.
type pdfWriter struct {
	pdf   *gofpdf.Fpdf
	width float64
}

func newPDFWriter() *pdfWriter {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	pdf.SetAutoPageBreak(true, pdfMarginBottom)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()

	return &pdfWriter{pdf: pdf, width: pageWidth - pdfMarginLeft - pdfMarginRight}
}

func (w *pdfWriter) addBlock(block Block) {
	switch b := block.(type) {
	case HeadingBlock:
		w.text(b.Text, headingStyles[b.Level])
	case ParagraphBlock:
		w.text(b.Text, bodyStyle)
	case BulletBlock:
		items := make([]string, len(b.Items))
		for i, item := range b.Items {
			items[i] = "• " + item
		}
		w.text(strings.Join(items, "\n"), bodyStyle)
	case CodeBlock:
		w.code(b.Lines)
	case TableBlock:
		w.table(b.Rows)
	}
}

func (w *pdfWriter) setStyle(s textStyle) {
	w.pdf.SetFont(s.family, s.style, s.size)
	w.pdf.SetTextColor(s.color.r, s.color.g, s.color.b)
}

func (w *pdfWriter) text(text string, s textStyle) {
	w.setStyle(s)
	w.pdf.SetX(pdfMarginLeft)
	w.pdf.MultiCell(w.width, s.leading, toWinAnsi(text), "", "L", false)
	w.pdf.Ln(s.spaceAfter)
}

func (w *pdfWriter) code(lines []string) {
	w.setStyle(codeStyle)
	w.pdf.SetFillColor(colorCodeFill.r, colorCodeFill.g, colorCodeFill.b)

	text := toWinAnsi(strings.Join(lines, "\n"))
	if text == "" {
		text = " "
	}

	w.pdf.SetX(pdfMarginLeft + codePadding)
	w.pdf.MultiCell(w.width-2*codePadding, codeStyle.leading, text, "", "L", true)
	w.pdf.Ln(codeStyle.spaceAfter)
}

func (w *pdfWriter) table(rows [][]string) {
	header := rows[0]
	weights := columnWeights(header)

	widths := make([]float64, len(weights))
	for i, weight := range weights {
		widths[i] = w.width * weight
	}

	w.pdf.SetAutoPageBreak(false, pdfMarginBottom)
	defer w.pdf.SetAutoPageBreak(true, pdfMarginBottom)

	w.pdf.SetDrawColor(colorTableGrid.r, colorTableGrid.g, colorTableGrid.b)
	w.pdf.SetLineWidth(0.6)

	w.tableRow(widths, header, tableHeadStyle, colorTableHead)

	for i, row := range rows[1:] {
		fill := colorWhite
		if i%2 == 1 {
			fill = colorStripedRow
		}

		if w.rowHeight(widths, row, tableCellStyle)+w.pdf.GetY() > w.pageBottom() {
			w.pdf.AddPage()
			w.tableRow(widths, header, tableHeadStyle, colorTableHead)
		}

		w.tableRow(widths, row, tableCellStyle, fill)
	}

	w.pdf.Ln(12)
}

func (w *pdfWriter) pageBottom() float64 {
	_, pageHeight := w.pdf.GetPageSize()

	return pageHeight - pdfMarginBottom
}

// rowCells pads or truncates row to the header's column count.
func rowCells(widths []float64, row []string) []string {
	cells := make([]string, len(widths))
	for i := range cells {
		if i < len(row) {
			cells[i] = toWinAnsi(strings.Join(strings.Fields(row[i]), " "))
		}
	}

	return cells
}

func (w *pdfWriter) rowHeight(widths []float64, row []string, s textStyle) float64 {
	w.setStyle(s)

	maxLines := 1
	for i, cell := range rowCells(widths, row) {
		if n := len(w.pdf.SplitLines([]byte(cell), widths[i]-2*cellPaddingX)); n > maxLines {
			maxLines = n
		}
	}

	return float64(maxLines)*s.leading + 2*cellPaddingY
}

func (w *pdfWriter) tableRow(widths []float64, row []string, s textStyle, fill rgb) {
	height := w.rowHeight(widths, row, s)
	if w.pdf.GetY()+height > w.pageBottom() {
		w.pdf.AddPage()
	}

	w.setStyle(s)
	w.pdf.SetFillColor(fill.r, fill.g, fill.b)

	x := pdfMarginLeft
	y := w.pdf.GetY()

	for i, cell := range rowCells(widths, row) {
		w.pdf.Rect(x, y, widths[i], height, "FD")
		w.pdf.SetXY(x+cellPaddingX, y+cellPaddingY)
		w.pdf.MultiCell(widths[i]-2*cellPaddingX, s.leading, cell, "", "L", false)
		x += widths[i]
	}

	w.pdf.SetXY(pdfMarginLeft, y+height)
}

// columnWeights returns the fraction of the content width given to each column.
func columnWeights(header []string) []float64 {
	n := len(header)

	names := make([]string, n)
	hasDescription := false
	for i, h := range header {
		names[i] = strings.ToLower(strings.TrimSpace(h))
		if strings.Contains(names[i], "description") {
			hasDescription = true
		}
	}

	switch {
	case n == 4 && strings.Join(names, ",") == "field,type,required,description":
		return []float64{.28, .18, .12, .42}
	case n == 4 && hasDescription:
		return []float64{.25, .18, .12, .45}
	case n > 4 && hasDescription:
		weights := make([]float64, n)
		for i, name := range names {
			if strings.Contains(name, "description") {
				weights[i] = .40
			} else {
				weights[i] = .60 / float64(n-1)
			}
		}

		return weights
	}

	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1 / float64(n)
	}

	return weights
}

// toWinAnsi transcodes UTF-8 to the Windows-1252 bytes the core fonts expect.
// Runes outside the code page become '?'.
func toWinAnsi(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
		} else {
			b.WriteByte('?')
		}
	}

	return b.String()
}
