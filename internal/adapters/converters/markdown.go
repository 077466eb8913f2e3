package converters

import "strings"

// Block is one element of a classified Markdown document.
type Block interface {
	block()
}

// HeadingBlock is a level 1 to 3 heading.
type HeadingBlock struct {
	Level int
	Text  string
}

// CodeBlock is the content of a fenced code block.
type CodeBlock struct {
	Language string
	Lines    []string
}

// TableBlock is a pipe table without its separator rows. The first row is the header.
type TableBlock struct {
	Rows [][]string
}

// BulletBlock groups consecutive "- " items.
type BulletBlock struct {
	Items []string
}

// ParagraphBlock is any other non-blank line.
type ParagraphBlock struct {
	Text string
}

func (HeadingBlock) block()   {}
func (CodeBlock) block()      {}
func (TableBlock) block()     {}
func (BulletBlock) block()    {}
func (ParagraphBlock) block() {}

const fence = "```"

var headingPrefixes = []struct {
	prefix string
	level  int
}{
	{"# ", 1},
	{"## ", 2},
	{"### ", 3},
}

// ParseMarkdown classifies the line-oriented Markdown produced by the renderers.
// Blank lines are skipped; an unterminated fence runs to the end of the input.
func ParseMarkdown(markdown string) []Block {
	lines := strings.Split(markdown, "\n")

	var blocks []Block
	for i := 0; i < len(lines); {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			i++

		case strings.HasPrefix(trimmed, fence):
			code := CodeBlock{Language: strings.TrimSpace(strings.TrimPrefix(trimmed, fence))}
			i++
			for i < len(lines) && !strings.HasPrefix(strings.TrimSpace(lines[i]), fence) {
				code.Lines = append(code.Lines, lines[i])
				i++
			}
			i++
			blocks = append(blocks, code)

		case strings.HasPrefix(trimmed, "|"):
			var table TableBlock
			for i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "|") {
				if row := splitRow(lines[i]); !isSeparatorRow(row) {
					table.Rows = append(table.Rows, row)
				}
				i++
			}
			if len(table.Rows) > 0 {
				blocks = append(blocks, table)
			}

		default:
			if heading, ok := parseHeading(line); ok {
				blocks = append(blocks, heading)
				i++
				continue
			}

			if strings.HasPrefix(trimmed, "- ") {
				var bullets BulletBlock
				for i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "- ") {
					bullets.Items = append(bullets.Items, strings.TrimSpace(lines[i])[2:])
					i++
				}
				blocks = append(blocks, bullets)
				continue
			}

			blocks = append(blocks, ParagraphBlock{Text: trimmed})
			i++
		}
	}

	return blocks
}

// parseHeading only accepts markers at the very start of the line.
func parseHeading(line string) (HeadingBlock, bool) {
	for _, h := range headingPrefixes {
		if strings.HasPrefix(line, h.prefix) {
			return HeadingBlock{Level: h.level, Text: strings.TrimSpace(line[len(h.prefix):])}, true
		}
	}

	return HeadingBlock{}, false
}

func splitRow(line string) []string {
	cells := strings.Split(strings.Trim(strings.TrimSpace(line), "|"), "|")
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}

	return cells
}

// isSeparatorRow reports whether every cell is a non-empty run of '-', ':' and spaces.
func isSeparatorRow(cells []string) bool {
	for _, c := range cells {
		if c == "" || strings.Trim(c, "-: ") != "" {
			return false
		}
	}

	return true
}
