package output

import (
	"io"
	"strings"
	"unicode/utf8"
)

// Table renders aligned columns for text output.
// Widths count runes, and the last column is never padded.
type Table struct {
	headers   []string
	rows      [][]string
	noHeader  bool
	separator string
	indent    string
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers, separator: "  "}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// SetNoHeader suppresses the header row.
func (t *Table) SetNoHeader(noHeader bool) {
	t.noHeader = noHeader
}

// SetSeparator sets the column separator.
func (t *Table) SetSeparator(sep string) {
	t.separator = sep
}

// SetIndent sets a prefix written before every line.
func (t *Table) SetIndent(prefix string) {
	t.indent = prefix
}

// Render writes the table to w.
func (t *Table) Render(w io.Writer) error {
	_, err := io.WriteString(w, t.String())
	return err
}

// String returns the rendered table.
func (t *Table) String() string {
	showHeader := !t.noHeader && len(t.headers) > 0
	if !showHeader && len(t.rows) == 0 {
		return ""
	}

	widths := t.widths(showHeader)

	var sb strings.Builder
	if showHeader {
		t.writeRow(&sb, t.headers, widths)
		rule := make([]string, len(widths))
		for i, n := range widths {
			rule[i] = strings.Repeat("-", n)
		}
		t.writeRow(&sb, rule, widths)
	}
	for _, row := range t.rows {
		t.writeRow(&sb, row, widths)
	}
	return sb.String()
}

func (t *Table) widths(withHeader bool) []int {
	cols := 0
	if withHeader {
		cols = len(t.headers)
	}
	for _, row := range t.rows {
		cols = max(cols, len(row))
	}

	widths := make([]int, cols)
	grow := func(cells []string) {
		for i, c := range cells {
			widths[i] = max(widths[i], utf8.RuneCountInString(c))
		}
	}
	if withHeader {
		grow(t.headers)
	}
	for _, row := range t.rows {
		grow(row)
	}
	return widths
}

func (t *Table) writeRow(sb *strings.Builder, cells []string, widths []int) {
	sb.WriteString(t.indent)
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if i > 0 {
			sb.WriteString(t.separator)
		}
		sb.WriteString(cell)
		if i < len(widths)-1 {
			sb.WriteString(strings.Repeat(" ", width-utf8.RuneCountInString(cell)))
		}
	}
	sb.WriteByte('\n')
}
