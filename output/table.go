package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Align is the horizontal alignment of a table column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

type rowKind int

const (
	rowPlain rowKind = iota
	rowTotal
	rowSeparator
	rowHeading
)

type row struct {
	kind  rowKind
	cells []string
}

// Table lays out rows in columns sized by display width, so account names
// in wide scripts line up with ASCII ones.
type Table struct {
	headers []string
	align   []Align
	rows    []row
}

// NewTable creates a table with the given column headers. Headers may be
// empty strings; a table without any header text prints no header line.
func NewTable(headers ...string) *Table {
	return &Table{
		headers: headers,
		align:   make([]Align, len(headers)),
	}
}

// AlignRight right-aligns the given columns.
func (t *Table) AlignRight(cols ...int) *Table {
	for _, c := range cols {
		if c >= 0 && c < len(t.align) {
			t.align[c] = AlignRight
		}
	}
	return t
}

// AddRow appends a row. Missing cells are left blank.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, row{kind: rowPlain, cells: cells})
}

// AddTotal appends a row rendered in bold.
func (t *Table) AddTotal(cells ...string) {
	t.rows = append(t.rows, row{kind: rowTotal, cells: cells})
}

// AddHeading appends a section heading spanning the table.
func (t *Table) AddHeading(title string) {
	t.rows = append(t.rows, row{kind: rowHeading, cells: []string{title}})
}

// AddSeparator appends a horizontal rule.
func (t *Table) AddSeparator() {
	t.rows = append(t.rows, row{kind: rowSeparator})
}

// Len returns the number of rows, separators and headings included.
func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) widths() []int {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, r := range t.rows {
		if r.kind == rowSeparator || r.kind == rowHeading {
			continue
		}
		for i, cell := range r.cells {
			if i >= len(widths) {
				break
			}
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func (t *Table) hasHeader() bool {
	for _, h := range t.headers {
		if h != "" {
			return true
		}
	}
	return false
}

// Render writes the table to w. Styles may be nil for plain output.
func (t *Table) Render(w io.Writer, styles *Styles) error {
	widths := t.widths()
	total := 0
	for _, width := range widths {
		total += width
	}
	total += 2 * (len(widths) - 1)

	var b strings.Builder
	rule := strings.Repeat("─", max(total, 0))

	if t.hasHeader() {
		line := t.format(t.headers, widths)
		if styles != nil {
			line = styles.Header(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
		b.WriteString(dim(styles, rule))
		b.WriteByte('\n')
	}

	for _, r := range t.rows {
		switch r.kind {
		case rowSeparator:
			b.WriteString(dim(styles, rule))
		case rowHeading:
			if styles != nil {
				b.WriteString(styles.Heading(r.cells[0]))
			} else {
				b.WriteString(r.cells[0])
			}
		case rowTotal:
			line := t.format(r.cells, widths)
			if styles != nil {
				line = styles.Total(line)
			}
			b.WriteString(line)
		default:
			b.WriteString(t.format(r.cells, widths))
		}
		b.WriteByte('\n')
	}

	_, err := fmt.Fprint(w, b.String())
	return err
}

func (t *Table) format(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if t.align[i] == AlignRight {
			parts[i] = runewidth.FillLeft(cell, width)
		} else {
			parts[i] = runewidth.FillRight(cell, width)
		}
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

func dim(styles *Styles, s string) string {
	if styles == nil {
		return s
	}
	return styles.Rule(s)
}
