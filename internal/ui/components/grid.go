package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// GridColumn is one column of a Grid. Width excludes separators; the last
// column absorbs any slack so the grid spans the full width.
type GridColumn struct {
	Header string
	Width  int
	Align  lipgloss.Position
}

const gridLeftOffset = 2

var (
	gridLineStyle      = lipgloss.NewStyle().Foreground(colorBorder)
	gridActiveRowStyle = lipgloss.NewStyle().Foreground(colorText).Background(colorRowBg).Bold(true)
	gridActiveSepStyle = lipgloss.NewStyle().Foreground(colorBorder).Background(colorRowBg)
)

// Grid renders a header, a rule and rows using the box border glyphs.
// active is the highlighted row index, or -1.
func Grid(columns []GridColumn, rows [][]string, width, active int) string {
	if width <= 0 || len(columns) == 0 {
		return ""
	}
	border := lipgloss.RoundedBorder()
	cols := fitColumns(columns, width)

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Header
	}

	out := make([]string, 0, len(rows)+2)
	out = append(out, gridRow(cols, headers, border.Left, width, true, false))
	out = append(out, gridRule(cols, border.Middle, border.Top, width))
	for i, row := range rows {
		out = append(out, gridRow(cols, row, border.Left, width, false, i == active))
	}
	return strings.Join(out, "\n")
}

func fitColumns(columns []GridColumn, width int) []GridColumn {
	cols := make([]GridColumn, len(columns))
	copy(cols, columns)

	used := len(cols) - 1
	for i := range cols {
		if cols[i].Width < 1 {
			cols[i].Width = 1
		}
		used += cols[i].Width
	}
	last := &cols[len(cols)-1]
	last.Width += width - gridLeftOffset - used
	if last.Width < 1 {
		last.Width = 1
	}
	return cols
}

func gridRow(cols []GridColumn, cells []string, sep string, width int, header, active bool) string {
	sepStyle := gridLineStyle
	if active {
		sepStyle = gridActiveSepStyle
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", gridLeftOffset))
	for i, col := range cols {
		if i > 0 {
			b.WriteString(sepStyle.Inline(true).Render(sep))
		}
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		cell := gridCell(text, col.Width, col.Align)
		switch {
		case header:
			cell = boxLabelStyle.Inline(true).Render(cell)
		case active:
			cell = gridActiveRowStyle.Inline(true).Render(cell)
		}
		b.WriteString(cell)
	}
	return padRight(b.String(), width)
}

func gridRule(cols []GridColumn, cross, horiz string, width int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", gridLeftOffset))
	for i, col := range cols {
		if i > 0 {
			b.WriteString(cross)
		}
		b.WriteString(strings.Repeat(horiz, col.Width))
	}
	return gridLineStyle.Inline(true).Render(padRight(b.String(), width))
}

func gridCell(text string, width int, align lipgloss.Position) string {
	clamped := ClampTextWidth(text, width)
	pad := width - lipgloss.Width(clamped)
	if pad <= 0 {
		return clamped
	}
	switch align {
	case lipgloss.Right:
		return strings.Repeat(" ", pad) + clamped
	case lipgloss.Center:
		left := pad / 2
		return strings.Repeat(" ", left) + clamped + strings.Repeat(" ", pad-left)
	default:
		return clamped + strings.Repeat(" ", pad)
	}
}
