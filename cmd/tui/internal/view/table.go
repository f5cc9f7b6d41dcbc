package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// column describes one fixed-width table column.
type column struct {
	title string
	width int
}

var (
	tableHeaderStyle = lipgloss.NewStyle().Faint(true).Underline(true)
	selectedRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	statusStyle      = lipgloss.NewStyle().Faint(true)
)

func padCell(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width-1]) + "…"
	}

	return s + strings.Repeat(" ", width-len(runes))
}

// renderTable draws a fixed-width table with one highlighted row. selected
// is the row index, -1 for none.
func renderTable(cols []column, rows [][]string, selected int) string {
	var b strings.Builder

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = padCell(c.title, c.width)
	}

	b.WriteString(tableHeaderStyle.Render(strings.Join(headers, "  ")))
	b.WriteString("\n")

	for i, row := range rows {
		cells := make([]string, len(cols))
		for j := range cols {
			value := ""
			if j < len(row) {
				value = row[j]
			}

			cells[j] = padCell(value, cols[j].width)
		}

		line := strings.Join(cells, "  ")
		if i == selected {
			line = selectedRowStyle.Render(line)
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}
