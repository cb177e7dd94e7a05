// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// minColumnWidth keeps the separator row valid GFM ("---").
const minColumnWidth = 3

var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", "<br>", "\n", "<br>")

// Table renders rows as a GFM table. The first row is the header; a
// separator row is synthesised to match the widest row. Columns are padded
// to their display width so the source lines up in a terminal.
func Table(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return ""
	}

	cells := make([][]string, len(rows))
	widths := make([]int, cols)
	for i := range widths {
		widths[i] = minColumnWidth
	}
	for r, row := range rows {
		cells[r] = make([]string, cols)
		for c := 0; c < cols; c++ {
			if c < len(row) {
				cells[r][c] = cellEscaper.Replace(row[c])
			}
			if w := runewidth.StringWidth(cells[r][c]); w > widths[c] {
				widths[c] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, tableLine(cells[0], widths))
	sep := make([]string, cols)
	for c, w := range widths {
		sep[c] = strings.Repeat("-", w)
	}
	lines = append(lines, tableLine(sep, widths))
	for _, row := range cells[1:] {
		lines = append(lines, tableLine(row, widths))
	}
	return strings.Join(lines, "\n")
}

func tableLine(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		padded[i] = runewidth.FillRight(cell, widths[i])
	}
	return "| " + strings.Join(padded, " | ") + " |"
}
