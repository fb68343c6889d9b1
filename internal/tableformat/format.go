// Package tableformat serializes irregular table grids into the stable
// pipe-delimited block that downstream chunking and answer generation rely on.
package tableformat

import (
	"strings"
)

const (
	// EndMarker closes every formatted table block.
	EndMarker = "[TABLE_END]"

	startPrefix = "[TABLE_START: "
	startSuffix = "]"
)

// Grid is a parsed table: rows of optional cells. Rows may differ in length
// and a nil row or nil cell means the parser had nothing there.
type Grid [][]*string

// Strings builds a Grid from plain string rows. Every cell is present.
func Strings(rows ...[]string) Grid {
	grid := make(Grid, len(rows))
	for i, row := range rows {
		if row == nil {
			continue
		}
		cells := make([]*string, len(row))
		for j := range row {
			cell := row[j]
			cells[j] = &cell
		}
		grid[i] = cells
	}
	return grid
}

// StartMarker returns the opening line of a table block for label.
func StartMarker(label string) string {
	return startPrefix + label + startSuffix
}

// Clean normalizes a grid: nil rows are dropped, absent cells become "",
// internal whitespace collapses to single spaces and rows left fully empty
// are dropped.
func Clean(grid Grid) [][]string {
	rows := make([][]string, 0, len(grid))
	for _, row := range grid {
		if row == nil {
			continue
		}
		cleaned := make([]string, len(row))
		empty := true
		for i, cell := range row {
			if cell == nil {
				continue
			}
			cleaned[i] = strings.Join(strings.Fields(*cell), " ")
			if cleaned[i] != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		rows = append(rows, cleaned)
	}
	return rows
}

// RowCount returns the number of usable rows in grid, header included.
func RowCount(grid Grid) int {
	return len(Clean(grid))
}

// Format renders grid as a table block labelled with label. It returns ""
// when the grid has no usable columns.
func Format(grid Grid, label string) string {
	rows := Clean(grid)
	if len(rows) == 0 {
		return ""
	}

	cols := len(rows[0])
	if cols == 0 {
		for _, row := range rows {
			cols = max(cols, len(row))
		}
	}
	if cols == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(StartMarker(label))
	b.WriteByte('\n')
	writeRow(&b, rows[0], cols)
	b.WriteString("|" + strings.Repeat("---|", cols))
	b.WriteByte('\n')
	for _, row := range rows[1:] {
		writeRow(&b, row, cols)
	}
	b.WriteString(EndMarker)
	return b.String()
}

// writeRow pads or truncates row to cols cells and writes it pipe-delimited.
func writeRow(b *strings.Builder, row []string, cols int) {
	b.WriteByte('|')
	for i := 0; i < cols; i++ {
		cell := ""
		if i < len(row) {
			cell = escapeCell(row[i])
		}
		b.WriteByte(' ')
		b.WriteString(cell)
		b.WriteString(" |")
	}
	b.WriteByte('\n')
}

// escapeCell protects literal pipes so a row always splits back into its
// cells. Newlines never reach here: Clean collapses them.
func escapeCell(cell string) string {
	return strings.ReplaceAll(cell, "|", `\|`)
}

// SplitRow splits one formatted row line back into its cells, honouring
// escaped pipes.
func SplitRow(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")

	var cells []string
	var cur strings.Builder
	for i := 0; i < len(line); i++ {
		if line[i] == '\\' && i+1 < len(line) && line[i+1] == '|' {
			cur.WriteByte('|')
			i++
			continue
		}
		if line[i] == '|' {
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteByte(line[i])
	}
	cells = append(cells, strings.TrimSpace(cur.String()))
	return cells
}
