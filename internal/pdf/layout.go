package pdf

import (
	"math"
	"sort"
	"strings"

	"yojna-khojna/internal/tableformat"

	pdflib "github.com/ledongthuc/pdf"
)

// Layout holds the geometry thresholds used to find tables among the
// positioned glyphs of a page. Gaps are multiples of the font size.
type Layout struct {
	RowTolerance float64 // points two glyphs may differ in Y and share a row
	WordGap      float64 // gap that separates two words inside a cell
	CellGap      float64 // gap that separates two cells
	MinRows      int     // consecutive multi-cell rows needed to call it a table
	MinCells     int     // cells a row needs to take part in a table
}

// DefaultLayout returns thresholds that suit typical government forms.
func DefaultLayout() Layout {
	return Layout{
		RowTolerance: 2.0,
		WordGap:      0.2,
		CellGap:      1.5,
		MinRows:      2,
		MinCells:     2,
	}
}

const fallbackFontSize = 10.0

type row struct {
	y     float64
	texts []pdflib.Text
}

// Tables groups glyphs into rows, rows into cells, and returns every run of
// consecutive multi-cell rows as a grid, top of the page first.
func (l Layout) Tables(texts []pdflib.Text) []tableformat.Grid {
	var (
		grids []tableformat.Grid
		run   [][]string
	)
	flush := func() {
		if len(run) >= l.MinRows {
			grids = append(grids, tableformat.Strings(run...))
		}
		run = nil
	}
	for _, r := range l.rows(texts) {
		cells := l.cells(r.texts)
		if len(cells) < l.MinCells {
			flush()
			continue
		}
		run = append(run, cells)
	}
	flush()
	return grids
}

// rows buckets glyphs by baseline, ordered top to bottom.
func (l Layout) rows(texts []pdflib.Text) []row {
	var rows []row
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		placed := false
		for i := range rows {
			if math.Abs(rows[i].y-t.Y) <= l.RowTolerance {
				rows[i].texts = append(rows[i].texts, t)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, row{y: t.Y, texts: []pdflib.Text{t}})
		}
	}
	// PDF Y grows upwards.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })
	return rows
}

// cells joins one row's glyphs left to right, starting a new cell at every
// gap wider than CellGap.
func (l Layout) cells(texts []pdflib.Text) []string {
	sorted := make([]pdflib.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var (
		cells []string
		cur   strings.Builder
		end   float64
	)
	for i, t := range sorted {
		size := t.FontSize
		if size <= 0 {
			size = fallbackFontSize
		}
		if i > 0 {
			switch gap := t.X - end; {
			case gap > l.CellGap*size:
				cells = append(cells, strings.TrimSpace(cur.String()))
				cur.Reset()
			case gap > l.WordGap*size:
				cur.WriteByte(' ')
			}
		}
		cur.WriteString(t.S)
		end = math.Max(end, t.X+t.W)
	}
	if cur.Len() > 0 {
		cells = append(cells, strings.TrimSpace(cur.String()))
	}
	return cells
}
