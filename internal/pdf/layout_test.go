package pdf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"yojna-khojna/internal/extract"
	"yojna-khojna/internal/tableformat"

	pdflib "github.com/ledongthuc/pdf"
)

// word places s at (x, y) with a width of 5pt per byte.
func word(s string, x, y float64) pdflib.Text {
	return pdflib.Text{S: s, X: x, Y: y, W: 5 * float64(len(s)), FontSize: 10}
}

func TestLayout_Tables(t *testing.T) {
	texts := []pdflib.Text{
		// A paragraph line: words close together.
		word("Eligibility", 50, 700), word("criteria", 108, 700),
		// Header row, two columns 100pt apart.
		word("Scheme", 50, 650), word("Amount", 200, 650),
		// Data rows, fed out of order.
		word("1500", 200, 630), word("Widow", 50, 630), word("pension", 82, 630),
		word("Old", 50, 610.5), word("age", 68, 611), word("1000", 200, 610),
		// Trailing paragraph.
		word("Apply", 50, 560),
	}

	grids := DefaultLayout().Tables(texts)
	if len(grids) != 1 {
		t.Fatalf("Tables() = %d grids, want 1", len(grids))
	}
	got := tableformat.Format(grids[0], "t")
	want := "[TABLE_START: t]\n| Scheme | Amount |\n|---|---|\n| Widow pension | 1500 |\n| Old age | 1000 |\n[TABLE_END]"
	if got != want {
		t.Errorf("Tables() formatted =\n%s\nwant\n%s", got, want)
	}
}

func TestLayout_Tables_SingleRowIsNotATable(t *testing.T) {
	texts := []pdflib.Text{
		word("Name", 50, 700), word("Value", 200, 700),
		word("plain", 50, 680), word("text", 80, 680),
	}
	if grids := DefaultLayout().Tables(texts); len(grids) != 0 {
		t.Errorf("Tables() = %d grids, want 0", len(grids))
	}
}

func TestLayout_Cells(t *testing.T) {
	l := DefaultLayout()
	tests := []struct {
		name  string
		texts []pdflib.Text
		want  []string
	}{
		{"glyphs merge into a word", []pdflib.Text{word("a", 10, 0), word("b", 15, 0)}, []string{"ab"}},
		{"small gap is a space", []pdflib.Text{word("a", 10, 0), word("b", 18, 0)}, []string{"a b"}},
		{"wide gap is a new cell", []pdflib.Text{word("a", 10, 0), word("b", 40, 0)}, []string{"a", "b"}},
		{"blank glyph ignored in rows", []pdflib.Text{word("x", 0, 0)}, []string{"x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.cells(tt.texts)
			if len(got) != len(tt.want) {
				t.Fatalf("cells() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("cells()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestOpen_Errors(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.pdf")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open(missing) error = %v, want os.ErrNotExist", err)
	}
	if _, err := OpenBytes([]byte("not a pdf at all")); err == nil {
		t.Error("OpenBytes(garbage) error = nil, want error")
	}
}

func TestDocument_RenderWithoutRaster(t *testing.T) {
	d := &Document{pages: 1}
	if _, err := d.RenderPage(context.Background(), 1, 300); !errors.Is(err, extract.ErrNotRenderable) {
		t.Errorf("RenderPage() error = %v, want ErrNotRenderable", err)
	}
	if _, err := d.ParsePage(context.Background(), 2); !errors.Is(err, ErrPageRange) {
		t.Errorf("ParsePage(2) error = %v, want ErrPageRange", err)
	}
}
