package chunker

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"
)

func newTestChunker(t *testing.T) *Chunker {
	t.Helper()
	c, err := New(DefaultOptions())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestNew_InvalidOptions(t *testing.T) {
	if _, err := New(Options{ChunkSize: 100, ChunkOverlap: 100}); err == nil {
		t.Error("New() with overlap == size should fail")
	}
}

func TestChunker_ChunkPage_PreservesTables(t *testing.T) {
	chunks := newTestChunker(t).ChunkPage(context.Background(), 1, tableText)

	var table string
	for _, c := range chunks {
		if strings.Contains(c, "[TABLE_START: Test Table Context]") {
			table = c
			break
		}
	}
	if table == "" {
		t.Fatalf("ChunkPage() = %q, no chunk holds the table", chunks)
	}
	for _, want := range []string{"[TABLE_END]", "Some text before the table.", "Some text after the table."} {
		if !strings.Contains(table, want) {
			t.Errorf("table chunk missing %q", want)
		}
	}
}

func TestChunker_ChunkPage_LiteralMarkersKept(t *testing.T) {
	table := "[TABLE_START: T1]\n| Scheme | Amount |\n|---|---|\n| PM-KISAN | 6000 |\n[TABLE_END]"
	page := "See field __TABLE_0__ in the form.\n\nThe form ends with __SECTION_BREAK__ as typed.\n\n" + table

	chunks := newTestChunker(t).ChunkPage(context.Background(), 1, page)
	got := strings.Join(chunks, "\n")

	if n := strings.Count(got, "[TABLE_START: T1]"); n != 1 {
		t.Errorf("table appears %d times in %q, want 1", n, got)
	}
	for _, want := range []string{"See field __TABLE_0__ in the form.", "ends with __SECTION_BREAK__ as typed."} {
		if !strings.Contains(got, want) {
			t.Errorf("ChunkPage() = %q, missing %q", got, want)
		}
	}
}

func TestChunker_ChunkPage_Headers(t *testing.T) {
	c := newTestChunker(t)
	tests := []struct {
		text    string
		headers []string
	}{
		{sectionEnText, []string{"Section 1. Introduction", "Section 1.1. Subsection"}},
		{sectionHiText, []string{"खंड 2. परिचय", "खंड 2.1. उपखंड"}},
		{sectionTableText, []string{"Section 5. Data Section", "Section 5.1. Analysis", "[TABLE_START: Data Table]"}},
	}
	for _, tt := range tests {
		chunks := c.ChunkPage(context.Background(), 1, tt.text)
		joined := strings.Join(chunks, "\n")
		for _, h := range tt.headers {
			if !strings.Contains(joined, h) {
				t.Errorf("ChunkPage() lost %q", h)
			}
		}
	}
}

func TestChunker_ChunkPage_LongText(t *testing.T) {
	long := strings.Repeat(paraText+"\n\n"+sectionEnText+"\n\n"+tableText, 3)
	chunks := newTestChunker(t).ChunkPage(context.Background(), 1, long)

	if len(chunks) < 2 {
		t.Fatalf("ChunkPage() = %d chunks, want several", len(chunks))
	}
	for i, c := range chunks {
		if c == "" || strings.TrimSpace(c) != c {
			t.Errorf("chunk %d is not trimmed: %q", i, c)
		}
		if n := utf8.RuneCountInString(c); n > DefaultChunkSize+DefaultChunkOverlap {
			t.Errorf("chunk %d length = %d, want <= %d", i, n, DefaultChunkSize+DefaultChunkOverlap)
		}
		if strings.Contains(c, SectionBreak) || strings.Contains(c, placeholderPrefix) {
			t.Errorf("chunk %d leaks an internal marker: %q", i, c)
		}
		if strings.Count(c, "[TABLE_START:") != strings.Count(c, "[TABLE_END]") {
			t.Errorf("chunk %d cuts a table: %q", i, c)
		}
	}
}

func TestChunker_ChunkPage_SizeCountsFreshText(t *testing.T) {
	c, err := New(Options{ChunkSize: 100, ChunkOverlap: 30})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	chunks := c.ChunkPage(context.Background(), 1, strings.Repeat("benefit amount ", 60))

	if len(chunks) < 3 {
		t.Fatalf("ChunkPage() = %d chunks, want several", len(chunks))
	}
	if n := utf8.RuneCountInString(chunks[0]); n > 100 {
		t.Errorf("first chunk length = %d, want <= 100", n)
	}
	for i, chunk := range chunks {
		if n := utf8.RuneCountInString(chunk); n > 130 {
			t.Errorf("chunk %d length = %d, want <= ChunkSize+ChunkOverlap (130)", i, n)
		}
	}
}

func TestChunker_ChunkPage_Whitespace(t *testing.T) {
	c := newTestChunker(t)
	for _, in := range []string{"", "   ", "\n\n\t\n"} {
		if got := c.ChunkPage(context.Background(), 2, in); len(got) != 0 {
			t.Errorf("ChunkPage(%q) = %q, want none", in, got)
		}
	}

	pages := []PageChunks{
		{PageNumber: 1, Chunks: c.ChunkPage(context.Background(), 1, paraText)},
		{PageNumber: 2, Chunks: c.ChunkPage(context.Background(), 2, "   ")},
		{PageNumber: 3, Chunks: c.ChunkPage(context.Background(), 3, paraText)},
	}
	records := Assemble("doc_with_empty", 3, pages)
	if len(records) != 2 {
		t.Fatalf("Assemble() = %d records, want 2", len(records))
	}
	if records[1].ChunkID != "doc_with_empty_chunk_2" || records[1].Metadata.PageNumber != 3 {
		t.Errorf("Assemble() second record = %+v", records[1])
	}
}
