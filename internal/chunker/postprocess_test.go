package chunker

import (
	"strings"
	"testing"
)

func TestPostprocess_RestoresTablesAndRemovesMarkers(t *testing.T) {
	_, arena := Preprocess(sectionTableText)
	raw := []RawChunk{
		{Text: "__SECTION_BREAK__Section 5. Data Section\nHere is some introductory text for the data section."},
		{Text: Placeholder(0) + "\n\nThis text comes after the table but is still part of Section 5."},
		{Text: "__SECTION_BREAK__Section 5.1. Analysis\nAnalysis of the data presented above."},
	}

	clean := Postprocess(raw, arena)
	if len(clean) != 3 {
		t.Fatalf("Postprocess() = %d chunks, want 3", len(clean))
	}
	if !strings.Contains(clean[1], "[TABLE_START: Data Table]") || !strings.Contains(clean[1], "[TABLE_END]") {
		t.Errorf("Postprocess() chunk 1 = %q, want restored table", clean[1])
	}
	if strings.Contains(clean[1], Placeholder(0)) {
		t.Errorf("Postprocess() left placeholder in %q", clean[1])
	}
	if !strings.HasPrefix(clean[0], "Section 5. Data Section") {
		t.Errorf("Postprocess() chunk 0 = %q", clean[0])
	}
	if !strings.HasPrefix(clean[2], "Section 5.1. Analysis") {
		t.Errorf("Postprocess() chunk 2 = %q", clean[2])
	}
}

func TestPostprocess_DropsEmpty(t *testing.T) {
	raw := []RawChunk{
		{Text: "  \n "},
		{Text: SectionBreak},
		{Text: "\n\n" + SectionBreak + "  kept  "},
	}
	clean := Postprocess(raw, nil)
	if len(clean) != 1 || clean[0] != "kept" {
		t.Errorf("Postprocess() = %q, want [kept]", clean)
	}
}

func TestPostprocess_Idempotence(t *testing.T) {
	s := newTestSplitter(t, 1000, 200)
	for _, in := range []string{paraText, "  single line with padding  ", "योजना का विवरण।\n\nदूसरा अनुच्छेद।"} {
		pre, arena := Preprocess(in)
		clean := Postprocess(s.Split(pre, arena), arena)
		if len(clean) != 1 || clean[0] != strings.TrimSpace(in) {
			t.Errorf("round trip of %q = %q", in, clean)
		}
	}
}
