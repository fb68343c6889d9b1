package indexer

import (
	"errors"
	"testing"
)

func TestDocumentID(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		hash     string
		want     string
	}{
		{name: "plain", filename: "pm_kisan.pdf", want: "pm_kisan"},
		{name: "spaces and dots", filename: "PM Kisan v2.1.pdf", want: "PM_Kisan_v2_1_" + nameTag("PM Kisan v2.1")},
		{name: "directory stripped", filename: "/data/schemes/ayushman-bharat.pdf", want: "ayushman-bharat"},
		{name: "devanagari kept", filename: "योजना.pdf", want: "योजना"},
		{name: "mixed script", filename: "योजना_2024.md", want: "योजना_2024"},
		{name: "only punctuation", filename: "!!!.pdf", want: "doc_" + nameTag("!!!")},
		{name: "only underscores", filename: "___.pdf", want: "___"},
		{name: "empty stem", filename: ".pdf", hash: "0123456789abcdef", want: "doc_0123456789ab"},
		{name: "short hash", filename: ".md", hash: "abc", want: "doc_abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DocumentID(tt.filename, tt.hash); got != tt.want {
				t.Errorf("DocumentID(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestDocumentID_DistinctNames(t *testing.T) {
	names := []string{
		"PMAY योजना.pdf",
		"PMAY आवास.pdf",
		"PMAY.pdf",
		"PMAY_.pdf",
		"PMAY .pdf",
		"PMAY-.pdf",
		"किसान सम्मान निधि.pdf",
		"किसान_सम्मान_निधि.pdf",
		"किसान-सम्मान-निधि.pdf",
		"a b.pdf",
		"a_b.pdf",
		"a.b.pdf",
	}

	seen := make(map[string]string)
	for _, name := range names {
		id := DocumentID(name, "0123456789abcdef")
		if other, ok := seen[id]; ok {
			t.Errorf("DocumentID(%q) = DocumentID(%q) = %q", name, other, id)
		}
		seen[id] = name
	}
}

func TestDocumentID_NormalizesComposition(t *testing.T) {
	// "क़" precomposed and as क + nukta.
	if a, b := DocumentID("\u0958.pdf", ""), DocumentID("\u0915\u093C.pdf", ""); a != b {
		t.Errorf("DocumentID() = %q and %q, want equal ids for canonically equal names", a, b)
	}
}

func TestPointID(t *testing.T) {
	a := PointID("pm_kisan_chunk_1")
	if a != PointID("pm_kisan_chunk_1") {
		t.Error("PointID() is not deterministic")
	}
	if a == PointID("pm_kisan_chunk_2") {
		t.Error("PointID() collides for different chunk ids")
	}
	if len(a) != 36 {
		t.Errorf("PointID() = %q, want a UUID string", a)
	}
}

func TestSupported(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"scheme.pdf", true},
		{"SCHEME.PDF", true},
		{"notes.md", true},
		{"notes.markdown", true},
		{"scheme.docx", false},
		{"scheme", false},
	}
	for _, tt := range tests {
		if got := Supported(tt.filename); got != tt.want {
			t.Errorf("Supported(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestOpenSource(t *testing.T) {
	src, err := OpenSource("scheme.md", []byte("# Scheme\n\nbody\f# Page two"))
	if err != nil {
		t.Fatalf("OpenSource() error = %v", err)
	}
	if src.PageCount() != 2 {
		t.Errorf("PageCount() = %d, want 2", src.PageCount())
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	if _, err := OpenSource("scheme.docx", nil); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("OpenSource(docx) error = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := OpenSource("broken.pdf", []byte("not a pdf")); err == nil {
		t.Error("OpenSource(broken pdf) expected error")
	}
}
