package chunker

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Separator is one split point the splitter may use. Text "" means split
// between any two characters.
type Separator struct {
	Text string
	// KeepStart attaches the separator to the piece that follows it instead
	// of the piece before it.
	KeepStart bool
}

// DefaultSeparators lists split points from most to least preferred.
var DefaultSeparators = []Separator{
	{Text: SectionBreak, KeepStart: true},
	{Text: "\n\n"},
	{Text: "\n"},
	{Text: "। "},
	{Text: "॥ "},
	{Text: ". "},
	{Text: "? "},
	{Text: "! "},
	{Text: "।"},
	{Text: " "},
	{Text: ""},
}

var (
	ErrInvalidBudget  = errors.New("chunk size must be positive")
	ErrInvalidOverlap = errors.New("chunk overlap must be non-negative and smaller than chunk size")
)

// RawChunk is a window of preprocessed text. The first Overlap runes of Text
// repeat the end of the previous chunk.
type RawChunk struct {
	Text    string
	Overlap int
}

// Fresh returns the part of the chunk not shared with its predecessor.
func (c RawChunk) Fresh() string {
	return string([]rune(c.Text)[c.Overlap:])
}

// Splitter cuts preprocessed text into windows whose fresh content stays
// within Budget. Tokens are never cut, so a table larger than Budget ends up
// alone in an oversized chunk.
type Splitter struct {
	Budget     int
	Overlap    int
	Separators []Separator
}

// NewSplitter validates the sizes and fills in DefaultSeparators.
func NewSplitter(budget, overlap int, separators []Separator) (*Splitter, error) {
	if budget <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBudget, budget)
	}
	if overlap < 0 || overlap >= budget {
		return nil, fmt.Errorf("%w: overlap %d, size %d", ErrInvalidOverlap, overlap, budget)
	}
	if len(separators) == 0 {
		separators = DefaultSeparators
	}
	return &Splitter{Budget: budget, Overlap: overlap, Separators: separators}, nil
}

// Split returns the chunks covering text. tables resolves placeholder weights.
func (s *Splitter) Split(text string, tables Arena) []RawChunk {
	if text == "" {
		return nil
	}
	pieces := s.pieces(text, 0, tables, nil)
	return s.merge(pieces, tables)
}

// pieces breaks text down, one separator level at a time, until every piece
// fits the budget or cannot be cut any further.
func (s *Splitter) pieces(text string, level int, tables Arena, out []string) []string {
	if text == "" {
		return out
	}
	if weight(text, tables) <= s.Budget || level >= len(s.Separators) {
		return append(out, text)
	}
	parts := cut(text, s.Separators[level])
	if len(parts) <= 1 {
		return s.pieces(text, level+1, tables, out)
	}
	for _, part := range parts {
		out = s.pieces(part, level+1, tables, out)
	}
	return out
}

// merge packs pieces greedily into chunks and prefixes every chunk after the
// first with the tail of its predecessor.
func (s *Splitter) merge(pieces []string, tables Arena) []RawChunk {
	var (
		chunks  []RawChunk
		prefix  string
		fresh   strings.Builder
		freshW  int
		overlap int
	)
	emit := func() {
		text := prefix + fresh.String()
		chunks = append(chunks, RawChunk{Text: text, Overlap: overlap})
		prefix = s.tail(text)
		overlap = utf8.RuneCountInString(prefix)
		fresh.Reset()
		freshW = 0
	}
	for _, p := range pieces {
		w := weight(p, tables)
		if fresh.Len() > 0 && freshW+w > s.Budget {
			emit()
		}
		fresh.WriteString(p)
		freshW += w
	}
	if fresh.Len() > 0 {
		emit()
	}
	return chunks
}

// tail returns the overlap carried into the next chunk: the last Overlap
// runes of text, moved forward so it holds no token and starts on a word.
func (s *Splitter) tail(text string) string {
	if s.Overlap == 0 {
		return ""
	}
	start := 0
	if n := utf8.RuneCountInString(text); n > s.Overlap {
		for i := range text {
			if n == s.Overlap {
				start = i
				break
			}
			n--
		}
	}
	for _, span := range token.FindAllStringIndex(text, -1) {
		if span[1] > start {
			start = span[1]
		}
	}
	return trimToWord(text, start, text[start:])
}

// trimToWord drops a partial word at the front of window, which begins at
// byte offset start of text.
func trimToWord(text string, start int, window string) string {
	if start == 0 || window == "" {
		return window
	}
	prev, _ := utf8.DecodeLastRuneInString(text[:start])
	if unicode.IsSpace(prev) {
		return window
	}
	i := strings.IndexFunc(window, unicode.IsSpace)
	if i < 0 {
		return window
	}
	_, size := utf8.DecodeRuneInString(window[i:])
	return window[i+size:]
}

// weight measures text the way the budget sees it.
func weight(text string, tables Arena) int {
	w := utf8.RuneCountInString(text)
	for _, tok := range token.FindAllString(text, -1) {
		w += tables.tokenWeight(tok) - utf8.RuneCountInString(tok)
	}
	return w
}

// cut splits text on sep. Occurrences overlapping a token are ignored, and
// empty parts are dropped.
func cut(text string, sep Separator) []string {
	spans := token.FindAllStringIndex(text, -1)
	// overlaps reports whether [lo, hi) shares a byte with any token.
	overlaps := func(lo, hi int) bool {
		for _, span := range spans {
			if lo < span[1] && hi > span[0] {
				return true
			}
		}
		return false
	}

	var cuts []int
	if sep.Text == "" {
		for i := range text {
			if i > 0 && !splitsToken(spans, i) {
				cuts = append(cuts, i)
			}
		}
	} else {
		for from := 0; from < len(text); {
			i := strings.Index(text[from:], sep.Text)
			if i < 0 {
				break
			}
			lo := from + i
			hi := lo + len(sep.Text)
			from = hi
			// A separator that is itself a token is cut around, never through.
			if sep.Text != SectionBreak && overlaps(lo, hi) {
				continue
			}
			if sep.KeepStart {
				cuts = append(cuts, lo)
			} else {
				cuts = append(cuts, hi)
			}
		}
	}

	parts := make([]string, 0, len(cuts)+1)
	prev := 0
	for _, c := range cuts {
		if c > prev {
			parts = append(parts, text[prev:c])
		}
		prev = c
	}
	if prev < len(text) {
		parts = append(parts, text[prev:])
	}
	return parts
}

// splitsToken reports whether byte offset i falls strictly inside a token.
func splitsToken(spans [][]int, i int) bool {
	for _, span := range spans {
		if span[0] < i && i < span[1] {
			return true
		}
	}
	return false
}
