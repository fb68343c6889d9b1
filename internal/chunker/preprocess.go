// Package chunker turns one page of final text into bounded, overlapping
// chunks that never cut a formatted table and prefer to start at section
// headers, then numbers those chunks across a document.
package chunker

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// SectionBreak is inserted before every detected section header. It never
// survives postprocessing.
const SectionBreak = "__SECTION_BREAK__"

const (
	placeholderPrefix = "__TABLE_"
	placeholderSuffix = "__"
)

var (
	// token matches every internal marker the splitter must treat as opaque.
	token = regexp.MustCompile(`__TABLE_[0-9]+__|` + regexp.QuoteMeta(SectionBreak))
	// reserved matches what Preprocess moves into the arena: whole table
	// blocks and source text that already looks like a marker.
	reserved = regexp.MustCompile(`(?s)\[TABLE_START:[^\]]*\].*?\[TABLE_END\]|__TABLE_[0-9]+__|` + regexp.QuoteMeta(SectionBreak))
)

// headerPattern is one script's way of writing a numbered section header.
type headerPattern struct {
	script  string
	keyword string
}

// headerPatterns are tried in this order inside one alternation so a line
// can never receive two markers.
var headerPatterns = []headerPattern{
	{script: "latin", keyword: `(?:Section|Chapter|Part|SECTION|CHAPTER|PART)`},
	{script: "devanagari", keyword: `(?:खंड|अध्याय|भाग)`},
}

const (
	headerLabel = `[0-9०-९]+(?:\.[0-9०-९]+)*\.?`
	headerTitle = `\S[^\n]*`
)

var headerLine = compileHeaders(headerPatterns)

func compileHeaders(patterns []headerPattern) *regexp.Regexp {
	alts := make([]string, len(patterns))
	for i, p := range patterns {
		alts[i] = p.keyword
	}
	// Group 1 is the anchor, group 2 the header line with its indentation.
	expr := `(\A|\n\n)([ \t]*(?:` + strings.Join(alts, "|") + `)[ \t]+` + headerLabel + `[ \t]+` + headerTitle + `)`
	return regexp.MustCompile(expr)
}

// Arena holds the texts cut out of one page: table blocks and any literal
// marker-shaped text the page already contained. Placeholder i stands for
// Arena[i].
type Arena []string

// Placeholder returns the in-text token for table i.
func Placeholder(i int) string {
	return placeholderPrefix + strconv.Itoa(i) + placeholderSuffix
}

// lookup resolves a placeholder token. ok is false for the break marker or an
// index the arena does not hold.
func (a Arena) lookup(tok string) (string, bool) {
	if !strings.HasPrefix(tok, placeholderPrefix) {
		return "", false
	}
	i, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(tok, placeholderPrefix), placeholderSuffix))
	if err != nil || i < 0 || i >= len(a) {
		return "", false
	}
	return a[i], true
}

// tokenWeight is the splitter's view of a token's size: a table counts as the
// text it will be restored to, a break marker as nothing.
func (a Arena) tokenWeight(tok string) int {
	if tok == SectionBreak {
		return 0
	}
	if table, ok := a.lookup(tok); ok {
		return utf8.RuneCountInString(table)
	}
	return utf8.RuneCountInString(tok)
}

// Preprocess replaces every table block with a placeholder and marks every
// section header. Text that already reads like a placeholder or break marker
// is parked in the arena too, so Postprocess restores it verbatim. All other
// characters are kept as they are.
func Preprocess(text string) (string, Arena) {
	var arena Arena
	text = reserved.ReplaceAllStringFunc(text, func(span string) string {
		arena = append(arena, span)
		return Placeholder(len(arena) - 1)
	})
	text = headerLine.ReplaceAllString(text, "${1}"+SectionBreak+"${2}")
	return text, arena
}
