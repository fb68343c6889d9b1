package chunker

import "strings"

// Postprocess restores table text into each chunk, strips break markers and
// drops chunks left with nothing but whitespace.
func Postprocess(chunks []RawChunk, tables Arena) []string {
	clean := make([]string, 0, len(chunks))
	for _, c := range chunks {
		text := token.ReplaceAllStringFunc(c.Text, func(tok string) string {
			if tok == SectionBreak {
				return ""
			}
			if table, ok := tables.lookup(tok); ok {
				return table
			}
			return tok
		})
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		clean = append(clean, text)
	}
	return clean
}
