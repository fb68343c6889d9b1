package extract

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes extracted text: NFC composition (Devanagari
// matras and nuktas arrive decomposed from some parsers), runs of blanks
// collapsed, lines trimmed and at most one blank line between paragraphs.
func Normalize(text string) string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	var b strings.Builder
	blank := 0
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blank++
			continue
		}
		if b.Len() > 0 {
			if blank > 0 {
				b.WriteString("\n\n")
			} else {
				b.WriteByte('\n')
			}
		}
		blank = 0
		b.WriteString(line)
	}
	return b.String()
}
