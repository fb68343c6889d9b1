package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"yojna-khojna/internal/extract"
	"yojna-khojna/internal/markdown"
	"yojna-khojna/internal/pdf"
)

// ErrUnsupportedFormat is returned for files that are neither PDF nor markdown.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Source is an opened document.
type Source interface {
	extract.PageSource
	Close() error
}

type markdownSource struct {
	*markdown.Document
}

func (markdownSource) Close() error { return nil }

// Supported reports whether filename has an extension OpenSource understands.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf", ".md", ".markdown":
		return true
	}
	return false
}

// OpenSource opens content as a page source chosen by the file extension.
func OpenSource(filename string, content []byte) (Source, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		doc, err := pdf.OpenBytes(content)
		if err != nil {
			return nil, fmt.Errorf("failed to open pdf %s: %w", filename, err)
		}
		return doc, nil
	case ".md", ".markdown":
		return markdownSource{markdown.Parse(content, filename)}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
}

// titled is implemented by sources that know their own title.
type titled interface {
	Title() string
}

// DocumentID derives a stable identifier from the file name. A stem made only
// of letters, digits, combining marks, '_' and '-' (in any script) is used
// as it is. Any other stem has the remaining characters replaced by '_' and
// gets a short hash of the original stem appended, so two different names
// never share an id. Empty stems fall back to a prefix of the content hash.
func DocumentID(filename, hash string) string {
	stem := norm.NFC.String(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if stem == "" {
		if len(hash) > 12 {
			hash = hash[:12]
		}
		return "doc_" + hash
	}

	var b strings.Builder
	changed := false
	for _, r := range stem {
		if idRune(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
		changed = true
	}
	if !changed {
		return stem
	}

	id := strings.Trim(b.String(), "_")
	if id == "" {
		id = "doc"
	}
	return id + "_" + nameTag(stem)
}

func idRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_' || r == '-'
}

// nameTag is the first 8 hex digits of the SHA-256 of a file stem.
func nameTag(stem string) string {
	sum := sha256.Sum256([]byte(stem))
	return hex.EncodeToString(sum[:4])
}

// PointID maps a chunk id to the UUID Qdrant stores it under.
func PointID(chunkID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(chunkID)).String()
}
