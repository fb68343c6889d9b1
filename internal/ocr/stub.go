//go:build !ocr

// Package ocr recognizes text in rendered page images. This build has no
// Tesseract; every call fails with ErrOCRNotEnabled.
package ocr

import "context"

// Tesseract implements extract.OCREngine.
type Tesseract struct{}

// NewTesseract returns an engine that always reports ErrOCRNotEnabled.
func NewTesseract() *Tesseract {
	return &Tesseract{}
}

// Recognize always fails with ErrOCRNotEnabled.
func (t *Tesseract) Recognize(ctx context.Context, image []byte, languages []string) (string, error) {
	return "", ErrOCRNotEnabled
}
