//go:build ocr

// Package ocr recognizes text in rendered page images with Tesseract via
// gosseract. Tesseract and its eng and hin traineddata must be installed.
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr tesseract-ocr-hin libtesseract-dev
package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract implements extract.OCREngine.
type Tesseract struct{}

// NewTesseract returns an engine. A gosseract client is not safe for
// concurrent use, so every call gets its own.
func NewTesseract() *Tesseract {
	return &Tesseract{}
}

// Recognize returns the text Tesseract finds in a PNG image.
func (t *Tesseract) Recognize(ctx context.Context, image []byte, languages []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer func() {
		_ = client.Close()
	}()

	if len(languages) > 0 {
		if err := client.SetLanguage(languages...); err != nil {
			return "", fmt.Errorf("set language: %w", err)
		}
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	return text, nil
}
