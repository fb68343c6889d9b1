//go:build ocr

package ocr

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// blankPNG is a white image with one black bar.
func blankPNG(width, height int) []byte {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	for x := 10; x < 50; x++ {
		for y := 10; y < 30; y++ {
			img.Set(x, y, color.Black)
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func TestRecognize(t *testing.T) {
	_, err := NewTesseract().Recognize(context.Background(), blankPNG(100, 50), []string{"eng"})
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
}

func TestRecognize_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewTesseract().Recognize(ctx, blankPNG(10, 10), nil); err == nil {
		t.Error("Recognize() with cancelled context should fail")
	}
}
