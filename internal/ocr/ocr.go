package ocr

import "errors"

// ErrOCRNotEnabled is returned when the binary was built without Tesseract.
var ErrOCRNotEnabled = errors.New("ocr support not compiled in (build with -tags ocr)")
