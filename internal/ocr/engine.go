// Package ocr wraps the Tesseract OCR engine behind a small interface so the
// pipeline and its tests never depend on the engine internals.
//
// Tesseract must be installed on the system together with the language data
// packs for every requested language code ("eng", "san", ...).
package ocr

import "context"

// Result is the recognized text plus the word-averaged confidence in [0,1].
type Result struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Engine performs OCR over an encoded image. Languages are Tesseract
// ISO-639-2/3 codes; passing several requests multi-language recognition.
type Engine interface {
	Recognize(ctx context.Context, image []byte, languages []string) (Result, error)
}
