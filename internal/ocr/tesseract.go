package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine recognizes text with the local Tesseract library
type TesseractEngine struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// NewTesseractEngine constructs a Tesseract-backed engine. With no languages
// Tesseract falls back to English.
func NewTesseractEngine(languages ...string) *TesseractEngine {
	return &TesseractEngine{
		languages:     append([]string(nil), languages...),
		clientFactory: gosseract.NewClient,
	}
}

func (e *TesseractEngine) Name() string { return "tesseract" }

// Recognize performs OCR on a single encoded image
func (e *TesseractEngine) Recognize(ctx context.Context, image []byte) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := e.clientFactory()
	defer c.Close()

	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return nil, fmt.Errorf("set languages: %w", err)
		}
	}
	if err := c.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}
	return SplitLines(text), nil
}
