package ocr

import (
	"context"
	"fmt"
)

// Generator is the subset of the Ollama client used by VisionEngine
type Generator interface {
	GenerateWithImages(ctx context.Context, model, prompt string, temperature float64, images ...[]byte) (string, error)
}

// VisionEngine uses a vision-capable LLM as the OCR engine
type VisionEngine struct {
	generator Generator
	model     string
}

// NewVisionEngine returns an engine that transcribes images with model
func NewVisionEngine(generator Generator, model string) *VisionEngine {
	return &VisionEngine{generator: generator, model: model}
}

func (e *VisionEngine) Name() string { return "vision:" + e.model }

// Recognize asks the model for a verbatim transcription at zero temperature
func (e *VisionEngine) Recognize(ctx context.Context, image []byte) ([]string, error) {
	text, err := e.generator.GenerateWithImages(ctx, e.model, transcriptionPrompt, 0, image)
	if err != nil {
		return nil, fmt.Errorf("failed to call vision model for OCR: %w", err)
	}
	return SplitLines(text), nil
}

const transcriptionPrompt = `You are performing OCR (Optical Character Recognition) on an image.

Your task is to extract ALL visible text from the image exactly as it appears, preserving:
- Line breaks
- Capitalization
- Punctuation
- Order of text elements

INSTRUCTIONS:
1. Read the image carefully from top to bottom
2. Transcribe every piece of visible text
3. Do not add any interpretation, commentary, or explanations
4. If the image contains no text, reply with nothing

OUTPUT FORMAT:
Provide ONLY the extracted text. Do not include phrases like "Here is the text:" or "The image contains:".`
