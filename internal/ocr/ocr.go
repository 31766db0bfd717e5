// Package ocr turns uploaded images into lines of text. Engines are pluggable;
// the Service wraps an engine so that decode and recognition failures never
// escape as errors and instead surface as a user-visible warning.
package ocr

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/ocrchat/internal/models"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// NoTextWarning is returned when recognition succeeded but found nothing
	NoTextWarning = "⚠️ No readable text detected in the image."
	failedPrefix  = "❌ OCR failed: "
)

// Engine recognizes text in a single encoded image
type Engine interface {
	Name() string
	Recognize(ctx context.Context, image []byte) ([]string, error)
}

// Result is the outcome of one extraction. Warning is set whenever Text is
// empty; OutputPath is set when the text was persisted.
type Result struct {
	Text       models.ExtractedText `json:"text"`
	Warning    string               `json:"warning,omitempty"`
	Format     string               `json:"format,omitempty"`
	OutputPath string               `json:"output_path,omitempty"`
}

// Service handles OCR extraction from images
type Service struct {
	engine    Engine
	outputDir string
	prefix    string
	now       func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithOutput persists every non-empty extraction under dir as
// <prefix>_<YYYYMMDD_HHMMSS>.txt
func WithOutput(dir, prefix string) Option {
	return func(s *Service) {
		s.outputDir = dir
		s.prefix = prefix
	}
}

// WithClock overrides the clock used for output file names
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new OCR service backed by engine
func NewService(engine Engine, opts ...Option) *Service {
	s := &Service{
		engine: engine,
		prefix: DefaultOutputPrefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Engine returns the name of the underlying engine
func (s *Service) Engine() string {
	return s.engine.Name()
}

// Extract recognizes the text in data. It never returns an error: failures
// are reported through Result.Warning with an empty text.
func (s *Service) Extract(ctx context.Context, data []byte) Result {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		slog.Warn("Unable to decode image", "err", err)
		return Result{Warning: failedPrefix + err.Error()}
	}

	lines, err := s.engine.Recognize(ctx, data)
	if err != nil {
		slog.Error("OCR engine failed", "engine", s.engine.Name(), "err", err)
		return Result{Warning: failedPrefix + err.Error(), Format: format}
	}

	result := Result{
		Text:   models.ExtractedText{Lines: lines},
		Format: format,
	}
	if result.Text.Empty() {
		result.Warning = NoTextWarning
		return result
	}

	slog.Info("Extracted OCR text", "engine", s.engine.Name(), "lines", len(lines), "format", format)

	if s.outputDir != "" {
		path, err := WriteOutput(s.outputDir, s.prefix, result.Text.Text(), s.now())
		if err != nil {
			slog.Error("Unable to save extracted text", "dir", s.outputDir, "err", err)
		} else {
			result.OutputPath = path
		}
	}

	return result
}

// SplitLines breaks recognized text into trimmed, non-blank lines
func SplitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
