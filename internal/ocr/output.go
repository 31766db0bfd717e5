package ocr

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultOutputDir    = "outputs"
	DefaultOutputPrefix = "ocr_output"

	outputTimeLayout = "20060102_150405"
)

// OutputFilename returns <prefix>_<YYYYMMDD_HHMMSS>.txt for t
func OutputFilename(prefix string, t time.Time) string {
	return fmt.Sprintf("%s_%s.txt", prefix, t.Format(outputTimeLayout))
}

// WriteOutput saves text under dir, creating the directory on demand
func WriteOutput(dir, prefix, text string, t time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, OutputFilename(prefix, t))
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}
	return path, nil
}
