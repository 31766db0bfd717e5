package cmd

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/ocrchat/internal/config"
	"github.com/lehigh-university-libraries/ocrchat/internal/images"
	"github.com/lehigh-university-libraries/ocrchat/internal/ocr"
)

type staticEngine struct{}

func (staticEngine) Name() string { return "static" }

func (staticEngine) Recognize(ctx context.Context, data []byte) ([]string, error) {
	return []string{"TOTAL 12.00"}, nil
}

func TestNewOCRService_UnsupportedEngine(t *testing.T) {
	cfg := config.Config{OCREngine: "abbyy"}
	if _, err := newOCRService(cfg, false); err == nil {
		t.Fatal("expected error for unsupported engine")
	}
}

func TestNewOCRService_Vision(t *testing.T) {
	cfg := config.Config{OCREngine: "vision", OCRVisionModel: "llama3.2-vision", OllamaURL: "http://localhost:11434"}
	svc, err := newOCRService(cfg, false)
	if err != nil {
		t.Fatalf("newOCRService: %v", err)
	}
	if got := svc.Engine(); got != "vision:llama3.2-vision" {
		t.Errorf("Engine() = %q", got)
	}
}

func TestNewChatService_DefaultModelMustExist(t *testing.T) {
	cfg := config.Config{DefaultModel: "gpt-9", DeepSeekModel: "deepseek-chat", GeminiModel: "gemini-1.5-flash"}
	if _, err := newChatService(cfg); err == nil {
		t.Fatal("expected error for default model outside the catalog")
	}

	cfg.DefaultModel = "llama3.2:1b"
	if _, err := newChatService(cfg); err != nil {
		t.Fatalf("newChatService: %v", err)
	}
}

func TestNewCatalog_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	data := "models:\n  - label: Tiny\n    id: tiny:1b\n    backend: ollama\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	catalog, err := newCatalog(config.Config{ModelsFile: path})
	if err != nil {
		t.Fatalf("newCatalog: %v", err)
	}
	if _, ok := catalog.Lookup("tiny:1b"); !ok {
		t.Error("expected tiny:1b in catalog")
	}
}

func TestModelsCmd(t *testing.T) {
	t.Setenv("OCRCHAT_MODELS_FILE", "")
	t.Setenv("OCRCHAT_DEFAULT_MODEL", "rule-based")

	var out bytes.Buffer
	cmd := newModelsCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	got := out.String()
	for _, want := range []string{"rule-based (default)", "llama3.1:8b", "deepseek-api", "gemini-api"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestExtractSource_LocalFile(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "receipt.png")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := extractSource(context.Background(), ocr.NewService(staticEngine{}), path)
	if err != nil {
		t.Fatalf("extractSource: %v", err)
	}
	if len(result.Text.Lines) != 1 || result.Text.Lines[0] != "TOTAL 12.00" {
		t.Errorf("lines = %v", result.Text.Lines)
	}
}

func TestExtractSource_LocalFileTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.png")
	if err := os.WriteFile(path, make([]byte, images.MaxImageSize+1024), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := extractSource(context.Background(), ocr.NewService(staticEngine{}), path)
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Fatalf("expected size cap error, got %v", err)
	}
}

func TestExtractSource_MissingFile(t *testing.T) {
	_, err := extractSource(context.Background(), ocr.NewService(staticEngine{}), filepath.Join(t.TempDir(), "nope.png"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
