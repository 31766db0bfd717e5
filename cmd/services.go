package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/ocrchat/internal/chat"
	"github.com/lehigh-university-libraries/ocrchat/internal/config"
	"github.com/lehigh-university-libraries/ocrchat/internal/gemini"
	"github.com/lehigh-university-libraries/ocrchat/internal/images"
	"github.com/lehigh-university-libraries/ocrchat/internal/ocr"
	"github.com/lehigh-university-libraries/ocrchat/internal/ollama"
	"github.com/lehigh-university-libraries/ocrchat/internal/openai"
	"github.com/lehigh-university-libraries/ocrchat/internal/responder"
)

// newOCRService builds the OCR pipeline selected by OCR_ENGINE
func newOCRService(cfg config.Config, save bool) (*ocr.Service, error) {
	var engine ocr.Engine
	switch cfg.OCREngine {
	case "tesseract", "":
		engine = ocr.NewTesseractEngine(cfg.OCRLanguages...)
	case "vision":
		engine = ocr.NewVisionEngine(ollama.New(cfg.OllamaURL), cfg.OCRVisionModel)
	default:
		return nil, fmt.Errorf("unsupported OCR engine: %s (supported: tesseract, vision)", cfg.OCREngine)
	}

	var opts []ocr.Option
	if save {
		opts = append(opts, ocr.WithOutput(cfg.OutputDir, cfg.OutputPrefix))
	}
	return ocr.NewService(engine, opts...), nil
}

func newCatalog(cfg config.Config) (*chat.Catalog, error) {
	if cfg.ModelsFile != "" {
		return chat.LoadCatalog(cfg.ModelsFile)
	}
	return chat.DefaultCatalog(cfg.DeepSeekModel, cfg.GeminiModel), nil
}

// newChatService wires every configured backend. Cloud backends without a key
// are left nil so the chat service can warn instead of calling out.
func newChatService(cfg config.Config) (*chat.Service, error) {
	catalog, err := newCatalog(cfg)
	if err != nil {
		return nil, err
	}
	if _, ok := catalog.Lookup(cfg.DefaultModel); !ok {
		return nil, fmt.Errorf("default model %q is not in the model catalog", cfg.DefaultModel)
	}

	backends := chat.Backends{Ollama: ollama.New(cfg.OllamaURL)}
	if cfg.DeepSeekAPIKey != "" {
		backends.DeepSeek = openai.New(cfg.DeepSeekBaseURL, cfg.DeepSeekAPIKey)
	} else {
		slog.Debug("DeepSeek backend disabled, DEEPSEEK_API_KEY not set")
	}
	if cfg.GeminiAPIKey != "" {
		backends.Gemini = gemini.New(cfg.GeminiAPIKey)
	} else {
		slog.Debug("Gemini backend disabled, GEMINI_API_KEY not set")
	}

	return chat.NewService(catalog, backends, responder.New()), nil
}

// extractSource runs OCR on a local file or a downloaded URL. Both paths
// share the loader's size cap.
func extractSource(ctx context.Context, svc *ocr.Service, source string) (ocr.Result, error) {
	data, err := images.NewFetcher().Load(ctx, source)
	if err != nil {
		return ocr.Result{}, err
	}
	return svc.Extract(ctx, data), nil
}
