package config

import (
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	Port     string
	LogLevel string

	DefaultModel string
	ModelsFile   string

	OllamaURL string

	DeepSeekAPIKey  string
	DeepSeekBaseURL string
	DeepSeekModel   string

	GeminiAPIKey string
	GeminiModel  string

	OCREngine      string
	OCRLanguages   []string
	OCRVisionModel string
	OutputDir      string
	OutputPrefix   string
	UploadDir      string
}

// Load reads configuration from the environment. Call after godotenv so
// values from .env are visible.
func Load() Config {
	return Config{
		Port:            envStr("OCRCHAT_PORT", "8888"),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		DefaultModel:    envStr("OCRCHAT_DEFAULT_MODEL", "llama3.2:1b"),
		ModelsFile:      envStr("OCRCHAT_MODELS_FILE", ""),
		OllamaURL:       envStr("OLLAMA_URL", envStr("OLLAMA_HOST", "http://localhost:11434")),
		DeepSeekAPIKey:  envStr("DEEPSEEK_API_KEY", ""),
		DeepSeekBaseURL: envStr("DEEPSEEK_BASE_URL", "https://api.deepseek.com"),
		DeepSeekModel:   envStr("DEEPSEEK_MODEL", "deepseek-chat"),
		GeminiAPIKey:    envStr("GEMINI_API_KEY", ""),
		GeminiModel:     envStr("GEMINI_MODEL", "gemini-1.5-flash"),
		OCREngine:       envStr("OCR_ENGINE", "tesseract"),
		OCRLanguages:    envList("OCR_LANGUAGES", []string{"eng"}),
		OCRVisionModel:  envStr("OCR_VISION_MODEL", "llama3.2-vision"),
		OutputDir:       envStr("OCR_OUTPUT_DIR", "outputs"),
		OutputPrefix:    envStr("OCR_OUTPUT_PREFIX", "ocr_output"),
		UploadDir:       envStr("OCRCHAT_UPLOAD_DIR", "temp_uploads"),
	}
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
