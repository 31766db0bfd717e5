package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/lehigh-university-libraries/ocrchat/internal/config"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ocrchat",
		Short: "Image OCR with a chat assistant over the extracted text",
		Long: `OCRChat extracts text from images and lets you chat about it.

Replies come from a rule-based responder, local Ollama models, or the
DeepSeek and Gemini cloud APIs. Every conversation is kept in a per-session
history that can be searched, restored, and exported.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			setupLogging(config.Load())
		},
	}

	cmd.AddCommand(
		newServeCmd(),
		newExtractCmd(),
		newAskCmd(),
		newGenerateCmd(),
		newModelsCmd(),
	)

	return cmd
}

func setupLogging(cfg config.Config) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})
	slog.SetDefault(slog.New(handler))
}
