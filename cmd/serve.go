package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/ocrchat/internal/config"
	"github.com/lehigh-university-libraries/ocrchat/internal/handlers"
	"github.com/lehigh-university-libraries/ocrchat/internal/storage"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the OCR chat web API",
		Long: `Starts the OCRChat HTTP API on the specified port.

Clients create a session, upload images for OCR, and chat about the
extracted text with the model selected for that session.`,
		Example: `  # Start server on default port 8888
  ocrchat serve

  # Start server on custom port
  ocrchat serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if port == "" {
				port = cfg.Port
			}

			ocrService, err := newOCRService(cfg, true)
			if err != nil {
				return err
			}
			chatService, err := newChatService(cfg)
			if err != nil {
				return err
			}

			handler := handlers.New(storage.New(cfg.DefaultModel), ocrService, chatService, cfg.UploadDir)

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("OCRChat API available",
					"addr", addr,
					"url", "http://localhost"+addr,
					"ocr_engine", ocrService.Engine(),
					"default_model", cfg.DefaultModel)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (default $OCRCHAT_PORT or 8888)")

	return cmd
}
