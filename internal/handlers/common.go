package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/lehigh-university-libraries/ocrchat/internal/chat"
	"github.com/lehigh-university-libraries/ocrchat/internal/ocr"
	"github.com/lehigh-university-libraries/ocrchat/internal/session"
	"github.com/lehigh-university-libraries/ocrchat/internal/storage"
	"github.com/lehigh-university-libraries/ocrchat/internal/utils"
)

const maxUploadSize = 10 * 1024 * 1024

type Handler struct {
	sessionStore *storage.SessionStore
	ocrService   *ocr.Service
	chatService  *chat.Service
	uploadDir    string
}

func New(store *storage.SessionStore, ocrService *ocr.Service, chatService *chat.Service, uploadDir string) *Handler {
	return &Handler{
		sessionStore: store,
		ocrService:   ocrService,
		chatService:  chatService,
		uploadDir:    uploadDir,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// writeWarning reports a user-facing short-circuit that changed nothing
func (h *Handler) writeWarning(w http.ResponseWriter, message string) {
	slog.Warn("Request short-circuited", "warning", message)
	h.writeJSONStatus(w, http.StatusBadRequest, map[string]string{"warning": message})
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sessionID := chi.URLParam(r, "sessionID")
	sess, exists := h.sessionStore.Get(sessionID)
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

// File operation helpers
func (h *Handler) ensureUploadsDir() error {
	return os.MkdirAll(h.uploadDir, 0755)
}

// saveUpload stores the image under its content hash, with the extension of
// its decoded format, and returns the file name
func (h *Handler) saveUpload(data []byte, format string) (string, error) {
	imageFilename := utils.CalculateDataMD5(data) + "." + format
	imageFilePath := filepath.Join(h.uploadDir, imageFilename)

	if err := os.WriteFile(imageFilePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	slog.Info("Image saved", "filename", imageFilename)
	return imageFilename, nil
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}
