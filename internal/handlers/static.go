package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// HandleUploadedImage serves a previously uploaded image for preview
func (h *Handler) HandleUploadedImage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	// Prevent directory traversal attacks
	if name == "" || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	http.ServeFile(w, r, filepath.Join(h.uploadDir, name))
}
