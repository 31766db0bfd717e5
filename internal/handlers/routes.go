package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes builds the HTTP API
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	r.Get("/uploads/{name}", h.HandleUploadedImage)

	r.Route("/api", func(r chi.Router) {
		r.Get("/models", h.HandleModels)

		r.Get("/sessions", h.HandleListSessions)
		r.Post("/sessions", h.HandleCreateSession)

		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", h.HandleGetSession)
			r.Delete("/", h.HandleDeleteSession)
			r.Put("/model", h.HandleSelectModel)
			r.Post("/upload", h.HandleUpload)
			r.Post("/messages", h.HandleSendMessage)
			r.Post("/ask", h.HandleAsk)
			r.Post("/new-chat", h.HandleNewChat)
			r.Get("/chats", h.HandleListChats)
			r.Get("/chats/export", h.HandleExportChats)
			r.Post("/chats/{index}/restore", h.HandleRestoreChat)
		})
	})

	return r
}
