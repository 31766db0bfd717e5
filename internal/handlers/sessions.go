package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lehigh-university-libraries/ocrchat/internal/chat"
)

func (h *Handler) HandleModels(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.chatService.Catalog().Options())
}

func (h *Handler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.sessionStore.IDs())
}

func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionStore.Create()
	h.writeJSONStatus(w, http.StatusCreated, sess.State())
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, sess.State())
}

// HandleDeleteSession ends a session, discarding its history
func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !h.sessionStore.Delete(chi.URLParam(r, "sessionID")) {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleSelectModel(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	var request struct {
		Model string `json:"model"`
	}
	if err := decodeJSON(r, &request); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.chatService.SelectModel(sess, request.Model); err != nil {
		if errors.Is(err, chat.ErrUnknownModel) {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, sess.State())
}
