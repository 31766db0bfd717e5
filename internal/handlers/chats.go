package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lehigh-university-libraries/ocrchat/internal/export"
	"github.com/lehigh-university-libraries/ocrchat/internal/models"
	"github.com/lehigh-university-libraries/ocrchat/internal/session"
)

func (h *Handler) HandleNewChat(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	sess.NewChat()
	h.writeJSON(w, sess.State())
}

// HandleListChats returns search hits when q is set, otherwise the recent chats
func (h *Handler) HandleListChats(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	response := map[string]any{
		"saved_chats": len(sess.SavedChats()),
	}

	if query := r.URL.Query().Get("q"); query != "" {
		hits, total := sess.Search(query)
		if hits == nil {
			hits = []models.IndexedChat{}
		}
		response["query"] = query
		response["matches"] = total
		response["chats"] = hits
	} else {
		response["chats"] = sess.Recent()
	}

	h.writeJSON(w, response)
}

func (h *Handler) HandleRestoreChat(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.writeError(w, "Invalid chat index", http.StatusBadRequest)
		return
	}

	if err := sess.Restore(index); err != nil {
		if errors.Is(err, session.ErrChatNotFound) {
			h.writeError(w, err.Error(), http.StatusNotFound)
			return
		}
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, sess.State())
}

func (h *Handler) HandleExportChats(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now()
	var buf bytes.Buffer
	if err := export.Write(&buf, format, sess.ID, sess.SavedChats(), now); err != nil {
		h.writeError(w, "Failed to export chats: "+err.Error(), http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("chats_%s.%s", now.Format("20060102_150405"), format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(buf.Bytes()) //nolint:errcheck
}
