package handlers

import (
	"errors"
	"net/http"

	"github.com/lehigh-university-libraries/ocrchat/internal/chat"
)

func (h *Handler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	var request struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &request); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	msg, err := h.chatService.Send(r.Context(), sess, request.Content)
	if err != nil {
		h.writeChatError(w, err)
		return
	}

	h.writeJSON(w, map[string]any{
		"message": msg,
		"session": sess.State(),
	})
}

// HandleAsk answers one question about the extracted text with the
// rule-based responder; the conversation is left untouched.
func (h *Handler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	var request struct {
		Question string `json:"question"`
	}
	if err := decodeJSON(r, &request); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	reply, err := h.chatService.Ask(sess, request.Question)
	if err != nil {
		h.writeChatError(w, err)
		return
	}

	h.writeJSON(w, map[string]string{"response": reply})
}

func (h *Handler) writeChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chat.ErrEmptyInput), errors.Is(err, chat.ErrNoExtractedText):
		h.writeWarning(w, err.Error())
	case errors.Is(err, chat.ErrUnknownModel):
		h.writeError(w, err.Error(), http.StatusBadRequest)
	default:
		h.writeError(w, err.Error(), http.StatusInternalServerError)
	}
}
