package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/lehigh-university-libraries/ocrchat/internal/models"
)

type uploadResponse struct {
	SessionID  string               `json:"session_id"`
	ImageURL   string               `json:"image_url,omitempty"`
	Text       models.ExtractedText `json:"text"`
	Warning    string               `json:"warning,omitempty"`
	OutputPath string               `json:"output_path,omitempty"`
	Reply      *models.Message      `json:"reply,omitempty"`
}

// HandleUpload runs OCR on an uploaded image and caches the text in the
// session. With send=true a non-empty extraction is also sent as a chat turn.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	if err := h.ensureUploadsDir(); err != nil {
		h.writeError(w, "Failed to create uploads directory: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Limit file size to 10MB
	fileData, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if len(fileData) > maxUploadSize {
		h.writeError(w, "File too large (max 10MB)", http.StatusBadRequest)
		return
	}

	result := h.ocrService.Extract(r.Context(), fileData)
	sess.SetExtraction(result.Text)

	response := uploadResponse{
		SessionID:  sess.ID,
		Text:       result.Text,
		Warning:    result.Warning,
		OutputPath: result.OutputPath,
	}

	// Only bytes that decoded as an image are kept for preview
	if result.Format != "" {
		imageFilename, err := h.saveUpload(fileData, result.Format)
		if err != nil {
			h.writeError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		response.ImageURL = "/uploads/" + imageFilename
	}
	if response.Text.Lines == nil {
		response.Text.Lines = []string{}
	}

	send, _ := strconv.ParseBool(r.FormValue("send"))
	if send && !result.Text.Empty() {
		msg, err := h.chatService.Send(r.Context(), sess, result.Text.Text())
		if err != nil {
			h.writeChatError(w, err)
			return
		}
		response.Reply = &msg
	}

	h.writeJSON(w, response)
}
