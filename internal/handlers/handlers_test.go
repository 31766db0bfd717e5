package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/ocrchat/internal/chat"
	"github.com/lehigh-university-libraries/ocrchat/internal/models"
	"github.com/lehigh-university-libraries/ocrchat/internal/ocr"
	"github.com/lehigh-university-libraries/ocrchat/internal/providers"
	"github.com/lehigh-university-libraries/ocrchat/internal/responder"
	"github.com/lehigh-university-libraries/ocrchat/internal/session"
	"github.com/lehigh-university-libraries/ocrchat/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEngine struct {
	lines []string
}

func (s stubEngine) Name() string { return "stub" }

func (s stubEngine) Recognize(ctx context.Context, data []byte) ([]string, error) {
	return s.lines, nil
}

type echoProvider struct{}

func (echoProvider) Chat(ctx context.Context, config providers.Config) (string, error) {
	last := config.Messages[len(config.Messages)-1]
	return "echo: " + last.Content, nil
}

type testServer struct {
	t         *testing.T
	handler   http.Handler
	store     *storage.SessionStore
	uploadDir string
}

func newTestServer(t *testing.T, lines ...string) *testServer {
	t.Helper()
	store := storage.New("llama3.2:1b")
	ocrService := ocr.NewService(stubEngine{lines: lines})
	chatService := chat.NewService(
		chat.DefaultCatalog("deepseek-chat", "gemini-1.5-flash"),
		chat.Backends{Ollama: echoProvider{}},
		responder.New(),
	)
	uploadDir := t.TempDir()
	h := New(store, ocrService, chatService, uploadDir)
	return &testServer{t: t, handler: h.Routes(), store: store, uploadDir: uploadDir}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func (s *testServer) createSession() session.State {
	s.t.Helper()
	w := s.do("POST", "/api/sessions", nil)
	require.Equal(s.t, http.StatusCreated, w.Code)
	var state session.State
	require.NoError(s.t, json.NewDecoder(w.Body).Decode(&state))
	return state
}

func (s *testServer) upload(sessionID string, data []byte, send bool) *httptest.ResponseRecorder {
	s.t.Helper()
	return s.uploadNamed(sessionID, "scan.png", data, send)
}

func (s *testServer) uploadNamed(sessionID, filename string, data []byte, send bool) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(s.t, err)
	_, err = fw.Write(data)
	require.NoError(s.t, err)
	if send {
		require.NoError(s.t, mw.WriteField("send", "true"))
	}
	require.NoError(s.t, mw.Close())

	req := httptest.NewRequest("POST", "/api/sessions/"+sessionID+"/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func pngData(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func TestHealthcheck(t *testing.T) {
	s := newTestServer(t)
	w := s.do("GET", "/healthcheck", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestModels(t *testing.T) {
	s := newTestServer(t)
	w := s.do("GET", "/api/models", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var options []chat.ModelOption
	require.NoError(t, json.NewDecoder(w.Body).Decode(&options))
	assert.Equal(t, chat.RuleBasedModel, options[0].ID)
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t)
	state := s.createSession()
	assert.Equal(t, "llama3.2:1b", state.Model)

	w := s.do("GET", "/api/sessions/"+state.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do("GET", "/api/sessions", nil)
	var ids []string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&ids))
	assert.Equal(t, []string{state.ID}, ids)

	w = s.do("DELETE", "/api/sessions/"+state.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do("GET", "/api/sessions/"+state.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSendMessage(t *testing.T) {
	s := newTestServer(t)
	state := s.createSession()

	w := s.do("POST", "/api/sessions/"+state.ID+"/messages", map[string]string{"content": "hello"})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Message models.Message `json:"message"`
		Session session.State  `json:"session"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "echo: hello", body.Message.Content)
	assert.Len(t, body.Session.Messages, 2)
	assert.Equal(t, 1, body.Session.SavedChats)
}

func TestSendMessage_BlankIsWarning(t *testing.T) {
	s := newTestServer(t)
	state := s.createSession()

	w := s.do("POST", "/api/sessions/"+state.ID+"/messages", map[string]string{"content": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "warning")

	sess, _ := s.store.Get(state.ID)
	assert.Empty(t, sess.Messages())
}

func TestRuleBasedFlow(t *testing.T) {
	s := newTestServer(t, "Invoice Total: $453.20 Due 2025-01-01")
	state := s.createSession()

	w := s.do("PUT", "/api/sessions/"+state.ID+"/model", map[string]string{"model": chat.RuleBasedModel})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do("POST", "/api/sessions/"+state.ID+"/messages", map[string]string{"content": "What does it say?"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "rule-based chat requires an upload first")

	w = s.upload(state.ID, pngData(t), false)
	require.Equal(t, http.StatusOK, w.Code)
	var up uploadResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&up))
	assert.Equal(t, []string{"Invoice Total: $453.20 Due 2025-01-01"}, up.Text.Lines)
	assert.Empty(t, up.Warning)
	assert.True(t, strings.HasPrefix(up.ImageURL, "/uploads/"))
	assert.True(t, strings.HasSuffix(up.ImageURL, ".png"))

	w = s.do("POST", "/api/sessions/"+state.ID+"/messages", map[string]string{"content": "What does it say?"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `The text mainly says:\n\nInvoice Total: $453.20 Due 2025-01-01...`)

	w = s.do("POST", "/api/sessions/"+state.ID+"/ask", map[string]string{"question": "who is this"})
	require.Equal(t, http.StatusOK, w.Code)
	var ask map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&ask))
	assert.Equal(t, responder.PersonReply, ask["response"])

	img := s.do("GET", up.ImageURL, nil)
	assert.Equal(t, http.StatusOK, img.Code)
}

func TestUpload_InvalidImageWarns(t *testing.T) {
	s := newTestServer(t, "never used")
	state := s.createSession()

	w := s.upload(state.ID, []byte("not an image"), true)
	require.Equal(t, http.StatusOK, w.Code)

	var up uploadResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&up))
	assert.Empty(t, up.Text.Lines)
	assert.Contains(t, up.Warning, "OCR failed")
	assert.Nil(t, up.Reply, "an empty extraction is never sent to the chat backend")
}

func TestUpload_NonImageIsNotStored(t *testing.T) {
	s := newTestServer(t, "never used")
	state := s.createSession()

	w := s.uploadNamed(state.ID, "evil.html", []byte("<script>alert(1)</script>"), false)
	require.Equal(t, http.StatusOK, w.Code)

	var up uploadResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&up))
	assert.Empty(t, up.ImageURL)
	assert.Contains(t, up.Warning, "OCR failed")
	assert.NotContains(t, w.Body.String(), "image_url")

	entries, err := os.ReadDir(s.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpload_NameUsesDecodedFormat(t *testing.T) {
	s := newTestServer(t, "text")
	state := s.createSession()

	w := s.uploadNamed(state.ID, "scan.html", pngData(t), false)
	require.Equal(t, http.StatusOK, w.Code)

	var up uploadResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&up))
	assert.True(t, strings.HasSuffix(up.ImageURL, ".png"), up.ImageURL)

	img := s.do("GET", up.ImageURL, nil)
	assert.Equal(t, http.StatusOK, img.Code)
	assert.Equal(t, "image/png", img.Header().Get("Content-Type"))
}

func TestUpload_SizeLimit(t *testing.T) {
	s := newTestServer(t, "never used")
	state := s.createSession()

	w := s.upload(state.ID, make([]byte, maxUploadSize), false)
	assert.Equal(t, http.StatusOK, w.Code, "exactly 10MB is accepted")

	w = s.upload(state.ID, make([]byte, maxUploadSize+1), false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "File too large")
}

func TestUpload_SendForwardsText(t *testing.T) {
	s := newTestServer(t, "line one", "line two")
	state := s.createSession()

	w := s.upload(state.ID, pngData(t), true)
	require.Equal(t, http.StatusOK, w.Code)

	var up uploadResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&up))
	require.NotNil(t, up.Reply)
	assert.Equal(t, "echo: line one\nline two", up.Reply.Content)
}

func TestSelectModel_Unknown(t *testing.T) {
	s := newTestServer(t)
	state := s.createSession()

	w := s.do("PUT", "/api/sessions/"+state.ID+"/model", map[string]string{"model": "gpt-9"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatsSearchRecentRestore(t *testing.T) {
	s := newTestServer(t)
	state := s.createSession()
	base := "/api/sessions/" + state.ID

	for i := 0; i < 4; i++ {
		w := s.do("POST", base+"/messages", map[string]string{"content": fmt.Sprintf("receipt %d", i)})
		require.Equal(t, http.StatusOK, w.Code)
		w = s.do("POST", base+"/new-chat", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := s.do("GET", base+"/chats?q=RECEIPT", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var search struct {
		Matches int                  `json:"matches"`
		Chats   []models.IndexedChat `json:"chats"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&search))
	assert.Equal(t, 4, search.Matches)
	assert.Len(t, search.Chats, 3)

	w = s.do("GET", base+"/chats", nil)
	var recent struct {
		Chats []models.IndexedChat `json:"chats"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&recent))
	require.Len(t, recent.Chats, 4)
	assert.Equal(t, 3, recent.Chats[0].Index)

	w = s.do("POST", base+"/chats/1/restore", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var restored session.State
	require.NoError(t, json.NewDecoder(w.Body).Decode(&restored))
	assert.Equal(t, "receipt 1", restored.Messages[0].Content)
	require.NotNil(t, restored.CurrentChatID)
	assert.Equal(t, 1, *restored.CurrentChatID)

	w = s.do("POST", base+"/chats/9/restore", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do("POST", base+"/chats/x/restore", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportChats(t *testing.T) {
	s := newTestServer(t)
	state := s.createSession()
	base := "/api/sessions/" + state.ID

	s.do("POST", base+"/messages", map[string]string{"content": "hello"})

	w := s.do("GET", base+"/chats/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "title: hello")

	w = s.do("GET", base+"/chats/export?format=parquet", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PAR1")))

	w = s.do("GET", base+"/chats/export?format=csv", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadedImage_RejectsTraversal(t *testing.T) {
	s := newTestServer(t)
	w := s.do("GET", "/uploads/..secret", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
