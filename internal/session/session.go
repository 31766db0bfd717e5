// Package session holds the per-user chat state: the active conversation, the
// archive of saved chats, the selected model and the most recent OCR
// extraction. Every value crossing the package boundary is a copy, so an
// archived chat never changes when the live conversation does.
package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/lehigh-university-libraries/ocrchat/internal/models"
)

const (
	// SearchLimit caps the number of search hits returned
	SearchLimit = 3
	// RecentLimit caps the number of recent chats returned
	RecentLimit = 5

	noChat = -1
)

// ErrChatNotFound is returned when restoring an index outside the archive
var ErrChatNotFound = errors.New("saved chat not found")

// Session is one user's chat context
type Session struct {
	ID        string
	CreatedAt time.Time

	mu          sync.Mutex
	messages    []models.Message
	saved       []models.SavedChat
	currentChat int
	model       string
	extraction  *models.ExtractedText
}

// New creates an empty session using defaultModel
func New(id, defaultModel string) *Session {
	return &Session{
		ID:          id,
		CreatedAt:   time.Now(),
		currentChat: noChat,
		model:       defaultModel,
	}
}

// State is a point-in-time copy of a session
type State struct {
	ID            string                `json:"id"`
	CreatedAt     time.Time             `json:"created_at"`
	Model         string                `json:"model"`
	Messages      []models.Message      `json:"messages"`
	SavedChats    int                   `json:"saved_chats"`
	CurrentChatID *int                  `json:"current_chat_id"`
	Extraction    *models.ExtractedText `json:"extraction,omitempty"`
}

// Lock serializes a multi-step turn against concurrent requests on the same
// session. The other methods lock internally and must not be called by the
// holder of Lock; use the *Locked variants instead.
func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// State returns a snapshot of the session
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := State{
		ID:         s.ID,
		CreatedAt:  s.CreatedAt,
		Model:      s.model,
		Messages:   models.CopyMessages(s.messages),
		SavedChats: len(s.saved),
	}
	if state.Messages == nil {
		state.Messages = []models.Message{}
	}
	if s.currentChat != noChat {
		id := s.currentChat
		state.CurrentChatID = &id
	}
	if s.extraction != nil {
		e := models.ExtractedText{Lines: append([]string(nil), s.extraction.Lines...)}
		state.Extraction = &e
	}
	return state
}

// Messages returns a copy of the active conversation
func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CopyMessages(s.messages)
}

// MessagesLocked is Messages for callers holding Lock
func (s *Session) MessagesLocked() []models.Message {
	return models.CopyMessages(s.messages)
}

// Model returns the selected model id
func (s *Session) Model() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// ModelLocked is Model for callers holding Lock
func (s *Session) ModelLocked() string {
	return s.model
}

// SelectModel switches the responder backend. Switching to a different model
// archives a non-empty conversation, which stays active.
func (s *Session) SelectModel(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if model == s.model {
		return
	}
	if len(s.messages) > 0 {
		s.syncLocked()
	}
	s.model = model
}

// SetExtraction caches the most recent OCR result, replacing any earlier one
func (s *Session) SetExtraction(e models.ExtractedText) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extraction = &models.ExtractedText{Lines: append([]string(nil), e.Lines...)}
}

// Extraction returns the cached OCR result and whether an image was ever processed
func (s *Session) Extraction() (models.ExtractedText, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ExtractionLocked()
}

// ExtractionLocked is Extraction for callers holding Lock
func (s *Session) ExtractionLocked() (models.ExtractedText, bool) {
	if s.extraction == nil {
		return models.ExtractedText{}, false
	}
	return models.ExtractedText{Lines: append([]string(nil), s.extraction.Lines...)}, true
}

// AppendLocked adds a message to the active conversation. The first message
// reserves an archive slot for the conversation.
func (s *Session) AppendLocked(msg models.Message) {
	if len(s.messages) == 0 && s.currentChat == noChat {
		s.currentChat = len(s.saved)
	}
	s.messages = append(s.messages, msg)
}

// SyncLocked writes the active conversation into its archive slot
func (s *Session) SyncLocked() {
	s.syncLocked()
}

func (s *Session) syncLocked() {
	if len(s.messages) == 0 {
		return
	}
	if s.currentChat == noChat {
		s.currentChat = len(s.saved)
	}
	if s.currentChat < len(s.saved) {
		s.saved[s.currentChat].Messages = models.CopyMessages(s.messages)
		return
	}
	s.saved = append(s.saved, models.SavedChat{
		Title:    models.ChatTitle(s.messages[0].Content),
		Messages: models.CopyMessages(s.messages),
	})
	s.currentChat = len(s.saved) - 1
}

// NewChat archives a non-empty conversation and starts a fresh one
func (s *Session) NewChat() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.messages) > 0 {
		s.syncLocked()
	}
	s.messages = nil
	s.currentChat = noChat
}

// SavedChats returns copies of every archived chat in archive order
func (s *Session) SavedChats() []models.SavedChat {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.SavedChat, 0, len(s.saved))
	for _, c := range s.saved {
		out = append(out, c.Snapshot())
	}
	return out
}

// Search matches query against saved chat titles, ignoring case but keeping
// any surrounding whitespace. It returns at most SearchLimit hits in archive
// order plus the total match count.
func (s *Session) Search(query string) ([]models.IndexedChat, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(query) == "" {
		return nil, 0
	}
	query = strings.ToLower(query)

	var hits []models.IndexedChat
	total := 0
	for i, c := range s.saved {
		if !strings.Contains(strings.ToLower(c.Title), query) {
			continue
		}
		total++
		if len(hits) < SearchLimit {
			hits = append(hits, models.IndexedChat{Index: i, Chat: c.Snapshot()})
		}
	}
	return hits, total
}

// Recent returns the last RecentLimit saved chats, most recent first
func (s *Session) Recent() []models.IndexedChat {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.IndexedChat, 0, RecentLimit)
	for i := len(s.saved) - 1; i >= 0 && len(out) < RecentLimit; i-- {
		out = append(out, models.IndexedChat{Index: i, Chat: s.saved[i].Snapshot()})
	}
	return out
}

// Restore makes a copy of saved chat index the active conversation. Later
// turns update that chat in place.
func (s *Session) Restore(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.saved) {
		return ErrChatNotFound
	}
	s.messages = models.CopyMessages(s.saved[index].Messages)
	s.currentChat = index
	return nil
}
