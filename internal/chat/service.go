// Package chat routes a user's turn to the responder selected for the
// session and records the exchange in the session history.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/ocrchat/internal/models"
	"github.com/lehigh-university-libraries/ocrchat/internal/providers"
	"github.com/lehigh-university-libraries/ocrchat/internal/responder"
	"github.com/lehigh-university-libraries/ocrchat/internal/session"
)

// User-facing short-circuit errors. Neither mutates the session.
var (
	ErrEmptyInput      = errors.New("💡 Type a question to get started.")
	ErrNoExtractedText = errors.New("⚠️ Please upload an image and extract text first!")
	ErrUnknownModel    = errors.New("unknown model")
)

const (
	DeepSeekKeyWarning = "⚠️ DeepSeek API key not found. Please set DEEPSEEK_API_KEY."
	GeminiKeyWarning   = "⚠️ Gemini API key not found. Please set GEMINI_API_KEY."
)

// Backends holds the external providers. A nil cloud provider means its
// credential is not configured.
type Backends struct {
	Ollama   providers.Provider
	DeepSeek providers.Provider
	Gemini   providers.Provider
}

type Service struct {
	catalog   *Catalog
	backends  Backends
	responder *responder.Responder
}

func NewService(catalog *Catalog, backends Backends, r *responder.Responder) *Service {
	if r == nil {
		r = responder.New()
	}
	return &Service{
		catalog:   catalog,
		backends:  backends,
		responder: r,
	}
}

// Catalog returns the model menu
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

// SelectModel switches the session to model id
func (s *Service) SelectModel(sess *session.Session, id string) error {
	if _, ok := s.catalog.Lookup(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownModel, id)
	}
	sess.SelectModel(id)
	return nil
}

// Send appends content as a user turn, obtains the reply from the selected
// backend and appends it as the assistant turn. Backend failures become the
// assistant turn's content so every user turn gets a reply.
func (s *Service) Send(ctx context.Context, sess *session.Session, content string) (models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return models.Message{}, ErrEmptyInput
	}

	sess.Lock()
	defer sess.Unlock()

	option, ok := s.catalog.Lookup(sess.ModelLocked())
	if !ok {
		return models.Message{}, fmt.Errorf("%w: %s", ErrUnknownModel, sess.ModelLocked())
	}

	var extracted models.ExtractedText
	if option.Backend == BackendRules {
		if extracted, ok = sess.ExtractionLocked(); !ok {
			return models.Message{}, ErrNoExtractedText
		}
	}

	sess.AppendLocked(models.Message{Role: models.RoleUser, Content: content})

	var reply string
	if option.Backend == BackendRules {
		reply = s.responder.Respond(content, extracted.Text())
	} else {
		reply = s.complete(ctx, option, sess.MessagesLocked())
	}

	msg := models.Message{Role: models.RoleAssistant, Content: reply}
	sess.AppendLocked(msg)
	sess.SyncLocked()

	return msg, nil
}

// Ask answers a single question about the session's extracted text with the
// rule-based responder, without touching the conversation.
func (s *Service) Ask(sess *session.Session, question string) (string, error) {
	extracted, ok := sess.Extraction()
	if !ok {
		return "", ErrNoExtractedText
	}
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyInput
	}
	return s.responder.Respond(question, extracted.Text()), nil
}

func (s *Service) complete(ctx context.Context, option ModelOption, messages []models.Message) string {
	var provider providers.Provider
	switch option.Backend {
	case BackendOllama:
		provider = s.backends.Ollama
	case BackendDeepSeek:
		if s.backends.DeepSeek == nil {
			return DeepSeekKeyWarning
		}
		provider = s.backends.DeepSeek
	case BackendGemini:
		if s.backends.Gemini == nil {
			return GeminiKeyWarning
		}
		provider = s.backends.Gemini
	}
	if provider == nil {
		return fmt.Sprintf("Error: no provider configured for backend %s", option.Backend)
	}

	reply, err := provider.Chat(ctx, providers.Config{
		Model:    option.RemoteModel(),
		Messages: messages,
	})
	if err != nil {
		slog.Error("Chat backend failed", "backend", option.Backend, "model", option.RemoteModel(), "err", err)
		return fmt.Sprintf("Error: %v", err)
	}

	slog.Info("Chat reply generated", "backend", option.Backend, "model", option.RemoteModel(), "length", len(reply))
	return reply
}
