package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/lehigh-university-libraries/ocrchat/internal/models"
	"github.com/lehigh-university-libraries/ocrchat/internal/providers"
	"google.golang.org/api/option"
)

// ErrMissingAPIKey is returned when the provider was built without a credential
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY not set")

// Gemini is a provider for Google Gemini
type Gemini struct {
	apiKey string
}

// New returns a new Gemini provider
func New(apiKey string) *Gemini {
	return &Gemini{apiKey: apiKey}
}

// Chat replays all but the last message as history and sends the last one
func (g *Gemini) Chat(ctx context.Context, config providers.Config) (string, error) {
	if g.apiKey == "" {
		return "", ErrMissingAPIKey
	}
	if len(config.Messages) == 0 {
		return "", fmt.Errorf("no messages to send to Gemini")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(config.Model)
	if config.Temperature > 0 {
		model.SetTemperature(float32(config.Temperature))
	}

	history, last := toContents(config.Messages)
	cs := model.StartChat()
	cs.History = history

	resp, err := cs.SendMessage(ctx, last...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	if txt, ok := candidate.Content.Parts[0].(genai.Text); ok {
		return string(txt), nil
	}

	return "", fmt.Errorf("unexpected response format from Gemini")
}

// toContents maps the conversation onto Gemini roles ("user" and "model")
func toContents(msgs []models.Message) ([]*genai.Content, []genai.Part) {
	history := make([]*genai.Content, 0, len(msgs)-1)
	for _, m := range msgs[:len(msgs)-1] {
		history = append(history, &genai.Content{
			Role:  geminiRole(m.Role),
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}
	return history, []genai.Part{genai.Text(msgs[len(msgs)-1].Content)}
}

func geminiRole(r models.Role) string {
	if r == models.RoleAssistant {
		return "model"
	}
	return "user"
}
