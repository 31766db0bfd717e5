// Package openai talks to OpenAI-compatible chat completion endpoints. The
// DeepSeek cloud API is served through it.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/ocrchat/internal/providers"
)

// DeepSeekURL is the base URL of the DeepSeek API
const DeepSeekURL = "https://api.deepseek.com"

// ErrMissingAPIKey is returned when the client was built without a credential
var ErrMissingAPIKey = errors.New("API key not set")

// OpenAI is a provider for OpenAI-compatible APIs
type OpenAI struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// New returns a new provider for the API rooted at baseURL
func New(baseURL, apiKey string) *OpenAI {
	if baseURL == "" {
		baseURL = DeepSeekURL
	}
	return &OpenAI{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{},
	}
}

// Chat sends the message list to /chat/completions and returns the first choice
func (o *OpenAI) Chat(ctx context.Context, config providers.Config) (string, error) {
	if o.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	messages := make([]map[string]string, 0, len(config.Messages))
	for _, m := range config.Messages {
		messages = append(messages, map[string]string{
			"role":    string(m.Role),
			"content": m.Content,
		})
	}

	body := map[string]any{
		"model":    config.Model,
		"messages": messages,
	}
	if config.Temperature > 0 {
		body["temperature"] = config.Temperature
	}

	requestBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(b))
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from %s", o.baseURL)
	}

	return response.Choices[0].Message.Content, nil
}
