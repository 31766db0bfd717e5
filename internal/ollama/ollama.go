package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/ocrchat/internal/providers"
)

// DefaultURL is used when no Ollama host is configured
const DefaultURL = "http://localhost:11434"

// Ollama is a provider for a local Ollama server
type Ollama struct {
	baseURL string
	client  *http.Client
}

// New returns a new Ollama provider
func New(baseURL string) *Ollama {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Ollama{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat sends the full message list to /api/chat and returns the reply content
func (o *Ollama) Chat(ctx context.Context, config providers.Config) (string, error) {
	messages := make([]chatMessage, 0, len(config.Messages))
	for _, m := range config.Messages {
		messages = append(messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}

	body := map[string]any{
		"model":    config.Model,
		"messages": messages,
		"stream":   false,
	}
	if config.Temperature > 0 {
		body["options"] = map[string]any{"temperature": config.Temperature}
	}

	resp, err := o.post(ctx, "/api/chat", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var response struct {
		Message chatMessage `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	slog.Debug("Ollama chat completed", "model", config.Model, "length", len(response.Message.Content))
	return response.Message.Content, nil
}

// Generate sends a single prompt to /api/generate in streaming mode and
// reassembles the reply by concatenating every chunk's response field.
func (o *Ollama) Generate(ctx context.Context, model, prompt string) (string, error) {
	resp, err := o.post(ctx, "/api/generate", map[string]any{
		"model":  model,
		"prompt": prompt,
		"stream": true,
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	return readStream(resp.Body)
}

// GenerateWithImages runs a non-streaming generate call with base64 encoded
// images attached, for vision-capable models.
func (o *Ollama) GenerateWithImages(ctx context.Context, model, prompt string, temperature float64, images ...[]byte) (string, error) {
	encoded := make([]string, 0, len(images))
	for _, img := range images {
		encoded = append(encoded, base64.StdEncoding.EncodeToString(img))
	}

	resp, err := o.post(ctx, "/api/generate", map[string]any{
		"model":  model,
		"prompt": prompt,
		"images": encoded,
		"stream": false,
		"options": map[string]any{
			"temperature": temperature,
		},
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var response struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}
	return response.Response, nil
}

func (o *Ollama) post(ctx context.Context, path string, body any) (*http.Response, error) {
	requestBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+path, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(b))
	}
	return resp, nil
}

// readStream concatenates the response fields of an NDJSON stream in arrival order
func readStream(r io.Reader) (string, error) {
	var out strings.Builder
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 10*1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var chunk struct {
			Response string `json:"response"`
			Done     bool   `json:"done"`
			Error    string `json:"error"`
		}
		if err := json.Unmarshal(line, &chunk); err != nil {
			return "", fmt.Errorf("failed to decode stream chunk: %w", err)
		}
		if chunk.Error != "" {
			return "", fmt.Errorf("ollama stream error: %s", chunk.Error)
		}
		out.WriteString(chunk.Response)
		if chunk.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read stream: %w", err)
	}

	return strings.TrimSpace(out.String()), nil
}
