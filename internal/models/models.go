package models

import "strings"

// Role identifies the author of a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TitleLength is the number of characters of the first message kept in a saved chat title
const TitleLength = 50

// Message is a single turn in a conversation
type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// SavedChat is an archived snapshot of a conversation
type SavedChat struct {
	Title    string    `json:"title" yaml:"title"`
	Messages []Message `json:"messages" yaml:"messages"`
}

// IndexedChat pairs a saved chat with its position in the archive
type IndexedChat struct {
	Index int       `json:"index"`
	Chat  SavedChat `json:"chat"`
}

// ExtractedText holds the lines recognized in a single image
type ExtractedText struct {
	Lines []string `json:"lines"`
}

// Text returns the recognized lines joined by newlines
func (e ExtractedText) Text() string {
	return strings.Join(e.Lines, "\n")
}

// Empty reports whether no text was recognized
func (e ExtractedText) Empty() bool {
	return len(e.Lines) == 0
}

// CopyMessages returns a copy of msgs that shares no backing array with it
func CopyMessages(msgs []Message) []Message {
	if msgs == nil {
		return nil
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// ChatTitle derives a saved chat title from the first message content
func ChatTitle(content string) string {
	runes := []rune(content)
	if len(runes) > TitleLength {
		return string(runes[:TitleLength]) + "..."
	}
	return content
}

// Snapshot returns a deep copy of the chat
func (c SavedChat) Snapshot() SavedChat {
	return SavedChat{
		Title:    c.Title,
		Messages: CopyMessages(c.Messages),
	}
}
