// Package export renders a session's saved chats as downloadable YAML,
// Parquet, Markdown or HTML documents.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/lehigh-university-libraries/ocrchat/internal/models"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// Format identifies an export encoding
type Format string

const (
	FormatYAML     Format = "yaml"
	FormatParquet  Format = "parquet"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

// ParseFormat maps a query value onto a Format, defaulting to YAML
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatYAML:
		return FormatYAML, nil
	case FormatParquet:
		return FormatParquet, nil
	case FormatMarkdown, "markdown":
		return FormatMarkdown, nil
	case FormatHTML:
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s (supported: yaml, parquet, md, html)", s)
	}
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	switch f {
	case FormatParquet:
		return "application/vnd.apache.parquet"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "application/yaml"
	}
}

// Transcript is the YAML document written for a session
type Transcript struct {
	Session    string             `yaml:"session"`
	ExportedAt string             `yaml:"exported_at"`
	Chats      []models.SavedChat `yaml:"chats"`
}

// MessageRow is one Parquet row: a single message of a saved chat
type MessageRow struct {
	ChatIndex int    `parquet:"chat_index"`
	Title     string `parquet:"title"`
	Position  int    `parquet:"position"`
	Role      string `parquet:"role"`
	Content   string `parquet:"content"`
}

// Write encodes chats in format f
func Write(w io.Writer, f Format, sessionID string, chats []models.SavedChat, now time.Time) error {
	switch f {
	case FormatParquet:
		return WriteParquet(w, chats)
	case FormatMarkdown:
		return WriteMarkdown(w, sessionID, chats, now)
	case FormatHTML:
		return WriteHTML(w, sessionID, chats, now)
	default:
		return WriteYAML(w, sessionID, chats, now)
	}
}

// WriteYAML writes the chats as a single YAML transcript
func WriteYAML(w io.Writer, sessionID string, chats []models.SavedChat, now time.Time) error {
	doc := Transcript{
		Session:    sessionID,
		ExportedAt: now.Format(time.RFC3339),
		Chats:      chats,
	}
	if doc.Chats == nil {
		doc.Chats = []models.SavedChat{}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}

// Rows flattens chats into one row per message
func Rows(chats []models.SavedChat) []MessageRow {
	var rows []MessageRow
	for i, c := range chats {
		for j, m := range c.Messages {
			rows = append(rows, MessageRow{
				ChatIndex: i,
				Title:     c.Title,
				Position:  j,
				Role:      string(m.Role),
				Content:   m.Content,
			})
		}
	}
	return rows
}

// WriteParquet writes the chats as a Parquet file of MessageRow
func WriteParquet(w io.Writer, chats []models.SavedChat) error {
	if err := parquet.Write(w, Rows(chats)); err != nil {
		return fmt.Errorf("failed to write parquet: %w", err)
	}
	return nil
}
