package export

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/ocrchat/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown renders the chats as a single Markdown document. Message content
// is written as-is so replies that already use Markdown keep their formatting.
func Markdown(sessionID string, chats []models.SavedChat, now time.Time) []byte {
	var sb strings.Builder

	sb.WriteString("# Chat history\n\n")
	fmt.Fprintf(&sb, "- **Session**: %s\n", sessionID)
	fmt.Fprintf(&sb, "- **Exported**: %s\n", now.Format(time.RFC3339))
	fmt.Fprintf(&sb, "- **Chats**: %d\n\n", len(chats))

	for i, c := range chats {
		sb.WriteString("---\n\n")
		fmt.Fprintf(&sb, "## %d. %s\n\n", i+1, escapeMarkdown(c.Title))
		for _, m := range c.Messages {
			fmt.Fprintf(&sb, "### %s\n\n", roleHeading(m.Role))
			sb.WriteString(strings.TrimSpace(m.Content))
			sb.WriteString("\n\n")
		}
	}

	return []byte(sb.String())
}

// WriteMarkdown writes the Markdown transcript
func WriteMarkdown(w io.Writer, sessionID string, chats []models.SavedChat, now time.Time) error {
	if _, err := w.Write(Markdown(sessionID, chats, now)); err != nil {
		return fmt.Errorf("failed to write markdown: %w", err)
	}
	return nil
}

// WriteHTML converts the Markdown transcript into a standalone HTML page.
// Raw HTML inside messages is dropped by the renderer.
func WriteHTML(w io.Writer, sessionID string, chats []models.SavedChat, now time.Time) error {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)

	var body bytes.Buffer
	if err := md.Convert(Markdown(sessionID, chats, now), &body); err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	_, err := fmt.Fprintf(w, htmlPage, html.EscapeString("Chat history "+sessionID), body.String())
	if err != nil {
		return fmt.Errorf("failed to write html: %w", err)
	}
	return nil
}

func roleHeading(r models.Role) string {
	if r == models.RoleUser {
		return "You"
	}
	return "Assistant"
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"#", `\#`,
	"<", `\<`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.5; }
h3 { font-size: 0.9rem; text-transform: uppercase; color: #555; margin-bottom: 0.25rem; }
pre { background: #f4f4f4; padding: 0.75rem; overflow-x: auto; }
</style>
</head>
<body>
%s</body>
</html>
`
