package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/imessage-tools/imessage-session/internal"
)

// MarkdownExporter exports transcripts in Markdown format
type MarkdownExporter struct{}

// Export exports a transcript to Markdown format
func (e *MarkdownExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Messages\n\n")
	_, _ = fmt.Fprintf(w, "**Count:** %d\n\n", len(transcript.Messages))
	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, msg := range transcript.Messages {
		sender := "Them"
		if msg.FromMe {
			sender = "Me"
		}
		timestamp := ""
		if msg.Date != "" {
			timestamp = fmt.Sprintf(" (%s)", msg.Date)
		}
		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n", sender, timestamp)

		if msg.GroupTitle != "" {
			_, _ = fmt.Fprintf(w, "_Renamed the conversation to %q_\n\n", msg.GroupTitle)
		}
		if msg.Subject != "" {
			_, _ = fmt.Fprintf(w, "**Subject:** %s\n\n", escapeMarkdown(msg.Subject))
		}
		if msg.Variant != "Normal" {
			_, _ = fmt.Fprintf(w, "_%s_\n\n", msg.Variant)
		}
		if msg.Expressive != "" {
			_, _ = fmt.Fprintf(w, "_Sent with %s_\n\n", msg.Expressive)
		}

		for _, part := range msg.Parts {
			switch part.Kind {
			case "text":
				_, _ = fmt.Fprintf(w, "%s\n\n", escapeMarkdown(part.Text))
			case "attachment":
				_, _ = fmt.Fprintf(w, "_[attachment]_\n\n")
			case "app":
				_, _ = fmt.Fprintf(w, "_[app payload]_\n\n")
			}
			if len(part.Reactions) > 0 {
				_, _ = fmt.Fprintf(w, "> Reactions: %s\n\n", strings.Join(part.Reactions, ", "))
			}
			for _, reply := range part.Replies {
				replySender := "Them"
				if reply.FromMe {
					replySender = "Me"
				}
				_, _ = fmt.Fprintf(w, "> **%s:** %s\n\n", replySender, escapeMarkdown(reply.Text))
			}
		}

		if msg.TimeUntilRead != "" {
			_, _ = fmt.Fprintf(w, "_Read after %s_\n\n", msg.TimeUntilRead)
		}

		if i < len(transcript.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes markdown emphasis markers in message text
func escapeMarkdown(text string) string {
	text = strings.ReplaceAll(text, "**", "\\*\\*")
	text = strings.ReplaceAll(text, "__", "\\_\\_")
	return text
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
