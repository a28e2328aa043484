package internal

import (
	"database/sql"
	"fmt"
)

// RenderedPart is one segment of a message body with the reactions and
// replies that attach to it.
type RenderedPart struct {
	Kind      string       `json:"kind" yaml:"kind"`
	Text      string       `json:"text,omitempty" yaml:"text,omitempty"`
	Reactions []string     `json:"reactions,omitempty" yaml:"reactions,omitempty"`
	Replies   []ReplyEntry `json:"replies,omitempty" yaml:"replies,omitempty"`
}

// ReplyEntry is a reply rendered as a child of the part it attaches to.
type ReplyEntry struct {
	GUID   string `json:"guid" yaml:"guid"`
	Date   string `json:"date,omitempty" yaml:"date,omitempty"`
	FromMe bool   `json:"from_me" yaml:"from_me"`
	Text   string `json:"text,omitempty" yaml:"text,omitempty"`
}

// TranscriptMessage is one fully decoded message ready for rendering.
type TranscriptMessage struct {
	GUID          string         `json:"guid" yaml:"guid"`
	Date          string         `json:"date,omitempty" yaml:"date,omitempty"`
	FromMe        bool           `json:"from_me" yaml:"from_me"`
	Service       string         `json:"service,omitempty" yaml:"service,omitempty"`
	Subject       string         `json:"subject,omitempty" yaml:"subject,omitempty"`
	Variant       string         `json:"variant" yaml:"variant"`
	Expressive    string         `json:"expressive,omitempty" yaml:"expressive,omitempty"`
	TimeUntilRead string         `json:"time_until_read,omitempty" yaml:"time_until_read,omitempty"`
	GroupTitle    string         `json:"group_title,omitempty" yaml:"group_title,omitempty"`
	ChatID        *int           `json:"chat_id,omitempty" yaml:"chat_id,omitempty"`
	Parts         []RenderedPart `json:"parts" yaml:"parts"`
}

// Transcript is the renderer-facing view of the whole store: every
// standalone message in timestamp order, with reactions and replies folded
// into the parts they target. Rows that are themselves reactions or replies
// appear only as children of their targets.
type Transcript struct {
	Messages []TranscriptMessage `json:"messages" yaml:"messages"`
}

func segmentKindLabel(kind SegmentKind) string {
	switch kind {
	case SegmentText:
		return "text"
	case SegmentAttachment:
		return "attachment"
	case SegmentApp:
		return "app"
	}
	return "unknown"
}

func describeReaction(m *Message) string {
	v := m.Variant()
	if v.Kind == VariantSticker {
		return "Sticker"
	}
	return v.String()
}

func newReplyEntry(m *Message, offset int64) ReplyEntry {
	entry := ReplyEntry{GUID: m.GUID, FromMe: m.IsFromMe}
	entry.Date = FormatDate(m.DateAuthored(offset))
	if m.Text != nil {
		entry.Text = *m.Text
	}
	return entry
}

// renderMessage assembles the decoded view of one message, resolving its
// reaction and reply maps against the store.
func renderMessage(db *sql.DB, m *Message, cache ReactionCache, offset int64) (TranscriptMessage, error) {
	out := TranscriptMessage{
		GUID:    m.GUID,
		FromMe:  m.IsFromMe,
		Variant: m.Variant().String(),
		ChatID:  m.ChatID,
	}
	out.Date = FormatDate(m.DateAuthored(offset))
	_, out.Service = m.ServiceName()
	if m.Subject != nil {
		out.Subject = *m.Subject
	}
	if m.GroupTitle != nil {
		out.GroupTitle = *m.GroupTitle
	}
	out.Expressive = m.Expressive().String()
	if diff, ok := m.TimeUntilRead(offset); ok {
		out.TimeUntilRead = diff
	}

	reactions, err := m.Reactions(db, cache)
	if err != nil {
		return out, fmt.Errorf("resolving reactions for %s: %w", m.GUID, err)
	}
	replies, err := m.Replies(db)
	if err != nil {
		return out, fmt.Errorf("resolving replies for %s: %w", m.GUID, err)
	}

	for idx, segment := range m.Body() {
		part := RenderedPart{
			Kind: segmentKindLabel(segment.Kind),
			Text: segment.Text,
		}
		for _, reaction := range reactions[idx] {
			part.Reactions = append(part.Reactions, describeReaction(reaction))
		}
		for _, reply := range replies[idx] {
			part.Replies = append(part.Replies, newReplyEntry(reply, offset))
		}
		out.Parts = append(out.Parts, part)
	}

	return out, nil
}

// BuildTranscript decodes the entire store into a Transcript. Rows that
// fail to scan are logged and skipped; store-level failures abort.
func BuildTranscript(db *sql.DB, cache ReactionCache, offset int64) (*Transcript, error) {
	transcript := &Transcript{}
	err := ForEachMessage(db, func(m *Message, err error) error {
		if err != nil {
			LogWarn("Skipping undecodable row: %v", err)
			return nil
		}
		// Reactions and replies surface under their targets
		if m.IsReaction() || m.IsReply() {
			return nil
		}
		rendered, err := renderMessage(db, m, cache, offset)
		if err != nil {
			return err
		}
		transcript.Messages = append(transcript.Messages, rendered)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transcript, nil
}
