package internal

import "strings"

// Sentinel codepoints embedded in message text. The store writes one
// attachmentChar per attached file and one appChar where an extension
// payload renders inline.
const (
	attachmentChar = '￼'
	appChar        = '�'
)

// SegmentKind distinguishes the pieces of a message body.
type SegmentKind int

const (
	// SegmentText is a run of plain text.
	SegmentText SegmentKind = iota
	// SegmentAttachment marks the position of an attached file.
	SegmentAttachment
	// SegmentApp marks the position of an extension payload.
	SegmentApp
)

// BubbleSegment is one ordered piece of a message's visible content. Text is
// set only for SegmentText.
type BubbleSegment struct {
	Kind SegmentKind
	Text string
}

// Body splits the message text into ordered segments around the sentinel
// codepoints. Messages carrying a balloon bundle id render entirely inside
// the extension, so they short-circuit to a single app segment.
func (m *Message) Body() []BubbleSegment {
	if m.BalloonBundleID != nil {
		return []BubbleSegment{{Kind: SegmentApp}}
	}
	if m.Text == nil {
		return nil
	}

	text := *m.Text
	var out []BubbleSegment

	// start/end track the byte range of the pending text run. start > end
	// means no run is open.
	start, end := 0, 0
	for idx, char := range text {
		switch char {
		case attachmentChar, appChar:
			if start < end {
				if run := strings.TrimSpace(text[start:idx]); run != "" {
					out = append(out, BubbleSegment{Kind: SegmentText, Text: run})
				}
			}
			start = idx + 1
			end = idx
			if char == attachmentChar {
				out = append(out, BubbleSegment{Kind: SegmentAttachment})
			} else {
				out = append(out, BubbleSegment{Kind: SegmentApp})
			}
		default:
			if start > end {
				start = idx
			}
			end = idx
		}
	}
	if start <= end && start < len(text) {
		if run := strings.TrimSpace(text[start:]); run != "" {
			out = append(out, BubbleSegment{Kind: SegmentText, Text: run})
		}
	}
	return out
}
