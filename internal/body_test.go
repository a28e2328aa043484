package internal

import (
	"reflect"
	"testing"
)

func strPtr(s string) *string {
	return &s
}

func blankMessage() *Message {
	return &Message{
		GUID:    "test-guid",
		Service: strPtr("iMessage"),
	}
}

func TestBody_TextOnly(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []BubbleSegment
	}{
		{
			name: "plain text",
			text: "Hello world",
			want: []BubbleSegment{{Kind: SegmentText, Text: "Hello world"}},
		},
		{
			name: "single emoji",
			text: "🙈",
			want: []BubbleSegment{{Kind: SegmentText, Text: "🙈"}},
		},
		{
			name: "multiple emoji",
			text: "🙈🙈🙈",
			want: []BubbleSegment{{Kind: SegmentText, Text: "🙈🙈🙈"}},
		},
		{
			name: "surrounding whitespace trimmed",
			text: "  Hello world  ",
			want: []BubbleSegment{{Kind: SegmentText, Text: "Hello world"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := blankMessage()
			m.Text = strPtr(tt.text)
			if got := m.Body(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Body() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBody_NoText(t *testing.T) {
	m := blankMessage()
	if got := m.Body(); len(got) != 0 {
		t.Errorf("Body() = %v, want empty", got)
	}
}

func TestBody_AttachmentThenText(t *testing.T) {
	m := blankMessage()
	m.Text = strPtr("￼Hello world")
	want := []BubbleSegment{
		{Kind: SegmentAttachment},
		{Kind: SegmentText, Text: "Hello world"},
	}
	if got := m.Body(); !reflect.DeepEqual(got, want) {
		t.Errorf("Body() = %v, want %v", got, want)
	}
}

func TestBody_AppThenText(t *testing.T) {
	m := blankMessage()
	m.Text = strPtr("�Hello world")
	want := []BubbleSegment{
		{Kind: SegmentApp},
		{Kind: SegmentText, Text: "Hello world"},
	}
	if got := m.Body(); !reflect.DeepEqual(got, want) {
		t.Errorf("Body() = %v, want %v", got, want)
	}
}

func TestBody_MixedStartingWithText(t *testing.T) {
	m := blankMessage()
	m.Text = strPtr("One�￼Two￼Three￼four")
	want := []BubbleSegment{
		{Kind: SegmentText, Text: "One"},
		{Kind: SegmentApp},
		{Kind: SegmentAttachment},
		{Kind: SegmentText, Text: "Two"},
		{Kind: SegmentAttachment},
		{Kind: SegmentText, Text: "Three"},
		{Kind: SegmentAttachment},
		{Kind: SegmentText, Text: "four"},
	}
	if got := m.Body(); !reflect.DeepEqual(got, want) {
		t.Errorf("Body() = %v, want %v", got, want)
	}
}

func TestBody_MixedStartingWithApp(t *testing.T) {
	m := blankMessage()
	m.Text = strPtr("�￼Two￼Three￼")
	want := []BubbleSegment{
		{Kind: SegmentApp},
		{Kind: SegmentAttachment},
		{Kind: SegmentText, Text: "Two"},
		{Kind: SegmentAttachment},
		{Kind: SegmentText, Text: "Three"},
		{Kind: SegmentAttachment},
	}
	if got := m.Body(); !reflect.DeepEqual(got, want) {
		t.Errorf("Body() = %v, want %v", got, want)
	}
}

func TestBody_ConsecutiveSentinels(t *testing.T) {
	m := blankMessage()
	m.Text = strPtr("￼￼￼")
	want := []BubbleSegment{
		{Kind: SegmentAttachment},
		{Kind: SegmentAttachment},
		{Kind: SegmentAttachment},
	}
	if got := m.Body(); !reflect.DeepEqual(got, want) {
		t.Errorf("Body() = %v, want %v", got, want)
	}
}

func TestBody_BalloonShortCircuits(t *testing.T) {
	m := blankMessage()
	m.BalloonBundleID = strPtr("com.apple.messages.URLBalloonProvider")
	m.Text = strPtr("Some text￼with an attachment")
	want := []BubbleSegment{{Kind: SegmentApp}}
	if got := m.Body(); !reflect.DeepEqual(got, want) {
		t.Errorf("Body() = %v, want %v", got, want)
	}
}
