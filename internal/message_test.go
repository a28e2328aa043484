package internal

import "testing"

func TestCleanAssociatedGUID(t *testing.T) {
	tests := []struct {
		name   string
		guid   *string
		want   AssociationKey
		wantOK bool
	}{
		{
			name:   "absent",
			guid:   nil,
			wantOK: false,
		},
		{
			name:   "part prefix",
			guid:   strPtr("p:2/ABCD"),
			want:   AssociationKey{Part: 2, TargetGUID: "ABCD"},
			wantOK: true,
		},
		{
			name:   "part zero",
			guid:   strPtr("p:0/FFFF-1111"),
			want:   AssociationKey{Part: 0, TargetGUID: "FFFF-1111"},
			wantOK: true,
		},
		{
			name:   "balloon prefix",
			guid:   strPtr("bp:XYZ"),
			want:   AssociationKey{Part: 0, TargetGUID: "XYZ"},
			wantOK: true,
		},
		{
			name:   "bare guid",
			guid:   strPtr("PLAINGUID"),
			want:   AssociationKey{Part: 0, TargetGUID: "PLAINGUID"},
			wantOK: true,
		},
		{
			name:   "unparseable index defaults to zero",
			guid:   strPtr("p:x/ABCD"),
			want:   AssociationKey{Part: 0, TargetGUID: "ABCD"},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := blankMessage()
			m.AssociatedMessageGUID = tt.guid
			got, ok := m.cleanAssociatedGUID()
			if ok != tt.wantOK {
				t.Fatalf("cleanAssociatedGUID() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("cleanAssociatedGUID() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReplyIndex(t *testing.T) {
	tests := []struct {
		name string
		part *string
		want int
	}{
		{"absent", nil, 0},
		{"simple index", strPtr("2:0:0"), 2},
		{"zero index", strPtr("0:0:0"), 0},
		{"bare number", strPtr("3"), 3},
		{"unparseable", strPtr("x:0"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := blankMessage()
			m.ThreadOriginatorPart = tt.part
			if got := m.ReplyIndex(); got != tt.want {
				t.Errorf("ReplyIndex() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsReaction(t *testing.T) {
	// Reaction codes always count
	m := blankMessage()
	m.AssociatedMessageType = 2001
	if !m.IsReaction() {
		t.Error("IsReaction() = false for a Liked reaction")
	}

	// Stickers only count when they carry an association guid
	sticker := blankMessage()
	sticker.AssociatedMessageType = 1000
	if sticker.IsReaction() {
		t.Error("IsReaction() = true for a sticker without an association guid")
	}
	sticker.AssociatedMessageGUID = strPtr("bp:XYZ")
	if !sticker.IsReaction() {
		t.Error("IsReaction() = false for a sticker with an association guid")
	}

	if blankMessage().IsReaction() {
		t.Error("IsReaction() = true for a normal message")
	}
}

func TestPredicates(t *testing.T) {
	m := blankMessage()
	if m.IsReply() || m.IsAnnouncement() || m.IsExpressive() || m.HasAttachments() {
		t.Error("blank message should have no predicates set")
	}

	m.ThreadOriginatorGUID = strPtr("ABCD")
	if !m.IsReply() {
		t.Error("IsReply() = false with a thread originator guid")
	}

	m.GroupTitle = strPtr("New group name")
	if !m.IsAnnouncement() {
		t.Error("IsAnnouncement() = false with a group title")
	}

	m.ExpressiveSendStyleID = strPtr("com.apple.MobileSMS.expressivesend.loud")
	if !m.IsExpressive() {
		t.Error("IsExpressive() = false with a style id")
	}

	m.NumAttachments = 2
	if !m.HasAttachments() {
		t.Error("HasAttachments() = false with attachments")
	}
}

func TestIsURL(t *testing.T) {
	m := blankMessage()
	m.BalloonBundleID = strPtr("com.apple.messages.URLBalloonProvider")
	if !m.IsURL() {
		t.Error("IsURL() = false for a URL balloon")
	}

	m.Text = strPtr("https://music.apple.com/track")
	if !m.IsURL() {
		t.Error("IsURL() = false for a music balloon")
	}

	if blankMessage().IsURL() {
		t.Error("IsURL() = true for a normal message")
	}
}

func TestTimeUntilRead_Received(t *testing.T) {
	offset := EpochOffset()

	m := blankMessage()
	// May 17, 2022 8:29:42 PM
	m.Date = 674526582885055488
	// May 17, 2022 8:29:42 PM
	m.DateDelivered = 674526582885055488
	// May 17, 2022 9:30:31 PM
	m.DateRead = 674530231992568192

	got, ok := m.TimeUntilRead(offset)
	if !ok {
		t.Fatal("TimeUntilRead() ok = false")
	}
	if got != "1 hour, 49 seconds" {
		t.Errorf("TimeUntilRead() = %q, want %q", got, "1 hour, 49 seconds")
	}
}

func TestTimeUntilRead_ReadBeforeAuthored(t *testing.T) {
	offset := EpochOffset()

	m := blankMessage()
	m.Date = 674530231992568192
	m.DateDelivered = 674530231992568192
	m.DateRead = 674526582885055488

	if _, ok := m.TimeUntilRead(offset); ok {
		t.Error("TimeUntilRead() ok = true for out-of-order timestamps")
	}
}

func TestTimeUntilRead_Sent(t *testing.T) {
	offset := EpochOffset()

	m := blankMessage()
	m.IsFromMe = true
	m.Date = 674526582885055488
	m.DateDelivered = 674526601885055488

	got, ok := m.TimeUntilRead(offset)
	if !ok {
		t.Fatal("TimeUntilRead() ok = false for sent message with delivery stamp")
	}
	if got != "19 seconds" {
		t.Errorf("TimeUntilRead() = %q, want %q", got, "19 seconds")
	}
}

func TestTimeUntilRead_UnsetStamps(t *testing.T) {
	offset := EpochOffset()

	m := blankMessage()
	m.Date = 674526582885055488
	if _, ok := m.TimeUntilRead(offset); ok {
		t.Error("TimeUntilRead() ok = true with no read stamp")
	}

	sent := blankMessage()
	sent.IsFromMe = true
	sent.Date = 674526582885055488
	if _, ok := sent.TimeUntilRead(offset); ok {
		t.Error("TimeUntilRead() ok = true with no delivery stamp")
	}
}
