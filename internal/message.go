package internal

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// messageColumns is the fixed field layout every message query selects, in
// scan order.
const messageColumns = `m.ROWID, m.guid, m.text, m.service, m.handle_id, m.subject,
	m.date, m.date_read, m.date_delivered, m.is_from_me, m.is_read, m.group_title,
	m.associated_message_guid, m.associated_message_type, m.balloon_bundle_id,
	m.expressive_send_style_id, m.thread_originator_guid, m.thread_originator_part`

// messageSelect joins each row to its owning chat and derives the dependent
// row counts the decoders rely on.
const messageSelect = `SELECT ` + messageColumns + `,
	c.chat_id,
	(SELECT COUNT(*) FROM message_attachment_join a WHERE m.ROWID = a.message_id) AS num_attachments,
	(SELECT COUNT(*) FROM message m2 WHERE m2.thread_originator_guid = m.guid) AS num_replies
	FROM message AS m
	LEFT JOIN chat_message_join AS c ON m.ROWID = c.message_id`

// Message is one decoded row of the message table. Raw timestamp columns are
// nanosecond ticks relative to the store's 2001-01-01 epoch; a value of 0
// means the timestamp was never set. Records are immutable once scanned.
type Message struct {
	RowID                 int
	GUID                  string
	Text                  *string
	Service               *string
	HandleID              int
	Subject               *string
	Date                  int64
	DateRead              int64
	DateDelivered         int64
	IsFromMe              bool
	IsRead                bool
	GroupTitle            *string
	AssociatedMessageGUID *string
	AssociatedMessageType int
	BalloonBundleID       *string
	ExpressiveSendStyleID *string
	ThreadOriginatorGUID  *string
	ThreadOriginatorPart  *string
	ChatID                *int
	NumAttachments        int
	NumReplies            int
}

// ReactionCache maps a message guid to the guids of the messages reacting to
// it, in store fetch order. Build it once with BuildReactionCache and share
// it read-only.
type ReactionCache map[string][]string

// AssociationKey is a decoded association identifier: which message a
// reaction or sticker targets, and which sub-part of it.
type AssociationKey struct {
	Part       int
	TargetGUID string
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// scanMessage decodes one row of a messageSelect result.
func scanMessage(rows *sql.Rows) (*Message, error) {
	var (
		text, service, subject    sql.NullString
		groupTitle, assocGUID     sql.NullString
		balloonID, styleID        sql.NullString
		threadGUID, threadPart    sql.NullString
		chatID                    sql.NullInt64
		isFromMe, isRead          int
		m                         Message
	)
	err := rows.Scan(
		&m.RowID, &m.GUID, &text, &service, &m.HandleID, &subject,
		&m.Date, &m.DateRead, &m.DateDelivered, &isFromMe, &isRead, &groupTitle,
		&assocGUID, &m.AssociatedMessageType, &balloonID,
		&styleID, &threadGUID, &threadPart,
		&chatID, &m.NumAttachments, &m.NumReplies,
	)
	if err != nil {
		return nil, &DecodeError{Table: "message", Err: err}
	}
	m.Text = nullableString(text)
	m.Service = nullableString(service)
	m.Subject = nullableString(subject)
	m.GroupTitle = nullableString(groupTitle)
	m.AssociatedMessageGUID = nullableString(assocGUID)
	m.BalloonBundleID = nullableString(balloonID)
	m.ExpressiveSendStyleID = nullableString(styleID)
	m.ThreadOriginatorGUID = nullableString(threadGUID)
	m.ThreadOriginatorPart = nullableString(threadPart)
	m.IsFromMe = isFromMe != 0
	m.IsRead = isRead != 0
	if chatID.Valid {
		id := int(chatID.Int64)
		m.ChatID = &id
	}
	return &m, nil
}

// ForEachMessage streams every message row in timestamp order. Rows that
// fail to decode are passed to fn as a *DecodeError with a nil message, so
// the caller decides whether to skip or abort. fn returning a non-nil error
// stops iteration.
func ForEachMessage(db *sql.DB, fn func(*Message, error) error) error {
	rows, err := db.Query(messageSelect + " ORDER BY m.date")
	if err != nil {
		return &StorageError{Table: "message", Op: "query", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(scanMessage(rows)); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return &StorageError{Table: "message", Op: "iterate", Err: err}
	}
	return nil
}

// FetchMessage fetches the single row with the given guid. Returns nil with
// no error when the guid is absent.
func FetchMessage(db *sql.DB, guid string) (*Message, error) {
	rows, err := db.Query(messageSelect+" WHERE m.guid = ?", guid)
	if err != nil {
		return nil, &StorageError{Table: "message", Op: "query", Err: err}
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, &StorageError{Table: "message", Op: "iterate", Err: err}
		}
		return nil, nil
	}
	return scanMessage(rows)
}

// MessageCount returns the number of rows in the message table.
func MessageCount(db *sql.DB) (int64, error) {
	var count int64
	if err := db.QueryRow("SELECT COUNT(*) FROM message").Scan(&count); err != nil {
		return 0, &StorageError{Table: "message", Op: "count", Err: err}
	}
	return count, nil
}

// DanglingMessageCount reports how many messages are not joined to any
// chat. Used by the diagnose command.
func DanglingMessageCount(db *sql.DB) (int64, error) {
	var count int64
	err := db.QueryRow(`SELECT COUNT(m.ROWID)
		FROM message AS m
		LEFT JOIN chat_message_join AS c ON m.ROWID = c.message_id
		WHERE c.chat_id IS NULL`).Scan(&count)
	if err != nil {
		return 0, &StorageError{Table: "message", Op: "diagnostic", Err: err}
	}
	return count, nil
}

// cleanAssociatedGUID decodes the associated_message_guid column. Three
// formats exist:
//
//   - "p:<n>/<guid>" for ordinary messages, where n indexes the target's
//     parts: 0..N-1 are its attachments and N is the trailing text body
//   - "bp:<guid>" for reactions on balloon payloads, never sub-indexed
//   - a bare guid, treated as part 0
//
// A missing identifier is not an error; it just means no association.
func (m *Message) cleanAssociatedGUID() (AssociationKey, bool) {
	if m.AssociatedMessageGUID == nil {
		return AssociationKey{}, false
	}
	guid := *m.AssociatedMessageGUID
	switch {
	case strings.HasPrefix(guid, "p:"):
		indexPart, target, _ := strings.Cut(guid, "/")
		index, err := strconv.Atoi(strings.TrimPrefix(indexPart, "p:"))
		if err != nil {
			index = 0
		}
		return AssociationKey{Part: index, TargetGUID: target}, true
	case strings.HasPrefix(guid, "bp:"):
		return AssociationKey{TargetGUID: guid[3:]}, true
	default:
		return AssociationKey{TargetGUID: guid}, true
	}
}

// reactionIndex is the sub-part index a reaction or sticker points at.
func (m *Message) reactionIndex() int {
	key, ok := m.cleanAssociatedGUID()
	if !ok {
		return 0
	}
	return key.Part
}

// ReplyIndex is the sub-part index of the thread originator this reply
// attaches to, parsed from the portion of thread_originator_part before the
// first ':'. Unparseable or missing specifiers default to 0.
func (m *Message) ReplyIndex() int {
	if m.ThreadOriginatorPart == nil {
		return 0
	}
	head, _, _ := strings.Cut(*m.ThreadOriginatorPart, ":")
	index, err := strconv.Atoi(head)
	if err != nil {
		return 0
	}
	return index
}

// IsReply reports whether the message replies to a thread originator.
func (m *Message) IsReply() bool {
	return m.ThreadOriginatorGUID != nil
}

// IsAnnouncement reports whether the message renames a group chat.
func (m *Message) IsAnnouncement() bool {
	return m.GroupTitle != nil
}

// IsSticker reports whether the message is a sticker.
func (m *Message) IsSticker() bool {
	return m.Variant().Kind == VariantSticker
}

// IsReaction reports whether the message reacts to another message. A
// sticker carrying an association guid always counts as a reaction; it has
// no foreign-key row of its own.
func (m *Message) IsReaction() bool {
	if m.Variant().Kind == VariantReaction {
		return true
	}
	return m.IsSticker() && m.AssociatedMessageGUID != nil
}

// IsExpressive reports whether the message carries a send effect.
func (m *Message) IsExpressive() bool {
	return m.ExpressiveSendStyleID != nil
}

// IsURL reports whether the message renders as a URL preview.
func (m *Message) IsURL() bool {
	v := m.Variant()
	return v.Kind == VariantApp && (v.Balloon == BalloonURL || v.Balloon == BalloonMusic)
}

// HasAttachments reports whether any attachment rows reference the message.
func (m *Message) HasAttachments() bool {
	return m.NumAttachments > 0
}

func (m *Message) hasReplies() bool {
	return m.NumReplies > 0
}

// DateAuthored converts the authored timestamp to local time.
func (m *Message) DateAuthored(offset int64) (time.Time, bool) {
	return toLocalTime(m.Date, offset)
}

// DateDeliveredAt converts the delivered timestamp to local time.
func (m *Message) DateDeliveredAt(offset int64) (time.Time, bool) {
	return toLocalTime(m.DateDelivered, offset)
}

// DateReadAt converts the read timestamp to local time.
func (m *Message) DateReadAt(offset int64) (time.Time, bool) {
	return toLocalTime(m.DateRead, offset)
}

// TimeUntilRead renders how long the message sat before being read. For
// received messages this is authored → read; for sent messages it is
// authored → delivered. Not every message acquires these timestamps — in a
// run of unread messages only the most recent one is tagged — so absence is
// common and reported via ok=false.
func (m *Message) TimeUntilRead(offset int64) (string, bool) {
	if !m.IsFromMe && m.DateRead != 0 && m.Date != 0 {
		return m.diffDates(m.Date, m.DateRead, offset)
	}
	if m.IsFromMe && m.DateDelivered != 0 && m.Date != 0 {
		return m.diffDates(m.Date, m.DateDelivered, offset)
	}
	return "", false
}

func (m *Message) diffDates(fromStamp, toStamp, offset int64) (string, bool) {
	from, ok := toLocalTime(fromStamp, offset)
	if !ok {
		return "", false
	}
	to, ok := toLocalTime(toStamp, offset)
	if !ok {
		return "", false
	}
	return ReadableDiff(from, to)
}

// BuildReactionCache scans every row carrying an association identifier and
// indexes reacting message guids by the guid of their target. Append order
// matches store fetch order. The result is read-only; pass it to Reactions.
func BuildReactionCache(db *sql.DB) (ReactionCache, error) {
	cache := make(ReactionCache)
	rows, err := db.Query(messageSelect + " WHERE m.associated_message_guid IS NOT NULL")
	if err != nil {
		return nil, &StorageError{Table: "message", Op: "query", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		if !m.IsReaction() {
			continue
		}
		if key, ok := m.cleanAssociatedGUID(); ok {
			cache[key.TargetGUID] = append(cache[key.TargetGUID], m.GUID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Table: "message", Op: "iterate", Err: err}
	}
	return cache, nil
}

// Reactions resolves the messages reacting to this one, grouped by the
// sub-part index each reaction targets. The cached guids are re-fetched so
// callers get full records; rows that no longer classify as reactions or
// stickers are dropped.
func (m *Message) Reactions(db *sql.DB, cache ReactionCache) (map[int][]*Message, error) {
	out := make(map[int][]*Message)
	guids := cache[m.GUID]
	if len(guids) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(guids)), ",")
	args := make([]any, len(guids))
	for i, guid := range guids {
		args[i] = guid
	}

	rows, err := db.Query(
		messageSelect+" WHERE m.guid IN ("+placeholders+") ORDER BY m.date", args...)
	if err != nil {
		return nil, &StorageError{Table: "message", Op: "query", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		reaction, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		switch v := reaction.Variant(); v.Kind {
		case VariantReaction, VariantSticker:
			out[v.Part] = append(out[v.Part], reaction)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Table: "message", Op: "iterate", Err: err}
	}
	return out, nil
}

// Replies resolves the messages replying to this one, grouped by the
// sub-part index each reply attaches to. The store is only queried when the
// derived reply count says there is something to find.
func (m *Message) Replies(db *sql.DB) (map[int][]*Message, error) {
	out := make(map[int][]*Message)
	if !m.hasReplies() {
		return out, nil
	}

	rows, err := db.Query(
		messageSelect+" WHERE m.thread_originator_guid = ? ORDER BY m.date", m.GUID)
	if err != nil {
		return nil, &StorageError{Table: "message", Op: "query", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		reply, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		idx := reply.ReplyIndex()
		out[idx] = append(out[idx], reply)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Table: "message", Op: "iterate", Err: err}
	}
	return out, nil
}

// PayloadData fetches the raw payload_data BLOB for the message. The byte
// layout is opaque here; nil means the row has no payload or the fetch
// failed, and callers treat both the same.
func (m *Message) PayloadData(db *sql.DB) []byte {
	var payload []byte
	err := db.QueryRow(
		"SELECT payload_data FROM message WHERE ROWID = ?", m.RowID).Scan(&payload)
	if err != nil {
		return nil
	}
	return payload
}
