package models

// Stream states of a message. The zero value marks a message inserted fully
// formed in one step; generating/complete/failed track asynchronous
// completion. Generating is the only non-terminal state.
const (
	StreamStateNone       = ""
	StreamStateGenerating = "generating"
	StreamStateComplete   = "complete"
	StreamStateFailed     = "failed"
)

// Message is a chat message. ParentID, when non-empty, points at an earlier
// message in the same chat; the parent edges form a forest whose side
// branches represent alternate conversational continuations.
type Message struct {
	ID           string `db:"id" json:"id"`
	ChatID       string `db:"chat_id" json:"chatID"`
	RoomID       string `db:"room_id" json:"roomID"`
	SenderID     string `db:"sender_id" json:"senderID"`
	Body         string `db:"body" json:"body"`
	Timestamp    int64  `db:"timestamp" json:"timestamp"`
	Model        string `db:"model" json:"model"`
	ParentID     string `db:"parent_id" json:"parentID"`
	AttachmentID string `db:"attachment_id" json:"attachmentID"`
	WebSearchID  string `db:"web_search_id" json:"webSearchID"`
	ImageID      string `db:"image_id" json:"imageID"`
	StreamState  string `db:"stream_state" json:"streamState"`
	IsComplete   bool   `db:"is_complete" json:"isComplete"`
}

// MessageUpdate carries a partial message update; nil fields are left
// untouched. Lifecycle fields are not editable here, only through
// message.updateStreamState.
type MessageUpdate struct {
	ID           string  `json:"id"`
	Body         *string `json:"body,omitempty"`
	Model        *string `json:"model,omitempty"`
	AttachmentID *string `json:"attachmentID,omitempty"`
	WebSearchID  *string `json:"webSearchID,omitempty"`
	ImageID      *string `json:"imageID,omitempty"`
}
