package models

// Chat is a single conversation inside a room.
type Chat struct {
	ID        string `db:"id" json:"id"`
	Title     string `db:"title" json:"title"`
	RoomID    string `db:"room_id" json:"roomID"`
	OwnerID   string `db:"owner_id" json:"ownerID"`
	CreatedAt int64  `db:"created_at" json:"createdAt"`
}

// ChatUpdate carries a partial chat update.
type ChatUpdate struct {
	ID    string  `json:"id"`
	Title *string `json:"title,omitempty"`
}
