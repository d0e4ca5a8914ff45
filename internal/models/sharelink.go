package models

// ShareLink exposes a chat to other users through an opaque link id.
type ShareLink struct {
	ID                 string `db:"id" json:"id"`
	ChatID             string `db:"chat_id" json:"chatID"`
	CreatedBy          string `db:"created_by" json:"createdBy"`
	CreatedAt          int64  `db:"created_at" json:"createdAt"`
	IsPublic           bool   `db:"is_public" json:"isPublic"`
	AllowCollaboration bool   `db:"allow_collaboration" json:"allowCollaboration"`
}
