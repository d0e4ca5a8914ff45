package models

// Room groups chats and members.
type Room struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	CreatedAt int64  `db:"created_at" json:"createdAt"`
	OwnerID   string `db:"owner_id" json:"ownerID"`
	IsPublic  bool   `db:"is_public" json:"isPublic"`
}

// RoomUpdate carries a partial room update.
type RoomUpdate struct {
	ID       string  `json:"id"`
	Name     *string `json:"name,omitempty"`
	IsPublic *bool   `json:"isPublic,omitempty"`
}

// RoomMember links a user to a room. Membership is the sole basis for
// "member of room" queries; room ownership is tracked on Room.OwnerID.
type RoomMember struct {
	RoomID   string `db:"room_id" json:"roomID"`
	UserID   string `db:"user_id" json:"userID"`
	JoinedAt int64  `db:"joined_at" json:"joinedAt"`
}
