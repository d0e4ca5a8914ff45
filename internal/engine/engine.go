package engine

import (
	"context"

	"branch-chat-service/internal/models"
)

// Tx is the transaction handle handed to mutators: row-by-key reads and
// single-row writes scoped to the entity tables. Lookups report absence via
// the bool, not an error, because an absent row is a normal outcome for the
// mutator contract (someone already deleted it).
type Tx interface {
	GetUser(ctx context.Context, id string) (models.User, bool, error)
	InsertUser(ctx context.Context, user models.User) error
	UpdateUser(ctx context.Context, user models.User) error

	GetRoom(ctx context.Context, id string) (models.Room, bool, error)
	InsertRoom(ctx context.Context, room models.Room) error
	UpdateRoom(ctx context.Context, room models.Room) error
	DeleteRoom(ctx context.Context, id string) error

	InsertRoomMember(ctx context.Context, member models.RoomMember) error
	DeleteRoomMember(ctx context.Context, roomID, userID string) error

	GetChat(ctx context.Context, id string) (models.Chat, bool, error)
	InsertChat(ctx context.Context, chat models.Chat) error
	UpdateChat(ctx context.Context, chat models.Chat) error
	DeleteChat(ctx context.Context, id string) error

	GetMessage(ctx context.Context, id string) (models.Message, bool, error)
	InsertMessage(ctx context.Context, msg models.Message) error
	UpdateMessage(ctx context.Context, msg models.Message) error
	DeleteMessage(ctx context.Context, id string) error
	ListChatMessages(ctx context.Context, chatID string) ([]models.Message, error)
	ListMessageBranches(ctx context.Context, parentID string) ([]models.Message, error)

	GetAttachment(ctx context.Context, id string) (models.Attachment, bool, error)
	InsertAttachment(ctx context.Context, att models.Attachment) error
	DeleteAttachment(ctx context.Context, id string) error

	InsertWebSearch(ctx context.Context, ws models.WebSearch) error
	InsertImage(ctx context.Context, img models.Image) error

	GetShareLink(ctx context.Context, id string) (models.ShareLink, bool, error)
	InsertShareLink(ctx context.Context, link models.ShareLink) error
	DeleteShareLink(ctx context.Context, id string) error

	ClientWatermark(ctx context.Context, clientID string) (int64, error)
	SetClientWatermark(ctx context.Context, clientID string, mutationID int64) error
}

// Engine executes a function inside a serializable transaction: the whole
// body commits atomically or not at all.
type Engine interface {
	Execute(ctx context.Context, fn func(Tx) error) error

	// MarkStaleGenerating moves messages that have been generating since
	// before the given timestamp to the failed stream state and returns how
	// many rows changed.
	MarkStaleGenerating(ctx context.Context, before int64) (int64, error)
}
