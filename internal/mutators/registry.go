package mutators

import (
	"context"

	"branch-chat-service/internal/auth"
	"branch-chat-service/internal/engine"
	"branch-chat-service/internal/models"
)

// Registry holds the named transactional operations clients may invoke. It is
// stateless: the verified identity is an explicit parameter on every call, so
// one registry serves all requests.
//
// Shared contract: inserts are unconditional (duplicate primary keys surface
// as persistence errors from the engine); ownership-checked updates and
// deletes read the current row inside the same transaction, treat an absent
// row as a silent no-op so at-least-once retries stay safe, and reject an
// owner mismatch with ErrForbidden.
type Registry struct{}

// NewRegistry returns the mutator set.
func NewRegistry() *Registry {
	return &Registry{}
}

// UserCreate registers a user profile. Deliberately exempt from the identity
// guard so a client can register itself before holding a credential.
func (r *Registry) UserCreate(ctx context.Context, tx engine.Tx, user models.User) error {
	return tx.InsertUser(ctx, user)
}

// UserUpdate applies a partial profile update. Also exempt from the guard.
func (r *Registry) UserUpdate(ctx context.Context, tx engine.Tx, upd models.UserUpdate) error {
	prev, ok, err := tx.GetUser(ctx, upd.ID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if upd.Name != nil {
		prev.Name = *upd.Name
	}
	if upd.Email != nil {
		prev.Email = *upd.Email
	}
	if upd.ExternalID != nil {
		prev.ExternalID = *upd.ExternalID
	}
	return tx.UpdateUser(ctx, prev)
}

// RoomCreate inserts a room.
func (r *Registry) RoomCreate(ctx context.Context, tx engine.Tx, ident *auth.Identity, room models.Room) error {
	if _, err := auth.Require(ident); err != nil {
		return err
	}
	return tx.InsertRoom(ctx, room)
}

// RoomUpdate applies a partial room update.
func (r *Registry) RoomUpdate(ctx context.Context, tx engine.Tx, ident *auth.Identity, upd models.RoomUpdate) error {
	if _, err := auth.Require(ident); err != nil {
		return err
	}
	prev, ok, err := tx.GetRoom(ctx, upd.ID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if upd.Name != nil {
		prev.Name = *upd.Name
	}
	if upd.IsPublic != nil {
		prev.IsPublic = *upd.IsPublic
	}
	return tx.UpdateRoom(ctx, prev)
}

// RoomDelete removes a room.
func (r *Registry) RoomDelete(ctx context.Context, tx engine.Tx, ident *auth.Identity, id string) error {
	if _, err := auth.Require(ident); err != nil {
		return err
	}
	return tx.DeleteRoom(ctx, id)
}

// RoomMemberJoin adds a user to a room.
func (r *Registry) RoomMemberJoin(ctx context.Context, tx engine.Tx, ident *auth.Identity, member models.RoomMember) error {
	if _, err := auth.Require(ident); err != nil {
		return err
	}
	return tx.InsertRoomMember(ctx, member)
}

// RoomMemberLeave removes a user from a room. Membership rows are the sole
// authorization basis for member queries; dropping the last one never
// cascades into the room itself.
func (r *Registry) RoomMemberLeave(ctx context.Context, tx engine.Tx, ident *auth.Identity, roomID, userID string) error {
	if _, err := auth.Require(ident); err != nil {
		return err
	}
	return tx.DeleteRoomMember(ctx, roomID, userID)
}

// ChatCreate inserts a chat.
func (r *Registry) ChatCreate(ctx context.Context, tx engine.Tx, ident *auth.Identity, chat models.Chat) error {
	if _, err := auth.Require(ident); err != nil {
		return err
	}
	return tx.InsertChat(ctx, chat)
}

// ChatUpdate applies a partial chat update.
func (r *Registry) ChatUpdate(ctx context.Context, tx engine.Tx, ident *auth.Identity, upd models.ChatUpdate) error {
	if _, err := auth.Require(ident); err != nil {
		return err
	}
	prev, ok, err := tx.GetChat(ctx, upd.ID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if upd.Title != nil {
		prev.Title = *upd.Title
	}
	return tx.UpdateChat(ctx, prev)
}

// ChatDelete removes a chat.
func (r *Registry) ChatDelete(ctx context.Context, tx engine.Tx, ident *auth.Identity, id string) error {
	if _, err := auth.Require(ident); err != nil {
		return err
	}
	return tx.DeleteChat(ctx, id)
}

// MessageCreate inserts a fully formed message. A non-empty parent reference
// must point at an existing message in the same chat, which keeps the parent
// edges a forest by construction.
func (r *Registry) MessageCreate(ctx context.Context, tx engine.Tx, ident *auth.Identity, msg models.Message) error {
	if _, err := auth.Require(ident); err != nil {
		return err
	}
	if err := r.checkParent(ctx, tx, msg.ParentID, msg.ChatID); err != nil {
		return err
	}
	return tx.InsertMessage(ctx, msg)
}

// MessageUpdate applies a partial edit. Only the sender may edit; an absent
// row is a silent no-op.
func (r *Registry) MessageUpdate(ctx context.Context, tx engine.Tx, ident *auth.Identity, upd models.MessageUpdate) error {
	caller, err := auth.Require(ident)
	if err != nil {
		return err
	}
	prev, ok, err := tx.GetMessage(ctx, upd.ID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if !caller.Owns(prev.SenderID) {
		return ErrForbidden
	}
	if upd.Body != nil {
		prev.Body = *upd.Body
	}
	if upd.Model != nil {
		prev.Model = *upd.Model
	}
	if upd.AttachmentID != nil {
		prev.AttachmentID = *upd.AttachmentID
	}
	if upd.WebSearchID != nil {
		prev.WebSearchID = *upd.WebSearchID
	}
	if upd.ImageID != nil {
		prev.ImageID = *upd.ImageID
	}
	return tx.UpdateMessage(ctx, prev)
}

// MessageDelete removes a message. Only the sender may delete; an absent row
// is a silent no-op.
func (r *Registry) MessageDelete(ctx context.Context, tx engine.Tx, ident *auth.Identity, id string) error {
	caller, err := auth.Require(ident)
	if err != nil {
		return err
	}
	prev, ok, err := tx.GetMessage(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if !caller.Owns(prev.SenderID) {
		return ErrForbidden
	}
	return tx.DeleteMessage(ctx, id)
}

// MessageBranch inserts msg as an alternate continuation of the message with
// the given id. The parent reference is forced to parentID no matter what the
// caller supplied: this layer, not the client, owns the tree edge.
func (r *Registry) MessageBranch(ctx context.Context, tx engine.Tx, ident *auth.Identity, parentID string, msg models.Message) error {
	if _, err := auth.Require(ident); err != nil {
		return err
	}
	msg.ParentID = parentID
	if err := r.checkParent(ctx, tx, msg.ParentID, msg.ChatID); err != nil {
		return err
	}
	return tx.InsertMessage(ctx, msg)
}

// MessageUpdateStreamState moves a message through its streaming lifecycle.
// No guard and no ownership check: the producing process acts for a
// non-human sender the client holds no credential for. Only the two
// lifecycle fields change, and a completed message never becomes incomplete
// again.
func (r *Registry) MessageUpdateStreamState(ctx context.Context, tx engine.Tx, id, streamState string, isComplete bool) error {
	prev, ok, err := tx.GetMessage(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if prev.IsComplete && !isComplete {
		return nil
	}
	prev.StreamState = streamState
	prev.IsComplete = isComplete
	return tx.UpdateMessage(ctx, prev)
}

// AttachmentCreate inserts an attachment record.
func (r *Registry) AttachmentCreate(ctx context.Context, tx engine.Tx, ident *auth.Identity, att models.Attachment) error {
	if _, err := auth.Require(ident); err != nil {
		return err
	}
	return tx.InsertAttachment(ctx, att)
}

// AttachmentDelete removes an attachment. Only the uploader may delete.
func (r *Registry) AttachmentDelete(ctx context.Context, tx engine.Tx, ident *auth.Identity, id string) error {
	caller, err := auth.Require(ident)
	if err != nil {
		return err
	}
	prev, ok, err := tx.GetAttachment(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if !caller.Owns(prev.UploaderID) {
		return ErrForbidden
	}
	return tx.DeleteAttachment(ctx, id)
}

// WebSearchCreate inserts a web-search record.
func (r *Registry) WebSearchCreate(ctx context.Context, tx engine.Tx, ident *auth.Identity, ws models.WebSearch) error {
	if _, err := auth.Require(ident); err != nil {
		return err
	}
	return tx.InsertWebSearch(ctx, ws)
}

// ImageCreate inserts a generated-image record.
func (r *Registry) ImageCreate(ctx context.Context, tx engine.Tx, ident *auth.Identity, img models.Image) error {
	if _, err := auth.Require(ident); err != nil {
		return err
	}
	return tx.InsertImage(ctx, img)
}

// ShareLinkCreate inserts a share link.
func (r *Registry) ShareLinkCreate(ctx context.Context, tx engine.Tx, ident *auth.Identity, link models.ShareLink) error {
	if _, err := auth.Require(ident); err != nil {
		return err
	}
	return tx.InsertShareLink(ctx, link)
}

// ShareLinkDelete removes a share link. Only the creator may delete.
func (r *Registry) ShareLinkDelete(ctx context.Context, tx engine.Tx, ident *auth.Identity, id string) error {
	caller, err := auth.Require(ident)
	if err != nil {
		return err
	}
	prev, ok, err := tx.GetShareLink(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if !caller.Owns(prev.CreatedBy) {
		return ErrForbidden
	}
	return tx.DeleteShareLink(ctx, id)
}

func (r *Registry) checkParent(ctx context.Context, tx engine.Tx, parentID, chatID string) error {
	if parentID == "" {
		return nil
	}
	parent, ok, err := tx.GetMessage(ctx, parentID)
	if err != nil {
		return err
	}
	if !ok || parent.ChatID != chatID {
		return ErrInvalidParent
	}
	return nil
}
