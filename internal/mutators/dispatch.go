package mutators

import (
	"context"
	"encoding/json"
	"fmt"

	"branch-chat-service/internal/auth"
	"branch-chat-service/internal/engine"
	"branch-chat-service/internal/models"
)

type idArgs struct {
	ID string `json:"id"`
}

type memberArgs struct {
	RoomID string `json:"roomID"`
	UserID string `json:"userID"`
}

type branchArgs struct {
	OriginalMessageID string         `json:"originalMessageID"`
	Message           models.Message `json:"message"`
}

type streamStateArgs struct {
	ID          string `json:"id"`
	StreamState string `json:"streamState"`
	IsComplete  bool   `json:"isComplete"`
}

// Dispatch decodes args and invokes the operation registered under name.
func (r *Registry) Dispatch(ctx context.Context, tx engine.Tx, ident *auth.Identity, name string, args json.RawMessage) error {
	switch name {
	case "user.create":
		var user models.User
		if err := decode(args, &user); err != nil {
			return err
		}
		return r.UserCreate(ctx, tx, user)
	case "user.update":
		var upd models.UserUpdate
		if err := decode(args, &upd); err != nil {
			return err
		}
		return r.UserUpdate(ctx, tx, upd)
	case "room.create":
		var room models.Room
		if err := decode(args, &room); err != nil {
			return err
		}
		return r.RoomCreate(ctx, tx, ident, room)
	case "room.update":
		var upd models.RoomUpdate
		if err := decode(args, &upd); err != nil {
			return err
		}
		return r.RoomUpdate(ctx, tx, ident, upd)
	case "room.delete":
		var a idArgs
		if err := decode(args, &a); err != nil {
			return err
		}
		return r.RoomDelete(ctx, tx, ident, a.ID)
	case "roomMember.join":
		var member models.RoomMember
		if err := decode(args, &member); err != nil {
			return err
		}
		return r.RoomMemberJoin(ctx, tx, ident, member)
	case "roomMember.leave":
		var a memberArgs
		if err := decode(args, &a); err != nil {
			return err
		}
		return r.RoomMemberLeave(ctx, tx, ident, a.RoomID, a.UserID)
	case "chat.create":
		var chat models.Chat
		if err := decode(args, &chat); err != nil {
			return err
		}
		return r.ChatCreate(ctx, tx, ident, chat)
	case "chat.update":
		var upd models.ChatUpdate
		if err := decode(args, &upd); err != nil {
			return err
		}
		return r.ChatUpdate(ctx, tx, ident, upd)
	case "chat.delete":
		var a idArgs
		if err := decode(args, &a); err != nil {
			return err
		}
		return r.ChatDelete(ctx, tx, ident, a.ID)
	case "message.create":
		var msg models.Message
		if err := decode(args, &msg); err != nil {
			return err
		}
		return r.MessageCreate(ctx, tx, ident, msg)
	case "message.update":
		var upd models.MessageUpdate
		if err := decode(args, &upd); err != nil {
			return err
		}
		return r.MessageUpdate(ctx, tx, ident, upd)
	case "message.delete":
		var a idArgs
		if err := decode(args, &a); err != nil {
			return err
		}
		return r.MessageDelete(ctx, tx, ident, a.ID)
	case "message.branch":
		var a branchArgs
		if err := decode(args, &a); err != nil {
			return err
		}
		return r.MessageBranch(ctx, tx, ident, a.OriginalMessageID, a.Message)
	case "message.updateStreamState":
		var a streamStateArgs
		if err := decode(args, &a); err != nil {
			return err
		}
		return r.MessageUpdateStreamState(ctx, tx, a.ID, a.StreamState, a.IsComplete)
	case "attachment.create":
		var att models.Attachment
		if err := decode(args, &att); err != nil {
			return err
		}
		return r.AttachmentCreate(ctx, tx, ident, att)
	case "attachment.delete":
		var a idArgs
		if err := decode(args, &a); err != nil {
			return err
		}
		return r.AttachmentDelete(ctx, tx, ident, a.ID)
	case "webSearch.create":
		var ws models.WebSearch
		if err := decode(args, &ws); err != nil {
			return err
		}
		return r.WebSearchCreate(ctx, tx, ident, ws)
	case "image.create":
		var img models.Image
		if err := decode(args, &img); err != nil {
			return err
		}
		return r.ImageCreate(ctx, tx, ident, img)
	case "shareLink.create":
		var link models.ShareLink
		if err := decode(args, &link); err != nil {
			return err
		}
		return r.ShareLinkCreate(ctx, tx, ident, link)
	case "shareLink.delete":
		var a idArgs
		if err := decode(args, &a); err != nil {
			return err
		}
		return r.ShareLinkDelete(ctx, tx, ident, a.ID)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownMutator, name)
	}
}

func decode(args json.RawMessage, into any) error {
	if err := json.Unmarshal(args, into); err != nil {
		return fmt.Errorf("%w: %v", ErrBadArgs, err)
	}
	return nil
}
