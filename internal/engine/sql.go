package engine

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"branch-chat-service/internal/models"
)

// SQLEngine runs transactions against Postgres through sqlx.
type SQLEngine struct {
	db *sqlx.DB
}

// NewSQLEngine wraps an open database handle.
func NewSQLEngine(db *sqlx.DB) *SQLEngine {
	return &SQLEngine{db: db}
}

// Execute runs fn inside a serializable transaction.
func (e *SQLEngine) Execute(ctx context.Context, fn func(Tx) error) error {
	tx, err := e.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	if err := fn(&sqlTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// MarkStaleGenerating fails messages stuck in the generating state since
// before the given timestamp.
func (e *SQLEngine) MarkStaleGenerating(ctx context.Context, before int64) (int64, error) {
	res, err := e.db.ExecContext(ctx,
		`UPDATE messages SET stream_state=$1 WHERE stream_state=$2 AND is_complete=FALSE AND timestamp < $3`,
		models.StreamStateFailed, models.StreamStateGenerating, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type sqlTx struct {
	tx *sqlx.Tx
}

func (t *sqlTx) GetUser(ctx context.Context, id string) (models.User, bool, error) {
	var u models.User
	err := t.tx.GetContext(ctx, &u, `SELECT id, name, email, external_id FROM users WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, false, nil
	}
	return u, err == nil, err
}

func (t *sqlTx) InsertUser(ctx context.Context, u models.User) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO users (id, name, email, external_id) VALUES ($1, $2, $3, $4)`,
		u.ID, u.Name, u.Email, u.ExternalID)
	return err
}

func (t *sqlTx) UpdateUser(ctx context.Context, u models.User) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE users SET name=$2, email=$3, external_id=$4 WHERE id=$1`,
		u.ID, u.Name, u.Email, u.ExternalID)
	return err
}

func (t *sqlTx) GetRoom(ctx context.Context, id string) (models.Room, bool, error) {
	var r models.Room
	err := t.tx.GetContext(ctx, &r, `SELECT id, name, created_at, owner_id, is_public FROM rooms WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Room{}, false, nil
	}
	return r, err == nil, err
}

func (t *sqlTx) InsertRoom(ctx context.Context, r models.Room) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO rooms (id, name, created_at, owner_id, is_public) VALUES ($1, $2, $3, $4, $5)`,
		r.ID, r.Name, r.CreatedAt, r.OwnerID, r.IsPublic)
	return err
}

func (t *sqlTx) UpdateRoom(ctx context.Context, r models.Room) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE rooms SET name=$2, created_at=$3, owner_id=$4, is_public=$5 WHERE id=$1`,
		r.ID, r.Name, r.CreatedAt, r.OwnerID, r.IsPublic)
	return err
}

func (t *sqlTx) DeleteRoom(ctx context.Context, id string) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM rooms WHERE id=$1`, id)
	return err
}

func (t *sqlTx) InsertRoomMember(ctx context.Context, m models.RoomMember) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO room_members (room_id, user_id, joined_at) VALUES ($1, $2, $3)`,
		m.RoomID, m.UserID, m.JoinedAt)
	return err
}

func (t *sqlTx) DeleteRoomMember(ctx context.Context, roomID, userID string) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM room_members WHERE room_id=$1 AND user_id=$2`, roomID, userID)
	return err
}

func (t *sqlTx) GetChat(ctx context.Context, id string) (models.Chat, bool, error) {
	var c models.Chat
	err := t.tx.GetContext(ctx, &c, `SELECT id, title, room_id, owner_id, created_at FROM chats WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, false, nil
	}
	return c, err == nil, err
}

func (t *sqlTx) InsertChat(ctx context.Context, c models.Chat) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO chats (id, title, room_id, owner_id, created_at) VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Title, c.RoomID, c.OwnerID, c.CreatedAt)
	return err
}

func (t *sqlTx) UpdateChat(ctx context.Context, c models.Chat) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE chats SET title=$2, room_id=$3, owner_id=$4, created_at=$5 WHERE id=$1`,
		c.ID, c.Title, c.RoomID, c.OwnerID, c.CreatedAt)
	return err
}

func (t *sqlTx) DeleteChat(ctx context.Context, id string) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM chats WHERE id=$1`, id)
	return err
}

const messageColumns = `id, chat_id, room_id, sender_id, body, timestamp, model, parent_id, attachment_id, web_search_id, image_id, stream_state, is_complete`

func (t *sqlTx) GetMessage(ctx context.Context, id string) (models.Message, bool, error) {
	var m models.Message
	err := t.tx.GetContext(ctx, &m, `SELECT `+messageColumns+` FROM messages WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, false, nil
	}
	return m, err == nil, err
}

func (t *sqlTx) InsertMessage(ctx context.Context, m models.Message) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO messages (`+messageColumns+`)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		m.ID, m.ChatID, m.RoomID, m.SenderID, m.Body, m.Timestamp, m.Model,
		m.ParentID, m.AttachmentID, m.WebSearchID, m.ImageID, m.StreamState, m.IsComplete)
	return err
}

func (t *sqlTx) UpdateMessage(ctx context.Context, m models.Message) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE messages SET chat_id=$2, room_id=$3, sender_id=$4, body=$5, timestamp=$6, model=$7,
            parent_id=$8, attachment_id=$9, web_search_id=$10, image_id=$11, stream_state=$12, is_complete=$13
         WHERE id=$1`,
		m.ID, m.ChatID, m.RoomID, m.SenderID, m.Body, m.Timestamp, m.Model,
		m.ParentID, m.AttachmentID, m.WebSearchID, m.ImageID, m.StreamState, m.IsComplete)
	return err
}

func (t *sqlTx) DeleteMessage(ctx context.Context, id string) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM messages WHERE id=$1`, id)
	return err
}

func (t *sqlTx) ListChatMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	var msgs []models.Message
	err := t.tx.SelectContext(ctx, &msgs,
		`SELECT `+messageColumns+` FROM messages WHERE chat_id=$1 ORDER BY timestamp ASC`, chatID)
	return msgs, err
}

func (t *sqlTx) ListMessageBranches(ctx context.Context, parentID string) ([]models.Message, error) {
	var msgs []models.Message
	err := t.tx.SelectContext(ctx, &msgs,
		`SELECT `+messageColumns+` FROM messages WHERE parent_id=$1 ORDER BY timestamp ASC`, parentID)
	return msgs, err
}

func (t *sqlTx) GetAttachment(ctx context.Context, id string) (models.Attachment, bool, error) {
	var a models.Attachment
	err := t.tx.GetContext(ctx, &a,
		`SELECT id, url, type, filename, uploader_id, uploaded_at, message_id FROM attachments WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Attachment{}, false, nil
	}
	return a, err == nil, err
}

func (t *sqlTx) InsertAttachment(ctx context.Context, a models.Attachment) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO attachments (id, url, type, filename, uploader_id, uploaded_at, message_id)
         VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.URL, a.Type, a.Filename, a.UploaderID, a.UploadedAt, a.MessageID)
	return err
}

func (t *sqlTx) DeleteAttachment(ctx context.Context, id string) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM attachments WHERE id=$1`, id)
	return err
}

func (t *sqlTx) InsertWebSearch(ctx context.Context, w models.WebSearch) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO web_searches (id, query, results, timestamp, message_id) VALUES ($1, $2, $3, $4, $5)`,
		w.ID, w.Query, w.Results, w.Timestamp, w.MessageID)
	return err
}

func (t *sqlTx) InsertImage(ctx context.Context, i models.Image) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO images (id, url, prompt, model, generated_at, message_id) VALUES ($1, $2, $3, $4, $5, $6)`,
		i.ID, i.URL, i.Prompt, i.Model, i.GeneratedAt, i.MessageID)
	return err
}

func (t *sqlTx) GetShareLink(ctx context.Context, id string) (models.ShareLink, bool, error) {
	var s models.ShareLink
	err := t.tx.GetContext(ctx, &s,
		`SELECT id, chat_id, created_by, created_at, is_public, allow_collaboration FROM share_links WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ShareLink{}, false, nil
	}
	return s, err == nil, err
}

func (t *sqlTx) InsertShareLink(ctx context.Context, s models.ShareLink) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO share_links (id, chat_id, created_by, created_at, is_public, allow_collaboration)
         VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.ChatID, s.CreatedBy, s.CreatedAt, s.IsPublic, s.AllowCollaboration)
	return err
}

func (t *sqlTx) DeleteShareLink(ctx context.Context, id string) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM share_links WHERE id=$1`, id)
	return err
}

func (t *sqlTx) ClientWatermark(ctx context.Context, clientID string) (int64, error) {
	var id int64
	err := t.tx.GetContext(ctx, &id, `SELECT last_mutation_id FROM replication_clients WHERE client_id=$1`, clientID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return id, err
}

func (t *sqlTx) SetClientWatermark(ctx context.Context, clientID string, mutationID int64) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO replication_clients (client_id, last_mutation_id) VALUES ($1, $2)
         ON CONFLICT (client_id) DO UPDATE SET last_mutation_id = EXCLUDED.last_mutation_id`,
		clientID, mutationID)
	return err
}
