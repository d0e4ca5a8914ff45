package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"branch-chat-service/internal/models"
)

// ErrDuplicateKey is the memory backend's persistence error for inserting an
// existing primary key, mirroring the unique-constraint violation Postgres
// raises for the same insert.
var ErrDuplicateKey = errors.New("duplicate key")

func dupErr(table, key string) error {
	return fmt.Errorf("%s: %w: %s", table, ErrDuplicateKey, key)
}

// MemoryEngine keeps all tables in process memory. It backs tests and local
// development without Postgres; transactions are serialized by a single lock
// and staged on copies so a failed mutator leaves no partial writes.
type MemoryEngine struct {
	mu sync.Mutex
	st memState
}

type memState struct {
	users       map[string]models.User
	rooms       map[string]models.Room
	roomMembers map[memberKey]models.RoomMember
	chats       map[string]models.Chat
	messages    map[string]models.Message
	attachments map[string]models.Attachment
	webSearches map[string]models.WebSearch
	images      map[string]models.Image
	shareLinks  map[string]models.ShareLink
	watermarks  map[string]int64
}

type memberKey struct {
	roomID string
	userID string
}

// NewMemoryEngine initializes empty tables.
func NewMemoryEngine() *MemoryEngine {
	return &MemoryEngine{st: newMemState()}
}

func newMemState() memState {
	return memState{
		users:       make(map[string]models.User),
		rooms:       make(map[string]models.Room),
		roomMembers: make(map[memberKey]models.RoomMember),
		chats:       make(map[string]models.Chat),
		messages:    make(map[string]models.Message),
		attachments: make(map[string]models.Attachment),
		webSearches: make(map[string]models.WebSearch),
		images:      make(map[string]models.Image),
		shareLinks:  make(map[string]models.ShareLink),
		watermarks:  make(map[string]int64),
	}
}

func (s memState) clone() memState {
	out := newMemState()
	for k, v := range s.users {
		out.users[k] = v
	}
	for k, v := range s.rooms {
		out.rooms[k] = v
	}
	for k, v := range s.roomMembers {
		out.roomMembers[k] = v
	}
	for k, v := range s.chats {
		out.chats[k] = v
	}
	for k, v := range s.messages {
		out.messages[k] = v
	}
	for k, v := range s.attachments {
		out.attachments[k] = v
	}
	for k, v := range s.webSearches {
		out.webSearches[k] = v
	}
	for k, v := range s.images {
		out.images[k] = v
	}
	for k, v := range s.shareLinks {
		out.shareLinks[k] = v
	}
	for k, v := range s.watermarks {
		out.watermarks[k] = v
	}
	return out
}

// Execute runs fn against a staged copy of the state and commits it only on
// success.
func (e *MemoryEngine) Execute(ctx context.Context, fn func(Tx) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	staged := e.st.clone()
	if err := fn(&memTx{st: &staged}); err != nil {
		return err
	}
	e.st = staged
	return nil
}

// MarkStaleGenerating fails messages generating since before the timestamp.
func (e *MemoryEngine) MarkStaleGenerating(ctx context.Context, before int64) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var n int64
	for id, m := range e.st.messages {
		if m.StreamState == models.StreamStateGenerating && !m.IsComplete && m.Timestamp < before {
			m.StreamState = models.StreamStateFailed
			e.st.messages[id] = m
			n++
		}
	}
	return n, nil
}

type memTx struct {
	st *memState
}

func (t *memTx) GetUser(ctx context.Context, id string) (models.User, bool, error) {
	u, ok := t.st.users[id]
	return u, ok, nil
}

func (t *memTx) InsertUser(ctx context.Context, u models.User) error {
	if _, ok := t.st.users[u.ID]; ok {
		return dupErr("users", u.ID)
	}
	t.st.users[u.ID] = u
	return nil
}

func (t *memTx) UpdateUser(ctx context.Context, u models.User) error {
	t.st.users[u.ID] = u
	return nil
}

func (t *memTx) GetRoom(ctx context.Context, id string) (models.Room, bool, error) {
	r, ok := t.st.rooms[id]
	return r, ok, nil
}

func (t *memTx) InsertRoom(ctx context.Context, r models.Room) error {
	if _, ok := t.st.rooms[r.ID]; ok {
		return dupErr("rooms", r.ID)
	}
	t.st.rooms[r.ID] = r
	return nil
}

func (t *memTx) UpdateRoom(ctx context.Context, r models.Room) error {
	t.st.rooms[r.ID] = r
	return nil
}

func (t *memTx) DeleteRoom(ctx context.Context, id string) error {
	delete(t.st.rooms, id)
	return nil
}

func (t *memTx) InsertRoomMember(ctx context.Context, m models.RoomMember) error {
	key := memberKey{m.RoomID, m.UserID}
	if _, ok := t.st.roomMembers[key]; ok {
		return dupErr("room_members", m.RoomID+"/"+m.UserID)
	}
	t.st.roomMembers[key] = m
	return nil
}

func (t *memTx) DeleteRoomMember(ctx context.Context, roomID, userID string) error {
	delete(t.st.roomMembers, memberKey{roomID, userID})
	return nil
}

func (t *memTx) GetChat(ctx context.Context, id string) (models.Chat, bool, error) {
	c, ok := t.st.chats[id]
	return c, ok, nil
}

func (t *memTx) InsertChat(ctx context.Context, c models.Chat) error {
	if _, ok := t.st.chats[c.ID]; ok {
		return dupErr("chats", c.ID)
	}
	t.st.chats[c.ID] = c
	return nil
}

func (t *memTx) UpdateChat(ctx context.Context, c models.Chat) error {
	t.st.chats[c.ID] = c
	return nil
}

func (t *memTx) DeleteChat(ctx context.Context, id string) error {
	delete(t.st.chats, id)
	return nil
}

func (t *memTx) GetMessage(ctx context.Context, id string) (models.Message, bool, error) {
	m, ok := t.st.messages[id]
	return m, ok, nil
}

func (t *memTx) InsertMessage(ctx context.Context, m models.Message) error {
	if _, ok := t.st.messages[m.ID]; ok {
		return dupErr("messages", m.ID)
	}
	t.st.messages[m.ID] = m
	return nil
}

func (t *memTx) UpdateMessage(ctx context.Context, m models.Message) error {
	t.st.messages[m.ID] = m
	return nil
}

func (t *memTx) DeleteMessage(ctx context.Context, id string) error {
	delete(t.st.messages, id)
	return nil
}

func (t *memTx) ListChatMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	var msgs []models.Message
	for _, m := range t.st.messages {
		if m.ChatID == chatID {
			msgs = append(msgs, m)
		}
	}
	sortMessages(msgs)
	return msgs, nil
}

func (t *memTx) ListMessageBranches(ctx context.Context, parentID string) ([]models.Message, error) {
	var msgs []models.Message
	for _, m := range t.st.messages {
		if m.ParentID == parentID {
			msgs = append(msgs, m)
		}
	}
	sortMessages(msgs)
	return msgs, nil
}

func sortMessages(msgs []models.Message) {
	sort.Slice(msgs, func(i, j int) bool {
		if msgs[i].Timestamp != msgs[j].Timestamp {
			return msgs[i].Timestamp < msgs[j].Timestamp
		}
		return msgs[i].ID < msgs[j].ID
	})
}

func (t *memTx) GetAttachment(ctx context.Context, id string) (models.Attachment, bool, error) {
	a, ok := t.st.attachments[id]
	return a, ok, nil
}

func (t *memTx) InsertAttachment(ctx context.Context, a models.Attachment) error {
	if _, ok := t.st.attachments[a.ID]; ok {
		return dupErr("attachments", a.ID)
	}
	t.st.attachments[a.ID] = a
	return nil
}

func (t *memTx) DeleteAttachment(ctx context.Context, id string) error {
	delete(t.st.attachments, id)
	return nil
}

func (t *memTx) InsertWebSearch(ctx context.Context, w models.WebSearch) error {
	if _, ok := t.st.webSearches[w.ID]; ok {
		return dupErr("web_searches", w.ID)
	}
	t.st.webSearches[w.ID] = w
	return nil
}

func (t *memTx) InsertImage(ctx context.Context, i models.Image) error {
	if _, ok := t.st.images[i.ID]; ok {
		return dupErr("images", i.ID)
	}
	t.st.images[i.ID] = i
	return nil
}

func (t *memTx) GetShareLink(ctx context.Context, id string) (models.ShareLink, bool, error) {
	s, ok := t.st.shareLinks[id]
	return s, ok, nil
}

func (t *memTx) InsertShareLink(ctx context.Context, s models.ShareLink) error {
	if _, ok := t.st.shareLinks[s.ID]; ok {
		return dupErr("share_links", s.ID)
	}
	t.st.shareLinks[s.ID] = s
	return nil
}

func (t *memTx) DeleteShareLink(ctx context.Context, id string) error {
	delete(t.st.shareLinks, id)
	return nil
}

func (t *memTx) ClientWatermark(ctx context.Context, clientID string) (int64, error) {
	return t.st.watermarks[clientID], nil
}

func (t *memTx) SetClientWatermark(ctx context.Context, clientID string, mutationID int64) error {
	t.st.watermarks[clientID] = mutationID
	return nil
}
