package db

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            external_id TEXT NOT NULL DEFAULT ''
        );`,
		`CREATE TABLE IF NOT EXISTS rooms (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL DEFAULT '',
            created_at BIGINT NOT NULL DEFAULT 0,
            owner_id TEXT NOT NULL DEFAULT '',
            is_public BOOLEAN NOT NULL DEFAULT FALSE
        );`,
		`CREATE TABLE IF NOT EXISTS room_members (
            room_id TEXT NOT NULL,
            user_id TEXT NOT NULL,
            joined_at BIGINT NOT NULL DEFAULT 0,
            PRIMARY KEY(room_id, user_id)
        );`,
		`CREATE TABLE IF NOT EXISTS chats (
            id TEXT PRIMARY KEY,
            title TEXT NOT NULL DEFAULT '',
            room_id TEXT NOT NULL DEFAULT '',
            owner_id TEXT NOT NULL DEFAULT '',
            created_at BIGINT NOT NULL DEFAULT 0
        );`,
		`CREATE TABLE IF NOT EXISTS messages (
            id TEXT PRIMARY KEY,
            chat_id TEXT NOT NULL DEFAULT '',
            room_id TEXT NOT NULL DEFAULT '',
            sender_id TEXT NOT NULL DEFAULT '',
            body TEXT NOT NULL DEFAULT '',
            timestamp BIGINT NOT NULL DEFAULT 0,
            model TEXT NOT NULL DEFAULT '',
            parent_id TEXT NOT NULL DEFAULT '',
            attachment_id TEXT NOT NULL DEFAULT '',
            web_search_id TEXT NOT NULL DEFAULT '',
            image_id TEXT NOT NULL DEFAULT '',
            stream_state TEXT NOT NULL DEFAULT '',
            is_complete BOOLEAN NOT NULL DEFAULT FALSE
        );`,
		`CREATE INDEX IF NOT EXISTS idx_messages_chat ON messages (chat_id, timestamp);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_parent ON messages (parent_id);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_generating ON messages (timestamp) WHERE stream_state = 'generating';`,
		`CREATE TABLE IF NOT EXISTS attachments (
            id TEXT PRIMARY KEY,
            url TEXT NOT NULL DEFAULT '',
            type TEXT NOT NULL DEFAULT '',
            filename TEXT NOT NULL DEFAULT '',
            uploader_id TEXT NOT NULL DEFAULT '',
            uploaded_at BIGINT NOT NULL DEFAULT 0,
            message_id TEXT NOT NULL DEFAULT ''
        );`,
		`CREATE TABLE IF NOT EXISTS web_searches (
            id TEXT PRIMARY KEY,
            query TEXT NOT NULL DEFAULT '',
            results TEXT NOT NULL DEFAULT '',
            timestamp BIGINT NOT NULL DEFAULT 0,
            message_id TEXT NOT NULL DEFAULT ''
        );`,
		`CREATE TABLE IF NOT EXISTS images (
            id TEXT PRIMARY KEY,
            url TEXT NOT NULL DEFAULT '',
            prompt TEXT NOT NULL DEFAULT '',
            model TEXT NOT NULL DEFAULT '',
            generated_at BIGINT NOT NULL DEFAULT 0,
            message_id TEXT NOT NULL DEFAULT ''
        );`,
		`CREATE TABLE IF NOT EXISTS share_links (
            id TEXT PRIMARY KEY,
            chat_id TEXT NOT NULL DEFAULT '',
            created_by TEXT NOT NULL DEFAULT '',
            created_at BIGINT NOT NULL DEFAULT 0,
            is_public BOOLEAN NOT NULL DEFAULT TRUE,
            allow_collaboration BOOLEAN NOT NULL DEFAULT FALSE
        );`,
		`CREATE TABLE IF NOT EXISTS replication_clients (
            client_id TEXT PRIMARY KEY,
            last_mutation_id BIGINT NOT NULL DEFAULT 0
        );`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}
	log.Println("database migrations applied")
	return nil
}
