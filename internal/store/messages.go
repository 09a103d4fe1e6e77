package store

import (
	"fmt"
	"time"
)

// ChatMessage is a single message within a chat session.
type ChatMessage struct {
	ID        int64
	SessionID int64
	Sender    string // "user" or "aei"
	Content   string
	CreatedAt int64
}

// AddUserMessage records a user message: inserts the row, bumps the
// session's last_message_at, and snapshots the emotional baseline so that
// future decay is measured from this point.
func (db *DB) AddUserMessage(sessionID int64, content string) error {
	now := time.Now().UnixMilli()
	if _, err := db.Exec(`
		INSERT INTO chat_messages (session_id, sender, content, created_at)
		VALUES (?, 'user', ?, ?)
	`, sessionID, content, now); err != nil {
		return fmt.Errorf("add user message: %w", err)
	}
	if err := db.SetLastMessageAt(sessionID, now); err != nil {
		return err
	}
	return db.ResetEmotionalBaseline(sessionID)
}

// AddAEIMessage records a companion-initiated message. It does not touch
// last_message_at: only user activity counts as activity.
func (db *DB) AddAEIMessage(sessionID int64, content string) error {
	now := time.Now().UnixMilli()
	if _, err := db.Exec(`
		INSERT INTO chat_messages (session_id, sender, content, created_at)
		VALUES (?, 'aei', ?, ?)
	`, sessionID, content, now); err != nil {
		return fmt.Errorf("add aei message: %w", err)
	}
	return nil
}

// GetMessages returns all messages for a session in order.
func (db *DB) GetMessages(sessionID int64) ([]ChatMessage, error) {
	rows, err := db.Query(`
		SELECT id, session_id, sender, content, created_at
		FROM chat_messages WHERE session_id = ? ORDER BY created_at, id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}
	defer rows.Close()

	var msgs []ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Sender, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
