package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ayuni-ai/ayuni/internal/emotion"
)

// ChatSession is the ongoing relationship between a user and a companion.
// It owns one emotional state row.
type ChatSession struct {
	ID                int64
	UserID            string
	AEIID             string
	RelationshipDepth float64
	LastMessageAt     int64
	Active            bool
	CreatedAt         int64
}

// CreateChatSession creates a session and its neutral emotional state in one
// transaction.
func (db *DB) CreateChatSession(userID, aeiID string) (*ChatSession, error) {
	now := time.Now().UnixMilli()

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin create session: %w", err)
	}

	result, err := tx.Exec(`
		INSERT INTO chat_sessions (user_id, aei_id, last_message_at, active, created_at)
		VALUES (?, ?, ?, 1, ?)
	`, userID, aeiID, now, now)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("insert session: %w", err)
	}
	id, _ := result.LastInsertId()

	n := emotion.Neutral()
	if _, err := tx.Exec(`
		INSERT INTO emotional_states (session_id,
			loneliness, sadness, boredom, fear_abandonment, joy, love, trust,
			base_loneliness, base_sadness, base_boredom, base_fear_abandonment, base_joy, base_love, base_trust,
			updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id,
		n.Loneliness, n.Sadness, n.Boredom, n.FearAbandonment, n.Joy, n.Love, n.Trust,
		n.Loneliness, n.Sadness, n.Boredom, n.FearAbandonment, n.Joy, n.Love, n.Trust,
		now); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("insert emotional state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create session: %w", err)
	}

	return &ChatSession{
		ID:                id,
		UserID:            userID,
		AEIID:             aeiID,
		RelationshipDepth: 0.1,
		LastMessageAt:     now,
		Active:            true,
		CreatedAt:         now,
	}, nil
}

// GetChatSession returns a session by id, or ErrNotFound.
func (db *DB) GetChatSession(id int64) (*ChatSession, error) {
	var s ChatSession
	var active int
	err := db.QueryRow(`
		SELECT id, user_id, aei_id, relationship_depth, last_message_at, active, created_at
		FROM chat_sessions WHERE id = ?
	`, id).Scan(&s.ID, &s.UserID, &s.AEIID, &s.RelationshipDepth, &s.LastMessageAt, &active, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	s.Active = active != 0
	return &s, nil
}

// SetRelationshipDepth updates a session's relationship depth, clamped to [0, 1].
func (db *DB) SetRelationshipDepth(id int64, depth float64) error {
	if depth < 0 {
		depth = 0
	}
	if depth > 1 {
		depth = 1
	}
	_, err := db.Exec(`UPDATE chat_sessions SET relationship_depth = ? WHERE id = ?`, depth, id)
	if err != nil {
		return fmt.Errorf("set relationship depth: %w", err)
	}
	return nil
}

// SetLastMessageAt overrides a session's last activity timestamp.
func (db *DB) SetLastMessageAt(id int64, at int64) error {
	_, err := db.Exec(`UPDATE chat_sessions SET last_message_at = ? WHERE id = ?`, at, id)
	if err != nil {
		return fmt.Errorf("set last message at: %w", err)
	}
	return nil
}

// SessionStateRow is one active session joined to its emotional state, as
// consumed by the decay batch.
type SessionStateRow struct {
	SessionID         int64
	AEIID             string
	RelationshipDepth float64
	LastMessageAt     int64
	Current           emotion.State
	Baseline          emotion.State
}

// ListActiveSessionStates returns every active session with its current and
// baseline emotional state.
func (db *DB) ListActiveSessionStates() ([]SessionStateRow, error) {
	rows, err := db.Query(`
		SELECT s.id, s.aei_id, s.relationship_depth, s.last_message_at,
			e.loneliness, e.sadness, e.boredom, e.fear_abandonment, e.joy, e.love, e.trust,
			e.base_loneliness, e.base_sadness, e.base_boredom, e.base_fear_abandonment, e.base_joy, e.base_love, e.base_trust
		FROM chat_sessions s
		JOIN emotional_states e ON e.session_id = s.id
		WHERE s.active = 1
		ORDER BY s.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list active session states: %w", err)
	}
	defer rows.Close()

	var out []SessionStateRow
	for rows.Next() {
		var r SessionStateRow
		if err := rows.Scan(&r.SessionID, &r.AEIID, &r.RelationshipDepth, &r.LastMessageAt,
			&r.Current.Loneliness, &r.Current.Sadness, &r.Current.Boredom, &r.Current.FearAbandonment,
			&r.Current.Joy, &r.Current.Love, &r.Current.Trust,
			&r.Baseline.Loneliness, &r.Baseline.Sadness, &r.Baseline.Boredom, &r.Baseline.FearAbandonment,
			&r.Baseline.Joy, &r.Baseline.Love, &r.Baseline.Trust); err != nil {
			return nil, fmt.Errorf("scan session state: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
