package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ayuni-ai/ayuni/internal/emotion"
)

// GetEmotionalState returns a session's current and baseline states.
func (db *DB) GetEmotionalState(sessionID int64) (current, baseline emotion.State, err error) {
	err = db.QueryRow(`
		SELECT loneliness, sadness, boredom, fear_abandonment, joy, love, trust,
			base_loneliness, base_sadness, base_boredom, base_fear_abandonment, base_joy, base_love, base_trust
		FROM emotional_states WHERE session_id = ?
	`, sessionID).Scan(
		&current.Loneliness, &current.Sadness, &current.Boredom, &current.FearAbandonment,
		&current.Joy, &current.Love, &current.Trust,
		&baseline.Loneliness, &baseline.Sadness, &baseline.Boredom, &baseline.FearAbandonment,
		&baseline.Joy, &baseline.Love, &baseline.Trust)
	if err == sql.ErrNoRows {
		return current, baseline, ErrNotFound
	}
	if err != nil {
		return current, baseline, fmt.Errorf("get emotional state: %w", err)
	}
	return current, baseline, nil
}

// UpdateEmotionalState replaces a session's current state. Values are
// clamped to [0, 1] before writing; the baseline is untouched.
func (db *DB) UpdateEmotionalState(sessionID int64, s emotion.State) error {
	s = s.Clamped()
	now := time.Now().UnixMilli()
	result, err := db.Exec(`
		UPDATE emotional_states SET
			loneliness = ?, sadness = ?, boredom = ?, fear_abandonment = ?,
			joy = ?, love = ?, trust = ?, updated_at = ?
		WHERE session_id = ?
	`, s.Loneliness, s.Sadness, s.Boredom, s.FearAbandonment,
		s.Joy, s.Love, s.Trust, now, sessionID)
	if err != nil {
		return fmt.Errorf("update emotional state: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetEmotionalBaseline snapshots the current state into the baseline.
// Called when a user message arrives: subsequent decay is computed from the
// state as it stood at that moment.
func (db *DB) ResetEmotionalBaseline(sessionID int64) error {
	now := time.Now().UnixMilli()
	result, err := db.Exec(`
		UPDATE emotional_states SET
			base_loneliness = loneliness, base_sadness = sadness,
			base_boredom = boredom, base_fear_abandonment = fear_abandonment,
			base_joy = joy, base_love = love, base_trust = trust,
			updated_at = ?
		WHERE session_id = ?
	`, now, sessionID)
	if err != nil {
		return fmt.Errorf("reset emotional baseline: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
