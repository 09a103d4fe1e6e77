package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// DialogTurn is one turn of a simulated interaction dialog.
type DialogTurn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// ContactInteraction is a simulated event between a companion and one of
// its contacts. DialogHistory is stored as a JSON array of turns.
type ContactInteraction struct {
	ID                   int64
	AEIID                string
	ContactID            int64
	InitiatedBy          string // "aei" or "contact"
	DialogHistory        []DialogTurn
	AEIThoughts          string
	ProcessedForEmotions bool
	CreatedAt            int64
}

// validateDialog rejects malformed dialog histories before they reach disk.
func validateDialog(turns []DialogTurn) error {
	if len(turns) == 0 {
		return fmt.Errorf("dialog history is empty")
	}
	for i, t := range turns {
		if t.Speaker == "" {
			return fmt.Errorf("turn %d: empty speaker", i)
		}
		if t.Text == "" {
			return fmt.Errorf("turn %d: empty text", i)
		}
	}
	return nil
}

// CreateInteraction persists a new interaction. The dialog is validated and
// JSON-serialized at this boundary.
func (db *DB) CreateInteraction(it *ContactInteraction) error {
	if it.InitiatedBy != "aei" && it.InitiatedBy != "contact" {
		return fmt.Errorf("invalid initiator %q", it.InitiatedBy)
	}
	if err := validateDialog(it.DialogHistory); err != nil {
		return fmt.Errorf("invalid dialog: %w", err)
	}

	dialog, err := json.Marshal(it.DialogHistory)
	if err != nil {
		return fmt.Errorf("marshal dialog: %w", err)
	}

	now := time.Now().UnixMilli()
	result, err := db.Exec(`
		INSERT INTO contact_interactions (aei_id, contact_id, initiated_by, dialog_history, aei_thoughts, processed_for_emotions, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?)
	`, it.AEIID, it.ContactID, it.InitiatedBy, string(dialog), it.AEIThoughts, now)
	if err != nil {
		return fmt.Errorf("create interaction: %w", err)
	}
	it.ID, _ = result.LastInsertId()
	it.CreatedAt = now
	return nil
}

// GetInteraction returns an interaction by id, or ErrNotFound.
func (db *DB) GetInteraction(id int64) (*ContactInteraction, error) {
	var it ContactInteraction
	var dialog string
	var thoughts sql.NullString
	var processed int
	err := db.QueryRow(`
		SELECT id, aei_id, contact_id, initiated_by, dialog_history, aei_thoughts, processed_for_emotions, created_at
		FROM contact_interactions WHERE id = ?
	`, id).Scan(&it.ID, &it.AEIID, &it.ContactID, &it.InitiatedBy, &dialog, &thoughts, &processed, &it.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get interaction: %w", err)
	}
	if err := json.Unmarshal([]byte(dialog), &it.DialogHistory); err != nil {
		return nil, fmt.Errorf("decode dialog for interaction %d: %w", id, err)
	}
	it.AEIThoughts = thoughts.String
	it.ProcessedForEmotions = processed != 0
	return &it, nil
}

// ListInteractions returns a companion's interactions, most recent first.
func (db *DB) ListInteractions(aeiID string, limit int) ([]ContactInteraction, error) {
	rows, err := db.Query(`
		SELECT id, aei_id, contact_id, initiated_by, dialog_history, aei_thoughts, processed_for_emotions, created_at
		FROM contact_interactions WHERE aei_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ?
	`, aeiID, limit)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	var out []ContactInteraction
	for rows.Next() {
		var it ContactInteraction
		var dialog string
		var thoughts sql.NullString
		var processed int
		if err := rows.Scan(&it.ID, &it.AEIID, &it.ContactID, &it.InitiatedBy, &dialog, &thoughts, &processed, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		if err := json.Unmarshal([]byte(dialog), &it.DialogHistory); err != nil {
			return nil, fmt.Errorf("decode dialog for interaction %d: %w", it.ID, err)
		}
		it.AEIThoughts = thoughts.String
		it.ProcessedForEmotions = processed != 0
		out = append(out, it)
	}
	return out, rows.Err()
}

// MarkInteractionProcessed flips processed_for_emotions after downstream
// emotional integration has consumed the interaction.
func (db *DB) MarkInteractionProcessed(id int64) error {
	result, err := db.Exec(`
		UPDATE contact_interactions SET processed_for_emotions = 1 WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("mark interaction processed: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteInteractionsBefore deletes interactions created before the cutoff
// and returns the exact number removed.
func (db *DB) DeleteInteractionsBefore(cutoff time.Time) (int, error) {
	result, err := db.Exec(`
		DELETE FROM contact_interactions WHERE created_at < ?
	`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("delete old interactions: %w", err)
	}
	n, _ := result.RowsAffected()
	return int(n), nil
}
