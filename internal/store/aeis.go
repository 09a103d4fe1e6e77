package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AEI is a companion persona owned by a user.
type AEI struct {
	ID         string
	UserID     string
	Name       string
	Persona    string
	AvatarPath string
	Active     bool
	CreatedAt  int64
}

// CreateAEI inserts a new companion profile with a generated id.
func (db *DB) CreateAEI(userID, name, persona string) (*AEI, error) {
	now := time.Now().UnixMilli()
	a := &AEI{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Persona:   persona,
		Active:    true,
		CreatedAt: now,
	}

	_, err := db.Exec(`
		INSERT INTO aeis (id, user_id, name, persona, active, created_at)
		VALUES (?, ?, ?, ?, 1, ?)
	`, a.ID, a.UserID, a.Name, a.Persona, now)
	if err != nil {
		return nil, fmt.Errorf("create aei: %w", err)
	}
	return a, nil
}

// GetAEI returns a companion by id, or ErrNotFound.
func (db *DB) GetAEI(id string) (*AEI, error) {
	var a AEI
	var persona, avatarPath sql.NullString
	var active int
	err := db.QueryRow(`
		SELECT id, user_id, name, persona, avatar_path, active, created_at
		FROM aeis WHERE id = ?
	`, id).Scan(&a.ID, &a.UserID, &a.Name, &persona, &avatarPath, &active, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get aei: %w", err)
	}
	a.Persona = persona.String
	a.AvatarPath = avatarPath.String
	a.Active = active != 0
	return &a, nil
}

// ListActiveAEIs returns all active companions, ordered by creation time.
func (db *DB) ListActiveAEIs() ([]AEI, error) {
	rows, err := db.Query(`
		SELECT id, user_id, name, persona, avatar_path, active, created_at
		FROM aeis WHERE active = 1
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list active aeis: %w", err)
	}
	defer rows.Close()

	var aeis []AEI
	for rows.Next() {
		var a AEI
		var persona, avatarPath sql.NullString
		var active int
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &persona, &avatarPath, &active, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan aei: %w", err)
		}
		a.Persona = persona.String
		a.AvatarPath = avatarPath.String
		a.Active = active != 0
		aeis = append(aeis, a)
	}
	return aeis, rows.Err()
}

// SetAvatarPath records the stored avatar image path for a companion.
func (db *DB) SetAvatarPath(aeiID, path string) error {
	result, err := db.Exec(`UPDATE aeis SET avatar_path = ? WHERE id = ?`, path, aeiID)
	if err != nil {
		return fmt.Errorf("set avatar path: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
