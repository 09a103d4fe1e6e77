package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a registered account.
type User struct {
	ID          string
	Email       string
	DisplayName string
	BetaCode    string
	CreatedAt   int64
}

// ErrDuplicateEmail is returned by CreateUser when the email is taken.
var ErrDuplicateEmail = fmt.Errorf("email already registered")

// CreateUser inserts a new user with a generated id.
func (db *DB) CreateUser(email, displayName, betaCode string) (*User, error) {
	now := time.Now().UnixMilli()
	u := &User{
		ID:          uuid.NewString(),
		Email:       strings.ToLower(strings.TrimSpace(email)),
		DisplayName: displayName,
		BetaCode:    betaCode,
		CreatedAt:   now,
	}

	_, err := db.Exec(`
		INSERT INTO users (id, email, display_name, beta_code, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, u.ID, u.Email, u.DisplayName, u.BetaCode, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// GetUser returns a user by id, or ErrNotFound.
func (db *DB) GetUser(id string) (*User, error) {
	var u User
	var betaCode sql.NullString
	err := db.QueryRow(`
		SELECT id, email, display_name, beta_code, created_at
		FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Email, &u.DisplayName, &betaCode, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.BetaCode = betaCode.String
	return &u, nil
}
