package store

import (
	"fmt"
	"time"
)

// CreateBetaCode inserts an invite code with the given number of uses.
func (db *DB) CreateBetaCode(code string, uses int) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO beta_codes (code, uses_remaining, created_at)
		VALUES (?, ?, ?)
	`, code, uses, now)
	if err != nil {
		return fmt.Errorf("create beta code: %w", err)
	}
	return nil
}

// RedeemBetaCode atomically consumes one use of a code. Returns false when
// the code is unknown or exhausted. The conditional update means two
// concurrent redeemers of a single-use code cannot both succeed.
func (db *DB) RedeemBetaCode(code string) (bool, error) {
	result, err := db.Exec(`
		UPDATE beta_codes SET uses_remaining = uses_remaining - 1
		WHERE code = ? AND uses_remaining > 0
	`, code)
	if err != nil {
		return false, fmt.Errorf("redeem beta code: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows == 1, nil
}

// RestoreBetaCodeUse returns a consumed use to a code. Called when
// registration fails after the code was already redeemed, so a rejected
// attempt does not burn the invite.
func (db *DB) RestoreBetaCodeUse(code string) error {
	_, err := db.Exec(`
		UPDATE beta_codes SET uses_remaining = uses_remaining + 1
		WHERE code = ?
	`, code)
	if err != nil {
		return fmt.Errorf("restore beta code: %w", err)
	}
	return nil
}
