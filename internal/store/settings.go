package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// JobRunRecord is the JSON payload stored for a background job's last run.
type JobRunRecord struct {
	Timestamp           int64 `json:"timestamp"`
	ProcessedSessions   int   `json:"processed_sessions"`
	CleanedInteractions int   `json:"cleaned_interactions"`
	ExecutionTimeMs     int64 `json:"execution_time_ms"`
}

// GetSetting returns the raw value for a key, or ErrNotFound.
func (db *DB) GetSetting(key string) (string, error) {
	var value string
	err := db.QueryRow(`SELECT setting_value FROM app_settings WHERE setting_key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get setting: %w", err)
	}
	return value, nil
}

// SetSetting writes a key-value pair unconditionally.
func (db *DB) SetSetting(key, value string) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO app_settings (setting_key, setting_value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(setting_key) DO UPDATE SET setting_value = excluded.setting_value, updated_at = excluded.updated_at
	`, key, value, now)
	if err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}

// GetJobRun returns the decoded run record for a job key, or ErrNotFound.
func (db *DB) GetJobRun(key string) (*JobRunRecord, error) {
	raw, err := db.GetSetting(key)
	if err != nil {
		return nil, err
	}
	var rec JobRunRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode job run %q: %w", key, err)
	}
	return &rec, nil
}

// TryClaimJobRun attempts to record a new run for a job key, succeeding only
// if the existing record is older than minInterval. The conditional update
// is the mutual-exclusion point: of two concurrent claimers, exactly one
// sees rows affected.
func (db *DB) TryClaimJobRun(key string, rec JobRunRecord, minInterval time.Duration) (bool, error) {
	now := time.Now().UnixMilli()
	value, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("encode job run: %w", err)
	}

	// Seed the row so the conditional update has something to race on.
	if _, err := db.Exec(`
		INSERT OR IGNORE INTO app_settings (setting_key, setting_value, updated_at)
		VALUES (?, '{}', 0)
	`, key); err != nil {
		return false, fmt.Errorf("seed job run: %w", err)
	}

	cutoff := now - minInterval.Milliseconds()
	result, err := db.Exec(`
		UPDATE app_settings SET setting_value = ?, updated_at = ?
		WHERE setting_key = ? AND updated_at <= ?
	`, string(value), now, key, cutoff)
	if err != nil {
		return false, fmt.Errorf("claim job run: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows == 1, nil
}

// UpdateJobRun overwrites the run record for a job key without the interval
// check. Used to fill in results after a claimed run finishes.
func (db *DB) UpdateJobRun(key string, rec JobRunRecord) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode job run: %w", err)
	}
	return db.SetSetting(key, string(value))
}
