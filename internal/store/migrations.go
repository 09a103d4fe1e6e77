package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "users + beta_codes: beta-gated onboarding",
		SQL: `
CREATE TABLE users (
    id           TEXT PRIMARY KEY,
    email        TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    beta_code    TEXT,
    created_at   INTEGER NOT NULL
);

CREATE TABLE beta_codes (
    code           TEXT PRIMARY KEY,
    uses_remaining INTEGER NOT NULL,
    created_at     INTEGER NOT NULL
);
`,
	},
	{
		Version:     2,
		Description: "aeis: companion persona profiles",
		SQL: `
CREATE TABLE aeis (
    id          TEXT PRIMARY KEY,
    user_id     TEXT NOT NULL,
    name        TEXT NOT NULL,
    persona     TEXT,
    avatar_path TEXT,
    active      INTEGER NOT NULL DEFAULT 1,
    created_at  INTEGER NOT NULL,

    FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE INDEX idx_aeis_user   ON aeis(user_id);
CREATE INDEX idx_aeis_active ON aeis(active);
`,
	},
	{
		Version:     3,
		Description: "chat_sessions + emotional_states + chat_messages",
		SQL: `
CREATE TABLE chat_sessions (
    id                 INTEGER PRIMARY KEY,
    user_id            TEXT NOT NULL,
    aei_id             TEXT NOT NULL,
    relationship_depth REAL NOT NULL DEFAULT 0.1,
    last_message_at    INTEGER NOT NULL,
    active             INTEGER NOT NULL DEFAULT 1,
    created_at         INTEGER NOT NULL,

    FOREIGN KEY (user_id) REFERENCES users(id),
    FOREIGN KEY (aei_id)  REFERENCES aeis(id)
);

CREATE INDEX idx_sessions_aei    ON chat_sessions(aei_id);
CREATE INDEX idx_sessions_active ON chat_sessions(active);

CREATE TABLE emotional_states (
    session_id            INTEGER PRIMARY KEY,

    loneliness            REAL NOT NULL DEFAULT 0.0,
    sadness               REAL NOT NULL DEFAULT 0.0,
    boredom               REAL NOT NULL DEFAULT 0.0,
    fear_abandonment      REAL NOT NULL DEFAULT 0.0,
    joy                   REAL NOT NULL DEFAULT 0.5,
    love                  REAL NOT NULL DEFAULT 0.5,
    trust                 REAL NOT NULL DEFAULT 0.5,

    -- Snapshot taken at the last user message. Decay is always recomputed
    -- from this baseline, which makes repeated decay runs idempotent.
    base_loneliness       REAL NOT NULL DEFAULT 0.0,
    base_sadness          REAL NOT NULL DEFAULT 0.0,
    base_boredom          REAL NOT NULL DEFAULT 0.0,
    base_fear_abandonment REAL NOT NULL DEFAULT 0.0,
    base_joy              REAL NOT NULL DEFAULT 0.5,
    base_love             REAL NOT NULL DEFAULT 0.5,
    base_trust            REAL NOT NULL DEFAULT 0.5,

    updated_at            INTEGER NOT NULL,

    FOREIGN KEY (session_id) REFERENCES chat_sessions(id) ON DELETE CASCADE
);

CREATE TABLE chat_messages (
    id         INTEGER PRIMARY KEY,
    session_id INTEGER NOT NULL,
    sender     TEXT NOT NULL CHECK (sender IN ('user', 'aei')),
    content    TEXT NOT NULL,
    created_at INTEGER NOT NULL,

    FOREIGN KEY (session_id) REFERENCES chat_sessions(id) ON DELETE CASCADE
);

CREATE INDEX idx_messages_session ON chat_messages(session_id);
`,
	},
	{
		Version:     4,
		Description: "decay_events: append-only decay processing log",
		SQL: `
CREATE TABLE decay_events (
    id               INTEGER PRIMARY KEY,
    session_id       INTEGER NOT NULL,
    hours_inactive   REAL NOT NULL,
    emotions_changed INTEGER NOT NULL,
    created_at       INTEGER NOT NULL,

    FOREIGN KEY (session_id) REFERENCES chat_sessions(id)
);

CREATE INDEX idx_decay_session ON decay_events(session_id);
CREATE INDEX idx_decay_created ON decay_events(created_at DESC);
`,
	},
	{
		Version:     5,
		Description: "social_contacts + contact_interactions: simulated social life",
		SQL: `
CREATE TABLE social_contacts (
    id           INTEGER PRIMARY KEY,
    aei_id       TEXT NOT NULL,
    name         TEXT NOT NULL,
    relationship TEXT NOT NULL,
    persona      TEXT,
    closeness    REAL NOT NULL DEFAULT 0.5,
    active       INTEGER NOT NULL DEFAULT 1,
    created_at   INTEGER NOT NULL,

    FOREIGN KEY (aei_id) REFERENCES aeis(id) ON DELETE CASCADE
);

CREATE INDEX idx_contacts_aei ON social_contacts(aei_id);

CREATE TABLE contact_interactions (
    id                     INTEGER PRIMARY KEY,
    aei_id                 TEXT NOT NULL,
    contact_id             INTEGER NOT NULL,
    initiated_by           TEXT NOT NULL CHECK (initiated_by IN ('aei', 'contact')),
    dialog_history         TEXT NOT NULL,
    aei_thoughts           TEXT,
    processed_for_emotions INTEGER NOT NULL DEFAULT 0,
    created_at             INTEGER NOT NULL,

    FOREIGN KEY (aei_id)     REFERENCES aeis(id) ON DELETE CASCADE,
    FOREIGN KEY (contact_id) REFERENCES social_contacts(id)
);

CREATE INDEX idx_interactions_aei     ON contact_interactions(aei_id);
CREATE INDEX idx_interactions_created ON contact_interactions(created_at DESC);
`,
	},
	{
		Version:     6,
		Description: "app_settings: key-value store for job bookkeeping",
		SQL: `
CREATE TABLE app_settings (
    setting_key   TEXT PRIMARY KEY,
    setting_value TEXT NOT NULL,
    updated_at    INTEGER NOT NULL
);
`,
	},
}

func (db *DB) migrate() error {
	// Create schema_versions table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
