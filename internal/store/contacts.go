package store

import (
	"fmt"
	"time"
)

// SocialContact is a companion's simulated acquaintance.
type SocialContact struct {
	ID           int64
	AEIID        string
	Name         string
	Relationship string // e.g. "friend", "coworker", "neighbor"
	Persona      string
	Closeness    float64
	Active       bool
	CreatedAt    int64
}

// CreateContact inserts a social contact for a companion.
func (db *DB) CreateContact(c *SocialContact) error {
	now := time.Now().UnixMilli()
	active := 0
	if c.Active {
		active = 1
	}
	result, err := db.Exec(`
		INSERT INTO social_contacts (aei_id, name, relationship, persona, closeness, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.AEIID, c.Name, c.Relationship, c.Persona, c.Closeness, active, now)
	if err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	c.ID, _ = result.LastInsertId()
	c.CreatedAt = now
	return nil
}

// ListActiveContacts returns a companion's active contacts.
func (db *DB) ListActiveContacts(aeiID string) ([]SocialContact, error) {
	rows, err := db.Query(`
		SELECT id, aei_id, name, relationship, persona, closeness, active, created_at
		FROM social_contacts WHERE aei_id = ? AND active = 1
		ORDER BY closeness DESC, id
	`, aeiID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []SocialContact
	for rows.Next() {
		var c SocialContact
		var active int
		if err := rows.Scan(&c.ID, &c.AEIID, &c.Name, &c.Relationship, &c.Persona, &c.Closeness, &active, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		c.Active = active != 0
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// CountContacts returns the number of contacts (active or not) a companion has.
func (db *DB) CountContacts(aeiID string) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM social_contacts WHERE aei_id = ?`, aeiID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return count, nil
}
