package store

import (
	"fmt"
	"time"
)

// DecayEvent is one append-only record of a decay application. Rows are
// never mutated; admin cleanup is the only deletion path.
type DecayEvent struct {
	ID              int64
	SessionID       int64
	HoursInactive   float64
	EmotionsChanged int
	CreatedAt       int64
}

// AddDecayEvent appends a decay event row.
func (db *DB) AddDecayEvent(sessionID int64, hoursInactive float64, emotionsChanged int) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO decay_events (session_id, hours_inactive, emotions_changed, created_at)
		VALUES (?, ?, ?, ?)
	`, sessionID, hoursInactive, emotionsChanged, now)
	if err != nil {
		return fmt.Errorf("add decay event: %w", err)
	}
	return nil
}

// CountDecayEvents returns the total number of decay events.
func (db *DB) CountDecayEvents() (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM decay_events`).Scan(&count)
	return count, err
}

// DecayDayStat is one day's aggregate of decay processing.
type DecayDayStat struct {
	Day                string  `json:"day"`
	Events             int     `json:"events"`
	AvgHoursInactive   float64 `json:"avg_hours_inactive"`
	AvgEmotionsChanged float64 `json:"avg_emotions_changed"`
}

// DecayStatistics returns per-day aggregates over the last windowDays days,
// most recent day first.
func (db *DB) DecayStatistics(windowDays int) ([]DecayDayStat, error) {
	cutoff := time.Now().AddDate(0, 0, -windowDays).UnixMilli()
	rows, err := db.Query(`
		SELECT date(created_at / 1000, 'unixepoch') AS day,
			COUNT(*), AVG(hours_inactive), AVG(emotions_changed)
		FROM decay_events
		WHERE created_at >= ?
		GROUP BY day
		ORDER BY day DESC
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("decay statistics: %w", err)
	}
	defer rows.Close()

	var stats []DecayDayStat
	for rows.Next() {
		var s DecayDayStat
		if err := rows.Scan(&s.Day, &s.Events, &s.AvgHoursInactive, &s.AvgEmotionsChanged); err != nil {
			return nil, fmt.Errorf("scan decay stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// AffectedAEI is one row of the most-affected ranking.
type AffectedAEI struct {
	AEIName             string  `json:"aei_name"`
	UserName            string  `json:"user_name"`
	DecayEvents         int     `json:"decay_events"`
	MaxHoursInactive    float64 `json:"max_hours_inactive"`
	AvgEmotionalChanges float64 `json:"avg_emotional_changes"`
}

// MostAffectedAEIs ranks companions by decay event count over the last 30
// days, descending.
func (db *DB) MostAffectedAEIs(limit int) ([]AffectedAEI, error) {
	cutoff := time.Now().AddDate(0, 0, -30).UnixMilli()
	rows, err := db.Query(`
		SELECT a.name, u.display_name,
			COUNT(*) AS events, MAX(d.hours_inactive), AVG(d.emotions_changed)
		FROM decay_events d
		JOIN chat_sessions s ON s.id = d.session_id
		JOIN aeis a ON a.id = s.aei_id
		JOIN users u ON u.id = s.user_id
		WHERE d.created_at >= ?
		GROUP BY a.id
		ORDER BY events DESC
		LIMIT ?
	`, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("most affected aeis: %w", err)
	}
	defer rows.Close()

	var out []AffectedAEI
	for rows.Next() {
		var r AffectedAEI
		if err := rows.Scan(&r.AEIName, &r.UserName, &r.DecayEvents, &r.MaxHoursInactive, &r.AvgEmotionalChanges); err != nil {
			return nil, fmt.Errorf("scan affected aei: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
