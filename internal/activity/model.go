// Package activity records per-principal activity logs (category, amount, unit).
package activity

import "time"

// DefaultUnit is stored when a log does not name its unit.
const DefaultUnit = "kg"

// Log is a single recorded activity.
type Log struct {
	ID          string    `json:"id" db:"id"`
	PrincipalID string    `json:"user" db:"principal_id"`
	Category    string    `json:"category" db:"category"`
	Amount      float64   `json:"amount" db:"amount"`
	Unit        string    `json:"unit" db:"unit"`
	RecordedAt  time.Time `json:"timestamp" db:"recorded_at"`
}
