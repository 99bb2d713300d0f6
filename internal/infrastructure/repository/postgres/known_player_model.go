package postgres

import "time"

type knownPlayerTableModel struct {
	ExternalID string    `db:"external_id"`
	Name       string    `db:"name"`
	Position   string    `db:"position"`
	Team       string    `db:"team"`
	LastSeen   time.Time `db:"last_seen"`
	CreatedAt  time.Time `db:"created_at"`
}

type knownPlayerInsertModel struct {
	ExternalID string    `db:"external_id"`
	Name       string    `db:"name"`
	Position   string    `db:"position"`
	Team       string    `db:"team"`
	LastSeen   time.Time `db:"last_seen"`
}
