package postgres

import "time"

type nameMappingTableModel struct {
	PlayerKey    string    `db:"player_key"`
	ExternalID   string    `db:"external_id"`
	ExternalName string    `db:"external_name"`
	Confidence   float64   `db:"confidence"`
	Method       string    `db:"method"`
	Manual       bool      `db:"manual"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type nameMappingInsertModel struct {
	PlayerKey    string    `db:"player_key"`
	ExternalID   string    `db:"external_id"`
	ExternalName string    `db:"external_name"`
	Confidence   float64   `db:"confidence"`
	Method       string    `db:"method"`
	Manual       bool      `db:"manual"`
	CreatedAt    time.Time `db:"created_at"`
}
