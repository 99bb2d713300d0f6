package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-rankings/internal/domain/mapping"
	qb "github.com/riskibarqy/fantasy-rankings/internal/platform/querybuilder"
)

const nameMappingsTable = "name_mappings"

type MappingStore struct {
	db *sqlx.DB
}

func NewMappingStore(db *sqlx.DB) *MappingStore {
	return &MappingStore{db: db}
}

func (s *MappingStore) Get(ctx context.Context, key mapping.PlayerKey) (mapping.Mapping, bool, error) {
	query, args, err := qb.Select("*").From(nameMappingsTable).
		Where(qb.Eq("player_key", string(key))).
		Limit(1).
		ToSQL()
	if err != nil {
		return mapping.Mapping{}, false, fmt.Errorf("build select name mapping query: %w", err)
	}

	var row nameMappingTableModel
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return mapping.Mapping{}, false, nil
		}
		return mapping.Mapping{}, false, fmt.Errorf("select name mapping key=%s: %w", key, err)
	}

	return row.toDomain(), true, nil
}

func (s *MappingStore) Put(ctx context.Context, key mapping.PlayerKey, m mapping.Mapping) error {
	query, args, err := upsertNameMappingQuery(key, m)
	if err != nil {
		return fmt.Errorf("build upsert name mapping query: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert name mapping key=%s: %w", key, err)
	}
	return nil
}

func (s *MappingStore) List(ctx context.Context) ([]mapping.Mapping, error) {
	query, args, err := qb.Select("*").From(nameMappingsTable).
		OrderBy("player_key").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select name mappings query: %w", err)
	}

	var rows []nameMappingTableModel
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select name mappings: %w", err)
	}

	out := make([]mapping.Mapping, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *MappingStore) Clear(ctx context.Context) error {
	query, args, err := qb.DeleteFrom(nameMappingsTable).Where(qb.AllRows()).ToSQL()
	if err != nil {
		return fmt.Errorf("build clear name mappings query: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear name mappings: %w", err)
	}
	return nil
}

func upsertNameMappingQuery(key mapping.PlayerKey, m mapping.Mapping) (string, []any, error) {
	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	return qb.InsertModel(nameMappingsTable, nameMappingInsertModel{
		PlayerKey:    string(key),
		ExternalID:   m.ExternalID,
		ExternalName: m.ExternalName,
		Confidence:   m.Confidence,
		Method:       string(m.Method),
		Manual:       m.Manual,
		CreatedAt:    createdAt,
	}, `ON CONFLICT (player_key)
DO UPDATE SET
    external_id = EXCLUDED.external_id,
    external_name = EXCLUDED.external_name,
    confidence = EXCLUDED.confidence,
    method = EXCLUDED.method,
    manual = EXCLUDED.manual,
    created_at = EXCLUDED.created_at,
    updated_at = NOW()`)
}

func (row nameMappingTableModel) toDomain() mapping.Mapping {
	return mapping.Mapping{
		Key:          mapping.PlayerKey(row.PlayerKey),
		ExternalID:   row.ExternalID,
		ExternalName: row.ExternalName,
		Confidence:   row.Confidence,
		Method:       mapping.Method(row.Method),
		Manual:       row.Manual,
		CreatedAt:    row.CreatedAt,
	}
}
