package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	matching "bacnet-commissioning/internal/matching/domain"
)

const defaultEquipmentMappingsTable = "equipment_mappings"

// EquipmentMappingRepository is a Postgres implementation keyed by source id.
type EquipmentMappingRepository struct {
	db    DBTX
	table string
}

// NewEquipmentMappingRepository constructs a repository.
func NewEquipmentMappingRepository(db DBTX, opts ...EquipmentMappingOption) *EquipmentMappingRepository {
	repo := &EquipmentMappingRepository{db: db, table: defaultEquipmentMappingsTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// EquipmentMappingOption configures the repository.
type EquipmentMappingOption func(*EquipmentMappingRepository)

// WithEquipmentMappingTable overrides the table name.
func WithEquipmentMappingTable(table string) EquipmentMappingOption {
	return func(repo *EquipmentMappingRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// Get loads the mapping of a source equipment.
func (r *EquipmentMappingRepository) Get(ctx context.Context, sourceID string) (*matching.EquipmentMapping, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("equipment mapping repo: nil db")
	}
	query := fmt.Sprintf(`
SELECT source_id, target_id, mapping_type, confidence, is_verified, created_at, updated_at
FROM %s
WHERE source_id = $1
LIMIT 1`, r.table)

	mapping, err := scanEquipmentMapping(r.db.QueryRowContext(ctx, query, sourceID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &mapping, nil
}

// List returns every mapping ordered by source id.
func (r *EquipmentMappingRepository) List(ctx context.Context) ([]matching.EquipmentMapping, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("equipment mapping repo: nil db")
	}
	query := fmt.Sprintf(`
SELECT source_id, target_id, mapping_type, confidence, is_verified, created_at, updated_at
FROM %s
ORDER BY source_id ASC`, r.table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []matching.EquipmentMapping
	for rows.Next() {
		mapping, err := scanEquipmentMapping(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, mapping)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Save upserts by source id so a re-mapped source supersedes its old mapping.
func (r *EquipmentMappingRepository) Save(ctx context.Context, mapping *matching.EquipmentMapping) error {
	if r == nil || r.db == nil {
		return errors.New("equipment mapping repo: nil db")
	}
	if mapping == nil {
		return errors.New("equipment mapping repo: nil mapping")
	}
	if err := mapping.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf(`
INSERT INTO %s (
	source_id,
	target_id,
	mapping_type,
	confidence,
	is_verified
) VALUES (
	$1, $2, $3, $4, $5
)
ON CONFLICT (source_id)
DO UPDATE SET
	target_id = EXCLUDED.target_id,
	mapping_type = EXCLUDED.mapping_type,
	confidence = EXCLUDED.confidence,
	is_verified = EXCLUDED.is_verified,
	updated_at = NOW()`, r.table)

	_, err := r.db.ExecContext(
		ctx,
		query,
		mapping.SourceID,
		mapping.TargetID,
		string(mapping.MappingType),
		mapping.Confidence,
		mapping.IsVerified,
	)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if mapping.CreatedAt.IsZero() {
		mapping.CreatedAt = now
	}
	mapping.UpdatedAt = now
	return nil
}

func scanEquipmentMapping(row rowScanner) (matching.EquipmentMapping, error) {
	var (
		mapping     matching.EquipmentMapping
		mappingType string
	)
	if err := row.Scan(
		&mapping.SourceID,
		&mapping.TargetID,
		&mappingType,
		&mapping.Confidence,
		&mapping.IsVerified,
		&mapping.CreatedAt,
		&mapping.UpdatedAt,
	); err != nil {
		return matching.EquipmentMapping{}, err
	}
	mapping.MappingType = matching.MappingType(mappingType)
	mapping.CreatedAt = mapping.CreatedAt.UTC()
	mapping.UpdatedAt = mapping.UpdatedAt.UTC()
	return mapping, nil
}
