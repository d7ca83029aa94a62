package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	matching "bacnet-commissioning/internal/matching/domain"
)

const defaultTemplatesTable = "mapping_templates"

// TemplateRepository is a Postgres implementation for mapping templates.
// Point mappings are stored as a JSONB column.
type TemplateRepository struct {
	db    DBTX
	table string
}

// NewTemplateRepository constructs a repository.
func NewTemplateRepository(db DBTX, opts ...TemplateOption) *TemplateRepository {
	repo := &TemplateRepository{db: db, table: defaultTemplatesTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// TemplateOption configures the repository.
type TemplateOption func(*TemplateRepository)

// WithTemplateTable overrides the table name.
func WithTemplateTable(table string) TemplateOption {
	return func(repo *TemplateRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

const templateColumns = `id, name, source_equipment_id, target_equipment_id, source_equipment_type, point_mappings, usage_count, success_rate, created_at, updated_at`

// Get loads a template by id.
func (r *TemplateRepository) Get(ctx context.Context, id string) (*matching.MappingTemplate, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("template repo: nil db")
	}
	if id == "" {
		return nil, errors.New("template repo: empty id")
	}
	query := fmt.Sprintf(`
SELECT %s
FROM %s
WHERE id = $1
LIMIT 1`, templateColumns, r.table)

	template, err := scanTemplate(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

// List returns every template, newest first.
func (r *TemplateRepository) List(ctx context.Context) ([]matching.MappingTemplate, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("template repo: nil db")
	}
	query := fmt.Sprintf(`
SELECT %s
FROM %s
ORDER BY created_at DESC, id ASC`, templateColumns, r.table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []matching.MappingTemplate
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, template)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Save upserts a template. Usage statistics are only written on insert;
// RecordUsage owns them afterwards.
func (r *TemplateRepository) Save(ctx context.Context, template *matching.MappingTemplate) error {
	if r == nil || r.db == nil {
		return errors.New("template repo: nil db")
	}
	if template == nil {
		return errors.New("template repo: nil template")
	}
	if err := template.Validate(); err != nil {
		return err
	}
	mappings, err := json.Marshal(template.PointMappings)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
INSERT INTO %s (
	id,
	name,
	source_equipment_id,
	target_equipment_id,
	source_equipment_type,
	point_mappings,
	usage_count,
	success_rate
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8
)
ON CONFLICT (id)
DO UPDATE SET
	name = EXCLUDED.name,
	source_equipment_id = EXCLUDED.source_equipment_id,
	target_equipment_id = EXCLUDED.target_equipment_id,
	source_equipment_type = EXCLUDED.source_equipment_type,
	point_mappings = EXCLUDED.point_mappings,
	updated_at = NOW()`, r.table)

	_, err = r.db.ExecContext(
		ctx,
		query,
		template.ID,
		template.Name,
		template.SourceEquipmentID,
		template.TargetEquipmentID,
		template.SourceEquipmentType,
		mappings,
		template.Usage.UsageCount,
		template.Usage.SuccessRate,
	)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if template.CreatedAt.IsZero() {
		template.CreatedAt = now
	}
	template.UpdatedAt = now
	return nil
}

// Delete removes a template.
func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return errors.New("template repo: nil db")
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return matching.ErrTemplateNotFound
	}
	return nil
}

// RecordUsage updates the statistics in one statement so concurrent
// applications of the same template serialize on the row lock. Every
// right-hand side reads the pre-update row.
func (r *TemplateRepository) RecordUsage(ctx context.Context, id string, success bool) (matching.UsageStats, error) {
	if r == nil || r.db == nil {
		return matching.UsageStats{}, errors.New("template repo: nil db")
	}
	outcome := 0.0
	if success {
		outcome = 1
	}
	query := fmt.Sprintf(`
UPDATE %s
SET usage_count = usage_count + 1,
	success_rate = (success_rate * usage_count + $2) / (usage_count + 1),
	updated_at = NOW()
WHERE id = $1
RETURNING usage_count, success_rate`, r.table)

	var stats matching.UsageStats
	if err := r.db.QueryRowContext(ctx, query, id, outcome).Scan(&stats.UsageCount, &stats.SuccessRate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return matching.UsageStats{}, matching.ErrTemplateNotFound
		}
		return matching.UsageStats{}, err
	}
	return stats, nil
}

func scanTemplate(row rowScanner) (matching.MappingTemplate, error) {
	var (
		template matching.MappingTemplate
		mappings []byte
	)
	if err := row.Scan(
		&template.ID,
		&template.Name,
		&template.SourceEquipmentID,
		&template.TargetEquipmentID,
		&template.SourceEquipmentType,
		&mappings,
		&template.Usage.UsageCount,
		&template.Usage.SuccessRate,
		&template.CreatedAt,
		&template.UpdatedAt,
	); err != nil {
		return matching.MappingTemplate{}, err
	}
	if len(mappings) > 0 {
		if err := json.Unmarshal(mappings, &template.PointMappings); err != nil {
			return matching.MappingTemplate{}, fmt.Errorf("template repo: decode point mappings: %w", err)
		}
	}
	template.CreatedAt = template.CreatedAt.UTC()
	template.UpdatedAt = template.UpdatedAt.UTC()
	return template, nil
}
