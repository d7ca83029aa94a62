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

const defaultApplicationsTable = "template_applications"

// ApplicationRepository is a Postgres implementation for template applications.
type ApplicationRepository struct {
	db    DBTX
	table string
}

// NewApplicationRepository constructs a repository.
func NewApplicationRepository(db DBTX, opts ...ApplicationOption) *ApplicationRepository {
	repo := &ApplicationRepository{db: db, table: defaultApplicationsTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// ApplicationOption configures the repository.
type ApplicationOption func(*ApplicationRepository)

// WithApplicationTable overrides the table name.
func WithApplicationTable(table string) ApplicationOption {
	return func(repo *ApplicationRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

const applicationColumns = `id, template_id, target_equipment_id, options, matched, unmatched, matched_count, unmatched_count, average_confidence, is_successful, created_at`

// Get loads an application by id.
func (r *ApplicationRepository) Get(ctx context.Context, id string) (*matching.TemplateApplication, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("application repo: nil db")
	}
	query := fmt.Sprintf(`
SELECT %s
FROM %s
WHERE id = $1
LIMIT 1`, applicationColumns, r.table)

	application, err := scanApplication(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &application, nil
}

// ListByTemplate returns the applications of one template, oldest first.
func (r *ApplicationRepository) ListByTemplate(ctx context.Context, templateID string) ([]matching.TemplateApplication, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("application repo: nil db")
	}
	query := fmt.Sprintf(`
SELECT %s
FROM %s
WHERE template_id = $1
ORDER BY created_at ASC, id ASC`, applicationColumns, r.table)

	rows, err := r.db.QueryContext(ctx, query, templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []matching.TemplateApplication
	for rows.Next() {
		application, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, application)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Save inserts an application. Applications are never updated.
func (r *ApplicationRepository) Save(ctx context.Context, application *matching.TemplateApplication) error {
	if r == nil || r.db == nil {
		return errors.New("application repo: nil db")
	}
	if application == nil || application.ID == "" {
		return errors.New("application repo: missing application id")
	}
	options, err := json.Marshal(application.Options)
	if err != nil {
		return err
	}
	matched, err := json.Marshal(application.Matched)
	if err != nil {
		return err
	}
	unmatched, err := json.Marshal(application.Unmatched)
	if err != nil {
		return err
	}
	if application.CreatedAt.IsZero() {
		application.CreatedAt = time.Now().UTC()
	}

	query := fmt.Sprintf(`
INSERT INTO %s (
	id,
	template_id,
	target_equipment_id,
	options,
	matched,
	unmatched,
	matched_count,
	unmatched_count,
	average_confidence,
	is_successful,
	created_at
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
)`, r.table)

	_, err = r.db.ExecContext(
		ctx,
		query,
		application.ID,
		application.TemplateID,
		application.TargetEquipmentID,
		options,
		matched,
		unmatched,
		application.MatchedCount,
		application.UnmatchedCount,
		application.AverageConfidence,
		application.IsSuccessful,
		application.CreatedAt,
	)
	return err
}

func scanApplication(row rowScanner) (matching.TemplateApplication, error) {
	var (
		application matching.TemplateApplication
		options     []byte
		matched     []byte
		unmatched   []byte
	)
	if err := row.Scan(
		&application.ID,
		&application.TemplateID,
		&application.TargetEquipmentID,
		&options,
		&matched,
		&unmatched,
		&application.MatchedCount,
		&application.UnmatchedCount,
		&application.AverageConfidence,
		&application.IsSuccessful,
		&application.CreatedAt,
	); err != nil {
		return matching.TemplateApplication{}, err
	}
	for _, field := range []struct {
		data []byte
		dest any
	}{
		{options, &application.Options},
		{matched, &application.Matched},
		{unmatched, &application.Unmatched},
	} {
		if len(field.data) == 0 {
			continue
		}
		if err := json.Unmarshal(field.data, field.dest); err != nil {
			return matching.TemplateApplication{}, fmt.Errorf("application repo: decode: %w", err)
		}
	}
	application.CreatedAt = application.CreatedAt.UTC()
	return application, nil
}
