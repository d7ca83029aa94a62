package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	masterdata "bacnet-commissioning/internal/masterdata/domain"
	semantic "bacnet-commissioning/internal/semantic/domain"
)

const defaultPointsTable = "points"

// PointRepository is a Postgres implementation for equipment points.
type PointRepository struct {
	db    DBTX
	table string
}

// NewPointRepository constructs a repository.
func NewPointRepository(db DBTX, opts ...PointOption) *PointRepository {
	repo := &PointRepository{db: db, table: defaultPointsTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// PointOption configures the repository.
type PointOption func(*PointRepository)

// WithPointTable overrides the table name.
func WithPointTable(table string) PointOption {
	return func(repo *PointRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

const pointColumns = `id, equipment_id, original_name, original_description, object_type, object_instance, units, nav_name, confidence, created_at, updated_at`

// Get loads a point by id.
func (r *PointRepository) Get(ctx context.Context, id string) (*masterdata.Point, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("point repo: nil db")
	}
	if id == "" {
		return nil, errors.New("point repo: empty id")
	}

	query := fmt.Sprintf(`
SELECT %s
FROM %s
WHERE id = $1
LIMIT 1`, pointColumns, r.table)

	point, err := scanPoint(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &point, nil
}

// ListByEquipment loads the points of one equipment in import order.
func (r *PointRepository) ListByEquipment(ctx context.Context, equipmentID string) ([]masterdata.Point, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("point repo: nil db")
	}
	if equipmentID == "" {
		return nil, errors.New("point repo: empty equipment id")
	}

	query := fmt.Sprintf(`
SELECT %s
FROM %s
WHERE equipment_id = $1
ORDER BY created_at ASC, id ASC`, pointColumns, r.table)

	rows, err := r.db.QueryContext(ctx, query, equipmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []masterdata.Point
	for rows.Next() {
		point, err := scanPoint(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, point)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Save upserts a point.
func (r *PointRepository) Save(ctx context.Context, point *masterdata.Point) error {
	if r == nil || r.db == nil {
		return errors.New("point repo: nil db")
	}
	if point == nil {
		return errors.New("point repo: nil point")
	}
	if err := point.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf(`
INSERT INTO %s (
	id,
	equipment_id,
	original_name,
	original_description,
	object_type,
	object_instance,
	units,
	nav_name,
	confidence
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9
)
ON CONFLICT (id)
DO UPDATE SET
	equipment_id = EXCLUDED.equipment_id,
	original_name = EXCLUDED.original_name,
	original_description = EXCLUDED.original_description,
	object_type = EXCLUDED.object_type,
	object_instance = EXCLUDED.object_instance,
	units = EXCLUDED.units,
	nav_name = EXCLUDED.nav_name,
	confidence = EXCLUDED.confidence,
	updated_at = NOW()`, r.table)

	var instance sql.NullInt64
	if point.Raw.ObjectInstance != nil {
		instance = sql.NullInt64{Int64: int64(*point.Raw.ObjectInstance), Valid: true}
	}

	_, err := r.db.ExecContext(
		ctx,
		query,
		point.ID,
		point.EquipmentID,
		point.Raw.OriginalName,
		point.Raw.OriginalDescription,
		string(point.Raw.ObjectType),
		instance,
		point.Raw.Units,
		point.NavName,
		point.Confidence,
	)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if point.CreatedAt.IsZero() {
		point.CreatedAt = now
	}
	point.UpdatedAt = now
	return nil
}

func scanPoint(row rowScanner) (masterdata.Point, error) {
	var (
		point      masterdata.Point
		objectType string
		instance   sql.NullInt64
	)
	if err := row.Scan(
		&point.ID,
		&point.EquipmentID,
		&point.Raw.OriginalName,
		&point.Raw.OriginalDescription,
		&objectType,
		&instance,
		&point.Raw.Units,
		&point.NavName,
		&point.Confidence,
		&point.CreatedAt,
		&point.UpdatedAt,
	); err != nil {
		return masterdata.Point{}, err
	}
	point.Raw.ObjectType = semantic.ObjectType(objectType)
	if instance.Valid {
		point.Raw.ObjectInstance = semantic.Instance(int(instance.Int64))
	}
	point.CreatedAt = point.CreatedAt.UTC()
	point.UpdatedAt = point.UpdatedAt.UTC()
	return point, nil
}
