package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	masterdata "bacnet-commissioning/internal/masterdata/domain"
)

const defaultEquipmentTable = "equipment"

// EquipmentRepository is a Postgres implementation for equipment.
type EquipmentRepository struct {
	db    DBTX
	table string
}

// NewEquipmentRepository constructs a repository.
func NewEquipmentRepository(db DBTX, opts ...EquipmentOption) *EquipmentRepository {
	repo := &EquipmentRepository{db: db, table: defaultEquipmentTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// EquipmentOption configures the repository.
type EquipmentOption func(*EquipmentRepository)

// WithEquipmentTable overrides the default table name.
func WithEquipmentTable(table string) EquipmentOption {
	return func(repo *EquipmentRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// Get loads equipment by id.
func (r *EquipmentRepository) Get(ctx context.Context, id string) (*masterdata.Equipment, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("equipment repo: nil db")
	}
	if id == "" {
		return nil, errors.New("equipment repo: empty id")
	}

	query := fmt.Sprintf(`
SELECT id, inventory, name, equipment_type, vendor, created_at, updated_at
FROM %s
WHERE id = $1
LIMIT 1`, r.table)

	equipment, err := scanEquipment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &equipment, nil
}

// ListByInventory loads every equipment of one inventory ordered by name.
func (r *EquipmentRepository) ListByInventory(ctx context.Context, inventory masterdata.Inventory) ([]masterdata.Equipment, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("equipment repo: nil db")
	}
	if !inventory.IsValid() {
		return nil, errors.New("equipment repo: invalid inventory")
	}

	query := fmt.Sprintf(`
SELECT id, inventory, name, equipment_type, vendor, created_at, updated_at
FROM %s
WHERE inventory = $1
ORDER BY name ASC, id ASC`, r.table)

	rows, err := r.db.QueryContext(ctx, query, string(inventory))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []masterdata.Equipment
	for rows.Next() {
		equipment, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, equipment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Save upserts equipment.
func (r *EquipmentRepository) Save(ctx context.Context, equipment *masterdata.Equipment) error {
	if r == nil || r.db == nil {
		return errors.New("equipment repo: nil db")
	}
	if equipment == nil {
		return errors.New("equipment repo: nil equipment")
	}
	if err := equipment.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf(`
INSERT INTO %s (
	id,
	inventory,
	name,
	equipment_type,
	vendor
) VALUES (
	$1, $2, $3, $4, $5
)
ON CONFLICT (id)
DO UPDATE SET
	inventory = EXCLUDED.inventory,
	name = EXCLUDED.name,
	equipment_type = EXCLUDED.equipment_type,
	vendor = EXCLUDED.vendor,
	updated_at = NOW()`, r.table)

	_, err := r.db.ExecContext(
		ctx,
		query,
		equipment.ID,
		string(equipment.Inventory),
		equipment.Name,
		equipment.Type,
		equipment.Vendor,
	)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if equipment.CreatedAt.IsZero() {
		equipment.CreatedAt = now
	}
	equipment.UpdatedAt = now
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEquipment(row rowScanner) (masterdata.Equipment, error) {
	var (
		equipment masterdata.Equipment
		inventory string
	)
	if err := row.Scan(
		&equipment.ID,
		&inventory,
		&equipment.Name,
		&equipment.Type,
		&equipment.Vendor,
		&equipment.CreatedAt,
		&equipment.UpdatedAt,
	); err != nil {
		return masterdata.Equipment{}, err
	}
	equipment.Inventory = masterdata.Inventory(inventory)
	equipment.CreatedAt = equipment.CreatedAt.UTC()
	equipment.UpdatedAt = equipment.UpdatedAt.UTC()
	return equipment, nil
}
