package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	masterdata "bacnet-commissioning/internal/masterdata/domain"
)

// EquipmentRepository is an in-memory repository for demo/testing.
type EquipmentRepository struct {
	mu   sync.RWMutex
	data map[string]masterdata.Equipment
}

// NewEquipmentRepository constructs a repository.
func NewEquipmentRepository() *EquipmentRepository {
	return &EquipmentRepository{data: make(map[string]masterdata.Equipment)}
}

// Get loads equipment by id.
func (r *EquipmentRepository) Get(ctx context.Context, id string) (*masterdata.Equipment, error) {
	_ = ctx
	if id == "" {
		return nil, errors.New("equipment repo: empty id")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	equipment, ok := r.data[id]
	if !ok {
		return nil, nil
	}
	return &equipment, nil
}

// ListByInventory returns equipment of one inventory ordered by name.
func (r *EquipmentRepository) ListByInventory(ctx context.Context, inventory masterdata.Inventory) ([]masterdata.Equipment, error) {
	_ = ctx
	if !inventory.IsValid() {
		return nil, errors.New("equipment repo: invalid inventory")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]masterdata.Equipment, 0, len(r.data))
	for _, equipment := range r.data {
		if equipment.Inventory == inventory {
			result = append(result, equipment)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Save upserts equipment.
func (r *EquipmentRepository) Save(ctx context.Context, equipment *masterdata.Equipment) error {
	_ = ctx
	if equipment == nil {
		return errors.New("equipment repo: nil equipment")
	}
	if err := equipment.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := r.data[equipment.ID]; ok {
		equipment.CreatedAt = existing.CreatedAt
	}
	if equipment.CreatedAt.IsZero() {
		equipment.CreatedAt = now
	}
	equipment.UpdatedAt = now
	r.data[equipment.ID] = *equipment
	return nil
}
