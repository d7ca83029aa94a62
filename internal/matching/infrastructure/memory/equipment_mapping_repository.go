package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	matching "bacnet-commissioning/internal/matching/domain"
)

// EquipmentMappingRepository keeps one mapping per source equipment.
type EquipmentMappingRepository struct {
	mu   sync.RWMutex
	data map[string]matching.EquipmentMapping
}

// NewEquipmentMappingRepository constructs a repository.
func NewEquipmentMappingRepository() *EquipmentMappingRepository {
	return &EquipmentMappingRepository{data: make(map[string]matching.EquipmentMapping)}
}

// Get loads the mapping of a source equipment.
func (r *EquipmentMappingRepository) Get(ctx context.Context, sourceID string) (*matching.EquipmentMapping, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	mapping, ok := r.data[sourceID]
	if !ok {
		return nil, nil
	}
	return &mapping, nil
}

// List returns every mapping ordered by source id.
func (r *EquipmentMappingRepository) List(ctx context.Context) ([]matching.EquipmentMapping, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]matching.EquipmentMapping, 0, len(r.data))
	for _, mapping := range r.data {
		result = append(result, mapping)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SourceID < result[j].SourceID })
	return result, nil
}

// Save upserts by source id, superseding any earlier mapping of the source.
func (r *EquipmentMappingRepository) Save(ctx context.Context, mapping *matching.EquipmentMapping) error {
	_ = ctx
	if mapping == nil {
		return errors.New("equipment mapping repo: nil mapping")
	}
	if err := mapping.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := r.data[mapping.SourceID]; ok {
		mapping.CreatedAt = existing.CreatedAt
	}
	if mapping.CreatedAt.IsZero() {
		mapping.CreatedAt = now
	}
	mapping.UpdatedAt = now
	r.data[mapping.SourceID] = *mapping
	return nil
}
