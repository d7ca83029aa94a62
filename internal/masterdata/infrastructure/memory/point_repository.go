package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	masterdata "bacnet-commissioning/internal/masterdata/domain"
)

type storedPoint struct {
	seq   int
	point masterdata.Point
}

// PointRepository is an in-memory repository for demo/testing. Points are
// listed in the order they were first saved.
type PointRepository struct {
	mu   sync.RWMutex
	seq  int
	data map[string]storedPoint
}

// NewPointRepository constructs a repository.
func NewPointRepository() *PointRepository {
	return &PointRepository{data: make(map[string]storedPoint)}
}

// Get loads a point by id.
func (r *PointRepository) Get(ctx context.Context, id string) (*masterdata.Point, error) {
	_ = ctx
	if id == "" {
		return nil, errors.New("point repo: empty id")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.data[id]
	if !ok {
		return nil, nil
	}
	point := stored.point
	return &point, nil
}

// ListByEquipment returns the points attached to equipmentID.
func (r *PointRepository) ListByEquipment(ctx context.Context, equipmentID string) ([]masterdata.Point, error) {
	_ = ctx
	if equipmentID == "" {
		return nil, errors.New("point repo: empty equipment id")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]storedPoint, 0)
	for _, stored := range r.data {
		if stored.point.EquipmentID == equipmentID {
			matched = append(matched, stored)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq < matched[j].seq })

	result := make([]masterdata.Point, 0, len(matched))
	for _, stored := range matched {
		result = append(result, stored.point)
	}
	return result, nil
}

// Save upserts a point.
func (r *PointRepository) Save(ctx context.Context, point *masterdata.Point) error {
	_ = ctx
	if point == nil {
		return errors.New("point repo: nil point")
	}
	if err := point.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	existing, ok := r.data[point.ID]
	seq := existing.seq
	if ok {
		point.CreatedAt = existing.point.CreatedAt
	} else {
		r.seq++
		seq = r.seq
	}
	if point.CreatedAt.IsZero() {
		point.CreatedAt = now
	}
	point.UpdatedAt = now
	r.data[point.ID] = storedPoint{seq: seq, point: *point}
	return nil
}
