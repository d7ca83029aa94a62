package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	masterdata "bacnet-commissioning/internal/masterdata/domain"
	semantic "bacnet-commissioning/internal/semantic/domain"
)

// InventoryService maintains equipment and the raw points imported for it.
type InventoryService struct {
	equipment masterdata.EquipmentRepository
	points    masterdata.PointRepository
}

// NewInventoryService constructs an inventory service.
func NewInventoryService(equipment masterdata.EquipmentRepository, points masterdata.PointRepository) (*InventoryService, error) {
	if equipment == nil {
		return nil, errors.New("inventory service: nil equipment repository")
	}
	if points == nil {
		return nil, errors.New("inventory service: nil point repository")
	}
	return &InventoryService{equipment: equipment, points: points}, nil
}

// UpsertEquipment validates and saves equipment. An empty id is assigned.
func (s *InventoryService) UpsertEquipment(ctx context.Context, equipment *masterdata.Equipment) error {
	if equipment == nil {
		return errors.New("inventory service: nil equipment")
	}
	if equipment.ID == "" {
		equipment.ID = uuid.NewString()
	}
	equipment.Name = strings.TrimSpace(equipment.Name)
	if err := equipment.Validate(); err != nil {
		return err
	}
	return s.equipment.Save(ctx, equipment)
}

// GetEquipment loads equipment or returns ErrEquipmentNotFound.
func (s *InventoryService) GetEquipment(ctx context.Context, id string) (*masterdata.Equipment, error) {
	equipment, err := s.equipment.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if equipment == nil {
		return nil, fmt.Errorf("%w: %s", masterdata.ErrEquipmentNotFound, id)
	}
	return equipment, nil
}

// ListEquipment returns every equipment of one inventory.
func (s *InventoryService) ListEquipment(ctx context.Context, inventory masterdata.Inventory) ([]masterdata.Equipment, error) {
	return s.equipment.ListByInventory(ctx, inventory)
}

// ImportPoints attaches raw points to existing equipment. Points without an
// original name are skipped; the stored points are returned in input order.
func (s *InventoryService) ImportPoints(ctx context.Context, equipmentID string, raw []semantic.RawPoint) ([]masterdata.Point, error) {
	if _, err := s.GetEquipment(ctx, equipmentID); err != nil {
		return nil, err
	}
	imported := make([]masterdata.Point, 0, len(raw))
	for _, rp := range raw {
		if strings.TrimSpace(rp.OriginalName) == "" {
			continue
		}
		point := masterdata.Point{
			ID:          uuid.NewString(),
			EquipmentID: equipmentID,
			Raw:         rp,
		}
		if err := s.points.Save(ctx, &point); err != nil {
			return nil, fmt.Errorf("inventory service: save point %q: %w", rp.OriginalName, err)
		}
		imported = append(imported, point)
	}
	return imported, nil
}

// ListPoints returns the points of existing equipment.
func (s *InventoryService) ListPoints(ctx context.Context, equipmentID string) ([]masterdata.Point, error) {
	if _, err := s.GetEquipment(ctx, equipmentID); err != nil {
		return nil, err
	}
	return s.points.ListByEquipment(ctx, equipmentID)
}

// AssignNavName records the human-chosen target label of a point.
func (s *InventoryService) AssignNavName(ctx context.Context, pointID, navName string) (*masterdata.Point, error) {
	point, err := s.points.Get(ctx, pointID)
	if err != nil {
		return nil, err
	}
	if point == nil {
		return nil, fmt.Errorf("%w: %s", masterdata.ErrPointNotFound, pointID)
	}
	point.NavName = strings.TrimSpace(navName)
	if err := s.points.Save(ctx, point); err != nil {
		return nil, err
	}
	return point, nil
}
