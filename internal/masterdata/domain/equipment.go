package masterdata

import (
	"context"
	"errors"
	"time"
)

// Inventory names one of the two independently-named equipment inventories.
type Inventory string

const (
	// InventorySource is the raw device inventory exported from BACnet.
	InventorySource Inventory = "source"
	// InventoryTarget is the commissioning-system inventory.
	InventoryTarget Inventory = "target"
)

// IsValid reports whether the inventory is known.
func (i Inventory) IsValid() bool {
	return i == InventorySource || i == InventoryTarget
}

// Equipment is one piece of equipment in either inventory.
type Equipment struct {
	ID        string    `json:"id"`
	Inventory Inventory `json:"inventory"`
	Name      string    `json:"name"`
	Type      string    `json:"type,omitempty"`
	Vendor    string    `json:"vendor,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks equipment invariants.
func (e Equipment) Validate() error {
	if e.ID == "" {
		return errors.New("equipment: empty id")
	}
	if !e.Inventory.IsValid() {
		return errors.New("equipment: invalid inventory")
	}
	if e.Name == "" {
		return errors.New("equipment: empty name")
	}
	return nil
}

// EquipmentRepository manages equipment persistence. Get returns nil, nil
// when the equipment does not exist.
type EquipmentRepository interface {
	Get(ctx context.Context, id string) (*Equipment, error)
	ListByInventory(ctx context.Context, inventory Inventory) ([]Equipment, error)
	Save(ctx context.Context, equipment *Equipment) error
}
