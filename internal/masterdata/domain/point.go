package masterdata

import (
	"context"
	"errors"
	"time"

	semantic "bacnet-commissioning/internal/semantic/domain"
)

// Point is a data point attached to equipment. NavName is the human-assigned
// target label; Confidence is the last normalization confidence.
type Point struct {
	ID          string            `json:"id"`
	EquipmentID string            `json:"equipment_id"`
	Raw         semantic.RawPoint `json:"raw"`
	NavName     string            `json:"nav_name,omitempty"`
	Confidence  float64           `json:"confidence"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Validate checks point invariants.
func (p Point) Validate() error {
	if p.ID == "" {
		return errors.New("point: empty id")
	}
	if p.EquipmentID == "" {
		return errors.New("point: empty equipment id")
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return errors.New("point: confidence out of range")
	}
	return nil
}

// CurRef is the object-reference facet.
func (p Point) CurRef() string { return p.Raw.CurRef() }

// DisplayName is the original-name facet.
func (p Point) DisplayName() string { return p.Raw.OriginalName }

// Description is the description facet.
func (p Point) Description() string { return p.Raw.OriginalDescription }

// PointRepository manages point persistence. Get returns nil, nil when the
// point does not exist.
type PointRepository interface {
	Get(ctx context.Context, id string) (*Point, error)
	ListByEquipment(ctx context.Context, equipmentID string) ([]Point, error)
	Save(ctx context.Context, point *Point) error
}
