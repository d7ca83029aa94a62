package matching

import (
	"errors"
	"time"
)

// MappingType records how an equipment mapping was established.
type MappingType string

const (
	MappingExact  MappingType = "exact"
	MappingFuzzy  MappingType = "fuzzy"
	MappingManual MappingType = "manual"
)

// IsValid reports whether the type is known.
func (t MappingType) IsValid() bool {
	return t == MappingExact || t == MappingFuzzy || t == MappingManual
}

// BulkMappingPair is a suggested source-to-target pairing. It is recomputed
// on demand and only persisted once accepted.
type BulkMappingPair struct {
	SourceID   string  `json:"source_id"`
	SourceName string  `json:"source_name"`
	TargetID   string  `json:"target_id"`
	TargetName string  `json:"target_name"`
	Confidence float64 `json:"confidence"`
	IsManual   bool    `json:"is_manual"`
}

// EquipmentMapping links one source equipment to one target equipment.
// Re-mapping a source supersedes its previous mapping.
type EquipmentMapping struct {
	SourceID    string      `json:"source_id"`
	TargetID    string      `json:"target_id"`
	MappingType MappingType `json:"mapping_type"`
	Confidence  float64     `json:"confidence"`
	IsVerified  bool        `json:"is_verified"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Validate checks mapping invariants.
func (m EquipmentMapping) Validate() error {
	if m.SourceID == "" || m.TargetID == "" {
		return errors.New("equipment mapping: empty equipment id")
	}
	if !m.MappingType.IsValid() {
		return errors.New("equipment mapping: invalid mapping type")
	}
	if m.Confidence < 0 || m.Confidence > 1 {
		return errors.New("equipment mapping: confidence out of range")
	}
	return nil
}
