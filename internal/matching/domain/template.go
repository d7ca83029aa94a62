package matching

import (
	"errors"
	"time"

	masterdata "bacnet-commissioning/internal/masterdata/domain"
)

// PointMapping is one captured row of a template.
type PointMapping struct {
	TemplatePointID string  `json:"template_point_id"`
	CurRef          string  `json:"cur_ref"`
	DisplayName     string  `json:"display_name"`
	Description     string  `json:"description"`
	NavName         string  `json:"nav_name"`
	Units           string  `json:"units"`
	Confidence      float64 `json:"confidence"`
}

// Value returns the row's value for a facet.
func (m PointMapping) Value(facet Facet) string {
	switch facet {
	case FacetObjectReference:
		return m.CurRef
	case FacetDescription:
		return m.Description
	default:
		return m.DisplayName
	}
}

// UsageStats tracks how often a template was applied and how often it worked.
type UsageStats struct {
	UsageCount  int     `json:"usage_count"`
	SuccessRate float64 `json:"success_rate"`
}

// Record folds one application outcome into the running average.
func (u UsageStats) Record(success bool) UsageStats {
	n := u.UsageCount + 1
	outcome := 0.0
	if success {
		outcome = 1
	}
	return UsageStats{
		UsageCount:  n,
		SuccessRate: (u.SuccessRate*float64(n-1) + outcome) / float64(n),
	}
}

// MappingTemplate is a reusable pattern harvested from a verified mapping.
type MappingTemplate struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	SourceEquipmentID   string         `json:"source_equipment_id"`
	TargetEquipmentID   string         `json:"target_equipment_id"`
	SourceEquipmentType string         `json:"source_equipment_type"`
	PointMappings       []PointMapping `json:"point_mappings"`
	Usage               UsageStats     `json:"usage"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// Validate checks template invariants.
func (t MappingTemplate) Validate() error {
	if t.ID == "" {
		return errors.New("template: empty id")
	}
	if len(t.PointMappings) == 0 {
		return ErrEmptyTemplate
	}
	if t.Usage.UsageCount < 0 || t.Usage.SuccessRate < 0 || t.Usage.SuccessRate > 1 {
		return errors.New("template: invalid usage statistics")
	}
	return nil
}

// NewTemplate captures the facets and labels of every source point that
// already carries a nav name. No matching happens here.
func NewTemplate(id, name string, source, target masterdata.Equipment, points []masterdata.Point) (*MappingTemplate, error) {
	if name == "" {
		name = source.Name
	}
	template := &MappingTemplate{
		ID:                  id,
		Name:                name,
		SourceEquipmentID:   source.ID,
		TargetEquipmentID:   target.ID,
		SourceEquipmentType: source.Type,
		PointMappings:       make([]PointMapping, 0, len(points)),
	}
	for _, point := range points {
		if point.NavName == "" {
			continue
		}
		template.PointMappings = append(template.PointMappings, PointMapping{
			TemplatePointID: point.ID,
			CurRef:          point.CurRef(),
			DisplayName:     point.DisplayName(),
			Description:     point.Description(),
			NavName:         point.NavName,
			Units:           point.Raw.Units,
			Confidence:      point.Confidence,
		})
	}
	if err := template.Validate(); err != nil {
		return nil, err
	}
	return template, nil
}
