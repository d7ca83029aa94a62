package matching

import "context"

// TemplateRepository persists templates. Get returns nil, nil when missing.
// RecordUsage must serialize concurrent callers for the same template so no
// update is lost; it returns ErrTemplateNotFound when the template is gone.
type TemplateRepository interface {
	Get(ctx context.Context, id string) (*MappingTemplate, error)
	List(ctx context.Context) ([]MappingTemplate, error)
	Save(ctx context.Context, template *MappingTemplate) error
	Delete(ctx context.Context, id string) error
	RecordUsage(ctx context.Context, id string, success bool) (UsageStats, error)
}

// ApplicationRepository persists template applications. Get returns nil, nil
// when missing.
type ApplicationRepository interface {
	Get(ctx context.Context, id string) (*TemplateApplication, error)
	ListByTemplate(ctx context.Context, templateID string) ([]TemplateApplication, error)
	Save(ctx context.Context, application *TemplateApplication) error
}

// EquipmentMappingRepository persists accepted mappings keyed by source id.
// Get returns nil, nil when missing.
type EquipmentMappingRepository interface {
	Get(ctx context.Context, sourceID string) (*EquipmentMapping, error)
	List(ctx context.Context) ([]EquipmentMapping, error)
	Save(ctx context.Context, mapping *EquipmentMapping) error
}
