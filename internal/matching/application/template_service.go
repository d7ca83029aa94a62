package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	masterdata "bacnet-commissioning/internal/masterdata/domain"
	matching "bacnet-commissioning/internal/matching/domain"
	"bacnet-commissioning/internal/observability/metrics"
)

// ApplyRequest carries optional per-call overrides of the configured options.
type ApplyRequest struct {
	MatchingFacet       string   `json:"matching_facet,omitempty"`
	ConfidenceThreshold *float64 `json:"confidence_threshold,omitempty"`
	AllowPartialMatches *bool    `json:"allow_partial_matches,omitempty"`
	CopyNavName         *bool    `json:"copy_nav_name,omitempty"`
	CopyUnits           *bool    `json:"copy_units,omitempty"`
}

// TemplateService creates templates from verified mappings and applies them.
type TemplateService struct {
	equipment    masterdata.EquipmentRepository
	points       masterdata.PointRepository
	mappings     matching.EquipmentMappingRepository
	templates    matching.TemplateRepository
	applications matching.ApplicationRepository
	config       Config
	logger       *zap.Logger
	clock        func() time.Time
}

// TemplateOption configures the service.
type TemplateOption func(*TemplateService)

// WithConfig sets the matching configuration.
func WithConfig(cfg Config) TemplateOption {
	return func(s *TemplateService) {
		s.config = cfg
	}
}

// WithTemplateLogger sets the logger.
func WithTemplateLogger(logger *zap.Logger) TemplateOption {
	return func(s *TemplateService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(clock func() time.Time) TemplateOption {
	return func(s *TemplateService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewTemplateService constructs the service.
func NewTemplateService(
	equipment masterdata.EquipmentRepository,
	points masterdata.PointRepository,
	mappings matching.EquipmentMappingRepository,
	templates matching.TemplateRepository,
	applications matching.ApplicationRepository,
	opts ...TemplateOption,
) (*TemplateService, error) {
	if equipment == nil || points == nil {
		return nil, errors.New("template service: nil masterdata repository")
	}
	if mappings == nil {
		return nil, errors.New("template service: nil mapping repository")
	}
	if templates == nil {
		return nil, errors.New("template service: nil template repository")
	}
	if applications == nil {
		return nil, errors.New("template service: nil application repository")
	}
	s := &TemplateService{
		equipment:    equipment,
		points:       points,
		mappings:     mappings,
		templates:    templates,
		applications: applications,
		config:       DefaultConfig(),
		logger:       zap.NewNop(),
		clock:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateFromMapping captures a template from the verified mapping of
// sourceEquipmentID.
func (s *TemplateService) CreateFromMapping(ctx context.Context, sourceEquipmentID, name string) (*matching.MappingTemplate, error) {
	mapping, err := s.mappings.Get(ctx, sourceEquipmentID)
	if err != nil {
		return nil, err
	}
	if mapping == nil {
		return nil, fmt.Errorf("%w: %s", matching.ErrMappingNotFound, sourceEquipmentID)
	}
	if !mapping.IsVerified {
		return nil, fmt.Errorf("%w: %s", matching.ErrMappingNotVerified, sourceEquipmentID)
	}
	source, err := s.getEquipment(ctx, mapping.SourceID)
	if err != nil {
		return nil, err
	}
	target, err := s.getEquipment(ctx, mapping.TargetID)
	if err != nil {
		return nil, err
	}
	points, err := s.points.ListByEquipment(ctx, source.ID)
	if err != nil {
		return nil, err
	}

	template, err := matching.NewTemplate(uuid.NewString(), name, *source, *target, points)
	if err != nil {
		return nil, err
	}
	if err := s.templates.Save(ctx, template); err != nil {
		return nil, err
	}
	s.logger.Info("template created",
		zap.String("template_id", template.ID),
		zap.String("source_equipment_id", source.ID),
		zap.Int("points", len(template.PointMappings)),
	)
	return template, nil
}

// Get loads a template or returns ErrTemplateNotFound.
func (s *TemplateService) Get(ctx context.Context, id string) (*matching.MappingTemplate, error) {
	template, err := s.templates.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, fmt.Errorf("%w: %s", matching.ErrTemplateNotFound, id)
	}
	return template, nil
}

// List returns every template.
func (s *TemplateService) List(ctx context.Context) ([]matching.MappingTemplate, error) {
	return s.templates.List(ctx)
}

// Delete removes a template. Only an explicit user action calls this.
func (s *TemplateService) Delete(ctx context.Context, id string) error {
	if err := s.templates.Delete(ctx, id); err != nil {
		if errors.Is(err, matching.ErrTemplateNotFound) {
			return fmt.Errorf("%w: %s", matching.ErrTemplateNotFound, id)
		}
		return err
	}
	return nil
}

// Options resolves the effective options for a target equipment type.
func (s *TemplateService) Options(equipmentType string, req ApplyRequest) (matching.ApplyOptions, error) {
	opts := s.config.OptionsFor(equipmentType)
	if req.MatchingFacet != "" {
		facet, err := matching.ParseFacet(req.MatchingFacet)
		if err != nil {
			return opts, err
		}
		opts.Facet = facet
	}
	if req.ConfidenceThreshold != nil {
		opts.ConfidenceThreshold = *req.ConfidenceThreshold
	}
	if req.AllowPartialMatches != nil {
		opts.AllowPartialMatches = *req.AllowPartialMatches
	}
	if req.CopyNavName != nil {
		opts.CopyNavName = *req.CopyNavName
	}
	if req.CopyUnits != nil {
		opts.CopyUnits = *req.CopyUnits
	}
	return opts, opts.Validate()
}

// Apply applies a template to the points of a target equipment, records the
// usage statistics and stores the application.
func (s *TemplateService) Apply(ctx context.Context, templateID, targetEquipmentID string, req ApplyRequest) (*matching.TemplateApplication, error) {
	start := time.Now()
	template, err := s.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}
	target, err := s.getEquipment(ctx, targetEquipmentID)
	if err != nil {
		return nil, err
	}
	opts, err := s.Options(target.Type, req)
	if err != nil {
		return nil, err
	}
	points, err := s.points.ListByEquipment(ctx, target.ID)
	if err != nil {
		return nil, err
	}

	application := matching.Apply(*template, points, opts)
	application.ID = uuid.NewString()
	application.TargetEquipmentID = target.ID
	application.CreatedAt = s.clock()

	// Usage is recorded only for stored applications.
	if err := s.applications.Save(ctx, &application); err != nil {
		return nil, err
	}
	stats, err := s.templates.RecordUsage(ctx, template.ID, application.IsSuccessful)
	if err != nil {
		s.logger.Error("template usage not recorded",
			zap.String("template_id", template.ID),
			zap.String("application_id", application.ID),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.ObserveTemplateApply(application.IsSuccessful, application.MatchedCount, application.UnmatchedCount, time.Since(start))
	s.logger.Info("template applied",
		zap.String("template_id", template.ID),
		zap.String("target_equipment_id", target.ID),
		zap.Int("matched", application.MatchedCount),
		zap.Int("unmatched", application.UnmatchedCount),
		zap.Float64("average_confidence", application.AverageConfidence),
		zap.Bool("successful", application.IsSuccessful),
		zap.Int("usage_count", stats.UsageCount),
	)
	return &application, nil
}

// GetApplication loads a stored application.
func (s *TemplateService) GetApplication(ctx context.Context, id string) (*matching.TemplateApplication, error) {
	application, err := s.applications.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if application == nil {
		return nil, fmt.Errorf("%w: %s", matching.ErrApplicationNotFound, id)
	}
	return application, nil
}

// ListApplications returns the applications of one template.
func (s *TemplateService) ListApplications(ctx context.Context, templateID string) ([]matching.TemplateApplication, error) {
	if _, err := s.Get(ctx, templateID); err != nil {
		return nil, err
	}
	return s.applications.ListByTemplate(ctx, templateID)
}

func (s *TemplateService) getEquipment(ctx context.Context, id string) (*masterdata.Equipment, error) {
	equipment, err := s.equipment.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if equipment == nil {
		return nil, fmt.Errorf("%w: %s", masterdata.ErrEquipmentNotFound, id)
	}
	return equipment, nil
}
