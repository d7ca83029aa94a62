package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	masterdata "bacnet-commissioning/internal/masterdata/domain"
	matching "bacnet-commissioning/internal/matching/domain"
	"bacnet-commissioning/internal/observability/metrics"
)

// Suggestions holds both suggestion lists. Exact is offered for one-click
// acceptance and is computed independently of Fuzzy.
type Suggestions struct {
	Fuzzy []matching.BulkMappingPair `json:"suggestions"`
	Exact []matching.BulkMappingPair `json:"exact"`
}

// EquipmentMappingService accepts and verifies equipment mappings.
type EquipmentMappingService struct {
	equipment masterdata.EquipmentRepository
	mappings  matching.EquipmentMappingRepository
	mapper    *AutoMapper
	logger    *zap.Logger
}

// EquipmentMappingOption configures the service.
type EquipmentMappingOption func(*EquipmentMappingService)

// WithAutoMapper overrides the default AutoMapper.
func WithAutoMapper(mapper *AutoMapper) EquipmentMappingOption {
	return func(s *EquipmentMappingService) {
		if mapper != nil {
			s.mapper = mapper
		}
	}
}

// WithMappingLogger sets the logger.
func WithMappingLogger(logger *zap.Logger) EquipmentMappingOption {
	return func(s *EquipmentMappingService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewEquipmentMappingService constructs the service.
func NewEquipmentMappingService(equipment masterdata.EquipmentRepository, mappings matching.EquipmentMappingRepository, opts ...EquipmentMappingOption) (*EquipmentMappingService, error) {
	if equipment == nil {
		return nil, errors.New("equipment mapping service: nil equipment repository")
	}
	if mappings == nil {
		return nil, errors.New("equipment mapping service: nil mapping repository")
	}
	s := &EquipmentMappingService{
		equipment: equipment,
		mappings:  mappings,
		mapper:    NewAutoMapper(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Suggest computes fuzzy and exact pairings between the unmapped source and
// target equipment.
func (s *EquipmentMappingService) Suggest(ctx context.Context) (Suggestions, error) {
	sources, targets, existing, err := s.load(ctx)
	if err != nil {
		return Suggestions{}, err
	}
	result := Suggestions{
		Fuzzy: s.mapper.Suggest(sources, targets, existing),
		Exact: s.mapper.ExactMatches(sources, targets, existing),
	}
	metrics.AddSuggestions("fuzzy", len(result.Fuzzy))
	metrics.AddSuggestions("exact", len(result.Exact))
	return result, nil
}

// Accept stores a pairing, superseding any earlier mapping of the source.
func (s *EquipmentMappingService) Accept(ctx context.Context, pair matching.BulkMappingPair, mappingType matching.MappingType, verified bool) (*matching.EquipmentMapping, error) {
	source, err := s.mustGet(ctx, pair.SourceID, masterdata.InventorySource)
	if err != nil {
		return nil, err
	}
	target, err := s.mustGet(ctx, pair.TargetID, masterdata.InventoryTarget)
	if err != nil {
		return nil, err
	}
	if mappingType == "" {
		mappingType = matching.MappingFuzzy
		if pair.IsManual {
			mappingType = matching.MappingManual
		}
	}
	confidence := pair.Confidence
	if mappingType != matching.MappingFuzzy && confidence == 0 {
		confidence = 1
	}
	if mappingType == matching.MappingFuzzy && confidence == 0 {
		confidence = s.mapper.Score(*source, *target)
	}

	mapping := &matching.EquipmentMapping{
		SourceID:    source.ID,
		TargetID:    target.ID,
		MappingType: mappingType,
		Confidence:  confidence,
		IsVerified:  verified,
	}
	if err := mapping.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", matching.ErrInvalidMapping, err)
	}
	if err := s.mappings.Save(ctx, mapping); err != nil {
		return nil, err
	}
	metrics.IncMappingAccepted(string(mappingType))
	s.logger.Info("equipment mapping accepted",
		zap.String("source_id", mapping.SourceID),
		zap.String("target_id", mapping.TargetID),
		zap.String("type", string(mapping.MappingType)),
		zap.Float64("confidence", mapping.Confidence),
	)
	return mapping, nil
}

// AcceptExact accepts every current exact-name match. Acceptance is a user
// action, so the mappings are stored as verified.
func (s *EquipmentMappingService) AcceptExact(ctx context.Context) ([]matching.EquipmentMapping, error) {
	sources, targets, existing, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	pairs := s.mapper.ExactMatches(sources, targets, existing)
	accepted := make([]matching.EquipmentMapping, 0, len(pairs))
	for _, pair := range pairs {
		mapping, err := s.Accept(ctx, pair, matching.MappingExact, true)
		if err != nil {
			return accepted, err
		}
		accepted = append(accepted, *mapping)
	}
	return accepted, nil
}

// Verify marks the mapping of a source as human-confirmed.
func (s *EquipmentMappingService) Verify(ctx context.Context, sourceID string) (*matching.EquipmentMapping, error) {
	mapping, err := s.Get(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	mapping.IsVerified = true
	if err := s.mappings.Save(ctx, mapping); err != nil {
		return nil, err
	}
	return mapping, nil
}

// Get loads the mapping of a source or returns ErrMappingNotFound.
func (s *EquipmentMappingService) Get(ctx context.Context, sourceID string) (*matching.EquipmentMapping, error) {
	mapping, err := s.mappings.Get(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if mapping == nil {
		return nil, fmt.Errorf("%w: %s", matching.ErrMappingNotFound, sourceID)
	}
	return mapping, nil
}

// List returns every accepted mapping.
func (s *EquipmentMappingService) List(ctx context.Context) ([]matching.EquipmentMapping, error) {
	return s.mappings.List(ctx)
}

func (s *EquipmentMappingService) load(ctx context.Context) ([]masterdata.Equipment, []masterdata.Equipment, []matching.EquipmentMapping, error) {
	sources, err := s.equipment.ListByInventory(ctx, masterdata.InventorySource)
	if err != nil {
		return nil, nil, nil, err
	}
	targets, err := s.equipment.ListByInventory(ctx, masterdata.InventoryTarget)
	if err != nil {
		return nil, nil, nil, err
	}
	existing, err := s.mappings.List(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return sources, targets, existing, nil
}

func (s *EquipmentMappingService) mustGet(ctx context.Context, id string, inventory masterdata.Inventory) (*masterdata.Equipment, error) {
	equipment, err := s.equipment.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if equipment == nil || equipment.Inventory != inventory {
		return nil, fmt.Errorf("%w: %s equipment %s", masterdata.ErrEquipmentNotFound, inventory, id)
	}
	return equipment, nil
}
