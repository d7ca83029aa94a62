package application

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	masterdata "bacnet-commissioning/internal/masterdata/domain"
	"bacnet-commissioning/internal/observability/metrics"
	"bacnet-commissioning/internal/semantic/dictionary"
	semantic "bacnet-commissioning/internal/semantic/domain"
	"bacnet-commissioning/internal/semantic/normalizer"
)

// Cache stores normalization results keyed by CacheKey.
type Cache interface {
	Get(ctx context.Context, key string) (semantic.NormalizedPoint, bool, error)
	Set(ctx context.Context, key string, point semantic.NormalizedPoint) error
}

// EquipmentPoint pairs a stored point with its normalization.
type EquipmentPoint struct {
	Point      masterdata.Point         `json:"point"`
	Normalized semantic.NormalizedPoint `json:"normalized"`
}

// NormalizationService fans normalization out over a bounded worker pool.
type NormalizationService struct {
	normalizer *normalizer.Normalizer
	equipment  masterdata.EquipmentRepository
	points     masterdata.PointRepository
	cache      Cache
	workers    int
	logger     *zap.Logger
}

// Option configures the service.
type Option func(*NormalizationService)

// WithCache enables result caching.
func WithCache(cache Cache) Option {
	return func(s *NormalizationService) {
		s.cache = cache
	}
}

// WithWorkers bounds the number of concurrent normalizations.
func WithWorkers(workers int) Option {
	return func(s *NormalizationService) {
		if workers > 0 {
			s.workers = workers
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *NormalizationService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithInventory enables NormalizeEquipment.
func WithInventory(equipment masterdata.EquipmentRepository, points masterdata.PointRepository) Option {
	return func(s *NormalizationService) {
		s.equipment = equipment
		s.points = points
	}
}

// NewNormalizationService constructs the service.
func NewNormalizationService(n *normalizer.Normalizer, opts ...Option) (*NormalizationService, error) {
	if n == nil {
		return nil, errors.New("normalization service: nil normalizer")
	}
	s := &NormalizationService{
		normalizer: n,
		workers:    runtime.GOMAXPROCS(0),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NormalizeBatch normalizes points and returns results in input order. It
// only fails when ctx is done.
func (s *NormalizationService) NormalizeBatch(ctx context.Context, points []semantic.RawPoint, dctx dictionary.Context) ([]semantic.NormalizedPoint, error) {
	start := time.Now()
	results := make([]semantic.NormalizedPoint, len(points))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range points {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.normalizeOne(gctx, points[i], dctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		metrics.ObserveNormalizeBatch(metrics.ResultError, time.Since(start))
		return nil, err
	}

	for _, result := range results {
		metrics.ObserveNormalized(string(result.ConfidenceLevel), result.RequiresManualReview)
	}
	metrics.ObserveNormalizeBatch(metrics.ResultSuccess, time.Since(start))
	return results, nil
}

// NormalizeEquipment normalizes the stored points of one equipment using its
// type and vendor as context, and stores each point's confidence.
func (s *NormalizationService) NormalizeEquipment(ctx context.Context, equipmentID string) ([]EquipmentPoint, error) {
	result, err := s.normalizeStored(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	for i := range result {
		point := result[i].Point
		if err := s.points.Save(ctx, &point); err != nil {
			return nil, fmt.Errorf("normalization service: save point %s: %w", point.ID, err)
		}
		result[i].Point = point
	}
	s.logger.Info("equipment normalized",
		zap.String("equipment_id", equipmentID),
		zap.Int("points", len(result)),
	)
	return result, nil
}

// PreviewEquipment normalizes the stored points of one equipment like
// NormalizeEquipment but writes nothing back.
func (s *NormalizationService) PreviewEquipment(ctx context.Context, equipmentID string) ([]EquipmentPoint, error) {
	return s.normalizeStored(ctx, equipmentID)
}

func (s *NormalizationService) normalizeStored(ctx context.Context, equipmentID string) ([]EquipmentPoint, error) {
	if s.equipment == nil || s.points == nil {
		return nil, errors.New("normalization service: inventory not configured")
	}
	equipment, err := s.equipment.Get(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	if equipment == nil {
		return nil, fmt.Errorf("%w: %s", masterdata.ErrEquipmentNotFound, equipmentID)
	}
	points, err := s.points.ListByEquipment(ctx, equipmentID)
	if err != nil {
		return nil, err
	}

	raw := make([]semantic.RawPoint, len(points))
	for i, point := range points {
		raw[i] = point.Raw
	}
	normalized, err := s.NormalizeBatch(ctx, raw, dictionary.Context{
		EquipmentType: equipment.Type,
		Vendor:        equipment.Vendor,
	})
	if err != nil {
		return nil, err
	}

	result := make([]EquipmentPoint, len(points))
	for i, point := range points {
		point.Confidence = normalized[i].Confidence
		result[i] = EquipmentPoint{Point: point, Normalized: normalized[i]}
	}
	return result, nil
}

func (s *NormalizationService) normalizeOne(ctx context.Context, point semantic.RawPoint, dctx dictionary.Context) semantic.NormalizedPoint {
	if s.cache == nil {
		return s.normalizer.Normalize(point, dctx)
	}
	key := CacheKey(s.normalizer.Dictionary().Version(), point, dctx)
	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("normalization cache get failed", zap.Error(err))
	}
	metrics.IncCacheLookup(ok)
	if ok {
		return cached
	}
	result := s.normalizer.Normalize(point, dctx)
	if err := s.cache.Set(ctx, key, result); err != nil {
		s.logger.Warn("normalization cache set failed", zap.Error(err))
	}
	return result
}

// CacheKey derives a stable key from the dictionary version and the inputs.
func CacheKey(dictVersion string, point semantic.RawPoint, dctx dictionary.Context) string {
	payload, _ := json.Marshal(struct {
		Version string             `json:"v"`
		Point   semantic.RawPoint  `json:"p"`
		Context dictionary.Context `json:"c"`
	}{dictVersion, point, dctx})
	sum := sha1.Sum(payload)
	return hex.EncodeToString(sum[:])
}
