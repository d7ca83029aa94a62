package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	matching "bacnet-commissioning/internal/matching/domain"
)

// TemplateRepository is an in-memory template store for demo/testing.
type TemplateRepository struct {
	mu   sync.RWMutex
	data map[string]matching.MappingTemplate
}

// NewTemplateRepository constructs a repository.
func NewTemplateRepository() *TemplateRepository {
	return &TemplateRepository{data: make(map[string]matching.MappingTemplate)}
}

// Get loads a template by id.
func (r *TemplateRepository) Get(ctx context.Context, id string) (*matching.MappingTemplate, error) {
	_ = ctx
	if id == "" {
		return nil, errors.New("template repo: empty id")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	template, ok := r.data[id]
	if !ok {
		return nil, nil
	}
	clone := cloneTemplate(template)
	return &clone, nil
}

// List returns every template, newest first.
func (r *TemplateRepository) List(ctx context.Context) ([]matching.MappingTemplate, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]matching.MappingTemplate, 0, len(r.data))
	for _, template := range r.data {
		result = append(result, cloneTemplate(template))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Save upserts a template.
func (r *TemplateRepository) Save(ctx context.Context, template *matching.MappingTemplate) error {
	_ = ctx
	if template == nil {
		return errors.New("template repo: nil template")
	}
	if err := template.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := r.data[template.ID]; ok {
		template.CreatedAt = existing.CreatedAt
	}
	if template.CreatedAt.IsZero() {
		template.CreatedAt = now
	}
	template.UpdatedAt = now
	r.data[template.ID] = cloneTemplate(*template)
	return nil
}

// Delete removes a template.
func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return matching.ErrTemplateNotFound
	}
	delete(r.data, id)
	return nil
}

// RecordUsage folds one application outcome into the template's statistics
// under the write lock.
func (r *TemplateRepository) RecordUsage(ctx context.Context, id string, success bool) (matching.UsageStats, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	template, ok := r.data[id]
	if !ok {
		return matching.UsageStats{}, matching.ErrTemplateNotFound
	}
	template.Usage = template.Usage.Record(success)
	template.UpdatedAt = time.Now().UTC()
	r.data[id] = template
	return template.Usage, nil
}

func cloneTemplate(template matching.MappingTemplate) matching.MappingTemplate {
	template.PointMappings = append([]matching.PointMapping(nil), template.PointMappings...)
	return template
}
