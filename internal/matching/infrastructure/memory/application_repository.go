package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	matching "bacnet-commissioning/internal/matching/domain"
)

// ApplicationRepository is an in-memory store of template applications.
type ApplicationRepository struct {
	mu   sync.RWMutex
	data map[string]matching.TemplateApplication
}

// NewApplicationRepository constructs a repository.
func NewApplicationRepository() *ApplicationRepository {
	return &ApplicationRepository{data: make(map[string]matching.TemplateApplication)}
}

// Get loads an application by id.
func (r *ApplicationRepository) Get(ctx context.Context, id string) (*matching.TemplateApplication, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	application, ok := r.data[id]
	if !ok {
		return nil, nil
	}
	return &application, nil
}

// ListByTemplate returns the applications of one template, oldest first.
func (r *ApplicationRepository) ListByTemplate(ctx context.Context, templateID string) ([]matching.TemplateApplication, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]matching.TemplateApplication, 0)
	for _, application := range r.data {
		if application.TemplateID == templateID {
			result = append(result, application)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Save stores an application. Applications are immutable once stored.
func (r *ApplicationRepository) Save(ctx context.Context, application *matching.TemplateApplication) error {
	_ = ctx
	if application == nil || application.ID == "" {
		return errors.New("application repo: missing application id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[application.ID]; exists {
		return errors.New("application repo: application already stored")
	}
	r.data[application.ID] = *application
	return nil
}
