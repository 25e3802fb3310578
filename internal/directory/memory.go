package directory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository keeps clinics in a mutex-guarded map. Used for tests
// and for running the API without a database.
type InMemoryRepository struct {
	mu      sync.RWMutex
	clinics map[uuid.UUID]Clinic
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{clinics: make(map[uuid.UUID]Clinic)}
}

func (r *InMemoryRepository) SelectAll(ctx context.Context) ([]Clinic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Clinic, 0, len(r.clinics))
	for _, c := range r.clinics {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *InMemoryRepository) SelectByID(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clinics[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *InMemoryRepository) Insert(ctx context.Context, c Clinic) (*Clinic, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Normalize()

	r.mu.Lock()
	r.clinics[c.ID] = c
	r.mu.Unlock()

	return &c, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Clinic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.clinics[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&c)
	c.UpdatedAt = time.Now().UTC()
	c.Normalize()
	r.clinics[id] = c
	return &c, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clinics[id]; !ok {
		return ErrNotFound
	}
	delete(r.clinics, id)
	return nil
}
