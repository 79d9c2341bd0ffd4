package sites

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository stores saved bentos in-memory.
type MemoryRepository struct {
	mu          sync.RWMutex
	records     map[uuid.UUID]Site
	broadcaster *changeBroadcaster
	now         func() time.Time
}

// NewMemoryRepository constructs an in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records:     map[uuid.UUID]Site{},
		broadcaster: newChangeBroadcaster(),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepository) Create(_ context.Context, record Site) (Site, error) {
	record, err := prepare(record)
	if err != nil {
		return Site{}, err
	}

	r.mu.Lock()
	if _, exists := r.records[record.ID]; exists || r.nameTaken(record.Name, uuid.Nil) {
		r.mu.Unlock()
		return Site{}, fmt.Errorf("%w: %s", ErrSiteExists, record.Name)
	}
	now := r.now()
	record.CreatedAt = now
	record.UpdatedAt = now
	r.records[record.ID] = record
	r.mu.Unlock()

	r.broadcaster.Broadcast(newChangeEvent(ChangeCreated, record))
	return cloneSite(record), nil
}

func (r *MemoryRepository) Get(_ context.Context, id uuid.UUID) (Site, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[id]
	if !ok {
		return Site{}, ErrSiteNotFound
	}
	return cloneSite(record), nil
}

func (r *MemoryRepository) GetByName(_ context.Context, name string) (Site, error) {
	trimmed := strings.TrimSpace(name)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, record := range r.records {
		if strings.EqualFold(record.Name, trimmed) {
			return cloneSite(record), nil
		}
	}
	return Site{}, ErrSiteNotFound
}

// List returns every saved bento ordered by name.
func (r *MemoryRepository) List(context.Context) ([]Site, error) {
	r.mu.RLock()
	out := make([]Site, 0, len(r.records))
	for _, record := range r.records {
		out = append(out, cloneSite(record))
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepository) Update(_ context.Context, record Site) (Site, error) {
	record, err := prepare(record)
	if err != nil {
		return Site{}, err
	}

	r.mu.Lock()
	existing, ok := r.records[record.ID]
	if !ok {
		r.mu.Unlock()
		return Site{}, ErrSiteNotFound
	}
	if r.nameTaken(record.Name, record.ID) {
		r.mu.Unlock()
		return Site{}, fmt.Errorf("%w: %s", ErrSiteExists, record.Name)
	}
	record.CreatedAt = existing.CreatedAt
	record.UpdatedAt = r.now()
	r.records[record.ID] = record
	r.mu.Unlock()

	r.broadcaster.Broadcast(newChangeEvent(ChangeUpdated, record))
	return cloneSite(record), nil
}

func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	record, ok := r.records[id]
	if !ok {
		r.mu.Unlock()
		return ErrSiteNotFound
	}
	delete(r.records, id)
	r.mu.Unlock()

	r.broadcaster.Broadcast(newChangeEvent(ChangeDeleted, record))
	return nil
}

// Subscribe delivers change events until the context is cancelled.
func (r *MemoryRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.broadcaster.Subscribe(ctx)
}

// nameTaken must be called with the lock held.
func (r *MemoryRepository) nameTaken(name string, except uuid.UUID) bool {
	for id, record := range r.records {
		if id != except && strings.EqualFold(record.Name, name) {
			return true
		}
	}
	return false
}

func cloneSite(record Site) Site {
	record.Data = record.Data.Clone()
	return record
}
