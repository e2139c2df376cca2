package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"soul-portrait/internal/domain/portraits"
)

type portraitsRepo struct {
	mu    sync.RWMutex
	byID  map[string]int
	items []portraits.SavedPortrait // orden de inserción
}

func NewPortraitsRepo() portraits.Repository {
	return &portraitsRepo{
		byID: make(map[string]int),
	}
}

func (r *portraitsRepo) Insert(ctx context.Context, p portraits.SavedPortrait) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("portrait id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("portrait already exists")
	}

	r.byID[p.ID] = len(r.items)
	r.items = append(r.items, p)
	return nil
}

func (r *portraitsRepo) FindByIdentity(ctx context.Context, key portraits.IdentityKey) (portraits.SavedPortrait, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.items {
		if p.BirthData.Identity() == key {
			return p, true, nil
		}
	}
	return portraits.SavedPortrait{}, false, nil
}

func (r *portraitsRepo) List(ctx context.Context) ([]portraits.SavedPortrait, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]portraits.SavedPortrait, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *portraitsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.byID[id]
	if !ok {
		return nil // no-op
	}

	r.items = append(r.items[:idx], r.items[idx+1:]...)
	delete(r.byID, id)
	for i := idx; i < len(r.items); i++ {
		r.byID[r.items[i].ID] = i
	}
	return nil
}

func (r *portraitsRepo) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID = make(map[string]int)
	r.items = nil
	return nil
}
