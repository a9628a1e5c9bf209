package item

import (
	"context"
	"sort"
	"strings"
	"sync"

	domain "catalog-assistant/internal/domain/item"
)

// MemoryStore is a map-backed Store for tests and single-process deployments.
// A lowercased-SKU index makes the uniqueness check and the conditional write
// a single atomic step under the mutex.
type MemoryStore struct {
	mu     sync.RWMutex
	items  map[string]domain.Item
	bySKU  map[string]string
	serial uint64
	order  map[string]uint64
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]domain.Item),
		bySKU: make(map[string]string),
		order: make(map[string]uint64),
	}
}

func skuKey(sku string) string {
	return strings.ToLower(strings.TrimSpace(sku))
}

// GetByID returns the item or (nil, nil) when absent.
func (s *MemoryStore) GetByID(_ context.Context, id string) (*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

// List returns all items, newest first.
func (s *MemoryStore) List(_ context.Context) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(func(domain.Item) bool { return true }), nil
}

// Search returns items whose name, description, or SKU contains the term
// case-insensitively, newest first. An empty term matches everything.
func (s *MemoryStore) Search(_ context.Context, term string) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(term))
	return s.snapshot(func(it domain.Item) bool {
		if needle == "" {
			return true
		}
		return strings.Contains(strings.ToLower(it.Name), needle) ||
			strings.Contains(strings.ToLower(it.Description), needle) ||
			strings.Contains(strings.ToLower(it.SKU), needle)
	}), nil
}

// Insert adds the item, failing with *domain.ConflictError when another item
// already holds the SKU.
func (s *MemoryStore) Insert(_ context.Context, it *domain.Item) error {
	if it == nil {
		return domain.ErrNilItem
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := skuKey(it.SKU)
	if _, taken := s.bySKU[key]; taken {
		return &domain.ConflictError{SKU: it.SKU}
	}

	s.serial++
	s.items[it.ID] = *it
	s.bySKU[key] = it.ID
	s.order[it.ID] = s.serial
	return nil
}

// Replace overwrites the stored record with the same ID, failing with
// *domain.ConflictError when a different record holds the new SKU.
func (s *MemoryStore) Replace(_ context.Context, it *domain.Item) error {
	if it == nil {
		return domain.ErrNilItem
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[it.ID]
	if !ok {
		return nil
	}

	newKey := skuKey(it.SKU)
	if holder, taken := s.bySKU[newKey]; taken && holder != it.ID {
		return &domain.ConflictError{SKU: it.SKU}
	}

	delete(s.bySKU, skuKey(current.SKU))
	s.items[it.ID] = *it
	s.bySKU[newKey] = it.ID
	return nil
}

// Delete removes the item, reporting whether it existed.
func (s *MemoryStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok {
		return false, nil
	}
	delete(s.items, id)
	delete(s.bySKU, skuKey(it.SKU))
	delete(s.order, id)
	return true, nil
}

// Ensure interface compliance.
var _ domain.Store = (*MemoryStore)(nil)

// snapshot copies matching items newest-first. Callers hold at least the read
// lock.
func (s *MemoryStore) snapshot(match func(domain.Item) bool) []domain.Item {
	out := make([]domain.Item, 0, len(s.items))
	for _, it := range s.items {
		if match(it) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return s.order[out[i].ID] > s.order[out[j].ID]
	})
	return out
}
