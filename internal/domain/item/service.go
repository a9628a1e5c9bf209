package item

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"catalog-assistant/utils/itemid"
)

// Service enforces the catalog invariants on top of the raw Store: SKU
// uniqueness and name-ambiguity detection. All operations are safe for
// concurrent use across different items; uniqueness under concurrent writes
// to the same SKU is guaranteed by the Store write path.
type Service struct {
	store Store
	log   zerolog.Logger
	now   func() time.Time
}

// NewService wires the catalog operations.
func NewService(store Store, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		log:   log.With().Str("component", "catalog-service").Logger(),
		now:   time.Now,
	}
}

// FindByName returns an item only when exactly one stored item carries the
// name case-insensitively. Zero matches and multiple matches both return
// (nil, nil); callers needing to disambiguate use FindAllByName.
func (s *Service) FindByName(ctx context.Context, name string) (*Item, error) {
	matches, err := s.FindAllByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(matches) != 1 {
		return nil, nil
	}
	return &matches[0], nil
}

// FindAllByName returns every case-insensitive name match for disambiguation.
func (s *Service) FindAllByName(ctx context.Context, name string) ([]Item, error) {
	name = strings.TrimSpace(name)
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	var matches []Item
	for _, it := range all {
		if strings.EqualFold(it.Name, name) {
			matches = append(matches, it)
		}
	}
	return matches, nil
}

// FindBySKU returns the first case-insensitive SKU match. At most one exists
// under the uniqueness invariant.
func (s *Service) FindBySKU(ctx context.Context, sku string) (*Item, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	for _, it := range all {
		if SKUEqual(it.SKU, sku) {
			found := it
			return &found, nil
		}
	}
	return nil, nil
}

// ListAll returns every item ordered by creation time, newest first.
func (s *Service) ListAll(ctx context.Context) ([]Item, error) {
	return s.store.List(ctx)
}

// Search returns items whose name, description, or SKU contains the term
// case-insensitively, newest first.
func (s *Service) Search(ctx context.Context, term string) ([]Item, error) {
	return s.store.Search(ctx, strings.TrimSpace(term))
}

// Create validates the fields, assigns an id and creation timestamp, and
// persists the item. Fails with *ConflictError when the SKU is already taken.
func (s *Service) Create(ctx context.Context, fields Fields) (*Item, error) {
	fields.normalize()
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	it := &Item{
		ID:          itemid.New(),
		Name:        fields.Name,
		Description: fields.Description,
		Price:       fields.Price,
		SKU:         fields.SKU,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.Insert(ctx, it); err != nil {
		return nil, err
	}

	s.log.Info().Str("item_id", it.ID).Str("sku", it.SKU).Msg("item created")
	return it, nil
}

// Update resolves the target by name or SKU per bySKU, replaces all mutable
// fields atomically, and refreshes UpdatedAt. Resolution by name fails with
// *AmbiguousError when more than one item matches; zero matches return
// (nil, nil). A new SKU colliding with a different item fails with
// *ConflictError.
func (s *Service) Update(ctx context.Context, identifier string, bySKU bool, fields Fields) (*Item, error) {
	fields.normalize()
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	target, err := s.resolve(ctx, identifier, bySKU)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, nil
	}

	updated := *target
	updated.Name = fields.Name
	updated.Description = fields.Description
	updated.Price = fields.Price
	updated.SKU = fields.SKU
	now := s.now().UTC()
	updated.UpdatedAt = &now

	if err := s.store.Replace(ctx, &updated); err != nil {
		return nil, err
	}

	s.log.Info().Str("item_id", updated.ID).Str("sku", updated.SKU).Msg("item updated")
	return &updated, nil
}

// DeleteByName resolves by name (failing with *AmbiguousError on multiple
// matches) and hard-deletes the item. Returns false when nothing matched.
func (s *Service) DeleteByName(ctx context.Context, name string) (bool, error) {
	return s.delete(ctx, name, false)
}

// DeleteBySKU resolves by SKU and hard-deletes the item. Returns false when
// nothing matched.
func (s *Service) DeleteBySKU(ctx context.Context, sku string) (bool, error) {
	return s.delete(ctx, sku, true)
}

func (s *Service) delete(ctx context.Context, identifier string, bySKU bool) (bool, error) {
	target, err := s.resolve(ctx, identifier, bySKU)
	if err != nil {
		return false, err
	}
	if target == nil {
		return false, nil
	}

	deleted, err := s.store.Delete(ctx, target.ID)
	if err != nil {
		return false, err
	}
	if deleted {
		s.log.Info().Str("item_id", target.ID).Str("sku", target.SKU).Msg("item deleted")
	}
	return deleted, nil
}

// resolve maps a user-facing identifier to a single stored item, or nil when
// absent. Name resolution surfaces ambiguity as a recoverable error carrying
// the candidate SKUs.
func (s *Service) resolve(ctx context.Context, identifier string, bySKU bool) (*Item, error) {
	if bySKU {
		return s.FindBySKU(ctx, identifier)
	}

	matches, err := s.FindAllByName(ctx, identifier)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return &matches[0], nil
	default:
		skus := make([]string, 0, len(matches))
		for _, m := range matches {
			skus = append(skus, m.SKU)
		}
		return nil, &AmbiguousError{Name: strings.TrimSpace(identifier), SKUs: skus}
	}
}
