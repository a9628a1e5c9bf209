package item

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	domain "catalog-assistant/internal/domain/item"
	"catalog-assistant/internal/infrastructure/database/entities"
)

// PostgresStore is the GORM-backed Store. The unique expression index on
// lower(sku) makes the insert/replace paths race-free: a colliding write
// surfaces as a duplicate-key error and is mapped to *domain.ConflictError.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore wraps an established GORM connection.
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// GetByID returns the item or (nil, nil) when absent.
func (s *PostgresStore) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	var entity entities.CatalogItem
	err := s.db.WithContext(ctx).First(&entity, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	it := toDomain(entity)
	return &it, nil
}

// List returns all items, newest first.
func (s *PostgresStore) List(ctx context.Context) ([]domain.Item, error) {
	var rows []entities.CatalogItem
	err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainSlice(rows), nil
}

// Search returns items whose name, description, or SKU contains the term
// case-insensitively, newest first.
func (s *PostgresStore) Search(ctx context.Context, term string) ([]domain.Item, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if term = strings.TrimSpace(term); term != "" {
		pattern := "%" + escapeLike(term) + "%"
		query = query.Where(
			"name ILIKE ? OR description ILIKE ? OR sku ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	var rows []entities.CatalogItem
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainSlice(rows), nil
}

// Insert adds the item, failing with *domain.ConflictError when another item
// already holds the SKU.
func (s *PostgresStore) Insert(ctx context.Context, it *domain.Item) error {
	if it == nil {
		return domain.ErrNilItem
	}

	err := s.db.WithContext(ctx).Create(toEntity(*it)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &domain.ConflictError{SKU: it.SKU}
	}
	return err
}

// Replace overwrites the stored record with the same ID, failing with
// *domain.ConflictError when a different record holds the new SKU.
func (s *PostgresStore) Replace(ctx context.Context, it *domain.Item) error {
	if it == nil {
		return domain.ErrNilItem
	}

	err := s.db.WithContext(ctx).
		Model(&entities.CatalogItem{}).
		Where("id = ?", it.ID).
		Updates(map[string]any{
			"name":        it.Name,
			"description": it.Description,
			"price":       it.Price,
			"sku":         it.SKU,
			"updated_at":  it.UpdatedAt,
		}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &domain.ConflictError{SKU: it.SKU}
	}
	return err
}

// Delete removes the item, reporting whether it existed.
func (s *PostgresStore) Delete(ctx context.Context, id string) (bool, error) {
	result := s.db.WithContext(ctx).Delete(&entities.CatalogItem{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Ensure interface compliance.
var _ domain.Store = (*PostgresStore)(nil)

func escapeLike(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}

func toEntity(it domain.Item) *entities.CatalogItem {
	return &entities.CatalogItem{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Price:       it.Price,
		SKU:         it.SKU,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}

func toDomain(entity entities.CatalogItem) domain.Item {
	return domain.Item{
		ID:          entity.ID,
		Name:        entity.Name,
		Description: entity.Description,
		Price:       entity.Price,
		SKU:         entity.SKU,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}
}

func toDomainSlice(rows []entities.CatalogItem) []domain.Item {
	items := make([]domain.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, toDomain(row))
	}
	return items
}
