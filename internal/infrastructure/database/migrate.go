package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"catalog-assistant/internal/infrastructure/database/entities"
)

// AutoMigrate applies database schema changes. The case-insensitive SKU
// uniqueness lives in an expression index that GORM tags cannot declare.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(&entities.CatalogItem{}); err != nil {
		return err
	}

	err := db.WithContext(ctx).Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_catalog_items_sku_lower ON catalog_items (lower(sku))`,
	).Error
	if err != nil {
		return err
	}

	log.Info().Msg("applied catalog item migrations")
	return nil
}
