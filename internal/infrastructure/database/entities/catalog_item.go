package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogItem represents the persisted catalog record. SKU uniqueness is
// case-insensitive and enforced by an expression index on lower(sku), created
// during migration. UpdatedAt opts out of GORM's auto-update-time convention:
// it must stay NULL until the first update, and the service sets it
// explicitly.
type CatalogItem struct {
	ID          string          `gorm:"type:varchar(40);primaryKey"`
	Name        string          `gorm:"type:varchar(255);not null;index"`
	Description string          `gorm:"type:text;not null"`
	Price       decimal.Decimal `gorm:"type:numeric(16,4);not null"`
	SKU         string          `gorm:"type:varchar(64);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   *time.Time      `gorm:"autoUpdateTime:false"`
}

func (CatalogItem) TableName() string {
	return "catalog_items"
}
