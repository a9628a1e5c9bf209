package item

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Item is a catalog record. The internal ID is opaque and never shown to end
// users; name and SKU are the user-facing identifiers.
type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	SKU         string          `json:"sku"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

// Fields carries the mutable attributes for create and update operations.
type Fields struct {
	Name        string
	Description string
	Price       decimal.Decimal
	SKU         string
}

// Validate checks the field set against the catalog invariants.
func (f Fields) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(f.Description) == "" {
		return &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if strings.TrimSpace(f.SKU) == "" {
		return &ValidationError{Field: "sku", Reason: "must not be empty"}
	}
	if !f.Price.IsPositive() {
		return &ValidationError{Field: "price", Reason: "must be a positive number"}
	}
	return nil
}

// normalize trims the user supplied fields in place.
func (f *Fields) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.SKU = strings.TrimSpace(f.SKU)
}

// SKUEqual reports whether two SKUs match under the case-insensitive
// uniqueness rule.
func SKUEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ErrNilItem is returned by stores when handed a nil record.
var ErrNilItem = errors.New("item is nil")
