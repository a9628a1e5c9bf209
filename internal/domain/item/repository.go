package item

import "context"

// Store is the persistence contract for catalog items.
//
// The SKU uniqueness invariant lives in the write path: Insert and Replace
// are conditional on the case-insensitively unique SKU and return a
// *ConflictError when a different record already holds it, so a concurrent
// check-then-act race cannot slip a duplicate past the store.
type Store interface {
	// GetByID returns the record or (nil, nil) when absent.
	GetByID(ctx context.Context, id string) (*Item, error)
	// List returns all records ordered by creation time, newest first.
	List(ctx context.Context) ([]Item, error)
	// Search returns records whose name, description, or SKU contains the
	// term case-insensitively, ordered by creation time, newest first.
	Search(ctx context.Context, term string) ([]Item, error)
	// Insert persists a new record, failing with *ConflictError if any
	// record already holds the SKU.
	Insert(ctx context.Context, it *Item) error
	// Replace overwrites the record with the same ID, failing with
	// *ConflictError if a different record holds the new SKU.
	Replace(ctx context.Context, it *Item) error
	// Delete removes the record, reporting whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
}
