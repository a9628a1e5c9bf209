package item

import (
	"fmt"
	"strings"
)

// ValidationError reports a missing or malformed field. It is recoverable:
// direct callers branch on it and the conversation layer renders it as text.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError reports a case-insensitive SKU collision.
type ConflictError struct {
	SKU string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("an item with SKU %q already exists", e.SKU)
}

// AmbiguousError reports that a name resolved to more than one item. SKUs
// carries the candidates so the caller can re-prompt for disambiguation.
type AmbiguousError struct {
	Name string
	SKUs []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("multiple items named %q exist (SKUs: %s)", e.Name, strings.Join(e.SKUs, ", "))
}
