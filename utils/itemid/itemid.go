package itemid

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyOnce sync.Once
	entropy     *ulid.MonotonicEntropy
)

func newEntropy() *ulid.MonotonicEntropy {
	entropyOnce.Do(func() {
		source := rand.NewSource(time.Now().UnixNano())
		entropy = ulid.Monotonic(rand.New(source), 0)
	})
	return entropy
}

// New returns an item_* ULID string.
func New() string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), newEntropy())
	return "item_" + strings.ToLower(id.String())
}

// IsValid reports whether the string is an item_* ULID.
func IsValid(value string) bool {
	if !strings.HasPrefix(value, "item_") {
		return false
	}
	_, err := Parse(value)
	return err == nil
}

// Parse strips the item_ prefix and returns the ULID.
func Parse(value string) (ulid.ULID, error) {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "item_")
	value = strings.TrimPrefix(value, "ITEM_")
	return ulid.Parse(value)
}
