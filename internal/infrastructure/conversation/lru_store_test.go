package conversation

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-assistant/internal/domain/chat"
	"catalog-assistant/internal/domain/llm"
)

func TestLRUStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewLRUStore(4, zerolog.Nop())
	require.NoError(t, err)

	_, ok := store.Get(ctx, "conv_missing")
	assert.False(t, ok)

	conv := &chat.Conversation{
		ID:       "conv_1",
		Messages: []llm.ChatMessage{{Role: "user", Content: "hi"}},
	}
	store.Put(ctx, conv)

	got, ok := store.Get(ctx, "conv_1")
	require.True(t, ok)
	assert.Equal(t, conv.Messages, got.Messages)
}

func TestLRUStoreEvictsOldest(t *testing.T) {
	ctx := context.Background()
	store, err := NewLRUStore(2, zerolog.Nop())
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		store.Put(ctx, &chat.Conversation{ID: fmt.Sprintf("conv_%d", i)})
	}

	_, ok := store.Get(ctx, "conv_1")
	assert.False(t, ok)
	_, ok = store.Get(ctx, "conv_3")
	assert.True(t, ok)
	assert.Equal(t, 2, store.Len())
}
