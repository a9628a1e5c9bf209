package conversation

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"catalog-assistant/internal/domain/chat"
	"catalog-assistant/internal/infrastructure/metrics"
)

// LRUStore retains conversations in memory with a hard cap. The least
// recently used conversation is evicted when the cap is reached; an evicted
// conversation id simply starts over on its next turn.
type LRUStore struct {
	cache *lru.Cache[string, *chat.Conversation]
	log   zerolog.Logger
}

// NewLRUStore builds a store capped at maxConversations.
func NewLRUStore(maxConversations int, log zerolog.Logger) (*LRUStore, error) {
	componentLog := log.With().Str("component", "conversation-store").Logger()

	cache, err := lru.NewWithEvict[string, *chat.Conversation](maxConversations,
		func(id string, _ *chat.Conversation) {
			metrics.RecordConversationEviction()
			componentLog.Debug().Str("conversation_id", id).Msg("conversation evicted")
		})
	if err != nil {
		return nil, err
	}

	return &LRUStore{cache: cache, log: componentLog}, nil
}

// Get returns the conversation for id when it is still retained.
func (s *LRUStore) Get(_ context.Context, id string) (*chat.Conversation, bool) {
	return s.cache.Get(id)
}

// Put stores the conversation, possibly evicting the least recently used one.
func (s *LRUStore) Put(_ context.Context, conv *chat.Conversation) {
	s.cache.Add(conv.ID, conv)
}

// Len reports the number of retained conversations.
func (s *LRUStore) Len() int {
	return s.cache.Len()
}
