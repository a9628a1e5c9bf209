package handlers

import (
	"github.com/rs/zerolog"

	"catalog-assistant/internal/domain/chat"
	"catalog-assistant/internal/domain/item"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Chat *ChatHandler
	Item *ItemHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(chatService *chat.Service, itemService *item.Service, log zerolog.Logger) *Provider {
	return &Provider{
		Chat: NewChatHandler(chatService, log),
		Item: NewItemHandler(itemService, log),
	}
}
