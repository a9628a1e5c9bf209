package dto

import "github.com/shopspring/decimal"

// ChatRequest is the caller's turn submission. ConversationID is optional; an
// empty value starts a new conversation.
type ChatRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Prompt         string `json:"prompt" binding:"required"`
}

// ItemRequest carries the full field set for direct create and update calls.
// Price accepts a JSON number or a numeric string.
type ItemRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	SKU         string          `json:"sku" binding:"required"`
}
