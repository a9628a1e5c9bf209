package dto

import (
	"time"

	"catalog-assistant/internal/domain/chat"
	"catalog-assistant/internal/domain/item"
)

// ItemPayload is returned to clients. Price is rendered as a decimal string
// so no precision is lost in transit.
type ItemPayload struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       string     `json:"price"`
	SKU         string     `json:"sku"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// FromItem maps the domain item to its payload.
func FromItem(it item.Item) ItemPayload {
	return ItemPayload{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Price:       it.Price.String(),
		SKU:         it.SKU,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}

// FromItems maps a domain item slice, preserving order.
func FromItems(items []item.Item) []ItemPayload {
	payloads := make([]ItemPayload, 0, len(items))
	for _, it := range items {
		payloads = append(payloads, FromItem(it))
	}
	return payloads
}

// ChatPayload is the outcome of one processed turn.
type ChatPayload struct {
	ConversationID string       `json:"conversation_id"`
	Reply          string       `json:"reply"`
	Transcript     []chat.Turn  `json:"transcript"`
	LastTool       string       `json:"last_action,omitempty"`
	Item           *ItemPayload `json:"affected_item,omitempty"`
}

// FromResult maps the orchestrator result to its payload.
func FromResult(r *chat.Result) ChatPayload {
	payload := ChatPayload{
		ConversationID: r.ConversationID,
		Reply:          r.Reply,
		Transcript:     r.Transcript,
		LastTool:       r.LastTool,
	}
	if r.Item != nil {
		view := FromItem(*r.Item)
		payload.Item = &view
	}
	return payload
}
