package chat

import (
	"context"
	"errors"
	"fmt"

	"catalog-assistant/internal/domain/item"
	"catalog-assistant/internal/domain/llm"
)

// ErrEmptyPrompt rejects requests whose prompt is blank after trimming.
var ErrEmptyPrompt = errors.New("prompt must not be empty")

// errNoChoices reports a structurally valid completion carrying no choices.
var errNoChoices = errors.New("completion returned no choices")

// UpstreamError wraps a model-service failure. It is the one fatal error
// class in a turn: nothing is rendered back to the model, the turn aborts.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Conversation is the retained message history for one conversation id. The
// raw model messages are stored, tool plumbing included, so follow-up turns
// replay the full context.
type Conversation struct {
	ID       string
	Messages []llm.ChatMessage
}

// ConversationStore retains conversations between turns. Implementations may
// evict; a missed Get simply starts the history over.
type ConversationStore interface {
	Get(ctx context.Context, id string) (*Conversation, bool)
	Put(ctx context.Context, conv *Conversation)
}

// Turn is one caller-visible transcript entry. Tool plumbing messages are
// filtered out before a transcript is returned.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"text"`
}

// Result is the outcome of one processed turn: the assistant's final reply,
// the caller-visible transcript, and the last tool invocation's footprint.
type Result struct {
	ConversationID string
	Reply          string
	Transcript     []Turn
	LastTool       string
	Item           *item.Item
}
