package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-assistant/internal/domain/item"
	"catalog-assistant/internal/domain/llm"
	"catalog-assistant/internal/domain/tool"
	itemrepo "catalog-assistant/internal/infrastructure/repository/item"
)

// scriptedProvider replays canned completions in order and records every
// request for assertions.
type scriptedProvider struct {
	responses []llm.ChatCompletionResponse
	err       error
	requests  []llm.ChatCompletionRequest
}

func (p *scriptedProvider) CreateChatCompletion(_ context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return nil, p.err
	}
	if len(p.responses) == 0 {
		return &llm.ChatCompletionResponse{}, nil
	}
	resp := p.responses[0]
	p.responses = p.responses[1:]
	return &resp, nil
}

type mapStore struct {
	conversations map[string]*Conversation
}

func newMapStore() *mapStore {
	return &mapStore{conversations: make(map[string]*Conversation)}
}

func (s *mapStore) Get(_ context.Context, id string) (*Conversation, bool) {
	conv, ok := s.conversations[id]
	return conv, ok
}

func (s *mapStore) Put(_ context.Context, conv *Conversation) {
	s.conversations[conv.ID] = conv
}

func textResponse(content string) llm.ChatCompletionResponse {
	return llm.ChatCompletionResponse{
		Choices: []llm.ChatCompletionChoice{
			{Message: llm.ChatMessage{Role: "assistant", Content: content}, FinishReason: "stop"},
		},
	}
}

func toolResponse(callID, name, args string) llm.ChatCompletionResponse {
	return llm.ChatCompletionResponse{
		Choices: []llm.ChatCompletionChoice{
			{
				Message: llm.ChatMessage{
					Role: "assistant",
					ToolCalls: []llm.ToolCall{
						{ID: callID, Type: "function", Function: llm.ToolFunction{Name: name, Arguments: []byte(args)}},
					},
				},
				FinishReason: "tool_calls",
			},
		},
	}
}

func newTestService(provider llm.Provider, catalog *item.Service, store ConversationStore) *Service {
	dispatcher := tool.NewDispatcher(catalog, zerolog.Nop())
	return NewService(provider, dispatcher, store, "test-model", 40, zerolog.Nop())
}

func newCatalog(t *testing.T) (*item.Service, *itemrepo.MemoryStore) {
	t.Helper()
	repo := itemrepo.NewMemoryStore()
	return item.NewService(repo, zerolog.Nop()), repo
}

func TestProcessCreatesItemViaTool(t *testing.T) {
	ctx := context.Background()
	catalog, _ := newCatalog(t)
	provider := &scriptedProvider{responses: []llm.ChatCompletionResponse{
		toolResponse("call_1", tool.ToolCreateItem,
			`{"name":"Espresso Machine","description":"Pump driven","price":249.99,"sku":"COF-1"}`),
		textResponse("Created the espresso machine for you."),
	}}
	svc := newTestService(provider, catalog, newMapStore())

	result, err := svc.Process(ctx, "", "Add an espresso machine at 249.99, SKU COF-1")
	require.NoError(t, err)

	assert.Equal(t, tool.ToolCreateItem, result.LastTool)
	require.NotNil(t, result.Item)
	assert.Equal(t, "Espresso Machine", result.Item.Name)
	assert.Equal(t, "249.99", result.Item.Price.String())
	assert.Equal(t, "Created the espresso machine for you.", result.Reply)
	assert.Contains(t, result.ConversationID, "conv_")

	stored, err := catalog.FindBySKU(ctx, "cof-1")
	require.NoError(t, err)
	require.NotNil(t, stored)

	// the second model call carries the tool result message
	require.Len(t, provider.requests, 2)
	second := provider.requests[1].Messages
	last := second[len(second)-1]
	assert.Equal(t, "tool", last.Role)
	require.NotNil(t, last.ToolCallID)
	assert.Equal(t, "call_1", *last.ToolCallID)
	assert.Contains(t, last.Content, "COF-1")
}

func TestProcessConflictIsRecoverable(t *testing.T) {
	ctx := context.Background()
	catalog, _ := newCatalog(t)

	provider := &scriptedProvider{responses: []llm.ChatCompletionResponse{
		toolResponse("call_1", tool.ToolCreateItem,
			`{"name":"Widget","description":"d","price":5,"sku":"WID-1"}`),
		textResponse("Created the widget."),
		toolResponse("call_2", tool.ToolCreateItem,
			`{"name":"Other Widget","description":"d","price":7,"sku":"wid-1"}`),
		textResponse("That SKU is already taken."),
	}}
	svc := newTestService(provider, catalog, newMapStore())

	first, err := svc.Process(ctx, "", "Create a widget with SKU WID-1")
	require.NoError(t, err)

	result, err := svc.Process(ctx, first.ConversationID, "Create another widget with SKU wid-1")
	require.NoError(t, err)

	assert.Equal(t, tool.ToolCreateItem, result.LastTool)
	assert.Nil(t, result.Item)
	assert.Equal(t, "That SKU is already taken.", result.Reply)

	// the conflict was rendered as the tool result, not propagated
	last := provider.requests[3].Messages
	assert.Contains(t, last[len(last)-1].Content, "already exists")

	// both user turns and both assistant replies are caller-visible
	require.Len(t, result.Transcript, 4)
	assert.Equal(t, "user", result.Transcript[0].Role)
	assert.Equal(t, "assistant", result.Transcript[3].Role)

	items, err := catalog.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestProcessAmbiguousDeleteMutatesNothing(t *testing.T) {
	ctx := context.Background()
	catalog, _ := newCatalog(t)
	for _, sku := range []string{"WID-1", "WID-2"} {
		_, err := catalog.Create(ctx, item.Fields{Name: "Widget", Description: "d", Price: price(t, "5"), SKU: sku})
		require.NoError(t, err)
	}

	provider := &scriptedProvider{responses: []llm.ChatCompletionResponse{
		toolResponse("call_1", tool.ToolDeleteItem, `{"name":"Widget"}`),
		textResponse("There are two widgets; which SKU did you mean?"),
	}}
	svc := newTestService(provider, catalog, newMapStore())

	result, err := svc.Process(ctx, "", "Delete the widget")
	require.NoError(t, err)
	assert.Equal(t, tool.ToolDeleteItem, result.LastTool)
	assert.Nil(t, result.Item)

	second := provider.requests[1].Messages
	toolResult := second[len(second)-1].Content
	assert.Contains(t, toolResult, "WID-1")
	assert.Contains(t, toolResult, "WID-2")

	items, err := catalog.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestProcessEmptyPrompt(t *testing.T) {
	catalog, _ := newCatalog(t)
	svc := newTestService(&scriptedProvider{}, catalog, newMapStore())

	_, err := svc.Process(context.Background(), "", "   ")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}

func TestProcessUpstreamFailureIsFatal(t *testing.T) {
	catalog, _ := newCatalog(t)
	provider := &scriptedProvider{err: errors.New("connection refused")}
	svc := newTestService(provider, catalog, newMapStore())

	_, err := svc.Process(context.Background(), "", "list items")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Contains(t, upstream.Error(), "connection refused")
}

func TestProcessContinuesConversation(t *testing.T) {
	ctx := context.Background()
	catalog, _ := newCatalog(t)
	store := newMapStore()
	provider := &scriptedProvider{responses: []llm.ChatCompletionResponse{
		textResponse("Hello! How can I help with the catalog?"),
		textResponse("Still here."),
	}}
	svc := newTestService(provider, catalog, store)

	first, err := svc.Process(ctx, "", "hi")
	require.NoError(t, err)

	second, err := svc.Process(ctx, first.ConversationID, "are you there?")
	require.NoError(t, err)
	assert.Equal(t, first.ConversationID, second.ConversationID)

	// the second request replays the earlier turns after the system message
	req := provider.requests[1].Messages
	require.Len(t, req, 4)
	assert.Equal(t, "system", req[0].Role)
	assert.Equal(t, "hi", req[1].Content)
	assert.Equal(t, "Hello! How can I help with the catalog?", req[2].Content)
	assert.Equal(t, "are you there?", req[3].Content)

	require.Len(t, second.Transcript, 4)
	assert.Equal(t, Turn{Role: "user", Content: "hi"}, second.Transcript[0])
}

func TestProcessToolRoundCapAnswersEveryCall(t *testing.T) {
	ctx := context.Background()
	catalog, _ := newCatalog(t)
	store := newMapStore()

	// A model that requests a tool on every round never yields a plain reply;
	// the cap has to end the turn without leaving any tool call unanswered.
	var responses []llm.ChatCompletionResponse
	for i := 0; i < 10; i++ {
		responses = append(responses, toolResponse(
			fmt.Sprintf("call_%d", i), tool.ToolListItems, `{}`))
	}
	provider := &scriptedProvider{responses: responses}
	svc := newTestService(provider, catalog, store)

	result, err := svc.Process(ctx, "", "list everything, forever")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Reply)

	// bounded number of model calls
	assert.Len(t, provider.requests, 6)

	// every stored assistant tool call is followed by a matching result turn
	conv, ok := store.Get(ctx, result.ConversationID)
	require.True(t, ok)
	for i, msg := range conv.Messages {
		for _, tc := range msg.ToolCalls {
			found := false
			for _, later := range conv.Messages[i+1:] {
				if later.Role == "tool" && later.ToolCallID != nil && *later.ToolCallID == tc.ID {
					found = true
					break
				}
			}
			assert.True(t, found, "tool call %s has no result turn", tc.ID)
		}
	}

	// the poisoned-history symptom: the follow-up turn must replay a history
	// whose final pre-user message is a tool result, not dangling tool calls
	provider.responses = []llm.ChatCompletionResponse{textResponse("done")}
	_, err = svc.Process(ctx, result.ConversationID, "thanks")
	require.NoError(t, err)
	replayed := provider.requests[len(provider.requests)-1].Messages
	beforeUser := replayed[len(replayed)-2]
	assert.Equal(t, "tool", beforeUser.Role)
}

func TestConversationLocksReleasedAfterTurn(t *testing.T) {
	ctx := context.Background()
	catalog, _ := newCatalog(t)
	provider := &scriptedProvider{responses: []llm.ChatCompletionResponse{
		textResponse("one"),
		textResponse("two"),
		textResponse("three"),
	}}
	svc := newTestService(provider, catalog, newMapStore())

	for _, id := range []string{"conv_a", "conv_b", "conv_c"} {
		_, err := svc.Process(ctx, id, "hello")
		require.NoError(t, err)
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Empty(t, svc.locks)
}

func TestTrimHistoryCutsAtUserTurn(t *testing.T) {
	svc := &Service{maxHistoryTurns: 3}
	id := "call_1"
	conv := &Conversation{Messages: []llm.ChatMessage{
		{Role: "user", Content: "one"},
		{Role: "assistant", Content: "a"},
		{Role: "tool", Content: "r", ToolCallID: &id},
		{Role: "user", Content: "two"},
		{Role: "assistant", Content: "b"},
	}}

	svc.trimHistory(conv)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, "two", conv.Messages[0].Content)
}

func price(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
