package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"catalog-assistant/internal/domain/llm"
	"catalog-assistant/internal/domain/tool"
)

const (
	roleSystem    = "system"
	roleUser      = "user"
	roleAssistant = "assistant"
	roleTool      = "tool"
)

// systemInstructions anchors the model to the catalog domain. Sent on every
// model call, never stored in the conversation history.
const systemInstructions = `You are a product catalog assistant. You manage catalog items through the provided tools: look items up, list them, create, update, and delete them. Use the tools for any catalog operation instead of answering from memory. When a tool reports an error, explain the problem to the user in plain language and suggest how to proceed. Prices are positive decimal amounts. SKUs are unique across the catalog, compared case-insensitively.`

// maxToolRounds caps tool round-trips per turn so a model that keeps
// requesting tools cannot loop forever.
const maxToolRounds = 5

// Service orchestrates one conversation turn: prompt in, model calls and tool
// dispatches in the middle, final assistant reply out. Turns for the same
// conversation are serialized; turns for different conversations run
// concurrently.
type Service struct {
	provider   llm.Provider
	dispatcher *tool.Dispatcher
	store      ConversationStore
	log        zerolog.Logger

	model           string
	maxHistoryTurns int

	mu    sync.Mutex
	locks map[string]*conversationLock
}

// conversationLock serializes turns for one conversation id. Entries are
// refcounted and removed from the map when no turn holds or awaits them, so
// the map is bounded by in-flight turns rather than by distinct ids seen.
type conversationLock struct {
	mu   sync.Mutex
	refs int
}

// NewService wires the conversation orchestrator. maxHistoryTurns bounds the
// retained message history per conversation; zero disables the bound.
func NewService(provider llm.Provider, dispatcher *tool.Dispatcher, store ConversationStore, model string, maxHistoryTurns int, log zerolog.Logger) *Service {
	return &Service{
		provider:        provider,
		dispatcher:      dispatcher,
		store:           store,
		log:             log.With().Str("component", "chat-service").Logger(),
		model:           model,
		maxHistoryTurns: maxHistoryTurns,
		locks:           make(map[string]*conversationLock),
	}
}

// Process runs one turn. An empty conversationID starts a new conversation;
// an unknown one starts over under the given id. The returned Result carries
// the final reply, the user/assistant transcript, and the last tool
// invocation's name and affected item, when any tool ran.
func (s *Service) Process(ctx context.Context, conversationID, prompt string) (*Result, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	if conversationID == "" {
		conversationID = "conv_" + uuid.NewString()
	}

	lock := s.acquireConversation(conversationID)
	defer s.releaseConversation(conversationID, lock)

	conv, ok := s.store.Get(ctx, conversationID)
	if !ok {
		conv = &Conversation{ID: conversationID}
	}
	conv.Messages = append(conv.Messages, llm.ChatMessage{Role: roleUser, Content: prompt})

	result := &Result{ConversationID: conversationID}
	for round := 0; ; round++ {
		resp, err := s.provider.CreateChatCompletion(ctx, llm.ChatCompletionRequest{
			Model:    s.model,
			Messages: s.withSystem(conv.Messages),
			Tools:    tool.Definitions(),
		})
		if err != nil {
			return nil, &UpstreamError{Op: "chat completion", Err: err}
		}
		if len(resp.Choices) == 0 {
			return nil, &UpstreamError{Op: "chat completion", Err: errNoChoices}
		}

		assistant := resp.Choices[0].Message
		assistant.Role = roleAssistant
		conv.Messages = append(conv.Messages, assistant)

		if len(assistant.ToolCalls) == 0 {
			result.Reply = assistant.Content
			break
		}

		// Every tool call the model emitted gets a result turn, even on the
		// last round: an assistant message with unanswered tool_calls ids
		// would poison the stored history for all follow-up turns.
		var lastOutcome string
		for _, tc := range assistant.ToolCalls {
			msg := s.runTool(ctx, tc, result)
			lastOutcome = msg.Content
			conv.Messages = append(conv.Messages, msg)
		}

		if round >= maxToolRounds {
			s.log.Warn().
				Str("conversation_id", conversationID).
				Msg("tool round cap reached, ending turn")
			result.Reply = assistant.Content
			if result.Reply == "" {
				result.Reply = lastOutcome
			}
			break
		}
	}

	s.trimHistory(conv)
	s.store.Put(ctx, conv)

	result.Transcript = transcript(conv.Messages)
	s.log.Info().
		Str("conversation_id", conversationID).
		Str("last_tool", result.LastTool).
		Int("history_len", len(conv.Messages)).
		Msg("turn processed")
	return result, nil
}

// runTool dispatches one requested tool call and returns the result message
// for the model. Parse failures are reported back as the result text, so the
// model always receives a turn for every call id it emitted.
func (s *Service) runTool(ctx context.Context, tc llm.ToolCall, result *Result) llm.ChatMessage {
	id := tc.ID
	call, err := tool.ParseToolCall(tc)
	if err != nil {
		s.log.Warn().Err(err).Str("tool", tc.Function.Name).Msg("malformed tool call")
		result.LastTool = tc.Function.Name
		result.Item = nil
		return llm.ChatMessage{Role: roleTool, Content: err.Error(), ToolCallID: &id}
	}

	out := s.dispatcher.Dispatch(ctx, call)
	result.LastTool = out.Tool
	result.Item = out.Item
	return llm.ChatMessage{Role: roleTool, Content: out.Text, ToolCallID: &id}
}

// withSystem prepends the fixed instructions to the stored history.
func (s *Service) withSystem(messages []llm.ChatMessage) []llm.ChatMessage {
	out := make([]llm.ChatMessage, 0, len(messages)+1)
	out = append(out, llm.ChatMessage{Role: roleSystem, Content: systemInstructions})
	return append(out, messages...)
}

// trimHistory drops the oldest messages beyond the configured bound, cutting
// at a user message so no tool result is orphaned from its request.
func (s *Service) trimHistory(conv *Conversation) {
	if s.maxHistoryTurns <= 0 || len(conv.Messages) <= s.maxHistoryTurns {
		return
	}
	cut := len(conv.Messages) - s.maxHistoryTurns
	for cut < len(conv.Messages) && conv.Messages[cut].Role != roleUser {
		cut++
	}
	conv.Messages = conv.Messages[cut:]
}

// transcript filters the raw history down to the caller-visible turns.
func transcript(messages []llm.ChatMessage) []Turn {
	turns := make([]Turn, 0, len(messages))
	for _, m := range messages {
		if m.Role != roleUser && m.Role != roleAssistant {
			continue
		}
		if m.Content == "" {
			continue
		}
		turns = append(turns, Turn{Role: m.Role, Content: m.Content})
	}
	return turns
}

func (s *Service) acquireConversation(id string) *conversationLock {
	s.mu.Lock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &conversationLock{}
		s.locks[id] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()
	return lock
}

func (s *Service) releaseConversation(id string, lock *conversationLock) {
	lock.mu.Unlock()

	s.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(s.locks, id)
	}
	s.mu.Unlock()
}
