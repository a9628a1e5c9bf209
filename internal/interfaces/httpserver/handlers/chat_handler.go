package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"catalog-assistant/internal/domain/chat"
	"catalog-assistant/internal/infrastructure/observability"
	"catalog-assistant/internal/interfaces/httpserver/dto"
)

// ChatHandler exposes the conversation entrypoint.
type ChatHandler struct {
	service *chat.Service
	log     zerolog.Logger
}

// NewChatHandler constructs the handler.
func NewChatHandler(service *chat.Service, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		log:     log.With().Str("handler", "chat").Logger(),
	}
}

// Create handles POST /v1/chat
// @Summary Process one conversation turn
// @Description Sends the prompt to the model, dispatches any requested catalog tools, and returns the final reply with the transcript.
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Turn request"
// @Success 200 {object} dto.ChatPayload
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /v1/chat [post]
func (h *ChatHandler) Create(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, span := observability.StartTurnSpan(c.Request.Context(), req.ConversationID)
	defer span.End()

	result, err := h.service.Process(ctx, req.ConversationID, req.Prompt)
	if err != nil {
		observability.RecordError(span, err)
		h.log.Warn().Err(err).Str("conversation_id", req.ConversationID).Msg("turn failed")
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromResult(result))
}
