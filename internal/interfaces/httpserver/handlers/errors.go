package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog-assistant/internal/domain/chat"
	"catalog-assistant/internal/domain/item"
)

// renderError maps domain failures onto HTTP statuses: validation problems
// are the caller's fault, conflicts and ambiguity are state disagreements,
// and a model-service failure is a bad gateway.
func renderError(c *gin.Context, err error) {
	var (
		validation *item.ValidationError
		conflict   *item.ConflictError
		ambiguous  *item.AmbiguousError
		upstream   *chat.UpstreamError
	)

	switch {
	case errors.Is(err, chat.ErrEmptyPrompt):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error(), "field": validation.Field})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error(), "sku": conflict.SKU})
	case errors.As(err, &ambiguous):
		c.JSON(http.StatusConflict, gin.H{"error": ambiguous.Error(), "candidates": ambiguous.SKUs})
	case errors.As(err, &upstream):
		c.JSON(http.StatusBadGateway, gin.H{"error": upstream.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
