package v1

import (
	"github.com/gin-gonic/gin"

	"catalog-assistant/internal/interfaces/httpserver/handlers"
)

func registerChatRoutes(router gin.IRoutes, handler *handlers.ChatHandler) {
	router.POST("/chat", handler.Create)
}
