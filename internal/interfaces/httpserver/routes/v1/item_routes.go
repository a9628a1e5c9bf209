package v1

import (
	"github.com/gin-gonic/gin"

	"catalog-assistant/internal/interfaces/httpserver/handlers"
)

func registerItemRoutes(router gin.IRoutes, handler *handlers.ItemHandler) {
	router.GET("/items", handler.List)
	router.GET("/items/search", handler.Search)
	router.GET("/items/:sku", handler.Get)
	router.POST("/items", handler.Create)
	router.PUT("/items/:sku", handler.Update)
	router.DELETE("/items/:sku", handler.Delete)
}
