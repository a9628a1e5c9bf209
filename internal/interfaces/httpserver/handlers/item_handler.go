package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"catalog-assistant/internal/domain/item"
	"catalog-assistant/internal/infrastructure/observability"
	"catalog-assistant/internal/interfaces/httpserver/dto"
)

// ItemHandler exposes the direct catalog CRUD surface, bypassing the model.
type ItemHandler struct {
	service *item.Service
	log     zerolog.Logger
}

// NewItemHandler constructs the handler.
func NewItemHandler(service *item.Service, log zerolog.Logger) *ItemHandler {
	return &ItemHandler{
		service: service,
		log:     log.With().Str("handler", "item").Logger(),
	}
}

// List handles GET /v1/items
// @Summary List all catalog items, newest first
// @Tags Items
// @Produce json
// @Success 200 {array} dto.ItemPayload
// @Router /v1/items [get]
func (h *ItemHandler) List(c *gin.Context) {
	ctx, span := observability.StartCatalogSpan(c.Request.Context(), "list")
	defer span.End()

	items, err := h.service.ListAll(ctx)
	if err != nil {
		observability.RecordError(span, err)
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromItems(items))
}

// Search handles GET /v1/items/search
// @Summary Search items by name, description, or SKU substring
// @Tags Items
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {array} dto.ItemPayload
// @Router /v1/items/search [get]
func (h *ItemHandler) Search(c *gin.Context) {
	ctx, span := observability.StartCatalogSpan(c.Request.Context(), "search")
	defer span.End()

	items, err := h.service.Search(ctx, c.Query("q"))
	if err != nil {
		observability.RecordError(span, err)
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromItems(items))
}

// Get handles GET /v1/items/:sku
// @Summary Get one item by SKU (case-insensitive)
// @Tags Items
// @Produce json
// @Param sku path string true "Item SKU"
// @Success 200 {object} dto.ItemPayload
// @Failure 404 {object} map[string]string
// @Router /v1/items/{sku} [get]
func (h *ItemHandler) Get(c *gin.Context) {
	ctx, span := observability.StartCatalogSpan(c.Request.Context(), "get")
	defer span.End()

	found, err := h.service.FindBySKU(ctx, c.Param("sku"))
	if err != nil {
		observability.RecordError(span, err)
		renderError(c, err)
		return
	}
	if found == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.JSON(http.StatusOK, dto.FromItem(*found))
}

// Create handles POST /v1/items
// @Summary Create a catalog item
// @Tags Items
// @Accept json
// @Produce json
// @Param request body dto.ItemRequest true "Item fields"
// @Success 201 {object} dto.ItemPayload
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /v1/items [post]
func (h *ItemHandler) Create(c *gin.Context) {
	var req dto.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, span := observability.StartCatalogSpan(c.Request.Context(), "create")
	defer span.End()

	created, err := h.service.Create(ctx, item.Fields{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		SKU:         req.SKU,
	})
	if err != nil {
		observability.RecordError(span, err)
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromItem(*created))
}

// Update handles PUT /v1/items/:sku
// @Summary Replace all fields of the item with the given SKU
// @Tags Items
// @Accept json
// @Produce json
// @Param sku path string true "Item SKU"
// @Param request body dto.ItemRequest true "New item fields"
// @Success 200 {object} dto.ItemPayload
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /v1/items/{sku} [put]
func (h *ItemHandler) Update(c *gin.Context) {
	var req dto.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, span := observability.StartCatalogSpan(c.Request.Context(), "update")
	defer span.End()

	updated, err := h.service.Update(ctx, c.Param("sku"), true, item.Fields{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		SKU:         req.SKU,
	})
	if err != nil {
		observability.RecordError(span, err)
		renderError(c, err)
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.JSON(http.StatusOK, dto.FromItem(*updated))
}

// Delete handles DELETE /v1/items/:sku
// @Summary Delete the item with the given SKU
// @Tags Items
// @Produce json
// @Param sku path string true "Item SKU"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /v1/items/{sku} [delete]
func (h *ItemHandler) Delete(c *gin.Context) {
	ctx, span := observability.StartCatalogSpan(c.Request.Context(), "delete")
	defer span.End()

	deleted, err := h.service.DeleteBySKU(ctx, c.Param("sku"))
	if err != nil {
		observability.RecordError(span, err)
		renderError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
