package handler

import (
	"strconv"

	"github.com/edulistas/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// CatalogHandler exposes read-only platform catalog lookups
type CatalogHandler struct {
	BaseHandler
	service *catalog.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(service *catalog.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// Search handles GET /api/v1/catalog/products
func (h *CatalogHandler) Search(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.BadRequest(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	resp, err := h.service.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get handles GET /api/v1/catalog/products/:id
func (h *CatalogHandler) Get(c *gin.Context) {
	resp, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Status handles GET /api/v1/catalog/status
func (h *CatalogHandler) Status(c *gin.Context) {
	h.Success(c, h.service.Status(c.Request.Context()))
}
