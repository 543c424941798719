package handler

import (
	"github.com/edulistas/backend/internal/application/cart"
	"github.com/edulistas/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartHandler serves the stock-aware cart reconciliation endpoints
type CartHandler struct {
	BaseHandler
	service *cart.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(service *cart.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// Build handles POST /api/v1/cart
func (h *CartHandler) Build(c *gin.Context) {
	var req cart.BuildCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.BuildCart(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// BuildFromList handles POST /api/v1/lists/:id/cart
func (h *CartHandler) BuildFromList(c *gin.Context) {
	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid list id")
		return
	}

	resp, err := h.service.BuildCartFromList(c.Request.Context(), middleware.GetVisitorKey(c), listID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
