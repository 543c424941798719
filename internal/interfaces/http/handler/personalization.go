package handler

import (
	"github.com/edulistas/backend/internal/application/personalization"
	"github.com/edulistas/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PersonalizationHandler serves the visitor-scoped list personalization
// endpoints. The visitor key comes from middleware, not from the client.
type PersonalizationHandler struct {
	BaseHandler
	service *personalization.PersonalizationService
}

// NewPersonalizationHandler creates a new PersonalizationHandler
func NewPersonalizationHandler(service *personalization.PersonalizationService) *PersonalizationHandler {
	return &PersonalizationHandler{service: service}
}

// Get handles GET /api/v1/lists/:id/personalized
func (h *PersonalizationHandler) Get(c *gin.Context) {
	listID, ok := h.listID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetPersonalizedList(c.Request.Context(), middleware.GetVisitorKey(c), listID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddProduct handles POST /api/v1/lists/:id/personalized/products
func (h *PersonalizationHandler) AddProduct(c *gin.Context) {
	listID, ok := h.listID(c)
	if !ok {
		return
	}

	var req personalization.AddProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.AddProduct(c.Request.Context(), middleware.GetVisitorKey(c), listID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ModifyQuantity handles PUT /api/v1/lists/:id/personalized/products/:productId
func (h *PersonalizationHandler) ModifyQuantity(c *gin.Context) {
	listID, ok := h.listID(c)
	if !ok {
		return
	}

	var req personalization.ModifyQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.ModifyQuantity(c.Request.Context(), middleware.GetVisitorKey(c), listID, c.Param("productId"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveProduct handles DELETE /api/v1/lists/:id/personalized/products/:productId
func (h *PersonalizationHandler) RemoveProduct(c *gin.Context) {
	listID, ok := h.listID(c)
	if !ok {
		return
	}

	// Body is optional here, a bare DELETE removes the untargeted line.
	var req personalization.RemoveProductRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindingError(c, err)
			return
		}
	}

	resp, err := h.service.RemoveProduct(c.Request.Context(), middleware.GetVisitorKey(c), listID, c.Param("productId"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Reset handles DELETE /api/v1/lists/:id/personalized
func (h *PersonalizationHandler) Reset(c *gin.Context) {
	listID, ok := h.listID(c)
	if !ok {
		return
	}

	resp, err := h.service.Reset(c.Request.Context(), middleware.GetVisitorKey(c), listID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *PersonalizationHandler) listID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid list id")
		return uuid.Nil, false
	}
	return id, true
}
