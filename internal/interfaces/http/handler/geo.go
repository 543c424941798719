package handler

import (
	"strconv"

	"github.com/edulistas/backend/internal/domain/geo"
	"github.com/gin-gonic/gin"
)

// GeoHandler serves the static Chilean geography and grade catalogs
type GeoHandler struct {
	BaseHandler
}

// NewGeoHandler creates a new GeoHandler
func NewGeoHandler() *GeoHandler {
	return &GeoHandler{}
}

// Regions handles GET /api/v1/geo/regions
func (h *GeoHandler) Regions(c *gin.Context) {
	if term := c.Query("q"); term != "" {
		h.Success(c, geo.SearchRegions(term))
		return
	}
	h.Success(c, geo.AllRegions())
}

// Communes handles GET /api/v1/geo/regions/:id/communes
func (h *GeoHandler) Communes(c *gin.Context) {
	regionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid region id")
		return
	}

	communes, ok := geo.CommunesOf(regionID)
	if !ok {
		h.NotFound(c, "Region not found")
		return
	}
	h.Success(c, communes)
}

// SearchCommunes handles GET /api/v1/geo/communes
func (h *GeoHandler) SearchCommunes(c *gin.Context) {
	h.Success(c, geo.SearchCommunes(c.Query("q")))
}

// Grades handles GET /api/v1/geo/grades
func (h *GeoHandler) Grades(c *gin.Context) {
	if category := c.Query("category"); category != "" {
		h.Success(c, geo.GradeLevelsByCategory(category))
		return
	}
	if term := c.Query("q"); term != "" {
		h.Success(c, geo.SearchGradeLevels(term))
		return
	}
	h.Success(c, geo.AllGradeLevels())
}
