package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cookmate/backend/internal/service"
)

// TaxonomyHandler serves the read-only tag/category/unit listings available
// to every authenticated user. Mutations live in the admin tree.
type TaxonomyHandler struct {
	taxonomyService *service.TaxonomyService
	logger          *zap.Logger
}

func NewTaxonomyHandler(taxonomyService *service.TaxonomyService, logger *zap.Logger) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomyService: taxonomyService, logger: logger}
}

func (h *TaxonomyHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/tags", h.ListTags)
	router.GET("/categories", h.ListCategories)
	router.GET("/units", h.ListUnits)
}

func (h *TaxonomyHandler) ListTags(c *gin.Context) {
	tags, err := h.taxonomyService.ListTags()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

func (h *TaxonomyHandler) ListCategories(c *gin.Context) {
	categories, err := h.taxonomyService.ListCategories()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *TaxonomyHandler) ListUnits(c *gin.Context) {
	units, err := h.taxonomyService.ListUnits()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"units": units})
}
