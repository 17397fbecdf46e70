package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cookmate/backend/internal/middleware"
	"github.com/cookmate/backend/internal/service"
)

type InventoryHandler struct {
	inventoryService *service.InventoryService
	logger           *zap.Logger
}

func NewInventoryHandler(inventoryService *service.InventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService, logger: logger}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	inventory := router.Group("/users/inventory")
	{
		inventory.GET("", h.List)
		inventory.POST("", h.Add)
		inventory.PUT("/:id", h.Update)
		inventory.DELETE("/:id", h.Delete)
	}
}

func (h *InventoryHandler) List(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	items, err := h.inventoryService.List(userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *InventoryHandler) Add(c *gin.Context) {
	var in service.InventoryItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	userID, _ := middleware.UserID(c)

	itemID, err := h.inventoryService.Add(userID, &in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"itemId": itemID})
}

func (h *InventoryHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var in service.InventoryItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	userID, _ := middleware.UserID(c)

	if err := h.inventoryService.Update(id, userID, &in); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "inventory item updated", "id": id})
}

func (h *InventoryHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	if err := h.inventoryService.Delete(id, userID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "inventory item deleted", "id": id})
}
