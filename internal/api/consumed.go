package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cookmate/backend/internal/middleware"
	"github.com/cookmate/backend/internal/service"
)

type ConsumedHandler struct {
	consumedService *service.ConsumedService
	logger          *zap.Logger
}

func NewConsumedHandler(consumedService *service.ConsumedService, logger *zap.Logger) *ConsumedHandler {
	return &ConsumedHandler{consumedService: consumedService, logger: logger}
}

func (h *ConsumedHandler) RegisterRoutes(router *gin.RouterGroup) {
	consumed := router.Group("/users/consumed")
	{
		consumed.GET("", h.ListByDay)
		consumed.POST("", h.Add)
		consumed.DELETE("/:id", h.Delete)
	}
}

func (h *ConsumedHandler) Add(c *gin.Context) {
	var in service.ConsumedFoodInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	userID, _ := middleware.UserID(c)

	entryID, err := h.consumedService.Add(userID, &in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entryId": entryID})
}

// ListByDay returns the entries for ?date=YYYY-MM-DD, defaulting to today.
func (h *ConsumedHandler) ListByDay(c *gin.Context) {
	day := time.Now()
	if date := c.Query("date"); date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		day = parsed
	}
	userID, _ := middleware.UserID(c)

	entries, err := h.consumedService.ListByDay(userID, day)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *ConsumedHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	if err := h.consumedService.Delete(id, userID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "entry deleted", "id": id})
}
