package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cookmate/backend/internal/middleware"
	"github.com/cookmate/backend/internal/service"
)

type MatchRequest struct {
	ProductIDs []uint `json:"product_ids" binding:"required"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}

type MatchFromStringRequest struct {
	Products string `json:"products" binding:"required"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
}

type MatchByTagsRequest struct {
	Tags   []string `json:"tags" binding:"required"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
}

type MatchFromInventoryRequest struct {
	Partial bool `json:"partial"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
}

type RecipeHandler struct {
	recipeService    *service.RecipeService
	inventoryService *service.InventoryService
	logger           *zap.Logger
}

func NewRecipeHandler(recipeService *service.RecipeService, inventoryService *service.InventoryService, logger *zap.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipeService:    recipeService,
		inventoryService: inventoryService,
		logger:           logger,
	}
}

// RegisterRoutes wires the read/match surface under /recipes and the
// user-owned mutation surface under /users/recipes.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.Search)
		recipes.GET("/:id", h.Get)
		recipes.POST("/exact", h.MatchExact)
		recipes.POST("/partial", h.MatchPartial)
		recipes.POST("/exact/from-string", h.MatchExactFromString)
		recipes.POST("/partial/from-string", h.MatchPartialFromString)
		recipes.POST("/tags", h.MatchByTags)
		recipes.POST("/from-inventory", h.MatchFromInventory)
		recipes.POST("/:id/favorite", h.Favorite)
		recipes.DELETE("/:id/favorite", h.Unfavorite)
	}

	users := router.Group("/users")
	{
		users.GET("/favorites", h.ListFavorites)
		users.POST("/recipes", h.Create)
		users.PUT("/recipes/:id", h.Update)
		users.DELETE("/recipes/:id", h.Delete)
	}
}

func (h *RecipeHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	recipes, err := h.recipeService.Search(c.Query("q"), c.Query("category"), limit, offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	recipe, err := h.recipeService.Get(id, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) MatchExact(c *gin.Context) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	recipes, err := h.recipeService.MatchExact(req.ProductIDs)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) MatchPartial(c *gin.Context) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	recipes, err := h.recipeService.MatchPartial(req.ProductIDs, req.Limit, req.Offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) MatchExactFromString(c *gin.Context) {
	var req MatchFromStringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ids, err := h.recipeService.ResolveProductNames(req.Products)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	recipes, err := h.recipeService.MatchExact(ids)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) MatchPartialFromString(c *gin.Context) {
	var req MatchFromStringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ids, err := h.recipeService.ResolveProductNames(req.Products)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	recipes, err := h.recipeService.MatchPartial(ids, req.Limit, req.Offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) MatchByTags(c *gin.Context) {
	var req MatchByTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	recipes, err := h.recipeService.MatchByTags(req.Tags, req.Limit, req.Offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// MatchFromInventory matches against whatever is in the caller's inventory.
func (h *RecipeHandler) MatchFromInventory(c *gin.Context) {
	var req MatchFromInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	userID, _ := middleware.UserID(c)

	ids, err := h.inventoryService.ProductIDs(userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if len(ids) == 0 {
		c.JSON(http.StatusOK, gin.H{"recipes": []service.RecipeView{}})
		return
	}

	var recipes []service.RecipeView
	if req.Partial {
		recipes, err = h.recipeService.MatchPartial(ids, req.Limit, req.Offset)
	} else {
		recipes, err = h.recipeService.MatchExact(ids)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) Create(c *gin.Context) {
	var in service.RecipeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	userID, _ := middleware.UserID(c)

	recipeID, err := h.recipeService.Create(userID, service.ScopeUser, &in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recipeId": recipeID})
}

func (h *RecipeHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var in service.RecipeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	userID, _ := middleware.UserID(c)

	if err := h.recipeService.Update(id, userID, middleware.Role(c), service.ScopeUser, &in); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe updated", "id": id})
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	if err := h.recipeService.Delete(id, userID, middleware.Role(c), service.ScopeUser); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe deleted", "id": id})
}

func (h *RecipeHandler) Favorite(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	if err := h.recipeService.Favorite(userID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe favorited", "id": id})
}

func (h *RecipeHandler) Unfavorite(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	if err := h.recipeService.Unfavorite(userID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe unfavorited", "id": id})
}

func (h *RecipeHandler) ListFavorites(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	recipes, err := h.recipeService.Favorites(userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}
