package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cookmate/backend/internal/middleware"
	"github.com/cookmate/backend/internal/service"
)

type NameRequest struct {
	Name string `json:"name" binding:"required"`
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// AdminHandler is the admin route tree. Everything here runs behind
// RequireAdmin and calls services with ScopeAdmin, which bypasses the
// ownership and globality checks.
type AdminHandler struct {
	recipeService   *service.RecipeService
	productService  *service.ProductService
	taxonomyService *service.TaxonomyService
	userService     *service.UserService
	logger          *zap.Logger
}

func NewAdminHandler(
	recipeService *service.RecipeService,
	productService *service.ProductService,
	taxonomyService *service.TaxonomyService,
	userService *service.UserService,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		recipeService:   recipeService,
		productService:  productService,
		taxonomyService: taxonomyService,
		userService:     userService,
		logger:          logger,
	}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin", middleware.RequireAdmin())
	{
		admin.POST("/recipes", h.CreateRecipe)
		admin.PUT("/recipes/:id", h.UpdateRecipe)
		admin.DELETE("/recipes/:id", h.DeleteRecipe)

		admin.POST("/products", h.CreateProduct)
		admin.PUT("/products/:id", h.UpdateProduct)
		admin.DELETE("/products/:id", h.DeleteProduct)

		admin.POST("/tags", h.CreateTag)
		admin.DELETE("/tags/:id", h.DeleteTag)
		admin.POST("/categories", h.CreateCategory)
		admin.DELETE("/categories/:id", h.DeleteCategory)
		admin.POST("/units", h.CreateUnit)
		admin.DELETE("/units/:id", h.DeleteUnit)

		admin.GET("/users", h.ListUsers)
		admin.GET("/users/:id", h.GetUser)
		admin.PUT("/users/:id/role", h.SetUserRole)
		admin.DELETE("/users/:id", h.DeleteUser)
	}
}

func (h *AdminHandler) CreateRecipe(c *gin.Context) {
	var in service.RecipeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	userID, _ := middleware.UserID(c)

	recipeID, err := h.recipeService.Create(userID, service.ScopeAdmin, &in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recipeId": recipeID})
}

func (h *AdminHandler) UpdateRecipe(c *gin.Context) {
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

	if err := h.recipeService.Update(id, userID, middleware.Role(c), service.ScopeAdmin, &in); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe updated", "id": id})
}

func (h *AdminHandler) DeleteRecipe(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	if err := h.recipeService.Delete(id, userID, middleware.Role(c), service.ScopeAdmin); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe deleted", "id": id})
}

func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var in service.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	userID, _ := middleware.UserID(c)

	productID, err := h.productService.Create(userID, service.ScopeAdmin, &in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"productId": productID})
}

func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var in service.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	userID, _ := middleware.UserID(c)

	if err := h.productService.Update(id, userID, middleware.Role(c), service.ScopeAdmin, &in); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product updated", "id": id})
}

func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	if err := h.productService.Delete(id, userID, middleware.Role(c), service.ScopeAdmin); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted", "id": id})
}

func (h *AdminHandler) CreateTag(c *gin.Context) {
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	tagID, err := h.taxonomyService.CreateTag(req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tagId": tagID})
}

func (h *AdminHandler) DeleteTag(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.taxonomyService.DeleteTag(id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "tag deleted", "id": id})
}

func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	categoryID, err := h.taxonomyService.CreateCategory(req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"categoryId": categoryID})
}

func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.taxonomyService.DeleteCategory(id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted", "id": id})
}

func (h *AdminHandler) CreateUnit(c *gin.Context) {
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	unitID, err := h.taxonomyService.CreateUnit(req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"unitId": unitID})
}

func (h *AdminHandler) DeleteUnit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.taxonomyService.DeleteUnit(id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unit deleted", "id": id})
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(0, 0)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.Get(id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) SetUserRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.userService.SetRole(id, req.Role); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role updated", "id": id})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.userService.Delete(id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted", "id": id})
}
