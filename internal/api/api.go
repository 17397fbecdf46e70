package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cookmate/backend/config"
	"github.com/cookmate/backend/internal/middleware"
	"github.com/cookmate/backend/internal/service"
)

// SetupAPI builds the services and registers every route group under
// /api/v1. imageService may be nil when object storage is not configured.
func SetupAPI(router *gin.Engine, db *gorm.DB, cfg *config.Config, logger *zap.Logger, imageService *service.ImageService) {
	v1 := router.Group("/api/v1")

	// Initialize services
	authService := service.NewAuthService(db, cfg.Auth)
	recipeService := service.NewRecipeService(db, logger)
	productService := service.NewProductService(db)
	taxonomyService := service.NewTaxonomyService(db)
	inventoryService := service.NewInventoryService(db)
	consumedService := service.NewConsumedService(db)
	userService := service.NewUserService(db)

	// Initialize handlers
	authHandler := NewAuthHandler(authService, logger)
	recipeHandler := NewRecipeHandler(recipeService, inventoryService, logger)
	productHandler := NewProductHandler(productService, logger)
	taxonomyHandler := NewTaxonomyHandler(taxonomyService, logger)
	inventoryHandler := NewInventoryHandler(inventoryService, logger)
	consumedHandler := NewConsumedHandler(consumedService, logger)
	imageHandler := NewImageHandler(imageService, logger)
	adminHandler := NewAdminHandler(recipeService, productService, taxonomyService, userService, logger)

	// Token issuance is the only unauthenticated surface.
	authHandler.RegisterRoutes(v1)

	authed := v1.Group("", middleware.AuthMiddleware(authService))
	{
		recipeHandler.RegisterRoutes(authed)
		productHandler.RegisterRoutes(authed)
		taxonomyHandler.RegisterRoutes(authed)
		inventoryHandler.RegisterRoutes(authed)
		consumedHandler.RegisterRoutes(authed)
		imageHandler.RegisterRoutes(authed)
		adminHandler.RegisterRoutes(authed)
	}
}
