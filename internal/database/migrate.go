package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/cookmate/backend/internal/model"
)

// AutoMigrate creates or updates the schema for every model. The cmd/migrate
// tool applies the versioned SQL migrations instead; this path is used by
// local development and tests.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Category{},
		&model.Tag{},
		&model.Unit{},
		&model.Product{},
		&model.Recipe{},
		&model.RecipeProduct{},
		&model.RecipeTag{},
		&model.RecipeImage{},
		&model.StepImage{},
		&model.Favorite{},
		&model.InventoryItem{},
		&model.ConsumedFood{},
	); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	return nil
}
