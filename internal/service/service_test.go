package service

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cookmate/backend/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

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
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func createProduct(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	product := model.Product{Name: name, IsGlobal: true}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("failed to create product %q: %v", name, err)
	}
	return product.ID
}

func createTag(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	tag := model.Tag{Name: name}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("failed to create tag %q: %v", name, err)
	}
	return tag.ID
}

// createRecipeWith inserts a global recipe using the given product ids.
func createRecipeWith(t *testing.T, svc *RecipeService, name string, productIDs []uint) uint {
	t.Helper()
	in := RecipeInput{Name: name, Steps: []string{"Cook"}}
	for _, id := range productIDs {
		in.Products = append(in.Products, RecipeProductInput{ProductID: id, Quantity: 100})
	}
	recipeID, err := svc.Create(0, ScopeAdmin, &in)
	if err != nil {
		t.Fatalf("failed to create recipe %q: %v", name, err)
	}
	return recipeID
}
