package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookmate/backend/internal/model"
)

func TestProductListVisibility(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db)

	global, err := svc.Create(0, ScopeAdmin, &ProductInput{Name: "Salt"})
	require.NoError(t, err)
	mine, err := svc.Create(1, ScopeUser, &ProductInput{Name: "Homemade Stock"})
	require.NoError(t, err)
	theirs, err := svc.Create(2, ScopeUser, &ProductInput{Name: "Secret Sauce"})
	require.NoError(t, err)

	products, err := svc.List(1, "", 0, 0)
	require.NoError(t, err)

	ids := make([]uint, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	assert.Contains(t, ids, global)
	assert.Contains(t, ids, mine)
	assert.NotContains(t, ids, theirs)
}

func TestProductListNameFilter(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db)

	tomato, err := svc.Create(0, ScopeAdmin, &ProductInput{Name: "Cherry Tomato"})
	require.NoError(t, err)
	_, err = svc.Create(0, ScopeAdmin, &ProductInput{Name: "Onion"})
	require.NoError(t, err)

	products, err := svc.List(1, "tomato", 0, 0)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, tomato, products[0].ID)
}

func TestProductCreateUnknownCategory(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db)

	missing := uint(9999)
	_, err := svc.Create(1, ScopeUser, &ProductInput{Name: "Tomato", CategoryID: &missing})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductOwnershipGuards(t *testing.T) {
	db := newTestDB(t)
	svc := NewProductService(db)

	mine, err := svc.Create(1, ScopeUser, &ProductInput{Name: "Mine"})
	require.NoError(t, err)
	global, err := svc.Create(0, ScopeAdmin, &ProductInput{Name: "Global"})
	require.NoError(t, err)

	err = svc.Update(mine, 2, model.RoleUser, ScopeUser, &ProductInput{Name: "Stolen"})
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Delete(global, 1, model.RoleAdmin, ScopeUser)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.Update(mine, 1, model.RoleUser, ScopeUser, &ProductInput{Name: "Renamed"}))
	p, err := svc.Get(mine)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", p.Name)
}

func TestProductDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	recipes := NewRecipeService(db, nil)
	inventory := NewInventoryService(db)
	svc := NewProductService(db)

	tomato := createProduct(t, db, "Tomato")
	recipeID := createRecipeWith(t, recipes, "Soup", []uint{tomato})
	_, err := inventory.Add(1, &InventoryItemInput{ProductID: tomato, Quantity: 100})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(tomato, 0, model.RoleAdmin, ScopeAdmin))

	for _, m := range []interface{}{&model.RecipeProduct{}, &model.InventoryItem{}, &model.ConsumedFood{}} {
		var count int64
		require.NoError(t, db.Model(m).Where("product_id = ?", tomato).Count(&count).Error)
		assert.Zero(t, count)
	}

	// The recipe itself survives with an empty ingredient list.
	detail, err := recipes.Get(recipeID, 1)
	require.NoError(t, err)
	assert.Empty(t, detail.Products)
}

func TestTaxonomyTags(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaxonomyService(db)

	id, err := svc.CreateTag("vegan")
	require.NoError(t, err)
	_, err = svc.CreateTag("vegan")
	assert.ErrorIs(t, err, ErrAlreadyExists)
	_, err = svc.CreateTag("")
	assert.ErrorIs(t, err, ErrInvalidInput)

	recipes := NewRecipeService(db, nil)
	recipeID, err := recipes.Create(0, ScopeAdmin, &RecipeInput{Name: "Tagged", TagIDs: []uint{id}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTag(id))
	assert.ErrorIs(t, svc.DeleteTag(id), ErrNotFound)

	detail, err := recipes.Get(recipeID, 1)
	require.NoError(t, err)
	assert.Empty(t, detail.Tags)
}

func TestTaxonomyCategoryDeleteClearsProducts(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaxonomyService(db)
	products := NewProductService(db)

	catID, err := svc.CreateCategory("Vegetables")
	require.NoError(t, err)
	productID, err := products.Create(0, ScopeAdmin, &ProductInput{Name: "Tomato", CategoryID: &catID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCategory(catID))

	p, err := products.Get(productID)
	require.NoError(t, err)
	assert.Nil(t, p.CategoryID)
}

func TestTaxonomyUnitDeleteGuards(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaxonomyService(db)

	// The default unit exists once any product line references it.
	recipes := NewRecipeService(db, nil)
	tomato := createProduct(t, db, "Tomato")
	createRecipeWith(t, recipes, "Soup", []uint{tomato})

	var defaultUnit model.Unit
	require.NoError(t, db.Where("name = ?", model.DefaultUnitName).First(&defaultUnit).Error)
	assert.ErrorIs(t, svc.DeleteUnit(defaultUnit.ID), ErrInvalidInput)

	cupID, err := svc.CreateUnit("cup")
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.RecipeProduct{RecipeID: 1, ProductID: tomato, Quantity: 1, UnitID: cupID}).Error)
	assert.ErrorIs(t, svc.DeleteUnit(cupID), ErrInvalidInput)

	spareID, err := svc.CreateUnit("pinch")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteUnit(spareID))
	assert.ErrorIs(t, svc.DeleteUnit(spareID), ErrNotFound)
}
