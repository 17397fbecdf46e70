package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookmate/backend/internal/model"
)

func matchedIDs(views []RecipeView) []uint {
	ids := make([]uint, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.ID)
	}
	return ids
}

func TestMatchExact(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db, nil)

	p1 := createProduct(t, db, "Tomato")
	p2 := createProduct(t, db, "Onion")
	p3 := createProduct(t, db, "Garlic")

	subset := createRecipeWith(t, svc, "Subset", []uint{p1})
	equal := createRecipeWith(t, svc, "Equal", []uint{p1, p2})
	outside := createRecipeWith(t, svc, "Outside", []uint{p1, p2, p3})

	views, err := svc.MatchExact([]uint{p1, p2})
	require.NoError(t, err)

	ids := matchedIDs(views)
	assert.Contains(t, ids, subset)
	assert.Contains(t, ids, equal)
	assert.NotContains(t, ids, outside)
}

func TestMatchExactExcludesRecipesWithoutProducts(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db, nil)

	p1 := createProduct(t, db, "Tomato")
	empty := createRecipeWith(t, svc, "Empty", nil)

	views, err := svc.MatchExact([]uint{p1})
	require.NoError(t, err)
	assert.NotContains(t, matchedIDs(views), empty)
}

func TestMatchExactRejectsEmptyInput(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db, nil)

	_, err := svc.MatchExact(nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Non-positive ids are filtered first; filtering to empty is the same.
	_, err = svc.MatchExact([]uint{0, 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMatchPartialTolerance(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db, nil)

	queried := createProduct(t, db, "Tomato")
	extras := make([]uint, 0, 4)
	for _, name := range []string{"A", "B", "C", "D"} {
		extras = append(extras, createProduct(t, db, name))
	}

	// Three extras is within tolerance, four is not.
	within := createRecipeWith(t, svc, "Within", append([]uint{queried}, extras[:3]...))
	beyond := createRecipeWith(t, svc, "Beyond", append([]uint{queried}, extras...))
	unrelated := createRecipeWith(t, svc, "Unrelated", extras[:2])

	views, err := svc.MatchPartial([]uint{queried}, 0, 0)
	require.NoError(t, err)

	ids := matchedIDs(views)
	assert.Contains(t, ids, within)
	assert.NotContains(t, ids, beyond)
	assert.NotContains(t, ids, unrelated)
}

func TestMatchPartialPagination(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db, nil)

	p1 := createProduct(t, db, "Tomato")
	first := createRecipeWith(t, svc, "First", []uint{p1})
	second := createRecipeWith(t, svc, "Second", []uint{p1})
	third := createRecipeWith(t, svc, "Third", []uint{p1})

	views, err := svc.MatchPartial([]uint{p1}, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{first, second}, matchedIDs(views))

	views, err = svc.MatchPartial([]uint{p1}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint{third}, matchedIDs(views))
}

func TestResolveProductNames(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db, nil)

	tomato := createProduct(t, db, "Tomato")
	onion := createProduct(t, db, "Onion")

	// Unknown names are dropped silently.
	ids, err := svc.ResolveProductNames("Tomato, Onion, Dragonfruit")
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{tomato, onion}, ids)

	// Lookup is case-sensitive exact.
	_, err = svc.ResolveProductNames("tomato")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ResolveProductNames(" , ,")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMatchByTags(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db, nil)

	vegan := createTag(t, db, "vegan")
	quick := createTag(t, db, "quick")

	both, err := svc.Create(0, ScopeAdmin, &RecipeInput{Name: "Both", TagIDs: []uint{vegan, quick}})
	require.NoError(t, err)
	one, err := svc.Create(0, ScopeAdmin, &RecipeInput{Name: "One", TagIDs: []uint{vegan}})
	require.NoError(t, err)

	views, err := svc.MatchByTags([]string{"vegan", "quick"}, 0, 0)
	require.NoError(t, err)
	ids := matchedIDs(views)
	assert.Contains(t, ids, both)
	assert.NotContains(t, ids, one)

	views, err = svc.MatchByTags([]string{"vegan"}, 0, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{both, one}, matchedIDs(views))
}

func TestAggregationShape(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db, nil)

	tomato := createProduct(t, db, "Tomato")
	vegan := createTag(t, db, "vegan")

	in := RecipeInput{
		Name:        "Soup",
		Description: "Tomato soup",
		CookingTime: 20,
		Steps:       []string{"Chop", "Boil"},
		Products:    []RecipeProductInput{{ProductID: tomato, Quantity: 200}},
		TagIDs:      []uint{vegan},
		ImageURLs:   []string{"http://img/1.jpg", "http://img/2.jpg"},
		StepImages:  []StepImageInput{{StepNumber: 2, URL: "http://img/step2.jpg"}},
	}
	recipeID, err := svc.Create(0, ScopeAdmin, &in)
	require.NoError(t, err)

	detail, err := svc.Get(recipeID, 42)
	require.NoError(t, err)

	assert.Equal(t, "Soup", detail.Name)
	assert.Equal(t, []string{"Chop", "Boil"}, []string(detail.Steps))
	require.Len(t, detail.Products, 1)
	assert.Equal(t, tomato, detail.Products[0].ProductID)
	assert.Equal(t, "Tomato", detail.Products[0].Name)
	assert.Equal(t, 200.0, detail.Products[0].Quantity)
	assert.Equal(t, "g", detail.Products[0].Unit)
	assert.Equal(t, []string{"vegan"}, detail.Tags)
	// First image row wins.
	require.NotNil(t, detail.ImageURL)
	assert.Equal(t, "http://img/1.jpg", *detail.ImageURL)
	require.Len(t, detail.StepImages, 1)
	assert.Equal(t, 2, detail.StepImages[0].StepNumber)
	assert.False(t, detail.IsFavorite)
}

func TestGetNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db, nil)

	_, err := svc.Get(9999, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExpandSkipsMissingRecipes(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db, nil)

	p1 := createProduct(t, db, "Tomato")
	existing := createRecipeWith(t, svc, "Existing", []uint{p1})

	views, err := svc.expand([]uint{existing, 9999})
	require.NoError(t, err)
	assert.Equal(t, []uint{existing}, matchedIDs(views))
}

func TestStepImageOutOfRange(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db, nil)

	_, err := svc.Create(0, ScopeAdmin, &RecipeInput{
		Name:       "Broken",
		Steps:      []string{"Only step"},
		StepImages: []StepImageInput{{StepNumber: 2, URL: "http://img/x.jpg"}},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateIsNotIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db, nil)

	in := RecipeInput{Name: "Same", Steps: []string{"Cook"}}
	first, err := svc.Create(1, ScopeUser, &in)
	require.NoError(t, err)
	second, err := svc.Create(1, ScopeUser, &in)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestUpdateReplacesRelations(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db, nil)

	tomato := createProduct(t, db, "Tomato")
	onion := createProduct(t, db, "Onion")

	owner := uint(7)
	recipeID, err := svc.Create(owner, ScopeUser, &RecipeInput{
		Name:     "Original",
		Steps:    []string{"Cook"},
		Products: []RecipeProductInput{{ProductID: tomato, Quantity: 100}},
	})
	require.NoError(t, err)

	err = svc.Update(recipeID, owner, model.RoleUser, ScopeUser, &RecipeInput{
		Name:     "Replaced",
		Steps:    []string{"Chop", "Cook"},
		Products: []RecipeProductInput{{ProductID: onion, Quantity: 50}},
	})
	require.NoError(t, err)

	detail, err := svc.Get(recipeID, owner)
	require.NoError(t, err)
	assert.Equal(t, "Replaced", detail.Name)
	require.Len(t, detail.Products, 1)
	assert.Equal(t, onion, detail.Products[0].ProductID)

	// The old join rows are gone, not orphaned.
	var count int64
	require.NoError(t, db.Model(&model.RecipeProduct{}).Where("recipe_id = ?", recipeID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db, nil)

	tomato := createProduct(t, db, "Tomato")
	vegan := createTag(t, db, "vegan")

	owner := uint(7)
	recipeID, err := svc.Create(owner, ScopeUser, &RecipeInput{
		Name:      "Doomed",
		Steps:     []string{"Cook"},
		Products:  []RecipeProductInput{{ProductID: tomato, Quantity: 100}},
		TagIDs:    []uint{vegan},
		ImageURLs: []string{"http://img/1.jpg"},
	})
	require.NoError(t, err)
	require.NoError(t, svc.Favorite(owner, recipeID))

	require.NoError(t, svc.Delete(recipeID, owner, model.RoleUser, ScopeUser))

	for _, m := range []interface{}{
		&model.RecipeProduct{}, &model.RecipeTag{}, &model.RecipeImage{}, &model.Favorite{},
	} {
		var count int64
		require.NoError(t, db.Model(m).Where("recipe_id = ?", recipeID).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestOwnershipGuards(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db, nil)

	owner := uint(1)
	stranger := uint(2)

	owned, err := svc.Create(owner, ScopeUser, &RecipeInput{Name: "Owned"})
	require.NoError(t, err)
	global, err := svc.Create(0, ScopeAdmin, &RecipeInput{Name: "Global"})
	require.NoError(t, err)

	// Non-owner cannot mutate another user's recipe.
	err = svc.Delete(owned, stranger, model.RoleUser, ScopeUser)
	assert.ErrorIs(t, err, ErrForbidden)

	// The owner can.
	assert.NoError(t, svc.Delete(owned, owner, model.RoleUser, ScopeUser))

	// The user-scoped path rejects global mutation even for admins.
	err = svc.Delete(global, stranger, model.RoleAdmin, ScopeUser)
	assert.ErrorIs(t, err, ErrForbidden)

	// The admin scope may delete anything.
	assert.NoError(t, svc.Delete(global, stranger, model.RoleAdmin, ScopeAdmin))

	// Missing entities surface NotFound before any policy check.
	err = svc.Delete(9999, owner, model.RoleUser, ScopeUser)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFavoriteLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db, nil)

	recipeID := createRecipeWith(t, svc, "Fav", nil)
	userID := uint(3)

	require.NoError(t, svc.Favorite(userID, recipeID))
	// Favoriting twice stays a single membership row.
	require.NoError(t, svc.Favorite(userID, recipeID))

	var count int64
	require.NoError(t, db.Model(&model.Favorite{}).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	detail, err := svc.Get(recipeID, userID)
	require.NoError(t, err)
	assert.True(t, detail.IsFavorite)

	require.NoError(t, svc.Unfavorite(userID, recipeID))
	// Removal is a conditional delete; a second attempt is NotFound.
	assert.ErrorIs(t, svc.Unfavorite(userID, recipeID), ErrNotFound)

	assert.ErrorIs(t, svc.Favorite(userID, 9999), ErrNotFound)
}

func TestSearchFallbackLike(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db, nil)

	soup := createRecipeWith(t, svc, "Tomato Soup", nil)
	createRecipeWith(t, svc, "Beef Stew", nil)

	views, err := svc.Search("tomato", "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{soup}, matchedIDs(views))
}
