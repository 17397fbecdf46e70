package service

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cookmate/backend/internal/model"
)

// partialTolerance is the maximum number of products a recipe may use beyond
// the queried set and still count as a partial match.
const partialTolerance = 3

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// RecipeProductInput is one ingredient line in a create/update request.
// UnitID zero means grams.
type RecipeProductInput struct {
	ProductID uint    `json:"product_id" binding:"required"`
	Quantity  float64 `json:"quantity"`
	UnitID    uint    `json:"unit_id"`
}

// StepImageInput attaches an image to a 1-based step number.
type StepImageInput struct {
	StepNumber int    `json:"step_number" binding:"required"`
	URL        string `json:"url" binding:"required"`
}

// RecipeInput is the full-replacement payload for creating or updating a
// recipe. On update the product set, tag set and images are replaced, never
// diffed.
type RecipeInput struct {
	Name        string               `json:"name" binding:"required"`
	Description string               `json:"description"`
	CookingTime int                  `json:"cooking_time"`
	Steps       []string             `json:"steps"`
	Products    []RecipeProductInput `json:"products"`
	TagIDs      []uint               `json:"tag_ids"`
	ImageURLs   []string             `json:"image_urls"`
	StepImages  []StepImageInput     `json:"step_images"`
}

// RecipeProductView is one ingredient line in a response.
type RecipeProductView struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
}

// RecipeView is a recipe merged with its products, tag names and first
// image.
type RecipeView struct {
	ID          uint                `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	CookingTime int                 `json:"cooking_time"`
	Steps       []string            `json:"steps"`
	IsGlobal    bool                `json:"is_global"`
	UserID      *uint               `json:"user_id,omitempty"`
	Products    []RecipeProductView `json:"products"`
	Tags        []string            `json:"tags"`
	ImageURL    *string             `json:"image_url"`
}

// StepImageView is one step image in a single-recipe response.
type StepImageView struct {
	StepNumber int    `json:"step_number"`
	URL        string `json:"url"`
}

// RecipeDetail extends RecipeView with the fields only the single-recipe
// fetch carries.
type RecipeDetail struct {
	RecipeView
	StepImages []StepImageView `json:"step_images"`
	IsFavorite bool            `json:"is_favorite"`
}

type RecipeService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewRecipeService(db *gorm.DB, logger *zap.Logger) *RecipeService {
	return &RecipeService{db: db, logger: logger}
}

// Create inserts a recipe with its products, tags and images in a single
// transaction. Admin-scope creates produce global recipes with no owner.
func (s *RecipeService) Create(callerID uint, scope Scope, in *RecipeInput) (uint, error) {
	if err := s.validateInput(in); err != nil {
		return 0, err
	}

	recipe := model.Recipe{
		Name:        in.Name,
		Description: in.Description,
		CookingTime: in.CookingTime,
		Steps:       model.StringArray(in.Steps),
		Embedding:   GenerateEmbedding(in.Name + " " + in.Description),
	}
	if scope == ScopeAdmin {
		recipe.IsGlobal = true
	} else {
		owner := callerID
		recipe.UserID = &owner
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		return s.insertRelations(tx, recipe.ID, in)
	})
	if err != nil {
		return 0, err
	}
	return recipe.ID, nil
}

// Update replaces a recipe and all of its relations in a single transaction.
func (s *RecipeService) Update(id, callerID uint, callerRole string, scope Scope, in *RecipeInput) error {
	if err := s.validateInput(in); err != nil {
		return err
	}

	var recipe model.Recipe
	if err := s.db.First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: recipe %d", ErrNotFound, id)
		}
		return err
	}
	if err := authorizeMutation(scope, callerID, callerRole, recipe.UserID, recipe.IsGlobal); err != nil {
		return err
	}

	recipe.Name = in.Name
	recipe.Description = in.Description
	recipe.CookingTime = in.CookingTime
	recipe.Steps = model.StringArray(in.Steps)
	recipe.Embedding = GenerateEmbedding(in.Name + " " + in.Description)

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&recipe).Error; err != nil {
			return err
		}
		if err := s.deleteRelations(tx, recipe.ID); err != nil {
			return err
		}
		return s.insertRelations(tx, recipe.ID, in)
	})
}

// Delete removes a recipe and cascades its join rows, images and favorites
// in a single transaction.
func (s *RecipeService) Delete(id, callerID uint, callerRole string, scope Scope) error {
	var recipe model.Recipe
	if err := s.db.First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: recipe %d", ErrNotFound, id)
		}
		return err
	}
	if err := authorizeMutation(scope, callerID, callerRole, recipe.UserID, recipe.IsGlobal); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.deleteRelations(tx, id); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&model.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Recipe{}, id).Error
	})
}

func (s *RecipeService) validateInput(in *RecipeInput) error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	for _, p := range in.Products {
		if p.ProductID == 0 {
			return fmt.Errorf("%w: product_id is required", ErrInvalidInput)
		}
		if p.Quantity < 0 {
			return fmt.Errorf("%w: negative quantity", ErrInvalidInput)
		}
	}
	for _, si := range in.StepImages {
		if si.StepNumber < 1 || si.StepNumber > len(in.Steps) {
			return fmt.Errorf("%w: step image for step %d out of range", ErrInvalidInput, si.StepNumber)
		}
	}
	return nil
}

func (s *RecipeService) insertRelations(tx *gorm.DB, recipeID uint, in *RecipeInput) error {
	var defaultUnit model.Unit
	if len(in.Products) > 0 {
		if err := tx.Where(model.Unit{Name: model.DefaultUnitName}).FirstOrCreate(&defaultUnit).Error; err != nil {
			return err
		}
	}
	for _, p := range in.Products {
		unitID := p.UnitID
		if unitID == 0 {
			unitID = defaultUnit.ID
		}
		rp := model.RecipeProduct{
			RecipeID:  recipeID,
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
			UnitID:    unitID,
		}
		if err := tx.Create(&rp).Error; err != nil {
			return err
		}
	}
	for _, tagID := range in.TagIDs {
		if err := tx.Create(&model.RecipeTag{RecipeID: recipeID, TagID: tagID}).Error; err != nil {
			return err
		}
	}
	for _, url := range in.ImageURLs {
		if err := tx.Create(&model.RecipeImage{RecipeID: recipeID, URL: url}).Error; err != nil {
			return err
		}
	}
	for _, si := range in.StepImages {
		img := model.StepImage{RecipeID: recipeID, StepNumber: si.StepNumber, URL: si.URL}
		if err := tx.Create(&img).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *RecipeService) deleteRelations(tx *gorm.DB, recipeID uint) error {
	for _, m := range []interface{}{
		&model.RecipeProduct{},
		&model.RecipeTag{},
		&model.RecipeImage{},
		&model.StepImage{},
	} {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(m).Error; err != nil {
			return err
		}
	}
	return nil
}

// sanitizeIDs drops non-positive ids and duplicates, preserving order.
func sanitizeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// MatchExact returns recipes whose entire product set is contained in the
// queried ids. Recipes with no products never match.
func (s *RecipeService) MatchExact(productIDs []uint) ([]RecipeView, error) {
	ids := sanitizeIDs(productIDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no valid product ids", ErrInvalidInput)
	}

	var recipeIDs []uint
	err := s.db.Raw(`
		SELECT DISTINCT rp.recipe_id
		FROM recipe_products rp
		WHERE NOT EXISTS (
			SELECT 1 FROM recipe_products x
			WHERE x.recipe_id = rp.recipe_id AND x.product_id NOT IN ?
		)
		ORDER BY rp.recipe_id`, ids).Scan(&recipeIDs).Error
	if err != nil {
		return nil, fmt.Errorf("exact match query failed: %w", err)
	}

	return s.expand(recipeIDs)
}

// MatchPartial returns recipes sharing at least one product with the queried
// ids and using at most partialTolerance products outside it, paginated by
// recipe id order.
func (s *RecipeService) MatchPartial(productIDs []uint, limit, offset int) ([]RecipeView, error) {
	ids := sanitizeIDs(productIDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no valid product ids", ErrInvalidInput)
	}
	limit, offset = clampPage(limit, offset)

	var recipeIDs []uint
	err := s.db.Raw(`
		SELECT rp.recipe_id
		FROM recipe_products rp
		GROUP BY rp.recipe_id
		HAVING SUM(CASE WHEN rp.product_id IN ? THEN 1 ELSE 0 END) >= 1
		   AND SUM(CASE WHEN rp.product_id IN ? THEN 0 ELSE 1 END) <= ?
		ORDER BY rp.recipe_id
		LIMIT ? OFFSET ?`, ids, ids, partialTolerance, limit, offset).Scan(&recipeIDs).Error
	if err != nil {
		return nil, fmt.Errorf("partial match query failed: %w", err)
	}

	return s.expand(recipeIDs)
}

// ResolveProductNames maps a comma-separated product-name string to product
// ids by exact name lookup. Unknown names are dropped; an empty result is
// NotFound.
func (s *RecipeService) ResolveProductNames(namesCSV string) ([]uint, error) {
	var names []string
	for _, raw := range strings.Split(namesCSV, ",") {
		name := strings.TrimSpace(raw)
		if name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no product names given", ErrInvalidInput)
	}

	var ids []uint
	if err := s.db.Model(&model.Product{}).Where("name IN ?", names).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no products match the given names", ErrNotFound)
	}
	return ids, nil
}

// MatchByTags returns recipes carrying every one of the given tag names,
// paginated by recipe id order.
func (s *RecipeService) MatchByTags(tags []string, limit, offset int) ([]RecipeView, error) {
	var names []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			names = append(names, t)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no tags given", ErrInvalidInput)
	}
	limit, offset = clampPage(limit, offset)

	var recipeIDs []uint
	err := s.db.Raw(`
		SELECT rt.recipe_id
		FROM recipe_tags rt
		JOIN tags t ON t.id = rt.tag_id
		WHERE t.name IN ?
		GROUP BY rt.recipe_id
		HAVING COUNT(DISTINCT t.id) = ?
		ORDER BY rt.recipe_id
		LIMIT ? OFFSET ?`, names, len(names), limit, offset).Scan(&recipeIDs).Error
	if err != nil {
		return nil, fmt.Errorf("tag match query failed: %w", err)
	}

	return s.expand(recipeIDs)
}

// Search lists recipes filtered by free text and category. On postgres the
// text filter orders by embedding distance; elsewhere it falls back to LIKE.
func (s *RecipeService) Search(q, category string, limit, offset int) ([]RecipeView, error) {
	limit, offset = clampPage(limit, offset)

	query := s.db.Model(&model.Recipe{})
	if q != "" {
		if s.db.Dialector.Name() == "postgres" {
			vec := GenerateEmbedding(q)
			query = query.Clauses(clause.OrderBy{
				Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
			})
		} else {
			like := "%" + strings.ToLower(q) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
		}
	}
	if category != "" {
		query = query.Where(`id IN (
			SELECT rp.recipe_id FROM recipe_products rp
			JOIN products p ON p.id = rp.product_id
			JOIN categories c ON c.id = p.category_id
			WHERE c.name = ?)`, category)
	}

	var recipeIDs []uint
	if err := query.Limit(limit).Offset(offset).Pluck("id", &recipeIDs).Error; err != nil {
		return nil, fmt.Errorf("recipe search failed: %w", err)
	}
	return s.expand(recipeIDs)
}

// Get fetches a single recipe with its step images and the caller's
// favorite flag.
func (s *RecipeService) Get(id, callerID uint) (*RecipeDetail, error) {
	var recipe model.Recipe
	if err := s.db.First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: recipe %d", ErrNotFound, id)
		}
		return nil, err
	}

	views, err := s.expand([]uint{id})
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, fmt.Errorf("%w: recipe %d", ErrNotFound, id)
	}
	detail := RecipeDetail{RecipeView: views[0]}

	var stepImages []model.StepImage
	if err := s.db.Where("recipe_id = ?", id).Order("step_number").Find(&stepImages).Error; err != nil {
		return nil, err
	}
	detail.StepImages = make([]StepImageView, 0, len(stepImages))
	for _, si := range stepImages {
		detail.StepImages = append(detail.StepImages, StepImageView{StepNumber: si.StepNumber, URL: si.URL})
	}

	var favCount int64
	if err := s.db.Model(&model.Favorite{}).
		Where("recipe_id = ? AND user_id = ?", id, callerID).
		Count(&favCount).Error; err != nil {
		return nil, err
	}
	detail.IsFavorite = favCount > 0

	return &detail, nil
}

// expand merges a set of recipe ids with their products, tag names and first
// image using one query per relation instead of one per recipe. Ids with no
// backing row are absent from the result.
func (s *RecipeService) expand(recipeIDs []uint) ([]RecipeView, error) {
	if len(recipeIDs) == 0 {
		return []RecipeView{}, nil
	}

	var recipes []model.Recipe
	if err := s.db.Where("id IN ?", recipeIDs).Find(&recipes).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]*model.Recipe, len(recipes))
	for i := range recipes {
		byID[recipes[i].ID] = &recipes[i]
	}

	type productRow struct {
		RecipeID  uint
		ProductID uint
		Name      string
		Quantity  float64
		Unit      string
	}
	var productRows []productRow
	err := s.db.Raw(`
		SELECT rp.recipe_id, rp.product_id, p.name, rp.quantity, u.name AS unit
		FROM recipe_products rp
		JOIN products p ON p.id = rp.product_id
		LEFT JOIN units u ON u.id = rp.unit_id
		WHERE rp.recipe_id IN ?
		ORDER BY rp.id`, recipeIDs).Scan(&productRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe products: %w", err)
	}
	productsByRecipe := make(map[uint][]RecipeProductView)
	for _, row := range productRows {
		productsByRecipe[row.RecipeID] = append(productsByRecipe[row.RecipeID], RecipeProductView{
			ProductID: row.ProductID,
			Name:      row.Name,
			Quantity:  row.Quantity,
			Unit:      row.Unit,
		})
	}

	type tagRow struct {
		RecipeID uint
		Name     string
	}
	var tagRows []tagRow
	err = s.db.Raw(`
		SELECT rt.recipe_id, t.name
		FROM recipe_tags rt
		JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id IN ?
		ORDER BY t.name`, recipeIDs).Scan(&tagRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe tags: %w", err)
	}
	tagsByRecipe := make(map[uint][]string)
	for _, row := range tagRows {
		tagsByRecipe[row.RecipeID] = append(tagsByRecipe[row.RecipeID], row.Name)
	}

	// First image row wins.
	var imageRows []model.RecipeImage
	if err := s.db.Where("recipe_id IN ?", recipeIDs).Order("id").Find(&imageRows).Error; err != nil {
		return nil, fmt.Errorf("failed to load recipe images: %w", err)
	}
	imageByRecipe := make(map[uint]string)
	for _, img := range imageRows {
		if _, ok := imageByRecipe[img.RecipeID]; !ok {
			imageByRecipe[img.RecipeID] = img.URL
		}
	}

	views := make([]RecipeView, 0, len(recipeIDs))
	for _, id := range recipeIDs {
		recipe, ok := byID[id]
		if !ok {
			continue
		}
		view := RecipeView{
			ID:          recipe.ID,
			Name:        recipe.Name,
			Description: recipe.Description,
			CookingTime: recipe.CookingTime,
			Steps:       recipe.Steps,
			IsGlobal:    recipe.IsGlobal,
			UserID:      recipe.UserID,
			Products:    productsByRecipe[id],
			Tags:        tagsByRecipe[id],
		}
		if view.Products == nil {
			view.Products = []RecipeProductView{}
		}
		if view.Tags == nil {
			view.Tags = []string{}
		}
		if url, ok := imageByRecipe[id]; ok {
			u := url
			view.ImageURL = &u
		}
		views = append(views, view)
	}
	if len(views) < len(recipeIDs) && s.logger != nil {
		s.logger.Debug("expand skipped missing recipes",
			zap.Int("requested", len(recipeIDs)),
			zap.Int("found", len(views)))
	}
	return views, nil
}

// Favorite adds a recipe to the caller's favorites.
func (s *RecipeService) Favorite(userID, recipeID uint) error {
	var recipe model.Recipe
	if err := s.db.First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: recipe %d", ErrNotFound, recipeID)
		}
		return err
	}

	var count int64
	if err := s.db.Model(&model.Favorite{}).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return s.db.Create(&model.Favorite{RecipeID: recipeID, UserID: userID}).Error
}

// Unfavorite removes a recipe from the caller's favorites with a single
// conditional delete; the affected-row count doubles as the existence check.
func (s *RecipeService) Unfavorite(userID, recipeID uint) error {
	result := s.db.Where("recipe_id = ? AND user_id = ?", recipeID, userID).Delete(&model.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: favorite", ErrNotFound)
	}
	return nil
}

// Favorites lists the caller's favorited recipes.
func (s *RecipeService) Favorites(userID uint) ([]RecipeView, error) {
	var recipeIDs []uint
	if err := s.db.Model(&model.Favorite{}).
		Where("user_id = ?", userID).
		Order("recipe_id").
		Pluck("recipe_id", &recipeIDs).Error; err != nil {
		return nil, err
	}
	return s.expand(recipeIDs)
}
