package main

import (
	"flag"
	"log"

	"github.com/cookmate/backend/config"
	"github.com/cookmate/backend/internal/database"
	"github.com/cookmate/backend/internal/model"
	"github.com/cookmate/backend/internal/service"
)

type seedRecipe struct {
	name        string
	description string
	cookingTime int
	steps       []string
	products    []string // by name, quantity in grams
	quantities  []float64
	tags        []string
}

var seedUnits = []string{"g", "kg", "ml", "l", "pcs", "tbsp", "tsp"}

var seedCategories = []string{"Vegetables", "Fruits", "Dairy", "Meat", "Grains", "Spices"}

var seedTags = []string{"vegetarian", "vegan", "quick", "breakfast", "dinner", "dessert", "gluten-free"}

var seedProducts = map[string]string{
	"Tomato":    "Vegetables",
	"Onion":     "Vegetables",
	"Garlic":    "Vegetables",
	"Potato":    "Vegetables",
	"Apple":     "Fruits",
	"Milk":      "Dairy",
	"Butter":    "Dairy",
	"Egg":       "Dairy",
	"Chicken":   "Meat",
	"Beef":      "Meat",
	"Rice":      "Grains",
	"Spaghetti": "Grains",
	"Flour":     "Grains",
	"Salt":      "Spices",
	"Pepper":    "Spices",
}

var seedRecipes = []seedRecipe{
	{
		name:        "Tomato Spaghetti",
		description: "Simple spaghetti in a garlicky tomato sauce.",
		cookingTime: 25,
		steps:       []string{"Boil the spaghetti", "Fry garlic and onion", "Add chopped tomatoes", "Combine and season"},
		products:    []string{"Spaghetti", "Tomato", "Garlic", "Onion", "Salt"},
		quantities:  []float64{400, 300, 10, 80, 5},
		tags:        []string{"vegetarian", "dinner"},
	},
	{
		name:        "Chicken Fried Rice",
		description: "Weeknight fried rice with chicken and egg.",
		cookingTime: 30,
		steps:       []string{"Cook the rice", "Fry the chicken", "Scramble the egg", "Stir everything together"},
		products:    []string{"Rice", "Chicken", "Egg", "Onion", "Salt", "Pepper"},
		quantities:  []float64{300, 250, 110, 80, 5, 2},
		tags:        []string{"quick", "dinner"},
	},
	{
		name:        "Mashed Potatoes",
		description: "Creamy mashed potatoes with butter and milk.",
		cookingTime: 35,
		steps:       []string{"Boil the potatoes", "Mash with butter and milk", "Season to taste"},
		products:    []string{"Potato", "Butter", "Milk", "Salt"},
		quantities:  []float64{800, 50, 100, 5},
		tags:        []string{"vegetarian", "gluten-free"},
	},
	{
		name:        "Apple Pancakes",
		description: "Fluffy breakfast pancakes with grated apple.",
		cookingTime: 20,
		steps:       []string{"Mix flour, milk and egg", "Grate the apple into the batter", "Fry on both sides"},
		products:    []string{"Flour", "Milk", "Egg", "Apple", "Butter"},
		quantities:  []float64{200, 250, 55, 150, 20},
		tags:        []string{"breakfast", "vegetarian"},
	},
}

// Seeds the global vocabulary (units, categories, tags), a starter product
// catalogue and a handful of global recipes. Safe to run repeatedly.
func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	for _, name := range seedUnits {
		var unit model.Unit
		if err := db.Where(model.Unit{Name: name}).FirstOrCreate(&unit).Error; err != nil {
			log.Fatalf("failed to seed unit %q: %v", name, err)
		}
	}

	categoryIDs := make(map[string]uint)
	for _, name := range seedCategories {
		var category model.Category
		if err := db.Where(model.Category{Name: name}).FirstOrCreate(&category).Error; err != nil {
			log.Fatalf("failed to seed category %q: %v", name, err)
		}
		categoryIDs[name] = category.ID
	}

	tagIDs := make(map[string]uint)
	for _, name := range seedTags {
		var tag model.Tag
		if err := db.Where(model.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			log.Fatalf("failed to seed tag %q: %v", name, err)
		}
		tagIDs[name] = tag.ID
	}

	productIDs := make(map[string]uint)
	for name, category := range seedProducts {
		categoryID := categoryIDs[category]
		var product model.Product
		if err := db.Where(model.Product{Name: name, IsGlobal: true}).
			Attrs(model.Product{CategoryID: &categoryID}).
			FirstOrCreate(&product).Error; err != nil {
			log.Fatalf("failed to seed product %q: %v", name, err)
		}
		productIDs[name] = product.ID
	}

	recipes := service.NewRecipeService(db, nil)
	for _, r := range seedRecipes {
		var existing model.Recipe
		if err := db.Where("name = ? AND is_global = ?", r.name, true).First(&existing).Error; err == nil {
			log.Printf("recipe %q already seeded", r.name)
			continue
		}

		in := service.RecipeInput{
			Name:        r.name,
			Description: r.description,
			CookingTime: r.cookingTime,
			Steps:       r.steps,
		}
		for i, productName := range r.products {
			in.Products = append(in.Products, service.RecipeProductInput{
				ProductID: productIDs[productName],
				Quantity:  r.quantities[i],
			})
		}
		for _, tagName := range r.tags {
			in.TagIDs = append(in.TagIDs, tagIDs[tagName])
		}

		recipeID, err := recipes.Create(0, service.ScopeAdmin, &in)
		if err != nil {
			log.Fatalf("failed to seed recipe %q: %v", r.name, err)
		}
		log.Printf("seeded recipe %q with id %d", r.name, recipeID)
	}

	log.Println("seeding complete")
}
