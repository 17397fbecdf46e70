package model

import (
	"time"

	pgvector "github.com/pgvector/pgvector-go"
)

type Recipe struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	CookingTime int             `json:"cooking_time"`
	Steps       StringArray     `gorm:"type:jsonb;not null;default:'[]'" json:"steps"`
	IsGlobal    bool            `gorm:"not null;default:false" json:"is_global"`
	UserID      *uint           `gorm:"index" json:"user_id,omitempty"`
	Embedding   pgvector.Vector `gorm:"type:vector(3)" json:"-"`
}

// RecipeProduct links a recipe to a product with a unit-qualified quantity.
type RecipeProduct struct {
	ID        uint    `gorm:"primarykey" json:"id"`
	RecipeID  uint    `gorm:"not null;index" json:"recipe_id"`
	ProductID uint    `gorm:"not null;index" json:"product_id"`
	Quantity  float64 `gorm:"not null;default:0" json:"quantity"`
	UnitID    uint    `gorm:"not null" json:"unit_id"`
}

type RecipeTag struct {
	ID       uint `gorm:"primarykey" json:"id"`
	RecipeID uint `gorm:"not null;index" json:"recipe_id"`
	TagID    uint `gorm:"not null;index" json:"tag_id"`
}

// RecipeImage is a recipe-level image. Multiple rows are legal but only the
// first one is surfaced in responses.
type RecipeImage struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	RecipeID uint   `gorm:"not null;index" json:"recipe_id"`
	URL      string `gorm:"size:512;not null" json:"url"`
}

// StepImage is an image attached to one step, matched positionally by the
// 1-based step number.
type StepImage struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	RecipeID   uint   `gorm:"not null;index" json:"recipe_id"`
	StepNumber int    `gorm:"not null" json:"step_number"`
	URL        string `gorm:"size:512;not null" json:"url"`
}

// Favorite marks a recipe as favorited by a user. Existence is membership.
type Favorite struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	RecipeID  uint      `gorm:"not null;index" json:"recipe_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
}

func (Favorite) TableName() string {
	return "favorites"
}
