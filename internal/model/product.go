package model

import "time"

type Product struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"size:255;not null;index" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CategoryID  *uint     `gorm:"index" json:"category_id,omitempty"`
	IsGlobal    bool      `gorm:"not null;default:false" json:"is_global"`
	UserID      *uint     `gorm:"index" json:"user_id,omitempty"`
}

type Category struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"size:100;not null;uniqueIndex" json:"name"`
}

type Tag struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"size:100;not null;uniqueIndex" json:"name"`
}

// Unit is a unit of measure for quantities. Grams is the default.
type Unit struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"size:20;not null;uniqueIndex" json:"name"`
}

// DefaultUnitName is used when a quantity arrives without a unit.
const DefaultUnitName = "g"
