package model

import "time"

// InventoryItem is one product in a user's personal inventory.
type InventoryItem struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	ProductID uint       `gorm:"not null;index" json:"product_id"`
	Quantity  float64    `gorm:"not null;default:0" json:"quantity"`
	UnitID    uint       `gorm:"not null" json:"unit_id"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// ConsumedFood is one entry in a user's consumed-food log.
type ConsumedFood struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	ProductID  uint      `gorm:"not null;index" json:"product_id"`
	Quantity   float64   `gorm:"not null;default:0" json:"quantity"`
	UnitID     uint      `gorm:"not null" json:"unit_id"`
	ConsumedAt time.Time `gorm:"not null;index" json:"consumed_at"`
}
