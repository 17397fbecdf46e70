package service

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/cookmate/backend/internal/model"
)

// InventoryItemInput is the create/update payload for one inventory entry.
// UnitID zero means grams.
type InventoryItemInput struct {
	ProductID uint       `json:"product_id" binding:"required"`
	Quantity  float64    `json:"quantity"`
	UnitID    uint       `json:"unit_id"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// InventoryService manages a user's personal product inventory. Items are
// strictly per-user; every operation is scoped by the caller id.
type InventoryService struct {
	db *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

func (s *InventoryService) List(userID uint) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	if err := s.db.Where("user_id = ?", userID).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ProductIDs returns the distinct products in the user's inventory, ready to
// feed into the recipe matcher.
func (s *InventoryService) ProductIDs(userID uint) ([]uint, error) {
	var ids []uint
	if err := s.db.Model(&model.InventoryItem{}).
		Where("user_id = ?", userID).
		Distinct("product_id").
		Pluck("product_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *InventoryService) Add(userID uint, in *InventoryItemInput) (uint, error) {
	if in.Quantity < 0 {
		return 0, fmt.Errorf("%w: negative quantity", ErrInvalidInput)
	}
	var product model.Product
	if err := s.db.First(&product, in.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: product %d", ErrNotFound, in.ProductID)
		}
		return 0, err
	}

	unitID, err := s.resolveUnit(in.UnitID)
	if err != nil {
		return 0, err
	}

	item := model.InventoryItem{
		UserID:    userID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		UnitID:    unitID,
		ExpiresAt: in.ExpiresAt,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return 0, err
	}
	return item.ID, nil
}

func (s *InventoryService) Update(id, userID uint, in *InventoryItemInput) error {
	if in.Quantity < 0 {
		return fmt.Errorf("%w: negative quantity", ErrInvalidInput)
	}

	var item model.InventoryItem
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: inventory item %d", ErrNotFound, id)
		}
		return err
	}

	unitID, err := s.resolveUnit(in.UnitID)
	if err != nil {
		return err
	}

	item.ProductID = in.ProductID
	item.Quantity = in.Quantity
	item.UnitID = unitID
	item.ExpiresAt = in.ExpiresAt
	return s.db.Save(&item).Error
}

func (s *InventoryService) Delete(id, userID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&model.InventoryItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: inventory item %d", ErrNotFound, id)
	}
	return nil
}

func (s *InventoryService) resolveUnit(unitID uint) (uint, error) {
	if unitID != 0 {
		var unit model.Unit
		if err := s.db.First(&unit, unitID).Error; err != nil {
			return 0, fmt.Errorf("%w: unit %d", ErrNotFound, unitID)
		}
		return unitID, nil
	}
	var defaultUnit model.Unit
	if err := s.db.Where(model.Unit{Name: model.DefaultUnitName}).FirstOrCreate(&defaultUnit).Error; err != nil {
		return 0, err
	}
	return defaultUnit.ID, nil
}
