package service

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/cookmate/backend/internal/model"
)

// ConsumedFoodInput is the payload for logging consumed food. A zero
// ConsumedAt means now; UnitID zero means grams.
type ConsumedFoodInput struct {
	ProductID  uint      `json:"product_id" binding:"required"`
	Quantity   float64   `json:"quantity"`
	UnitID     uint      `json:"unit_id"`
	ConsumedAt time.Time `json:"consumed_at"`
}

// ConsumedService manages a user's consumed-food log.
type ConsumedService struct {
	db *gorm.DB
}

func NewConsumedService(db *gorm.DB) *ConsumedService {
	return &ConsumedService{db: db}
}

func (s *ConsumedService) Add(userID uint, in *ConsumedFoodInput) (uint, error) {
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

	unitID := in.UnitID
	if unitID == 0 {
		var defaultUnit model.Unit
		if err := s.db.Where(model.Unit{Name: model.DefaultUnitName}).FirstOrCreate(&defaultUnit).Error; err != nil {
			return 0, err
		}
		unitID = defaultUnit.ID
	}

	consumedAt := in.ConsumedAt
	if consumedAt.IsZero() {
		consumedAt = time.Now()
	}

	entry := model.ConsumedFood{
		UserID:     userID,
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		UnitID:     unitID,
		ConsumedAt: consumedAt,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return 0, err
	}
	return entry.ID, nil
}

// ListByDay returns the entries consumed on the given calendar day.
func (s *ConsumedService) ListByDay(userID uint, day time.Time) ([]model.ConsumedFood, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	var entries []model.ConsumedFood
	if err := s.db.Where("user_id = ? AND consumed_at >= ? AND consumed_at < ?", userID, start, end).
		Order("consumed_at").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *ConsumedService) Delete(id, userID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&model.ConsumedFood{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: consumed entry %d", ErrNotFound, id)
	}
	return nil
}
