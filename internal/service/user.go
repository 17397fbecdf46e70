package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cookmate/backend/internal/model"
)

// UserService covers the admin-facing user management surface.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) List(limit, offset int) ([]model.User, error) {
	limit, offset = clampPage(limit, offset)
	var users []model.User
	if err := s.db.Order("id").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserService) Get(id uint) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) SetRole(id uint, role string) error {
	if role != model.RoleUser && role != model.RoleAdmin {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	result := s.db.Model(&model.User{}).Where("id = ?", id).Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	return nil
}

// Delete removes a user together with their tokens, favorites, inventory,
// consumed log and owned non-global entities, in a single transaction.
func (s *UserService) Delete(id uint) error {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&model.RefreshToken{},
			&model.Favorite{},
			&model.InventoryItem{},
			&model.ConsumedFood{},
		} {
			if err := tx.Where("user_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}

		// Owned recipes cascade their relations first.
		var recipeIDs []uint
		if err := tx.Model(&model.Recipe{}).
			Where("user_id = ? AND is_global = ?", id, false).
			Pluck("id", &recipeIDs).Error; err != nil {
			return err
		}
		for _, recipeID := range recipeIDs {
			for _, m := range []interface{}{
				&model.RecipeProduct{},
				&model.RecipeTag{},
				&model.RecipeImage{},
				&model.StepImage{},
				&model.Favorite{},
			} {
				if err := tx.Where("recipe_id = ?", recipeID).Delete(m).Error; err != nil {
					return err
				}
			}
			if err := tx.Delete(&model.Recipe{}, recipeID).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ? AND is_global = ?", id, false).
			Delete(&model.Product{}).Error; err != nil {
			return err
		}

		return tx.Delete(&model.User{}, id).Error
	})
}
