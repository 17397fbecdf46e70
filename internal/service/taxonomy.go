package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cookmate/backend/internal/model"
)

// TaxonomyService manages the global tag, category and unit vocabularies.
// All mutations are admin-only; the handlers enforce the role.
type TaxonomyService struct {
	db *gorm.DB
}

func NewTaxonomyService(db *gorm.DB) *TaxonomyService {
	return &TaxonomyService{db: db}
}

func (s *TaxonomyService) ListTags() ([]model.Tag, error) {
	var tags []model.Tag
	if err := s.db.Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *TaxonomyService) CreateTag(name string) (uint, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	var existing model.Tag
	if err := s.db.Where("name = ?", name).First(&existing).Error; err == nil {
		return 0, fmt.Errorf("%w: tag %q", ErrAlreadyExists, name)
	}
	tag := model.Tag{Name: name}
	if err := s.db.Create(&tag).Error; err != nil {
		return 0, err
	}
	return tag.ID, nil
}

// DeleteTag removes a tag together with its recipe join rows.
func (s *TaxonomyService) DeleteTag(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&model.RecipeTag{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Tag{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: tag %d", ErrNotFound, id)
		}
		return nil
	})
}

func (s *TaxonomyService) ListCategories() ([]model.Category, error) {
	var categories []model.Category
	if err := s.db.Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *TaxonomyService) CreateCategory(name string) (uint, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	var existing model.Category
	if err := s.db.Where("name = ?", name).First(&existing).Error; err == nil {
		return 0, fmt.Errorf("%w: category %q", ErrAlreadyExists, name)
	}
	category := model.Category{Name: name}
	if err := s.db.Create(&category).Error; err != nil {
		return 0, err
	}
	return category.ID, nil
}

// DeleteCategory removes a category; products keep no dangling reference.
func (s *TaxonomyService) DeleteCategory(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Product{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Category{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: category %d", ErrNotFound, id)
		}
		return nil
	})
}

func (s *TaxonomyService) ListUnits() ([]model.Unit, error) {
	var units []model.Unit
	if err := s.db.Order("id").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

func (s *TaxonomyService) CreateUnit(name string) (uint, error) {
	if name == "" {
		return 0, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	var existing model.Unit
	if err := s.db.Where("name = ?", name).First(&existing).Error; err == nil {
		return 0, fmt.Errorf("%w: unit %q", ErrAlreadyExists, name)
	}
	unit := model.Unit{Name: name}
	if err := s.db.Create(&unit).Error; err != nil {
		return 0, err
	}
	return unit.ID, nil
}

func (s *TaxonomyService) DeleteUnit(id uint) error {
	var unit model.Unit
	if err := s.db.First(&unit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: unit %d", ErrNotFound, id)
		}
		return err
	}
	if unit.Name == model.DefaultUnitName {
		return fmt.Errorf("%w: the default unit cannot be deleted", ErrInvalidInput)
	}

	var inUse int64
	if err := s.db.Model(&model.RecipeProduct{}).Where("unit_id = ?", id).Count(&inUse).Error; err != nil {
		return err
	}
	if inUse > 0 {
		return fmt.Errorf("%w: unit %d is referenced by recipes", ErrInvalidInput, id)
	}
	return s.db.Delete(&model.Unit{}, id).Error
}
