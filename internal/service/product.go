package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/cookmate/backend/internal/model"
)

// ProductInput is the create/update payload for a product.
type ProductInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	CategoryID  *uint  `json:"category_id"`
}

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// List returns global products plus the caller's own, optionally filtered by
// a name substring.
func (s *ProductService) List(callerID uint, nameFilter string, limit, offset int) ([]model.Product, error) {
	limit, offset = clampPage(limit, offset)

	query := s.db.Where("is_global = ? OR user_id = ?", true, callerID)
	if nameFilter != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(nameFilter)+"%")
	}

	var products []model.Product
	if err := query.Order("id").Limit(limit).Offset(offset).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ProductService) Get(id uint) (*model.Product, error) {
	var product model.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &product, nil
}

// Create inserts a product. Admin-scope creates produce global products.
func (s *ProductService) Create(callerID uint, scope Scope, in *ProductInput) (uint, error) {
	if in.Name == "" {
		return 0, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.CategoryID != nil {
		var category model.Category
		if err := s.db.First(&category, *in.CategoryID).Error; err != nil {
			return 0, fmt.Errorf("%w: category %d", ErrNotFound, *in.CategoryID)
		}
	}

	product := model.Product{
		Name:        in.Name,
		Description: in.Description,
		CategoryID:  in.CategoryID,
	}
	if scope == ScopeAdmin {
		product.IsGlobal = true
	} else {
		owner := callerID
		product.UserID = &owner
	}

	if err := s.db.Create(&product).Error; err != nil {
		return 0, err
	}
	return product.ID, nil
}

func (s *ProductService) Update(id, callerID uint, callerRole string, scope Scope, in *ProductInput) error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	var product model.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return err
	}
	if err := authorizeMutation(scope, callerID, callerRole, product.UserID, product.IsGlobal); err != nil {
		return err
	}

	product.Name = in.Name
	product.Description = in.Description
	product.CategoryID = in.CategoryID
	return s.db.Save(&product).Error
}

// Delete removes a product and cascades its recipe join rows, inventory
// items and consumed-food entries in a single transaction.
func (s *ProductService) Delete(id, callerID uint, callerRole string, scope Scope) error {
	var product model.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return err
	}
	if err := authorizeMutation(scope, callerID, callerRole, product.UserID, product.IsGlobal); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&model.RecipeProduct{},
			&model.InventoryItem{},
			&model.ConsumedFood{},
		} {
			if err := tx.Where("product_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Product{}, id).Error
	})
}
