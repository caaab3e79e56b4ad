package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Bilal-BS/PF-Tracker/internal/database"
	apperrors "github.com/Bilal-BS/PF-Tracker/internal/errors"
	"github.com/Bilal-BS/PF-Tracker/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

func categoryExistsError(name string, categoryType models.EntryType) *apperrors.AppError {
	return apperrors.WithMessage(apperrors.ErrCategoryExists,
		fmt.Sprintf("Category '%s' already exists for %s transactions", name, categoryType.Lower()))
}

// ListCategories returns the user's categories ordered by type then name,
// optionally restricted to one type.
func (s *categoryService) ListCategories(userID string, categoryType *models.EntryType) ([]models.Category, error) {
	query := s.db.Where("user_id = ?", userID)
	if categoryType != nil {
		if !categoryType.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Type must be either INCOME or EXPENSE")
		}
		query = query.Where("type = ?", *categoryType)
	}

	categories := []models.Category{}
	if err := query.Order("type ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by ID for a specific user
func (s *categoryService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// CreateCategory creates a new category
func (s *categoryService) CreateCategory(userID, name string, categoryType models.EntryType) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if !categoryType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Type must be either INCOME or EXPENSE")
	}

	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("user_id = ? AND name = ? AND type = ?", userID, name, categoryType).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, categoryExistsError(name, categoryType)
	}

	category := &models.Category{
		UserID: userID,
		Name:   name,
		Type:   categoryType,
	}
	if err := s.db.Create(category).Error; err != nil {
		// The unique index catches a concurrent insert that passed the count.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, categoryExistsError(name, categoryType)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// UpdateCategory renames a category or changes its type. A type change is
// refused while transactions reference the category, since their type must
// keep matching it.
func (s *categoryService) UpdateCategory(userID, categoryID string, fields CategoryUpdateFields) (*models.Category, error) {
	var updated models.Category

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := database.ForUpdate(tx).
			Where("id = ? AND user_id = ?", categoryID, userID).
			First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCategoryNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		name, categoryType := category.Name, category.Type
		if fields.Name != nil {
			name = strings.TrimSpace(*fields.Name)
			if name == "" {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
			}
		}
		if fields.Type != nil {
			if !fields.Type.Valid() {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "Type must be either INCOME or EXPENSE")
			}
			categoryType = *fields.Type
		}

		if name == category.Name && categoryType == category.Type {
			updated = category
			return nil
		}

		if categoryType != category.Type {
			var used int64
			if err := tx.Model(&models.Transaction{}).
				Where("category_id = ?", category.ID).
				Count(&used).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if used > 0 {
				return apperrors.WithMessage(apperrors.ErrCategoryInUse,
					fmt.Sprintf("Cannot change category type. It has %d associated transactions.", used))
			}
		}

		var clash int64
		if err := tx.Model(&models.Category{}).
			Where("user_id = ? AND name = ? AND type = ? AND id <> ?", userID, name, categoryType, category.ID).
			Count(&clash).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if clash > 0 {
			return categoryExistsError(name, categoryType)
		}

		result := tx.Model(&models.Category{}).
			Where("id = ? AND user_id = ?", category.ID, userID).
			Updates(map[string]interface{}{"name": name, "type": categoryType})
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
				return categoryExistsError(name, categoryType)
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrCategoryNotFound
		}

		return tx.Where("id = ?", category.ID).First(&updated).Error
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &updated, nil
}

// DeleteCategory deletes a category that no transaction references.
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := database.ForUpdate(tx).
			Where("id = ? AND user_id = ?", categoryID, userID).
			First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCategoryNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var used int64
		if err := tx.Model(&models.Transaction{}).
			Where("category_id = ?", category.ID).
			Count(&used).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if used > 0 {
			return apperrors.WithMessage(apperrors.ErrCategoryInUse,
				fmt.Sprintf("Cannot delete category. It has %d associated transactions.", used))
		}

		result := tx.Where("id = ? AND user_id = ?", category.ID, userID).Delete(&models.Category{})
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrCategoryNotFound
		}
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
