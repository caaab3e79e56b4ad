package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Bilal-BS/PF-Tracker/internal/database"
	apperrors "github.com/Bilal-BS/PF-Tracker/internal/errors"
	"github.com/Bilal-BS/PF-Tracker/internal/models"
	"github.com/Bilal-BS/PF-Tracker/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// normalizeAmount rounds to cents and rejects non-positive results.
func normalizeAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be a positive number")
	}
	return amount, nil
}

func normalizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// resolveCategory loads the user's category and checks that it carries the
// transaction's type.
func resolveCategory(tx *gorm.DB, userID, categoryID string, txType models.EntryType) (*models.Category, error) {
	var category models.Category
	if err := database.ForShare(tx).
		Where("id = ? AND user_id = ?", categoryID, userID).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCategory
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if category.Type != txType {
		return nil, apperrors.WithMessage(apperrors.ErrTypeMismatch,
			fmt.Sprintf("Category type (%s) does not match transaction type (%s)", category.Type, txType))
	}
	return &category, nil
}

func categoryRef(c *models.Category) *models.CategoryRef {
	return &models.CategoryRef{ID: c.ID, Name: c.Name, Type: c.Type}
}

// attachCategories fills the Category reference of each transaction with a
// single lookup.
func attachCategories(db *gorm.DB, transactions []models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	ids := make([]string, 0, len(transactions))
	seen := make(map[string]bool, len(transactions))
	for _, t := range transactions {
		if !seen[t.CategoryID] {
			seen[t.CategoryID] = true
			ids = append(ids, t.CategoryID)
		}
	}

	var categories []models.Category
	if err := db.Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return err
	}
	byID := make(map[string]*models.Category, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}

	for i := range transactions {
		if c, ok := byID[transactions[i].CategoryID]; ok {
			transactions[i].Category = categoryRef(c)
		}
	}
	return nil
}

// applyTransactionFilter narrows query to the filter's type, category and
// date window. Both date bounds are inclusive.
func applyTransactionFilter(query *gorm.DB, filter TransactionFilter) *gorm.DB {
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.StartDate != nil {
		query = query.Where("date >= ?", filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		query = query.Where("date <= ?", filter.EndDate.UTC())
	}
	return query
}

// ListTransactions returns one page of the user's transactions, newest first.
func (s *transactionService) ListTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.Page[models.Transaction], error) {
	page.Defaults()

	if filter.Type != nil && !filter.Type.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Type must be either INCOME or EXPENSE")
	}

	base := applyTransactionFilter(s.db.Model(&models.Transaction{}).Where("user_id = ?", userID), filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Order("date DESC, created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := attachCategories(s.db, transactions); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPage(transactions, page, total)
	return &result, nil
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	list := []models.Transaction{transaction}
	if err := attachCategories(s.db, list); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &list[0], nil
}

// CreateTransaction records a transaction in one of the user's categories.
func (s *transactionService) CreateTransaction(userID string, input TransactionInput) (*models.Transaction, error) {
	if !input.Type.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Type must be either INCOME or EXPENSE")
	}
	amount, err := normalizeAmount(input.Amount)
	if err != nil {
		return nil, err
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if input.Date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}

	transaction := &models.Transaction{
		UserID:      userID,
		CategoryID:  input.CategoryID,
		Type:        input.Type,
		Amount:      amount,
		Description: description,
		Date:        input.Date.UTC(),
		Notes:       normalizeNotes(input.Notes),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		category, err := resolveCategory(tx, userID, input.CategoryID, input.Type)
		if err != nil {
			return err
		}
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		transaction.Category = categoryRef(category)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// UpdateTransaction applies the present fields of an update. When the type or
// the category changes, the resulting pair is validated as on create.
func (s *transactionService) UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error) {
	var updated models.Transaction

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var current models.Transaction
		if err := database.ForUpdate(tx).
			Where("id = ? AND user_id = ?", transactionID, userID).
			First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTransactionNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		updates := make(map[string]interface{})

		if fields.Type != nil || fields.CategoryID != nil {
			txType, categoryID := current.Type, current.CategoryID
			if fields.Type != nil {
				if !fields.Type.Valid() {
					return apperrors.WithMessage(apperrors.ErrInvalidInput, "Type must be either INCOME or EXPENSE")
				}
				txType = *fields.Type
			}
			if fields.CategoryID != nil {
				categoryID = *fields.CategoryID
			}
			if _, err := resolveCategory(tx, userID, categoryID, txType); err != nil {
				return err
			}
			updates["type"] = txType
			updates["category_id"] = categoryID
		}
		if fields.Amount != nil {
			amount, err := normalizeAmount(*fields.Amount)
			if err != nil {
				return err
			}
			updates["amount"] = amount
		}
		if fields.Description != nil {
			description := strings.TrimSpace(*fields.Description)
			if description == "" {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
			}
			updates["description"] = description
		}
		if fields.Date != nil {
			if fields.Date.IsZero() {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
			}
			updates["date"] = fields.Date.UTC()
		}
		if fields.Notes != nil {
			updates["notes"] = normalizeNotes(fields.Notes)
		}

		if len(updates) > 0 {
			result := tx.Model(&models.Transaction{}).
				Where("id = ? AND user_id = ?", transactionID, userID).
				Updates(updates)
			if result.Error != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
			}
			if result.RowsAffected == 0 {
				return apperrors.ErrTransactionNotFound
			}
		}

		if err := tx.Where("id = ?", transactionID).First(&updated).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		list := []models.Transaction{updated}
		if err := attachCategories(tx, list); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		updated = list[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTransaction permanently removes a transaction.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	result := s.db.Where("id = ? AND user_id = ?", transactionID, userID).Delete(&models.Transaction{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}
