package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Bilal-BS/PF-Tracker/internal/models"
	"github.com/Bilal-BS/PF-Tracker/internal/pagination"
)

// UserServicer defines the contract for registration and authentication.
type UserServicer interface {
	Register(name, email, password string) (*models.User, error)
	Authenticate(email, password string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
}

// CategoryUpdateFields holds the optional fields of a category update.
// A nil field keeps its current value.
type CategoryUpdateFields struct {
	Name *string
	Type *models.EntryType
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	ListCategories(userID string, categoryType *models.EntryType) ([]models.Category, error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	CreateCategory(userID, name string, categoryType models.EntryType) (*models.Category, error)
	UpdateCategory(userID, categoryID string, fields CategoryUpdateFields) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	Type       *models.EntryType
	CategoryID *string
	StartDate  *time.Time
	EndDate    *time.Time
}

// TransactionInput holds the fields of a new transaction.
type TransactionInput struct {
	Type        models.EntryType
	Amount      decimal.Decimal
	Description string
	Date        time.Time
	CategoryID  string
	Notes       *string
}

// TransactionUpdateFields holds the optional fields of a transaction update.
// A nil field keeps its current value; an empty Notes string clears the notes.
type TransactionUpdateFields struct {
	Type        *models.EntryType
	Amount      *decimal.Decimal
	Description *string
	Date        *time.Time
	CategoryID  *string
	Notes       *string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	ListTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.Page[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	CreateTransaction(userID string, input TransactionInput) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// Period is the bucket size of a summary series.
type Period string

const (
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Valid reports whether p is a supported grouping.
func (p Period) Valid() bool {
	return p == PeriodMonth || p == PeriodYear
}

// SummaryQuery selects the transactions a summary is computed over.
type SummaryQuery struct {
	StartDate *time.Time
	EndDate   *time.Time
	GroupBy   Period
}

// Totals are the headline figures of a summary. Amounts are positive; the
// balance is income minus expenses and may be negative.
type Totals struct {
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int64           `json:"transactionCount"`
}

// CategoryTotal aggregates the transactions of one category and type.
type CategoryTotal struct {
	Category models.CategoryRef `json:"category"`
	Type     models.EntryType   `json:"type"`
	Total    decimal.Decimal    `json:"total"`
	Count    int64              `json:"count"`
}

// PeriodTotal aggregates the transactions of one month or year.
type PeriodTotal struct {
	Period   string          `json:"period"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
	Count    int64           `json:"count"`
}

// Summary is the full report returned by SummaryServicer.
type Summary struct {
	Summary         Totals          `json:"summary"`
	CategorySummary []CategoryTotal `json:"categorySummary"`
	GroupBy         Period          `json:"groupBy"`
	Series          []PeriodTotal   `json:"series"`
}

// SummaryServicer defines the contract for read-only reporting.
type SummaryServicer interface {
	GetSummary(userID string, query SummaryQuery) (*Summary, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
