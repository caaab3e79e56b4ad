package services

import (
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "github.com/Bilal-BS/PF-Tracker/internal/errors"
	"github.com/Bilal-BS/PF-Tracker/internal/models"
)

// summaryService computes read-only reports over a user's transactions.
type summaryService struct {
	db *gorm.DB
}

// NewSummaryService creates a new SummaryServicer.
func NewSummaryService(db *gorm.DB) SummaryServicer {
	return &summaryService{db: db}
}

const (
	incomeSum  = "COALESCE(SUM(CASE WHEN t.type = 'INCOME' THEN t.amount ELSE 0 END), 0)"
	expenseSum = "COALESCE(SUM(CASE WHEN t.type = 'EXPENSE' THEN t.amount ELSE 0 END), 0)"
)

type totalsRow struct {
	TotalIncome      decimal.Decimal
	TotalExpenses    decimal.Decimal
	TransactionCount int64
}

type categoryRow struct {
	CategoryID   string
	CategoryName string
	CategoryType models.EntryType
	Type         models.EntryType
	Total        decimal.Decimal
	Count        int64
}

type periodRow struct {
	Period   string
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Count    int64
}

// periodExpr returns the SQL expression bucketing t.date into a "YYYY-MM" or
// "YYYY" label. Dates are stored in UTC on both backends.
func periodExpr(db *gorm.DB, groupBy Period) string {
	if db.Dialector.Name() == "postgres" {
		if groupBy == PeriodYear {
			return "to_char(t.date AT TIME ZONE 'UTC', 'YYYY')"
		}
		return "to_char(t.date AT TIME ZONE 'UTC', 'YYYY-MM')"
	}
	if groupBy == PeriodYear {
		return "substr(t.date, 1, 4)"
	}
	return "substr(t.date, 1, 7)"
}

// window scopes the aliased transactions table to the user and date range.
func (s *summaryService) window(userID string, query SummaryQuery) *gorm.DB {
	q := s.db.Table("transactions AS t").Where("t.user_id = ?", userID)
	if query.StartDate != nil {
		q = q.Where("t.date >= ?", query.StartDate.UTC())
	}
	if query.EndDate != nil {
		q = q.Where("t.date <= ?", query.EndDate.UTC())
	}
	return q
}

// GetSummary returns totals, a per-category breakdown and a period series for
// the user's transactions in the optional date range. The three aggregates run
// concurrently.
func (s *summaryService) GetSummary(userID string, query SummaryQuery) (*Summary, error) {
	if query.GroupBy == "" {
		query.GroupBy = PeriodMonth
	}
	if !query.GroupBy.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "groupBy must be one of: month year")
	}

	var (
		totals     totalsRow
		categories []categoryRow
		periods    []periodRow
	)

	var g errgroup.Group
	g.Go(func() error {
		return s.window(userID, query).
			Select(incomeSum + " AS total_income, " + expenseSum + " AS total_expenses, COUNT(*) AS transaction_count").
			Scan(&totals).Error
	})
	g.Go(func() error {
		return s.window(userID, query).
			Select("t.category_id, c.name AS category_name, c.type AS category_type, t.type, SUM(t.amount) AS total, COUNT(*) AS count").
			Joins("JOIN categories AS c ON c.id = t.category_id").
			Group("t.category_id, c.name, c.type, t.type").
			Order("t.type ASC, total DESC").
			Scan(&categories).Error
	})
	g.Go(func() error {
		expr := periodExpr(s.db, query.GroupBy)
		return s.window(userID, query).
			Select(expr + " AS period, " + incomeSum + " AS income, " + expenseSum + " AS expenses, COUNT(*) AS count").
			Group(expr).
			Order(expr).
			Scan(&periods).Error
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	income := totals.TotalIncome.Round(2)
	expenses := totals.TotalExpenses.Round(2)

	summary := &Summary{
		Summary: Totals{
			TotalIncome:      income,
			TotalExpenses:    expenses,
			Balance:          income.Sub(expenses),
			TransactionCount: totals.TransactionCount,
		},
		CategorySummary: make([]CategoryTotal, 0, len(categories)),
		GroupBy:         query.GroupBy,
		Series:          make([]PeriodTotal, 0, len(periods)),
	}

	for _, row := range categories {
		summary.CategorySummary = append(summary.CategorySummary, CategoryTotal{
			Category: models.CategoryRef{ID: row.CategoryID, Name: row.CategoryName, Type: row.CategoryType},
			Type:     row.Type,
			Total:    row.Total.Round(2),
			Count:    row.Count,
		})
	}

	for _, row := range periods {
		in, out := row.Income.Round(2), row.Expenses.Round(2)
		summary.Series = append(summary.Series, PeriodTotal{
			Period:   row.Period,
			Income:   in,
			Expenses: out,
			Balance:  in.Sub(out),
			Count:    row.Count,
		})
	}

	return summary, nil
}
