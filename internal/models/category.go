package models

import "strings"

// EntryType tags categories and transactions as money coming in or going out.
type EntryType string

const (
	EntryTypeIncome  EntryType = "INCOME"
	EntryTypeExpense EntryType = "EXPENSE"
)

// Valid reports whether t is one of the known entry types.
func (t EntryType) Valid() bool {
	return t == EntryTypeIncome || t == EntryTypeExpense
}

// Lower returns the type in lower case, as used in user-facing messages.
func (t EntryType) Lower() string {
	return strings.ToLower(string(t))
}

// Category is a user-owned label grouping transactions of a single type.
// (user_id, name, type) is unique.
type Category struct {
	Base
	UserID string    `gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_name_type,priority:1" json:"userId"`
	Name   string    `gorm:"size:50;not null;uniqueIndex:idx_categories_user_name_type,priority:2" json:"name"`
	Type   EntryType `gorm:"size:10;not null;uniqueIndex:idx_categories_user_name_type,priority:3" json:"type"`
}

// CategoryRef is the short form of a category embedded in transaction and
// summary payloads.
type CategoryRef struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Type EntryType `json:"type"`
}

// DefaultCategory is one entry of the set seeded for every new user.
type DefaultCategory struct {
	Name string
	Type EntryType
}

// DefaultCategories are created for each user at registration.
var DefaultCategories = []DefaultCategory{
	{"Salary", EntryTypeIncome},
	{"Freelance", EntryTypeIncome},
	{"Business", EntryTypeIncome},
	{"Investment", EntryTypeIncome},
	{"Other Income", EntryTypeIncome},

	{"Food & Dining", EntryTypeExpense},
	{"Transportation", EntryTypeExpense},
	{"Shopping", EntryTypeExpense},
	{"Entertainment", EntryTypeExpense},
	{"Bills & Utilities", EntryTypeExpense},
	{"Healthcare", EntryTypeExpense},
	{"Education", EntryTypeExpense},
	{"Travel", EntryTypeExpense},
	{"Other Expenses", EntryTypeExpense},
}
