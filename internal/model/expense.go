package model

import (
	"time"

	"github.com/google/uuid"
)

// Category is a fixed expense category. Display names match what users see
// in replies, so they double as the wire values exchanged with the oracle.
type Category string

// The full category set. Unknown oracle output maps to CategoryOther.
const (
	CategoryFood       Category = "Alimentação"
	CategoryTransport  Category = "Transporte"
	CategoryHousing    Category = "Moradia"
	CategoryHealth     Category = "Saúde"
	CategoryEducation  Category = "Educação"
	CategoryLeisure    Category = "Lazer"
	CategoryClothing   Category = "Vestuário"
	CategoryOther      Category = "Outros"
	CategoryInvestment Category = "Investimento"
	CategoryEmergency  Category = "Emergência"
)

// AllCategories lists every valid category in display order.
func AllCategories() []Category {
	return []Category{
		CategoryFood,
		CategoryTransport,
		CategoryHousing,
		CategoryHealth,
		CategoryEducation,
		CategoryLeisure,
		CategoryClothing,
		CategoryOther,
		CategoryInvestment,
		CategoryEmergency,
	}
}

// ParseCategory maps a raw category string onto the fixed set. Anything
// unrecognized falls back to CategoryOther rather than failing, since the
// oracle occasionally improvises.
func ParseCategory(raw string) Category {
	for _, c := range AllCategories() {
		if string(c) == raw {
			return c
		}
	}
	return CategoryOther
}

// ExpenseType distinguishes recurring from one-off spending.
type ExpenseType string

const (
	// ExpenseTypeFixed marks recurring expenses like rent or subscriptions.
	ExpenseTypeFixed ExpenseType = "fixed"
	// ExpenseTypeVariable marks one-off expenses.
	ExpenseTypeVariable ExpenseType = "variable"
)

// ParseExpenseType maps a raw type string onto the two valid values,
// defaulting to variable.
func ParseExpenseType(raw string) ExpenseType {
	if raw == string(ExpenseTypeFixed) {
		return ExpenseTypeFixed
	}
	return ExpenseTypeVariable
}

// Expense represents a single classified expense. Expenses are immutable
// once created and are only ever appended to a user's ledger.
type Expense struct {
	OccurredAt  time.Time
	ID          string
	UserKey     string
	Description string
	Category    Category
	Type        ExpenseType
	Month       string
	Amount      float64
}

// NewExpense builds an expense with a generated ID and the accounting month
// derived from occurredAt.
func NewExpense(userKey, description string, amount float64, category Category, expenseType ExpenseType, occurredAt time.Time) Expense {
	return Expense{
		ID:          uuid.NewString(),
		UserKey:     userKey,
		Description: description,
		Amount:      amount,
		Category:    category,
		Type:        expenseType,
		OccurredAt:  occurredAt,
		Month:       MonthKey(occurredAt),
	}
}

// MonthKey derives the accounting month (YYYY-MM) for a timestamp. It is
// the partition key for all monthly queries.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
