// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/money-mage/internal/model"
)

// UserUpdate describes a partial update to a user profile. Nil fields are
// left untouched.
type UserUpdate struct {
	Name               *string
	MonthlyBudget      *float64
	OnboardingComplete *bool
	FinancialProfile   *model.FinancialProfile
}

// Ledger defines the contract for the in-memory financial ledger.
type Ledger interface {
	// User operations. CreateUser is an idempotent upsert: calling it for
	// an existing key overwrites the profile (the onboarding flow creates
	// a placeholder profile on first contact).
	CreateUser(ctx context.Context, key, name string, monthlyBudget float64) (*model.UserProfile, error)
	GetUser(ctx context.Context, key string) (*model.UserProfile, error)
	UpdateUser(ctx context.Context, key string, update UserUpdate) (*model.UserProfile, error)

	// Expense operations. The month parameter is always the explicit
	// YYYY-MM accounting month; an empty month in ListExpenses means all
	// months.
	AddExpense(ctx context.Context, expense model.Expense) error
	ListExpenses(ctx context.Context, userKey, month string) ([]model.Expense, error)
	TotalForMonth(ctx context.Context, userKey, month string) (float64, error)
	ExpensesByCategory(ctx context.Context, userKey, month string) (map[model.Category]float64, error)

	// Report history. Append-only; GetReport returns the first stored
	// report for the month.
	SaveReport(ctx context.Context, report model.MonthlyReport) error
	GetReport(ctx context.Context, userKey, month string) (*model.MonthlyReport, error)
}

// OnboardingAdvice is the oracle's response to a completed onboarding.
type OnboardingAdvice struct {
	Message string
	Profile model.FinancialProfile
}

// ExpenseAnalysis is the oracle's interpretation of a free-text expense
// message. Amount is nil when no value could be discerned, which is
// distinct from zero.
type ExpenseAnalysis struct {
	Amount      *float64
	Description string
	Category    model.Category
	Type        model.ExpenseType
}

// Oracle is the external natural-language interpretation and advice
// service. All methods are fallible and may take meaningful latency.
type Oracle interface {
	OnboardingAdvice(ctx context.Context, name string, monthlyBudget float64) (OnboardingAdvice, error)
	AnalyzeExpense(ctx context.Context, message string, user model.UserProfile) (ExpenseAnalysis, error)
	FinancialAdvice(ctx context.Context, user model.UserProfile, expenses []model.Expense, totalExpenses float64) (string, error)
}

// RetryOptions configures retry behavior for fallible operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
