// Package ledger implements the in-memory financial ledger backing the
// assistant. All state is process-lifetime only; there is no persistence.
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Veraticus/money-mage/internal/common"
	"github.com/Veraticus/money-mage/internal/model"
	"github.com/Veraticus/money-mage/internal/service"
)

// MemoryStore is a thread-safe in-memory implementation of service.Ledger.
// Each instance owns its own data, so tests get isolation by constructing
// fresh stores.
type MemoryStore struct {
	users    map[string]model.UserProfile
	expenses map[string][]model.Expense
	reports  map[string][]model.MonthlyReport
	now      func() time.Time
	mu       sync.RWMutex
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithClock overrides the wall clock used for profile creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		users:    make(map[string]model.UserProfile),
		expenses: make(map[string][]model.Expense),
		reports:  make(map[string][]model.MonthlyReport),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateUser upserts a profile for the given key. The onboarding flow
// relies on overwrite semantics when it creates the initial placeholder
// profile, so an existing profile is replaced rather than rejected.
func (s *MemoryStore) CreateUser(_ context.Context, key, name string, monthlyBudget float64) (*model.UserProfile, error) {
	if key == "" {
		return nil, fmt.Errorf("create user: empty key")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user := model.UserProfile{
		Key:                key,
		Name:               name,
		MonthlyBudget:      monthlyBudget,
		OnboardingComplete: false,
		CreatedAt:          s.now(),
	}
	s.users[key] = user

	return &user, nil
}

// GetUser returns the profile for key, or common.ErrNotFound.
func (s *MemoryStore) GetUser(_ context.Context, key string) (*model.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[key]
	if !ok {
		return nil, fmt.Errorf("get user %q: %w", key, common.ErrNotFound)
	}

	return &user, nil
}

// UpdateUser merges the provided fields into an existing profile. Updating
// a missing user returns common.ErrNotFound with no side effects.
func (s *MemoryStore) UpdateUser(_ context.Context, key string, update service.UserUpdate) (*model.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[key]
	if !ok {
		return nil, fmt.Errorf("update user %q: %w", key, common.ErrNotFound)
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.MonthlyBudget != nil {
		user.MonthlyBudget = *update.MonthlyBudget
	}
	if update.OnboardingComplete != nil {
		user.OnboardingComplete = *update.OnboardingComplete
	}
	if update.FinancialProfile != nil {
		profile := *update.FinancialProfile
		user.FinancialProfile = &profile
	}

	s.users[key] = user

	return &user, nil
}

// AddExpense appends an expense to its owner's list. The store fails fast
// on referential problems: the owning user must exist and the amount must
// be positive.
func (s *MemoryStore) AddExpense(_ context.Context, expense model.Expense) error {
	if expense.Amount <= 0 {
		return fmt.Errorf("add expense %q: %w: %.2f", expense.ID, common.ErrInvalidAmount, expense.Amount)
	}
	if expense.Month == "" || expense.Month != model.MonthKey(expense.OccurredAt) {
		return fmt.Errorf("add expense %q: %w: month %q does not match timestamp", expense.ID, common.ErrInvalidExpense, expense.Month)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[expense.UserKey]; !ok {
		return fmt.Errorf("add expense for %q: %w", expense.UserKey, common.ErrUnknownUser)
	}

	s.expenses[expense.UserKey] = append(s.expenses[expense.UserKey], expense)

	return nil
}

// ListExpenses returns a user's expenses in insertion order. An empty month
// returns all expenses; otherwise only the given accounting month.
func (s *MemoryStore) ListExpenses(_ context.Context, userKey, month string) ([]model.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.expenses[userKey]
	if month == "" {
		result := make([]model.Expense, len(all))
		copy(result, all)
		return result, nil
	}

	result := make([]model.Expense, 0, len(all))
	for _, e := range all {
		if e.Month == month {
			result = append(result, e)
		}
	}

	return result, nil
}

// TotalForMonth sums a user's expense amounts for one accounting month.
func (s *MemoryStore) TotalForMonth(_ context.Context, userKey, month string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, e := range s.expenses[userKey] {
		if e.Month == month {
			total += e.Amount
		}
	}

	return total, nil
}

// ExpensesByCategory groups and sums a user's expenses for one month.
func (s *MemoryStore) ExpensesByCategory(_ context.Context, userKey, month string) (map[model.Category]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byCategory := make(map[model.Category]float64)
	for _, e := range s.expenses[userKey] {
		if e.Month == month {
			byCategory[e.Category] += e.Amount
		}
	}

	return byCategory, nil
}

// SaveReport appends a report to the user's history. History is append-only
// and intentionally not deduplicated by month.
func (s *MemoryStore) SaveReport(_ context.Context, report model.MonthlyReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports[report.UserKey] = append(s.reports[report.UserKey], report)

	return nil
}

// GetReport returns the first stored report for the given month, or
// common.ErrNotFound if none exists.
func (s *MemoryStore) GetReport(_ context.Context, userKey, month string) (*model.MonthlyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.reports[userKey] {
		if r.Month == month {
			report := r
			return &report, nil
		}
	}

	return nil, fmt.Errorf("get report %s for %q: %w", month, userKey, common.ErrNotFound)
}
