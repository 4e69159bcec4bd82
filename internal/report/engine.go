// Package report derives monthly aggregates, category breakdowns, and
// budget alerts from the ledger. The engine is a pure function of stored
// data; generated reports are archived but never fed back into computation.
package report

import (
	"context"
	"fmt"

	"github.com/Veraticus/money-mage/internal/model"
	"github.com/Veraticus/money-mage/internal/service"
)

// Engine generates monthly reports from ledger data.
type Engine struct {
	ledger service.Ledger
}

// NewEngine creates a report engine backed by the given ledger.
func NewEngine(ledger service.Ledger) *Engine {
	return &Engine{ledger: ledger}
}

// Generate computes the monthly report for a user and appends a copy to the
// user's report history. It fails if the user does not exist.
func (e *Engine) Generate(ctx context.Context, userKey, month string) (*model.MonthlyReport, error) {
	user, err := e.ledger.GetUser(ctx, userKey)
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}

	total, err := e.ledger.TotalForMonth(ctx, userKey, month)
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}

	byCategory, err := e.ledger.ExpensesByCategory(ctx, userKey, month)
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}

	balance := user.MonthlyBudget - total
	savingsRate := balance / user.MonthlyBudget * 100

	alerts := AlertsFor(total, user.MonthlyBudget)
	if savings := SavingsAlert(savingsRate); savings != "" {
		alerts = append(alerts, savings)
	}

	rpt := model.MonthlyReport{
		UserKey:            userKey,
		Month:              month,
		TotalExpenses:      total,
		TotalIncome:        user.MonthlyBudget,
		Balance:            balance,
		ExpensesByCategory: byCategory,
		SavingsRate:        savingsRate,
		Alerts:             alerts,
	}

	if err := e.ledger.SaveReport(ctx, rpt); err != nil {
		return nil, fmt.Errorf("archive report: %w", err)
	}

	return &rpt, nil
}
