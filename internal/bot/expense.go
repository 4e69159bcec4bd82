package bot

import (
	"context"
	"fmt"

	"github.com/Veraticus/money-mage/internal/model"
	"github.com/Veraticus/money-mage/internal/report"
)

// recordExpense interprets a free-text message as an expense report: the
// oracle extracts the structured fields, the expense is stored, and the
// confirmation includes the updated month summary with the shared alert
// tiers. When no amount can be discerned, nothing is stored and the user
// is asked to clarify.
func (h *Handler) recordExpense(ctx context.Context, user model.UserProfile, text string) (string, error) {
	if err := h.notifier.Notify(ctx, user.Key, analyzingExpenseNotice); err != nil {
		h.logger.Warn("progress notice failed", "user", user.Key, "error", err)
	}

	analysis, err := h.oracle.AnalyzeExpense(ctx, text, user)
	if err != nil {
		h.logger.Warn("expense analysis failed",
			"user", user.Key,
			"error", err)
		return expenseApologyReply, nil
	}

	if analysis.Amount == nil {
		return clarifyAmountReply, nil
	}

	expense := model.NewExpense(user.Key, analysis.Description, *analysis.Amount,
		analysis.Category, analysis.Type, h.clock())

	if err := h.ledger.AddExpense(ctx, expense); err != nil {
		return expenseApologyReply, fmt.Errorf("store expense for %q: %w", user.Key, err)
	}

	total, err := h.ledger.TotalForMonth(ctx, user.Key, expense.Month)
	if err != nil {
		return expenseApologyReply, fmt.Errorf("month total for %q: %w", user.Key, err)
	}

	h.logger.Info("expense recorded",
		"user", user.Key,
		"amount", expense.Amount,
		"category", expense.Category,
		"month", expense.Month)

	return expenseConfirmation(expense, user.MonthlyBudget, total), nil
}

func expenseConfirmation(expense model.Expense, budget, total float64) string {
	remaining := budget - total
	percentUsed := total / budget * 100

	alert := ""
	if alerts := report.AlertsFor(total, budget); len(alerts) > 0 {
		alert = "\n\n" + alerts[0]
	}

	typeLabel := "Variável"
	if expense.Type == model.ExpenseTypeFixed {
		typeLabel = "Fixo"
	}

	return fmt.Sprintf("✅ *Gasto registrado!*\n\n"+
		"📝 Descrição: %s\n"+
		"💰 Valor: R$ %.2f\n"+
		"📂 Categoria: %s\n"+
		"🔖 Tipo: %s\n\n"+
		"📊 *Resumo do mês:*\n"+
		"Total gasto: R$ %.2f\n"+
		"Saldo restante: R$ %.2f\n"+
		"Usado: %.1f%%%s",
		expense.Description, expense.Amount, expense.Category, typeLabel,
		total, remaining, percentUsed, alert)
}
