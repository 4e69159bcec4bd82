package bot

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/money-mage/internal/model"
	"github.com/Veraticus/money-mage/internal/service"
)

// handleCommand dispatches a recognized slash command. The literal token is
// matched case-insensitively; anything unrecognized gets its own reply with
// no state mutation.
func (h *Handler) handleCommand(ctx context.Context, user model.UserProfile, text string) (string, error) {
	fields := strings.Fields(text)
	command := strings.ToLower(fields[0])

	switch command {
	case "/ajuda":
		return helpReply, nil
	case "/saldo":
		return h.showBalance(ctx, user)
	case "/relatorio":
		return h.showReport(ctx, user)
	case "/analise":
		return h.showAnalysis(ctx, user)
	case "/categorias":
		return h.showCategories(ctx, user)
	case "/orcamento":
		return h.updateBudget(ctx, user, fields[1:])
	case "/perfil":
		return h.showProfile(user), nil
	default:
		return unknownCommandReply, nil
	}
}

// showBalance reports the month's spending against the budget with a usage
// bar.
func (h *Handler) showBalance(ctx context.Context, user model.UserProfile) (string, error) {
	total, err := h.ledger.TotalForMonth(ctx, user.Key, h.currentMonth())
	if err != nil {
		return genericApologyReply, fmt.Errorf("balance for %q: %w", user.Key, err)
	}

	remaining := user.MonthlyBudget - total
	percentUsed := total / user.MonthlyBudget * 100

	return fmt.Sprintf("💰 *Seu Saldo Atual*\n\n"+
		"Orçamento mensal: R$ %.2f\n"+
		"Total gasto: R$ %.2f\n"+
		"Saldo restante: R$ %.2f\n\n"+
		"📊 Uso do orçamento:\n%s %.1f%%",
		user.MonthlyBudget, total, remaining, progressBar(percentUsed), percentUsed), nil
}

// showReport renders the full monthly report.
func (h *Handler) showReport(ctx context.Context, user model.UserProfile) (string, error) {
	month := h.currentMonth()

	rpt, err := h.reports.Generate(ctx, user.Key, month)
	if err != nil {
		return genericApologyReply, fmt.Errorf("report for %q: %w", user.Key, err)
	}

	var categories strings.Builder
	categories.WriteString("*Gastos por categoria:*\n")
	for _, entry := range sortedByAmount(rpt.ExpensesByCategory) {
		fmt.Fprintf(&categories, "• %s: R$ %.2f\n", entry.category, entry.amount)
	}

	alerts := ""
	if len(rpt.Alerts) > 0 {
		alerts = "\n\n*Alertas:*\n" + strings.Join(rpt.Alerts, "\n")
	}

	return fmt.Sprintf("📋 *Relatório Mensal*\n"+
		"Mês: %s\n\n"+
		"💵 Renda: R$ %.2f\n"+
		"💸 Gastos: R$ %.2f\n"+
		"💰 Saldo: R$ %.2f\n"+
		"📈 Taxa de poupança: %.1f%%\n\n"+
		"%s%s",
		formatMonth(month), rpt.TotalIncome, rpt.TotalExpenses, rpt.Balance,
		rpt.SavingsRate, categories.String(), alerts), nil
}

// showAnalysis delegates a free-text summary of the month to the oracle.
func (h *Handler) showAnalysis(ctx context.Context, user model.UserProfile) (string, error) {
	if err := h.notifier.Notify(ctx, user.Key, generatingAnalysisNotice); err != nil {
		h.logger.Warn("progress notice failed", "user", user.Key, "error", err)
	}

	month := h.currentMonth()

	expenses, err := h.ledger.ListExpenses(ctx, user.Key, month)
	if err != nil {
		return genericApologyReply, fmt.Errorf("analysis expenses for %q: %w", user.Key, err)
	}

	total, err := h.ledger.TotalForMonth(ctx, user.Key, month)
	if err != nil {
		return genericApologyReply, fmt.Errorf("analysis total for %q: %w", user.Key, err)
	}

	advice, err := h.oracle.FinancialAdvice(ctx, user, expenses, total)
	if err != nil {
		h.logger.Warn("financial advice failed", "user", user.Key, "error", err)
		return analysisFailedReply, nil
	}

	return "🧠 *Análise Financeira IA*\n\n" + advice, nil
}

// showCategories lists the month's spending grouped by category, largest
// first.
func (h *Handler) showCategories(ctx context.Context, user model.UserProfile) (string, error) {
	byCategory, err := h.ledger.ExpensesByCategory(ctx, user.Key, h.currentMonth())
	if err != nil {
		return genericApologyReply, fmt.Errorf("categories for %q: %w", user.Key, err)
	}

	if len(byCategory) == 0 {
		return noExpensesReply, nil
	}

	var b strings.Builder
	b.WriteString("📊 *Gastos por Categoria*\n\n")
	for _, entry := range sortedByAmount(byCategory) {
		fmt.Fprintf(&b, "%s %s: R$ %.2f\n", categoryEmoji(entry.category), entry.category, entry.amount)
	}

	return b.String(), nil
}

// updateBudget changes the monthly budget. It requires a second token
// parseable as a positive decimal; anything else replies with usage
// guidance and mutates nothing.
func (h *Handler) updateBudget(ctx context.Context, user model.UserProfile, args []string) (string, error) {
	if len(args) < 1 {
		return budgetUsageReply, nil
	}

	budget, err := parseAmount(args[0])
	if err != nil {
		return invalidNewBudgetReply, nil
	}

	if _, err := h.ledger.UpdateUser(ctx, user.Key, service.UserUpdate{MonthlyBudget: &budget}); err != nil {
		return genericApologyReply, fmt.Errorf("update budget for %q: %w", user.Key, err)
	}

	h.logger.Info("budget updated",
		"user", user.Key,
		"budget", budget)

	return fmt.Sprintf("✅ Orçamento atualizado!\n\n"+
		"Novo orçamento mensal: R$ %.2f", budget), nil
}

// showProfile renders the stored profile and, when present, the
// recommended split.
func (h *Handler) showProfile(user model.UserProfile) string {
	profileText := ""
	if p := user.FinancialProfile; p != nil {
		profileText = fmt.Sprintf("\n\n📊 *Distribuição Recomendada:*\n"+
			"• Gastos Fixos: %.0f%%\n"+
			"• Gastos Variáveis: %.0f%%\n"+
			"• Investimentos: %.0f%%\n"+
			"• Reserva Emergência: %.0f%%",
			p.FixedPct, p.VariablePct, p.InvestmentPct, p.EmergencyPct)
	}

	return fmt.Sprintf("👤 *Seu Perfil*\n\n"+
		"Nome: %s\n"+
		"Orçamento mensal: R$ %.2f\n"+
		"Cadastrado em: %s%s",
		user.Name, user.MonthlyBudget, user.CreatedAt.Format("02/01/2006"), profileText)
}

type categoryAmount struct {
	category model.Category
	amount   float64
}

// sortedByAmount orders category totals by descending amount, breaking
// ties by name for stable output.
func sortedByAmount(byCategory map[model.Category]float64) []categoryAmount {
	entries := make([]categoryAmount, 0, len(byCategory))
	for c, amount := range byCategory {
		entries = append(entries, categoryAmount{category: c, amount: amount})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].amount != entries[j].amount {
			return entries[i].amount > entries[j].amount
		}
		return entries[i].category < entries[j].category
	})

	return entries
}
