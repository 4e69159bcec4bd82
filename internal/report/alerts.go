package report

import "fmt"

// Budget usage thresholds for the tiered alerts. The same tiers fire in the
// monthly report and in the expense confirmation, so this is the single
// place they are computed.
const (
	warnThreshold     = 0.75
	criticalThreshold = 0.9
	minSavingsRate    = 10.0
)

// AlertsFor returns the budget-usage alerts for a spending total against a
// monthly budget. At most one tier fires, in priority order: exceeded, over
// 90%, over 75%.
func AlertsFor(total, budget float64) []string {
	switch {
	case total > budget:
		return []string{fmt.Sprintf("⚠️ Você ultrapassou seu orçamento em R$ %.2f", total-budget)}
	case total > budget*criticalThreshold:
		return []string{"⚠️ Você já gastou mais de 90% do seu orçamento mensal!"}
	case total > budget*warnThreshold:
		return []string{"⚠️ Atenção: Você já gastou 75% do seu orçamento mensal."}
	default:
		return nil
	}
}

// SavingsAlert returns a low-savings warning when the savings rate drops
// below the recommended minimum, or an empty string otherwise.
func SavingsAlert(savingsRate float64) string {
	if savingsRate < minSavingsRate {
		return "💡 Sua taxa de economia está baixa. Tente poupar pelo menos 10% da sua renda."
	}
	return ""
}
