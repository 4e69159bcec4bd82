package oracle

import (
	"fmt"

	"github.com/Veraticus/money-mage/internal/model"
	"github.com/Veraticus/money-mage/internal/service"
)

// DefaultOnboardingAdvice is the deterministic fallback used when the
// oracle cannot produce onboarding guidance. Onboarding must always be able
// to complete, so the recommendation degrades to a templated welcome and a
// fixed 50/30/15/5 split.
func DefaultOnboardingAdvice(name string, monthlyBudget float64) service.OnboardingAdvice {
	return service.OnboardingAdvice{
		Message: fmt.Sprintf("Olá, %s! Bem-vindo ao seu assistente financeiro pessoal! 🎉\n\nVou te ajudar a gerenciar seus R$ %.2f mensais de forma inteligente.\n\nVamos começar essa jornada juntos!", name, monthlyBudget),
		Profile: model.FinancialProfile{
			FixedPct:      50,
			VariablePct:   30,
			InvestmentPct: 15,
			EmergencyPct:  5,
		},
	}
}
