package oracle

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/money-mage/internal/model"
)

const expenseSystemPrompt = "Você é um assistente financeiro. Responda APENAS com um JSON válido, sem markdown e sem explicações."

func buildExpensePrompt(message string) string {
	names := make([]string, 0, len(model.AllCategories()))
	for _, c := range model.AllCategories() {
		names = append(names, string(c))
	}

	return fmt.Sprintf(`Você é um assistente financeiro. Analise a seguinte mensagem de gasto e extraia as informações:

Mensagem: %q

Categorias disponíveis: %s

Responda APENAS com um JSON no seguinte formato (sem markdown, sem explicações):
{
  "amount": valor numérico ou null,
  "description": "descrição do gasto",
  "category": "categoria do gasto",
  "type": "fixed ou variable"
}

Regras:
- Se não houver valor numérico claro, retorne amount: null
- Type "fixed" para gastos recorrentes (aluguel, assinaturas, etc)
- Type "variable" para gastos pontuais
- Seja preciso na categorização`, message, strings.Join(names, ", "))
}

func buildOnboardingPrompt(name string, monthlyBudget float64) string {
	return fmt.Sprintf(`Você é um consultor financeiro. Um novo usuário acabou de se cadastrar:

Nome: %s
Orçamento mensal: R$ %.2f

Forneça:
1. Uma mensagem de boas-vindas calorosa e motivadora (máximo 3 parágrafos)
2. Orientação sobre como distribuir o orçamento baseado em boas práticas financeiras
3. Dicas práticas de gestão financeira

Após a mensagem, forneça um JSON com a distribuição recomendada:

Formato da resposta:
---MENSAGEM---
[sua mensagem aqui]
---PERFIL---
{
  "fixedExpensesPercentage": número,
  "variableExpensesPercentage": número,
  "investmentPercentage": número,
  "emergencyFundPercentage": número
}

As porcentagens devem somar 100%%. Use a regra 50/30/20 como base, adaptando para incluir emergência.`, name, monthlyBudget)
}

func buildAdvicePrompt(user model.UserProfile, expenses []model.Expense, totalExpenses float64) string {
	profileSection := "Não configurado"
	if p := user.FinancialProfile; p != nil {
		profileSection = fmt.Sprintf(`
- Gastos fixos: %.0f%%
- Gastos variáveis: %.0f%%
- Investimentos: %.0f%%
- Reserva de emergência: %.0f%%`, p.FixedPct, p.VariablePct, p.InvestmentPct, p.EmergencyPct)
	}

	return fmt.Sprintf(`Você é um consultor financeiro especializado. Analise a situação financeira:

PERFIL DO USUÁRIO:
- Nome: %s
- Orçamento mensal: R$ %.2f
- Total gasto até agora: R$ %.2f
- Saldo restante: R$ %.2f

GASTOS POR CATEGORIA:
%s

PERFIL FINANCEIRO RECOMENDADO:
%s

Forneça uma análise breve (máximo 5 parágrafos) com:
1. Avaliação geral dos gastos
2. Áreas onde pode economizar
3. Sugestões práticas e específicas
4. Dica de investimento consciente (se houver margem)
5. Alerta se estiver gastando demais

Seja empático, prático e motivador. Use linguagem simples e brasileira.`,
		user.Name, user.MonthlyBudget, totalExpenses, user.MonthlyBudget-totalExpenses,
		formatExpensesByCategory(expenses), profileSection)
}

func formatExpensesByCategory(expenses []model.Expense) string {
	byCategory := make(map[model.Category]float64)
	for _, e := range expenses {
		byCategory[e.Category] += e.Amount
	}

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, string(c))
	}
	sort.Strings(categories)

	lines := make([]string, 0, len(categories))
	for _, c := range categories {
		lines = append(lines, fmt.Sprintf("- %s: R$ %.2f", c, byCategory[model.Category(c)]))
	}

	return strings.Join(lines, "\n")
}
