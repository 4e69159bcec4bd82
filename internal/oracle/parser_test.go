package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/money-mage/internal/common"
	"github.com/Veraticus/money-mage/internal/model"
)

func TestCleanMarkdownWrapper(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "plain json untouched",
			content: `{"amount": 50}`,
			want:    `{"amount": 50}`,
		},
		{
			name:    "json fence",
			content: "```json\n{\"amount\": 50}\n```",
			want:    `{"amount": 50}`,
		},
		{
			name:    "bare fence",
			content: "```\n{\"amount\": 50}\n```",
			want:    `{"amount": 50}`,
		},
		{
			name:    "surrounding whitespace",
			content: "  \n{\"amount\": 50}\n  ",
			want:    `{"amount": 50}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanMarkdownWrapper(tt.content))
		})
	}
}

func TestParseExpenseAnalysis(t *testing.T) {
	t.Run("complete response", func(t *testing.T) {
		analysis, err := parseExpenseAnalysis(`{"amount": 50, "description": "mercado", "category": "Alimentação", "type": "variable"}`)
		require.NoError(t, err)

		require.NotNil(t, analysis.Amount)
		assert.InDelta(t, 50.0, *analysis.Amount, 0.001)
		assert.Equal(t, "mercado", analysis.Description)
		assert.Equal(t, model.CategoryFood, analysis.Category)
		assert.Equal(t, model.ExpenseTypeVariable, analysis.Type)
	})

	t.Run("null amount preserved", func(t *testing.T) {
		analysis, err := parseExpenseAnalysis(`{"amount": null, "description": "algo", "category": "Outros", "type": "variable"}`)
		require.NoError(t, err)
		assert.Nil(t, analysis.Amount)
	})

	t.Run("fenced response", func(t *testing.T) {
		analysis, err := parseExpenseAnalysis("```json\n{\"amount\": 200, \"description\": \"conta de luz\", \"category\": \"Moradia\", \"type\": \"fixed\"}\n```")
		require.NoError(t, err)

		require.NotNil(t, analysis.Amount)
		assert.Equal(t, model.CategoryHousing, analysis.Category)
		assert.Equal(t, model.ExpenseTypeFixed, analysis.Type)
	})

	t.Run("improvised category falls back", func(t *testing.T) {
		analysis, err := parseExpenseAnalysis(`{"amount": 30, "description": "ração", "category": "Pets", "type": "variable"}`)
		require.NoError(t, err)
		assert.Equal(t, model.CategoryOther, analysis.Category)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := parseExpenseAnalysis("desculpe, não entendi a mensagem")
		assert.ErrorIs(t, err, common.ErrUnparseableContent)
	})
}

func TestParseOnboardingAdvice(t *testing.T) {
	valid := `---MENSAGEM---
Olá, Maria! Que bom ter você aqui.
---PERFIL---
{
  "fixedExpensesPercentage": 50,
  "variableExpensesPercentage": 30,
  "investmentPercentage": 15,
  "emergencyFundPercentage": 5
}`

	t.Run("valid response", func(t *testing.T) {
		advice, err := parseOnboardingAdvice(valid)
		require.NoError(t, err)

		assert.Equal(t, "Olá, Maria! Que bom ter você aqui.", advice.Message)
		assert.InDelta(t, 100.0, advice.Profile.Sum(), 0.001)
		assert.InDelta(t, 50.0, advice.Profile.FixedPct, 0.001)
	})

	t.Run("fenced profile json", func(t *testing.T) {
		fenced := "---MENSAGEM---\nBem-vindo!\n---PERFIL---\n```json\n{\"fixedExpensesPercentage\": 40, \"variableExpensesPercentage\": 35, \"investmentPercentage\": 20, \"emergencyFundPercentage\": 5}\n```"

		advice, err := parseOnboardingAdvice(fenced)
		require.NoError(t, err)
		assert.InDelta(t, 40.0, advice.Profile.FixedPct, 0.001)
	})

	t.Run("missing marker", func(t *testing.T) {
		_, err := parseOnboardingAdvice("Olá! Aqui vai minha recomendação: gaste menos.")
		assert.ErrorIs(t, err, common.ErrUnparseableContent)
	})

	t.Run("percentages do not sum to 100", func(t *testing.T) {
		bad := `---MENSAGEM---
Oi!
---PERFIL---
{"fixedExpensesPercentage": 50, "variableExpensesPercentage": 30, "investmentPercentage": 15, "emergencyFundPercentage": 15}`

		_, err := parseOnboardingAdvice(bad)
		assert.ErrorIs(t, err, common.ErrUnparseableContent)
	})

	t.Run("empty message", func(t *testing.T) {
		bad := `---MENSAGEM---
---PERFIL---
{"fixedExpensesPercentage": 50, "variableExpensesPercentage": 30, "investmentPercentage": 15, "emergencyFundPercentage": 5}`

		_, err := parseOnboardingAdvice(bad)
		assert.ErrorIs(t, err, common.ErrUnparseableContent)
	})
}
