package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Veraticus/money-mage/internal/common"
	"github.com/Veraticus/money-mage/internal/model"
	"github.com/Veraticus/money-mage/internal/service"
)

const profileMarker = "---PERFIL---"

// cleanMarkdownWrapper strips markdown code fences that models sometimes
// wrap around JSON despite instructions.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		if idx := strings.Index(content, "\n"); idx != -1 {
			content = content[idx+1:]
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}

	return strings.TrimSpace(content)
}

// parseExpenseAnalysis extracts the structured expense fields from a model
// response. A null amount is preserved as nil: it signals that no value
// could be discerned, which the caller must treat differently from zero.
func parseExpenseAnalysis(content string) (service.ExpenseAnalysis, error) {
	var jsonResp struct {
		Amount      *float64 `json:"amount"`
		Description string   `json:"description"`
		Category    string   `json:"category"`
		Type        string   `json:"type"`
	}

	content = cleanMarkdownWrapper(content)

	if err := json.Unmarshal([]byte(content), &jsonResp); err != nil {
		return service.ExpenseAnalysis{}, fmt.Errorf("%w: %v", common.ErrUnparseableContent, err)
	}

	return service.ExpenseAnalysis{
		Amount:      jsonResp.Amount,
		Description: jsonResp.Description,
		Category:    model.ParseCategory(jsonResp.Category),
		Type:        model.ParseExpenseType(jsonResp.Type),
	}, nil
}

// parseOnboardingAdvice splits the MENSAGEM/PERFIL response format and
// validates the recommended percentage split.
func parseOnboardingAdvice(content string) (service.OnboardingAdvice, error) {
	parts := strings.SplitN(content, profileMarker, 2)
	if len(parts) != 2 {
		return service.OnboardingAdvice{}, fmt.Errorf("%w: missing %s marker", common.ErrUnparseableContent, profileMarker)
	}

	message := strings.TrimSpace(strings.ReplaceAll(parts[0], "---MENSAGEM---", ""))
	if message == "" {
		return service.OnboardingAdvice{}, fmt.Errorf("%w: empty welcome message", common.ErrUnparseableContent)
	}

	var jsonProfile struct {
		Fixed      float64 `json:"fixedExpensesPercentage"`
		Variable   float64 `json:"variableExpensesPercentage"`
		Investment float64 `json:"investmentPercentage"`
		Emergency  float64 `json:"emergencyFundPercentage"`
	}

	profileJSON := cleanMarkdownWrapper(parts[1])
	if err := json.Unmarshal([]byte(profileJSON), &jsonProfile); err != nil {
		return service.OnboardingAdvice{}, fmt.Errorf("%w: %v", common.ErrUnparseableContent, err)
	}

	profile := model.FinancialProfile{
		FixedPct:      jsonProfile.Fixed,
		VariablePct:   jsonProfile.Variable,
		InvestmentPct: jsonProfile.Investment,
		EmergencyPct:  jsonProfile.Emergency,
	}

	if !profile.Valid() {
		return service.OnboardingAdvice{}, fmt.Errorf("%w: percentages sum to %.2f, expected 100", common.ErrUnparseableContent, profile.Sum())
	}

	return service.OnboardingAdvice{
		Message: message,
		Profile: profile,
	}, nil
}
