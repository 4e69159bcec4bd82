package bot

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Veraticus/money-mage/internal/model"
)

// parseAmount parses a user-supplied decimal, accepting either comma or dot
// as the separator. It returns an error for non-numeric or non-positive
// values.
func parseAmount(raw string) (float64, error) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))

	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	if amount <= 0 || math.IsInf(amount, 0) || math.IsNaN(amount) {
		return 0, fmt.Errorf("not a positive amount: %q", raw)
	}

	return amount, nil
}

// progressBar renders a 10-segment usage bar for budget percentages.
func progressBar(percent float64) string {
	const segments = 10

	filled := int(math.Round(percent / 100 * segments))
	if filled < 0 {
		filled = 0
	}
	if filled > segments {
		filled = segments
	}

	return strings.Repeat("█", filled) + strings.Repeat("░", segments-filled)
}

// categoryEmoji returns the display emoji for a category.
func categoryEmoji(category model.Category) string {
	switch category {
	case model.CategoryFood:
		return "🍔"
	case model.CategoryTransport:
		return "🚗"
	case model.CategoryHousing:
		return "🏠"
	case model.CategoryHealth:
		return "⚕️"
	case model.CategoryEducation:
		return "📚"
	case model.CategoryLeisure:
		return "🎮"
	case model.CategoryClothing:
		return "👕"
	case model.CategoryInvestment:
		return "📈"
	case model.CategoryEmergency:
		return "🆘"
	default:
		return "📦"
	}
}

var monthNames = []string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// formatMonth renders an accounting month (YYYY-MM) as "Janeiro 2026".
// Malformed months are returned as-is.
func formatMonth(month string) string {
	parts := strings.SplitN(month, "-", 2)
	if len(parts) != 2 {
		return month
	}

	num, err := strconv.Atoi(parts[1])
	if err != nil || num < 1 || num > 12 {
		return month
	}

	return fmt.Sprintf("%s %s", monthNames[num-1], parts[0])
}
