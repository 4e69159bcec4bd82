package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFinancialProfileValid(t *testing.T) {
	tests := []struct {
		name    string
		profile FinancialProfile
		want    bool
	}{
		{
			name:    "default split",
			profile: FinancialProfile{FixedPct: 50, VariablePct: 30, InvestmentPct: 15, EmergencyPct: 5},
			want:    true,
		},
		{
			name:    "within rounding tolerance",
			profile: FinancialProfile{FixedPct: 33.33, VariablePct: 33.33, InvestmentPct: 23.34, EmergencyPct: 9.995},
			want:    true,
		},
		{
			name:    "sums short",
			profile: FinancialProfile{FixedPct: 50, VariablePct: 30, InvestmentPct: 15},
			want:    false,
		},
		{
			name:    "sums over",
			profile: FinancialProfile{FixedPct: 60, VariablePct: 30, InvestmentPct: 15, EmergencyPct: 5},
			want:    false,
		},
		{
			name:    "zero profile",
			profile: FinancialProfile{},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.profile.Valid())
		})
	}
}
