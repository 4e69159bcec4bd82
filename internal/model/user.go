// Package model defines the core domain types for the finance assistant.
package model

import (
	"math"
	"time"
)

// UserProfile represents a single user of the assistant, keyed by the
// conversation identifier assigned by the messaging channel.
type UserProfile struct {
	CreatedAt          time.Time
	FinancialProfile   *FinancialProfile
	Key                string
	Name               string
	MonthlyBudget      float64
	OnboardingComplete bool
}

// FinancialProfile is the recommended four-way percentage split of the
// monthly budget produced during onboarding.
type FinancialProfile struct {
	FixedPct      float64
	VariablePct   float64
	InvestmentPct float64
	EmergencyPct  float64
}

// profileSumTolerance allows for rounding slack when validating that the
// four percentages cover the whole budget.
const profileSumTolerance = 0.01

// Sum returns the total of the four percentages.
func (p FinancialProfile) Sum() float64 {
	return p.FixedPct + p.VariablePct + p.InvestmentPct + p.EmergencyPct
}

// Valid reports whether the percentages sum to 100 within rounding tolerance.
func (p FinancialProfile) Valid() bool {
	return math.Abs(p.Sum()-100) <= profileSumTolerance
}
