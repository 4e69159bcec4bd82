package model

// MonthlyReport is a derived view over a user's expenses for one accounting
// month. Reports are regenerated on demand and never treated as
// authoritative; a copy is appended to a per-user history for audit.
type MonthlyReport struct {
	ExpensesByCategory map[Category]float64
	UserKey            string
	Month              string
	Alerts             []string
	TotalExpenses      float64
	TotalIncome        float64
	Balance            float64
	SavingsRate        float64
}
