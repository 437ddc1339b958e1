package budget

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/family-budget/internal/domain"
)

// MonthSummary is everything the dashboard shows for one month.
type MonthSummary struct {
	Year                 int                  `json:"year"`
	Month                time.Month           `json:"month"`
	Transactions         []domain.Transaction `json:"transactions"`
	Totals               Totals               `json:"totals"`
	ByCategory           []CategoryTotal      `json:"byCategory"`
	SavingsGoal          decimal.Decimal      `json:"savingsGoal"`
	SavingsProgress      decimal.Decimal      `json:"savingsProgressPercent"`
	RecommendedEmergency decimal.Decimal      `json:"recommendedEmergencyFund"`
}

// YearSummary is the yearly report: the monthly series, its sum and the
// yearly cost of outstanding debt.
type YearSummary struct {
	Year               int             `json:"year"`
	Months             []MonthTotals   `json:"months"`
	Totals             Totals          `json:"totals"`
	AnnualInterestCost decimal.Decimal `json:"annualInterestCost"`
}

// Summarize resolves the month and derives its figures.
func Summarize(records []domain.Transaction, year int, month time.Month, settings domain.FamilySettings, goals Goals) MonthSummary {
	start, _ := MonthBounds(year, month)
	active := ResolveActive(records, year, month)
	totals := ComputeTotals(active)

	return MonthSummary{
		Year:                 start.Year,
		Month:                start.Month,
		Transactions:         active,
		Totals:               totals,
		ByCategory:           ByCategory(active),
		SavingsGoal:          settings.MonthlySavingsGoal,
		SavingsProgress:      SavingsProgressPercent(totals.Balance, settings.MonthlySavingsGoal),
		RecommendedEmergency: goals.RecommendedEmergencyFund(totals.Expense),
	}
}

// SummarizeYear builds the yearly report.
func SummarizeYear(records []domain.Transaction, year int, settings domain.FamilySettings) YearSummary {
	series := YearlySeries(records, year)
	return YearSummary{
		Year:               year,
		Months:             series,
		Totals:             SumSeries(series),
		AnnualInterestCost: AnnualInterestCost(settings.DebtAmount, settings.InterestRate),
	}
}

// Filter keeps transactions whose description or category contains query
// (case-insensitive), optionally only recurring ones. Order is preserved.
func Filter(records []domain.Transaction, query string, recurringOnly bool) []domain.Transaction {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.Transaction, 0, len(records))
	for _, t := range records {
		if recurringOnly && !t.IsRecurring {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(t.Description), q) &&
			!strings.Contains(strings.ToLower(t.Category), q) {
			continue
		}
		out = append(out, t)
	}
	return out
}
