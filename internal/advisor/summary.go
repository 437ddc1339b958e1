package advisor

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/family-budget/internal/budget"
	"github.com/dvloznov/family-budget/internal/domain"
)

var monthNames = [...]string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

func euro(d decimal.Decimal) string {
	return d.StringFixed(2) + "€"
}

// ContextSummary describes the family profile for the system instruction.
func ContextSummary(s domain.FamilySettings) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, %d Erw., %d Kinder. Ziel: %s.", s.FamilyName, s.Adults, s.Children, euro(s.MonthlySavingsGoal))
	if s.FinancialFocus != "" {
		fmt.Fprintf(&b, " Fokus: %s.", s.FinancialFocus)
	}
	if s.HousingSituation != "" {
		fmt.Fprintf(&b, " Wohnen: %s.", s.HousingSituation)
	}
	fmt.Fprintf(&b, " Autos: %d, Haustiere: %d, ÖPNV-Abos: %d.", s.CarCount, s.PetCount, s.PublicTransportSubCount)
	if s.DebtAmount.IsPositive() {
		fmt.Fprintf(&b, " Schulden: %s zu %s%%.", euro(s.DebtAmount), s.InterestRate.String())
	}
	return b.String()
}

// DataSummary describes one month of figures for the system instruction.
func DataSummary(m budget.MonthSummary) string {
	name := fmt.Sprintf("%d", int(m.Month))
	if m.Month >= 1 && int(m.Month) <= len(monthNames) {
		name = monthNames[m.Month-1]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %d: Einnahmen %s, Ausgaben %s, Saldo %s.",
		name, m.Year, euro(m.Totals.Income), euro(m.Totals.Expense), euro(m.Totals.Balance))

	if len(m.ByCategory) > 0 {
		top := m.ByCategory
		if len(top) > 5 {
			top = top[:5]
		}
		parts := make([]string, len(top))
		for i, c := range top {
			parts[i] = c.Category + " " + euro(c.Total)
		}
		fmt.Fprintf(&b, " Top-Kategorien: %s.", strings.Join(parts, ", "))
	}

	fmt.Fprintf(&b, " Sparziel zu %s%% erreicht. Empfohlener Notgroschen: %s.",
		m.SavingsProgress.Round(0).String(), euro(m.RecommendedEmergency))
	return b.String()
}
