package budget

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Goals holds the tunables of the emergency fund recommendation.
type Goals struct {
	// EmergencyFundMonths is how many months of expenses the fund should cover.
	EmergencyFundMonths int64
	// EmergencyFundFloor is recommended when there are no expenses to base it on.
	EmergencyFundFloor decimal.Decimal
}

// DefaultGoals recommends three months of expenses with a floor of 3000.
func DefaultGoals() Goals {
	return Goals{
		EmergencyFundMonths: 3,
		EmergencyFundFloor:  decimal.NewFromInt(3000),
	}
}

// RecommendedEmergencyFund is EmergencyFundMonths times the monthly expense,
// or the floor when expense is not positive.
func (g Goals) RecommendedEmergencyFund(expense decimal.Decimal) decimal.Decimal {
	if !expense.IsPositive() {
		return g.EmergencyFundFloor
	}
	return expense.Mul(decimal.NewFromInt(g.EmergencyFundMonths))
}

// RecommendedEmergencyFund uses DefaultGoals.
func RecommendedEmergencyFund(expense decimal.Decimal) decimal.Decimal {
	return DefaultGoals().RecommendedEmergencyFund(expense)
}

// SavingsProgressPercent is balance/goal as a percentage clamped to [0, 100].
// A goal that is zero or negative counts as 1 for the division only.
func SavingsProgressPercent(balance, goal decimal.Decimal) decimal.Decimal {
	denominator := goal
	if !denominator.IsPositive() {
		denominator = one
	}
	pct := balance.Div(denominator).Mul(hundred)
	if pct.IsNegative() {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}

// AnnualInterestCost is the yearly interest on debt at ratePercent.
func AnnualInterestCost(debt, ratePercent decimal.Decimal) decimal.Decimal {
	return debt.Mul(ratePercent).Div(hundred)
}
