package budget

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/family-budget/internal/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSavingsProgressPercent(t *testing.T) {
	tests := []struct {
		name          string
		balance, goal string
		want          string
	}{
		{"half way", "250", "500", "50"},
		{"exactly reached", "500", "500", "100"},
		{"over goal clamps", "1200", "500", "100"},
		{"negative balance clamps", "-300", "500", "0"},
		{"zero goal uses 1", "0.5", "0", "50"},
		{"negative goal uses 1", "2", "-10", "100"},
		{"zero balance", "0", "500", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SavingsProgressPercent(d(tt.balance), d(tt.goal))
			assert.True(t, got.Equal(d(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestSavingsProgressPercent_AlwaysInRange(t *testing.T) {
	balances := []string{"-1000000", "-1", "0", "0.01", "333.33", "999999"}
	goals := []string{"0", "0.01", "1", "500", "100000"}

	for _, b := range balances {
		for _, g := range goals {
			got := SavingsProgressPercent(d(b), d(g))
			assert.False(t, got.IsNegative(), "balance=%s goal=%s", b, g)
			assert.False(t, got.GreaterThan(d("100")), "balance=%s goal=%s", b, g)
		}
	}
}

func TestRecommendedEmergencyFund(t *testing.T) {
	assert.True(t, RecommendedEmergencyFund(d("1250.50")).Equal(d("3751.50")))
	assert.True(t, RecommendedEmergencyFund(decimal.Zero).Equal(d("3000")))

	custom := Goals{EmergencyFundMonths: 6, EmergencyFundFloor: d("5000")}
	assert.True(t, custom.RecommendedEmergencyFund(d("1000")).Equal(d("6000")))
	assert.True(t, custom.RecommendedEmergencyFund(decimal.Zero).Equal(d("5000")))
}

func TestAnnualInterestCost(t *testing.T) {
	assert.True(t, AnnualInterestCost(d("10000"), d("4.5")).Equal(d("450")))
	assert.True(t, AnnualInterestCost(d("0"), d("12")).IsZero())
	assert.True(t, AnnualInterestCost(d("2500"), d("0")).IsZero())
}

func TestSummarize(t *testing.T) {
	settings := domain.DefaultSettings()
	records := []domain.Transaction{
		income("salary", 3000, date(2024, 3, 1)),
		expense("food", 400, "Lebensmittel", date(2024, 3, 10)),
		expense("fun", 100, "Freizeit", date(2024, 3, 12)),
		expense("other month", 999, "Freizeit", date(2024, 4, 1)),
	}

	got := Summarize(records, 2024, time.March, settings, DefaultGoals())

	assert.Equal(t, 2024, got.Year)
	assert.Equal(t, time.March, got.Month)
	require.Len(t, got.Transactions, 3)
	assert.True(t, got.Totals.Balance.Equal(d("2500")))
	require.Len(t, got.ByCategory, 2)
	assert.Equal(t, "Lebensmittel", got.ByCategory[0].Category)
	assert.True(t, got.SavingsProgress.Equal(d("100")))
	assert.True(t, got.RecommendedEmergency.Equal(d("1500")))
}

func TestSummarizeYear(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.DebtAmount = d("8000")
	settings.InterestRate = d("5")

	got := SummarizeYear([]domain.Transaction{income("bonus", 1000, date(2024, 12, 1))}, 2024, settings)

	require.Len(t, got.Months, 12)
	assert.True(t, got.Totals.Income.Equal(d("1000")))
	assert.True(t, got.AnnualInterestCost.Equal(d("400")))
}

func TestFilter(t *testing.T) {
	rent := expense("Miete Mai", 900, "Miete/Wohnen", date(2024, 5, 1))
	rent.IsRecurring = true
	records := []domain.Transaction{
		expense("Brot", 3, "Lebensmittel", date(2024, 5, 2)),
		rent,
		expense("Kino", 20, "Freizeit", date(2024, 5, 3)),
	}

	assert.Len(t, Filter(records, "", false), 3)
	assert.Equal(t, "Brot", Filter(records, "LEBENS", false)[0].ID)
	assert.Equal(t, "Kino", Filter(records, "kin", false)[0].ID)
	assert.Equal(t, []domain.Transaction{rent}, Filter(records, "", true))
	assert.Empty(t, Filter(records, "kino", true))
}
