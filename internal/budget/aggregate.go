package budget

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/family-budget/internal/domain"
)

// Totals are the income, expense and balance of a set of transactions.
type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// CategoryTotal is the summed expense of one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// MonthTotals is one entry of a yearly series.
type MonthTotals struct {
	Month   time.Month      `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// ComputeTotals sums income and expense over already-resolved transactions.
func ComputeTotals(active []domain.Transaction) Totals {
	income, expense := decimal.Zero, decimal.Zero
	for _, t := range active {
		switch t.Type {
		case domain.TransactionTypeIncome:
			income = income.Add(t.Amount)
		case domain.TransactionTypeExpense:
			expense = expense.Add(t.Amount)
		}
	}
	return Totals{Income: income, Expense: expense, Balance: income.Sub(expense)}
}

// ByCategory groups expenses by category, largest total first. Categories
// with equal totals keep the order in which they were first encountered.
func ByCategory(active []domain.Transaction) []CategoryTotal {
	index := make(map[string]int)
	out := make([]CategoryTotal, 0)
	for _, t := range active {
		if !t.IsExpense() {
			continue
		}
		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, CategoryTotal{Category: t.Category, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(t.Amount)
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Total.GreaterThan(out[b].Total)
	})
	return out
}

// YearlySeries resolves every month of the year independently against all
// records, so a recurring transaction contributes to each month it is active in.
func YearlySeries(records []domain.Transaction, year int) []MonthTotals {
	series := make([]MonthTotals, 0, 12)
	for m := time.January; m <= time.December; m++ {
		totals := ComputeTotals(ResolveActive(records, year, m))
		series = append(series, MonthTotals{Month: m, Income: totals.Income, Expense: totals.Expense})
	}
	return series
}

// SumSeries totals a series, e.g. for the annual overview.
func SumSeries(series []MonthTotals) Totals {
	income, expense := decimal.Zero, decimal.Zero
	for _, m := range series {
		income = income.Add(m.Income)
		expense = expense.Add(m.Expense)
	}
	return Totals{Income: income, Expense: expense, Balance: income.Sub(expense)}
}
