package domain

import (
	"encoding/json"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() TransactionInput {
	return TransactionInput{
		Date:        civil.Date{Year: 2024, Month: 3, Day: 15},
		Amount:      decimal.NewFromInt(50),
		Description: "Wocheneinkauf",
		Category:    "Lebensmittel",
		Type:        TransactionTypeExpense,
	}
}

func TestTransactionInput_Validate(t *testing.T) {
	before := civil.Date{Year: 2024, Month: 1, Day: 1}

	tests := []struct {
		name    string
		mutate  func(*TransactionInput)
		wantErr error
	}{
		{"valid", func(*TransactionInput) {}, nil},
		{"zero date", func(in *TransactionInput) { in.Date = civil.Date{} }, ErrInvalidDate},
		{"blank description", func(in *TransactionInput) { in.Description = "   " }, ErrEmptyDescription},
		{"zero amount", func(in *TransactionInput) { in.Amount = decimal.Zero }, ErrInvalidAmount},
		{"negative amount", func(in *TransactionInput) { in.Amount = decimal.NewFromInt(-3) }, ErrInvalidAmount},
		{"unknown type", func(in *TransactionInput) { in.Type = "Transfer" }, ErrInvalidType},
		{"end before start is accepted", func(in *TransactionInput) {
			in.IsRecurring = true
			in.EndDate = &before
		}, nil},
		{"invalid end date", func(in *TransactionInput) {
			in.IsRecurring = true
			in.EndDate = &civil.Date{Year: 2024, Month: 2, Day: 31}
		}, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			err := in.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTransactionInput_Normalize(t *testing.T) {
	in := validInput()
	in.Description = "  Brot  "
	in.Category = " "

	got := in.Normalize()
	assert.Equal(t, "Brot", got.Description)
	assert.Equal(t, FallbackCategory, got.Category)
}

func TestParseTransactionType(t *testing.T) {
	tests := []struct {
		in   string
		want TransactionType
		ok   bool
	}{
		{"Ausgabe", TransactionTypeExpense, true},
		{"expense", TransactionTypeExpense, true},
		{" EINNAHME ", TransactionTypeIncome, true},
		{"income", TransactionTypeIncome, true},
		{"refund", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTransactionType(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransaction_DecodesPersistedShape(t *testing.T) {
	raw := `{"id":"abc","date":"2024-01-01","amount":2000,"description":"Gehalt","category":"Gehalt","type":"Einnahme","isRecurring":true,"endDate":"2024-06-30"}`

	var tx Transaction
	require.NoError(t, json.Unmarshal([]byte(raw), &tx))

	assert.Equal(t, civil.Date{Year: 2024, Month: 1, Day: 1}, tx.Date)
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(2000)))
	assert.True(t, tx.IsIncome())
	require.NotNil(t, tx.EndDate)
	assert.Equal(t, civil.Date{Year: 2024, Month: 6, Day: 30}, *tx.EndDate)
	assert.Equal(t, tx, tx.Input().WithID("abc"))
}

func TestDedupeCategories(t *testing.T) {
	got := DedupeCategories([]string{"B", " A ", "", "B", "C", "A"})
	assert.Equal(t, []string{"B", "A", "C"}, got)
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, 4, s.Persons())
	assert.Equal(t, "M", s.Initial())
	assert.True(t, s.InterestRate.IsZero())
}

func TestFamilySettings_Validate(t *testing.T) {
	assert.NoError(t, DefaultSettings().Validate())

	negChildren := DefaultSettings()
	negChildren.Children = -1
	assert.ErrorIs(t, negChildren.Validate(), ErrInvalidSettings)

	negDebt := DefaultSettings()
	negDebt.DebtAmount = decimal.NewFromInt(-10)
	assert.ErrorIs(t, negDebt.Validate(), ErrInvalidSettings)
}

func TestTransaction_AmountsMarshalAsNumbers(t *testing.T) {
	tx := validInput().WithID("a1")
	tx.Amount = decimal.RequireFromString("12.34")

	raw, err := json.Marshal(tx)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"amount":12.34`)

	var back Transaction
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.Amount.Equal(tx.Amount))

	raw, err = json.Marshal(DefaultSettings())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"monthlySavingsGoal":500`)
}
