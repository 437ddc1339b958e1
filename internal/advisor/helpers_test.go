package advisor

import (
	"bytes"
	"image"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/family-budget/internal/budget"
	"github.com/dvloznov/family-budget/internal/domain"
)

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain array", `[{"a":1}]`, `[{"a":1}]`},
		{"json fence", "```json\n[1,2]\n```", `[1,2]`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around array", "Hier: [1] fertig", `[1]`},
		{"prose around object", "Ergebnis {\"a\":[1]} ok", `{"a":[1]}`},
		{"no json", "nichts", "nichts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanModelJSON(tt.in))
		})
	}
}

func TestFirstJSONObject(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"none", "keine Daten", "", false},
		{"simple", `x {"a":1} y`, `{"a":1}`, true},
		{"nested", `{"a":{"b":2}} {"c":3}`, `{"a":{"b":2}}`, true},
		{"brace in string", `{"a":"}{"} tail`, `{"a":"}{"}`, true},
		{"escaped quote", `{"a":"\"}"}`, `{"a":"\"}"}`, true},
		{"unbalanced", `{"a":1`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := firstJSONObject(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrepareReceiptImage(t *testing.T) {
	out, err := PrepareReceiptImage(pngImage(t, 2000, 1000))
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(ReceiptMaxWidth, 800), img.Bounds().Size())

	_, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestPrepareReceiptImage_Small(t *testing.T) {
	out, err := PrepareReceiptImage(pngImage(t, 30, 20))
	require.NoError(t, err)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Width)
}

func TestPrepareReceiptImage_Errors(t *testing.T) {
	_, err := PrepareReceiptImage([]byte("nope"))
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = PrepareReceiptImage(make([]byte, MaxReceiptSize+1))
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestContextSummary(t *testing.T) {
	s := domain.DefaultSettings()
	assert.Equal(t,
		"Müller, 2 Erw., 2 Kinder. Ziel: 500.00€. Fokus: Notgroschen aufbauen. Wohnen: Miete. Autos: 1, Haustiere: 0, ÖPNV-Abos: 0.",
		ContextSummary(s))

	s.DebtAmount = decimal.NewFromInt(8000)
	s.InterestRate = decimal.RequireFromString("4.5")
	assert.Contains(t, ContextSummary(s), "Schulden: 8000.00€ zu 4.5%.")
}

func TestDataSummary(t *testing.T) {
	m := budget.MonthSummary{
		Year:  2024,
		Month: time.March,
		Totals: budget.Totals{
			Income:  decimal.NewFromInt(3000),
			Expense: decimal.NewFromInt(500),
			Balance: decimal.NewFromInt(2500),
		},
		ByCategory: []budget.CategoryTotal{
			{Category: "Lebensmittel", Total: decimal.NewFromInt(400)},
			{Category: "Freizeit", Total: decimal.NewFromInt(100)},
		},
		SavingsProgress:      decimal.NewFromInt(100),
		RecommendedEmergency: decimal.NewFromInt(1500),
	}

	assert.Equal(t,
		"März 2024: Einnahmen 3000.00€, Ausgaben 500.00€, Saldo 2500.00€. "+
			"Top-Kategorien: Lebensmittel 400.00€, Freizeit 100.00€. "+
			"Sparziel zu 100% erreicht. Empfohlener Notgroschen: 1500.00€.",
		DataSummary(m))
}
