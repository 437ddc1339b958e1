package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// FamilySettings is the single per-family profile. It is always replaced as a whole.
type FamilySettings struct {
	FamilyName              string          `json:"familyName"`
	Adults                  int             `json:"adults"`
	Children                int             `json:"children"`
	MonthlySavingsGoal      decimal.Decimal `json:"monthlySavingsGoal"`
	FinancialFocus          string          `json:"financialFocus"`
	HousingSituation        string          `json:"housingSituation"`
	PetCount                int             `json:"petCount"`
	CarCount                int             `json:"carCount"`
	PublicTransportSubCount int             `json:"publicTransportSubCount"`
	DebtAmount              decimal.Decimal `json:"debtAmount"`
	InterestRate            decimal.Decimal `json:"interestRate"` // annual, percent
}

// DefaultSettings is the profile used before onboarding and for any field a
// persisted profile does not carry.
func DefaultSettings() FamilySettings {
	return FamilySettings{
		FamilyName:              "Müller",
		Adults:                  2,
		Children:                2,
		MonthlySavingsGoal:      decimal.NewFromInt(500),
		FinancialFocus:          "Notgroschen aufbauen",
		HousingSituation:        "Miete",
		PetCount:                0,
		CarCount:                1,
		PublicTransportSubCount: 0,
		DebtAmount:              decimal.Zero,
		InterestRate:            decimal.Zero,
	}
}

// ErrInvalidSettings is returned for a profile with negative counts or amounts.
var ErrInvalidSettings = errors.New("invalid settings")

// Validate rejects negative counts, goals, debts and rates.
func (s FamilySettings) Validate() error {
	if s.Adults < 0 || s.Children < 0 || s.PetCount < 0 || s.CarCount < 0 || s.PublicTransportSubCount < 0 {
		return errors.Join(ErrInvalidSettings, errors.New("counts must not be negative"))
	}
	if s.MonthlySavingsGoal.IsNegative() || s.DebtAmount.IsNegative() || s.InterestRate.IsNegative() {
		return errors.Join(ErrInvalidSettings, errors.New("amounts must not be negative"))
	}
	return nil
}

// Persons is the household size.
func (s FamilySettings) Persons() int {
	return s.Adults + s.Children
}

// Initial returns the first letter of the family name, used as an avatar.
func (s FamilySettings) Initial() string {
	name := strings.TrimSpace(s.FamilyName)
	for _, r := range name {
		return string(r)
	}
	return ""
}
