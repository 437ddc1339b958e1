package domain

import (
	"errors"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Amounts are stored and served as JSON numbers, the format existing budget
// data uses.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// TransactionType distinguishes money coming in from money going out.
// The wire values are the ones the budget app has always persisted.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "Einnahme"
	TransactionTypeExpense TransactionType = "Ausgabe"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// ParseTransactionType accepts the persisted German values as well as the
// English names, case-insensitively.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "einnahme", "income":
		return TransactionTypeIncome, true
	case "ausgabe", "expense":
		return TransactionTypeExpense, true
	}
	return "", false
}

var (
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidDate      = errors.New("invalid date")
	ErrNotFound         = errors.New("transaction not found")
)

// Transaction is a single financial event.
//
// A recurring transaction stands for a monthly obligation or income starting
// at Date. EndDate, when set, is the last day of the recurrence; it is ignored
// for one-shot transactions.
type Transaction struct {
	ID          string          `json:"id"`
	Date        civil.Date      `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        TransactionType `json:"type"`
	IsRecurring bool            `json:"isRecurring"`
	EndDate     *civil.Date     `json:"endDate,omitempty"`
}

// TransactionInput carries every user-editable field of a Transaction.
// Updates always replace the full record.
type TransactionInput struct {
	Date        civil.Date      `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        TransactionType `json:"type"`
	IsRecurring bool            `json:"isRecurring"`
	EndDate     *civil.Date     `json:"endDate,omitempty"`
}

// Validate checks the input at the point of entry. An end date before the
// start date is accepted: such a record is simply never active.
func (in TransactionInput) Validate() error {
	if !in.Date.IsValid() {
		return ErrInvalidDate
	}
	if strings.TrimSpace(in.Description) == "" {
		return ErrEmptyDescription
	}
	if !in.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !in.Type.Valid() {
		return ErrInvalidType
	}
	if in.IsRecurring && in.EndDate != nil && !in.EndDate.IsValid() {
		return ErrInvalidDate
	}
	return nil
}

// Normalize trims free text and fills in the fallback category.
func (in TransactionInput) Normalize() TransactionInput {
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	if in.Category == "" {
		in.Category = FallbackCategory
	}
	return in
}

// WithID builds the stored record for the input.
func (in TransactionInput) WithID(id string) Transaction {
	return Transaction{
		ID:          id,
		Date:        in.Date,
		Amount:      in.Amount,
		Description: in.Description,
		Category:    in.Category,
		Type:        in.Type,
		IsRecurring: in.IsRecurring,
		EndDate:     in.EndDate,
	}
}

// Input returns the editable fields of t.
func (t Transaction) Input() TransactionInput {
	return TransactionInput{
		Date:        t.Date,
		Amount:      t.Amount,
		Description: t.Description,
		Category:    t.Category,
		Type:        t.Type,
		IsRecurring: t.IsRecurring,
		EndDate:     t.EndDate,
	}
}

// IsExpense reports whether t is an expense.
func (t Transaction) IsExpense() bool { return t.Type == TransactionTypeExpense }

// IsIncome reports whether t is income.
func (t Transaction) IsIncome() bool { return t.Type == TransactionTypeIncome }
