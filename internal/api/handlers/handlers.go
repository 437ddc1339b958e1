package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dvloznov/family-budget/internal/advisor"
	"github.com/dvloznov/family-budget/internal/budget"
	"github.com/dvloznov/family-budget/internal/domain"
)

// RecordStore is the subset of the record store the HTTP surface needs.
type RecordStore interface {
	Transactions() []domain.Transaction
	Transaction(id string) (domain.Transaction, error)
	Add(ctx context.Context, in domain.TransactionInput) (domain.Transaction, error)
	Update(ctx context.Context, id string, in domain.TransactionInput) (domain.Transaction, error)
	Delete(ctx context.Context, id string) error
	ApplyDrafts(ctx context.Context, drafts []domain.TransactionInput) ([]domain.Transaction, error)

	Categories() []string
	AddCategory(ctx context.Context, name string) bool

	Settings() domain.FamilySettings
	ReplaceSettings(ctx context.Context, settings domain.FamilySettings)
	OnboardingCompleted() bool
	CompleteOnboarding(ctx context.Context, settings domain.FamilySettings)

	SaveReceiptImage(ctx context.Context, jpeg []byte) (string, error)
}

// Advisor is the advice service as seen by the handlers.
type Advisor interface {
	RequestAdvice(ctx context.Context, history []advisor.Message, settings domain.FamilySettings, month budget.MonthSummary) string
	RequestOnboarding(ctx context.Context, history []advisor.Message) advisor.OnboardingReply
}

const maxJSONBody = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(v)
}

// isValidationError reports whether err is a rejected user input.
func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrEmptyDescription) ||
		errors.Is(err, domain.ErrInvalidAmount) ||
		errors.Is(err, domain.ErrInvalidType) ||
		errors.Is(err, domain.ErrInvalidDate) ||
		errors.Is(err, domain.ErrInvalidSettings)
}

// yearMonth reads ?year= and ?month=, defaulting to the month of now.
func yearMonth(r *http.Request, now time.Time) (int, time.Month, error) {
	year, month := now.Year(), now.Month()

	q := r.URL.Query()
	if s := q.Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y < 1 || y > 9999 {
			return 0, 0, errors.New("invalid year")
		}
		year = y
	}
	if s := q.Get("month"); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, errors.New("invalid month")
		}
		month = time.Month(m)
	}
	return year, month, nil
}
