package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/family-budget/internal/api/middleware"
	"github.com/dvloznov/family-budget/internal/budget"
	"github.com/dvloznov/family-budget/internal/domain"
)

// TransactionsHandler handles transaction-related endpoints.
type TransactionsHandler struct {
	store RecordStore
	log   zerolog.Logger
	now   func() time.Time
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(store RecordStore, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// ListTransactions handles GET /api/transactions
//
// Optional query parameters: q (substring of description or category),
// recurring=true, and year+month to list only records active in that month.
func (h *TransactionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	records := h.store.Transactions()

	if query.Get("year") != "" || query.Get("month") != "" {
		year, month, err := yearMonth(r, h.now())
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		records = budget.ResolveActive(records, year, month)
	}

	recurringOnly, _ := strconv.ParseBool(query.Get("recurring"))
	records = budget.Filter(records, query.Get("q"), recurringOnly)

	// Return array directly for frontend compatibility
	middleware.WriteJSON(w, http.StatusOK, records)
}

// GetTransaction handles GET /api/transactions/{id}
func (h *TransactionsHandler) GetTransaction(w http.ResponseWriter, r *http.Request, id string) {
	t, err := h.store.Transaction(id)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, t)
}

// CreateTransaction handles POST /api/transactions
func (h *TransactionsHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	t, err := h.store.Add(r.Context(), in)
	if err != nil {
		h.writeStoreError(w, err, "")
		return
	}

	h.log.Info().Str("id", t.ID).Str("type", string(t.Type)).Msg("Transaction created")
	middleware.WriteJSON(w, http.StatusCreated, t)
}

// UpdateTransaction handles PUT /api/transactions/{id}
func (h *TransactionsHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request, id string) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	t, err := h.store.Update(r.Context(), id, in)
	if err != nil {
		h.writeStoreError(w, err, id)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, t)
}

// DeleteTransaction handles DELETE /api/transactions/{id}
func (h *TransactionsHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, err, id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TransactionsHandler) decodeInput(w http.ResponseWriter, r *http.Request) (domain.TransactionInput, bool) {
	var in domain.TransactionInput
	if err := decodeJSON(w, r, &in); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return in, false
	}
	// English type names are accepted as well.
	if typ, ok := domain.ParseTransactionType(string(in.Type)); ok {
		in.Type = typ
	}
	return in, true
}

func (h *TransactionsHandler) writeStoreError(w http.ResponseWriter, err error, id string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		middleware.WriteError(w, http.StatusNotFound, "Transaction not found")
	case isValidationError(err):
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Str("id", id).Msg("Transaction operation failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
