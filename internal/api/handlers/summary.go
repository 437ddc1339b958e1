package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/family-budget/internal/api/middleware"
	"github.com/dvloznov/family-budget/internal/budget"
)

// SummaryHandler serves the monthly dashboard and the yearly report.
type SummaryHandler struct {
	store RecordStore
	goals budget.Goals
	log   zerolog.Logger
	now   func() time.Time
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(store RecordStore, goals budget.Goals, log zerolog.Logger) *SummaryHandler {
	return &SummaryHandler{
		store: store,
		goals: goals,
		log:   log,
		now:   time.Now,
	}
}

// MonthSummary handles GET /api/summary/month?year=&month=
func (h *SummaryHandler) MonthSummary(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonth(r, h.now())
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary := budget.Summarize(h.store.Transactions(), year, month, h.store.Settings(), h.goals)
	middleware.WriteJSON(w, http.StatusOK, summary)
}

// YearSummary handles GET /api/summary/year?year=
func (h *SummaryHandler) YearSummary(w http.ResponseWriter, r *http.Request) {
	year, _, err := yearMonth(r, h.now())
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	middleware.WriteJSON(w, http.StatusOK, budget.SummarizeYear(h.store.Transactions(), year, h.store.Settings()))
}
