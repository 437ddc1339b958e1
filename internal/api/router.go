// Package api assembles the HTTP surface of the budget service.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/family-budget/internal/api/handlers"
	"github.com/dvloznov/family-budget/internal/api/middleware"
	"github.com/dvloznov/family-budget/internal/budget"
	"github.com/dvloznov/family-budget/internal/jobs"
)

// Deps are the services behind the HTTP surface. Advisor and Publisher may
// be nil; the endpoints that need them answer 503.
type Deps struct {
	Store     handlers.RecordStore
	Advisor   handlers.Advisor
	Publisher jobs.Publisher
	JobStore  jobs.JobStore
	Goals     budget.Goals
}

func methodNotAllowed(w http.ResponseWriter) {
	middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// NewRouter wires every endpoint and wraps the mux in the middleware chain.
func NewRouter(deps Deps, log zerolog.Logger) http.Handler {
	transactionsHandler := handlers.NewTransactionsHandler(deps.Store, log)
	categoriesHandler := handlers.NewCategoriesHandler(deps.Store, log)
	settingsHandler := handlers.NewSettingsHandler(deps.Store, log)
	summaryHandler := handlers.NewSummaryHandler(deps.Store, deps.Goals, log)
	adviceHandler := handlers.NewAdviceHandler(deps.Store, deps.Advisor, deps.Goals, log)
	onboardingHandler := handlers.NewOnboardingHandler(deps.Store, deps.Advisor, log)
	receiptsHandler := handlers.NewReceiptsHandler(deps.Store, deps.Publisher, log)
	jobsHandler := handlers.NewJobsHandler(deps.JobStore, deps.Store, log)

	mux := http.NewServeMux()

	// Transactions endpoints
	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			transactionsHandler.ListTransactions(w, r)
		case http.MethodPost:
			transactionsHandler.CreateTransaction(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	mux.HandleFunc("/api/transactions/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
		if id == "" || strings.Contains(id, "/") {
			middleware.WriteError(w, http.StatusBadRequest, "Transaction ID is required")
			return
		}
		switch r.Method {
		case http.MethodGet:
			transactionsHandler.GetTransaction(w, r, id)
		case http.MethodPut:
			transactionsHandler.UpdateTransaction(w, r, id)
		case http.MethodDelete:
			transactionsHandler.DeleteTransaction(w, r, id)
		default:
			methodNotAllowed(w)
		}
	})

	// Categories endpoints
	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			categoriesHandler.ListCategories(w, r)
		case http.MethodPost:
			categoriesHandler.AddCategory(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	// Settings endpoints
	mux.HandleFunc("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			settingsHandler.GetSettings(w, r)
		case http.MethodPut:
			settingsHandler.ReplaceSettings(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	// Summary endpoints
	mux.HandleFunc("/api/summary/month", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			summaryHandler.MonthSummary(w, r)
		} else {
			methodNotAllowed(w)
		}
	})

	mux.HandleFunc("/api/summary/year", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			summaryHandler.YearSummary(w, r)
		} else {
			methodNotAllowed(w)
		}
	})

	// Advice endpoints
	mux.HandleFunc("/api/advice", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			adviceHandler.History(w, r)
		case http.MethodPost:
			adviceHandler.Ask(w, r)
		case http.MethodDelete:
			adviceHandler.Reset(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	// Onboarding endpoints
	mux.HandleFunc("/api/onboarding", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			onboardingHandler.Status(w, r)
		} else {
			methodNotAllowed(w)
		}
	})

	mux.HandleFunc("/api/onboarding/chat", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			onboardingHandler.Chat(w, r)
		} else {
			methodNotAllowed(w)
		}
	})

	// Receipts endpoints
	mux.HandleFunc("/api/receipts", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			receiptsHandler.UploadReceipt(w, r)
		} else {
			methodNotAllowed(w)
		}
	})

	// Jobs endpoints
	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobsHandler.ListJobs(w, r)
		} else {
			methodNotAllowed(w)
		}
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
		jobID, action, _ := strings.Cut(rest, "/")
		if jobID == "" {
			middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
			return
		}

		switch {
		case action == "" && r.Method == http.MethodGet:
			jobsHandler.GetJob(w, r, jobID)
		case action == "apply" && r.Method == http.MethodPost:
			jobsHandler.ApplyJob(w, r, jobID)
		case action == "" || action == "apply":
			methodNotAllowed(w)
		default:
			middleware.WriteError(w, http.StatusNotFound, "Not found")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return middleware.Chain(mux, log)
}
