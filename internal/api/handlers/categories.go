package handlers

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dvloznov/family-budget/internal/api/middleware"
)

// CategoriesHandler handles category-related endpoints.
type CategoriesHandler struct {
	store RecordStore
	log   zerolog.Logger
}

// NewCategoriesHandler creates a new categories handler.
func NewCategoriesHandler(store RecordStore, log zerolog.Logger) *CategoriesHandler {
	return &CategoriesHandler{
		store: store,
		log:   log,
	}
}

// ListCategories handles GET /api/categories
func (h *CategoriesHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories := h.store.Categories()
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"count":      len(categories),
	})
}

// AddCategory handles POST /api/categories
func (h *CategoriesHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Name is required")
		return
	}

	added := h.store.AddCategory(r.Context(), req.Name)
	status := http.StatusOK
	if added {
		status = http.StatusCreated
		h.log.Info().Str("category", strings.TrimSpace(req.Name)).Msg("Category added")
	}

	middleware.WriteJSON(w, status, map[string]interface{}{
		"added":      added,
		"categories": h.store.Categories(),
	})
}
