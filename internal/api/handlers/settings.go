package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dvloznov/family-budget/internal/api/middleware"
	"github.com/dvloznov/family-budget/internal/domain"
)

// SettingsHandler handles the family profile.
type SettingsHandler struct {
	store RecordStore
	log   zerolog.Logger
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(store RecordStore, log zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		store: store,
		log:   log,
	}
}

// GetSettings handles GET /api/settings
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.store.Settings())
}

// ReplaceSettings handles PUT /api/settings. Fields missing from the body
// take their default values.
func (h *SettingsHandler) ReplaceSettings(w http.ResponseWriter, r *http.Request) {
	settings := domain.DefaultSettings()
	if err := decodeJSON(w, r, &settings); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := settings.Validate(); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.store.ReplaceSettings(r.Context(), settings)
	middleware.WriteJSON(w, http.StatusOK, settings)
}
