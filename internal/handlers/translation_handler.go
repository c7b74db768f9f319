// File: internal/handlers/translation_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/voxai/voxai-sql/internal/observability"
	"github.com/voxai/voxai-sql/internal/services"
)

type TranslationHandler struct {
	TranslationService *services.TranslationService
	Metrics            *observability.Metrics
}

func NewTranslationHandler(ts *services.TranslationService, metrics *observability.Metrics) *TranslationHandler {
	return &TranslationHandler{TranslationService: ts, Metrics: metrics}
}

// Convert translates a natural-language question into SQL using the
// caller's connected database schema. The query is not executed.
func (h *TranslationHandler) Convert(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	translation, err := h.TranslationService.Translate(r.Context(), userID, req.Question)
	h.Metrics.ObserveTranslation(err)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, translation)
}

// History lists the caller's past conversions.
func (h *TranslationHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	translations, err := h.TranslationService.History(r.Context(), userID)
	if err != nil {
		writeError(w, "Could not retrieve translation history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, translations)
}
