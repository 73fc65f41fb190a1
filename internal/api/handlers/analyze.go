package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmarlow/persona/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// AnalyzeHandler exposes the stateless text analysis and the per-user
// analytics report.
type AnalyzeHandler struct {
	learning  *service.LearningService
	analytics *service.AnalyticsService
}

func NewAnalyzeHandler(learning *service.LearningService, analytics *service.AnalyticsService) *AnalyzeHandler {
	return &AnalyzeHandler{learning: learning, analytics: analytics}
}

type analyzeRequest struct {
	Content string `json:"content"`
}

// Analyze runs the standalone text analysis over the supplied content.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, h.learning.AnalyzeText(req.Content))
}

func (h *AnalyzeHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	report, err := h.analytics.Report(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to build analytics")
		return
	}

	writeJSON(w, http.StatusOK, report)
}
