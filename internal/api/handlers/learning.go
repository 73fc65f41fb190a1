package handlers

import (
	"errors"
	"net/http"

	"github.com/dmarlow/persona/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type LearningHandler struct {
	svc *service.LearningService
}

func NewLearningHandler(svc *service.LearningService) *LearningHandler {
	return &LearningHandler{svc: svc}
}

// Learn runs the learning pipeline over the user's unprocessed
// interactions and persists the outcome.
func (h *LearningHandler) Learn(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	result, err := h.svc.LearnUser(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrLearningDisabled):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "learning run failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}
