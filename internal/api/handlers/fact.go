package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmarlow/persona/internal/domain"
	"github.com/dmarlow/persona/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type FactHandler struct {
	facts domain.FactStore
}

func NewFactHandler(facts domain.FactStore) *FactHandler {
	return &FactHandler{facts: facts}
}

type listFactsResponse struct {
	Facts []domain.Fact `json:"facts"`
	Count int           `json:"count"`
}

func (h *FactHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	category := r.URL.Query().Get("category")

	facts, err := h.facts.ListByUser(r.Context(), userID, category)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list facts")
		return
	}
	if facts == nil {
		facts = []domain.Fact{}
	}

	writeJSON(w, http.StatusOK, listFactsResponse{Facts: facts, Count: len(facts)})
}

type confirmFactRequest struct {
	Confirmed *bool `json:"confirmed,omitempty"`
}

// Confirm marks a fact user-verified, or rejects it. Absent body
// defaults to confirmation.
func (h *FactHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	factID, err := uuid.Parse(chi.URLParam(r, "factID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid fact id")
		return
	}

	confirmed := true
	var req confirmFactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Confirmed != nil {
		confirmed = *req.Confirmed
	}

	if _, err := h.facts.GetByID(r.Context(), factID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "fact not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load fact")
		return
	}

	if err := h.facts.SetConfirmed(r.Context(), factID, confirmed); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update fact")
		return
	}

	fact, err := h.facts.GetByID(r.Context(), factID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load fact")
		return
	}

	writeJSON(w, http.StatusOK, fact)
}
