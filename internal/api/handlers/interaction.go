package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dmarlow/persona/internal/domain"
	"github.com/dmarlow/persona/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type InteractionHandler struct {
	svc *service.InteractionService
}

func NewInteractionHandler(svc *service.InteractionService) *InteractionHandler {
	return &InteractionHandler{svc: svc}
}

type createInteractionRequest struct {
	Type      string         `json:"type,omitempty"`
	Content   string         `json:"content"`
	Context   map[string]any `json:"context,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	Source    string         `json:"source,omitempty"`
}

type createInteractionResponse struct {
	Interaction *domain.Interaction    `json:"interaction"`
	Learning    *domain.LearningResult `json:"learning,omitempty"`
}

func (h *InteractionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req createInteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	interaction, result, err := h.svc.Record(r.Context(), userID, service.RecordInput{
		Type:      req.Type,
		Content:   req.Content,
		Context:   req.Context,
		SessionID: req.SessionID,
		Source:    req.Source,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContentRequired),
			errors.Is(err, service.ErrInvalidInteractionType):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to record interaction")
		}
		return
	}

	writeJSON(w, http.StatusCreated, createInteractionResponse{
		Interaction: interaction,
		Learning:    result,
	})
}

type listInteractionsResponse struct {
	Interactions []domain.Interaction `json:"interactions"`
	Count        int                  `json:"count"`
}

func (h *InteractionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			offset = n
		}
	}

	interactions, err := h.svc.List(r.Context(), userID, limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list interactions")
		return
	}
	if interactions == nil {
		interactions = []domain.Interaction{}
	}

	writeJSON(w, http.StatusOK, listInteractionsResponse{
		Interactions: interactions,
		Count:        len(interactions),
	})
}
