package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmarlow/persona/internal/domain"
	"github.com/dmarlow/persona/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type createUserRequest struct {
	Username           string `json:"username"`
	Email              string `json:"email,omitempty"`
	DataSharingConsent bool   `json:"data_sharing_consent,omitempty"`
	LearningEnabled    *bool  `json:"learning_enabled,omitempty"`
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	learningEnabled := true
	if req.LearningEnabled != nil {
		learningEnabled = *req.LearningEnabled
	}

	user, err := h.svc.Create(r.Context(), service.CreateUserInput{
		Username:           req.Username,
		Email:              req.Email,
		DataSharingConsent: req.DataSharingConsent,
		LearningEnabled:    learningEnabled,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUserExists):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type updateProfileRequest struct {
	PreferredLanguage        string   `json:"preferred_language,omitempty"`
	CommunicationStyle       string   `json:"communication_style,omitempty"`
	ResponseLengthPreference string   `json:"response_length_preference,omitempty"`
	TechnicalLevel           string   `json:"technical_level,omitempty"`
	ExplanationDetailLevel   string   `json:"explanation_detail_level,omitempty"`
	PrefersExamples          *bool    `json:"prefers_examples,omitempty"`
	Interests                []string `json:"interests,omitempty"`
	Hobbies                  []string `json:"hobbies,omitempty"`
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Start from the stored profile so omitted fields keep their values.
	user, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}

	profile := user.Profile
	if profile == nil {
		profile = &domain.UserProfile{UserID: id}
	}
	if req.PreferredLanguage != "" {
		profile.PreferredLanguage = req.PreferredLanguage
	}
	if req.CommunicationStyle != "" {
		profile.CommunicationStyle = req.CommunicationStyle
	}
	if req.ResponseLengthPreference != "" {
		profile.ResponseLengthPreference = req.ResponseLengthPreference
	}
	if req.TechnicalLevel != "" {
		profile.TechnicalLevel = req.TechnicalLevel
	}
	if req.ExplanationDetailLevel != "" {
		profile.ExplanationDetailLevel = req.ExplanationDetailLevel
	}
	if req.PrefersExamples != nil {
		profile.PrefersExamples = *req.PrefersExamples
	}
	if req.Interests != nil {
		profile.Interests = req.Interests
	}
	if req.Hobbies != nil {
		profile.Hobbies = req.Hobbies
	}

	if err := h.svc.UpdateProfile(r.Context(), id, profile); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
