package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
	IsActive   bool      `json:"is_active"`

	// Privacy controls. LearningEnabled gates the whole pipeline for
	// this user; RetentionDays bounds how long raw interactions are kept.
	DataSharingConsent bool `json:"data_sharing_consent"`
	LearningEnabled    bool `json:"learning_enabled"`
	RetentionDays      int  `json:"retention_days"`

	Profile *UserProfile `json:"profile,omitempty"`
}

// UserProfile holds the mutable personalization surface built up from
// learned facts and explicit user settings.
type UserProfile struct {
	UserID                   uuid.UUID `json:"user_id"`
	PreferredLanguage        string    `json:"preferred_language"`
	CommunicationStyle       string    `json:"communication_style,omitempty"`
	ResponseLengthPreference string    `json:"response_length_preference,omitempty"`
	TechnicalLevel           string    `json:"technical_level"`
	ExplanationDetailLevel   string    `json:"explanation_detail_level"`
	PrefersExamples          bool      `json:"prefers_examples"`
	Interests                []string  `json:"interests,omitempty"`
	Hobbies                  []string  `json:"hobbies,omitempty"`
	UpdatedAt                time.Time `json:"updated_at"`
}
