package domain

import (
	"time"

	"github.com/google/uuid"
)

type InteractionType string

const (
	InteractionMessage    InteractionType = "message"
	InteractionPreference InteractionType = "preference"
	InteractionFeedback   InteractionType = "feedback"
	InteractionBehavior   InteractionType = "behavior"
	// InteractionExplicit marks something the user told us directly;
	// InteractionImplicit marks something inferred from behavior.
	InteractionExplicit InteractionType = "explicit"
	InteractionImplicit InteractionType = "implicit"
)

func ValidInteractionType(t string) bool {
	switch InteractionType(t) {
	case InteractionMessage, InteractionPreference, InteractionFeedback,
		InteractionBehavior, InteractionExplicit, InteractionImplicit:
		return true
	}
	return false
}

// Interaction is one logged unit of user communication. The learning
// pipeline enriches unset analysis fields (Sentiment, Topics, Intent)
// in place; Processed is flipped by the caller once derived facts have
// been stored.
type Interaction struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Type      InteractionType `json:"type"`
	Content   string          `json:"content"`
	Context   map[string]any  `json:"context,omitempty"`
	SessionID string          `json:"session_id,omitempty"`
	Source    string          `json:"source,omitempty"`
	Timestamp time.Time       `json:"timestamp"`

	// Analysis results. A nil Sentiment means not yet analyzed; an
	// analyzed neutral message carries an explicit 0.
	Sentiment *float64 `json:"sentiment,omitempty"`
	Topics    []string `json:"topics,omitempty"`
	Intent    string   `json:"intent,omitempty"`
	Processed bool     `json:"processed"`
}
