package domain

import (
	"time"

	"github.com/google/uuid"
)

// Insight is a transient, human-readable narrative about a user derived
// from aggregate patterns. Insights are returned with each learning run
// and are not persisted.
type Insight struct {
	Category   string    `json:"category"`
	Insight    string    `json:"insight"`
	Confidence float64   `json:"confidence"`
	Evidence   []string  `json:"evidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// LearningResult is the outcome of one learning run over a user's
// interactions. It is immutable once returned. Errors holds degraded
// sub-step failures as strings; a run never fails outright.
type LearningResult struct {
	UserID                uuid.UUID `json:"user_id"`
	NewFacts              []Fact    `json:"new_facts"`
	UpdatedFacts          []Fact    `json:"updated_facts"`
	Insights              []Insight `json:"insights"`
	InteractionsProcessed int       `json:"interactions_processed"`
	ProcessingTimeMs      int64     `json:"processing_time_ms"`
	Errors                []string  `json:"errors"`
}
