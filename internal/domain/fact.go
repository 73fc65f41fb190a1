package domain

import (
	"time"

	"github.com/google/uuid"
)

// Confidence is a coarse level attached to a learned fact. It is not a
// calibrated probability; "verified" means the user confirmed the fact.
type Confidence string

const (
	ConfidenceLow      Confidence = "low"
	ConfidenceMedium   Confidence = "medium"
	ConfidenceHigh     Confidence = "high"
	ConfidenceVerified Confidence = "verified"
)

func ValidConfidence(c string) bool {
	switch Confidence(c) {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh, ConfidenceVerified:
		return true
	}
	return false
}

// Fact categories emitted by the learning pipeline.
const (
	CategoryBehavior      = "behavior"
	CategoryCommunication = "communication"
	CategoryInterests     = "interests"
)

// Learning methods recorded on facts for provenance.
const (
	MethodPatternAnalysis = "pattern_analysis"
	MethodTopicAnalysis   = "topic_analysis"
)

// Fact is a durable, categorized claim about a user derived from
// pattern analysis. Facts are uniquely keyed by (user, category,
// fact_key) at the storage layer; re-learning an existing key
// overwrites the value and accumulates evidence.
type Fact struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	Category        string     `json:"category"`
	FactType        string     `json:"fact_type"`
	FactKey         string     `json:"fact_key"`
	FactValue       string     `json:"fact_value"`
	ConfidenceLevel Confidence `json:"confidence_level"`
	EvidenceCount   int        `json:"evidence_count"`
	LearningMethod  string     `json:"learning_method,omitempty"`
	FirstObserved   time.Time  `json:"first_observed"`
	LastUpdated     time.Time  `json:"last_updated"`
}
