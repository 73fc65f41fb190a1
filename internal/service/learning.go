package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmarlow/persona/internal/analysis"
	"github.com/dmarlow/persona/internal/domain"
	"github.com/dmarlow/persona/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrLearningDisabled = errors.New("learning is disabled for this user")
)

const (
	// Fact thresholds.
	topicFactLimit     = 5 // only the top N topics are considered
	topicFactMinCount  = 3 // occurrences needed before a fact is emitted
	topicFactHighCount = 5 // above this, confidence is high

	detailedLengthThreshold = 100
	briefLengthThreshold    = 50

	// Insight thresholds.
	engagementMinInteractions = 10
	recentSentimentWindow     = 10
	positiveSentimentMin      = 0.1
	helpRequestMinCount       = 3

	engagementConfidence = 0.8
	sentimentConfidence  = 0.7
	learningConfidence   = 0.6
)

// LearningService converts raw interactions into learned facts and
// insights. Process is the pure pipeline; LearnUser and
// LearnInteractions add the store-backed orchestration around it.
type LearningService struct {
	users        domain.UserStore
	interactions domain.InteractionStore
	facts        domain.FactStore
	text         *analysis.TextAnalyzer
	patterns     *analysis.PatternAnalyzer
	logger       *zap.Logger
}

func NewLearningService(
	users domain.UserStore,
	interactions domain.InteractionStore,
	facts domain.FactStore,
	logger *zap.Logger,
) *LearningService {
	return &LearningService{
		users:        users,
		interactions: interactions,
		facts:        facts,
		text:         analysis.NewTextAnalyzer(logger),
		patterns:     analysis.NewPatternAnalyzer(logger),
		logger:       logger,
	}
}

// AnalyzeText runs the standalone per-message analysis. Stateless.
func (s *LearningService) AnalyzeText(content string) analysis.TextAnalysis {
	return s.text.Analyze(content)
}

// AnalyzePatterns computes aggregate patterns over an interaction
// history. Stateless.
func (s *LearningService) AnalyzePatterns(interactions []domain.Interaction) analysis.Patterns {
	return s.patterns.Analyze(interactions)
}

// Process runs the full learning pipeline over the given interactions:
// per-interaction enrichment, pattern analysis, fact derivation, and
// insight synthesis. It is pure apart from mutating interaction
// elements in place to fill unset sentiment/topics/intent; callers must
// treat the passed slice as modified. Process never fails: every
// sub-step failure is logged, recorded in Result.Errors, and degraded
// to defaults.
func (s *LearningService) Process(userID uuid.UUID, interactions []domain.Interaction) *domain.LearningResult {
	start := time.Now()
	result := &domain.LearningResult{
		UserID:       userID,
		NewFacts:     []domain.Fact{},
		UpdatedFacts: []domain.Fact{},
		Insights:     []domain.Insight{},
		Errors:       []string{},
	}

	for i := range interactions {
		if interactions[i].Processed {
			continue
		}
		s.enrich(&interactions[i], result)
	}

	var patterns analysis.Patterns
	s.step(result, "pattern analysis", func() {
		patterns = s.patterns.Analyze(interactions)
	})
	s.step(result, "fact generation", func() {
		result.NewFacts = s.factsFromPatterns(userID, patterns)
	})
	s.step(result, "insight generation", func() {
		result.Insights = s.insights(interactions, patterns)
	})

	result.InteractionsProcessed = len(interactions)
	result.ProcessingTimeMs = time.Since(start).Milliseconds()
	return result
}

// enrich fills analysis fields that are not already set; populated
// fields are never overwritten.
func (s *LearningService) enrich(interaction *domain.Interaction, result *domain.LearningResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("interaction analysis failed",
				zap.String("interaction_id", interaction.ID.String()),
				zap.Any("panic", r))
			result.Errors = append(result.Errors,
				fmt.Sprintf("interaction %s: %v", interaction.ID, r))
		}
	}()

	if interaction.Sentiment == nil {
		sentiment := s.text.Sentiment(interaction.Content)
		interaction.Sentiment = &sentiment
	}
	if len(interaction.Topics) == 0 {
		interaction.Topics = s.text.Topics(interaction.Content)
	}
	if interaction.Intent == "" {
		interaction.Intent = s.text.Intent(interaction.Content)
	}
}

// step fault-isolates one pipeline stage: a panic is logged, appended
// to the result's error list, and does not stop later stages.
func (s *LearningService) step(result *domain.LearningResult, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(name+" failed", zap.Any("panic", r))
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", name, r))
		}
	}()
	fn()
}

func (s *LearningService) factsFromPatterns(userID uuid.UUID, patterns analysis.Patterns) []domain.Fact {
	facts := []domain.Fact{}

	if patterns.ActiveHours != nil {
		facts = append(facts, domain.Fact{
			UserID:          userID,
			Category:        domain.CategoryBehavior,
			FactType:        "time_preference",
			FactKey:         "most_active_hour",
			FactValue:       strconv.Itoa(patterns.ActiveHours.MostActiveHour),
			ConfidenceLevel: domain.ConfidenceMedium,
			EvidenceCount:   1,
			LearningMethod:  domain.MethodPatternAnalysis,
		})
	}

	if patterns.Content != nil && patterns.Content.AvgLength > 0 {
		preference := "moderate"
		switch {
		case patterns.Content.AvgLength > detailedLengthThreshold:
			preference = "detailed"
		case patterns.Content.AvgLength < briefLengthThreshold:
			preference = "brief"
		}
		facts = append(facts, domain.Fact{
			UserID:          userID,
			Category:        domain.CategoryCommunication,
			FactType:        "message_length_preference",
			FactKey:         "preferred_response_length",
			FactValue:       preference,
			ConfidenceLevel: domain.ConfidenceMedium,
			EvidenceCount:   1,
			LearningMethod:  domain.MethodPatternAnalysis,
		})
	}

	if patterns.Topics != nil {
		top := patterns.Topics.Top
		if len(top) > topicFactLimit {
			top = top[:topicFactLimit]
		}
		for _, tc := range top {
			if tc.Count < topicFactMinCount {
				continue
			}
			confidence := domain.ConfidenceMedium
			if tc.Count > topicFactHighCount {
				confidence = domain.ConfidenceHigh
			}
			facts = append(facts, domain.Fact{
				UserID:          userID,
				Category:        domain.CategoryInterests,
				FactType:        "topic_interest",
				FactKey:         "interest_" + tc.Topic,
				FactValue:       fmt.Sprintf("Shows strong interest in %s", tc.Topic),
				ConfidenceLevel: confidence,
				EvidenceCount:   tc.Count,
				LearningMethod:  domain.MethodTopicAnalysis,
			})
		}
	}

	return facts
}

func (s *LearningService) insights(interactions []domain.Interaction, patterns analysis.Patterns) []domain.Insight {
	insights := []domain.Insight{}
	now := time.Now().UTC()

	if patterns.Frequency != nil && patterns.Frequency.InteractionCount > engagementMinInteractions {
		insights = append(insights, domain.Insight{
			Category:   "engagement",
			Insight:    "User is highly engaged with frequent interactions",
			Confidence: engagementConfidence,
			Evidence:   []string{fmt.Sprintf("Had %d interactions", patterns.Frequency.InteractionCount)},
			Timestamp:  now,
		})
	}

	if len(interactions) > 0 {
		recent := interactions
		if len(recent) > recentSentimentWindow {
			recent = recent[len(recent)-recentSentimentWindow:]
		}
		var sum float64
		for _, it := range recent {
			if it.Sentiment != nil {
				sum += *it.Sentiment
			}
		}
		avg := sum / float64(len(recent))
		if avg > positiveSentimentMin {
			insights = append(insights, domain.Insight{
				Category:   "communication",
				Insight:    "User generally communicates with positive sentiment",
				Confidence: sentimentConfidence,
				Evidence:   []string{fmt.Sprintf("Average sentiment: %.2f", avg)},
				Timestamp:  now,
			})
		}
	}

	helpRequests := 0
	for _, it := range interactions {
		if it.Intent == analysis.IntentHelpRequest {
			helpRequests++
		}
	}
	if helpRequests > helpRequestMinCount {
		insights = append(insights, domain.Insight{
			Category:   "learning",
			Insight:    "User prefers learning through asking questions",
			Confidence: learningConfidence,
			Evidence:   []string{fmt.Sprintf("Made %d help requests", helpRequests)},
			Timestamp:  now,
		})
	}

	return insights
}

// LearnUser loads the user's unprocessed interactions, runs the
// pipeline over them, and persists the outcome.
func (s *LearningService) LearnUser(ctx context.Context, userID uuid.UUID) (*domain.LearningResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.LearningEnabled {
		return nil, ErrLearningDisabled
	}

	unprocessed, err := s.interactions.ListUnprocessed(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.LearnInteractions(ctx, userID, unprocessed)
}

// LearnInteractions runs Process over the given interactions and
// persists the outcome: enrichment written back, facts upserted (with
// inserted-vs-updated reported on the result), interactions marked
// processed. Persistence failures degrade to result errors; the learned
// result is always returned.
func (s *LearningService) LearnInteractions(ctx context.Context, userID uuid.UUID, interactions []domain.Interaction) (*domain.LearningResult, error) {
	result := s.Process(userID, interactions)

	for i := range interactions {
		if interactions[i].Processed {
			continue
		}
		if err := s.interactions.SaveAnalysis(ctx, &interactions[i]); err != nil {
			s.logger.Warn("failed to save interaction analysis",
				zap.String("interaction_id", interactions[i].ID.String()),
				zap.Error(err))
		}
	}

	newFacts := []domain.Fact{}
	updatedFacts := []domain.Fact{}
	for _, fact := range result.NewFacts {
		created, err := s.facts.Upsert(ctx, &fact)
		if err != nil {
			s.logger.Warn("failed to upsert fact",
				zap.String("fact_key", fact.FactKey),
				zap.Error(err))
			result.Errors = append(result.Errors, fmt.Sprintf("fact %s: %v", fact.FactKey, err))
			continue
		}
		if created {
			newFacts = append(newFacts, fact)
		} else {
			updatedFacts = append(updatedFacts, fact)
		}
	}
	result.NewFacts = newFacts
	result.UpdatedFacts = updatedFacts

	ids := make([]uuid.UUID, 0, len(interactions))
	for _, it := range interactions {
		if !it.Processed {
			ids = append(ids, it.ID)
		}
	}
	if len(ids) > 0 {
		if err := s.interactions.MarkProcessed(ctx, ids); err != nil {
			s.logger.Warn("failed to mark interactions processed", zap.Error(err))
			result.Errors = append(result.Errors, fmt.Sprintf("mark processed: %v", err))
		}
	}

	s.logger.Info("learning run complete",
		zap.String("user_id", userID.String()),
		zap.Int("interactions", result.InteractionsProcessed),
		zap.Int("new_facts", len(result.NewFacts)),
		zap.Int("updated_facts", len(result.UpdatedFacts)),
		zap.Int("insights", len(result.Insights)),
		zap.Int64("duration_ms", result.ProcessingTimeMs))

	return result, nil
}
