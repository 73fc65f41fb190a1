package service

import (
	"context"
	"errors"

	"github.com/dmarlow/persona/internal/analysis"
	"github.com/dmarlow/persona/internal/domain"
	"github.com/dmarlow/persona/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const analyticsInteractionWindow = 100

type UserSummary struct {
	TotalInteractions int    `json:"total_interactions"`
	TotalFactsLearned int    `json:"total_facts_learned"`
	MemberSince       string `json:"member_since"`
	LastActive        string `json:"last_active"`
}

type InteractionStats struct {
	AverageSentiment float64               `json:"average_sentiment"`
	MostCommonIntent string                `json:"most_common_intent,omitempty"`
	TopTopics        []analysis.TopicCount `json:"top_topics"`
}

type LearningProgress struct {
	FactsByCategory        map[string]int            `json:"facts_by_category"`
	ConfidenceDistribution map[domain.Confidence]int `json:"confidence_distribution"`
	RecentFacts            []domain.Fact             `json:"recent_facts"`
}

type AnalyticsReport struct {
	UserSummary      UserSummary      `json:"user_summary"`
	InteractionStats InteractionStats `json:"interaction_stats"`
	LearningProgress LearningProgress `json:"learning_progress"`
}

// AnalyticsService summarizes what has been observed and learned about
// a user, computed over their most recent interactions.
type AnalyticsService struct {
	users        domain.UserStore
	interactions domain.InteractionStore
	facts        domain.FactStore
	patterns     *analysis.PatternAnalyzer
	logger       *zap.Logger
}

func NewAnalyticsService(
	users domain.UserStore,
	interactions domain.InteractionStore,
	facts domain.FactStore,
	logger *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		users:        users,
		interactions: interactions,
		facts:        facts,
		patterns:     analysis.NewPatternAnalyzer(logger),
		logger:       logger,
	}
}

func (s *AnalyticsService) Report(ctx context.Context, userID uuid.UUID) (*AnalyticsReport, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	recent, err := s.interactions.ListByUser(ctx, userID, analyticsInteractionWindow, 0)
	if err != nil {
		return nil, err
	}

	facts, err := s.facts.ListByUser(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	report := &AnalyticsReport{
		UserSummary: UserSummary{
			TotalInteractions: len(recent),
			TotalFactsLearned: len(facts),
			MemberSince:       user.CreatedAt.Format("2006-01-02"),
			LastActive:        user.LastActive.Format("2006-01-02"),
		},
		InteractionStats: InteractionStats{
			TopTopics: []analysis.TopicCount{},
		},
		LearningProgress: LearningProgress{
			FactsByCategory:        map[string]int{},
			ConfidenceDistribution: map[domain.Confidence]int{},
			RecentFacts:            facts,
		},
	}
	if len(report.LearningProgress.RecentFacts) > 5 {
		report.LearningProgress.RecentFacts = report.LearningProgress.RecentFacts[:5]
	}

	if len(recent) > 0 {
		var sentimentSum float64
		for _, it := range recent {
			if it.Sentiment != nil {
				sentimentSum += *it.Sentiment
			}
		}
		report.InteractionStats.AverageSentiment = sentimentSum / float64(len(recent))
		report.InteractionStats.MostCommonIntent = mostCommonIntent(recent)

		if topics := s.patterns.Analyze(recent).Topics; topics != nil {
			report.InteractionStats.TopTopics = topics.Top
		}
	}

	for _, fact := range facts {
		report.LearningProgress.FactsByCategory[fact.Category]++
		report.LearningProgress.ConfidenceDistribution[fact.ConfidenceLevel]++
	}

	return report, nil
}

// mostCommonIntent picks the modal intent, ties broken by first
// occurrence in the list.
func mostCommonIntent(interactions []domain.Interaction) string {
	counts := map[string]int{}
	var order []string
	for _, it := range interactions {
		if it.Intent == "" {
			continue
		}
		if _, seen := counts[it.Intent]; !seen {
			order = append(order, it.Intent)
		}
		counts[it.Intent]++
	}

	best := ""
	for _, intent := range order {
		if best == "" || counts[intent] > counts[best] {
			best = intent
		}
	}
	return best
}
