package service

import (
	"context"
	"errors"
	"time"

	"github.com/dmarlow/persona/internal/domain"
	"github.com/dmarlow/persona/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrContentRequired        = errors.New("interaction content is required")
	ErrInvalidInteractionType = errors.New("invalid interaction type")
)

// InteractionService records interactions and, when the user has
// learning enabled, runs the learning pipeline over each new one
// inline.
type InteractionService struct {
	users         domain.UserStore
	interactions  domain.InteractionStore
	learning      *LearningService
	learnOnIngest bool
	logger        *zap.Logger
}

func NewInteractionService(
	users domain.UserStore,
	interactions domain.InteractionStore,
	learning *LearningService,
	learnOnIngest bool,
	logger *zap.Logger,
) *InteractionService {
	return &InteractionService{
		users:         users,
		interactions:  interactions,
		learning:      learning,
		learnOnIngest: learnOnIngest,
		logger:        logger,
	}
}

type RecordInput struct {
	Type      string
	Content   string
	Context   map[string]any
	SessionID string
	Source    string
}

// Record persists a new interaction. Returns the stored interaction
// and, when inline learning ran, its result.
func (s *InteractionService) Record(ctx context.Context, userID uuid.UUID, input RecordInput) (*domain.Interaction, *domain.LearningResult, error) {
	if input.Content == "" {
		return nil, nil, ErrContentRequired
	}

	interactionType := input.Type
	if interactionType == "" {
		interactionType = string(domain.InteractionMessage)
	}
	if !domain.ValidInteractionType(interactionType) {
		return nil, nil, ErrInvalidInteractionType
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	source := input.Source
	if source == "" {
		source = "api"
	}

	interaction := &domain.Interaction{
		UserID:    userID,
		Type:      domain.InteractionType(interactionType),
		Content:   input.Content,
		Context:   input.Context,
		SessionID: input.SessionID,
		Source:    source,
		Timestamp: time.Now().UTC(),
	}
	if err := s.interactions.Create(ctx, interaction); err != nil {
		return nil, nil, err
	}

	if !s.learnOnIngest || !user.LearningEnabled {
		return interaction, nil, nil
	}

	result, err := s.learning.LearnInteractions(ctx, userID, []domain.Interaction{*interaction})
	if err != nil {
		// Ingest already succeeded; a learning failure is not surfaced
		// to the caller.
		s.logger.Warn("inline learning failed",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return interaction, nil, nil
	}

	return interaction, result, nil
}

func (s *InteractionService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Interaction, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.interactions.ListByUser(ctx, userID, limit, offset)
}
