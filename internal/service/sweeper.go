package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmarlow/persona/internal/domain"
	"go.uber.org/zap"
)

const defaultSweepInterval = 15 * time.Minute

// SweeperService periodically runs the learning pipeline over every
// user with unprocessed interactions, so batch learning happens even
// when nothing triggers it through the API.
type SweeperService struct {
	interactions domain.InteractionStore
	learning     *LearningService
	logger       *zap.Logger

	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewSweeperService(interactions domain.InteractionStore, learning *LearningService, logger *zap.Logger) *SweeperService {
	return &SweeperService{
		interactions: interactions,
		learning:     learning,
		logger:       logger,
		interval:     defaultSweepInterval,
		stopCh:       make(chan struct{}),
	}
}

func (s *SweeperService) SetInterval(d time.Duration) {
	s.interval = d
}

// Start runs the sweeper on a periodic schedule in a background
// goroutine.
func (s *SweeperService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("learning sweeper started", zap.Duration("interval", s.interval))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
				if err := s.RunOnce(ctx); err != nil {
					s.logger.Error("learning sweep failed", zap.Error(err))
				}
				cancel()
			case <-s.stopCh:
				s.logger.Info("learning sweeper stopped")
				return
			}
		}
	}()
}

func (s *SweeperService) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

// RunOnce sweeps every user with unprocessed interactions. Users with
// learning disabled are skipped.
func (s *SweeperService) RunOnce(ctx context.Context) error {
	userIDs, err := s.interactions.ListUserIDsWithUnprocessed(ctx)
	if err != nil {
		return err
	}

	swept := 0
	for _, userID := range userIDs {
		result, err := s.learning.LearnUser(ctx, userID)
		if err != nil {
			if errors.Is(err, ErrLearningDisabled) {
				continue
			}
			s.logger.Warn("sweep failed for user",
				zap.String("user_id", userID.String()),
				zap.Error(err))
			continue
		}
		swept++
		s.logger.Debug("swept user",
			zap.String("user_id", userID.String()),
			zap.Int("new_facts", len(result.NewFacts)),
			zap.Int("insights", len(result.Insights)))
	}

	if swept > 0 {
		s.logger.Info("learning sweep complete",
			zap.Int("users", swept),
			zap.Int("candidates", len(userIDs)))
	}
	return nil
}
