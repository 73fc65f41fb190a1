package service

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestSweeper_RunOnce(t *testing.T) {
	users := newMockUserStore()
	interactions := newMockInteractionStore()
	facts := newMockFactStore()
	learning := NewLearningService(users, interactions, facts, zap.NewNop())
	sweeper := NewSweeperService(interactions, learning, zap.NewNop())

	enabled := users.addUser(true)
	disabled := users.addUser(false)

	ctx := context.Background()
	for _, it := range makeInteractions(enabled.ID, "I love guitar", "I love guitar") {
		stored := it
		if err := interactions.Create(ctx, &stored); err != nil {
			t.Fatal(err)
		}
	}
	for _, it := range makeInteractions(disabled.ID, "I love drums") {
		stored := it
		if err := interactions.Create(ctx, &stored); err != nil {
			t.Fatal(err)
		}
	}

	if err := sweeper.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	remaining, _ := interactions.ListUnprocessed(ctx, enabled.ID)
	if len(remaining) != 0 {
		t.Errorf("enabled user still has %d unprocessed interactions", len(remaining))
	}
	skipped, _ := interactions.ListUnprocessed(ctx, disabled.ID)
	if len(skipped) != 1 {
		t.Errorf("disabled user has %d unprocessed interactions, want 1 untouched", len(skipped))
	}
}

func TestSweeper_RunOnceNothingToDo(t *testing.T) {
	users := newMockUserStore()
	interactions := newMockInteractionStore()
	learning := NewLearningService(users, interactions, newMockFactStore(), zap.NewNop())
	sweeper := NewSweeperService(interactions, learning, zap.NewNop())

	if err := sweeper.RunOnce(context.Background()); err != nil {
		t.Errorf("RunOnce on empty store: %v", err)
	}
}
