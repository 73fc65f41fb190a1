package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dmarlow/persona/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newInteractionTestService(learnOnIngest bool) (*InteractionService, *mockUserStore, *mockInteractionStore) {
	users := newMockUserStore()
	interactions := newMockInteractionStore()
	facts := newMockFactStore()
	learning := NewLearningService(users, interactions, facts, zap.NewNop())
	svc := NewInteractionService(users, interactions, learning, learnOnIngest, zap.NewNop())
	return svc, users, interactions
}

func TestRecord_Validation(t *testing.T) {
	svc, users, _ := newInteractionTestService(false)
	user := users.addUser(true)

	tests := []struct {
		name    string
		userID  uuid.UUID
		input   RecordInput
		wantErr error
	}{
		{
			name:    "empty content",
			userID:  user.ID,
			input:   RecordInput{},
			wantErr: ErrContentRequired,
		},
		{
			name:    "invalid type",
			userID:  user.ID,
			input:   RecordInput{Type: "telepathy", Content: "hi"},
			wantErr: ErrInvalidInteractionType,
		},
		{
			name:    "unknown user",
			userID:  uuid.New(),
			input:   RecordInput{Content: "hi"},
			wantErr: ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Record(context.Background(), tt.userID, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecord_Defaults(t *testing.T) {
	svc, users, _ := newInteractionTestService(false)
	user := users.addUser(true)

	interaction, result, err := svc.Record(context.Background(), user.ID, RecordInput{Content: "the sky today"})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if interaction.Type != domain.InteractionMessage {
		t.Errorf("Type = %q, want %q", interaction.Type, domain.InteractionMessage)
	}
	if interaction.Source != "api" {
		t.Errorf("Source = %q, want \"api\"", interaction.Source)
	}
	if interaction.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
	if result != nil {
		t.Errorf("learning result = %+v, want nil with ingest learning off", result)
	}
}

func TestRecord_InlineLearning(t *testing.T) {
	svc, users, interactions := newInteractionTestService(true)
	user := users.addUser(true)

	interaction, result, err := svc.Record(context.Background(), user.ID, RecordInput{Content: "I love guitar"})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if result == nil {
		t.Fatal("learning result = nil, want inline learning to run")
	}
	if result.InteractionsProcessed != 1 {
		t.Errorf("InteractionsProcessed = %d, want 1", result.InteractionsProcessed)
	}
	stored := interactions.interactions[interaction.ID]
	if !stored.Processed {
		t.Error("stored interaction not marked processed")
	}
	if stored.Sentiment == nil {
		t.Error("stored interaction missing analysis")
	}
}

func TestRecord_InlineLearningSkippedWhenDisabled(t *testing.T) {
	svc, users, interactions := newInteractionTestService(true)
	user := users.addUser(false)

	interaction, result, err := svc.Record(context.Background(), user.ID, RecordInput{Content: "I love guitar"})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if result != nil {
		t.Errorf("learning result = %+v, want nil for learning-disabled user", result)
	}
	if interactions.interactions[interaction.ID].Processed {
		t.Error("interaction processed despite learning being disabled")
	}
}

func TestList_UnknownUser(t *testing.T) {
	svc, _, _ := newInteractionTestService(false)

	if _, err := svc.List(context.Background(), uuid.New(), 10, 0); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}
