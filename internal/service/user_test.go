package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dmarlow/persona/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newUserTestService() (*UserService, *mockUserStore) {
	users := newMockUserStore()
	return NewUserService(users, zap.NewNop()), users
}

func TestCreateUser(t *testing.T) {
	svc, _ := newUserTestService()

	user, err := svc.Create(context.Background(), CreateUserInput{
		Username:        "marla",
		Email:           "marla@example.com",
		LearningEnabled: true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID == uuid.Nil {
		t.Error("ID not assigned")
	}
	if !user.IsActive {
		t.Error("new user should be active")
	}

	if _, err := svc.Create(context.Background(), CreateUserInput{Username: "marla"}); !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate username: err = %v, want ErrUserExists", err)
	}
	if _, err := svc.Create(context.Background(), CreateUserInput{}); !errors.Is(err, ErrUsernameRequired) {
		t.Errorf("empty username: err = %v, want ErrUsernameRequired", err)
	}
}

func TestGetUser(t *testing.T) {
	svc, users := newUserTestService()
	user := users.addUser(true)
	before := user.LastActive

	got, err := svc.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("ID = %v, want %v", got.ID, user.ID)
	}
	if users.users[user.ID].LastActive.Before(before) {
		t.Error("Get did not touch last activity")
	}

	if _, err := svc.Get(context.Background(), uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user: err = %v, want ErrUserNotFound", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, users := newUserTestService()
	user := users.addUser(true)

	profile := &domain.UserProfile{
		CommunicationStyle: "casual",
		TechnicalLevel:     "advanced",
		Interests:          []string{"music"},
	}
	if err := svc.UpdateProfile(context.Background(), user.ID, profile); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if profile.UserID != user.ID {
		t.Errorf("profile UserID = %v, want %v", profile.UserID, user.ID)
	}
	if users.users[user.ID].Profile.CommunicationStyle != "casual" {
		t.Error("profile not stored")
	}

	if err := svc.UpdateProfile(context.Background(), uuid.New(), profile); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user: err = %v, want ErrUserNotFound", err)
	}
}
