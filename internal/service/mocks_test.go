package service

import (
	"context"
	"time"

	"github.com/dmarlow/persona/internal/domain"
	"github.com/dmarlow/persona/internal/store"
	"github.com/google/uuid"
)

// mockUserStore implements domain.UserStore for testing.
type mockUserStore struct {
	users map[uuid.UUID]*domain.User
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (m *mockUserStore) addUser(learningEnabled bool) *domain.User {
	user := &domain.User{
		ID:              uuid.New(),
		Username:        "user-" + uuid.NewString()[:8],
		IsActive:        true,
		LearningEnabled: learningEnabled,
		CreatedAt:       time.Now().UTC(),
		LastActive:      time.Now().UTC(),
		Profile:         &domain.UserProfile{},
	}
	m.users[user.ID] = user
	return user
}

func (m *mockUserStore) Create(ctx context.Context, u *domain.User) error {
	u.ID = uuid.New()
	u.CreatedAt = time.Now().UTC()
	u.LastActive = u.CreatedAt
	m.users[u.ID] = u
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (m *mockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockUserStore) TouchActivity(ctx context.Context, id uuid.UUID) error {
	u, ok := m.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.LastActive = time.Now().UTC()
	return nil
}

func (m *mockUserStore) UpdateProfile(ctx context.Context, p *domain.UserProfile) error {
	u, ok := m.users[p.UserID]
	if !ok {
		return store.ErrNotFound
	}
	u.Profile = p
	return nil
}

// mockInteractionStore implements domain.InteractionStore for testing.
type mockInteractionStore struct {
	interactions map[uuid.UUID]*domain.Interaction
	saved        []uuid.UUID // SaveAnalysis call order
}

func newMockInteractionStore() *mockInteractionStore {
	return &mockInteractionStore{interactions: make(map[uuid.UUID]*domain.Interaction)}
}

func (m *mockInteractionStore) Create(ctx context.Context, it *domain.Interaction) error {
	it.ID = uuid.New()
	if it.Timestamp.IsZero() {
		it.Timestamp = time.Now().UTC()
	}
	stored := *it
	m.interactions[it.ID] = &stored
	return nil
}

func (m *mockInteractionStore) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Interaction, error) {
	var out []domain.Interaction
	for _, it := range m.interactions {
		if it.UserID == userID {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (m *mockInteractionStore) ListUnprocessed(ctx context.Context, userID uuid.UUID) ([]domain.Interaction, error) {
	var out []domain.Interaction
	for _, it := range m.interactions {
		if it.UserID == userID && !it.Processed {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (m *mockInteractionStore) SaveAnalysis(ctx context.Context, it *domain.Interaction) error {
	stored, ok := m.interactions[it.ID]
	if !ok {
		return store.ErrNotFound
	}
	stored.Sentiment = it.Sentiment
	stored.Topics = it.Topics
	stored.Intent = it.Intent
	m.saved = append(m.saved, it.ID)
	return nil
}

func (m *mockInteractionStore) MarkProcessed(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		if it, ok := m.interactions[id]; ok {
			it.Processed = true
		}
	}
	return nil
}

func (m *mockInteractionStore) ListUserIDsWithUnprocessed(ctx context.Context) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool)
	var out []uuid.UUID
	for _, it := range m.interactions {
		if !it.Processed && !seen[it.UserID] {
			seen[it.UserID] = true
			out = append(out, it.UserID)
		}
	}
	return out, nil
}

// mockFactStore implements domain.FactStore with the same conflict
// semantics as the real store: value overwritten, evidence accumulated.
type mockFactStore struct {
	facts map[uuid.UUID]*domain.Fact
}

func newMockFactStore() *mockFactStore {
	return &mockFactStore{facts: make(map[uuid.UUID]*domain.Fact)}
}

func (m *mockFactStore) find(userID uuid.UUID, category, factKey string) *domain.Fact {
	for _, f := range m.facts {
		if f.UserID == userID && f.Category == category && f.FactKey == factKey {
			return f
		}
	}
	return nil
}

func (m *mockFactStore) Upsert(ctx context.Context, f *domain.Fact) (bool, error) {
	now := time.Now().UTC()
	if existing := m.find(f.UserID, f.Category, f.FactKey); existing != nil {
		existing.FactValue = f.FactValue
		existing.ConfidenceLevel = f.ConfidenceLevel
		existing.EvidenceCount += f.EvidenceCount
		existing.LastUpdated = now
		*f = *existing
		return false, nil
	}
	f.ID = uuid.New()
	f.FirstObserved = now
	f.LastUpdated = now
	stored := *f
	m.facts[f.ID] = &stored
	return true, nil
}

func (m *mockFactStore) ListByUser(ctx context.Context, userID uuid.UUID, category string) ([]domain.Fact, error) {
	var out []domain.Fact
	for _, f := range m.facts {
		if f.UserID != userID {
			continue
		}
		if category != "" && f.Category != category {
			continue
		}
		out = append(out, *f)
	}
	return out, nil
}

func (m *mockFactStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Fact, error) {
	f, ok := m.facts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return f, nil
}

func (m *mockFactStore) SetConfirmed(ctx context.Context, id uuid.UUID, confirmed bool) error {
	f, ok := m.facts[id]
	if !ok {
		return store.ErrNotFound
	}
	if confirmed {
		f.ConfidenceLevel = domain.ConfidenceVerified
	} else {
		f.ConfidenceLevel = domain.ConfidenceLow
	}
	return nil
}
