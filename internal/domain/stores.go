package domain

import (
	"context"

	"github.com/google/uuid"
)

type UserStore interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	TouchActivity(ctx context.Context, id uuid.UUID) error
	UpdateProfile(ctx context.Context, profile *UserProfile) error
}

type InteractionStore interface {
	Create(ctx context.Context, interaction *Interaction) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Interaction, error)
	ListUnprocessed(ctx context.Context, userID uuid.UUID) ([]Interaction, error)
	// SaveAnalysis writes the enrichment fields (sentiment, topics,
	// intent) back to an existing row.
	SaveAnalysis(ctx context.Context, interaction *Interaction) error
	MarkProcessed(ctx context.Context, ids []uuid.UUID) error
	ListUserIDsWithUnprocessed(ctx context.Context) ([]uuid.UUID, error)
}

type FactStore interface {
	// Upsert inserts the fact or, when (user_id, category, fact_key)
	// already exists, overwrites the value and accumulates the evidence
	// count. Returns true when a new row was created.
	Upsert(ctx context.Context, fact *Fact) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, category string) ([]Fact, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Fact, error)
	// SetConfirmed marks a fact verified (confirmed) or drops it back to
	// low confidence (rejected).
	SetConfirmed(ctx context.Context, id uuid.UUID, confirmed bool) error
}
