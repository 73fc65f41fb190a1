package store

import (
	"context"
	"errors"

	"github.com/dmarlow/persona/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserStore struct {
	db *pgxpool.Pool
}

func NewUserStore(db *pgxpool.Pool) *UserStore {
	return &UserStore{db: db}
}

// Create inserts the user along with an empty default profile.
func (s *UserStore) Create(ctx context.Context, u *domain.User) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`INSERT INTO users (username, email, is_active, data_sharing_consent, learning_enabled)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, last_active, retention_days`,
		u.Username, nullable(u.Email), u.IsActive, u.DataSharingConsent, u.LearningEnabled,
	).Scan(&u.ID, &u.CreatedAt, &u.LastActive, &u.RetentionDays)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO user_profiles (user_id) VALUES ($1)`,
		u.ID,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.get(ctx, `u.id = $1`, id)
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.get(ctx, `u.username = $1`, username)
}

func (s *UserStore) get(ctx context.Context, where string, arg any) (*domain.User, error) {
	var (
		u     domain.User
		p     domain.UserProfile
		email *string
	)
	err := s.db.QueryRow(ctx,
		`SELECT u.id, u.username, u.email, u.created_at, u.last_active, u.is_active,
		        u.data_sharing_consent, u.learning_enabled, u.retention_days,
		        p.preferred_language, p.communication_style, p.response_length_preference,
		        p.technical_level, p.explanation_detail_level, p.prefers_examples,
		        p.interests, p.hobbies, p.updated_at
		 FROM users u
		 JOIN user_profiles p ON p.user_id = u.id
		 WHERE `+where,
		arg,
	).Scan(
		&u.ID, &u.Username, &email, &u.CreatedAt, &u.LastActive, &u.IsActive,
		&u.DataSharingConsent, &u.LearningEnabled, &u.RetentionDays,
		&p.PreferredLanguage, &p.CommunicationStyle, &p.ResponseLengthPreference,
		&p.TechnicalLevel, &p.ExplanationDetailLevel, &p.PrefersExamples,
		&p.Interests, &p.Hobbies, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if email != nil {
		u.Email = *email
	}
	p.UserID = u.ID
	u.Profile = &p
	return &u, nil
}

func (s *UserStore) TouchActivity(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.Exec(ctx,
		`UPDATE users SET last_active = now() WHERE id = $1`,
		id,
	)
	return err
}

func (s *UserStore) UpdateProfile(ctx context.Context, p *domain.UserProfile) error {
	_, err := s.db.Exec(ctx,
		`UPDATE user_profiles
		 SET preferred_language = $2,
		     communication_style = $3,
		     response_length_preference = $4,
		     technical_level = $5,
		     explanation_detail_level = $6,
		     prefers_examples = $7,
		     interests = $8,
		     hobbies = $9,
		     updated_at = now()
		 WHERE user_id = $1`,
		p.UserID, p.PreferredLanguage, p.CommunicationStyle, p.ResponseLengthPreference,
		p.TechnicalLevel, p.ExplanationDetailLevel, p.PrefersExamples,
		p.Interests, p.Hobbies,
	)
	return err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
