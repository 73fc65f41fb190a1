package store

import (
	"context"
	"errors"

	"github.com/dmarlow/persona/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FactStore struct {
	db *pgxpool.Pool
}

func NewFactStore(db *pgxpool.Pool) *FactStore {
	return &FactStore{db: db}
}

const factColumns = `id, user_id, category, fact_type, fact_key, fact_value,
	confidence_level, evidence_count, learning_method, first_observed, last_updated`

// Upsert inserts or merges on the (user_id, category, fact_key) unique
// key: the value and confidence are overwritten, evidence accumulates.
// The fact is updated in place with the stored row; the bool reports
// whether a new row was created.
func (s *FactStore) Upsert(ctx context.Context, f *domain.Fact) (bool, error) {
	var created bool
	err := s.db.QueryRow(ctx,
		`INSERT INTO learned_facts
		   (user_id, category, fact_type, fact_key, fact_value,
		    confidence_level, evidence_count, learning_method)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (user_id, category, fact_key) DO UPDATE SET
		   fact_value = EXCLUDED.fact_value,
		   confidence_level = EXCLUDED.confidence_level,
		   evidence_count = learned_facts.evidence_count + EXCLUDED.evidence_count,
		   last_updated = now()
		 RETURNING id, evidence_count, first_observed, last_updated, (xmax = 0)`,
		f.UserID, f.Category, f.FactType, f.FactKey, f.FactValue,
		f.ConfidenceLevel, f.EvidenceCount, f.LearningMethod,
	).Scan(&f.ID, &f.EvidenceCount, &f.FirstObserved, &f.LastUpdated, &created)
	return created, err
}

func (s *FactStore) ListByUser(ctx context.Context, userID uuid.UUID, category string) ([]domain.Fact, error) {
	query := `SELECT ` + factColumns + `
		 FROM learned_facts
		 WHERE user_id = $1`
	args := []any{userID}
	if category != "" {
		query += ` AND category = $2`
		args = append(args, category)
	}
	query += `
		 ORDER BY
		   CASE confidence_level
		     WHEN 'verified' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3
		   END,
		   evidence_count DESC,
		   last_updated DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var facts []domain.Fact
	for rows.Next() {
		var f domain.Fact
		if err := rows.Scan(
			&f.ID, &f.UserID, &f.Category, &f.FactType, &f.FactKey, &f.FactValue,
			&f.ConfidenceLevel, &f.EvidenceCount, &f.LearningMethod,
			&f.FirstObserved, &f.LastUpdated,
		); err != nil {
			return nil, err
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

func (s *FactStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Fact, error) {
	var f domain.Fact
	err := s.db.QueryRow(ctx,
		`SELECT `+factColumns+` FROM learned_facts WHERE id = $1`,
		id,
	).Scan(
		&f.ID, &f.UserID, &f.Category, &f.FactType, &f.FactKey, &f.FactValue,
		&f.ConfidenceLevel, &f.EvidenceCount, &f.LearningMethod,
		&f.FirstObserved, &f.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// SetConfirmed promotes a confirmed fact to verified confidence; a
// rejected fact drops to low.
func (s *FactStore) SetConfirmed(ctx context.Context, id uuid.UUID, confirmed bool) error {
	level := domain.ConfidenceVerified
	if !confirmed {
		level = domain.ConfidenceLow
	}
	_, err := s.db.Exec(ctx,
		`UPDATE learned_facts SET confidence_level = $2, last_updated = now() WHERE id = $1`,
		id, level,
	)
	return err
}
