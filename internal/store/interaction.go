package store

import (
	"context"

	"github.com/dmarlow/persona/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InteractionStore struct {
	db *pgxpool.Pool
}

func NewInteractionStore(db *pgxpool.Pool) *InteractionStore {
	return &InteractionStore{db: db}
}

const interactionColumns = `id, user_id, interaction_type, content, context, session_id, source,
	timestamp, sentiment, topics, intent, processed`

func (s *InteractionStore) Create(ctx context.Context, it *domain.Interaction) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO user_interactions
		   (user_id, interaction_type, content, context, session_id, source, timestamp)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, timestamp`,
		it.UserID, it.Type, it.Content, it.Context, it.SessionID, it.Source, it.Timestamp,
	).Scan(&it.ID, &it.Timestamp)
}

func (s *InteractionStore) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Interaction, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+interactionColumns+`
		 FROM user_interactions
		 WHERE user_id = $1
		 ORDER BY timestamp DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInteractions(rows)
}

func (s *InteractionStore) ListUnprocessed(ctx context.Context, userID uuid.UUID) ([]domain.Interaction, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+interactionColumns+`
		 FROM user_interactions
		 WHERE user_id = $1 AND NOT processed
		 ORDER BY timestamp ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInteractions(rows)
}

func (s *InteractionStore) SaveAnalysis(ctx context.Context, it *domain.Interaction) error {
	_, err := s.db.Exec(ctx,
		`UPDATE user_interactions
		 SET sentiment = $2, topics = $3, intent = $4
		 WHERE id = $1`,
		it.ID, it.Sentiment, it.Topics, it.Intent,
	)
	return err
}

func (s *InteractionStore) MarkProcessed(ctx context.Context, ids []uuid.UUID) error {
	_, err := s.db.Exec(ctx,
		`UPDATE user_interactions SET processed = true WHERE id = ANY($1)`,
		ids,
	)
	return err
}

func (s *InteractionStore) ListUserIDsWithUnprocessed(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.db.Query(ctx,
		`SELECT DISTINCT user_id FROM user_interactions WHERE NOT processed`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type interactionRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanInteractions(rows interactionRows) ([]domain.Interaction, error) {
	var interactions []domain.Interaction
	for rows.Next() {
		var (
			it        domain.Interaction
			sessionID *string
			source    *string
			intent    *string
		)
		if err := rows.Scan(
			&it.ID, &it.UserID, &it.Type, &it.Content, &it.Context, &sessionID, &source,
			&it.Timestamp, &it.Sentiment, &it.Topics, &intent, &it.Processed,
		); err != nil {
			return nil, err
		}
		if sessionID != nil {
			it.SessionID = *sessionID
		}
		if source != nil {
			it.Source = *source
		}
		if intent != nil {
			it.Intent = *intent
		}
		interactions = append(interactions, it)
	}
	return interactions, rows.Err()
}
