package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kavi/kavi-backend/internal/domain"
)

// ScoreHistoryRepository implements domain.ScoreHistoryRepository using PostgreSQL
type ScoreHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewScoreHistoryRepository creates a new ScoreHistoryRepository
func NewScoreHistoryRepository(pool *pgxpool.Pool) *ScoreHistoryRepository {
	return &ScoreHistoryRepository{pool: pool}
}

// Save stores a credit score record, filling in ID and CreatedAt
func (r *ScoreHistoryRepository) Save(ctx context.Context, record *domain.CreditScoreRecord) error {
	result, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("encode score result: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO credit_scores (user_id, business_id, score, category, result)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		record.UserID, record.BusinessID, record.Score, string(record.Category), result)
	if err := row.Scan(&record.ID, &record.CreatedAt); err != nil {
		return fmt.Errorf("save credit score: %w", err)
	}
	return nil
}

// Latest returns the newest score of the user, optionally for one business
func (r *ScoreHistoryRepository) Latest(ctx context.Context, userID uuid.UUID, businessID *uuid.UUID) (*domain.CreditScoreRecord, error) {
	where := &whereBuilder{}
	where.add("user_id = $%d", userID)
	if businessID != nil {
		where.add("business_id = $%d", *businessID)
	}

	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, business_id, score, category, result, created_at
		FROM credit_scores
		WHERE `+where.String()+`
		ORDER BY created_at DESC
		LIMIT 1`, where.args...)

	var (
		rec      domain.CreditScoreRecord
		category string
		result   []byte
	)
	err := row.Scan(&rec.ID, &rec.UserID, &rec.BusinessID, &rec.Score, &category, &result, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("latest credit score: %w", err)
	}
	rec.Category = domain.ScoreCategory(category)

	if len(result) > 0 {
		var sr domain.ScoreResult
		if err := json.Unmarshal(result, &sr); err != nil {
			return nil, fmt.Errorf("decode score result: %w", err)
		}
		rec.Result = &sr
	}
	return &rec, nil
}
