package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kavi/kavi-backend/internal/domain"
	"github.com/kavi/kavi-backend/internal/repository/storage"
	"github.com/rs/zerolog/log"
)

// ScoreHistoryService keeps the credit scores shown on summaries and dashboards
type ScoreHistoryService struct {
	repo        domain.ScoreHistoryRepository
	archive     storage.SnapshotArchive
	invalidator *Invalidator
}

// NewScoreHistoryService creates a new ScoreHistoryService. A nil archive
// skips snapshotting.
func NewScoreHistoryService(repo domain.ScoreHistoryRepository, archive storage.SnapshotArchive, invalidator *Invalidator) *ScoreHistoryService {
	return &ScoreHistoryService{
		repo:        repo,
		archive:     archive,
		invalidator: invalidator,
	}
}

// Record stores a computed score and drops the user's cached summaries,
// which display the latest score.
func (s *ScoreHistoryService) Record(ctx context.Context, userID uuid.UUID, result *domain.ScoreResult) (*domain.CreditScoreRecord, error) {
	record := &domain.CreditScoreRecord{
		UserID:     userID,
		BusinessID: result.BusinessID,
		Score:      result.Score,
		Category:   result.Category,
		Result:     result,
		CreatedAt:  result.ComputedAt,
	}
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, err
	}

	if s.archive != nil {
		objectPath := storage.SnapshotPath("credit-scores", userID, record.BusinessID, record.CreatedAt, record.ID)
		if err := s.archive.Archive(ctx, objectPath, record); err != nil {
			log.Warn().Err(err).Str("path", objectPath).Msg("Failed to archive credit score snapshot")
		}
	}

	if s.invalidator != nil {
		businessID := record.BusinessID
		s.invalidator.Invalidate(ctx, userID, &businessID, "credit_score.recorded")
	}
	return record, nil
}

// Latest returns the newest score of the user, or nil when there is none
func (s *ScoreHistoryService) Latest(ctx context.Context, userID uuid.UUID) (*domain.CreditScoreRecord, error) {
	record, err := s.repo.Latest(ctx, userID, nil)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}
