package services

import (
	"context"

	apperrors "gearguessr/internal/errors"
	"gearguessr/internal/logger"
	"gearguessr/internal/models"
	"gearguessr/internal/puzzle"
)

// PuzzleService hands out puzzle instances for the session-tracked and
// batch play paths.
type PuzzleService interface {
	NextPuzzle(ctx context.Context, tierName string, sessionKey string) (*models.Puzzle, error)
	CareerBatch(ctx context.Context, tierName string, count int) ([]models.Puzzle, error)
	ImageURL(imageKey string) string
}

type puzzleService struct {
	selector     *puzzle.Selector
	defaultBatch int
}

// NewPuzzleService creates a new PuzzleService
func NewPuzzleService(selector *puzzle.Selector, defaultBatch int) PuzzleService {
	return &puzzleService{selector: selector, defaultBatch: defaultBatch}
}

func (s *puzzleService) NextPuzzle(ctx context.Context, tierName string, sessionKey string) (*models.Puzzle, error) {
	tier, ok := models.ParseTier(tierName)
	if !ok {
		return nil, apperrors.NewValidationError("level", "unknown difficulty tier "+tierName)
	}
	if sessionKey == "" {
		sessionKey = puzzle.AnonymousSessionKey
	}

	logger.FromContext(ctx).Debug("serving puzzle: tier=%s session=%s", tier, sessionKey)
	return s.selector.Next(ctx, tier, sessionKey)
}

func (s *puzzleService) CareerBatch(ctx context.Context, tierName string, count int) ([]models.Puzzle, error) {
	tier, ok := models.ParseTier(tierName)
	if !ok {
		return nil, apperrors.NewValidationError("level", "unknown difficulty tier "+tierName)
	}
	if count <= 0 {
		count = s.defaultBatch
	}

	logger.FromContext(ctx).Debug("serving career batch: tier=%s count=%d", tier, count)
	return s.selector.Batch(ctx, tier, count)
}

func (s *puzzleService) ImageURL(imageKey string) string {
	return s.selector.ImageURL(imageKey)
}
