package services

import (
	"context"

	apperrors "gearguessr/internal/errors"
	"gearguessr/internal/logger"
	"gearguessr/internal/models"
	"gearguessr/internal/repository"
	"gearguessr/internal/rules"
)

// GameService owns the round-submission pipeline: validate the
// submission, fold it into the player's stats, and persist atomically.
type GameService interface {
	GetGameData(ctx context.Context, identity models.Identity) (*models.PlayerRecord, error)
	UpdateGameData(ctx context.Context, identity models.Identity, sub models.Submission) (*models.PlayerRecord, error)
}

type gameService struct {
	players   repository.PlayerRepository
	profiles  ProfileService
	validator *rules.Validator
	engine    *rules.Engine
}

// NewGameService creates a new GameService
func NewGameService(players repository.PlayerRepository, profiles ProfileService, validator *rules.Validator, engine *rules.Engine) GameService {
	return &gameService{
		players:   players,
		profiles:  profiles,
		validator: validator,
		engine:    engine,
	}
}

func (s *gameService) GetGameData(ctx context.Context, identity models.Identity) (*models.PlayerRecord, error) {
	return s.profiles.EnsurePlayer(ctx, identity)
}

func (s *gameService) UpdateGameData(ctx context.Context, identity models.Identity, sub models.Submission) (*models.PlayerRecord, error) {
	log := logger.FromContext(ctx)

	// Ensure the record exists before the atomic path, which requires it.
	if _, err := s.profiles.EnsurePlayer(ctx, identity); err != nil {
		return nil, err
	}

	mode, ok := models.ParseMode(sub.Mode)
	if !ok {
		return nil, apperrors.NewValidationError("mode", "unknown mode "+sub.Mode)
	}

	// Username changes are identity work, not stat work.
	if mode == models.ModeProfileUpdate {
		if sub.ProfileData == nil {
			return nil, apperrors.NewValidationError("profileData", "missing")
		}
		return s.profiles.SetupUsername(ctx, identity.SubjectID, sub.ProfileData.Username)
	}

	// Validation and mutation both run against the in-transaction state
	// so concurrent submissions from the same user serialize cleanly.
	updated, err := s.players.AtomicApply(ctx, identity.SubjectID, func(rec *models.PlayerRecord) error {
		validation, err := s.validator.Validate(ctx, sub, rec.Stats.GameHistory)
		if err != nil {
			return err
		}
		if validation.Overridden {
			log.Info("score override applied: user=%s mode=%s stored=%d", identity.SubjectID, mode, validation.Score)
		}

		stats, err := s.engine.Apply(ctx, rec.Stats, sub, validation)
		if err != nil {
			return err
		}
		rec.Stats = stats
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
