package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "gearguessr/internal/errors"
	"gearguessr/internal/jobs"
	"gearguessr/internal/logger"
	"gearguessr/internal/models"
	"gearguessr/internal/notify"
	"gearguessr/internal/repository"
)

// ChallengeService manages head-to-head invitations between players.
type ChallengeService interface {
	Create(ctx context.Context, creator models.PlayerRecord, targetUserID, gameMode, difficulty string) (*models.Challenge, error)
	Get(ctx context.Context, challengeID string, userID string) (*models.Challenge, error)
	Respond(ctx context.Context, challengeID string, userID string, accept bool) (*models.Challenge, error)
	ListForPlayer(ctx context.Context, userID string) ([]models.Challenge, error)
}

type challengeService struct {
	challenges repository.ChallengeRepository
	players    repository.PlayerRepository
	dispatcher jobs.Dispatcher
	ttl        time.Duration
	now        func() time.Time
	newID      func() string
}

// NewChallengeService creates a new ChallengeService
func NewChallengeService(challenges repository.ChallengeRepository, players repository.PlayerRepository, dispatcher jobs.Dispatcher, ttl time.Duration) ChallengeService {
	return &challengeService{
		challenges: challenges,
		players:    players,
		dispatcher: dispatcher,
		ttl:        ttl,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

func (s *challengeService) Create(ctx context.Context, creator models.PlayerRecord, targetUserID, gameMode, difficulty string) (*models.Challenge, error) {
	log := logger.FromContext(ctx)

	if targetUserID == "" || targetUserID == creator.UserID {
		return nil, apperrors.NewValidationError("targetPlayerId", "must be another player")
	}
	if mode, ok := models.ParseMode(gameMode); !ok || !mode.Scoring() {
		return nil, apperrors.NewValidationError("gameMode", "must be a playable mode")
	}
	if _, ok := models.ParseTier(difficulty); !ok {
		return nil, apperrors.NewValidationError("difficulty", "unknown difficulty tier "+difficulty)
	}

	target, err := s.players.Get(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperrors.NewNotFoundError("player", targetUserID)
	}

	now := s.now().UTC()
	challenge := models.Challenge{
		ChallengeID:      s.newID(),
		CreatorID:        creator.UserID,
		CreatorName:      displayName(creator),
		TargetPlayerID:   target.UserID,
		TargetPlayerName: displayName(*target),
		GameMode:         gameMode,
		Difficulty:       difficulty,
		Status:           models.ChallengePending,
		CreatedAt:        now,
		ExpiresAt:        now.Add(s.ttl),
	}
	if err := s.challenges.Insert(ctx, challenge); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	log.Info("challenge created: id=%s %s -> %s", challenge.ChallengeID, creator.UserID, target.UserID)

	s.dispatcher.EnqueueNotification(target.UserID, notify.Message{
		Type:        "challenge_received",
		Title:       "New challenge!",
		Body:        fmt.Sprintf("%s challenged you to a %s duel", challenge.CreatorName, gameMode),
		ChallengeID: challenge.ChallengeID,
		FromUserID:  creator.UserID,
	})
	// Piggyback expiry housekeeping on create traffic instead of a timer.
	s.dispatcher.EnqueueChallengeCleanup()

	return &challenge, nil
}

// Get returns one challenge, visible only to its two participants.
func (s *challengeService) Get(ctx context.Context, challengeID string, userID string) (*models.Challenge, error) {
	challenge, err := s.challenges.Get(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, apperrors.NewNotFoundError("challenge", challengeID)
	}
	if challenge.CreatorID != userID && challenge.TargetPlayerID != userID {
		return nil, apperrors.NewNotFoundError("challenge", challengeID)
	}
	return challenge, nil
}

func (s *challengeService) Respond(ctx context.Context, challengeID string, userID string, accept bool) (*models.Challenge, error) {
	log := logger.FromContext(ctx)

	challenge, err := s.challenges.Get(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, apperrors.NewNotFoundError("challenge", challengeID)
	}
	if challenge.TargetPlayerID != userID {
		return nil, apperrors.NewUnauthorizedError("only the challenged player can respond")
	}
	now := s.now().UTC()
	if challenge.Expired(now) {
		return nil, apperrors.NewNotFoundError("challenge", challengeID)
	}

	status := models.ChallengeAccepted
	msgType, title := "challenge_accepted", "Challenge accepted!"
	if !accept {
		status = models.ChallengeDeclined
		msgType, title = "challenge_declined", "Challenge declined"
	}

	if err := s.challenges.UpdateStatus(ctx, challengeID, status, now); err != nil {
		return nil, err
	}
	challenge.Status = status
	if accept {
		challenge.AcceptedAt = &now
	} else {
		challenge.DeclinedAt = &now
	}
	log.Info("challenge %s: id=%s by %s", status, challengeID, userID)

	s.dispatcher.EnqueueNotification(challenge.CreatorID, notify.Message{
		Type:        msgType,
		Title:       title,
		Body:        fmt.Sprintf("%s %s your challenge", challenge.TargetPlayerName, status),
		ChallengeID: challenge.ChallengeID,
		FromUserID:  userID,
	})

	return challenge, nil
}

func (s *challengeService) ListForPlayer(ctx context.Context, userID string) ([]models.Challenge, error) {
	challenges, err := s.challenges.ListForPlayer(ctx, userID, 50)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	// Lapsed pending invitations are filtered on read; the cleanup job
	// deletes them lazily.
	now := s.now().UTC()
	out := challenges[:0]
	for _, c := range challenges {
		if c.Status == models.ChallengePending && c.Expired(now) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
