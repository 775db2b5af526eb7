package repository

import (
	"context"
	"time"

	"gearguessr/internal/models"
)

// PlayerRepository is the persisted profile store. Get returns
// (nil, nil) when the player does not exist.
type PlayerRepository interface {
	Get(ctx context.Context, userID string) (*models.PlayerRecord, error)
	// Put writes the whole record, creating it if absent. Reserved for
	// first-time creation and cosmetic profile fields; stat mutations
	// must go through AtomicApply.
	Put(ctx context.Context, record models.PlayerRecord) error
	// AtomicApply runs apply against the current record inside a single
	// transaction and persists the result, so concurrent updates for
	// the same user cannot lose writes. Fails with NotFound when the
	// record does not exist.
	AtomicApply(ctx context.Context, userID string, apply func(*models.PlayerRecord) error) (*models.PlayerRecord, error)
	// Rekey moves a record to a new user id, preserving everything else.
	Rekey(ctx context.Context, oldUserID, newUserID string) error
	FindByEmail(ctx context.Context, email string) (*models.PlayerRecord, error)
	// UsernameExists checks case-insensitively. excludeUserID skips the
	// caller's own record so a player can re-assert their own name.
	UsernameExists(ctx context.Context, username string, excludeUserID string) (bool, error)
	List(ctx context.Context, filter models.PlayerFilter) ([]models.PlayerRecord, error)
	Count(ctx context.Context) (int, error)
	UpdateLastActivity(ctx context.Context, userID string, at time.Time) error
}

// ChallengeRepository handles head-to-head challenge invitations.
type ChallengeRepository interface {
	Insert(ctx context.Context, challenge models.Challenge) error
	Get(ctx context.Context, challengeID string) (*models.Challenge, error)
	UpdateStatus(ctx context.Context, challengeID string, status models.ChallengeStatus, at time.Time) error
	// ListForPlayer returns challenges where the player is creator or
	// target, newest first.
	ListForPlayer(ctx context.Context, userID string, limit int) ([]models.Challenge, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
