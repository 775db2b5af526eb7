package repository

import (
	"context"
	"errors"
	"time"

	apperrors "gearguessr/internal/errors"
	"gearguessr/internal/logger"
	"gearguessr/internal/models"
)

// RetryConfig bounds the backoff loop around transient store failures.
type RetryConfig struct {
	Attempts  int
	BaseDelay time.Duration
	Factor    int
}

// DefaultRetryConfig matches the store collaborator's throttling
// characteristics: 3 attempts, 1s base, doubling.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{Attempts: 3, BaseDelay: time.Second, Factor: 2}
}

type retryingPlayerRepository struct {
	inner PlayerRepository
	cfg   RetryConfig
	sleep func(ctx context.Context, d time.Duration) error
}

// RetryOption configures the retry decorator.
type RetryOption func(*retryingPlayerRepository)

// WithSleep injects the backoff sleeper, for tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) RetryOption {
	return func(r *retryingPlayerRepository) {
		r.sleep = sleep
	}
}

// NewRetryingPlayerRepository wraps a PlayerRepository with bounded
// exponential backoff. Only idempotent reads and the atomic update are
// retried; Put and Rekey pass through untouched because repeating a
// partially applied overwrite is not safe.
func NewRetryingPlayerRepository(inner PlayerRepository, cfg RetryConfig, opts ...RetryOption) PlayerRepository {
	r := &retryingPlayerRepository{inner: inner, cfg: cfg, sleep: sleepCtx}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// do retries op on transient errors. Application errors (rejections,
// not-found, conflicts) surface immediately; anything still failing
// after the last attempt is reported as a store outage.
func (r *retryingPlayerRepository) do(ctx context.Context, name string, op func() error) error {
	delay := r.cfg.BaseDelay
	var err error
	for attempt := 1; attempt <= r.cfg.Attempts; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return err
		}
		if attempt < r.cfg.Attempts {
			logger.FromContext(ctx).Warn("%s failed (attempt %d/%d), retrying in %s: %v",
				name, attempt, r.cfg.Attempts, delay, err)
			if serr := r.sleep(ctx, delay); serr != nil {
				return serr
			}
			delay *= time.Duration(r.cfg.Factor)
		}
	}
	return apperrors.NewStoreUnavailableError(err)
}

func (r *retryingPlayerRepository) Get(ctx context.Context, userID string) (*models.PlayerRecord, error) {
	var rec *models.PlayerRecord
	err := r.do(ctx, "player get", func() error {
		var err error
		rec, err = r.inner.Get(ctx, userID)
		return err
	})
	return rec, err
}

func (r *retryingPlayerRepository) Put(ctx context.Context, record models.PlayerRecord) error {
	return r.inner.Put(ctx, record)
}

func (r *retryingPlayerRepository) AtomicApply(ctx context.Context, userID string, apply func(*models.PlayerRecord) error) (*models.PlayerRecord, error) {
	var rec *models.PlayerRecord
	err := r.do(ctx, "player atomic update", func() error {
		var err error
		rec, err = r.inner.AtomicApply(ctx, userID, apply)
		return err
	})
	return rec, err
}

func (r *retryingPlayerRepository) Rekey(ctx context.Context, oldUserID, newUserID string) error {
	return r.inner.Rekey(ctx, oldUserID, newUserID)
}

func (r *retryingPlayerRepository) FindByEmail(ctx context.Context, email string) (*models.PlayerRecord, error) {
	var rec *models.PlayerRecord
	err := r.do(ctx, "player find by email", func() error {
		var err error
		rec, err = r.inner.FindByEmail(ctx, email)
		return err
	})
	return rec, err
}

func (r *retryingPlayerRepository) UsernameExists(ctx context.Context, username string, excludeUserID string) (bool, error) {
	var exists bool
	err := r.do(ctx, "username check", func() error {
		var err error
		exists, err = r.inner.UsernameExists(ctx, username, excludeUserID)
		return err
	})
	return exists, err
}

func (r *retryingPlayerRepository) List(ctx context.Context, filter models.PlayerFilter) ([]models.PlayerRecord, error) {
	var players []models.PlayerRecord
	err := r.do(ctx, "player list", func() error {
		var err error
		players, err = r.inner.List(ctx, filter)
		return err
	})
	return players, err
}

func (r *retryingPlayerRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.do(ctx, "player count", func() error {
		var err error
		n, err = r.inner.Count(ctx)
		return err
	})
	return n, err
}

func (r *retryingPlayerRepository) UpdateLastActivity(ctx context.Context, userID string, at time.Time) error {
	return r.do(ctx, "activity update", func() error {
		return r.inner.UpdateLastActivity(ctx, userID, at)
	})
}
