package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	apperrors "gearguessr/internal/errors"
	"gearguessr/internal/logger"
	"gearguessr/internal/models"
	"gearguessr/internal/repository"
)

type challengeRepository struct {
	db *sql.DB
}

// NewChallengeRepository creates a new ChallengeRepository implementation
func NewChallengeRepository(db *sql.DB) repository.ChallengeRepository {
	return &challengeRepository{db: db}
}

const challengeColumns = `challenge_id, creator_id, creator_name, target_player_id, target_player_name, game_mode, difficulty, status, created_at, expires_at, accepted_at, declined_at`

func scanChallenge(row interface{ Scan(...any) error }) (*models.Challenge, error) {
	var (
		c          models.Challenge
		acceptedAt sql.NullTime
		declinedAt sql.NullTime
	)
	if err := row.Scan(&c.ChallengeID, &c.CreatorID, &c.CreatorName, &c.TargetPlayerID, &c.TargetPlayerName,
		&c.GameMode, &c.Difficulty, &c.Status, &c.CreatedAt, &c.ExpiresAt, &acceptedAt, &declinedAt); err != nil {
		return nil, err
	}
	if acceptedAt.Valid {
		c.AcceptedAt = &acceptedAt.Time
	}
	if declinedAt.Valid {
		c.DeclinedAt = &declinedAt.Time
	}
	return &c, nil
}

func (r *challengeRepository) Insert(ctx context.Context, c models.Challenge) error {
	log := logger.FromContext(ctx).WithPrefix("challenge_repo")
	log.Debug("inserting challenge: id=%s target=%s", c.ChallengeID, c.TargetPlayerID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO challenges (`+challengeColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, c.ChallengeID, c.CreatorID, c.CreatorName, c.TargetPlayerID, c.TargetPlayerName,
		c.GameMode, c.Difficulty, c.Status, c.CreatedAt, c.ExpiresAt,
		nullableTime(c.AcceptedAt), nullableTime(c.DeclinedAt))
	if err != nil {
		log.Error("failed to insert challenge: %v", err)
	}
	return err
}

func (r *challengeRepository) Get(ctx context.Context, challengeID string) (*models.Challenge, error) {
	log := logger.FromContext(ctx).WithPrefix("challenge_repo")

	row := r.db.QueryRowContext(ctx, `
SELECT `+challengeColumns+`
FROM challenges
WHERE challenge_id = ?
`, challengeID)
	c, err := scanChallenge(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get challenge: %v", err)
		return nil, err
	}
	return c, nil
}

func (r *challengeRepository) UpdateStatus(ctx context.Context, challengeID string, status models.ChallengeStatus, at time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("challenge_repo")
	log.Debug("updating challenge status: id=%s status=%s", challengeID, status)

	var column string
	switch status {
	case models.ChallengeAccepted:
		column = "accepted_at"
	case models.ChallengeDeclined:
		column = "declined_at"
	default:
		return apperrors.NewValidationError("status", "cannot transition to "+string(status))
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE challenges SET status = ?, `+column+` = ? WHERE challenge_id = ? AND status = 'pending'`,
		status, at, challengeID)
	if err != nil {
		log.Error("failed to update challenge status: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NewNotFoundError("pending challenge", challengeID)
	}
	return nil
}

func (r *challengeRepository) ListForPlayer(ctx context.Context, userID string, limit int) ([]models.Challenge, error) {
	log := logger.FromContext(ctx).WithPrefix("challenge_repo")
	log.Debug("listing challenges for player: %s", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT `+challengeColumns+`
FROM challenges
WHERE creator_id = ? OR target_player_id = ?
ORDER BY created_at DESC
LIMIT ?
`, userID, userID, limit)
	if err != nil {
		log.Error("failed to list challenges: %v", err)
		return nil, err
	}
	defer rows.Close()

	var challenges []models.Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			log.Error("failed to scan challenge row: %v", err)
			return nil, err
		}
		challenges = append(challenges, *c)
	}
	return challenges, rows.Err()
}

func (r *challengeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("challenge_repo")

	res, err := r.db.ExecContext(ctx, `DELETE FROM challenges WHERE expires_at < ? AND status = 'pending'`, now)
	if err != nil {
		log.Error("failed to delete expired challenges: %v", err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info("deleted %d expired challenges", n)
	}
	return n, nil
}
