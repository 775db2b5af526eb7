package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	json "github.com/goccy/go-json"

	apperrors "gearguessr/internal/errors"
	"gearguessr/internal/logger"
	"gearguessr/internal/models"
	"gearguessr/internal/repository"
)

type playerRepository struct {
	db *sql.DB
}

// NewPlayerRepository creates a new PlayerRepository implementation
func NewPlayerRepository(db *sql.DB) repository.PlayerRepository {
	return &playerRepository{db: db}
}

const playerColumns = `user_id, profile, stats, created_at, updated_at, last_activity`

func scanPlayer(row interface{ Scan(...any) error }) (*models.PlayerRecord, error) {
	var (
		rec          models.PlayerRecord
		profileJSON  []byte
		statsJSON    []byte
		lastActivity sql.NullTime
	)
	if err := row.Scan(&rec.UserID, &profileJSON, &statsJSON, &rec.CreatedAt, &rec.UpdatedAt, &lastActivity); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(profileJSON, &rec.Profile); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(statsJSON, &rec.Stats); err != nil {
		return nil, err
	}
	rec.Stats.Normalize()
	if lastActivity.Valid {
		rec.LastActivity = &lastActivity.Time
	}
	return &rec, nil
}

func encodePlayer(rec models.PlayerRecord) (profileJSON, statsJSON []byte, err error) {
	profileJSON, err = json.Marshal(rec.Profile)
	if err != nil {
		return nil, nil, err
	}
	statsJSON, err = json.Marshal(rec.Stats)
	return profileJSON, statsJSON, err
}

func (r *playerRepository) Get(ctx context.Context, userID string) (*models.PlayerRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("player_repo")
	log.Debug("getting player: user_id=%s", userID)

	row := r.db.QueryRowContext(ctx, `
SELECT `+playerColumns+`
FROM players
WHERE user_id = ?
`, userID)
	rec, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("player not found: user_id=%s", userID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get player: %v", err)
		return nil, err
	}
	return rec, nil
}

func (r *playerRepository) Put(ctx context.Context, rec models.PlayerRecord) error {
	log := logger.FromContext(ctx).WithPrefix("player_repo")
	log.Debug("putting player: user_id=%s", rec.UserID)

	profileJSON, statsJSON, err := encodePlayer(rec)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO players (user_id, email, username, profile, stats, high_score, level, games_played, games_won, total_points, created_at, updated_at, last_activity)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
    email = excluded.email,
    username = excluded.username,
    profile = excluded.profile,
    stats = excluded.stats,
    high_score = excluded.high_score,
    level = excluded.level,
    games_played = excluded.games_played,
    games_won = excluded.games_won,
    total_points = excluded.total_points,
    updated_at = excluded.updated_at,
    last_activity = excluded.last_activity
`, rec.UserID, rec.Profile.Email, rec.Profile.Username, profileJSON, statsJSON,
		rec.Stats.HighScore, rec.Stats.Level, rec.Stats.GamesPlayed, rec.Stats.GamesWon, rec.Stats.TotalPoints,
		rec.CreatedAt, rec.UpdatedAt, nullableTime(rec.LastActivity))
	if err != nil {
		log.Error("failed to put player: %v", err)
	}
	return err
}

func (r *playerRepository) AtomicApply(ctx context.Context, userID string, apply func(*models.PlayerRecord) error) (*models.PlayerRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("player_repo")
	log.Debug("atomic update: user_id=%s", userID)

	var out *models.PlayerRecord
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
SELECT `+playerColumns+`
FROM players
WHERE user_id = ?
`, userID)
		rec, err := scanPlayer(row)
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewNotFoundError("player", userID)
		}
		if err != nil {
			return err
		}

		if err := apply(rec); err != nil {
			return err
		}
		rec.UpdatedAt = time.Now().UTC()

		profileJSON, statsJSON, err := encodePlayer(*rec)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
UPDATE players
SET email = ?, username = ?, profile = ?, stats = ?,
    high_score = ?, level = ?, games_played = ?, games_won = ?, total_points = ?,
    updated_at = ?
WHERE user_id = ?
`, rec.Profile.Email, rec.Profile.Username, profileJSON, statsJSON,
			rec.Stats.HighScore, rec.Stats.Level, rec.Stats.GamesPlayed, rec.Stats.GamesWon, rec.Stats.TotalPoints,
			rec.UpdatedAt, userID)
		if err != nil {
			return err
		}
		out = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *playerRepository) Rekey(ctx context.Context, oldUserID, newUserID string) error {
	log := logger.FromContext(ctx).WithPrefix("player_repo")
	log.Info("rekeying player record: %s -> %s", oldUserID, newUserID)

	res, err := r.db.ExecContext(ctx, `UPDATE players SET user_id = ?, updated_at = ? WHERE user_id = ?`,
		newUserID, time.Now().UTC(), oldUserID)
	if err != nil {
		log.Error("failed to rekey player: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NewNotFoundError("player", oldUserID)
	}
	return nil
}

func (r *playerRepository) FindByEmail(ctx context.Context, email string) (*models.PlayerRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("player_repo")
	log.Debug("finding player by email")

	row := r.db.QueryRowContext(ctx, `
SELECT `+playerColumns+`
FROM players
WHERE email <> '' AND lower(email) = lower(?)
ORDER BY created_at ASC
LIMIT 1
`, email)
	rec, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to find player by email: %v", err)
		return nil, err
	}
	return rec, nil
}

func (r *playerRepository) UsernameExists(ctx context.Context, username string, excludeUserID string) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("player_repo")
	log.Debug("checking username availability: %s", username)

	var one int
	err := r.db.QueryRowContext(ctx, `
SELECT 1
FROM players
WHERE lower(username) = lower(?) AND user_id <> ?
LIMIT 1
`, username, excludeUserID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		log.Error("failed to check username: %v", err)
		return false, err
	}
	return true, nil
}

func (r *playerRepository) List(ctx context.Context, filter models.PlayerFilter) ([]models.PlayerRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("player_repo")
	log.Debug("listing players")

	query := sqlBuilder.Select("user_id", "profile", "stats", "created_at", "updated_at", "last_activity").
		From("players")

	if filter.MinGamesPlayed > 0 {
		query = query.Where(squirrel.GtOrEq{"games_played": filter.MinGamesPlayed})
	}
	query = query.OrderBy(orderColumn(filter.OrderBy) + " DESC")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list players: %v", err)
		return nil, err
	}
	defer rows.Close()

	var players []models.PlayerRecord
	for rows.Next() {
		rec, err := scanPlayer(rows)
		if err != nil {
			log.Error("failed to scan player row: %v", err)
			return nil, err
		}
		players = append(players, *rec)
	}

	log.Debug("found %d players", len(players))
	return players, rows.Err()
}

func (r *playerRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&n)
	return n, err
}

func (r *playerRepository) UpdateLastActivity(ctx context.Context, userID string, at time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("player_repo")

	res, err := r.db.ExecContext(ctx, `UPDATE players SET last_activity = ? WHERE user_id = ?`, at, userID)
	if err != nil {
		log.Error("failed to update last activity: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NewNotFoundError("player", userID)
	}
	return nil
}

// orderColumn whitelists sortable columns so filter input can never
// reach the SQL string directly.
func orderColumn(name string) string {
	switch name {
	case "total_points", "level", "games_played":
		return name
	default:
		return "high_score"
	}
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
