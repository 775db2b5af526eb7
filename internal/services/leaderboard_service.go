package services

import (
	"context"
	"time"

	"gearguessr/internal/cache"
	apperrors "gearguessr/internal/errors"
	"gearguessr/internal/logger"
	"gearguessr/internal/models"
	"gearguessr/internal/repository"
)

const (
	leaderboardTopSize   = 10
	leaderboardRivalPool = 50
	onlineWindow         = 3 * time.Minute
	leaderboardCacheKey  = "leaderboard:snapshot"
)

// LeaderboardService builds the ranked player snapshot. The snapshot is
// cached for a short TTL; staleness inside that window is accepted.
type LeaderboardService interface {
	GetLeaderboard(ctx context.Context) (*models.Leaderboard, error)
}

type leaderboardService struct {
	players repository.PlayerRepository
	cache   cache.Cache
	ttl     time.Duration
	now     func() time.Time
}

// NewLeaderboardService creates a new LeaderboardService
func NewLeaderboardService(players repository.PlayerRepository, c cache.Cache, ttl time.Duration) LeaderboardService {
	return &leaderboardService{players: players, cache: c, ttl: ttl, now: time.Now}
}

func (s *leaderboardService) GetLeaderboard(ctx context.Context) (*models.Leaderboard, error) {
	log := logger.FromContext(ctx)

	var cached models.Leaderboard
	if cache.GetJSON(s.cache, leaderboardCacheKey, &cached) {
		log.Debug("serving leaderboard from cache")
		return &cached, nil
	}

	records, err := s.players.List(ctx, models.PlayerFilter{Limit: leaderboardRivalPool})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	total, err := s.players.Count(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	now := s.now().UTC()
	entries := make([]models.LeaderboardEntry, 0, len(records))
	for i, rec := range records {
		entries = append(entries, s.entry(i+1, rec, now))
	}

	board := models.Leaderboard{
		Leaderboard:  entries[:min(leaderboardTopSize, len(entries))],
		Rivals:       entries,
		TotalPlayers: total,
	}

	if err := cache.SetJSON(s.cache, leaderboardCacheKey, board, s.ttl); err != nil {
		log.Warn("failed to cache leaderboard snapshot: %v", err)
	}
	return &board, nil
}

func (s *leaderboardService) entry(rank int, rec models.PlayerRecord, now time.Time) models.LeaderboardEntry {
	e := models.LeaderboardEntry{
		Rank:        rank,
		UserID:      rec.UserID,
		Username:    displayName(rec),
		PictureURL:  rec.Profile.PictureURL,
		HighScore:   rec.Stats.HighScore,
		Level:       rec.Stats.Level,
		GamesPlayed: rec.Stats.GamesPlayed,
		TotalPoints: rec.Stats.TotalPoints,
	}
	if rec.Stats.GamesPlayed > 0 {
		e.WinRate = rec.Stats.GamesWon * 100 / rec.Stats.GamesPlayed
	}
	if rec.LastActivity != nil {
		e.LastActive = rec.LastActivity.UTC().Format(time.RFC3339)
		e.IsOnline = now.Sub(*rec.LastActivity) < onlineWindow
	}
	return e
}

// displayName prefers the chosen username and falls back to a stable
// opaque handle so ranked rows never expose raw emails.
func displayName(rec models.PlayerRecord) string {
	name := rec.Profile.Username
	if name != "" && !models.AutoGeneratedUsername(name) {
		return name
	}
	id := rec.UserID
	if len(id) > 8 {
		id = id[:8]
	}
	return "UID_" + id
}
