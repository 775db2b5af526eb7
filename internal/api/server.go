package api

import (
	"gearguessr/internal/db"
	"gearguessr/internal/ratelimit"
	"gearguessr/internal/services"
)

// Server holds the HTTP layer's dependencies. Handlers stay thin: decode,
// delegate to a service, encode.
type Server struct {
	DB                 *db.DB
	GameService        services.GameService
	PuzzleService      services.PuzzleService
	LeaderboardService services.LeaderboardService
	ProfileService     services.ProfileService
	ChallengeService   services.ChallengeService
	MatchmakingService services.MatchmakingService
	Limiter            *ratelimit.Limiter
	Metrics            *Metrics
	ImageBaseURL       string
}
