package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(s.metricsMiddleware)
	r.Use(identityMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/images/*", s.handleImageRedirect)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.rateLimitMiddleware)
		r.Use(timeoutMiddleware(30 * time.Second))

		// Open endpoints: puzzles and read-only lookups work anonymously.
		// GET and POST are both accepted where older clients POST a body.
		r.Get("/vehicles/puzzle", s.handleNextPuzzle)
		r.Post("/vehicles/puzzle", s.handleNextPuzzle)
		r.Get("/vehicles/career", s.handleCareerBatch)
		r.Post("/vehicles/career", s.handleCareerBatch)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/check-username", s.handleCheckUsername)
		r.Post("/check-username", s.handleCheckUsername)
		r.Get("/check-email", s.handleCheckEmail)

		// Everything touching a player record needs gateway claims.
		r.Group(func(r chi.Router) {
			r.Use(requireIdentity)
			r.Get("/gamedata", s.handleGetGameData)
			r.Post("/gamedata", s.handleUpdateGameData)
			r.Post("/setup-username", s.handleSetupUsername)
			r.Post("/update-activity", s.handleUpdateActivity)
			r.Get("/challenges", s.handleListChallenges)
			r.Post("/challenges", s.handleCreateChallenge)
			r.Get("/challenges/{id}", s.handleGetChallenge)
			r.Post("/challenges/{id}/respond", s.handleRespondChallenge)
			r.Post("/matchmaking/join-queue", s.handleJoinQueue)
			r.Post("/matchmaking/leave-queue", s.handleLeaveQueue)
			r.Post("/matchmaking/find-match", s.handleFindMatch)
		})
	})

	return r
}
