package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gearguessr/internal/cache"
	apperrors "gearguessr/internal/errors"
	"gearguessr/internal/jobs"
	"gearguessr/internal/logger"
	"gearguessr/internal/models"
	"gearguessr/internal/notify"
)

const (
	matchmakingQueueKey = "matchmaking:queue"

	// Opponents within this many skill points are preferred; anyone in
	// the same tier is still better than waiting.
	matchSkillWindow = 200

	matchEstimatedWaitSeconds = 30
)

// MatchmakingService pairs players who want a live opponent. The queue
// is per-instance cache state, like sessions and rate-limit counters.
type MatchmakingService interface {
	// Join enqueues the player and immediately tries to pair them. On a
	// match both sides are removed from the queue and notified.
	Join(ctx context.Context, player models.PlayerRecord, skillLevel int, difficulty string) (*models.MatchResult, error)
	// Leave removes the player's ticket, if any. Leaving an empty queue
	// is not an error.
	Leave(ctx context.Context, userID string) error
	// Find probes for an opponent without touching the queue.
	Find(ctx context.Context, userID string, skillLevel int, difficulty string) (*models.MatchResult, error)
}

// MatchmakingOption configures a MatchmakingService.
type MatchmakingOption func(*matchmakingService)

// WithMatchmakingClock injects a clock, used by tests to age tickets.
func WithMatchmakingClock(now func() time.Time) MatchmakingOption {
	return func(s *matchmakingService) {
		s.now = now
	}
}

type matchmakingService struct {
	store      cache.Cache
	dispatcher jobs.Dispatcher
	ttl        time.Duration

	mu  sync.Mutex
	now func() time.Time
}

// NewMatchmakingService creates a new MatchmakingService. ttl bounds
// how long a ticket waits before it lapses.
func NewMatchmakingService(store cache.Cache, dispatcher jobs.Dispatcher, ttl time.Duration, opts ...MatchmakingOption) MatchmakingService {
	s := &matchmakingService{
		store:      store,
		dispatcher: dispatcher,
		ttl:        ttl,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *matchmakingService) Join(ctx context.Context, player models.PlayerRecord, skillLevel int, difficulty string) (*models.MatchResult, error) {
	log := logger.FromContext(ctx)

	tier, err := parseMatchRequest(skillLevel, difficulty)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	queue := s.loadQueue(now)

	if idx := findOpponent(queue, player.UserID, skillLevel, tier); idx >= 0 {
		opponent := queue[idx]
		queue = append(queue[:idx], queue[idx+1:]...)
		queue = removeTicket(queue, player.UserID)
		if err := s.saveQueue(queue); err != nil {
			return nil, apperrors.NewInternalError(err)
		}

		name := displayName(player)
		log.Info("match made: %s vs %s tier=%s", player.UserID, opponent.UserID, tier)
		s.notifyMatchFound(opponent.UserID, name, skillLevel, player.UserID)
		s.notifyMatchFound(player.UserID, opponent.Username, opponent.SkillLevel, opponent.UserID)

		return &models.MatchResult{
			MatchFound: true,
			Opponent:   &models.MatchOpponent{Username: opponent.Username, SkillLevel: opponent.SkillLevel},
		}, nil
	}

	queue = removeTicket(queue, player.UserID)
	queue = append(queue, models.MatchTicket{
		UserID:     player.UserID,
		Username:   displayName(player),
		SkillLevel: skillLevel,
		Difficulty: tier.String(),
		JoinedAt:   now,
	})
	if err := s.saveQueue(queue); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	log.Debug("queued for matchmaking: user=%s tier=%s skill=%d", player.UserID, tier, skillLevel)

	return &models.MatchResult{MatchFound: false, EstimatedWait: matchEstimatedWaitSeconds}, nil
}

func (s *matchmakingService) Leave(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	queue := removeTicket(s.loadQueue(now), userID)
	if err := s.saveQueue(queue); err != nil {
		return apperrors.NewInternalError(err)
	}
	logger.FromContext(ctx).Debug("left matchmaking queue: user=%s", userID)
	return nil
}

func (s *matchmakingService) Find(ctx context.Context, userID string, skillLevel int, difficulty string) (*models.MatchResult, error) {
	tier, err := parseMatchRequest(skillLevel, difficulty)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	queue := s.loadQueue(s.now().UTC())

	if idx := findOpponent(queue, userID, skillLevel, tier); idx >= 0 {
		opponent := queue[idx]
		return &models.MatchResult{
			MatchFound: true,
			Opponent:   &models.MatchOpponent{Username: opponent.Username, SkillLevel: opponent.SkillLevel},
		}, nil
	}

	waiting := 0
	for _, t := range queue {
		if t.Difficulty == tier.String() && t.UserID != userID {
			waiting++
		}
	}
	return &models.MatchResult{MatchFound: false, PlayersInQueue: waiting}, nil
}

func parseMatchRequest(skillLevel int, difficulty string) (models.Tier, error) {
	tier, ok := models.ParseTier(difficulty)
	if !ok {
		return "", apperrors.NewValidationError("difficulty", "unknown difficulty tier "+difficulty)
	}
	if skillLevel < 0 {
		return "", apperrors.NewValidationError("skillLevel", "must not be negative")
	}
	return tier, nil
}

// loadQueue reads the queue and drops lapsed tickets. Callers hold mu.
func (s *matchmakingService) loadQueue(now time.Time) []models.MatchTicket {
	var queue []models.MatchTicket
	if !cache.GetJSON(s.store, matchmakingQueueKey, &queue) {
		return nil
	}
	live := queue[:0]
	for _, t := range queue {
		if t.Expired(now, s.ttl) {
			continue
		}
		live = append(live, t)
	}
	return live
}

func (s *matchmakingService) saveQueue(queue []models.MatchTicket) error {
	if len(queue) == 0 {
		s.store.Del(matchmakingQueueKey)
		return nil
	}
	return cache.SetJSON(s.store, matchmakingQueueKey, queue, s.ttl)
}

// findOpponent returns the index of the best waiting opponent, or -1.
// Close skill wins; failing that, the longest-waiting player in the
// tier is taken over leaving the joiner unmatched.
func findOpponent(queue []models.MatchTicket, userID string, skillLevel int, tier models.Tier) int {
	fallback := -1
	for i, t := range queue {
		if t.UserID == userID || t.Difficulty != tier.String() {
			continue
		}
		diff := t.SkillLevel - skillLevel
		if diff < 0 {
			diff = -diff
		}
		if diff <= matchSkillWindow {
			return i
		}
		if fallback < 0 {
			fallback = i
		}
	}
	return fallback
}

func removeTicket(queue []models.MatchTicket, userID string) []models.MatchTicket {
	out := queue[:0]
	for _, t := range queue {
		if t.UserID == userID {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (s *matchmakingService) notifyMatchFound(targetUserID, opponentName string, opponentSkill int, opponentID string) {
	s.dispatcher.EnqueueNotification(targetUserID, notify.Message{
		Type:       "match_found",
		Title:      "Match found!",
		Body:       fmt.Sprintf("You're up against %s (skill %d)", opponentName, opponentSkill),
		FromUserID: opponentID,
	})
}
