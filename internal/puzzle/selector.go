// Package puzzle serves non-repeating puzzle instances from the vehicle
// catalog, tracking which templates each session has already seen.
package puzzle

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"gearguessr/internal/cache"
	"gearguessr/internal/catalog"
	apperrors "gearguessr/internal/errors"
	"gearguessr/internal/logger"
	"gearguessr/internal/models"
)

// AnonymousSessionKey scopes non-repeat tracking for unauthenticated
// callers. Everyone without an identity shares it.
const AnonymousSessionKey = "anonymous"

// Selector hands out puzzles a session has not seen recently. Tracking
// lives in the injected cache with a fixed inactivity TTL, so expiry is
// handled by the cache itself rather than a background sweep. The
// tracking is per-instance and best-effort: a restart forgets it.
type Selector struct {
	catalog    *catalog.Catalog
	sessions   cache.Cache
	sessionTTL time.Duration
	imageBase  string
}

func NewSelector(cat *catalog.Catalog, sessions cache.Cache, sessionTTL time.Duration, imageBaseURL string) *Selector {
	return &Selector{
		catalog:    cat,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		imageBase:  strings.TrimSuffix(imageBaseURL, "/"),
	}
}

// Next picks one puzzle for the session, avoiding templates already
// served under the same key. When the session has exhausted the tier,
// the used set resets and selection starts over from the full tier.
func (s *Selector) Next(ctx context.Context, tier models.Tier, sessionKey string) (*models.Puzzle, error) {
	templates := s.catalog.ByTier(tier)
	if len(templates) == 0 {
		return nil, apperrors.NewNotFoundError("vehicles for tier", tier)
	}

	key := sessionCacheKey(tier, sessionKey)
	used := map[string]bool{}
	cache.GetJSON(s.sessions, key, &used)

	candidates := make([]models.VehicleTemplate, 0, len(templates))
	for _, t := range templates {
		if !used[t.ID] {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		logger.FromContext(ctx).Debug("session %s exhausted tier %s, resetting used set", sessionKey, tier)
		used = map[string]bool{}
		candidates = templates
	}

	picked := candidates[rand.IntN(len(candidates))]
	used[picked.ID] = true
	// Set refreshes the TTL, so the window is measured from last touch.
	if err := cache.SetJSON(s.sessions, key, used, s.sessionTTL); err != nil {
		logger.FromContext(ctx).Warn("failed to record used puzzle for session %s: %v", sessionKey, err)
	}

	p := s.instantiate(picked)
	return &p, nil
}

// Batch returns count distinct puzzles for career and journey play. The
// no-repeat guarantee is scoped to the batch itself; the per-session
// used set is neither consulted nor touched.
func (s *Selector) Batch(ctx context.Context, tier models.Tier, count int) ([]models.Puzzle, error) {
	templates := s.catalog.ByTier(tier)
	if len(templates) == 0 {
		return nil, apperrors.NewNotFoundError("vehicles for tier", tier)
	}
	if len(templates) < count {
		return nil, apperrors.NewInsufficientDataError(
			fmt.Sprintf("tier %s has %d vehicles, need %d", tier, len(templates), count))
	}

	shuffled := make([]models.VehicleTemplate, len(templates))
	copy(shuffled, templates)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	out := make([]models.Puzzle, 0, count)
	for _, t := range shuffled[:count] {
		out = append(out, s.instantiate(t))
	}
	return out, nil
}

// ImageURL resolves a template's relative image key against the object
// storage base.
func (s *Selector) ImageURL(imageKey string) string {
	return s.imageBase + "/" + strings.TrimPrefix(imageKey, "/")
}

func (s *Selector) instantiate(t models.VehicleTemplate) models.Puzzle {
	return models.Puzzle{
		ID:           t.ID,
		Vehicle:      t.Vehicle,
		ImageURL:     s.ImageURL(t.ImageKey),
		BrandOptions: shuffledCopy(t.BrandOptions),
		ModelOptions: shuffledCopy(t.ModelOptions),
		YearOptions:  shuffledCopy(t.YearOptions),
		Difficulty:   t.Difficulty,
		Tags:         t.Tags,
		ImagePart:    t.ImagePart,
	}
}

func shuffledCopy[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

func sessionCacheKey(tier models.Tier, sessionKey string) string {
	return "puzzle:used:" + string(tier) + ":" + sessionKey
}
