package rules

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "gearguessr/internal/errors"
	"gearguessr/internal/logger"
	"gearguessr/internal/models"
)

// Engine is the single authoritative mutator of PlayerStats. Apply
// takes the stats by value and returns the updated copy, so a rejected
// submission can never leave a half-mutated record behind.
type Engine struct {
	cfg   Config
	now   func() time.Time
	newID func() string
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithClock injects the engine's clock, for deterministic tests.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator injects the history-entry id generator.
func WithIDGenerator(newID func() string) EngineOption {
	return func(e *Engine) {
		e.newID = newID
	}
}

func NewEngine(cfg Config, opts ...EngineOption) *Engine {
	e := &Engine{cfg: cfg, now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply folds a validated submission into the player's stats. Scoring
// modes update the full counter set; the narrow action modes perform a
// single-purpose mutation. profile_update is handled upstream by the
// profile reconciler and is a no-op here.
func (e *Engine) Apply(ctx context.Context, stats models.PlayerStats, sub models.Submission, v Validation) (models.PlayerStats, error) {
	stats.Normalize()

	var err error
	if v.Mode.Scoring() {
		stats, err = e.applyScoring(ctx, stats, sub, v)
	} else {
		stats, err = e.applyAction(stats, sub, v)
	}
	if err != nil {
		return models.PlayerStats{}, err
	}

	if err := e.checkBounds(&stats); err != nil {
		return models.PlayerStats{}, err
	}
	return stats, nil
}

func (e *Engine) applyScoring(ctx context.Context, stats models.PlayerStats, sub models.Submission, v Validation) (models.PlayerStats, error) {
	endurance := v.Mode == models.ModeEndurance

	// Journey payloads are checked before any counter moves so a bad
	// payload rejects cleanly.
	if v.Mode == models.ModeJourney && sub.JourneyData != nil {
		if err := e.validateJourney(sub.JourneyData); err != nil {
			return models.PlayerStats{}, err
		}
	}

	stats.GamesPlayed++
	stats.TotalPoints += v.Score
	if tier, ok := models.ParseTier(sub.Level); ok {
		stats.DifficultyPlays.Add(tier)
	}

	won := v.Score > 0
	if won {
		stats.GamesWon++
	}
	if endurance {
		stats.EnduranceHighScore = max(stats.EnduranceHighScore, v.Score)
	} else {
		stats.HighScore = max(stats.HighScore, v.Score)
	}
	stats.CorrectAnswers += sub.CorrectCount
	stats.IncorrectAnswers += sub.Mistakes

	perfect := !endurance && sub.Mistakes == 0 && v.Score >= e.cfg.PerfectMinScore
	if perfect {
		stats.PerfectRounds++
	}

	xpGain := v.Score / e.cfg.XPPerScore
	gearGain := v.Score / e.cfg.GearsPerScore
	if perfect {
		xpGain += e.cfg.PerfectXPBonus
		gearGain += e.cfg.PerfectGearBonus
	}
	stats.Gears += gearGain

	newXP := stats.XP + xpGain
	if newXP >= e.cfg.XPPerLevel {
		levelsGained := newXP / e.cfg.XPPerLevel
		stats.Level += levelsGained
		stats.XP = newXP % e.cfg.XPPerLevel
		stats.Gears += e.cfg.GearsPerLevelUp * levelsGained
	} else {
		stats.XP = newXP
	}

	if v.Mode == models.ModeJourney && sub.JourneyData != nil {
		e.upgradeJourney(ctx, &stats, sub.JourneyData)
	}

	now := e.now()
	entry := models.GameHistoryEntry{
		ID:        e.newID(),
		Date:      now.Format("2006-01-02"),
		Mode:      string(v.Mode),
		Level:     sub.Level,
		Score:     v.Score,
		Mistakes:  sub.Mistakes,
		Won:       won,
		TimeSpent: sub.TimeSpent,
		Timestamp: now,
	}
	stats.GameHistory = append([]models.GameHistoryEntry{entry}, stats.GameHistory...)
	if len(stats.GameHistory) > models.MaxGameHistory {
		stats.GameHistory = stats.GameHistory[:models.MaxGameHistory]
	}

	return stats, nil
}

func (e *Engine) applyAction(stats models.PlayerStats, sub models.Submission, v Validation) (models.PlayerStats, error) {
	switch v.Mode {
	case models.ModeBonus:
		if sub.BonusData == nil {
			return models.PlayerStats{}, apperrors.NewValidationError("bonusData", "missing")
		}
		if sub.BonusData.Gears < 0 {
			return models.PlayerStats{}, apperrors.NewValidationError("bonusData.gears", "must not be negative")
		}
		stats.Gears += sub.BonusData.Gears
		stats.LastBonusDate = sub.BonusData.LastBonusDate
		stats.LoginStreak = sub.BonusData.LoginStreak

	case models.ModeHint:
		stats.Gears = max(0, stats.Gears-sub.HintCost)

	case models.ModePowerUp:
		if !stats.PowerUps.Adjust(sub.PowerUpType, -1) {
			return models.PlayerStats{}, apperrors.NewInvalidPurchaseError("unknown powerup " + sub.PowerUpType)
		}

	case models.ModePurchase:
		data := sub.PurchaseData
		if stats.Gears < data.Cost {
			return models.PlayerStats{}, apperrors.NewInsufficientBalanceError(stats.Gears, data.Cost)
		}
		stats.Gears -= data.Cost
		if !stats.PowerUps.Adjust(data.PowerUp, 1) {
			return models.PlayerStats{}, apperrors.NewInvalidPurchaseError("unknown powerup " + data.PowerUp)
		}

	case models.ModeProfileUpdate:
		// Username changes go through the profile reconciler.
	}

	return stats, nil
}

func (e *Engine) validateJourney(data *models.JourneyData) error {
	if data.LevelID == "" {
		return apperrors.NewInvalidJourneyDataError("missing levelId")
	}
	if data.Stars < 0 || data.Stars > e.cfg.MaxStars {
		return apperrors.NewInvalidJourneyDataError("stars out of range")
	}
	if data.Score < 0 || data.Score > e.cfg.MaxPointsPerVehicle {
		return apperrors.NewInvalidJourneyDataError("level score out of range")
	}
	if data.Stars > e.cfg.StarsForScore(data.Score) {
		return apperrors.NewInvalidJourneyDataError("stars exceed what the score earns")
	}
	return nil
}

// upgradeJourney merges new journey progress into the stored entry.
// Stars, score, and completion are monotonic: the stored entry only
// ever improves, so replays of an old result are harmless.
func (e *Engine) upgradeJourney(ctx context.Context, stats *models.PlayerStats, data *models.JourneyData) {
	old, exists := stats.JourneyProgress[data.LevelID]
	improved := !exists || data.Score > old.Score || (data.Completed && !old.Completed)
	if !improved {
		return
	}
	stats.JourneyProgress[data.LevelID] = models.JourneyProgress{
		Stars:     max(old.Stars, data.Stars),
		Score:     max(old.Score, data.Score),
		Completed: old.Completed || data.Completed,
	}
	logger.FromContext(ctx).Debug("journey progress updated: level=%s stars=%d score=%d",
		data.LevelID, max(old.Stars, data.Stars), max(old.Score, data.Score))
}

func (e *Engine) checkBounds(stats *models.PlayerStats) error {
	switch {
	case stats.Gears < 0 || stats.Gears > e.cfg.MaxGears:
		return apperrors.NewValidationError("gears", "outside sanity bounds")
	case stats.XP < 0 || stats.XP > e.cfg.MaxXP:
		return apperrors.NewValidationError("xp", "outside sanity bounds")
	case stats.Level < 1 || stats.Level > e.cfg.MaxLevel:
		return apperrors.NewValidationError("level", "outside sanity bounds")
	case stats.HighScore < 0 || stats.HighScore > e.cfg.MaxHighScore:
		return apperrors.NewValidationError("highScore", "outside sanity bounds")
	case stats.EnduranceHighScore < 0 || stats.EnduranceHighScore > e.cfg.MaxHighScore:
		return apperrors.NewValidationError("enduranceHighScore", "outside sanity bounds")
	case stats.GamesPlayed < 0 || stats.GamesWon < 0 || stats.TotalPoints < 0:
		return apperrors.NewValidationError("counters", "must not be negative")
	case stats.CorrectAnswers < 0 || stats.IncorrectAnswers < 0 || stats.PerfectRounds < 0:
		return apperrors.NewValidationError("counters", "must not be negative")
	}
	return nil
}
