package rules

import (
	"context"
	"math"

	apperrors "gearguessr/internal/errors"
	"gearguessr/internal/logger"
	"gearguessr/internal/models"
)

// Validation is the outcome of validating a submission. Score is the
// authoritative value the progression engine must use; it may differ
// from what the client sent.
type Validation struct {
	Mode          models.Mode
	Score         int
	Overridden    bool // server replaced the client score
	StreakFlagged bool // soft anti-cheat signal, never blocks
}

// Validator recomputes and bounds-checks submitted rounds so a client
// cannot report inflated scores, impossible times, or made-up prices.
type Validator struct {
	cfg Config
}

func NewValidator(cfg Config) *Validator {
	return &Validator{cfg: cfg}
}

// Validate checks a submission against the rule set. history is the
// player's recent game history, most recent first, used only for the
// perfect-streak heuristic.
func (v *Validator) Validate(ctx context.Context, sub models.Submission, history []models.GameHistoryEntry) (Validation, error) {
	mode, ok := models.ParseMode(sub.Mode)
	if !ok {
		return Validation{}, apperrors.NewValidationError("mode", "unknown mode "+sub.Mode)
	}
	out := Validation{Mode: mode, Score: sub.Score}

	switch mode {
	case models.ModeHint:
		if sub.HintCost != v.cfg.HintCost {
			return Validation{}, apperrors.NewInvalidPurchaseError("hint cost does not match the fixed price")
		}
		return out, nil
	case models.ModePowerUp:
		if _, ok := v.cfg.PowerUpPrice(sub.PowerUpType); !ok {
			return Validation{}, apperrors.NewInvalidPurchaseError("unknown powerup " + sub.PowerUpType)
		}
		return out, nil
	case models.ModePurchase:
		if sub.PurchaseData == nil {
			return Validation{}, apperrors.NewValidationError("purchaseData", "missing")
		}
		price, ok := v.cfg.PowerUpPrice(sub.PurchaseData.PowerUp)
		if !ok {
			return Validation{}, apperrors.NewInvalidPurchaseError("unknown powerup " + sub.PurchaseData.PowerUp)
		}
		if sub.PurchaseData.Cost != price {
			return Validation{}, apperrors.NewInvalidPurchaseError("cost does not match the fixed price")
		}
		return out, nil
	}

	if !mode.Scoring() {
		// bonus and profile_update carry no score to validate.
		return out, nil
	}

	if sub.Score < 0 || sub.Score > v.cfg.MaxSubmittedScore(mode) {
		return Validation{}, apperrors.NewInvalidScoreError("score outside allowed range")
	}
	if sub.TimeSpent != nil && *sub.TimeSpent < v.cfg.MinSecondsPerRound {
		return Validation{}, apperrors.NewInvalidTimingError("round completed implausibly fast")
	}

	endurance := mode == models.ModeEndurance
	expected := v.cfg.ExpectedScore(sub.Mistakes, endurance)
	if variance(sub.Score, expected) > v.cfg.ScoreVariance {
		logger.FromContext(ctx).Warn(
			"score discrepancy: submitted=%d expected=%d mode=%s, overriding with server value",
			sub.Score, expected, mode)
		out.Score = expected
		out.Overridden = true
	}

	if flagPerfectStreak(history, v.cfg.PerfectStreakWindow) {
		logger.FromContext(ctx).Warn("perfect streak over last %d games, flagging for review",
			min(v.cfg.PerfectStreakWindow, len(history)))
		out.StreakFlagged = true
	}

	return out, nil
}

func variance(submitted, expected int) float64 {
	if expected == 0 {
		if submitted == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return math.Abs(float64(submitted-expected)) / float64(expected)
}

// flagPerfectStreak reports whether every one of the most recent
// min(window, len(history)) games was mistake-free. An empty history
// never flags.
func flagPerfectStreak(history []models.GameHistoryEntry, window int) bool {
	n := min(window, len(history))
	if n == 0 {
		return false
	}
	for _, entry := range history[:n] {
		if entry.Mistakes != 0 {
			return false
		}
	}
	return true
}
