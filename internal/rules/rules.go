// Package rules is the single source of truth for scoring, pricing, and
// progression constants, consumed by both the validator and the
// progression engine so the two can never drift apart.
package rules

import "gearguessr/internal/models"

// Config holds every tunable the scoring pipeline uses.
type Config struct {
	// Per-round scoring ceiling components.
	BasePoints          int     // base points for a correct non-endurance round
	BasePointsEndurance int     // base points per round in endurance mode
	MaxTimeBonus        int     // 10s window x2 multiplier
	MaxComboBonus       int     // 5-combo x5 multiplier
	PerfectBonus        int     // zero-mistake bonus, non-endurance only
	MaxPointsPerVehicle int     // hard cap for a single vehicle
	MinSecondsPerRound  float64 // anything faster is treated as cheating
	ScoreVariance       float64 // relative tolerance before the server overrides

	// How many vehicles a single submission may cover, by mode.
	VehiclesPerRound        int
	VehiclesPerJourneyRound int

	// Perfect-round qualification and rewards.
	PerfectMinScore  int
	PerfectXPBonus   int
	PerfectGearBonus int

	// Economy.
	XPPerScore      int // divisor: xp gained = score / XPPerScore
	GearsPerScore   int // divisor: gears gained = score / GearsPerScore
	XPPerLevel      int
	GearsPerLevelUp int

	// Fixed price table. Purchases must match these exactly.
	HintCost      int
	PowerUpPrices map[string]int

	// Journey star thresholds, highest first.
	ThreeStarScore int
	TwoStarScore   int
	OneStarScore   int
	MaxStars       int

	// Sanity bounds on persisted stats.
	MaxGears     int
	MaxLevel     int
	MaxXP        int
	MaxHighScore int

	// Perfect-streak review heuristic window.
	PerfectStreakWindow int
}

// Default returns the canonical rule set. Earlier revisions of these
// numbers are superseded, not alternates.
func Default() Config {
	return Config{
		BasePoints:          25,
		BasePointsEndurance: 10,
		MaxTimeBonus:        20,
		MaxComboBonus:       25,
		PerfectBonus:        30,
		MaxPointsPerVehicle: 210,
		MinSecondsPerRound:  3,
		ScoreVariance:       0.10,

		VehiclesPerRound:        5,
		VehiclesPerJourneyRound: 10,

		PerfectMinScore:  50,
		PerfectXPBonus:   25,
		PerfectGearBonus: 10,

		XPPerScore:      10,
		GearsPerScore:   50,
		XPPerLevel:      500,
		GearsPerLevelUp: 25,

		HintCost: 5,
		PowerUpPrices: map[string]int{
			"timeFreeze": 10,
			"clueGiver":  15,
		},

		ThreeStarScore: 180,
		TwoStarScore:   120,
		OneStarScore:   60,
		MaxStars:       3,

		MaxGears:     10000,
		MaxLevel:     1000,
		MaxXP:        500000,
		MaxHighScore: 100000,

		PerfectStreakWindow: 10,
	}
}

// ExpectedScore is the theoretical ceiling for one round: base plus the
// maximum time and combo bonuses, plus the perfect bonus when the round
// had no mistakes and was not endurance.
func (c Config) ExpectedScore(mistakes int, endurance bool) int {
	base := c.BasePoints
	if endurance {
		base = c.BasePointsEndurance
	}
	expected := base + c.MaxTimeBonus + c.MaxComboBonus
	if mistakes == 0 && !endurance {
		expected += c.PerfectBonus
	}
	return expected
}

// MaxSubmittedScore is the per-submission cap: the per-vehicle cap times
// the number of vehicles a round of this mode covers.
func (c Config) MaxSubmittedScore(mode models.Mode) int {
	if mode == models.ModeJourney {
		return c.MaxPointsPerVehicle * c.VehiclesPerJourneyRound
	}
	return c.MaxPointsPerVehicle * c.VehiclesPerRound
}

// StarsForScore maps a journey level score to the star rating it earns.
func (c Config) StarsForScore(score int) int {
	switch {
	case score >= c.ThreeStarScore:
		return 3
	case score >= c.TwoStarScore:
		return 2
	case score >= c.OneStarScore:
		return 1
	default:
		return 0
	}
}

// PowerUpPrice looks up the fixed price for a powerup.
func (c Config) PowerUpPrice(name string) (int, bool) {
	price, ok := c.PowerUpPrices[name]
	return price, ok
}
