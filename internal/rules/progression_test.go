package rules_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "gearguessr/internal/errors"
	"gearguessr/internal/models"
	"gearguessr/internal/rules"
)

func testEngine() *rules.Engine {
	n := 0
	return rules.NewEngine(rules.Default(),
		rules.WithClock(func() time.Time {
			return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		}),
		rules.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
}

func classicRound(score, mistakes int) (models.Submission, rules.Validation) {
	sub := models.Submission{
		Mode:         "classic",
		Level:        "Medium",
		Score:        score,
		Mistakes:     mistakes,
		CorrectCount: 5,
	}
	return sub, rules.Validation{Mode: models.ModeClassic, Score: score}
}

func TestApply_ClassicRoundCounters(t *testing.T) {
	e := testEngine()
	sub, v := classicRound(100, 0)

	updated, err := e.Apply(context.Background(), models.NewPlayerStats(), sub, v)
	require.NoError(t, err)

	assert.Equal(t, 1, updated.GamesPlayed)
	assert.Equal(t, 1, updated.GamesWon)
	assert.Equal(t, 100, updated.TotalPoints)
	assert.Equal(t, 100, updated.HighScore)
	assert.Equal(t, 0, updated.EnduranceHighScore)
	assert.Equal(t, 1, updated.DifficultyPlays.Medium)
	assert.Equal(t, 5, updated.CorrectAnswers)
	assert.Equal(t, 0, updated.IncorrectAnswers)
}

func TestApply_PerfectRoundRewards(t *testing.T) {
	e := testEngine()
	sub, v := classicRound(100, 0)

	updated, err := e.Apply(context.Background(), models.NewPlayerStats(), sub, v)
	require.NoError(t, err)

	assert.Equal(t, 1, updated.PerfectRounds)
	// xp = 100/10 + 25 perfect = 35
	assert.Equal(t, 35, updated.XP)
	// gears = 20 seed + 100/50 + 10 perfect = 32
	assert.Equal(t, 32, updated.Gears)
}

func TestApply_PerfectRequiresMinimumScore(t *testing.T) {
	e := testEngine()
	sub, v := classicRound(40, 0) // zero mistakes but below the 50 floor

	updated, err := e.Apply(context.Background(), models.NewPlayerStats(), sub, v)
	require.NoError(t, err)

	assert.Equal(t, 0, updated.PerfectRounds)
	assert.Equal(t, 4, updated.XP)
}

func TestApply_EnduranceNeverPerfect(t *testing.T) {
	e := testEngine()
	sub := models.Submission{Mode: "endurance", Level: "Hard", Score: 200, Mistakes: 0}
	v := rules.Validation{Mode: models.ModeEndurance, Score: 200}

	updated, err := e.Apply(context.Background(), models.NewPlayerStats(), sub, v)
	require.NoError(t, err)

	assert.Equal(t, 0, updated.PerfectRounds)
	assert.Equal(t, 200, updated.EnduranceHighScore)
	assert.Equal(t, 0, updated.HighScore, "endurance scores never touch the classic high score")
}

func TestApply_LevelUp(t *testing.T) {
	e := testEngine()
	stats := models.NewPlayerStats()
	stats.XP = 480

	sub, v := classicRound(100, 0) // gains 35 xp, crossing 500

	updated, err := e.Apply(context.Background(), stats, sub, v)
	require.NoError(t, err)

	assert.Equal(t, 2, updated.Level)
	assert.Equal(t, 15, updated.XP, "xp rolls over past the threshold")
	// 20 seed + 2 score gears + 10 perfect + 25 level-up
	assert.Equal(t, 57, updated.Gears)
}

func TestApply_MultiLevelUp(t *testing.T) {
	e := testEngine()
	stats := models.NewPlayerStats()
	stats.XP = 470

	sub := models.Submission{Mode: "journey", Level: "Hard", Score: 1050, Mistakes: 0}
	v := rules.Validation{Mode: models.ModeJourney, Score: 1050}

	// 1050/10 + 25 perfect = 130 xp; 470+130 = 600 -> one level, 100 left.
	updated, err := e.Apply(context.Background(), stats, sub, v)
	require.NoError(t, err)

	assert.Equal(t, 2, updated.Level)
	assert.Equal(t, 100, updated.XP)
}

func TestApply_LossWhenScoreZero(t *testing.T) {
	e := testEngine()
	sub, v := classicRound(0, 3)

	updated, err := e.Apply(context.Background(), models.NewPlayerStats(), sub, v)
	require.NoError(t, err)

	assert.Equal(t, 1, updated.GamesPlayed)
	assert.Equal(t, 0, updated.GamesWon)
	assert.Equal(t, 3, updated.IncorrectAnswers)
}

func TestApply_HistoryCappedMostRecentFirst(t *testing.T) {
	e := testEngine()
	stats := models.NewPlayerStats()

	for i := 1; i <= 12; i++ {
		sub, v := classicRound(60+i, 1)
		var err error
		stats, err = e.Apply(context.Background(), stats, sub, v)
		require.NoError(t, err)
	}

	require.Len(t, stats.GameHistory, models.MaxGameHistory)
	assert.Equal(t, 72, stats.GameHistory[0].Score, "newest entry first")
	assert.Equal(t, 63, stats.GameHistory[9].Score, "oldest surviving entry last")
	assert.Equal(t, "id-12", stats.GameHistory[0].ID)
}

func TestApply_JourneyProgressCreated(t *testing.T) {
	e := testEngine()
	sub := models.Submission{
		Mode:  "journey",
		Level: "Easy",
		Score: 190,
		JourneyData: &models.JourneyData{
			LevelID: "level_3", Stars: 3, Score: 190, Completed: true,
		},
	}
	v := rules.Validation{Mode: models.ModeJourney, Score: 190}

	updated, err := e.Apply(context.Background(), models.NewPlayerStats(), sub, v)
	require.NoError(t, err)

	entry := updated.JourneyProgress["level_3"]
	assert.Equal(t, 3, entry.Stars)
	assert.Equal(t, 190, entry.Score)
	assert.True(t, entry.Completed)
}

func TestApply_JourneyStarsExceedingScoreRejected(t *testing.T) {
	e := testEngine()
	stats := models.NewPlayerStats()
	sub := models.Submission{
		Mode:  "journey",
		Level: "Easy",
		Score: 50,
		JourneyData: &models.JourneyData{
			LevelID: "level_3", Stars: 3, Score: 50, Completed: true,
		},
	}
	v := rules.Validation{Mode: models.ModeJourney, Score: 50}

	_, err := e.Apply(context.Background(), stats, sub, v)

	require.Error(t, err)
	assert.ErrorIs(t, err, &apperrors.AppError{Code: apperrors.ErrCodeInvalidJourneyData})
	assert.Equal(t, 0, stats.GamesPlayed, "rejected submission mutates nothing")
}

func TestApply_JourneyProgressMonotonic(t *testing.T) {
	e := testEngine()
	stats := models.NewPlayerStats()
	stats.JourneyProgress["level_1"] = models.JourneyProgress{Stars: 3, Score: 200, Completed: true}

	sub := models.Submission{
		Mode:  "journey",
		Level: "Easy",
		Score: 70,
		JourneyData: &models.JourneyData{
			LevelID: "level_1", Stars: 1, Score: 70, Completed: false,
		},
	}
	v := rules.Validation{Mode: models.ModeJourney, Score: 70}

	updated, err := e.Apply(context.Background(), stats, sub, v)
	require.NoError(t, err)

	entry := updated.JourneyProgress["level_1"]
	assert.Equal(t, 3, entry.Stars, "stars never downgrade")
	assert.Equal(t, 200, entry.Score, "score never downgrades")
	assert.True(t, entry.Completed, "completed never flips back")
}

func TestApply_JourneyCompletionUpgrades(t *testing.T) {
	e := testEngine()
	stats := models.NewPlayerStats()
	stats.JourneyProgress["level_2"] = models.JourneyProgress{Stars: 2, Score: 150, Completed: false}

	sub := models.Submission{
		Mode:  "journey",
		Level: "Easy",
		Score: 150,
		JourneyData: &models.JourneyData{
			LevelID: "level_2", Stars: 2, Score: 150, Completed: true,
		},
	}
	v := rules.Validation{Mode: models.ModeJourney, Score: 150}

	updated, err := e.Apply(context.Background(), stats, sub, v)
	require.NoError(t, err)

	assert.True(t, updated.JourneyProgress["level_2"].Completed)
}

func TestApply_BonusSetsStreak(t *testing.T) {
	e := testEngine()
	sub := models.Submission{
		Mode:      "bonus",
		BonusData: &models.BonusData{Gears: 15, LastBonusDate: "2024-06-01", LoginStreak: 4},
	}
	v := rules.Validation{Mode: models.ModeBonus}

	updated, err := e.Apply(context.Background(), models.NewPlayerStats(), sub, v)
	require.NoError(t, err)

	assert.Equal(t, 35, updated.Gears)
	assert.Equal(t, "2024-06-01", updated.LastBonusDate)
	assert.Equal(t, 4, updated.LoginStreak)
	assert.Equal(t, 0, updated.GamesPlayed, "bonus is not a played game")
}

func TestApply_HintFloorsAtZero(t *testing.T) {
	e := testEngine()
	stats := models.NewPlayerStats()
	stats.Gears = 3

	sub := models.Submission{Mode: "hint", HintCost: 5}
	v := rules.Validation{Mode: models.ModeHint}

	updated, err := e.Apply(context.Background(), stats, sub, v)
	require.NoError(t, err)

	assert.Equal(t, 0, updated.Gears)
}

func TestApply_PowerUpUseDecrements(t *testing.T) {
	e := testEngine()
	stats := models.NewPlayerStats()
	stats.PowerUps.TimeFreeze = 2

	sub := models.Submission{Mode: "powerup", PowerUpType: "timeFreeze"}
	v := rules.Validation{Mode: models.ModePowerUp}

	updated, err := e.Apply(context.Background(), stats, sub, v)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.PowerUps.TimeFreeze)

	// Using with zero inventory floors at zero rather than going negative.
	updated.PowerUps.TimeFreeze = 0
	updated, err = e.Apply(context.Background(), updated, sub, v)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.PowerUps.TimeFreeze)
}

func TestApply_PurchaseInsufficientBalance(t *testing.T) {
	e := testEngine()
	stats := models.NewPlayerStats()
	stats.Gears = 5

	sub := models.Submission{
		Mode:         "purchase",
		PurchaseData: &models.PurchaseData{PowerUp: "timeFreeze", Cost: 10},
	}
	v := rules.Validation{Mode: models.ModePurchase}

	_, err := e.Apply(context.Background(), stats, sub, v)

	require.Error(t, err)
	assert.ErrorIs(t, err, &apperrors.AppError{Code: apperrors.ErrCodeInsufficientBalance})
	assert.Equal(t, 5, stats.Gears, "gears unchanged on rejection")
}

func TestApply_PurchaseSucceeds(t *testing.T) {
	e := testEngine()
	stats := models.NewPlayerStats() // seeded with 20 gears

	sub := models.Submission{
		Mode:         "purchase",
		PurchaseData: &models.PurchaseData{PowerUp: "clueGiver", Cost: 15},
	}
	v := rules.Validation{Mode: models.ModePurchase}

	updated, err := e.Apply(context.Background(), stats, sub, v)
	require.NoError(t, err)

	assert.Equal(t, 5, updated.Gears)
	assert.Equal(t, 1, updated.PowerUps.ClueGiver)
}

func TestApply_BoundsRejectGearOverflow(t *testing.T) {
	e := testEngine()
	stats := models.NewPlayerStats()
	stats.Gears = 9995

	sub := models.Submission{
		Mode:      "bonus",
		BonusData: &models.BonusData{Gears: 500},
	}
	v := rules.Validation{Mode: models.ModeBonus}

	_, err := e.Apply(context.Background(), stats, sub, v)

	require.Error(t, err)
	assert.ErrorIs(t, err, &apperrors.AppError{Code: apperrors.ErrCodeValidation})
}

func TestApply_NeverNegativeInvariants(t *testing.T) {
	e := testEngine()
	stats := models.NewPlayerStats()

	subs := []struct {
		sub models.Submission
		v   rules.Validation
	}{
		{models.Submission{Mode: "classic", Level: "Easy", Score: 0, Mistakes: 5}, rules.Validation{Mode: models.ModeClassic}},
		{models.Submission{Mode: "hint", HintCost: 5}, rules.Validation{Mode: models.ModeHint}},
		{models.Submission{Mode: "hint", HintCost: 5}, rules.Validation{Mode: models.ModeHint}},
		{models.Submission{Mode: "hint", HintCost: 5}, rules.Validation{Mode: models.ModeHint}},
		{models.Submission{Mode: "hint", HintCost: 5}, rules.Validation{Mode: models.ModeHint}},
		{models.Submission{Mode: "powerup", PowerUpType: "clueGiver"}, rules.Validation{Mode: models.ModePowerUp}},
	}

	for _, s := range subs {
		var err error
		stats, err = e.Apply(context.Background(), stats, s.sub, s.v)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, stats.Gears, 0)
		assert.GreaterOrEqual(t, stats.XP, 0)
		assert.GreaterOrEqual(t, stats.Level, 1)
		assert.GreaterOrEqual(t, stats.PowerUps.TimeFreeze, 0)
		assert.GreaterOrEqual(t, stats.PowerUps.ClueGiver, 0)
	}
}
