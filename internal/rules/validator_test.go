package rules_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "gearguessr/internal/errors"
	"gearguessr/internal/models"
	"gearguessr/internal/rules"
)

func ptr(v float64) *float64 { return &v }

func TestValidate_UnknownMode(t *testing.T) {
	v := rules.NewValidator(rules.Default())

	_, err := v.Validate(context.Background(), models.Submission{Mode: "speedrun"}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, &apperrors.AppError{Code: apperrors.ErrCodeValidation})
}

func TestValidate_ScoreOverCapRejected(t *testing.T) {
	v := rules.NewValidator(rules.Default())

	_, err := v.Validate(context.Background(), models.Submission{
		Mode:  "classic",
		Score: 1051, // classic cap is 210*5
	}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, &apperrors.AppError{Code: apperrors.ErrCodeInvalidScore})
}

func TestValidate_JourneyCapIsWider(t *testing.T) {
	v := rules.NewValidator(rules.Default())

	out, err := v.Validate(context.Background(), models.Submission{
		Mode:  "journey",
		Score: 1500, // over the classic cap, under the journey cap of 2100
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, models.ModeJourney, out.Mode)
}

func TestValidate_NegativeScoreRejected(t *testing.T) {
	v := rules.NewValidator(rules.Default())

	_, err := v.Validate(context.Background(), models.Submission{Mode: "classic", Score: -1}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, &apperrors.AppError{Code: apperrors.ErrCodeInvalidScore})
}

func TestValidate_TooFastRejected(t *testing.T) {
	v := rules.NewValidator(rules.Default())

	_, err := v.Validate(context.Background(), models.Submission{
		Mode:      "classic",
		Score:     100,
		TimeSpent: ptr(2.5),
	}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, &apperrors.AppError{Code: apperrors.ErrCodeInvalidTiming})
}

func TestValidate_InflatedScoreOverridden(t *testing.T) {
	v := rules.NewValidator(rules.Default())

	// Expected for a classic zero-mistake round: 25+20+25+30 = 100.
	// 300 deviates by 200%, far past the 10% tolerance.
	out, err := v.Validate(context.Background(), models.Submission{
		Mode:     "classic",
		Level:    "Medium",
		Score:    300,
		Mistakes: 0,
	}, nil)

	require.NoError(t, err)
	assert.True(t, out.Overridden)
	assert.Equal(t, 100, out.Score, "server value wins, client value discarded")
}

func TestValidate_ScoreWithinVarianceKept(t *testing.T) {
	v := rules.NewValidator(rules.Default())

	out, err := v.Validate(context.Background(), models.Submission{
		Mode:     "classic",
		Score:    95, // within 10% of the expected 100
		Mistakes: 0,
	}, nil)

	require.NoError(t, err)
	assert.False(t, out.Overridden)
	assert.Equal(t, 95, out.Score)
}

func TestValidate_EnduranceExpectedScore(t *testing.T) {
	cfg := rules.Default()

	// Endurance: base 10 + time 20 + combo 25, never a perfect bonus.
	assert.Equal(t, 55, cfg.ExpectedScore(0, true))
	assert.Equal(t, 55, cfg.ExpectedScore(3, true))
	assert.Equal(t, 100, cfg.ExpectedScore(0, false))
	assert.Equal(t, 70, cfg.ExpectedScore(2, false))
}

func TestValidate_PerfectStreakFlagged(t *testing.T) {
	v := rules.NewValidator(rules.Default())

	history := make([]models.GameHistoryEntry, 10)
	for i := range history {
		history[i] = models.GameHistoryEntry{Mistakes: 0, Score: 100}
	}

	out, err := v.Validate(context.Background(), models.Submission{
		Mode:     "classic",
		Score:    100,
		Mistakes: 0,
	}, history)

	require.NoError(t, err)
	assert.True(t, out.StreakFlagged, "flagged but not blocked")
}

func TestValidate_StreakNotFlaggedWithMistakes(t *testing.T) {
	v := rules.NewValidator(rules.Default())

	history := []models.GameHistoryEntry{
		{Mistakes: 0}, {Mistakes: 1}, {Mistakes: 0},
	}

	out, err := v.Validate(context.Background(), models.Submission{
		Mode:  "classic",
		Score: 100,
	}, history)

	require.NoError(t, err)
	assert.False(t, out.StreakFlagged)
}

func TestValidate_StreakNotFlaggedOnEmptyHistory(t *testing.T) {
	v := rules.NewValidator(rules.Default())

	out, err := v.Validate(context.Background(), models.Submission{Mode: "classic", Score: 100}, nil)

	require.NoError(t, err)
	assert.False(t, out.StreakFlagged)
}

func TestValidate_HintCostMustMatch(t *testing.T) {
	v := rules.NewValidator(rules.Default())

	_, err := v.Validate(context.Background(), models.Submission{Mode: "hint", HintCost: 3}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, &apperrors.AppError{Code: apperrors.ErrCodeInvalidPurchase})

	_, err = v.Validate(context.Background(), models.Submission{Mode: "hint", HintCost: 5}, nil)
	assert.NoError(t, err)
}

func TestValidate_PurchasePriceTable(t *testing.T) {
	v := rules.NewValidator(rules.Default())

	tests := []struct {
		name    string
		powerUp string
		cost    int
		wantErr bool
	}{
		{name: "timeFreeze at list price", powerUp: "timeFreeze", cost: 10, wantErr: false},
		{name: "clueGiver at list price", powerUp: "clueGiver", cost: 15, wantErr: false},
		{name: "timeFreeze discounted", powerUp: "timeFreeze", cost: 1, wantErr: true},
		{name: "unknown powerup", powerUp: "xrayVision", cost: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate(context.Background(), models.Submission{
				Mode:         "purchase",
				PurchaseData: &models.PurchaseData{PowerUp: tt.powerUp, Cost: tt.cost},
			}, nil)

			if tt.wantErr {
				assert.ErrorIs(t, err, &apperrors.AppError{Code: apperrors.ErrCodeInvalidPurchase})
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_PurchaseMissingPayload(t *testing.T) {
	v := rules.NewValidator(rules.Default())

	_, err := v.Validate(context.Background(), models.Submission{Mode: "purchase"}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, &apperrors.AppError{Code: apperrors.ErrCodeValidation})
}

func TestStarsForScore(t *testing.T) {
	cfg := rules.Default()

	assert.Equal(t, 3, cfg.StarsForScore(210))
	assert.Equal(t, 3, cfg.StarsForScore(180))
	assert.Equal(t, 2, cfg.StarsForScore(150))
	assert.Equal(t, 1, cfg.StarsForScore(60))
	assert.Equal(t, 0, cfg.StarsForScore(59))
	assert.Equal(t, 0, cfg.StarsForScore(0))
}
