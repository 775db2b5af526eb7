package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearguessr/internal/cache"
	apperrors "gearguessr/internal/errors"
	"gearguessr/internal/models"
	"gearguessr/internal/services"
)

func matchPlayer(sub, username string) models.PlayerRecord {
	id := models.Identity{SubjectID: sub, Username: username, Email: sub + "@example.com"}
	return models.NewPlayerRecord(sub, id, time.Now())
}

func newMatchmaking(dispatcher *recordingDispatcher, opts ...services.MatchmakingOption) services.MatchmakingService {
	return services.NewMatchmakingService(cache.NewMemory(), dispatcher, 5*time.Minute, opts...)
}

func TestJoin_QueuesWhenAlone(t *testing.T) {
	svc := newMatchmaking(&recordingDispatcher{})
	ctx := context.Background()

	result, err := svc.Join(ctx, matchPlayer("sub-a", "alice"), 100, "Medium")
	require.NoError(t, err)

	assert.False(t, result.MatchFound)
	assert.Equal(t, 30, result.EstimatedWait)

	probe, err := svc.Find(ctx, "sub-b", 100, "Medium")
	require.NoError(t, err)
	assert.True(t, probe.MatchFound)
	assert.Equal(t, "alice", probe.Opponent.Username)
}

func TestJoin_PairsAndNotifiesBothSides(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	svc := newMatchmaking(dispatcher)
	ctx := context.Background()

	_, err := svc.Join(ctx, matchPlayer("sub-a", "alice"), 100, "Medium")
	require.NoError(t, err)

	result, err := svc.Join(ctx, matchPlayer("sub-b", "bob"), 150, "Medium")
	require.NoError(t, err)

	require.True(t, result.MatchFound)
	assert.Equal(t, "alice", result.Opponent.Username)
	assert.Equal(t, 100, result.Opponent.SkillLevel)

	require.Len(t, dispatcher.notifications, 2)
	assert.ElementsMatch(t, []string{"sub-a", "sub-b"}, dispatcher.targets)
	for _, msg := range dispatcher.notifications {
		assert.Equal(t, "match_found", msg.Type)
	}

	// Both tickets are consumed.
	probe, err := svc.Find(ctx, "sub-c", 100, "Medium")
	require.NoError(t, err)
	assert.False(t, probe.MatchFound)
	assert.Equal(t, 0, probe.PlayersInQueue)
}

func TestJoin_PrefersCloseSkill(t *testing.T) {
	svc := newMatchmaking(&recordingDispatcher{})
	ctx := context.Background()

	_, err := svc.Join(ctx, matchPlayer("sub-far", "veteran"), 1000, "Medium")
	require.NoError(t, err)
	_, err = svc.Join(ctx, matchPlayer("sub-near", "rookie"), 100, "Hard")
	require.NoError(t, err)
	_, err = svc.Join(ctx, matchPlayer("sub-near-2", "peer"), 100, "Medium")
	require.NoError(t, err)

	result, err := svc.Join(ctx, matchPlayer("sub-x", "joiner"), 50, "Medium")
	require.NoError(t, err)

	require.True(t, result.MatchFound)
	assert.Equal(t, "peer", result.Opponent.Username)
}

func TestJoin_FallsBackAcrossSkillGap(t *testing.T) {
	svc := newMatchmaking(&recordingDispatcher{})
	ctx := context.Background()

	_, err := svc.Join(ctx, matchPlayer("sub-far", "veteran"), 1000, "Medium")
	require.NoError(t, err)

	// A lopsided pairing beats leaving both players waiting.
	result, err := svc.Join(ctx, matchPlayer("sub-x", "joiner"), 0, "Medium")
	require.NoError(t, err)

	require.True(t, result.MatchFound)
	assert.Equal(t, "veteran", result.Opponent.Username)
}

func TestJoin_TiersNeverMix(t *testing.T) {
	svc := newMatchmaking(&recordingDispatcher{})
	ctx := context.Background()

	_, err := svc.Join(ctx, matchPlayer("sub-a", "alice"), 100, "Easy")
	require.NoError(t, err)

	result, err := svc.Join(ctx, matchPlayer("sub-b", "bob"), 100, "Hard")
	require.NoError(t, err)

	assert.False(t, result.MatchFound)
}

func TestJoin_Validation(t *testing.T) {
	svc := newMatchmaking(&recordingDispatcher{})
	ctx := context.Background()

	_, err := svc.Join(ctx, matchPlayer("sub-a", "alice"), 100, "Impossible")
	assert.ErrorIs(t, err, &apperrors.AppError{Code: apperrors.ErrCodeValidation}, "unknown tier")

	_, err = svc.Join(ctx, matchPlayer("sub-a", "alice"), -5, "Medium")
	assert.ErrorIs(t, err, &apperrors.AppError{Code: apperrors.ErrCodeValidation}, "negative skill")
}

func TestLeave_RemovesTicket(t *testing.T) {
	svc := newMatchmaking(&recordingDispatcher{})
	ctx := context.Background()

	_, err := svc.Join(ctx, matchPlayer("sub-a", "alice"), 100, "Medium")
	require.NoError(t, err)
	require.NoError(t, svc.Leave(ctx, "sub-a"))

	result, err := svc.Join(ctx, matchPlayer("sub-b", "bob"), 100, "Medium")
	require.NoError(t, err)
	assert.False(t, result.MatchFound)
}

func TestLeave_EmptyQueueIsFine(t *testing.T) {
	svc := newMatchmaking(&recordingDispatcher{})

	assert.NoError(t, svc.Leave(context.Background(), "sub-ghost"))
}

func TestJoin_LapsedTicketsIgnored(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newMatchmaking(&recordingDispatcher{}, services.WithMatchmakingClock(func() time.Time { return now }))
	ctx := context.Background()

	_, err := svc.Join(ctx, matchPlayer("sub-a", "alice"), 100, "Medium")
	require.NoError(t, err)

	now = now.Add(6 * time.Minute)
	result, err := svc.Join(ctx, matchPlayer("sub-b", "bob"), 100, "Medium")
	require.NoError(t, err)

	assert.False(t, result.MatchFound, "a ticket past its wait window never matches")
}

func TestFind_DoesNotConsumeQueue(t *testing.T) {
	svc := newMatchmaking(&recordingDispatcher{})
	ctx := context.Background()

	_, err := svc.Join(ctx, matchPlayer("sub-a", "alice"), 100, "Medium")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		probe, err := svc.Find(ctx, "sub-b", 100, "Medium")
		require.NoError(t, err)
		assert.True(t, probe.MatchFound)
	}
}

func TestFind_CountsOnlySameTier(t *testing.T) {
	svc := newMatchmaking(&recordingDispatcher{})
	ctx := context.Background()

	_, err := svc.Join(ctx, matchPlayer("sub-a", "alice"), 3000, "Medium")
	require.NoError(t, err)
	_, err = svc.Join(ctx, matchPlayer("sub-b", "bob"), 3000, "Hard")
	require.NoError(t, err)

	// A self-probe by a queued player reports only the others.
	probe, err := svc.Find(ctx, "sub-a", 0, "Medium")
	require.NoError(t, err)
	assert.False(t, probe.MatchFound)
	assert.Equal(t, 0, probe.PlayersInQueue)

	probe, err = svc.Find(ctx, "sub-c", 3000, "Hard")
	require.NoError(t, err)
	assert.True(t, probe.MatchFound)
	assert.Equal(t, "bob", probe.Opponent.Username)
}
