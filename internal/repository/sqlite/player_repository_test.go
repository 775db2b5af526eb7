package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"gearguessr/internal/db"
	apperrors "gearguessr/internal/errors"
	"gearguessr/internal/models"
	"gearguessr/internal/repository"
	"gearguessr/internal/repository/sqlite"
	"gearguessr/internal/testutil"
)

type PlayerRepositorySuite struct {
	suite.Suite
	db   *db.DB
	repo repository.PlayerRepository
}

func (s *PlayerRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewPlayerRepository(s.db.DB)
}

func (s *PlayerRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *PlayerRepositorySuite) newRecord(userID, email, username string) models.PlayerRecord {
	now := time.Now().UTC().Truncate(time.Second)
	return models.NewPlayerRecord(userID, models.Identity{
		SubjectID:     userID,
		Email:         email,
		Username:      username,
		Name:          "Test Player",
		EmailVerified: true,
		SignInMethod:  "email",
	}, now)
}

func (s *PlayerRepositorySuite) TestPutAndGet() {
	ctx := context.Background()
	rec := s.newRecord("user-1", "p1@example.com", "player_one")

	s.Require().NoError(s.repo.Put(ctx, rec))

	got, err := s.repo.Get(ctx, "user-1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("player_one", got.Profile.Username)
	s.Assert().Equal(20, got.Stats.Gears, "seeded default currency")
	s.Assert().Equal(1, got.Stats.Level)
	s.Assert().NotNil(got.Stats.JourneyProgress)
}

func (s *PlayerRepositorySuite) TestGetMissingReturnsNil() {
	got, err := s.repo.Get(context.Background(), "ghost")
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func (s *PlayerRepositorySuite) TestAtomicApplyMutates() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Put(ctx, s.newRecord("user-1", "p1@example.com", "player_one")))

	updated, err := s.repo.AtomicApply(ctx, "user-1", func(rec *models.PlayerRecord) error {
		rec.Stats.Gears += 30
		rec.Stats.GamesPlayed++
		return nil
	})
	s.Require().NoError(err)
	s.Assert().Equal(50, updated.Stats.Gears)

	got, err := s.repo.Get(ctx, "user-1")
	s.Require().NoError(err)
	s.Assert().Equal(50, got.Stats.Gears)
	s.Assert().Equal(1, got.Stats.GamesPlayed)
}

func (s *PlayerRepositorySuite) TestAtomicApplyMissingRecord() {
	_, err := s.repo.AtomicApply(context.Background(), "ghost", func(rec *models.PlayerRecord) error {
		return nil
	})

	s.Require().Error(err)
	s.Assert().ErrorIs(err, &apperrors.AppError{Code: apperrors.ErrCodeNotFound})
}

func (s *PlayerRepositorySuite) TestAtomicApplyRejectionRollsBack() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Put(ctx, s.newRecord("user-1", "p1@example.com", "player_one")))

	_, err := s.repo.AtomicApply(ctx, "user-1", func(rec *models.PlayerRecord) error {
		rec.Stats.Gears = 9999
		return apperrors.NewInvalidScoreError("testing rollback")
	})
	s.Require().Error(err)

	got, err := s.repo.Get(ctx, "user-1")
	s.Require().NoError(err)
	s.Assert().Equal(20, got.Stats.Gears, "rejected update must not persist")
}

func (s *PlayerRepositorySuite) TestRekeyPreservesStats() {
	ctx := context.Background()
	rec := s.newRecord("old-id", "p1@example.com", "player_one")
	rec.Stats.HighScore = 420
	s.Require().NoError(s.repo.Put(ctx, rec))

	s.Require().NoError(s.repo.Rekey(ctx, "old-id", "new-id"))

	gone, err := s.repo.Get(ctx, "old-id")
	s.Require().NoError(err)
	s.Assert().Nil(gone)

	got, err := s.repo.Get(ctx, "new-id")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal(420, got.Stats.HighScore)
	s.Assert().Equal("player_one", got.Profile.Username)
}

func (s *PlayerRepositorySuite) TestRekeyMissingRecord() {
	err := s.repo.Rekey(context.Background(), "ghost", "new-id")
	s.Assert().ErrorIs(err, &apperrors.AppError{Code: apperrors.ErrCodeNotFound})
}

func (s *PlayerRepositorySuite) TestFindByEmailCaseInsensitive() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Put(ctx, s.newRecord("user-1", "Player@Example.com", "player_one")))

	got, err := s.repo.FindByEmail(ctx, "player@example.COM")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("user-1", got.UserID)

	none, err := s.repo.FindByEmail(ctx, "other@example.com")
	s.Require().NoError(err)
	s.Assert().Nil(none)
}

func (s *PlayerRepositorySuite) TestUsernameExistsCaseInsensitive() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Put(ctx, s.newRecord("user-1", "p1@example.com", "abc")))

	exists, err := s.repo.UsernameExists(ctx, "ABC", "")
	s.Require().NoError(err)
	s.Assert().True(exists)

	// A player checking their own name sees it as free.
	exists, err = s.repo.UsernameExists(ctx, "abc", "user-1")
	s.Require().NoError(err)
	s.Assert().False(exists)

	exists, err = s.repo.UsernameExists(ctx, "someone_else", "")
	s.Require().NoError(err)
	s.Assert().False(exists)
}

func (s *PlayerRepositorySuite) TestUsernameUniquenessEnforced() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Put(ctx, s.newRecord("user-1", "p1@example.com", "taken")))

	err := s.repo.Put(ctx, s.newRecord("user-2", "p2@example.com", "TAKEN"))
	s.Assert().Error(err, "case-insensitive unique index rejects the collision")
}

func (s *PlayerRepositorySuite) TestEmptyUsernamesDoNotCollide() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Put(ctx, s.newRecord("user-1", "p1@example.com", "")))
	s.Require().NoError(s.repo.Put(ctx, s.newRecord("user-2", "p2@example.com", "")))
}

func (s *PlayerRepositorySuite) TestListOrdersByHighScore() {
	ctx := context.Background()
	for i, hs := range []int{100, 500, 300} {
		rec := s.newRecord(
			[]string{"user-a", "user-b", "user-c"}[i],
			[]string{"a@x.com", "b@x.com", "c@x.com"}[i],
			[]string{"alice", "bob", "carol"}[i],
		)
		rec.Stats.HighScore = hs
		rec.Stats.GamesPlayed = i // 0, 1, 2
		s.Require().NoError(s.repo.Put(ctx, rec))
	}

	players, err := s.repo.List(ctx, models.PlayerFilter{Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(players, 2)
	s.Assert().Equal("bob", players[0].Profile.Username)
	s.Assert().Equal("carol", players[1].Profile.Username)

	active, err := s.repo.List(ctx, models.PlayerFilter{MinGamesPlayed: 1})
	s.Require().NoError(err)
	s.Assert().Len(active, 2, "players with zero games filtered out")
}

func (s *PlayerRepositorySuite) TestCount() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Put(ctx, s.newRecord("user-1", "p1@example.com", "alice")))
	s.Require().NoError(s.repo.Put(ctx, s.newRecord("user-2", "p2@example.com", "bob")))

	n, err := s.repo.Count(ctx)
	s.Require().NoError(err)
	s.Assert().Equal(2, n)
}

func (s *PlayerRepositorySuite) TestUpdateLastActivity() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Put(ctx, s.newRecord("user-1", "p1@example.com", "alice")))

	at := time.Now().UTC().Truncate(time.Second)
	s.Require().NoError(s.repo.UpdateLastActivity(ctx, "user-1", at))

	got, err := s.repo.Get(ctx, "user-1")
	s.Require().NoError(err)
	s.Require().NotNil(got.LastActivity)
	s.Assert().WithinDuration(at, *got.LastActivity, time.Second)

	err = s.repo.UpdateLastActivity(ctx, "ghost", at)
	s.Assert().ErrorIs(err, &apperrors.AppError{Code: apperrors.ErrCodeNotFound})
}

func TestPlayerRepositorySuite(t *testing.T) {
	suite.Run(t, new(PlayerRepositorySuite))
}
