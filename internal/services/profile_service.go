package services

import (
	"context"
	"regexp"
	"time"

	apperrors "gearguessr/internal/errors"
	"gearguessr/internal/logger"
	"gearguessr/internal/models"
	"gearguessr/internal/repository"
)

// ProfileService reconciles external identities with persisted player
// records and owns username rules.
type ProfileService interface {
	// EnsurePlayer returns the record for an identity, creating it with
	// seeded defaults on first access. When a verified email matches a
	// prior record with a human-chosen username, that record is re-keyed
	// to the new identity so progress survives a sign-in-method switch.
	EnsurePlayer(ctx context.Context, identity models.Identity) (*models.PlayerRecord, error)
	// CheckUsername reports whether a username is valid and free.
	CheckUsername(ctx context.Context, username string, forUserID string) (bool, error)
	// SetupUsername assigns a human-chosen username to a player.
	SetupUsername(ctx context.Context, userID string, username string) (*models.PlayerRecord, error)
	// EmailExists reports whether any record carries the email, and the
	// sign-in method the matching record uses.
	EmailExists(ctx context.Context, email string) (bool, string, error)
	// TouchActivity records the player as recently active.
	TouchActivity(ctx context.Context, userID string) error
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

type profileService struct {
	players repository.PlayerRepository
	now     func() time.Time
}

// NewProfileService creates a new ProfileService
func NewProfileService(players repository.PlayerRepository) ProfileService {
	return &profileService{players: players, now: time.Now}
}

func (s *profileService) EnsurePlayer(ctx context.Context, identity models.Identity) (*models.PlayerRecord, error) {
	log := logger.FromContext(ctx)

	if identity.SubjectID == "" {
		return nil, apperrors.NewUnauthorizedError("missing subject id")
	}

	rec, err := s.players.Get(ctx, identity.SubjectID)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		return s.refreshProfile(ctx, rec, identity)
	}

	if linked, err := s.linkByEmail(ctx, identity); err != nil {
		// Linking is an enrichment; a failure here must not block the
		// player from getting a fresh record.
		log.Warn("account link by email failed, creating fresh record: %v", err)
	} else if linked != nil {
		return linked, nil
	}

	log.Info("creating player record: user_id=%s", identity.SubjectID)
	rec2 := models.NewPlayerRecord(identity.SubjectID, identity, s.now().UTC())
	if err := s.players.Put(ctx, rec2); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &rec2, nil
}

// refreshProfile backfills claim-derived fields that drifted since the
// record was created. A human-chosen username is never overwritten.
func (s *profileService) refreshProfile(ctx context.Context, rec *models.PlayerRecord, identity models.Identity) (*models.PlayerRecord, error) {
	stale := rec.Profile.Email != identity.Email && identity.Email != "" ||
		rec.Profile.Name == "" && identity.Name != "" ||
		rec.Profile.PictureURL == "" && identity.PictureURL != "" ||
		rec.Profile.EmailVerified != identity.EmailVerified
	if !stale {
		return rec, nil
	}

	return s.players.AtomicApply(ctx, rec.UserID, func(r *models.PlayerRecord) error {
		if identity.Email != "" {
			r.Profile.Email = identity.Email
		}
		if r.Profile.Name == "" {
			r.Profile.Name = identity.Name
		}
		if r.Profile.PictureURL == "" {
			r.Profile.PictureURL = identity.PictureURL
		}
		r.Profile.EmailVerified = identity.EmailVerified
		return nil
	})
}

// linkByEmail re-keys a prior record to the new identity when the email
// matches and the existing username was chosen by a human. Placeholder
// usernames (provider-prefixed or email-shaped) never justify a link: a
// fresh record is cheaper than guessing wrong.
func (s *profileService) linkByEmail(ctx context.Context, identity models.Identity) (*models.PlayerRecord, error) {
	if identity.Email == "" || !identity.EmailVerified {
		return nil, nil
	}

	prior, err := s.players.FindByEmail(ctx, identity.Email)
	if err != nil {
		return nil, err
	}
	if prior == nil || models.AutoGeneratedUsername(prior.Profile.Username) {
		return nil, nil
	}

	log := logger.FromContext(ctx)
	log.Info("linking existing record %s to identity %s via verified email", prior.UserID, identity.SubjectID)

	if err := s.players.Rekey(ctx, prior.UserID, identity.SubjectID); err != nil {
		return nil, err
	}
	return s.players.AtomicApply(ctx, identity.SubjectID, func(rec *models.PlayerRecord) error {
		rec.Profile.SignInMethod = identity.SignInMethod
		rec.Profile.EmailVerified = identity.EmailVerified
		if rec.Profile.PictureURL == "" {
			rec.Profile.PictureURL = identity.PictureURL
		}
		if rec.Profile.Name == "" {
			rec.Profile.Name = identity.Name
		}
		return nil
	})
}

func (s *profileService) CheckUsername(ctx context.Context, username string, forUserID string) (bool, error) {
	if !usernamePattern.MatchString(username) {
		return false, apperrors.NewValidationError("username", "must be 3-20 characters of letters, digits, or underscore")
	}
	taken, err := s.players.UsernameExists(ctx, username, forUserID)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

func (s *profileService) SetupUsername(ctx context.Context, userID string, username string) (*models.PlayerRecord, error) {
	log := logger.FromContext(ctx)
	log.Debug("setting username for %s", userID)

	available, err := s.CheckUsername(ctx, username, userID)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, apperrors.NewConflictError("username already taken")
	}

	// The unique index remains the arbiter under races; the check above
	// only gives a friendlier error for the common case.
	return s.players.AtomicApply(ctx, userID, func(rec *models.PlayerRecord) error {
		rec.Profile.Username = username
		return nil
	})
}

func (s *profileService) EmailExists(ctx context.Context, email string) (bool, string, error) {
	if email == "" {
		return false, "", apperrors.NewValidationError("email", "must not be empty")
	}
	rec, err := s.players.FindByEmail(ctx, email)
	if err != nil {
		return false, "", err
	}
	if rec == nil {
		return false, "", nil
	}
	return true, rec.Profile.SignInMethod, nil
}

func (s *profileService) TouchActivity(ctx context.Context, userID string) error {
	return s.players.UpdateLastActivity(ctx, userID, s.now().UTC())
}
