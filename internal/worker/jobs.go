package worker

import (
	"context"
	"time"

	"gearguessr/internal/logger"
	"gearguessr/internal/notify"
	"gearguessr/internal/repository"
)

// PushNotificationJob delivers one push message off the request path.
type PushNotificationJob struct {
	Channel      notify.Channel
	TargetUserID string
	Message      notify.Message
}

func (j *PushNotificationJob) Name() string { return "push_notification" }

func (j *PushNotificationJob) Run(ctx context.Context) error {
	if err := j.Channel.Push(ctx, j.TargetUserID, j.Message); err != nil {
		// Best-effort: log and swallow so the pool does not treat a
		// dead client connection as a job failure worth alarming on.
		logger.FromContext(ctx).Warn("push to %s failed: %v", j.TargetUserID, err)
	}
	return nil
}

// ChallengeCleanupJob sweeps lapsed pending challenges.
type ChallengeCleanupJob struct {
	Challenges repository.ChallengeRepository
}

func (j *ChallengeCleanupJob) Name() string { return "challenge_cleanup" }

func (j *ChallengeCleanupJob) Run(ctx context.Context) error {
	_, err := j.Challenges.DeleteExpired(ctx, time.Now().UTC())
	return err
}
