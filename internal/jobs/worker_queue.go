package jobs

import (
	"gearguessr/internal/notify"
	"gearguessr/internal/repository"
	"gearguessr/internal/worker"
)

// WorkerQueue implements Dispatcher using a worker pool
type WorkerQueue struct {
	pool       *worker.Pool
	channel    notify.Channel
	challenges repository.ChallengeRepository
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, channel notify.Channel, challenges repository.ChallengeRepository) Dispatcher {
	return &WorkerQueue{pool: pool, channel: channel, challenges: challenges}
}

func (q *WorkerQueue) EnqueueNotification(targetUserID string, msg notify.Message) bool {
	return q.pool.TrySubmit(&worker.PushNotificationJob{
		Channel:      q.channel,
		TargetUserID: targetUserID,
		Message:      msg,
	})
}

func (q *WorkerQueue) EnqueueChallengeCleanup() bool {
	return q.pool.TrySubmit(&worker.ChallengeCleanupJob{Challenges: q.challenges})
}
