package jobs

import "gearguessr/internal/notify"

// Dispatcher provides an abstraction for enqueueing background work, so
// services do not depend on the worker pool directly.
type Dispatcher interface {
	// EnqueueNotification schedules a best-effort push. Returns false
	// when the queue is full and the message was dropped.
	EnqueueNotification(targetUserID string, msg notify.Message) bool
	// EnqueueChallengeCleanup schedules a sweep of expired challenges.
	EnqueueChallengeCleanup() bool
}
