// Package notify is the outbound push-notification boundary. Delivery
// is best-effort and fire-and-forget: failures are logged, never
// surfaced to the request that triggered them.
package notify

import (
	"context"

	"gearguessr/internal/logger"
)

// Message is a push payload for one player.
type Message struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	ChallengeID string `json:"challengeId,omitempty"`
	FromUserID  string `json:"fromUserId,omitempty"`
}

// Channel delivers messages to a player's connected clients.
type Channel interface {
	Push(ctx context.Context, targetUserID string, msg Message) error
}

// LogChannel writes notifications to the log instead of a transport.
// Used when no real push channel is configured.
type LogChannel struct{}

func NewLogChannel() *LogChannel {
	return &LogChannel{}
}

func (c *LogChannel) Push(ctx context.Context, targetUserID string, msg Message) error {
	logger.FromContext(ctx).WithPrefix("notify").Info(
		"push to %s: type=%s title=%q", targetUserID, msg.Type, msg.Title)
	return nil
}
