package models

import "time"

// MatchTicket is one player's entry in the matchmaking queue. Tickets
// live only in the cache and lapse after a short TTL.
type MatchTicket struct {
	UserID     string    `json:"userId"`
	Username   string    `json:"username"`
	SkillLevel int       `json:"skillLevel"`
	Difficulty string    `json:"difficulty"`
	JoinedAt   time.Time `json:"joinedAt"`
}

// Expired reports whether the ticket has sat in the queue past ttl.
func (t *MatchTicket) Expired(now time.Time, ttl time.Duration) bool {
	return now.After(t.JoinedAt.Add(ttl))
}

// MatchOpponent is the slice of a matched player disclosed to the
// other side.
type MatchOpponent struct {
	Username   string `json:"username"`
	SkillLevel int    `json:"skillLevel"`
}

// MatchResult is the outcome of a queue join or a match probe.
type MatchResult struct {
	MatchFound     bool
	Opponent       *MatchOpponent
	EstimatedWait  int
	PlayersInQueue int
}
