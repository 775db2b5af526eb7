package models

import "time"

// MaxGameHistory caps the bounded, most-recent-first history log.
const MaxGameHistory = 10

type DifficultyPlays struct {
	Easy   int `json:"Easy"`
	Medium int `json:"Medium"`
	Hard   int `json:"Hard"`
}

// Add bumps the play counter for a tier.
func (d *DifficultyPlays) Add(t Tier) {
	switch t {
	case TierEasy:
		d.Easy++
	case TierMedium:
		d.Medium++
	case TierHard:
		d.Hard++
	}
}

type PowerUps struct {
	TimeFreeze int `json:"timeFreeze"`
	ClueGiver  int `json:"clueGiver"`
}

// Count returns the inventory count for a powerup name, false when unknown.
func (p *PowerUps) Count(name string) (int, bool) {
	switch name {
	case "timeFreeze":
		return p.TimeFreeze, true
	case "clueGiver":
		return p.ClueGiver, true
	default:
		return 0, false
	}
}

// Adjust adds delta to a powerup count, flooring at zero. Returns false
// for an unknown powerup name.
func (p *PowerUps) Adjust(name string, delta int) bool {
	switch name {
	case "timeFreeze":
		p.TimeFreeze = max(0, p.TimeFreeze+delta)
	case "clueGiver":
		p.ClueGiver = max(0, p.ClueGiver+delta)
	default:
		return false
	}
	return true
}

type GameHistoryEntry struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Mode      string    `json:"mode"`
	Level     string    `json:"level"`
	Score     int       `json:"score"`
	Mistakes  int       `json:"mistakes"`
	Won       bool      `json:"won"`
	TimeSpent *float64  `json:"timeSpent"`
	Timestamp time.Time `json:"timestamp"`
}

type JourneyProgress struct {
	Stars     int  `json:"stars"`
	Score     int  `json:"score"`
	Completed bool `json:"completed"`
}

// PlayerStats is the persisted progression state for one player. It is
// mutated exclusively through the progression engine.
type PlayerStats struct {
	HighScore          int                        `json:"highScore"`
	EnduranceHighScore int                        `json:"enduranceHighScore"`
	GamesPlayed        int                        `json:"gamesPlayed"`
	GamesWon           int                        `json:"gamesWon"`
	TotalPoints        int                        `json:"totalPoints"`
	DifficultyPlays    DifficultyPlays            `json:"difficultyPlays"`
	Gears              int                        `json:"gears"`
	XP                 int                        `json:"xp"`
	Level              int                        `json:"level"`
	PowerUps           PowerUps                   `json:"powerUps"`
	CorrectAnswers     int                        `json:"correctAnswers"`
	IncorrectAnswers   int                        `json:"incorrectAnswers"`
	PerfectRounds      int                        `json:"perfectRounds"`
	GameHistory        []GameHistoryEntry         `json:"gameHistory"`
	LastBonusDate      string                     `json:"lastBonusDate"`
	LoginStreak        int                        `json:"loginStreak"`
	JourneyProgress    map[string]JourneyProgress `json:"journeyProgress"`
}

// NewPlayerStats returns the seeded defaults for a first-time player.
func NewPlayerStats() PlayerStats {
	return PlayerStats{
		Gears:           20,
		Level:           1,
		GameHistory:     []GameHistoryEntry{},
		JourneyProgress: map[string]JourneyProgress{},
	}
}

// Normalize backfills fields missing from records written by older
// revisions so the rest of the code never sees nil maps or a zero level.
func (s *PlayerStats) Normalize() {
	if s.Level < 1 {
		s.Level = 1
	}
	if s.GameHistory == nil {
		s.GameHistory = []GameHistoryEntry{}
	}
	if s.JourneyProgress == nil {
		s.JourneyProgress = map[string]JourneyProgress{}
	}
}
