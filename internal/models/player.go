package models

import (
	"strings"
	"time"
)

// Identity is the per-request claims object supplied by the external
// authenticator. The server trusts it as given and never validates
// tokens itself.
type Identity struct {
	SubjectID     string `json:"subjectId"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	Name          string `json:"name"`
	PictureURL    string `json:"picture,omitempty"`
	EmailVerified bool   `json:"emailVerified"`
	SignInMethod  string `json:"signInMethod"` // "google" or "email"
}

// Profile is the persisted identity slice of a player record.
type Profile struct {
	Email         string `json:"email"`
	Username      string `json:"username"`
	Name          string `json:"name"`
	PictureURL    string `json:"picture,omitempty"`
	EmailVerified bool   `json:"emailVerified"`
	SignInMethod  string `json:"authMethod"`
}

// AutoGeneratedUsername reports whether a username is a provider
// placeholder (provider-prefixed or email-shaped) rather than a
// human-chosen name.
func AutoGeneratedUsername(username string) bool {
	if username == "" {
		return true
	}
	return strings.HasPrefix(username, "Google_") || strings.Contains(username, "@")
}

// PlayerRecord is the single persisted item per player.
type PlayerRecord struct {
	UserID       string      `json:"userId"`
	Profile      Profile     `json:"profile"`
	Stats        PlayerStats `json:"stats"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
	LastActivity *time.Time  `json:"lastActivity,omitempty"`
}

// NewPlayerRecord creates a record with seeded default stats for a
// first-time player.
func NewPlayerRecord(userID string, identity Identity, now time.Time) PlayerRecord {
	return PlayerRecord{
		UserID: userID,
		Profile: Profile{
			Email:         identity.Email,
			Username:      identity.Username,
			Name:          identity.Name,
			PictureURL:    identity.PictureURL,
			EmailVerified: identity.EmailVerified,
			SignInMethod:  identity.SignInMethod,
		},
		Stats:     NewPlayerStats(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type LeaderboardEntry struct {
	Rank        int     `json:"rank"`
	UserID      string  `json:"userId"`
	Username    string  `json:"username"`
	PictureURL  string  `json:"picture,omitempty"`
	HighScore   int     `json:"highScore"`
	Level       int     `json:"level"`
	GamesPlayed int     `json:"gamesPlayed"`
	TotalPoints int     `json:"totalPoints"`
	WinRate     int     `json:"winRate"`
	LastActive  string  `json:"lastActive"`
	IsOnline    bool    `json:"isOnline"`
}

// Leaderboard bundles the top slice with the wider rival pool.
type Leaderboard struct {
	Leaderboard  []LeaderboardEntry `json:"leaderboard"`
	Rivals       []LeaderboardEntry `json:"rivals"`
	TotalPlayers int                `json:"totalPlayers"`
}

type ChallengeStatus string

const (
	ChallengePending  ChallengeStatus = "pending"
	ChallengeAccepted ChallengeStatus = "accepted"
	ChallengeDeclined ChallengeStatus = "declined"
)

// Challenge is a direct head-to-head invitation between two players.
type Challenge struct {
	ChallengeID      string          `json:"challengeId"`
	CreatorID        string          `json:"creatorId"`
	CreatorName      string          `json:"creatorName"`
	TargetPlayerID   string          `json:"targetPlayerId"`
	TargetPlayerName string          `json:"targetPlayerName"`
	GameMode         string          `json:"gameMode"`
	Difficulty       string          `json:"difficulty"`
	Status           ChallengeStatus `json:"status"`
	CreatedAt        time.Time       `json:"createdAt"`
	ExpiresAt        time.Time       `json:"expiresAt"`
	AcceptedAt       *time.Time      `json:"acceptedAt,omitempty"`
	DeclinedAt       *time.Time      `json:"declinedAt,omitempty"`
}

// Expired reports whether the challenge invitation has lapsed.
func (c *Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
