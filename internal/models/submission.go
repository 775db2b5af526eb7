package models

import "strings"

// Mode discriminates which optional payload a submission carries.
type Mode string

const (
	ModeClassic       Mode = "classic"
	ModeEndurance     Mode = "endurance"
	ModeJourney       Mode = "journey"
	ModeBonus         Mode = "bonus"
	ModeProfileUpdate Mode = "profile_update"
	ModeHint          Mode = "hint"
	ModePowerUp       Mode = "powerup"
	ModePurchase      Mode = "purchase"
)

// ParseMode normalizes a client-supplied mode tag. Game modes arrive
// capitalized from older clients ("Classic", "Journey"), action modes
// lowercase.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "classic":
		return ModeClassic, true
	case "endurance":
		return ModeEndurance, true
	case "journey":
		return ModeJourney, true
	case "bonus":
		return ModeBonus, true
	case "profile_update":
		return ModeProfileUpdate, true
	case "hint":
		return ModeHint, true
	case "powerup":
		return ModePowerUp, true
	case "purchase":
		return ModePurchase, true
	default:
		return "", false
	}
}

// Scoring reports whether the mode is a played round (as opposed to a
// narrow single-purpose mutation like a purchase or a hint).
func (m Mode) Scoring() bool {
	switch m {
	case ModeClassic, ModeEndurance, ModeJourney:
		return true
	default:
		return false
	}
}

type BonusData struct {
	Gears         int    `json:"gears"`
	LastBonusDate string `json:"lastBonusDate"`
	LoginStreak   int    `json:"loginStreak"`
}

type JourneyData struct {
	LevelID   string `json:"levelId"`
	Stars     int    `json:"stars"`
	Completed bool   `json:"completed"`
	Score     int    `json:"score"`
}

type PurchaseData struct {
	PowerUp string `json:"powerUp"`
	Cost    int    `json:"cost"`
}

type ProfileData struct {
	Username string `json:"username"`
}

// Submission is the wire shape of an update-game-data request. Mode
// decides which of the optional payloads is meaningful; everything else
// is ignored for that mode.
type Submission struct {
	Score        int           `json:"score"`
	Mode         string        `json:"mode"`
	Level        string        `json:"level,omitempty"`
	Mistakes     int           `json:"mistakes"`
	CorrectCount int           `json:"correctCount"`
	TimeSpent    *float64      `json:"timeSpent,omitempty"`
	BonusData    *BonusData    `json:"bonusData,omitempty"`
	JourneyData  *JourneyData  `json:"journeyData,omitempty"`
	HintCost     int           `json:"hintCost,omitempty"`
	PowerUpType  string        `json:"powerUpType,omitempty"`
	PurchaseData *PurchaseData `json:"purchaseData,omitempty"`
	ProfileData  *ProfileData  `json:"profileData,omitempty"`
}
