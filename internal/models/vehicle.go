package models

import "strings"

// Tier is a difficulty bucket grouping puzzle templates.
type Tier string

const (
	TierEasy   Tier = "Easy"
	TierMedium Tier = "Medium"
	TierHard   Tier = "Hard"
)

// ParseTier normalizes a client-supplied tier name. ok is false for
// anything that is not one of the three known tiers.
func ParseTier(s string) (Tier, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return TierEasy, true
	case "medium":
		return TierMedium, true
	case "hard":
		return TierHard, true
	default:
		return "", false
	}
}

func (t Tier) String() string { return string(t) }

type Vehicle struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
	Year  int    `json:"year"`
}

// VehicleTemplate is an immutable puzzle template defined at deploy time.
type VehicleTemplate struct {
	ID           string   `json:"id"`
	Vehicle      Vehicle  `json:"vehicle"`
	ImageKey     string   `json:"imageKey"`
	ImagePart    string   `json:"imagePart"`
	BrandOptions []string `json:"brandOptions"`
	ModelOptions []string `json:"modelOptions"`
	YearOptions  []int    `json:"yearOptions"`
	Level        Tier     `json:"level"`
	Difficulty   int      `json:"difficulty"`
	Tags         []string `json:"tags"`
}

// Puzzle is a single-round instance derived from a template: options
// freshly shuffled, image URL resolved. Never persisted.
type Puzzle struct {
	ID           string   `json:"id"`
	Vehicle      Vehicle  `json:"vehicle"`
	ImageURL     string   `json:"imageUrl"`
	BrandOptions []string `json:"brandOptions"`
	ModelOptions []string `json:"modelOptions"`
	YearOptions  []int    `json:"yearOptions"`
	Difficulty   int      `json:"difficulty"`
	Tags         []string `json:"tags"`
	ImagePart    string   `json:"imagePart,omitempty"`
}
