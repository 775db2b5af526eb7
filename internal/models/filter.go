package models

// PlayerFilter narrows and orders player listings (leaderboards, rival
// pools). Zero values mean "no constraint".
type PlayerFilter struct {
	MinGamesPlayed int
	OrderBy        string // "high_score", "total_points", "level"; defaults to high_score
	Limit          int
	Offset         int
}
