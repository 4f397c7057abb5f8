package types

import "time"

// ExerciseCompletedEvent is published once per newly recorded completion.
type ExerciseCompletedEvent struct {
	UserID      string    `json:"user_id"`
	ExerciseID  string    `json:"exercise_id"`
	Name        string    `json:"name"`
	XPGained    int       `json:"xp_gained"`
	Recommended bool      `json:"recommended"`
	CompletedAt time.Time `json:"completed_at"`
	// Day is the user's local calendar day, YYYY-MM-DD.
	Day         string `json:"day"`
	StreakCount int    `json:"streak_count"`
}
