package exercise

import "strings"

// Difficulty grades how demanding an exercise is.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Valid reports whether d is one of the known difficulty levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Exercise is a read-only catalog record.
type Exercise struct {
	ID                  string     `json:"id" yaml:"id"`
	Name                string     `json:"name" yaml:"name"`
	Description         string     `json:"description" yaml:"description"`
	TargetAreas         []string   `json:"targetAreas" yaml:"targetAreas"`
	ExerciseTypes       []string   `json:"exerciseTypes" yaml:"exerciseTypes"`
	Keywords            []string   `json:"keywords" yaml:"keywords"`
	WorkTaskMatches     []string   `json:"workTaskMatches" yaml:"workTaskMatches"`
	Difficulty          Difficulty `json:"difficulty" yaml:"difficulty"`
	BaseXPReward        int        `json:"baseXpReward" yaml:"baseXpReward"`
	RecommendedXPReward int        `json:"recommendedXpReward" yaml:"recommendedXpReward"`

	Category        string   `json:"category,omitempty" yaml:"category,omitempty"`
	Instructions    []string `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	VideoFile       string   `json:"videoFile,omitempty" yaml:"videoFile,omitempty"`
	DurationSeconds int      `json:"durationSeconds,omitempty" yaml:"durationSeconds,omitempty"`
}

// RecommendedExercise pairs an exercise with how it was selected.
// Score is the ranking score and is zero for secondary exercises.
type RecommendedExercise struct {
	Exercise      Exercise `json:"exercise"`
	IsRecommended bool     `json:"isRecommended"`
	Score         int      `json:"score,omitempty"`
}

// XPReward returns the points awarded for completing e.
func XPReward(e Exercise, isRecommended bool) int {
	if isRecommended {
		return e.RecommendedXPReward
	}
	return e.BaseXPReward
}

// XPReward returns the points awarded for completing the paired exercise.
func (r RecommendedExercise) XPReward() int {
	return XPReward(r.Exercise, r.IsRecommended)
}

// searchText is the lower-cased haystack used for keyword matching.
func (e Exercise) searchText() string {
	parts := make([]string, 0, len(e.Keywords)+len(e.TargetAreas)+len(e.ExerciseTypes)+2)
	parts = append(parts, e.Keywords...)
	parts = append(parts, e.TargetAreas...)
	parts = append(parts, e.ExerciseTypes...)
	parts = append(parts, e.Name, e.Description)
	return strings.ToLower(strings.Join(parts, " "))
}
