package tier

// Level is a named XP band shown on the home screen.
type Level struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	MinXP  int    `json:"minXp"`
}

// Levels is ordered by MinXP; the first entry starts at zero.
var Levels = []Level{
	{Number: 1, Name: "Apprentice", MinXP: 0},
	{Number: 2, Name: "Journeyman", MinXP: 100},
	{Number: 3, Name: "Connector", MinXP: 250},
	{Number: 4, Name: "Raising Gang", MinXP: 500},
	{Number: 5, Name: "Foreman", MinXP: 1000},
	{Number: 6, Name: "General Foreman", MinXP: 2000},
}

// LevelForXP returns the highest level whose threshold xp has reached.
// Negative xp is treated as zero.
func LevelForXP(xp int) Level {
	current := Levels[0]
	for _, l := range Levels[1:] {
		if xp < l.MinXP {
			break
		}
		current = l
	}
	return current
}

// XPToNextLevel returns the XP still needed to reach the next level, or 0 at
// the top level.
func XPToNextLevel(xp int) int {
	if xp < 0 {
		xp = 0
	}
	for _, l := range Levels {
		if xp < l.MinXP {
			return l.MinXP - xp
		}
	}
	return 0
}

// ProgressToNextLevel returns how far xp is through its current level, in
// the range [0, 1]. The top level always reports 1.
func ProgressToNextLevel(xp int) float64 {
	current := LevelForXP(xp)
	if current.Number == len(Levels) {
		return 1
	}
	next := Levels[current.Number]
	if xp < current.MinXP {
		return 0
	}
	return float64(xp-current.MinXP) / float64(next.MinXP-current.MinXP)
}
