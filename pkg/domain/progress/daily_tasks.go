package progress

import "github.com/Esteb4ncd/solace-server/pkg/domain/exercise"

// Checklist colors for the home screen.
const (
	RecommendedXPColor = "#F5A623"
	SecondaryXPColor   = "#8E9AAF"
)

// DailyTask is one row of the day's checklist.
type DailyTask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	XPAmount    int    `json:"xpAmount"`
	XPColor     string `json:"xpColor"`
	IsCompleted bool   `json:"isCompleted"`
}

// BuildDailyTasks derives a fresh checklist from the recommended and secondary
// exercises. Recommended entries come first. A task is completed when the
// tracker has it on today's calendar day; a nil tracker marks nothing done.
func BuildDailyTasks(recommended, secondary []exercise.RecommendedExercise, tracker *Tracker) []DailyTask {
	tasks := make([]DailyTask, 0, len(recommended)+len(secondary))
	seen := make(map[string]struct{}, cap(tasks))

	doneToday := map[string]bool{}
	if tracker != nil {
		for _, c := range tracker.CompletedOn(tracker.Today()) {
			doneToday[c.ID] = true
		}
	}

	add := func(r exercise.RecommendedExercise) {
		if _, dup := seen[r.Exercise.ID]; dup {
			return
		}
		seen[r.Exercise.ID] = struct{}{}

		color := SecondaryXPColor
		if r.IsRecommended {
			color = RecommendedXPColor
		}
		tasks = append(tasks, DailyTask{
			ID:          r.Exercise.ID,
			Title:       r.Exercise.Name,
			XPAmount:    r.XPReward(),
			XPColor:     color,
			IsCompleted: doneToday[r.Exercise.ID],
		})
	}

	for _, r := range recommended {
		add(r)
	}
	for _, r := range secondary {
		add(r)
	}
	return tasks
}
