// Package progress records exercise completions and derives the user's
// current daily streak.
package progress

import (
	"slices"
	"sync"
	"time"
)

// CompletedExercise is a single completion record.
type CompletedExercise struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	XPGained    int       `json:"xpGained"`
	CompletedAt time.Time `json:"completedAt"`
}

// Snapshot is the persisted form of a Tracker.
type Snapshot struct {
	Completions []CompletedExercise `json:"completions"`
	Generation  int64               `json:"generation"`
}

// Tracker owns the completion list for one user.
// All mutation goes through its methods; it is safe for concurrent use.
//
// A tracker resumed from storage also carries history: completions from
// earlier days. History counts toward streaks and XP but not toward the
// one-completion-per-id rule, which applies to the current list only.
type Tracker struct {
	mu          sync.RWMutex
	completions []CompletedExercise
	history     []CompletedExercise
	generation  int64

	now func() time.Time
	loc *time.Location
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLocation sets the zone used to cut timestamps into calendar days.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

// NewTracker returns an empty tracker using local time.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		now: time.Now,
		loc: time.Local,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Resume rebuilds a tracker from a stored snapshot that may span many days.
// Completions before today become history and today's completions become the
// current list, so an exercise can be completed again on a later day.
func Resume(s Snapshot, opts ...Option) *Tracker {
	t := NewTracker(opts...)
	today := DayOf(t.now(), t.loc)

	var current []CompletedExercise
	for _, c := range s.Completions {
		if DayOf(c.CompletedAt, t.loc).Before(today) {
			t.history = append(t.history, c)
		} else {
			current = append(current, c)
		}
	}
	t.restore(current)
	t.generation = s.Generation
	return t
}

// MarkComplete records a completion stamped with the current time.
// The first completion of an id wins; it reports whether a record was added.
func (t *Tracker) MarkComplete(id, name string, xpGained int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.indexOf(id) >= 0 {
		return false
	}
	t.completions = append(t.completions, CompletedExercise{
		ID:          id,
		Name:        name,
		XPGained:    xpGained,
		CompletedAt: t.now(),
	})
	return true
}

// Reset clears every completion and bumps the generation counter.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.completions = nil
	t.history = nil
	t.generation++
}

// Generation changes on every Reset. Observers compare it to discard state
// tied to the previous set of completions.
func (t *Tracker) Generation() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.generation
}

// IsComplete reports whether id is in the current list. History is ignored.
func (t *Tracker) IsComplete(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.indexOf(id) >= 0
}

// Completed returns the current completion records in insertion order.
func (t *Tracker) Completed() []CompletedExercise {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.completions)
}

// All returns history followed by the current completions.
func (t *Tracker) All() []CompletedExercise {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.all()
}

func (t *Tracker) all() []CompletedExercise {
	return slices.Concat(t.history, t.completions)
}

// TotalXP sums the XP of every completion, history included.
func (t *Tracker) TotalXP() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	total := 0
	for _, c := range t.all() {
		total += c.XPGained
	}
	return total
}

// StreakCount returns the number of consecutive calendar days, ending today,
// with at least one completion. It is 0 when today has no completion.
func (t *Tracker) StreakCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	all := t.all()
	if len(all) == 0 {
		return 0
	}

	days := make(map[Day]struct{}, len(all))
	for _, c := range all {
		days[DayOf(c.CompletedAt, t.loc)] = struct{}{}
	}

	streak := 0
	for d := DayOf(t.now(), t.loc); ; d = d.Prev() {
		if _, ok := days[d]; !ok {
			break
		}
		streak++
	}
	return streak
}

// StreakExtendedToday reports whether any completion falls on today.
func (t *Tracker) StreakExtendedToday() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	today := DayOf(t.now(), t.loc)
	for _, c := range t.all() {
		if DayOf(c.CompletedAt, t.loc) == today {
			return true
		}
	}
	return false
}

// Today returns the tracker's current calendar day.
func (t *Tracker) Today() Day {
	return DayOf(t.now(), t.loc)
}

// CompletedOn returns the completions that fall on day, in insertion order.
func (t *Tracker) CompletedOn(day Day) []CompletedExercise {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []CompletedExercise
	for _, c := range t.all() {
		if DayOf(c.CompletedAt, t.loc) == day {
			out = append(out, c)
		}
	}
	return out
}

// Location returns the zone used for calendar days.
func (t *Tracker) Location() *time.Location {
	return t.loc
}

// Snapshot captures the tracker state for persistence, history first.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Snapshot{
		Completions: t.all(),
		Generation:  t.generation,
	}
}

// Restore replaces the tracker state with s as a single current list and
// drops any history. Duplicate ids in s keep their first occurrence. Use
// Resume for snapshots that span several days.
func (t *Tracker) Restore(s Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.history = nil
	t.restore(s.Completions)
	t.generation = s.Generation
}

func (t *Tracker) restore(completions []CompletedExercise) {
	t.completions = make([]CompletedExercise, 0, len(completions))
	seen := make(map[string]struct{}, len(completions))
	for _, c := range completions {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		t.completions = append(t.completions, c)
	}
}

func (t *Tracker) indexOf(id string) int {
	return slices.IndexFunc(t.completions, func(c CompletedExercise) bool {
		return c.ID == id
	})
}
