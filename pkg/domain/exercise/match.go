package exercise

import "strings"

// matchesArea applies the bidirectional, case-insensitive substring rule:
// a target area matches when either string contains the other.
func (e Exercise) matchesArea(area string) bool {
	want := strings.ToLower(area)
	for _, t := range e.TargetAreas {
		have := strings.ToLower(t)
		if strings.Contains(have, want) || strings.Contains(want, have) {
			return true
		}
	}
	return false
}

// matchesWorkTask is an exact, case-sensitive membership test.
func (e Exercise) matchesWorkTask(task string) bool {
	for _, t := range e.WorkTaskMatches {
		if t == task {
			return true
		}
	}
	return false
}

func matchesKeyword(haystack, keyword string) bool {
	return strings.Contains(haystack, strings.ToLower(keyword))
}

// terms drops blank entries so an empty string never matches everything.
func terms(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
