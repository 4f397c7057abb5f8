// Package exercise holds the static stretching/strengthening catalog and
// the matching rules used to recommend exercises for reported pain areas
// and work tasks.
package exercise

import (
	"cmp"
	"slices"
)

// Score weights for Rank.
const (
	AreaMatchScore     = 10
	WorkTaskMatchScore = 8
	KeywordMatchScore  = 5
)

// Catalog is an immutable, ordered set of exercises.
// Build one with NewCatalog, Parse, Load or Default; it is safe for
// concurrent readers.
type Catalog struct {
	exercises []Exercise
	byID      map[string]int
}

// Len returns the number of exercises in the catalog.
func (c *Catalog) Len() int {
	return len(c.exercises)
}

// All returns every exercise in catalog order.
func (c *Catalog) All() []Exercise {
	return slices.Clone(c.exercises)
}

// FindByID looks up an exercise by its identifier.
func (c *Catalog) FindByID(id string) (Exercise, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Exercise{}, false
	}
	return c.exercises[i], true
}

// FilterByTargetAreas returns exercises with a target area that contains, or
// is contained by, any requested area (case-insensitive).
func (c *Catalog) FilterByTargetAreas(areas []string) []Exercise {
	areas = terms(areas)
	return c.filter(len(areas), func(e Exercise) bool {
		for _, a := range areas {
			if e.matchesArea(a) {
				return true
			}
		}
		return false
	})
}

// FilterByWorkTasks returns exercises indicated for any of the given tasks.
// Matching is exact and case-sensitive.
func (c *Catalog) FilterByWorkTasks(tasks []string) []Exercise {
	tasks = terms(tasks)
	return c.filter(len(tasks), func(e Exercise) bool {
		for _, t := range tasks {
			if e.matchesWorkTask(t) {
				return true
			}
		}
		return false
	})
}

// FilterByKeywords returns exercises whose keywords, target areas, types,
// name or description contain any keyword (case-insensitive).
func (c *Catalog) FilterByKeywords(keywords []string) []Exercise {
	keywords = terms(keywords)
	return c.filter(len(keywords), func(e Exercise) bool {
		text := e.searchText()
		for _, k := range keywords {
			if matchesKeyword(text, k) {
				return true
			}
		}
		return false
	})
}

func (c *Catalog) filter(n int, keep func(Exercise) bool) []Exercise {
	if n == 0 {
		return nil
	}
	var out []Exercise
	for _, e := range c.exercises {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Score computes the additive relevance of e for the given request.
func Score(e Exercise, areas, tasks, keywords []string) int {
	score := 0
	for _, a := range terms(areas) {
		if e.matchesArea(a) {
			score += AreaMatchScore
		}
	}
	for _, t := range terms(tasks) {
		if e.matchesWorkTask(t) {
			score += WorkTaskMatchScore
		}
	}
	if kw := terms(keywords); len(kw) > 0 {
		text := e.searchText()
		for _, k := range kw {
			if matchesKeyword(text, k) {
				score += KeywordMatchScore
			}
		}
	}
	return score
}

// Rank scores every exercise, drops zero scores and returns at most limit
// entries ordered by descending score. Ties keep catalog order.
func (c *Catalog) Rank(areas, tasks, keywords []string, limit int) []RecommendedExercise {
	if limit <= 0 {
		return nil
	}

	var ranked []RecommendedExercise
	for _, e := range c.exercises {
		if s := Score(e, areas, tasks, keywords); s > 0 {
			ranked = append(ranked, RecommendedExercise{Exercise: e, IsRecommended: true, Score: s})
		}
	}

	slices.SortStableFunc(ranked, func(a, b RecommendedExercise) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// SecondaryExercises returns every exercise not in excludeIDs, in catalog
// order, marked as not recommended.
func (c *Catalog) SecondaryExercises(excludeIDs []string) []RecommendedExercise {
	excluded := make(map[string]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}

	out := make([]RecommendedExercise, 0, len(c.exercises))
	for _, e := range c.exercises {
		if _, skip := excluded[e.ID]; skip {
			continue
		}
		out = append(out, RecommendedExercise{Exercise: e, IsRecommended: false})
	}
	return out
}

// IDs returns the exercise ids of recs in order.
func IDs(recs []RecommendedExercise) []string {
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.Exercise.ID
	}
	return ids
}
