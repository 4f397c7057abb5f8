// Package intake turns a worker's free-text check-in into pain areas, work
// tasks and keywords, and produces the coach's reply.
package intake

import (
	"cmp"
	"slices"
	"strings"
)

// Extraction is what Extract found in a message.
type Extraction struct {
	PainAreas []string `json:"painAreas"`
	WorkTasks []string `json:"workTasks"`
	Keywords  []string `json:"keywords"`
}

// Empty reports whether nothing was extracted.
func (e Extraction) Empty() bool {
	return len(e.PainAreas) == 0 && len(e.WorkTasks) == 0 && len(e.Keywords) == 0
}

// minKeywordLen drops short filler words from the keyword list.
const minKeywordLen = 4

// Extract runs the keyword heuristics over text. Results keep vocabulary
// order for areas and tasks, and message order for keywords.
func Extract(text string) Extraction {
	words := strings.Fields(normalize(text))

	var out Extraction
	out.PainAreas = matchTerms(words, painAreas, true)
	out.WorkTasks = matchTerms(words, workTasks, false)

	seen := make(map[string]struct{})
	for _, w := range words {
		if w == "" || len(w) < minKeywordLen {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out.Keywords = append(out.Keywords, w)
	}
	return out
}

type phrase struct {
	words     []string
	canonical string
}

// matchTerms finds vocabulary phrases in words, longest phrases first, and
// blanks out every matched word so a shorter phrase cannot reuse it.
// With fuzzy set, leftover single words may match single-word phrases by
// edit distance.
func matchTerms(words []string, vocab []term, fuzzy bool) []string {
	var phrases []phrase
	for _, t := range vocab {
		for _, p := range t.Phrases {
			phrases = append(phrases, phrase{words: strings.Fields(p), canonical: t.Canonical})
		}
	}
	slices.SortStableFunc(phrases, func(a, b phrase) int {
		return cmp.Compare(len(b.words), len(a.words))
	})

	found := make(map[string]struct{})
	for _, p := range phrases {
		for i := 0; i+len(p.words) <= len(words); i++ {
			if slices.Equal(words[i:i+len(p.words)], p.words) {
				found[p.canonical] = struct{}{}
				for j := i; j < i+len(p.words); j++ {
					words[j] = ""
				}
			}
		}
	}

	if fuzzy {
		for i, w := range words {
			if len(w) < minKeywordLen {
				continue
			}
			for _, p := range phrases {
				if len(p.words) == 1 && similarityScore(w, p.words[0]) >= fuzzyThreshold {
					found[p.canonical] = struct{}{}
					words[i] = ""
					break
				}
			}
		}
	}

	var out []string
	for _, t := range vocab {
		if _, ok := found[t.Canonical]; ok {
			out = append(out, t.Canonical)
		}
	}
	return out
}
