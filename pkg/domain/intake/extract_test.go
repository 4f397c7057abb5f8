package intake

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Extraction
	}{
		{
			name: "areas, tasks and a typo",
			text: "My lower back and sholder are killing me from lifting rebar all week.",
			want: Extraction{
				PainAreas: []string{"shoulder", "lower back"},
				WorkTasks: []string{"heavy lifting", "tying rebar"},
				Keywords:  []string{"killing"},
			},
		},
		{
			name: "longer phrase wins",
			text: "Pain between my shoulder blades after welding overhead",
			want: Extraction{
				PainAreas: []string{"upper back"},
				WorkTasks: []string{"overhead work", "welding"},
				Keywords:  []string{"between"},
			},
		},
		{
			name: "nothing recognised",
			text: "Hi there!",
			want: Extraction{},
		},
		{
			name: "keywords only",
			text: "Really stiff this morning, stiff and tingling",
			want: Extraction{
				Keywords: []string{"stiff", "morning", "tingling"},
			},
		},
		{
			name: "case and punctuation",
			text: "KNEES!!! Climbing ladders all day...",
			want: Extraction{
				PainAreas: []string{"knee"},
				WorkTasks: []string{"climbing"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Extract(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestExtraction_Empty(t *testing.T) {
	if !(Extraction{}).Empty() {
		t.Error("zero extraction should be empty")
	}
	if (Extraction{Keywords: []string{"stiff"}}).Empty() {
		t.Error("extraction with keywords is not empty")
	}
}

func TestSimilarityScore(t *testing.T) {
	tests := []struct {
		a, b string
		min  float64
		max  float64
	}{
		{"shoulder", "shoulder", 1, 1},
		{"sholder", "shoulder", 0.85, 0.9},
		{"knee", "neck", 0, 0.5},
		{"", "", 1, 1},
	}
	for _, tt := range tests {
		got := similarityScore(tt.a, tt.b)
		if got < tt.min || got > tt.max {
			t.Errorf("similarityScore(%q, %q) = %f, want in [%f, %f]", tt.a, tt.b, got, tt.min, tt.max)
		}
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"wrist", "wrist", 0},
	}
	for _, tt := range tests {
		if got := levenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestJoinList(t *testing.T) {
	tests := map[string][]string{
		"":           nil,
		"a":          {"a"},
		"a and b":    {"a", "b"},
		"a, b and c": {"a", "b", "c"},
	}
	for want, in := range tests {
		if got := joinList(in); got != want {
			t.Errorf("joinList(%v) = %q, want %q", in, got, want)
		}
	}
}
