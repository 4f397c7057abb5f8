package file_generators

import (
	"testing"
	"time"

	"github.com/muktihari/fit/profile/typedef"

	"github.com/Esteb4ncd/solace-server/pkg/domain/exercise"
	"github.com/Esteb4ncd/solace-server/pkg/domain/progress"
)

func TestGenerateSessionFitFile(t *testing.T) {
	catalog := exercise.Default()
	end := time.Date(2026, time.October, 15, 7, 0, 0, 0, time.UTC)

	// Out of order on purpose; the unknown id falls back to defaults.
	completions := []progress.CompletedExercise{
		{ID: "farmer-carry", Name: "Farmer Carry", XPGained: 45, CompletedAt: end},
		{ID: "cat-cow", Name: "Cat-Cow", XPGained: 10, CompletedAt: end.Add(-10 * time.Minute)},
		{ID: "retired-exercise", Name: "Old", XPGained: 5, CompletedAt: end.Add(-5 * time.Minute)},
	}

	data, err := GenerateSessionFitFile(completions, catalog)
	if err != nil {
		t.Fatalf("GenerateSessionFitFile: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Expected non-empty FIT file")
	}

	summary, err := InspectFitFile(data)
	if err != nil {
		t.Fatalf("Failed to decode generated FIT file: %v", err)
	}

	counts := map[string]int{}
	for _, name := range summary.MessageNames() {
		counts[name] = summary.MessageCounts[name]
	}
	for name, want := range map[string]int{
		typedef.MesgNumSet.String():      3,
		typedef.MesgNumLap.String():      1,
		typedef.MesgNumSession.String():  1,
		typedef.MesgNumActivity.String(): 1,
	} {
		if counts[name] != want {
			t.Errorf("%s messages = %d, want %d", name, counts[name], want)
		}
	}

	// cat-cow lasts 90s and is the first set.
	wantStart := end.Add(-10*time.Minute - 90*time.Second)
	if !summary.StartTime.Equal(wantStart) {
		t.Errorf("StartTime = %v, want %v", summary.StartTime, wantStart)
	}
	if summary.TotalElapsedTime != end.Sub(wantStart) {
		t.Errorf("TotalElapsedTime = %v, want %v", summary.TotalElapsedTime, end.Sub(wantStart))
	}
	// 90s + 60s default + 180s
	if summary.TotalTimerTime != 330*time.Second {
		t.Errorf("TotalTimerTime = %v, want 330s", summary.TotalTimerTime)
	}

	wantSets := []struct {
		duration time.Duration
		category typedef.ExerciseCategory
	}{
		{90 * time.Second, typedef.ExerciseCategoryWarmUp},
		{60 * time.Second, typedef.ExerciseCategoryUnknown},
		{180 * time.Second, typedef.ExerciseCategoryCarry},
	}
	if len(summary.Sets) != len(wantSets) {
		t.Fatalf("Sets = %d, want %d", len(summary.Sets), len(wantSets))
	}
	for i, want := range wantSets {
		got := summary.Sets[i]
		if got.Duration != want.duration || got.Category != want.category {
			t.Errorf("set %d = %+v, want duration %v category %v", i, got, want.duration, want.category)
		}
	}
}

func TestGenerateSessionFitFile_CloseCompletionsDoNotOverlap(t *testing.T) {
	end := time.Date(2026, time.October, 15, 7, 0, 0, 0, time.UTC)

	// farmer-carry lasts 180s but was finished 30s after cat-cow.
	completions := []progress.CompletedExercise{
		{ID: "cat-cow", Name: "Cat-Cow", XPGained: 10, CompletedAt: end.Add(-30 * time.Second)},
		{ID: "farmer-carry", Name: "Farmer Carry", XPGained: 45, CompletedAt: end},
		{ID: "bird-dog", Name: "Bird Dog", XPGained: 15, CompletedAt: end},
	}

	data, err := GenerateSessionFitFile(completions, exercise.Default())
	if err != nil {
		t.Fatalf("GenerateSessionFitFile: %v", err)
	}
	summary, err := InspectFitFile(data)
	if err != nil {
		t.Fatal(err)
	}

	if summary.TotalTimerTime > summary.TotalElapsedTime {
		t.Errorf("TotalTimerTime %v exceeds TotalElapsedTime %v", summary.TotalTimerTime, summary.TotalElapsedTime)
	}
	wantDurations := []time.Duration{90 * time.Second, 30 * time.Second, 0}
	if len(summary.Sets) != len(wantDurations) {
		t.Fatalf("Sets = %d, want %d", len(summary.Sets), len(wantDurations))
	}
	for i, want := range wantDurations {
		if got := summary.Sets[i].Duration; got != want {
			t.Errorf("set %d duration = %v, want %v", i, got, want)
		}
		if i > 0 {
			prevEnd := summary.Sets[i-1].StartTime.Add(summary.Sets[i-1].Duration)
			if summary.Sets[i].StartTime.Before(prevEnd) {
				t.Errorf("set %d starts at %v before previous set ends at %v", i, summary.Sets[i].StartTime, prevEnd)
			}
		}
	}
}

func TestGenerateSessionFitFile_Empty(t *testing.T) {
	if _, err := GenerateSessionFitFile(nil, exercise.Default()); err == nil {
		t.Error("Expected error for empty session")
	}
}

func TestMapExerciseToCategory(t *testing.T) {
	catalog := exercise.Default()
	tests := map[string]typedef.ExerciseCategory{
		"hip-flexor-lunge":       typedef.ExerciseCategoryLunge,
		"glute-bridge":           typedef.ExerciseCategoryHipRaise,
		"calf-raise":             typedef.ExerciseCategoryCalfRaise,
		"band-external-rotation": typedef.ExerciseCategoryShoulderStability,
		"bird-dog":               typedef.ExerciseCategoryCore,
		"neck-side-stretch":      typedef.ExerciseCategoryWarmUp,
	}
	for id, want := range tests {
		e, ok := catalog.FindByID(id)
		if !ok {
			t.Fatalf("missing catalog exercise %s", id)
		}
		if got := MapExerciseToCategory(e); got != want {
			t.Errorf("MapExerciseToCategory(%s) = %v, want %v", id, got, want)
		}
	}

	if got := MapExerciseToCategory(exercise.Exercise{ID: "x", Category: "strength"}); got != typedef.ExerciseCategoryUnknown {
		t.Errorf("unmapped exercise = %v, want unknown", got)
	}
}

func TestSessionObject(t *testing.T) {
	day := progress.Day{Year: 2026, Month: time.October, Day: 5}
	if got := SessionObject("u1", day); got != "sessions/u1/2026-10-05.fit" {
		t.Errorf("SessionObject = %q", got)
	}
}

func TestInspectFitFile_Invalid(t *testing.T) {
	if _, err := InspectFitFile([]byte("not a fit file")); err == nil {
		t.Error("Expected decode error")
	}
}
