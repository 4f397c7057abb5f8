// Package file_generators renders a day of completed exercises as a FIT
// activity file and summarizes FIT files for inspection.
package file_generators

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/muktihari/fit/encoder"
	"github.com/muktihari/fit/profile/mesgdef"
	"github.com/muktihari/fit/profile/typedef"
	"github.com/muktihari/fit/proto"

	"github.com/Esteb4ncd/solace-server/pkg/domain/exercise"
	"github.com/Esteb4ncd/solace-server/pkg/domain/progress"
)

// DefaultSetDuration is used for exercises without a catalog duration.
const DefaultSetDuration = 60 * time.Second

// ProductID identifies files written by this server.
const ProductID = 1

// categoryRules are checked in order against the lower-cased name and id.
var categoryRules = []struct {
	needle   string
	category typedef.ExerciseCategory
}{
	{"lunge", typedef.ExerciseCategoryLunge},
	{"bridge", typedef.ExerciseCategoryHipRaise},
	{"calf", typedef.ExerciseCategoryCalfRaise},
	{"carry", typedef.ExerciseCategoryCarry},
	{"rotation", typedef.ExerciseCategoryShoulderStability},
	{"bird", typedef.ExerciseCategoryCore},
	{"plank", typedef.ExerciseCategoryPlank},
}

// MapExerciseToCategory picks the closest FIT exercise category. Stretches
// and mobility work are recorded as warm up.
func MapExerciseToCategory(e exercise.Exercise) typedef.ExerciseCategory {
	key := strings.ToLower(e.ID + " " + e.Name)
	for _, r := range categoryRules {
		if strings.Contains(key, r.needle) {
			return r.category
		}
	}
	switch strings.ToLower(e.Category) {
	case "stretch", "mobility":
		return typedef.ExerciseCategoryWarmUp
	}
	for _, area := range e.TargetAreas {
		if strings.EqualFold(area, "core") {
			return typedef.ExerciseCategoryCore
		}
	}
	return typedef.ExerciseCategoryUnknown
}

// GenerateSessionFitFile encodes the completions as one strength training
// session. A completion is stamped when the exercise ends, so each set
// starts one exercise duration earlier, but never before the previous set
// ends; sets never overlap. Completions missing from the catalog still
// produce a set with the default duration.
func GenerateSessionFitFile(completions []progress.CompletedExercise, catalog *exercise.Catalog) ([]byte, error) {
	if len(completions) == 0 {
		return nil, fmt.Errorf("session must have at least one completion")
	}

	sorted := slices.Clone(completions)
	slices.SortStableFunc(sorted, func(a, b progress.CompletedExercise) int {
		return a.CompletedAt.Compare(b.CompletedAt)
	})

	type setSpan struct {
		start    time.Time
		duration time.Duration
		category typedef.ExerciseCategory
	}
	spans := make([]setSpan, len(sorted))
	var prevEnd time.Time
	for i, c := range sorted {
		duration := DefaultSetDuration
		category := typedef.ExerciseCategoryUnknown
		if e, ok := catalog.FindByID(c.ID); ok {
			if e.DurationSeconds > 0 {
				duration = time.Duration(e.DurationSeconds) * time.Second
			}
			category = MapExerciseToCategory(e)
		}
		start := c.CompletedAt.Add(-duration)
		if i > 0 && start.Before(prevEnd) {
			start = prevEnd
		}
		spans[i] = setSpan{start: start, duration: c.CompletedAt.Sub(start), category: category}
		prevEnd = c.CompletedAt
	}

	startTime := spans[0].start
	endTime := sorted[len(sorted)-1].CompletedAt
	elapsedMs := uint32(endTime.Sub(startTime) / time.Millisecond)

	var timerMs uint32
	for _, s := range spans {
		timerMs += uint32(s.duration / time.Millisecond)
	}

	fit := &proto.FIT{}

	fileID := mesgdef.NewFileId(nil).
		SetType(typedef.FileActivity).
		SetManufacturer(typedef.ManufacturerDevelopment).
		SetProduct(ProductID).
		SetTimeCreated(endTime)
	fit.Messages = append(fit.Messages, fileID.ToMesg(nil))

	for i, s := range spans {
		setMsg := mesgdef.NewSet(nil).
			SetTimestamp(s.start.Add(s.duration)).
			SetStartTime(s.start).
			SetDuration(uint32(s.duration / time.Millisecond)).
			SetCategory([]typedef.ExerciseCategory{s.category}).
			SetSetType(typedef.SetTypeActive).
			SetMessageIndex(typedef.MessageIndex(i))
		fit.Messages = append(fit.Messages, setMsg.ToMesg(nil))
	}

	lapMsg := mesgdef.NewLap(nil).
		SetTimestamp(endTime).
		SetStartTime(startTime).
		SetSport(typedef.SportTraining).
		SetTotalElapsedTime(elapsedMs).
		SetTotalTimerTime(timerMs).
		SetMessageIndex(0)
	fit.Messages = append(fit.Messages, lapMsg.ToMesg(nil))

	// Summary messages go last
	sessionMsg := mesgdef.NewSession(nil).
		SetTimestamp(endTime).
		SetStartTime(startTime).
		SetSport(typedef.SportTraining).
		SetTotalElapsedTime(elapsedMs).
		SetTotalTimerTime(timerMs).
		SetNumLaps(1)
	fit.Messages = append(fit.Messages, sessionMsg.ToMesg(nil))

	activityMsg := mesgdef.NewActivity(nil).
		SetTimestamp(endTime).
		SetType(typedef.ActivityManual).
		SetTotalTimerTime(timerMs).
		SetNumSessions(1)
	fit.Messages = append(fit.Messages, activityMsg.ToMesg(nil))

	var buf bytes.Buffer
	if err := encoder.New(&buf).Encode(fit); err != nil {
		return nil, fmt.Errorf("failed to encode FIT file: %w", err)
	}
	return buf.Bytes(), nil
}

// SessionObject is the artifact path of a user's session for a day.
func SessionObject(userID string, day progress.Day) string {
	return fmt.Sprintf("sessions/%s/%s.fit", userID, day)
}
