// Package wellness ties the exercise catalog, progress tracking and the
// intake coach to the persistence and messaging ports.
package wellness

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	shared "github.com/Esteb4ncd/solace-server/pkg"
	"github.com/Esteb4ncd/solace-server/pkg/domain/exercise"
	"github.com/Esteb4ncd/solace-server/pkg/domain/intake"
	"github.com/Esteb4ncd/solace-server/pkg/domain/progress"
	"github.com/Esteb4ncd/solace-server/pkg/domain/tier"
	apperrors "github.com/Esteb4ncd/solace-server/pkg/errors"
	"github.com/Esteb4ncd/solace-server/pkg/infrastructure/pubsub"
	"github.com/Esteb4ncd/solace-server/pkg/types"
)

// Service is safe for concurrent use. Per-user state lives in the
// Database; a Tracker is resumed from its snapshot on every call, so an
// exercise can be completed once per calendar day.
type Service struct {
	DB       shared.Database
	Pub      shared.Publisher
	Catalog  *exercise.Catalog
	Coach    *intake.Coach
	Location *time.Location
	Logger   *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// RecommendRequest is the input of Recommend. UserID is optional and only
// used to mark already completed daily tasks.
type RecommendRequest struct {
	UserID    string   `json:"userId,omitempty"`
	PainAreas []string `json:"painAreas"`
	WorkTasks []string `json:"workTasks"`
	Keywords  []string `json:"keywords"`
	Limit     *int     `json:"limit,omitempty"`
}

// DefaultRecommendLimit applies when a request omits the limit.
const DefaultRecommendLimit = 3

type Recommendation struct {
	Recommended []exercise.RecommendedExercise `json:"recommended"`
	Secondary   []exercise.RecommendedExercise `json:"secondary"`
	DailyTasks  []progress.DailyTask           `json:"dailyTasks"`
}

// Summary is the user's progress as shown on the home screen.
type Summary struct {
	UserID              string                       `json:"userId"`
	Completions         []progress.CompletedExercise `json:"completions"`
	StreakCount         int                          `json:"streakCount"`
	StreakExtendedToday bool                         `json:"streakExtendedToday"`
	TotalXP             int                          `json:"totalXp"`
	Level               tier.Level                   `json:"level"`
	XPToNextLevel       int                          `json:"xpToNextLevel"`
	LevelProgress       float64                      `json:"levelProgress"`
	Generation          int64                        `json:"generation"`
}

type CompleteResult struct {
	Added      bool                        `json:"added"`
	Completion *progress.CompletedExercise `json:"completion,omitempty"`
	Progress   Summary                     `json:"progress"`
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Service) tracker(snap *progress.Snapshot) *progress.Tracker {
	opts := []progress.Option{progress.WithLocation(s.Location)}
	if s.Now != nil {
		opts = append(opts, progress.WithClock(s.Now))
	}
	if snap == nil {
		snap = &progress.Snapshot{}
	}
	return progress.Resume(*snap, opts...)
}

// ValidateUserID rejects ids that are empty or could escape the storage
// paths and document names they are used in.
func ValidateUserID(userID string) error {
	switch {
	case userID == "":
		return apperrors.ErrValidation.WithMessage("userId is required")
	case strings.ContainsAny(userID, `/\`), strings.Contains(userID, ".."):
		return apperrors.ErrValidation.WithMessage("userId must not contain path separators or '..'").
			WithMetadata("user_id", userID)
	}
	return nil
}

func (s *Service) load(ctx context.Context, userID string) (*progress.Tracker, error) {
	if err := ValidateUserID(userID); err != nil {
		return nil, err
	}
	snap, err := s.DB.GetProgress(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapRetryable(err, apperrors.CodeStorageError, "failed to load progress")
	}
	return s.tracker(snap), nil
}

func summarize(userID string, t *progress.Tracker) Summary {
	xp := t.TotalXP()
	return Summary{
		UserID:              userID,
		Completions:         t.All(),
		StreakCount:         t.StreakCount(),
		StreakExtendedToday: t.StreakExtendedToday(),
		TotalXP:             xp,
		Level:               tier.LevelForXP(xp),
		XPToNextLevel:       tier.XPToNextLevel(xp),
		LevelProgress:       tier.ProgressToNextLevel(xp),
		Generation:          t.Generation(),
	}
}

// Recommend ranks the catalog for the request and builds the daily checklist.
func (s *Service) Recommend(ctx context.Context, req RecommendRequest) (*Recommendation, error) {
	limit := DefaultRecommendLimit
	if req.Limit != nil {
		limit = *req.Limit
	}

	recommended := s.Catalog.Rank(req.PainAreas, req.WorkTasks, req.Keywords, limit)
	secondary := s.Catalog.SecondaryExercises(exercise.IDs(recommended))

	var t *progress.Tracker
	if req.UserID != "" {
		var err error
		if t, err = s.load(ctx, req.UserID); err != nil {
			return nil, err
		}
	}

	return &Recommendation{
		Recommended: nonNil(recommended),
		Secondary:   nonNil(secondary),
		DailyTasks:  progress.BuildDailyTasks(recommended, secondary, t),
	}, nil
}

// Complete records a completion of exerciseID. XP comes from the catalog.
// A repeat completion is not an error; it reports Added=false.
func (s *Service) Complete(ctx context.Context, userID, exerciseID string, recommended bool) (*CompleteResult, error) {
	ex, ok := s.Catalog.FindByID(exerciseID)
	if !ok {
		return nil, apperrors.ErrExerciseNotFound.WithMetadata("exercise_id", exerciseID)
	}

	t, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	xp := exercise.XPReward(ex, recommended)
	if !t.MarkComplete(ex.ID, ex.Name, xp) {
		return &CompleteResult{Progress: summarize(userID, t)}, nil
	}
	completed := t.Completed()
	c := completed[len(completed)-1]

	added, err := s.DB.AddCompletion(ctx, userID, progress.DayOf(c.CompletedAt, t.Location()), c)
	if err != nil {
		return nil, apperrors.WrapRetryable(err, apperrors.CodeStorageError, "failed to store completion")
	}
	if !added {
		// Lost a race with a concurrent completion; report stored state.
		t, err = s.load(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &CompleteResult{Progress: summarize(userID, t)}, nil
	}

	summary := summarize(userID, t)
	s.publishCompleted(ctx, userID, c, recommended, summary.StreakCount, t.Location())

	return &CompleteResult{Added: true, Completion: &c, Progress: summary}, nil
}

func (s *Service) publishCompleted(ctx context.Context, userID string, c progress.CompletedExercise, recommended bool, streak int, loc *time.Location) {
	if s.Pub == nil {
		return
	}
	payload := types.ExerciseCompletedEvent{
		UserID:      userID,
		ExerciseID:  c.ID,
		Name:        c.Name,
		XPGained:    c.XPGained,
		Recommended: recommended,
		CompletedAt: c.CompletedAt,
		Day:         progress.DayOf(c.CompletedAt, loc).String(),
		StreakCount: streak,
	}
	e, err := pubsub.NewCloudEvent(shared.EventSource, shared.EventTypeExerciseCompleted, userID, payload)
	if err != nil {
		s.logger().Error("Failed to build completion event", "error", err, "user_id", userID)
		return
	}
	// The completion is already stored; a publish failure only delays export.
	if _, err := s.Pub.PublishCloudEvent(ctx, shared.TopicExerciseCompleted, e); err != nil {
		s.logger().Warn("Failed to publish completion event", "error", err, "user_id", userID, "exercise_id", c.ID)
	}
}

// Progress returns the user's summary; unknown users get an empty one.
func (s *Service) Progress(ctx context.Context, userID string) (*Summary, error) {
	t, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := summarize(userID, t)
	return &summary, nil
}

// Reset clears the user's completions and returns the new generation.
func (s *Service) Reset(ctx context.Context, userID string) (int64, error) {
	if err := ValidateUserID(userID); err != nil {
		return 0, err
	}
	gen, err := s.DB.ResetProgress(ctx, userID)
	if err != nil {
		return 0, apperrors.WrapRetryable(err, apperrors.CodeStorageError, "failed to reset progress")
	}
	s.logger().Info("Progress reset", "user_id", userID, "generation", gen)
	return gen, nil
}

// CompletionsOn returns the user's completions on a calendar day.
func (s *Service) CompletionsOn(ctx context.Context, userID string, day progress.Day) ([]progress.CompletedExercise, error) {
	t, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return t.CompletedOn(day), nil
}

// Intake answers a free-text check-in message. It never fails.
func (s *Service) Intake(ctx context.Context, message string, limit int) intake.Reply {
	coach := s.Coach
	if coach == nil {
		coach = intake.NewCoach(s.Catalog, nil, s.logger())
	}
	reply := coach.Reply(ctx, message, limit)
	reply.Recommendations = nonNil(reply.Recommendations)
	return reply
}

func nonNil(in []exercise.RecommendedExercise) []exercise.RecommendedExercise {
	if in == nil {
		return []exercise.RecommendedExercise{}
	}
	return in
}

// ParseDay parses a YYYY-MM-DD request parameter as a validation error.
func ParseDay(s string) (progress.Day, error) {
	d, err := progress.ParseDay(s)
	if err != nil {
		return progress.Day{}, apperrors.ErrValidation.WithMessage(fmt.Sprintf("invalid day %q", s))
	}
	return d, nil
}
