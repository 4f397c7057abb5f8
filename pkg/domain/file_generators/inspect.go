package file_generators

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/muktihari/fit/decoder"
	"github.com/muktihari/fit/profile/mesgdef"
	"github.com/muktihari/fit/profile/typedef"
)

// SetSummary describes one decoded set message.
type SetSummary struct {
	StartTime time.Time
	Duration  time.Duration
	Category  typedef.ExerciseCategory
}

// FitSummary is what inspect-fit prints for a file.
type FitSummary struct {
	MessageCounts    map[string]int
	StartTime        time.Time
	TotalElapsedTime time.Duration
	TotalTimerTime   time.Duration
	Sets             []SetSummary
}

// MessageNames returns the message names sorted for stable output.
func (s *FitSummary) MessageNames() []string {
	names := make([]string, 0, len(s.MessageCounts))
	for n := range s.MessageCounts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// InspectFitFile decodes data and summarizes its session and sets.
func InspectFitFile(data []byte) (*FitSummary, error) {
	fitData, err := decoder.New(bytes.NewReader(data)).Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode FIT file: %w", err)
	}

	summary := &FitSummary{MessageCounts: map[string]int{}}
	for i := range fitData.Messages {
		msg := &fitData.Messages[i]
		summary.MessageCounts[msg.Num.String()]++

		switch msg.Num {
		case typedef.MesgNumSession:
			session := mesgdef.NewSession(msg)
			summary.StartTime = session.StartTime
			summary.TotalElapsedTime = time.Duration(session.TotalElapsedTime) * time.Millisecond
			summary.TotalTimerTime = time.Duration(session.TotalTimerTime) * time.Millisecond
		case typedef.MesgNumSet:
			set := mesgdef.NewSet(msg)
			s := SetSummary{
				StartTime: set.StartTime,
				Duration:  time.Duration(set.Duration) * time.Millisecond,
				Category:  typedef.ExerciseCategoryUnknown,
			}
			if len(set.Category) > 0 {
				s.Category = set.Category[0]
			}
			summary.Sets = append(summary.Sets, s)
		}
	}
	return summary, nil
}
