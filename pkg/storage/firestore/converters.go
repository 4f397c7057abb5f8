package firestore

import (
	"time"

	"github.com/Esteb4ncd/solace-server/pkg/domain/progress"
	"github.com/Esteb4ncd/solace-server/pkg/types"
)

// Helper to safely get string from map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Helper to safely get an integer from map.
// Firestore stores numbers as int64, but tests and merges may hand back int or float64.
func getInt64(m map[string]interface{}, key string) int64 {
	switch n := m[key].(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

// Helper to safely get time from map (handles time.Time from Firestore)
func getTime(m map[string]interface{}, key string) time.Time {
	if v, ok := m[key]; ok {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Time{}
}

// --- Completion Converters ---

// CompletionDocID keys a completion by exercise and the user's calendar day.
func CompletionDocID(exerciseID string, day progress.Day) string {
	return exerciseID + "_" + day.String()
}

func CompletionToFirestore(c progress.CompletedExercise, day progress.Day) map[string]interface{} {
	return map[string]interface{}{
		"id":           c.ID,
		"name":         c.Name,
		"xp_gained":    int64(c.XPGained),
		"completed_at": c.CompletedAt,
		"day":          day.String(),
	}
}

func FirestoreToCompletion(m map[string]interface{}) progress.CompletedExercise {
	return progress.CompletedExercise{
		ID:          getString(m, "id"),
		Name:        getString(m, "name"),
		XPGained:    int(getInt64(m, "xp_gained")),
		CompletedAt: getTime(m, "completed_at"),
	}
}

// GenerationFromUser reads the reset generation from a user document.
func GenerationFromUser(m map[string]interface{}) int64 {
	return getInt64(m, "progress_generation")
}

// --- ExecutionRecord Converters ---

func ExecutionToFirestore(r *types.ExecutionRecord) map[string]interface{} {
	m := map[string]interface{}{
		"execution_id": r.ExecutionID,
		"service":      r.Service,
		"status":       int32(r.Status),
		"trigger_type": r.TriggerType,
	}
	if r.Timestamp != nil {
		m["timestamp"] = r.Timestamp.AsTime()
	}
	if r.StartTime != nil {
		m["start_time"] = r.StartTime.AsTime()
	}
	if r.EndTime != nil {
		m["end_time"] = r.EndTime.AsTime()
	}
	if r.UserID != nil {
		m["user_id"] = *r.UserID
	}
	if r.InputsJSON != nil {
		m["inputs_json"] = *r.InputsJSON
	}
	if r.OutputsJSON != nil {
		m["outputs_json"] = *r.OutputsJSON
	}
	if r.ErrorMessage != nil {
		m["error_message"] = *r.ErrorMessage
	}
	return m
}
