package intake

import (
	"fmt"
	"strings"

	"github.com/Esteb4ncd/solace-server/pkg/domain/exercise"
)

const greetingMessage = "Thanks for checking in. Where are you feeling pain or tightness today, and what kind of work have you been doing on site?"

// templateReply picks the fallback message for an extraction.
func templateReply(ext Extraction, recs []exercise.RecommendedExercise) string {
	switch {
	case len(ext.PainAreas) == 0 && len(ext.WorkTasks) == 0:
		if len(recs) > 0 {
			return fmt.Sprintf("Thanks for sharing. A good place to start is %s. Can you tell me where it hurts and what work you've been doing?", recs[0].Exercise.Name)
		}
		return greetingMessage
	case len(ext.WorkTasks) == 0:
		return fmt.Sprintf("Got it, your %s. What tasks have you been doing most this week, for example heavy lifting or overhead work?", joinList(ext.PainAreas))
	case len(ext.PainAreas) == 0:
		return fmt.Sprintf("Thanks. With %s on your plate, which part of your body is feeling it the most?", joinList(ext.WorkTasks))
	}

	if len(recs) == 0 {
		return fmt.Sprintf("Thanks. I couldn't find a good match for your %s yet. Can you describe where it hurts in a bit more detail?", joinList(ext.PainAreas))
	}
	names := make([]string, len(recs))
	for i, r := range recs {
		names[i] = r.Exercise.Name
	}
	return fmt.Sprintf("Based on your %s and %s, start with %s. Take it slow and stop if anything feels sharp.",
		joinList(ext.PainAreas), joinList(ext.WorkTasks), joinList(names))
}

// joinList renders "a", "a and b" or "a, b and c".
func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
