package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Esteb4ncd/solace-server/pkg/domain/exercise"
	apperrors "github.com/Esteb4ncd/solace-server/pkg/errors"
)

// DefaultLimit is the number of recommendations a reply carries.
const DefaultLimit = 3

// Reply sources.
const (
	SourceModel    = "model"
	SourceTemplate = "template"
)

var errEmptyResponse = errors.New("empty response")

// Responder generates a free-form coach message for a prompt.
type Responder interface {
	Respond(ctx context.Context, prompt string) (string, error)
}

// Reply is the coach's answer to one intake message.
type Reply struct {
	Message         string                         `json:"message"`
	Source          string                         `json:"source"`
	Extraction      Extraction                     `json:"extraction"`
	Recommendations []exercise.RecommendedExercise `json:"recommendations"`
}

// Coach answers intake messages. A nil Responder always uses templates.
type Coach struct {
	catalog   *exercise.Catalog
	responder Responder
	logger    *slog.Logger
}

func NewCoach(catalog *exercise.Catalog, responder Responder, logger *slog.Logger) *Coach {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coach{
		catalog:   catalog,
		responder: responder,
		logger:    logger.With("component", "coach"),
	}
}

// Reply extracts the message, ranks exercises and writes the answer.
// A failing responder falls back to the template message; Reply never fails.
func (c *Coach) Reply(ctx context.Context, message string, limit int) Reply {
	if limit <= 0 {
		limit = DefaultLimit
	}

	ext := Extract(message)
	recs := c.catalog.Rank(ext.PainAreas, ext.WorkTasks, ext.Keywords, limit)
	reply := Reply{
		Extraction:      ext,
		Recommendations: recs,
	}

	if c.responder != nil {
		text, err := c.responder.Respond(ctx, buildPrompt(message, ext, recs))
		text = strings.TrimSpace(text)
		if err == nil && text != "" {
			reply.Message = text
			reply.Source = SourceModel
			return reply
		}
		if err == nil {
			err = errEmptyResponse
		}
		c.logger.Warn("Responder failed, using template", "error", apperrors.ErrCoachFailed.WithCause(err))
	}

	reply.Message = templateReply(ext, recs)
	reply.Source = SourceTemplate
	return reply
}

// SystemPrompt frames every responder call.
const SystemPrompt = `You are a friendly wellness coach for ironworkers.
Reply in two or three short sentences. Acknowledge what the worker said,
mention the suggested exercises by name, and never give a medical diagnosis.
If they describe sharp, sudden or worsening pain, tell them to see a medical professional.`

func buildPrompt(message string, ext Extraction, recs []exercise.RecommendedExercise) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Worker message: %q\n", message)
	if len(ext.PainAreas) > 0 {
		fmt.Fprintf(&b, "Pain areas: %s\n", strings.Join(ext.PainAreas, ", "))
	}
	if len(ext.WorkTasks) > 0 {
		fmt.Fprintf(&b, "Work tasks: %s\n", strings.Join(ext.WorkTasks, ", "))
	}
	if len(recs) > 0 {
		b.WriteString("Suggested exercises:\n")
		for _, r := range recs {
			fmt.Fprintf(&b, "- %s: %s\n", r.Exercise.Name, r.Exercise.Description)
		}
	} else {
		b.WriteString("No exercises matched yet; ask where it hurts and what work they do.\n")
	}
	return b.String()
}
