package intake

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/Esteb4ncd/solace-server/pkg/bootstrap"
	apperrors "github.com/Esteb4ncd/solace-server/pkg/errors"
	"github.com/Esteb4ncd/solace-server/pkg/framework"
)

// maxMessageLen bounds the text forwarded to the coach.
const maxMessageLen = 2000

var (
	svc     *bootstrap.Service
	svcOnce sync.Once
	svcErr  error
)

func init() {
	functions.HTTP("IntakeChat", IntakeChat)
}

func initService(ctx context.Context) (*bootstrap.Service, error) {
	if svc != nil {
		return svc, nil
	}
	svcOnce.Do(func() {
		svc, svcErr = bootstrap.NewService(ctx)
		if svcErr != nil {
			slog.Error("Failed to initialize service", "error", svcErr)
		}
	})
	return svc, svcErr
}

type chatRequest struct {
	UserID  string `json:"userId,omitempty"`
	Message string `json:"message"`
	Limit   int    `json:"limit,omitempty"`
}

// IntakeChat answers a worker's check-in message with exercise suggestions.
func IntakeChat(w http.ResponseWriter, r *http.Request) {
	svc, err := initService(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("service init failed: %v", err), http.StatusInternalServerError)
		return
	}
	framework.WrapHTTP("intake", svc, http.MethodPost, chatHandler)(w, r)
}

func chatHandler(r *http.Request, fwCtx *framework.FrameworkContext) (interface{}, error) {
	var req chatRequest
	if err := framework.DecodeJSON(r, &req); err != nil {
		return nil, err
	}
	if len(req.Message) > maxMessageLen {
		return nil, apperrors.ErrValidation.WithMessage(fmt.Sprintf("message longer than %d bytes", maxMessageLen))
	}
	fwCtx.SetUser(r.Context(), req.UserID)

	reply := fwCtx.Service.Wellness.Intake(r.Context(), strings.TrimSpace(req.Message), req.Limit)
	fwCtx.Logger.Info("Intake answered",
		"source", reply.Source,
		"pain_areas", reply.Extraction.PainAreas,
		"work_tasks", reply.Extraction.WorkTasks,
		"recommendations", len(reply.Recommendations))
	return reply, nil
}
