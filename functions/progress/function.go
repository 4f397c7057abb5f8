package progress

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/Esteb4ncd/solace-server/pkg/bootstrap"
	apperrors "github.com/Esteb4ncd/solace-server/pkg/errors"
	"github.com/Esteb4ncd/solace-server/pkg/framework"
)

var (
	svc     *bootstrap.Service
	svcOnce sync.Once
	svcErr  error
)

func init() {
	functions.HTTP("CompleteExercise", CompleteExercise)
	functions.HTTP("GetProgress", GetProgress)
	functions.HTTP("ResetProgress", ResetProgress)
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

func serve(name, method string, handler framework.HTTPHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc, err := initService(r.Context())
		if err != nil {
			http.Error(w, fmt.Sprintf("service init failed: %v", err), http.StatusInternalServerError)
			return
		}
		framework.WrapHTTP(name, svc, method, handler)(w, r)
	}
}

type completeRequest struct {
	UserID      string `json:"userId"`
	ExerciseID  string `json:"exerciseId"`
	Recommended bool   `json:"recommended"`
}

type resetRequest struct {
	UserID string `json:"userId"`
}

type resetResponse struct {
	UserID     string `json:"userId"`
	Generation int64  `json:"generation"`
}

// CompleteExercise records a completed exercise for a user.
func CompleteExercise(w http.ResponseWriter, r *http.Request) {
	serve("progress-complete", http.MethodPost, completeHandler)(w, r)
}

// GetProgress returns a user's completions, streak and level.
func GetProgress(w http.ResponseWriter, r *http.Request) {
	serve("progress-get", http.MethodGet, getHandler)(w, r)
}

// ResetProgress clears a user's completions.
func ResetProgress(w http.ResponseWriter, r *http.Request) {
	serve("progress-reset", http.MethodPost, resetHandler)(w, r)
}

func completeHandler(r *http.Request, fwCtx *framework.FrameworkContext) (interface{}, error) {
	var req completeRequest
	if err := framework.DecodeJSON(r, &req); err != nil {
		return nil, err
	}
	if req.ExerciseID == "" {
		return nil, apperrors.ErrValidation.WithMessage("exerciseId is required")
	}
	fwCtx.SetUser(r.Context(), req.UserID)

	res, err := fwCtx.Service.Wellness.Complete(r.Context(), req.UserID, req.ExerciseID, req.Recommended)
	if err != nil {
		return nil, err
	}
	fwCtx.Logger.Info("Completion processed",
		"exercise_id", req.ExerciseID,
		"added", res.Added,
		"streak", res.Progress.StreakCount)
	return res, nil
}

func getHandler(r *http.Request, fwCtx *framework.FrameworkContext) (interface{}, error) {
	userID := r.URL.Query().Get("userId")
	fwCtx.SetUser(r.Context(), userID)
	return fwCtx.Service.Wellness.Progress(r.Context(), userID)
}

func resetHandler(r *http.Request, fwCtx *framework.FrameworkContext) (interface{}, error) {
	var req resetRequest
	if err := framework.DecodeJSON(r, &req); err != nil {
		return nil, err
	}
	fwCtx.SetUser(r.Context(), req.UserID)

	gen, err := fwCtx.Service.Wellness.Reset(r.Context(), req.UserID)
	if err != nil {
		return nil, err
	}
	return &resetResponse{UserID: req.UserID, Generation: gen}, nil
}
