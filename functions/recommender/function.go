package recommender

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/Esteb4ncd/solace-server/pkg/bootstrap"
	"github.com/Esteb4ncd/solace-server/pkg/framework"
	"github.com/Esteb4ncd/solace-server/pkg/wellness"
)

var (
	svc     *bootstrap.Service
	svcOnce sync.Once
	svcErr  error
)

func init() {
	functions.HTTP("RecommendExercises", RecommendExercises)
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

// RecommendExercises is the entry point
func RecommendExercises(w http.ResponseWriter, r *http.Request) {
	svc, err := initService(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("service init failed: %v", err), http.StatusInternalServerError)
		return
	}
	framework.WrapHTTP("recommender", svc, http.MethodPost, recommendHandler)(w, r)
}

func recommendHandler(r *http.Request, fwCtx *framework.FrameworkContext) (interface{}, error) {
	var req wellness.RecommendRequest
	if err := framework.DecodeJSON(r, &req); err != nil {
		return nil, err
	}
	fwCtx.SetUser(r.Context(), req.UserID)

	fwCtx.Logger.Info("Ranking exercises",
		"pain_areas", req.PainAreas,
		"work_tasks", req.WorkTasks,
		"keywords", req.Keywords)

	rec, err := fwCtx.Service.Wellness.Recommend(r.Context(), req)
	if err != nil {
		return nil, err
	}
	fwCtx.Logger.Info("Recommendations ready", "recommended", len(rec.Recommended), "secondary", len(rec.Secondary))
	return rec, nil
}
