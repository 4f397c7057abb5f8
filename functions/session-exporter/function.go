package sessionexporter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/cloudevents/sdk-go/v2/event"

	shared "github.com/Esteb4ncd/solace-server/pkg"
	"github.com/Esteb4ncd/solace-server/pkg/bootstrap"
	"github.com/Esteb4ncd/solace-server/pkg/domain/file_generators"
	apperrors "github.com/Esteb4ncd/solace-server/pkg/errors"
	"github.com/Esteb4ncd/solace-server/pkg/framework"
	"github.com/Esteb4ncd/solace-server/pkg/types"
	"github.com/Esteb4ncd/solace-server/pkg/wellness"
)

var (
	svc     *bootstrap.Service
	svcOnce sync.Once
	svcErr  error
)

func init() {
	functions.CloudEvent("ExportSession", ExportSession)
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

// ExportSession rebuilds the FIT file for the day of a completion event.
func ExportSession(ctx context.Context, e event.Event) error {
	svc, err := initService(ctx)
	if err != nil {
		return fmt.Errorf("service init failed: %v", err)
	}
	return framework.WrapCloudEvent("session-exporter", svc, exportHandler)(ctx, e)
}

func exportHandler(ctx context.Context, e event.Event, fwCtx *framework.FrameworkContext) (interface{}, error) {
	if e.Type() != shared.EventTypeExerciseCompleted {
		fwCtx.Logger.Info("Ignoring event", "type", e.Type())
		return map[string]interface{}{"status": "ignored", "type": e.Type()}, nil
	}

	var payload types.ExerciseCompletedEvent
	if err := e.DataAs(&payload); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeValidationError, "invalid completion event")
	}
	fwCtx.SetUser(ctx, payload.UserID)

	day, err := wellness.ParseDay(payload.Day)
	if err != nil {
		return nil, err
	}

	bucket := fwCtx.Service.Config.GCSArtifactBucket
	if bucket == "" {
		return nil, apperrors.ErrExportFailed.WithMessage("GCS_ARTIFACT_BUCKET is not set")
	}

	completions, err := fwCtx.Service.Wellness.CompletionsOn(ctx, payload.UserID, day)
	if err != nil {
		return nil, err
	}
	if len(completions) == 0 {
		// Progress was reset after the event was published.
		fwCtx.Logger.Info("No completions for day, skipping export", "day", day.String())
		return map[string]interface{}{"status": "skipped", "day": day.String()}, nil
	}

	data, err := file_generators.GenerateSessionFitFile(completions, fwCtx.Service.Catalog)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExportFailed, "failed to generate session file")
	}

	object := file_generators.SessionObject(payload.UserID, day)
	if err := fwCtx.Service.Store.Write(ctx, bucket, object, data); err != nil {
		return nil, apperrors.WrapRetryable(err, apperrors.CodeStorageError, "failed to write session file")
	}

	uri := fmt.Sprintf("gs://%s/%s", bucket, object)
	fwCtx.Logger.Info("Session exported", "uri", uri, "sets", len(completions), "size_bytes", len(data))
	return map[string]interface{}{
		"status":  "exported",
		"uri":     uri,
		"sets":    len(completions),
		"day":     day.String(),
		"user_id": payload.UserID,
	}, nil
}
