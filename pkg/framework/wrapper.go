package framework

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/Esteb4ncd/solace-server/pkg/bootstrap"
	apperrors "github.com/Esteb4ncd/solace-server/pkg/errors"
	"github.com/Esteb4ncd/solace-server/pkg/execution"
	"github.com/Esteb4ncd/solace-server/pkg/types"
)

// FrameworkContext is handed to every handler.
type FrameworkContext struct {
	Service     *bootstrap.Service
	Logger      *slog.Logger
	ExecutionID string
}

// SetUser records the user on the execution and on subsequent log lines.
func (f *FrameworkContext) SetUser(ctx context.Context, userID string) {
	if userID == "" {
		return
	}
	f.Logger = f.Logger.With("user_id", userID)
	if err := execution.LogUser(ctx, f.Service.DB, f.ExecutionID, userID); err != nil {
		f.Logger.Warn("Failed to log execution user", "error", err)
	}
}

// HandlerFunc handles a CloudEvent and returns outputs for the execution log.
type HandlerFunc func(ctx context.Context, e event.Event, fwCtx *FrameworkContext) (interface{}, error)

// HTTPHandlerFunc handles a request; the returned value is written as JSON.
type HTTPHandlerFunc func(r *http.Request, fwCtx *FrameworkContext) (interface{}, error)

func start(ctx context.Context, serviceName, trigger string, svc *bootstrap.Service) *FrameworkContext {
	logger := slog.With("service", serviceName)

	execID, err := execution.LogStart(ctx, svc.DB, serviceName, execution.ExecutionOptions{
		TriggerType: trigger,
	})
	if err != nil {
		// Logging failures never fail the function
		logger.Error("Failed to log execution start", "error", err)
	}

	logger = logger.With("execution_id", execID)
	logger.Info("Function started")
	return &FrameworkContext{Service: svc, Logger: logger, ExecutionID: execID}
}

func finish(ctx context.Context, fwCtx *FrameworkContext, outputs interface{}, handlerErr error) {
	db := fwCtx.Service.DB
	if handlerErr != nil {
		fwCtx.Logger.Error("Function failed", "error", handlerErr)
		if logErr := execution.LogFailure(ctx, db, fwCtx.ExecutionID, handlerErr, outputs); logErr != nil {
			fwCtx.Logger.Warn("Failed to log execution failure", "error", logErr)
		}
		return
	}
	fwCtx.Logger.Info("Function completed successfully")
	if logErr := execution.LogSuccess(ctx, db, fwCtx.ExecutionID, outputs); logErr != nil {
		fwCtx.Logger.Warn("Failed to log execution success", "error", logErr)
	}
}

// WrapCloudEvent wraps a CloudEvent handler with execution logging. Events
// delivered through a Pub/Sub envelope are unwrapped so the handler sees
// the CloudEvent that was published.
func WrapCloudEvent(serviceName string, svc *bootstrap.Service, handler HandlerFunc) func(context.Context, event.Event) error {
	return func(ctx context.Context, e event.Event) error {
		fwCtx := start(ctx, serviceName, "pubsub", svc)

		inner, err := unwrapPubSub(e)
		if err != nil {
			fwCtx.Logger.Warn("Event is not a wrapped CloudEvent, passing through", "error", err)
			inner = e
		}

		outputs, handlerErr := handler(ctx, inner, fwCtx)
		finish(ctx, fwCtx, outputs, handlerErr)
		return handlerErr
	}
}

func unwrapPubSub(e event.Event) (event.Event, error) {
	if e.Type() != "google.cloud.pubsub.topic.v1.messagePublished" {
		return e, nil
	}
	var msg types.PubSubMessage
	if err := e.DataAs(&msg); err != nil {
		return e, fmt.Errorf("decode pubsub envelope: %w", err)
	}
	var inner event.Event
	if err := json.Unmarshal(msg.Message.Data, &inner); err != nil {
		return e, fmt.Errorf("decode inner event: %w", err)
	}
	if inner.ID() == "" || inner.Type() == "" {
		return e, fmt.Errorf("inner payload is not a CloudEvent")
	}
	return inner, nil
}

// errorBody is the JSON error payload of the HTTP functions.
type errorBody struct {
	Error struct {
		Code    apperrors.ErrorCode `json:"code"`
		Message string              `json:"message"`
	} `json:"error"`
}

// WrapHTTP wraps an HTTP handler with execution logging, method checks and
// JSON encoding. Errors are mapped to status codes by their error code.
func WrapHTTP(serviceName string, svc *bootstrap.Service, method string, handler HTTPHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			writeError(w, http.StatusMethodNotAllowed, apperrors.CodeValidationError, fmt.Sprintf("method %s not allowed", r.Method))
			return
		}

		ctx := r.Context()
		fwCtx := start(ctx, serviceName, "http", svc)

		outputs, handlerErr := handler(r, fwCtx)
		finish(ctx, fwCtx, outputs, handlerErr)

		if handlerErr != nil {
			sErr := responseError(handlerErr)
			writeError(w, apperrors.HTTPStatus(sErr.Code), sErr.Code, sErr.Message)
			return
		}
		writeJSON(w, http.StatusOK, outputs)
	}
}

// responseError classifies err for the response body. Unclassified errors
// become ErrInternal so their text stays in the logs only.
func responseError(err error) *apperrors.SolaceError {
	var sErr *apperrors.SolaceError
	switch {
	case errors.As(err, &sErr):
		return sErr
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.ErrTimeout.WithCause(err)
	default:
		return apperrors.ErrInternal.WithCause(err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code apperrors.ErrorCode, msg string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = msg
	writeJSON(w, status, body)
}

// DecodeJSON decodes a request body into v. Malformed bodies are validation errors.
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return apperrors.Wrap(err, apperrors.CodeValidationError, "invalid request body")
	}
	return nil
}
