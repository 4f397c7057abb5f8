package execution

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/Esteb4ncd/solace-server/pkg/types"
)

// Database is the slice of the progress store the execution log needs.
type Database interface {
	SetExecution(ctx context.Context, record *types.ExecutionRecord) error
	UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error
}

// ExecutionOptions contains optional fields for execution logging
type ExecutionOptions struct {
	UserID      string
	TriggerType string
	Inputs      interface{}
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func encodeJSON(v interface{}) (string, bool) {
	if v == nil {
		return "", false
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(b), true
}

// NewExecutionID returns a unique id prefixed with the service name.
func NewExecutionID(service string) string {
	return fmt.Sprintf("%s-%s", service, uuid.NewString())
}

// LogStart creates an execution record in STARTED state and returns its id.
// The id is returned even when the write fails so callers can keep logging.
func LogStart(ctx context.Context, db Database, service string, opts ExecutionOptions) (string, error) {
	execID := NewExecutionID(service)
	now := timestamppb.Now()

	record := &types.ExecutionRecord{
		ExecutionID: execID,
		Service:     service,
		Status:      types.ExecutionStatusStarted,
		Timestamp:   now,
		StartTime:   now,
		UserID:      stringPtr(opts.UserID),
		TriggerType: opts.TriggerType,
	}
	if s, ok := encodeJSON(opts.Inputs); ok {
		record.InputsJSON = &s
	}

	if err := db.SetExecution(ctx, record); err != nil {
		return execID, fmt.Errorf("failed to log execution start: %w", err)
	}
	return execID, nil
}

// LogUser attaches a user id discovered after the execution started.
func LogUser(ctx context.Context, db Database, execID, userID string) error {
	if userID == "" {
		return nil
	}
	if err := db.UpdateExecution(ctx, execID, map[string]interface{}{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to log execution user: %w", err)
	}
	return nil
}

// LogSuccess marks an execution as SUCCESS.
func LogSuccess(ctx context.Context, db Database, execID string, outputs interface{}) error {
	return finish(ctx, db, execID, types.ExecutionStatusSuccess, nil, outputs)
}

// LogFailure marks an execution as FAILED with the error message.
func LogFailure(ctx context.Context, db Database, execID string, err error, outputs interface{}) error {
	return finish(ctx, db, execID, types.ExecutionStatusFailed, err, outputs)
}

func finish(ctx context.Context, db Database, execID string, status types.ExecutionStatus, cause error, outputs interface{}) error {
	now := time.Now().UTC()

	// snake_case keys match the stored record fields
	updates := map[string]interface{}{
		"status":    int32(status),
		"timestamp": now,
		"end_time":  now,
	}
	if cause != nil {
		updates["error_message"] = cause.Error()
	}
	if s, ok := encodeJSON(outputs); ok {
		updates["outputs_json"] = s
	}

	if err := db.UpdateExecution(ctx, execID, updates); err != nil {
		return fmt.Errorf("failed to log execution %s: %w", status, err)
	}
	return nil
}
