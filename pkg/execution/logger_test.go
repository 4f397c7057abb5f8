package execution_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Esteb4ncd/solace-server/pkg/execution"
	"github.com/Esteb4ncd/solace-server/pkg/testing/mocks"
	"github.com/Esteb4ncd/solace-server/pkg/types"
)

func TestLogStart(t *testing.T) {
	var got *types.ExecutionRecord
	db := &mocks.MockDatabase{
		SetExecutionFunc: func(ctx context.Context, record *types.ExecutionRecord) error {
			got = record
			return nil
		},
	}

	id, err := execution.LogStart(context.Background(), db, "recommender", execution.ExecutionOptions{
		UserID:      "user-1",
		TriggerType: "http",
		Inputs:      map[string]string{"foo": "bar"},
	})
	if err != nil {
		t.Fatalf("LogStart failed: %v", err)
	}
	if !strings.HasPrefix(id, "recommender-") {
		t.Errorf("Expected id prefixed with service, got %q", id)
	}
	if got == nil {
		t.Fatal("SetExecution not called")
	}
	if got.ExecutionID != id {
		t.Errorf("ExecutionID = %q, want %q", got.ExecutionID, id)
	}
	if got.Status != types.ExecutionStatusStarted {
		t.Errorf("Expected STATUS_STARTED, got %v", got.Status)
	}
	if got.UserID == nil || *got.UserID != "user-1" {
		t.Errorf("UserID = %v", got.UserID)
	}
	if got.InputsJSON == nil || *got.InputsJSON != `{"foo":"bar"}` {
		t.Errorf("InputsJSON = %v", got.InputsJSON)
	}
	if got.StartTime == nil || got.Timestamp == nil {
		t.Error("Expected start time and timestamp")
	}
}

func TestLogStart_DBError(t *testing.T) {
	db := &mocks.MockDatabase{
		SetExecutionFunc: func(ctx context.Context, record *types.ExecutionRecord) error {
			return errors.New("unavailable")
		},
	}
	id, err := execution.LogStart(context.Background(), db, "progress", execution.ExecutionOptions{})
	if err == nil {
		t.Fatal("Expected error")
	}
	if id == "" {
		t.Error("Expected id even on failure")
	}
}

func TestLogSuccessAndFailure(t *testing.T) {
	tests := []struct {
		name       string
		log        func(db execution.Database) error
		wantStatus types.ExecutionStatus
		wantError  string
		wantOutput string
	}{
		{
			name: "success",
			log: func(db execution.Database) error {
				return execution.LogSuccess(context.Background(), db, "exec-1", map[string]int{"count": 3})
			},
			wantStatus: types.ExecutionStatusSuccess,
			wantOutput: `{"count":3}`,
		},
		{
			name: "failure",
			log: func(db execution.Database) error {
				return execution.LogFailure(context.Background(), db, "exec-1", errors.New("boom"), nil)
			},
			wantStatus: types.ExecutionStatusFailed,
			wantError:  "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data map[string]interface{}
			db := &mocks.MockDatabase{
				UpdateExecutionFunc: func(ctx context.Context, id string, d map[string]interface{}) error {
					if id != "exec-1" {
						t.Errorf("id = %q", id)
					}
					data = d
					return nil
				},
			}
			if err := tt.log(db); err != nil {
				t.Fatalf("log failed: %v", err)
			}

			if status, ok := data["status"].(int32); !ok || types.ExecutionStatus(status) != tt.wantStatus {
				t.Errorf("status = %v, want %v", data["status"], tt.wantStatus)
			}
			if _, ok := data["end_time"]; !ok {
				t.Error("Expected end_time")
			}
			if tt.wantError != "" && data["error_message"] != tt.wantError {
				t.Errorf("error_message = %v", data["error_message"])
			}
			if tt.wantOutput != "" && data["outputs_json"] != tt.wantOutput {
				t.Errorf("outputs_json = %v", data["outputs_json"])
			}
			if tt.wantOutput == "" {
				if _, ok := data["outputs_json"]; ok {
					t.Error("Expected no outputs_json")
				}
			}
		})
	}
}

func TestLogUser(t *testing.T) {
	calls := 0
	db := &mocks.MockDatabase{
		UpdateExecutionFunc: func(ctx context.Context, id string, d map[string]interface{}) error {
			calls++
			if d["user_id"] != "u1" {
				t.Errorf("user_id = %v", d["user_id"])
			}
			return nil
		},
	}
	if err := execution.LogUser(context.Background(), db, "exec-1", ""); err != nil {
		t.Fatal(err)
	}
	if err := execution.LogUser(context.Background(), db, "exec-1", "u1"); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("UpdateExecution calls = %d, want 1", calls)
	}
}
