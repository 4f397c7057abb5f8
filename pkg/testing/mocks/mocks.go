package mocks

import (
	"context"

	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/Esteb4ncd/solace-server/pkg/domain/progress"
	"github.com/Esteb4ncd/solace-server/pkg/types"
)

// --- Mock Database ---
type MockDatabase struct {
	SetExecutionFunc    func(ctx context.Context, record *types.ExecutionRecord) error
	UpdateExecutionFunc func(ctx context.Context, id string, data map[string]interface{}) error

	GetProgressFunc   func(ctx context.Context, userID string) (*progress.Snapshot, error)
	AddCompletionFunc func(ctx context.Context, userID string, day progress.Day, c progress.CompletedExercise) (bool, error)
	ResetProgressFunc func(ctx context.Context, userID string) (int64, error)
}

func (m *MockDatabase) SetExecution(ctx context.Context, record *types.ExecutionRecord) error {
	if m.SetExecutionFunc != nil {
		return m.SetExecutionFunc(ctx, record)
	}
	return nil
}
func (m *MockDatabase) UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error {
	if m.UpdateExecutionFunc != nil {
		return m.UpdateExecutionFunc(ctx, id, data)
	}
	return nil
}

func (m *MockDatabase) GetProgress(ctx context.Context, userID string) (*progress.Snapshot, error) {
	if m.GetProgressFunc != nil {
		return m.GetProgressFunc(ctx, userID)
	}
	return &progress.Snapshot{}, nil
}

func (m *MockDatabase) AddCompletion(ctx context.Context, userID string, day progress.Day, c progress.CompletedExercise) (bool, error) {
	if m.AddCompletionFunc != nil {
		return m.AddCompletionFunc(ctx, userID, day, c)
	}
	return true, nil
}

func (m *MockDatabase) ResetProgress(ctx context.Context, userID string) (int64, error) {
	if m.ResetProgressFunc != nil {
		return m.ResetProgressFunc(ctx, userID)
	}
	return 1, nil
}

// --- Mock Publisher ---
type MockPublisher struct {
	PublishCloudEventFunc func(ctx context.Context, topic string, e event.Event) (string, error)
}

func (m *MockPublisher) PublishCloudEvent(ctx context.Context, topic string, e event.Event) (string, error) {
	if m.PublishCloudEventFunc != nil {
		return m.PublishCloudEventFunc(ctx, topic, e)
	}
	return "msg-id", nil
}

// --- Mock Storage ---
type MockBlobStore struct {
	WriteFunc func(ctx context.Context, bucket, object string, data []byte) error
	ReadFunc  func(ctx context.Context, bucket, object string) ([]byte, error)
}

func (m *MockBlobStore) Write(ctx context.Context, bucket, object string, data []byte) error {
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, bucket, object, data)
	}
	return nil
}
func (m *MockBlobStore) Read(ctx context.Context, bucket, object string) ([]byte, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(ctx, bucket, object)
	}
	return []byte("mock-data"), nil
}

// --- Mock Secrets ---
type MockSecretStore struct {
	GetSecretFunc func(ctx context.Context, projectID, name string) (string, error)
}

func (m *MockSecretStore) GetSecret(ctx context.Context, projectID, name string) (string, error) {
	if m.GetSecretFunc != nil {
		return m.GetSecretFunc(ctx, projectID, name)
	}
	return "mock-secret-value", nil
}

// --- Mock Responder ---
type MockResponder struct {
	RespondFunc func(ctx context.Context, prompt string) (string, error)
}

func (m *MockResponder) Respond(ctx context.Context, prompt string) (string, error) {
	if m.RespondFunc != nil {
		return m.RespondFunc(ctx, prompt)
	}
	return "mock reply", nil
}
