package shared

import (
	"context"

	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/Esteb4ncd/solace-server/pkg/domain/progress"
	"github.com/Esteb4ncd/solace-server/pkg/types"
)

// --- Persistence Interfaces ---

type Database interface {
	SetExecution(ctx context.Context, record *types.ExecutionRecord) error
	UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error

	// Progress
	// GetProgress returns an empty snapshot for unknown users.
	GetProgress(ctx context.Context, userID string) (*progress.Snapshot, error)
	// AddCompletion stores c unless the user already completed c.ID on day.
	AddCompletion(ctx context.Context, userID string, day progress.Day, c progress.CompletedExercise) (bool, error)
	// ResetProgress deletes every completion and returns the new generation.
	ResetProgress(ctx context.Context, userID string) (int64, error)
}

// --- Messaging Interfaces ---

type Publisher interface {
	PublishCloudEvent(ctx context.Context, topic string, e event.Event) (string, error)
}

// --- Storage Interfaces ---

type BlobStore interface {
	Write(ctx context.Context, bucket, object string, data []byte) error
	Read(ctx context.Context, bucket, object string) ([]byte, error)
}

// --- Secrets Interface ---

type SecretStore interface {
	GetSecret(ctx context.Context, projectID, name string) (string, error)
}
