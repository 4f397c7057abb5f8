package pubsub

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"cloud.google.com/go/pubsub"

	apperrors "github.com/Esteb4ncd/solace-server/pkg/errors"
)

func TestNewCloudEvent_Struct(t *testing.T) {
	payload := map[string]interface{}{"user_id": "u1", "xp_gained": 25}

	e, err := NewCloudEvent("/solace/progress", "com.solace.exercise.completed", "u1", payload)
	if err != nil {
		t.Fatalf("NewCloudEvent: %v", err)
	}
	if err := e.Validate(); err != nil {
		t.Errorf("event invalid: %v", err)
	}
	if e.ID() == "" {
		t.Error("expected generated id")
	}
	if e.Subject() != "u1" {
		t.Errorf("Subject = %q, want u1", e.Subject())
	}

	var got map[string]interface{}
	if err := e.DataAs(&got); err != nil {
		t.Fatalf("DataAs: %v", err)
	}
	if got["user_id"] != "u1" || got["xp_gained"] != float64(25) {
		t.Errorf("data = %v", got)
	}
}

func TestLogPublisher(t *testing.T) {
	p := &LogPublisher{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	e, err := NewCloudEvent("/solace/progress", "com.solace.exercise.completed", "u1", map[string]string{"a": "b"})
	if err != nil {
		t.Fatal(err)
	}

	id, err := p.PublishCloudEvent(context.Background(), "topic-exercise-completed", e)
	if err != nil {
		t.Fatalf("PublishCloudEvent: %v", err)
	}
	if id != "mock-msg-id" {
		t.Errorf("id = %q", id)
	}

	got := p.Published()
	if len(got) != 1 || got[0].ID() != e.ID() {
		t.Errorf("Published() = %v", got)
	}

	attrs := eventAttributes(e)
	if attrs["ce-subject"] != "u1" || attrs["ce-type"] != "com.solace.exercise.completed" {
		t.Errorf("attributes = %v", attrs)
	}
}

func TestPubSubAdapter_PublishCloudEvent(t *testing.T) {
	e, err := NewCloudEvent("/solace/progress", "com.solace.exercise.completed", "u1", map[string]string{"a": "b"})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		sendErr error
		wantID  string
		wantErr error
	}{
		{name: "published", wantID: "msg-42"},
		{name: "send failure", sendErr: errors.New("unavailable"), wantErr: apperrors.ErrPubSubError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAttrs map[string]string
			a := &PubSubAdapter{
				Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
				send: func(ctx context.Context, topicID string, msg *pubsub.Message) (string, error) {
					if topicID != "topic-exercise-completed" {
						t.Errorf("topic = %q", topicID)
					}
					gotAttrs = msg.Attributes
					if tt.sendErr != nil {
						return "", tt.sendErr
					}
					return "msg-42", nil
				},
			}

			id, err := a.PublishCloudEvent(context.Background(), "topic-exercise-completed", e)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if !apperrors.IsRetryable(err) {
					t.Error("publish failures should be retryable")
				}
				return
			}
			if err != nil {
				t.Fatalf("PublishCloudEvent: %v", err)
			}
			if id != tt.wantID {
				t.Errorf("id = %q, want %q", id, tt.wantID)
			}
			if gotAttrs["ce-id"] != e.ID() {
				t.Errorf("attributes = %v", gotAttrs)
			}
		})
	}
}
