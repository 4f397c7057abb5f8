package pubsub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"cloud.google.com/go/pubsub"
	"github.com/cloudevents/sdk-go/v2/event"

	apperrors "github.com/Esteb4ncd/solace-server/pkg/errors"
)

// PubSubAdapter publishes CloudEvents to Google Cloud Pub/Sub.
// Failures are returned as ErrPubSubError.
type PubSubAdapter struct {
	Client *pubsub.Client
	Logger *slog.Logger

	// send defaults to publishing through Client.
	send func(ctx context.Context, topicID string, msg *pubsub.Message) (string, error)
}

func (a *PubSubAdapter) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

func (a *PubSubAdapter) PublishCloudEvent(ctx context.Context, topicID string, e event.Event) (string, error) {
	bytes, err := json.Marshal(e)
	if err != nil {
		a.logger().Error("Failed to marshal CloudEvent", "topic", topicID, "error", err)
		return "", apperrors.ErrPubSubError.WithCause(err).WithMessage("failed to marshal event")
	}
	a.logger().Info("Publishing CloudEvent",
		"topic", topicID,
		"event_type", e.Type(),
		"event_id", e.ID(),
		"source", e.Source(),
		"size_bytes", len(bytes))
	return a.publishWithAttrs(ctx, topicID, bytes, eventAttributes(e))
}

func (a *PubSubAdapter) publishWithAttrs(ctx context.Context, topicID string, data []byte, attributes map[string]string) (string, error) {
	send := a.send
	if send == nil {
		send = a.publishToTopic
	}
	msgID, err := send(ctx, topicID, &pubsub.Message{
		Data:       data,
		Attributes: attributes,
	})
	if err != nil {
		a.logger().Error("Failed to publish message", "topic", topicID, "error", err)
		return "", apperrors.ErrPubSubError.WithCause(err).WithMetadata("topic", topicID)
	}
	a.logger().Info("Message published successfully", "topic", topicID, "message_id", msgID, "size_bytes", len(data))
	return msgID, nil
}

func (a *PubSubAdapter) publishToTopic(ctx context.Context, topicID string, msg *pubsub.Message) (string, error) {
	return a.Client.Topic(topicID).Publish(ctx, msg).Get(ctx)
}

// eventAttributes exposes the envelope fields as message attributes so
// subscriptions can filter without decoding the payload.
func eventAttributes(e event.Event) map[string]string {
	attrs := map[string]string{
		"ce-type":   e.Type(),
		"ce-source": e.Source(),
		"ce-id":     e.ID(),
	}
	if s := e.Subject(); s != "" {
		attrs["ce-subject"] = s
	}
	return attrs
}

// LogPublisher logs events instead of sending them. Used when publishing
// is disabled and by the local CLI.
type LogPublisher struct {
	Logger *slog.Logger

	mu        sync.Mutex
	published []event.Event
}

func (p *LogPublisher) PublishCloudEvent(ctx context.Context, topicID string, e event.Event) (string, error) {
	bytes, err := json.Marshal(e)
	if err != nil {
		return "", err
	}

	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("MOCK PUBLISH", "topic", topicID, "data", string(bytes), "attributes", eventAttributes(e))

	p.mu.Lock()
	p.published = append(p.published, e)
	p.mu.Unlock()
	return "mock-msg-id", nil
}

// Published returns the events seen so far.
func (p *LogPublisher) Published() []event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]event.Event, len(p.published))
	copy(out, p.published)
	return out
}
