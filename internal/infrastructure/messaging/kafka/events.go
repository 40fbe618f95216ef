package kafka

import (
	"context"

	"github.com/turtacn/ProjectPulse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ProjectPulse/pkg/errors"
	"github.com/turtacn/ProjectPulse/pkg/types/common"
)

// EventPublisher wraps payloads in envelopes and routes them by event type.
type EventPublisher struct {
	producer Publisher
	routes   map[string]string
	source   string
	logger   logging.Logger
}

// NewEventPublisher publishes through producer.  routes maps event type to
// topic; an unrouted type publishes to a topic named after the type.
func NewEventPublisher(producer Publisher, source string, routes map[string]string, logger logging.Logger) *EventPublisher {
	r := make(map[string]string, len(routes))
	for k, v := range routes {
		r[k] = v
	}
	return &EventPublisher{producer: producer, routes: r, source: source, logger: logger}
}

// TopicFor returns the topic eventType is published to.
func (p *EventPublisher) TopicFor(eventType string) string {
	if t, ok := p.routes[eventType]; ok && t != "" {
		return t
	}
	return eventType
}

// PublishEvent envelopes payload and publishes it keyed by key.
func (p *EventPublisher) PublishEvent(ctx context.Context, eventType, key string, payload interface{}) error {
	if eventType == "" {
		return errors.New(errors.ErrCodeValidation, "event type required")
	}
	env, err := NewEventEnvelope(eventType, p.source, payload)
	if err != nil {
		return err
	}
	if rid, ok := ctx.Value(common.ContextKeyRequestID).(string); ok && rid != "" {
		env.TraceID = rid
	}
	msg, err := env.ToMessage(p.TopicFor(eventType), key)
	if err != nil {
		return err
	}
	if err := p.producer.Publish(ctx, msg); err != nil {
		return err
	}
	p.logger.Debug("Event published",
		logging.String("event_type", eventType),
		logging.String("event_id", env.EventID),
		logging.String("topic", msg.Topic))
	return nil
}

// EnvelopeHandler adapts an envelope callback to a MessageHandler.  Messages
// that do not decode fail with a non-retryable error.
func EnvelopeHandler(fn func(ctx context.Context, env *EventEnvelope) error) common.MessageHandler {
	return func(ctx context.Context, msg *common.Message) error {
		env, err := MessageToEventEnvelope(msg)
		if err != nil {
			return err
		}
		return fn(ctx, env)
	}
}

//Personal.AI order the ending
