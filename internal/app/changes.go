package app

import (
	"context"
	"time"

	"github.com/turtacn/ProjectPulse/internal/application/dashboard"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ProjectPulse/pkg/errors"
	"github.com/turtacn/ProjectPulse/pkg/types/common"
)

// ChangeHandler decodes record-change envelopes and feeds them to proc.
// Envelopes of any other event type are skipped.
func ChangeHandler(proc *dashboard.ChangeProcessor, metrics *prometheus.AppMetrics, logger logging.Logger) common.MessageHandler {
	return kafka.EnvelopeHandler(func(ctx context.Context, env *kafka.EventEnvelope) error {
		switch env.EventType {
		case dashboard.EventProjectChanged, dashboard.EventTaskChanged:
		default:
			logger.Debug("skipping event", logging.String("event_type", env.EventType))
			return nil
		}

		start := time.Now()
		err := handleChange(ctx, proc, env)
		if metrics != nil {
			prometheus.RecordEvent(metrics, env.EventType, err == nil, time.Since(start))
		}
		return err
	})
}

func handleChange(ctx context.Context, proc *dashboard.ChangeProcessor, env *kafka.EventEnvelope) error {
	var evt dashboard.RecordChangedEvent
	if err := env.DecodePayload(&evt); err != nil {
		return err
	}
	if evt.RecordType == "" {
		switch env.EventType {
		case dashboard.EventProjectChanged:
			evt.RecordType = "project"
		case dashboard.EventTaskChanged:
			evt.RecordType = "task"
		}
	}
	if evt.RecordType == "task" && evt.RecordID == "" && evt.ProjectID == "" {
		return errors.New(errors.ErrCodeRecordMalformed, "task change carries no record or project id")
	}
	return proc.Handle(ctx, evt)
}

// ChangePublisher announces record-store writes on the bus.
type ChangePublisher struct {
	pub dashboard.EventPublisher
}

// NewChangePublisher publishes through pub.  A nil pub makes every call a
// no-op.
func NewChangePublisher(pub dashboard.EventPublisher) *ChangePublisher {
	return &ChangePublisher{pub: pub}
}

// ProjectChanged announces a write to one project, or to all projects when
// projectID is empty.
func (p *ChangePublisher) ProjectChanged(ctx context.Context, projectID, operation string) error {
	if p == nil || p.pub == nil {
		return nil
	}
	evt := dashboard.RecordChangedEvent{
		RecordType: "project",
		RecordID:   projectID,
		ProjectID:  projectID,
		Operation:  operation,
		ChangedAt:  time.Now().UTC(),
	}
	return p.pub.PublishEvent(ctx, dashboard.EventProjectChanged, projectID, evt)
}

//Personal.AI order the ending
