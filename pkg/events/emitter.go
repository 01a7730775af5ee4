// Package events emits match job lifecycle events.
package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/Ramsey-B/laurel/internal/tracing"
	"github.com/Ramsey-B/laurel/pkg/kafka"
	"github.com/Ramsey-B/laurel/pkg/models"
)

// Emitter publishes job lifecycle events. Emission failures are logged and
// swallowed: events are observability, not part of the job's outcome.
type Emitter struct {
	producer *kafka.Producer
	logger   *zap.Logger
}

// NewEmitter creates a new event emitter.
func NewEmitter(producer *kafka.Producer, logger *zap.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitJobStarted emits a match.job.started event.
func (e *Emitter) EmitJobStarted(ctx context.Context, msg models.MatchJobMessage) {
	e.emit(ctx, &kafka.JobEvent{
		EventType:      "match.job.started",
		JobID:          msg.JobID,
		Initiator:      msg.Initiator,
		BaseDatasetID:  msg.BaseDatasetID,
		MatchDatasetID: msg.MatchDatasetID,
	})
}

// EmitJobCompleted emits a match.job.completed event with the match count.
func (e *Emitter) EmitJobCompleted(ctx context.Context, msg models.MatchJobMessage, matchCount int) {
	e.emit(ctx, &kafka.JobEvent{
		EventType:      "match.job.completed",
		JobID:          msg.JobID,
		Initiator:      msg.Initiator,
		BaseDatasetID:  msg.BaseDatasetID,
		MatchDatasetID: msg.MatchDatasetID,
		MatchCount:     matchCount,
	})
}

// EmitJobFailed emits a match.job.failed event.
func (e *Emitter) EmitJobFailed(ctx context.Context, msg models.MatchJobMessage, jobErr error) {
	e.emit(ctx, &kafka.JobEvent{
		EventType:      "match.job.failed",
		JobID:          msg.JobID,
		Initiator:      msg.Initiator,
		BaseDatasetID:  msg.BaseDatasetID,
		MatchDatasetID: msg.MatchDatasetID,
		Error:          jobErr.Error(),
	})
}

func (e *Emitter) emit(ctx context.Context, event *kafka.JobEvent) {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.emit")
	defer span.End()

	if e.producer == nil {
		return
	}
	if err := e.producer.PublishJobEvent(ctx, event); err != nil {
		e.logger.Error("failed to emit job event", zap.Error(err), zap.String("event_type", event.EventType))
	}
}
