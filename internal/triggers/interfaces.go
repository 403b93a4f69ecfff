package triggers

import (
	"context"

	"github.com/dhima/event-trigger-service/internal/models"
	platformEvents "github.com/dhima/event-trigger-service/platform/events"
)

// Store defines the persistence the engine needs: read the event, append one log.
type Store interface {
	GetEvent(ctx context.Context, id int64) (*models.Event, error)
	CreateLog(ctx context.Context, l *models.Log) error
}

// OutcomePublisher fans out stored outcomes. Optional.
type OutcomePublisher interface {
	Publish(ctx context.Context, outcome platformEvents.TriggerOutcome) error
}
