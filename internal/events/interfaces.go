package events

import (
	"context"

	"github.com/dhima/event-trigger-service/internal/models"
)

// EventStore defines persistence required by the event service.
type EventStore interface {
	CreateEvent(ctx context.Context, e *models.Event) error
	GetEvent(ctx context.Context, id int64) (*models.Event, error)
	ListEventsByCreator(ctx context.Context, creatorID int64) ([]models.Event, error)
	UpdateEvent(ctx context.Context, e *models.Event) error
	DeleteEvent(ctx context.Context, id int64) error
}
