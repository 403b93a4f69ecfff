package logs

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dhima/event-trigger-service/internal/apperr"
	"github.com/dhima/event-trigger-service/internal/auth"
	"github.com/dhima/event-trigger-service/internal/models"
	"github.com/dhima/event-trigger-service/internal/storage"
)

// Store defines the read access the log service needs.
type Store interface {
	GetEvent(ctx context.Context, id int64) (*models.Event, error)
	ListLogsByEvent(ctx context.Context, eventID int64) ([]models.Log, error)
	ListLogsByCreator(ctx context.Context, creatorID int64) ([]models.Log, error)
}

// Service answers log queries scoped to the caller's events.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates a log query service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// ListForCaller returns the logs of every event the caller owns.
// A caller with no logs at all gets ErrNotFound.
func (s *Service) ListForCaller(ctx context.Context, caller *models.User) ([]models.Log, error) {
	logs, err := s.store.ListLogsByCreator(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	if len(logs) == 0 {
		return nil, apperr.New(apperr.ErrNotFound, "No logs found for your events")
	}
	return logs, nil
}

// ListForEvent returns the logs of one event owned by the caller. An empty
// result is returned as-is; the transport decides how to present it.
func (s *Service) ListForEvent(ctx context.Context, caller *models.User, eventID int64) (*models.EventLogsResponse, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.New(apperr.ErrNotFound, "Event not found")
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := auth.Authorize(caller, event.CreatorID, false, "You can only view logs of your created events"); err != nil {
		return nil, err
	}

	logs, err := s.store.ListLogsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event logs: %w", err)
	}

	s.logger.Debug("event logs listed", zap.Int64("event_id", eventID), zap.Int("count", len(logs)))
	return &models.EventLogsResponse{
		EventID:   eventID,
		LogsCount: len(logs),
		Logs:      logs,
	}, nil
}
