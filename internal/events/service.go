package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dhima/event-trigger-service/internal/apperr"
	"github.com/dhima/event-trigger-service/internal/auth"
	"github.com/dhima/event-trigger-service/internal/models"
	"github.com/dhima/event-trigger-service/internal/storage"
	"github.com/dhima/event-trigger-service/pkg/clock"
)

const msgEventNotFound = "Event not found"

// Service provides CRUD over events owned by the caller.
type Service struct {
	store  EventStore
	logger *zap.Logger
	clock  clock.Clock
}

// NewService creates an event service using the real clock.
func NewService(store EventStore, logger *zap.Logger) *Service {
	return NewServiceWithClock(store, logger, clock.RealClock{})
}

// NewServiceWithClock allows injecting a clock for deterministic tests.
func NewServiceWithClock(store EventStore, logger *zap.Logger, clk clock.Clock) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, clock: clk}
}

// Create stores a new event owned by caller.
func (s *Service) Create(ctx context.Context, caller *models.User, req models.EventRequest) (*models.EventResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Destination = strings.TrimSpace(req.Destination)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	event := models.Event{
		CreatorID: caller.ID,
		CreatedAt: now,
	}
	apply(&event, req, now)

	if err := s.store.CreateEvent(ctx, &event); err != nil {
		return nil, &apperr.StorageError{Op: "create event", Err: err}
	}

	s.logger.Info("event created",
		zap.Int64("event_id", event.ID),
		zap.Int64("creator_id", caller.ID),
		zap.String("event_type", string(event.EventType)))

	resp := s.buildResponse(&event)
	return &resp, nil
}

// List returns the caller's events.
func (s *Service) List(ctx context.Context, caller *models.User) ([]models.EventResponse, error) {
	events, err := s.store.ListEventsByCreator(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	out := make([]models.EventResponse, 0, len(events))
	for i := range events {
		out = append(out, s.buildResponse(&events[i]))
	}
	return out, nil
}

// Get returns one event owned by caller.
func (s *Service) Get(ctx context.Context, caller *models.User, id int64) (*models.EventResponse, error) {
	event, err := s.loadOwned(ctx, caller, id, "You can only view your created events!")
	if err != nil {
		return nil, err
	}
	resp := s.buildResponse(event)
	return &resp, nil
}

// Update replaces every mutable field of an event owned by caller.
func (s *Service) Update(ctx context.Context, caller *models.User, id int64, req models.EventRequest) (*models.EventResponse, error) {
	event, err := s.loadOwned(ctx, caller, id, "You are not authorized to update this event")
	if err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Destination = strings.TrimSpace(req.Destination)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	apply(event, req, s.clock.Now())

	if err := s.store.UpdateEvent(ctx, event); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.New(apperr.ErrNotFound, msgEventNotFound)
		}
		return nil, &apperr.StorageError{Op: "update event", Err: err}
	}

	resp := s.buildResponse(event)
	return &resp, nil
}

// Delete removes an event owned by caller together with its logs.
func (s *Service) Delete(ctx context.Context, caller *models.User, id int64) error {
	if _, err := s.loadOwned(ctx, caller, id, "You are not authorized to delete this event"); err != nil {
		return err
	}

	if err := s.store.DeleteEvent(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.New(apperr.ErrNotFound, msgEventNotFound)
		}
		return &apperr.StorageError{Op: "delete event", Err: err}
	}

	s.logger.Info("event deleted", zap.Int64("event_id", id), zap.Int64("creator_id", caller.ID))
	return nil
}

// loadOwned checks existence before ownership.
func (s *Service) loadOwned(ctx context.Context, caller *models.User, id int64, denied string) (*models.Event, error) {
	event, err := s.store.GetEvent(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.New(apperr.ErrNotFound, msgEventNotFound)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := auth.Authorize(caller, event.CreatorID, false, denied); err != nil {
		return nil, err
	}
	return event, nil
}

func apply(e *models.Event, req models.EventRequest, now time.Time) {
	e.Name = req.Name
	e.EventType = req.EventType
	e.Destination = req.Destination
	e.MethodType = req.MethodType
	e.Payload = req.Payload
	e.IsTest = req.IsTest
	e.UpdatedAt = now
	applyTriggerPolicy(e, req.IntervalMinutes, req.FixedTime)
}

func (s *Service) buildResponse(e *models.Event) models.EventResponse {
	return models.EventResponse{
		ID:              e.ID,
		CreatorID:       e.CreatorID,
		Name:            e.Name,
		EventType:       e.EventType,
		Destination:     e.Destination,
		MethodType:      e.MethodType,
		Payload:         e.Payload,
		IsTest:          e.IsTest,
		IntervalMinutes: e.IntervalMinutes,
		FixedTime:       e.FixedTime,
		NextRunAt:       nextRun(e, s.clock.Now()),
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}
