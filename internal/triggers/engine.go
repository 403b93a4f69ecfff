package triggers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dhima/event-trigger-service/internal/apperr"
	"github.com/dhima/event-trigger-service/internal/auth"
	"github.com/dhima/event-trigger-service/internal/models"
	"github.com/dhima/event-trigger-service/internal/storage"
	"github.com/dhima/event-trigger-service/pkg/clock"
	platformEvents "github.com/dhima/event-trigger-service/platform/events"
)

const (
	// DefaultTimeout bounds one outbound call.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxResponseBytes caps how much of a response body is recorded.
	DefaultMaxResponseBytes int64 = 1 << 20

	// unreachableStatus is recorded when no HTTP response was obtained.
	unreachableStatus = http.StatusInternalServerError
)

// Engine fires events at their destination and records exactly one log per attempt.
type Engine struct {
	store     Store
	client    *http.Client
	maxBody   int64
	publisher OutcomePublisher
	logger    *zap.Logger
	clock     clock.Clock
}

// Option customizes an Engine.
type Option func(*Engine)

// WithPublisher enables outcome fan-out after each stored log.
func WithPublisher(p OutcomePublisher) Option {
	return func(e *Engine) { e.publisher = p }
}

// WithClock overrides the clock used for log timestamps.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithHTTPClient replaces the outbound client.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Engine) { e.client = c }
}

// WithMaxResponseBytes caps the recorded response body.
func WithMaxResponseBytes(n int64) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxBody = n
		}
	}
}

// NewEngine creates a trigger engine. A non-positive timeout uses DefaultTimeout.
func NewEngine(store Store, timeout time.Duration, logger *zap.Logger, opts ...Option) *Engine {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		store:   store,
		client:  &http.Client{Timeout: timeout},
		maxBody: DefaultMaxResponseBytes,
		logger:  logger.With(zap.String("component", "trigger_engine")),
		clock:   clock.RealClock{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// outcome is the normalized result of one outbound call.
type outcome struct {
	body    string
	status  int
	latency time.Duration
}

// Trigger fires the event on behalf of caller and returns the stored log.
// Destination failures are recorded as a 500 log, not returned as errors.
func (e *Engine) Trigger(ctx context.Context, caller *models.User, eventID int64) (*models.Log, error) {
	event, err := e.store.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.New(apperr.ErrNotFound, "Event not found")
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := auth.Authorize(caller, event.CreatorID, false, "You can only trigger your created events"); err != nil {
		return nil, err
	}

	build, ok := requestBuilders[event.MethodType]
	if !ok {
		return nil, apperr.New(apperr.ErrUnsupportedMethod, "Unsupported method %q", event.MethodType)
	}

	result := e.call(ctx, build, event)

	entry := &models.Log{
		EventID:            event.ID,
		Response:           result.body,
		ResponseStatusCode: result.status,
		Timestamp:          e.clock.Now().UTC(),
		Status:             models.LogStatusActive,
	}
	// The attempt already happened; record it even if the caller went away.
	if err := e.store.CreateLog(context.WithoutCancel(ctx), entry); err != nil {
		e.logger.Error("failed to store trigger log",
			zap.Int64("event_id", event.ID),
			zap.Int("response_status_code", result.status),
			zap.Error(err))
		return nil, &apperr.StorageError{Op: "store log", Err: err}
	}

	e.logger.Info("event triggered",
		zap.Int64("event_id", event.ID),
		zap.Int64("log_id", entry.ID),
		zap.String("method", string(event.MethodType)),
		zap.Int("response_status_code", result.status),
		zap.Duration("latency", result.latency),
		zap.Bool("is_test", event.IsTest))

	e.publish(ctx, event, entry, result.latency)
	return entry, nil
}

// call performs the outbound request. Every failure to obtain a full response
// is folded into the unreachable status with the error text as body.
func (e *Engine) call(ctx context.Context, build requestBuilder, event *models.Event) outcome {
	start := time.Now()
	failed := func(err error) outcome {
		e.logger.Warn("destination unreachable",
			zap.Int64("event_id", event.ID),
			zap.String("destination", event.Destination),
			zap.Error(err))
		return outcome{body: err.Error(), status: unreachableStatus, latency: time.Since(start)}
	}

	req, err := build(ctx, event.Destination, event.Payload)
	if err != nil {
		return failed(err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return failed(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBody))
	if err != nil {
		return failed(err)
	}

	// The response column is utf8mb4 text; binary or mis-encoded bodies are stored
	// with replacement characters.
	text := strings.ToValidUTF8(string(body), "\uFFFD")
	return outcome{body: text, status: resp.StatusCode, latency: time.Since(start)}
}

func (e *Engine) publish(ctx context.Context, event *models.Event, entry *models.Log, latency time.Duration) {
	if e.publisher == nil {
		return
	}
	err := e.publisher.Publish(context.WithoutCancel(ctx), platformEvents.TriggerOutcome{
		LogID:       entry.ID,
		EventID:     event.ID,
		CreatorID:   event.CreatorID,
		Method:      string(event.MethodType),
		Destination: event.Destination,
		StatusCode:  entry.ResponseStatusCode,
		IsTest:      event.IsTest,
		LatencyMS:   latency.Milliseconds(),
		Timestamp:   entry.Timestamp,
	})
	if err != nil {
		e.logger.Warn("failed to publish trigger outcome",
			zap.Int64("event_id", event.ID),
			zap.Int64("log_id", entry.ID),
			zap.Error(err))
	}
}
