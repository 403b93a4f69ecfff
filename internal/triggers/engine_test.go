package triggers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dhima/event-trigger-service/internal/apperr"
	"github.com/dhima/event-trigger-service/internal/models"
	"github.com/dhima/event-trigger-service/internal/testutil/fakes"
	"github.com/dhima/event-trigger-service/pkg/clock"
)

var triggerNow = time.Date(2025, 11, 5, 10, 30, 0, 0, time.UTC)

type received struct {
	method      string
	body        string
	contentType string
}

func newDestination(t *testing.T, status int, reply string) (*httptest.Server, chan received) {
	t.Helper()
	calls := make(chan received, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls <- received{method: r.Method, body: string(body), contentType: r.Header.Get("Content-Type")}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, calls
}

func setup(t *testing.T, opts ...Option) (*Engine, *fakes.FakeStore, *models.User) {
	t.Helper()
	store := fakes.NewFakeStore()
	owner := &models.User{Username: "owner", Email: "owner@example.com", Role: models.RoleUser}
	require.NoError(t, store.CreateUser(context.Background(), owner))
	opts = append([]Option{WithClock(clock.NewFixed(triggerNow))}, opts...)
	return NewEngine(store, time.Second, zap.NewNop(), opts...), store, owner
}

func putEvent(store *fakes.FakeStore, owner *models.User, method models.HTTPMethod, url string, payload *string) models.Event {
	return store.PutEvent(models.Event{
		CreatorID:   owner.ID,
		Name:        "hook",
		EventType:   models.EventTypeOneTime,
		Destination: url,
		MethodType:  method,
		Payload:     payload,
	})
}

func logsFor(t *testing.T, store *fakes.FakeStore, eventID int64) []models.Log {
	t.Helper()
	logs, err := store.ListLogsByEvent(context.Background(), eventID)
	require.NoError(t, err)
	return logs
}

func TestTrigger_WhenPost_ThenSendsPayloadAndRecordsResponse(t *testing.T) {
	// Arrange
	engine, store, owner := setup(t)
	srv, calls := newDestination(t, http.StatusCreated, `{"ok":true}`)
	payload := `{"hello":"world"}`
	event := putEvent(store, owner, models.MethodPost, srv.URL, &payload)

	// Act
	entry, err := engine.Trigger(context.Background(), owner, event.ID)

	// Assert
	require.NoError(t, err)
	got := <-calls
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, payload, got.body)
	assert.Equal(t, "application/json", got.contentType)

	assert.Equal(t, http.StatusCreated, entry.ResponseStatusCode)
	assert.Equal(t, `{"ok":true}`, entry.Response)
	assert.Equal(t, models.LogStatusActive, entry.Status)
	assert.Equal(t, triggerNow, entry.Timestamp)
	assert.Len(t, logsFor(t, store, event.ID), 1)
}

func TestTrigger_WhenGetOrDelete_ThenSendsNoBody(t *testing.T) {
	for _, method := range []models.HTTPMethod{models.MethodGet, models.MethodDelete} {
		t.Run(string(method), func(t *testing.T) {
			// Arrange
			engine, store, owner := setup(t)
			srv, calls := newDestination(t, http.StatusOK, "done")
			payload := `{"ignored":true}`
			event := putEvent(store, owner, method, srv.URL, &payload)

			// Act
			entry, err := engine.Trigger(context.Background(), owner, event.ID)

			// Assert
			require.NoError(t, err)
			got := <-calls
			assert.Equal(t, string(method), got.method)
			assert.Empty(t, got.body)
			assert.Equal(t, "done", entry.Response)
		})
	}
}

func TestTrigger_WhenPutWithoutPayload_ThenSendsEmptyBody(t *testing.T) {
	engine, store, owner := setup(t)
	srv, calls := newDestination(t, http.StatusNoContent, "")
	event := putEvent(store, owner, models.MethodPut, srv.URL, nil)

	entry, err := engine.Trigger(context.Background(), owner, event.ID)

	require.NoError(t, err)
	got := <-calls
	assert.Equal(t, http.MethodPut, got.method)
	assert.Empty(t, got.body)
	assert.Equal(t, http.StatusNoContent, entry.ResponseStatusCode)
}

func TestTrigger_WhenDestinationReturnsErrorStatus_ThenRecordsItVerbatim(t *testing.T) {
	tests := []struct {
		name   string
		status int
		reply  string
	}{
		{name: "404", status: http.StatusNotFound, reply: "not found"},
		{name: "503", status: http.StatusServiceUnavailable, reply: "maintenance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, store, owner := setup(t)
			srv, _ := newDestination(t, tt.status, tt.reply)
			event := putEvent(store, owner, models.MethodGet, srv.URL, nil)

			entry, err := engine.Trigger(context.Background(), owner, event.ID)

			require.NoError(t, err)
			assert.Equal(t, tt.status, entry.ResponseStatusCode)
			assert.Equal(t, tt.reply, entry.Response)
			assert.Len(t, logsFor(t, store, event.ID), 1)
		})
	}
}

func TestTrigger_WhenDestinationUnreachable_ThenRecordsOne500Log(t *testing.T) {
	// Arrange
	engine, store, owner := setup(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	event := putEvent(store, owner, models.MethodPost, url, nil)

	// Act
	entry, err := engine.Trigger(context.Background(), owner, event.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, entry.ResponseStatusCode)
	assert.NotEmpty(t, entry.Response)
	assert.Len(t, logsFor(t, store, event.ID), 1)
}

func TestTrigger_WhenDestinationTimesOut_ThenRecords500Log(t *testing.T) {
	// Arrange
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	engine, store, owner := setup(t, WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))
	event := putEvent(store, owner, models.MethodGet, srv.URL, nil)

	// Act
	entry, err := engine.Trigger(context.Background(), owner, event.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, entry.ResponseStatusCode)
	assert.Contains(t, entry.Response, "Client.Timeout")
}

func TestTrigger_WhenDestinationMalformed_ThenRecords500Log(t *testing.T) {
	engine, store, owner := setup(t)
	event := putEvent(store, owner, models.MethodGet, "http://[::1", nil)

	entry, err := engine.Trigger(context.Background(), owner, event.ID)

	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, entry.ResponseStatusCode)
	assert.Len(t, logsFor(t, store, event.ID), 1)
}

func TestTrigger_WhenResponseLargerThanCap_ThenTruncatesBody(t *testing.T) {
	engine, store, owner := setup(t, WithMaxResponseBytes(4))
	srv, _ := newDestination(t, http.StatusOK, strings.Repeat("x", 64))
	event := putEvent(store, owner, models.MethodGet, srv.URL, nil)

	entry, err := engine.Trigger(context.Background(), owner, event.ID)

	require.NoError(t, err)
	assert.Equal(t, "xxxx", entry.Response)
}

func TestTrigger_WhenBodyIsNotUTF8_ThenStoresValidText(t *testing.T) {
	// Arrange
	engine, store, owner := setup(t)
	srv, _ := newDestination(t, http.StatusOK, string([]byte{0x1f, 0x8b, 0xff, 0xfe, 'o', 'k'}))
	event := putEvent(store, owner, models.MethodGet, srv.URL, nil)

	// Act
	entry, err := engine.Trigger(context.Background(), owner, event.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, entry.ResponseStatusCode)
	assert.True(t, utf8.ValidString(entry.Response))
	assert.Equal(t, "\x1f\uFFFDok", entry.Response)
	stored := logsFor(t, store, event.ID)
	require.Len(t, stored, 1)
	assert.True(t, utf8.ValidString(stored[0].Response))
}

func TestTrigger_WhenMethodUnsupported_ThenRejectsWithoutLog(t *testing.T) {
	// Arrange
	engine, store, owner := setup(t)
	srv, calls := newDestination(t, http.StatusOK, "")
	event := putEvent(store, owner, "PATCH", srv.URL, nil)

	// Act
	_, err := engine.Trigger(context.Background(), owner, event.ID)

	// Assert
	assert.ErrorIs(t, err, apperr.ErrUnsupportedMethod)
	assert.Empty(t, logsFor(t, store, event.ID))
	assert.Len(t, calls, 0)
}

func TestTrigger_WhenEventMissing_ThenReturnsNotFound(t *testing.T) {
	engine, _, owner := setup(t)

	_, err := engine.Trigger(context.Background(), owner, 999)

	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestTrigger_WhenCallerNotOwner_ThenForbiddenWithoutCallOrLog(t *testing.T) {
	// Arrange
	engine, store, owner := setup(t)
	srv, calls := newDestination(t, http.StatusOK, "")
	event := putEvent(store, owner, models.MethodGet, srv.URL, nil)
	admin := &models.User{ID: owner.ID + 100, Role: models.RoleAdmin}

	// Act
	_, err := engine.Trigger(context.Background(), admin, event.ID)

	// Assert
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.Len(t, calls, 0)
	assert.Equal(t, 0, store.LogCount())
}

func TestTrigger_WhenLogWriteFails_ThenReturnsStorageError(t *testing.T) {
	// Arrange
	engine, store, owner := setup(t)
	srv, _ := newDestination(t, http.StatusOK, "ok")
	event := putEvent(store, owner, models.MethodGet, srv.URL, nil)
	store.CreateLogErr = errors.New("disk full")

	// Act
	_, err := engine.Trigger(context.Background(), owner, event.ID)

	// Assert
	var storageErr *apperr.StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "store log", storageErr.Op)
	assert.Equal(t, 0, store.LogCount())
}

func TestTrigger_WhenPublisherConfigured_ThenPublishesStoredOutcome(t *testing.T) {
	// Arrange
	pub := &fakes.FakePublisher{}
	engine, store, owner := setup(t, WithPublisher(pub))
	srv, _ := newDestination(t, http.StatusAccepted, "queued")
	event := putEvent(store, owner, models.MethodPost, srv.URL, nil)

	// Act
	entry, err := engine.Trigger(context.Background(), owner, event.ID)

	// Assert
	require.NoError(t, err)
	require.Equal(t, 1, pub.Count())
	published := pub.Outcomes[0]
	assert.Equal(t, entry.ID, published.LogID)
	assert.Equal(t, event.ID, published.EventID)
	assert.Equal(t, http.StatusAccepted, published.StatusCode)
	assert.Equal(t, "POST", published.Method)
}

func TestTrigger_WhenPublishFails_ThenTriggerStillSucceeds(t *testing.T) {
	pub := &fakes.FakePublisher{FailNext: true}
	engine, store, owner := setup(t, WithPublisher(pub))
	srv, _ := newDestination(t, http.StatusOK, "ok")
	event := putEvent(store, owner, models.MethodGet, srv.URL, nil)

	entry, err := engine.Trigger(context.Background(), owner, event.ID)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, entry.ResponseStatusCode)
	assert.Len(t, logsFor(t, store, event.ID), 1)
}
