package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhima/event-trigger-service/internal/auth"
	"github.com/dhima/event-trigger-service/internal/events"
	"github.com/dhima/event-trigger-service/internal/logging"
	"github.com/dhima/event-trigger-service/internal/logs"
	"github.com/dhima/event-trigger-service/internal/models"
	"github.com/dhima/event-trigger-service/internal/testutil/fakes"
	"github.com/dhima/event-trigger-service/internal/triggers"
	"github.com/dhima/event-trigger-service/internal/users"
	"github.com/dhima/event-trigger-service/pkg/clock"
)

type testEnv struct {
	t         *testing.T
	store     *fakes.FakeStore
	clock     *clock.ManualClock
	publisher *fakes.FakePublisher
	router    *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := fakes.NewFakeStore()
	clk := clock.NewManual(time.Date(2025, 11, 5, 10, 0, 0, 0, time.UTC))
	tokens, err := auth.NewTokenService("test-secret", "HS256", 30*time.Minute, clk)
	require.NoError(t, err)
	publisher := &fakes.FakePublisher{}
	userService := users.NewService(store, tokens, nil)

	router := NewRouter(logging.NewNoOpLogger(), Dependencies{
		Gate:     auth.NewGate(tokens, store),
		Auth:     userService,
		Users:    userService,
		Events:   events.NewServiceWithClock(store, nil, clk),
		Triggers: triggers.NewEngine(store, 2*time.Second, nil, triggers.WithClock(clk), triggers.WithPublisher(publisher)),
		Logs:     logs.NewService(store, nil),
		Stats:    store,
	}, []string{"*"})

	return &testEnv{t: t, store: store, clock: clk, publisher: publisher, router: router}
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// signUp registers and logs in a user and returns a bearer token.
func (e *testEnv) signUp(username string) string {
	e.t.Helper()
	w := e.do(http.MethodPost, "/auth/register", "", map[string]string{
		"user_name": username,
		"name":      username,
		"email":     username + "@example.com",
		"password":  "s3cret",
	})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	return e.login(username, "s3cret")
}

func (e *testEnv) login(username, password string) string {
	e.t.Helper()
	w := e.do(http.MethodPost, "/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())
	var token models.TokenResponse
	decodeData(e.t, w, &token)
	return token.AccessToken
}

func (e *testEnv) seedAdmin(username string) string {
	e.t.Helper()
	hash, err := auth.HashPassword("adm1n")
	require.NoError(e.t, err)
	require.NoError(e.t, e.store.CreateUser(context.Background(), &models.User{
		Username:     username,
		Name:         "Admin",
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}))
	return e.login(username, "adm1n")
}

func (e *testEnv) createEvent(token string, body map[string]interface{}) models.EventResponse {
	e.t.Helper()
	w := e.do(http.MethodPost, "/events/create", token, body)
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	var event models.EventResponse
	decodeData(e.t, w, &event)
	return event
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, target))
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func webhookEvent(destination, method string) map[string]interface{} {
	return map[string]interface{}{
		"name":        "hook",
		"event_type":  "ONE_TIME",
		"destination": destination,
		"method_type": method,
		"payload":     `{"hello":"world"}`,
	}
}

func TestAuth_WhenRegisteredTwice_ThenReturns409(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	env.signUp("alice")

	// Act
	w := env.do(http.MethodPost, "/auth/register", "", map[string]string{
		"user_name": "alice",
		"name":      "Alice Again",
		"email":     "other@example.com",
		"password":  "pw",
	})

	// Assert
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuth_WhenPasswordWrong_ThenReturns401(t *testing.T) {
	env := newTestEnv(t)
	env.signUp("alice")

	w := env.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "alice", "password": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func TestAuth_WhenTokenValid_ThenMeReturnsCaller(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	token := env.signUp("alice")

	// Act
	w := env.do(http.MethodGet, "/auth/me", token, nil)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	var me models.UserResponse
	decodeData(t, w, &me)
	assert.Equal(t, "alice", me.Username)
	assert.Equal(t, models.RoleUser, me.Role)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestAuth_WhenTokenMissingOrBad_ThenProtectedRoutesReturn401(t *testing.T) {
	env := newTestEnv(t)
	token := env.signUp("alice")
	env.clock.Advance(31 * time.Minute)

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing", token: ""},
		{name: "garbage", token: "not-a-token"},
		{name: "expired", token: token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodGet, "/events/all", tt.token, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuth_WhenSubjectDeleted_ThenReturns401(t *testing.T) {
	env := newTestEnv(t)
	token := env.signUp("alice")
	w := env.do(http.MethodGet, "/auth/me", token, nil)
	var me models.UserResponse
	decodeData(t, w, &me)
	require.Equal(t, http.StatusOK, env.do(http.MethodDelete, fmt.Sprintf("/users/%d", me.ID), token, nil).Code)

	w = env.do(http.MethodGet, "/auth/me", token, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEvents_WhenCreatedAsInterval_ThenFixedTimeIsCleared(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	token := env.signUp("alice")

	// Act
	event := env.createEvent(token, map[string]interface{}{
		"name":        "poll",
		"event_type":  "INTERVAL",
		"destination": "https://example.com/hook",
		"method_type": "GET",
		"fixed_time":  "08:00",
	})

	// Assert
	require.NotNil(t, event.IntervalMinutes)
	assert.Equal(t, models.DefaultIntervalMinutes, *event.IntervalMinutes)
	assert.Nil(t, event.FixedTime)
	require.NotNil(t, event.NextRunAt)
	assert.Equal(t, env.clock.Now().Add(30*time.Minute), event.NextRunAt.UTC())
}

func TestEvents_WhenBodyInvalid_ThenReturns400(t *testing.T) {
	env := newTestEnv(t)
	token := env.signUp("alice")

	w := env.do(http.MethodPost, "/events/create", token, map[string]interface{}{
		"name":        "bad",
		"event_type":  "ONE_TIME",
		"destination": "https://example.com",
		"method_type": "PATCH",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEvents_WhenOtherUserAccesses_ThenReturns403AfterExistenceCheck(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	alice := env.signUp("alice")
	bob := env.signUp("bob")
	event := env.createEvent(alice, webhookEvent("https://example.com/hook", "POST"))
	path := fmt.Sprintf("/events/%d", event.ID)

	// Act & Assert
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodGet, path, bob, nil).Code)
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodPut, path, bob, webhookEvent("https://example.com/x", "GET")).Code)
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodDelete, path, bob, nil).Code)
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodPost, fmt.Sprintf("/events/trigger/%d", event.ID), bob, nil).Code)
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodGet, fmt.Sprintf("/logs/filter/by/%d", event.ID), bob, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/events/9999", bob, nil).Code)
	assert.Equal(t, 0, env.store.LogCount())
}

func TestEvents_WhenIDNotNumeric_ThenReturns400(t *testing.T) {
	env := newTestEnv(t)
	token := env.signUp("alice")

	w := env.do(http.MethodGet, "/events/abc", token, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEvents_WhenListed_ThenOnlyCallersEventsReturned(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signUp("alice")
	bob := env.signUp("bob")
	env.createEvent(alice, webhookEvent("https://example.com/a", "GET"))
	env.createEvent(bob, webhookEvent("https://example.com/b", "GET"))

	w := env.do(http.MethodGet, "/events/all", alice, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var list []models.EventResponse
	decodeData(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "https://example.com/a", list[0].Destination)
}

func TestTrigger_WhenDestinationResponds_ThenLogRecordsVerbatimOutcome(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	token := env.signUp("alice")
	var gotBody string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("queued"))
	}))
	defer upstream.Close()
	event := env.createEvent(token, webhookEvent(upstream.URL, "POST"))

	// Act
	w := env.do(http.MethodPost, fmt.Sprintf("/events/trigger/%d", event.ID), token, nil)

	// Assert
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var entry models.Log
	decodeData(t, w, &entry)
	assert.Equal(t, http.StatusAccepted, entry.ResponseStatusCode)
	assert.Equal(t, "queued", entry.Response)
	assert.Equal(t, models.LogStatusActive, entry.Status)
	assert.Equal(t, env.clock.Now(), entry.Timestamp.UTC())
	assert.Equal(t, `{"hello":"world"}`, gotBody)
	assert.Equal(t, 1, env.publisher.Count())

	w = env.do(http.MethodGet, fmt.Sprintf("/logs/filter/by/%d", event.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var result models.EventLogsResponse
	decodeData(t, w, &result)
	assert.Equal(t, 1, result.LogsCount)
	assert.Equal(t, entry.ID, result.Logs[0].ID)
}

func TestTrigger_WhenDestinationUnreachable_ThenLogsStatus500(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	token := env.signUp("alice")
	upstream := httptest.NewServer(http.NotFoundHandler())
	destination := upstream.URL
	upstream.Close()
	event := env.createEvent(token, webhookEvent(destination, "GET"))

	// Act
	w := env.do(http.MethodPost, fmt.Sprintf("/events/trigger/%d", event.ID), token, nil)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	var entry models.Log
	decodeData(t, w, &entry)
	assert.Equal(t, http.StatusInternalServerError, entry.ResponseStatusCode)
	assert.NotEmpty(t, entry.Response)
	assert.Equal(t, 1, env.store.LogCount())
}

func TestTrigger_WhenEventMissing_ThenReturns404WithoutLog(t *testing.T) {
	env := newTestEnv(t)
	token := env.signUp("alice")

	w := env.do(http.MethodPost, "/events/trigger/42", token, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Event not found", errorMessage(t, w))
	assert.Equal(t, 0, env.store.LogCount())
}

func TestLogs_WhenNoneRecorded_ThenReturns404(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	token := env.signUp("alice")
	event := env.createEvent(token, webhookEvent("https://example.com/hook", "GET"))

	// Act
	all := env.do(http.MethodGet, "/logs/", token, nil)
	perEvent := env.do(http.MethodGet, fmt.Sprintf("/logs/filter/by/%d", event.ID), token, nil)

	// Assert
	assert.Equal(t, http.StatusNotFound, all.Code)
	assert.Equal(t, http.StatusNotFound, perEvent.Code)
	assert.Contains(t, perEvent.Body.String(), `"logs_count":0`)
}

func TestEvents_WhenDeleted_ThenLogsCascade(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	token := env.signUp("alice")
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()
	event := env.createEvent(token, webhookEvent(upstream.URL, "DELETE"))
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, fmt.Sprintf("/events/trigger/%d", event.ID), token, nil).Code)
	require.Equal(t, http.StatusOK, env.do(http.MethodGet, "/logs/", token, nil).Code)

	// Act
	w := env.do(http.MethodDelete, fmt.Sprintf("/events/%d", event.ID), token, nil)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.store.LogCount())
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/logs/", token, nil).Code)
}

func TestUsers_WhenAdmin_ThenManagesOtherUsersButNotTheirEvents(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	alice := env.signUp("alice")
	admin := env.seedAdmin("root")
	var me models.UserResponse
	decodeData(t, env.do(http.MethodGet, "/auth/me", alice, nil), &me)
	event := env.createEvent(alice, webhookEvent("https://example.com/hook", "GET"))

	// Act
	list := env.do(http.MethodGet, "/users/", admin, nil)
	patch := env.do(http.MethodPatch, fmt.Sprintf("/users/%d", me.ID), admin, map[string]string{"name": "Alice Renamed"})
	readEvent := env.do(http.MethodGet, fmt.Sprintf("/events/%d", event.ID), admin, nil)

	// Assert
	assert.Equal(t, http.StatusOK, list.Code)
	require.Equal(t, http.StatusOK, patch.Code, patch.Body.String())
	var updated models.UserResponse
	decodeData(t, patch, &updated)
	assert.Equal(t, "Alice Renamed", updated.Name)
	assert.Equal(t, http.StatusForbidden, readEvent.Code)
}

func TestUsers_WhenNotAdmin_ThenCannotListOrModifyOthers(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signUp("alice")
	bob := env.signUp("bob")
	var bobUser models.UserResponse
	decodeData(t, env.do(http.MethodGet, "/auth/me", bob, nil), &bobUser)

	assert.Equal(t, http.StatusForbidden, env.do(http.MethodGet, "/users/", alice, nil).Code)
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodPatch, fmt.Sprintf("/users/%d", bobUser.ID), alice, map[string]string{"name": "x"}).Code)
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodDelete, fmt.Sprintf("/users/%d", bobUser.ID), alice, nil).Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, fmt.Sprintf("/users/%d", bobUser.ID), alice, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPatch, "/users/9999", alice, map[string]string{"name": "x"}).Code)
}

func TestSystem_WhenHealthAndMetricsRequested_ThenPublic(t *testing.T) {
	env := newTestEnv(t)
	env.signUp("alice")

	health := env.do(http.MethodGet, "/health", "", nil)
	metrics := env.do(http.MethodGet, "/metrics", "", nil)

	assert.Equal(t, http.StatusOK, health.Code)
	require.Equal(t, http.StatusOK, metrics.Code)
	var stats models.Stats
	decodeData(t, metrics, &stats)
	assert.Equal(t, int64(1), stats.Users)
}

func TestEvents_WhenCreatedThenFetched_ThenFieldsMatch(t *testing.T) {
	env := newTestEnv(t)
	token := env.signUp("alice")
	created := env.createEvent(token, map[string]interface{}{
		"name":        "daily",
		"event_type":  "FIXED_TIME",
		"destination": "https://example.com/daily",
		"method_type": "PUT",
		"payload":     `{"n":1}`,
		"is_test":     true,
		"fixed_time":  "18:45:10",
	})

	w := env.do(http.MethodGet, fmt.Sprintf("/events/%d", created.ID), token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var fetched models.EventResponse
	decodeData(t, w, &fetched)
	assert.Equal(t, created, fetched)
}

func TestAuth_WhenPasswordTooLongForBcrypt_ThenReturns400(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/auth/register", "", map[string]string{
		"user_name": "alice",
		"name":      "Alice",
		"email":     "alice@example.com",
		"password":  strings.Repeat("x", 80),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
