package fakes

import (
	"context"
	"sort"
	"sync"

	"github.com/dhima/event-trigger-service/internal/models"
	"github.com/dhima/event-trigger-service/internal/storage"
)

// FakeStore is an in-memory implementation of the user, event and log stores.
// Deletes cascade the same way the SQL schema does.
type FakeStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]models.User
	events map[int64]models.Event
	logs   map[int64]models.Log

	// CreateLogErr, when set, is returned by CreateLog and nothing is stored.
	CreateLogErr error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		users:  make(map[int64]models.User),
		events: make(map[int64]models.Event),
		logs:   make(map[int64]models.Log),
	}
}

func (f *FakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

// Users

func (f *FakeStore) CreateUser(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return storage.ErrDuplicate
		}
	}
	u.ID = f.id()
	f.users[u.ID] = *u
	return nil
}

func (f *FakeStore) GetUser(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (f *FakeStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			cpy := u
			return &cpy, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *FakeStore) ListUsers(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FakeStore) UpdateUser(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return storage.ErrNotFound
	}
	for id, existing := range f.users {
		if id != u.ID && (existing.Username == u.Username || existing.Email == u.Email) {
			return storage.ErrDuplicate
		}
	}
	f.users[u.ID] = *u
	return nil
}

func (f *FakeStore) DeleteUser(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return storage.ErrNotFound
	}
	for eventID, e := range f.events {
		if e.CreatorID == id {
			f.deleteEventLocked(eventID)
		}
	}
	delete(f.users, id)
	return nil
}

// Events

func (f *FakeStore) CreateEvent(_ context.Context, e *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[e.CreatorID]; !ok {
		return storage.ErrNotFound
	}
	e.ID = f.id()
	f.events[e.ID] = cloneEvent(*e)
	return nil
}

func (f *FakeStore) GetEvent(_ context.Context, id int64) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cpy := cloneEvent(e)
	return &cpy, nil
}

func (f *FakeStore) ListEventsByCreator(_ context.Context, creatorID int64) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Event, 0)
	for _, e := range f.events {
		if e.CreatorID == creatorID {
			out = append(out, cloneEvent(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FakeStore) UpdateEvent(_ context.Context, e *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[e.ID]; !ok {
		return storage.ErrNotFound
	}
	f.events[e.ID] = cloneEvent(*e)
	return nil
}

func (f *FakeStore) DeleteEvent(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return storage.ErrNotFound
	}
	f.deleteEventLocked(id)
	return nil
}

func (f *FakeStore) deleteEventLocked(id int64) {
	for logID, l := range f.logs {
		if l.EventID == id {
			delete(f.logs, logID)
		}
	}
	delete(f.events, id)
}

// PutEvent stores an event as-is, bypassing service validation.
func (f *FakeStore) PutEvent(e models.Event) models.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.ID == 0 {
		e.ID = f.id()
	}
	f.events[e.ID] = cloneEvent(e)
	return e
}

// Logs

func (f *FakeStore) CreateLog(_ context.Context, l *models.Log) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateLogErr != nil {
		return f.CreateLogErr
	}
	if _, ok := f.events[l.EventID]; !ok {
		return storage.ErrNotFound
	}
	l.ID = f.id()
	f.logs[l.ID] = *l
	return nil
}

func (f *FakeStore) ListLogsByEvent(_ context.Context, eventID int64) ([]models.Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Log, 0)
	for _, l := range f.logs {
		if l.EventID == eventID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FakeStore) ListLogsByCreator(_ context.Context, creatorID int64) ([]models.Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Log, 0)
	for _, l := range f.logs {
		if e, ok := f.events[l.EventID]; ok && e.CreatorID == creatorID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// LogCount returns how many logs exist in total.
func (f *FakeStore) LogCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.logs)
}

func (f *FakeStore) Stats(_ context.Context) (models.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := models.Stats{
		Users:  int64(len(f.users)),
		Events: int64(len(f.events)),
		Logs:   int64(len(f.logs)),
	}
	for _, l := range f.logs {
		if l.ResponseStatusCode >= 500 {
			stats.ServerErrorLogs++
		}
	}
	return stats, nil
}

func cloneEvent(e models.Event) models.Event {
	if e.Payload != nil {
		p := *e.Payload
		e.Payload = &p
	}
	if e.IntervalMinutes != nil {
		n := *e.IntervalMinutes
		e.IntervalMinutes = &n
	}
	if e.FixedTime != nil {
		t := *e.FixedTime
		e.FixedTime = &t
	}
	return e
}
