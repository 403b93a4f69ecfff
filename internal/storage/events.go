package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dhima/event-trigger-service/internal/models"
)

const eventColumns = `id, creator_id, name, event_type, destination, method_type, payload,
	is_test, interval_minutes, fixed_time, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// CreateEvent inserts an event and assigns its ID.
func (c *MySQLClient) CreateEvent(ctx context.Context, e *models.Event) error {
	res, err := c.db.ExecContext(
		ctx,
		`INSERT INTO events (creator_id, name, event_type, destination, method_type, payload,
			is_test, interval_minutes, fixed_time, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.CreatorID, e.Name, e.EventType, e.Destination, e.MethodType, e.Payload,
		e.IsTest, e.IntervalMinutes, e.FixedTime, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	e.ID = id
	return nil
}

// GetEvent fetches an event by ID.
func (c *MySQLClient) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}
	return e, nil
}

// ListEventsByCreator returns the events owned by a user ordered by ID.
func (c *MySQLClient) ListEventsByCreator(ctx context.Context, creatorID int64) ([]models.Event, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events WHERE creator_id = ? ORDER BY id`, creatorID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// UpdateEvent overwrites every mutable column. creator_id and created_at never change.
func (c *MySQLClient) UpdateEvent(ctx context.Context, e *models.Event) error {
	res, err := c.db.ExecContext(
		ctx,
		`UPDATE events
		 SET name = ?, event_type = ?, destination = ?, method_type = ?, payload = ?,
		     is_test = ?, interval_minutes = ?, fixed_time = ?, updated_at = ?
		 WHERE id = ?`,
		e.Name, e.EventType, e.Destination, e.MethodType, e.Payload,
		e.IsTest, e.IntervalMinutes, e.FixedTime, e.UpdatedAt, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return notFoundIfNoRows(res)
}

// DeleteEvent removes an event and its logs in one transaction.
func (c *MySQLClient) DeleteEvent(ctx context.Context, id int64) (err error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM logs WHERE event_id = ?`, id); err != nil {
		return fmt.Errorf("delete event logs: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if err = notFoundIfNoRows(res); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func scanEvent(row rowScanner) (*models.Event, error) {
	var (
		e         models.Event
		payload   sql.NullString
		interval  sql.NullInt64
		fixedTime sql.NullString
	)
	if err := row.Scan(
		&e.ID, &e.CreatorID, &e.Name, &e.EventType, &e.Destination, &e.MethodType, &payload,
		&e.IsTest, &interval, &fixedTime, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if payload.Valid {
		e.Payload = &payload.String
	}
	if interval.Valid {
		n := int(interval.Int64)
		e.IntervalMinutes = &n
	}
	if fixedTime.Valid {
		e.FixedTime = &fixedTime.String
	}
	return &e, nil
}
