package storage

import (
	"context"
	"fmt"

	"github.com/dhima/event-trigger-service/internal/models"
)

// CreateLog inserts a trigger outcome and assigns its ID.
func (c *MySQLClient) CreateLog(ctx context.Context, l *models.Log) error {
	res, err := c.db.ExecContext(
		ctx,
		`INSERT INTO logs (event_id, response, response_status_code, timestamp, status) VALUES (?, ?, ?, ?, ?)`,
		l.EventID, l.Response, l.ResponseStatusCode, l.Timestamp, l.Status,
	)
	if err != nil {
		return fmt.Errorf("insert log: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	l.ID = id
	return nil
}

// ListLogsByEvent returns the logs of one event ordered by ID.
func (c *MySQLClient) ListLogsByEvent(ctx context.Context, eventID int64) ([]models.Log, error) {
	return c.queryLogs(ctx,
		`SELECT id, event_id, response, response_status_code, timestamp, status
		 FROM logs WHERE event_id = ? ORDER BY id`,
		eventID,
	)
}

// ListLogsByCreator returns the logs of every event owned by a user.
func (c *MySQLClient) ListLogsByCreator(ctx context.Context, creatorID int64) ([]models.Log, error) {
	return c.queryLogs(ctx,
		`SELECT l.id, l.event_id, l.response, l.response_status_code, l.timestamp, l.status
		 FROM logs l
		 INNER JOIN events e ON l.event_id = e.id
		 WHERE e.creator_id = ?
		 ORDER BY l.id`,
		creatorID,
	)
}

func (c *MySQLClient) queryLogs(ctx context.Context, query string, args ...interface{}) ([]models.Log, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	logs := make([]models.Log, 0)
	for rows.Next() {
		var l models.Log
		if err := rows.Scan(&l.ID, &l.EventID, &l.Response, &l.ResponseStatusCode, &l.Timestamp, &l.Status); err != nil {
			return nil, fmt.Errorf("scan log row: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate logs: %w", err)
	}
	return logs, nil
}

// Stats counts rows for the metrics endpoint.
func (c *MySQLClient) Stats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats
	err := c.db.QueryRowContext(
		ctx,
		`SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM events),
			(SELECT COUNT(*) FROM logs),
			(SELECT COUNT(*) FROM logs WHERE response_status_code >= 500)`,
	).Scan(&stats.Users, &stats.Events, &stats.Logs, &stats.ServerErrorLogs)
	if err != nil {
		return models.Stats{}, fmt.Errorf("count stats: %w", err)
	}
	return stats, nil
}
