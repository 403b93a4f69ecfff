package storage

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_name VARCHAR(150) NOT NULL,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		password VARCHAR(255) NOT NULL,
		role ENUM('USER', 'ADMIN') NOT NULL DEFAULT 'USER',
		UNIQUE KEY uq_users_user_name (user_name),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS events (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		creator_id BIGINT NOT NULL,
		name VARCHAR(255) NOT NULL,
		event_type ENUM('INTERVAL', 'FIXED_TIME', 'ONE_TIME') NOT NULL,
		destination VARCHAR(2048) NOT NULL,
		method_type VARCHAR(16) NOT NULL,
		payload MEDIUMTEXT NULL,
		is_test BOOLEAN NOT NULL DEFAULT FALSE,
		interval_minutes INT NULL,
		fixed_time TIME NULL,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		KEY idx_events_creator (creator_id),
		CONSTRAINT fk_events_creator FOREIGN KEY (creator_id) REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS logs (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		event_id BIGINT NOT NULL,
		response MEDIUMTEXT NOT NULL,
		response_status_code INT NOT NULL,
		timestamp DATETIME(6) NOT NULL,
		status ENUM('ACTIVE', 'ARCHIVED', 'DELETED') NOT NULL DEFAULT 'ACTIVE',
		KEY idx_logs_event (event_id),
		CONSTRAINT fk_logs_event FOREIGN KEY (event_id) REFERENCES events (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates the tables if they do not exist yet.
func (c *MySQLClient) Migrate(ctx context.Context) error {
	for i, stmt := range schemaStatements {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
