package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dhima/event-trigger-service/internal/models"
)

const userColumns = `id, user_name, name, email, password, role`

// CreateUser inserts a user and assigns its ID.
func (c *MySQLClient) CreateUser(ctx context.Context, u *models.User) error {
	res, err := c.db.ExecContext(
		ctx,
		`INSERT INTO users (user_name, name, email, password, role) VALUES (?, ?, ?, ?, ?)`,
		u.Username, u.Name, u.Email, u.PasswordHash, u.Role,
	)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	u.ID = id
	return nil
}

// GetUser fetches a user by ID.
func (c *MySQLClient) GetUser(ctx context.Context, id int64) (*models.User, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByUsername fetches a user by its unique username.
func (c *MySQLClient) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE user_name = ?`, username)
	return scanUser(row)
}

// ListUsers returns every user ordered by ID.
func (c *MySQLClient) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.PasswordHash, &u.Role); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// UpdateUser overwrites the mutable columns of a user.
func (c *MySQLClient) UpdateUser(ctx context.Context, u *models.User) error {
	res, err := c.db.ExecContext(
		ctx,
		`UPDATE users SET user_name = ?, name = ?, email = ?, password = ?, role = ? WHERE id = ?`,
		u.Username, u.Name, u.Email, u.PasswordHash, u.Role, u.ID,
	)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update user: %w", err)
	}

	// MySQL reports zero affected rows when nothing changed, so confirm existence separately.
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		if _, err := c.GetUser(ctx, u.ID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteUser removes a user with all of its events and their logs in one transaction.
func (c *MySQLClient) DeleteUser(ctx context.Context, id int64) (err error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(
		ctx,
		`DELETE l FROM logs l INNER JOIN events e ON l.event_id = e.id WHERE e.creator_id = ?`,
		id,
	); err != nil {
		return fmt.Errorf("delete user logs: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM events WHERE creator_id = ?`, id); err != nil {
		return fmt.Errorf("delete user events: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if err = notFoundIfNoRows(res); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.PasswordHash, &u.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
