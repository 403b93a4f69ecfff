package users

import (
	"context"

	"github.com/dhima/event-trigger-service/internal/models"
)

// UserStore defines persistence required by the user service.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id int64) error
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(username string) (string, error)
}
