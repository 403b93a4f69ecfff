package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dhima/event-trigger-service/internal/apperr"
	"github.com/dhima/event-trigger-service/internal/models"
	"github.com/dhima/event-trigger-service/internal/storage"
)

// UserLookup resolves a username to a stored user.
type UserLookup interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// TokenVerifier returns the subject of a valid token.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Gate resolves bearer tokens to users.
type Gate struct {
	tokens TokenVerifier
	users  UserLookup
}

// NewGate wires the gate.
func NewGate(tokens TokenVerifier, users UserLookup) *Gate {
	return &Gate{tokens: tokens, users: users}
}

// Resolve returns the user a token was issued to.
func (g *Gate) Resolve(ctx context.Context, token string) (*models.User, error) {
	username, err := g.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	if username == "" {
		return nil, apperr.New(apperr.ErrInvalidToken, "invalid token payload")
	}

	user, err := g.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.New(apperr.ErrUnauthenticated, "user not found")
		}
		return nil, fmt.Errorf("resolve token subject: %w", err)
	}
	return user, nil
}
