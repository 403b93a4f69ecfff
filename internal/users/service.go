package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dhima/event-trigger-service/internal/apperr"
	"github.com/dhima/event-trigger-service/internal/auth"
	"github.com/dhima/event-trigger-service/internal/models"
	"github.com/dhima/event-trigger-service/internal/storage"
	"go.uber.org/zap"
)

const (
	msgInvalidCredentials = "Invalid username or password"
	msgUserNotFound       = "User not found"
	msgDuplicateUser      = "Username or email already registered"
)

// Service provides registration, login and account management.
type Service struct {
	store  UserStore
	tokens TokenIssuer
	logger *zap.Logger
}

// NewService creates a user service.
func NewService(store UserStore, tokens TokenIssuer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, tokens: tokens, logger: logger}
}

// Register creates a USER account with a hashed password.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.UserResponse, error) {
	user := models.User{
		Username: strings.TrimSpace(req.Username),
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Role:     models.RoleUser,
	}
	if err := validateUser(user, &req.Password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash

	if err := s.store.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.New(apperr.ErrConflict, msgDuplicateUser)
		}
		return nil, &apperr.StorageError{Op: "create user", Err: err}
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("user_name", user.Username))
	resp := models.NewUserResponse(&user)
	return &resp, nil
}

// Login verifies credentials and issues a bearer token. Unknown users and wrong
// passwords produce the same error.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.TokenResponse, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.New(apperr.ErrUnauthenticated, msgInvalidCredentials)
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Warn("login rejected", zap.String("user_name", user.Username))
		return nil, apperr.New(apperr.ErrUnauthenticated, msgInvalidCredentials)
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &models.TokenResponse{AccessToken: token, TokenType: auth.TokenType}, nil
}

// Get returns any user to an authenticated caller.
func (s *Service) Get(ctx context.Context, id int64) (*models.UserResponse, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := models.NewUserResponse(user)
	return &resp, nil
}

// List returns every user. ADMIN only.
func (s *Service) List(ctx context.Context, caller *models.User) ([]models.UserResponse, error) {
	if !caller.IsAdmin() {
		return nil, apperr.New(apperr.ErrForbidden, "Admin privileges required")
	}

	all, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]models.UserResponse, 0, len(all))
	for i := range all {
		out = append(out, models.NewUserResponse(&all[i]))
	}
	return out, nil
}

// Update applies the non-nil fields of req. Callers may update themselves; ADMIN may update anyone.
func (s *Service) Update(ctx context.Context, caller *models.User, id int64, req models.UpdateUserRequest) (*models.UserResponse, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(caller, user.ID, true, "You can only update your own account."); err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = strings.TrimSpace(*req.Username)
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = strings.TrimSpace(*req.Email)
	}
	if err := validateUser(*user, req.Password); err != nil {
		return nil, err
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, storage.ErrDuplicate):
			return nil, apperr.New(apperr.ErrConflict, msgDuplicateUser)
		case errors.Is(err, storage.ErrNotFound):
			return nil, apperr.New(apperr.ErrNotFound, msgUserNotFound)
		}
		return nil, &apperr.StorageError{Op: "update user", Err: err}
	}

	resp := models.NewUserResponse(user)
	return &resp, nil
}

// Delete removes a user together with its events and their logs.
func (s *Service) Delete(ctx context.Context, caller *models.User, id int64) error {
	user, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.Authorize(caller, user.ID, true, "You can only delete your own account."); err != nil {
		return err
	}

	if err := s.store.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.New(apperr.ErrNotFound, msgUserNotFound)
		}
		return &apperr.StorageError{Op: "delete user", Err: err}
	}

	s.logger.Info("user deleted", zap.Int64("user_id", id), zap.Int64("by", caller.ID))
	return nil
}

func (s *Service) load(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.New(apperr.ErrNotFound, msgUserNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// validateUser checks required fields. A nil password is left unchecked.
func validateUser(u models.User, password *string) error {
	var details []string
	if u.Username == "" {
		details = append(details, "user_name is required")
	}
	if u.Name == "" {
		details = append(details, "name is required")
	}
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		details = append(details, "email must be a valid address")
	}
	if password != nil {
		switch {
		case *password == "":
			details = append(details, "password is required")
		case len(*password) > auth.MaxPasswordBytes:
			details = append(details, fmt.Sprintf("password must be at most %d bytes", auth.MaxPasswordBytes))
		}
	}
	if len(details) > 0 {
		return apperr.NewValidationErrors("invalid user", details)
	}
	return nil
}
