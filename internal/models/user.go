package models

// Role is the authorization role of a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User represents a user entity from the database.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"user_name"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// RegisterRequest represents the request to register a user.
type RegisterRequest struct {
	Username string `json:"user_name" binding:"required" example:"jdoe"`
	Name     string `json:"name" binding:"required" example:"John Doe"`
	Email    string `json:"email" binding:"required,email" example:"jdoe@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret"`
} // @name RegisterRequest

// LoginRequest carries credentials as JSON or as an OAuth2 password form.
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required" example:"jdoe"`
	Password string `json:"password" form:"password" binding:"required" example:"s3cret"`
} // @name LoginRequest

// UpdateUserRequest represents a partial update of a user.
type UpdateUserRequest struct {
	Username *string `json:"user_name,omitempty" example:"jdoe"`
	Name     *string `json:"name,omitempty" example:"John Doe"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email" example:"jdoe@example.com"`
	Password *string `json:"password,omitempty" example:"n3w-s3cret"`
} // @name UpdateUserRequest

// UserResponse represents a user without credentials.
type UserResponse struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"user_name" example:"jdoe"`
	Name     string `json:"name" example:"John Doe"`
	Email    string `json:"email" example:"jdoe@example.com"`
	Role     Role   `json:"role" example:"USER"`
} // @name UserResponse

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType   string `json:"token_type" example:"bearer"`
} // @name TokenResponse

// NewUserResponse strips credentials from a user.
func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
	}
}
