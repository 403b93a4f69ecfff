package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dhima/event-trigger-service/internal/apperr"
	"github.com/dhima/event-trigger-service/pkg/clock"
	"github.com/golang-jwt/jwt/v5"
)

// TokenType is reported to clients alongside the access token.
const TokenType = "bearer"

// ErrTokenExpired is returned for well-formed tokens past their expiry. It is an ErrInvalidToken.
var ErrTokenExpired = apperr.New(apperr.ErrInvalidToken, "token expired")

// TokenService signs and verifies access tokens carrying {sub, exp}.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	clock  clock.Clock
}

// NewTokenService builds a token service for an HMAC algorithm (HS256, HS384 or HS512).
func NewTokenService(secret, algorithm string, ttl time.Duration, clk clock.Clock) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported token algorithm %q", algorithm)
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &TokenService{secret: []byte(secret), method: method, ttl: ttl, clock: clk}, nil
}

// Issue signs a token whose subject is the username.
func (s *TokenService) Issue(username string) (string, error) {
	now := s.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// Verify checks signature and expiry and returns the subject claim, which may be empty.
func (s *TokenService) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", apperr.New(apperr.ErrInvalidToken, "invalid token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", apperr.New(apperr.ErrInvalidToken, "invalid token")
	}
	return claims.Subject, nil
}
