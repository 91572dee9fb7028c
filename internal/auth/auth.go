// Package auth provides the mock authenticator. Any email and password pair
// is accepted and the email doubles as the user id.
package auth

import (
	"context"
	"strings"
	"time"

	"careercompass/internal/errors"
	"careercompass/internal/types"
)

// Service simulates an identity provider with a fixed response delay.
type Service struct {
	delay  time.Duration
	logger *errors.Logger
}

// NewService creates a mock authenticator.
func NewService(delay time.Duration, logger *errors.Logger) *Service {
	return &Service{delay: delay, logger: logger}
}

// Login authenticates a user. Credentials are not verified.
func (s *Service) Login(ctx context.Context, email, password string) (types.User, error) {
	return s.resolve(ctx, "login", email)
}

// SignUp registers a user. Nothing is stored.
func (s *Service) SignUp(ctx context.Context, email, password string) (types.User, error) {
	return s.resolve(ctx, "signup", email)
}

func (s *Service) resolve(ctx context.Context, operation, email string) (types.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return types.User{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"Email is required", nil)
	}

	s.logger.Debug("Mock authentication", "operation", operation, "email", email)

	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return types.User{}, ctx.Err()
	}

	return types.User{UID: email, Email: email}, nil
}
