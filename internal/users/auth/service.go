// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/taibuivan/doira/internal/platform/apperr"
	"github.com/taibuivan/doira/internal/platform/sec"
)

// # Contracts & Types

// AccessTokenTTL is the lifetime of an issued JWT access token.
const AccessTokenTTL = 12 * time.Hour

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The username of the account.
	//   - role: The role of the account.
	//   - publisherID: The publisher binding, empty for global accounts.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID, username, role, publisherID string, timeToLive time.Duration) (string, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing or login
// logic must be reviewed carefully.
type Service struct {
	userRepository UserRepository
	tokenProvider  TokenProvider
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(userRepo UserRepository, tokenProv TokenProvider) *Service {
	return &Service{
		userRepository: userRepo,
		tokenProvider:  tokenProv,
	}
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login    string // Can be Username or Email
	Password string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *User
}

/*
Login validates user credentials and issues an access token.

Description: Verifies identity, performs constant-time password comparison,
and issues a signed JWT carrying the user's role and publisher binding.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session identifiers
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	var user *User
	var err error
	// Flexible login: look up by Email or Username
	user, err = service.userRepository.FindByEmail(context, input.Login)
	if err != nil {
		user, err = service.userRepository.FindByUsername(context, input.Login)
	}

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Deactivated accounts keep their data but lose access
	if !user.IsActive {
		return nil, apperr.Unauthorized("Account is deactivated")
	}

	// Generate the Access Token carrying role and publisher scope
	accessToken, err := service.tokenProvider.GenerateAccessToken(
		user.ID, user.Username, string(user.Role), user.PublisherID, AccessTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	// Record the login as a best-effort side effect
	now := time.Now()
	_ = service.userRepository.TouchLogin(context, user.ID, now)
	user.LastLoginAt = &now

	return &LoginSession{
		AccessToken: accessToken,
		ExpiresAt:   now.Add(AccessTokenTTL),
		User:        user,
	}, nil
}

/*
Me resolves the full account profile for the authenticated user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *User: Hydrated account entity
  - err: NotFound or storage failures
*/
func (service *Service) Me(context context.Context, userID string) (*User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}
