// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the user identity layer of the portal.

It defines the account entity and the login flow that issues the JWTs
consumed by every protected catalog and deposit endpoint.

# Architecture

This layer is the "Truth" of the system for identity. Entities defined here
have no external dependencies and encapsulate all business rules related to
user identity, including the publisher binding that scopes editors.
*/
package auth

import (
	"time"

	"github.com/taibuivan/doira/internal/platform/sec"
)

// # Domain Entities

// User represents a registered account on the Doira platform.
//
// PublisherID binds editors to a single publisher; deposit and catalog
// write operations outside that publisher are rejected. Admins carry an
// empty PublisherID and act globally.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	DisplayName  string       `json:"display_name"`
	Role         sec.UserRole `json:"role"`
	PublisherID  string       `json:"publisher_id,omitempty"`
	IsActive     bool         `json:"is_active"`
	LastLoginAt  *time.Time   `json:"last_login_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldDisplayName = "display_name"
	FieldLogin       = "login"
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
	FieldExpiresIn   = "expires_in"
	FieldUser        = "user"
)
