// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// PostgreSQL implementation of the auth storage contracts.
//
// # Architecture
//
// Repositories in this file are strictly separated from domain logic. They
// implement domain-defined interfaces (e.g., [UserRepository]) using the
// [pgxpool.Pool] connection manager.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows or SQLSTATE codes) are mapped
// through the dberr bridge to avoid leaking storage implementation details.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/doira/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

const userColumns = `id, username, email, passwordhash, displayname, role,
		COALESCE(publisherid::text, ''), isactive, lastloginat, createdat, updatedat`

// scanUser hydrates a User from a pgx row.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.Role,
		&user.PublisherID,
		&user.IsActive,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
Create persists a new user record into the users.account table.

Description: Deep-persists account metadata, ensuring timestamps are initialized
if not provided.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, username, email, passwordhash, displayname, role, publisherid, isactive, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::uuid, $8, $9, $10)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.DisplayName,
		user.Role,
		user.PublisherID,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.WrapWrite(err, "User", "postgres_user_repo_create_failed")
	}

	return nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Description: Performs a lookup on the account table, filtering out soft-deleted users.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE email = $1 AND deletedat IS NULL`

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.WrapRead(err, "User", "postgres_user_repo_find_by_email_failed")
	}

	return user, nil
}

/*
FindByUsername retrieves a user record by their unique username.

Description: Standard lookup by username for authentication and profile resolution.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE username = $1 AND deletedat IS NULL`

	user, err := scanUser(repository.pool.QueryRow(context, query, username))
	if err != nil {
		return nil, dberr.WrapRead(err, "User", "postgres_user_repo_find_by_username_failed")
	}

	return user, nil
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution for user accounts.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: Not found or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE id = $1 AND deletedat IS NULL`

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.WrapRead(err, "User", "postgres_user_repo_find_by_id_failed")
	}

	return user, nil
}

/*
TouchLogin records a successful authentication timestamp.

Parameters:
  - context: context.Context
  - userID: string
  - at: time.Time

Returns:
  - error: Persistence failures
*/
func (repository *PostgresUserRepository) TouchLogin(context context.Context, userID string, at time.Time) error {
	const query = `
		UPDATE users.account
		SET lastloginat = $2, updatedat = $2
		WHERE id = $1 AND deletedat IS NULL`

	if _, err := repository.pool.Exec(context, query, userID, at); err != nil {
		return fmt.Errorf("postgres_user_repo_touch_login_failed: %w", err)
	}

	return nil
}
