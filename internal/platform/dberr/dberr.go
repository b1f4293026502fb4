// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/doira/internal/platform/apperr"
)

/*
WrapRead inspects a query error and wraps it into a meaningful [apperr.AppError].

Parameters:
  - err: error
  - resource: Resource name used for the not-found message (e.g. "Issue")
  - action: Logging identifier for the failed operation

Returns:
  - error: NotFound for missing rows, wrapped internal error otherwise
*/
func WrapRead(err error, resource, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}
	return fmt.Errorf("%s: %w", action, err)
}

/*
WrapWrite inspects an insert/update error and classifies it by SQLSTATE.

Description: Unique violations become Conflict so duplicate slugs, emails and
DOI suffixes surface as 409 instead of 500. Foreign key violations become
Unprocessable because the referenced parent row is gone or was never created.

Parameters:
  - err: error
  - resource: Resource name used in the conflict message
  - action: Logging identifier for the failed operation

Returns:
  - error: Conflict, Unprocessable or wrapped internal error
*/
func WrapWrite(err error, resource, action string) error {
	if err == nil {
		return nil
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case pgerrcode.UniqueViolation:
			return apperr.Conflict(fmt.Sprintf("%s already exists", resource))
		case pgerrcode.ForeignKeyViolation:
			return apperr.Unprocessable(fmt.Sprintf("%s references a missing record", resource))
		}
	}

	return fmt.Errorf("%s: %w", action, err)
}
