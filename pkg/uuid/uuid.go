// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered unique identifiers for the platform.

It wraps the standard UUID library to specifically generate Version 7 values,
which are optimized for database performance.

Advantages:

  - Sortable: Naturally ordered by creation time (millisecond precision).
  - Friendly: Prevents index fragmentation in PostgreSQL (B-tree optimal).
  - Compact: 128-bit storage, compatible with standard 'uuid' types.

This is the mandatory ID type for all primary keys in the Doira ecosystem.
*/
package uuid

import (
	"strings"

	"github.com/google/uuid"
)

// # Generators

// New generates a new UUIDv7 string.
func New() string {

	// Create a new version 7 UUID (time-sortable)
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUID: " + err.Error())
	}

	// Convert the UUID to a string
	return id.String()
}

// ShortHex returns the first 8 hex characters of a random (v4) UUID.
//
// Used for compact, human-scannable fragments such as deposit batch
// identifiers, where global uniqueness is provided by an accompanying
// timestamp rather than the fragment alone.
func ShortHex() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
