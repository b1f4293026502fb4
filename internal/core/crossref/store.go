// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package crossref

import (
	"context"
	"time"
)

// # Deposit State Data Access

// DepositRepository owns the persisted generation lifecycle of an issue:
// the status state machine and the atomically replaced XML/validity fields.
type DepositRepository interface {

	/*
		TryMarkGenerating transitions an issue into the generating state
		under a single check-and-set statement.

		Description: The transition succeeds from any state except
		"generating" itself — a second concurrent generation request must
		observe the guard and back off.

		Parameters:
		  - context: context.Context
		  - issueID: string (UUID)

		Returns:
		  - bool: true when this caller won the transition
		  - error: ErrNotFound if the issue is missing, storage failures
	*/
	TryMarkGenerating(context context.Context, issueID string) (bool, error)

	/*
		SaveResult atomically persists a completed generation: the XML
		document, status=complete, and the structural validity snapshot in
		one update. Prior XML and validity fields are fully replaced.

		Parameters:
		  - context: context.Context
		  - issueID: string (UUID)
		  - document: string (rendered XML)
		  - structure: StructureResult (validity flag, findings, timestamp)
		  - generatedAt: time.Time

		Returns:
		  - error: Storage failure
	*/
	SaveResult(context context.Context, issueID, document string, structure StructureResult, generatedAt time.Time) error

	/*
		MarkFailed forces the issue's generation status to failed. Used by
		every cleanup path, including panic recovery and retry exhaustion.

		Parameters:
		  - context: context.Context
		  - issueID: string (UUID)

		Returns:
		  - error: Storage failure
	*/
	MarkFailed(context context.Context, issueID string) error

	/*
		StructureFindings returns the structural findings stored with the
		issue's last generation, empty when none were recorded.

		Parameters:
		  - context: context.Context
		  - issueID: string (UUID)

		Returns:
		  - []StructureError: Findings from the persisted snapshot
		  - error: ErrNotFound if the issue is missing
	*/
	StructureFindings(context context.Context, issueID string) ([]StructureError, error)
}

// # Export Ledger Data Access

// ExportRepository is the append-only download ledger. Records are created,
// listed, and fetched — never updated or deleted.
type ExportRepository interface {

	/*
		Create appends an immutable export snapshot.

		Parameters:
		  - context: context.Context
		  - export: *Export

		Returns:
		  - error: Storage failure (the caller must fail the download too)
	*/
	Create(context context.Context, export *Export) error

	/*
		ListByIssue returns an issue's exports newest-first.

		Parameters:
		  - context: context.Context
		  - issueID: string (UUID)
		  - limit: int (0 for the repository default)

		Returns:
		  - []*Export: Snapshots without XML content hydrated
		  - error: Storage failures
	*/
	ListByIssue(context context.Context, issueID string, limit int) ([]*Export, error)

	/*
		FindByID returns one export with its XML snapshot hydrated.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Export: Full snapshot including content bytes
		  - error: ErrNotFound if missing
	*/
	FindByID(context context.Context, id string) (*Export, error)
}

// # Deferred Queue

// Queue hands issue identifiers to the deferred generation worker.
type Queue interface {

	/*
		Enqueue pushes an issue identifier onto the generation queue.

		Parameters:
		  - context: context.Context
		  - issueID: string (UUID)

		Returns:
		  - error: Broker failure (the caller must roll back the
		    generating status)
	*/
	Enqueue(context context.Context, issueID string) error

	/*
		Dequeue blocks for the next queued issue identifier, up to the
		configured poll timeout.

		Parameters:
		  - context: context.Context

		Returns:
		  - string: Issue identifier, "" when the poll timed out empty
		  - error: Broker failures (context cancellation included)
	*/
	Dequeue(context context.Context) (string, error)
}
