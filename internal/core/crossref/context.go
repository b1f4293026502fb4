// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package crossref implements the Crossref deposit pipeline.

An issue's record graph is projected into a flat deposit context, gated by
business-rule pre-validation, rendered into a namespaced Crossref 5.4.0 XML
document, structurally validated, and persisted on the issue. Every download
is snapshotted into an append-only export history.

# Architecture

Vertical slice: the metadata adapter in context.go, pre-validation in
prevalidate.go, templates and rendering in template.go / render.go, structural
validation in xsd.go, the export ledger in export.go, data contracts in
store.go with the pgx/redis implementations in store_postgres.go, the
generation orchestrator in service.go, the deferred worker in worker.go, and
the HTTP delivery layer in http.go.
*/
package crossref

import (
	"time"

	"github.com/taibuivan/doira/internal/core/catalog"
	"github.com/taibuivan/doira/pkg/uuid"
)

// # Depositor Identity

// Depositor identifies the organization submitting deposits to Crossref.
// It is injected from platform config; the config layer guarantees the
// documented defaults, so an empty Depositor never reaches this package.
type Depositor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// # Deposit Context

// DepositHead carries the per-deposit identification block rendered into
// the <head> element of every document.
type DepositHead struct {
	BatchID        string `json:"batch_id"`
	Timestamp      string `json:"timestamp"` // 14-digit YYYYMMDDHHMMSS
	DepositorName  string `json:"depositor_name"`
	DepositorEmail string `json:"depositor_email"`
	Registrant     string `json:"registrant"`
}

// DepositContext is the flat, non-cyclic projection of an issue graph that
// the template engine consumes. It holds plain values only — no storage
// handles, no back-references.
type DepositContext struct {
	Head        DepositHead         `json:"head"`
	Publisher   catalog.Publisher   `json:"publisher"`
	Publication catalog.Publication `json:"publication"`
	Issue       catalog.Issue       `json:"issue"`
	Articles    []catalog.Article   `json:"articles"`
}

// # Context Building

// NewBatchID produces a collision-resistant deposit batch identifier of the
// form "{8-hex-chars}_{YYYYMMDDHHMMSS}".
func NewBatchID(now time.Time) string {
	return uuid.ShortHex() + "_" + now.Format("20060102150405")
}

/*
BuildContext projects a fully hydrated issue graph into a [DepositContext].

Description: Pure projection — deterministic for a fixed graph, depositor,
and clock reading, with no I/O side effects. The batch identifier and
timestamp are derived from the supplied time so the orchestrator controls
freshness per generation attempt.

Parameters:
  - graph: *catalog.IssueGraph (publisher, publication, issue, live articles)
  - depositor: Depositor (injected identity)
  - now: time.Time (batch id and head timestamp source)

Returns:
  - DepositContext: Template-ready projection
*/
func BuildContext(graph *catalog.IssueGraph, depositor Depositor, now time.Time) DepositContext {
	return DepositContext{
		Head: DepositHead{
			BatchID:        NewBatchID(now),
			Timestamp:      now.Format("20060102150405"),
			DepositorName:  depositor.Name,
			DepositorEmail: depositor.Email,
			Registrant:     graph.Publisher.Name,
		},
		Publisher:   *graph.Publisher,
		Publication: *graph.Publication,
		Issue:       *graph.Issue,
		Articles:    graph.Articles,
	}
}
