// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package crossref

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/doira/internal/core/catalog"
)

func newTestWorker(fixture *depositFixture) *Worker {
	worker := NewWorker(fixture.queue, fixture.service, slog.New(slog.DiscardHandler))
	worker.backoff = time.Millisecond
	return worker
}

func TestWorkerProcessCompletes(t *testing.T) {
	fixture := newDepositFixture(journalGraph())
	worker := newTestWorker(fixture)

	worker.Process(context.Background(), "issue-1")

	assert.Equal(t, catalog.StatusComplete, fixture.deposits.status["issue-1"])
	assert.Equal(t, 1, fixture.deposits.saveCalls)
}

func TestWorkerRetriesThenFails(t *testing.T) {
	fixture := newDepositFixture(journalGraph())
	fixture.deposits.saveErr = fmt.Errorf("connection reset")
	worker := newTestWorker(fixture)

	worker.Process(context.Background(), "issue-1")

	// Exactly the bounded number of attempts, then terminal failed —
	// never a fourth attempt.
	assert.Equal(t, 3, fixture.deposits.saveCalls)
	assert.Equal(t, catalog.StatusFailed, fixture.deposits.status["issue-1"])
	assert.Equal(t, []string{"issue-1"}, fixture.deposits.markFailed)
}

func TestWorkerShutdownMidRetryResolvesToFailed(t *testing.T) {
	fixture := newDepositFixture(journalGraph())
	worker := newTestWorker(fixture)

	shutdownContext, cancel := context.WithCancel(context.Background())
	cancel()

	worker.Process(shutdownContext, "issue-1")

	// The failed-status write runs detached from the dead context, so the
	// issue resolves to failed instead of stranding at generating.
	assert.Equal(t, catalog.StatusFailed, fixture.deposits.statusOf("issue-1"))
	assert.Equal(t, []string{"issue-1"}, fixture.deposits.markFailed)
}

func TestWorkerRecoversMidRetry(t *testing.T) {
	fixture := newDepositFixture(journalGraph())
	fixture.deposits.failFirst = 2 // outage clears before the final attempt
	worker := newTestWorker(fixture)

	worker.Process(context.Background(), "issue-1")

	assert.Equal(t, catalog.StatusComplete, fixture.deposits.status["issue-1"])
	assert.Equal(t, 3, fixture.deposits.saveCalls)
	assert.Empty(t, fixture.deposits.markFailed)
}

func TestWorkerRevalidatesEachAttempt(t *testing.T) {
	graph := journalGraph()
	graph.Articles[0].Authors = nil // becomes invalid after enqueueing
	fixture := newDepositFixture(graph)
	worker := newTestWorker(fixture)

	worker.Process(context.Background(), "issue-1")

	// Blocking findings stop every attempt before rendering; after the
	// bounded retries the issue resolves to failed.
	assert.Zero(t, fixture.deposits.saveCalls)
	assert.Equal(t, catalog.StatusFailed, fixture.deposits.status["issue-1"])
	assert.Equal(t, 3, fixture.graphs.fetches)
}

func TestWorkerMissingIssueResolvesToFailed(t *testing.T) {
	fixture := newDepositFixture()
	worker := newTestWorker(fixture)

	worker.Process(context.Background(), "missing")

	assert.Equal(t, catalog.StatusFailed, fixture.deposits.status["missing"])
}

func TestWorkerRunDrainsQueue(t *testing.T) {
	fixture := newDepositFixture(journalGraph())
	require.NoError(t, fixture.queue.Enqueue(context.Background(), "issue-1"))
	worker := newTestWorker(fixture)

	runContext, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Run(runContext)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return fixture.deposits.statusOf("issue-1") == catalog.StatusComplete
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
}
