// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package crossref

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/doira/internal/platform/constants"
)

// # Deferred Generation Worker

// Worker consumes the deferred generation queue and runs bounded-retry
// generation attempts for large issues.
//
// Delivery is at-least-once: every attempt re-fetches and re-validates the
// graph, so a redelivered identifier converges to the same persisted state.
type Worker struct {
	queue   Queue
	service *Service
	logger  *slog.Logger

	// backoff between attempts, overridable in tests.
	backoff time.Duration
}

// NewWorker constructs a deferred generation [Worker].
func NewWorker(queue Queue, service *Service, logger *slog.Logger) *Worker {
	return &Worker{
		queue:   queue,
		service: service,
		logger:  logger,
		backoff: constants.DepositRetryBackoff,
	}
}

/*
Run consumes the queue until the context is cancelled.

Description: Each blocking pop is bounded by the queue poll timeout so
cancellation is observed promptly. Dequeue failures are logged and retried
after a short pause rather than crashing the worker loop.

Parameters:
  - context: context.Context (cancel to stop the worker)
*/
func (worker *Worker) Run(context context.Context) {
	worker.logger.Info("deposit_worker_started")

	for {
		select {
		case <-context.Done():
			worker.logger.Info("deposit_worker_stopped")
			return
		default:
		}

		issueID, err := worker.queue.Dequeue(context)
		if err != nil {
			if context.Err() != nil {
				worker.logger.Info("deposit_worker_stopped")
				return
			}
			worker.logger.Error("deposit_worker_dequeue_failed", slog.String("error", err.Error()))
			time.Sleep(constants.DepositQueuePollTimeout)
			continue
		}
		if issueID == "" {
			continue
		}

		worker.Process(context, issueID)
	}
}

/*
Process runs the bounded-retry attempt loop for one queued issue.

Description: Up to the configured maximum attempts, each under its own
wall-clock timeout. Every attempt re-fetches the graph and re-validates —
rules may have changed since enqueueing; blocking findings at this point
terminate with status failed, since the issue was already committed to
generating. After the final failed attempt the issue is marked failed and
no further attempt occurs until a new explicit generation request.

Parameters:
  - context: context.Context
  - issueID: string (UUID)
*/
func (worker *Worker) Process(parent context.Context, issueID string) {
	for attempt := 1; attempt <= constants.DepositMaxAttempts; attempt++ {
		err := worker.attempt(parent, issueID)
		if err == nil {
			worker.logger.Info("deposit_worker_generation_complete",
				slog.String("issue_id", issueID),
				slog.Int("attempt", attempt),
			)
			return
		}

		worker.logger.Warn("deposit_worker_attempt_failed",
			slog.String("issue_id", issueID),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)

		if attempt < constants.DepositMaxAttempts {
			select {
			case <-parent.Done():
				// Shutdown mid-retry: resolve to failed rather than
				// leaving the issue stuck at generating.
				attempt = constants.DepositMaxAttempts
			case <-time.After(worker.backoff):
			}
		}
	}

	// Detached write: a shutdown-cancelled parent must still resolve the
	// issue to failed instead of stranding it at generating.
	worker.service.markFailedDetached(parent, issueID)

	worker.logger.Error("deposit_worker_retries_exhausted",
		slog.String("issue_id", issueID),
		slog.Int("attempts", constants.DepositMaxAttempts),
	)
}

// attempt performs a single timed generation pass.
func (worker *Worker) attempt(parent context.Context, issueID string) error {
	attemptContext, cancel := context.WithTimeout(parent, constants.DepositAttemptTimeout)
	defer cancel()

	graph, err := worker.service.graphRepo.FetchIssueGraph(attemptContext, issueID)
	if err != nil {
		return err
	}

	if validation := Validate(graph); validation.HasErrors() {
		return &validationBlockedError{issueID: issueID, errors: len(validation.Errors())}
	}

	return worker.service.RunAttempt(attemptContext, graph)
}

// validationBlockedError marks an attempt stopped by re-validation. It is
// retried like any other failure: the metadata may be fixed before the
// next attempt fires.
type validationBlockedError struct {
	issueID string
	errors  int
}

func (e *validationBlockedError) Error() string {
	return fmt.Sprintf("pre-validation reported %d blocking findings for issue %s", e.errors, e.issueID)
}
