// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package crossref

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/doira/internal/core/catalog"
	"github.com/taibuivan/doira/internal/platform/apperr"
	"github.com/taibuivan/doira/internal/platform/constants"
	"github.com/taibuivan/doira/internal/platform/sec"
	"github.com/taibuivan/doira/pkg/uuid"
)

// # Service Layer

// Service orchestrates the deposit pipeline: validate, render, structurally
// validate, persist, and snapshot downloads into the export ledger.
type Service struct {
	graphRepo   catalog.GraphRepository
	issueRepo   catalog.IssueRepository
	articleRepo catalog.ArticleRepository
	depositRepo DepositRepository
	exportRepo  ExportRepository
	queue       Queue
	renderer    *Renderer
	depositor   Depositor
	logger      *slog.Logger
}

// NewService constructs a deposit [Service] with its dependencies.
func NewService(
	graphRepo catalog.GraphRepository,
	issueRepo catalog.IssueRepository,
	articleRepo catalog.ArticleRepository,
	depositRepo DepositRepository,
	exportRepo ExportRepository,
	queue Queue,
	renderer *Renderer,
	depositor Depositor,
	logger *slog.Logger,
) *Service {
	return &Service{
		graphRepo:   graphRepo,
		issueRepo:   issueRepo,
		articleRepo: articleRepo,
		depositRepo: depositRepo,
		exportRepo:  exportRepo,
		queue:       queue,
		renderer:    renderer,
		depositor:   depositor,
		logger:      logger,
	}
}

// requireIssueAccess loads the issue graph and verifies the actor may act
// on its owning publisher. NotFound and Forbidden stay distinct signals.
func (service *Service) requireIssueAccess(context context.Context, claims *sec.AuthClaims, issueID string) (*catalog.IssueGraph, error) {
	graph, err := service.graphRepo.FetchIssueGraph(context, issueID)
	if err != nil {
		return nil, err
	}
	if !catalog.CanManagePublisher(claims, graph.Publisher.ID) {
		return nil, apperr.Forbidden("You do not have access to this publisher")
	}
	return graph, nil
}

// # Pre-Validation

/*
Validation runs the pre-generation check without touching stored state.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims
  - issueID: string (UUID)

Returns:
  - ValidationResult: Ordered findings
  - error: NotFound, Forbidden, or storage errors
*/
func (service *Service) Validation(context context.Context, claims *sec.AuthClaims, issueID string) (ValidationResult, error) {
	graph, err := service.requireIssueAccess(context, claims, issueID)
	if err != nil {
		return ValidationResult{}, err
	}
	return Validate(graph), nil
}

// # Generation

// GenerateOutcome reports how a generation request was handled.
type GenerateOutcome struct {
	// Blocked is set when pre-validation found errors; stored state was
	// not touched and Validation carries the full finding list.
	Blocked bool `json:"blocked"`

	// Deferred is set when the issue was queued for the background worker.
	Deferred bool `json:"deferred"`

	Validation ValidationResult `json:"validation"`

	// Issue carries the refreshed state after a synchronous completion.
	Issue *catalog.Issue `json:"issue,omitempty"`
}

/*
Generate runs the orchestrated deposit pipeline for one issue.

Description: Pre-validation gates everything: blocking findings abort before
any status change. Valid requests transition the issue to generating under a
check-and-set guard (a concurrent request observes Conflict), then either
render synchronously or enqueue for the worker when the live article count
exceeds the synchronous limit. Unexpected failures always resolve the status
to failed, never leaving it stuck at generating.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims
  - issueID: string (UUID)

Returns:
  - *GenerateOutcome: Blocked, deferred, or completed-sync result
  - error: NotFound, Forbidden, Conflict, or pipeline errors
*/
func (service *Service) Generate(context context.Context, claims *sec.AuthClaims, issueID string) (*GenerateOutcome, error) {
	graph, err := service.requireIssueAccess(context, claims, issueID)
	if err != nil {
		return nil, err
	}

	validation := Validate(graph)
	if validation.HasErrors() {
		service.logger.Info("deposit_generation_blocked",
			slog.String("issue_id", issueID),
			slog.Int("error_count", len(validation.Errors())),
		)
		return &GenerateOutcome{Blocked: true, Validation: validation}, nil
	}

	won, err := service.depositRepo.TryMarkGenerating(context, issueID)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, apperr.Conflict("Generation is already in progress for this issue")
	}

	if len(graph.Articles) > constants.DepositSyncArticleLimit {
		if err := service.queue.Enqueue(context, issueID); err != nil {
			// The issue already moved to generating; roll it to failed so
			// it cannot stay stuck behind a dead queue.
			service.markFailedDetached(context, issueID)
			return nil, fmt.Errorf("deposit_enqueue_failed: %w", err)
		}

		service.logger.Info("deposit_generation_deferred",
			slog.String("issue_id", issueID),
			slog.Int("article_count", len(graph.Articles)),
		)
		return &GenerateOutcome{Deferred: true, Validation: validation}, nil
	}

	if err := service.RunAttempt(context, graph); err != nil {
		service.markFailedDetached(context, issueID)
		service.logger.Error("deposit_generation_failed",
			slog.String("issue_id", issueID),
			slog.String("error", err.Error()),
		)
		return nil, apperr.Internal(err)
	}

	issue, err := service.issueRepo.FindByID(context, issueID)
	if err != nil {
		return nil, err
	}

	service.logger.Info("deposit_generation_complete",
		slog.String("issue_id", issueID),
		slog.Int("article_count", len(graph.Articles)),
	)

	return &GenerateOutcome{Validation: validation, Issue: issue}, nil
}

// markFailedDetached forces the issue to failed on a context detached from
// the caller's. Cleanup must still land when the triggering context is the
// thing that died — a cancelled request or a shutting-down worker would
// otherwise strand the issue at generating.
func (service *Service) markFailedDetached(parent context.Context, issueID string) {
	cleanup, cancel := context.WithTimeout(context.WithoutCancel(parent), constants.DepositCleanupTimeout)
	defer cancel()

	if err := service.depositRepo.MarkFailed(cleanup, issueID); err != nil {
		service.logger.Error("deposit_mark_failed_error",
			slog.String("issue_id", issueID),
			slog.String("error", err.Error()),
		)
	}
}

/*
RunAttempt executes one render-validate-persist pass for a hydrated graph.

Description: Shared by the synchronous path and the worker. Panics inside
rendering are recovered into ordinary errors so every caller's cleanup path
(MarkFailed) runs. The XML document, completion status, and structural
validity snapshot are persisted in one atomic update.

Parameters:
  - context: context.Context
  - graph: *catalog.IssueGraph

Returns:
  - error: Render, structural-validation marshalling, or persistence failure
*/
func (service *Service) RunAttempt(context context.Context, graph *catalog.IssueGraph) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("deposit_generation_panicked: %v", recovered)
		}
	}()

	now := time.Now()
	depositContext := BuildContext(graph, service.depositor, now)

	document, err := service.renderer.Render(depositContext)
	if err != nil {
		return err
	}

	structure := ValidateStructure(document, time.Now())
	return service.depositRepo.SaveResult(context, graph.Issue.ID, document, structure, now)
}

// # Status & Preview

// DepositStatus is the generation-state view of one issue.
type DepositStatus struct {
	IssueID          string                   `json:"issue_id"`
	GenerationStatus catalog.GenerationStatus `json:"generation_status"`
	HasXML           bool                     `json:"has_xml"`
	XMLGeneratedAt   *time.Time               `json:"xml_generated_at,omitempty"`
	XSDValid         *bool                    `json:"xsd_valid,omitempty"`
	XSDValidatedAt   *time.Time               `json:"xsd_validated_at,omitempty"`
	StructureErrors  []StructureError         `json:"structure_errors"`
	ArticleCount     int                      `json:"article_count"`
}

/*
Status reports the issue's generation lifecycle state, including stored
structural findings and the live article count.
*/
func (service *Service) Status(context context.Context, claims *sec.AuthClaims, issueID string) (*DepositStatus, error) {
	graph, err := service.requireIssueAccess(context, claims, issueID)
	if err != nil {
		return nil, err
	}

	findings, err := service.depositRepo.StructureFindings(context, issueID)
	if err != nil {
		return nil, err
	}

	count, err := service.articleRepo.CountLiveByIssue(context, issueID)
	if err != nil {
		return nil, err
	}

	return &DepositStatus{
		IssueID:          graph.Issue.ID,
		GenerationStatus: graph.Issue.GenerationStatus,
		HasXML:           graph.Issue.CrossrefXML != "",
		XMLGeneratedAt:   graph.Issue.XMLGeneratedAt,
		XSDValid:         graph.Issue.XSDValid,
		XSDValidatedAt:   graph.Issue.XSDValidatedAt,
		StructureErrors:  findings,
		ArticleCount:     count,
	}, nil
}

/*
Preview returns the issue's stored live XML document without recording an
export.
*/
func (service *Service) Preview(context context.Context, claims *sec.AuthClaims, issueID string) (string, error) {
	graph, err := service.requireIssueAccess(context, claims, issueID)
	if err != nil {
		return "", err
	}
	if graph.Issue.CrossrefXML == "" {
		return "", apperr.NotFound("Generated XML")
	}
	return graph.Issue.CrossrefXML, nil
}

// # Downloads & Export History

/*
Download snapshots the issue's live XML into the export ledger and returns
the snapshot for serving as an attachment.

Description: A structurally invalid document is only served when force is
set — the warning gate. The export record is written before the bytes are
released; if the snapshot write fails, the download fails with it. Forced
downloads are recorded like any other, with the true validity flag.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims
  - issueID: string (UUID)
  - force: bool (acknowledge the structural-invalidity warning)

Returns:
  - *Export: Snapshot with filename and content
  - error: NotFound, Forbidden, Conflict (warning gate), storage errors
*/
func (service *Service) Download(context context.Context, claims *sec.AuthClaims, issueID string, force bool) (*Export, error) {
	graph, err := service.requireIssueAccess(context, claims, issueID)
	if err != nil {
		return nil, err
	}
	if graph.Issue.CrossrefXML == "" {
		return nil, apperr.NotFound("Generated XML")
	}

	if !force && graph.Issue.XSDValid != nil && !*graph.Issue.XSDValid {
		return nil, apperr.Conflict("The document failed structural validation; repeat with force=true to download anyway")
	}

	now := time.Now()
	export := &Export{
		ID:               uuid.New(),
		IssueID:          issueID,
		XMLContent:       graph.Issue.CrossrefXML,
		Filename:         BuildFilename(graph.Publication.Title, graph.Issue.Volume, graph.Issue.IssueNumber, now),
		ExportedAt:       now,
		XSDValidAtExport: graph.Issue.XSDValid,
	}
	if claims != nil {
		export.ExportedBy = claims.UserID
	}

	if err := service.exportRepo.Create(context, export); err != nil {
		return nil, err
	}

	service.logger.Info("deposit_exported",
		slog.String("issue_id", issueID),
		slog.String("export_id", export.ID),
		slog.String("filename", export.Filename),
		slog.Bool("forced", force),
	)

	return export, nil
}

/*
ListExports returns the issue's export history, newest first.
*/
func (service *Service) ListExports(context context.Context, claims *sec.AuthClaims, issueID string, limit int) ([]*Export, error) {
	if _, err := service.requireIssueAccess(context, claims, issueID); err != nil {
		return nil, err
	}
	return service.exportRepo.ListByIssue(context, issueID, limit)
}

/*
DownloadExport re-serves a historical snapshot byte-exact — never the
issue's current live XML.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims
  - exportID: string (UUID)

Returns:
  - *Export: Stored snapshot
  - error: NotFound, Forbidden, storage errors
*/
func (service *Service) DownloadExport(context context.Context, claims *sec.AuthClaims, exportID string) (*Export, error) {
	export, err := service.exportRepo.FindByID(context, exportID)
	if err != nil {
		return nil, err
	}

	// Authorization walks through the owning issue's publisher.
	if _, err := service.requireIssueAccess(context, claims, export.IssueID); err != nil {
		return nil, err
	}

	return export, nil
}
