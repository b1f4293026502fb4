// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// PostgreSQL and Redis implementations of the deposit storage contracts.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows or SQLSTATE codes) are mapped
// through the dberr bridge to avoid leaking storage implementation details.
package crossref

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/doira/internal/platform/apperr"
	"github.com/taibuivan/doira/internal/platform/constants"
	"github.com/taibuivan/doira/internal/platform/dberr"
)

// # Deposit Repository

// PostgresDepositRepository implements the DepositRepository interface using pgx.
type PostgresDepositRepository struct {
	pool *pgxpool.Pool
}

// NewDepositRepository creates a new PostgreSQL implementation of the DepositRepository.
func NewDepositRepository(pool *pgxpool.Pool) *PostgresDepositRepository {
	return &PostgresDepositRepository{pool: pool}
}

func (repository *PostgresDepositRepository) TryMarkGenerating(context context.Context, issueID string) (bool, error) {
	// Single check-and-set: the WHERE clause is the concurrency guard.
	const query = `
		UPDATE core.issue
		SET generationstatus = 'generating', updatedat = $2
		WHERE id = $1 AND deletedat IS NULL AND generationstatus <> 'generating'`

	tag, err := repository.pool.Exec(context, query, issueID, time.Now())
	if err != nil {
		return false, fmt.Errorf("postgres_deposit_repo_mark_generating_failed: %w", err)
	}

	if tag.RowsAffected() > 0 {
		return true, nil
	}

	// Distinguish "lost the race" from "no such issue".
	const existsQuery = `SELECT 1 FROM core.issue WHERE id = $1 AND deletedat IS NULL`
	var one int
	if err := repository.pool.QueryRow(context, existsQuery, issueID).Scan(&one); err != nil {
		return false, dberr.WrapRead(err, "Issue", "postgres_deposit_repo_exists_failed")
	}

	return false, nil
}

func (repository *PostgresDepositRepository) SaveResult(context context.Context, issueID, document string, structure StructureResult, generatedAt time.Time) error {
	findings, err := json.Marshal(structure.Errors)
	if err != nil {
		return fmt.Errorf("postgres_deposit_repo_encode_errors_failed: %w", err)
	}
	if structure.Errors == nil {
		findings = []byte("[]")
	}

	// One statement: XML and validity flags are never observable half-updated.
	const query = `
		UPDATE core.issue
		SET crossrefxml = $2,
		    generationstatus = 'complete',
		    xmlgeneratedat = $3,
		    xsdvalid = $4,
		    xsderrors = $5,
		    xsdvalidatedat = $6,
		    updatedat = $7
		WHERE id = $1 AND deletedat IS NULL`

	tag, err := repository.pool.Exec(context, query,
		issueID,
		document,
		generatedAt,
		structure.Valid,
		findings,
		structure.ValidatedAt,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("postgres_deposit_repo_save_result_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Issue")
	}

	return nil
}

func (repository *PostgresDepositRepository) MarkFailed(context context.Context, issueID string) error {
	const query = `
		UPDATE core.issue
		SET generationstatus = 'failed', updatedat = $2
		WHERE id = $1 AND deletedat IS NULL`

	if _, err := repository.pool.Exec(context, query, issueID, time.Now()); err != nil {
		return fmt.Errorf("postgres_deposit_repo_mark_failed_failed: %w", err)
	}

	return nil
}

func (repository *PostgresDepositRepository) StructureFindings(context context.Context, issueID string) ([]StructureError, error) {
	const query = `
		SELECT xsderrors
		FROM core.issue
		WHERE id = $1 AND deletedat IS NULL`

	var raw []byte
	if err := repository.pool.QueryRow(context, query, issueID).Scan(&raw); err != nil {
		return nil, dberr.WrapRead(err, "Issue", "postgres_deposit_repo_findings_failed")
	}

	findings := []StructureError{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &findings); err != nil {
			return nil, fmt.Errorf("postgres_deposit_repo_decode_errors_failed: %w", err)
		}
	}

	return findings, nil
}

// # Export Repository

// defaultExportPageSize caps history listings when the caller passes 0.
const defaultExportPageSize = 20

// PostgresExportRepository implements the ExportRepository interface using pgx.
type PostgresExportRepository struct {
	pool *pgxpool.Pool
}

// NewExportRepository creates a new PostgreSQL implementation of the ExportRepository.
func NewExportRepository(pool *pgxpool.Pool) *PostgresExportRepository {
	return &PostgresExportRepository{pool: pool}
}

func (repository *PostgresExportRepository) Create(context context.Context, export *Export) error {
	const query = `
		INSERT INTO core.crossrefexport (id, issueid, xmlcontent, filename, exportedat, exportedby, xsdvalidatexport)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::uuid, $7)`

	_, err := repository.pool.Exec(context, query,
		export.ID,
		export.IssueID,
		export.XMLContent,
		export.Filename,
		export.ExportedAt,
		export.ExportedBy,
		export.XSDValidAtExport,
	)
	if err != nil {
		return dberr.WrapWrite(err, "Export", "postgres_export_repo_create_failed")
	}

	return nil
}

func (repository *PostgresExportRepository) ListByIssue(context context.Context, issueID string, limit int) ([]*Export, error) {
	if limit <= 0 {
		limit = defaultExportPageSize
	}

	// XML snapshots are excluded from listings; FindByID hydrates them.
	const query = `
		SELECT id, issueid, filename, exportedat, COALESCE(exportedby::text, ''), xsdvalidatexport
		FROM core.crossrefexport
		WHERE issueid = $1
		ORDER BY exportedat DESC
		LIMIT $2`

	rows, err := repository.pool.Query(context, query, issueID, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres_export_repo_list_failed: %w", err)
	}
	defer rows.Close()

	exports := []*Export{}
	for rows.Next() {
		export := &Export{}
		if err := rows.Scan(
			&export.ID,
			&export.IssueID,
			&export.Filename,
			&export.ExportedAt,
			&export.ExportedBy,
			&export.XSDValidAtExport,
		); err != nil {
			return nil, fmt.Errorf("postgres_export_repo_scan_failed: %w", err)
		}
		exports = append(exports, export)
	}

	return exports, rows.Err()
}

func (repository *PostgresExportRepository) FindByID(context context.Context, id string) (*Export, error) {
	const query = `
		SELECT id, issueid, xmlcontent, filename, exportedat, COALESCE(exportedby::text, ''), xsdvalidatexport
		FROM core.crossrefexport
		WHERE id = $1`

	export := &Export{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&export.ID,
		&export.IssueID,
		&export.XMLContent,
		&export.Filename,
		&export.ExportedAt,
		&export.ExportedBy,
		&export.XSDValidAtExport,
	)
	if err != nil {
		return nil, dberr.WrapRead(err, "Export", "postgres_export_repo_find_failed")
	}

	return export, nil
}

// # Redis Queue

// RedisQueue implements the Queue interface over a Redis list. LPUSH plus
// blocking BRPOP gives FIFO delivery with at-least-once semantics.
type RedisQueue struct {
	client *redis.Client
}

// NewRedisQueue creates a Redis-backed deferred generation queue.
func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

func (queue *RedisQueue) Enqueue(context context.Context, issueID string) error {
	if err := queue.client.LPush(context, constants.RedisKeyGenerateQueue, issueID).Err(); err != nil {
		return fmt.Errorf("redis_queue_enqueue_failed: %w", err)
	}
	return nil
}

func (queue *RedisQueue) Dequeue(context context.Context) (string, error) {
	values, err := queue.client.BRPop(context, constants.DepositQueuePollTimeout, constants.RedisKeyGenerateQueue).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis_queue_dequeue_failed: %w", err)
	}

	// BRPOP returns [key, value].
	if len(values) != 2 {
		return "", nil
	}
	return values[1], nil
}
