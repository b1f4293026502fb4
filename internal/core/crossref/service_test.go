// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package crossref

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/doira/internal/core/catalog"
	"github.com/taibuivan/doira/internal/platform/apperr"
	"github.com/taibuivan/doira/pkg/pointer"
)

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected AppError, got %T", err)
	assert.Equal(t, code, appError.Code)
}

// largeJournalGraph returns a graph whose article count exceeds the
// synchronous limit.
func largeJournalGraph(articles int) *catalog.IssueGraph {
	graph := journalGraph()
	template := graph.Articles[0]
	graph.Articles = nil
	for i := 0; i < articles; i++ {
		article := template
		article.ID = fmt.Sprintf("art-%d", i+1)
		article.DOISuffix = fmt.Sprintf("test.2026.%03d", i+1)
		graph.Articles = append(graph.Articles, article)
	}
	return graph
}

func TestGenerateSynchronous(t *testing.T) {
	fixture := newDepositFixture(journalGraph())

	outcome, err := fixture.service.Generate(context.Background(), adminClaims(), "issue-1")

	require.NoError(t, err)
	assert.False(t, outcome.Blocked)
	assert.False(t, outcome.Deferred)
	require.NotNil(t, outcome.Issue)
	assert.Equal(t, catalog.StatusComplete, outcome.Issue.GenerationStatus)

	saved := fixture.deposits.saved["issue-1"]
	assert.Contains(t, saved.document, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.True(t, saved.structure.Valid)
	assert.Empty(t, fixture.queue.enqueued)
}

func TestGenerateBlockedByValidation(t *testing.T) {
	graph := journalGraph()
	graph.Articles[0].Authors = nil
	fixture := newDepositFixture(graph)

	outcome, err := fixture.service.Generate(context.Background(), adminClaims(), "issue-1")

	require.NoError(t, err)
	assert.True(t, outcome.Blocked)
	assert.NotEmpty(t, outcome.Validation.Errors())

	// Stored state untouched: no status transition, no XML, no queue entry.
	assert.Empty(t, fixture.deposits.status)
	assert.Empty(t, fixture.deposits.saved)
	assert.Empty(t, fixture.queue.enqueued)
}

func TestGenerateConcurrentRequestConflicts(t *testing.T) {
	fixture := newDepositFixture(journalGraph())
	fixture.deposits.status["issue-1"] = catalog.StatusGenerating

	_, err := fixture.service.Generate(context.Background(), adminClaims(), "issue-1")

	assertAppErrorCode(t, err, "CONFLICT")
}

func TestGenerateDefersLargeIssues(t *testing.T) {
	fixture := newDepositFixture(largeJournalGraph(25))

	outcome, err := fixture.service.Generate(context.Background(), adminClaims(), "issue-1")

	require.NoError(t, err)
	assert.True(t, outcome.Deferred)
	assert.Equal(t, []string{"issue-1"}, fixture.queue.enqueued)
	assert.Equal(t, catalog.StatusGenerating, fixture.deposits.status["issue-1"])
	assert.Empty(t, fixture.deposits.saved)
}

func TestGenerateAtLimitStaysSynchronous(t *testing.T) {
	fixture := newDepositFixture(largeJournalGraph(20))

	outcome, err := fixture.service.Generate(context.Background(), adminClaims(), "issue-1")

	require.NoError(t, err)
	assert.False(t, outcome.Deferred)
	assert.Empty(t, fixture.queue.enqueued)
	assert.Equal(t, catalog.StatusComplete, fixture.deposits.status["issue-1"])
}

func TestGenerateEnqueueFailureResolvesToFailed(t *testing.T) {
	fixture := newDepositFixture(largeJournalGraph(25))
	fixture.queue.enqueueErr = fmt.Errorf("broker down")

	_, err := fixture.service.Generate(context.Background(), adminClaims(), "issue-1")

	require.Error(t, err)
	assert.Equal(t, catalog.StatusFailed, fixture.deposits.status["issue-1"])
}

func TestGeneratePersistFailureResolvesToFailed(t *testing.T) {
	fixture := newDepositFixture(journalGraph())
	fixture.deposits.saveErr = fmt.Errorf("connection reset")

	_, err := fixture.service.Generate(context.Background(), adminClaims(), "issue-1")

	assertAppErrorCode(t, err, "INTERNAL_ERROR")
	assert.Equal(t, catalog.StatusFailed, fixture.deposits.status["issue-1"])
}

func TestGenerateCancelledContextResolvesToFailed(t *testing.T) {
	fixture := newDepositFixture(journalGraph())

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fixture.service.Generate(cancelled, adminClaims(), "issue-1")

	// The persist fails on the dead context, but the failed-status write
	// runs detached and must still land.
	require.Error(t, err)
	assert.Equal(t, catalog.StatusFailed, fixture.deposits.status["issue-1"])
	assert.Equal(t, []string{"issue-1"}, fixture.deposits.markFailed)
}

func TestGenerateAuthorization(t *testing.T) {
	t.Run("editor of the owning publisher may generate", func(t *testing.T) {
		fixture := newDepositFixture(journalGraph())

		_, err := fixture.service.Generate(context.Background(), editorClaims("pub-1"), "issue-1")

		require.NoError(t, err)
	})

	t.Run("foreign editor is rejected", func(t *testing.T) {
		fixture := newDepositFixture(journalGraph())

		_, err := fixture.service.Generate(context.Background(), editorClaims("pub-other"), "issue-1")

		assertAppErrorCode(t, err, "FORBIDDEN")
	})

	t.Run("missing issue yields not found", func(t *testing.T) {
		fixture := newDepositFixture()

		_, err := fixture.service.Generate(context.Background(), adminClaims(), "missing")

		assertAppErrorCode(t, err, "NOT_FOUND")
	})
}

func TestGenerateRegenerationReplacesPriorDocument(t *testing.T) {
	fixture := newDepositFixture(journalGraph())

	_, err := fixture.service.Generate(context.Background(), adminClaims(), "issue-1")
	require.NoError(t, err)
	first := fixture.deposits.saved["issue-1"]

	_, err = fixture.service.Generate(context.Background(), adminClaims(), "issue-1")
	require.NoError(t, err)
	second := fixture.deposits.saved["issue-1"]

	// Fresh batch id each run; the stored document is replaced, not merged.
	assert.NotEqual(t, first.document, second.document)
	assert.Equal(t, 2, fixture.deposits.saveCalls)
}

func TestStatus(t *testing.T) {
	fixture := newDepositFixture(journalGraph())

	_, err := fixture.service.Generate(context.Background(), adminClaims(), "issue-1")
	require.NoError(t, err)

	status, err := fixture.service.Status(context.Background(), adminClaims(), "issue-1")

	require.NoError(t, err)
	assert.Equal(t, catalog.StatusComplete, status.GenerationStatus)
	assert.True(t, status.HasXML)
	require.NotNil(t, status.XSDValid)
	assert.True(t, *status.XSDValid)
	assert.Equal(t, 1, status.ArticleCount)
}

func TestPreview(t *testing.T) {
	t.Run("without generated xml", func(t *testing.T) {
		fixture := newDepositFixture(journalGraph())

		_, err := fixture.service.Preview(context.Background(), adminClaims(), "issue-1")

		assertAppErrorCode(t, err, "NOT_FOUND")
	})

	t.Run("returns the stored document", func(t *testing.T) {
		graph := journalGraph()
		graph.Issue.CrossrefXML = "<doi_batch>stored</doi_batch>"
		fixture := newDepositFixture(graph)

		document, err := fixture.service.Preview(context.Background(), adminClaims(), "issue-1")

		require.NoError(t, err)
		assert.Equal(t, "<doi_batch>stored</doi_batch>", document)
	})
}

func TestDownload(t *testing.T) {
	t.Run("records an export snapshot", func(t *testing.T) {
		graph := journalGraph()
		graph.Issue.CrossrefXML = "<doi_batch>live</doi_batch>"
		graph.Issue.XSDValid = pointer.To(true)
		fixture := newDepositFixture(graph)

		export, err := fixture.service.Download(context.Background(), adminClaims(), "issue-1", false)

		require.NoError(t, err)
		assert.Equal(t, "<doi_batch>live</doi_batch>", export.XMLContent)
		assert.Equal(t, "admin-1", export.ExportedBy)
		require.NotNil(t, export.XSDValidAtExport)
		assert.True(t, *export.XSDValidAtExport)
		assert.Regexp(t, `^test-journal_10_2_\d{8}_\d{6}\.xml$`, export.Filename)
		require.Len(t, fixture.exports.exports, 1)
	})

	t.Run("invalid document is gated behind force", func(t *testing.T) {
		graph := journalGraph()
		graph.Issue.CrossrefXML = "<doi_batch>broken</doi_batch>"
		graph.Issue.XSDValid = pointer.To(false)
		fixture := newDepositFixture(graph)

		_, err := fixture.service.Download(context.Background(), adminClaims(), "issue-1", false)
		assertAppErrorCode(t, err, "CONFLICT")
		assert.Empty(t, fixture.exports.exports)

		export, err := fixture.service.Download(context.Background(), adminClaims(), "issue-1", true)
		require.NoError(t, err)

		// Forced downloads keep the true validity flag in history.
		require.NotNil(t, export.XSDValidAtExport)
		assert.False(t, *export.XSDValidAtExport)
		require.Len(t, fixture.exports.exports, 1)
	})

	t.Run("snapshot write failure fails the download", func(t *testing.T) {
		graph := journalGraph()
		graph.Issue.CrossrefXML = "<doi_batch>live</doi_batch>"
		fixture := newDepositFixture(graph)
		fixture.exports.createErr = fmt.Errorf("disk full")

		_, err := fixture.service.Download(context.Background(), adminClaims(), "issue-1", false)

		require.Error(t, err)
		assert.Empty(t, fixture.exports.exports)
	})

	t.Run("idempotent snapshotting of unchanged xml", func(t *testing.T) {
		graph := journalGraph()
		graph.Issue.CrossrefXML = "<doi_batch>live</doi_batch>"
		fixture := newDepositFixture(graph)

		first, err := fixture.service.Download(context.Background(), adminClaims(), "issue-1", false)
		require.NoError(t, err)
		second, err := fixture.service.Download(context.Background(), adminClaims(), "issue-1", false)
		require.NoError(t, err)

		assert.Equal(t, first.XMLContent, second.XMLContent)
		assert.NotEqual(t, first.ID, second.ID)
	})
}

func TestDownloadExport(t *testing.T) {
	graph := journalGraph()
	graph.Issue.CrossrefXML = "<doi_batch>v1</doi_batch>"
	fixture := newDepositFixture(graph)

	export, err := fixture.service.Download(context.Background(), adminClaims(), "issue-1", false)
	require.NoError(t, err)

	// The live document changes; the snapshot must not.
	graph.Issue.CrossrefXML = "<doi_batch>v2</doi_batch>"

	replay, err := fixture.service.DownloadExport(context.Background(), adminClaims(), export.ID)
	require.NoError(t, err)
	assert.Equal(t, "<doi_batch>v1</doi_batch>", replay.XMLContent)

	t.Run("foreign editor is rejected", func(t *testing.T) {
		_, err := fixture.service.DownloadExport(context.Background(), editorClaims("pub-other"), export.ID)
		assertAppErrorCode(t, err, "FORBIDDEN")
	})

	t.Run("unknown export yields not found", func(t *testing.T) {
		_, err := fixture.service.DownloadExport(context.Background(), adminClaims(), "missing")
		assertAppErrorCode(t, err, "NOT_FOUND")
	})
}

func TestListExportsNewestFirst(t *testing.T) {
	graph := journalGraph()
	graph.Issue.CrossrefXML = "<doi_batch>live</doi_batch>"
	fixture := newDepositFixture(graph)

	first, err := fixture.service.Download(context.Background(), adminClaims(), "issue-1", false)
	require.NoError(t, err)
	second, err := fixture.service.Download(context.Background(), adminClaims(), "issue-1", false)
	require.NoError(t, err)

	exports, err := fixture.service.ListExports(context.Background(), adminClaims(), "issue-1", 10)

	require.NoError(t, err)
	require.Len(t, exports, 2)
	assert.Equal(t, second.ID, exports[0].ID)
	assert.Equal(t, first.ID, exports[1].ID)
}
