// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package crossref

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/doira/internal/core/catalog"
	"github.com/taibuivan/doira/internal/platform/apperr"
	"github.com/taibuivan/doira/internal/platform/sec"
	"github.com/taibuivan/doira/pkg/pointer"
)

// # Graph Fixtures

func testDepositor() Depositor {
	return Depositor{Name: "Doira Portal", Email: "deposits@doira.app"}
}

func datePtr(year int, month time.Month, day int) *time.Time {
	return pointer.To(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// journalGraph builds the canonical single-article journal issue used
// across the pipeline tests.
func journalGraph() *catalog.IssueGraph {
	return &catalog.IssueGraph{
		Publisher: &catalog.Publisher{
			ID:        "pub-1",
			Name:      "Test Publisher",
			Slug:      "test-publisher",
			DOIPrefix: "10.12345",
		},
		Publication: &catalog.Publication{
			ID:          "jrnl-1",
			PublisherID: "pub-1",
			Title:       "Test Journal",
			Slug:        "test-journal",
			Type:        catalog.TypeJournal,
			Language:    "en",
			ISSNPrint:   "1234-5678",
			ISSNOnline:  "2345-678X",
		},
		Issue: &catalog.Issue{
			ID:               "issue-1",
			PublicationID:    "jrnl-1",
			Volume:           "10",
			IssueNumber:      "2",
			Year:             2026,
			PublicationDate:  datePtr(2026, time.March, 15),
			GenerationStatus: catalog.StatusIdle,
		},
		Articles: []catalog.Article{
			{
				ID:              "art-1",
				IssueID:         "issue-1",
				Title:           "Test Article Title",
				DOISuffix:       "test.2026.001",
				FirstPage:       "1",
				LastPage:        "15",
				PublicationDate: datePtr(2026, time.March, 15),
				Authors: []catalog.Author{
					{
						ID:                 "auth-1",
						ArticleID:          "art-1",
						GivenName:          "John",
						Surname:            "Doe",
						ORCID:              "0000-0001-2345-6789",
						ORCIDAuthenticated: true,
						Sequence:           catalog.SequenceFirst,
						ContributorRole:    "author",
						Affiliations: []catalog.Affiliation{
							{
								ID:              "aff-1",
								AuthorID:        "auth-1",
								InstitutionName: "Test University",
								RORID:           "https://ror.org/12345678",
							},
						},
					},
				},
			},
		},
	}
}

func conferenceGraph() *catalog.IssueGraph {
	graph := journalGraph()
	graph.Publication.Type = catalog.TypeConference
	graph.Publication.ISSNPrint = ""
	graph.Publication.ISSNOnline = ""
	graph.Publication.ConferenceName = "International Testing Symposium"
	graph.Publication.ConferenceAcronym = "ITS"
	graph.Publication.ConferenceLocation = "Novi Sad, Serbia"
	graph.Publication.ConferenceDate = datePtr(2026, time.February, 10)
	graph.Issue.ProceedingsTitle = "Proceedings of ITS 2026"
	graph.Issue.PublisherName = "Symposium Press"
	graph.Issue.PublisherPlace = "Novi Sad"
	return graph
}

func bookGraph() *catalog.IssueGraph {
	graph := journalGraph()
	graph.Publication.Type = catalog.TypeBook
	graph.Publication.ISSNPrint = ""
	graph.Publication.ISSNOnline = ""
	graph.Publication.ISBNPrint = "978-3-16-148410-0"
	return graph
}

// # Claims Fixtures

func adminClaims() *sec.AuthClaims {
	return &sec.AuthClaims{UserID: "admin-1", Username: "admin", Role: string(sec.RoleAdmin)}
}

func editorClaims(publisherID string) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: "editor-1", Username: "editor", Role: string(sec.RoleEditor), PublisherID: publisherID}
}

// # Fake Repositories

type fakeGraphRepo struct {
	graphs map[string]*catalog.IssueGraph
	// deposit, when set, is overlaid onto fetched issues so the graph
	// reflects the persisted generation lifecycle.
	deposit *fakeDepositRepo
	// fetchErr, when set, fails every fetch (simulates transient outages).
	fetchErr error
	fetches  int
}

func newFakeGraphRepo(graphs ...*catalog.IssueGraph) *fakeGraphRepo {
	repo := &fakeGraphRepo{graphs: map[string]*catalog.IssueGraph{}}
	for _, graph := range graphs {
		repo.graphs[graph.Issue.ID] = graph
	}
	return repo
}

func (f *fakeGraphRepo) FetchIssueGraph(_ context.Context, issueID string) (*catalog.IssueGraph, error) {
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	graph, ok := f.graphs[issueID]
	if !ok {
		return nil, apperr.NotFound("Issue")
	}
	copied := *graph
	issue := *graph.Issue
	if f.deposit != nil {
		f.deposit.applyTo(&issue)
	}
	copied.Issue = &issue
	return &copied, nil
}

type savedResult struct {
	document    string
	structure   StructureResult
	generatedAt time.Time
}

type fakeDepositRepo struct {
	mu         sync.Mutex
	status     map[string]catalog.GenerationStatus
	saved      map[string]savedResult
	findings   map[string][]StructureError
	saveErr    error
	failFirst  int // fail this many SaveResult calls before succeeding
	saveCalls  int
	markFailed []string
}

func newFakeDepositRepo() *fakeDepositRepo {
	return &fakeDepositRepo{
		status:   map[string]catalog.GenerationStatus{},
		saved:    map[string]savedResult{},
		findings: map[string][]StructureError{},
	}
}

func (f *fakeDepositRepo) TryMarkGenerating(_ context.Context, issueID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status[issueID] == catalog.StatusGenerating {
		return false, nil
	}
	f.status[issueID] = catalog.StatusGenerating
	return true, nil
}

func (f *fakeDepositRepo) SaveResult(writeContext context.Context, issueID, document string, structure StructureResult, generatedAt time.Time) error {
	if err := writeContext.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls++
	if f.failFirst > 0 {
		f.failFirst--
		return errors.New("transient storage failure")
	}
	if f.saveErr != nil {
		return f.saveErr
	}
	f.status[issueID] = catalog.StatusComplete
	f.saved[issueID] = savedResult{document: document, structure: structure, generatedAt: generatedAt}
	f.findings[issueID] = structure.Errors
	return nil
}

func (f *fakeDepositRepo) MarkFailed(writeContext context.Context, issueID string) error {
	if err := writeContext.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status[issueID] = catalog.StatusFailed
	f.markFailed = append(f.markFailed, issueID)
	return nil
}

func (f *fakeDepositRepo) StructureFindings(_ context.Context, issueID string) ([]StructureError, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findings[issueID], nil
}

// statusOf is the race-safe status accessor for concurrent worker tests.
func (f *fakeDepositRepo) statusOf(issueID string) catalog.GenerationStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status[issueID]
}

// applyTo overlays this repo's view of the generation lifecycle onto an
// issue copy, the way the real store's columns surface on reads.
func (f *fakeDepositRepo) applyTo(issue *catalog.Issue) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status, ok := f.status[issue.ID]; ok {
		issue.GenerationStatus = status
	}
	if saved, ok := f.saved[issue.ID]; ok {
		issue.CrossrefXML = saved.document
		issue.XMLGeneratedAt = &saved.generatedAt
		issue.XSDValid = &saved.structure.Valid
		issue.XSDValidatedAt = &saved.structure.ValidatedAt
	}
}

type fakeExportRepo struct {
	exports   []*Export
	createErr error
}

func (f *fakeExportRepo) Create(_ context.Context, export *Export) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.exports = append(f.exports, export)
	return nil
}

func (f *fakeExportRepo) ListByIssue(_ context.Context, issueID string, _ int) ([]*Export, error) {
	result := []*Export{}
	for i := len(f.exports) - 1; i >= 0; i-- {
		if f.exports[i].IssueID == issueID {
			result = append(result, f.exports[i])
		}
	}
	return result, nil
}

func (f *fakeExportRepo) FindByID(_ context.Context, id string) (*Export, error) {
	for _, export := range f.exports {
		if export.ID == id {
			return export, nil
		}
	}
	return nil, apperr.NotFound("Export")
}

type fakeQueue struct {
	mu         sync.Mutex
	enqueued   []string
	enqueueErr error
}

func (f *fakeQueue) Enqueue(_ context.Context, issueID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.enqueueErr != nil {
		return f.enqueueErr
	}
	f.enqueued = append(f.enqueued, issueID)
	return nil
}

func (f *fakeQueue) Dequeue(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.enqueued) == 0 {
		return "", nil
	}
	issueID := f.enqueued[0]
	f.enqueued = f.enqueued[1:]
	return issueID, nil
}

type fakeIssueRepo struct {
	graphs  *fakeGraphRepo
	deposit *fakeDepositRepo
}

func (f *fakeIssueRepo) Create(_ context.Context, _ *catalog.Issue) error {
	return errors.New("not supported")
}

func (f *fakeIssueRepo) FindByID(_ context.Context, id string) (*catalog.Issue, error) {
	graph, ok := f.graphs.graphs[id]
	if !ok {
		return nil, apperr.NotFound("Issue")
	}
	// Reflect the deposit repo's view of the lifecycle fields.
	issue := *graph.Issue
	f.deposit.applyTo(&issue)
	return &issue, nil
}

func (f *fakeIssueRepo) ListByPublication(_ context.Context, _ string, _, _ int) ([]*catalog.Issue, int, error) {
	return nil, 0, errors.New("not supported")
}

type fakeArticleRepo struct {
	graphs *fakeGraphRepo
}

func (f *fakeArticleRepo) Create(_ context.Context, _ *catalog.Article) error {
	return errors.New("not supported")
}

func (f *fakeArticleRepo) FindByID(_ context.Context, _ string) (*catalog.Article, error) {
	return nil, errors.New("not supported")
}

func (f *fakeArticleRepo) ListByIssue(_ context.Context, issueID string) ([]catalog.Article, error) {
	graph, ok := f.graphs.graphs[issueID]
	if !ok {
		return nil, apperr.NotFound("Issue")
	}
	return graph.Articles, nil
}

func (f *fakeArticleRepo) SoftDelete(_ context.Context, _ string) error {
	return errors.New("not supported")
}

func (f *fakeArticleRepo) CountLiveByIssue(_ context.Context, issueID string) (int, error) {
	graph, ok := f.graphs.graphs[issueID]
	if !ok {
		return 0, apperr.NotFound("Issue")
	}
	return len(graph.Articles), nil
}

// # Service Fixture

type depositFixture struct {
	service  *Service
	graphs   *fakeGraphRepo
	deposits *fakeDepositRepo
	exports  *fakeExportRepo
	queue    *fakeQueue
}

func newDepositFixture(graphs ...*catalog.IssueGraph) *depositFixture {
	graphRepo := newFakeGraphRepo(graphs...)
	depositRepo := newFakeDepositRepo()
	graphRepo.deposit = depositRepo
	exportRepo := &fakeExportRepo{}
	queue := &fakeQueue{}

	service := NewService(
		graphRepo,
		&fakeIssueRepo{graphs: graphRepo, deposit: depositRepo},
		&fakeArticleRepo{graphs: graphRepo},
		depositRepo,
		exportRepo,
		queue,
		NewRenderer(),
		testDepositor(),
		slog.New(slog.DiscardHandler),
	)

	return &depositFixture{
		service:  service,
		graphs:   graphRepo,
		deposits: depositRepo,
		exports:  exportRepo,
		queue:    queue,
	}
}
