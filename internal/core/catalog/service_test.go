// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/doira/internal/platform/apperr"
	"github.com/taibuivan/doira/internal/platform/sec"
)

// # Fakes

type fakePublisherRepo struct {
	byID    map[string]*Publisher
	created []*Publisher
}

func newFakePublisherRepo() *fakePublisherRepo {
	return &fakePublisherRepo{byID: map[string]*Publisher{}}
}

func (f *fakePublisherRepo) Create(_ context.Context, publisher *Publisher) error {
	f.byID[publisher.ID] = publisher
	f.created = append(f.created, publisher)
	return nil
}

func (f *fakePublisherRepo) FindByID(_ context.Context, id string) (*Publisher, error) {
	publisher, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFound("Publisher")
	}
	return publisher, nil
}

func (f *fakePublisherRepo) List(_ context.Context, _, _ int) ([]*Publisher, int, error) {
	result := make([]*Publisher, 0, len(f.byID))
	for _, p := range f.byID {
		result = append(result, p)
	}
	return result, len(result), nil
}

type fakePublicationRepo struct {
	byID    map[string]*Publication
	created []*Publication
}

func newFakePublicationRepo() *fakePublicationRepo {
	return &fakePublicationRepo{byID: map[string]*Publication{}}
}

func (f *fakePublicationRepo) Create(_ context.Context, publication *Publication) error {
	f.byID[publication.ID] = publication
	f.created = append(f.created, publication)
	return nil
}

func (f *fakePublicationRepo) FindByID(_ context.Context, id string) (*Publication, error) {
	publication, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFound("Publication")
	}
	return publication, nil
}

func (f *fakePublicationRepo) ListByPublisher(_ context.Context, publisherID string, _, _ int) ([]*Publication, int, error) {
	var result []*Publication
	for _, p := range f.byID {
		if p.PublisherID == publisherID {
			result = append(result, p)
		}
	}
	return result, len(result), nil
}

type fakeIssueRepo struct {
	byID    map[string]*Issue
	created []*Issue
}

func newFakeIssueRepo() *fakeIssueRepo {
	return &fakeIssueRepo{byID: map[string]*Issue{}}
}

func (f *fakeIssueRepo) Create(_ context.Context, issue *Issue) error {
	f.byID[issue.ID] = issue
	f.created = append(f.created, issue)
	return nil
}

func (f *fakeIssueRepo) FindByID(_ context.Context, id string) (*Issue, error) {
	issue, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFound("Issue")
	}
	return issue, nil
}

func (f *fakeIssueRepo) ListByPublication(_ context.Context, publicationID string, _, _ int) ([]*Issue, int, error) {
	var result []*Issue
	for _, i := range f.byID {
		if i.PublicationID == publicationID {
			result = append(result, i)
		}
	}
	return result, len(result), nil
}

type fakeArticleRepo struct {
	byID    map[string]*Article
	deleted []string
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{byID: map[string]*Article{}}
}

func (f *fakeArticleRepo) Create(_ context.Context, article *Article) error {
	f.byID[article.ID] = article
	return nil
}

func (f *fakeArticleRepo) FindByID(_ context.Context, id string) (*Article, error) {
	article, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFound("Article")
	}
	return article, nil
}

func (f *fakeArticleRepo) ListByIssue(_ context.Context, issueID string) ([]Article, error) {
	var result []Article
	for _, a := range f.byID {
		if a.IssueID == issueID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (f *fakeArticleRepo) SoftDelete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeArticleRepo) CountLiveByIssue(_ context.Context, issueID string) (int, error) {
	count := 0
	for _, a := range f.byID {
		if a.IssueID == issueID {
			count++
		}
	}
	return count, nil
}

// # Helpers

type catalogFixture struct {
	service      *Service
	publishers   *fakePublisherRepo
	publications *fakePublicationRepo
	issues       *fakeIssueRepo
	articles     *fakeArticleRepo
}

func newCatalogFixture() *catalogFixture {
	publishers := newFakePublisherRepo()
	publications := newFakePublicationRepo()
	issues := newFakeIssueRepo()
	articles := newFakeArticleRepo()

	return &catalogFixture{
		service:      NewService(publishers, publications, issues, articles, slog.New(slog.DiscardHandler)),
		publishers:   publishers,
		publications: publications,
		issues:       issues,
		articles:     articles,
	}
}

func adminClaims() *sec.AuthClaims {
	return &sec.AuthClaims{UserID: "admin-1", Username: "admin", Role: string(sec.RoleAdmin)}
}

func editorClaims(publisherID string) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: "editor-1", Username: "editor", Role: string(sec.RoleEditor), PublisherID: publisherID}
}

func memberClaims() *sec.AuthClaims {
	return &sec.AuthClaims{UserID: "member-1", Username: "member", Role: string(sec.RoleMember)}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected AppError, got %T", err)
	assert.Equal(t, code, appError.Code)
}

// # Access Control Tests

func TestCanManagePublisher(t *testing.T) {
	tests := []struct {
		name        string
		claims      *sec.AuthClaims
		publisherID string
		want        bool
	}{
		{"admin manages any publisher", adminClaims(), "pub-1", true},
		{"editor manages own publisher", editorClaims("pub-1"), "pub-1", true},
		{"editor cannot manage foreign publisher", editorClaims("pub-2"), "pub-1", false},
		{"member never manages", memberClaims(), "pub-1", false},
		{"anonymous never manages", nil, "pub-1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanManagePublisher(tt.claims, tt.publisherID))
		})
	}
}

// # Publisher Tests

func TestCreatePublisher(t *testing.T) {
	t.Run("admin creates publisher with generated slug", func(t *testing.T) {
		fixture := newCatalogFixture()

		publisher := &Publisher{Name: "Acta Astronomica Press", DOIPrefix: "10.5555"}
		err := fixture.service.CreatePublisher(context.Background(), adminClaims(), publisher)

		require.NoError(t, err)
		assert.NotEmpty(t, publisher.ID)
		assert.Equal(t, "acta-astronomica-press", publisher.Slug)
		require.Len(t, fixture.publishers.created, 1)
	})

	t.Run("editor is rejected", func(t *testing.T) {
		fixture := newCatalogFixture()

		err := fixture.service.CreatePublisher(context.Background(), editorClaims("pub-1"), &Publisher{
			Name: "Press", DOIPrefix: "10.5555",
		})

		assertAppErrorCode(t, err, "FORBIDDEN")
		assert.Empty(t, fixture.publishers.created)
	})

	t.Run("malformed doi prefix fails validation", func(t *testing.T) {
		fixture := newCatalogFixture()

		err := fixture.service.CreatePublisher(context.Background(), adminClaims(), &Publisher{
			Name: "Press", DOIPrefix: "doi:10.x",
		})

		assertAppErrorCode(t, err, "VALIDATION_ERROR")
	})
}

// # Publication Tests

func TestCreatePublication(t *testing.T) {
	seedPublisher := func(fixture *catalogFixture) *Publisher {
		publisher := &Publisher{ID: "pub-1", Name: "Press", DOIPrefix: "10.5555", Slug: "press"}
		fixture.publishers.byID[publisher.ID] = publisher
		return publisher
	}

	t.Run("defaults type and language", func(t *testing.T) {
		fixture := newCatalogFixture()
		seedPublisher(fixture)

		publication := &Publication{PublisherID: "pub-1", Title: "Acta Astronomica"}
		err := fixture.service.CreatePublication(context.Background(), editorClaims("pub-1"), publication)

		require.NoError(t, err)
		assert.Equal(t, TypeJournal, publication.Type)
		assert.Equal(t, "en", publication.Language)
		assert.Equal(t, "acta-astronomica", publication.Slug)
	})

	t.Run("missing parent publisher", func(t *testing.T) {
		fixture := newCatalogFixture()

		err := fixture.service.CreatePublication(context.Background(), adminClaims(), &Publication{
			PublisherID: "missing", Title: "Acta",
		})

		assertAppErrorCode(t, err, "NOT_FOUND")
	})

	t.Run("editor of another publisher is rejected", func(t *testing.T) {
		fixture := newCatalogFixture()
		seedPublisher(fixture)

		err := fixture.service.CreatePublication(context.Background(), editorClaims("pub-other"), &Publication{
			PublisherID: "pub-1", Title: "Acta",
		})

		assertAppErrorCode(t, err, "FORBIDDEN")
	})

	t.Run("invalid issn fails validation", func(t *testing.T) {
		fixture := newCatalogFixture()
		seedPublisher(fixture)

		err := fixture.service.CreatePublication(context.Background(), adminClaims(), &Publication{
			PublisherID: "pub-1", Title: "Acta", ISSNPrint: "12345678",
		})

		assertAppErrorCode(t, err, "VALIDATION_ERROR")
	})
}

// # Issue Tests

func TestCreateIssue(t *testing.T) {
	seedChain := func(fixture *catalogFixture) {
		fixture.publishers.byID["pub-1"] = &Publisher{ID: "pub-1", Name: "Press", DOIPrefix: "10.5555"}
		fixture.publications.byID["jrnl-1"] = &Publication{ID: "jrnl-1", PublisherID: "pub-1", Title: "Acta", Type: TypeJournal}
	}

	t.Run("forces idle generation status", func(t *testing.T) {
		fixture := newCatalogFixture()
		seedChain(fixture)

		issue := &Issue{PublicationID: "jrnl-1", Volume: "12", IssueNumber: "3", Year: 2026, GenerationStatus: StatusComplete}
		err := fixture.service.CreateIssue(context.Background(), editorClaims("pub-1"), issue)

		require.NoError(t, err)
		assert.Equal(t, StatusIdle, issue.GenerationStatus)
		assert.NotEmpty(t, issue.ID)
	})

	t.Run("implausible year fails validation", func(t *testing.T) {
		fixture := newCatalogFixture()
		seedChain(fixture)

		err := fixture.service.CreateIssue(context.Background(), adminClaims(), &Issue{
			PublicationID: "jrnl-1", Year: 1200,
		})

		assertAppErrorCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("authorization walks to the owning publisher", func(t *testing.T) {
		fixture := newCatalogFixture()
		seedChain(fixture)

		err := fixture.service.CreateIssue(context.Background(), editorClaims("pub-other"), &Issue{
			PublicationID: "jrnl-1", Year: 2026,
		})

		assertAppErrorCode(t, err, "FORBIDDEN")
	})
}

// # Article Tests

func TestCreateArticle(t *testing.T) {
	seedChain := func(fixture *catalogFixture) {
		fixture.publishers.byID["pub-1"] = &Publisher{ID: "pub-1", Name: "Press", DOIPrefix: "10.5555"}
		fixture.publications.byID["jrnl-1"] = &Publication{ID: "jrnl-1", PublisherID: "pub-1", Title: "Acta", Type: TypeJournal}
		fixture.issues.byID["issue-1"] = &Issue{ID: "issue-1", PublicationID: "jrnl-1", Year: 2026}
	}

	t.Run("assigns ids and positions through the contributor chain", func(t *testing.T) {
		fixture := newCatalogFixture()
		seedChain(fixture)

		article := &Article{
			IssueID:   "issue-1",
			Title:     "On the Rotation of Pulsars",
			DOISuffix: "acta.2026.12.3.001",
			Authors: []Author{
				{Surname: "Kowalski", GivenName: "Maria", Affiliations: []Affiliation{
					{InstitutionName: "Warsaw Observatory"},
					{InstitutionName: "CAMK"},
				}},
				{Surname: "Nguyen", GivenName: "Lan"},
			},
		}

		err := fixture.service.CreateArticle(context.Background(), editorClaims("pub-1"), article)
		require.NoError(t, err)

		require.Len(t, article.Authors, 2)
		first, second := article.Authors[0], article.Authors[1]
		assert.Equal(t, 0, first.Position)
		assert.Equal(t, 1, second.Position)
		assert.Equal(t, article.ID, first.ArticleID)
		assert.Equal(t, "author", first.ContributorRole)
		assert.Equal(t, SequenceFirst, first.Sequence)
		assert.Equal(t, SequenceAdditional, second.Sequence)

		require.Len(t, first.Affiliations, 2)
		assert.Equal(t, first.ID, first.Affiliations[0].AuthorID)
		assert.Equal(t, 1, first.Affiliations[1].Position)
	})

	t.Run("missing doi suffix fails validation", func(t *testing.T) {
		fixture := newCatalogFixture()
		seedChain(fixture)

		err := fixture.service.CreateArticle(context.Background(), adminClaims(), &Article{
			IssueID: "issue-1", Title: "Untitled",
		})

		assertAppErrorCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("uppercase contributor role fails validation", func(t *testing.T) {
		fixture := newCatalogFixture()
		seedChain(fixture)

		err := fixture.service.CreateArticle(context.Background(), adminClaims(), &Article{
			IssueID: "issue-1", Title: "Untitled", DOISuffix: "acta.2026.12.3.002",
			Authors: []Author{{Surname: "Kowalski", ContributorRole: "AUTHOR"}},
		})

		assertAppErrorCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("every lowercase contributor role is accepted", func(t *testing.T) {
		for _, role := range ContributorRoles {
			fixture := newCatalogFixture()
			seedChain(fixture)

			err := fixture.service.CreateArticle(context.Background(), adminClaims(), &Article{
				IssueID: "issue-1", Title: "Untitled", DOISuffix: "acta.2026.12.3.002",
				Authors: []Author{{Surname: "Kowalski", ContributorRole: role}},
			})

			require.NoError(t, err, "role %q", role)
		}
	})

	t.Run("first author with additional sequence fails validation", func(t *testing.T) {
		fixture := newCatalogFixture()
		seedChain(fixture)

		err := fixture.service.CreateArticle(context.Background(), adminClaims(), &Article{
			IssueID: "issue-1", Title: "Untitled", DOISuffix: "acta.2026.12.3.002",
			Authors: []Author{{Surname: "Kowalski", Sequence: SequenceAdditional}},
		})

		assertAppErrorCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("unknown sequence value fails validation", func(t *testing.T) {
		fixture := newCatalogFixture()
		seedChain(fixture)

		err := fixture.service.CreateArticle(context.Background(), adminClaims(), &Article{
			IssueID: "issue-1", Title: "Untitled", DOISuffix: "acta.2026.12.3.002",
			Authors: []Author{{Surname: "Kowalski", Sequence: "lead"}},
		})

		assertAppErrorCode(t, err, "VALIDATION_ERROR")
	})
}

func TestDeleteArticle(t *testing.T) {
	t.Run("soft deletes after authorization walk", func(t *testing.T) {
		fixture := newCatalogFixture()
		fixture.publishers.byID["pub-1"] = &Publisher{ID: "pub-1"}
		fixture.publications.byID["jrnl-1"] = &Publication{ID: "jrnl-1", PublisherID: "pub-1"}
		fixture.issues.byID["issue-1"] = &Issue{ID: "issue-1", PublicationID: "jrnl-1"}
		fixture.articles.byID["art-1"] = &Article{ID: "art-1", IssueID: "issue-1"}

		err := fixture.service.DeleteArticle(context.Background(), editorClaims("pub-1"), "art-1")

		require.NoError(t, err)
		assert.Equal(t, []string{"art-1"}, fixture.articles.deleted)
	})

	t.Run("foreign editor is rejected", func(t *testing.T) {
		fixture := newCatalogFixture()
		fixture.publishers.byID["pub-1"] = &Publisher{ID: "pub-1"}
		fixture.publications.byID["jrnl-1"] = &Publication{ID: "jrnl-1", PublisherID: "pub-1"}
		fixture.issues.byID["issue-1"] = &Issue{ID: "issue-1", PublicationID: "jrnl-1"}
		fixture.articles.byID["art-1"] = &Article{ID: "art-1", IssueID: "issue-1"}

		err := fixture.service.DeleteArticle(context.Background(), editorClaims("pub-other"), "art-1")

		assertAppErrorCode(t, err, "FORBIDDEN")
		assert.Empty(t, fixture.articles.deleted)
	})
}
