// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"log/slog"

	"github.com/taibuivan/doira/internal/platform/apperr"
	"github.com/taibuivan/doira/internal/platform/sec"
	"github.com/taibuivan/doira/internal/platform/validate"
	"github.com/taibuivan/doira/pkg/slug"
	"github.com/taibuivan/doira/pkg/uuid"
)

// # Service Layer

// Service orchestrates the business logic for the catalog hierarchy.
type Service struct {
	publisherRepo   PublisherRepository
	publicationRepo PublicationRepository
	issueRepo       IssueRepository
	articleRepo     ArticleRepository
	logger          *slog.Logger
}

// NewService constructs a new catalog [Service] with its required repositories.
func NewService(
	publisherRepo PublisherRepository,
	publicationRepo PublicationRepository,
	issueRepo IssueRepository,
	articleRepo ArticleRepository,
	logger *slog.Logger,
) *Service {
	return &Service{
		publisherRepo:   publisherRepo,
		publicationRepo: publicationRepo,
		issueRepo:       issueRepo,
		articleRepo:     articleRepo,
		logger:          logger,
	}
}

// # Access Control

/*
CanManagePublisher reports whether the actor may modify records under the
given publisher.

Description: Admins act globally; editors act only within their bound
publisher. Members never hold write access.

Parameters:
  - claims: *sec.AuthClaims (nil for anonymous)
  - publisherID: string

Returns:
  - bool: Authorization decision
*/
func CanManagePublisher(claims *sec.AuthClaims, publisherID string) bool {
	if claims == nil {
		return false
	}
	role := sec.UserRole(claims.Role)
	if role.AtLeast(sec.RoleAdmin) {
		return true
	}
	return role.AtLeast(sec.RoleEditor) && claims.PublisherID == publisherID
}

// requireManage converts a failed permission check into a Forbidden error.
func requireManage(claims *sec.AuthClaims, publisherID string) error {
	if !CanManagePublisher(claims, publisherID) {
		return apperr.Forbidden("You do not have access to this publisher")
	}
	return nil
}

// # Publisher Operations

/*
CreatePublisher validates and persists a new publisher.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims (must be admin)
  - publisher: *Publisher

Returns:
  - error: Validation, authorization, or persistence errors
*/
func (service *Service) CreatePublisher(context context.Context, claims *sec.AuthClaims, publisher *Publisher) error {
	// Only admins may create top-level publishers
	if claims == nil || !sec.UserRole(claims.Role).AtLeast(sec.RoleAdmin) {
		return apperr.Forbidden("Only administrators can create publishers")
	}

	if publisher.ID == "" {
		publisher.ID = uuid.New()
	}
	if publisher.Slug == "" {
		publisher.Slug = slug.From(publisher.Name)
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, publisher.Name).
		DOIPrefix(FieldDOIPrefix, publisher.DOIPrefix)

	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.publisherRepo.Create(context, publisher); err != nil {
		return err
	}

	service.logger.Info("publisher_created",
		slog.String("publisher_id", publisher.ID),
		slog.String("doi_prefix", publisher.DOIPrefix),
	)

	return nil
}

/*
GetPublisher retrieves a publisher by its ID.
*/
func (service *Service) GetPublisher(context context.Context, id string) (*Publisher, error) {
	return service.publisherRepo.FindByID(context, id)
}

/*
ListPublishers returns a page of publishers ordered by name.
*/
func (service *Service) ListPublishers(context context.Context, limit, offset int) ([]*Publisher, int, error) {
	return service.publisherRepo.List(context, limit, offset)
}

// # Publication Operations

/*
CreatePublication validates and persists a new publication.

Description: Verifies the parent publisher exists and that the actor holds
write access to it. Unknown types are stored as given but normalized to
JOURNAL semantics at deposit time.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims
  - publication: *Publication

Returns:
  - error: Validation, authorization, or persistence errors
*/
func (service *Service) CreatePublication(context context.Context, claims *sec.AuthClaims, publication *Publication) error {
	if _, err := service.publisherRepo.FindByID(context, publication.PublisherID); err != nil {
		return err
	}

	if err := requireManage(claims, publication.PublisherID); err != nil {
		return err
	}

	if publication.ID == "" {
		publication.ID = uuid.New()
	}
	if publication.Slug == "" {
		publication.Slug = slug.From(publication.Title)
	}
	if publication.Type == "" {
		publication.Type = TypeJournal
	}
	if publication.Language == "" {
		publication.Language = "en"
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, publication.Title).
		Required(FieldPublisherID, publication.PublisherID).
		OneOf(FieldType, string(publication.Type),
			string(TypeJournal), string(TypeConference), string(TypeBook), string(TypeOther)).
		ISSN("issn_print", publication.ISSNPrint).
		ISSN("issn_online", publication.ISSNOnline)

	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.publicationRepo.Create(context, publication); err != nil {
		return err
	}

	service.logger.Info("publication_created",
		slog.String("publication_id", publication.ID),
		slog.String("publisher_id", publication.PublisherID),
		slog.String("type", string(publication.Type)),
	)

	return nil
}

/*
GetPublication retrieves a publication by its ID.
*/
func (service *Service) GetPublication(context context.Context, id string) (*Publication, error) {
	return service.publicationRepo.FindByID(context, id)
}

/*
ListPublications returns a page of publications owned by a publisher.
*/
func (service *Service) ListPublications(context context.Context, publisherID string, limit, offset int) ([]*Publication, int, error) {
	return service.publicationRepo.ListByPublisher(context, publisherID, limit, offset)
}

// # Issue Operations

/*
CreateIssue validates and persists a new issue under a publication.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims
  - issue: *Issue

Returns:
  - error: Validation, authorization, or persistence errors
*/
func (service *Service) CreateIssue(context context.Context, claims *sec.AuthClaims, issue *Issue) error {
	publication, err := service.publicationRepo.FindByID(context, issue.PublicationID)
	if err != nil {
		return err
	}

	if err := requireManage(claims, publication.PublisherID); err != nil {
		return err
	}

	if issue.ID == "" {
		issue.ID = uuid.New()
	}
	issue.GenerationStatus = StatusIdle

	validator := &validate.Validator{}
	validator.Required(FieldPublicationID, issue.PublicationID).
		Custom(FieldYear, issue.Year < 1500 || issue.Year > 2200, "Must be a plausible publication year")

	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.issueRepo.Create(context, issue); err != nil {
		return err
	}

	service.logger.Info("issue_created",
		slog.String("issue_id", issue.ID),
		slog.String("publication_id", issue.PublicationID),
		slog.Int("year", issue.Year),
	)

	return nil
}

/*
GetIssue retrieves an issue by its ID.
*/
func (service *Service) GetIssue(context context.Context, id string) (*Issue, error) {
	return service.issueRepo.FindByID(context, id)
}

/*
ListIssues returns a page of issues under a publication, newest first.
*/
func (service *Service) ListIssues(context context.Context, publicationID string, limit, offset int) ([]*Issue, int, error) {
	return service.issueRepo.ListByPublication(context, publicationID, limit, offset)
}

// # Article Operations

/*
CreateArticle validates and persists an article with its contributor chain.

Description: Assigns identifiers throughout the nested structure, normalizes
author ordering, and persists everything atomically.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims
  - article: *Article (Authors and Affiliations nested)

Returns:
  - error: Validation, authorization, or persistence errors
*/
func (service *Service) CreateArticle(context context.Context, claims *sec.AuthClaims, article *Article) error {
	issue, err := service.issueRepo.FindByID(context, article.IssueID)
	if err != nil {
		return err
	}

	publication, err := service.publicationRepo.FindByID(context, issue.PublicationID)
	if err != nil {
		return err
	}

	if err := requireManage(claims, publication.PublisherID); err != nil {
		return err
	}

	if article.ID == "" {
		article.ID = uuid.New()
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, article.Title).
		Required(FieldDOISuffix, article.DOISuffix).
		Required(FieldIssueID, article.IssueID)

	for i := range article.Authors {
		author := &article.Authors[i]
		if author.ID == "" {
			author.ID = uuid.New()
		}
		author.ArticleID = article.ID
		author.Position = i
		if author.ContributorRole == "" {
			author.ContributorRole = "author"
		}
		if author.Sequence == "" {
			author.Sequence = SequenceAdditional
			if i == 0 {
				author.Sequence = SequenceFirst
			}
		}

		validator.OneOf(FieldSequence, author.Sequence, SequenceFirst, SequenceAdditional).
			OneOf(FieldContributorRole, author.ContributorRole, ContributorRoles...).
			Custom(FieldSequence, i == 0 && author.Sequence != SequenceFirst,
				`First author must have sequence "first"`)

		for j := range author.Affiliations {
			affiliation := &author.Affiliations[j]
			if affiliation.ID == "" {
				affiliation.ID = uuid.New()
			}
			affiliation.AuthorID = author.ID
			affiliation.Position = j
		}
	}

	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.articleRepo.Create(context, article); err != nil {
		return err
	}

	service.logger.Info("article_created",
		slog.String("article_id", article.ID),
		slog.String("issue_id", article.IssueID),
		slog.Int("author_count", len(article.Authors)),
	)

	return nil
}

/*
ListArticles returns the ordered live articles of an issue, contributors hydrated.
*/
func (service *Service) ListArticles(context context.Context, issueID string) ([]Article, error) {
	return service.articleRepo.ListByIssue(context, issueID)
}

/*
DeleteArticle soft-deletes an article after an authorization walk up the chain.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims
  - articleID: string

Returns:
  - error: NotFound, Forbidden, or persistence errors
*/
func (service *Service) DeleteArticle(context context.Context, claims *sec.AuthClaims, articleID string) error {
	article, err := service.articleRepo.FindByID(context, articleID)
	if err != nil {
		return err
	}

	issue, err := service.issueRepo.FindByID(context, article.IssueID)
	if err != nil {
		return err
	}

	publication, err := service.publicationRepo.FindByID(context, issue.PublicationID)
	if err != nil {
		return err
	}

	if err := requireManage(claims, publication.PublisherID); err != nil {
		return err
	}

	if err := service.articleRepo.SoftDelete(context, articleID); err != nil {
		return err
	}

	service.logger.Info("article_deleted",
		slog.String("article_id", articleID),
		slog.String("issue_id", article.IssueID),
	)

	return nil
}
