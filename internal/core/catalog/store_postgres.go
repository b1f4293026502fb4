// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// PostgreSQL implementation of the catalog storage contracts.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows or SQLSTATE codes) are mapped
// through the dberr bridge to avoid leaking storage implementation details.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/doira/internal/platform/apperr"
	"github.com/taibuivan/doira/internal/platform/dberr"
)

// # Publisher Repository

// PostgresPublisherRepository implements the PublisherRepository interface using pgx.
type PostgresPublisherRepository struct {
	pool *pgxpool.Pool
}

// NewPublisherRepository creates a new PostgreSQL implementation of the PublisherRepository.
func NewPublisherRepository(pool *pgxpool.Pool) *PostgresPublisherRepository {
	return &PostgresPublisherRepository{pool: pool}
}

func (repository *PostgresPublisherRepository) Create(context context.Context, publisher *Publisher) error {
	const query = `
		INSERT INTO core.publisher (id, name, slug, doiprefix, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now()
	if publisher.CreatedAt.IsZero() {
		publisher.CreatedAt = now
	}
	publisher.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		publisher.ID,
		publisher.Name,
		publisher.Slug,
		publisher.DOIPrefix,
		publisher.CreatedAt,
		publisher.UpdatedAt,
	)

	if err != nil {
		return dberr.WrapWrite(err, "Publisher", "postgres_publisher_repo_create_failed")
	}

	return nil
}

func (repository *PostgresPublisherRepository) FindByID(context context.Context, id string) (*Publisher, error) {
	const query = `
		SELECT id, name, slug, doiprefix, createdat, updatedat
		FROM core.publisher
		WHERE id = $1 AND deletedat IS NULL`

	publisher := &Publisher{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&publisher.ID,
		&publisher.Name,
		&publisher.Slug,
		&publisher.DOIPrefix,
		&publisher.CreatedAt,
		&publisher.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.WrapRead(err, "Publisher", "postgres_publisher_repo_find_failed")
	}

	return publisher, nil
}

func (repository *PostgresPublisherRepository) List(context context.Context, limit, offset int) ([]*Publisher, int, error) {
	const countQuery = `SELECT COUNT(*) FROM core.publisher WHERE deletedat IS NULL`

	var total int
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_publisher_repo_count_failed: %w", err)
	}

	const query = `
		SELECT id, name, slug, doiprefix, createdat, updatedat
		FROM core.publisher
		WHERE deletedat IS NULL
		ORDER BY name
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_publisher_repo_list_failed: %w", err)
	}
	defer rows.Close()

	publishers := []*Publisher{}
	for rows.Next() {
		publisher := &Publisher{}
		if err := rows.Scan(
			&publisher.ID,
			&publisher.Name,
			&publisher.Slug,
			&publisher.DOIPrefix,
			&publisher.CreatedAt,
			&publisher.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_publisher_repo_scan_failed: %w", err)
		}
		publishers = append(publishers, publisher)
	}

	return publishers, total, rows.Err()
}

// # Publication Repository

// PostgresPublicationRepository implements the PublicationRepository interface using pgx.
type PostgresPublicationRepository struct {
	pool *pgxpool.Pool
}

// NewPublicationRepository creates a new PostgreSQL implementation of the PublicationRepository.
func NewPublicationRepository(pool *pgxpool.Pool) *PostgresPublicationRepository {
	return &PostgresPublicationRepository{pool: pool}
}

const publicationColumns = `id, publisherid, title, slug, publicationtype, language, abbreviation,
		issnprint, issnonline, conferencename, conferenceacronym, conferencelocation,
		conferencenumber, conferencedate, conferencedateend,
		isbnprint, isbnonline, edition, seriestitle, createdat, updatedat`

// scanPublication hydrates a Publication from a pgx row.
func scanPublication(row pgx.Row) (*Publication, error) {
	publication := &Publication{}
	err := row.Scan(
		&publication.ID,
		&publication.PublisherID,
		&publication.Title,
		&publication.Slug,
		&publication.Type,
		&publication.Language,
		&publication.Abbreviation,
		&publication.ISSNPrint,
		&publication.ISSNOnline,
		&publication.ConferenceName,
		&publication.ConferenceAcronym,
		&publication.ConferenceLocation,
		&publication.ConferenceNumber,
		&publication.ConferenceDate,
		&publication.ConferenceDateEnd,
		&publication.ISBNPrint,
		&publication.ISBNOnline,
		&publication.Edition,
		&publication.SeriesTitle,
		&publication.CreatedAt,
		&publication.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return publication, nil
}

func (repository *PostgresPublicationRepository) Create(context context.Context, publication *Publication) error {
	const query = `
		INSERT INTO core.publication (
			id, publisherid, title, slug, publicationtype, language, abbreviation,
			issnprint, issnonline, conferencename, conferenceacronym, conferencelocation,
			conferencenumber, conferencedate, conferencedateend,
			isbnprint, isbnonline, edition, seriestitle, createdat, updatedat
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21
		)`

	now := time.Now()
	if publication.CreatedAt.IsZero() {
		publication.CreatedAt = now
	}
	publication.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		publication.ID,
		publication.PublisherID,
		publication.Title,
		publication.Slug,
		publication.Type,
		publication.Language,
		publication.Abbreviation,
		publication.ISSNPrint,
		publication.ISSNOnline,
		publication.ConferenceName,
		publication.ConferenceAcronym,
		publication.ConferenceLocation,
		publication.ConferenceNumber,
		publication.ConferenceDate,
		publication.ConferenceDateEnd,
		publication.ISBNPrint,
		publication.ISBNOnline,
		publication.Edition,
		publication.SeriesTitle,
		publication.CreatedAt,
		publication.UpdatedAt,
	)

	if err != nil {
		return dberr.WrapWrite(err, "Publication", "postgres_publication_repo_create_failed")
	}

	return nil
}

func (repository *PostgresPublicationRepository) FindByID(context context.Context, id string) (*Publication, error) {
	query := `
		SELECT ` + publicationColumns + `
		FROM core.publication
		WHERE id = $1 AND deletedat IS NULL`

	publication, err := scanPublication(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.WrapRead(err, "Publication", "postgres_publication_repo_find_failed")
	}

	return publication, nil
}

func (repository *PostgresPublicationRepository) ListByPublisher(context context.Context, publisherID string, limit, offset int) ([]*Publication, int, error) {
	const countQuery = `
		SELECT COUNT(*) FROM core.publication
		WHERE publisherid = $1 AND deletedat IS NULL`

	var total int
	if err := repository.pool.QueryRow(context, countQuery, publisherID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_publication_repo_count_failed: %w", err)
	}

	query := `
		SELECT ` + publicationColumns + `
		FROM core.publication
		WHERE publisherid = $1 AND deletedat IS NULL
		ORDER BY title
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, publisherID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_publication_repo_list_failed: %w", err)
	}
	defer rows.Close()

	publications := []*Publication{}
	for rows.Next() {
		publication, err := scanPublication(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_publication_repo_scan_failed: %w", err)
		}
		publications = append(publications, publication)
	}

	return publications, total, rows.Err()
}

// # Issue Repository

// PostgresIssueRepository implements the IssueRepository interface using pgx.
type PostgresIssueRepository struct {
	pool *pgxpool.Pool
}

// NewIssueRepository creates a new PostgreSQL implementation of the IssueRepository.
func NewIssueRepository(pool *pgxpool.Pool) *PostgresIssueRepository {
	return &PostgresIssueRepository{pool: pool}
}

const issueColumns = `id, publicationid, volume, issuenumber, year, title, publicationdate,
		proceedingstitle, publishername, publisherplace,
		generationstatus, crossrefxml, xmlgeneratedat, xsdvalid, xsdvalidatedat,
		createdat, updatedat`

// scanIssue hydrates an Issue from a pgx row.
func scanIssue(row pgx.Row) (*Issue, error) {
	issue := &Issue{}
	err := row.Scan(
		&issue.ID,
		&issue.PublicationID,
		&issue.Volume,
		&issue.IssueNumber,
		&issue.Year,
		&issue.Title,
		&issue.PublicationDate,
		&issue.ProceedingsTitle,
		&issue.PublisherName,
		&issue.PublisherPlace,
		&issue.GenerationStatus,
		&issue.CrossrefXML,
		&issue.XMLGeneratedAt,
		&issue.XSDValid,
		&issue.XSDValidatedAt,
		&issue.CreatedAt,
		&issue.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return issue, nil
}

func (repository *PostgresIssueRepository) Create(context context.Context, issue *Issue) error {
	const query = `
		INSERT INTO core.issue (
			id, publicationid, volume, issuenumber, year, title, publicationdate,
			proceedingstitle, publishername, publisherplace, generationstatus,
			createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	now := time.Now()
	if issue.CreatedAt.IsZero() {
		issue.CreatedAt = now
	}
	issue.UpdatedAt = now
	if issue.GenerationStatus == "" {
		issue.GenerationStatus = StatusIdle
	}

	_, err := repository.pool.Exec(context, query,
		issue.ID,
		issue.PublicationID,
		issue.Volume,
		issue.IssueNumber,
		issue.Year,
		issue.Title,
		issue.PublicationDate,
		issue.ProceedingsTitle,
		issue.PublisherName,
		issue.PublisherPlace,
		issue.GenerationStatus,
		issue.CreatedAt,
		issue.UpdatedAt,
	)

	if err != nil {
		return dberr.WrapWrite(err, "Issue", "postgres_issue_repo_create_failed")
	}

	return nil
}

func (repository *PostgresIssueRepository) FindByID(context context.Context, id string) (*Issue, error) {
	query := `
		SELECT ` + issueColumns + `
		FROM core.issue
		WHERE id = $1 AND deletedat IS NULL`

	issue, err := scanIssue(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.WrapRead(err, "Issue", "postgres_issue_repo_find_failed")
	}

	return issue, nil
}

func (repository *PostgresIssueRepository) ListByPublication(context context.Context, publicationID string, limit, offset int) ([]*Issue, int, error) {
	const countQuery = `
		SELECT COUNT(*) FROM core.issue
		WHERE publicationid = $1 AND deletedat IS NULL`

	var total int
	if err := repository.pool.QueryRow(context, countQuery, publicationID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_issue_repo_count_failed: %w", err)
	}

	query := `
		SELECT ` + issueColumns + `
		FROM core.issue
		WHERE publicationid = $1 AND deletedat IS NULL
		ORDER BY year DESC, volume DESC, issuenumber DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, publicationID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_issue_repo_list_failed: %w", err)
	}
	defer rows.Close()

	issues := []*Issue{}
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_issue_repo_scan_failed: %w", err)
		}
		issues = append(issues, issue)
	}

	return issues, total, rows.Err()
}

// # Article Repository

// PostgresArticleRepository implements the ArticleRepository interface using pgx.
type PostgresArticleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository creates a new PostgreSQL implementation of the ArticleRepository.
func NewArticleRepository(pool *pgxpool.Pool) *PostgresArticleRepository {
	return &PostgresArticleRepository{pool: pool}
}

const articleColumns = `id, issueid, title, subtitle, abstract, doisuffix, language, firstpage, lastpage,
		articlenumber, publicationdate, licenseurl, freetoread, freetoreadstart, position,
		createdat, updatedat`

// scanArticle hydrates an Article (without contributors) from a pgx row.
func scanArticle(row pgx.Row) (*Article, error) {
	article := &Article{}
	err := row.Scan(
		&article.ID,
		&article.IssueID,
		&article.Title,
		&article.Subtitle,
		&article.Abstract,
		&article.DOISuffix,
		&article.Language,
		&article.FirstPage,
		&article.LastPage,
		&article.ArticleNumber,
		&article.PublicationDate,
		&article.LicenseURL,
		&article.FreeToRead,
		&article.FreeToReadStart,
		&article.Position,
		&article.CreatedAt,
		&article.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return article, nil
}

/*
Create persists an article with its authors and affiliations atomically.

Description: Runs a single transaction over three tables so a partially
written contributor list can never appear in a deposit.
*/
func (repository *PostgresArticleRepository) Create(context context.Context, article *Article) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_article_repo_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	now := time.Now()
	if article.CreatedAt.IsZero() {
		article.CreatedAt = now
	}
	article.UpdatedAt = now

	const articleQuery = `
		INSERT INTO core.article (
			id, issueid, title, subtitle, abstract, doisuffix, language, firstpage, lastpage,
			articlenumber, publicationdate, licenseurl, freetoread, freetoreadstart,
			position, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err = transaction.Exec(context, articleQuery,
		article.ID,
		article.IssueID,
		article.Title,
		article.Subtitle,
		article.Abstract,
		article.DOISuffix,
		article.Language,
		article.FirstPage,
		article.LastPage,
		article.ArticleNumber,
		article.PublicationDate,
		article.LicenseURL,
		article.FreeToRead,
		article.FreeToReadStart,
		article.Position,
		article.CreatedAt,
		article.UpdatedAt,
	)
	if err != nil {
		return dberr.WrapWrite(err, "Article", "postgres_article_repo_create_failed")
	}

	const authorQuery = `
		INSERT INTO core.author (
			id, articleid, givenname, surname, suffix, orcid, orcidauthenticated,
			sequence, contributorrole, position, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	const affiliationQuery = `
		INSERT INTO core.affiliation (
			id, authorid, institutionname, department, rorid, position, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, author := range article.Authors {
		if _, err := transaction.Exec(context, authorQuery,
			author.ID,
			article.ID,
			author.GivenName,
			author.Surname,
			author.Suffix,
			author.ORCID,
			author.ORCIDAuthenticated,
			author.Sequence,
			author.ContributorRole,
			author.Position,
			now,
			now,
		); err != nil {
			return fmt.Errorf("postgres_article_repo_author_failed: %w", err)
		}

		for _, affiliation := range author.Affiliations {
			if _, err := transaction.Exec(context, affiliationQuery,
				affiliation.ID,
				author.ID,
				affiliation.InstitutionName,
				affiliation.Department,
				affiliation.RORID,
				affiliation.Position,
				now,
				now,
			); err != nil {
				return fmt.Errorf("postgres_article_repo_affiliation_failed: %w", err)
			}
		}
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_article_repo_commit_failed: %w", err)
	}

	return nil
}

func (repository *PostgresArticleRepository) FindByID(context context.Context, id string) (*Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM core.article
		WHERE id = $1 AND deletedat IS NULL`

	article, err := scanArticle(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.WrapRead(err, "Article", "postgres_article_repo_find_failed")
	}

	authors, err := repository.loadAuthors(context, []string{article.ID})
	if err != nil {
		return nil, err
	}
	article.Authors = authors[article.ID]

	return article, nil
}

func (repository *PostgresArticleRepository) ListByIssue(context context.Context, issueID string) ([]Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM core.article
		WHERE issueid = $1 AND deletedat IS NULL
		ORDER BY position, createdat`

	rows, err := repository.pool.Query(context, query, issueID)
	if err != nil {
		return nil, fmt.Errorf("postgres_article_repo_list_failed: %w", err)
	}
	defer rows.Close()

	articles := []Article{}
	articleIDs := []string{}
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_article_repo_scan_failed: %w", err)
		}
		articles = append(articles, *article)
		articleIDs = append(articleIDs, article.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(articleIDs) == 0 {
		return articles, nil
	}

	// Hydrate contributors in one round-trip per relation.
	authorsByArticle, err := repository.loadAuthors(context, articleIDs)
	if err != nil {
		return nil, err
	}
	for i := range articles {
		articles[i].Authors = authorsByArticle[articles[i].ID]
	}

	return articles, nil
}

func (repository *PostgresArticleRepository) SoftDelete(context context.Context, id string) error {
	const query = `
		UPDATE core.article
		SET deletedat = now(), updatedat = now()
		WHERE id = $1 AND deletedat IS NULL`

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_article_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Article")
	}

	return nil
}

func (repository *PostgresArticleRepository) CountLiveByIssue(context context.Context, issueID string) (int, error) {
	const query = `
		SELECT COUNT(*) FROM core.article
		WHERE issueid = $1 AND deletedat IS NULL`

	var count int
	if err := repository.pool.QueryRow(context, query, issueID).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_article_repo_count_failed: %w", err)
	}

	return count, nil
}

// loadAuthors fetches authors plus affiliations for a set of articles,
// keyed by article ID and ordered by position.
func (repository *PostgresArticleRepository) loadAuthors(context context.Context, articleIDs []string) (map[string][]Author, error) {
	const authorQuery = `
		SELECT id, articleid, givenname, surname, suffix, orcid, orcidauthenticated,
			sequence, contributorrole, position
		FROM core.author
		WHERE articleid = ANY($1)
		ORDER BY articleid, position`

	rows, err := repository.pool.Query(context, authorQuery, articleIDs)
	if err != nil {
		return nil, fmt.Errorf("postgres_article_repo_authors_failed: %w", err)
	}
	defer rows.Close()

	authorsByArticle := map[string][]Author{}
	authorIDs := []string{}
	authorIndex := map[string]*Author{}

	for rows.Next() {
		author := Author{}
		if err := rows.Scan(
			&author.ID,
			&author.ArticleID,
			&author.GivenName,
			&author.Surname,
			&author.Suffix,
			&author.ORCID,
			&author.ORCIDAuthenticated,
			&author.Sequence,
			&author.ContributorRole,
			&author.Position,
		); err != nil {
			return nil, fmt.Errorf("postgres_article_repo_author_scan_failed: %w", err)
		}
		authorsByArticle[author.ArticleID] = append(authorsByArticle[author.ArticleID], author)
		authorIDs = append(authorIDs, author.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(authorIDs) == 0 {
		return authorsByArticle, nil
	}

	// Index authors in-place for affiliation attachment.
	for articleID := range authorsByArticle {
		list := authorsByArticle[articleID]
		for i := range list {
			authorIndex[list[i].ID] = &list[i]
		}
	}

	const affiliationQuery = `
		SELECT id, authorid, institutionname, department, rorid, position
		FROM core.affiliation
		WHERE authorid = ANY($1)
		ORDER BY authorid, position`

	affRows, err := repository.pool.Query(context, affiliationQuery, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("postgres_article_repo_affiliations_failed: %w", err)
	}
	defer affRows.Close()

	for affRows.Next() {
		affiliation := Affiliation{}
		if err := affRows.Scan(
			&affiliation.ID,
			&affiliation.AuthorID,
			&affiliation.InstitutionName,
			&affiliation.Department,
			&affiliation.RORID,
			&affiliation.Position,
		); err != nil {
			return nil, fmt.Errorf("postgres_article_repo_affiliation_scan_failed: %w", err)
		}
		if author, ok := authorIndex[affiliation.AuthorID]; ok {
			author.Affiliations = append(author.Affiliations, affiliation)
		}
	}

	return authorsByArticle, affRows.Err()
}

// # Graph Repository

// PostgresGraphRepository implements the GraphRepository interface using pgx.
type PostgresGraphRepository struct {
	issues       *PostgresIssueRepository
	publications *PostgresPublicationRepository
	publishers   *PostgresPublisherRepository
	articles     *PostgresArticleRepository
}

// NewGraphRepository creates a new PostgreSQL implementation of the GraphRepository.
func NewGraphRepository(pool *pgxpool.Pool) *PostgresGraphRepository {
	return &PostgresGraphRepository{
		issues:       NewIssueRepository(pool),
		publications: NewPublicationRepository(pool),
		publishers:   NewPublisherRepository(pool),
		articles:     NewArticleRepository(pool),
	}
}

/*
FetchIssueGraph loads the complete record chain for a deposit.

Description: Walks issue → publication → publisher and hydrates the ordered
live article list with contributors. Soft-deleted records at any level
surface as NotFound.
*/
func (repository *PostgresGraphRepository) FetchIssueGraph(context context.Context, issueID string) (*IssueGraph, error) {
	issue, err := repository.issues.FindByID(context, issueID)
	if err != nil {
		return nil, err
	}

	publication, err := repository.publications.FindByID(context, issue.PublicationID)
	if err != nil {
		return nil, err
	}

	publisher, err := repository.publishers.FindByID(context, publication.PublisherID)
	if err != nil {
		return nil, err
	}

	articles, err := repository.articles.ListByIssue(context, issue.ID)
	if err != nil {
		return nil, err
	}

	return &IssueGraph{
		Publisher:   publisher,
		Publication: publication,
		Issue:       issue,
		Articles:    articles,
	}, nil
}
