// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import "context"

// # Publisher Data Access

// PublisherRepository defines the data access contract for publishers.
type PublisherRepository interface {

	/*
		Create persists a new publisher to the store.

		Parameters:
		  - context: context.Context
		  - publisher: *Publisher

		Returns:
		  - error: Storage failure
	*/
	Create(context context.Context, publisher *Publisher) error

	/*
		FindByID returns the publisher with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Publisher: Hydrated entity
		  - error: ErrNotFound if missing
	*/
	FindByID(context context.Context, id string) (*Publisher, error)

	/*
		List returns publishers ordered by name.

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []*Publisher: Page of publishers
		  - int: Total publisher count
		  - error: Storage failures
	*/
	List(context context.Context, limit, offset int) ([]*Publisher, int, error)
}

// # Publication Data Access

// PublicationRepository defines the data access contract for publications.
type PublicationRepository interface {

	/*
		Create persists a new publication to the store.

		Parameters:
		  - context: context.Context
		  - publication: *Publication

		Returns:
		  - error: Storage failure
	*/
	Create(context context.Context, publication *Publication) error

	/*
		FindByID returns the publication with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Publication: Hydrated entity
		  - error: ErrNotFound if missing
	*/
	FindByID(context context.Context, id string) (*Publication, error)

	/*
		ListByPublisher returns all publications owned by a publisher.

		Parameters:
		  - context: context.Context
		  - publisherID: string (Owner ID)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Publication: Page of publications
		  - int: Total matching publications
		  - error: Storage failures
	*/
	ListByPublisher(context context.Context, publisherID string, limit, offset int) ([]*Publication, int, error)
}

// # Issue Data Access

// IssueRepository defines the data access contract for issues.
type IssueRepository interface {

	/*
		Create persists a new issue to the store.

		Parameters:
		  - context: context.Context
		  - issue: *Issue

		Returns:
		  - error: Storage failure
	*/
	Create(context context.Context, issue *Issue) error

	/*
		FindByID returns the issue with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Issue: Hydrated entity
		  - error: ErrNotFound if missing
	*/
	FindByID(context context.Context, id string) (*Issue, error)

	/*
		ListByPublication returns all issues of a publication, newest year first.

		Parameters:
		  - context: context.Context
		  - publicationID: string (Owner ID)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Issue: Page of issues
		  - int: Total matching issues
		  - error: Storage failures
	*/
	ListByPublication(context context.Context, publicationID string, limit, offset int) ([]*Issue, int, error)
}

// # Article Data Access

// ArticleRepository defines the data access contract for articles and their
// nested contributor records.
type ArticleRepository interface {

	/*
		Create persists an article together with its authors and affiliations
		in a single transaction.

		Parameters:
		  - context: context.Context
		  - article: *Article (Authors and Affiliations nested)

		Returns:
		  - error: Storage failure
	*/
	Create(context context.Context, article *Article) error

	/*
		FindByID returns the article with the given ID, authors hydrated.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Article: Hydrated entity
		  - error: ErrNotFound if missing
	*/
	FindByID(context context.Context, id string) (*Article, error)

	/*
		ListByIssue returns the live articles of an issue ordered by position,
		with authors and affiliations hydrated.

		Parameters:
		  - context: context.Context
		  - issueID: string (Owner ID)

		Returns:
		  - []Article: Ordered article list
		  - error: Storage failures
	*/
	ListByIssue(context context.Context, issueID string) ([]Article, error)

	/*
		SoftDelete marks an article as deleted without physical row removal.
		Soft-deleted articles are excluded from deposits.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - error: Removal failure
	*/
	SoftDelete(context context.Context, id string) error

	/*
		CountLiveByIssue returns the number of non-deleted articles in an issue.

		Parameters:
		  - context: context.Context
		  - issueID: string (Owner ID)

		Returns:
		  - int: Live article count
		  - error: Storage failures
	*/
	CountLiveByIssue(context context.Context, issueID string) (int, error)
}

// # Graph Data Access

// GraphRepository assembles the fully hydrated issue graph consumed by the
// Crossref deposit pipeline.
type GraphRepository interface {

	/*
		FetchIssueGraph loads an issue with its publication, publisher, and
		ordered live articles (authors and affiliations nested).

		Parameters:
		  - context: context.Context
		  - issueID: string (UUID)

		Returns:
		  - *IssueGraph: Complete record chain
		  - error: ErrNotFound if the issue is missing or deleted
	*/
	FetchIssueGraph(context context.Context, issueID string) (*IssueGraph, error)
}
