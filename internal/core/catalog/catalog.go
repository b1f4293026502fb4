// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog implements the publishing hierarchy managed by the portal.

It owns the record chain Publisher → Publication → Issue → Article (with
nested Authors and Affiliations) and exposes the read-side issue graph the
Crossref deposit pipeline consumes.

# Architecture

Vertical slice: entities here, data contracts in store.go, the pgx
implementation in store_postgres.go, orchestration in service.go, and the
HTTP delivery layer in http.go.
*/
package catalog

import "time"

// # Publication Types

// PublicationType selects the Crossref deposit shape used for a publication.
type PublicationType string

const (
	TypeJournal    PublicationType = "JOURNAL"
	TypeConference PublicationType = "CONFERENCE"
	TypeBook       PublicationType = "BOOK"
	TypeOther      PublicationType = "OTHER"
)

// Known reports whether the type is one of the declared constants.
func (t PublicationType) Known() bool {
	switch t {
	case TypeJournal, TypeConference, TypeBook, TypeOther:
		return true
	}
	return false
}

// # Generation States

// GenerationStatus tracks the deposit XML lifecycle of an issue.
type GenerationStatus string

const (
	StatusIdle       GenerationStatus = "idle"
	StatusGenerating GenerationStatus = "generating"
	StatusComplete   GenerationStatus = "complete"
	StatusFailed     GenerationStatus = "failed"
)

// # Domain Entities

// Publisher is the top of the catalog hierarchy and owns a DOI prefix.
type Publisher struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	DOIPrefix string     `json:"doi_prefix"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// Publication is a journal, conference series, or book under a publisher.
//
// Type-specific fields (conference and book blocks) are only meaningful for
// the matching [PublicationType] and stay empty otherwise.
type Publication struct {
	ID          string          `json:"id"`
	PublisherID string          `json:"publisher_id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Type        PublicationType `json:"type"`
	Language    string          `json:"language"`

	// Journal fields
	Abbreviation string `json:"abbreviation,omitempty"`
	ISSNPrint    string `json:"issn_print,omitempty"`
	ISSNOnline   string `json:"issn_online,omitempty"`

	// Conference fields
	ConferenceName     string     `json:"conference_name,omitempty"`
	ConferenceAcronym  string     `json:"conference_acronym,omitempty"`
	ConferenceLocation string     `json:"conference_location,omitempty"`
	ConferenceNumber   string     `json:"conference_number,omitempty"`
	ConferenceDate     *time.Time `json:"conference_date,omitempty"`
	ConferenceDateEnd  *time.Time `json:"conference_date_end,omitempty"`

	// Book fields
	ISBNPrint   string `json:"isbn_print,omitempty"`
	ISBNOnline  string `json:"isbn_online,omitempty"`
	Edition     string `json:"edition,omitempty"`
	SeriesTitle string `json:"series_title,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// Issue is a deposit unit: one issue (or proceedings volume / book release)
// is rendered into exactly one Crossref XML document.
type Issue struct {
	ID              string     `json:"id"`
	PublicationID   string     `json:"publication_id"`
	Volume          string     `json:"volume"`
	IssueNumber     string     `json:"issue_number"`
	Year            int        `json:"year"`
	Title           string     `json:"title,omitempty"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`

	// Proceedings / book imprint fields
	ProceedingsTitle string `json:"proceedings_title,omitempty"`
	PublisherName    string `json:"publisher_name,omitempty"`
	PublisherPlace   string `json:"publisher_place,omitempty"`

	// Deposit lifecycle state
	GenerationStatus GenerationStatus `json:"generation_status"`
	CrossrefXML      string           `json:"-"`
	XMLGeneratedAt   *time.Time       `json:"xml_generated_at,omitempty"`
	XSDValid         *bool            `json:"xsd_valid,omitempty"`
	XSDValidatedAt   *time.Time       `json:"xsd_validated_at,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// Article is a single registrable work inside an issue.
type Article struct {
	ID              string     `json:"id"`
	IssueID         string     `json:"issue_id"`
	Title           string     `json:"title"`
	Subtitle        string     `json:"subtitle,omitempty"`
	Abstract        string     `json:"abstract,omitempty"`
	DOISuffix       string     `json:"doi_suffix"`
	Language        string     `json:"language,omitempty"`
	FirstPage       string     `json:"first_page,omitempty"`
	LastPage        string     `json:"last_page,omitempty"`
	ArticleNumber   string     `json:"article_number,omitempty"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
	LicenseURL      string     `json:"license_url,omitempty"`
	FreeToRead      bool       `json:"free_to_read"`
	FreeToReadStart *time.Time `json:"free_to_read_start,omitempty"`
	Position        int        `json:"position"`

	Authors []Author `json:"authors,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// Contributor sequence attribute values. The lead author of an article
// carries SequenceFirst; everyone else SequenceAdditional.
const (
	SequenceFirst      = "first"
	SequenceAdditional = "additional"
)

// ContributorRoles enumerates the accepted contributor_role values, all
// lowercase as the deposit schema demands.
var ContributorRoles = []string{"author", "editor", "chair", "translator", "reviewer"}

// Author is a contributor on an article, ordered by Position.
type Author struct {
	ID                 string `json:"id"`
	ArticleID          string `json:"article_id"`
	GivenName          string `json:"given_name,omitempty"`
	Surname            string `json:"surname"`
	Suffix             string `json:"suffix,omitempty"`
	ORCID              string `json:"orcid,omitempty"`
	ORCIDAuthenticated bool   `json:"orcid_authenticated"`
	Sequence           string `json:"sequence"`
	ContributorRole    string `json:"contributor_role"`
	Position           int    `json:"position"`

	Affiliations []Affiliation `json:"affiliations,omitempty"`
}

// Affiliation is an institutional binding of an author, ordered by Position.
type Affiliation struct {
	ID              string `json:"id"`
	AuthorID        string `json:"author_id"`
	InstitutionName string `json:"institution_name"`
	Department      string `json:"department,omitempty"`
	RORID           string `json:"ror_id,omitempty"`
	Position        int    `json:"position"`
}

// # Issue Graph

// IssueGraph is the fully hydrated read model of an issue: the complete
// record chain the deposit pipeline needs, fetched in one pass. Articles
// carry their authors and affiliations nested, ordered by position.
type IssueGraph struct {
	Publisher   *Publisher   `json:"publisher"`
	Publication *Publication `json:"publication"`
	Issue       *Issue       `json:"issue"`
	Articles    []Article    `json:"articles"`
}

// # Field Identifiers

const (
	FieldName            = "name"
	FieldTitle           = "title"
	FieldDOIPrefix       = "doi_prefix"
	FieldDOISuffix       = "doi_suffix"
	FieldPublisherID     = "publisher_id"
	FieldPublicationID   = "publication_id"
	FieldIssueID         = "issue_id"
	FieldType            = "type"
	FieldYear            = "year"
	FieldSurname         = "surname"
	FieldSequence        = "sequence"
	FieldContributorRole = "contributor_role"
	FieldInstitution     = "institution_name"
)
