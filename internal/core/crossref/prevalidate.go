// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Business-rule pre-validation of the deposit metadata graph.
//
// Pre-validation is distinct from structural (XSD) validation: it inspects
// the relational records before any XML exists, against the mandatory-field
// rules of the target publication type. Blocking ERROR findings stop
// generation; WARNING findings are surfaced but do not.
package crossref

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/taibuivan/doira/internal/core/catalog"
)

// # Severity & Findings

// ValidationSeverity classifies a pre-validation finding.
type ValidationSeverity string

const (
	// SeverityError blocks XML generation.
	SeverityError ValidationSeverity = "error"

	// SeverityWarning is surfaced but does not block generation.
	SeverityWarning ValidationSeverity = "warning"
)

// ValidationIssue is a single pre-validation finding tied to a field and,
// when applicable, a specific article. FixURL points at the API resource
// holding the offending record so clients can link straight to the fix.
type ValidationIssue struct {
	Severity  ValidationSeverity `json:"severity"`
	Message   string             `json:"message"`
	Field     string             `json:"field"`
	ArticleID string             `json:"article_id,omitempty"`
	FixURL    string             `json:"fix_url,omitempty"`
}

// ValidationResult aggregates findings in discovery order. The zero value
// is a valid, empty result.
type ValidationResult struct {
	Issues []ValidationIssue `json:"issues"`
}

// IsValid reports whether no blocking findings were recorded.
func (r ValidationResult) IsValid() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Errors returns the blocking findings in discovery order.
func (r ValidationResult) Errors() []ValidationIssue {
	return r.filter(SeverityError)
}

// Warnings returns the non-blocking findings in discovery order.
func (r ValidationResult) Warnings() []ValidationIssue {
	return r.filter(SeverityWarning)
}

// HasErrors reports whether at least one blocking finding exists.
func (r ValidationResult) HasErrors() bool {
	return !r.IsValid()
}

// HasWarnings reports whether at least one non-blocking finding exists.
func (r ValidationResult) HasWarnings() bool {
	return len(r.filter(SeverityWarning)) > 0
}

func (r ValidationResult) filter(severity ValidationSeverity) []ValidationIssue {
	var matched []ValidationIssue
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			matched = append(matched, issue)
		}
	}
	return matched
}

// AddError appends a blocking finding.
func (r *ValidationResult) AddError(message, field, articleID, fixURL string) {
	r.Issues = append(r.Issues, ValidationIssue{
		Severity:  SeverityError,
		Message:   message,
		Field:     field,
		ArticleID: articleID,
		FixURL:    fixURL,
	})
}

// AddWarning appends a non-blocking finding.
func (r *ValidationResult) AddWarning(message, field, articleID, fixURL string) {
	r.Issues = append(r.Issues, ValidationIssue{
		Severity:  SeverityWarning,
		Message:   message,
		Field:     field,
		ArticleID: articleID,
		FixURL:    fixURL,
	})
}

// Merge appends another result's findings, preserving order.
func (r *ValidationResult) Merge(other ValidationResult) {
	r.Issues = append(r.Issues, other.Issues...)
}

// # Required-Field Tables

// requiredFieldSet names the mandatory fields of one publication type over
// the four entity scopes.
type requiredFieldSet struct {
	publication []string
	issue       []string
	article     []string
	author      []string
}

// BOOK publications deliberately have no ISBN requirement: a book without
// one deposits with a reasoned <noisbn> element instead.
var requiredFields = map[catalog.PublicationType]requiredFieldSet{
	catalog.TypeJournal: {
		publication: []string{"title", "issn_print", "issn_online"},
		issue:       []string{"volume", "year", "publication_date"},
		article:     []string{"title", "doi_suffix"},
		author:      []string{"surname", "sequence", "contributor_role"},
	},
	catalog.TypeConference: {
		publication: []string{"title", "conference_name"},
		issue:       []string{"year", "publication_date"},
		article:     []string{"title", "doi_suffix"},
		author:      []string{"surname", "sequence", "contributor_role"},
	},
	catalog.TypeBook: {
		publication: []string{"title"},
		issue:       []string{"year"},
		article:     []string{"title", "doi_suffix"},
		author:      []string{"surname", "sequence", "contributor_role"},
	},
}

// requiredFieldsFor resolves the rule table for a publication type.
// Unknown types (including OTHER) fall back to the JOURNAL table.
func requiredFieldsFor(publicationType catalog.PublicationType) requiredFieldSet {
	if fields, ok := requiredFields[publicationType]; ok {
		return fields
	}
	return requiredFields[catalog.TypeJournal]
}

// # Field Extraction

func publicationFieldValue(publication *catalog.Publication, field string) string {
	switch field {
	case "title":
		return publication.Title
	case "issn_print":
		return publication.ISSNPrint
	case "issn_online":
		return publication.ISSNOnline
	case "conference_name":
		return publication.ConferenceName
	}
	return ""
}

func issueFieldValue(issue *catalog.Issue, field string) string {
	switch field {
	case "volume":
		return issue.Volume
	case "year":
		if issue.Year == 0 {
			return ""
		}
		return strconv.Itoa(issue.Year)
	case "publication_date":
		if issue.PublicationDate == nil {
			return ""
		}
		return issue.PublicationDate.Format("2006-01-02")
	}
	return ""
}

func articleFieldValue(article *catalog.Article, field string) string {
	switch field {
	case "title":
		return article.Title
	case "doi_suffix":
		return article.DOISuffix
	}
	return ""
}

func authorFieldValue(author *catalog.Author, field string) string {
	switch field {
	case "surname":
		return author.Surname
	case "sequence":
		return author.Sequence
	case "contributor_role":
		return author.ContributorRole
	}
	return ""
}

// # Fix Links

func publicationFixURL(publication *catalog.Publication) string {
	return "/api/v1/publications/" + publication.ID
}

func issueFixURL(issue *catalog.Issue) string {
	return "/api/v1/issues/" + issue.ID
}

func articleFixURL(article *catalog.Article) string {
	return "/api/v1/articles/" + article.ID
}

// # Validation

/*
Validate inspects the metadata graph against the publication-type-specific
mandatory-field rules and domain policy.

Description: Pure function of the graph — no mutation, no persistence, and
idempotent: repeated calls on an unchanged graph yield identical results in
identical order. Every author of every article is checked against the full
author scope.

Parameters:
  - graph: *catalog.IssueGraph (live articles with contributors hydrated)

Returns:
  - ValidationResult: Ordered findings (errors block generation)
*/
func Validate(graph *catalog.IssueGraph) ValidationResult {
	result := ValidationResult{}
	fields := requiredFieldsFor(graph.Publication.Type)

	result.Merge(validatePublication(graph.Publication, fields.publication))
	result.Merge(validateIssue(graph.Issue, fields.issue))

	// Type-specific policy beyond the plain required-field table.
	switch graph.Publication.Type {
	case catalog.TypeConference:
		result.Merge(validateConferencePolicy(graph.Publication, graph.Issue))
	}

	for i := range graph.Articles {
		result.Merge(validateArticle(&graph.Articles[i], fields))
	}

	return result
}

func validatePublication(publication *catalog.Publication, required []string) ValidationResult {
	result := ValidationResult{}
	for _, field := range required {
		if strings.TrimSpace(publicationFieldValue(publication, field)) == "" {
			result.AddError(
				fmt.Sprintf("Publication is missing required field %q", field),
				field, "", publicationFixURL(publication),
			)
		}
	}
	return result
}

func validateIssue(issue *catalog.Issue, required []string) ValidationResult {
	result := ValidationResult{}
	for _, field := range required {
		if strings.TrimSpace(issueFieldValue(issue, field)) == "" {
			result.AddError(
				fmt.Sprintf("Issue is missing required field %q", field),
				field, "", issueFixURL(issue),
			)
		}
	}
	return result
}

// validateConferencePolicy covers the recommended conference fields: event
// date and location are advisory, the proceedings title must resolve from
// the issue or fall back to the publication title.
func validateConferencePolicy(publication *catalog.Publication, issue *catalog.Issue) ValidationResult {
	result := ValidationResult{}

	if publication.ConferenceDate == nil {
		result.AddWarning("Conference date is missing", "conference_date", "", publicationFixURL(publication))
	}
	if publication.ConferenceLocation == "" {
		result.AddWarning("Conference location is missing", "conference_location", "", publicationFixURL(publication))
	}
	if issue.ProceedingsTitle == "" && publication.Title == "" {
		result.AddError("Proceedings title is missing", "proceedings_title", "", issueFixURL(issue))
	}

	return result
}

func validateArticle(article *catalog.Article, fields requiredFieldSet) ValidationResult {
	result := ValidationResult{}

	for _, field := range fields.article {
		if strings.TrimSpace(articleFieldValue(article, field)) == "" {
			result.AddError(
				fmt.Sprintf("Article %q is missing required field %q", articleLabel(article), field),
				field, article.ID, articleFixURL(article),
			)
		}
	}

	if len(article.Authors) == 0 {
		result.AddError(
			fmt.Sprintf("Article %q has no authors", articleLabel(article)),
			"authors", article.ID, articleFixURL(article),
		)
		return result
	}

	for i := range article.Authors {
		result.Merge(validateAuthor(&article.Authors[i], article, fields.author, i == 0))
	}

	return result
}

func validateAuthor(author *catalog.Author, article *catalog.Article, required []string, isFirst bool) ValidationResult {
	result := ValidationResult{}

	for _, field := range required {
		if strings.TrimSpace(authorFieldValue(author, field)) == "" {
			result.AddError(
				fmt.Sprintf("Author on article %q is missing required field %q", articleLabel(article), field),
				field, article.ID, articleFixURL(article),
			)
		}
	}

	// The lead contributor carries sequence="first" in the rendered
	// document; a stored mismatch would misattribute authorship order.
	if isFirst && author.Sequence != "" && author.Sequence != catalog.SequenceFirst {
		result.AddError(
			fmt.Sprintf("First author on article %q must have sequence %q", articleLabel(article), catalog.SequenceFirst),
			"sequence", article.ID, articleFixURL(article),
		)
	}

	// Given name is recommended for Crossref person_name but not blocking.
	if strings.TrimSpace(author.GivenName) == "" {
		result.AddWarning(
			fmt.Sprintf("Author on article %q has no given name", articleLabel(article)),
			"given_name", article.ID, articleFixURL(article),
		)
	}

	return result
}

// articleLabel prefers the title for human-readable findings, falling back
// to the identifier for untitled drafts.
func articleLabel(article *catalog.Article) string {
	if article.Title != "" {
		return article.Title
	}
	return article.ID
}
