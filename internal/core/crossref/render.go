// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package crossref

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/taibuivan/doira/internal/core/catalog"
)

// # Value Formatting

// EscapeXML replaces the five XML-special characters with named entities.
// The ampersand goes first so already-produced entities are not re-escaped.
func EscapeXML(value string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(value)
}

// ORCIDURL normalizes an ORCID identifier into its canonical URL form.
// Returns "" for missing identifiers.
func ORCIDURL(orcid string) string {
	if orcid == "" {
		return ""
	}
	orcid = strings.TrimPrefix(orcid, "https://orcid.org/")
	orcid = strings.TrimPrefix(orcid, "http://orcid.org/")
	return "https://orcid.org/" + orcid
}

var templateFuncs = template.FuncMap{
	"esc": EscapeXML,
	"year": func(t *time.Time) string {
		return t.Format("2006")
	},
	"month": func(t *time.Time) string {
		return t.Format("01")
	},
	"day": func(t *time.Time) string {
		return t.Format("02")
	},
	"isoDate": func(t *time.Time) string {
		return t.Format("2006-01-02")
	},
}

// # Render Views

// renderView is the template root: the deposit context enriched with the
// derived values templates must not compute themselves.
type renderView struct {
	Head        DepositHead
	Publisher   catalog.Publisher
	Publication catalog.Publication
	Issue       catalog.Issue
	Articles    []articleView

	// ProceedingsTitle resolves issue-level proceedings title with the
	// publication title as fallback; ProceedingsPublisher does the same
	// for the imprint name against the owning publisher.
	ProceedingsTitle     string
	ProceedingsPublisher string
}

type articleView struct {
	catalog.Article
	DOI      string
	Resource string
	Authors  []authorView
}

type authorView struct {
	catalog.Author
	Sequence string
	ORCIDURL string
}

func buildView(depositContext DepositContext) renderView {
	view := renderView{
		Head:                 depositContext.Head,
		Publisher:            depositContext.Publisher,
		Publication:          depositContext.Publication,
		Issue:                depositContext.Issue,
		ProceedingsTitle:     depositContext.Issue.ProceedingsTitle,
		ProceedingsPublisher: depositContext.Issue.PublisherName,
	}
	if view.ProceedingsTitle == "" {
		view.ProceedingsTitle = depositContext.Publication.Title
	}
	if view.ProceedingsPublisher == "" {
		view.ProceedingsPublisher = depositContext.Publisher.Name
	}

	for _, article := range depositContext.Articles {
		doi := depositContext.Publisher.DOIPrefix + "/" + article.DOISuffix
		item := articleView{
			Article:  article,
			DOI:      doi,
			Resource: "https://doi.org/" + doi,
		}

		for i, author := range article.Authors {
			// The stored sequence attribute is authoritative; position
			// fills it in only for drafts that never passed validation.
			sequence := author.Sequence
			if sequence == "" {
				sequence = catalog.SequenceAdditional
				if i == 0 {
					sequence = catalog.SequenceFirst
				}
			}
			item.Authors = append(item.Authors, authorView{
				Author:   author,
				Sequence: sequence,
				ORCIDURL: ORCIDURL(author.ORCID),
			})
		}

		view.Articles = append(view.Articles, item)
	}

	return view
}

// # Renderer

// Renderer turns a deposit context into Crossref deposit XML. Templates are
// parsed once at construction; Render itself never performs I/O.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the three document templates and their shared
// fragments. Panics on a malformed template — a programming error caught
// at startup, not a runtime condition.
func NewRenderer() *Renderer {
	root := template.New("crossref").Funcs(templateFuncs)
	for _, source := range []string{sharedTemplate, journalTemplate, conferenceTemplate, bookTemplate} {
		root = template.Must(root.Parse(source))
	}
	return &Renderer{templates: root}
}

// templateNameFor maps a publication type to its document template.
// OTHER and unknown types alias to the journal shape.
func templateNameFor(publicationType catalog.PublicationType) string {
	switch publicationType {
	case catalog.TypeConference:
		return "conference"
	case catalog.TypeBook:
		return "book"
	default:
		return "journal"
	}
}

/*
Render produces the deposit XML document for a prepared context.

Description: Selects the document template by publication type and executes
it against the derived render view. Rendering never fails on missing
optional data — completeness is the pre-validator's concern — only on
template execution faults.

Parameters:
  - depositContext: DepositContext (from [BuildContext])

Returns:
  - string: Complete XML document, starting with the UTF-8 declaration
  - error: Template execution failure
*/
func (renderer *Renderer) Render(depositContext DepositContext) (string, error) {
	name := templateNameFor(depositContext.Publication.Type)

	var buffer bytes.Buffer
	if err := renderer.templates.ExecuteTemplate(&buffer, name, buildView(depositContext)); err != nil {
		return "", fmt.Errorf("crossref_render_failed: %w", err)
	}

	return strings.TrimRight(buffer.String(), "\n") + "\n", nil
}
