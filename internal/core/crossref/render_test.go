// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package crossref

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/doira/internal/core/catalog"
)

func renderGraph(t *testing.T, graph *catalog.IssueGraph) string {
	t.Helper()
	depositContext := BuildContext(graph, testDepositor(), time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC))
	document, err := NewRenderer().Render(depositContext)
	require.NoError(t, err)
	return document
}

func TestEscapeXML(t *testing.T) {
	assert.Equal(t,
		"Fish &amp; Chips &lt;b&gt; &quot;quoted&quot; O&apos;Brien",
		EscapeXML(`Fish & Chips <b> "quoted" O'Brien`),
	)

	// Ampersand first: entities are not double-escaped at the source.
	assert.Equal(t, "&amp;lt;", EscapeXML("&lt;"))
}

func TestORCIDURL(t *testing.T) {
	assert.Equal(t, "https://orcid.org/0000-0001-2345-6789", ORCIDURL("0000-0001-2345-6789"))
	assert.Equal(t, "https://orcid.org/0000-0001-2345-6789", ORCIDURL("https://orcid.org/0000-0001-2345-6789"))
	assert.Equal(t, "", ORCIDURL(""))
}

func TestRenderJournalDocument(t *testing.T) {
	document := renderGraph(t, journalGraph())

	assert.True(t, strings.HasPrefix(document, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, document, `xmlns="http://www.crossref.org/schema/5.4.0"`)

	// Head block
	assert.Contains(t, document, "<timestamp>20260315120000</timestamp>")
	assert.Contains(t, document, "<depositor_name>Doira Portal</depositor_name>")
	assert.Contains(t, document, "<email_address>deposits@doira.app</email_address>")
	assert.Contains(t, document, "<registrant>Test Publisher</registrant>")

	// Journal shape
	assert.Contains(t, document, "<full_title>Test Journal</full_title>")
	assert.Contains(t, document, `<issn media_type="print">1234-5678</issn>`)
	assert.Contains(t, document, "<volume>10</volume>")
	assert.Contains(t, document, "<issue>2</issue>")

	// Contributors and identifiers (exact forms)
	assert.Contains(t, document, `sequence="first"`)
	assert.Contains(t, document, `contributor_role="author"`)
	assert.Contains(t, document, `<ORCID authenticated="true">https://orcid.org/0000-0001-2345-6789</ORCID>`)
	assert.Contains(t, document, `<institution_id type="ror">https://ror.org/12345678</institution_id>`)
	assert.Contains(t, document, "<doi>10.12345/test.2026.001</doi>")
	assert.Contains(t, document, "<resource>https://doi.org/10.12345/test.2026.001</resource>")
}

func TestRenderContributorSequence(t *testing.T) {
	graph := journalGraph()
	graph.Articles[0].Authors = append(graph.Articles[0].Authors, catalog.Author{
		ID: "auth-2", GivenName: "Jane", Surname: "Roe",
		Sequence: catalog.SequenceAdditional, ContributorRole: "author",
	})

	document := renderGraph(t, graph)

	first := strings.Index(document, `sequence="first"`)
	additional := strings.Index(document, `sequence="additional"`)
	require.Greater(t, first, -1)
	require.Greater(t, additional, -1)
	assert.Less(t, first, additional)

	t.Run("stored sequence wins over position", func(t *testing.T) {
		graph := journalGraph()
		graph.Articles[0].Authors[0].Sequence = catalog.SequenceAdditional

		document := renderGraph(t, graph)

		assert.Contains(t, document, `sequence="additional"`)
		assert.NotContains(t, document, `sequence="first"`)
	})

	t.Run("position fills in a missing sequence", func(t *testing.T) {
		graph := journalGraph()
		graph.Articles[0].Authors[0].Sequence = ""

		document := renderGraph(t, graph)

		assert.Contains(t, document, `sequence="first"`)
	})
}

func TestRenderEscapesFreeText(t *testing.T) {
	graph := journalGraph()
	graph.Publication.Title = `Journal of "A & B" <Studies>`
	graph.Articles[0].Title = "Kowalski's & Sons"
	graph.Articles[0].Authors[0].Affiliations[0].InstitutionName = "R&D <Lab>"

	document := renderGraph(t, graph)

	assert.Contains(t, document, "<full_title>Journal of &quot;A &amp; B&quot; &lt;Studies&gt;</full_title>")
	assert.Contains(t, document, "<title>Kowalski&apos;s &amp; Sons</title>")
	assert.Contains(t, document, "<institution_name>R&amp;D &lt;Lab&gt;</institution_name>")
	assert.NotContains(t, document, "<Studies>")
	assert.NotContains(t, document, "<Lab>")
}

func TestRenderPagesBoundaries(t *testing.T) {
	t.Run("both pages empty omits the pages element", func(t *testing.T) {
		graph := journalGraph()
		graph.Articles[0].FirstPage = ""
		graph.Articles[0].LastPage = ""

		document := renderGraph(t, graph)

		assert.NotContains(t, document, "<pages>")
		assert.NotContains(t, document, "<pages/>")
	})

	t.Run("only first page still renders a pages block", func(t *testing.T) {
		graph := journalGraph()
		graph.Articles[0].FirstPage = "7"
		graph.Articles[0].LastPage = ""

		document := renderGraph(t, graph)

		assert.Contains(t, document, "<pages>")
		assert.Contains(t, document, "<first_page>7</first_page>")
		assert.NotContains(t, document, "<last_page>")
	})
}

func TestRenderOmitsEmptyOptionalElements(t *testing.T) {
	graph := journalGraph()
	graph.Publication.Abbreviation = ""
	graph.Articles[0].Authors[0].ORCID = ""
	graph.Articles[0].Authors[0].Affiliations[0].RORID = ""

	document := renderGraph(t, graph)

	assert.NotContains(t, document, "<abbrev_title>")
	assert.NotContains(t, document, "<ORCID")
	assert.NotContains(t, document, "<institution_id")
	assert.NotContains(t, document, "<subtitle>")
	assert.NotContains(t, document, "<jats:abstract>")
}

func TestRenderSubtitleAndAbstract(t *testing.T) {
	graph := journalGraph()
	graph.Articles[0].Subtitle = "A Replication Study"
	graph.Articles[0].Abstract = "We revisit earlier results on <testing>."

	document := renderGraph(t, graph)

	assert.Contains(t, document, "<subtitle>A Replication Study</subtitle>")
	assert.Contains(t, document, "<jats:p>We revisit earlier results on &lt;testing&gt;.</jats:p>")
}

func TestRenderConferenceDocument(t *testing.T) {
	document := renderGraph(t, conferenceGraph())

	assert.Contains(t, document, "<conference>")
	assert.Contains(t, document, "<conference_name>International Testing Symposium</conference_name>")
	assert.Contains(t, document, "<conference_acronym>ITS</conference_acronym>")
	assert.Contains(t, document, "<proceedings_title>Proceedings of ITS 2026</proceedings_title>")
	assert.Contains(t, document, "<publisher_name>Symposium Press</publisher_name>")
	assert.Contains(t, document, "<publisher_place>Novi Sad</publisher_place>")
	assert.Contains(t, document, "<conference_paper")
	assert.Contains(t, document, "<doi>10.12345/test.2026.001</doi>")
}

func TestRenderBookDocument(t *testing.T) {
	t.Run("with isbn", func(t *testing.T) {
		document := renderGraph(t, bookGraph())

		assert.Contains(t, document, `<book book_type="monograph">`)
		assert.Contains(t, document, `<isbn media_type="print">978-3-16-148410-0</isbn>`)
		assert.NotContains(t, document, "<noisbn")
		assert.Contains(t, document, `<content_item component_type="chapter"`)
	})

	t.Run("empty isbn renders reasoned noisbn", func(t *testing.T) {
		graph := bookGraph()
		graph.Publication.ISBNPrint = ""
		graph.Publication.ISBNOnline = ""

		document := renderGraph(t, graph)

		assert.Contains(t, document, `<noisbn reason="monograph"/>`)
		assert.NotContains(t, document, "<isbn")
	})
}

func TestRenderOtherTypeAliasesToJournal(t *testing.T) {
	graph := journalGraph()
	graph.Publication.Type = catalog.TypeOther

	document := renderGraph(t, graph)

	assert.Contains(t, document, "<journal>")
	assert.Contains(t, document, "<journal_article")
}

func TestRenderedDocumentPassesStructuralValidation(t *testing.T) {
	for _, graph := range []*catalog.IssueGraph{journalGraph(), conferenceGraph(), bookGraph()} {
		document := renderGraph(t, graph)
		result := ValidateStructure(document, time.Now())
		assert.True(t, result.Valid, "structural findings: %+v", result.Errors)
	}
}

func TestBuildContext(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	depositContext := BuildContext(journalGraph(), testDepositor(), now)

	assert.Regexp(t, `^[0-9a-f]{8}_20260315120000$`, depositContext.Head.BatchID)
	assert.Equal(t, "20260315120000", depositContext.Head.Timestamp)
	assert.Equal(t, "Test Publisher", depositContext.Head.Registrant)
	assert.Len(t, depositContext.Articles, 1)
}
