// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Deposit document templates, one per publication type.
//
// All free-text values pass through the esc function — including attribute
// values — so hand-built fragments can never smuggle raw markup into the
// document. Optional elements are omitted entirely when no value backs them;
// an empty <pages></pages> or <issn></issn> must never be emitted.
package crossref

// xmlDeclaration is the exact document prologue every deposit starts with.
const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>`

// CrossrefNamespace is the fixed schema namespace of the deposit root.
const CrossrefNamespace = "http://www.crossref.org/schema/5.4.0"

// sharedTemplate holds the sub-shapes common to all three document types:
// the head block and the per-article contributor/pages/access/doi fragments.
const sharedTemplate = `
{{- define "head" -}}
  <head>
    <doi_batch_id>{{esc .Head.BatchID}}</doi_batch_id>
    <timestamp>{{.Head.Timestamp}}</timestamp>
    <depositor>
      <depositor_name>{{esc .Head.DepositorName}}</depositor_name>
      <email_address>{{esc .Head.DepositorEmail}}</email_address>
    </depositor>
    <registrant>{{esc .Head.Registrant}}</registrant>
  </head>
{{- end}}

{{- define "contributors"}}
        <contributors>
{{- range .Authors}}
          <person_name sequence="{{.Sequence}}" contributor_role="{{esc .ContributorRole}}">
{{- if .GivenName}}
            <given_name>{{esc .GivenName}}</given_name>
{{- end}}
            <surname>{{esc .Surname}}</surname>
{{- if .Suffix}}
            <suffix>{{esc .Suffix}}</suffix>
{{- end}}
{{- if .Affiliations}}
            <affiliations>
{{- range .Affiliations}}
              <institution>
                <institution_name>{{esc .InstitutionName}}</institution_name>
{{- if .Department}}
                <institution_department>{{esc .Department}}</institution_department>
{{- end}}
{{- if .RORID}}
                <institution_id type="ror">{{esc .RORID}}</institution_id>
{{- end}}
              </institution>
{{- end}}
            </affiliations>
{{- end}}
{{- if .ORCIDURL}}
            <ORCID authenticated="{{if .ORCIDAuthenticated}}true{{else}}false{{end}}">{{esc .ORCIDURL}}</ORCID>
{{- end}}
          </person_name>
{{- end}}
        </contributors>
{{- end}}

{{- define "work_titles"}}
        <titles>
          <title>{{esc .Title}}</title>
{{- if .Subtitle}}
          <subtitle>{{esc .Subtitle}}</subtitle>
{{- end}}
        </titles>
{{- end}}

{{- define "work_abstract"}}
{{- if .Abstract}}
        <jats:abstract>
          <jats:p>{{esc .Abstract}}</jats:p>
        </jats:abstract>
{{- end}}
{{- end}}

{{- define "article_dates"}}
{{- if .PublicationDate}}
        <publication_date media_type="online">
          <month>{{month .PublicationDate}}</month>
          <day>{{day .PublicationDate}}</day>
          <year>{{year .PublicationDate}}</year>
        </publication_date>
{{- end}}
{{- end}}

{{- define "pages"}}
{{- if or .FirstPage .LastPage}}
        <pages>
{{- if .FirstPage}}
          <first_page>{{esc .FirstPage}}</first_page>
{{- end}}
{{- if .LastPage}}
          <last_page>{{esc .LastPage}}</last_page>
{{- end}}
        </pages>
{{- end}}
{{- if .ArticleNumber}}
        <publisher_item>
          <item_number item_number_type="article_number">{{esc .ArticleNumber}}</item_number>
        </publisher_item>
{{- end}}
{{- end}}

{{- define "access"}}
{{- if or .LicenseURL .FreeToRead}}
        <ai:program name="AccessIndicators">
{{- if .FreeToRead}}
          <ai:free_to_read{{if .FreeToReadStart}} start_date="{{isoDate .FreeToReadStart}}"{{end}}/>
{{- end}}
{{- if .LicenseURL}}
          <ai:license_ref>{{esc .LicenseURL}}</ai:license_ref>
{{- end}}
        </ai:program>
{{- end}}
{{- end}}

{{- define "doi_data"}}
        <doi_data>
          <doi>{{esc .DOI}}</doi>
          <resource>{{esc .Resource}}</resource>
        </doi_data>
{{- end}}`

// journalTemplate renders JOURNAL (and, via fallback, OTHER) deposits.
const journalTemplate = `{{define "journal" -}}
<?xml version="1.0" encoding="UTF-8"?>
<doi_batch xmlns="http://www.crossref.org/schema/5.4.0" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:ai="http://www.crossref.org/AccessIndicators.xsd" xmlns:jats="http://www.ncbi.nlm.nih.gov/JATS1" version="5.4.0" xsi:schemaLocation="http://www.crossref.org/schema/5.4.0 https://www.crossref.org/schemas/crossref5.4.0.xsd">
{{- template "head" .}}
  <body>
    <journal>
      <journal_metadata{{if .Publication.Language}} language="{{esc .Publication.Language}}"{{end}}>
        <full_title>{{esc .Publication.Title}}</full_title>
{{- if .Publication.Abbreviation}}
        <abbrev_title>{{esc .Publication.Abbreviation}}</abbrev_title>
{{- end}}
{{- if .Publication.ISSNPrint}}
        <issn media_type="print">{{esc .Publication.ISSNPrint}}</issn>
{{- end}}
{{- if .Publication.ISSNOnline}}
        <issn media_type="electronic">{{esc .Publication.ISSNOnline}}</issn>
{{- end}}
      </journal_metadata>
      <journal_issue>
{{- if .Issue.PublicationDate}}
        <publication_date media_type="online">
          <month>{{month .Issue.PublicationDate}}</month>
          <day>{{day .Issue.PublicationDate}}</day>
          <year>{{year .Issue.PublicationDate}}</year>
        </publication_date>
{{- end}}
{{- if .Issue.Volume}}
        <journal_volume>
          <volume>{{esc .Issue.Volume}}</volume>
        </journal_volume>
{{- end}}
{{- if .Issue.IssueNumber}}
        <issue>{{esc .Issue.IssueNumber}}</issue>
{{- end}}
      </journal_issue>
{{- range .Articles}}
      <journal_article publication_type="full_text"{{if .Language}} language="{{esc .Language}}"{{end}}>
{{- template "work_titles" .}}
{{- if .Authors}}
{{- template "contributors" .}}
{{- end}}
{{- template "work_abstract" .}}
{{- template "article_dates" .}}
{{- template "pages" .}}
{{- template "access" .}}
{{- template "doi_data" .}}
      </journal_article>
{{- end}}
    </journal>
  </body>
</doi_batch>
{{end}}`

// conferenceTemplate renders CONFERENCE deposits: event metadata, the
// proceedings imprint, then one conference_paper per article.
const conferenceTemplate = `{{define "conference" -}}
<?xml version="1.0" encoding="UTF-8"?>
<doi_batch xmlns="http://www.crossref.org/schema/5.4.0" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:ai="http://www.crossref.org/AccessIndicators.xsd" xmlns:jats="http://www.ncbi.nlm.nih.gov/JATS1" version="5.4.0" xsi:schemaLocation="http://www.crossref.org/schema/5.4.0 https://www.crossref.org/schemas/crossref5.4.0.xsd">
{{- template "head" .}}
  <body>
    <conference>
      <event_metadata>
        <conference_name>{{esc .Publication.ConferenceName}}</conference_name>
{{- if .Publication.ConferenceAcronym}}
        <conference_acronym>{{esc .Publication.ConferenceAcronym}}</conference_acronym>
{{- end}}
{{- if .Publication.ConferenceNumber}}
        <conference_number>{{esc .Publication.ConferenceNumber}}</conference_number>
{{- end}}
{{- if .Publication.ConferenceLocation}}
        <conference_location>{{esc .Publication.ConferenceLocation}}</conference_location>
{{- end}}
{{- if .Publication.ConferenceDate}}
        <conference_date start_month="{{month .Publication.ConferenceDate}}" start_day="{{day .Publication.ConferenceDate}}" start_year="{{year .Publication.ConferenceDate}}"{{if .Publication.ConferenceDateEnd}} end_month="{{month .Publication.ConferenceDateEnd}}" end_day="{{day .Publication.ConferenceDateEnd}}" end_year="{{year .Publication.ConferenceDateEnd}}"{{end}}/>
{{- end}}
      </event_metadata>
      <proceedings_metadata{{if .Publication.Language}} language="{{esc .Publication.Language}}"{{end}}>
        <proceedings_title>{{esc .ProceedingsTitle}}</proceedings_title>
        <publisher>
          <publisher_name>{{esc .ProceedingsPublisher}}</publisher_name>
{{- if .Issue.PublisherPlace}}
          <publisher_place>{{esc .Issue.PublisherPlace}}</publisher_place>
{{- end}}
        </publisher>
{{- if .Issue.PublicationDate}}
        <publication_date media_type="online">
          <month>{{month .Issue.PublicationDate}}</month>
          <day>{{day .Issue.PublicationDate}}</day>
          <year>{{year .Issue.PublicationDate}}</year>
        </publication_date>
{{- end}}
        <noisbn reason="archive_volume"/>
      </proceedings_metadata>
{{- range .Articles}}
      <conference_paper{{if .Language}} language="{{esc .Language}}"{{end}}>
{{- if .Authors}}
{{- template "contributors" .}}
{{- end}}
{{- template "work_titles" .}}
{{- template "work_abstract" .}}
{{- template "article_dates" .}}
{{- template "pages" .}}
{{- template "access" .}}
{{- template "doi_data" .}}
      </conference_paper>
{{- end}}
    </conference>
  </body>
</doi_batch>
{{end}}`

// bookTemplate renders BOOK deposits: book metadata with the ISBN pair (or
// a reasoned noisbn), then one content_item per article.
const bookTemplate = `{{define "book" -}}
<?xml version="1.0" encoding="UTF-8"?>
<doi_batch xmlns="http://www.crossref.org/schema/5.4.0" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:ai="http://www.crossref.org/AccessIndicators.xsd" xmlns:jats="http://www.ncbi.nlm.nih.gov/JATS1" version="5.4.0" xsi:schemaLocation="http://www.crossref.org/schema/5.4.0 https://www.crossref.org/schemas/crossref5.4.0.xsd">
{{- template "head" .}}
  <body>
    <book book_type="monograph">
      <book_metadata{{if .Publication.Language}} language="{{esc .Publication.Language}}"{{end}}>
        <titles>
          <title>{{esc .Publication.Title}}</title>
{{- if .Publication.SeriesTitle}}
          <subtitle>{{esc .Publication.SeriesTitle}}</subtitle>
{{- end}}
        </titles>
{{- if .Publication.Edition}}
        <edition_number>{{esc .Publication.Edition}}</edition_number>
{{- end}}
{{- if .Issue.PublicationDate}}
        <publication_date media_type="online">
          <month>{{month .Issue.PublicationDate}}</month>
          <day>{{day .Issue.PublicationDate}}</day>
          <year>{{year .Issue.PublicationDate}}</year>
        </publication_date>
{{- end}}
{{- if .Publication.ISBNPrint}}
        <isbn media_type="print">{{esc .Publication.ISBNPrint}}</isbn>
{{- end}}
{{- if .Publication.ISBNOnline}}
        <isbn media_type="electronic">{{esc .Publication.ISBNOnline}}</isbn>
{{- end}}
{{- if and (not .Publication.ISBNPrint) (not .Publication.ISBNOnline)}}
        <noisbn reason="monograph"/>
{{- end}}
        <publisher>
          <publisher_name>{{esc .ProceedingsPublisher}}</publisher_name>
{{- if .Issue.PublisherPlace}}
          <publisher_place>{{esc .Issue.PublisherPlace}}</publisher_place>
{{- end}}
        </publisher>
      </book_metadata>
{{- range .Articles}}
      <content_item component_type="chapter"{{if .Language}} language="{{esc .Language}}"{{end}}>
{{- if .Authors}}
{{- template "contributors" .}}
{{- end}}
{{- template "work_titles" .}}
{{- template "work_abstract" .}}
{{- template "article_dates" .}}
{{- template "pages" .}}
{{- template "access" .}}
{{- template "doi_data" .}}
      </content_item>
{{- end}}
    </book>
  </body>
</doi_batch>
{{end}}`
