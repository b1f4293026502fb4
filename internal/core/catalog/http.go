// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// HTTP delivery layer for the catalog hierarchy.
package catalog

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/doira/internal/platform/middleware"
	"github.com/taibuivan/doira/internal/platform/respond"
	"github.com/taibuivan/doira/pkg/pagination"
	"github.com/taibuivan/doira/pkg/slice"

	requestutil "github.com/taibuivan/doira/internal/platform/request"
	"github.com/taibuivan/doira/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements catalog-related HTTP endpoints.
type Handler struct {
	catalogService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{catalogService: service}
}

// PublisherRoutes returns routes mounted under /publishers.
func (handler *Handler) PublisherRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listPublishers)
	router.Get("/{id}", handler.getPublisher)
	router.Get("/{id}/publications", handler.listPublications)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.createPublisher)
	})

	return router
}

// PublicationRoutes returns routes mounted under /publications.
func (handler *Handler) PublicationRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{id}", handler.getPublication)
	router.Get("/{id}/issues", handler.listIssues)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.createPublication)
	})

	return router
}

// IssueRoutes returns routes mounted under /issues.
//
// Deposit-specific sub-routes (/{id}/crossref/...) are mounted separately by
// the server wiring so the deposit slice stays decoupled from the catalog.
func (handler *Handler) IssueRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{id}", handler.getIssue)
	router.Get("/{id}/articles", handler.listArticles)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.createIssue)
		r.Post("/{id}/articles", handler.createArticle)
	})

	return router
}

// ArticleRoutes returns routes mounted under /articles.
func (handler *Handler) ArticleRoutes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Delete("/{id}", handler.deleteArticle)
	})

	return router
}

// # Request Payloads

type createPublisherRequest struct {
	Name      string `json:"name"`
	DOIPrefix string `json:"doi_prefix"`
}

type createPublicationRequest struct {
	PublisherID string `json:"publisher_id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Language    string `json:"language"`

	Abbreviation string `json:"abbreviation"`
	ISSNPrint    string `json:"issn_print"`
	ISSNOnline   string `json:"issn_online"`

	ConferenceName     string     `json:"conference_name"`
	ConferenceAcronym  string     `json:"conference_acronym"`
	ConferenceLocation string     `json:"conference_location"`
	ConferenceNumber   string     `json:"conference_number"`
	ConferenceDate     *time.Time `json:"conference_date"`
	ConferenceDateEnd  *time.Time `json:"conference_date_end"`

	ISBNPrint   string `json:"isbn_print"`
	ISBNOnline  string `json:"isbn_online"`
	Edition     string `json:"edition"`
	SeriesTitle string `json:"series_title"`
}

type createIssueRequest struct {
	PublicationID   string     `json:"publication_id"`
	Volume          string     `json:"volume"`
	IssueNumber     string     `json:"issue_number"`
	Year            int        `json:"year"`
	Title           string     `json:"title"`
	PublicationDate *time.Time `json:"publication_date"`

	ProceedingsTitle string `json:"proceedings_title"`
	PublisherName    string `json:"publisher_name"`
	PublisherPlace   string `json:"publisher_place"`
}

type createArticleRequest struct {
	Title           string     `json:"title"`
	Subtitle        string     `json:"subtitle"`
	Abstract        string     `json:"abstract"`
	DOISuffix       string     `json:"doi_suffix"`
	Language        string     `json:"language"`
	FirstPage       string     `json:"first_page"`
	LastPage        string     `json:"last_page"`
	ArticleNumber   string     `json:"article_number"`
	PublicationDate *time.Time `json:"publication_date"`
	LicenseURL      string     `json:"license_url"`
	FreeToRead      bool       `json:"free_to_read"`
	FreeToReadStart *time.Time `json:"free_to_read_start"`
	Position        int        `json:"position"`

	Authors []createAuthorRequest `json:"authors"`
}

type createAuthorRequest struct {
	GivenName          string `json:"given_name"`
	Surname            string `json:"surname"`
	Suffix             string `json:"suffix"`
	ORCID              string `json:"orcid"`
	ORCIDAuthenticated bool   `json:"orcid_authenticated"`
	Sequence           string `json:"sequence"`
	ContributorRole    string `json:"contributor_role"`

	Affiliations []createAffiliationRequest `json:"affiliations"`
}

type createAffiliationRequest struct {
	InstitutionName string `json:"institution_name"`
	Department      string `json:"department"`
	RORID           string `json:"ror_id"`
}

// # Publisher Handlers

/*
POST /api/v1/publishers

Response:
  - 201: Publisher
  - 400: Validation failure
  - 403: Non-admin actor
*/
func (handler *Handler) createPublisher(writer http.ResponseWriter, request *http.Request) {
	var input createPublisherRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	publisher := &Publisher{
		Name:      input.Name,
		DOIPrefix: input.DOIPrefix,
	}

	if err := handler.catalogService.CreatePublisher(request.Context(), requestutil.Claims(request), publisher); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, publisher)
}

// GET /api/v1/publishers
func (handler *Handler) listPublishers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	publishers, total, err := handler.catalogService.ListPublishers(request.Context(), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, publishers, pagination.NewMeta(params.Page, params.Limit, total))
}

// GET /api/v1/publishers/{id}
func (handler *Handler) getPublisher(writer http.ResponseWriter, request *http.Request) {
	publisher, err := handler.catalogService.GetPublisher(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, publisher)
}

// # Publication Handlers

/*
POST /api/v1/publications

Response:
  - 201: Publication
  - 400: Validation failure
  - 403: Actor lacks access to the parent publisher
  - 404: Parent publisher missing
*/
func (handler *Handler) createPublication(writer http.ResponseWriter, request *http.Request) {
	var input createPublicationRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	publication := &Publication{
		PublisherID:        input.PublisherID,
		Title:              input.Title,
		Type:               PublicationType(input.Type),
		Language:           input.Language,
		Abbreviation:       input.Abbreviation,
		ISSNPrint:          input.ISSNPrint,
		ISSNOnline:         input.ISSNOnline,
		ConferenceName:     input.ConferenceName,
		ConferenceAcronym:  input.ConferenceAcronym,
		ConferenceLocation: input.ConferenceLocation,
		ConferenceNumber:   input.ConferenceNumber,
		ConferenceDate:     input.ConferenceDate,
		ConferenceDateEnd:  input.ConferenceDateEnd,
		ISBNPrint:          input.ISBNPrint,
		ISBNOnline:         input.ISBNOnline,
		Edition:            input.Edition,
		SeriesTitle:        input.SeriesTitle,
	}

	if err := handler.catalogService.CreatePublication(request.Context(), requestutil.Claims(request), publication); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, publication)
}

// GET /api/v1/publications/{id}
func (handler *Handler) getPublication(writer http.ResponseWriter, request *http.Request) {
	publication, err := handler.catalogService.GetPublication(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, publication)
}

// GET /api/v1/publishers/{id}/publications
func (handler *Handler) listPublications(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	publications, total, err := handler.catalogService.ListPublications(
		request.Context(), requestutil.ID(request, "id"), params.Limit, params.Offset(),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, publications, pagination.NewMeta(params.Page, params.Limit, total))
}

// # Issue Handlers

/*
POST /api/v1/issues

Response:
  - 201: Issue
  - 400: Validation failure
  - 403: Actor lacks access to the owning publisher
  - 404: Parent publication missing
*/
func (handler *Handler) createIssue(writer http.ResponseWriter, request *http.Request) {
	var input createIssueRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	issue := &Issue{
		PublicationID:    input.PublicationID,
		Volume:           input.Volume,
		IssueNumber:      input.IssueNumber,
		Year:             input.Year,
		Title:            input.Title,
		PublicationDate:  input.PublicationDate,
		ProceedingsTitle: input.ProceedingsTitle,
		PublisherName:    input.PublisherName,
		PublisherPlace:   input.PublisherPlace,
	}

	if err := handler.catalogService.CreateIssue(request.Context(), requestutil.Claims(request), issue); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, issue)
}

// GET /api/v1/issues/{id}
func (handler *Handler) getIssue(writer http.ResponseWriter, request *http.Request) {
	issue, err := handler.catalogService.GetIssue(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, issue)
}

// GET /api/v1/publications/{id}/issues
func (handler *Handler) listIssues(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	issues, total, err := handler.catalogService.ListIssues(
		request.Context(), requestutil.ID(request, "id"), params.Limit, params.Offset(),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, issues, pagination.NewMeta(params.Page, params.Limit, total))
}

// # Article Handlers

/*
POST /api/v1/issues/{id}/articles

Response:
  - 201: Article (contributors nested)
  - 400: Validation failure
  - 403: Actor lacks access to the owning publisher
  - 404: Parent issue missing
*/
func (handler *Handler) createArticle(writer http.ResponseWriter, request *http.Request) {
	var input createArticleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	article := &Article{
		IssueID:         requestutil.ID(request, "id"),
		Title:           input.Title,
		Subtitle:        input.Subtitle,
		Abstract:        input.Abstract,
		DOISuffix:       input.DOISuffix,
		Language:        input.Language,
		FirstPage:       input.FirstPage,
		LastPage:        input.LastPage,
		ArticleNumber:   input.ArticleNumber,
		PublicationDate: input.PublicationDate,
		LicenseURL:      input.LicenseURL,
		FreeToRead:      input.FreeToRead,
		FreeToReadStart: input.FreeToReadStart,
		Position:        input.Position,
	}

	article.Authors = slice.Map(input.Authors, func(author createAuthorRequest) Author {
		return Author{
			GivenName:          author.GivenName,
			Surname:            author.Surname,
			Suffix:             author.Suffix,
			ORCID:              author.ORCID,
			ORCIDAuthenticated: author.ORCIDAuthenticated,
			Sequence:           author.Sequence,
			ContributorRole:    author.ContributorRole,
			Affiliations: slice.Map(author.Affiliations, func(affiliation createAffiliationRequest) Affiliation {
				return Affiliation{
					InstitutionName: affiliation.InstitutionName,
					Department:      affiliation.Department,
					RORID:           affiliation.RORID,
				}
			}),
		}
	})

	if err := handler.catalogService.CreateArticle(request.Context(), requestutil.Claims(request), article); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, article)
}

// GET /api/v1/issues/{id}/articles
func (handler *Handler) listArticles(writer http.ResponseWriter, request *http.Request) {
	articles, err := handler.catalogService.ListArticles(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, articles)
}

// DELETE /api/v1/articles/{id}
func (handler *Handler) deleteArticle(writer http.ResponseWriter, request *http.Request) {
	if err := handler.catalogService.DeleteArticle(request.Context(), requestutil.Claims(request), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
