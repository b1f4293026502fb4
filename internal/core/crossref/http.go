// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// HTTP delivery layer for the deposit pipeline.
package crossref

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/doira/internal/platform/middleware"
	"github.com/taibuivan/doira/internal/platform/respond"

	requestutil "github.com/taibuivan/doira/internal/platform/request"
)

// # Definitions & Constructors

// Handler implements deposit-related HTTP endpoints.
type Handler struct {
	depositService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{depositService: service}
}

// IssueRoutes returns deposit routes mounted under /issues/{id}/crossref.
// All deposit operations require authentication; per-publisher authorization
// happens in the service layer where the issue's owner is known.
func (handler *Handler) IssueRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/validation", handler.validation)
	router.Post("/generate", handler.generate)
	router.Get("/status", handler.status)
	router.Get("/preview", handler.preview)
	router.Get("/download", handler.download)
	router.Get("/exports", handler.listExports)

	return router
}

// ExportRoutes returns routes mounted under /crossref/exports.
func (handler *Handler) ExportRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/{exportID}/download", handler.downloadExport)

	return router
}

// # Response Payloads

type validationResponse struct {
	IsValid  bool              `json:"is_valid"`
	Errors   []ValidationIssue `json:"errors"`
	Warnings []ValidationIssue `json:"warnings"`
}

func newValidationResponse(result ValidationResult) validationResponse {
	response := validationResponse{
		IsValid:  result.IsValid(),
		Errors:   result.Errors(),
		Warnings: result.Warnings(),
	}
	if response.Errors == nil {
		response.Errors = []ValidationIssue{}
	}
	if response.Warnings == nil {
		response.Warnings = []ValidationIssue{}
	}
	return response
}

type generateResponse struct {
	Deferred   bool               `json:"deferred"`
	Validation validationResponse `json:"validation"`
	Status     *DepositStatus     `json:"status,omitempty"`
}

// # Handlers

// GET /api/v1/issues/{id}/crossref/validation
func (handler *Handler) validation(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.depositService.Validation(request.Context(), requestutil.Claims(request), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, newValidationResponse(result))
}

/*
POST /api/v1/issues/{id}/crossref/generate

Response:
  - 200: Synchronous generation completed
  - 202: Generation deferred to the background worker
  - 409: Generation already in progress
  - 422: Blocking pre-validation findings (full list in body)
*/
func (handler *Handler) generate(writer http.ResponseWriter, request *http.Request) {
	outcome, err := handler.depositService.Generate(request.Context(), requestutil.Claims(request), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if outcome.Blocked {
		respond.JSON(writer, http.StatusUnprocessableEntity, newValidationResponse(outcome.Validation))
		return
	}

	response := generateResponse{
		Deferred:   outcome.Deferred,
		Validation: newValidationResponse(outcome.Validation),
	}

	if outcome.Deferred {
		respond.Accepted(writer, response)
		return
	}

	if outcome.Issue != nil {
		response.Status = &DepositStatus{
			IssueID:          outcome.Issue.ID,
			GenerationStatus: outcome.Issue.GenerationStatus,
			HasXML:           outcome.Issue.CrossrefXML != "",
			XMLGeneratedAt:   outcome.Issue.XMLGeneratedAt,
			XSDValid:         outcome.Issue.XSDValid,
			XSDValidatedAt:   outcome.Issue.XSDValidatedAt,
			StructureErrors:  []StructureError{},
		}
	}

	respond.OK(writer, response)
}

// GET /api/v1/issues/{id}/crossref/status
func (handler *Handler) status(writer http.ResponseWriter, request *http.Request) {
	status, err := handler.depositService.Status(request.Context(), requestutil.Claims(request), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, status)
}

// GET /api/v1/issues/{id}/crossref/preview
func (handler *Handler) preview(writer http.ResponseWriter, request *http.Request) {
	document, err := handler.depositService.Preview(request.Context(), requestutil.Claims(request), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.XML(writer, []byte(document))
}

/*
GET /api/v1/issues/{id}/crossref/download?force=true

Response:
  - 200: application/xml attachment, export recorded
  - 404: No generated XML on the issue
  - 409: Structurally invalid document without force acknowledgment
*/
func (handler *Handler) download(writer http.ResponseWriter, request *http.Request) {
	force, _ := strconv.ParseBool(request.URL.Query().Get("force"))

	export, err := handler.depositService.Download(request.Context(), requestutil.Claims(request), requestutil.ID(request, "id"), force)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.XMLAttachment(writer, export.Filename, []byte(export.XMLContent))
}

// GET /api/v1/issues/{id}/crossref/exports
func (handler *Handler) listExports(writer http.ResponseWriter, request *http.Request) {
	limit, _ := strconv.Atoi(request.URL.Query().Get("limit"))

	exports, err := handler.depositService.ListExports(request.Context(), requestutil.Claims(request), requestutil.ID(request, "id"), limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, exports)
}

// GET /api/v1/crossref/exports/{exportID}/download
func (handler *Handler) downloadExport(writer http.ResponseWriter, request *http.Request) {
	export, err := handler.depositService.DownloadExport(request.Context(), requestutil.Claims(request), requestutil.ID(request, "exportID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.XMLAttachment(writer, export.Filename, []byte(export.XMLContent))
}
