// Copyright (c) 2026 Doira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// HTTP delivery layer for user identity.
//
// # Architecture
//
// The handler acts as a thin mediation layer between the web and domain services:
//   - Protocol: Standard RESTful JSON interface.
//   - Security: Handles JWT orchestration.
//   - Verification: Enforces strict input validation before passing to [Service].
//
// This layer is strictly responsible for transport concerns (status codes, headers, JSON).
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/doira/internal/platform/middleware"
	requestutil "github.com/taibuivan/doira/internal/platform/request"
	"github.com/taibuivan/doira/internal/platform/respond"
	"github.com/taibuivan/doira/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /login : Authenticates and returns a JWT.
//   - GET  /me    : Returns the authenticated user's profile.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/login", handler.login)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.me)
	})

	return router
}

// # Request Payloads

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// # Response Payloads

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        *User  `json:"user"`
}

/*
Login authenticates a user and issues an access token.

POST /api/v1/auth/login

Description: Verifies credentials and returns a signed JWT access token
together with the user profile.

Request:
  - Body: loginRequest (Login, Password)

Response:
  - 200: loginResponse: Access token and User profile
  - 401: ErrUnauthorized: Invalid credentials or deactivated account
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldLogin, input.Login)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Login:    input.Login,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loginResponse{
		AccessToken: session.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(AccessTokenTTL.Seconds()),
		User:        session.User,
	})
}

/*
Me returns the profile of the currently authenticated user.

GET /api/v1/auth/me

Response:
  - 200: User: Account profile
  - 401: ErrUnauthorized: Missing or invalid token
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Me(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
