package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/electro-atlas/storefront/internal/auth"
	"github.com/electro-atlas/storefront/internal/domain"
)

type AuthHandler struct {
	sessions *Sessions
	validate *validator.Validate
	timeout  time.Duration
}

func NewAuthHandler(sessions *Sessions, validate *validator.Validate, timeout time.Duration) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		validate: validate,
		timeout:  timeout,
	}
}

type SignInRequestDTO struct {
	AccessToken string `json:"access_token" validate:"required"`
}

type AuthStatusResponse struct {
	State         string       `json:"state"`
	Authenticated bool         `json:"authenticated"`
	Loading       bool         `json:"loading"`
	User          *domain.User `json:"user,omitempty"`
}

func statusOf(s auth.Session) AuthStatusResponse {
	return AuthStatusResponse{
		State:         s.State.String(),
		Authenticated: s.Authenticated(),
		Loading:       s.Loading(),
		User:          s.User,
	}
}

// GET /api/v1/auth/status
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, statusOf(visitorFrom(r.Context()).Session))
}

// POST /api/v1/auth/session stores a token issued by the commerce API once
// it checks out. Guest state is left where it is.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SignInRequestDTO
	if !decodeJSON(w, r, h.validate, &req) {
		return
	}

	session := h.sessions.resolver.Resolve(ctx, req.AccessToken)
	if session.Loading() {
		w.Header().Set("Retry-After", "1")
		respondError(w, http.StatusServiceUnavailable, "session_pending", "authentication status pending")
		return
	}
	if !session.Authenticated() {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "access token rejected")
		return
	}

	if err := h.sessions.saveToken(w, r, req.AccessToken); err != nil {
		log.Printf("session save error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "could not store session")
		return
	}
	respondJSON(w, http.StatusOK, statusOf(session))
}

// DELETE /api/v1/auth/session
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	v := visitorFrom(r.Context())
	h.sessions.resolver.Forget(r.Context(), v.Session.Token)

	if err := h.sessions.saveToken(w, r, ""); err != nil {
		log.Printf("session save error: %v", err)
	}
	respondJSON(w, http.StatusOK, statusOf(auth.Anonymous()))
}
