package server

import (
	"net/http"
	"time"

	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/types"
)

// AuthHandler handles account and session requests.
type AuthHandler struct {
	users        *UserService
	jwt          *JWTService
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(users *UserService, jwt *JWTService, secureCookie bool) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt, secureCookie: secureCookie}
}

// Register creates an account and starts a session for it.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, validationError(err))
		return
	}

	user, err := h.users.Register(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.startSession(w, r, user.Username, http.StatusCreated)
}

// Login authenticates a user and starts a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, validationError(err))
		return
	}

	user, err := h.users.Authenticate(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.startSession(w, r, user.Username, http.StatusOK)
}

// Logout clears the session cookie. Bearer tokens expire on their own.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, username string, status int) {
	token, expiresAt, err := h.jwt.GenerateToken(username)
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	jsonResponse(w, r, status, types.LoginResponse{
		Username:  username,
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
