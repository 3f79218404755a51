package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sheepbooru/catalog/internal/apperror"
	"github.com/sheepbooru/catalog/internal/auth"
	"github.com/sheepbooru/catalog/internal/service"
)

// AuthHandler manages registration, login, logout and the current-user
// endpoint. The session cookie is HttpOnly so scripts can't read the
// token; SameSite=Lax limits cross-site sends.
type AuthHandler struct {
	identity   *service.IdentityService
	tokens     *auth.TokenService
	sessions   auth.SessionStore
	sessionTTL time.Duration
	logger     *slog.Logger
}

func NewAuthHandler(
	identity *service.IdentityService,
	tokens *auth.TokenService,
	sessions auth.SessionStore,
	sessionTTL time.Duration,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		identity:   identity,
		tokens:     tokens,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	user, err := h.identity.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// HandleLogin verifies credentials, creates a session, and sets the
// session cookie.
//
// HTTP: POST /api/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	user, err := h.identity.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	session, err := h.sessions.Create(user.ID)
	if err != nil {
		h.logger.Error("creating session", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	token, err := h.tokens.Generate(session.ID, user.ID, h.sessionTTL)
	if err != nil {
		h.sessions.Delete(session.ID)
		h.logger.Error("signing session token", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, user)
}

// HandleLogout deletes the session and clears the cookie. A request
// without a valid session still clears the cookie and succeeds.
//
// HTTP: POST /api/auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookie); err == nil {
		if sessionID, _, err := h.tokens.Validate(cookie.Value); err == nil {
			h.sessions.Delete(sessionID)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the authenticated user.
//
// HTTP: GET /api/auth/me (behind RequireAuth)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("not authenticated"))
		return
	}
	writeJSON(w, http.StatusOK, user)
}
