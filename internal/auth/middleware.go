package auth

import (
	"context"
	"net/http"

	"github.com/sheepbooru/catalog/internal/model"
	"github.com/sheepbooru/catalog/internal/repository"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "session"

// contextKey is unexported so only this package can read or write the
// identity value in a request context.
type contextKey string

const userKey contextKey = "user"

// Verifier bundles what the middleware needs to turn a cookie into a
// *model.User: token validation, the live-session check, and the user
// lookup.
type Verifier struct {
	tokens   *TokenService
	sessions SessionStore
	users    repository.UserRepository
}

func NewVerifier(tokens *TokenService, sessions SessionStore, users repository.UserRepository) *Verifier {
	return &Verifier{tokens: tokens, sessions: sessions, users: users}
}

// RequireAuth enforces authentication. Requests without a valid token
// backed by a live session get 401 and never reach the handler.
func (v *Verifier) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := v.resolve(r)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

// OptionalAuth attaches the identity when a valid token is present but
// lets anonymous requests through. Handlers see the difference via
// CurrentUser.
func (v *Verifier) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, err := v.resolve(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), userKey, user))
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentUser returns the authenticated user from the request context,
// or (nil, false) for anonymous requests.
func CurrentUser(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

// resolve validates the cookie token, confirms the session is still
// live, and loads the user record. Any failure means anonymous.
func (v *Verifier) resolve(r *http.Request) (*model.User, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, err
	}

	sessionID, userID, err := v.tokens.Validate(cookie.Value)
	if err != nil {
		return nil, err
	}

	session, ok := v.sessions.Get(sessionID)
	if !ok || session.UserID != userID {
		return nil, http.ErrNoCookie
	}

	return v.users.GetUserByID(r.Context(), userID)
}
