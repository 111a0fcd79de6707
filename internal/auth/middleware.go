package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type for context keys in this package.
// A package-private key type means no other package can read or shadow the
// user id we store in the request context.
type contextKey string

const userIDKey contextKey = "userID"

// CookieName is the session cookie holding the JWT.
//
// COOKIE POLICY:
// HttpOnly (JavaScript cannot read it — XSS protection), SameSite=Strict
// (never sent on cross-site requests), Secure in production. An earlier
// iteration of the app set HttpOnly=false so the SPA could decode the token
// client-side; that was a development-only artifact. The SPA now learns the
// user id from the login response body instead.
const CookieName = "token"

// RequireAuth guards the API routes.
//
// The token is accepted from the session cookie or, for non-browser clients,
// an "Authorization: Bearer" header. Responses distinguish two cases:
//
//	401 — no token was presented at all
//	403 — a token was presented but failed verification (expired, tampered)
//
// On success the user id is stored in the request context for handlers to
// read via UserIDFromContext.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := tokenFromRequest(r)
			if tokenStr == "" {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}

			userID, err := tokens.Validate(tokenStr)
			if err != nil {
				writeAuthError(w, http.StatusForbidden, "forbidden", "token verification failed")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated user's id.
// The second return is false for anonymous requests — which cannot happen on
// a RequireAuth-protected route, but handlers check anyway.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok && id > 0
}

// tokenFromRequest extracts the raw JWT from the cookie or the
// Authorization header. The cookie wins when both are present — it is what
// the browser sends, and mixing sources per-request would make debugging
// session issues miserable.
func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}

	return ""
}

// writeAuthError emits the standard {error, details} JSON shape without
// importing the handler package (which would create an import cycle —
// handler imports auth for UserIDFromContext).
func writeAuthError(w http.ResponseWriter, status int, code, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + code + `","details":"` + details + `"}`))
}
