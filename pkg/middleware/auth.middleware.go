package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/achieveradarsh/hdnotebackend/pkg/jwtutil"
	"github.com/achieveradarsh/hdnotebackend/pkg/response"
)

type contextKey string

// ContextUserID carries the authenticated identity id through the request
// context once RequireAuth has verified the session token.
const ContextUserID contextKey = "user_id"

const SessionCookieName = "token"

// RequireAuth verifies the session JWT from either the Authorization
// bearer header or the session cookie, rejecting the request otherwise.
func RequireAuth(issuer *jwtutil.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				response.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			claims, err := issuer.Verify(token)
			if err != nil {
				response.Error(w, http.StatusUnauthorized, "Invalid or expired session")
				return
			}

			ctx := context.WithValue(r.Context(), ContextUserID, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}
