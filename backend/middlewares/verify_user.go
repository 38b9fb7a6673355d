package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/ravigill3969/resource-tracker/backend/utils"
)

type contextKey string

const UsernameContextKey contextKey = "username"

// TokenVerifier is satisfied by *utils.TokenService.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Authenticator gates handlers behind a bearer access token. It only reads its
// verifier, so one value serves every request concurrently.
type Authenticator struct {
	Tokens TokenVerifier
}

func (a *Authenticator) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" {
			log.Printf("Auth failed: missing Authorization header path=%s request_id=%s", r.URL.Path, RequestIDFromContext(r.Context()))
			utils.RespondUnauthorized(w)
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || strings.TrimSpace(token) == "" {
			log.Printf("Auth failed: Authorization header without credentials path=%s request_id=%s", r.URL.Path, RequestIDFromContext(r.Context()))
			utils.RespondUnauthorized(w)
			return
		}
		if scheme != "Bearer" {
			log.Printf("Auth failed: unsupported scheme %q path=%s request_id=%s", scheme, r.URL.Path, RequestIDFromContext(r.Context()))
			utils.RespondUnauthorized(w)
			return
		}

		username, err := a.Tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			log.Printf("Auth failed: invalid or expired token path=%s request_id=%s", r.URL.Path, RequestIDFromContext(r.Context()))
			utils.RespondUnauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), UsernameContextKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UsernameFromContext returns the token subject stored by AuthMiddleware.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameContextKey).(string)
	return username, ok && username != ""
}
