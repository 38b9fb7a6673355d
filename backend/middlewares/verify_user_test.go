package middleware

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

type stubVerifier struct {
	valid map[string]string
}

func (s stubVerifier) Verify(token string) (string, error) {
	if username, ok := s.valid[token]; ok {
		return username, nil
	}
	return "", errors.New("invalid token")
}

func newTestAuthenticator() *Authenticator {
	return &Authenticator{Tokens: stubVerifier{valid: map[string]string{"good-token": "ada"}}}
}

func TestAuthMiddlewareRejectsBadCredentials(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "scheme only", header: "Bearer"},
		{name: "empty token", header: "Bearer   "},
		{name: "wrong scheme", header: "Basic good-token"},
		{name: "lowercase scheme", header: "bearer good-token"},
		{name: "unknown token", header: "Bearer forged-token"},
	}

	auth := newTestAuthenticator()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			handler := auth.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/water-logs", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if called {
				t.Fatal("next handler must not run for rejected credentials")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if got := rec.Header().Get("WWW-Authenticate"); got != "Bearer" {
				t.Fatalf("expected WWW-Authenticate Bearer, got %q", got)
			}
		})
	}
}

func TestAuthMiddlewareStoresUsername(t *testing.T) {
	auth := newTestAuthenticator()

	var username string
	var ok bool
	handler := auth.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, ok = UsernameFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/water-logs", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if !ok || username != "ada" {
		t.Fatalf("expected username ada in context, got %q (ok=%v)", username, ok)
	}
}

func TestUsernameFromContextMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := UsernameFromContext(req.Context()); ok {
		t.Fatal("expected no username on a bare request")
	}
}

func TestAuthMiddlewareLogsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	auth := newTestAuthenticator()
	handler := RequestIDMiddleware(auth.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run for a forged token")
	})))

	req := httptest.NewRequest(http.MethodGet, "/water-logs", nil)
	req.Header.Set("Authorization", "Bearer forged-token")
	req.Header.Set("X-Request-ID", "trace-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var authLine string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "Auth failed") {
			authLine = line
		}
	}
	if !strings.Contains(authLine, "request_id=trace-42") {
		t.Fatalf("expected auth failure log to carry the request ID, got %q", authLine)
	}
}
