package routes

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/ravigill3969/resource-tracker/backend/database"
	"github.com/ravigill3969/resource-tracker/backend/export"
	"github.com/ravigill3969/resource-tracker/backend/handlers"
	middleware "github.com/ravigill3969/resource-tracker/backend/middlewares"
	"github.com/ravigill3969/resource-tracker/backend/utils"
)

var fixedNow = time.Date(2026, 10, 15, 14, 30, 0, 0, time.UTC)

func newTestMux(t *testing.T) (*http.ServeMux, sqlmock.Sqlmock, *utils.TokenService) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { raw.Close() })
	db := sqlx.NewDb(raw, "sqlmock")

	tokens, err := utils.NewTokenService(utils.TokenConfig{
		Secret:    []byte("a-test-secret-that-is-at-least-32-bytes"),
		Algorithm: "HS256",
		Lifetime:  time.Hour,
	}, func() time.Time { return fixedNow })
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	clock := handlers.Clock{Location: time.UTC, Now: func() time.Time { return fixedNow }}
	users := &database.UserStore{DB: db}
	water := &database.WaterLogStore{DB: db}
	energy := &database.EnergyLogStore{DB: db}
	authMw := &middleware.Authenticator{Tokens: tokens}

	mux := http.NewServeMux()
	RegisterUserRoutes(mux, &handlers.UserHandler{Users: users, Tokens: tokens}, authMw)
	WaterRoutes(mux, &handlers.WaterHandler{Users: users, Logs: water, Archiver: export.NopArchiver{}, Clock: clock}, authMw)
	EnergyRoutes(mux, &handlers.EnergyHandler{Users: users, Logs: energy, Archiver: export.NopArchiver{}, Clock: clock}, authMw)
	GeneralRoutes(mux, &handlers.GeneralHandler{DB: db, Users: users, Water: water, Energy: energy}, authMw)
	return mux, mock, tokens
}

func TestProtectedRoutesRequireBearerToken(t *testing.T) {
	mux, mock, _ := newTestMux(t)

	protected := []struct{ method, path string }{
		{http.MethodGet, "/auth/verify-token"},
		{http.MethodGet, "/general/summary"},
	}
	for _, prefix := range []string{"/water-logs", "/energy-logs"} {
		protected = append(protected,
			struct{ method, path string }{http.MethodGet, prefix},
			struct{ method, path string }{http.MethodGet, prefix + "/"},
			struct{ method, path string }{http.MethodPost, prefix},
			struct{ method, path string }{http.MethodDelete, prefix + "/1"},
			struct{ method, path string }{http.MethodGet, prefix + "/logs-by-month"},
			struct{ method, path string }{http.MethodGet, prefix + "/logs-by-week"},
			struct{ method, path string }{http.MethodGet, prefix + "/summary"},
			struct{ method, path string }{http.MethodGet, prefix + "/export-all-excel"},
			struct{ method, path string }{http.MethodGet, prefix + "/export-month-excel"},
			struct{ method, path string }{http.MethodGet, prefix + "/export-week-excel"},
		)
	}

	for _, route := range protected {
		req := httptest.NewRequest(route.method, route.path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", route.method, route.path, rec.Code)
		}
	}

	// the gate answers before any query runs
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected sql activity: %v", err)
	}
}

func TestTrailingSlashListWithToken(t *testing.T) {
	mux, mock, tokens := newTestMux(t)

	token, _, err := tokens.Issue("ada")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
		WithArgs("ada").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "first_name", "last_name", "hashed_password", "created_at"}).
			AddRow(int64(7), "ada", "ada@example.com", "Ada", "", "hash", fixedNow))
	mock.ExpectQuery(regexp.QuoteMeta("FROM water_logs WHERE user_id = $1 ORDER BY date DESC")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "qty", "qty_litres", "unit", "category", "date", "created_at"}))

	req := httptest.NewRequest(http.MethodGet, "/water-logs/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

func TestHealthIsPublic(t *testing.T) {
	mux, _, _ := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
