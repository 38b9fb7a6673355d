package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/ravigill3969/resource-tracker/backend/database"
	middleware "github.com/ravigill3969/resource-tracker/backend/middlewares"
)

const testUserID int64 = 7

// Thursday; its week runs 2026-10-12..2026-10-18.
var fixedNow = time.Date(2026, 10, 15, 14, 30, 0, 0, time.UTC)

var testClock = Clock{Location: time.UTC, Now: func() time.Time { return fixedNow }}

var userColumns = []string{"id", "username", "email", "first_name", "last_name", "hashed_password", "created_at"}

type envelope struct {
	Status      string            `json:"status"`
	Message     string            `json:"message"`
	Data        json.RawMessage   `json:"data"`
	FieldErrors map[string]string `json:"field_errors"`
	Code        string            `json:"code"`
}

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func expectUser(mock sqlmock.Sqlmock, username string) {
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
		WithArgs(username).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(testUserID, username, username+"@example.com", "Ada", "Lovelace", "hash", fixedNow))
}

func expectNoUser(mock sqlmock.Sqlmock, username string) {
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
		WithArgs(username).
		WillReturnRows(sqlmock.NewRows(userColumns))
}

// authedRequest builds a request as AuthMiddleware would hand it on.
func authedRequest(method, target, username string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	ctx := context.WithValue(req.Context(), middleware.UsernameContextKey, username)
	return req.WithContext(ctx)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func mustStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

func newUserStore(db *sqlx.DB) *database.UserStore {
	return &database.UserStore{DB: db}
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}
