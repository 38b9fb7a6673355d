package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/ravigill3969/resource-tracker/backend/database"
	"github.com/ravigill3969/resource-tracker/backend/export"
	middleware "github.com/ravigill3969/resource-tracker/backend/middlewares"
	"github.com/ravigill3969/resource-tracker/backend/models"
	"github.com/ravigill3969/resource-tracker/backend/utils"
)

const (
	maxBodyBytes   = 1 << 20
	archiveTimeout = 10 * time.Second
)

// Export scopes accepted by the export handlers.
const (
	ExportAll   = "all"
	ExportMonth = "month"
	ExportWeek  = "week"
)

// Clock holds the settings every log handler needs to work out "today".
type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

func (c Clock) now() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	if c.Location == nil {
		return now()
	}
	return now().In(c.Location)
}

// currentUser resolves the token subject to its user row. A subject whose user is
// gone is answered like any other bad credential.
func currentUser(w http.ResponseWriter, r *http.Request, users *database.UserStore) (models.User, bool) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		log.Printf("Auth failed: no username in context path=%s request_id=%s", r.URL.Path, middleware.RequestIDFromContext(r.Context()))
		utils.RespondUnauthorized(w)
		return models.User{}, false
	}

	user, err := users.GetByUsername(r.Context(), username)
	if errors.Is(err, database.ErrUserNotFound) {
		log.Printf("Auth failed: token subject %q has no user row request_id=%s", username, middleware.RequestIDFromContext(r.Context()))
		utils.RespondUnauthorized(w)
		return models.User{}, false
	}
	if err != nil {
		respondInternal(w, r, err, "Unable to load user")
		return models.User{}, false
	}
	return user, true
}

// respondInternal tags the logged error with the request ID so it can be matched to the access log.
func respondInternal(w http.ResponseWriter, r *http.Request, err error, message string) {
	utils.RespondInternal(w, fmt.Errorf("request_id=%s: %w", middleware.RequestIDFromContext(r.Context()), err), message)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Printf("Error decoding request body: %v", err)
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func parsePie(w http.ResponseWriter, r *http.Request) (bool, bool) {
	raw := r.URL.Query().Get("pie")
	if raw == "" {
		return false, true
	}
	pie, err := strconv.ParseBool(raw)
	if err != nil {
		utils.RespondValidationError(w, "pie must be true or false", []string{"pie"})
		return false, false
	}
	return pie, true
}

func parseLogID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		utils.RespondValidationError(w, "log id must be a positive integer", []string{"id"})
		return 0, false
	}
	return id, true
}

// archiveExport keeps a copy of body. Failures are only logged; the download goes ahead.
func archiveExport(ctx context.Context, archiver export.Archiver, username string, body []byte) {
	if archiver == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, archiveTimeout)
	defer cancel()
	if err := archiver.Archive(ctx, export.ArchiveKey(username), body); err != nil {
		log.Printf("Export archival failed for %s: %v", username, err)
	}
}

func notFoundMessage(kind string) string {
	return fmt.Sprintf("%s log not found", kind)
}
