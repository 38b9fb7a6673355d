package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ravigill3969/resource-tracker/backend/aggregate"
	"github.com/ravigill3969/resource-tracker/backend/database"
	"github.com/ravigill3969/resource-tracker/backend/export"
	"github.com/ravigill3969/resource-tracker/backend/models"
	"github.com/ravigill3969/resource-tracker/backend/utils"
)

type WaterHandler struct {
	Users    *database.UserStore
	Logs     *database.WaterLogStore
	Archiver export.Archiver
	Clock    Clock
}

func (h *WaterHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}

	logs, err := h.Logs.List(r.Context(), user.ID)
	if err != nil {
		respondInternal(w, r, err, "Error retrieving water logs")
		return
	}
	utils.RespondSuccess(w, http.StatusOK, map[string]interface{}{"result": logs})
}

func (h *WaterHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}

	var input models.WaterLogInput
	if !decodeJSON(w, r, &input) {
		return
	}
	entry, problems := input.Validate()
	if problems != nil {
		utils.RespondFieldErrors(w, problems)
		return
	}

	created, err := h.Logs.Create(r.Context(), user.ID, entry)
	if err != nil {
		respondInternal(w, r, err, "Error creating water log")
		return
	}
	utils.RespondCreated(w, created)
}

func (h *WaterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	id, ok := parseLogID(w, r)
	if !ok {
		return
	}

	err := h.Logs.Delete(r.Context(), user.ID, id)
	if errors.Is(err, database.ErrLogNotFound) {
		utils.RespondError(w, http.StatusNotFound, notFoundMessage("Water"))
		return
	}
	if err != nil {
		respondInternal(w, r, err, "Error deleting water log")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ByMonth returns Jan..Dec litres for the current year, or with ?pie=true the litres
// per category for the current month.
func (h *WaterHandler) ByMonth(w http.ResponseWriter, r *http.Request) {
	pie, ok := parsePie(w, r)
	if !ok {
		return
	}
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	now := h.Clock.now()

	if pie {
		h.respondCategories(w, r, user.ID, aggregate.MonthWindow(now))
		return
	}

	year := aggregate.YearWindow(now)
	totals, err := h.Logs.DailyTotals(r.Context(), user.ID, year.From, year.To)
	if err != nil {
		respondInternal(w, r, err, "Error retrieving water logs")
		return
	}
	utils.RespondSuccess(w, http.StatusOK, aggregate.ByMonth(now, totals))
}

// ByWeek returns Mon..Sun litres for the current week, or with ?pie=true the litres
// per category for the same week.
func (h *WaterHandler) ByWeek(w http.ResponseWriter, r *http.Request) {
	pie, ok := parsePie(w, r)
	if !ok {
		return
	}
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	now := h.Clock.now()
	week := aggregate.WeekWindow(now)

	if pie {
		h.respondCategories(w, r, user.ID, week)
		return
	}

	totals, err := h.Logs.DailyTotals(r.Context(), user.ID, week.From, week.To)
	if err != nil {
		respondInternal(w, r, err, "Error retrieving water logs")
		return
	}
	utils.RespondSuccess(w, http.StatusOK, aggregate.ByWeek(now, totals))
}

func (h *WaterHandler) respondCategories(w http.ResponseWriter, r *http.Request, ownerID int64, window aggregate.Window) {
	totals, err := h.Logs.CategoryTotals(r.Context(), ownerID, window.From, window.To)
	if err != nil {
		respondInternal(w, r, err, "Error retrieving water logs")
		return
	}
	utils.RespondSuccess(w, http.StatusOK, aggregate.ByCategory(totals))
}

func (h *WaterHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	now := h.Clock.now()
	window := aggregate.SummaryWindow(now)

	totals, err := h.Logs.DailyTotals(r.Context(), user.ID, window.From, window.To)
	if err != nil {
		respondInternal(w, r, err, "Error fetching water log summary")
		return
	}
	utils.RespondSuccess(w, http.StatusOK, aggregate.Summarize(now, totals))
}

// Export serves the owner's water logs for scope as an xlsx attachment.
func (h *WaterHandler) Export(scope string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r, h.Users)
		if !ok {
			return
		}
		now := h.Clock.now()

		logs, err := h.listScope(r.Context(), user.ID, scope, now)
		if err != nil {
			respondInternal(w, r, err, "Error exporting water logs")
			return
		}
		if len(logs) == 0 {
			utils.RespondError(w, http.StatusNotFound, "No water logs to export")
			return
		}

		body, err := export.WaterWorkbook(logs)
		if err != nil {
			respondInternal(w, r, err, "Error exporting water logs")
			return
		}

		archiveExport(r.Context(), h.Archiver, user.Username, body)

		utils.RespondAttachment(w, export.Filename("water", scope, aggregate.Today(now)), export.ContentTypeXLSX, body)
	}
}

func (h *WaterHandler) listScope(ctx context.Context, ownerID int64, scope string, now time.Time) ([]models.WaterLog, error) {
	switch scope {
	case ExportMonth:
		month := aggregate.MonthWindow(now)
		return h.Logs.ListBetween(ctx, ownerID, month.From, month.To)
	case ExportWeek:
		week := aggregate.WeekWindow(now)
		return h.Logs.ListBetween(ctx, ownerID, week.From, week.To)
	default:
		return h.Logs.List(ctx, ownerID)
	}
}
