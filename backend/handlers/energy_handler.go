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

type EnergyHandler struct {
	Users    *database.UserStore
	Logs     *database.EnergyLogStore
	Archiver export.Archiver
	Clock    Clock
}

func (h *EnergyHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}

	logs, err := h.Logs.List(r.Context(), user.ID)
	if err != nil {
		respondInternal(w, r, err, "Error retrieving energy logs")
		return
	}
	utils.RespondSuccess(w, http.StatusOK, map[string]interface{}{"result": logs})
}

func (h *EnergyHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}

	var input models.EnergyLogInput
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
		respondInternal(w, r, err, "Error creating energy log")
		return
	}
	utils.RespondCreated(w, created)
}

func (h *EnergyHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
		utils.RespondError(w, http.StatusNotFound, notFoundMessage("Energy"))
		return
	}
	if err != nil {
		respondInternal(w, r, err, "Error deleting energy log")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ByMonth returns Jan..Dec kWh for the current year. Energy has no categories, so
// pie is ignored.
func (h *EnergyHandler) ByMonth(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	now := h.Clock.now()
	year := aggregate.YearWindow(now)

	totals, err := h.Logs.DailyTotals(r.Context(), user.ID, year.From, year.To)
	if err != nil {
		respondInternal(w, r, err, "Error retrieving energy logs")
		return
	}
	utils.RespondSuccess(w, http.StatusOK, aggregate.ByMonth(now, totals))
}

func (h *EnergyHandler) ByWeek(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	now := h.Clock.now()
	week := aggregate.WeekWindow(now)

	totals, err := h.Logs.DailyTotals(r.Context(), user.ID, week.From, week.To)
	if err != nil {
		respondInternal(w, r, err, "Error retrieving energy logs")
		return
	}
	utils.RespondSuccess(w, http.StatusOK, aggregate.ByWeek(now, totals))
}

func (h *EnergyHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	now := h.Clock.now()
	window := aggregate.SummaryWindow(now)

	totals, err := h.Logs.DailyTotals(r.Context(), user.ID, window.From, window.To)
	if err != nil {
		respondInternal(w, r, err, "Error fetching energy log summary")
		return
	}
	utils.RespondSuccess(w, http.StatusOK, aggregate.Summarize(now, totals))
}

// Export serves the owner's energy logs for scope as an xlsx attachment.
func (h *EnergyHandler) Export(scope string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r, h.Users)
		if !ok {
			return
		}
		now := h.Clock.now()

		logs, err := h.listScope(r.Context(), user.ID, scope, now)
		if err != nil {
			respondInternal(w, r, err, "Error exporting energy logs")
			return
		}
		if len(logs) == 0 {
			utils.RespondError(w, http.StatusNotFound, "No energy logs to export")
			return
		}

		body, err := export.EnergyWorkbook(logs)
		if err != nil {
			respondInternal(w, r, err, "Error exporting energy logs")
			return
		}

		archiveExport(r.Context(), h.Archiver, user.Username, body)

		utils.RespondAttachment(w, export.Filename("energy", scope, aggregate.Today(now)), export.ContentTypeXLSX, body)
	}
}

func (h *EnergyHandler) listScope(ctx context.Context, ownerID int64, scope string, now time.Time) ([]models.EnergyLog, error) {
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
