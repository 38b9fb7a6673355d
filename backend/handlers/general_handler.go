package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ravigill3969/resource-tracker/backend/database"
	"github.com/ravigill3969/resource-tracker/backend/models"
	"github.com/ravigill3969/resource-tracker/backend/utils"
)

const healthPingTimeout = 2 * time.Second

type GeneralHandler struct {
	DB     *sqlx.DB
	Users  *database.UserStore
	Water  *database.WaterLogStore
	Energy *database.EnergyLogStore
}

// Summary returns the owner's all-time water litres and energy kWh.
func (h *GeneralHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}

	water, err := h.Water.Total(r.Context(), user.ID)
	if err != nil {
		respondInternal(w, r, err, "Error fetching usage summary")
		return
	}
	energy, err := h.Energy.Total(r.Context(), user.ID)
	if err != nil {
		respondInternal(w, r, err, "Error fetching usage summary")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, models.GeneralSummary{
		TotalWaterUsed:  water,
		TotalEnergyUsed: energy,
	})
}

func (h *GeneralHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	if err := h.DB.PingContext(ctx); err != nil {
		log.Printf("Health check failed: %v", err)
		utils.RespondError(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	utils.RespondSuccess(w, http.StatusOK, "OK")
}
