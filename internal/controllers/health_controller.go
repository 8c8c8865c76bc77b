package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/propnest/rental-backend/internal/app"
	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/utils"
)

const healthPingTimeout = 3 * time.Second

// HealthController checks DB connectivity.
type HealthController struct {
	app *app.App
}

func NewHealthController(app *app.App) *HealthController {
	return &HealthController{app}
}

// HealthCheckHandler => GET /health
func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()
	if err := c.app.DB.Ping(ctx); err != nil {
		utils.Logger.WithError(err).Error("rental-service DB unreachable")
		utils.RespondErrorWithCode(w, http.StatusServiceUnavailable, utils.ErrCodeInternal, "Database unreachable", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.HealthCheckResponse{Status: "OK"})
}
