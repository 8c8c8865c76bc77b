package controllers

import (
	"net/http"

	"github.com/propnest/rental-backend/internal/constants"
	"github.com/propnest/rental-backend/internal/services"
	"github.com/propnest/rental-backend/internal/utils"
)

type TidyCalController struct {
	tidyCalService *services.TidyCalService
}

func NewTidyCalController(tidyCalService *services.TidyCalService) *TidyCalController {
	return &TidyCalController{tidyCalService: tidyCalService}
}

// GET /api/tidycal/booking-types
//
// Upstream replies, errors included, are relayed with their status and body.
func (c *TidyCalController) BookingTypesHandler(w http.ResponseWriter, r *http.Request) {
	page := utils.QueryInt(r, "page", 1, 1, 0)
	perPage := utils.QueryInt(r, "per_page", constants.DefaultBookingTypesLimit, 1, constants.MaxPageLimit)
	resp, err := c.tidyCalService.BookingTypes(r.Context(), page, perPage)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	w.Header().Set("Content-Type", resp.ContentType)
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(resp.Body); err != nil {
		utils.Logger.WithError(err).Warn("Failed to relay TidyCal response")
	}
}
