package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/propnest/rental-backend/internal/constants"
	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/services"
	"github.com/propnest/rental-backend/internal/utils"
)

type MaintenanceController struct {
	maintenanceService *services.MaintenanceService
	validate           *validator.Validate
}

func NewMaintenanceController(maintenanceService *services.MaintenanceService) *MaintenanceController {
	return &MaintenanceController{maintenanceService: maintenanceService, validate: newValidator()}
}

// POST /api/admin/maintenance-requests and /api/admin/maintenance-requests/json
func (c *MaintenanceController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateMaintenanceRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	m, err := c.maintenanceService.Create(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.MaintenanceResponse{
		Message: "Maintenance request created successfully",
		Request: m,
	})
}

func (c *MaintenanceController) list(w http.ResponseWriter, r *http.Request, status *models.MaintenanceStatus) {
	limit := utils.QueryInt(r, "limit", constants.DefaultAdminListLimit, 1, constants.MaxPageLimit)
	offset := utils.QueryInt(r, "offset", 0, 0, 0)
	resp, err := c.maintenanceService.List(r.Context(), status, limit, offset)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GET /api/admin/maintenance-requests
func (c *MaintenanceController) ListHandler(w http.ResponseWriter, r *http.Request) {
	c.list(w, r, nil)
}

// GET /api/admin/maintenance-requests/status/{status}
func (c *MaintenanceController) ListByStatusHandler(w http.ResponseWriter, r *http.Request) {
	status := models.MaintenanceStatus(mux.Vars(r)["status"])
	c.list(w, r, &status)
}

// GET /api/admin/maintenance-requests/{id}
func (c *MaintenanceController) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	m, err := c.maintenanceService.Get(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, m)
}

// PUT /api/admin/maintenance-requests/{id}
func (c *MaintenanceController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req dtos.UpdateMaintenanceRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	m, err := c.maintenanceService.Update(r.Context(), id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MaintenanceResponse{
		Message: "Maintenance request updated successfully",
		Request: m,
	})
}

// DELETE /api/admin/maintenance-requests/{id}
func (c *MaintenanceController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.maintenanceService.Delete(r.Context(), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Maintenance request deleted successfully")
}

// POST /api/admin/maintenance-requests/{id}/send-to-contractor
func (c *MaintenanceController) SendToContractorHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	m, err := c.maintenanceService.SendToContractor(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MaintenanceResponse{
		Message: "Maintenance request sent to contractor",
		Request: m,
	})
}
