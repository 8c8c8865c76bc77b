package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/propnest/rental-backend/internal/constants"
	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/services"
	"github.com/propnest/rental-backend/internal/utils"
)

type PropertyController struct {
	propertyService *services.PropertyService
	validate        *validator.Validate
}

func NewPropertyController(propertyService *services.PropertyService) *PropertyController {
	return &PropertyController{propertyService: propertyService, validate: newValidator()}
}

// POST /api/admin/properties/add
func (c *PropertyController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreatePropertyRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	p, err := c.propertyService.Create(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.PropertyResponse{Message: "Property created successfully", Property: p})
}

// PUT /api/admin/properties/{id}
func (c *PropertyController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req dtos.UpdatePropertyRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	p, err := c.propertyService.Update(r.Context(), id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.PropertyResponse{Message: "Property updated successfully", Property: p})
}

// DELETE /api/admin/properties/{id}
func (c *PropertyController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.propertyService.Delete(r.Context(), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Property deleted successfully")
}

// GET /api/properties
func (c *PropertyController) ListHandler(w http.ResponseWriter, r *http.Request) {
	q := dtos.PropertyQuery{
		Page:              utils.QueryInt(r, "page", 1, 1, 0),
		Limit:             utils.QueryInt(r, "limit", constants.DefaultPropertyPageLimit, 1, constants.MaxPageLimit),
		Keyword:           utils.QueryString(r, "keyword"),
		PropertyType:      utils.QueryString(r, "property_type"),
		City:              utils.QueryString(r, "city"),
		State:             utils.QueryString(r, "state"),
		Furnishing:        utils.QueryString(r, "furnishing"),
		MinPrice:          utils.QueryFloat(r, "min_price"),
		MaxPrice:          utils.QueryFloat(r, "max_price"),
		Bedrooms:          utils.QueryIntPtr(r, "bedrooms"),
		Bathrooms:         utils.QueryIntPtr(r, "bathrooms"),
		PetsAllowed:       utils.QueryBool(r, "pets_allowed"),
		AvailableFromDate: utils.QueryString(r, "available_from_date"),
		Status:            utils.QueryString(r, "status"),
		NearLat:           utils.QueryFloat(r, "near_lat"),
		NearLng:           utils.QueryFloat(r, "near_lng"),
		RadiusKm:          utils.QueryFloat(r, "radius_km"),
	}
	resp, err := c.propertyService.List(r.Context(), q)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GET /api/properties/{id}
func (c *PropertyController) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	p, err := c.propertyService.Get(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// GET /api/properties/{id}/cover-image
func (c *PropertyController) CoverImageHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	m, err := c.propertyService.CoverImage(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, m)
}

// GET /api/properties/cover-images/all
func (c *PropertyController) CoverImagesHandler(w http.ResponseWriter, r *http.Request) {
	covers, err := c.propertyService.CoverImages(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, covers)
}

// GET /api/admin/properties/stats
func (c *PropertyController) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := c.propertyService.Stats(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, stats)
}

// GET /api/admin/properties/recent
func (c *PropertyController) RecentHandler(w http.ResponseWriter, r *http.Request) {
	limit := utils.QueryInt(r, "limit", constants.DefaultRecentProperties, 1, constants.MaxRecentProperties)
	props, err := c.propertyService.Recent(r.Context(), limit)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, props)
}
