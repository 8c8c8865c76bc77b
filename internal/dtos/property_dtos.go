package dtos

import (
	"github.com/google/uuid"

	"github.com/propnest/rental-backend/internal/models"
)

type MediaUpload struct {
	MediaType models.MediaType `json:"media_type" validate:"required,oneof=image video"`
	Data      string           `json:"data" validate:"required"`
	IsCover   bool             `json:"is_cover"`
}

type CreatePropertyRequest struct {
	Title                     string   `json:"title" validate:"required,min=3,max=200"`
	Description               *string  `json:"description,omitempty"`
	PropertyType              string   `json:"property_type" validate:"required"`
	Status                    string   `json:"status,omitempty" validate:"omitempty,oneof=available rented maintenance"`
	Furnishing                *string  `json:"furnishing,omitempty"`
	AreaSqft                  *float64 `json:"area_sqft,omitempty" validate:"omitempty,gt=0"`
	Bedrooms                  *int     `json:"bedrooms,omitempty" validate:"omitempty,gte=0"`
	Bathrooms                 *int     `json:"bathrooms,omitempty" validate:"omitempty,gte=0"`
	Floors                    *int     `json:"floors,omitempty" validate:"omitempty,gte=0"`
	Utilities                 []string `json:"utilities,omitempty"`
	LeaseTerm                 *string  `json:"lease_term,omitempty"`
	ApplicationFee            *float64 `json:"application_fee,omitempty" validate:"omitempty,gte=0"`
	Amenities                 []string `json:"amenities,omitempty"`
	PetPolicy                 *string  `json:"pet_policy,omitempty"`
	AppliancesIncluded        []string `json:"appliances_included,omitempty"`
	PropertyManagementContact *string  `json:"property_management_contact,omitempty"`
	Website                   *string  `json:"website,omitempty" validate:"omitempty,url"`
	Price                     float64  `json:"price" validate:"required,gt=0"`
	Deposit                   *float64 `json:"deposit,omitempty" validate:"omitempty,gte=0"`
	Address                   string   `json:"address" validate:"required"`
	City                      string   `json:"city" validate:"required"`
	State                     string   `json:"state" validate:"required"`
	Pincode                   string   `json:"pincode" validate:"required"`
	Latitude                  *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude                 *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	AvailableFrom             *string  `json:"available_from,omitempty" validate:"omitempty,datetime=2006-01-02"`

	Media []MediaUpload `json:"media,omitempty" validate:"omitempty,dive"`
}

// UpdatePropertyRequest is a partial update; nil fields are left unchanged.
type UpdatePropertyRequest struct {
	Title                     *string   `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Description               *string   `json:"description,omitempty"`
	PropertyType              *string   `json:"property_type,omitempty"`
	Status                    *string   `json:"status,omitempty" validate:"omitempty,oneof=available rented maintenance"`
	Furnishing                *string   `json:"furnishing,omitempty"`
	AreaSqft                  *float64  `json:"area_sqft,omitempty" validate:"omitempty,gt=0"`
	Bedrooms                  *int      `json:"bedrooms,omitempty" validate:"omitempty,gte=0"`
	Bathrooms                 *int      `json:"bathrooms,omitempty" validate:"omitempty,gte=0"`
	Floors                    *int      `json:"floors,omitempty" validate:"omitempty,gte=0"`
	Utilities                 *[]string `json:"utilities,omitempty"`
	LeaseTerm                 *string   `json:"lease_term,omitempty"`
	ApplicationFee            *float64  `json:"application_fee,omitempty" validate:"omitempty,gte=0"`
	Amenities                 *[]string `json:"amenities,omitempty"`
	PetPolicy                 *string   `json:"pet_policy,omitempty"`
	AppliancesIncluded        *[]string `json:"appliances_included,omitempty"`
	PropertyManagementContact *string   `json:"property_management_contact,omitempty"`
	Website                   *string   `json:"website,omitempty" validate:"omitempty,url"`
	Price                     *float64  `json:"price,omitempty" validate:"omitempty,gt=0"`
	Deposit                   *float64  `json:"deposit,omitempty" validate:"omitempty,gte=0"`
	Address                   *string   `json:"address,omitempty"`
	City                      *string   `json:"city,omitempty"`
	State                     *string   `json:"state,omitempty"`
	Pincode                   *string   `json:"pincode,omitempty"`
	Latitude                  *float64  `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude                 *float64  `json:"longitude,omitempty" validate:"omitempty,longitude"`
	AvailableFrom             *string   `json:"available_from,omitempty" validate:"omitempty,datetime=2006-01-02"`

	Media          []MediaUpload `json:"media,omitempty" validate:"omitempty,dive"`
	RemoveMediaIDs []uuid.UUID   `json:"remove_media_ids,omitempty"`
	CoverMediaID   *uuid.UUID    `json:"cover_media_id,omitempty"`
}

// PropertyQuery is the parsed query string of GET /api/properties.
type PropertyQuery struct {
	Page              int
	Limit             int
	Keyword           *string
	PropertyType      *string
	City              *string
	State             *string
	Furnishing        *string
	MinPrice          *float64
	MaxPrice          *float64
	Bedrooms          *int
	Bathrooms         *int
	PetsAllowed       *bool
	AvailableFromDate *string
	Status            *string
	NearLat           *float64
	NearLng           *float64
	RadiusKm          *float64
}

type PropertyListResponse struct {
	Properties []*models.Property `json:"properties"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	Pages      int                `json:"pages"`
}

type PropertyStatsResponse struct {
	Total         int64   `json:"total_properties"`
	Available     int64   `json:"available_properties"`
	Rented        int64   `json:"rented_properties"`
	Maintenance   int64   `json:"maintenance_properties"`
	OccupancyRate float64 `json:"occupancy_rate"`
}

type PropertyResponse struct {
	Message  string           `json:"message"`
	Property *models.Property `json:"property"`
}
