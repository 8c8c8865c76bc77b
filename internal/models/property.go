package models

import (
	"time"

	"github.com/google/uuid"
)

type PropertyStatus string

const (
	PropertyAvailable   PropertyStatus = "available"
	PropertyRented      PropertyStatus = "rented"
	PropertyMaintenance PropertyStatus = "maintenance"
)

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

type Property struct {
	Versioned

	ID                        uuid.UUID      `json:"id"`
	Title                     string         `json:"title"`
	Description               *string        `json:"description,omitempty"`
	PropertyType              string         `json:"property_type"`
	Status                    PropertyStatus `json:"status"`
	Furnishing                *string        `json:"furnishing,omitempty"`
	AreaSqft                  *float64       `json:"area_sqft,omitempty"`
	Bedrooms                  *int           `json:"bedrooms,omitempty"`
	Bathrooms                 *int           `json:"bathrooms,omitempty"`
	Floors                    *int           `json:"floors,omitempty"`
	Utilities                 []string       `json:"utilities"`
	LeaseTerm                 *string        `json:"lease_term,omitempty"`
	ApplicationFee            *float64       `json:"application_fee,omitempty"`
	Amenities                 []string       `json:"amenities"`
	PetPolicy                 *string        `json:"pet_policy,omitempty"`
	AppliancesIncluded        []string       `json:"appliances_included"`
	PropertyManagementContact *string        `json:"property_management_contact,omitempty"`
	Website                   *string        `json:"website,omitempty"`
	Price                     float64        `json:"price"`
	Deposit                   *float64       `json:"deposit,omitempty"`
	Address                   string         `json:"address"`
	City                      string         `json:"city"`
	State                     string         `json:"state"`
	Pincode                   string         `json:"pincode"`
	Latitude                  *float64       `json:"latitude,omitempty"`
	Longitude                 *float64       `json:"longitude,omitempty"`
	AvailableFrom             *time.Time     `json:"available_from,omitempty"`
	CreatedAt                 time.Time      `json:"created_at"`
	UpdatedAt                 time.Time      `json:"updated_at"`

	Media []*PropertyMedia `json:"media"`
}

func (p *Property) GetID() string { return p.ID.String() }

// CoverImage returns the flagged cover, falling back to the first image.
func (p *Property) CoverImage() *PropertyMedia {
	var firstImage *PropertyMedia
	for _, m := range p.Media {
		if m.IsCover {
			return m
		}
		if firstImage == nil && m.MediaType == MediaImage {
			firstImage = m
		}
	}
	return firstImage
}

type PropertyMedia struct {
	ID         uuid.UUID `json:"id"`
	PropertyID uuid.UUID `json:"property_id"`
	MediaType  MediaType `json:"media_type"`
	URL        string    `json:"url"`
	IsCover    bool      `json:"is_cover"`
	CreatedAt  time.Time `json:"created_at"`
}
