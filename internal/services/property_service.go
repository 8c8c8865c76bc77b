package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/propnest/rental-backend/internal/config"
	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/media"
	"github.com/propnest/rental-backend/internal/metrics"
	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/repositories"
	"github.com/propnest/rental-backend/internal/utils"
)

// GeocodeFunc resolves an address to (lat, lng).
type GeocodeFunc func(ctx context.Context, address string) (float64, float64, error)

type PropertyService struct {
	cfg     *config.Config
	repo    repositories.PropertyRepository
	audit   *AuditLogger
	geocode GeocodeFunc
}

func NewPropertyService(cfg *config.Config, repo repositories.PropertyRepository, audit *AuditLogger) *PropertyService {
	return &PropertyService{
		cfg:   cfg,
		repo:  repo,
		audit: audit,
		geocode: func(ctx context.Context, address string) (float64, float64, error) {
			return utils.GeocodeAddress(ctx, cfg.GMapsAPIKey, address)
		},
	}
}

var errPropertyNotFound = utils.NewNotFoundError("Property not found")

// processUploads converts uploads into media rows. When no upload is
// flagged as cover, the first image becomes the cover if wantCover is set.
func processUploads(propertyID uuid.UUID, uploads []dtos.MediaUpload, wantCover bool) ([]*models.PropertyMedia, error) {
	out := make([]*models.PropertyMedia, 0, len(uploads))
	coverSet := false
	for i, u := range uploads {
		url, err := media.Process(u.MediaType, u.Data)
		if err != nil {
			return nil, mediaError(err, fmt.Sprintf("Media #%d", i+1))
		}
		isCover := u.IsCover && !coverSet && u.MediaType == models.MediaImage
		coverSet = coverSet || isCover
		out = append(out, &models.PropertyMedia{
			ID:         uuid.New(),
			PropertyID: propertyID,
			MediaType:  u.MediaType,
			URL:        url,
			IsCover:    isCover,
		})
	}
	if wantCover && !coverSet {
		for _, m := range out {
			if m.MediaType == models.MediaImage {
				m.IsCover = true
				break
			}
		}
	}
	return out, nil
}

func (s *PropertyService) Create(ctx context.Context, req dtos.CreatePropertyRequest) (*models.Property, error) {
	availableFrom, err := parseDate(req.AvailableFrom)
	if err != nil {
		return nil, err
	}
	p := &models.Property{
		ID:                        uuid.New(),
		Title:                     strings.TrimSpace(req.Title),
		Description:               req.Description,
		PropertyType:              req.PropertyType,
		Status:                    models.PropertyAvailable,
		Furnishing:                req.Furnishing,
		AreaSqft:                  req.AreaSqft,
		Bedrooms:                  req.Bedrooms,
		Bathrooms:                 req.Bathrooms,
		Floors:                    req.Floors,
		Utilities:                 req.Utilities,
		LeaseTerm:                 req.LeaseTerm,
		ApplicationFee:            req.ApplicationFee,
		Amenities:                 req.Amenities,
		PetPolicy:                 req.PetPolicy,
		AppliancesIncluded:        req.AppliancesIncluded,
		PropertyManagementContact: req.PropertyManagementContact,
		Website:                   req.Website,
		Price:                     req.Price,
		Deposit:                   req.Deposit,
		Address:                   req.Address,
		City:                      req.City,
		State:                     req.State,
		Pincode:                   req.Pincode,
		Latitude:                  req.Latitude,
		Longitude:                 req.Longitude,
		AvailableFrom:             availableFrom,
	}
	if req.Status != "" {
		p.Status = models.PropertyStatus(req.Status)
	}

	mediaRows, err := processUploads(p.ID, req.Media, true)
	if err != nil {
		return nil, err
	}

	if (p.Latitude == nil || p.Longitude == nil) && s.cfg.LDFlag_GeocodeNewProperties {
		s.fillCoordinates(ctx, p)
	}

	err = s.repo.InTx(ctx, func(tx repositories.PropertyRepository) error {
		if err := tx.Create(ctx, p); err != nil {
			return err
		}
		for _, m := range mediaRows {
			if err := tx.AddMedia(ctx, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.Media = mediaRows
	s.audit.Record(ctx, models.AuditCreate, models.TargetProperty, p.ID, map[string]any{"title": p.Title})
	return p, nil
}

// fillCoordinates geocodes the postal address. Failures leave the
// coordinates empty.
func (s *PropertyService) fillCoordinates(ctx context.Context, p *models.Property) {
	address := strings.Join([]string{p.Address, p.City, p.State, p.Pincode}, ", ")
	lat, lng, err := s.geocode(ctx, address)
	if err != nil {
		metrics.ExternalCallsTotal.WithLabelValues("geocoding", "failed").Inc()
		utils.Logger.WithError(err).Warnf("Geocoding %q failed; saving without coordinates", address)
		return
	}
	metrics.ExternalCallsTotal.WithLabelValues("geocoding", "ok").Inc()
	p.Latitude, p.Longitude = &lat, &lng
}

func (s *PropertyService) Update(ctx context.Context, id uuid.UUID, req dtos.UpdatePropertyRequest) (*models.Property, error) {
	availableFrom, err := parseDate(req.AvailableFrom)
	if err != nil {
		return nil, err
	}
	newMedia, err := processUploads(id, req.Media, false)
	if err != nil {
		return nil, err
	}

	// Field changes, media edits and the cover switch commit together.
	err = s.repo.InTx(ctx, func(tx repositories.PropertyRepository) error {
		err := tx.UpdateWithRetry(ctx, id, func(p *models.Property) error {
			applyPropertyUpdate(p, req)
			if availableFrom != nil {
				p.AvailableFrom = availableFrom
			}
			return nil
		})
		if err != nil {
			return notFoundOr(err, "Property not found")
		}

		if err := tx.RemoveMedia(ctx, id, req.RemoveMediaIDs); err != nil {
			return err
		}
		cover := req.CoverMediaID
		for _, m := range newMedia {
			flagged := m.IsCover
			m.IsCover = false
			if err := tx.AddMedia(ctx, m); err != nil {
				return err
			}
			if flagged && cover == nil {
				cover = uuidPtr(m.ID)
			}
		}
		if cover != nil {
			if err := tx.SetCover(ctx, id, *cover); err != nil {
				return notFoundOr(err, "Cover media not found on this property")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, models.AuditUpdate, models.TargetProperty, id, nil)
	return s.Get(ctx, id)
}

func applyPropertyUpdate(p *models.Property, req dtos.UpdatePropertyRequest) {
	if req.Title != nil {
		p.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.PropertyType != nil {
		p.PropertyType = *req.PropertyType
	}
	if req.Status != nil {
		p.Status = models.PropertyStatus(*req.Status)
	}
	if req.Furnishing != nil {
		p.Furnishing = req.Furnishing
	}
	if req.AreaSqft != nil {
		p.AreaSqft = req.AreaSqft
	}
	if req.Bedrooms != nil {
		p.Bedrooms = req.Bedrooms
	}
	if req.Bathrooms != nil {
		p.Bathrooms = req.Bathrooms
	}
	if req.Floors != nil {
		p.Floors = req.Floors
	}
	if req.Utilities != nil {
		p.Utilities = *req.Utilities
	}
	if req.LeaseTerm != nil {
		p.LeaseTerm = req.LeaseTerm
	}
	if req.ApplicationFee != nil {
		p.ApplicationFee = req.ApplicationFee
	}
	if req.Amenities != nil {
		p.Amenities = *req.Amenities
	}
	if req.PetPolicy != nil {
		p.PetPolicy = req.PetPolicy
	}
	if req.AppliancesIncluded != nil {
		p.AppliancesIncluded = *req.AppliancesIncluded
	}
	if req.PropertyManagementContact != nil {
		p.PropertyManagementContact = req.PropertyManagementContact
	}
	if req.Website != nil {
		p.Website = req.Website
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Deposit != nil {
		p.Deposit = req.Deposit
	}
	if req.Address != nil {
		p.Address = *req.Address
	}
	if req.City != nil {
		p.City = *req.City
	}
	if req.State != nil {
		p.State = *req.State
	}
	if req.Pincode != nil {
		p.Pincode = *req.Pincode
	}
	if req.Latitude != nil {
		p.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		p.Longitude = req.Longitude
	}
}

func (s *PropertyService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Property not found")
	}
	s.audit.Record(ctx, models.AuditDelete, models.TargetProperty, id, nil)
	return nil
}

func (s *PropertyService) Get(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errPropertyNotFound
	}
	return p, nil
}

// List applies the public filters. A near_lat/near_lng/radius_km triple
// switches to an in-memory distance filter before paging.
func (s *PropertyService) List(ctx context.Context, q dtos.PropertyQuery) (*dtos.PropertyListResponse, error) {
	f := repositories.PropertyFilter{
		Keyword:      q.Keyword,
		PropertyType: q.PropertyType,
		City:         q.City,
		State:        q.State,
		Furnishing:   q.Furnishing,
		MinPrice:     q.MinPrice,
		MaxPrice:     q.MaxPrice,
		Bedrooms:     q.Bedrooms,
		Bathrooms:    q.Bathrooms,
		PetsAllowed:  q.PetsAllowed,
	}
	if q.Status != nil {
		st := models.PropertyStatus(*q.Status)
		f.Status = &st
	}
	availableBy, err := parseDate(q.AvailableFromDate)
	if err != nil {
		return nil, err
	}
	f.AvailableFromDate = availableBy

	near := q.NearLat != nil && q.NearLng != nil && q.RadiusKm != nil
	if !near {
		f.Limit = q.Limit
		f.Offset = (q.Page - 1) * q.Limit
	}

	props, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	if near {
		props = withinRadius(props, *q.NearLat, *q.NearLng, *q.RadiusKm)
		total = int64(len(props))
		start := (q.Page - 1) * q.Limit
		if start > len(props) {
			start = len(props)
		}
		end := start + q.Limit
		if end > len(props) {
			end = len(props)
		}
		props = props[start:end]
	}

	if props == nil {
		props = []*models.Property{}
	}
	return &dtos.PropertyListResponse{
		Properties: props,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		Pages:      utils.Pages(total, q.Limit),
	}, nil
}

// withinRadius keeps properties with coordinates inside radiusKm of the point.
func withinRadius(props []*models.Property, lat, lng, radiusKm float64) []*models.Property {
	var out []*models.Property
	for _, p := range props {
		if p.Latitude == nil || p.Longitude == nil {
			continue
		}
		if utils.DistanceKm(lat, lng, *p.Latitude, *p.Longitude) <= radiusKm {
			out = append(out, p)
		}
	}
	return out
}

func (s *PropertyService) CoverImage(ctx context.Context, id uuid.UUID) (*models.PropertyMedia, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	cover := p.CoverImage()
	if cover == nil {
		return nil, utils.NewNotFoundError("No cover image found for this property")
	}
	return cover, nil
}

func (s *PropertyService) CoverImages(ctx context.Context) ([]*repositories.CoverImage, error) {
	covers, err := s.repo.ListCoverImages(ctx)
	if err != nil {
		return nil, err
	}
	if covers == nil {
		covers = []*repositories.CoverImage{}
	}
	return covers, nil
}

func (s *PropertyService) Stats(ctx context.Context) (*dtos.PropertyStatsResponse, error) {
	st, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &dtos.PropertyStatsResponse{
		Total:         st.Total,
		Available:     st.Available,
		Rented:        st.Rented,
		Maintenance:   st.Maintenance,
		OccupancyRate: occupancyRate(st.Rented, st.Total),
	}, nil
}

func occupancyRate(rented, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(rented)/float64(total)*1000) / 10
}

func (s *PropertyService) Recent(ctx context.Context, limit int) ([]*models.Property, error) {
	props, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if props == nil {
		props = []*models.Property{}
	}
	return props, nil
}
