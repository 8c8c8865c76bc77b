package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"

	"github.com/propnest/rental-backend/internal/models"
)

// PropertyFilter narrows ListProperties. Nil fields are ignored.
type PropertyFilter struct {
	Keyword           *string
	PropertyType      *string
	City              *string
	State             *string
	Furnishing        *string
	MinPrice          *float64
	MaxPrice          *float64
	Bedrooms          *int
	MinBedrooms       *int
	Bathrooms         *int
	PetsAllowed       *bool
	AvailableFromDate *time.Time
	Status            *models.PropertyStatus
	// The *Like fields are single-column ILIKE matches used by the
	// chatbot's staged keyword search.
	TitleLike       *string
	DescriptionLike *string
	CityLike        *string
	AddressLike     *string
	// Location matches city OR state.
	Location *string
	Limit    int
	Offset   int
}

type PropertyStats struct {
	Total       int64 `json:"total"`
	Available   int64 `json:"available"`
	Rented      int64 `json:"rented"`
	Maintenance int64 `json:"maintenance"`
}

type PropertyRepository interface {
	// InTx runs fn with a repository bound to a single transaction.
	InTx(ctx context.Context, fn func(PropertyRepository) error) error

	Create(ctx context.Context, p *models.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	List(ctx context.Context, f PropertyFilter) ([]*models.Property, int64, error)
	Recent(ctx context.Context, limit int) ([]*models.Property, error)
	Stats(ctx context.Context) (PropertyStats, error)
	UpdateIfVersion(ctx context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddMedia(ctx context.Context, m *models.PropertyMedia) error
	ListMedia(ctx context.Context, propertyIDs ...uuid.UUID) ([]*models.PropertyMedia, error)
	RemoveMedia(ctx context.Context, propertyID uuid.UUID, mediaIDs []uuid.UUID) error
	SetCover(ctx context.Context, propertyID, mediaID uuid.UUID) error
	ListCoverImages(ctx context.Context) ([]*CoverImage, error)
}

// CoverImage pairs a cover media row with its property's title.
type CoverImage struct {
	models.PropertyMedia
	PropertyTitle string `json:"property_title"`
}

type propertyRepo struct {
	*BaseVersionedRepo[*models.Property]
	db DB
}

func NewPropertyRepository(db DB) PropertyRepository {
	r := &propertyRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectProperty()+" WHERE id=$1", scanProperty)
	return r
}

func (r *propertyRepo) InTx(ctx context.Context, fn func(PropertyRepository) error) error {
	return WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(NewPropertyRepository(tx))
	})
}

func (r *propertyRepo) Create(ctx context.Context, p *models.Property) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO properties (
            id, title, description, property_type, status, furnishing, area_sqft,
            bedrooms, bathrooms, floors, utilities, lease_term, application_fee,
            amenities, pet_policy, appliances_included, property_management_contact,
            website, price, deposit, address, city, state, pincode, latitude,
            longitude, available_from, created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,
                  $19,$20,$21,$22,$23,$24,$25,$26,$27, NOW(), NOW(), 1)
    `,
		p.ID, p.Title, p.Description, p.PropertyType, p.Status, p.Furnishing, p.AreaSqft,
		p.Bedrooms, p.Bathrooms, p.Floors, nonNil(p.Utilities), p.LeaseTerm, p.ApplicationFee,
		nonNil(p.Amenities), p.PetPolicy, nonNil(p.AppliancesIncluded), p.PropertyManagementContact,
		p.Website, p.Price, p.Deposit, p.Address, p.City, p.State, p.Pincode, p.Latitude,
		p.Longitude, p.AvailableFrom,
	)
	return err
}

func (r *propertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	p, err := r.BaseVersionedRepo.GetByID(ctx, id.String())
	if err != nil || p == nil {
		return p, err
	}
	if err := r.attachMedia(ctx, []*models.Property{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *propertyRepo) List(ctx context.Context, f PropertyFilter) ([]*models.Property, int64, error) {
	var w whereBuilder
	if f.Keyword != nil {
		w.add("(title ILIKE $%[1]d OR description ILIKE $%[1]d OR property_type ILIKE $%[1]d OR city ILIKE $%[1]d)", like(*f.Keyword))
	}
	if f.PropertyType != nil {
		w.add("property_type ILIKE $%d", *f.PropertyType)
	}
	if f.City != nil {
		w.add("city ILIKE $%d", *f.City)
	}
	if f.State != nil {
		w.add("state ILIKE $%d", *f.State)
	}
	if f.Furnishing != nil {
		w.add("furnishing ILIKE $%d", *f.Furnishing)
	}
	if f.MinPrice != nil {
		w.add("price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		w.add("price <= $%d", *f.MaxPrice)
	}
	if f.Bedrooms != nil {
		w.add("bedrooms = $%d", *f.Bedrooms)
	}
	if f.MinBedrooms != nil {
		w.add("bedrooms >= $%d", *f.MinBedrooms)
	}
	if f.Bathrooms != nil {
		w.add("bathrooms = $%d", *f.Bathrooms)
	}
	if f.PetsAllowed != nil && *f.PetsAllowed {
		w.addRaw("pet_policy ILIKE '%allowed%'")
	}
	if f.AvailableFromDate != nil {
		w.add("available_from <= $%d", *f.AvailableFromDate)
	}
	if f.Status != nil {
		w.add("status = $%d", *f.Status)
	}
	if f.TitleLike != nil {
		w.add("title ILIKE $%d", like(*f.TitleLike))
	}
	if f.DescriptionLike != nil {
		w.add("description ILIKE $%d", like(*f.DescriptionLike))
	}
	if f.CityLike != nil {
		w.add("city ILIKE $%d", like(*f.CityLike))
	}
	if f.AddressLike != nil {
		w.add("address ILIKE $%d", like(*f.AddressLike))
	}
	if f.Location != nil {
		w.add("(city ILIKE $%[1]d OR state ILIKE $%[1]d)", like(*f.Location))
	}

	total, err := count(ctx, r.db, "SELECT COUNT(*) FROM properties"+w.sql(), w.args...)
	if err != nil {
		return nil, 0, err
	}

	sql := baseSelectProperty() + w.sql() + " ORDER BY created_at DESC"
	if f.Limit > 0 {
		sql += " LIMIT " + w.next(f.Limit)
	}
	if f.Offset > 0 {
		sql += " OFFSET " + w.next(f.Offset)
	}
	props, err := queryAll(ctx, r.db, scanProperty, sql, w.args...)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachMedia(ctx, props); err != nil {
		return nil, 0, err
	}
	return props, total, nil
}

func (r *propertyRepo) Recent(ctx context.Context, limit int) ([]*models.Property, error) {
	props, err := queryAll(ctx, r.db, scanProperty, baseSelectProperty()+" ORDER BY created_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, err
	}
	return props, r.attachMedia(ctx, props)
}

func (r *propertyRepo) Stats(ctx context.Context) (PropertyStats, error) {
	var s PropertyStats
	err := r.db.QueryRow(ctx, `
        SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE status='available'),
            COUNT(*) FILTER (WHERE status='rented'),
            COUNT(*) FILTER (WHERE status='maintenance')
        FROM properties
    `).Scan(&s.Total, &s.Available, &s.Rented, &s.Maintenance)
	return s, err
}

func (r *propertyRepo) UpdateIfVersion(ctx context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error) {
	sql, args := versionedTail(`
        UPDATE properties SET
            title=$1, description=$2, property_type=$3, status=$4, furnishing=$5,
            area_sqft=$6, bedrooms=$7, bathrooms=$8, floors=$9, utilities=$10,
            lease_term=$11, application_fee=$12, amenities=$13, pet_policy=$14,
            appliances_included=$15, property_management_contact=$16, website=$17,
            price=$18, deposit=$19, address=$20, city=$21, state=$22, pincode=$23,
            latitude=$24, longitude=$25, available_from=$26, updated_at=NOW()`,
		[]any{
			p.Title, p.Description, p.PropertyType, p.Status, p.Furnishing,
			p.AreaSqft, p.Bedrooms, p.Bathrooms, p.Floors, nonNil(p.Utilities),
			p.LeaseTerm, p.ApplicationFee, nonNil(p.Amenities), p.PetPolicy,
			nonNil(p.AppliancesIncluded), p.PropertyManagementContact, p.Website,
			p.Price, p.Deposit, p.Address, p.City, p.State, p.Pincode,
			p.Latitude, p.Longitude, p.AvailableFrom,
		},
		p.ID, true, expected,
	)
	return r.db.Exec(ctx, sql, args...)
}

func (r *propertyRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

// Delete removes the property; property_media rows cascade via FK.
func (r *propertyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM property_media WHERE property_id=$1`, id); err != nil {
			return err
		}
		return deleteByID(ctx, tx, "properties", id)
	})
}

func (r *propertyRepo) AddMedia(ctx context.Context, m *models.PropertyMedia) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO property_media (id, property_id, media_type, url, is_cover, created_at)
        VALUES ($1,$2,$3,$4,$5, NOW())
    `, m.ID, m.PropertyID, m.MediaType, m.URL, m.IsCover)
	return err
}

func (r *propertyRepo) ListMedia(ctx context.Context, propertyIDs ...uuid.UUID) ([]*models.PropertyMedia, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}
	return queryAll(ctx, r.db, scanMedia, `
        SELECT id, property_id, media_type, url, is_cover, created_at
        FROM property_media WHERE property_id = ANY($1)
        ORDER BY created_at
    `, propertyIDs)
}

func (r *propertyRepo) RemoveMedia(ctx context.Context, propertyID uuid.UUID, mediaIDs []uuid.UUID) error {
	if len(mediaIDs) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `DELETE FROM property_media WHERE property_id=$1 AND id = ANY($2)`, propertyID, mediaIDs)
	return err
}

func (r *propertyRepo) SetCover(ctx context.Context, propertyID, mediaID uuid.UUID) error {
	return WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE property_media SET is_cover=FALSE WHERE property_id=$1`, propertyID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `UPDATE property_media SET is_cover=TRUE WHERE property_id=$1 AND id=$2`, propertyID, mediaID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
}

func (r *propertyRepo) ListCoverImages(ctx context.Context) ([]*CoverImage, error) {
	return queryAll(ctx, r.db, func(row pgx.Row) (*CoverImage, error) {
		var c CoverImage
		err := row.Scan(&c.ID, &c.PropertyID, &c.MediaType, &c.URL, &c.IsCover, &c.CreatedAt, &c.PropertyTitle)
		return &c, err
	}, `
        SELECT m.id, m.property_id, m.media_type, m.url, m.is_cover, m.created_at, p.title
        FROM property_media m JOIN properties p ON p.id = m.property_id
        WHERE m.is_cover
        ORDER BY p.created_at DESC
    `)
}

func (r *propertyRepo) attachMedia(ctx context.Context, props []*models.Property) error {
	if len(props) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(props))
	byID := make(map[uuid.UUID]*models.Property, len(props))
	for i, p := range props {
		ids[i] = p.ID
		byID[p.ID] = p
		p.Media = []*models.PropertyMedia{}
	}
	media, err := r.ListMedia(ctx, ids...)
	if err != nil {
		return err
	}
	for _, m := range media {
		if p, ok := byID[m.PropertyID]; ok {
			p.Media = append(p.Media, m)
		}
	}
	return nil
}

func baseSelectProperty() string {
	return `
        SELECT
            id, title, description, property_type, status, furnishing, area_sqft,
            bedrooms, bathrooms, floors, utilities, lease_term, application_fee,
            amenities, pet_policy, appliances_included, property_management_contact,
            website, price, deposit, address, city, state, pincode, latitude,
            longitude, available_from, created_at, updated_at, row_version
        FROM properties
    `
}

func scanProperty(row pgx.Row) (*models.Property, error) {
	var (
		p             models.Property
		availableFrom pgtype.Date
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.PropertyType, &p.Status, &p.Furnishing, &p.AreaSqft,
		&p.Bedrooms, &p.Bathrooms, &p.Floors, &p.Utilities, &p.LeaseTerm, &p.ApplicationFee,
		&p.Amenities, &p.PetPolicy, &p.AppliancesIncluded, &p.PropertyManagementContact,
		&p.Website, &p.Price, &p.Deposit, &p.Address, &p.City, &p.State, &p.Pincode, &p.Latitude,
		&p.Longitude, &availableFrom, &p.CreatedAt, &p.UpdatedAt, &p.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if availableFrom.Status == pgtype.Present {
		t := availableFrom.Time
		p.AvailableFrom = &t
	}
	return &p, nil
}

func scanMedia(row pgx.Row) (*models.PropertyMedia, error) {
	var m models.PropertyMedia
	if err := row.Scan(&m.ID, &m.PropertyID, &m.MediaType, &m.URL, &m.IsCover, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}
