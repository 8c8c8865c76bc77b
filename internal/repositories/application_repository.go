package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/propnest/rental-backend/internal/models"
)

type ApplicationRepository interface {
	Create(ctx context.Context, a *models.RentalApplication) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.RentalApplication, error)
	List(ctx context.Context, status *models.ApplicationStatus, limit, offset int) ([]*models.RentalApplication, int64, error)
	CountByStatus(ctx context.Context, status models.ApplicationStatus) (int64, error)
	UpdateIfVersion(ctx context.Context, a *models.RentalApplication, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.RentalApplication) error) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type applicationRepo struct {
	*BaseVersionedRepo[*models.RentalApplication]
	db DB
}

func NewApplicationRepository(db DB) ApplicationRepository {
	r := &applicationRepo{db: db}
	r.BaseVersionedRepo = NewBaseRepo(db, baseSelectApplication()+" WHERE id=$1", scanApplication)
	return r
}

func (r *applicationRepo) Create(ctx context.Context, a *models.RentalApplication) error {
	doc, err := jsonb(a.Document)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
        INSERT INTO rental_applications (
            id, property_id, status, full_name, email, phone, date_of_birth,
            ssn, drivers_license, bank_name, account_type, account_number, routing_number,
            signature_name, payment_method, details, signature_date,
            agree_to_lease_terms, agree_to_privacy_policy, consent_to_background_check,
            desired_move_in, lease_term_months, security_deposit_amount, first_month_rent_amount,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,
                  $21,$22,$23,$24, NOW(), NOW(), 1)
    `,
		a.ID, a.PropertyID, a.Status, a.FullName, a.Email, a.Phone, a.DateOfBirth,
		a.SSN, a.DriversLicense, a.BankName, a.AccountType, a.AccountNumber, a.RoutingNumber,
		a.SignatureName, a.PaymentMethod, doc, a.SignatureDate,
		a.AgreeToLeaseTerms, a.AgreeToPrivacyPolicy, a.ConsentToBackgroundCheck,
		a.DesiredMoveIn, a.LeaseTermMonths, a.SecurityDepositAmount, a.FirstMonthRentAmount,
	)
	return err
}

func (r *applicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.RentalApplication, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *applicationRepo) List(ctx context.Context, status *models.ApplicationStatus, limit, offset int) ([]*models.RentalApplication, int64, error) {
	var w whereBuilder
	if status != nil {
		w.add("status=$%d", *status)
	}
	total, err := count(ctx, r.db, "SELECT COUNT(*) FROM rental_applications"+w.sql(), w.args...)
	if err != nil {
		return nil, 0, err
	}
	sql := baseSelectApplication() + w.sql() + " ORDER BY created_at DESC LIMIT " + w.next(limit) + " OFFSET " + w.next(offset)
	out, err := queryAll(ctx, r.db, scanApplication, sql, w.args...)
	return out, total, err
}

func (r *applicationRepo) CountByStatus(ctx context.Context, status models.ApplicationStatus) (int64, error) {
	return count(ctx, r.db, "SELECT COUNT(*) FROM rental_applications WHERE status=$1", status)
}

// UpdateIfVersion only touches the admin-managed columns.
func (r *applicationRepo) UpdateIfVersion(ctx context.Context, a *models.RentalApplication, expected int64) (pgconn.CommandTag, error) {
	sql, args := versionedTail(`
        UPDATE rental_applications SET
            status=$1, admin_reply=$2, admin_reply_date=$3, replied_by=$4, updated_at=NOW()`,
		[]any{a.Status, a.AdminReply, a.AdminReplyDate, a.RepliedBy},
		a.ID, true, expected,
	)
	return r.db.Exec(ctx, sql, args...)
}

func (r *applicationRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.RentalApplication) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *applicationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, "rental_applications", id)
}

func baseSelectApplication() string {
	return `
        SELECT id, property_id, status, full_name, email, phone, date_of_birth::text,
               ssn, drivers_license, bank_name, account_type, account_number, routing_number,
               signature_name, payment_method, details, signature_date::text,
               agree_to_lease_terms, agree_to_privacy_policy, consent_to_background_check,
               desired_move_in::text, lease_term_months, security_deposit_amount,
               first_month_rent_amount, admin_reply, admin_reply_date, replied_by,
               created_at, updated_at, row_version
        FROM rental_applications
    `
}

func scanApplication(row pgx.Row) (*models.RentalApplication, error) {
	var a models.RentalApplication
	var doc []byte
	err := row.Scan(
		&a.ID, &a.PropertyID, &a.Status, &a.FullName, &a.Email, &a.Phone, &a.DateOfBirth,
		&a.SSN, &a.DriversLicense, &a.BankName, &a.AccountType, &a.AccountNumber, &a.RoutingNumber,
		&a.SignatureName, &a.PaymentMethod, &doc, &a.SignatureDate,
		&a.AgreeToLeaseTerms, &a.AgreeToPrivacyPolicy, &a.ConsentToBackgroundCheck,
		&a.DesiredMoveIn, &a.LeaseTermMonths, &a.SecurityDepositAmount,
		&a.FirstMonthRentAmount, &a.AdminReply, &a.AdminReplyDate, &a.RepliedBy,
		&a.CreatedAt, &a.UpdatedAt, &a.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := unjsonb(doc, &a.Document); err != nil {
		return nil, err
	}
	return &a, nil
}
