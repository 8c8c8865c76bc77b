package services

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propnest/rental-backend/internal/config"
	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/models"
)

func newTestApplicationService() (*ApplicationService, *memApplicationRepo, *fakeMailer) {
	cfg := &config.Config{DBEncryptionKey: []byte(strings.Repeat("k", 32))}
	repo := newMemApplicationRepo()
	mailer := &fakeMailer{}
	return NewApplicationService(cfg, repo, mailer, nil), repo, mailer
}

func validApplication() dtos.SubmitApplicationRequest {
	return dtos.SubmitApplicationRequest{
		FullName:                 "Meera Iyer",
		Email:                    "Meera@Example.com",
		Phone:                    "9876543210",
		SSN:                      strPtr("123-45-6789"),
		AccountNumber:            strPtr("000111222333"),
		RoutingNumber:            strPtr("021000021"),
		SignatureName:            strPtr("Meera Iyer"),
		AgreeToLeaseTerms:        true,
		AgreeToPrivacyPolicy:     true,
		ConsentToBackgroundCheck: true,
	}
}

func TestApplicationService_SubmitRequiresAgreements(t *testing.T) {
	svc, _, _ := newTestApplicationService()

	for _, drop := range []func(*dtos.SubmitApplicationRequest){
		func(r *dtos.SubmitApplicationRequest) { r.AgreeToLeaseTerms = false },
		func(r *dtos.SubmitApplicationRequest) { r.AgreeToPrivacyPolicy = false },
		func(r *dtos.SubmitApplicationRequest) { r.ConsentToBackgroundCheck = false },
	} {
		req := validApplication()
		drop(&req)
		_, err := svc.Submit(context.Background(), req)
		assert.Equal(t, http.StatusBadRequest, appErrStatus(t, err))
	}
}

func TestApplicationService_SubmitEncryptsAndMasks(t *testing.T) {
	svc, repo, mailer := newTestApplicationService()
	ctx := context.Background()

	out, err := svc.Submit(ctx, validApplication())
	require.NoError(t, err)

	assert.Equal(t, models.ApplicationPending, out.Status)
	assert.Equal(t, "meera@example.com", out.Email)
	assert.Equal(t, "****6789", *out.SSN)
	assert.Equal(t, "****2333", *out.AccountNumber)
	assert.False(t, out.CreatedAt.IsZero())
	assert.Nil(t, out.BankName)

	stored := repo.apps[out.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "123-45-6789", *stored.SSN)
	assert.NotEqual(t, "000111222333", *stored.AccountNumber)

	full, err := svc.Get(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, "123-45-6789", *full.SSN)
	assert.Equal(t, "021000021", *full.RoutingNumber)

	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].Body, out.ID.String())
	require.Len(t, mailer.admin, 1)
}

func TestApplicationService_ListMasks(t *testing.T) {
	svc, _, _ := newTestApplicationService()
	ctx := context.Background()

	_, err := svc.Submit(ctx, validApplication())
	require.NoError(t, err)

	res, err := svc.List(ctx, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, res.Applications, 1)
	assert.Equal(t, "****6789", *res.Applications[0].SSN)

	bogus := models.ApplicationStatus("archived")
	_, err = svc.List(ctx, &bogus, 10, 0)
	assert.Equal(t, http.StatusBadRequest, appErrStatus(t, err))
}

func TestApplicationService_GetMissing(t *testing.T) {
	svc, _, _ := newTestApplicationService()
	_, err := svc.Get(context.Background(), uuid.New())
	assert.Equal(t, http.StatusNotFound, appErrStatus(t, err))
}

func TestApplicationService_UpdateStatusRejectsPending(t *testing.T) {
	svc, _, _ := newTestApplicationService()
	_, err := svc.UpdateStatus(context.Background(), uuid.New(), models.ApplicationPending)
	assert.Equal(t, http.StatusBadRequest, appErrStatus(t, err))
}
