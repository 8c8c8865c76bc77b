package services

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/repositories"
)

type memTeamRepo struct {
	repositories.TeamRepository
	members map[uuid.UUID]*models.Team
}

func newMemTeamRepo() *memTeamRepo {
	return &memTeamRepo{members: map[uuid.UUID]*models.Team{}}
}

func (r *memTeamRepo) Create(_ context.Context, t *models.Team) error {
	cp := *t
	r.members[t.ID] = &cp
	return nil
}

func (r *memTeamRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Team, error) {
	t, ok := r.members[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *memTeamRepo) GetByEmail(_ context.Context, email string) (*models.Team, error) {
	for _, t := range r.members {
		if strings.EqualFold(t.Email, email) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memTeamRepo) List(context.Context) ([]*models.Team, error) {
	var out []*models.Team
	for _, t := range r.members {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memTeamRepo) UpdateWithRetry(_ context.Context, id uuid.UUID, mutate func(*models.Team) error) error {
	t, ok := r.members[id]
	if !ok {
		return pgx.ErrNoRows
	}
	cp := *t
	if err := mutate(&cp); err != nil {
		return err
	}
	r.members[id] = &cp
	return nil
}

func (r *memTeamRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.members[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.members, id)
	return nil
}

func TestTeamService_CreateRejectsDuplicateEmail(t *testing.T) {
	svc := NewTeamService(newMemTeamRepo(), nil)
	ctx := context.Background()

	m, err := svc.Create(ctx, dtos.CreateTeamMemberRequest{
		Name: " Asha Rao ", Email: "Asha@PropNest.in", PositionName: strPtr(" Leasing Lead "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", m.Name)
	assert.Equal(t, "asha@propnest.in", m.Email)
	assert.Equal(t, "Leasing Lead", *m.PositionName)
	assert.Nil(t, m.Photo)

	_, err = svc.Create(ctx, dtos.CreateTeamMemberRequest{Name: "Other Asha", Email: "asha@propnest.in"})
	assert.Equal(t, http.StatusConflict, appErrStatus(t, err))
}

func TestTeamService_UpdateEmail(t *testing.T) {
	svc := NewTeamService(newMemTeamRepo(), nil)
	ctx := context.Background()

	asha, err := svc.Create(ctx, dtos.CreateTeamMemberRequest{Name: "Asha", Email: "asha@propnest.in"})
	require.NoError(t, err)
	vikram, err := svc.Create(ctx, dtos.CreateTeamMemberRequest{Name: "Vikram", Email: "vikram@propnest.in"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, vikram.ID, dtos.UpdateTeamMemberRequest{Email: strPtr("ASHA@propnest.in")})
	assert.Equal(t, http.StatusConflict, appErrStatus(t, err))

	// Keeping your own address is not a conflict.
	got, err := svc.Update(ctx, asha.ID, dtos.UpdateTeamMemberRequest{
		Email: strPtr("asha@propnest.in"),
		Name:  strPtr("Asha R"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha R", got.Name)

	got, err = svc.Update(ctx, vikram.ID, dtos.UpdateTeamMemberRequest{Email: strPtr(" Vik@PropNest.in ")})
	require.NoError(t, err)
	assert.Equal(t, "vik@propnest.in", got.Email)
}

func TestTeamService_Missing(t *testing.T) {
	svc := NewTeamService(newMemTeamRepo(), nil)
	ctx := context.Background()

	_, err := svc.Get(ctx, uuid.New())
	assert.Equal(t, http.StatusNotFound, appErrStatus(t, err))
	_, err = svc.Update(ctx, uuid.New(), dtos.UpdateTeamMemberRequest{Name: strPtr("Nobody")})
	assert.Equal(t, http.StatusNotFound, appErrStatus(t, err))
	assert.Equal(t, http.StatusNotFound, appErrStatus(t, svc.Delete(ctx, uuid.New())))
}

func TestTeamService_ListAndDelete(t *testing.T) {
	svc := NewTeamService(newMemTeamRepo(), nil)
	ctx := context.Background()

	members, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, members)
	assert.Empty(t, members)

	m, err := svc.Create(ctx, dtos.CreateTeamMemberRequest{Name: "Asha", Email: "asha@propnest.in"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, m.ID))

	members, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, members)
}
