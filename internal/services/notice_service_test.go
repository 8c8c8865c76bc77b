package services

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/utils"
)

func appErrStatus(t *testing.T, err error) int {
	t.Helper()
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected *utils.AppError, got %T: %v", err, err)
	return appErr.StatusCode
}

func TestNoticeService_CreateAndDownload(t *testing.T) {
	ctx := context.Background()
	svc := NewNoticeService(newMemNoticeRepo(), nil)

	body := "Water supply will be off on Monday between 10 and 12."
	n, err := svc.Create(ctx, dtos.CreateNoticeRequest{
		Title:            "  Water shut-off ",
		NoticeFile:       strPtr(base64.StdEncoding.EncodeToString([]byte(body))),
		OriginalFilename: strPtr("notices/water.txt"),
		IsActive:         utils.Ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "Water shut-off", n.Title)
	assert.Equal(t, "text/plain", utils.Val(n.FileType))
	assert.Equal(t, "water.txt", utils.Val(n.OriginalFilename))
	assert.True(t, n.IsActive)

	file, err := svc.Download(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "water.txt", file.Filename)
	assert.Equal(t, "text/plain", file.ContentType)
	assert.Equal(t, body, string(file.Data))
}

func TestNoticeService_DownloadFallbackName(t *testing.T) {
	ctx := context.Background()
	svc := NewNoticeService(newMemNoticeRepo(), nil)

	n, err := svc.Create(ctx, dtos.CreateNoticeRequest{
		Title:      "Rent reminder",
		NoticeFile: strPtr(base64.StdEncoding.EncodeToString([]byte("Rent is due on the 5th."))),
	})
	require.NoError(t, err)
	assert.Nil(t, n.OriginalFilename)

	file, err := svc.Download(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "notice_"+n.ID.String()+".txt", file.Filename)
}

func TestNoticeService_DownloadWithoutFile(t *testing.T) {
	ctx := context.Background()
	svc := NewNoticeService(newMemNoticeRepo(), nil)

	n, err := svc.Create(ctx, dtos.CreateNoticeRequest{Title: "Lift maintenance"})
	require.NoError(t, err)

	_, err = svc.Download(ctx, n.ID)
	assert.Equal(t, http.StatusNotFound, appErrStatus(t, err))

	_, err = svc.Download(ctx, uuid.New())
	assert.Equal(t, http.StatusNotFound, appErrStatus(t, err))
}

func TestNoticeService_RejectsUnsupportedFile(t *testing.T) {
	svc := NewNoticeService(newMemNoticeRepo(), nil)
	elf := base64.StdEncoding.EncodeToString([]byte{0x7f, 'E', 'L', 'F', 2, 1, 1, 0})

	_, err := svc.Create(context.Background(), dtos.CreateNoticeRequest{Title: "Bad", NoticeFile: &elf})
	assert.Equal(t, http.StatusBadRequest, appErrStatus(t, err))
}

func TestNoticeService_Update(t *testing.T) {
	ctx := context.Background()
	svc := NewNoticeService(newMemNoticeRepo(), nil)

	_, err := svc.Update(ctx, uuid.New(), dtos.UpdateNoticeRequest{})
	assert.Equal(t, http.StatusBadRequest, appErrStatus(t, err))

	_, err = svc.Update(ctx, uuid.New(), dtos.UpdateNoticeRequest{Title: strPtr("x")})
	assert.Equal(t, http.StatusNotFound, appErrStatus(t, err))

	n, err := svc.Create(ctx, dtos.CreateNoticeRequest{Title: "Old title"})
	require.NoError(t, err)
	updated, err := svc.Update(ctx, n.ID, dtos.UpdateNoticeRequest{Title: strPtr(" New title "), IsActive: utils.Ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.True(t, updated.IsActive)
}

func TestNoticeService_ActiveToggles(t *testing.T) {
	ctx := context.Background()
	svc := NewNoticeService(newMemNoticeRepo(), nil)

	n, err := svc.Create(ctx, dtos.CreateNoticeRequest{Title: "Parking"})
	require.NoError(t, err)
	require.False(t, n.IsActive)

	res, err := svc.SetActive(ctx, n.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "Notice is already inactive", res.Message)

	res, err = svc.SetActive(ctx, n.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "Notice activated successfully", res.Message)
	assert.True(t, res.Notice.IsActive)

	res, err = svc.ToggleActive(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "Notice deactivated successfully", res.Message)
	assert.False(t, res.Notice.IsActive)

	require.NoError(t, svc.Delete(ctx, n.ID))
	assert.Equal(t, http.StatusNotFound, appErrStatus(t, svc.Delete(ctx, n.ID)))
}
