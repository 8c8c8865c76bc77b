package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/propnest/rental-backend/internal/constants"
	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/services"
	"github.com/propnest/rental-backend/internal/utils"
)

type NoticeController struct {
	noticeService *services.NoticeService
	validate      *validator.Validate
}

func NewNoticeController(noticeService *services.NoticeService) *NoticeController {
	return &NoticeController{noticeService: noticeService, validate: newValidator()}
}

// POST /api/admin/notices
func (c *NoticeController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateNoticeRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	n, err := c.noticeService.Create(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.NoticeResponse{Message: "Notice created successfully", Notice: n})
}

// PUT /api/admin/notices/{id}
func (c *NoticeController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req dtos.UpdateNoticeRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	n, err := c.noticeService.Update(r.Context(), id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NoticeResponse{Message: "Notice updated successfully", Notice: n})
}

// DELETE /api/admin/notices/{id}
func (c *NoticeController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.noticeService.Delete(r.Context(), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Notice deleted successfully")
}

func (c *NoticeController) list(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	limit := utils.QueryInt(r, "limit", constants.DefaultNoticeLimit, 1, constants.MaxPageLimit)
	offset := utils.QueryInt(r, "offset", 0, 0, 0)
	resp, err := c.noticeService.List(r.Context(), activeOnly, utils.QueryString(r, "search"), limit, offset)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GET /api/admin/notices
func (c *NoticeController) ListHandler(w http.ResponseWriter, r *http.Request) {
	c.list(w, r, false)
}

// GET /api/public/notices/active
func (c *NoticeController) ListActiveHandler(w http.ResponseWriter, r *http.Request) {
	c.list(w, r, true)
}

// GET /api/admin/notices/{id}
func (c *NoticeController) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	n, err := c.noticeService.Get(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, n)
}

// PATCH /api/admin/notices/{id}/toggle-active
func (c *NoticeController) ToggleActiveHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	resp, err := c.noticeService.ToggleActive(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// PUT /api/admin/notices/{id}/set-active
func (c *NoticeController) SetActiveHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req dtos.SetNoticeActiveRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}
	resp, err := c.noticeService.SetActive(r.Context(), id, *req.IsActive)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GET /api/notices/{id}/download and /api/admin/notices/{id}/download
func (c *NoticeController) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	file, err := c.noticeService.Download(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		utils.Logger.WithError(err).Warnf("Notice %s download interrupted", id)
	}
}
