package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/utils"
)

type errorBody struct {
	Code    string                       `json:"code"`
	Message string                       `json:"message"`
	Details []dtos.ValidationErrorDetail `json:"details"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestDecodeAndValidate(t *testing.T) {
	v := newValidator()

	t.Run("malformed json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"full_name":`))
		var dst dtos.ScheduleMeetingRequest
		assert.False(t, decodeAndValidate(rec, req, v, &dst))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, utils.ErrCodeInvalidPayload, decodeError(t, rec).Code)
	})

	t.Run("validation details use json names", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(
			`{"full_name":"A","email":"not-an-email","phone":"9876543210","meeting_date":"2026-13-40","meeting_time":"14:00"}`))
		var dst dtos.ScheduleMeetingRequest
		assert.False(t, decodeAndValidate(rec, req, v, &dst))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeError(t, rec)
		assert.Equal(t, utils.ErrCodeValidation, body.Code)
		byField := map[string]dtos.ValidationErrorDetail{}
		for _, d := range body.Details {
			byField[d.Field] = d
		}
		assert.Equal(t, "full_name must be at least 2 characters", byField["full_name"].Message)
		assert.Equal(t, "email must be a valid email address", byField["email"].Message)
		assert.Equal(t, "datetime", byField["meeting_date"].Tag)
		assert.Equal(t, "property_id is required", byField["property_id"].Message)
		assert.NotContains(t, byField, "phone")
	})

	t.Run("valid", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"message":"hello"}`))
		var dst dtos.ApplicationReplyRequest
		assert.True(t, decodeAndValidate(rec, req, v, &dst))
		assert.Equal(t, "hello", dst.Message)
	})
}

func TestPathUUID(t *testing.T) {
	rec := httptest.NewRecorder()
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "42"})
	_, ok := pathUUID(rec, req, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid id", decodeError(t, rec).Message)

	rec = httptest.NewRecorder()
	req = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil),
		map[string]string{"id": "6f1c1f5e-8d53-4b8e-9a1e-1f5d0c7d2a11"})
	id, ok := pathUUID(rec, req, "id")
	assert.True(t, ok)
	assert.Equal(t, "6f1c1f5e-8d53-4b8e-9a1e-1f5d0c7d2a11", id.String())
}
