package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/propnest/rental-backend/internal/dtos"
	"github.com/propnest/rental-backend/internal/utils"
)

const maxJSONBody = 60 << 20

// newValidator reports field names using their JSON tags.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		return fmt.Sprintf("%s must match the format %s", fe.Field(), fe.Param())
	case "gt", "gte", "lt", "lte":
		return fmt.Sprintf("%s is out of range (%s %s)", fe.Field(), fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}

func formatValidationErrors(err error) []dtos.ValidationErrorDetail {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]dtos.ValidationErrorDetail, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, dtos.ValidationErrorDetail{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: validationMessage(fe),
		})
	}
	return out
}

// decodeAndValidate reads a JSON body into dst and validates it. It writes
// the 400 response itself and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return false
	}
	if err := v.Struct(dst); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error",
			formatValidationErrors(err), err)
		return false
	}
	return true
}

// pathUUID parses a mux path variable, writing a 400 when it is malformed.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			fmt.Sprintf("Invalid %s", name), nil, err)
		return uuid.Nil, false
	}
	return id, true
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	utils.RespondWithJSON(w, status, dtos.MessageResponse{Message: message})
}
