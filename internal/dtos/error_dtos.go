package dtos

// ValidationErrorDetail is one failed field in a validation error response.
type ValidationErrorDetail struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthCheckResponse struct {
	Status string `json:"status"`
}
