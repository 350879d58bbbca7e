package http

// StatusError is the value of "status" in every failure body.
const StatusError = "error"

// ErrorBody is the uniform failure payload.
type ErrorBody struct {
	Status  string            `json:"status" example:"error"`
	Message string            `json:"message" example:"Invalid YouTube URL"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"url"`
	Message string                 `json:"message,omitempty" example:"url is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}
