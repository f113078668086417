package response

// Response represents a standard API response format
type Response struct {
	Status     string            `json:"status"`      // "success" or "error"
	StatusCode int               `json:"status_code"` // HTTP status code
	Data       interface{}       `json:"data,omitempty"`
	Error      string            `json:"error,omitempty"`
	Code       string            `json:"code,omitempty"`   // machine-readable error code, e.g. SESSION_EXPIRED
	Fields     map[string]string `json:"fields,omitempty"` // per-field validation messages
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}

// ErrorWithCode returns an error response that also names the error code and,
// for validation failures, the offending fields
func ErrorWithCode(statusCode int, code, err string, fields map[string]string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
		Code:       code,
		Fields:     fields,
	}
}

// Page is the data shape of every paginated list
type Page struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}
