package platformerrors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HTTPErrorResponse is the error envelope of the non-token routes.
type HTTPErrorResponse struct {
	Error *HTTPErrorDetail `json:"error"`
}

// HTTPErrorDetail contains error details for HTTP responses.
type HTTPErrorDetail struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteError logs err and writes it with the status of its error type.
// Errors that are not PlatformErrors are reported as internal errors
// without leaking their message.
func WriteError(c *gin.Context, err error, log zerolog.Logger) {
	pe := GetPlatformError(err)
	if pe == nil {
		pe = NewError(c.Request.Context(), LayerHandler, ErrorTypeInternal, "internal error", err)
	}
	LogError(log, pe)

	c.AbortWithStatusJSON(ErrorTypeToHTTPStatus(pe.Type), HTTPErrorResponse{
		Error: &HTTPErrorDetail{
			Message:   pe.Message,
			Type:      errorTypeToString(pe.Type),
			Code:      pe.UUID,
			RequestID: pe.RequestID,
		},
	})
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(c *gin.Context, message string) {
	write(c, http.StatusNotFound, ErrorTypeNotFound, message)
}

// WriteValidationError writes a 400 Bad Request response.
func WriteValidationError(c *gin.Context, message string) {
	write(c, http.StatusBadRequest, ErrorTypeValidation, message)
}

func write(c *gin.Context, status int, errorType ErrorType, message string) {
	requestID, _ := c.Request.Context().Value(RequestIDContextKey{}).(string)
	c.AbortWithStatusJSON(status, HTTPErrorResponse{
		Error: &HTTPErrorDetail{
			Message:   message,
			Type:      errorTypeToString(errorType),
			RequestID: requestID,
		},
	})
}

func errorTypeToString(t ErrorType) string {
	switch t {
	case ErrorTypeNotFound:
		return "not_found_error"
	case ErrorTypeValidation:
		return "validation_error"
	case ErrorTypeUnauthorized:
		return "unauthorized_error"
	case ErrorTypeNotConfigured:
		return "configuration_error"
	case ErrorTypeExternal:
		return "external_error"
	default:
		return "internal_error"
	}
}
