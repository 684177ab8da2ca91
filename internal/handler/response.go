package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gstr1/internal/domain"
	"gstr1/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
// Input errors carry the wrapped detail (column, cell, entry name) in the message.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrInvalidArchive):
		return http.StatusBadRequest, "INVALID_ARCHIVE", err.Error()
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: zip"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrUnknownSchemaVersion):
		return http.StatusBadRequest, "UNKNOWN_SCHEMA_VERSION", err.Error()
	case errors.Is(err, domain.ErrSalesFileMissing):
		return http.StatusUnprocessableEntity, "SALES_FILE_MISSING", "archive has no sales file"
	case errors.Is(err, domain.ErrMissingColumn):
		return http.StatusUnprocessableEntity, "MISSING_COLUMN", err.Error()
	case errors.Is(err, domain.ErrMalformedInput):
		return http.StatusUnprocessableEntity, "MALFORMED_INPUT", err.Error()
	case errors.Is(err, domain.ErrInvalidGSTIN):
		return http.StatusUnprocessableEntity, "INVALID_GSTIN", err.Error()
	case errors.Is(err, domain.ErrInvalidPeriod):
		return http.StatusUnprocessableEntity, "INVALID_PERIOD", err.Error()
	case errors.Is(err, domain.ErrTemplateUnavailable):
		return http.StatusBadGateway, "TEMPLATE_UNAVAILABLE", "report template could not be fetched"
	case errors.Is(err, domain.ErrTemplateSheetMissing):
		return http.StatusBadGateway, "TEMPLATE_INVALID", "report template has no raw sheet"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "artifact upload to storage failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		middleware.GetLogger(c).WithError(err).Error("internal error")
	}
	RespondError(c, status, code, msg)
}
