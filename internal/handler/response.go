package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"billdex/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondAccepted sends a 202 for asynchronous work.
func RespondAccepted(c *gin.Context, data interface{}) {
	c.JSON(http.StatusAccepted, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrServiceDisabled):
		return http.StatusServiceUnavailable, "OCR_SERVICE_DISABLED", "ocr extraction is currently disabled"
	case errors.Is(err, domain.ErrQuotaExhausted):
		return http.StatusTooManyRequests, "OCR_QUOTA_EXHAUSTED", "monthly ocr quota exhausted"
	case errors.Is(err, domain.ErrDuplicateBill):
		return http.StatusConflict, "DUPLICATE_BILLS_IN_SYSTEM", "one or more bills already exist in the system"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, jpg, png"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrFileNotReady):
		return http.StatusConflict, "FILE_NOT_READY", "file is not available for extraction"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	case errors.Is(err, domain.ErrNoTextExtracted):
		return http.StatusUnprocessableEntity, "NO_TEXT_EXTRACTED", "ocr produced no usable text"
	case errors.Is(err, domain.ErrExtractionFailed):
		return http.StatusBadGateway, "EXTRACTION_FAILED", "extraction failed; try again later"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
// Duplicate and quota errors carry structured details the client needs to
// act, so they get richer payloads than the plain mapping.
func HandleError(c *gin.Context, err error) {
	var dupErr *domain.DuplicateBillsError
	if errors.As(err, &dupErr) {
		c.JSON(http.StatusConflict, APIResponse{
			Success: false,
			Error: &APIError{
				Code:    "DUPLICATE_BILLS_IN_SYSTEM",
				Message: dupErr.Error(),
				Details: gin.H{"duplicates": dupErr.Duplicates},
			},
		})
		return
	}

	var quotaErr *domain.QuotaExhaustedError
	if errors.As(err, &quotaErr) {
		c.JSON(http.StatusTooManyRequests, APIResponse{
			Success: false,
			Error: &APIError{
				Code:    "OCR_QUOTA_EXHAUSTED",
				Message: quotaErr.Error(),
				Details: gin.H{
					"reset_at":          quotaErr.ResetAt,
					"price_per_request": quotaErr.PricePerRequest,
				},
			},
		})
		return
	}

	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%v] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
