package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billdex/internal/domain"
	"billdex/internal/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func handleOn(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	handler.HandleError(c, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHandleErrorDuplicates(t *testing.T) {
	amount := decimal.NewFromInt(100)
	w, body := handleOn(t, &domain.DuplicateBillsError{Duplicates: []domain.DuplicateBill{
		{
			BillKey:      "inv-1_100.00",
			BillNumber:   "INV-1",
			Amount:       &amount,
			Page:         3,
			Scope:        domain.DuplicateScopeIndex,
			ExistingFile: "earlier.pdf",
		},
	}})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, false, body["success"])

	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "DUPLICATE_BILLS_IN_SYSTEM", errObj["code"])

	details := errObj["details"].(map[string]interface{})
	dups := details["duplicates"].([]interface{})
	require.Len(t, dups, 1)
	first := dups[0].(map[string]interface{})
	assert.Equal(t, "earlier.pdf", first["existing_file"])
	assert.Equal(t, "index", first["scope"])
}

func TestHandleErrorQuotaExhausted(t *testing.T) {
	resetAt := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	w, body := handleOn(t, &domain.QuotaExhaustedError{
		ResetAt:         resetAt,
		PricePerRequest: decimal.RequireFromString("0.10"),
	})

	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "OCR_QUOTA_EXHAUSTED", errObj["code"])

	details := errObj["details"].(map[string]interface{})
	assert.Contains(t, details["reset_at"], "2026-09-01")
	assert.NotNil(t, details["price_per_request"])
}

func TestHandleErrorSentinels(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrServiceDisabled, http.StatusServiceUnavailable, "OCR_SERVICE_DISABLED"},
		{domain.ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{domain.ErrFileNotReady, http.StatusConflict, "FILE_NOT_READY"},
		{domain.ErrExtractionFailed, http.StatusBadGateway, "EXTRACTION_FAILED"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			w, body := handleOn(t, tt.err)

			assert.Equal(t, tt.status, w.Code)
			errObj := body["error"].(map[string]interface{})
			assert.Equal(t, tt.code, errObj["code"])
		})
	}
}
