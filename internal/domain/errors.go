package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrServiceDisabled     = errors.New("ocr service is disabled")
	ErrQuotaExhausted      = errors.New("monthly ocr quota exhausted")
	ErrDuplicateBill       = errors.New("duplicate bill")
	ErrExtractionFailed    = errors.New("extraction failed")
	ErrNoTextExtracted     = errors.New("ocr produced no usable text")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrFileNotReady        = errors.New("file is not available for extraction")
)

// DuplicateBillsError carries the detected duplicates so the HTTP layer can
// return the standard 409 duplicate contract. It unwraps to ErrDuplicateBill.
type DuplicateBillsError struct {
	Duplicates []DuplicateBill
}

func (e *DuplicateBillsError) Error() string {
	return fmt.Sprintf("duplicate bill: %d duplicate(s) already in system", len(e.Duplicates))
}

func (e *DuplicateBillsError) Unwrap() error { return ErrDuplicateBill }

// QuotaExhaustedError carries the quota metadata for the 429 response.
// It unwraps to ErrQuotaExhausted.
type QuotaExhaustedError struct {
	ResetAt         time.Time
	PricePerRequest decimal.Decimal
}

func (e *QuotaExhaustedError) Error() string {
	return fmt.Sprintf("monthly ocr quota exhausted, resets at %s", e.ResetAt.Format("2006-01-02"))
}

func (e *QuotaExhaustedError) Unwrap() error { return ErrQuotaExhausted }
