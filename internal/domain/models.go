package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FileMeta stores metadata about an uploaded file.
type FileMeta struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	FileName     string     `db:"file_name" json:"file_name"`
	OriginalName string     `db:"original_name" json:"original_name"`
	FileType     FileType   `db:"file_type" json:"file_type"`
	FileSize     int64      `db:"file_size" json:"file_size"`
	ContentHash  string     `db:"content_hash" json:"content_hash"`
	S3Bucket     string     `db:"s3_bucket" json:"s3_bucket"`
	S3Key        string     `db:"s3_key" json:"s3_key"`
	ContentType  string     `db:"content_type" json:"content_type"`
	Status       FileStatus `db:"status" json:"status"`
	UploadedBy   *uuid.UUID `db:"uploaded_by" json:"uploaded_by,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// ParsedBill is the result of parsing one page of OCR text. BillNo and
// Amount are nil when the field could not be extracted.
type ParsedBill struct {
	BillNo     *string          `json:"bill_no"`
	Amount     *decimal.Decimal `json:"amount"`
	Page       int              `json:"page"`
	Confidence Confidence       `json:"confidence"`
}

// Key returns the bill key for this parsed bill, or "" when the bill has no
// usable identity (missing bill number or non-positive amount).
func (b ParsedBill) Key() string {
	if b.BillNo == nil || b.Amount == nil {
		return ""
	}
	return BuildBillKey(*b.BillNo, *b.Amount)
}

// BillIndexEntry is one row of the canonical bill uniqueness index. Entries
// are created once per unique bill and never mutated; they are deleted only
// when the upload that produced them is deleted.
type BillIndexEntry struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	BillKey      string          `db:"bill_key" json:"bill_key"`
	BillNumber   string          `db:"bill_number" json:"bill_number"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	SourceFile   string          `db:"source_file" json:"source_file"`
	SourceFileID uuid.UUID       `db:"source_file_id" json:"source_file_id"`
	SourceOwner  *uuid.UUID      `db:"source_owner" json:"source_owner,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// DuplicateBill describes one duplicate detected during extraction, with
// enough attribution about the prior entry for an actionable message.
type DuplicateBill struct {
	BillKey       string           `json:"bill_key,omitempty"`
	BillNumber    string           `json:"bill_number,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Page          int              `json:"page,omitempty"`
	Scope         DuplicateScope   `json:"scope"`
	ExistingFile  string           `json:"existing_file,omitempty"`
	ExistingOwner *uuid.UUID       `json:"existing_owner,omitempty"`
	FirstSeenAt   *time.Time       `json:"first_seen_at,omitempty"`
}

// QuotaPeriod holds one calendar month's free/paid OCR usage counters.
// A row is created lazily on first touch with zero counters.
type QuotaPeriod struct {
	MonthKey       string          `db:"month_key" json:"month_key"`
	FreeUsed       int             `db:"free_used" json:"free_used"`
	FreeLimit      int             `db:"free_limit" json:"free_limit"`
	PaidUsed       int             `db:"paid_used" json:"paid_used"`
	PaidAmount     decimal.Decimal `db:"paid_amount" json:"paid_amount"`
	CostPerRequest decimal.Decimal `db:"cost_per_request" json:"cost_per_request"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// ExtractionJob tracks one asynchronous multi-page extraction. The record is
// created in processing state and mutated only by the background pipeline;
// completed and failed are terminal.
type ExtractionJob struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	FileID         uuid.UUID       `db:"file_id" json:"file_id"`
	SourceFile     string          `db:"source_file" json:"source_file"`
	Status         JobStatus       `db:"status" json:"status"`
	Error          string          `db:"error" json:"error,omitempty"`
	ExtractedBills json.RawMessage `db:"extracted_bills" json:"extracted_bills,omitempty"`
	Duplicates     json.RawMessage `db:"duplicates" json:"duplicates,omitempty"`
	PagesProcessed int             `db:"pages_processed" json:"pages_processed"`
	StartedAt      time.Time       `db:"started_at" json:"started_at"`
	FinishedAt     *time.Time      `db:"finished_at" json:"finished_at,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// FeatureFlag is an admin-controlled toggle read by the extraction gate.
type FeatureFlag struct {
	Key       string    `db:"key" json:"key"`
	Enabled   bool      `db:"enabled" json:"enabled"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
