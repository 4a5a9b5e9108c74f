package port

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"billdex/internal/domain"
)

// FileMetaRepository persists uploaded file metadata.
type FileMetaRepository interface {
	Create(ctx context.Context, meta *domain.FileMeta) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FileMeta, error)
	// FindProcessedByHash returns the most recent processed file with the
	// given content hash, excluding the file being checked. Returns
	// domain.ErrNotFound when no match exists.
	FindProcessedByHash(ctx context.Context, hash string, excludeID uuid.UUID) (*domain.FileMeta, error)
	List(ctx context.Context, limit, offset int) ([]domain.FileMeta, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.FileStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BillIndexRepository persists the canonical bill uniqueness index.
type BillIndexRepository interface {
	// InsertBatch inserts all entries in one transaction. If any entry
	// violates the unique bill key constraint, nothing is inserted and the
	// error wraps domain.ErrDuplicateBill.
	InsertBatch(ctx context.Context, entries []domain.BillIndexEntry) error
	// FindByKeys returns the existing entries among the given keys.
	FindByKeys(ctx context.Context, keys []string) ([]domain.BillIndexEntry, error)
	List(ctx context.Context, limit, offset int) ([]domain.BillIndexEntry, error)
	ListAll(ctx context.Context) ([]domain.BillIndexEntry, error)
	DeleteBySourceFile(ctx context.Context, fileID uuid.UUID) (int64, error)
}

// QuotaRepository persists per-month OCR usage counters.
type QuotaRepository interface {
	// GetOrCreate returns the quota row for the month, creating it with
	// zeroed counters and configured defaults if absent.
	GetOrCreate(ctx context.Context, monthKey string) (*domain.QuotaPeriod, error)
	// Increment atomically adds count calls to the month's bucket for the
	// given billing mode. Paid increments also accrue the charge.
	Increment(ctx context.Context, monthKey string, mode domain.BillingMode, count int) error
}

// ExtractionJobRepository persists asynchronous extraction jobs.
type ExtractionJobRepository interface {
	Create(ctx context.Context, job *domain.ExtractionJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractionJob, error)
	// MarkCompleted transitions a processing job to completed. Terminal
	// jobs are never updated.
	MarkCompleted(ctx context.Context, id uuid.UUID, bills json.RawMessage, pages int) error
	// MarkFailed transitions a processing job to failed, recording the
	// error and any partial findings for diagnostics.
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, bills, duplicates json.RawMessage) error
}

// FeatureFlagRepository persists admin-controlled toggles.
type FeatureFlagRepository interface {
	// Get returns domain.ErrNotFound when the flag has never been set.
	Get(ctx context.Context, key string) (*domain.FeatureFlag, error)
	Set(ctx context.Context, key string, enabled bool) error
}
