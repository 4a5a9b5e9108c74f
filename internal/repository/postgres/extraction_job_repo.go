package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"billdex/internal/domain"
	"billdex/internal/port"
)

type extractionJobRepo struct {
	db *sqlx.DB
}

// NewExtractionJobRepository returns the PostgreSQL extraction job repository.
func NewExtractionJobRepository(db *sqlx.DB) port.ExtractionJobRepository {
	return &extractionJobRepo{db: db}
}

func (r *extractionJobRepo) Create(ctx context.Context, job *domain.ExtractionJob) error {
	query := `
		INSERT INTO extraction_jobs (
			id, file_id, source_file, status, error, extracted_bills, duplicates,
			pages_processed, started_at, finished_at, created_at, updated_at
		) VALUES (
			:id, :file_id, :source_file, :status, :error, :extracted_bills, :duplicates,
			:pages_processed, :started_at, :finished_at, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("inserting extraction job: %w", err)
	}
	return nil
}

func (r *extractionJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractionJob, error) {
	var job domain.ExtractionJob
	err := r.db.GetContext(ctx, &job, `SELECT * FROM extraction_jobs WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting extraction job %s: %w", id, err)
	}
	return &job, nil
}

func (r *extractionJobRepo) MarkCompleted(ctx context.Context, id uuid.UUID, bills json.RawMessage, pages int) error {
	// Guarding on status keeps completed and failed terminal.
	query := `
		UPDATE extraction_jobs
		SET status = $1, extracted_bills = $2, pages_processed = $3,
		    finished_at = NOW(), updated_at = NOW()
		WHERE id = $4 AND status = $5`

	return r.finalize(ctx, query, domain.JobStatusCompleted, bills, pages, id, domain.JobStatusProcessing)
}

func (r *extractionJobRepo) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, bills, duplicates json.RawMessage) error {
	query := `
		UPDATE extraction_jobs
		SET status = $1, error = $2, extracted_bills = $3, duplicates = $4,
		    finished_at = NOW(), updated_at = NOW()
		WHERE id = $5 AND status = $6`

	return r.finalize(ctx, query, domain.JobStatusFailed, errMsg, bills, duplicates, id, domain.JobStatusProcessing)
}

func (r *extractionJobRepo) finalize(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("finalizing extraction job: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
