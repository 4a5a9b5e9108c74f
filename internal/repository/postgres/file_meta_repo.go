package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"billdex/internal/domain"
	"billdex/internal/port"
)

type fileMetaRepo struct {
	db *sqlx.DB
}

// NewFileMetaRepository returns the PostgreSQL file metadata repository.
func NewFileMetaRepository(db *sqlx.DB) port.FileMetaRepository {
	return &fileMetaRepo{db: db}
}

func (r *fileMetaRepo) Create(ctx context.Context, meta *domain.FileMeta) error {
	query := `
		INSERT INTO file_meta (
			id, file_name, original_name, file_type, file_size, content_hash,
			s3_bucket, s3_key, content_type, status, uploaded_by, created_at, updated_at
		) VALUES (
			:id, :file_name, :original_name, :file_type, :file_size, :content_hash,
			:s3_bucket, :s3_key, :content_type, :status, :uploaded_by, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, meta); err != nil {
		return fmt.Errorf("inserting file meta: %w", err)
	}
	return nil
}

func (r *fileMetaRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.FileMeta, error) {
	var meta domain.FileMeta
	err := r.db.GetContext(ctx, &meta, `SELECT * FROM file_meta WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting file meta %s: %w", id, err)
	}
	return &meta, nil
}

func (r *fileMetaRepo) FindProcessedByHash(ctx context.Context, hash string, excludeID uuid.UUID) (*domain.FileMeta, error) {
	var meta domain.FileMeta
	query := `
		SELECT * FROM file_meta
		WHERE content_hash = $1 AND status = $2 AND id != $3
		ORDER BY created_at DESC
		LIMIT 1`

	err := r.db.GetContext(ctx, &meta, query, hash, domain.FileStatusProcessed, excludeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding file by hash: %w", err)
	}
	return &meta, nil
}

func (r *fileMetaRepo) List(ctx context.Context, limit, offset int) ([]domain.FileMeta, error) {
	files := []domain.FileMeta{}
	query := `
		SELECT * FROM file_meta
		WHERE status != $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	if err := r.db.SelectContext(ctx, &files, query, domain.FileStatusDeleted, limit, offset); err != nil {
		return nil, fmt.Errorf("listing file meta: %w", err)
	}
	return files, nil
}

func (r *fileMetaRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.FileStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE file_meta SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	if err != nil {
		return fmt.Errorf("updating file status: %w", err)
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

func (r *fileMetaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.UpdateStatus(ctx, id, domain.FileStatusDeleted)
}
