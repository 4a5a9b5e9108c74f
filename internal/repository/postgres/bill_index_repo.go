package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"billdex/internal/domain"
	"billdex/internal/port"
)

type billIndexRepo struct {
	db *sqlx.DB
}

// NewBillIndexRepository returns the PostgreSQL bill index repository.
func NewBillIndexRepository(db *sqlx.DB) port.BillIndexRepository {
	return &billIndexRepo{db: db}
}

func (r *billIndexRepo) InsertBatch(ctx context.Context, entries []domain.BillIndexEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning bill index tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO bill_index (
			id, bill_key, bill_number, amount, source_file, source_file_id, source_owner, created_at
		) VALUES (
			:id, :bill_key, :bill_number, :amount, :source_file, :source_file_id, :source_owner, :created_at
		)`

	for _, entry := range entries {
		if _, err := tx.NamedExecContext(ctx, query, entry); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("bill key %s: %w", entry.BillKey, domain.ErrDuplicateBill)
			}
			return fmt.Errorf("inserting bill index entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing bill index tx: %w", err)
	}
	return nil
}

func (r *billIndexRepo) FindByKeys(ctx context.Context, keys []string) ([]domain.BillIndexEntry, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM bill_index WHERE bill_key IN (?)`, keys)
	if err != nil {
		return nil, fmt.Errorf("building bill key query: %w", err)
	}

	entries := []domain.BillIndexEntry{}
	if err := r.db.SelectContext(ctx, &entries, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("finding bills by keys: %w", err)
	}
	return entries, nil
}

func (r *billIndexRepo) List(ctx context.Context, limit, offset int) ([]domain.BillIndexEntry, error) {
	entries := []domain.BillIndexEntry{}
	query := `SELECT * FROM bill_index ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	if err := r.db.SelectContext(ctx, &entries, query, limit, offset); err != nil {
		return nil, fmt.Errorf("listing bill index: %w", err)
	}
	return entries, nil
}

func (r *billIndexRepo) ListAll(ctx context.Context) ([]domain.BillIndexEntry, error) {
	entries := []domain.BillIndexEntry{}
	if err := r.db.SelectContext(ctx, &entries, `SELECT * FROM bill_index ORDER BY created_at`); err != nil {
		return nil, fmt.Errorf("listing full bill index: %w", err)
	}
	return entries, nil
}

func (r *billIndexRepo) DeleteBySourceFile(ctx context.Context, fileID uuid.UUID) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bill_index WHERE source_file_id = $1`, fileID)
	if err != nil {
		return 0, fmt.Errorf("deleting bill index entries for file %s: %w", fileID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return rows, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key")
}
