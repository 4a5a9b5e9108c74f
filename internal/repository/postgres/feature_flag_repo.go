package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"billdex/internal/domain"
	"billdex/internal/port"
)

type featureFlagRepo struct {
	db *sqlx.DB
}

// NewFeatureFlagRepository returns the PostgreSQL feature flag repository.
func NewFeatureFlagRepository(db *sqlx.DB) port.FeatureFlagRepository {
	return &featureFlagRepo{db: db}
}

func (r *featureFlagRepo) Get(ctx context.Context, key string) (*domain.FeatureFlag, error) {
	var flag domain.FeatureFlag
	err := r.db.GetContext(ctx, &flag, `SELECT * FROM feature_flags WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting feature flag %s: %w", key, err)
	}
	return &flag, nil
}

func (r *featureFlagRepo) Set(ctx context.Context, key string, enabled bool) error {
	query := `
		INSERT INTO feature_flags (key, enabled, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET enabled = EXCLUDED.enabled, updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, key, enabled); err != nil {
		return fmt.Errorf("setting feature flag %s: %w", key, err)
	}
	return nil
}
