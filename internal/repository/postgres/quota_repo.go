package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"billdex/internal/config"
	"billdex/internal/domain"
	"billdex/internal/port"
)

type quotaRepo struct {
	db             *sqlx.DB
	freeLimit      int
	costPerRequest decimal.Decimal
}

// NewQuotaRepository returns the PostgreSQL quota repository. New months are
// seeded with the configured free limit and per-request price; existing rows
// keep the values they were created with.
func NewQuotaRepository(db *sqlx.DB, cfg config.QuotaConfig) (port.QuotaRepository, error) {
	cost, err := decimal.NewFromString(cfg.CostPerRequest)
	if err != nil {
		return nil, fmt.Errorf("parsing cost per request %q: %w", cfg.CostPerRequest, err)
	}
	return &quotaRepo{
		db:             db,
		freeLimit:      cfg.FreeMonthlyLimit,
		costPerRequest: cost,
	}, nil
}

func (r *quotaRepo) GetOrCreate(ctx context.Context, monthKey string) (*domain.QuotaPeriod, error) {
	insert := `
		INSERT INTO quota_periods (month_key, free_used, free_limit, paid_used, paid_amount, cost_per_request, created_at, updated_at)
		VALUES ($1, 0, $2, 0, 0, $3, NOW(), NOW())
		ON CONFLICT (month_key) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, insert, monthKey, r.freeLimit, r.costPerRequest); err != nil {
		return nil, fmt.Errorf("seeding quota period %s: %w", monthKey, err)
	}

	var period domain.QuotaPeriod
	if err := r.db.GetContext(ctx, &period, `SELECT * FROM quota_periods WHERE month_key = $1`, monthKey); err != nil {
		return nil, fmt.Errorf("getting quota period %s: %w", monthKey, err)
	}
	return &period, nil
}

func (r *quotaRepo) Increment(ctx context.Context, monthKey string, mode domain.BillingMode, count int) error {
	if count <= 0 {
		return nil
	}

	// Upsert keeps the increment atomic even when two requests race on a
	// fresh month.
	var query string
	args := []interface{}{monthKey, count, r.freeLimit, r.costPerRequest}
	switch mode {
	case domain.BillingModeFree:
		query = `
			INSERT INTO quota_periods (month_key, free_used, free_limit, paid_used, paid_amount, cost_per_request, created_at, updated_at)
			VALUES ($1, $2, $3, 0, 0, $4, NOW(), NOW())
			ON CONFLICT (month_key) DO UPDATE
			SET free_used = quota_periods.free_used + EXCLUDED.free_used,
			    updated_at = NOW()`
	case domain.BillingModePaid:
		charge := r.costPerRequest.Mul(decimal.NewFromInt(int64(count)))
		query = `
			INSERT INTO quota_periods (month_key, free_used, free_limit, paid_used, paid_amount, cost_per_request, created_at, updated_at)
			VALUES ($1, 0, $3, $2, $5, $4, NOW(), NOW())
			ON CONFLICT (month_key) DO UPDATE
			SET paid_used = quota_periods.paid_used + EXCLUDED.paid_used,
			    paid_amount = quota_periods.paid_amount + EXCLUDED.paid_amount,
			    updated_at = NOW()`
		args = append(args, charge)
	default:
		return fmt.Errorf("cannot increment quota in %s mode", mode)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("incrementing %s usage for %s: %w", mode, monthKey, err)
	}
	return nil
}
