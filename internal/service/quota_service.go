package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"billdex/internal/domain"
	"billdex/internal/port"
)

// QuotaDecision is the outcome of a pre-flight quota check.
type QuotaDecision struct {
	Allowed         bool               `json:"allowed"`
	Mode            domain.BillingMode `json:"mode"`
	Used            int                `json:"used"`
	Limit           int                `json:"limit"`
	Remaining       int                `json:"remaining"`
	ResetAt         time.Time          `json:"reset_at"`
	PricePerRequest decimal.Decimal    `json:"price_per_request"`
}

// QuotaSnapshot is the admin view of the current month's usage.
type QuotaSnapshot struct {
	Period    domain.QuotaPeriod `json:"period"`
	Remaining int                `json:"remaining"`
	ResetAt   time.Time          `json:"reset_at"`
}

// QuotaService tracks monthly OCR usage against the free tier and, with
// consent, the paid tier.
type QuotaService struct {
	repo port.QuotaRepository
	now  func() time.Time
}

func NewQuotaService(repo port.QuotaRepository) *QuotaService {
	return &QuotaService{repo: repo, now: time.Now}
}

// monthKey buckets usage by UTC calendar month.
func (s *QuotaService) monthKey() string {
	return s.now().UTC().Format("2006-01")
}

// resetAt is the first instant of the next UTC month.
func (s *QuotaService) resetAt() time.Time {
	t := s.now().UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}

// Check decides whether one more OCR call may proceed and in which billing
// mode. paidAllowed reflects the paid-consent flag; without it, exhausting
// the free tier blocks instead of charging.
func (s *QuotaService) Check(ctx context.Context, paidAllowed bool) (*QuotaDecision, error) {
	period, err := s.repo.GetOrCreate(ctx, s.monthKey())
	if err != nil {
		return nil, fmt.Errorf("loading quota period: %w", err)
	}

	decision := &QuotaDecision{
		Used:            period.FreeUsed,
		Limit:           period.FreeLimit,
		ResetAt:         s.resetAt(),
		PricePerRequest: period.CostPerRequest,
	}
	if remaining := period.FreeLimit - period.FreeUsed; remaining > 0 {
		decision.Allowed = true
		decision.Mode = domain.BillingModeFree
		decision.Remaining = remaining
		return decision, nil
	}

	if paidAllowed {
		decision.Allowed = true
		decision.Mode = domain.BillingModePaid
		return decision, nil
	}

	decision.Mode = domain.BillingModeBlocked
	return decision, nil
}

// Record charges count OCR calls to the given billing mode for the current
// month.
func (s *QuotaService) Record(ctx context.Context, mode domain.BillingMode, count int) error {
	if err := s.repo.Increment(ctx, s.monthKey(), mode, count); err != nil {
		return fmt.Errorf("recording %d %s call(s): %w", count, mode, err)
	}
	log.Printf("quotaService.Record: +%d %s call(s) for %s", count, mode, s.monthKey())
	return nil
}

// Snapshot returns the current month's counters for the admin surface.
func (s *QuotaService) Snapshot(ctx context.Context) (*QuotaSnapshot, error) {
	period, err := s.repo.GetOrCreate(ctx, s.monthKey())
	if err != nil {
		return nil, fmt.Errorf("loading quota period: %w", err)
	}

	remaining := period.FreeLimit - period.FreeUsed
	if remaining < 0 {
		remaining = 0
	}
	return &QuotaSnapshot{
		Period:    *period,
		Remaining: remaining,
		ResetAt:   s.resetAt(),
	}, nil
}
