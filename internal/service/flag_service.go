package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"billdex/internal/domain"
	"billdex/internal/port"
)

// flagDefaults apply when a flag has never been written: the OCR service
// runs until switched off, paid mode stays off until switched on.
var flagDefaults = map[string]bool{
	domain.FlagOCRService:     true,
	domain.FlagPaidOCRConsent: false,
}

// FlagService reads and writes admin-controlled feature flags.
type FlagService struct {
	repo port.FeatureFlagRepository
}

func NewFlagService(repo port.FeatureFlagRepository) *FlagService {
	return &FlagService{repo: repo}
}

// IsEnabled returns the stored flag value, falling back to the default for
// flags that were never set.
func (s *FlagService) IsEnabled(ctx context.Context, key string) (bool, error) {
	flag, err := s.repo.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return flagDefaults[key], nil
	}
	if err != nil {
		return false, fmt.Errorf("reading flag %s: %w", key, err)
	}
	return flag.Enabled, nil
}

// Set stores a flag value. Unknown keys are rejected so a typo cannot
// silently create a dead toggle.
func (s *FlagService) Set(ctx context.Context, key string, enabled bool) error {
	if _, known := flagDefaults[key]; !known {
		return fmt.Errorf("unknown feature flag %q: %w", key, domain.ErrNotFound)
	}
	if err := s.repo.Set(ctx, key, enabled); err != nil {
		return err
	}
	log.Printf("flagService.Set: %s = %t", key, enabled)
	return nil
}

// All returns the effective value of every known flag.
func (s *FlagService) All(ctx context.Context) (map[string]bool, error) {
	out := make(map[string]bool, len(flagDefaults))
	for key := range flagDefaults {
		enabled, err := s.IsEnabled(ctx, key)
		if err != nil {
			return nil, err
		}
		out[key] = enabled
	}
	return out, nil
}
