package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billdex/internal/domain"
	"billdex/internal/service"
	"billdex/mocks"
)

func TestFlagDefaults(t *testing.T) {
	ctx := context.Background()

	repo := new(mocks.MockFeatureFlagRepo)
	repo.On("Get", ctx, domain.FlagOCRService).Return(nil, domain.ErrNotFound)
	repo.On("Get", ctx, domain.FlagPaidOCRConsent).Return(nil, domain.ErrNotFound)

	svc := service.NewFlagService(repo)

	enabled, err := svc.IsEnabled(ctx, domain.FlagOCRService)
	require.NoError(t, err)
	assert.True(t, enabled, "ocr service defaults on")

	enabled, err = svc.IsEnabled(ctx, domain.FlagPaidOCRConsent)
	require.NoError(t, err)
	assert.False(t, enabled, "paid consent defaults off")
}

func TestFlagStoredValueWins(t *testing.T) {
	ctx := context.Background()

	repo := new(mocks.MockFeatureFlagRepo)
	repo.On("Get", ctx, domain.FlagOCRService).Return(&domain.FeatureFlag{
		Key:     domain.FlagOCRService,
		Enabled: false,
	}, nil)

	enabled, err := service.NewFlagService(repo).IsEnabled(ctx, domain.FlagOCRService)

	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestFlagSet(t *testing.T) {
	ctx := context.Background()

	t.Run("known key", func(t *testing.T) {
		repo := new(mocks.MockFeatureFlagRepo)
		repo.On("Set", ctx, domain.FlagPaidOCRConsent, true).Return(nil)

		err := service.NewFlagService(repo).Set(ctx, domain.FlagPaidOCRConsent, true)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		repo := new(mocks.MockFeatureFlagRepo)

		err := service.NewFlagService(repo).Set(ctx, "no_such_flag", true)

		assert.ErrorIs(t, err, domain.ErrNotFound)
		repo.AssertNotCalled(t, "Set", ctx, "no_such_flag", true)
	})
}
