// Package mocks provides testify mocks for the port interfaces.
package mocks

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"billdex/internal/domain"
)

type MockFileMetaRepo struct {
	mock.Mock
}

func (m *MockFileMetaRepo) Create(ctx context.Context, meta *domain.FileMeta) error {
	args := m.Called(ctx, meta)
	return args.Error(0)
}

func (m *MockFileMetaRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.FileMeta, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FileMeta), args.Error(1)
}

func (m *MockFileMetaRepo) FindProcessedByHash(ctx context.Context, hash string, excludeID uuid.UUID) (*domain.FileMeta, error) {
	args := m.Called(ctx, hash, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FileMeta), args.Error(1)
}

func (m *MockFileMetaRepo) List(ctx context.Context, limit, offset int) ([]domain.FileMeta, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FileMeta), args.Error(1)
}

func (m *MockFileMetaRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.FileStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockFileMetaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockBillIndexRepo struct {
	mock.Mock
}

func (m *MockBillIndexRepo) InsertBatch(ctx context.Context, entries []domain.BillIndexEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockBillIndexRepo) FindByKeys(ctx context.Context, keys []string) ([]domain.BillIndexEntry, error) {
	args := m.Called(ctx, keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BillIndexEntry), args.Error(1)
}

func (m *MockBillIndexRepo) List(ctx context.Context, limit, offset int) ([]domain.BillIndexEntry, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BillIndexEntry), args.Error(1)
}

func (m *MockBillIndexRepo) ListAll(ctx context.Context) ([]domain.BillIndexEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BillIndexEntry), args.Error(1)
}

func (m *MockBillIndexRepo) DeleteBySourceFile(ctx context.Context, fileID uuid.UUID) (int64, error) {
	args := m.Called(ctx, fileID)
	return args.Get(0).(int64), args.Error(1)
}

type MockQuotaRepo struct {
	mock.Mock
}

func (m *MockQuotaRepo) GetOrCreate(ctx context.Context, monthKey string) (*domain.QuotaPeriod, error) {
	args := m.Called(ctx, monthKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuotaPeriod), args.Error(1)
}

func (m *MockQuotaRepo) Increment(ctx context.Context, monthKey string, mode domain.BillingMode, count int) error {
	args := m.Called(ctx, monthKey, mode, count)
	return args.Error(0)
}

type MockExtractionJobRepo struct {
	mock.Mock
}

func (m *MockExtractionJobRepo) Create(ctx context.Context, job *domain.ExtractionJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockExtractionJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractionJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionJob), args.Error(1)
}

func (m *MockExtractionJobRepo) MarkCompleted(ctx context.Context, id uuid.UUID, bills json.RawMessage, pages int) error {
	args := m.Called(ctx, id, bills, pages)
	return args.Error(0)
}

func (m *MockExtractionJobRepo) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, bills, duplicates json.RawMessage) error {
	args := m.Called(ctx, id, errMsg, bills, duplicates)
	return args.Error(0)
}

type MockFeatureFlagRepo struct {
	mock.Mock
}

func (m *MockFeatureFlagRepo) Get(ctx context.Context, key string) (*domain.FeatureFlag, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeatureFlag), args.Error(1)
}

func (m *MockFeatureFlagRepo) Set(ctx context.Context, key string, enabled bool) error {
	args := m.Called(ctx, key, enabled)
	return args.Error(0)
}
