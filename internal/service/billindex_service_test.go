package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"billdex/internal/domain"
	"billdex/internal/service"
	"billdex/mocks"
)

func parsedBill(no string, amount float64, page int) domain.ParsedBill {
	a := decimal.NewFromFloat(amount)
	return domain.ParsedBill{
		BillNo:     &no,
		Amount:     &a,
		Page:       page,
		Confidence: domain.ConfidenceHigh,
	}
}

func testFile() *domain.FileMeta {
	return &domain.FileMeta{
		ID:           uuid.New(),
		OriginalName: "march-bills.pdf",
	}
}

func TestCheckAndCommit(t *testing.T) {
	ctx := context.Background()

	t.Run("commits new bills", func(t *testing.T) {
		repo := new(mocks.MockBillIndexRepo)
		repo.On("FindByKeys", ctx, []string{"a-1_10.00", "b-2_20.00"}).Return([]domain.BillIndexEntry{}, nil)
		repo.On("InsertBatch", ctx, mock.MatchedBy(func(entries []domain.BillIndexEntry) bool {
			return len(entries) == 2 && entries[0].BillKey == "a-1_10.00" && entries[1].BillKey == "b-2_20.00"
		})).Return(nil)

		file := testFile()
		indexed, err := service.NewBillIndexService(repo).CheckAndCommit(ctx, file, []domain.ParsedBill{
			parsedBill("A-1", 10, 1),
			parsedBill("B-2", 20, 2),
		})

		require.NoError(t, err)
		assert.Len(t, indexed, 2)
		assert.Equal(t, file.ID, indexed[0].SourceFileID)
		repo.AssertExpectations(t)
	})

	t.Run("keyless bills are skipped not committed", func(t *testing.T) {
		repo := new(mocks.MockBillIndexRepo)

		indexed, err := service.NewBillIndexService(repo).CheckAndCommit(ctx, testFile(), []domain.ParsedBill{
			{Page: 1, Confidence: domain.ConfidenceLow},
			{Page: 2, Confidence: domain.ConfidenceLow},
		})

		require.NoError(t, err)
		assert.Empty(t, indexed)
		repo.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
	})

	t.Run("duplicate within batch aborts everything", func(t *testing.T) {
		repo := new(mocks.MockBillIndexRepo)
		repo.On("FindByKeys", ctx, []string{"a-1_10.00"}).Return([]domain.BillIndexEntry{}, nil)

		_, err := service.NewBillIndexService(repo).CheckAndCommit(ctx, testFile(), []domain.ParsedBill{
			parsedBill("A-1", 10, 1),
			parsedBill("a-1", 10, 3),
		})

		var dupErr *domain.DuplicateBillsError
		require.ErrorAs(t, err, &dupErr)
		require.Len(t, dupErr.Duplicates, 1)
		assert.Equal(t, domain.DuplicateScopeBatch, dupErr.Duplicates[0].Scope)
		assert.Equal(t, 3, dupErr.Duplicates[0].Page)
		assert.ErrorIs(t, err, domain.ErrDuplicateBill)
		repo.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
	})

	t.Run("duplicate against index aborts with attribution", func(t *testing.T) {
		firstSeen := time.Now().UTC().Add(-48 * time.Hour)
		repo := new(mocks.MockBillIndexRepo)
		repo.On("FindByKeys", ctx, mock.Anything).Return([]domain.BillIndexEntry{{
			BillKey:    "a-1_10.00",
			BillNumber: "A-1",
			Amount:     decimal.NewFromInt(10),
			SourceFile: "january-bills.pdf",
			CreatedAt:  firstSeen,
		}}, nil)

		_, err := service.NewBillIndexService(repo).CheckAndCommit(ctx, testFile(), []domain.ParsedBill{
			parsedBill("A-1", 10, 2),
			parsedBill("B-2", 20, 4),
		})

		var dupErr *domain.DuplicateBillsError
		require.ErrorAs(t, err, &dupErr)
		require.Len(t, dupErr.Duplicates, 1)
		dup := dupErr.Duplicates[0]
		assert.Equal(t, domain.DuplicateScopeIndex, dup.Scope)
		assert.Equal(t, "january-bills.pdf", dup.ExistingFile)
		assert.Equal(t, 2, dup.Page)
		require.NotNil(t, dup.FirstSeenAt)
		assert.Equal(t, firstSeen, *dup.FirstSeenAt)
		repo.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
	})

	t.Run("insert race resolves to duplicate with attribution", func(t *testing.T) {
		repo := new(mocks.MockBillIndexRepo)
		repo.On("FindByKeys", ctx, mock.Anything).Return([]domain.BillIndexEntry{}, nil).Once()
		repo.On("InsertBatch", ctx, mock.Anything).Return(domain.ErrDuplicateBill)
		repo.On("FindByKeys", ctx, mock.Anything).Return([]domain.BillIndexEntry{{
			BillKey:    "a-1_10.00",
			BillNumber: "A-1",
			Amount:     decimal.NewFromInt(10),
			SourceFile: "rival-upload.pdf",
		}}, nil)

		_, err := service.NewBillIndexService(repo).CheckAndCommit(ctx, testFile(), []domain.ParsedBill{
			parsedBill("A-1", 10, 1),
		})

		var dupErr *domain.DuplicateBillsError
		require.ErrorAs(t, err, &dupErr)
		require.Len(t, dupErr.Duplicates, 1)
		assert.Equal(t, "rival-upload.pdf", dupErr.Duplicates[0].ExistingFile)
	})

	t.Run("repo failure propagates", func(t *testing.T) {
		repo := new(mocks.MockBillIndexRepo)
		repo.On("FindByKeys", ctx, mock.Anything).Return(nil, errors.New("db down"))

		_, err := service.NewBillIndexService(repo).CheckAndCommit(ctx, testFile(), []domain.ParsedBill{
			parsedBill("A-1", 10, 1),
		})

		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrDuplicateBill)
	})
}

func TestRemoveBySourceFile(t *testing.T) {
	ctx := context.Background()
	fileID := uuid.New()

	repo := new(mocks.MockBillIndexRepo)
	repo.On("DeleteBySourceFile", ctx, fileID).Return(int64(3), nil)

	err := service.NewBillIndexService(repo).RemoveBySourceFile(ctx, fileID)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
