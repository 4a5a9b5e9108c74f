package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"billdex/internal/domain"
	"billdex/internal/port"
)

// BillIndexService maintains the canonical index of seen bills and performs
// duplicate detection for extraction results.
type BillIndexService struct {
	repo port.BillIndexRepository
}

func NewBillIndexService(repo port.BillIndexRepository) *BillIndexService {
	return &BillIndexService{repo: repo}
}

// CheckAndCommit inspects the parsed bills of one upload and either commits
// every keyed bill to the index or commits nothing. Bills without a usable
// key (missing number or amount) are skipped silently; they cannot collide.
// Duplicates inside the batch or against the index abort the whole commit
// and come back in a DuplicateBillsError.
func (s *BillIndexService) CheckAndCommit(ctx context.Context, file *domain.FileMeta, bills []domain.ParsedBill) ([]domain.BillIndexEntry, error) {
	keyed := make([]domain.ParsedBill, 0, len(bills))
	seen := make(map[string]domain.ParsedBill)
	var duplicates []domain.DuplicateBill

	for _, bill := range bills {
		key := bill.Key()
		if key == "" {
			continue
		}
		if first, dup := seen[key]; dup {
			duplicates = append(duplicates, domain.DuplicateBill{
				BillKey:      key,
				BillNumber:   *bill.BillNo,
				Amount:       bill.Amount,
				Page:         bill.Page,
				Scope:        domain.DuplicateScopeBatch,
				ExistingFile: fmt.Sprintf("%s (page %d)", file.OriginalName, first.Page),
			})
			continue
		}
		seen[key] = bill
		keyed = append(keyed, bill)
	}

	if len(keyed) > 0 {
		keys := make([]string, 0, len(keyed))
		for _, bill := range keyed {
			keys = append(keys, bill.Key())
		}

		existing, err := s.repo.FindByKeys(ctx, keys)
		if err != nil {
			return nil, fmt.Errorf("checking bill index: %w", err)
		}
		duplicates = append(duplicates, s.describeExisting(existing, seen)...)
	}

	if len(duplicates) > 0 {
		return nil, &domain.DuplicateBillsError{Duplicates: duplicates}
	}

	entries := make([]domain.BillIndexEntry, 0, len(keyed))
	now := time.Now().UTC()
	for _, bill := range keyed {
		entries = append(entries, domain.BillIndexEntry{
			ID:           uuid.New(),
			BillKey:      bill.Key(),
			BillNumber:   *bill.BillNo,
			Amount:       *bill.Amount,
			SourceFile:   file.OriginalName,
			SourceFileID: file.ID,
			SourceOwner:  file.UploadedBy,
			CreatedAt:    now,
		})
	}
	if len(entries) == 0 {
		return nil, nil
	}

	if err := s.repo.InsertBatch(ctx, entries); err != nil {
		if errors.Is(err, domain.ErrDuplicateBill) {
			// A concurrent upload won the race after our pre-check.
			// Re-query so the caller still gets full attribution.
			return nil, s.raceDuplicates(ctx, keyed, seen)
		}
		return nil, fmt.Errorf("committing bill index entries: %w", err)
	}

	log.Printf("billIndexService.CheckAndCommit: indexed %d bill(s) from %s", len(entries), file.OriginalName)
	return entries, nil
}

func (s *BillIndexService) raceDuplicates(ctx context.Context, keyed []domain.ParsedBill, seen map[string]domain.ParsedBill) error {
	keys := make([]string, 0, len(keyed))
	for _, bill := range keyed {
		keys = append(keys, bill.Key())
	}
	existing, err := s.repo.FindByKeys(ctx, keys)
	if err != nil || len(existing) == 0 {
		// Attribution lookup failed; the duplicate outcome still stands.
		return &domain.DuplicateBillsError{Duplicates: []domain.DuplicateBill{{Scope: domain.DuplicateScopeIndex}}}
	}
	return &domain.DuplicateBillsError{Duplicates: s.describeExisting(existing, seen)}
}

func (s *BillIndexService) describeExisting(existing []domain.BillIndexEntry, seen map[string]domain.ParsedBill) []domain.DuplicateBill {
	duplicates := make([]domain.DuplicateBill, 0, len(existing))
	for _, entry := range existing {
		entry := entry
		dup := domain.DuplicateBill{
			BillKey:       entry.BillKey,
			BillNumber:    entry.BillNumber,
			Amount:        &entry.Amount,
			Scope:         domain.DuplicateScopeIndex,
			ExistingFile:  entry.SourceFile,
			ExistingOwner: entry.SourceOwner,
			FirstSeenAt:   &entry.CreatedAt,
		}
		if bill, ok := seen[entry.BillKey]; ok {
			dup.Page = bill.Page
		}
		duplicates = append(duplicates, dup)
	}
	return duplicates
}

// List pages through the index, newest first.
func (s *BillIndexService) List(ctx context.Context, limit, offset int) ([]domain.BillIndexEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// ListAll returns the whole index for export.
func (s *BillIndexService) ListAll(ctx context.Context) ([]domain.BillIndexEntry, error) {
	return s.repo.ListAll(ctx)
}

// RemoveBySourceFile deletes every index entry created by the given upload.
func (s *BillIndexService) RemoveBySourceFile(ctx context.Context, fileID uuid.UUID) error {
	removed, err := s.repo.DeleteBySourceFile(ctx, fileID)
	if err != nil {
		return err
	}
	if removed > 0 {
		log.Printf("billIndexService.RemoveBySourceFile: removed %d entries for file %s", removed, fileID)
	}
	return nil
}
