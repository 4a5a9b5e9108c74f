package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"billdex/internal/config"
	"billdex/internal/domain"
	"billdex/internal/parser"
	"billdex/internal/port"
)

// ExtractionResult is the synchronous answer to an extraction request.
// Image files complete inline; PDFs come back with Async set and a job to
// poll.
type ExtractionResult struct {
	Async     bool                    `json:"async"`
	JobID     uuid.UUID               `json:"job_id,omitempty"`
	Bills     []domain.ParsedBill     `json:"bills,omitempty"`
	Indexed   []domain.BillIndexEntry `json:"indexed,omitempty"`
	Pages     int                     `json:"pages,omitempty"`
	Mode      domain.BillingMode      `json:"mode,omitempty"`
	Remaining int                     `json:"remaining"`
}

// ExtractionService orchestrates the OCR extraction flow: feature gate,
// quota check, whole-file dedup, per-page OCR and parsing, and the
// all-or-nothing bill index commit.
type ExtractionService struct {
	files      port.FileMetaRepository
	jobs       port.ExtractionJobRepository
	flags      *FlagService
	quota      *QuotaService
	billIndex  *BillIndexService
	storage    port.ObjectStorage
	textSource port.TextSource
	rasterizer port.Rasterizer
	cfg        config.PipelineConfig
}

func NewExtractionService(
	files port.FileMetaRepository,
	jobs port.ExtractionJobRepository,
	flags *FlagService,
	quota *QuotaService,
	billIndex *BillIndexService,
	storage port.ObjectStorage,
	textSource port.TextSource,
	rasterizer port.Rasterizer,
	cfg config.PipelineConfig,
) *ExtractionService {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 3
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 10 * time.Minute
	}
	return &ExtractionService{
		files:      files,
		jobs:       jobs,
		flags:      flags,
		quota:      quota,
		billIndex:  billIndex,
		storage:    storage,
		textSource: textSource,
		rasterizer: rasterizer,
		cfg:        cfg,
	}
}

// Extract runs the extraction flow for an uploaded file. Images are
// processed inline; PDFs spawn a background job and return immediately.
func (s *ExtractionService) Extract(ctx context.Context, fileID uuid.UUID) (*ExtractionResult, error) {
	enabled, err := s.flags.IsEnabled(ctx, domain.FlagOCRService)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, domain.ErrServiceDisabled
	}

	paidConsent, err := s.flags.IsEnabled(ctx, domain.FlagPaidOCRConsent)
	if err != nil {
		return nil, err
	}
	decision, err := s.quota.Check(ctx, paidConsent)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, &domain.QuotaExhaustedError{
			ResetAt:         decision.ResetAt,
			PricePerRequest: decision.PricePerRequest,
		}
	}

	meta, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if meta.Status != domain.FileStatusUploaded && meta.Status != domain.FileStatusProcessed {
		return nil, fmt.Errorf("%w: file %s is %s", domain.ErrFileNotReady, fileID, meta.Status)
	}

	// The same bytes processed before mean the same bills; refuse before
	// spending any OCR quota.
	if prior, err := s.files.FindProcessedByHash(ctx, meta.ContentHash, meta.ID); err == nil {
		return nil, &domain.DuplicateBillsError{Duplicates: []domain.DuplicateBill{{
			Scope:         domain.DuplicateScopeFile,
			ExistingFile:  prior.OriginalName,
			ExistingOwner: prior.UploadedBy,
			FirstSeenAt:   &prior.CreatedAt,
		}}}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	content, err := s.storage.Download(ctx, meta.S3Key)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", meta.S3Key, err)
	}

	if meta.FileType == domain.FileTypePDF {
		return s.startJob(ctx, meta, content, decision)
	}
	return s.extractImage(ctx, meta, content, decision)
}

// GetJob returns an extraction job for polling.
func (s *ExtractionService) GetJob(ctx context.Context, jobID uuid.UUID) (*domain.ExtractionJob, error) {
	return s.jobs.GetByID(ctx, jobID)
}

func (s *ExtractionService) extractImage(ctx context.Context, meta *domain.FileMeta, content []byte, decision *QuotaDecision) (*ExtractionResult, error) {
	text, err := s.textSource.ExtractText(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	bill := parser.ParsePage(text, 1)
	indexed, err := s.billIndex.CheckAndCommit(ctx, meta, []domain.ParsedBill{bill})
	if err != nil {
		return nil, err
	}

	// Charged only once the index commit lands; duplicate and failed
	// outcomes leave the ledger untouched.
	if err := s.quota.Record(ctx, decision.Mode, 1); err != nil {
		log.Printf("extractionService.extractImage: recording usage: %v", err)
	}

	if err := s.files.UpdateStatus(ctx, meta.ID, domain.FileStatusProcessed); err != nil {
		log.Printf("extractionService.extractImage: marking %s processed: %v", meta.ID, err)
	}

	return &ExtractionResult{
		Bills:     []domain.ParsedBill{bill},
		Indexed:   indexed,
		Pages:     1,
		Mode:      decision.Mode,
		Remaining: remainingAfter(decision, 1),
	}, nil
}

// remainingAfter is the free-tier balance left once charged calls land.
// Paid-mode calls never draw on the free balance.
func remainingAfter(decision *QuotaDecision, charged int) int {
	if decision.Mode != domain.BillingModeFree {
		return 0
	}
	remaining := decision.Remaining - charged
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

func (s *ExtractionService) startJob(ctx context.Context, meta *domain.FileMeta, content []byte, decision *QuotaDecision) (*ExtractionResult, error) {
	now := time.Now().UTC()
	job := &domain.ExtractionJob{
		ID:         uuid.New(),
		FileID:     meta.ID,
		SourceFile: meta.OriginalName,
		Status:     domain.JobStatusProcessing,
		StartedAt:  now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("creating extraction job: %w", err)
	}

	go s.runJob(job.ID, meta, content, decision.Mode)

	log.Printf("extractionService.startJob: job %s started for %s", job.ID, meta.OriginalName)
	return &ExtractionResult{Async: true, JobID: job.ID, Mode: decision.Mode, Remaining: decision.Remaining}, nil
}

// runJob drives one background PDF extraction to a terminal state. It uses
// its own context so the job survives the originating HTTP request.
func (s *ExtractionService) runJob(jobID uuid.UUID, meta *domain.FileMeta, content []byte, mode domain.BillingMode) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.JobTimeout)
	defer cancel()

	bills, ocrCalls, err := s.processPDF(ctx, content)
	if err != nil {
		s.failJob(ctx, jobID, meta.ID, err, bills, nil)
		return
	}

	indexed, err := s.billIndex.CheckAndCommit(ctx, meta, bills)
	if err != nil {
		var dupErr *domain.DuplicateBillsError
		if errors.As(err, &dupErr) {
			s.failJob(ctx, jobID, uuid.Nil, err, bills, dupErr.Duplicates)
			return
		}
		s.failJob(ctx, jobID, meta.ID, err, bills, nil)
		return
	}

	// The ledger moves only with the commit: a failed or duplicate job
	// charges nothing.
	if ocrCalls > 0 {
		if recErr := s.quota.Record(ctx, mode, ocrCalls); recErr != nil {
			log.Printf("extractionService.runJob: recording %d call(s): %v", ocrCalls, recErr)
		}
	}

	billsJSON, marshalErr := json.Marshal(bills)
	if marshalErr != nil {
		billsJSON = nil
	}
	if err := s.jobs.MarkCompleted(ctx, jobID, billsJSON, len(bills)); err != nil {
		log.Printf("extractionService.runJob: completing job %s: %v", jobID, err)
		return
	}
	if err := s.files.UpdateStatus(ctx, meta.ID, domain.FileStatusProcessed); err != nil {
		log.Printf("extractionService.runJob: marking %s processed: %v", meta.ID, err)
	}

	log.Printf("extractionService.runJob: job %s completed, %d page(s), %d indexed", jobID, len(bills), len(indexed))
}

// failJob records the terminal failed state. markFileID, when set, also
// flips the file to failed; duplicate outcomes leave the file reusable.
func (s *ExtractionService) failJob(ctx context.Context, jobID, markFileID uuid.UUID, cause error, bills []domain.ParsedBill, duplicates []domain.DuplicateBill) {
	var billsJSON, dupsJSON json.RawMessage
	if len(bills) > 0 {
		billsJSON, _ = json.Marshal(bills)
	}
	if len(duplicates) > 0 {
		dupsJSON, _ = json.Marshal(duplicates)
	}

	if err := s.jobs.MarkFailed(ctx, jobID, cause.Error(), billsJSON, dupsJSON); err != nil {
		log.Printf("extractionService.failJob: marking job %s failed: %v", jobID, err)
	}
	if markFileID != uuid.Nil {
		if err := s.files.UpdateStatus(ctx, markFileID, domain.FileStatusFailed); err != nil {
			log.Printf("extractionService.failJob: marking file %s failed: %v", markFileID, err)
		}
	}
	log.Printf("extractionService.failJob: job %s failed: %v", jobID, cause)
}

// processPDF rasterizes the document and OCRs pages with bounded
// concurrency. The returned count is the number of OCR calls actually made.
// Page images and the scratch directory are removed on every exit path.
func (s *ExtractionService) processPDF(ctx context.Context, content []byte) ([]domain.ParsedBill, int, error) {
	dir, err := os.MkdirTemp(s.cfg.WorkDir, "billdex-pages-")
	if err != nil {
		return nil, 0, fmt.Errorf("creating scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	pagePaths, err := s.rasterizer.Rasterize(ctx, content, dir)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	results := make([]domain.ParsedBill, len(pagePaths))
	var calls atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, path := range pagePaths {
		g.Go(func() error {
			bill, err := s.processPage(gctx, path, i+1, &calls)
			if err != nil {
				return err
			}
			results[i] = bill
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, int(calls.Load()), fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	return results, int(calls.Load()), nil
}

// processPage OCRs and parses one page image. The image file is deleted no
// matter how the call ends.
func (s *ExtractionService) processPage(ctx context.Context, imagePath string, page int, calls *atomic.Int64) (domain.ParsedBill, error) {
	defer os.Remove(imagePath)

	image, err := os.ReadFile(imagePath)
	if err != nil {
		return domain.ParsedBill{}, fmt.Errorf("reading page %d image: %w", page, err)
	}

	calls.Add(1)
	text, err := s.textSource.ExtractText(ctx, image)
	if err != nil {
		return domain.ParsedBill{}, fmt.Errorf("ocr on page %d: %w", page, err)
	}

	return parser.ParsePage(text, page), nil
}
