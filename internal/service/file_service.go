package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"billdex/internal/config"
	"billdex/internal/domain"
	"billdex/internal/port"
)

// FileService handles upload, retrieval and deletion of bill files.
type FileService struct {
	repo      port.FileMetaRepository
	billIndex *BillIndexService
	storage   port.ObjectStorage
	cfg       config.S3Config
}

func NewFileService(repo port.FileMetaRepository, billIndex *BillIndexService, storage port.ObjectStorage, cfg config.S3Config) *FileService {
	return &FileService{repo: repo, billIndex: billIndex, storage: storage, cfg: cfg}
}

// Upload validates and stores one file, recording its content hash for
// whole-file duplicate detection at extraction time.
func (s *FileService) Upload(ctx context.Context, originalName string, content []byte, uploadedBy *uuid.UUID) (*domain.FileMeta, error) {
	maxSize := s.cfg.MaxFileSizeMB * 1024 * 1024
	if int64(len(content)) > maxSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", domain.ErrFileTooLarge, len(content), maxSize)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: empty file", domain.ErrUnsupportedFileType)
	}

	fileType, contentType, err := detectFileType(originalName, content)
	if err != nil {
		return nil, err
	}

	hash := sha256.Sum256(content)
	id := uuid.New()
	key := fmt.Sprintf("bills/%s.%s", id, fileType)

	if err := s.storage.Upload(ctx, key, bytes.NewReader(content), contentType); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	now := time.Now().UTC()
	meta := &domain.FileMeta{
		ID:           id,
		FileName:     filepath.Base(key),
		OriginalName: originalName,
		FileType:     fileType,
		FileSize:     int64(len(content)),
		ContentHash:  hex.EncodeToString(hash[:]),
		S3Bucket:     s.cfg.Bucket,
		S3Key:        key,
		ContentType:  contentType,
		Status:       domain.FileStatusUploaded,
		UploadedBy:   uploadedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, meta); err != nil {
		// Best effort: don't leave an orphan object behind.
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			log.Printf("fileService.Upload: orphan cleanup of %s failed: %v", key, delErr)
		}
		return nil, fmt.Errorf("saving file metadata: %w", err)
	}

	log.Printf("fileService.Upload: stored %s as %s (%d bytes)", originalName, key, len(content))
	return meta, nil
}

// detectFileType validates the upload by extension and sniffed content type.
func detectFileType(originalName string, content []byte) (domain.FileType, string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(originalName)), ".")
	byExt, extOK := domain.AllowedExtensions[ext]

	sniffed := http.DetectContentType(content)
	// DetectContentType reports e.g. "text/plain; charset=utf-8".
	if i := strings.Index(sniffed, ";"); i >= 0 {
		sniffed = strings.TrimSpace(sniffed[:i])
	}
	bySniff, sniffOK := domain.AllowedContentTypes[sniffed]

	switch {
	case sniffOK:
		return bySniff, sniffed, nil
	case extOK:
		return byExt, domain.AllowedFileTypes[byExt], nil
	default:
		return "", "", fmt.Errorf("%w: %s (%s)", domain.ErrUnsupportedFileType, originalName, sniffed)
	}
}

func (s *FileService) GetByID(ctx context.Context, id uuid.UUID) (*domain.FileMeta, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FileService) List(ctx context.Context, limit, offset int) ([]domain.FileMeta, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// GetDownloadURL returns a short-lived presigned link to the stored file.
func (s *FileService) GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	meta, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	expiry := time.Duration(s.cfg.PresignExpiry) * time.Second
	return s.storage.GetPresignedURL(ctx, meta.S3Key, expiry)
}

// Delete removes the stored object, the metadata row, and every bill index
// entry that the file's extraction created.
func (s *FileService) Delete(ctx context.Context, id uuid.UUID) error {
	meta, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, meta.S3Key); err != nil {
		return fmt.Errorf("deleting stored object %s: %w", meta.S3Key, err)
	}
	if err := s.billIndex.RemoveBySourceFile(ctx, id); err != nil {
		return fmt.Errorf("removing indexed bills for %s: %w", id, err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("fileService.Delete: deleted %s (%s)", id, meta.OriginalName)
	return nil
}
