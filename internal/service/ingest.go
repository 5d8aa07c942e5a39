package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"docvault/internal/audit"
	"docvault/internal/config"
	"docvault/internal/contentstore"
	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
	"docvault/internal/filetypes"
)

type ingestService struct {
	docRepo   repositories.DocumentRepository
	store     contentstore.Store
	types     *filetypes.Registry
	sink      audit.Sink
	logger    *slog.Logger
	batchSize int
	maxSize   int64
}

// NewIngestService creates the ingestion pipeline.
func NewIngestService(
	docRepo repositories.DocumentRepository,
	store contentstore.Store,
	types *filetypes.Registry,
	sink audit.Sink,
	logger *slog.Logger,
) services.IngestService {
	return &ingestService{
		docRepo:   docRepo,
		store:     store,
		types:     types,
		sink:      sink,
		logger:    logger,
		batchSize: config.IngestBatchSize,
		maxSize:   config.MaxFileSize,
	}
}

// IngestBulk uploads many files under shared metadata. Files are
// processed in fixed-size batches: every file in a batch runs
// concurrently, and the next batch starts only once all of them have
// settled. Per-file failures are recorded as results, never raised; the
// call errors only when the request itself is malformed.
func (s *ingestService) IngestBulk(ctx context.Context, ownerID string, files []services.IngestFile, meta services.IngestMetadata) (*services.IngestResult, error) {
	if len(files) == 0 {
		return nil, &domain.ValidationError{Message: "no files provided"}
	}

	// The target folder is resolved once for the whole request; every
	// successful file lands in the same category.
	category := models.DefaultCategory
	if meta.TargetFolder != "" {
		resolved, err := s.docRepo.ResolveCategory(ctx, ownerID, meta.TargetFolder)
		if err != nil {
			return nil, err
		}
		category = resolved
	}

	batchID := uuid.NewString()
	s.logger.Info("bulk ingestion started",
		"batch_id", batchID,
		"owner_id", ownerID,
		"files", len(files),
		"category", category,
	)

	results := make([]services.FileResult, len(files))
	for start := 0; start < len(files); start += s.batchSize {
		end := start + s.batchSize
		if end > len(files) {
			end = len(files)
		}

		// Each goroutine owns its slot in results, so the only
		// synchronization needed is the barrier between batches.
		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(index int) {
				defer wg.Done()
				results[index] = s.ingestOne(ctx, ownerID, category, meta, index, files[index])
			}(i)
		}
		wg.Wait()
	}

	summary := services.IngestSummary{Total: len(files)}
	for _, r := range results {
		if r.Status == services.ResultSuccess {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}
	summary.SuccessRate = int(math.Round(float64(summary.Successful) / float64(summary.Total) * 100))

	s.logger.Info("bulk ingestion finished",
		"batch_id", batchID,
		"owner_id", ownerID,
		"total", summary.Total,
		"successful", summary.Successful,
		"failed", summary.Failed,
	)

	return &services.IngestResult{Results: results, Summary: summary}, nil
}

// ingestOne runs the full attempt for one file, isolated from its
// siblings: validate, derive key, upload, verify, record.
func (s *ingestService) ingestOne(ctx context.Context, ownerID, category string, meta services.IngestMetadata, index int, file services.IngestFile) services.FileResult {
	result := services.FileResult{
		Index:    index,
		FileName: file.Name,
		Status:   services.ResultError,
	}

	fileType, err := s.validateFile(file)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	key := deriveContentKey(ownerID, time.Now(), index, file.Name)

	if err := s.store.Put(ctx, key, file.Data); err != nil {
		s.logger.Warn("content upload failed",
			"owner_id", ownerID,
			"file", file.Name,
			"content_key", key,
			"error", err,
		)
		result.Error = fmt.Sprintf("upload failed: %v", err)
		return result
	}

	// Trust but verify: the adapter may be eventually consistent or
	// fire-and-forget, so an upload only counts once the key reads
	// back. No document record is created for an unverified blob.
	ok, err := s.store.Exists(ctx, key)
	if err != nil || !ok {
		s.logger.Warn("content verification failed",
			"owner_id", ownerID,
			"file", file.Name,
			"content_key", key,
			"exists", ok,
			"error", err,
		)
		result.Error = "uploaded content could not be verified"
		return result
	}

	now := time.Now()
	doc := &models.Document{
		OwnerID:     ownerID,
		Title:       file.Name,
		Description: meta.Description,
		FileName:    file.Name,
		FileType:    fileType,
		FileSize:    int64(len(file.Data)),
		ContentKey:  key,
		Category:    category,
		Tags:        normalizeTags(meta.Tags),
		Status:      models.StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		// The blob stays where it is: no compensating delete, so a
		// metadata hiccup cannot turn into data loss for the batch.
		s.logger.Warn("document record insert failed",
			"owner_id", ownerID,
			"file", file.Name,
			"content_key", key,
			"error", err,
		)
		result.Error = fmt.Sprintf("failed to record document: %v", err)
		return result
	}

	s.sink.Emit(ctx, audit.Event{
		Type:    audit.EventDocumentCreated,
		OwnerID: ownerID,
		Subject: doc.ID,
		Detail:  map[string]any{"file_name": file.Name, "category": category},
	})

	result.Status = services.ResultSuccess
	result.Document = doc
	return result
}

// UploadFile is the single-shot path. It shares the bulk validation, key
// derivation, upload and verification, but failures propagate to the
// caller instead of landing in a result list.
func (s *ingestService) UploadFile(ctx context.Context, ownerID string, file services.IngestFile, req services.UploadRequest) (*models.Document, error) {
	fileType, err := s.validateFile(file)
	if err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	category := models.DefaultCategory
	if req.TargetFolder != "" {
		category, err = s.docRepo.ResolveCategory(ctx, ownerID, req.TargetFolder)
		if err != nil {
			return nil, err
		}
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = file.Name
	}
	if len(title) > config.MaxTitleLength {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("title must be at most %d characters", config.MaxTitleLength),
		}
	}

	key := deriveContentKey(ownerID, time.Now(), 0, file.Name)

	if err := s.store.Put(ctx, key, file.Data); err != nil {
		return nil, &domain.StorageError{Op: "put", Key: key, Err: err}
	}

	ok, err := s.store.Exists(ctx, key)
	if err != nil {
		return nil, &domain.StorageError{Op: "exists", Key: key, Err: err}
	}
	if !ok {
		return nil, &domain.StorageError{Op: "exists", Key: key, Err: contentstore.ErrKeyNotFound}
	}

	now := time.Now()
	doc := &models.Document{
		OwnerID:     ownerID,
		Title:       title,
		Description: req.Description,
		FileName:    file.Name,
		FileType:    fileType,
		FileSize:    int64(len(file.Data)),
		ContentKey:  key,
		Category:    category,
		Tags:        normalizeTags(req.Tags),
		Status:      models.StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document uploaded",
		"owner_id", ownerID,
		"document_id", doc.ID,
		"file", file.Name,
		"size", doc.FileSize,
		"category", category,
	)
	s.sink.Emit(ctx, audit.Event{
		Type:    audit.EventDocumentUploaded,
		OwnerID: ownerID,
		Subject: doc.ID,
		Detail:  map[string]any{"file_name": file.Name, "category": category},
	})

	return doc, nil
}

// validateFile enforces the per-file preconditions shared by both
// ingestion paths and returns the type to record.
func (s *ingestService) validateFile(file services.IngestFile) (string, error) {
	if strings.TrimSpace(file.Name) == "" {
		return "", fmt.Errorf("file name is required")
	}
	if len(file.Data) == 0 {
		return "", fmt.Errorf("file %q is empty", file.Name)
	}
	if int64(len(file.Data)) > s.maxSize {
		return "", fmt.Errorf("file %q exceeds the %d MiB limit", file.Name, s.maxSize>>20)
	}

	fileType := s.types.Resolve(file.Name, file.DeclaredType)
	if fileType == "" {
		return "", fmt.Errorf("file %q has no recognizable type", file.Name)
	}

	return fileType, nil
}

// normalizeTags trims tags and drops empties and duplicates, preserving
// first-seen order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		lower := strings.ToLower(tag)
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, tag)
	}
	return out
}
