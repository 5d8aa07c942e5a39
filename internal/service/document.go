package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"docvault/internal/audit"
	"docvault/internal/config"
	"docvault/internal/contentstore"
	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
)

type documentService struct {
	docRepo repositories.DocumentRepository
	store   contentstore.Store
	sink    audit.Sink
	logger  *slog.Logger
}

// NewDocumentService creates the document service.
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	store contentstore.Store,
	sink audit.Sink,
	logger *slog.Logger,
) services.DocumentService {
	return &documentService{
		docRepo: docRepo,
		store:   store,
		sink:    sink,
		logger:  logger,
	}
}

// ListDocuments lists an owner's documents, optionally restricted to one
// folder. Placeholders never appear.
func (s *documentService) ListDocuments(ctx context.Context, ownerID string, folder *string) ([]models.Document, error) {
	return s.docRepo.ListByOwner(ctx, ownerID, folder)
}

// GetDocument retrieves one document. Placeholder records are invisible
// through this surface.
func (s *documentService) GetDocument(ctx context.Context, ownerID, id string) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if doc.IsFolderPlaceholder {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return doc, nil
}

// UpdateDocument applies a partial metadata update.
func (s *documentService) UpdateDocument(ctx context.Context, ownerID, id string, req *models.UpdateDocumentRequest) (*models.Document, error) {
	doc, err := s.GetDocument(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" || len(title) > config.MaxTitleLength {
			return nil, &domain.ValidationError{
				Message: fmt.Sprintf("title must be 1-%d characters", config.MaxTitleLength),
			}
		}
		doc.Title = title
	}
	if req.Description != nil {
		doc.Description = *req.Description
	}
	if req.Status != nil {
		if !models.ValidStatus(*req.Status) {
			return nil, &domain.ValidationError{
				Message: fmt.Sprintf("unknown status %q", *req.Status),
			}
		}
		doc.Status = *req.Status
	}
	if req.Starred != nil {
		doc.Starred = *req.Starred
	}
	if req.Tags != nil {
		doc.Tags = normalizeTags(*req.Tags)
	}

	doc.UpdatedAt = time.Now()
	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// DeleteDocument removes the record. The stored bytes go best-effort:
// an orphaned blob is preferable to an undeletable document.
func (s *documentService) DeleteDocument(ctx context.Context, ownerID, id string) error {
	doc, err := s.GetDocument(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if doc.ContentKey != "" {
		if err := s.store.Delete(ctx, doc.ContentKey); err != nil {
			s.logger.Warn("failed to delete document content",
				"owner_id", ownerID,
				"document_id", id,
				"content_key", doc.ContentKey,
				"error", err,
			)
		}
	}

	if err := s.docRepo.Delete(ctx, id, ownerID); err != nil {
		return err
	}

	s.logger.Info("document deleted", "owner_id", ownerID, "document_id", id)
	s.sink.Emit(ctx, audit.Event{
		Type:    audit.EventDocumentDeleted,
		OwnerID: ownerID,
		Subject: id,
		Detail:  map[string]any{"file_name": doc.FileName},
	})

	return nil
}

// OpenContent streams the document's bytes from the content store.
func (s *documentService) OpenContent(ctx context.Context, ownerID, id string) (*models.Document, io.ReadCloser, error) {
	doc, err := s.GetDocument(ctx, ownerID, id)
	if err != nil {
		return nil, nil, err
	}

	if doc.ContentKey == "" {
		return nil, nil, fmt.Errorf("document %s has no stored content: %w", id, domain.ErrNotFound)
	}

	rc, err := s.store.GetStream(ctx, doc.ContentKey)
	if err != nil {
		return nil, nil, &domain.StorageError{Op: "stream", Key: doc.ContentKey, Err: err}
	}

	return doc, rc, nil
}
