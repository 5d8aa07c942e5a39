package services

import (
	"context"
	"io"

	"docvault/internal/domain/models"
)

// DocumentService covers the single-document surface: listing, metadata
// mutation, deletion and byte retrieval. Creation happens through the
// ingestion paths.
type DocumentService interface {
	// ListDocuments lists an owner's documents, optionally restricted
	// to one folder. Placeholders are never surfaced.
	ListDocuments(ctx context.Context, ownerID string, folder *string) ([]models.Document, error)

	// GetDocument retrieves one document.
	GetDocument(ctx context.Context, ownerID, id string) (*models.Document, error)

	// UpdateDocument applies a partial metadata update (title,
	// description, status, starred, tags).
	UpdateDocument(ctx context.Context, ownerID, id string, req *models.UpdateDocumentRequest) (*models.Document, error)

	// DeleteDocument removes the record; its stored bytes are deleted
	// best-effort.
	DeleteDocument(ctx context.Context, ownerID, id string) error

	// OpenContent streams the document's bytes from the content store.
	OpenContent(ctx context.Context, ownerID, id string) (*models.Document, io.ReadCloser, error)
}
