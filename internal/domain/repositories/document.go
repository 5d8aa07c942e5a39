package repositories

import (
	"context"
	"time"

	"docvault/internal/domain/models"
)

// FolderCount pairs a category with the number of non-placeholder records
// carrying it. A category witnessed only by a placeholder has RealCount 0.
type FolderCount struct {
	Category  string
	RealCount int
}

// DocumentRepository defines data access operations for the flat document
// table. Folder semantics are expressed as category operations here so
// that rename/delete/reconcile happen as single atomic statements; the
// store, not the application, guarantees no half-renamed folder is ever
// visible.
type DocumentRepository interface {
	// Create inserts a new document record and fills in its assigned
	// id and timestamps.
	Create(ctx context.Context, doc *models.Document) error

	// GetByID retrieves a document scoped to its owner.
	GetByID(ctx context.Context, id, ownerID string) (*models.Document, error)

	// Update persists title, description, status, starred and tags.
	Update(ctx context.Context, doc *models.Document) error

	// UpdateCategory moves a single document to another category,
	// touching only category and updated_at.
	UpdateCategory(ctx context.Context, id, ownerID, category string, updatedAt time.Time) error

	// Delete removes a single document record.
	Delete(ctx context.Context, id, ownerID string) error

	// ListByOwner lists an owner's documents, newest first, excluding
	// placeholders. A non-nil category restricts to one folder
	// (case-insensitive).
	ListByOwner(ctx context.Context, ownerID string, category *string) ([]models.Document, error)

	// ListRealByCategory lists the non-placeholder documents in a
	// category (case-insensitive).
	ListRealByCategory(ctx context.Context, ownerID, category string) ([]models.Document, error)

	// CountByCategory returns every category the owner has (placeholder
	// or real) with its non-placeholder count, ordered by name.
	CountByCategory(ctx context.Context, ownerID string) ([]FolderCount, error)

	// CountRealInCategory counts non-placeholder documents in one
	// category (case-insensitive).
	CountRealInCategory(ctx context.Context, ownerID, category string) (int, error)

	// ResolveCategory resolves a folder name case-insensitively to the
	// stored category string. Returns ErrNotFound when no record
	// carries it.
	ResolveCategory(ctx context.Context, ownerID, name string) (string, error)

	// CategoryExists reports whether any record carries the category
	// (case-insensitive).
	CategoryExists(ctx context.Context, ownerID, name string) (bool, error)

	// RenameCategory rewrites the category on every record (placeholder
	// and real) carrying oldName, in one statement. Returns rows
	// affected.
	RenameCategory(ctx context.Context, ownerID, oldName, newName string, updatedAt time.Time) (int64, error)

	// DeleteCategory removes every record (placeholder and real) in a
	// category, in one statement. Returns rows affected.
	DeleteCategory(ctx context.Context, ownerID, category string) (int64, error)

	// PlaceholderCategories lists the categories that hold a
	// placeholder record (the "managed" folder set).
	PlaceholderCategories(ctx context.Context, ownerID string) ([]string, error)

	// ReassignStray moves every non-placeholder record whose category
	// is outside the managed set to the fallback category, in one
	// statement. Returns rows affected.
	ReassignStray(ctx context.Context, ownerID string, managed []string, fallback string, updatedAt time.Time) (int64, error)
}
