package services

import (
	"context"

	"docvault/internal/domain/models"
)

// FolderService maintains the virtual-folder abstraction over the flat
// document table: listings, invariants (default folder, case-insensitive
// uniqueness, protected "General"), cascading rename/delete, and
// reconciliation of stray categories.
//
// Folders have no id of their own; operations take the folder name and
// resolve it case-insensitively.
type FolderService interface {
	// ListFolders lists the owner's folders ordered by name, lazily
	// recreating the default folder if it is missing.
	ListFolders(ctx context.Context, ownerID string) ([]models.Folder, error)

	// CreateFolder creates an empty folder by inserting its
	// placeholder record.
	CreateFolder(ctx context.Context, ownerID, name string) (*models.Folder, error)

	// RenameFolder renames a folder, cascading to every record in it.
	RenameFolder(ctx context.Context, ownerID, folder, newName string) (*models.Folder, error)

	// DeleteFolder deletes a folder and everything in it. Without
	// force, a non-empty folder is left untouched and the result asks
	// for confirmation.
	DeleteFolder(ctx context.Context, ownerID, folder string, force bool) (*models.DeleteFolderResult, error)

	// MoveDocument moves one document into another folder. Moving a
	// document to the folder it is already in is a no-op.
	MoveDocument(ctx context.Context, ownerID, documentID, targetFolder string) (*models.Document, error)

	// Reconcile moves real records whose category is not witnessed by
	// a placeholder back to the default folder. Idempotent.
	Reconcile(ctx context.Context, ownerID string) (*models.ReconcileResult, error)
}
