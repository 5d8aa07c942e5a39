package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"docvault/internal/audit"
	"docvault/internal/contentstore"
	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
)

type folderService struct {
	docRepo   repositories.DocumentRepository
	txManager repositories.TransactionManager
	store     contentstore.Store
	sink      audit.Sink
	logger    *slog.Logger
}

// NewFolderService creates the virtual folder manager.
func NewFolderService(
	docRepo repositories.DocumentRepository,
	txManager repositories.TransactionManager,
	store contentstore.Store,
	sink audit.Sink,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		docRepo:   docRepo,
		txManager: txManager,
		store:     store,
		sink:      sink,
		logger:    logger,
	}
}

// ListFolders lists the owner's folders ordered by name. If no record
// carries the default category the placeholder is recreated first, so
// "General" is always present in the listing.
func (s *folderService) ListFolders(ctx context.Context, ownerID string) ([]models.Folder, error) {
	if err := s.ensureDefaultFolder(ctx, ownerID); err != nil {
		return nil, err
	}

	counts, err := s.docRepo.CountByCategory(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	folders := make([]models.Folder, 0, len(counts))
	for _, c := range counts {
		folders = append(folders, models.Folder{
			Name:          c.Category,
			DocumentCount: c.RealCount,
			IsDefault:     strings.EqualFold(c.Category, models.DefaultCategory),
		})
	}

	return folders, nil
}

// CreateFolder creates an empty folder by inserting its placeholder record.
func (s *folderService) CreateFolder(ctx context.Context, ownerID, name string) (*models.Folder, error) {
	name = strings.TrimSpace(name)
	if err := ValidateFolderName(name); err != nil {
		return nil, err
	}

	exists, err := s.docRepo.CategoryExists(ctx, ownerID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("a folder named %q already exists", name),
			ResourceType: "folder",
			ResourceID:   name,
		}
	}

	// The placeholder unique index catches the race where two callers
	// pass the check above at once; the loser gets the same conflict.
	if err := s.docRepo.Create(ctx, models.NewPlaceholder(ownerID, name)); err != nil {
		return nil, err
	}

	s.logger.Info("folder created", "owner_id", ownerID, "name", name)
	s.sink.Emit(ctx, audit.Event{
		Type:    audit.EventFolderCreated,
		OwnerID: ownerID,
		Subject: name,
	})

	return &models.Folder{
		Name:          name,
		DocumentCount: 0,
		IsDefault:     strings.EqualFold(name, models.DefaultCategory),
	}, nil
}

// RenameFolder renames a folder, cascading the category change to every
// record (placeholder and real) in a single update.
func (s *folderService) RenameFolder(ctx context.Context, ownerID, folder, newName string) (*models.Folder, error) {
	current, err := s.docRepo.ResolveCategory(ctx, ownerID, folder)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(current, models.DefaultCategory) {
		return nil, &domain.ForbiddenError{
			Message: fmt.Sprintf("the %q folder cannot be renamed", models.DefaultCategory),
		}
	}

	newName = strings.TrimSpace(newName)
	if err := ValidateFolderName(newName); err != nil {
		return nil, err
	}

	if newName == current {
		// Asking for the name it already has signals a caller bug, not
		// a no-op.
		return nil, fmt.Errorf("%w: folder is already named %q", domain.ErrValidation, newName)
	}

	// A case-only change targets the same derived folder, so the
	// conflict check would match the folder itself; skip it then.
	if !strings.EqualFold(newName, current) {
		exists, err := s.docRepo.CategoryExists(ctx, ownerID, newName)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &domain.ConflictError{
				Message:      fmt.Sprintf("a folder named %q already exists", newName),
				ResourceType: "folder",
				ResourceID:   newName,
			}
		}
	}

	moved, err := s.docRepo.RenameCategory(ctx, ownerID, current, newName, time.Now())
	if err != nil {
		return nil, err
	}

	count, err := s.docRepo.CountRealInCategory(ctx, ownerID, newName)
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder renamed",
		"owner_id", ownerID,
		"from", current,
		"to", newName,
		"records_moved", moved,
	)
	s.sink.Emit(ctx, audit.Event{
		Type:    audit.EventFolderRenamed,
		OwnerID: ownerID,
		Subject: newName,
		Detail:  map[string]any{"previous_name": current},
	})

	return &models.Folder{
		Name:          newName,
		DocumentCount: count,
		IsDefault:     false,
	}, nil
}

// DeleteFolder deletes a folder. A non-empty folder without force is the
// first phase of a two-phase delete: nothing is mutated and the result
// carries the count the caller must confirm.
func (s *folderService) DeleteFolder(ctx context.Context, ownerID, folder string, force bool) (*models.DeleteFolderResult, error) {
	current, err := s.docRepo.ResolveCategory(ctx, ownerID, folder)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(current, models.DefaultCategory) {
		return nil, &domain.ForbiddenError{
			Message: fmt.Sprintf("the %q folder cannot be deleted", models.DefaultCategory),
		}
	}

	count, err := s.docRepo.CountRealInCategory(ctx, ownerID, current)
	if err != nil {
		return nil, err
	}

	if count > 0 && !force {
		return &models.DeleteFolderResult{
			Folder:               current,
			RequiresConfirmation: true,
			DocumentCount:        count,
		}, nil
	}

	// Best-effort blob cleanup before the metadata delete. An orphaned
	// blob is preferable to an unremovable folder, so failures are
	// logged and swallowed.
	docs, err := s.docRepo.ListRealByCategory(ctx, ownerID, current)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if doc.ContentKey == "" {
			continue
		}
		if err := s.store.Delete(ctx, doc.ContentKey); err != nil {
			s.logger.Warn("failed to delete document content",
				"owner_id", ownerID,
				"document_id", doc.ID,
				"content_key", doc.ContentKey,
				"error", err,
			)
		}
	}

	removed, err := s.docRepo.DeleteCategory(ctx, ownerID, current)
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder deleted",
		"owner_id", ownerID,
		"name", current,
		"documents", count,
		"records_removed", removed,
	)
	s.sink.Emit(ctx, audit.Event{
		Type:    audit.EventFolderDeleted,
		OwnerID: ownerID,
		Subject: current,
		Detail:  map[string]any{"documents": count},
	})

	return &models.DeleteFolderResult{
		Folder:        current,
		Deleted:       true,
		DocumentCount: count,
	}, nil
}

// MoveDocument moves one document into another folder. Only category and
// updated_at change; the stored bytes and content key are untouched.
func (s *folderService) MoveDocument(ctx context.Context, ownerID, documentID, targetFolder string) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID, ownerID)
	if err != nil {
		return nil, err
	}

	target, err := s.docRepo.ResolveCategory(ctx, ownerID, targetFolder)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(doc.Category, target) {
		// Already there; succeed without touching the record.
		return doc, nil
	}

	now := time.Now()
	if err := s.docRepo.UpdateCategory(ctx, documentID, ownerID, target, now); err != nil {
		return nil, err
	}

	doc.Category = target
	doc.UpdatedAt = now

	s.logger.Info("document moved",
		"owner_id", ownerID,
		"document_id", documentID,
		"folder", target,
	)

	return doc, nil
}

// Reconcile reassigns real records whose category has no placeholder
// witness back to the default folder. Safe to run repeatedly; once
// categories are consistent it touches nothing.
func (s *folderService) Reconcile(ctx context.Context, ownerID string) (*models.ReconcileResult, error) {
	// Reading the managed set and reassigning strays happen in one
	// transaction so a folder created in between keeps its documents.
	var managed []string
	var reassigned int64
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		managed, err = s.docRepo.PlaceholderCategories(txCtx, ownerID)
		if err != nil {
			return err
		}

		reassigned, err = s.docRepo.ReassignStray(txCtx, ownerID, managed, models.DefaultCategory, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}

	if reassigned > 0 {
		s.logger.Info("folders reconciled",
			"owner_id", ownerID,
			"managed_folders", len(managed),
			"reassigned", reassigned,
		)
	}

	return &models.ReconcileResult{
		ManagedFolderCount: len(managed),
		Reassigned:         int(reassigned),
	}, nil
}

// ensureDefaultFolder recreates the default placeholder when no record
// carries the default category. Losing the creation race to a concurrent
// request is fine; either way the folder exists afterwards.
func (s *folderService) ensureDefaultFolder(ctx context.Context, ownerID string) error {
	exists, err := s.docRepo.CategoryExists(ctx, ownerID, models.DefaultCategory)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = s.docRepo.Create(ctx, models.NewPlaceholder(ownerID, models.DefaultCategory))
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil
		}
		return err
	}

	s.logger.Debug("default folder recreated", "owner_id", ownerID)
	return nil
}
