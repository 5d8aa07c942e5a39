package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
)

// documentColumns is the scan order shared by every SELECT in this file.
const documentColumns = `id, owner_id, title, description, file_name, file_type, file_size,
	content_key, category, tags, status, starred, is_folder_placeholder, created_at, updated_at`

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new document record
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (owner_id, title, description, file_name, file_type, file_size,
			content_key, category, tags, status, starred, is_folder_placeholder, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`, r.tables.Documents)

	if doc.Tags == nil {
		doc.Tags = []string{}
	}

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.OwnerID,
		doc.Title,
		doc.Description,
		doc.FileName,
		doc.FileType,
		doc.FileSize,
		doc.ContentKey,
		doc.Category,
		doc.Tags,
		doc.Status,
		doc.Starred,
		doc.IsFolderPlaceholder,
		doc.CreatedAt,
		doc.UpdatedAt,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			// Placeholder unique index: two callers created the same
			// folder at once and this one lost.
			return &domain.ConflictError{
				Message:      fmt.Sprintf("folder %q already exists", doc.Category),
				ResourceType: "folder",
				ResourceID:   doc.Category,
			}
		}
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID retrieves a document by ID, scoped to its owner
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, documentColumns, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	doc, err := scanDocument(executor.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return doc, nil
}

// Update persists the mutable metadata fields of a document
func (r *PostgresDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, description = $2, status = $3, starred = $4, tags = $5, updated_at = $6
		WHERE id = $7 AND owner_id = $8
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		doc.Title,
		doc.Description,
		doc.Status,
		doc.Starred,
		doc.Tags,
		doc.UpdatedAt,
		doc.ID,
		doc.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}

	return nil
}

// UpdateCategory moves one document to another category
func (r *PostgresDocumentRepository) UpdateCategory(ctx context.Context, id, ownerID, category string, updatedAt time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET category = $1, updated_at = $2
		WHERE id = $3 AND owner_id = $4
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, category, updatedAt, id, ownerID)
	if err != nil {
		return fmt.Errorf("update document category: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a single document record
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListByOwner lists an owner's documents, excluding placeholders
func (r *PostgresDocumentRepository) ListByOwner(ctx context.Context, ownerID string, category *string) ([]models.Document, error) {
	var query string
	var args []interface{}

	if category == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE owner_id = $1 AND NOT is_folder_placeholder
			ORDER BY created_at DESC
		`, documentColumns, r.tables.Documents)
		args = append(args, ownerID)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE owner_id = $1 AND NOT is_folder_placeholder AND lower(category) = lower($2)
			ORDER BY created_at DESC
		`, documentColumns, r.tables.Documents)
		args = append(args, ownerID, *category)
	}

	return r.queryDocuments(ctx, query, args...)
}

// ListRealByCategory lists the non-placeholder documents in a category
func (r *PostgresDocumentRepository) ListRealByCategory(ctx context.Context, ownerID, category string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1 AND NOT is_folder_placeholder AND lower(category) = lower($2)
		ORDER BY created_at ASC
	`, documentColumns, r.tables.Documents)

	return r.queryDocuments(ctx, query, ownerID, category)
}

// CountByCategory returns every category with its non-placeholder count
func (r *PostgresDocumentRepository) CountByCategory(ctx context.Context, ownerID string) ([]repositories.FolderCount, error) {
	// min(category) picks a canonical spelling if rows ever disagree on
	// case; rename normalizes them again.
	query := fmt.Sprintf(`
		SELECT min(category) AS category,
			count(*) FILTER (WHERE NOT is_folder_placeholder) AS real_count
		FROM %s
		WHERE owner_id = $1
		GROUP BY lower(category)
		ORDER BY lower(category) ASC
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}
	defer rows.Close()

	var counts []repositories.FolderCount
	for rows.Next() {
		var fc repositories.FolderCount
		if err := rows.Scan(&fc.Category, &fc.RealCount); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts = append(counts, fc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category counts: %w", err)
	}

	return counts, nil
}

// CountRealInCategory counts non-placeholder documents in one category
func (r *PostgresDocumentRepository) CountRealInCategory(ctx context.Context, ownerID, category string) (int, error) {
	query := fmt.Sprintf(`
		SELECT count(*)
		FROM %s
		WHERE owner_id = $1 AND NOT is_folder_placeholder AND lower(category) = lower($2)
	`, r.tables.Documents)

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, ownerID, category).Scan(&count); err != nil {
		return 0, fmt.Errorf("count documents in category: %w", err)
	}

	return count, nil
}

// ResolveCategory resolves a folder name to the stored category string
func (r *PostgresDocumentRepository) ResolveCategory(ctx context.Context, ownerID, name string) (string, error) {
	query := fmt.Sprintf(`
		SELECT min(category)
		FROM %s
		WHERE owner_id = $1 AND lower(category) = lower($2)
	`, r.tables.Documents)

	var category *string
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, ownerID, name).Scan(&category); err != nil {
		return "", fmt.Errorf("resolve category: %w", err)
	}

	if category == nil {
		return "", fmt.Errorf("folder %q: %w", name, domain.ErrNotFound)
	}

	return *category, nil
}

// CategoryExists reports whether any record carries the category
func (r *PostgresDocumentRepository) CategoryExists(ctx context.Context, ownerID, name string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s
			WHERE owner_id = $1 AND lower(category) = lower($2)
		)
	`, r.tables.Documents)

	var exists bool
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, ownerID, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("check category exists: %w", err)
	}

	return exists, nil
}

// RenameCategory rewrites the category on every record carrying oldName.
// One statement, so the rename is atomic: no caller ever observes a
// half-renamed folder.
func (r *PostgresDocumentRepository) RenameCategory(ctx context.Context, ownerID, oldName, newName string, updatedAt time.Time) (int64, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET category = $1, updated_at = $2
		WHERE owner_id = $3 AND lower(category) = lower($4)
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, newName, updatedAt, ownerID, oldName)
	if err != nil {
		if IsPgDuplicateError(err) {
			return 0, &domain.ConflictError{
				Message:      fmt.Sprintf("folder %q already exists", newName),
				ResourceType: "folder",
				ResourceID:   newName,
			}
		}
		return 0, fmt.Errorf("rename category: %w", err)
	}

	return result.RowsAffected(), nil
}

// DeleteCategory removes every record in a category in one statement
func (r *PostgresDocumentRepository) DeleteCategory(ctx context.Context, ownerID, category string) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE owner_id = $1 AND lower(category) = lower($2)
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, ownerID, category)
	if err != nil {
		return 0, fmt.Errorf("delete category: %w", err)
	}

	return result.RowsAffected(), nil
}

// PlaceholderCategories lists the categories holding a placeholder record
func (r *PostgresDocumentRepository) PlaceholderCategories(ctx context.Context, ownerID string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT category
		FROM %s
		WHERE owner_id = $1 AND is_folder_placeholder
		ORDER BY lower(category) ASC
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list placeholder categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan placeholder category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate placeholder categories: %w", err)
	}

	return categories, nil
}

// ReassignStray moves non-placeholder records outside the managed set to
// the fallback category in one statement
func (r *PostgresDocumentRepository) ReassignStray(ctx context.Context, ownerID string, managed []string, fallback string, updatedAt time.Time) (int64, error) {
	managedLower := make([]string, 0, len(managed)+1)
	for _, m := range managed {
		managedLower = append(managedLower, strings.ToLower(m))
	}
	// The fallback itself is always considered managed so reassignment
	// converges instead of rewriting fallback rows forever.
	managedLower = append(managedLower, strings.ToLower(fallback))

	query := fmt.Sprintf(`
		UPDATE %s
		SET category = $1, updated_at = $2
		WHERE owner_id = $3 AND NOT is_folder_placeholder
			AND NOT (lower(category) = ANY($4))
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, fallback, updatedAt, ownerID, managedLower)
	if err != nil {
		return 0, fmt.Errorf("reassign stray documents: %w", err)
	}

	return result.RowsAffected(), nil
}

// queryDocuments runs a SELECT with the shared column list and scans all rows
func (r *PostgresDocumentRepository) queryDocuments(ctx context.Context, query string, args ...interface{}) ([]models.Document, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return docs, nil
}

// scanDocument scans one row in documentColumns order
func scanDocument(row pgx.Row) (*models.Document, error) {
	var doc models.Document
	err := row.Scan(
		&doc.ID,
		&doc.OwnerID,
		&doc.Title,
		&doc.Description,
		&doc.FileName,
		&doc.FileType,
		&doc.FileSize,
		&doc.ContentKey,
		&doc.Category,
		&doc.Tags,
		&doc.Status,
		&doc.Starred,
		&doc.IsFolderPlaceholder,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
