package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"docvault/internal/audit"
	"docvault/internal/contentstore"
	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
)

// mockDocumentRepo is an in-memory DocumentRepository. It reproduces the
// semantics the postgres implementation gets from SQL: case-insensitive
// category matching, the placeholder uniqueness arbiter, and single-shot
// category rewrites. Guarded by a mutex because bulk ingestion calls
// Create from several goroutines.
type mockDocumentRepo struct {
	mu   sync.Mutex
	docs map[string]*models.Document
	seq  int
	// createErr, when set, fails the next matching Create calls.
	createErr func(doc *models.Document) error
}

func newMockDocumentRepo() *mockDocumentRepo {
	return &mockDocumentRepo{docs: make(map[string]*models.Document)}
}

// seed inserts a document directly, bypassing Create hooks.
func (m *mockDocumentRepo) seed(doc *models.Document) *models.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	cp := *doc
	if cp.ID == "" {
		cp.ID = fmt.Sprintf("doc-%d", m.seq)
	}
	m.docs[cp.ID] = &cp
	return &cp
}

func (m *mockDocumentRepo) Create(ctx context.Context, doc *models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		if err := m.createErr(doc); err != nil {
			return err
		}
	}

	if doc.IsFolderPlaceholder {
		for _, d := range m.docs {
			if d.OwnerID == doc.OwnerID && d.IsFolderPlaceholder && strings.EqualFold(d.Category, doc.Category) {
				return &domain.ConflictError{
					Message:      fmt.Sprintf("a folder named %q already exists", doc.Category),
					ResourceType: "folder",
					ResourceID:   doc.Category,
				}
			}
		}
	}

	m.seq++
	doc.ID = fmt.Sprintf("doc-%d", m.seq)
	now := time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = now
	}
	cp := *doc
	m.docs[doc.ID] = &cp
	return nil
}

func (m *mockDocumentRepo) GetByID(ctx context.Context, id, ownerID string) (*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok || d.OwnerID != ownerID {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	cp := *d
	return &cp, nil
}

func (m *mockDocumentRepo) Update(ctx context.Context, doc *models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[doc.ID]
	if !ok || d.OwnerID != doc.OwnerID {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}
	cp := *doc
	m.docs[doc.ID] = &cp
	return nil
}

func (m *mockDocumentRepo) UpdateCategory(ctx context.Context, id, ownerID, category string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok || d.OwnerID != ownerID {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	d.Category = category
	d.UpdatedAt = updatedAt
	return nil
}

func (m *mockDocumentRepo) Delete(ctx context.Context, id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok || d.OwnerID != ownerID {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	delete(m.docs, id)
	return nil
}

func (m *mockDocumentRepo) ListByOwner(ctx context.Context, ownerID string, category *string) ([]models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Document
	for _, d := range m.docs {
		if d.OwnerID != ownerID || d.IsFolderPlaceholder {
			continue
		}
		if category != nil && !strings.EqualFold(d.Category, *category) {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockDocumentRepo) ListRealByCategory(ctx context.Context, ownerID, category string) ([]models.Document, error) {
	return m.ListByOwner(ctx, ownerID, &category)
}

func (m *mockDocumentRepo) CountByCategory(ctx context.Context, ownerID string) ([]repositories.FolderCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byLower := make(map[string]*repositories.FolderCount)
	for _, d := range m.docs {
		if d.OwnerID != ownerID {
			continue
		}
		key := strings.ToLower(d.Category)
		fc, ok := byLower[key]
		if !ok {
			fc = &repositories.FolderCount{Category: d.Category}
			byLower[key] = fc
		}
		if !d.IsFolderPlaceholder {
			fc.RealCount++
		}
	}
	out := make([]repositories.FolderCount, 0, len(byLower))
	for _, fc := range byLower {
		out = append(out, *fc)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Category) < strings.ToLower(out[j].Category)
	})
	return out, nil
}

func (m *mockDocumentRepo) CountRealInCategory(ctx context.Context, ownerID, category string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, d := range m.docs {
		if d.OwnerID == ownerID && !d.IsFolderPlaceholder && strings.EqualFold(d.Category, category) {
			count++
		}
	}
	return count, nil
}

func (m *mockDocumentRepo) ResolveCategory(ctx context.Context, ownerID, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	resolved := ""
	for _, d := range m.docs {
		if d.OwnerID != ownerID || !strings.EqualFold(d.Category, name) {
			continue
		}
		if resolved == "" || d.Category < resolved {
			resolved = d.Category
		}
	}
	if resolved == "" {
		return "", fmt.Errorf("folder %q: %w", name, domain.ErrNotFound)
	}
	return resolved, nil
}

func (m *mockDocumentRepo) CategoryExists(ctx context.Context, ownerID, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.docs {
		if d.OwnerID == ownerID && strings.EqualFold(d.Category, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockDocumentRepo) RenameCategory(ctx context.Context, ownerID, oldName, newName string, updatedAt time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, d := range m.docs {
		if d.OwnerID == ownerID && strings.EqualFold(d.Category, oldName) {
			d.Category = newName
			d.UpdatedAt = updatedAt
			n++
		}
	}
	return n, nil
}

func (m *mockDocumentRepo) DeleteCategory(ctx context.Context, ownerID, category string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, d := range m.docs {
		if d.OwnerID == ownerID && strings.EqualFold(d.Category, category) {
			delete(m.docs, id)
			n++
		}
	}
	return n, nil
}

func (m *mockDocumentRepo) PlaceholderCategories(ctx context.Context, ownerID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, d := range m.docs {
		if d.OwnerID == ownerID && d.IsFolderPlaceholder {
			out = append(out, d.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *mockDocumentRepo) ReassignStray(ctx context.Context, ownerID string, managed []string, fallback string, updatedAt time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	allowed := make(map[string]struct{}, len(managed)+1)
	for _, c := range managed {
		allowed[strings.ToLower(c)] = struct{}{}
	}
	allowed[strings.ToLower(fallback)] = struct{}{}

	var n int64
	for _, d := range m.docs {
		if d.OwnerID != ownerID || d.IsFolderPlaceholder {
			continue
		}
		if _, ok := allowed[strings.ToLower(d.Category)]; ok {
			continue
		}
		d.Category = fallback
		d.UpdatedAt = updatedAt
		n++
	}
	return n, nil
}

// byCategory returns the owner's live documents (placeholders included)
// in the named category, for assertions.
func (m *mockDocumentRepo) byCategory(ownerID, category string) []*models.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Document
	for _, d := range m.docs {
		if d.OwnerID == ownerID && strings.EqualFold(d.Category, category) {
			out = append(out, d)
		}
	}
	return out
}

func (m *mockDocumentRepo) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs)
}

// passthroughTxManager runs the function without a real transaction.
type passthroughTxManager struct{}

func (passthroughTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// captureSink records emitted events for assertions.
type captureSink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *captureSink) Emit(ctx context.Context, ev audit.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *captureSink) byType(eventType string) []audit.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []audit.Event
	for _, ev := range s.events {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

// faultStore wraps the in-memory store with switchable failures.
type faultStore struct {
	*contentstore.MemoryStore
	failPut     bool
	failDelete  bool
	existsFalse bool
}

func newFaultStore() *faultStore {
	return &faultStore{MemoryStore: contentstore.NewMemoryStore()}
}

func (s *faultStore) Put(ctx context.Context, key string, data []byte) error {
	if s.failPut {
		return fmt.Errorf("simulated write failure")
	}
	return s.MemoryStore.Put(ctx, key, data)
}

func (s *faultStore) Exists(ctx context.Context, key string) (bool, error) {
	if s.existsFalse {
		return false, nil
	}
	return s.MemoryStore.Exists(ctx, key)
}

func (s *faultStore) Delete(ctx context.Context, key string) error {
	if s.failDelete {
		return fmt.Errorf("simulated delete failure")
	}
	return s.MemoryStore.Delete(ctx, key)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
