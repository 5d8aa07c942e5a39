package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"docvault/internal/domain/models"
	"docvault/internal/domain/services"
	"docvault/internal/httputil"
)

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	docService    services.DocumentService
	folderService services.FolderService
	logger        *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService services.DocumentService, folderService services.FolderService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService:    docService,
		folderService: folderService,
		logger:        logger,
	}
}

// ListDocuments lists the owner's documents
// GET /api/documents?folder=Invoices
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var folder *string
	if f := r.URL.Query().Get("folder"); f != "" {
		folder = &f
	}

	docs, err := h.docService.ListDocuments(r.Context(), ownerID, folder)
	if err != nil {
		handleError(w, err)
		return
	}

	if docs == nil {
		docs = []models.Document{}
	}
	httputil.RespondJSON(w, http.StatusOK, docs)
}

// GetDocument retrieves a document by ID
// GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	doc, err := h.docService.GetDocument(r.Context(), ownerID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// UpdateDocument applies a partial metadata update
// PATCH /api/documents/{id}
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	var req models.UpdateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.docService.UpdateDocument(r.Context(), ownerID, id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// MoveDocument moves a document into another folder
// POST /api/documents/{id}/move
func (h *DocumentHandler) MoveDocument(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	var req models.MoveDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Folder == "" {
		httputil.RespondError(w, http.StatusBadRequest, "target folder is required")
		return
	}

	doc, err := h.folderService.MoveDocument(r.Context(), ownerID, id, req.Folder)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// DeleteDocument deletes a document
// DELETE /api/documents/{id}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	if err := h.docService.DeleteDocument(r.Context(), ownerID, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DownloadDocument streams the document's bytes
// GET /api/documents/{id}/download
func (h *DocumentHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	doc, rc, err := h.docService.OpenContent(r.Context(), ownerID, id)
	if err != nil {
		handleError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", doc.FileType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	if doc.FileSize > 0 {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", doc.FileSize))
	}

	if _, err := io.Copy(w, rc); err != nil {
		// Headers are gone; all we can do is log the broken stream.
		h.logger.Warn("document download interrupted",
			"document_id", id,
			"error", err,
		)
	}
}

// HealthCheck is a simple health check endpoint
// GET /health
func (h *DocumentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now(),
	})
}
