package handler

import (
	"log/slog"
	"net/http"

	"docvault/internal/domain/models"
	"docvault/internal/domain/services"
	"docvault/internal/httputil"
)

// FolderHandler handles folder HTTP requests. Folders have no id of
// their own, so routes address them by name.
type FolderHandler struct {
	folderService services.FolderService
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService services.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		logger:        logger,
	}
}

// ListFolders lists the owner's folders
// GET /api/folders
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	folders, err := h.folderService.ListFolders(r.Context(), ownerID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folders)
}

// CreateFolder creates a new empty folder
// POST /api/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req models.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	folder, err := h.folderService.CreateFolder(r.Context(), ownerID, req.Name)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// RenameFolder renames a folder, cascading to its documents
// PATCH /api/folders/{name}
func (h *FolderHandler) RenameFolder(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	name := r.PathValue("name")
	if name == "" {
		httputil.RespondError(w, http.StatusBadRequest, "folder name is required")
		return
	}

	var req models.RenameFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	folder, err := h.folderService.RenameFolder(r.Context(), ownerID, name, req.Name)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// DeleteFolder deletes a folder. Without force=true a non-empty folder
// is not touched; the 409 response carries the document count so the
// client can ask the user to confirm.
// DELETE /api/folders/{name}?force=true
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	name := r.PathValue("name")
	if name == "" {
		httputil.RespondError(w, http.StatusBadRequest, "folder name is required")
		return
	}

	force := r.URL.Query().Get("force") == "true"

	result, err := h.folderService.DeleteFolder(r.Context(), ownerID, name, force)
	if err != nil {
		handleError(w, err)
		return
	}

	if result.RequiresConfirmation {
		httputil.RespondErrorWithExtras(w, http.StatusConflict,
			"folder is not empty - retry with force=true to delete its documents",
			map[string]interface{}{
				"confirmation_required": true,
				"folder":                result.Folder,
				"document_count":        result.DocumentCount,
			})
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// ReconcileFolders reassigns stray documents to the default folder
// POST /api/folders/reconcile
func (h *FolderHandler) ReconcileFolders(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	result, err := h.folderService.Reconcile(r.Context(), ownerID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
