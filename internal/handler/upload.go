package handler

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"docvault/internal/config"
	"docvault/internal/domain/services"
	"docvault/internal/httputil"
)

// UploadHandler handles the multipart upload endpoints.
//
// Shared form fields for both endpoints:
//   - description: optional
//   - tags: optional, comma-separated
//   - folder: optional target folder name (default "General")
type UploadHandler struct {
	ingestService services.IngestService
	logger        *slog.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(ingestService services.IngestService, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		ingestService: ingestService,
		logger:        logger,
	}
}

// Upload ingests a single file.
// POST /api/documents/upload, form file field "file", optional "title".
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	if err := h.parseMultipart(w, r); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, `multipart field "file" is required`)
		return
	}
	defer file.Close()

	ingestFile, err := readIngestFile(file, header)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.ingestService.UploadFile(r.Context(), ownerID, ingestFile, services.UploadRequest{
		Title:        r.FormValue("title"),
		Description:  r.FormValue("description"),
		Tags:         splitTags(r.FormValue("tags")),
		TargetFolder: r.FormValue("folder"),
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// BulkUpload ingests many files under shared metadata.
// POST /api/documents/bulk, repeated form file field "files".
//
// The response is always a full per-file report; inspect summary.failed,
// not the status code, to detect partial failure.
func (h *UploadHandler) BulkUpload(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	if err := h.parseMultipart(w, r); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, `multipart field "files" is required`)
		return
	}

	headers := r.MultipartForm.File["files"]
	files := make([]services.IngestFile, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			// The file never made it out of the form; let the pipeline
			// record it as a failed entry instead of aborting the batch.
			files = append(files, services.IngestFile{Name: header.Filename})
			h.logger.Warn("failed to open multipart file", "file", header.Filename, "error", err)
			continue
		}

		ingestFile, err := readIngestFile(f, header)
		f.Close()
		if err != nil {
			files = append(files, services.IngestFile{Name: header.Filename})
			h.logger.Warn("failed to read multipart file", "file", header.Filename, "error", err)
			continue
		}
		files = append(files, ingestFile)
	}

	result, err := h.ingestService.IngestBulk(r.Context(), ownerID, files, services.IngestMetadata{
		Description:  r.FormValue("description"),
		Tags:         splitTags(r.FormValue("tags")),
		TargetFolder: r.FormValue("folder"),
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// parseMultipart bounds and parses the multipart body. The overall body
// cap leaves room for a full batch of maximum-size files.
func (h *UploadHandler) parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, int64(config.MaxFileSize)*(config.IngestBatchSize+1))
	if err := r.ParseMultipartForm(config.MaxMultipartMemory); err != nil {
		return fmt.Errorf("invalid multipart request: %w", err)
	}
	return nil
}

// readIngestFile drains one multipart file into an IngestFile.
func readIngestFile(f multipart.File, header *multipart.FileHeader) (services.IngestFile, error) {
	data, err := io.ReadAll(f)
	if err != nil {
		return services.IngestFile{}, fmt.Errorf("read file %q: %w", header.Filename, err)
	}

	return services.IngestFile{
		Name:         header.Filename,
		DeclaredType: header.Header.Get("Content-Type"),
		Data:         data,
	}, nil
}

// splitTags parses a comma-separated tags field.
func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
