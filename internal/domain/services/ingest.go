package services

import (
	"context"

	"docvault/internal/domain/models"
)

// File result statuses.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// IngestFile is one file handed to the ingestion pipeline.
type IngestFile struct {
	Name         string
	DeclaredType string
	Data         []byte
}

// IngestMetadata is shared by every file in one bulk request. The target
// folder is resolved once for the whole batch; per-file folder targets
// are not supported.
type IngestMetadata struct {
	Description  string
	Tags         []string
	TargetFolder string
}

// FileResult is the per-file outcome of a bulk ingestion. Index matches
// the file's position in the request regardless of completion order.
type FileResult struct {
	Index    int              `json:"index"`
	FileName string           `json:"file_name"`
	Status   string           `json:"status"`
	Error    string           `json:"error,omitempty"`
	Document *models.Document `json:"document,omitempty"`
}

// IngestSummary aggregates a bulk ingestion.
type IngestSummary struct {
	Total       int `json:"total"`
	Successful  int `json:"successful"`
	Failed      int `json:"failed"`
	SuccessRate int `json:"success_rate"`
}

// IngestResult is the full return of a bulk ingestion: ordered per-file
// results plus the aggregate. Individual file failures never fail the
// call; they are data in Results.
type IngestResult struct {
	Results []FileResult  `json:"results"`
	Summary IngestSummary `json:"summary"`
}

// UploadRequest carries the per-call metadata of a single-file upload,
// where metadata may vary per call unlike the shared bulk metadata.
type UploadRequest struct {
	Title        string
	Description  string
	Tags         []string
	TargetFolder string
}

// IngestService ingests file bytes into the content store and records
// them as documents.
type IngestService interface {
	// IngestBulk uploads many files in concurrency-bounded batches,
	// isolating per-file failures. It errors only when the request
	// itself is structurally invalid (no files, unresolvable folder).
	IngestBulk(ctx context.Context, ownerID string, files []IngestFile, meta IngestMetadata) (*IngestResult, error)

	// UploadFile is the single-shot path: same validation, key
	// derivation, upload and verification as one bulk file, but
	// failures propagate to the caller directly.
	UploadFile(ctx context.Context, ownerID string, file IngestFile, req UploadRequest) (*models.Document, error)
}
