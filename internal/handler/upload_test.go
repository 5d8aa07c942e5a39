package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"docvault/internal/domain/models"
	"docvault/internal/domain/services"
	"docvault/internal/httputil"
)

type mockIngestService struct {
	ingestBulk func(ctx context.Context, ownerID string, files []services.IngestFile, meta services.IngestMetadata) (*services.IngestResult, error)
	uploadFile func(ctx context.Context, ownerID string, file services.IngestFile, req services.UploadRequest) (*models.Document, error)
}

func (m *mockIngestService) IngestBulk(ctx context.Context, ownerID string, files []services.IngestFile, meta services.IngestMetadata) (*services.IngestResult, error) {
	return m.ingestBulk(ctx, ownerID, files, meta)
}

func (m *mockIngestService) UploadFile(ctx context.Context, ownerID string, file services.IngestFile, req services.UploadRequest) (*models.Document, error) {
	return m.uploadFile(ctx, ownerID, file, req)
}

func newUploadHandler(svc *mockIngestService) *UploadHandler {
	return NewUploadHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// multipartBody builds a multipart form with the given file field entries
// and plain fields.
func multipartBody(t *testing.T, fileField string, files map[string][]byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, data := range files {
		part, err := w.CreateFormFile(fileField, name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func TestUploadHandler(t *testing.T) {
	var gotReq services.UploadRequest
	svc := &mockIngestService{
		uploadFile: func(ctx context.Context, ownerID string, file services.IngestFile, req services.UploadRequest) (*models.Document, error) {
			if file.Name != "report.pdf" {
				t.Errorf("file name = %q", file.Name)
			}
			if string(file.Data) != "pdf bytes" {
				t.Errorf("file data = %q", file.Data)
			}
			gotReq = req
			return &models.Document{ID: "doc-1", Title: "Annual report"}, nil
		},
	}

	body, contentType := multipartBody(t, "file",
		map[string][]byte{"report.pdf": []byte("pdf bytes")},
		map[string]string{
			"title":  "Annual report",
			"tags":   "finance, 2026",
			"folder": "Taxes",
		})

	r := httptest.NewRequest(http.MethodPost, "/api/documents/upload", body)
	r.Header.Set("Content-Type", contentType)
	r = httputil.WithOwnerID(r, "owner-1")

	rec := httptest.NewRecorder()
	newUploadHandler(svc).Upload(rec, r)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if gotReq.Title != "Annual report" || gotReq.TargetFolder != "Taxes" {
		t.Errorf("request = %+v", gotReq)
	}
	if want := []string{"finance", "2026"}; !reflect.DeepEqual(gotReq.Tags, want) {
		t.Errorf("tags = %v, want %v", gotReq.Tags, want)
	}
}

func TestUploadHandlerMissingFile(t *testing.T) {
	svc := &mockIngestService{
		uploadFile: func(ctx context.Context, ownerID string, file services.IngestFile, req services.UploadRequest) (*models.Document, error) {
			t.Error("service reached without a file")
			return nil, nil
		},
	}

	body, contentType := multipartBody(t, "file", nil, map[string]string{"title": "no file"})
	r := httptest.NewRequest(http.MethodPost, "/api/documents/upload", body)
	r.Header.Set("Content-Type", contentType)
	r = httputil.WithOwnerID(r, "owner-1")

	rec := httptest.NewRecorder()
	newUploadHandler(svc).Upload(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestBulkUploadHandler(t *testing.T) {
	svc := &mockIngestService{
		ingestBulk: func(ctx context.Context, ownerID string, files []services.IngestFile, meta services.IngestMetadata) (*services.IngestResult, error) {
			if len(files) != 2 {
				t.Fatalf("got %d files, want 2", len(files))
			}
			if meta.TargetFolder != "Taxes" {
				t.Errorf("target folder = %q", meta.TargetFolder)
			}

			results := make([]services.FileResult, len(files))
			for i, f := range files {
				results[i] = services.FileResult{
					Index:    i,
					FileName: f.Name,
					Status:   services.ResultSuccess,
					Document: &models.Document{ID: "doc-1"},
				}
			}
			return &services.IngestResult{
				Results: results,
				Summary: services.IngestSummary{Total: 2, Successful: 2, SuccessRate: 100},
			}, nil
		},
	}

	body, contentType := multipartBody(t, "files",
		map[string][]byte{
			"a.pdf": []byte("aaa"),
			"b.txt": []byte("bbb"),
		},
		map[string]string{"folder": "Taxes"})

	r := httptest.NewRequest(http.MethodPost, "/api/documents/bulk", body)
	r.Header.Set("Content-Type", contentType)
	r = httputil.WithOwnerID(r, "owner-1")

	rec := httptest.NewRecorder()
	newUploadHandler(svc).BulkUpload(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result services.IngestResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.Summary.Successful != 2 {
		t.Errorf("summary = %+v", result.Summary)
	}
}

func TestBulkUploadHandlerNoFiles(t *testing.T) {
	svc := &mockIngestService{
		ingestBulk: func(ctx context.Context, ownerID string, files []services.IngestFile, meta services.IngestMetadata) (*services.IngestResult, error) {
			t.Error("service reached without files")
			return nil, nil
		},
	}

	body, contentType := multipartBody(t, "files", nil, map[string]string{"folder": "Taxes"})
	r := httptest.NewRequest(http.MethodPost, "/api/documents/bulk", body)
	r.Header.Set("Content-Type", contentType)
	r = httputil.WithOwnerID(r, "owner-1")

	rec := httptest.NewRecorder()
	newUploadHandler(svc).BulkUpload(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
