package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"docvault/internal/auth"
	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/httputil"
)

type rejectingVerifier struct{}

func (rejectingVerifier) VerifyToken(string) (*models.Claims, error) {
	return nil, fmt.Errorf("bad signature: %w", domain.ErrUnauthorized)
}

func (rejectingVerifier) Close() error { return nil }

func TestAuthMiddleware(t *testing.T) {
	var gotOwner string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOwner = httputil.GetOwnerID(r)
		w.WriteHeader(http.StatusOK)
	})

	handler := Auth(&auth.StaticVerifier{OwnerID: "owner-1"})(next)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantOwner  string
	}{
		{"valid bearer token", "Bearer sometoken", http.StatusOK, "owner-1"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic dXNlcg==", http.StatusUnauthorized, ""},
		{"empty token", "Bearer ", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotOwner = ""
			r := httptest.NewRequest(http.MethodGet, "/api/folders", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, r)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if gotOwner != tt.wantOwner {
				t.Errorf("owner = %q, want %q", gotOwner, tt.wantOwner)
			}
		})
	}
}

func TestAuthMiddlewareRejectedToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached with a rejected token")
	})
	handler := Auth(rejectingVerifier{})(next)

	r := httptest.NewRequest(http.MethodGet, "/api/folders", nil)
	r.Header.Set("Authorization", "Bearer forged")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddlewareHealthBypass(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Auth(rejectingVerifier{})(next)

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Errorf("health check blocked: status = %d", rec.Code)
	}
}
