package handler

import (
	"errors"
	"net/http"

	"docvault/internal/domain"
	"docvault/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	case errors.Is(err, domain.ErrStorage):
		httputil.RespondError(w, http.StatusBadGateway, err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// requireOwner extracts the authenticated owner id or writes a 401.
func requireOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID := httputil.GetOwnerID(r)
	if ownerID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "missing authentication")
		return "", false
	}
	return ownerID, true
}
