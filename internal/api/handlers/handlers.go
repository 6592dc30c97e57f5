// Package handlers holds the HTTP handlers behind the chi router. They
// translate between the JSON surface and the services, including the
// mapping from service errors to stable error codes.
package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/apexeduai/vault-backend/internal/api/httpx"
	"github.com/apexeduai/vault-backend/internal/extractor"
	"github.com/apexeduai/vault-backend/internal/models"
	"github.com/apexeduai/vault-backend/internal/repository"
	"github.com/apexeduai/vault-backend/internal/services"
)

// userPayload is the public shape of a user record.
type userPayload struct {
	ID            string     `json:"id"`
	PhoneNumber   string     `json:"phone_number"`
	FullName      *string    `json:"full_name,omitempty"`
	Email         *string    `json:"email,omitempty"`
	Institution   *string    `json:"institution,omitempty"`
	AvatarURL     *string    `json:"avatar_url,omitempty"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
	DaysRemaining int        `json:"days_remaining"`
	IsActive      bool       `json:"is_active"`
}

func toUserPayload(u models.User, now time.Time) userPayload {
	return userPayload{
		ID:            u.ID,
		PhoneNumber:   u.PhoneNumber,
		FullName:      u.FullName,
		Email:         u.Email,
		Institution:   u.Institution,
		AvatarURL:     u.AvatarURL,
		ExpiryDate:    u.ExpiryDate,
		DaysRemaining: u.DaysRemaining(now),
		IsActive:      u.IsActive,
	}
}

// writeServiceError maps service errors onto status codes and stable
// error codes. Anything unrecognized becomes an opaque 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidPhone):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_phone", err.Error(), nil)
	case errors.Is(err, services.ErrMissingReference):
		httpx.WriteError(w, http.StatusBadRequest, "missing_reference", err.Error(), nil)
	case errors.Is(err, services.ErrUnknownTransaction):
		httpx.WriteError(w, http.StatusBadRequest, "unknown_transaction", err.Error(), nil)
	case errors.Is(err, services.ErrInsufficientAmount):
		httpx.WriteError(w, http.StatusBadRequest, "insufficient_amount", err.Error(), nil)
	case errors.Is(err, services.ErrTransactionClaimed):
		httpx.WriteError(w, http.StatusForbidden, "transaction_claimed", err.Error(), nil)
	case errors.Is(err, services.ErrAccessExpired):
		httpx.WriteError(w, http.StatusForbidden, "access_expired", err.Error(), nil)
	case errors.Is(err, services.ErrAccountInactive):
		httpx.WriteError(w, http.StatusForbidden, "account_inactive", err.Error(), nil)
	case errors.Is(err, services.ErrNoSource),
		errors.Is(err, services.ErrUnsupportedImage),
		errors.Is(err, extractor.ErrUnsupported),
		errors.Is(err, extractor.ErrEmpty):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
	case errors.Is(err, services.ErrFileTooLong):
		httpx.WriteError(w, http.StatusRequestEntityTooLarge, "file_too_large", err.Error(), nil)
	case errors.Is(err, repository.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "resource not found", nil)
	default:
		slog.Error("request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}

// formFile pulls one optional upload out of a multipart form, returning
// ok=false when the field is absent.
func formFile(r *http.Request, field string, maxBytes int64) (name, contentType string, data []byte, ok bool, err error) {
	f, hdr, ferr := r.FormFile(field)
	if ferr != nil {
		if errors.Is(ferr, http.ErrMissingFile) {
			return "", "", nil, false, nil
		}
		return "", "", nil, false, ferr
	}
	defer f.Close()

	data, err = readAtMost(f, maxBytes)
	if err != nil {
		return "", "", nil, false, err
	}
	return hdr.Filename, hdr.Header.Get("Content-Type"), data, true, nil
}

// readAtMost reads up to max bytes and errors when the stream holds more.
func readAtMost(r io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, services.ErrFileTooLong
	}
	return data, nil
}
