package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/mh-fins/wallet-ledger/src/internal/domain"
	"github.com/mh-fins/wallet-ledger/src/internal/logger"
)

func logRequest(r *http.Request, payload any) {
	logger.Info("http request", logger.Fields{
		"method":  r.Method,
		"path":    r.URL.Path,
		"query":   r.URL.RawQuery,
		"payload": logger.SanitizePayload(payload),
	})
}

func logResponse(r *http.Request, status int, payload any, start time.Time) {
	logger.Info("http response", logger.Fields{
		"method":     r.Method,
		"path":       r.URL.Path,
		"status":     status,
		"durationMs": time.Since(start).Milliseconds(),
		"response":   logger.SanitizePayload(payload),
	})
}

func logError(r *http.Request, err error, extra logger.Fields) {
	fields := logger.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"query":  r.URL.RawQuery,
	}
	for k, v := range extra {
		fields[k] = v
	}
	logger.Error("http handler error", err, fields)
}

// statusForError maps the service error taxonomy onto HTTP statuses:
// validation 400, wrong pin 401, missing records 404, duplicates 409,
// insufficient funds 422, everything else (storage) 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrSelfTransfer),
		errors.Is(err, domain.ErrAmountBelowMinimum),
		errors.Is(err, domain.ErrAccountNotActive):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidPin):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateRecord):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
