package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mh-fins/wallet-ledger/src/internal/adapter/http/middleware"
	"github.com/mh-fins/wallet-ledger/src/internal/adapter/http/models"
	"github.com/mh-fins/wallet-ledger/src/internal/commons"
	"github.com/mh-fins/wallet-ledger/src/internal/logger"
)

type TransferService interface {
	Transfer(ctx context.Context, req models.TransferRequest) (commons.Response[models.TransferResponse], error)
}

type TransferController struct {
	service TransferService
}

func NewTransferController(service TransferService) *TransferController {
	return &TransferController{service: service}
}

func (c *TransferController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler, idempotencyMiddleware func(http.Handler) http.Handler) {
	var handler http.Handler = http.HandlerFunc(c.transfer)
	if idempotencyMiddleware != nil {
		handler = idempotencyMiddleware(handler)
	}
	if authMiddleware != nil {
		handler = authMiddleware(handler)
	}

	mux.Handle("/api/transfer", handler)
}

func (c *TransferController) transfer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.TransferResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.TransferResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	if email, ok := middleware.IdentityFromContext(r.Context()); ok {
		logger.Info("transfer controller authenticated sender", logger.Fields{
			"email": email,
		})
	}

	response, err := c.service.Transfer(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForError(err)
		if response.Message == "validation failed" || response.Message == "invalid request body" {
			status = http.StatusBadRequest
		}

		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
