package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/mh-fins/wallet-ledger/src/internal/adapter/http/middleware"
	"github.com/mh-fins/wallet-ledger/src/internal/adapter/http/models"
	"github.com/mh-fins/wallet-ledger/src/internal/commons"
)

type AccountService interface {
	GetBalance(ctx context.Context, email string) (commons.Response[models.BalanceResponse], error)
	GetStatement(ctx context.Context, email string, limit, offset int) (commons.Response[models.StatementResponse], error)
}

type AccountController struct {
	service AccountService
}

func NewAccountController(service AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	balance := http.HandlerFunc(c.balance)
	statement := http.HandlerFunc(c.statement)
	if authMiddleware != nil {
		mux.Handle("/api/balance", authMiddleware(balance))
		mux.Handle("/api/transactions", authMiddleware(statement))
		return
	}
	mux.Handle("/api/balance", balance)
	mux.Handle("/api/transactions", statement)
}

func (c *AccountController) balance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.BalanceResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	email, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response := commons.ErrorResponse[models.BalanceResponse]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	response, err := c.service.GetBalance(r.Context(), email)
	if err != nil {
		logError(r, err, nil)
		status := statusForError(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AccountController) statement(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.StatementResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	email, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response := commons.ErrorResponse[models.StatementResponse]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	response, err := c.service.GetStatement(r.Context(), email, limit, offset)
	if err != nil {
		logError(r, err, nil)
		status := statusForError(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
