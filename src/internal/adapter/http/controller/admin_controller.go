package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mh-fins/wallet-ledger/src/internal/adapter/http/models"
	"github.com/mh-fins/wallet-ledger/src/internal/commons"
	"github.com/mh-fins/wallet-ledger/src/internal/logger"
)

type AdminService interface {
	ListUsers(ctx context.Context, status, role string) (commons.Response[[]models.UserResponse], error)
	ApproveUser(ctx context.Context, req models.ApproveUserRequest) (commons.Response[models.ApproveUserResponse], error)
	MakeAgent(ctx context.Context, req models.MakeAgentRequest) (commons.Response[models.ApproveUserResponse], error)
	PendingAgentRequests(ctx context.Context) (commons.Response[[]models.UserResponse], error)
}

type AdminController struct {
	service AdminService
}

func NewAdminController(service AdminService) *AdminController {
	return &AdminController{service: service}
}

func (c *AdminController) RegisterRoutes(mux *http.ServeMux, adminMiddleware func(http.Handler) http.Handler) {
	listUsers := http.HandlerFunc(c.listUsers)
	approveUser := http.HandlerFunc(c.approveUser)
	makeAgent := http.HandlerFunc(c.makeAgent)
	pendingRequests := http.HandlerFunc(c.pendingAgentRequests)

	if adminMiddleware != nil {
		mux.Handle("/api/admin/all-users", adminMiddleware(listUsers))
		mux.Handle("/api/admin/approve-user", adminMiddleware(approveUser))
		mux.Handle("/api/admin/make-agent", adminMiddleware(makeAgent))
		mux.Handle("/api/admin/pending-agent-requests", adminMiddleware(pendingRequests))
		return
	}
	mux.Handle("/api/admin/all-users", listUsers)
	mux.Handle("/api/admin/approve-user", approveUser)
	mux.Handle("/api/admin/make-agent", makeAgent)
	mux.Handle("/api/admin/pending-agent-requests", pendingRequests)
}

func (c *AdminController) listUsers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[[]models.UserResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	response, err := c.service.ListUsers(r.Context(), r.URL.Query().Get("status"), r.URL.Query().Get("role"))
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

func (c *AdminController) approveUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPatch {
		response := commons.ErrorResponse[models.ApproveUserResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.ApproveUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.ApproveUserResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.ApproveUser(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForError(err)
		if response.Message == "validation failed" {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AdminController) makeAgent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPatch {
		response := commons.ErrorResponse[models.ApproveUserResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.MakeAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.ApproveUserResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.MakeAgent(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForError(err)
		if response.Message == "validation failed" {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AdminController) pendingAgentRequests(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[[]models.UserResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	response, err := c.service.PendingAgentRequests(r.Context())
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
