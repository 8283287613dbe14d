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

type UserService interface {
	Register(ctx context.Context, req models.RegisterRequest) (commons.Response[models.AuthResponse], error)
	Login(ctx context.Context, req models.LoginRequest) (commons.Response[models.AuthResponse], error)
	Logout(ctx context.Context, token string) (commons.Response[struct{}], error)
	CurrentUser(ctx context.Context, email string) (commons.Response[models.UserResponse], error)
	RequestAgentRole(ctx context.Context, email string, req models.AgentRequestRequest) (commons.Response[models.UserResponse], error)
}

type UserController struct {
	service UserService
}

func NewUserController(service UserService) *UserController {
	return &UserController{service: service}
}

func (c *UserController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("/api/register", http.HandlerFunc(c.register))
	mux.Handle("/api/login", http.HandlerFunc(c.login))
	mux.Handle("/api/logout", http.HandlerFunc(c.logout))

	currentUser := http.HandlerFunc(c.currentUser)
	agentRequest := http.HandlerFunc(c.agentRequest)
	if authMiddleware != nil {
		mux.Handle("/api/current-user", authMiddleware(currentUser))
		mux.Handle("/api/user/become-agent-request", authMiddleware(agentRequest))
		return
	}
	mux.Handle("/api/current-user", currentUser)
	mux.Handle("/api/user/become-agent-request", agentRequest)
}

func (c *UserController) register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.AuthResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.AuthResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Register(r.Context(), req)
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

func (c *UserController) login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.AuthResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.AuthResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Login(r.Context(), req)
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

func (c *UserController) logout(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[struct{}]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	response, err := c.service.Logout(r.Context(), middleware.BearerToken(r))
	if err != nil {
		logError(r, err, nil)
		writeJSON(w, http.StatusInternalServerError, response)
		logResponse(r, http.StatusInternalServerError, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *UserController) currentUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.UserResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	email, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response := commons.ErrorResponse[models.UserResponse]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	response, err := c.service.CurrentUser(r.Context(), email)
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

func (c *UserController) agentRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPatch {
		response := commons.ErrorResponse[models.UserResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	email, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response := commons.ErrorResponse[models.UserResponse]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	var req models.AgentRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.UserResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.RequestAgentRole(r.Context(), email, req)
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
