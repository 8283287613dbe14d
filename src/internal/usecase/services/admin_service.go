package services

import (
	"context"
	"errors"
	"strings"

	"github.com/mh-fins/wallet-ledger/src/internal/adapter/http/models"
	"github.com/mh-fins/wallet-ledger/src/internal/commons"
	"github.com/mh-fins/wallet-ledger/src/internal/domain"
	"github.com/mh-fins/wallet-ledger/src/internal/logger"
)

type AdminService struct {
	userRepo    domain.UserRepository
	accountRepo domain.AccountRepository
}

func NewAdminService(userRepo domain.UserRepository, accountRepo domain.AccountRepository) *AdminService {
	return &AdminService{userRepo: userRepo, accountRepo: accountRepo}
}

func (s *AdminService) ListUsers(ctx context.Context, status, role string) (commons.Response[[]models.UserResponse], error) {
	users, err := s.userRepo.List(ctx, domain.UserFilter{
		Status: strings.TrimSpace(status),
		Role:   strings.TrimSpace(role),
	})
	if err != nil {
		logger.Error("admin service list users failed", err, nil)
		return commons.ErrorResponse[[]models.UserResponse]("failed to list users", "Unable to list users right now"), err
	}

	responses := make([]models.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, mapUserToResponse(user))
	}

	return commons.SuccessResponse("Users loaded", responses), nil
}

// ApproveUser moves a pending user to verified and opens their cash
// account with the approval bonus as the opening balance.
func (s *AdminService) ApproveUser(ctx context.Context, req models.ApproveUserRequest) (commons.Response[models.ApproveUserResponse], error) {
	logger.Info("admin service approve user request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("admin service approve user validation failed", err, nil)
		return commons.ErrorResponse[models.ApproveUserResponse]("validation failed", err.Error()), err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.userRepo.UpdateRoleAndStatus(ctx, email, domain.Role(strings.ToLower(strings.TrimSpace(req.Role))), domain.UserStatusVerified)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.ApproveUserResponse]("User not found"), err
		}
		logger.Error("admin service approve user update failed", err, logger.Fields{
			"email": email,
		})
		return commons.ErrorResponse[models.ApproveUserResponse]("failed to approve user", "Unable to approve user right now"), err
	}

	account, err := s.accountRepo.Create(ctx, domain.Account{
		Email:   email,
		Balance: req.BonusAmount,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateRecord) {
			return commons.ErrorResponse[models.ApproveUserResponse]("Account already exists for this user"), err
		}
		logger.Error("admin service approve user open account failed", err, logger.Fields{
			"email": email,
		})
		return commons.ErrorResponse[models.ApproveUserResponse]("failed to approve user", "Unable to open account right now"), err
	}

	logger.Info("admin service approve user success", logger.Fields{
		"email":     email,
		"accountId": account.ID,
	})
	return commons.SuccessResponse("User approved", models.ApproveUserResponse{
		User:    mapUserToResponse(user),
		Balance: decimalPtr(account.Balance),
	}), nil
}

// MakeAgent promotes a verified user to agent, clears the pending agent
// request, and credits the agent bonus.
func (s *AdminService) MakeAgent(ctx context.Context, req models.MakeAgentRequest) (commons.Response[models.ApproveUserResponse], error) {
	logger.Info("admin service make agent request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("admin service make agent validation failed", err, nil)
		return commons.ErrorResponse[models.ApproveUserResponse]("validation failed", err.Error()), err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.userRepo.PromoteToAgent(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.ApproveUserResponse]("User not found"), err
		}
		logger.Error("admin service make agent update failed", err, logger.Fields{
			"email": email,
		})
		return commons.ErrorResponse[models.ApproveUserResponse]("failed to promote user", "Unable to promote user right now"), err
	}

	account, err := s.accountRepo.Credit(ctx, email, req.BonusAmount)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.ApproveUserResponse]("Account not found"), err
		}
		logger.Error("admin service make agent bonus credit failed", err, logger.Fields{
			"email": email,
		})
		return commons.ErrorResponse[models.ApproveUserResponse]("failed to promote user", "Unable to credit bonus right now"), err
	}

	logger.Info("admin service make agent success", logger.Fields{
		"email": email,
	})
	return commons.SuccessResponse("User promoted to agent", models.ApproveUserResponse{
		User:    mapUserToResponse(user),
		Balance: decimalPtr(account.Balance),
	}), nil
}

func (s *AdminService) PendingAgentRequests(ctx context.Context) (commons.Response[[]models.UserResponse], error) {
	wantToBecomeAgent := true
	users, err := s.userRepo.List(ctx, domain.UserFilter{WantToBecomeAgent: &wantToBecomeAgent})
	if err != nil {
		logger.Error("admin service pending agent requests failed", err, nil)
		return commons.ErrorResponse[[]models.UserResponse]("failed to list requests", "Unable to list requests right now"), err
	}

	responses := make([]models.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, mapUserToResponse(user))
	}

	return commons.SuccessResponse("Pending agent requests loaded", responses), nil
}
