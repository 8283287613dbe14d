package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/mh-fins/wallet-ledger/src/internal/adapter/http/models"
	"github.com/mh-fins/wallet-ledger/src/internal/commons"
	"github.com/mh-fins/wallet-ledger/src/internal/domain"
	"github.com/mh-fins/wallet-ledger/src/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

type SessionStore interface {
	Save(ctx context.Context, token string, email string) error
	Get(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

type UserService struct {
	userRepo domain.UserRepository
	sessions SessionStore
}

func NewUserService(userRepo domain.UserRepository, sessions SessionStore) *UserService {
	return &UserService{userRepo: userRepo, sessions: sessions}
}

func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (commons.Response[models.AuthResponse], error) {
	logger.Info("user service register request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("user service register validation failed", err, nil)
		return commons.ErrorResponse[models.AuthResponse]("validation failed", err.Error()), err
	}

	hashedPin, err := hashPin(strings.TrimSpace(req.Pin))
	if err != nil {
		logger.Error("user service register hash pin failed", err, nil)
		return commons.ErrorResponse[models.AuthResponse]("failed to register user", "failed to hash pin"), err
	}

	user := domain.User{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		PinHash:     hashedPin,
		Role:        domain.RolePending,
		Status:      domain.UserStatusPending,
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateRecord) {
			return commons.ErrorResponse[models.AuthResponse]("User already exists with this email or number"), err
		}
		logger.Error("user service register repository failed", err, logger.Fields{
			"email": user.Email,
		})
		return commons.ErrorResponse[models.AuthResponse]("failed to register user", "Unable to register right now"), err
	}

	token, err := s.issueSession(ctx, created.Email)
	if err != nil {
		logger.Error("user service register issue session failed", err, logger.Fields{
			"email": created.Email,
		})
		return commons.ErrorResponse[models.AuthResponse]("failed to register user", "Unable to start a session right now"), err
	}

	logger.Info("user service register success", logger.Fields{
		"userId": created.ID,
		"email":  created.Email,
	})
	return commons.SuccessResponse("Registration successful", models.AuthResponse{
		Token: token,
		User:  mapUserToResponse(created),
	}), nil
}

func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (commons.Response[models.AuthResponse], error) {
	logger.Info("user service login request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("user service login validation failed", err, nil)
		return commons.ErrorResponse[models.AuthResponse]("validation failed", err.Error()), err
	}

	var user domain.User
	var err error
	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" {
		user, err = s.userRepo.GetByEmail(ctx, email)
	} else {
		user, err = s.userRepo.GetByPhoneNumber(ctx, strings.TrimSpace(req.PhoneNumber))
	}
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AuthResponse]("Wrong credentials. User not found"), err
		}
		return commons.ErrorResponse[models.AuthResponse]("failed to log in", "Unable to log in right now"), err
	}

	if !s.Verify(strings.TrimSpace(req.Pin), user.PinHash) {
		err := domain.ErrInvalidPin
		return commons.ErrorResponse[models.AuthResponse]("Wrong pin"), err
	}

	token, err := s.issueSession(ctx, user.Email)
	if err != nil {
		logger.Error("user service login issue session failed", err, logger.Fields{
			"email": user.Email,
		})
		return commons.ErrorResponse[models.AuthResponse]("failed to log in", "Unable to start a session right now"), err
	}

	logger.Info("user service login success", logger.Fields{
		"userId": user.ID,
		"email":  user.Email,
	})
	return commons.SuccessResponse("Login successful", models.AuthResponse{
		Token: token,
		User:  mapUserToResponse(user),
	}), nil
}

func (s *UserService) Logout(ctx context.Context, token string) (commons.Response[struct{}], error) {
	if strings.TrimSpace(token) == "" {
		return commons.SuccessResponse("Logout successful", struct{}{}), nil
	}

	if err := s.sessions.Delete(ctx, token); err != nil {
		logger.Error("user service logout failed", err, nil)
		return commons.ErrorResponse[struct{}]("failed to log out", "Unable to log out right now"), err
	}

	return commons.SuccessResponse("Logout successful", struct{}{}), nil
}

func (s *UserService) CurrentUser(ctx context.Context, email string) (commons.Response[models.UserResponse], error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.UserResponse]("User not found"), err
		}
		return commons.ErrorResponse[models.UserResponse]("failed to load user", "Unable to load user right now"), err
	}

	return commons.SuccessResponse("User loaded", mapUserToResponse(user)), nil
}

func (s *UserService) RequestAgentRole(ctx context.Context, email string, req models.AgentRequestRequest) (commons.Response[models.UserResponse], error) {
	logger.Info("user service agent role request", logger.Fields{
		"email":             email,
		"wantToBecomeAgent": req.WantToBecomeAgent,
	})

	user, err := s.userRepo.SetAgentRequest(ctx, email, req.WantToBecomeAgent, strings.TrimSpace(req.Message))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.UserResponse]("User not found"), err
		}
		logger.Error("user service agent role request failed", err, logger.Fields{
			"email": email,
		})
		return commons.ErrorResponse[models.UserResponse]("failed to submit request", "Unable to submit request right now"), err
	}

	return commons.SuccessResponse("Request submitted", mapUserToResponse(user)), nil
}

// Verify implements the credential check used by the transfer engine. A
// mismatch is a plain false, not an error; neither the pin nor the hash is
// ever logged.
func (s *UserService) Verify(plainPin, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plainPin)) == nil
}

func (s *UserService) issueSession(ctx context.Context, email string) (string, error) {
	token := uuid.NewString()
	if err := s.sessions.Save(ctx, token, email); err != nil {
		return "", err
	}
	return token, nil
}

func hashPin(pin string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func mapUserToResponse(user domain.User) models.UserResponse {
	response := models.UserResponse{
		ID:                user.ID,
		Name:              user.Name,
		Email:             user.Email,
		PhoneNumber:       user.PhoneNumber,
		Role:              string(user.Role),
		Status:            string(user.Status),
		WantToBecomeAgent: user.WantToBecomeAgent,
		CreatedAt:         user.CreatedAt,
	}
	if user.AgentRequestMessage != nil {
		response.AgentRequestMessage = *user.AgentRequestMessage
	}
	return response
}
