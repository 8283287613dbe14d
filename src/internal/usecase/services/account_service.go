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

const defaultStatementLimit = 20
const maxStatementLimit = 100

type AccountService struct {
	accountRepo     domain.AccountRepository
	transactionRepo domain.TransactionRepository
}

func NewAccountService(accountRepo domain.AccountRepository, transactionRepo domain.TransactionRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo, transactionRepo: transactionRepo}
}

func (s *AccountService) GetBalance(ctx context.Context, email string) (commons.Response[models.BalanceResponse], error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.BalanceResponse]("Account not found"), err
		}
		logger.Error("account service get balance failed", err, logger.Fields{
			"email": email,
		})
		return commons.ErrorResponse[models.BalanceResponse]("failed to load balance", "Unable to load balance right now"), err
	}

	return commons.SuccessResponse("Balance loaded", models.BalanceResponse{
		Email:   account.Email,
		Balance: decimalPtr(account.Balance),
	}), nil
}

func (s *AccountService) GetStatement(ctx context.Context, email string, limit, offset int) (commons.Response[models.StatementResponse], error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if limit <= 0 {
		limit = defaultStatementLimit
	}
	if limit > maxStatementLimit {
		limit = maxStatementLimit
	}
	if offset < 0 {
		offset = 0
	}

	records, err := s.transactionRepo.ListByEmail(ctx, email, limit, offset)
	if err != nil {
		logger.Error("account service get statement failed", err, logger.Fields{
			"email": email,
		})
		return commons.ErrorResponse[models.StatementResponse]("failed to load statement", "Unable to load statement right now"), err
	}

	entries := make([]models.StatementEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, models.StatementEntry{
			ID:             record.ID,
			Reference:      record.Reference,
			SenderEmail:    record.SenderEmail,
			RecipientEmail: record.RecipientEmail,
			EntryType:      string(record.EntryType),
			Amount:         decimalPtr(record.Amount),
			Fee:            decimalPtr(record.Fee),
			CreatedAt:      record.CreatedAt,
		})
	}

	return commons.SuccessResponse("Statement loaded", models.StatementResponse{
		Email:   email,
		Limit:   limit,
		Offset:  offset,
		Entries: entries,
	}), nil
}
