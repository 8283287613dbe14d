package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lib/pq"
	"github.com/mh-fins/wallet-ledger/src/internal/adapter/http/models"
	"github.com/mh-fins/wallet-ledger/src/internal/commons"
	"github.com/mh-fins/wallet-ledger/src/internal/domain"
	"github.com/mh-fins/wallet-ledger/src/internal/logger"
	"github.com/shopspring/decimal"
)

// Business constants for a single transfer. Amounts below the minimum are
// rejected outright; amounts at or above the fee threshold cost the sender
// a flat fee; the sender must keep at least the reserve after any transfer
// it initiates.
var (
	minTransferAmount  = decimal.NewFromInt(50)
	feeThresholdAmount = decimal.NewFromInt(100)
	flatTransferFee    = decimal.NewFromInt(5)
	minimumReserve     = decimal.NewFromInt(40)
)

const postingTimeout = 15 * time.Second

type CredentialVerifier interface {
	Verify(plainPin, storedHash string) bool
}

type TransferService struct {
	userRepo        domain.UserRepository
	accountRepo     domain.AccountRepository
	transactionRepo domain.TransactionRepository
	verifier        CredentialVerifier
}

func NewTransferService(
	userRepo domain.UserRepository,
	accountRepo domain.AccountRepository,
	transactionRepo domain.TransactionRepository,
	verifier CredentialVerifier,
) *TransferService {
	return &TransferService{
		userRepo:        userRepo,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		verifier:        verifier,
	}
}

var transferRefCounter uint32

func (s *TransferService) Transfer(ctx context.Context, req models.TransferRequest) (commons.Response[models.TransferResponse], error) {
	logger.Info("transfer service transfer request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.TransferResponse]("validation failed", err.Error()), err
	}

	senderPhone := strings.TrimSpace(req.SenderPhone)
	recipientPhone := strings.TrimSpace(req.RecipientPhone)
	if senderPhone == recipientPhone {
		err := domain.ErrSelfTransfer
		return commons.ErrorResponse[models.TransferResponse]("validation failed", err.Error()), err
	}

	amount := req.Amount
	if amount.LessThan(minTransferAmount) {
		err := domain.ErrAmountBelowMinimum
		return commons.ErrorResponse[models.TransferResponse]("validation failed", fmt.Sprintf("minimum transfer amount is %s", minTransferAmount)), err
	}

	sender, err := s.userRepo.GetByPhoneNumber(ctx, senderPhone)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.TransferResponse]("Sender account not found"), err
		}
		return commons.ErrorResponse[models.TransferResponse]("failed to process transfer", "Unable to process transfer right now"), err
	}

	if !s.verifier.Verify(strings.TrimSpace(req.Pin), sender.PinHash) {
		err := domain.ErrInvalidPin
		return commons.ErrorResponse[models.TransferResponse]("Wrong pin"), err
	}

	if sender.Status != domain.UserStatusVerified {
		err := domain.ErrAccountNotActive
		return commons.ErrorResponse[models.TransferResponse]("validation failed", err.Error()), err
	}

	recipient, err := s.userRepo.GetByPhoneNumber(ctx, recipientPhone)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.TransferResponse]("Recipient account not found"), err
		}
		return commons.ErrorResponse[models.TransferResponse]("failed to process transfer", "Unable to process transfer right now"), err
	}

	senderAccount, err := s.accountRepo.GetByEmail(ctx, sender.Email)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.TransferResponse]("Sender account not found"), err
		}
		return commons.ErrorResponse[models.TransferResponse]("failed to process transfer", "Unable to process transfer right now"), err
	}
	if _, err = s.accountRepo.GetByEmail(ctx, recipient.Email); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.TransferResponse]("Recipient account not found"), err
		}
		return commons.ErrorResponse[models.TransferResponse]("failed to process transfer", "Unable to process transfer right now"), err
	}

	fee := decimal.Zero
	if amount.GreaterThanOrEqual(feeThresholdAmount) {
		fee = flatTransferFee
	}
	totalDebit := amount.Add(fee)

	// Reserve check before the amount leaves, then the post-transfer floor.
	// Both are re-enforced atomically by the posting's conditional debit.
	if senderAccount.Balance.Sub(fee).LessThan(minimumReserve) {
		err := domain.ErrInsufficientBalance
		return commons.ErrorResponse[models.TransferResponse]("Insufficient balance", err.Error()), err
	}
	if senderAccount.Balance.Sub(totalDebit).LessThan(minimumReserve) {
		err := domain.ErrInsufficientBalance
		return commons.ErrorResponse[models.TransferResponse]("Insufficient balance", err.Error()), err
	}

	postingCtx, cancel := context.WithTimeout(ctx, postingTimeout)
	defer cancel()

	var result domain.TransferPostingResult
	var reference string
	for attempt := 0; attempt < 5; attempt++ {
		reference = generateTransferReference()
		posting := domain.TransferPosting{
			Reference:      reference,
			SenderEmail:    sender.Email,
			RecipientEmail: recipient.Email,
			Amount:         amount,
			Fee:            fee,
			TotalDebit:     totalDebit,
			Floor:          minimumReserve,
		}

		result, err = s.transactionRepo.PostTransfer(postingCtx, posting)
		if err == nil || !isUniqueViolation(err) {
			break
		}
	}
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) {
			return commons.ErrorResponse[models.TransferResponse]("Insufficient balance", err.Error()), err
		}
		// Commit-phase failure: the caller must confirm via the ledger
		// before retrying, so report it apart from validation failures.
		logger.Error("transfer service posting failed", err, logger.Fields{
			"senderPhone":    senderPhone,
			"recipientPhone": recipientPhone,
		})
		return commons.ErrorResponse[models.TransferResponse]("transfer failed", "Unable to complete transfer posting"), err
	}

	response := models.TransferResponse{
		Reference:        reference,
		SenderPhone:      senderPhone,
		RecipientPhone:   recipientPhone,
		Amount:           decimalPtr(amount),
		Fee:              decimalPtr(fee),
		TotalDebit:       decimalPtr(totalDebit),
		SenderBalance:    decimalPtr(result.SenderBalance),
		RecipientBalance: decimalPtr(result.RecipientBalance),
		DebitRecordID:    result.DebitRecordID,
		CreditRecordID:   result.CreditRecordID,
	}

	logger.Info("transfer service transfer success", logger.Fields{
		"debitRecordId":  result.DebitRecordID,
		"creditRecordId": result.CreditRecordID,
		"amount":         amount,
		"fee":            fee,
	})
	return commons.SuccessResponse("Transfer successful", response), nil
}

func generateTransferReference() string {
	now := time.Now().UTC()
	base := now.Format("20060102150405") + fmt.Sprintf("%09d", now.Nanosecond())
	counter := atomic.AddUint32(&transferRefCounter, 1) % 10000000
	suffix := fmt.Sprintf("%07d", counter)
	return base + suffix
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "23505"
	}
	return false
}

func decimalPtr(value decimal.Decimal) *decimal.Decimal {
	v := value
	return &v
}
