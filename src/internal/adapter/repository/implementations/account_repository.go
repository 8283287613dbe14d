package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mh-fins/wallet-ledger/src/internal/domain"
	"github.com/mh-fins/wallet-ledger/src/internal/logger"
	"github.com/shopspring/decimal"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	logger.Info("account repository create", logger.Fields{
		"email":   account.Email,
		"balance": account.Balance,
	})

	const query = `
INSERT INTO accounts (
	email,
	balance
) VALUES ($1, $2)
RETURNING id, created_at, updated_at`

	var id string
	var createdAt time.Time
	var updatedAt time.Time

	if err := r.db.QueryRowContext(
		ctx,
		query,
		account.Email,
		account.Balance.StringFixed(2),
	).Scan(&id, &createdAt, &updatedAt); err != nil {
		if isUniqueViolation(err) {
			logger.Info("account repository create duplicate", logger.Fields{
				"email": account.Email,
			})
			return domain.Account{}, domain.ErrDuplicateRecord
		}
		logger.Error("account repository create failed", err, logger.Fields{
			"email": account.Email,
		})
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	account.ID = id
	account.CreatedAt = createdAt
	account.UpdatedAt = updatedAt

	logger.Info("account repository create success", logger.Fields{
		"accountId": account.ID,
		"email":     account.Email,
	})
	return account, nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	const query = `
SELECT id, email, balance, created_at, updated_at
FROM accounts
WHERE email = $1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("account repository record not found", logger.Fields{
				"email": email,
			})
			return domain.Account{}, domain.ErrRecordNotFound
		}
		logger.Error("account repository get by email failed", err, logger.Fields{
			"email": email,
		})
		return domain.Account{}, fmt.Errorf("get account by email: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) Credit(ctx context.Context, email string, amount decimal.Decimal) (domain.Account, error) {
	logger.Info("account repository credit", logger.Fields{
		"email":  email,
		"amount": amount,
	})

	const query = `
UPDATE accounts
SET balance = balance + $2::numeric,
    updated_at = NOW()
WHERE email = $1
RETURNING id, email, balance, created_at, updated_at`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, email, amount.StringFixed(2)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrRecordNotFound
		}
		logger.Error("account repository credit failed", err, logger.Fields{
			"email": email,
		})
		return domain.Account{}, fmt.Errorf("credit account: %w", err)
	}

	logger.Info("account repository credit success", logger.Fields{
		"accountId": account.ID,
		"email":     account.Email,
	})
	return account, nil
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var account domain.Account
	var balance string
	if err := row.Scan(
		&account.ID,
		&account.Email,
		&balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return domain.Account{}, err
	}

	parsed, err := decimal.NewFromString(balance)
	if err != nil {
		return domain.Account{}, fmt.Errorf("parse account balance: %w", err)
	}
	account.Balance = parsed
	return account, nil
}
