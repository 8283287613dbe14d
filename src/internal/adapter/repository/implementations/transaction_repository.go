package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mh-fins/wallet-ledger/src/internal/domain"
	"github.com/mh-fins/wallet-ledger/src/internal/logger"
	"github.com/shopspring/decimal"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// PostTransfer runs the four-way write as one storage transaction: the
// conditional sender debit, the recipient credit, and the two ledger
// inserts. Nothing is visible until commit. The debit condition re-checks
// the floor against the row's current balance, so two transfers racing on
// the same sender cannot both pass validation and both win.
func (r *TransactionRepository) PostTransfer(ctx context.Context, posting domain.TransferPosting) (domain.TransferPostingResult, error) {
	logger.Info("transaction repository post transfer", logger.Fields{
		"reference":      posting.Reference,
		"senderEmail":    posting.SenderEmail,
		"recipientEmail": posting.RecipientEmail,
		"amount":         posting.Amount,
		"fee":            posting.Fee,
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("transaction repository begin tx failed", err, nil)
		return domain.TransferPostingResult{}, fmt.Errorf("begin transfer transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var result domain.TransferPostingResult

	const debitSenderQuery = `
UPDATE accounts
SET balance = balance - $2::numeric,
    updated_at = NOW()
WHERE email = $1
  AND balance - $2::numeric >= $3::numeric
RETURNING balance`

	var senderBalance string
	err = tx.QueryRowContext(
		ctx,
		debitSenderQuery,
		posting.SenderEmail,
		posting.TotalDebit.StringFixed(2),
		posting.Floor.StringFixed(2),
	).Scan(&senderBalance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Row untouched: the floor condition failed under the
			// balance actually on disk.
			err = domain.ErrInsufficientBalance
			return domain.TransferPostingResult{}, err
		}
		logger.Error("transaction repository debit sender failed", err, logger.Fields{
			"reference": posting.Reference,
		})
		return domain.TransferPostingResult{}, fmt.Errorf("debit sender: %w", err)
	}

	const creditRecipientQuery = `
UPDATE accounts
SET balance = balance + $2::numeric,
    updated_at = NOW()
WHERE email = $1
RETURNING balance`

	var recipientBalance string
	err = tx.QueryRowContext(
		ctx,
		creditRecipientQuery,
		posting.RecipientEmail,
		posting.Amount.StringFixed(2),
	).Scan(&recipientBalance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = domain.ErrRecordNotFound
			return domain.TransferPostingResult{}, err
		}
		logger.Error("transaction repository credit recipient failed", err, logger.Fields{
			"reference": posting.Reference,
		})
		return domain.TransferPostingResult{}, fmt.Errorf("credit recipient: %w", err)
	}

	const appendRecordQuery = `
INSERT INTO transactions (
	reference,
	sender_email,
	recipient_email,
	entry_type,
	amount,
	fee
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`

	err = tx.QueryRowContext(
		ctx,
		appendRecordQuery,
		posting.Reference,
		posting.SenderEmail,
		posting.RecipientEmail,
		domain.LedgerEntryDebit,
		posting.Amount.StringFixed(2),
		posting.Fee.StringFixed(2),
	).Scan(&result.DebitRecordID)
	if err != nil {
		logger.Error("transaction repository append debit record failed", err, logger.Fields{
			"reference": posting.Reference,
		})
		return domain.TransferPostingResult{}, fmt.Errorf("append debit record: %w", err)
	}

	err = tx.QueryRowContext(
		ctx,
		appendRecordQuery,
		posting.Reference,
		posting.SenderEmail,
		posting.RecipientEmail,
		domain.LedgerEntryCredit,
		posting.Amount.StringFixed(2),
		"0.00",
	).Scan(&result.CreditRecordID)
	if err != nil {
		logger.Error("transaction repository append credit record failed", err, logger.Fields{
			"reference": posting.Reference,
		})
		return domain.TransferPostingResult{}, fmt.Errorf("append credit record: %w", err)
	}

	if err = tx.Commit(); err != nil {
		logger.Error("transaction repository commit tx failed", err, logger.Fields{
			"reference": posting.Reference,
		})
		return domain.TransferPostingResult{}, fmt.Errorf("commit transfer transaction: %w", err)
	}

	senderParsed, parseErr := decimal.NewFromString(senderBalance)
	if parseErr != nil {
		return domain.TransferPostingResult{}, fmt.Errorf("parse sender balance: %w", parseErr)
	}
	recipientParsed, parseErr := decimal.NewFromString(recipientBalance)
	if parseErr != nil {
		return domain.TransferPostingResult{}, fmt.Errorf("parse recipient balance: %w", parseErr)
	}
	result.SenderBalance = senderParsed
	result.RecipientBalance = recipientParsed

	logger.Info("transaction repository post transfer success", logger.Fields{
		"reference":      posting.Reference,
		"debitRecordId":  result.DebitRecordID,
		"creditRecordId": result.CreditRecordID,
	})
	return result, nil
}

func (r *TransactionRepository) ListByEmail(ctx context.Context, email string, limit, offset int) ([]domain.TransactionRecord, error) {
	logger.Info("transaction repository list by email", logger.Fields{
		"email":  email,
		"limit":  limit,
		"offset": offset,
	})

	const query = `
SELECT id, reference, sender_email, recipient_email, entry_type, amount, fee, created_at
FROM transactions
WHERE (sender_email = $1 AND entry_type = 'DEBIT')
   OR (recipient_email = $1 AND entry_type = 'CREDIT')
ORDER BY created_at DESC, id
LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, email, limit, offset)
	if err != nil {
		logger.Error("transaction repository list failed", err, logger.Fields{
			"email": email,
		})
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	records := make([]domain.TransactionRecord, 0, limit)
	for rows.Next() {
		var record domain.TransactionRecord
		var amount string
		var fee string
		if err := rows.Scan(
			&record.ID,
			&record.Reference,
			&record.SenderEmail,
			&record.RecipientEmail,
			&record.EntryType,
			&amount,
			&fee,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}

		record.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse transaction amount: %w", err)
		}
		record.Fee, err = decimal.NewFromString(fee)
		if err != nil {
			return nil, fmt.Errorf("parse transaction fee: %w", err)
		}

		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}

	return records, nil
}
