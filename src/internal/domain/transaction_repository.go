package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type TransferPosting struct {
	Reference      string
	SenderEmail    string
	RecipientEmail string
	Amount         decimal.Decimal
	Fee            decimal.Decimal
	// TotalDebit is Amount plus Fee, the exact sum removed from the sender.
	TotalDebit decimal.Decimal
	// Floor is the minimum balance the sender must retain after the debit.
	Floor decimal.Decimal
}

type TransferPostingResult struct {
	SenderBalance    decimal.Decimal
	RecipientBalance decimal.Decimal
	DebitRecordID    string
	CreditRecordID   string
}

type TransactionRepository interface {
	// PostTransfer applies both balance updates and appends both ledger
	// records in a single storage transaction. The sender debit is
	// conditional on the floor holding after the debit; when the condition
	// fails the whole posting rolls back and ErrInsufficientBalance is
	// returned.
	PostTransfer(ctx context.Context, posting TransferPosting) (TransferPostingResult, error)
	ListByEmail(ctx context.Context, email string, limit, offset int) ([]TransactionRecord, error)
}
