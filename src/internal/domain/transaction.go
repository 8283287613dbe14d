package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LedgerEntryType string

const (
	LedgerEntryDebit  LedgerEntryType = "DEBIT"
	LedgerEntryCredit LedgerEntryType = "CREDIT"
)

// TransactionRecord is one side of a transfer. Every transfer produces a
// DEBIT record for the sender and a CREDIT record for the recipient, both
// carrying the same reference and amount. Records are append-only.
type TransactionRecord struct {
	ID             string
	Reference      string
	SenderEmail    string
	RecipientEmail string
	EntryType      LedgerEntryType
	Amount         decimal.Decimal
	Fee            decimal.Decimal
	CreatedAt      time.Time
}
