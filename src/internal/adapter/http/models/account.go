package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BalanceResponse struct {
	Email   string           `json:"email"`
	Balance *decimal.Decimal `json:"balance"`
}

type StatementEntry struct {
	ID             string           `json:"id"`
	Reference      string           `json:"reference"`
	SenderEmail    string           `json:"senderEmail"`
	RecipientEmail string           `json:"recipientEmail"`
	EntryType      string           `json:"entryType"`
	Amount         *decimal.Decimal `json:"amount"`
	Fee            *decimal.Decimal `json:"fee"`
	CreatedAt      time.Time        `json:"createdAt"`
}

type StatementResponse struct {
	Email   string           `json:"email"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
	Entries []StatementEntry `json:"entries"`
}
