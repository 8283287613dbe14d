package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type TransferRequest struct {
	SenderPhone    string          `json:"senderPhone"`
	RecipientPhone string          `json:"recipientPhone"`
	Pin            string          `json:"pin"`
	Amount         decimal.Decimal `json:"amount"`
}

func (r TransferRequest) Validate() error {
	var errs []string

	if !isPhoneNumber(r.SenderPhone) {
		errs = append(errs, "senderPhone must be 10 to 15 digits")
	}
	if !isPhoneNumber(r.RecipientPhone) {
		errs = append(errs, "recipientPhone must be 10 to 15 digits")
	}
	if strings.TrimSpace(r.Pin) == "" {
		errs = append(errs, "pin is required")
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "amount must be greater than zero")
	}
	if r.Amount.Exponent() < -2 {
		errs = append(errs, "amount cannot have more than 2 decimal places")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type TransferResponse struct {
	Reference        string           `json:"reference"`
	SenderPhone      string           `json:"senderPhone"`
	RecipientPhone   string           `json:"recipientPhone"`
	Amount           *decimal.Decimal `json:"amount"`
	Fee              *decimal.Decimal `json:"fee"`
	TotalDebit       *decimal.Decimal `json:"totalDebit"`
	SenderBalance    *decimal.Decimal `json:"senderBalance"`
	RecipientBalance *decimal.Decimal `json:"recipientBalance"`
	DebitRecordID    string           `json:"debitRecordId"`
	CreditRecordID   string           `json:"creditRecordId"`
}

func isPhoneNumber(value string) bool {
	trimmed := strings.TrimSpace(value)
	return len(trimmed) >= 10 && len(trimmed) <= 15 && digitsOnly(trimmed)
}

func digitsOnly(value string) bool {
	for _, ch := range value {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
