package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID        string
	Email     string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
