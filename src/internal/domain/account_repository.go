package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type AccountRepository interface {
	Create(ctx context.Context, account Account) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	Credit(ctx context.Context, email string, amount decimal.Decimal) (Account, error)
}
