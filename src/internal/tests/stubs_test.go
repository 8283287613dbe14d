package services_test

import (
	"context"

	"github.com/mh-fins/wallet-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

type userRepoStub struct {
	createFn              func(ctx context.Context, user domain.User) (domain.User, error)
	getByEmailFn          func(ctx context.Context, email string) (domain.User, error)
	getByPhoneNumberFn    func(ctx context.Context, phoneNumber string) (domain.User, error)
	listFn                func(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)
	updateRoleAndStatusFn func(ctx context.Context, email string, role domain.Role, status domain.UserStatus) (domain.User, error)
	setAgentRequestFn     func(ctx context.Context, email string, wantToBecomeAgent bool, message string) (domain.User, error)
	promoteToAgentFn      func(ctx context.Context, email string) (domain.User, error)
}

func (s userRepoStub) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if s.createFn != nil {
		return s.createFn(ctx, user)
	}
	return user, nil
}

func (s userRepoStub) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	if s.getByEmailFn != nil {
		return s.getByEmailFn(ctx, email)
	}
	return domain.User{}, nil
}

func (s userRepoStub) GetByPhoneNumber(ctx context.Context, phoneNumber string) (domain.User, error) {
	if s.getByPhoneNumberFn != nil {
		return s.getByPhoneNumberFn(ctx, phoneNumber)
	}
	return domain.User{}, nil
}

func (s userRepoStub) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filter)
	}
	return nil, nil
}

func (s userRepoStub) UpdateRoleAndStatus(ctx context.Context, email string, role domain.Role, status domain.UserStatus) (domain.User, error) {
	if s.updateRoleAndStatusFn != nil {
		return s.updateRoleAndStatusFn(ctx, email, role, status)
	}
	return domain.User{}, nil
}

func (s userRepoStub) SetAgentRequest(ctx context.Context, email string, wantToBecomeAgent bool, message string) (domain.User, error) {
	if s.setAgentRequestFn != nil {
		return s.setAgentRequestFn(ctx, email, wantToBecomeAgent, message)
	}
	return domain.User{}, nil
}

func (s userRepoStub) PromoteToAgent(ctx context.Context, email string) (domain.User, error) {
	if s.promoteToAgentFn != nil {
		return s.promoteToAgentFn(ctx, email)
	}
	return domain.User{}, nil
}

type accountRepoStub struct {
	createFn     func(ctx context.Context, account domain.Account) (domain.Account, error)
	getByEmailFn func(ctx context.Context, email string) (domain.Account, error)
	creditFn     func(ctx context.Context, email string, amount decimal.Decimal) (domain.Account, error)
}

func (s accountRepoStub) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	if s.createFn != nil {
		return s.createFn(ctx, account)
	}
	return account, nil
}

func (s accountRepoStub) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	if s.getByEmailFn != nil {
		return s.getByEmailFn(ctx, email)
	}
	return domain.Account{}, nil
}

func (s accountRepoStub) Credit(ctx context.Context, email string, amount decimal.Decimal) (domain.Account, error) {
	if s.creditFn != nil {
		return s.creditFn(ctx, email, amount)
	}
	return domain.Account{}, nil
}

type transactionRepoStub struct {
	postTransferFn func(ctx context.Context, posting domain.TransferPosting) (domain.TransferPostingResult, error)
	listByEmailFn  func(ctx context.Context, email string, limit, offset int) ([]domain.TransactionRecord, error)
}

func (s transactionRepoStub) PostTransfer(ctx context.Context, posting domain.TransferPosting) (domain.TransferPostingResult, error) {
	if s.postTransferFn != nil {
		return s.postTransferFn(ctx, posting)
	}
	return domain.TransferPostingResult{}, nil
}

func (s transactionRepoStub) ListByEmail(ctx context.Context, email string, limit, offset int) ([]domain.TransactionRecord, error) {
	if s.listByEmailFn != nil {
		return s.listByEmailFn(ctx, email, limit, offset)
	}
	return nil, nil
}

type verifierStub struct {
	ok bool
}

func (v verifierStub) Verify(plainPin, storedHash string) bool {
	return v.ok
}

type sessionStoreStub struct {
	saveFn   func(ctx context.Context, token string, email string) error
	getFn    func(ctx context.Context, token string) (string, error)
	deleteFn func(ctx context.Context, token string) error
}

func (s sessionStoreStub) Save(ctx context.Context, token string, email string) error {
	if s.saveFn != nil {
		return s.saveFn(ctx, token, email)
	}
	return nil
}

func (s sessionStoreStub) Get(ctx context.Context, token string) (string, error) {
	if s.getFn != nil {
		return s.getFn(ctx, token)
	}
	return "", domain.ErrRecordNotFound
}

func (s sessionStoreStub) Delete(ctx context.Context, token string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, token)
	}
	return nil
}
