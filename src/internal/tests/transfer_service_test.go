package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mh-fins/wallet-ledger/src/internal/adapter/http/models"
	"github.com/mh-fins/wallet-ledger/src/internal/domain"
	"github.com/mh-fins/wallet-ledger/src/internal/usecase/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const senderPhone = "01711111111"
const recipientPhone = "01722222222"
const senderEmail = "sender@example.com"
const recipientEmail = "recipient@example.com"

func directory() userRepoStub {
	return userRepoStub{
		getByPhoneNumberFn: func(_ context.Context, phone string) (domain.User, error) {
			switch phone {
			case senderPhone:
				return domain.User{ID: "u-1", Email: senderEmail, PhoneNumber: senderPhone, Status: domain.UserStatusVerified, Role: domain.RoleUser}, nil
			case recipientPhone:
				return domain.User{ID: "u-2", Email: recipientEmail, PhoneNumber: recipientPhone, Status: domain.UserStatusVerified, Role: domain.RoleUser}, nil
			default:
				return domain.User{}, domain.ErrRecordNotFound
			}
		},
	}
}

func balances(sender, recipient int64) accountRepoStub {
	return accountRepoStub{
		getByEmailFn: func(_ context.Context, email string) (domain.Account, error) {
			switch email {
			case senderEmail:
				return domain.Account{ID: "a-1", Email: senderEmail, Balance: decimal.NewFromInt(sender)}, nil
			case recipientEmail:
				return domain.Account{ID: "a-2", Email: recipientEmail, Balance: decimal.NewFromInt(recipient)}, nil
			default:
				return domain.Account{}, domain.ErrRecordNotFound
			}
		},
	}
}

func transferRequest(amount int64) models.TransferRequest {
	return models.TransferRequest{
		SenderPhone:    senderPhone,
		RecipientPhone: recipientPhone,
		Pin:            "1234",
		Amount:         decimal.NewFromInt(amount),
	}
}

func TestTransferServiceValidationError(t *testing.T) {
	svc := services.NewTransferService(userRepoStub{}, accountRepoStub{}, transactionRepoStub{}, verifierStub{ok: true})

	_, err := svc.Transfer(context.Background(), models.TransferRequest{})
	if err == nil {
		t.Fatal("expected validation error for empty transfer request")
	}
}

func TestTransferServiceRejectsSelfTransfer(t *testing.T) {
	svc := services.NewTransferService(directory(), balances(1000, 1000), transactionRepoStub{}, verifierStub{ok: true})

	req := transferRequest(100)
	req.RecipientPhone = senderPhone

	_, err := svc.Transfer(context.Background(), req)
	if !errors.Is(err, domain.ErrSelfTransfer) {
		t.Fatalf("expected ErrSelfTransfer, got %v", err)
	}
}

func TestTransferServiceRejectsBelowMinimum(t *testing.T) {
	svc := services.NewTransferService(directory(), balances(1000, 1000), transactionRepoStub{}, verifierStub{ok: true})

	req := transferRequest(100)
	req.Amount = decimal.RequireFromString("49.99")

	_, err := svc.Transfer(context.Background(), req)
	if !errors.Is(err, domain.ErrAmountBelowMinimum) {
		t.Fatalf("expected ErrAmountBelowMinimum, got %v", err)
	}
}

func TestTransferServiceSenderNotFound(t *testing.T) {
	repo := userRepoStub{
		getByPhoneNumberFn: func(_ context.Context, phone string) (domain.User, error) {
			return domain.User{}, domain.ErrRecordNotFound
		},
	}
	svc := services.NewTransferService(repo, accountRepoStub{}, transactionRepoStub{}, verifierStub{ok: true})

	resp, err := svc.Transfer(context.Background(), transferRequest(100))
	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if resp.Message != "Sender account not found" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestTransferServiceRecipientNotFound(t *testing.T) {
	repo := userRepoStub{
		getByPhoneNumberFn: func(_ context.Context, phone string) (domain.User, error) {
			if phone == senderPhone {
				return domain.User{Email: senderEmail, Status: domain.UserStatusVerified}, nil
			}
			return domain.User{}, domain.ErrRecordNotFound
		},
	}
	svc := services.NewTransferService(repo, balances(1000, 1000), transactionRepoStub{}, verifierStub{ok: true})

	resp, err := svc.Transfer(context.Background(), transferRequest(100))
	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if resp.Message != "Recipient account not found" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestTransferServiceWrongPin(t *testing.T) {
	posted := false
	repo := transactionRepoStub{
		postTransferFn: func(_ context.Context, _ domain.TransferPosting) (domain.TransferPostingResult, error) {
			posted = true
			return domain.TransferPostingResult{}, nil
		},
	}
	svc := services.NewTransferService(directory(), balances(1000, 1000), repo, verifierStub{ok: false})

	_, err := svc.Transfer(context.Background(), transferRequest(100))
	if !errors.Is(err, domain.ErrInvalidPin) {
		t.Fatalf("expected ErrInvalidPin, got %v", err)
	}
	if posted {
		t.Fatal("posting must not run after an authorization failure")
	}
}

func TestTransferServiceUnverifiedSenderRejected(t *testing.T) {
	repo := userRepoStub{
		getByPhoneNumberFn: func(_ context.Context, phone string) (domain.User, error) {
			if phone == senderPhone {
				return domain.User{Email: senderEmail, Status: domain.UserStatusPending}, nil
			}
			return domain.User{Email: recipientEmail, Status: domain.UserStatusVerified}, nil
		},
	}
	svc := services.NewTransferService(repo, balances(1000, 1000), transactionRepoStub{}, verifierStub{ok: true})

	_, err := svc.Transfer(context.Background(), transferRequest(100))
	if !errors.Is(err, domain.ErrAccountNotActive) {
		t.Fatalf("expected ErrAccountNotActive, got %v", err)
	}
}

func TestTransferServiceFeeBoundaries(t *testing.T) {
	cases := []struct {
		amount string
		fee    string
	}{
		{"50", "0"},
		{"99.99", "0"},
		{"100", "5"},
		{"250", "5"},
	}

	for _, tc := range cases {
		var captured domain.TransferPosting
		repo := transactionRepoStub{
			postTransferFn: func(_ context.Context, posting domain.TransferPosting) (domain.TransferPostingResult, error) {
				captured = posting
				return domain.TransferPostingResult{
					SenderBalance:    decimal.NewFromInt(0),
					RecipientBalance: decimal.NewFromInt(0),
					DebitRecordID:    "t-1",
					CreditRecordID:   "t-2",
				}, nil
			},
		}
		svc := services.NewTransferService(directory(), balances(10000, 0), repo, verifierStub{ok: true})

		req := transferRequest(0)
		req.Amount = decimal.RequireFromString(tc.amount)

		if _, err := svc.Transfer(context.Background(), req); err != nil {
			t.Fatalf("amount %s: unexpected error %v", tc.amount, err)
		}
		if !captured.Fee.Equal(decimal.RequireFromString(tc.fee)) {
			t.Fatalf("amount %s: expected fee %s, got %s", tc.amount, tc.fee, captured.Fee)
		}
		if !captured.TotalDebit.Equal(captured.Amount.Add(captured.Fee)) {
			t.Fatalf("amount %s: total debit %s is not amount plus fee", tc.amount, captured.TotalDebit)
		}
	}
}

func TestTransferServiceScenarioWithFee(t *testing.T) {
	var captured domain.TransferPosting
	repo := transactionRepoStub{
		postTransferFn: func(_ context.Context, posting domain.TransferPosting) (domain.TransferPostingResult, error) {
			captured = posting
			return domain.TransferPostingResult{
				SenderBalance:    decimal.NewFromInt(95),
				RecipientBalance: decimal.NewFromInt(110),
				DebitRecordID:    "t-1",
				CreditRecordID:   "t-2",
			}, nil
		},
	}
	svc := services.NewTransferService(directory(), balances(200, 10), repo, verifierStub{ok: true})

	resp, err := svc.Transfer(context.Background(), transferRequest(100))
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !resp.Success || resp.Data == nil {
		t.Fatal("expected successful response with data")
	}
	if !captured.Fee.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected fee 5, got %s", captured.Fee)
	}
	if !captured.TotalDebit.Equal(decimal.NewFromInt(105)) {
		t.Fatalf("expected total debit 105, got %s", captured.TotalDebit)
	}
	if !resp.Data.SenderBalance.Equal(decimal.NewFromInt(95)) {
		t.Fatalf("expected sender balance 95, got %s", resp.Data.SenderBalance)
	}
	if !resp.Data.RecipientBalance.Equal(decimal.NewFromInt(110)) {
		t.Fatalf("expected recipient balance 110, got %s", resp.Data.RecipientBalance)
	}
	if resp.Data.DebitRecordID != "t-1" || resp.Data.CreditRecordID != "t-2" {
		t.Fatal("expected both ledger record ids in the response")
	}
	if resp.Data.Reference == "" || captured.Reference != resp.Data.Reference {
		t.Fatal("expected the posting reference to be echoed in the response")
	}
}

func TestTransferServiceFloorRejection(t *testing.T) {
	posted := false
	repo := transactionRepoStub{
		postTransferFn: func(_ context.Context, _ domain.TransferPosting) (domain.TransferPostingResult, error) {
			posted = true
			return domain.TransferPostingResult{}, nil
		},
	}
	svc := services.NewTransferService(directory(), balances(45, 0), repo, verifierStub{ok: true})

	_, err := svc.Transfer(context.Background(), transferRequest(50))
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if posted {
		t.Fatal("a rejected transfer must not reach the posting step")
	}
}

func TestTransferServiceSucceedsAtExactFloor(t *testing.T) {
	repo := transactionRepoStub{
		postTransferFn: func(_ context.Context, posting domain.TransferPosting) (domain.TransferPostingResult, error) {
			return domain.TransferPostingResult{
				SenderBalance:    decimal.NewFromInt(45),
				RecipientBalance: decimal.NewFromInt(50),
				DebitRecordID:    "t-1",
				CreditRecordID:   "t-2",
			}, nil
		},
	}
	svc := services.NewTransferService(directory(), balances(95, 0), repo, verifierStub{ok: true})

	resp, err := svc.Transfer(context.Background(), transferRequest(50))
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !resp.Data.SenderBalance.Equal(decimal.NewFromInt(45)) {
		t.Fatalf("expected sender balance 45, got %s", resp.Data.SenderBalance)
	}
}

func TestTransferServicePostingFailureReportedDistinctly(t *testing.T) {
	storageErr := errors.New("commit transfer transaction: connection reset")
	repo := transactionRepoStub{
		postTransferFn: func(_ context.Context, _ domain.TransferPosting) (domain.TransferPostingResult, error) {
			return domain.TransferPostingResult{}, storageErr
		},
	}
	svc := services.NewTransferService(directory(), balances(1000, 0), repo, verifierStub{ok: true})

	resp, err := svc.Transfer(context.Background(), transferRequest(100))
	if !errors.Is(err, storageErr) {
		t.Fatalf("expected the storage error, got %v", err)
	}
	if resp.Message != "transfer failed" {
		t.Fatalf("expected commit-phase failure message, got %q", resp.Message)
	}
}

// A posting stub that behaves like the conditional debit in storage: it
// serializes on a mutex and refuses any debit that would leave the sender
// below the floor.
type contendedLedger struct {
	mu      sync.Mutex
	sender  decimal.Decimal
	floor   decimal.Decimal
	applied int
}

func (l *contendedLedger) PostTransfer(_ context.Context, posting domain.TransferPosting) (domain.TransferPostingResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.sender.Sub(posting.TotalDebit)
	if next.LessThan(l.floor) {
		return domain.TransferPostingResult{}, domain.ErrInsufficientBalance
	}
	l.sender = next
	l.applied++
	return domain.TransferPostingResult{
		SenderBalance:  l.sender,
		DebitRecordID:  "t-d",
		CreditRecordID: "t-c",
	}, nil
}

func (l *contendedLedger) ListByEmail(_ context.Context, _ string, _, _ int) ([]domain.TransactionRecord, error) {
	return nil, nil
}

func TestTransferServiceConcurrentDebitsNeverBreachFloor(t *testing.T) {
	initial := decimal.NewFromInt(500)
	ledger := &contendedLedger{sender: initial, floor: decimal.NewFromInt(40)}

	// Validation reads a stale snapshot on purpose: every goroutine sees
	// the full starting balance, and only the conditional debit decides.
	svc := services.NewTransferService(directory(), balances(500, 0), ledger, verifierStub{ok: true})

	var g errgroup.Group
	for i := 0; i < 25; i++ {
		g.Go(func() error {
			_, err := svc.Transfer(context.Background(), transferRequest(100))
			if err != nil && !errors.Is(err, domain.ErrInsufficientBalance) {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected transfer error: %v", err)
	}

	perTransfer := decimal.NewFromInt(105)
	expected := initial.Sub(perTransfer.Mul(decimal.NewFromInt(int64(ledger.applied))))
	if !ledger.sender.Equal(expected) {
		t.Fatalf("lost update: final balance %s, expected %s after %d debits", ledger.sender, expected, ledger.applied)
	}
	if ledger.sender.LessThan(decimal.NewFromInt(40)) {
		t.Fatalf("floor breached: final balance %s", ledger.sender)
	}
	if ledger.applied != 4 {
		t.Fatalf("expected exactly 4 debits of 105 to fit above the floor from 500, got %d", ledger.applied)
	}
}
