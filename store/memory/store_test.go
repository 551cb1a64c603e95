package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xraph/finledger"
	"github.com/xraph/finledger/account"
	"github.com/xraph/finledger/customer"
	"github.com/xraph/finledger/id"
	"github.com/xraph/finledger/invoice"
	"github.com/xraph/finledger/loan"
	"github.com/xraph/finledger/store/memory"
	"github.com/xraph/finledger/transaction"
	"github.com/xraph/finledger/types"
)

var t0 = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

func seed(t *testing.T, s *memory.Store) (*customer.Customer, *account.Account, *account.Account) {
	t.Helper()
	ctx := context.Background()

	c := &customer.Customer{Entity: types.NewEntity(t0), ID: id.NewCustomerID(), FullName: "Ada"}
	if err := s.CreateCustomer(ctx, c); err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	usd := &account.Account{Entity: types.NewEntity(t0), ID: id.NewAccountID(), CustomerID: c.ID, Currency: "USD"}
	eur := &account.Account{Entity: types.NewEntity(t0), ID: id.NewAccountID(), CustomerID: c.ID, Currency: "EUR"}
	for _, a := range []*account.Account{usd, eur} {
		if err := s.CreateAccount(ctx, a); err != nil {
			t.Fatalf("CreateAccount: %v", err)
		}
	}
	return c, usd, eur
}

func post(acct *account.Account, amount string, typ transaction.Type) *transaction.Transaction {
	return &transaction.Transaction{
		ID:        id.NewTransactionID(),
		AccountID: acct.ID,
		Amount:    types.MustAmount(amount),
		Currency:  acct.Currency,
		Type:      typ,
		Timestamp: t0.Add(time.Hour),
	}
}

func TestPostAppliesBatch(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	_, usd, _ := seed(t, s)

	if err := s.Post(ctx, post(usd, "100", transaction.TypeDeposit), post(usd, "-30", transaction.TypeWithdrawal)); err != nil {
		t.Fatalf("Post: %v", err)
	}

	a, err := s.GetAccount(ctx, usd.ID)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if a.Balance.String() != "70.0000" {
		t.Errorf("balance = %s", a.Balance)
	}
	if !a.UpdatedAt.Equal(t0.Add(time.Hour)) {
		t.Errorf("UpdatedAt = %v", a.UpdatedAt)
	}

	txns, _ := s.ListTransactions(ctx, usd.ID)
	if len(txns) != 2 || txns[0].Type != transaction.TypeDeposit || txns[1].Type != transaction.TypeWithdrawal {
		t.Errorf("journal = %+v", txns)
	}
}

func TestPostRejectsWholeBatch(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		batch func(usd, eur *account.Account) []*transaction.Transaction
		want  error
	}{
		{
			name: "overdraft on second leg",
			batch: func(usd, _ *account.Account) []*transaction.Transaction {
				return []*transaction.Transaction{
					post(usd, "10", transaction.TypeDeposit),
					post(usd, "-10.0001", transaction.TypeWithdrawal),
				}
			},
			want: finledger.ErrInsufficientFunds,
		},
		{
			name: "currency mismatch",
			batch: func(usd, eur *account.Account) []*transaction.Transaction {
				bad := post(eur, "5", transaction.TypeDeposit)
				bad.Currency = "USD"
				return []*transaction.Transaction{post(usd, "5", transaction.TypeDeposit), bad}
			},
			want: finledger.ErrCurrencyMismatch,
		},
		{
			name: "unknown account",
			batch: func(usd, _ *account.Account) []*transaction.Transaction {
				ghost := &account.Account{ID: id.NewAccountID(), Currency: "USD"}
				return []*transaction.Transaction{post(usd, "5", transaction.TypeDeposit), post(ghost, "5", transaction.TypeDeposit)}
			},
			want: finledger.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := memory.New()
			_, usd, eur := seed(t, s)

			err := s.Post(ctx, tt.batch(usd, eur)...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}

			for _, a := range []*account.Account{usd, eur} {
				got, _ := s.GetAccount(ctx, a.ID)
				if !got.Balance.IsZero() {
					t.Errorf("%s balance changed to %s", a.Currency, got.Balance)
				}
				if txns, _ := s.ListTransactions(ctx, a.ID); len(txns) != 0 {
					t.Errorf("%s journal has %d entries", a.Currency, len(txns))
				}
			}
		})
	}
}

func TestReturnedEntitiesAreCopies(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	c, usd, _ := seed(t, s)

	got, _ := s.GetCustomer(ctx, c.ID)
	got.KYCVerified = true
	again, _ := s.GetCustomer(ctx, c.ID)
	if again.KYCVerified {
		t.Error("mutating a returned customer changed stored state")
	}

	a, _ := s.GetAccount(ctx, usd.ID)
	a.Balance = types.MustAmount("1000000")
	if b, _ := s.GetAccount(ctx, usd.ID); !b.Balance.IsZero() {
		t.Error("mutating a returned account changed stored state")
	}
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	if _, err := s.GetCustomer(ctx, id.NewCustomerID()); !errors.Is(err, finledger.ErrCustomerNotFound) {
		t.Errorf("GetCustomer: %v", err)
	}
	if _, err := s.GetAccount(ctx, id.NewAccountID()); !errors.Is(err, finledger.ErrAccountNotFound) {
		t.Errorf("GetAccount: %v", err)
	}
	if _, err := s.GetInvoice(ctx, id.NewInvoiceID()); !errors.Is(err, finledger.ErrInvoiceNotFound) {
		t.Errorf("GetInvoice: %v", err)
	}
	if _, err := s.GetLoan(ctx, id.NewLoanID()); !errors.Is(err, finledger.ErrLoanNotFound) {
		t.Errorf("GetLoan: %v", err)
	}
	if err := s.UpdateCustomer(ctx, &customer.Customer{ID: id.NewCustomerID()}); !errors.Is(err, finledger.ErrCustomerNotFound) {
		t.Errorf("UpdateCustomer: %v", err)
	}
	if err := s.CreateAccount(ctx, &account.Account{ID: id.NewAccountID(), CustomerID: id.NewCustomerID()}); !errors.Is(err, finledger.ErrCustomerNotFound) {
		t.Errorf("CreateAccount with unknown owner: %v", err)
	}
	if txns, err := s.ListTransactions(ctx, id.NewAccountID()); err != nil || len(txns) != 0 {
		t.Errorf("ListTransactions(unknown) = %v, %v", txns, err)
	}
}

func TestDuplicateCreate(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	c, usd, _ := seed(t, s)

	if err := s.CreateCustomer(ctx, c); !errors.Is(err, finledger.ErrAlreadyExists) {
		t.Errorf("CreateCustomer twice: %v", err)
	}
	if err := s.CreateAccount(ctx, usd); !errors.Is(err, finledger.ErrAlreadyExists) {
		t.Errorf("CreateAccount twice: %v", err)
	}
}

func TestPerCustomerListings(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	c, usd, eur := seed(t, s)

	accts, _ := s.ListAccountsByCustomer(ctx, c.ID)
	if len(accts) != 2 || accts[0].ID != usd.ID || accts[1].ID != eur.ID {
		t.Errorf("accounts = %+v", accts)
	}

	open := &invoice.Invoice{ID: id.NewInvoiceID(), CustomerID: c.ID, Status: invoice.StatusOpen}
	paid := &invoice.Invoice{ID: id.NewInvoiceID(), CustomerID: c.ID, Status: invoice.StatusPaid}
	for _, inv := range []*invoice.Invoice{open, paid} {
		if err := s.CreateInvoice(ctx, inv); err != nil {
			t.Fatalf("CreateInvoice: %v", err)
		}
	}
	all, _ := s.ListInvoicesByCustomer(ctx, c.ID, invoice.ListOpts{})
	onlyOpen, _ := s.ListInvoicesByCustomer(ctx, c.ID, invoice.ListOpts{Status: invoice.StatusOpen})
	if len(all) != 2 || len(onlyOpen) != 1 || onlyOpen[0].ID != open.ID {
		t.Errorf("all = %d, open = %d", len(all), len(onlyOpen))
	}

	paid.Status = invoice.StatusVoid
	if err := s.UpdateInvoice(ctx, paid); err != nil {
		t.Fatalf("UpdateInvoice: %v", err)
	}
	if got, _ := s.GetInvoice(ctx, paid.ID); got.Status != invoice.StatusVoid {
		t.Errorf("status = %s", got.Status)
	}

	l := &loan.Loan{ID: id.NewLoanID(), CustomerID: c.ID, Principal: types.MustAmount("1000")}
	if err := s.CreateLoan(ctx, l); err != nil {
		t.Fatalf("CreateLoan: %v", err)
	}
	loans, _ := s.ListLoansByCustomer(ctx, c.ID)
	if len(loans) != 1 || loans[0].ID != l.ID {
		t.Errorf("loans = %+v", loans)
	}
}

func TestClose(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	_, usd, _ := seed(t, s)

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Ping(ctx); !errors.Is(err, finledger.ErrStoreClosed) {
		t.Errorf("Ping after Close: %v", err)
	}

	c := &customer.Customer{Entity: types.NewEntity(t0), ID: id.NewCustomerID(), FullName: "Bo"}
	mutations := []struct {
		name string
		fn   func() error
	}{
		{"Post", func() error { return s.Post(ctx, post(usd, "1", transaction.TypeDeposit)) }},
		{"CreateCustomer", func() error { return s.CreateCustomer(ctx, c) }},
		{"UpdateCustomer", func() error {
			return s.UpdateCustomer(ctx, &customer.Customer{ID: usd.CustomerID, KYCVerified: true})
		}},
		{"CreateAccount", func() error {
			return s.CreateAccount(ctx, &account.Account{ID: id.NewAccountID(), CustomerID: usd.CustomerID, Currency: "USD"})
		}},
		{"CreateInvoice", func() error {
			return s.CreateInvoice(ctx, &invoice.Invoice{ID: id.NewInvoiceID(), CustomerID: usd.CustomerID, Amount: types.MustAmount("1"), Currency: "USD", Status: invoice.StatusOpen})
		}},
		{"UpdateInvoice", func() error {
			return s.UpdateInvoice(ctx, &invoice.Invoice{ID: id.NewInvoiceID(), Status: invoice.StatusPaid})
		}},
		{"CreateLoan", func() error {
			return s.CreateLoan(ctx, &loan.Loan{ID: id.NewLoanID(), CustomerID: usd.CustomerID, Principal: types.MustAmount("1"), Currency: "USD"})
		}},
	}
	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, finledger.ErrStoreClosed) {
				t.Errorf("%s after Close: %v", tt.name, err)
			}
		})
	}

	if _, err := s.GetCustomer(ctx, c.ID); !errors.Is(err, finledger.ErrCustomerNotFound) {
		t.Errorf("customer created after Close: %v", err)
	}
	if got, err := s.GetAccount(ctx, usd.ID); err != nil || !got.Balance.IsZero() {
		t.Errorf("account after Close = %v, %v", got, err)
	}
}
