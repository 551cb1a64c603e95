// Package memory is a volatile, process-local implementation of store.Store.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/xraph/finledger"
	"github.com/xraph/finledger/account"
	"github.com/xraph/finledger/customer"
	"github.com/xraph/finledger/id"
	"github.com/xraph/finledger/invoice"
	"github.com/xraph/finledger/loan"
	"github.com/xraph/finledger/store"
	"github.com/xraph/finledger/transaction"
	"github.com/xraph/finledger/types"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	mu     sync.RWMutex
	closed bool

	customers map[string]*customer.Customer

	// Account storage, plus per-customer index in opening order
	accounts         map[string]*account.Account
	customerAccounts map[string][]string

	// Journals in posting order
	journals map[string][]*transaction.Transaction

	invoices         map[string]*invoice.Invoice
	customerInvoices map[string][]string

	loans         map[string]*loan.Loan
	customerLoans map[string][]string
}

func New() *Store {
	return &Store{
		customers:        make(map[string]*customer.Customer),
		accounts:         make(map[string]*account.Account),
		customerAccounts: make(map[string][]string),
		journals:         make(map[string][]*transaction.Transaction),
		invoices:         make(map[string]*invoice.Invoice),
		customerInvoices: make(map[string][]string),
		loans:            make(map[string]*loan.Loan),
		customerLoans:    make(map[string][]string),
	}
}

// Customer Store implementation
func (s *Store) CreateCustomer(_ context.Context, c *customer.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return finledger.ErrStoreClosed
	}
	if _, exists := s.customers[c.ID.String()]; exists {
		return finledger.ErrAlreadyExists
	}
	cp := *c
	s.customers[c.ID.String()] = &cp
	return nil
}

func (s *Store) GetCustomer(_ context.Context, custID id.CustomerID) (*customer.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.customers[custID.String()]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, finledger.ErrCustomerNotFound
}

func (s *Store) UpdateCustomer(_ context.Context, c *customer.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return finledger.ErrStoreClosed
	}
	if _, exists := s.customers[c.ID.String()]; !exists {
		return finledger.ErrCustomerNotFound
	}
	cp := *c
	s.customers[c.ID.String()] = &cp
	return nil
}

// Account Store implementation
func (s *Store) CreateAccount(_ context.Context, a *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return finledger.ErrStoreClosed
	}
	key := a.ID.String()
	if _, exists := s.accounts[key]; exists {
		return finledger.ErrAlreadyExists
	}
	owner := a.CustomerID.String()
	if _, ok := s.customers[owner]; !ok {
		return finledger.ErrCustomerNotFound
	}
	cp := *a
	s.accounts[key] = &cp
	s.customerAccounts[owner] = append(s.customerAccounts[owner], key)
	return nil
}

func (s *Store) GetAccount(_ context.Context, acctID id.AccountID) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, ok := s.accounts[acctID.String()]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, finledger.ErrAccountNotFound
}

func (s *Store) ListAccountsByCustomer(_ context.Context, custID id.CustomerID) ([]*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := s.customerAccounts[custID.String()]
	result := make([]*account.Account, 0, len(keys))
	for _, k := range keys {
		cp := *s.accounts[k]
		result = append(result, &cp)
	}
	return result, nil
}

// Transaction Store implementation
func (s *Store) ListTransactions(_ context.Context, acctID id.AccountID) ([]*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	journal := s.journals[acctID.String()]
	result := make([]*transaction.Transaction, 0, len(journal))
	for _, t := range journal {
		cp := *t
		result = append(result, &cp)
	}
	return result, nil
}

func (s *Store) Post(_ context.Context, txns ...*transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return finledger.ErrStoreClosed
	}

	// Validate the whole batch against projected balances first.
	projected := make(map[string]types.Amount, len(txns))
	for _, t := range txns {
		key := t.AccountID.String()
		a, ok := s.accounts[key]
		if !ok {
			return fmt.Errorf("post %s: %w", t.AccountID, finledger.ErrAccountNotFound)
		}
		if t.Currency != a.Currency {
			return fmt.Errorf("post %s: %s into %s account: %w", t.AccountID, t.Currency, a.Currency, finledger.ErrCurrencyMismatch)
		}
		bal, seen := projected[key]
		if !seen {
			bal = a.Balance
		}
		bal = bal.Add(t.Amount)
		if bal.IsNegative() {
			return fmt.Errorf("post %s: %w", t.AccountID, finledger.ErrInsufficientFunds)
		}
		projected[key] = bal
	}

	for _, t := range txns {
		key := t.AccountID.String()
		cp := *t
		s.journals[key] = append(s.journals[key], &cp)
		s.accounts[key].Touch(t.Timestamp)
	}
	for key, bal := range projected {
		s.accounts[key].Balance = bal
	}
	return nil
}

// Invoice Store implementation
func (s *Store) CreateInvoice(_ context.Context, inv *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return finledger.ErrStoreClosed
	}
	key := inv.ID.String()
	if _, exists := s.invoices[key]; exists {
		return finledger.ErrAlreadyExists
	}
	owner := inv.CustomerID.String()
	if _, ok := s.customers[owner]; !ok {
		return finledger.ErrCustomerNotFound
	}
	cp := *inv
	s.invoices[key] = &cp
	s.customerInvoices[owner] = append(s.customerInvoices[owner], key)
	return nil
}

func (s *Store) GetInvoice(_ context.Context, invID id.InvoiceID) (*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if inv, ok := s.invoices[invID.String()]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, finledger.ErrInvoiceNotFound
}

func (s *Store) UpdateInvoice(_ context.Context, inv *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return finledger.ErrStoreClosed
	}
	if _, exists := s.invoices[inv.ID.String()]; !exists {
		return finledger.ErrInvoiceNotFound
	}
	cp := *inv
	s.invoices[inv.ID.String()] = &cp
	return nil
}

func (s *Store) ListInvoicesByCustomer(_ context.Context, custID id.CustomerID, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*invoice.Invoice, 0)
	for _, k := range s.customerInvoices[custID.String()] {
		inv := s.invoices[k]
		if opts.Status == "" || inv.Status == opts.Status {
			cp := *inv
			result = append(result, &cp)
		}
	}
	return result, nil
}

// Loan Store implementation
func (s *Store) CreateLoan(_ context.Context, l *loan.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return finledger.ErrStoreClosed
	}
	key := l.ID.String()
	if _, exists := s.loans[key]; exists {
		return finledger.ErrAlreadyExists
	}
	owner := l.CustomerID.String()
	if _, ok := s.customers[owner]; !ok {
		return finledger.ErrCustomerNotFound
	}
	cp := *l
	s.loans[key] = &cp
	s.customerLoans[owner] = append(s.customerLoans[owner], key)
	return nil
}

func (s *Store) GetLoan(_ context.Context, loanID id.LoanID) (*loan.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if l, ok := s.loans[loanID.String()]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, finledger.ErrLoanNotFound
}

func (s *Store) ListLoansByCustomer(_ context.Context, custID id.CustomerID) ([]*loan.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := s.customerLoans[custID.String()]
	result := make([]*loan.Loan, 0, len(keys))
	for _, k := range keys {
		cp := *s.loans[k]
		result = append(result, &cp)
	}
	return result, nil
}

// Core methods
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return finledger.ErrStoreClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
