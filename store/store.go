// Package store declares the persistence contract of the ledger engine.
package store

import (
	"context"

	"github.com/xraph/finledger/account"
	"github.com/xraph/finledger/customer"
	"github.com/xraph/finledger/invoice"
	"github.com/xraph/finledger/loan"
	"github.com/xraph/finledger/transaction"
)

// Store is the unified storage interface for all ledger entities.
// Every per-entity interface uses entity-qualified method names so they
// embed without conflicts.
//
// Implementations return copies: mutating a returned entity never changes
// stored state.
type Store interface {
	customer.Store
	account.Store
	transaction.Store
	invoice.Store
	loan.Store

	// Post appends txns to their accounts' journals and moves the account
	// balances as one atomic step. Before anything is applied, every
	// account must exist, every transaction's currency must equal its
	// account's currency, and no account may end with a negative balance.
	// If any check fails nothing is changed.
	Post(ctx context.Context, txns ...*transaction.Transaction) error

	// Core methods
	Ping(ctx context.Context) error
	Close() error
}
