// Package plugin provides an extensible plugin system for the ledger.
// Plugins can hook into lifecycle and ledger events to extend functionality.
//
// Hooks run after the change they describe has been committed. A failing
// or slow plugin is logged and skipped; it never fails the operation.
package plugin

import (
	"context"

	"github.com/xraph/finledger/account"
	"github.com/xraph/finledger/customer"
	"github.com/xraph/finledger/invoice"
	"github.com/xraph/finledger/loan"
	"github.com/xraph/finledger/risk"
	"github.com/xraph/finledger/transaction"
	"github.com/xraph/finledger/types"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the ledger starts. l is the *finledger.Ledger.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, l any) error
}

// OnShutdown is called when the ledger stops.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Customer hooks
// ──────────────────────────────────────────────────

// OnCustomerCreated is called when a customer is created.
type OnCustomerCreated interface {
	Plugin
	OnCustomerCreated(ctx context.Context, c *customer.Customer) error
}

// OnKYCChecked is called after every KYC check, passed or not.
type OnKYCChecked interface {
	Plugin
	OnKYCChecked(ctx context.Context, result *customer.KYCResult) error
}

// ──────────────────────────────────────────────────
// Account and journal hooks
// ──────────────────────────────────────────────────

// OnAccountOpened is called when an account is opened.
type OnAccountOpened interface {
	Plugin
	OnAccountOpened(ctx context.Context, a *account.Account) error
}

// OnTransactionPosted is called once per posted transaction with the
// account balance after it.
type OnTransactionPosted interface {
	Plugin
	OnTransactionPosted(ctx context.Context, txn *transaction.Transaction, balance types.Amount) error
}

// OnTransferCompleted is called when both legs of a transfer are posted.
type OnTransferCompleted interface {
	Plugin
	OnTransferCompleted(ctx context.Context, debit, credit *transaction.Transaction) error
}

// ──────────────────────────────────────────────────
// Invoice hooks
// ──────────────────────────────────────────────────

// OnInvoiceCreated is called when an invoice is created.
type OnInvoiceCreated interface {
	Plugin
	OnInvoiceCreated(ctx context.Context, inv *invoice.Invoice) error
}

// OnInvoicePaid is called when an invoice is paid.
type OnInvoicePaid interface {
	Plugin
	OnInvoicePaid(ctx context.Context, inv *invoice.Invoice) error
}

// OnInvoiceVoided is called when an invoice is voided.
type OnInvoiceVoided interface {
	Plugin
	OnInvoiceVoided(ctx context.Context, inv *invoice.Invoice, reason string) error
}

// ──────────────────────────────────────────────────
// Lending and scoring hooks
// ──────────────────────────────────────────────────

// OnLoanCreated is called when a loan is originated.
type OnLoanCreated interface {
	Plugin
	OnLoanCreated(ctx context.Context, l *loan.Loan) error
}

// OnRiskScored is called when a customer is scored.
type OnRiskScored interface {
	Plugin
	OnRiskScored(ctx context.Context, report *risk.Report) error
}

// ──────────────────────────────────────────────────
// Failure hooks
// ──────────────────────────────────────────────────

// OnOperationRejected is called when a mutating operation fails.
// op is the operation name, e.g. "withdraw".
type OnOperationRejected interface {
	Plugin
	OnOperationRejected(ctx context.Context, op string, err error) error
}
