// Package finledger provides an in-memory ledger and accounting engine for
// Go applications.
//
// The engine keeps customers, accounts and their transaction journals,
// invoices and loans, and enforces the monetary invariants between them:
//
//   - Exact fixed-point arithmetic: amounts carry four fractional digits,
//     FX rates eight, rounded half away from zero on every write
//   - An account balance always equals the sum of its journal
//   - Transfers post both legs atomically or not at all
//   - Invoices move only from OPEN to PAID or VOID
//
// # Quick Start
//
//	import (
//	    "github.com/xraph/finledger"
//	    "github.com/xraph/finledger/store/memory"
//	)
//
//	l := finledger.New(memory.New())
//	if err := l.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
//	c, _ := l.CreateCustomer(ctx, "Ada Lovelace")
//	a, _ := l.OpenAccount(ctx, c.ID, "USD")
//	_, _ = l.Deposit(ctx, a.ID, finledger.MustAmount("100.00"), "")
//	_, err := l.Withdraw(ctx, a.ID, finledger.MustAmount("30.00"), "")
//
// # Errors
//
// Operations return (result, error). Every non-nil error maps to one kind
// through KindOf: NotFound, InsufficientFunds, CurrencyMismatch,
// InvalidStatus, PairUnsupported, ValidationError or Internal. KYCCheck is
// the exception: an unknown customer is reported as a failed KYCResult
// with a nil error.
//
// # Extensibility
//
// Plugins registered with WithPlugin receive typed hooks after each
// committed change (see package plugin). The audit_hook and observability
// packages ship ready-made plugins.
//
// # TypeID
//
// All entities use TypeID for globally unique, type-safe identifiers:
//
//	cust_01h2xcejqtf2nbrexx3vqjhp41  // Customer ID
//	acct_01h2xcejqtf2nbrexx3vqjhp41  // Account ID
//	inv_01h455vb4pex5vsknk084sn02q   // Invoice ID
//
// TypeIDs are K-sortable, so identifiers order naturally by creation time.
package finledger
