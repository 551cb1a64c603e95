package finledger

import (
	"context"
	"fmt"

	"github.com/xraph/finledger/fx"
	"github.com/xraph/finledger/id"
	"github.com/xraph/finledger/invoice"
	"github.com/xraph/finledger/risk"
	"github.com/xraph/finledger/statement"
	"github.com/xraph/finledger/types"
)

// ──────────────────────────────────────────────────
// FX
// ──────────────────────────────────────────────────

// FXQuote looks up the rate for base/quote. Codes are case-insensitive;
// pairs missing from the source fail with ErrPairUnsupported.
func (l *Ledger) FXQuote(ctx context.Context, base, quote string) (*fx.Quote, error) {
	pair := fx.NewPair(base, quote)

	rate, ok := l.fx.Lookup(pair.Base, pair.Quote)
	if !ok {
		return nil, l.reject(ctx, "get_fx_quote", fmt.Errorf("fx quote %s: %w", pair, ErrPairUnsupported), "pair", pair.String())
	}

	return &fx.Quote{
		Base:      pair.Base,
		Quote:     pair.Quote,
		Rate:      rate,
		Timestamp: l.clock(),
	}, nil
}

// ──────────────────────────────────────────────────
// Statements
// ──────────────────────────────────────────────────

// GenerateStatement lists an account's transactions dated within
// [from, to] with a running balance that starts at zero.
func (l *Ledger) GenerateStatement(ctx context.Context, acctID id.AccountID, from, to types.Date) (*statement.Statement, error) {
	a, err := l.GetAccount(ctx, acctID)
	if err != nil {
		return nil, err
	}
	if from.After(to) {
		return nil, invalid("from_date", "%s is after to_date %s", from, to)
	}

	txns, err := l.store.ListTransactions(ctx, acctID)
	if err != nil {
		return nil, err
	}

	return statement.Build(a.ID, a.Currency, from, to, txns), nil
}

// ──────────────────────────────────────────────────
// Risk
// ──────────────────────────────────────────────────

// RiskScore scores a customer from the number of accounts they own and
// their OPEN invoices.
func (l *Ledger) RiskScore(ctx context.Context, custID id.CustomerID) (*risk.Report, error) {
	c, err := l.GetCustomer(ctx, custID)
	if err != nil {
		return nil, err
	}

	accts, err := l.store.ListAccountsByCustomer(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	open, err := l.store.ListInvoicesByCustomer(ctx, c.ID, invoice.ListOpts{Status: invoice.StatusOpen})
	if err != nil {
		return nil, err
	}

	report := risk.Evaluate(l.riskPolicy, c.ID, len(accts), len(open))
	l.plugins.EmitRiskScored(ctx, report)
	return report, nil
}
