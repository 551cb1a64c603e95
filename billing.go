package finledger

import (
	"context"
	"fmt"

	"github.com/xraph/finledger/id"
	"github.com/xraph/finledger/invoice"
	"github.com/xraph/finledger/loan"
	"github.com/xraph/finledger/types"
)

// ──────────────────────────────────────────────────
// Invoices
// ──────────────────────────────────────────────────

// CreateInvoice issues an OPEN invoice to an existing customer.
func (l *Ledger) CreateInvoice(ctx context.Context, custID id.CustomerID, amount types.Amount, currency string, dueDate types.Date) (*invoice.Invoice, error) {
	attrs := []any{"customer_id", custID}
	if !amount.IsPositive() {
		return nil, l.reject(ctx, "create_invoice", invalid("amount", "must be positive, got %s", amount), attrs...)
	}
	code, err := types.NormalizeCurrency(currency)
	if err != nil {
		return nil, l.reject(ctx, "create_invoice", invalid("currency", "%v", err), attrs...)
	}
	if dueDate.IsZero() {
		return nil, l.reject(ctx, "create_invoice", invalid("due_date", "is required"), attrs...)
	}

	inv := &invoice.Invoice{
		Entity:     types.NewEntity(l.clock()),
		ID:         id.NewInvoiceID(),
		CustomerID: custID,
		Amount:     amount,
		Currency:   code,
		Status:     invoice.StatusOpen,
		DueDate:    dueDate,
	}

	if err := l.store.CreateInvoice(ctx, inv); err != nil {
		return nil, l.reject(ctx, "create_invoice", fmt.Errorf("create invoice for %s: %w", custID, err), attrs...)
	}

	l.plugins.EmitInvoiceCreated(ctx, inv)
	return inv, nil
}

// PayInvoice moves an OPEN invoice to PAID. Paying is a status change
// only; no money moves between accounts.
func (l *Ledger) PayInvoice(ctx context.Context, invID id.InvoiceID) (*invoice.Invoice, error) {
	inv, err := l.transitionInvoice(ctx, invID, invoice.StatusPaid, "")
	if err != nil {
		return nil, l.reject(ctx, "pay_invoice", err, "invoice_id", invID)
	}

	l.plugins.EmitInvoicePaid(ctx, inv)
	return inv, nil
}

// VoidInvoice moves an OPEN invoice to VOID.
func (l *Ledger) VoidInvoice(ctx context.Context, invID id.InvoiceID, reason string) (*invoice.Invoice, error) {
	inv, err := l.transitionInvoice(ctx, invID, invoice.StatusVoid, reason)
	if err != nil {
		return nil, l.reject(ctx, "void_invoice", err, "invoice_id", invID)
	}

	l.plugins.EmitInvoiceVoided(ctx, inv, reason)
	return inv, nil
}

func (l *Ledger) transitionInvoice(ctx context.Context, invID id.InvoiceID, next invoice.Status, reason string) (*invoice.Invoice, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	inv, err := l.store.GetInvoice(ctx, invID)
	if err != nil {
		return nil, fmt.Errorf("invoice %s: %w", invID, err)
	}
	if !inv.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("invoice %s is %s, cannot become %s: %w", invID, inv.Status, next, ErrInvalidStatus)
	}

	now := l.clock()
	inv.Status = next
	inv.Touch(now)
	switch next {
	case invoice.StatusPaid:
		inv.PaidAt = &now
	case invoice.StatusVoid:
		inv.VoidedAt = &now
		inv.VoidReason = reason
	}

	if err := l.store.UpdateInvoice(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// GetInvoice retrieves an invoice by ID.
func (l *Ledger) GetInvoice(ctx context.Context, invID id.InvoiceID) (*invoice.Invoice, error) {
	inv, err := l.store.GetInvoice(ctx, invID)
	if err != nil {
		return nil, fmt.Errorf("get invoice %s: %w", invID, err)
	}
	return inv, nil
}

// GetInvoiceStatus returns the current status of an invoice.
func (l *Ledger) GetInvoiceStatus(ctx context.Context, invID id.InvoiceID) (invoice.Status, error) {
	inv, err := l.GetInvoice(ctx, invID)
	if err != nil {
		return "", err
	}
	return inv.Status, nil
}

// ──────────────────────────────────────────────────
// Loans
// ──────────────────────────────────────────────────

// CreateLoan originates a loan for an existing customer. rateAPR is a
// yearly percentage; termMonths must be at least 1.
func (l *Ledger) CreateLoan(ctx context.Context, custID id.CustomerID, principal, rateAPR types.Amount, termMonths int, currency string) (*loan.Loan, error) {
	attrs := []any{"customer_id", custID}
	var verr error
	switch {
	case !principal.IsPositive():
		verr = invalid("principal", "must be positive, got %s", principal)
	case rateAPR.IsNegative():
		verr = invalid("rate_apr", "must not be negative, got %s", rateAPR)
	case termMonths < 1:
		verr = invalid("term_months", "must be at least 1, got %d", termMonths)
	}
	if verr != nil {
		return nil, l.reject(ctx, "create_loan", verr, attrs...)
	}
	code, err := types.NormalizeCurrency(currency)
	if err != nil {
		return nil, l.reject(ctx, "create_loan", invalid("currency", "%v", err), attrs...)
	}

	ln := &loan.Loan{
		Entity:     types.NewEntity(l.clock()),
		ID:         id.NewLoanID(),
		CustomerID: custID,
		Principal:  principal,
		RateAPR:    rateAPR,
		TermMonths: termMonths,
		Currency:   code,
	}

	if err := l.store.CreateLoan(ctx, ln); err != nil {
		return nil, l.reject(ctx, "create_loan", fmt.Errorf("create loan for %s: %w", custID, err), attrs...)
	}

	l.plugins.EmitLoanCreated(ctx, ln)
	return ln, nil
}

// GetLoan retrieves a loan by ID.
func (l *Ledger) GetLoan(ctx context.Context, loanID id.LoanID) (*loan.Loan, error) {
	ln, err := l.store.GetLoan(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("get loan %s: %w", loanID, err)
	}
	return ln, nil
}

// CalculateInterest returns simple interest on principal at rateAPR
// percent over days. It reads no ledger state.
func (l *Ledger) CalculateInterest(principal, rateAPR types.Amount, days int) (types.Amount, error) {
	switch {
	case principal.IsNegative():
		return types.Amount{}, invalid("principal", "must not be negative, got %s", principal)
	case rateAPR.IsNegative():
		return types.Amount{}, invalid("rate_apr", "must not be negative, got %s", rateAPR)
	case days < 0:
		return types.Amount{}, invalid("days", "must not be negative, got %d", days)
	}
	return loan.SimpleInterest(principal, rateAPR, days), nil
}
