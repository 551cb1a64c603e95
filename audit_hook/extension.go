// Package audithook bridges ledger events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not depend on
// any particular audit store. Callers inject a RecorderFunc adapter that
// bridges to their backend at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/finledger"
	"github.com/xraph/finledger/account"
	"github.com/xraph/finledger/customer"
	"github.com/xraph/finledger/invoice"
	"github.com/xraph/finledger/loan"
	"github.com/xraph/finledger/plugin"
	"github.com/xraph/finledger/risk"
	"github.com/xraph/finledger/transaction"
	"github.com/xraph/finledger/types"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin              = (*Extension)(nil)
	_ plugin.OnCustomerCreated   = (*Extension)(nil)
	_ plugin.OnKYCChecked        = (*Extension)(nil)
	_ plugin.OnAccountOpened     = (*Extension)(nil)
	_ plugin.OnTransactionPosted = (*Extension)(nil)
	_ plugin.OnTransferCompleted = (*Extension)(nil)
	_ plugin.OnInvoiceCreated    = (*Extension)(nil)
	_ plugin.OnInvoicePaid       = (*Extension)(nil)
	_ plugin.OnInvoiceVoided     = (*Extension)(nil)
	_ plugin.OnLoanCreated       = (*Extension)(nil)
	_ plugin.OnRiskScored        = (*Extension)(nil)
	_ plugin.OnOperationRejected = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a single audit trail entry.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension turns ledger events into audit events.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Customer hooks
// ──────────────────────────────────────────────────

// OnCustomerCreated implements plugin.OnCustomerCreated.
func (e *Extension) OnCustomerCreated(ctx context.Context, c *customer.Customer) error {
	return e.record(ctx, ActionCustomerCreated, SeverityInfo, OutcomeSuccess,
		ResourceCustomer, c.ID.String(), CategoryCustomer, nil,
		"full_name", c.FullName,
	)
}

// OnKYCChecked implements plugin.OnKYCChecked. Failed checks are
// recorded as warnings.
func (e *Extension) OnKYCChecked(ctx context.Context, result *customer.KYCResult) error {
	action, severity, outcome := ActionKYCPassed, SeverityInfo, OutcomeSuccess
	if !result.Passed {
		action, severity, outcome = ActionKYCFailed, SeverityWarning, OutcomeFailure
	}
	return e.record(ctx, action, severity, outcome,
		ResourceCustomer, result.CustomerID.String(), CategoryCustomer, nil,
		"reason", string(result.Reason),
	)
}

// ──────────────────────────────────────────────────
// Account and journal hooks
// ──────────────────────────────────────────────────

// OnAccountOpened implements plugin.OnAccountOpened.
func (e *Extension) OnAccountOpened(ctx context.Context, a *account.Account) error {
	return e.record(ctx, ActionAccountOpened, SeverityInfo, OutcomeSuccess,
		ResourceAccount, a.ID.String(), CategoryLedger, nil,
		"customer_id", a.CustomerID.String(),
		"currency", a.Currency,
	)
}

// OnTransactionPosted implements plugin.OnTransactionPosted.
func (e *Extension) OnTransactionPosted(ctx context.Context, txn *transaction.Transaction, balance types.Amount) error {
	return e.record(ctx, ActionTransactionPosted, SeverityInfo, OutcomeSuccess,
		ResourceTransaction, txn.ID.String(), CategoryLedger, nil,
		"account_id", txn.AccountID.String(),
		"type", string(txn.Type),
		"amount", txn.Amount.String(),
		"currency", txn.Currency,
		"balance", balance.String(),
	)
}

// OnTransferCompleted implements plugin.OnTransferCompleted.
func (e *Extension) OnTransferCompleted(ctx context.Context, debit, credit *transaction.Transaction) error {
	return e.record(ctx, ActionTransferCompleted, SeverityInfo, OutcomeSuccess,
		ResourceTransaction, debit.ID.String(), CategoryLedger, nil,
		"src_account_id", debit.AccountID.String(),
		"dst_account_id", credit.AccountID.String(),
		"credit_txn_id", credit.ID.String(),
		"amount", credit.Amount.String(),
		"currency", credit.Currency,
	)
}

// ──────────────────────────────────────────────────
// Invoice hooks
// ──────────────────────────────────────────────────

// OnInvoiceCreated implements plugin.OnInvoiceCreated.
func (e *Extension) OnInvoiceCreated(ctx context.Context, inv *invoice.Invoice) error {
	return e.record(ctx, ActionInvoiceCreated, SeverityInfo, OutcomeSuccess,
		ResourceInvoice, inv.ID.String(), CategoryBilling, nil,
		"customer_id", inv.CustomerID.String(),
		"amount", inv.Amount.String(),
		"currency", inv.Currency,
		"due_date", inv.DueDate.String(),
	)
}

// OnInvoicePaid implements plugin.OnInvoicePaid.
func (e *Extension) OnInvoicePaid(ctx context.Context, inv *invoice.Invoice) error {
	return e.record(ctx, ActionInvoicePaid, SeverityInfo, OutcomeSuccess,
		ResourceInvoice, inv.ID.String(), CategoryBilling, nil,
		"customer_id", inv.CustomerID.String(),
		"amount", inv.Amount.String(),
	)
}

// OnInvoiceVoided implements plugin.OnInvoiceVoided.
func (e *Extension) OnInvoiceVoided(ctx context.Context, inv *invoice.Invoice, reason string) error {
	return e.record(ctx, ActionInvoiceVoided, SeverityWarning, OutcomeSuccess,
		ResourceInvoice, inv.ID.String(), CategoryBilling, nil,
		"customer_id", inv.CustomerID.String(),
		"void_reason", reason,
	)
}

// ──────────────────────────────────────────────────
// Lending and scoring hooks
// ──────────────────────────────────────────────────

// OnLoanCreated implements plugin.OnLoanCreated.
func (e *Extension) OnLoanCreated(ctx context.Context, l *loan.Loan) error {
	return e.record(ctx, ActionLoanCreated, SeverityInfo, OutcomeSuccess,
		ResourceLoan, l.ID.String(), CategoryLending, nil,
		"customer_id", l.CustomerID.String(),
		"principal", l.Principal.String(),
		"rate_apr", l.RateAPR.String(),
		"term_months", l.TermMonths,
		"currency", l.Currency,
	)
}

// OnRiskScored implements plugin.OnRiskScored.
func (e *Extension) OnRiskScored(ctx context.Context, report *risk.Report) error {
	return e.record(ctx, ActionRiskScored, SeverityInfo, OutcomeSuccess,
		ResourceCustomer, report.CustomerID.String(), CategoryRisk, nil,
		"score", report.Score,
		"band", string(report.Band),
	)
}

// ──────────────────────────────────────────────────
// Failure hooks
// ──────────────────────────────────────────────────

// OnOperationRejected implements plugin.OnOperationRejected. Business
// rule violations are warnings; anything unclassified is an error.
func (e *Extension) OnOperationRejected(ctx context.Context, op string, err error) error {
	kind := finledger.KindOf(err)
	severity := SeverityWarning
	if kind == finledger.KindInternal {
		severity = SeverityError
	}
	return e.record(ctx, ActionOperationRejected, severity, OutcomeFailure,
		ResourceOperation, op, categoryOf(op), err,
		"kind", string(kind),
	)
}

func categoryOf(op string) string {
	switch op {
	case "create_customer", "kyc_check":
		return CategoryCustomer
	case "create_invoice", "pay_invoice", "void_invoice":
		return CategoryBilling
	case "create_loan":
		return CategoryLending
	default:
		return CategoryLedger
	}
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
// Recorder failures are logged, never returned.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
