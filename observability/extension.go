// Package observability provides a metrics extension for the ledger that
// records event counts and amount distributions via a MetricFactory.
package observability

import (
	"context"

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

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin              = (*MetricsExtension)(nil)
	_ plugin.OnCustomerCreated   = (*MetricsExtension)(nil)
	_ plugin.OnKYCChecked        = (*MetricsExtension)(nil)
	_ plugin.OnAccountOpened     = (*MetricsExtension)(nil)
	_ plugin.OnTransactionPosted = (*MetricsExtension)(nil)
	_ plugin.OnTransferCompleted = (*MetricsExtension)(nil)
	_ plugin.OnInvoiceCreated    = (*MetricsExtension)(nil)
	_ plugin.OnInvoicePaid       = (*MetricsExtension)(nil)
	_ plugin.OnInvoiceVoided     = (*MetricsExtension)(nil)
	_ plugin.OnLoanCreated       = (*MetricsExtension)(nil)
	_ plugin.OnRiskScored        = (*MetricsExtension)(nil)
	_ plugin.OnOperationRejected = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records ledger-wide event metrics.
// Register it as a ledger plugin to track activity automatically.
type MetricsExtension struct {
	// Customer metrics
	CustomersCreated Counter
	KYCPassed        Counter
	KYCFailed        Counter

	// Account and journal metrics
	AccountsOpened     Counter
	Deposits           Counter
	Withdrawals        Counter
	TransfersCompleted Counter
	PostedAmount       Histogram
	TransferAmount     Histogram

	// Invoice metrics
	InvoicesCreated Counter
	InvoicesPaid    Counter
	InvoicesVoided  Counter
	InvoiceAmount   Histogram

	// Lending and scoring metrics
	LoansCreated  Counter
	LoanPrincipal Histogram
	RiskScores    Histogram

	// Rejections by kind
	RejectedNotFound          Counter
	RejectedInsufficientFunds Counter
	RejectedCurrencyMismatch  Counter
	RejectedInvalidStatus     Counter
	RejectedPairUnsupported   Counter
	RejectedValidation        Counter
	RejectedInternal          Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		CustomersCreated: factory.Counter("finledger.customer.created"),
		KYCPassed:        factory.Counter("finledger.kyc.passed"),
		KYCFailed:        factory.Counter("finledger.kyc.failed"),

		AccountsOpened:     factory.Counter("finledger.account.opened"),
		Deposits:           factory.Counter("finledger.transaction.deposit"),
		Withdrawals:        factory.Counter("finledger.transaction.withdrawal"),
		TransfersCompleted: factory.Counter("finledger.transfer.completed"),
		PostedAmount:       factory.Histogram("finledger.transaction.amount"),
		TransferAmount:     factory.Histogram("finledger.transfer.amount"),

		InvoicesCreated: factory.Counter("finledger.invoice.created"),
		InvoicesPaid:    factory.Counter("finledger.invoice.paid"),
		InvoicesVoided:  factory.Counter("finledger.invoice.voided"),
		InvoiceAmount:   factory.Histogram("finledger.invoice.amount"),

		LoansCreated:  factory.Counter("finledger.loan.created"),
		LoanPrincipal: factory.Histogram("finledger.loan.principal"),
		RiskScores:    factory.Histogram("finledger.risk.score"),

		RejectedNotFound:          factory.Counter("finledger.rejected.not_found"),
		RejectedInsufficientFunds: factory.Counter("finledger.rejected.insufficient_funds"),
		RejectedCurrencyMismatch:  factory.Counter("finledger.rejected.currency_mismatch"),
		RejectedInvalidStatus:     factory.Counter("finledger.rejected.invalid_status"),
		RejectedPairUnsupported:   factory.Counter("finledger.rejected.pair_unsupported"),
		RejectedValidation:        factory.Counter("finledger.rejected.validation"),
		RejectedInternal:          factory.Counter("finledger.rejected.internal"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnCustomerCreated implements plugin.OnCustomerCreated.
func (m *MetricsExtension) OnCustomerCreated(context.Context, *customer.Customer) error {
	m.CustomersCreated.Inc()
	return nil
}

// OnKYCChecked implements plugin.OnKYCChecked.
func (m *MetricsExtension) OnKYCChecked(_ context.Context, result *customer.KYCResult) error {
	if result.Passed {
		m.KYCPassed.Inc()
	} else {
		m.KYCFailed.Inc()
	}
	return nil
}

// OnAccountOpened implements plugin.OnAccountOpened.
func (m *MetricsExtension) OnAccountOpened(context.Context, *account.Account) error {
	m.AccountsOpened.Inc()
	return nil
}

// OnTransactionPosted implements plugin.OnTransactionPosted. Transfer
// legs are counted by OnTransferCompleted instead.
func (m *MetricsExtension) OnTransactionPosted(_ context.Context, txn *transaction.Transaction, _ types.Amount) error {
	switch txn.Type {
	case transaction.TypeDeposit:
		m.Deposits.Inc()
	case transaction.TypeWithdrawal:
		m.Withdrawals.Inc()
	default:
		return nil
	}
	m.PostedAmount.Observe(float(txn.Amount.Abs()))
	return nil
}

// OnTransferCompleted implements plugin.OnTransferCompleted.
func (m *MetricsExtension) OnTransferCompleted(_ context.Context, _, credit *transaction.Transaction) error {
	m.TransfersCompleted.Inc()
	m.TransferAmount.Observe(float(credit.Amount))
	return nil
}

// OnInvoiceCreated implements plugin.OnInvoiceCreated.
func (m *MetricsExtension) OnInvoiceCreated(_ context.Context, inv *invoice.Invoice) error {
	m.InvoicesCreated.Inc()
	m.InvoiceAmount.Observe(float(inv.Amount))
	return nil
}

// OnInvoicePaid implements plugin.OnInvoicePaid.
func (m *MetricsExtension) OnInvoicePaid(context.Context, *invoice.Invoice) error {
	m.InvoicesPaid.Inc()
	return nil
}

// OnInvoiceVoided implements plugin.OnInvoiceVoided.
func (m *MetricsExtension) OnInvoiceVoided(context.Context, *invoice.Invoice, string) error {
	m.InvoicesVoided.Inc()
	return nil
}

// OnLoanCreated implements plugin.OnLoanCreated.
func (m *MetricsExtension) OnLoanCreated(_ context.Context, l *loan.Loan) error {
	m.LoansCreated.Inc()
	m.LoanPrincipal.Observe(float(l.Principal))
	return nil
}

// OnRiskScored implements plugin.OnRiskScored.
func (m *MetricsExtension) OnRiskScored(_ context.Context, report *risk.Report) error {
	m.RiskScores.Observe(float64(report.Score))
	return nil
}

// OnOperationRejected implements plugin.OnOperationRejected.
func (m *MetricsExtension) OnOperationRejected(_ context.Context, _ string, err error) error {
	switch finledger.KindOf(err) {
	case finledger.KindNotFound:
		m.RejectedNotFound.Inc()
	case finledger.KindInsufficientFunds:
		m.RejectedInsufficientFunds.Inc()
	case finledger.KindCurrencyMismatch:
		m.RejectedCurrencyMismatch.Inc()
	case finledger.KindInvalidStatus:
		m.RejectedInvalidStatus.Inc()
	case finledger.KindPairUnsupported:
		m.RejectedPairUnsupported.Inc()
	case finledger.KindValidation:
		m.RejectedValidation.Inc()
	default:
		m.RejectedInternal.Inc()
	}
	return nil
}

// float converts an amount for histogram observation; the precision loss
// is acceptable for metrics.
func float(a types.Amount) float64 {
	return a.Decimal().InexactFloat64()
}
