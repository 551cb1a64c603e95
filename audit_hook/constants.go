package audithook

// Action constants for audit events.
const (
	// Customer actions
	ActionCustomerCreated = "customer.created"
	ActionKYCPassed       = "kyc.passed"
	ActionKYCFailed       = "kyc.failed"

	// Account and journal actions
	ActionAccountOpened     = "account.opened"
	ActionTransactionPosted = "transaction.posted"
	ActionTransferCompleted = "transfer.completed"

	// Invoice actions
	ActionInvoiceCreated = "invoice.created"
	ActionInvoicePaid    = "invoice.paid"
	ActionInvoiceVoided  = "invoice.voided"

	// Lending and scoring actions
	ActionLoanCreated = "loan.created"
	ActionRiskScored  = "risk.scored"

	// Failures
	ActionOperationRejected = "operation.rejected"
)

// Resource constants for audit events.
const (
	ResourceCustomer    = "customer"
	ResourceAccount     = "account"
	ResourceTransaction = "transaction"
	ResourceInvoice     = "invoice"
	ResourceLoan        = "loan"
	ResourceOperation   = "operation"
)

// Category constants for audit events.
const (
	CategoryCustomer = "customer"
	CategoryLedger   = "ledger"
	CategoryBilling  = "billing"
	CategoryLending  = "lending"
	CategoryRisk     = "risk"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
