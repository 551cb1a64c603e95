package finledger

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound      = errors.New("finledger: not found")
	ErrAlreadyExists = errors.New("finledger: already exists")
	ErrInvalidInput  = errors.New("finledger: invalid input")

	// Entity lookup errors
	ErrCustomerNotFound = errors.New("finledger: customer not found")
	ErrAccountNotFound  = errors.New("finledger: account not found")
	ErrInvoiceNotFound  = errors.New("finledger: invoice not found")
	ErrLoanNotFound     = errors.New("finledger: loan not found")

	// Ledger errors
	ErrInsufficientFunds = errors.New("finledger: insufficient funds")
	ErrCurrencyMismatch  = errors.New("finledger: currency mismatch")

	// Invoice errors
	ErrInvalidStatus = errors.New("finledger: invalid invoice status transition")

	// FX errors
	ErrPairUnsupported = errors.New("finledger: currency pair not supported")

	// Store errors
	ErrStoreClosed = errors.New("finledger: store is closed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("finledger: validation failed for %s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ErrorKind classifies engine errors for callers that translate them
// into faults.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "NotFound"
	KindInsufficientFunds ErrorKind = "InsufficientFunds"
	KindCurrencyMismatch  ErrorKind = "CurrencyMismatch"
	KindInvalidStatus     ErrorKind = "InvalidStatus"
	KindPairUnsupported   ErrorKind = "PairUnsupported"
	KindValidation        ErrorKind = "ValidationError"
	KindInternal          ErrorKind = "Internal"
)

// KindOf returns the kind of a (possibly wrapped) engine error, or ""
// for nil.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case IsNotFound(err):
		return KindNotFound
	case errors.Is(err, ErrInsufficientFunds):
		return KindInsufficientFunds
	case errors.Is(err, ErrCurrencyMismatch):
		return KindCurrencyMismatch
	case errors.Is(err, ErrInvalidStatus):
		return KindInvalidStatus
	case errors.Is(err, ErrPairUnsupported):
		return KindPairUnsupported
	case IsValidation(err):
		return KindValidation
	default:
		return KindInternal
	}
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrInvoiceNotFound) ||
		errors.Is(err, ErrLoanNotFound)
}

// IsValidation returns true if the error reports malformed input.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrInvalidInput)
}
