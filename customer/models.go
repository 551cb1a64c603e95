// Package customer defines the customer entity and the outcome of a KYC check.
package customer

import (
	"github.com/xraph/finledger/id"
	"github.com/xraph/finledger/types"
)

// Customer is a party that owns accounts, invoices and loans.
// Customers are never deleted.
type Customer struct {
	types.Entity
	ID          id.CustomerID `json:"id"`
	FullName    string        `json:"full_name"`
	KYCVerified bool          `json:"kyc_verified"`
}

// KYCReason explains a KYC outcome.
type KYCReason string

const (
	ReasonNotFound      KYCReason = "NOT_FOUND"
	ReasonVerifiedBasic KYCReason = "VERIFIED_BASIC"
)

// KYCResult is the reported outcome of a KYC check. A failed check is a
// normal result, not an error.
type KYCResult struct {
	CustomerID id.CustomerID `json:"customer_id"`
	Passed     bool          `json:"passed"`
	Reason     KYCReason     `json:"reason"`
}
