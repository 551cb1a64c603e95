package finledger

import "github.com/xraph/finledger/types"

// Re-export common types for convenience so users don't have to import types package.

// Amount is re-exported from types package.
type Amount = types.Amount

// Rate is re-exported from types package.
type Rate = types.Rate

// Date is re-exported from types package.
type Date = types.Date

// Entity is re-exported from types package.
type Entity = types.Entity

// Re-export constructors
var (
	ParseAmount   = types.ParseAmount
	MustAmount    = types.MustAmount
	AmountFromInt = types.AmountFromInt
	ParseDate     = types.ParseDate
	NewDate       = types.NewDate
)
