// Package loan defines loans and simple-interest accrual.
package loan

import (
	"github.com/shopspring/decimal"

	"github.com/xraph/finledger/id"
	"github.com/xraph/finledger/types"
)

// Loan is immutable once originated; repayment schedules are not modeled.
type Loan struct {
	types.Entity
	ID         id.LoanID     `json:"id"`
	CustomerID id.CustomerID `json:"customer_id"`
	Principal  types.Amount  `json:"principal"`
	RateAPR    types.Amount  `json:"rate_apr"` // percent, e.g. 12.0000
	TermMonths int           `json:"term_months"`
	Currency   string        `json:"currency"`
}

var daysPerYearPercent = decimal.NewFromInt(365 * 100)

// SimpleInterest returns principal × rateAPR/100 × days/365, rounded once
// to four digits half away from zero.
func SimpleInterest(principal, rateAPR types.Amount, days int) types.Amount {
	num := principal.Decimal().
		Mul(rateAPR.Decimal()).
		Mul(decimal.NewFromInt(int64(days)))
	return types.NewAmount(num.DivRound(daysPerYearPercent, types.AmountScale))
}
