// Package transaction defines immutable journal entries posted to accounts.
package transaction

import (
	"time"

	"github.com/xraph/finledger/id"
	"github.com/xraph/finledger/types"
)

type Type string

const (
	TypeDeposit     Type = "DEPOSIT"
	TypeWithdrawal  Type = "WITHDRAWAL"
	TypeTransferIn  Type = "TRANSFER_IN"
	TypeTransferOut Type = "TRANSFER_OUT"
)

// Transaction is a signed movement on one account: positive amounts are
// credits, negative amounts debits. Its currency always equals the
// account's currency.
type Transaction struct {
	ID          id.TransactionID `json:"id"`
	AccountID   id.AccountID     `json:"account_id"`
	Amount      types.Amount     `json:"amount"`
	Currency    string           `json:"currency"`
	Type        Type             `json:"type"`
	Timestamp   time.Time        `json:"timestamp"`
	Description string           `json:"description"`
}

// IsCredit reports whether the transaction increases the balance.
func (t *Transaction) IsCredit() bool { return t.Amount.IsPositive() }

// Date is the UTC calendar day the transaction was posted on.
func (t *Transaction) Date() types.Date { return types.DateOf(t.Timestamp) }
