// Package account defines the account entity.
package account

import (
	"github.com/xraph/finledger/id"
	"github.com/xraph/finledger/types"
)

// Account holds a balance in a single currency for one customer.
// Balance always equals the sum of the account's transaction amounts and
// only changes when transactions are posted.
type Account struct {
	types.Entity
	ID         id.AccountID  `json:"id"`
	CustomerID id.CustomerID `json:"customer_id"`
	Currency   string        `json:"currency"`
	Balance    types.Amount  `json:"balance"`
}
