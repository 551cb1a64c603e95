package transaction

import (
	"context"

	"github.com/xraph/finledger/id"
)

type Store interface {
	// ListTransactions returns the account's journal in posting order.
	// Unknown accounts yield an empty slice.
	ListTransactions(ctx context.Context, acctID id.AccountID) ([]*Transaction, error)
}
