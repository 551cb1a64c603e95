package account

import (
	"context"

	"github.com/xraph/finledger/id"
)

type Store interface {
	CreateAccount(ctx context.Context, a *Account) error
	GetAccount(ctx context.Context, acctID id.AccountID) (*Account, error)
	ListAccountsByCustomer(ctx context.Context, custID id.CustomerID) ([]*Account, error)
}
