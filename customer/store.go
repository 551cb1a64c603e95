package customer

import (
	"context"

	"github.com/xraph/finledger/id"
)

type Store interface {
	CreateCustomer(ctx context.Context, c *Customer) error
	GetCustomer(ctx context.Context, custID id.CustomerID) (*Customer, error)
	UpdateCustomer(ctx context.Context, c *Customer) error
}
