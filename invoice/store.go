package invoice

import (
	"context"

	"github.com/xraph/finledger/id"
)

type Store interface {
	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, invID id.InvoiceID) (*Invoice, error)
	UpdateInvoice(ctx context.Context, inv *Invoice) error
	ListInvoicesByCustomer(ctx context.Context, custID id.CustomerID, opts ListOpts) ([]*Invoice, error)
}

type ListOpts struct {
	Status Status // empty matches every status
}
