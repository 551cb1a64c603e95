package loan

import (
	"context"

	"github.com/xraph/finledger/id"
)

type Store interface {
	CreateLoan(ctx context.Context, l *Loan) error
	GetLoan(ctx context.Context, loanID id.LoanID) (*Loan, error)
	ListLoansByCustomer(ctx context.Context, custID id.CustomerID) ([]*Loan, error)
}
