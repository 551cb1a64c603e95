package finledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/xraph/finledger/customer"
	"github.com/xraph/finledger/id"
	"github.com/xraph/finledger/types"
)

// ──────────────────────────────────────────────────
// Customers & KYC
// ──────────────────────────────────────────────────

// CreateCustomer registers a customer. Any name is accepted, including
// the empty one.
func (l *Ledger) CreateCustomer(ctx context.Context, fullName string) (*customer.Customer, error) {
	c := &customer.Customer{
		Entity:   types.NewEntity(l.clock()),
		ID:       id.NewCustomerID(),
		FullName: fullName,
	}

	if err := l.store.CreateCustomer(ctx, c); err != nil {
		return nil, l.reject(ctx, "create_customer", err)
	}

	l.plugins.EmitCustomerCreated(ctx, c)
	return c, nil
}

// GetCustomer retrieves a customer by ID.
func (l *Ledger) GetCustomer(ctx context.Context, custID id.CustomerID) (*customer.Customer, error) {
	c, err := l.store.GetCustomer(ctx, custID)
	if err != nil {
		return nil, fmt.Errorf("get customer %s: %w", custID, err)
	}
	return c, nil
}

// KYCCheck runs the basic verification for a customer. An unknown
// customer is reported as a failed result with reason NOT_FOUND and a nil
// error; a known one is marked verified.
func (l *Ledger) KYCCheck(ctx context.Context, custID id.CustomerID) (*customer.KYCResult, error) {
	result, err := l.kycCheck(ctx, custID)
	if err != nil {
		return nil, l.reject(ctx, "kyc_check", err, "customer_id", custID)
	}

	l.plugins.EmitKYCChecked(ctx, result)
	return result, nil
}

func (l *Ledger) kycCheck(ctx context.Context, custID id.CustomerID) (*customer.KYCResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, err := l.store.GetCustomer(ctx, custID)
	if errors.Is(err, ErrCustomerNotFound) {
		return &customer.KYCResult{CustomerID: custID, Passed: false, Reason: customer.ReasonNotFound}, nil
	}
	if err != nil {
		return nil, err
	}

	if !c.KYCVerified {
		c.KYCVerified = true
		c.Touch(l.clock())
		if err := l.store.UpdateCustomer(ctx, c); err != nil {
			return nil, err
		}
	}

	return &customer.KYCResult{CustomerID: custID, Passed: true, Reason: customer.ReasonVerifiedBasic}, nil
}
