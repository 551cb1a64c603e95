// Package invoice defines invoices and their status machine.
package invoice

import (
	"time"

	"github.com/xraph/finledger/id"
	"github.com/xraph/finledger/types"
)

type Status string

const (
	StatusOpen Status = "OPEN"
	StatusPaid Status = "PAID"
	StatusVoid Status = "VOID"
)

// CanTransitionTo reports whether an invoice in status s may move to next.
// Only OPEN invoices move, to PAID or VOID.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusOpen && (next == StatusPaid || next == StatusVoid)
}

type Invoice struct {
	types.Entity
	ID         id.InvoiceID  `json:"id"`
	CustomerID id.CustomerID `json:"customer_id"`
	Amount     types.Amount  `json:"amount"`
	Currency   string        `json:"currency"`
	Status     Status        `json:"status"`
	DueDate    types.Date    `json:"due_date"`
	PaidAt     *time.Time    `json:"paid_at,omitempty"`
	VoidedAt   *time.Time    `json:"voided_at,omitempty"`
	VoidReason string        `json:"void_reason,omitempty"`
}
