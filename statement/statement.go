// Package statement builds account statements from a transaction journal.
package statement

import (
	"github.com/xraph/finledger/id"
	"github.com/xraph/finledger/transaction"
	"github.com/xraph/finledger/types"
)

// Line is one transaction as it appears on a statement.
type Line struct {
	TransactionID id.TransactionID `json:"transaction_id"`
	Date          types.Date       `json:"date"`
	Type          transaction.Type `json:"type"`
	Description   string           `json:"description"`
	Amount        types.Amount     `json:"amount"`
	BalanceAfter  types.Amount     `json:"balance_after"`
}

// Statement is a derived view of an account over an inclusive date window.
//
// The running balance starts at zero on the first line, so BalanceAfter
// and NetMovement report movement within the window, not the account's
// true balance.
type Statement struct {
	AccountID   id.AccountID `json:"account_id"`
	Currency    string       `json:"currency"`
	From        types.Date   `json:"from_date"`
	To          types.Date   `json:"to_date"`
	Lines       []Line       `json:"lines"`
	Credits     types.Amount `json:"credits"`
	Debits      types.Amount `json:"debits"`
	NetMovement types.Amount `json:"net_movement"`
}

// Build selects the transactions dated within [from, to] (UTC days),
// keeps their journal order and accumulates a running balance from zero.
// txns must be in posting order.
func Build(accountID id.AccountID, currency string, from, to types.Date, txns []*transaction.Transaction) *Statement {
	st := &Statement{
		AccountID: accountID,
		Currency:  currency,
		From:      from,
		To:        to,
		Lines:     make([]Line, 0),
	}

	running := types.ZeroAmount()
	for _, t := range txns {
		day := t.Date()
		if !day.Between(from, to) {
			continue
		}
		running = running.Add(t.Amount)
		if t.IsCredit() {
			st.Credits = st.Credits.Add(t.Amount)
		} else {
			st.Debits = st.Debits.Add(t.Amount)
		}
		st.Lines = append(st.Lines, Line{
			TransactionID: t.ID,
			Date:          day,
			Type:          t.Type,
			Description:   t.Description,
			Amount:        t.Amount,
			BalanceAfter:  running,
		})
	}
	st.NetMovement = running

	return st
}
