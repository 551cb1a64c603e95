package finledger

import (
	"context"
	"fmt"

	"github.com/xraph/finledger/account"
	"github.com/xraph/finledger/id"
	"github.com/xraph/finledger/transaction"
	"github.com/xraph/finledger/types"
)

// Default transaction descriptions.
const (
	DescriptionDeposit    = "Deposit"
	DescriptionWithdrawal = "Withdrawal"
)

// ──────────────────────────────────────────────────
// Accounts
// ──────────────────────────────────────────────────

// OpenAccount opens a zero-balance account for an existing customer.
// The currency code is upper-cased and must be a known ISO-4217 code.
func (l *Ledger) OpenAccount(ctx context.Context, custID id.CustomerID, currency string) (*account.Account, error) {
	code, err := types.NormalizeCurrency(currency)
	if err != nil {
		return nil, l.reject(ctx, "open_account", invalid("currency", "%v", err), "customer_id", custID)
	}

	a := &account.Account{
		Entity:     types.NewEntity(l.clock()),
		ID:         id.NewAccountID(),
		CustomerID: custID,
		Currency:   code,
		Balance:    types.ZeroAmount(),
	}

	if err := l.store.CreateAccount(ctx, a); err != nil {
		return nil, l.reject(ctx, "open_account", fmt.Errorf("open account for %s: %w", custID, err), "customer_id", custID)
	}

	l.plugins.EmitAccountOpened(ctx, a)
	return a, nil
}

// GetAccount retrieves an account by ID.
func (l *Ledger) GetAccount(ctx context.Context, acctID id.AccountID) (*account.Account, error) {
	a, err := l.store.GetAccount(ctx, acctID)
	if err != nil {
		return nil, fmt.Errorf("get account %s: %w", acctID, err)
	}
	return a, nil
}

// GetBalance returns the current balance of an account.
func (l *Ledger) GetBalance(ctx context.Context, acctID id.AccountID) (types.Amount, error) {
	a, err := l.GetAccount(ctx, acctID)
	if err != nil {
		return types.Amount{}, err
	}
	return a.Balance, nil
}

// ListTransactions returns an account's journal in posting order. An
// unknown account has an empty journal.
func (l *Ledger) ListTransactions(ctx context.Context, acctID id.AccountID) ([]*transaction.Transaction, error) {
	return l.store.ListTransactions(ctx, acctID)
}

// ──────────────────────────────────────────────────
// Postings
// ──────────────────────────────────────────────────

// Deposit credits amount to an account. amount must be positive; an empty
// description defaults to "Deposit".
func (l *Ledger) Deposit(ctx context.Context, acctID id.AccountID, amount types.Amount, description string) (*transaction.Transaction, error) {
	if !amount.IsPositive() {
		return nil, l.reject(ctx, "deposit", invalid("amount", "must be positive, got %s", amount), "account_id", acctID)
	}
	if description == "" {
		description = DescriptionDeposit
	}

	txn, balance, err := l.postOne(ctx, acctID, amount, transaction.TypeDeposit, description)
	if err != nil {
		return nil, l.reject(ctx, "deposit", err, "account_id", acctID, "amount", amount)
	}

	l.plugins.EmitTransactionPosted(ctx, txn, balance)
	return txn, nil
}

// Withdraw debits amount from an account. It fails with
// ErrInsufficientFunds when the balance is below amount; an empty
// description defaults to "Withdrawal".
func (l *Ledger) Withdraw(ctx context.Context, acctID id.AccountID, amount types.Amount, description string) (*transaction.Transaction, error) {
	if !amount.IsPositive() {
		return nil, l.reject(ctx, "withdraw", invalid("amount", "must be positive, got %s", amount), "account_id", acctID)
	}
	if description == "" {
		description = DescriptionWithdrawal
	}

	txn, balance, err := l.postOne(ctx, acctID, amount.Neg(), transaction.TypeWithdrawal, description)
	if err != nil {
		return nil, l.reject(ctx, "withdraw", err, "account_id", acctID, "amount", amount)
	}

	l.plugins.EmitTransactionPosted(ctx, txn, balance)
	return txn, nil
}

// Transfer moves amount between two accounts of the same currency. The
// debit (TRANSFER_OUT) and credit (TRANSFER_IN) legs are posted together:
// on any failure neither balance nor journal changes.
func (l *Ledger) Transfer(ctx context.Context, srcID, dstID id.AccountID, amount types.Amount) (debit, credit *transaction.Transaction, err error) {
	attrs := []any{"src_account_id", srcID, "dst_account_id", dstID, "amount", amount}
	switch {
	case !amount.IsPositive():
		return nil, nil, l.reject(ctx, "transfer", invalid("amount", "must be positive, got %s", amount), attrs...)
	case srcID == dstID:
		return nil, nil, l.reject(ctx, "transfer", invalid("dst_account_id", "must differ from the source account"), attrs...)
	}

	debit, credit, srcBal, dstBal, err := l.transfer(ctx, srcID, dstID, amount)
	if err != nil {
		return nil, nil, l.reject(ctx, "transfer", err, attrs...)
	}

	l.plugins.EmitTransactionPosted(ctx, debit, srcBal)
	l.plugins.EmitTransactionPosted(ctx, credit, dstBal)
	l.plugins.EmitTransferCompleted(ctx, debit, credit)
	return debit, credit, nil
}

func (l *Ledger) transfer(ctx context.Context, srcID, dstID id.AccountID, amount types.Amount) (debit, credit *transaction.Transaction, srcBal, dstBal types.Amount, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	src, err := l.store.GetAccount(ctx, srcID)
	if err != nil {
		return nil, nil, srcBal, dstBal, fmt.Errorf("transfer from %s: %w", srcID, err)
	}
	dst, err := l.store.GetAccount(ctx, dstID)
	if err != nil {
		return nil, nil, srcBal, dstBal, fmt.Errorf("transfer to %s: %w", dstID, err)
	}
	if src.Currency != dst.Currency {
		return nil, nil, srcBal, dstBal, fmt.Errorf("transfer %s to %s: %w", src.Currency, dst.Currency, ErrCurrencyMismatch)
	}
	if src.Balance.LessThan(amount) {
		return nil, nil, srcBal, dstBal, fmt.Errorf("transfer %s from %s holding %s: %w", amount, srcID, src.Balance, ErrInsufficientFunds)
	}

	now := l.clock()
	debit = &transaction.Transaction{
		ID:          id.NewTransactionID(),
		AccountID:   src.ID,
		Amount:      amount.Neg(),
		Currency:    src.Currency,
		Type:        transaction.TypeTransferOut,
		Timestamp:   now,
		Description: "Transfer to " + dst.ID.String(),
	}
	credit = &transaction.Transaction{
		ID:          id.NewTransactionID(),
		AccountID:   dst.ID,
		Amount:      amount,
		Currency:    dst.Currency,
		Type:        transaction.TypeTransferIn,
		Timestamp:   now,
		Description: "Transfer from " + src.ID.String(),
	}

	if err := l.store.Post(ctx, debit, credit); err != nil {
		return nil, nil, srcBal, dstBal, err
	}

	l.logPosted(debit)
	l.logPosted(credit)
	return debit, credit, src.Balance.Add(debit.Amount), dst.Balance.Add(credit.Amount), nil
}

// postOne posts a single signed movement and returns it with the
// resulting balance.
func (l *Ledger) postOne(ctx context.Context, acctID id.AccountID, signed types.Amount, typ transaction.Type, description string) (*transaction.Transaction, types.Amount, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, err := l.store.GetAccount(ctx, acctID)
	if err != nil {
		return nil, types.Amount{}, fmt.Errorf("post to %s: %w", acctID, err)
	}

	balance := a.Balance.Add(signed)
	if balance.IsNegative() {
		return nil, types.Amount{}, fmt.Errorf("withdraw %s from %s holding %s: %w", signed.Neg(), acctID, a.Balance, ErrInsufficientFunds)
	}

	txn := &transaction.Transaction{
		ID:          id.NewTransactionID(),
		AccountID:   a.ID,
		Amount:      signed,
		Currency:    a.Currency,
		Type:        typ,
		Timestamp:   l.clock(),
		Description: description,
	}
	if err := l.store.Post(ctx, txn); err != nil {
		return nil, types.Amount{}, err
	}

	l.logPosted(txn)
	return txn, balance, nil
}

func (l *Ledger) logPosted(txn *transaction.Transaction) {
	l.logger.Debug("transaction posted",
		"txn_id", txn.ID,
		"account_id", txn.AccountID,
		"type", txn.Type,
		"amount", types.FormatAmount(txn.Amount, txn.Currency),
	)
}
